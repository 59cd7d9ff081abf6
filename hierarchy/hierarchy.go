// Package hierarchy resolves the state tree of a component. It verifies that
// parent references form a forest, reports unknown parents and cycles, and
// computes every state's ancestor chain (self up to root). The chain is the
// inheritance metadata the emitter bakes into generated state machines: the
// runtime walks it to dispatch unhandled messages to parent states.
package hierarchy

import (
	"strings"

	"github.com/bloxgen-xyz/go-bloxgen/diag"
	"github.com/bloxgen-xyz/go-bloxgen/schema"
)

// Chain is one state's ordered ancestor chain, from the state itself to its
// root, inclusive.
type Chain struct {
	State     string
	Ancestors []string
}

// Depth is the state's depth in the forest: 0 for roots.
func (c Chain) Depth() int {
	return len(c.Ancestors) - 1
}

// Result holds the resolved chains in state declaration order. Ordering
// never depends on map iteration so regenerated artifacts stay byte-stable.
type Result struct {
	Chains []Chain

	byState map[string][]string
	parents map[string]string
}

// ChainOf returns the ancestor chain for a state, or nil if the state is
// unknown or sits on (or below) a broken link.
func (r *Result) ChainOf(ident string) []string {
	return r.byState[ident]
}

// Parent returns the parent identifier of a state, or "" for roots and
// unknown states.
func (r *Result) Parent(ident string) string {
	return r.parents[ident]
}

const (
	statusUnvisited = iota
	statusResolving
	statusOK
	statusBroken
)

type resolver struct {
	states  []schema.StateNode
	byIdent map[string]*schema.StateNode

	status map[string]int
	chains map[string][]string
	diags  []diag.Diagnostic
}

// Resolve builds the ancestor chains for every state and reports
// UnknownParent and CyclicHierarchy diagnostics. It never stops at the first
// defect: every broken link in the input shows up in the returned slice.
func Resolve(states []schema.StateNode) (*Result, []diag.Diagnostic) {
	r := &resolver{
		states:  states,
		byIdent: make(map[string]*schema.StateNode, len(states)),
		status:  make(map[string]int, len(states)),
		chains:  make(map[string][]string, len(states)),
	}

	// First declaration wins on duplicate idents; duplicates themselves are
	// the type checker's report, not ours.
	for i := range states {
		if _, ok := r.byIdent[states[i].Ident]; !ok {
			r.byIdent[states[i].Ident] = &states[i]
		}
	}

	for i := range states {
		r.resolve(states[i].Ident)
	}

	result := &Result{
		byState: r.chains,
		parents: make(map[string]string, len(states)),
	}
	for i := range states {
		if _, ok := result.parents[states[i].Ident]; !ok {
			result.parents[states[i].Ident] = states[i].Parent
		}
		if chain, ok := r.chains[states[i].Ident]; ok {
			result.Chains = append(result.Chains, Chain{
				State:     states[i].Ident,
				Ancestors: chain,
			})
		}
	}
	return result, r.diags
}

// resolve walks parent links iteratively. The walk is bounded by the total
// state count, so it terminates even if the cycle bookkeeping were wrong.
func (r *resolver) resolve(ident string) {
	if r.status[ident] != statusUnvisited {
		return
	}

	// Path from ident toward the root, in walk order.
	var path []string
	onPath := make(map[string]int)

	current := ident
	for steps := 0; steps <= len(r.states); steps++ {
		if at, seen := onPath[current]; seen {
			r.reportCycle(path[at:])
			r.markBroken(path)
			return
		}
		switch r.status[current] {
		case statusOK:
			r.markResolved(path, r.chains[current])
			return
		case statusBroken:
			r.markBroken(path)
			return
		}

		onPath[current] = len(path)
		path = append(path, current)
		r.status[current] = statusResolving

		node := r.byIdent[current]
		if node.IsRoot() {
			r.markResolved(path, nil)
			return
		}
		if _, ok := r.byIdent[node.Parent]; !ok {
			r.diags = append(r.diags, diag.Errorf(diag.PassHierarchy, diag.CodeUnknownParent,
				current, "state %q references unknown parent %q", current, node.Parent))
			r.markBroken(path)
			return
		}
		current = node.Parent
	}

	// Traversal bound exhausted; treat the whole path as broken.
	r.markBroken(path)
}

// markResolved stores chains for every state on the path. suffix is the
// already-resolved chain hanging below the deepest path element (nil when
// the path ends at a root).
func (r *resolver) markResolved(path []string, suffix []string) {
	for i := len(path) - 1; i >= 0; i-- {
		chain := make([]string, 0, 1+len(suffix))
		chain = append(chain, path[i])
		chain = append(chain, suffix...)
		r.chains[path[i]] = chain
		r.status[path[i]] = statusOK
		suffix = chain
	}
}

func (r *resolver) markBroken(path []string) {
	for _, ident := range path {
		r.status[ident] = statusBroken
	}
}

// reportCycle emits one CyclicHierarchy diagnostic listing the full cycle,
// closed back on its first member.
func (r *resolver) reportCycle(cycle []string) {
	listed := append(append([]string(nil), cycle...), cycle[0])
	r.diags = append(r.diags, diag.Errorf(diag.PassHierarchy, diag.CodeCyclicHierarchy,
		cycle[0], "state hierarchy contains a cycle: %s", strings.Join(listed, " -> ")))
}
