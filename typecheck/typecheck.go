// Package typecheck cross-references a component's message set against its
// endpoints and enforces identifier uniqueness. It is a batch pass: every
// defect in the component is reported in one run, in declaration order.
package typecheck

import (
	"github.com/bloxgen-xyz/go-bloxgen/diag"
	"github.com/bloxgen-xyz/go-bloxgen/schema"
)

type checker struct {
	c     *schema.Component
	diags []diag.Diagnostic
}

// Check validates the component's type consistency and returns its
// diagnostics. Errors are fatal to emission; warnings are not.
func Check(c *schema.Component) []diag.Diagnostic {
	ck := &checker{c: c}
	ck.checkDuplicates()
	ck.checkEndpoints()
	ck.checkDefaults()
	return ck.diags
}

func (ck *checker) errorf(code diag.Code, ident, format string, args ...any) {
	d := diag.Errorf(diag.PassTypecheck, code, ident, format, args...)
	d.Component = ck.c.Ident
	ck.diags = append(ck.diags, d)
}

func (ck *checker) warnf(code diag.Code, ident, format string, args ...any) {
	d := diag.Warnf(diag.PassTypecheck, code, ident, format, args...)
	d.Component = ck.c.Ident
	ck.diags = append(ck.diags, d)
}

// checkDuplicates enforces uniqueness within each namespace independently.
// The same identifier may appear in different namespaces without error.
func (ck *checker) checkDuplicates() {
	ck.dupes("states", stateIdents(ck.c.States))
	ck.dupes("message variants", variantIdents(ck.c.MessageSet.Variants))
	ck.dupes("handles", handleIdents(ck.c.Handles))
	ck.dupes("receivers", receiverIdents(ck.c.Receivers))
	ck.dupes("fields", fieldIdents(ck.c.ExtState.Fields))
	ck.dupes("methods", methodIdents(ck.c.ExtState.Methods))
	ck.dupes("init-args fields", fieldIdents(ck.c.ExtState.InitArgs.Fields))
}

// dupes reports every repeated occurrence after the first.
func (ck *checker) dupes(namespace string, idents []string) {
	seen := make(map[string]bool, len(idents))
	for _, ident := range idents {
		if seen[ident] {
			ck.errorf(diag.CodeDuplicateIdentifier, ident,
				"identifier %q declared more than once in the %s namespace", ident, namespace)
			continue
		}
		seen[ident] = true
	}
}

// checkEndpoints matches each handle and receiver against the message set.
// An endpoint matches only a variant carrying exactly one payload type equal
// to the endpoint's declared type; zero-payload variants carry no data and
// never satisfy an endpoint. Re-binding a payload type already bound by an
// earlier endpoint of the same kind is warned as unused: dispatch is by
// payload type, so the later duplicate can never be selected.
func (ck *checker) checkEndpoints() {
	boundHandles := make(map[string]string) // payload type -> first handle
	for _, h := range ck.c.Handles {
		if ck.c.MessageSet.VariantForPayload(h.Payload) == nil {
			ck.errorf(diag.CodeDanglingHandle, h.Ident,
				"handle %q sends payload type %q, which no message variant carries as its sole payload",
				h.Ident, h.Payload)
			continue
		}
		if first, ok := boundHandles[h.Payload]; ok {
			ck.warnf(diag.CodeUnusedHandle, h.Ident,
				"handle %q re-binds payload type %q already bound by handle %q", h.Ident, h.Payload, first)
			continue
		}
		boundHandles[h.Payload] = h.Ident
	}

	boundReceivers := make(map[string]string)
	for _, r := range ck.c.Receivers {
		if ck.c.MessageSet.VariantForPayload(r.Payload) == nil {
			ck.errorf(diag.CodeDanglingReceiver, r.Ident,
				"receiver %q accepts payload type %q, which no message variant carries as its sole payload",
				r.Ident, r.Payload)
			continue
		}
		if first, ok := boundReceivers[r.Payload]; ok {
			ck.warnf(diag.CodeUnusedReceiver, r.Ident,
				"receiver %q re-binds payload type %q already bound by receiver %q", r.Ident, r.Payload, first)
			continue
		}
		boundReceivers[r.Payload] = r.Ident
	}
}

// checkDefaults enforces the constructor policy: every extended-state field
// is written either from an init-args field of the same identifier or from
// an explicit default literal. A field covered by neither is an error; the
// schema must say what the constructor writes, the compiler never invents a
// zero value for an opaque type.
func (ck *checker) checkDefaults() {
	for i := range ck.c.ExtState.Fields {
		f := &ck.c.ExtState.Fields[i]
		if ck.c.ExtState.InitArgs.InitField(f.Ident) != nil {
			continue
		}
		if f.Default != "" {
			continue
		}
		ck.errorf(diag.CodeMissingDefault, f.Ident,
			"extended-state field %q is absent from init-args %q and declares no default",
			f.Ident, ck.c.ExtState.InitArgs.Ident)
	}
}

func stateIdents(ss []schema.StateNode) []string {
	out := make([]string, len(ss))
	for i := range ss {
		out[i] = ss[i].Ident
	}
	return out
}

func variantIdents(vs []schema.Variant) []string {
	out := make([]string, len(vs))
	for i := range vs {
		out[i] = vs[i].Ident
	}
	return out
}

func handleIdents(hs []schema.Handle) []string {
	out := make([]string, len(hs))
	for i := range hs {
		out[i] = hs[i].Ident
	}
	return out
}

func receiverIdents(rs []schema.Receiver) []string {
	out := make([]string, len(rs))
	for i := range rs {
		out[i] = rs[i].Ident
	}
	return out
}

func fieldIdents(fs []schema.Field) []string {
	out := make([]string, len(fs))
	for i := range fs {
		out[i] = fs[i].Ident
	}
	return out
}

func methodIdents(ms []schema.Method) []string {
	out := make([]string, len(ms))
	for i := range ms {
		out[i] = ms[i].Ident
	}
	return out
}
