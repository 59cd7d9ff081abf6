// Package bloxide generates actor scaffolding for the bloxide runtime from a
// validated component schema. Emission is deterministic: the same component
// and hierarchy always produce byte-identical artifacts, so regenerated
// output stays diffable under version control.
package bloxide

import (
	"fmt"
	"strings"

	"github.com/bloxgen-xyz/go-bloxgen/hierarchy"
	"github.com/bloxgen-xyz/go-bloxgen/schema"
)

// Artifact is one generated source unit, addressable by a stable name
// derived from the component and entity identifiers.
type Artifact struct {
	Name    string // e.g. "states/create"
	Path    string // output-relative file path, e.g. "actor/states/create.rs"
	Content string
}

// Bundle is the full artifact set for one component.
type Bundle struct {
	Component string
	Artifacts []Artifact
}

// Artifact returns the named artifact, or nil.
func (b *Bundle) Artifact(name string) *Artifact {
	for i := range b.Artifacts {
		if b.Artifacts[i].Name == name {
			return &b.Artifacts[i]
		}
	}
	return nil
}

// Generate emits the artifact bundle for a component. The component must
// have passed validation: it declares at least one state, the hierarchy
// result carries a chain for every state, and each endpoint resolves to a
// message variant.
func Generate(c *schema.Component, h *hierarchy.Result) *Bundle {
	g := &generator{c: c, h: h}
	return g.generate()
}

type generator struct {
	c *schema.Component
	h *hierarchy.Result
}

// Derived artifact identifiers. The schema names the message set, extended
// state and init args; the surrounding wiring types follow the component
// identifier by convention.
func (g *generator) statesEnumName() string { return g.c.Ident + "States" }
func (g *generator) componentsName() string { return g.c.Ident + "Components" }
func (g *generator) handlesName() string    { return g.c.Ident + "Handles" }
func (g *generator) receiversName() string  { return g.c.Ident + "Receivers" }
func (g *generator) moduleName() string     { return strings.ToLower(g.c.Ident) }

func (g *generator) messageSetName() string {
	if g.c.MessageSet.Ident != "" {
		return g.c.MessageSet.Ident
	}
	return g.c.Ident + "MessageSet"
}

func (g *generator) extStateName() string {
	if g.c.ExtState.Ident != "" {
		return g.c.ExtState.Ident
	}
	return g.c.Ident + "ExtState"
}

func (g *generator) initArgsName() string {
	if g.c.ExtState.InitArgs.Ident != "" {
		return g.c.ExtState.InitArgs.Ident
	}
	return g.extStateName() + "InitArgs"
}

func (g *generator) generate() *Bundle {
	bundle := &Bundle{Component: g.c.Ident}
	mod := g.moduleName()
	if g.c.Target != "" {
		mod = g.c.Target
	}

	add := func(name, relPath, content string) {
		bundle.Artifacts = append(bundle.Artifacts, Artifact{
			Name:    name,
			Path:    mod + "/" + relPath,
			Content: content,
		})
	}

	for i := range g.c.States {
		state := &g.c.States[i]
		lower := strings.ToLower(state.Ident)
		add("states/"+lower, "states/"+lower+".rs", g.generateStateModule(state))
	}
	add("states/mod", "states/mod.rs", g.generateStateEnum())
	add("messaging", "messaging.rs", g.generateMessageSet())
	add("component", "component.rs", g.generateComponent())
	add("ext_state", "ext_state.rs", g.generateExtState())
	add("runtime", "runtime.rs", g.generateRuntime())
	add("mod", "mod.rs", g.generateModIndex())

	return bundle
}

// generateStateModule emits the per-state module: a unit struct implementing
// the runtime's State trait, with the parent link baked in for fallback
// dispatch through the hierarchy.
func (g *generator) generateStateModule(state *schema.StateNode) string {
	var b strings.Builder

	name := state.Ident
	chain := g.h.ChainOf(name)

	fmt.Fprintf(&b, "use bloxide_core::{components::Components, message::MessageSet, state_machine::{StateMachine, State, Transition}};\n")
	fmt.Fprintf(&b, "use log::trace;\n\n")

	fmt.Fprintf(&b, "/// State implementation for %s state\n", name)
	if len(chain) > 0 {
		fmt.Fprintf(&b, "/// Ancestor chain: %s\n", strings.Join(chain, " -> "))
	}
	fmt.Fprintf(&b, "#[derive(Debug, Clone, PartialEq, Eq)]\n")
	fmt.Fprintf(&b, "pub struct %s;\n\n", name)

	fmt.Fprintf(&b, "impl State<Components> for %s {\n", name)
	fmt.Fprintf(&b, "    fn on_entry(&self, _state_machine: &mut StateMachine<Components>) {\n")
	fmt.Fprintf(&b, "        trace!(\"State on_entry: %s\");\n", name)
	fmt.Fprintf(&b, "    }\n\n")
	fmt.Fprintf(&b, "    fn on_exit(&self, _state_machine: &mut StateMachine<Components>) {\n")
	fmt.Fprintf(&b, "        trace!(\"State on_exit: %s\");\n", name)
	fmt.Fprintf(&b, "    }\n\n")

	fmt.Fprintf(&b, "    fn parent(&self) -> Components::States {\n")
	if state.IsRoot() {
		fmt.Fprintf(&b, "        Components::States::from(self.clone()) // No parent state\n")
	} else {
		fmt.Fprintf(&b, "        Components::States::from(super::%s::%s)\n",
			strings.ToLower(state.Parent), state.Parent)
	}
	fmt.Fprintf(&b, "    }\n\n")

	fmt.Fprintf(&b, "    fn handle_message(\n")
	fmt.Fprintf(&b, "        &self,\n")
	fmt.Fprintf(&b, "        _state_machine: &mut StateMachine<Components>,\n")
	fmt.Fprintf(&b, "        _message: Components::MessageSet,\n")
	fmt.Fprintf(&b, "    ) -> Option<Transition<Components::States, Components::MessageSet>> {\n")
	fmt.Fprintf(&b, "        None\n")
	fmt.Fprintf(&b, "    }\n")
	fmt.Fprintf(&b, "}\n")

	return b.String()
}

// generateStateEnum emits states/mod.rs: the unified state enum, trait
// dispatch over every variant, and the ancestor-chain table the runtime uses
// for hierarchy traversal.
func (g *generator) generateStateEnum() string {
	var b strings.Builder
	enumName := g.statesEnumName()

	for i := range g.c.States {
		lower := strings.ToLower(g.c.States[i].Ident)
		fmt.Fprintf(&b, "mod %s;\n", lower)
	}
	for i := range g.c.States {
		lower := strings.ToLower(g.c.States[i].Ident)
		fmt.Fprintf(&b, "pub use %s::%s;\n", lower, g.c.States[i].Ident)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "use bloxide_core::{components::Components, message::MessageSet, state_machine::{StateMachine, State, Transition}};\n\n")

	fmt.Fprintf(&b, "/// Enumeration of all possible states for the actor's state machine\n")
	fmt.Fprintf(&b, "#[derive(Clone, PartialEq, Debug)]\n")
	fmt.Fprintf(&b, "pub enum %s {\n", enumName)
	for i := range g.c.States {
		name := g.c.States[i].Ident
		fmt.Fprintf(&b, "    /// %s state\n", name)
		fmt.Fprintf(&b, "    %s(%s),\n", name, name)
	}
	fmt.Fprintf(&b, "}\n\n")

	fmt.Fprintf(&b, "impl State<Components> for %s {\n", enumName)

	fmt.Fprintf(&b, "    /// Handles incoming messages and returns a transition to a new state if needed\n")
	fmt.Fprintf(&b, "    fn handle_message(\n")
	fmt.Fprintf(&b, "        &self,\n")
	fmt.Fprintf(&b, "        state_machine: &mut StateMachine<Components>,\n")
	fmt.Fprintf(&b, "        message: Components::MessageSet,\n")
	fmt.Fprintf(&b, "    ) -> Option<Transition<Components::States, Components::MessageSet>> {\n")
	b.WriteString(g.matchArms(enumName, "state.handle_message(state_machine, message)"))
	fmt.Fprintf(&b, "    }\n\n")

	fmt.Fprintf(&b, "    /// Executes actions when entering a state\n")
	fmt.Fprintf(&b, "    fn on_entry(&self, state_machine: &mut StateMachine<Components>) {\n")
	b.WriteString(g.matchArms(enumName, "state.on_entry(state_machine)"))
	fmt.Fprintf(&b, "    }\n\n")

	fmt.Fprintf(&b, "    /// Executes actions when exiting a state\n")
	fmt.Fprintf(&b, "    fn on_exit(&self, state_machine: &mut StateMachine<Components>) {\n")
	b.WriteString(g.matchArms(enumName, "state.on_exit(state_machine)"))
	fmt.Fprintf(&b, "    }\n\n")

	fmt.Fprintf(&b, "    /// Returns the parent state in the state machine hierarchy\n")
	fmt.Fprintf(&b, "    fn parent(&self) -> Components::States {\n")
	b.WriteString(g.matchArms(enumName, "state.parent()"))
	fmt.Fprintf(&b, "    }\n")
	fmt.Fprintf(&b, "}\n\n")

	fmt.Fprintf(&b, "/// Ancestor chain for each state, ordered from the state itself to its root.\n")
	fmt.Fprintf(&b, "/// The runtime walks this chain when resolving inherited behavior.\n")
	fmt.Fprintf(&b, "pub fn ancestor_chain(state: &%s) -> &'static [&'static str] {\n", enumName)
	fmt.Fprintf(&b, "    match state {\n")
	for i := range g.c.States {
		name := g.c.States[i].Ident
		chain := g.h.ChainOf(name)
		quoted := make([]string, len(chain))
		for j, s := range chain {
			quoted[j] = fmt.Sprintf("%q", s)
		}
		fmt.Fprintf(&b, "        %s::%s(_) => &[%s],\n", enumName, name, strings.Join(quoted, ", "))
	}
	fmt.Fprintf(&b, "    }\n")
	fmt.Fprintf(&b, "}\n")

	return b.String()
}

func (g *generator) matchArms(enumName, call string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "        match self {\n")
	for i := range g.c.States {
		fmt.Fprintf(&b, "            %s::%s(state) => %s,\n", enumName, g.c.States[i].Ident, call)
	}
	fmt.Fprintf(&b, "        }\n")
	return b.String()
}

// generateMessageSet emits the tagged union mirroring the message set, one
// case per variant with its ordered payload types preserved.
func (g *generator) generateMessageSet() string {
	var b strings.Builder
	name := g.messageSetName()

	fmt.Fprintf(&b, "//! # %s Message Module\n", name)
	fmt.Fprintf(&b, "//!\n")
	fmt.Fprintf(&b, "//! This module defines the message types and payloads used for communication\n")
	fmt.Fprintf(&b, "//! within the system.\n\n")

	fmt.Fprintf(&b, "use bloxide_tokio::messaging::{Message, MessageSet};\n\n")

	fmt.Fprintf(&b, "/// The primary message set for the actor's state machine.\n")
	fmt.Fprintf(&b, "///\n")
	fmt.Fprintf(&b, "/// This enum contains all possible message types that can be dispatched to the\n")
	fmt.Fprintf(&b, "/// actor's state machine, allowing for unified message processing logic.\n")
	fmt.Fprintf(&b, "pub enum %s {\n", name)
	for i := range g.c.MessageSet.Variants {
		v := &g.c.MessageSet.Variants[i]
		fmt.Fprintf(&b, "    /// %s\n", v.Ident)
		if len(v.Payloads) == 0 {
			fmt.Fprintf(&b, "    %s,\n", v.Ident)
			continue
		}
		wrapped := make([]string, len(v.Payloads))
		for j, p := range v.Payloads {
			wrapped[j] = fmt.Sprintf("Message<%s>", p)
		}
		fmt.Fprintf(&b, "    %s(%s),\n", v.Ident, strings.Join(wrapped, ", "))
	}
	fmt.Fprintf(&b, "}\n\n")

	fmt.Fprintf(&b, "impl MessageSet for %s {}\n", name)

	return b.String()
}

// generateComponent emits the component wiring: the Components impl tying
// together states, messages, extended state, and the endpoint structs.
func (g *generator) generateComponent() string {
	var b strings.Builder

	actor := g.c.Ident
	componentName := g.componentsName()

	fmt.Fprintf(&b, "//! # %s Components\n", actor)
	fmt.Fprintf(&b, "//!\n")
	fmt.Fprintf(&b, "//! This module defines the component structure for the %s Blox.\n", actor)
	fmt.Fprintf(&b, "//! It specifies the states, message types, extended state, and communication\n")
	fmt.Fprintf(&b, "//! channels that make up the %s component.\n\n", actor)

	fmt.Fprintf(&b, "use super::{\n")
	fmt.Fprintf(&b, "    ext_state::%s,\n", g.extStateName())
	fmt.Fprintf(&b, "    messaging::%s,\n", g.messageSetName())
	fmt.Fprintf(&b, "    states::%s,\n", g.statesEnumName())
	fmt.Fprintf(&b, "};\n")
	fmt.Fprintf(&b, "use bloxide_tokio::{\n")
	fmt.Fprintf(&b, "    components::{Components, Runtime},\n")
	fmt.Fprintf(&b, "    messaging::MessageSender,\n")
	fmt.Fprintf(&b, "    TokioMessageHandle, TokioRuntime,\n")
	fmt.Fprintf(&b, "};\n\n")

	fmt.Fprintf(&b, "/// Defines the structure of the %s Blox component\n", actor)
	fmt.Fprintf(&b, "pub struct %s;\n\n", componentName)

	fmt.Fprintf(&b, "impl Components for %s {\n", componentName)
	fmt.Fprintf(&b, "    type States = %s;\n", g.statesEnumName())
	fmt.Fprintf(&b, "    type MessageSet = %s;\n", g.messageSetName())
	fmt.Fprintf(&b, "    type ExtendedState = %s;\n", g.extStateName())
	fmt.Fprintf(&b, "    type Receivers = %s;\n", g.receiversName())
	fmt.Fprintf(&b, "    type Handles = %s;\n", g.handlesName())
	fmt.Fprintf(&b, "}\n\n")

	fmt.Fprintf(&b, "/// Receiver channels for the %s component\n", actor)
	fmt.Fprintf(&b, "pub struct %s {\n", g.receiversName())
	for i := range g.c.Receivers {
		r := &g.c.Receivers[i]
		fmt.Fprintf(&b, "    pub %s: <<TokioRuntime as Runtime>::MessageHandle<%s> as MessageSender>::ReceiverType,\n",
			r.Ident, schema.TypeBase(r.Payload))
	}
	fmt.Fprintf(&b, "}\n\n")

	fmt.Fprintf(&b, "/// Message handles for sending messages from the %s component\n", actor)
	fmt.Fprintf(&b, "pub struct %s {\n", g.handlesName())
	for i := range g.c.Handles {
		h := &g.c.Handles[i]
		fmt.Fprintf(&b, "    pub %s: TokioMessageHandle<%s>,\n", h.Ident, schema.TypeBase(h.Payload))
	}
	fmt.Fprintf(&b, "}\n")

	return b.String()
}

// generateExtState emits the extended-state struct, the init-args struct,
// the constructor, and the user methods. Method bodies are opaque blobs
// re-emitted verbatim; the compiler never parses them. Every field the init
// args do not cover is written from its schema default literal; validation
// guarantees one exists.
func (g *generator) generateExtState() string {
	var b strings.Builder

	esName := g.extStateName()
	iaName := g.initArgsName()
	es := &g.c.ExtState

	fmt.Fprintf(&b, "//! # %s Extended State\n\n", g.c.Ident)
	fmt.Fprintf(&b, "use bloxide_tokio::state_machine::ExtendedState;\n\n")

	fmt.Fprintf(&b, "/// Private extended state for the %s component\n", g.c.Ident)
	fmt.Fprintf(&b, "pub struct %s {\n", esName)
	for i := range es.Fields {
		fmt.Fprintf(&b, "    pub %s: %s,\n", es.Fields[i].Ident, es.Fields[i].Type)
	}
	fmt.Fprintf(&b, "}\n\n")

	fmt.Fprintf(&b, "/// Constructor-time payload for %s\n", esName)
	fmt.Fprintf(&b, "pub struct %s {\n", iaName)
	for i := range es.InitArgs.Fields {
		fmt.Fprintf(&b, "    pub %s: %s,\n", es.InitArgs.Fields[i].Ident, es.InitArgs.Fields[i].Type)
	}
	fmt.Fprintf(&b, "}\n\n")

	fmt.Fprintf(&b, "impl ExtendedState for %s {\n", esName)
	fmt.Fprintf(&b, "    type InitArgs = %s;\n\n", iaName)
	fmt.Fprintf(&b, "    fn new(args: Self::InitArgs) -> Self {\n")
	fmt.Fprintf(&b, "        Self {\n")
	for i := range es.Fields {
		f := &es.Fields[i]
		if es.InitArgs.InitField(f.Ident) != nil {
			fmt.Fprintf(&b, "            %s: args.%s,\n", f.Ident, f.Ident)
		} else {
			fmt.Fprintf(&b, "            %s: %s,\n", f.Ident, f.Default)
		}
	}
	fmt.Fprintf(&b, "        }\n")
	fmt.Fprintf(&b, "    }\n")
	fmt.Fprintf(&b, "}\n")

	if len(es.Methods) > 0 {
		fmt.Fprintf(&b, "\nimpl %s {\n", esName)
		for i := range es.Methods {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(g.generateMethod(&es.Methods[i]))
		}
		fmt.Fprintf(&b, "}\n")
	}

	return b.String()
}

// generateMethod renders one method with its declared signature and
// pass-through body. Receiver-style arguments ("self" and friends) are
// emitted bare, everything else as "ident: type".
func (g *generator) generateMethod(m *schema.Method) string {
	var b strings.Builder

	args := make([]string, len(m.Args))
	for i := range m.Args {
		switch m.Args[i].Ident {
		case "self", "&self", "&mut self":
			args[i] = m.Args[i].Ident
		default:
			args[i] = fmt.Sprintf("%s: %s", m.Args[i].Ident, m.Args[i].Type)
		}
	}

	ret := ""
	if m.Ret != "" {
		ret = fmt.Sprintf(" -> %s", m.Ret)
	}

	fmt.Fprintf(&b, "    pub fn %s(%s)%s {\n", m.Ident, strings.Join(args, ", "), ret)
	fmt.Fprintf(&b, "        %s\n", m.Body)
	fmt.Fprintf(&b, "    }\n")

	return b.String()
}

// generateRuntime emits the select-loop dispatcher: one arm per receiver,
// forwarding received payloads into the state machine wrapped in the
// matching message-set variant.
func (g *generator) generateRuntime() string {
	var b strings.Builder

	enumName := g.statesEnumName()
	msName := g.messageSetName()

	fmt.Fprintf(&b, "use bloxide_tokio::components::{Blox, Runnable};\n")
	fmt.Fprintf(&b, "use bloxide_tokio::std_exports::*;\n")
	fmt.Fprintf(&b, "use tokio::select;\n\n")

	fmt.Fprintf(&b, "use super::{\n")
	fmt.Fprintf(&b, "    component::%s,\n", g.componentsName())
	fmt.Fprintf(&b, "    messaging::%s,\n", msName)
	fmt.Fprintf(&b, "    states::%s,\n", enumName)
	fmt.Fprintf(&b, "};\n\n")

	first := g.c.States[0].Ident
	second := first
	if len(g.c.States) > 1 {
		second = g.c.States[1].Ident
	}

	fmt.Fprintf(&b, "impl Runnable<%s> for Blox<%s> {\n", g.componentsName(), g.componentsName())
	fmt.Fprintf(&b, "    fn run(mut self: Box<Self>) -> Pin<Box<dyn Future<Output = ()> + Send + 'static>> {\n")
	fmt.Fprintf(&b, "        self.state_machine.init(\n")
	fmt.Fprintf(&b, "            &%s::%s(super::states::%s),\n", enumName, first, first)
	fmt.Fprintf(&b, "            &%s::%s(super::states::%s),\n", enumName, second, second)
	fmt.Fprintf(&b, "        );\n\n")
	fmt.Fprintf(&b, "        Box::pin(async move {\n")
	fmt.Fprintf(&b, "            loop {\n")
	fmt.Fprintf(&b, "                select! {\n")
	for i := range g.c.Receivers {
		r := &g.c.Receivers[i]
		variant := g.c.MessageSet.VariantForPayload(r.Payload)
		if variant == nil {
			continue
		}
		fmt.Fprintf(&b, "                    Some(msg) = self.receivers.%s.recv() => {\n", r.Ident)
		fmt.Fprintf(&b, "                        let current_state = self.state_machine.current_state.clone();\n")
		fmt.Fprintf(&b, "                        self.state_machine.dispatch(%s::%s(msg), &current_state);\n",
			msName, variant.Ident)
		fmt.Fprintf(&b, "                    }\n")
	}
	fmt.Fprintf(&b, "                }\n")
	fmt.Fprintf(&b, "            }\n")
	fmt.Fprintf(&b, "        })\n")
	fmt.Fprintf(&b, "    }\n")
	fmt.Fprintf(&b, "}\n")

	return b.String()
}

// generateModIndex emits the module index wiring all generated files.
func (g *generator) generateModIndex() string {
	return "pub mod component;\n" +
		"pub mod ext_state;\n" +
		"pub mod messaging;\n" +
		"pub mod runtime;\n" +
		"pub mod states;\n"
}
