// Package schema defines the component schema compiled into actor scaffolding.
// A schema document declares one or more components, each with a hierarchical
// state machine, a message set, send/receive endpoints, and a private extended
// state. The types here are a pure data model: the loader produces them, the
// resolver and checker read them, and the emitter walks them. Once a document
// is built it is never mutated.
package schema

// Document is the root of one schema file. Components are independent units
// of compilation and share nothing with each other.
type Document struct {
	Components []Component `json:"components" yaml:"components"`
}

// Component describes one actor component under compilation.
type Component struct {
	Ident string `json:"ident" yaml:"ident"`

	// Target is the output descriptor: the directory the generated module
	// is written under. Empty means the caller decides.
	Target string `json:"target,omitempty" yaml:"target,omitempty"`

	States     []StateNode `json:"states" yaml:"states"`
	MessageSet MessageSet  `json:"message_set" yaml:"message_set"`
	Handles    []Handle    `json:"handles,omitempty" yaml:"handles,omitempty"`
	Receivers  []Receiver  `json:"receivers,omitempty" yaml:"receivers,omitempty"`
	ExtState   ExtState    `json:"ext_state" yaml:"ext_state"`
}

// StateNode is one state in the component's hierarchical state machine.
// An empty Parent marks a root state.
type StateNode struct {
	Ident  string `json:"ident" yaml:"ident"`
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`
}

// IsRoot reports whether the state has no parent.
func (s *StateNode) IsRoot() bool {
	return s.Parent == ""
}

// MessageSet is the tagged union of every message the component exchanges.
type MessageSet struct {
	Ident    string    `json:"ident" yaml:"ident"`
	Variants []Variant `json:"variants,omitempty" yaml:"variants,omitempty"`
}

// Variant is one case of the message set. Payloads are opaque type
// references, packed positionally; a variant may carry zero of them.
type Variant struct {
	Ident    string   `json:"ident" yaml:"ident"`
	Payloads []string `json:"payloads,omitempty" yaml:"payloads,omitempty"`
}

// SolePayload returns the variant's payload type when it carries exactly
// one. Endpoints only ever bind single-payload variants.
func (v *Variant) SolePayload() (string, bool) {
	if len(v.Payloads) != 1 {
		return "", false
	}
	return v.Payloads[0], true
}

// Handle is an outbound endpoint: a named channel typed to send one payload
// type.
type Handle struct {
	Ident   string `json:"ident" yaml:"ident"`
	Payload string `json:"payload" yaml:"payload"`
}

// Receiver is the inbound dual of a Handle.
type Receiver struct {
	Ident   string `json:"ident" yaml:"ident"`
	Payload string `json:"payload" yaml:"payload"`
}

// ExtState is the component's private extended state: user-defined fields,
// methods with opaque pass-through bodies, and the constructor argument list.
type ExtState struct {
	Ident    string   `json:"ident" yaml:"ident"`
	Fields   []Field  `json:"fields,omitempty" yaml:"fields,omitempty"`
	Methods  []Method `json:"methods,omitempty" yaml:"methods,omitempty"`
	InitArgs InitArgs `json:"init_args" yaml:"init_args"`
}

// Field is an identifier/type pair. Default is the literal written into the
// constructor when the field is not covered by the init args; it is
// re-emitted verbatim, never interpreted.
type Field struct {
	Ident   string `json:"ident" yaml:"ident"`
	Type    string `json:"type" yaml:"type"`
	Default string `json:"default,omitempty" yaml:"default,omitempty"`
}

// Method is a user-declared method on the extended state. The body is an
// opaque blob in the target language; the compiler preserves it byte for
// byte and never parses it.
type Method struct {
	Ident string  `json:"ident" yaml:"ident"`
	Args  []Field `json:"args,omitempty" yaml:"args,omitempty"`
	Ret   string  `json:"ret,omitempty" yaml:"ret,omitempty"`
	Body  string  `json:"body" yaml:"body"`
}

// InitArgs describes the constructor-time payload for the extended state.
type InitArgs struct {
	Ident  string  `json:"ident" yaml:"ident"`
	Fields []Field `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// StateByIdent returns the first state declared with the given identifier,
// or nil. Declaration order is the tiebreak everywhere in the compiler so
// that duplicate identifiers (reported elsewhere) never change behavior.
func (c *Component) StateByIdent(ident string) *StateNode {
	for i := range c.States {
		if c.States[i].Ident == ident {
			return &c.States[i]
		}
	}
	return nil
}

// VariantByIdent returns the first variant with the given identifier, or nil.
func (m *MessageSet) VariantByIdent(ident string) *Variant {
	for i := range m.Variants {
		if m.Variants[i].Ident == ident {
			return &m.Variants[i]
		}
	}
	return nil
}

// VariantForPayload returns the first variant carrying exactly the given
// single payload type, or nil. Zero-payload variants never match.
func (m *MessageSet) VariantForPayload(payload string) *Variant {
	for i := range m.Variants {
		if p, ok := m.Variants[i].SolePayload(); ok && p == payload {
			return &m.Variants[i]
		}
	}
	return nil
}

// InitField returns the init-args field with the given identifier, or nil.
func (ia *InitArgs) InitField(ident string) *Field {
	for i := range ia.Fields {
		if ia.Fields[i].Ident == ident {
			return &ia.Fields[i]
		}
	}
	return nil
}
