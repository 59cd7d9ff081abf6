package schema

// Builder provides a fluent API for constructing components in code. It is
// the programmatic twin of the loader: tests and embedding tools build
// schemas with it instead of shipping JSON fixtures.
//
//	c := schema.NewComponent("Actor").
//		State("Create").
//		ChildState("Update", "Create").
//		Messages("ActorMessage").
//		Variant("CustomValue1", "StandardPayload").
//		DeriveEndpoints().
//		ExtState("ActorExtState").
//		Field("counter", "u32", "0").
//		InitArgs("ActorInitArgs").
//		Build()
type Builder struct {
	c Component
}

// NewComponent starts a builder for a component with the given identifier.
func NewComponent(ident string) *Builder {
	return &Builder{c: Component{Ident: ident}}
}

// Target sets the output target descriptor.
func (b *Builder) Target(dir string) *Builder {
	b.c.Target = dir
	return b
}

// State adds a root state.
func (b *Builder) State(ident string) *Builder {
	b.c.States = append(b.c.States, StateNode{Ident: ident})
	return b
}

// ChildState adds a state with a parent reference.
func (b *Builder) ChildState(ident, parent string) *Builder {
	b.c.States = append(b.c.States, StateNode{Ident: ident, Parent: parent})
	return b
}

// Messages names the message set.
func (b *Builder) Messages(ident string) *Builder {
	b.c.MessageSet.Ident = ident
	return b
}

// Variant adds a message variant with its ordered payload types.
func (b *Builder) Variant(ident string, payloads ...string) *Builder {
	b.c.MessageSet.Variants = append(b.c.MessageSet.Variants, Variant{
		Ident:    ident,
		Payloads: payloads,
	})
	return b
}

// Handle adds an outbound endpoint.
func (b *Builder) Handle(ident, payload string) *Builder {
	b.c.Handles = append(b.c.Handles, Handle{Ident: ident, Payload: payload})
	return b
}

// Receiver adds an inbound endpoint.
func (b *Builder) Receiver(ident, payload string) *Builder {
	b.c.Receivers = append(b.c.Receivers, Receiver{Ident: ident, Payload: payload})
	return b
}

// DeriveEndpoints appends the conventional handle/receiver pair for every
// single-payload variant declared so far.
func (b *Builder) DeriveEndpoints() *Builder {
	handles, receivers := DeriveEndpoints(&b.c.MessageSet)
	b.c.Handles = append(b.c.Handles, handles...)
	b.c.Receivers = append(b.c.Receivers, receivers...)
	return b
}

// ExtState names the extended-state structure.
func (b *Builder) ExtState(ident string) *Builder {
	b.c.ExtState.Ident = ident
	return b
}

// Field adds an extended-state field. An empty def means no default; such a
// field must then appear in the init args.
func (b *Builder) Field(ident, typ, def string) *Builder {
	b.c.ExtState.Fields = append(b.c.ExtState.Fields, Field{
		Ident:   ident,
		Type:    typ,
		Default: def,
	})
	return b
}

// Method adds a method with an opaque pass-through body.
func (b *Builder) Method(ident, ret, body string, args ...Field) *Builder {
	b.c.ExtState.Methods = append(b.c.ExtState.Methods, Method{
		Ident: ident,
		Args:  args,
		Ret:   ret,
		Body:  body,
	})
	return b
}

// InitArgs names the constructor argument descriptor.
func (b *Builder) InitArgs(ident string) *Builder {
	b.c.ExtState.InitArgs.Ident = ident
	return b
}

// InitField adds a constructor argument.
func (b *Builder) InitField(ident, typ string) *Builder {
	b.c.ExtState.InitArgs.Fields = append(b.c.ExtState.InitArgs.Fields, Field{
		Ident: ident,
		Type:  typ,
	})
	return b
}

// Build returns the constructed component by value; the builder can be
// discarded afterwards.
func (b *Builder) Build() Component {
	return b.c
}

// Doc wraps one or more components into a document.
func Doc(components ...Component) *Document {
	return &Document{Components: components}
}
