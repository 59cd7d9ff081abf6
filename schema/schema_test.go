package schema

import "testing"

func TestTypeBase(t *testing.T) {
	cases := []struct {
		ref  string
		want string
	}{
		{"StandardPayload", "StandardPayload"},
		{"core::messaging::StandardPayload", "StandardPayload"},
		{"a::b", "b"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := TypeBase(tc.ref); got != tc.want {
			t.Errorf("TypeBase(%q) = %q, want %q", tc.ref, got, tc.want)
		}
	}
}

func TestDeriveEndpoints(t *testing.T) {
	ms := MessageSet{
		Ident: "ActorMessage",
		Variants: []Variant{
			{Ident: "CustomValue1", Payloads: []string{"StandardPayload"}},
			{Ident: "CustomValue2"},
			{Ident: "Pair", Payloads: []string{"First", "Second"}},
			{Ident: "Qualified", Payloads: []string{"core::messaging::Extra"}},
		},
	}

	handles, receivers := DeriveEndpoints(&ms)

	if len(handles) != 2 || len(receivers) != 2 {
		t.Fatalf("got %d handles, %d receivers; want 2 each", len(handles), len(receivers))
	}
	if handles[0].Ident != "standardpayload_handle" || handles[0].Payload != "StandardPayload" {
		t.Errorf("unexpected first handle: %+v", handles[0])
	}
	if receivers[0].Ident != "standardpayload_rx" {
		t.Errorf("unexpected first receiver: %+v", receivers[0])
	}
	// Qualified references derive from the base segment but keep the full
	// reference as the bound payload.
	if handles[1].Ident != "extra_handle" || handles[1].Payload != "core::messaging::Extra" {
		t.Errorf("unexpected qualified handle: %+v", handles[1])
	}
}

func TestSolePayload(t *testing.T) {
	if _, ok := (&Variant{Ident: "Empty"}).SolePayload(); ok {
		t.Error("zero-payload variant must not report a sole payload")
	}
	if _, ok := (&Variant{Ident: "Pair", Payloads: []string{"A", "B"}}).SolePayload(); ok {
		t.Error("multi-payload variant must not report a sole payload")
	}
	p, ok := (&Variant{Ident: "One", Payloads: []string{"A"}}).SolePayload()
	if !ok || p != "A" {
		t.Errorf("got (%q, %v), want (\"A\", true)", p, ok)
	}
}

func TestVariantForPayload(t *testing.T) {
	ms := MessageSet{Variants: []Variant{
		{Ident: "Empty"},
		{Ident: "First", Payloads: []string{"P"}},
		{Ident: "Second", Payloads: []string{"P"}},
	}}

	v := ms.VariantForPayload("P")
	if v == nil || v.Ident != "First" {
		t.Errorf("expected first declared match, got %+v", v)
	}
	if ms.VariantForPayload("Missing") != nil {
		t.Error("unknown payload must not match")
	}
}

func TestBuilderProducesCompleteComponent(t *testing.T) {
	c := NewComponent("Actor").
		Target("generated/actor").
		State("Create").
		ChildState("Update", "Create").
		Messages("ActorMessage").
		Variant("CustomValue1", "StandardPayload").
		Variant("CustomValue2").
		DeriveEndpoints().
		ExtState("ActorExtState").
		Field("counter", "u32", "0").
		Method("reset", "", "self.counter = 0;", Field{Ident: "&mut self"}).
		InitArgs("ActorInitArgs").
		InitField("counter", "u32").
		Build()

	if c.Ident != "Actor" || c.Target != "generated/actor" {
		t.Errorf("unexpected component header: %+v", c)
	}
	if len(c.States) != 2 || c.States[1].Parent != "Create" {
		t.Errorf("unexpected states: %+v", c.States)
	}
	if !c.States[0].IsRoot() || c.States[1].IsRoot() {
		t.Error("root detection is wrong")
	}
	if len(c.Handles) != 1 || c.Handles[0].Ident != "standardpayload_handle" {
		t.Errorf("unexpected derived handles: %+v", c.Handles)
	}
	if len(c.Receivers) != 1 || c.Receivers[0].Ident != "standardpayload_rx" {
		t.Errorf("unexpected derived receivers: %+v", c.Receivers)
	}
	if c.ExtState.InitArgs.InitField("counter") == nil {
		t.Error("init field lookup failed")
	}
	if c.ExtState.InitArgs.InitField("missing") != nil {
		t.Error("unknown init field must return nil")
	}
	if len(c.ExtState.Methods) != 1 || c.ExtState.Methods[0].Args[0].Ident != "&mut self" {
		t.Errorf("unexpected methods: %+v", c.ExtState.Methods)
	}
}

func TestStateByIdentFirstDeclarationWins(t *testing.T) {
	c := NewComponent("Dup").
		State("A").
		ChildState("A", "A").
		Build()

	s := c.StateByIdent("A")
	if s == nil || s.Parent != "" {
		t.Errorf("expected the first declared A, got %+v", s)
	}
	if c.StateByIdent("B") != nil {
		t.Error("unknown state must return nil")
	}
}

func TestDoc(t *testing.T) {
	doc := Doc(
		NewComponent("A").State("Idle").Build(),
		NewComponent("B").State("Idle").Build(),
	)
	if len(doc.Components) != 2 {
		t.Fatalf("got %d components, want 2", len(doc.Components))
	}
	if doc.Components[0].Ident != "A" || doc.Components[1].Ident != "B" {
		t.Error("declaration order must be preserved")
	}
}
