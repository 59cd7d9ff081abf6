package bloxide

import (
	"strings"
	"testing"

	"github.com/bloxgen-xyz/go-bloxgen/hierarchy"
	"github.com/bloxgen-xyz/go-bloxgen/schema"
)

func testComponent(t *testing.T) (*schema.Component, *hierarchy.Result) {
	t.Helper()

	c := schema.NewComponent("Actor").
		State("Create").
		ChildState("Update", "Create").
		Messages("ActorMessage").
		Variant("CustomValue1", "StandardPayload").
		Variant("CustomValue2").
		DeriveEndpoints().
		ExtState("ActorExtState").
		Field("counter", "u32", "").
		Field("label", "String", `String::new()`).
		Method("increment", "u32", "self.counter += 1;\n        self.counter",
			schema.Field{Ident: "&mut self"}).
		InitArgs("ActorInitArgs").
		InitField("counter", "u32").
		Build()

	h, diags := hierarchy.Resolve(c.States)
	if len(diags) != 0 {
		t.Fatalf("unexpected hierarchy diagnostics: %v", diags)
	}
	return &c, h
}

func TestGenerateStateEnum(t *testing.T) {
	c, h := testComponent(t)
	bundle := Generate(c, h)

	a := bundle.Artifact("states/mod")
	if a == nil {
		t.Fatal("expected states/mod artifact")
	}

	if !strings.Contains(a.Content, "pub enum ActorStates") {
		t.Error("expected state enum declaration")
	}
	if !strings.Contains(a.Content, "Create(Create),") {
		t.Error("expected Create variant")
	}
	if !strings.Contains(a.Content, "Update(Update),") {
		t.Error("expected Update variant")
	}
	if !strings.Contains(a.Content, "impl State<Components> for ActorStates") {
		t.Error("expected State impl for the enum")
	}
	if !strings.Contains(a.Content, "ActorStates::Create(state) => state.handle_message(state_machine, message),") {
		t.Error("expected dispatch arm for Create")
	}

	// Hierarchy metadata: ancestor chains in declaration order, self first.
	if !strings.Contains(a.Content, `ActorStates::Update(_) => &["Update", "Create"],`) {
		t.Error("expected ancestor chain for Update")
	}
	if !strings.Contains(a.Content, `ActorStates::Create(_) => &["Create"],`) {
		t.Error("expected ancestor chain for Create")
	}
}

func TestGenerateStateModules(t *testing.T) {
	c, h := testComponent(t)
	bundle := Generate(c, h)

	create := bundle.Artifact("states/create")
	if create == nil {
		t.Fatal("expected states/create artifact")
	}
	if !strings.Contains(create.Content, "pub struct Create;") {
		t.Error("expected Create unit struct")
	}
	if !strings.Contains(create.Content, "Components::States::from(self.clone()) // No parent state") {
		t.Error("expected root state to parent itself")
	}

	update := bundle.Artifact("states/update")
	if update == nil {
		t.Fatal("expected states/update artifact")
	}
	if !strings.Contains(update.Content, "Components::States::from(super::create::Create)") {
		t.Error("expected Update to parent Create")
	}
	if !strings.Contains(update.Content, "/// Ancestor chain: Update -> Create") {
		t.Error("expected chain comment on Update")
	}
	if update.Path != "actor/states/update.rs" {
		t.Errorf("unexpected artifact path %s", update.Path)
	}
}

func TestGenerateMessageSet(t *testing.T) {
	c, h := testComponent(t)
	bundle := Generate(c, h)

	a := bundle.Artifact("messaging")
	if a == nil {
		t.Fatal("expected messaging artifact")
	}
	if !strings.Contains(a.Content, "pub enum ActorMessage") {
		t.Error("expected message set enum")
	}
	if !strings.Contains(a.Content, "CustomValue1(Message<StandardPayload>),") {
		t.Error("expected payload-carrying variant wrapped in Message")
	}
	if !strings.Contains(a.Content, "    CustomValue2,\n") {
		t.Error("expected unit variant without payload")
	}
	if !strings.Contains(a.Content, "impl MessageSet for ActorMessage {}") {
		t.Error("expected MessageSet impl")
	}
}

func TestGenerateMessageSetPreservesPayloadOrder(t *testing.T) {
	c := schema.NewComponent("Pair").
		State("Idle").
		Messages("PairMessage").
		Variant("Both", "First", "Second").
		Build()
	h, _ := hierarchy.Resolve(c.States)

	a := Generate(&c, h).Artifact("messaging")
	if !strings.Contains(a.Content, "Both(Message<First>, Message<Second>),") {
		t.Error("payload order must be preserved positionally")
	}
}

func TestGenerateComponent(t *testing.T) {
	c, h := testComponent(t)
	bundle := Generate(c, h)

	a := bundle.Artifact("component")
	if a == nil {
		t.Fatal("expected component artifact")
	}
	if !strings.Contains(a.Content, "pub struct ActorComponents;") {
		t.Error("expected component struct")
	}
	if !strings.Contains(a.Content, "impl Components for ActorComponents") {
		t.Error("expected Components impl")
	}
	if !strings.Contains(a.Content, "type States = ActorStates;") {
		t.Error("expected States associated type")
	}
	if !strings.Contains(a.Content, "type MessageSet = ActorMessage;") {
		t.Error("expected MessageSet associated type")
	}
	if !strings.Contains(a.Content, "pub struct ActorHandles") {
		t.Error("expected handles struct")
	}
	if !strings.Contains(a.Content, "pub standardpayload_handle: TokioMessageHandle<StandardPayload>,") {
		t.Error("expected typed handle field")
	}
	if !strings.Contains(a.Content, "pub standardpayload_rx: <<TokioRuntime as Runtime>::MessageHandle<StandardPayload> as MessageSender>::ReceiverType,") {
		t.Error("expected typed receiver field")
	}
}

func TestGenerateExtState(t *testing.T) {
	c, h := testComponent(t)
	bundle := Generate(c, h)

	a := bundle.Artifact("ext_state")
	if a == nil {
		t.Fatal("expected ext_state artifact")
	}
	if !strings.Contains(a.Content, "pub struct ActorExtState") {
		t.Error("expected ext state struct")
	}
	if !strings.Contains(a.Content, "pub counter: u32,") {
		t.Error("expected field emitted verbatim")
	}
	if !strings.Contains(a.Content, "pub struct ActorInitArgs") {
		t.Error("expected init-args struct")
	}
	if !strings.Contains(a.Content, "counter: args.counter,") {
		t.Error("expected init-arg field wired through the constructor")
	}
	if !strings.Contains(a.Content, "label: String::new(),") {
		t.Error("expected defaulted field written from its literal")
	}
	if !strings.Contains(a.Content, "pub fn increment(&mut self) -> u32 {") {
		t.Error("expected method signature")
	}
	if !strings.Contains(a.Content, "self.counter += 1;") {
		t.Error("expected method body re-emitted verbatim")
	}
}

func TestMethodBodyIsOpaque(t *testing.T) {
	// Anything goes in a body, including text that is not valid in any
	// language; the emitter must pass it through untouched.
	body := `not ( valid } anywhere "quotes" \\`
	c := schema.NewComponent("Blob").
		State("Idle").
		ExtState("BlobExtState").
		Method("weird", "", body).
		Build()
	h, _ := hierarchy.Resolve(c.States)

	a := Generate(&c, h).Artifact("ext_state")
	if !strings.Contains(a.Content, body) {
		t.Error("opaque body was altered")
	}
}

func TestGenerateRuntime(t *testing.T) {
	c, h := testComponent(t)
	bundle := Generate(c, h)

	a := bundle.Artifact("runtime")
	if a == nil {
		t.Fatal("expected runtime artifact")
	}
	if !strings.Contains(a.Content, "impl Runnable<ActorComponents> for Blox<ActorComponents>") {
		t.Error("expected Runnable impl")
	}
	if !strings.Contains(a.Content, "Some(msg) = self.receivers.standardpayload_rx.recv() => {") {
		t.Error("expected select arm for the receiver")
	}
	if !strings.Contains(a.Content, "self.state_machine.dispatch(ActorMessage::CustomValue1(msg), &current_state);") {
		t.Error("expected dispatch into the matching variant")
	}
}

func TestGenerateModIndex(t *testing.T) {
	c, h := testComponent(t)
	a := Generate(c, h).Artifact("mod")
	if a == nil {
		t.Fatal("expected mod artifact")
	}
	for _, m := range []string{"component", "ext_state", "messaging", "runtime", "states"} {
		if !strings.Contains(a.Content, "pub mod "+m+";") {
			t.Errorf("expected module declaration for %s", m)
		}
	}
}

func TestTargetOverridesModulePath(t *testing.T) {
	c := schema.NewComponent("Actor").
		Target("generated/actor").
		State("Idle").
		Build()
	h, _ := hierarchy.Resolve(c.States)

	a := Generate(&c, h).Artifact("states/idle")
	if a == nil {
		t.Fatal("expected states/idle artifact")
	}
	if a.Path != "generated/actor/states/idle.rs" {
		t.Errorf("unexpected artifact path %s", a.Path)
	}
}

func TestDeterministicEmission(t *testing.T) {
	c, h := testComponent(t)

	first := Generate(c, h)
	for i := 0; i < 5; i++ {
		again := Generate(c, h)
		if len(again.Artifacts) != len(first.Artifacts) {
			t.Fatal("artifact count changed between emissions")
		}
		for j := range first.Artifacts {
			if first.Artifacts[j] != again.Artifacts[j] {
				t.Fatalf("artifact %s not byte-identical across emissions", first.Artifacts[j].Name)
			}
		}
	}
}
