package manifest

import "testing"

func TestAddVariable_AssignsMonotonicIDs(t *testing.T) {
	var m Manifest
	v1, ok := m.AddVariable("count", "int", "0", "global")
	if !ok || v1.ID != 1 {
		t.Fatalf("expected first variable to get id 1, got %+v ok=%v", v1, ok)
	}
	v2, ok := m.AddVariable("name", "string", `"x"`, "global")
	if !ok || v2.ID != 2 {
		t.Fatalf("expected second variable to get id 2, got %+v ok=%v", v2, ok)
	}
}

func TestAddVariable_RejectsDuplicateNameScope(t *testing.T) {
	var m Manifest
	m.AddVariable("count", "int", "0", "global")
	_, ok := m.AddVariable("count", "int", "1", "global")
	if ok {
		t.Fatalf("expected duplicate (name, scope) to be rejected")
	}
	// Same name, different scope is fine.
	_, ok = m.AddVariable("count", "int", "0", "Counter#1")
	if !ok {
		t.Fatalf("expected same name under a different scope to be accepted")
	}
}

func TestLogicBlock_RejectsDuplicateFunctionName(t *testing.T) {
	var lb LogicBlock
	if !lb.AddFunction(&LogicFunction{Name: "increment"}) {
		t.Fatalf("expected first registration to succeed")
	}
	if lb.AddFunction(&LogicFunction{Name: "increment"}) {
		t.Fatalf("expected duplicate function name to be rejected")
	}
}

func TestAddDefinition_LookupRoundTrip(t *testing.T) {
	var m Manifest
	def := &ComponentDefinition{Name: "Counter"}
	if !m.AddDefinition(def) {
		t.Fatalf("expected registration to succeed")
	}
	got, ok := m.LookupDefinition("Counter")
	if !ok || got != def {
		t.Fatalf("expected to find the registered definition")
	}
	if _, ok := m.LookupDefinition("Missing"); ok {
		t.Fatalf("expected lookup of unregistered name to fail")
	}
}
