package compiler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/kryonlabs/kryon-core/pkg/kir"
)

func TestCompile_SimpleComponent(t *testing.T) {
	src := `
component Counter(initial) {
	state count: int = 0

	Container {
		text: count
		onClick: increment
	}
}

Counter(initial = 5)
`
	data, diags := Compile([]byte(src), "", true)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.Report())
	}
	if data == nil {
		t.Fatalf("expected non-nil KIR JSON")
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if _, ok := raw["root"]; !ok {
		t.Fatalf("expected a root key in compiled output: %v", raw)
	}
	if _, ok := raw["reactive_manifest"]; !ok {
		t.Fatalf("expected a reactive_manifest key: %v", raw)
	}

	doc, err := kir.DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if doc.Root == nil || doc.Root.Tag != "Counter" {
		t.Fatalf("unexpected root component: %#v", doc.Root)
	}
	if doc.Root.Scope != "Counter#0" {
		t.Fatalf("expected instance scope Counter#0, got %q", doc.Root.Scope)
	}
}

func TestCompile_SyntaxErrorAccumulatesDiagnostics(t *testing.T) {
	src := `component ( { `
	_, diags := Compile([]byte(src), "", true)
	if !diags.HasErrors() {
		t.Fatalf("expected at least one diagnostic")
	}
	if diags.Report() == "" {
		t.Fatalf("expected a non-empty diagnostic report")
	}
}

func TestCompile_CircularInheritanceIsFatalAndReturnsNil(t *testing.T) {
	src := `
component A() extends B {
	Container {}
}

component B() extends A {
	Container {}
}

A()
`
	data, diags := Compile([]byte(src), "", true)
	if !diags.HasFatal() {
		t.Fatalf("expected a fatal diagnostic for circular inheritance, got: %s", diags.Report())
	}
	if data != nil {
		t.Fatalf("expected nil output when a fatal diagnostic is present")
	}
}

func TestCompile_MissingRootStillReturnsBestEffortKIR(t *testing.T) {
	src := `const pi: int = 3`
	data, diags := Compile([]byte(src), "", true)
	if !diags.HasErrors() {
		t.Fatalf("expected an error diagnostic for a file with no root instantiation")
	}
	if data == nil {
		t.Fatalf("expected a best-effort KIR document since the missing root is only an Error, not Fatal")
	}
	doc, err := kir.DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if doc.Root != nil {
		t.Fatalf("expected a nil root, got %#v", doc.Root)
	}
}

func TestCompile_ResolvesImportsFromBaseDir(t *testing.T) {
	dir := t.TempDir()
	cardSrc := `
component Card(title) {
	Container {
		text: title
	}
}
`
	if err := os.WriteFile(filepath.Join(dir, "card.kry"), []byte(cardSrc), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	mainSrc := `
import Card from card

Card(title = "hello")
`
	data, diags := Compile([]byte(mainSrc), dir, false)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.Report())
	}
	doc, err := kir.DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if _, ok := doc.Manifest.LookupDefinition("Card"); !ok {
		t.Fatalf("expected Card definition to be resolved from import, defs: %#v", doc.Manifest.Defs)
	}
}

func TestCompile_SkipImportExpansionLeavesImportUnresolved(t *testing.T) {
	dir := t.TempDir()
	mainSrc := `
import Card from card

Card(title = "hello")
`
	_, diags := Compile([]byte(mainSrc), dir, true)
	if !diags.HasErrors() {
		t.Fatalf("expected an unresolved-component error when import expansion is skipped")
	}
}

func TestCompileToBinary_RoundTripsThroughKIR(t *testing.T) {
	src := `
Container {
	text: "hi"
}
`
	data, diags := CompileToBinary([]byte(src), "", true)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.Report())
	}
	doc, err := kir.DecodeBinary(data)
	if err != nil {
		t.Fatalf("DecodeBinary: %v", err)
	}
	if doc.Root == nil || doc.Root.Text != "hi" {
		t.Fatalf("unexpected root: %#v", doc.Root)
	}
}
