package parser

import (
	"testing"

	"github.com/kryonlabs/kryon-core/pkg/ast"
	"github.com/kryonlabs/kryon-core/pkg/diag"
)

func parse(t *testing.T, src string) (*ast.File, *diag.List) {
	t.Helper()
	errs := &diag.List{}
	f := New(src, errs).Parse()
	return f, errs
}

func TestParse_ComponentDefinitionAndInstantiation(t *testing.T) {
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
	f, errs := parse(t, src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.Report())
	}
	if len(f.ComponentDefs) != 1 {
		t.Fatalf("expected 1 component def, got %d", len(f.ComponentDefs))
	}
	def := f.ComponentDefs[0]
	if def.Name != "Counter" || !def.IsComponentDefinition {
		t.Fatalf("unexpected component def: %+v", def)
	}
	if len(def.Body.StateDecls) != 1 || def.Body.StateDecls[0].Name != "count" {
		t.Fatalf("expected state decl 'count', got %+v", def.Body.StateDecls)
	}
	if len(def.Body.Items) != 1 {
		t.Fatalf("expected 1 nested item, got %d", len(def.Body.Items))
	}
	inner, ok := def.Body.Items[0].(*ast.ComponentInst)
	if !ok || inner.Name != "Container" {
		t.Fatalf("expected Container instantiation, got %+v", def.Body.Items[0])
	}
	if len(inner.Body.Items) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(inner.Body.Items))
	}

	if f.Root == nil || f.Root.Name != "Counter" {
		t.Fatalf("expected root Counter instantiation, got %+v", f.Root)
	}
	if f.Root.ArgumentsText == "" {
		t.Fatalf("expected non-empty ArgumentsText")
	}
}

func TestParse_ExpressionPrecedence(t *testing.T) {
	src := `
Container {
	visible: a || b && c == 1 + 2 * 3
}
`
	f, errs := parse(t, src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.Report())
	}
	prop := f.Root.Body.Items[0].(*ast.Property)
	or, ok := prop.Value.(*ast.BinaryExpr)
	if !ok || or.Op != "||" {
		t.Fatalf("expected top-level '||', got %+v", prop.Value)
	}
	and, ok := or.Right.(*ast.BinaryExpr)
	if !ok || and.Op != "&&" {
		t.Fatalf("expected '&&' under '||', got %+v", or.Right)
	}
	eq, ok := and.Right.(*ast.BinaryExpr)
	if !ok || eq.Op != "==" {
		t.Fatalf("expected '==' under '&&', got %+v", and.Right)
	}
	add, ok := eq.Right.(*ast.BinaryExpr)
	if !ok || add.Op != "+" {
		t.Fatalf("expected '+' under '==', got %+v", eq.Right)
	}
	mul, ok := add.Right.(*ast.BinaryExpr)
	if !ok || mul.Op != "*" {
		t.Fatalf("expected '*' nested tighter than '+', got %+v", add.Right)
	}
}

func TestParse_CompileTimeForLoopAndRange(t *testing.T) {
	src := `
Container {
	for item in items {
		Text { text: item }
	}
	for i in 0..10 {
		Text { text: i }
	}
}
`
	f, errs := parse(t, src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.Report())
	}
	if len(f.Root.Body.Items) != 2 {
		t.Fatalf("expected 2 for-loops, got %d", len(f.Root.Body.Items))
	}
	l1 := f.Root.Body.Items[0].(*ast.ForLoop)
	if l1.IsRange || l1.ItemName != "item" {
		t.Fatalf("expected non-range loop over 'item', got %+v", l1)
	}
	l2 := f.Root.Body.Items[1].(*ast.ForLoop)
	if !l2.IsRange || l2.ItemName != "i" {
		t.Fatalf("expected range loop over 'i', got %+v", l2)
	}
}

func TestParse_ForEachRuntime(t *testing.T) {
	src := `
Container {
	for each row in rows {
		Row { text: row }
	}
}
`
	f, errs := parse(t, src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.Report())
	}
	fe, ok := f.Root.Body.Items[0].(*ast.ForEachTree)
	if !ok || fe.ItemName != "row" {
		t.Fatalf("expected ForEachTree over 'row', got %+v", f.Root.Body.Items[0])
	}
}

func TestParse_ConditionalRendering(t *testing.T) {
	src := `
Container {
	if loggedIn {
		Text { text: "hi" }
	} else {
		Text { text: "bye" }
	}
}
`
	f, errs := parse(t, src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.Report())
	}
	cr, ok := f.Root.Body.Items[0].(*ast.CondRender)
	if !ok {
		t.Fatalf("expected CondRender, got %+v", f.Root.Body.Items[0])
	}
	if cr.Then == nil || cr.Else == nil {
		t.Fatalf("expected both branches present")
	}
}

func TestParse_FunctionWithStatements(t *testing.T) {
	src := `
function increment(amount: int) -> int {
	let next: int = count + amount
	if next > 100 {
		return 100
	}
	return next
}
`
	f, errs := parse(t, src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.Report())
	}
	if len(f.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(f.Functions))
	}
	fn := f.Functions[0]
	if fn.Name != "increment" || len(fn.Params) != 1 {
		t.Fatalf("unexpected function: %+v", fn)
	}
	if len(fn.Body) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(fn.Body))
	}
	if _, ok := fn.Body[0].(*ast.VarDeclStmt); !ok {
		t.Fatalf("expected first statement to be a var decl, got %+v", fn.Body[0])
	}
	ifStmt, ok := fn.Body[1].(*ast.IfStmt)
	if !ok || len(ifStmt.Then) != 1 {
		t.Fatalf("expected if statement with 1 then-statement, got %+v", fn.Body[1])
	}
}

func TestParse_CodeBlockAndModuleReturn(t *testing.T) {
	src := `
@lua {
	local x = 1 + 1
}

return { pi: 3 }
`
	f, errs := parse(t, src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.Report())
	}
	if len(f.CodeBlocks) != 1 || f.CodeBlocks[0].Lang != "lua" {
		t.Fatalf("expected 1 lua code block, got %+v", f.CodeBlocks)
	}
	if f.ModuleReturn == nil || len(f.ModuleReturn.Exports) != 1 || f.ModuleReturn.Exports[0].Name != "pi" {
		t.Fatalf("expected module return exporting 'pi', got %+v", f.ModuleReturn)
	}
}

func TestParse_ImportAndStyleBlock(t *testing.T) {
	src := `
import Card from ui.widgets.card

style .highlighted {
	backgroundColor: "yellow"
}
`
	f, errs := parse(t, src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.Report())
	}
	if len(f.Imports) != 1 || f.Imports[0].Name != "Card" || f.Imports[0].Path != "ui.widgets.card" {
		t.Fatalf("unexpected import: %+v", f.Imports)
	}
	if len(f.Styles) != 1 || len(f.Styles[0].Properties) != 1 {
		t.Fatalf("unexpected style block: %+v", f.Styles)
	}
}

func TestParse_RecoversFromSyntaxErrorAtStatementBoundary(t *testing.T) {
	src := `
const broken = ===
const ok = 1
`
	f, errs := parse(t, src)
	if !errs.HasErrors() {
		t.Fatalf("expected at least one diagnostic for the malformed declaration")
	}
	if errs.HasFatal() {
		t.Fatalf("a syntax error must not be fatal — parsing should continue")
	}
	var names []string
	for _, d := range f.VarDecls {
		names = append(names, d.Name)
	}
	found := false
	for _, n := range names {
		if n == "ok" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected recovery to still parse 'const ok = 1', got decls %v", names)
	}
}
