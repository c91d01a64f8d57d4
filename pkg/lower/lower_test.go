package lower

import (
	"strconv"
	"testing"

	"github.com/kryonlabs/kryon-core/pkg/ast"
	"github.com/kryonlabs/kryon-core/pkg/diag"
	"github.com/kryonlabs/kryon-core/pkg/ir"
	"github.com/kryonlabs/kryon-core/pkg/manifest"
	"github.com/kryonlabs/kryon-core/pkg/registry"
)

func strLit(s string) *ast.Literal  { return &ast.Literal{Kind: ast.LitString, StrVal: s} }
func intLit(n int64) *ast.Literal   { return &ast.Literal{Kind: ast.LitInt, IntVal: n} }
func boolLit(b bool) *ast.Literal   { return &ast.Literal{Kind: ast.LitBool, BoolVal: b} }
func prop(name string, v ast.Expr) *ast.Property { return &ast.Property{Name: name, Value: v} }

func bodyOf(items ...ast.Node) *ast.ComponentBody {
	return &ast.ComponentBody{Items: items}
}

func TestLower_SimpleButtonWithStaticText(t *testing.T) {
	file := &ast.File{
		Root: &ast.ComponentInst{Name: "button", Body: bodyOf(prop("text", strLit("Hi")))},
	}
	ctx := NewContext(".", nil)
	root := Lower(file, ctx)

	if root.Kind != ir.KindButton {
		t.Fatalf("expected KindButton, got %v", root.Kind)
	}
	if root.Text != "Hi" {
		t.Fatalf("expected static text %q, got %q", "Hi", root.Text)
	}
	if ctx.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", ctx.Diags.Report())
	}
}

func TestLower_UnknownPropertySuggestsClosestAndFallsBackToCustomData(t *testing.T) {
	file := &ast.File{
		Root: &ast.ComponentInst{Name: "container", Body: bodyOf(prop("colour", strLit("#ff0000")))},
	}
	ctx := NewContext(".", nil)
	root := Lower(file, ctx)

	if root.CustomData["colour"] != `"#ff0000"` {
		t.Fatalf("expected fallback custom data, got %+v", root.CustomData)
	}
	found := false
	for _, d := range ctx.Diags.Items() {
		if d.Severity == diag.Warning && d.Context != "" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a typo-suggestion warning for %q", "colour")
	}
}

func TestLower_CompileTimeForLoopExpandsRange(t *testing.T) {
	file := &ast.File{
		Root: &ast.ComponentInst{Name: "container", Body: bodyOf(
			&ast.ForLoop{
				ItemName:  "i",
				IsRange:   true,
				RangeFrom: intLit(0),
				RangeTo:   intLit(3),
				Body:      bodyOf(&ast.ComponentInst{Name: "text", Body: bodyOf(prop("text", &ast.VarRef{Name: "i"}))}),
			},
		)},
	}
	ctx := NewContext(".", nil)
	root := Lower(file, ctx)

	if len(root.Children) != 3 {
		t.Fatalf("expected 3 expanded children, got %d", len(root.Children))
	}
	for i, ch := range root.Children {
		if want := strconv.Itoa(i); ch.Text != want {
			t.Errorf("child %d: expected text %q, got %q", i, want, ch.Text)
		}
	}
	if len(ctx.Source.ForLoops) != 1 {
		t.Fatalf("expected one recorded for-loop, got %d", len(ctx.Source.ForLoops))
	}
	if len(ctx.Source.ForLoops[0].ExpandedIDs) != 3 {
		t.Fatalf("expected 3 expanded ids recorded, got %+v", ctx.Source.ForLoops[0])
	}
}

func TestLower_UnresolvableForLoopFallsBackToRuntimeForEach(t *testing.T) {
	file := &ast.File{
		Root: &ast.ComponentInst{Name: "container", Body: bodyOf(
			&ast.ForLoop{
				ItemName: "item",
				IsRange:  false,
				Iterable: &ast.VarRef{Name: "items"},
				Body:     bodyOf(&ast.ComponentInst{Name: "text"}),
			},
		)},
	}
	ctx := NewContext(".", nil)
	root := Lower(file, ctx)

	if len(root.Children) != 1 || root.Children[0].Kind != ir.KindForEach {
		t.Fatalf("expected an unresolvable for-loop to compile to a ForEach node, got %+v", root.Children)
	}
	fe := root.Children[0].ForEach
	if fe == nil || !fe.Implicit || fe.DataSource != "items" {
		t.Fatalf("expected an implicit ForEach over 'items', got %+v", fe)
	}
}

func TestLower_CompileTimeForLoopOverConstArray(t *testing.T) {
	// static { const items = [1,2,3]; for x in items { Text { text: x } } }
	file := &ast.File{
		Root: &ast.ComponentInst{Name: "container", Body: bodyOf(
			&ast.StaticBlock{Items: []ast.Node{
				&ast.VarDecl{Kind: ast.VarConst, Name: "items", Value: &ast.ArrayLiteral{
					Elements: []ast.Expr{intLit(1), intLit(2), intLit(3)},
				}},
				&ast.ForLoop{
					ItemName: "x",
					Iterable: &ast.VarRef{Name: "items"},
					Body:     bodyOf(&ast.ComponentInst{Name: "text", Body: bodyOf(prop("text", &ast.VarRef{Name: "x"}))}),
				},
			}},
		)},
	}
	ctx := NewContext(".", nil)
	root := Lower(file, ctx)

	if len(root.Children) != 3 {
		t.Fatalf("expected 3 expanded children, got %d", len(root.Children))
	}
	for i, want := range []string{"1", "2", "3"} {
		if root.Children[i].Text != want {
			t.Errorf("child %d: expected text %q, got %q", i, want, root.Children[i].Text)
		}
	}
	if len(ctx.Source.StaticBlocks) != 1 || ctx.Source.StaticBlocks[0].ID != "static_1" {
		t.Fatalf("expected one recorded static block, got %+v", ctx.Source.StaticBlocks)
	}
	if len(ctx.Source.ForLoops) != 1 {
		t.Fatalf("expected one recorded for-loop, got %+v", ctx.Source.ForLoops)
	}
	fl := ctx.Source.ForLoops[0]
	if fl.ScopeID != "static_1" || len(fl.ExpandedIDs) != 3 {
		t.Fatalf("expected the loop record tagged static_1 with 3 expanded ids, got %+v", fl)
	}
	for i, ch := range root.Children {
		if fl.ExpandedIDs[i] != ch.ID {
			t.Errorf("expanded id %d: expected %d, got %d", i, ch.ID, fl.ExpandedIDs[i])
		}
	}
}

func TestLower_RuntimeForEachProducesTemplateNode(t *testing.T) {
	file := &ast.File{
		Root: &ast.ComponentInst{Name: "container", Body: bodyOf(
			&ast.ForEachTree{
				ItemName: "item",
				Iterable: &ast.VarRef{Name: "items"},
				Body: bodyOf(&ast.ComponentInst{Name: "text", Body: bodyOf(
					prop("text", &ast.MemberExpr{Object: &ast.VarRef{Name: "item"}, Property: "label"}),
				)}),
			},
		)},
	}
	ctx := NewContext(".", nil)
	root := Lower(file, ctx)

	if len(root.Children) != 1 || root.Children[0].Kind != ir.KindForEach {
		t.Fatalf("expected a single KindForEach child, got %+v", root.Children)
	}
	feComp := root.Children[0]
	fe := feComp.ForEach
	if fe == nil || fe.Template == nil {
		t.Fatalf("expected a populated ForEach template")
	}
	if len(feComp.Children) != 1 || feComp.Children[0] != fe.Template {
		t.Fatalf("expected the template to be the ForEach node's child[0]")
	}
	if fe.Template.Kind != ir.KindText || fe.Template.TextExpr != "item.label" {
		t.Fatalf("expected the Text row template with a live item.label binding, got %+v", fe.Template)
	}
	if len(fe.Bindings) != 1 || fe.Bindings[0].Property != "text" || fe.Bindings[0].Expr != "item.label" || !fe.Bindings[0].Reactive {
		t.Fatalf("expected one reactive (text, item.label) binding, got %+v", fe.Bindings)
	}
}

// Two instances of the same definition get distinct instance scopes and
// per-instance reactive variables seeded from their arguments.
func TestLower_CounterInstancesGetDistinctScopes(t *testing.T) {
	file := &ast.File{
		ComponentDefs: []*ast.ComponentDef{
			{
				Name:   "Counter",
				Params: []*ast.Param{{Name: "initialValue"}},
				Body: &ast.ComponentBody{
					StateDecls: []*ast.VarDecl{
						{Kind: ast.VarState, Name: "value", TypeName: "int", Value: &ast.VarRef{Name: "initialValue"}},
					},
					Items: []ast.Node{
						&ast.ComponentInst{Name: "text", Body: bodyOf(prop("text", &ast.VarRef{Name: "value"}))},
					},
				},
			},
		},
		Root: &ast.ComponentInst{Name: "container", Body: bodyOf(
			&ast.ComponentInst{Name: "Counter", ArgumentsText: "5"},
			&ast.ComponentInst{Name: "Counter", ArgumentsText: "initialValue = 10"},
		)},
	}
	ctx := NewContext(".", nil)
	root := Lower(file, ctx)

	if len(root.Children) != 2 {
		t.Fatalf("expected two Counter instances, got %d children", len(root.Children))
	}
	first, second := root.Children[0], root.Children[1]
	if first.Scope != "Counter#0" || second.Scope != "Counter#1" {
		t.Fatalf("expected scopes Counter#0/Counter#1, got %q/%q", first.Scope, second.Scope)
	}

	v0, ok := ctx.Manifest.LookupVariable("value", "Counter#0")
	if !ok || v0.TypeTag != "int" || v0.InitialJSON != "5" {
		t.Fatalf("expected value: int = 5 in scope Counter#0, got %+v", v0)
	}
	v1, ok := ctx.Manifest.LookupVariable("value", "Counter#1")
	if !ok || v1.InitialJSON != "10" {
		t.Fatalf("expected value = 10 in scope Counter#1, got %+v", v1)
	}

	for _, inst := range []*ir.Component{first, second} {
		if len(inst.Children) != 1 {
			t.Fatalf("expected one Text child per instance, got %+v", inst.Children)
		}
		text := inst.Children[0]
		if text.TextExpr != "value" {
			t.Fatalf("expected text_expression %q, got %q", "value", text.TextExpr)
		}
		if len(text.Bindings) != 1 || text.Bindings[0].Property != "text" || text.Bindings[0].SourceExpr != "value" {
			t.Fatalf("expected a text -> value property binding, got %+v", text.Bindings)
		}
	}
}

// A custom component invoked with a bare loop-item variable inside a
// runtime template stays an unexpanded component reference.
func TestLower_CustomComponentInLoopTemplateStaysUnexpanded(t *testing.T) {
	file := &ast.File{
		ComponentDefs: []*ast.ComponentDef{
			{
				Name:   "HabitPanel",
				Params: []*ast.Param{{Name: "habit"}},
				Body:   bodyOf(prop("text", &ast.VarRef{Name: "habit"})),
			},
		},
		Root: &ast.ComponentInst{Name: "container", Body: bodyOf(
			&ast.ForLoop{
				ItemName: "habit",
				Iterable: &ast.VarRef{Name: "habits"},
				Body:     bodyOf(&ast.ComponentInst{Name: "HabitPanel", ArgumentsText: "habit"}),
			},
		)},
	}
	ctx := NewContext(".", nil)
	root := Lower(file, ctx)

	if ctx.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", ctx.Diags.Report())
	}
	if len(root.Children) != 1 || root.Children[0].Kind != ir.KindForEach {
		t.Fatalf("expected the loop to compile to a ForEach node, got %+v", root.Children)
	}
	template := root.Children[0].ForEach.Template
	if template == nil || template.Ref == nil {
		t.Fatalf("expected an unexpanded component reference template, got %+v", template)
	}
	if template.Ref.Name != "HabitPanel" || template.Ref.PropsJSON != `{"arg":"habit"}` {
		t.Fatalf("unexpected component reference: %+v", template.Ref)
	}
}

func TestLower_CondRenderNonVariableConditionEmitsBothBranchesUnmarked(t *testing.T) {
	file := &ast.File{
		Root: &ast.ComponentInst{Name: "container", Body: bodyOf(
			&ast.CondRender{
				Cond: boolLit(true),
				Then: bodyOf(prop("text", strLit("A"))),
				Else: bodyOf(prop("text", strLit("B"))),
			},
		)},
	}
	ctx := NewContext(".", nil)
	root := Lower(file, ctx)

	if len(root.Children) != 2 {
		t.Fatalf("expected both branches emitted as children, got %d", len(root.Children))
	}
	if root.Children[0].Text != "A" || root.Children[1].Text != "B" {
		t.Fatalf("expected then/else branch contents A/B, got %q/%q", root.Children[0].Text, root.Children[1].Text)
	}
	for i, ch := range root.Children {
		if ch.Visible != nil {
			t.Fatalf("branch %d: expected no visibility mark for a non-variable condition, got %+v", i, ch.Visible)
		}
	}
}

func TestLower_CondRenderLiveConditionEmitsBothBranches(t *testing.T) {
	file := &ast.File{
		Root: &ast.ComponentInst{Name: "container", Body: bodyOf(
			&ast.VarDecl{Kind: ast.VarState, Name: "flag", Value: boolLit(true)},
			&ast.CondRender{
				Cond: &ast.VarRef{Name: "flag"},
				Then: bodyOf(prop("text", strLit("A"))),
				Else: bodyOf(prop("text", strLit("B"))),
			},
		)},
	}
	ctx := NewContext(".", nil)
	root := Lower(file, ctx)

	if len(root.Children) != 2 {
		t.Fatalf("expected both branches emitted as children, got %d", len(root.Children))
	}
	if root.Children[0].Visible == nil || !root.Children[0].Visible.VisibleWhen {
		t.Fatalf("expected the then-branch child to be VisibleWhen=true")
	}
	if root.Children[1].Visible == nil || root.Children[1].Visible.VisibleWhen {
		t.Fatalf("expected the else-branch child to be VisibleWhen=false")
	}
}

func TestLower_CustomComponentInstantiatesWithArguments(t *testing.T) {
	file := &ast.File{
		ComponentDefs: []*ast.ComponentDef{
			{
				Name:   "Counter",
				Params: []*ast.Param{{Name: "initial"}},
				Body:   bodyOf(prop("text", &ast.VarRef{Name: "initial"})),
			},
		},
		Root: &ast.ComponentInst{Name: "Counter", ArgumentsText: "initial = 5"},
	}
	ctx := NewContext(".", nil)
	root := Lower(file, ctx)

	if root.Tag != "Counter" {
		t.Fatalf("expected Tag %q, got %q", "Counter", root.Tag)
	}
	if root.Text != "5" {
		t.Fatalf("expected substituted+folded text %q, got %q", "5", root.Text)
	}
	if _, ok := ctx.Manifest.LookupDefinition("Counter"); !ok {
		t.Fatalf("expected Counter registered in the manifest")
	}
}

func TestLower_InheritanceMergesParentThenChild(t *testing.T) {
	file := &ast.File{
		ComponentDefs: []*ast.ComponentDef{
			{Name: "Base", Body: bodyOf(prop("class", strLit("base-class")), &ast.ComponentInst{Name: "text", Body: bodyOf(prop("text", strLit("from-base")))})},
			{Name: "Derived", ExtendsParent: "Base", Body: bodyOf(prop("text", strLit("from-derived")))},
		},
		Root: &ast.ComponentInst{Name: "Derived"},
	}
	ctx := NewContext(".", nil)
	root := Lower(file, ctx)

	if root.Class != "base-class" {
		t.Fatalf("expected inherited class from Base, got %q", root.Class)
	}
	if root.Text != "from-derived" {
		t.Fatalf("expected Derived's own text to override, got %q", root.Text)
	}
	if len(root.Children) != 1 || root.Children[0].Text != "from-base" {
		t.Fatalf("expected Base's child to carry over, got %+v", root.Children)
	}
}

func TestLower_CircularInheritanceIsRejected(t *testing.T) {
	file := &ast.File{
		ComponentDefs: []*ast.ComponentDef{
			{Name: "A", ExtendsParent: "B"},
			{Name: "B", ExtendsParent: "A"},
		},
		Root: &ast.ComponentInst{Name: "A"},
	}
	ctx := NewContext(".", nil)
	Lower(file, ctx)

	if !ctx.Diags.HasFatal() {
		t.Fatalf("expected a Fatal diagnostic for circular inheritance")
	}
}

func TestLower_UnknownComponentSuggestsClosestRegisteredName(t *testing.T) {
	file := &ast.File{
		ComponentDefs: []*ast.ComponentDef{{Name: "Counter"}},
		Root:          &ast.ComponentInst{Name: "Countre"},
	}
	ctx := NewContext(".", nil)
	Lower(file, ctx)

	found := false
	for _, d := range ctx.Diags.Items() {
		if d.Context == `did you mean "Counter"?` {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a did-you-mean hint toward %q, diags: %s", "Counter", ctx.Diags.Report())
	}
}

// fakeResolver resolves import paths against an in-memory map, letting a
// test construct a circular import without touching the filesystem.
type fakeResolver struct {
	files map[string]*ast.File
}

func (r *fakeResolver) Resolve(path string) (*ast.File, error) {
	return r.files[path], nil
}

func TestLower_CircularImportIsRejected(t *testing.T) {
	fileB := &ast.File{Imports: []*ast.Import{{Name: "a", Path: "a.kry"}}}
	fileA := &ast.File{
		Imports: []*ast.Import{{Name: "b", Path: "b.kry"}},
		Root:    &ast.ComponentInst{Name: "container"},
	}
	resolver := &fakeResolver{files: map[string]*ast.File{"a.kry": fileA, "b.kry": fileB}}
	fileB.Imports[0].Path = "a.kry"

	ctx := NewContext(".", resolver)
	ctx.importStack = append(ctx.importStack, "a.kry")
	ctx.registerImports(fileA)

	if !ctx.Diags.HasFatal() {
		t.Fatalf("expected a Fatal diagnostic for the circular import, diags: %s", ctx.Diags.Report())
	}
}

func TestLower_ColorParsingHandlesHexFormsAndNamedPalette(t *testing.T) {
	cases := []struct {
		name string
		want ir.Color
	}{
		{"#FF8040", ir.Color{R: 0xFF, G: 0x80, B: 0x40, A: 0xFF}},
		{"transparent", ir.Color{R: 0, G: 0, B: 0, A: 0}},
		{"#8F2", ir.Color{R: 0x88, G: 0xFF, B: 0x22, A: 0xFF}},
	}
	for _, tc := range cases {
		file := &ast.File{
			Root: &ast.ComponentInst{Name: "container", Body: bodyOf(prop("backgroundColor", strLit(tc.name)))},
		}
		ctx := NewContext(".", nil)
		root := Lower(file, ctx)
		if root.Style == nil || root.Style.Background != tc.want {
			t.Fatalf("%s: expected background %+v, got %+v", tc.name, tc.want, root.Style)
		}
	}
}

func TestLower_DimensionAndAlignmentPropertiesResolveStatically(t *testing.T) {
	file := &ast.File{
		Root: &ast.ComponentInst{Name: "row", Body: bodyOf(
			prop("width", intLit(100)),
			prop("justifyContent", strLit("space-between")),
			prop("alignItems", strLit("flex-start")),
		)},
	}
	ctx := NewContext(".", nil)
	root := Lower(file, ctx)

	if root.Layout == nil {
		t.Fatalf("expected a layout record")
	}
	if root.Layout.MinWidth != ir.Pixels(100) || root.Layout.MaxWidth != ir.Pixels(100) {
		t.Fatalf("expected width 100px, got %+v/%+v", root.Layout.MinWidth, root.Layout.MaxWidth)
	}
	if root.Layout.JustifyContent != ir.AlignSpaceBetween {
		t.Fatalf("expected space-between, got %v", root.Layout.JustifyContent)
	}
	if root.Layout.AlignItems != ir.AlignStart {
		t.Fatalf("expected flex-start -> AlignStart, got %v", root.Layout.AlignItems)
	}
}

func TestLower_FunctionBodyConvertsToStatements(t *testing.T) {
	file := &ast.File{
		Functions: []*ast.FuncDecl{
			{
				Name:       "clamp",
				Params:     []*ast.Param{{Name: "n", TypeName: "int"}},
				ReturnType: "int",
				Body: []ast.Stmt{
					&ast.VarDeclStmt{Decl: &ast.VarDecl{Kind: ast.VarLet, Name: "next", TypeName: "int", Value: &ast.BinaryExpr{Op: "+", Left: &ast.VarRef{Name: "n"}, Right: intLit(1)}}},
					&ast.IfStmt{
						Cond: &ast.BinaryExpr{Op: ">", Left: &ast.VarRef{Name: "next"}, Right: intLit(100)},
						Then: []ast.Stmt{&ast.ReturnStmt{Value: intLit(100)}},
					},
					&ast.ForEachStmt{
						ItemName: "item",
						Iterable: &ast.VarRef{Name: "items"},
						Body:     []ast.Stmt{&ast.AssignStmt{Name: "next", Value: &ast.VarRef{Name: "item"}}},
					},
					&ast.ReturnStmt{Value: &ast.VarRef{Name: "next"}},
				},
			},
		},
		Root: &ast.ComponentInst{Name: "container"},
	}
	ctx := NewContext(".", nil)
	Lower(file, ctx)

	fn, ok := ctx.Logic.Lookup("clamp")
	if !ok {
		t.Fatalf("expected clamp registered in the logic block")
	}
	if len(fn.Body) != 4 {
		t.Fatalf("expected 4 converted statements, got %+v", fn.Body)
	}
	if fn.Body[0].Kind != manifest.StmtVarDecl || fn.Body[0].Name != "next" || fn.Body[0].Expr != "n + 1" {
		t.Fatalf("unexpected var-decl statement: %+v", fn.Body[0])
	}
	ifStmt := fn.Body[1]
	if ifStmt.Kind != manifest.StmtIf || ifStmt.Expr != "next > 100" {
		t.Fatalf("unexpected if statement: %+v", ifStmt)
	}
	if len(ifStmt.Body) != 1 || ifStmt.Body[0].Kind != manifest.StmtReturn || ifStmt.Body[0].Expr != "100" {
		t.Fatalf("unexpected then-branch: %+v", ifStmt.Body)
	}
	feStmt := fn.Body[2]
	if feStmt.Kind != manifest.StmtForEach || feStmt.Name != "item" || feStmt.Expr != "items" {
		t.Fatalf("unexpected for-each statement: %+v", feStmt)
	}
	if len(feStmt.Body) != 1 || feStmt.Body[0].Kind != manifest.StmtAssign || feStmt.Body[0].Name != "next" {
		t.Fatalf("unexpected for-each body: %+v", feStmt.Body)
	}
	if fn.Body[3].Kind != manifest.StmtReturn || fn.Body[3].Expr != "next" {
		t.Fatalf("unexpected trailing return: %+v", fn.Body[3])
	}
}

func TestLower_OnChangeBindsTextChangeEventKind(t *testing.T) {
	file := &ast.File{
		Root: &ast.ComponentInst{Name: "input", Body: bodyOf(
			prop("onChange", &ast.VarRef{Name: "validate"}),
		)},
	}
	ctx := NewContext(".", nil)
	root := Lower(file, ctx)

	if len(root.Events) != 1 || root.Events[0].Kind != "text-change" {
		t.Fatalf("expected onChange to bind the text-change event kind, got %+v", root.Events)
	}
	if len(ctx.Logic.Bindings) != 1 || ctx.Logic.Bindings[0].EventKind != "text-change" {
		t.Fatalf("expected a text-change logic-block binding, got %+v", ctx.Logic.Bindings)
	}
}

func TestLower_PluginPropertyParserExtendsDispatch(t *testing.T) {
	reg := registry.New()
	reg.RegisterPropertyParser("sparkline", func(comp *ir.Component, value string) bool {
		if comp.CustomData == nil {
			comp.CustomData = make(map[string]string)
		}
		comp.CustomData["sparkline"] = value
		return true
	})

	file := &ast.File{
		Root: &ast.ComponentInst{Name: "container", Body: bodyOf(prop("sparkline", strLit("1,2,3")))},
	}
	ctx := NewContext(".", nil)
	ctx.Registry = reg
	root := Lower(file, ctx)

	if root.CustomData["sparkline"] != `"1,2,3"` {
		t.Fatalf("expected the plugin parser to consume the property, got %+v", root.CustomData)
	}
	for _, d := range ctx.Diags.Items() {
		if d.Severity >= diag.Warning {
			t.Fatalf("expected no diagnostics for a plugin-handled property, got %s", ctx.Diags.Report())
		}
	}
}

func TestLower_WindowPropertiesWriteToContextMetadata(t *testing.T) {
	file := &ast.File{
		Root: &ast.ComponentInst{Name: "container", Body: bodyOf(
			prop("windowTitle", strLit("My App")),
			prop("windowWidth", intLit(800)),
		)},
	}
	ctx := NewContext(".", nil)
	Lower(file, ctx)

	if ctx.WindowMetadata["windowTitle"] != "My App" {
		t.Fatalf("expected windowTitle metadata, got %q", ctx.WindowMetadata["windowTitle"])
	}
	if ctx.WindowMetadata["windowWidth"] != "800" {
		t.Fatalf("expected windowWidth metadata, got %q", ctx.WindowMetadata["windowWidth"])
	}
}
