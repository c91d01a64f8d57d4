package kir

import (
	"testing"

	"github.com/kryonlabs/kryon-core/pkg/ir"
	"github.com/kryonlabs/kryon-core/pkg/manifest"
	"github.com/kryonlabs/kryon-core/pkg/stylesheet"
)

func sampleDocument() *Document {
	root := &ir.Component{
		ID:    1,
		Kind:  ir.KindContainer,
		Tag:   "Container",
		Class: "card highlighted",
		Style: &ir.StyleRecord{
			Set:        ir.SetBackground | ir.SetOpacity,
			Background: ir.Color{R: 10, G: 20, B: 30, A: 255},
			Opacity:    0.5,
		},
		Layout: &ir.LayoutRecord{
			Mode:          ir.LayoutFlex,
			FlexDirection: ir.FlexColumn,
			Gap:           ir.Pixels(8),
		},
		Events: []ir.Event{{Kind: "click", Handler: "onClick"}},
		CustomData: map[string]string{
			"role": "dialog",
		},
		Scope: "root",
		Bindings: []ir.PropertyBinding{
			{Property: "text", SourceExpr: "count", Fallback: "0", Kind: "runtime"},
		},
		Children: []*ir.Component{
			{
				ID:       2,
				Kind:     ir.KindText,
				Tag:      "Text",
				Text:     "hello",
				TextExpr: "greeting",
				Visible:  &ir.VisibleCondition{Expr: "isVisible", VisibleWhen: true},
			},
			{
				ID:   3,
				Kind: ir.KindForEach,
				Tag:  "ForEach",
				ForEach: &ir.ForEachDef{
					ItemName:   "item",
					IndexName:  "idx",
					Implicit:   false,
					DataSource: "items",
					Template: &ir.Component{
						ID:   4,
						Kind: ir.KindListItem,
						Tag:  "ListItem",
					},
					Bindings: []ir.ForEachBinding{
						{Property: "text", Expr: "item.name", Reactive: true},
					},
				},
			},
			{
				ID:   5,
				Kind: ir.KindButton,
				Tag:  "Button",
				Ref:  &ir.ComponentRef{Name: "CustomCard", PropsJSON: `{"title":"hi"}`},
			},
		},
	}

	m := &manifest.Manifest{}
	m.AddVariable("count", "int", "0", "global")
	m.AddDefinition(&manifest.ComponentDefinition{
		Name:          "CustomCard",
		ExtendsParent: "",
		Params:        []string{"title"},
		StateVars: []manifest.StateVarDef{
			{Name: "open", TypeName: "bool", InitialExpr: "false"},
		},
		Template:     &ir.Component{ID: 10, Kind: ir.KindContainer, Tag: "Container"},
		ModulePath:   "cards",
		SourceModule: "cards.kry",
	})

	lb := &manifest.LogicBlock{}
	lb.AddFunction(&manifest.LogicFunction{
		Name:       "onClick",
		Params:     []manifest.Param{{Name: "ev", TypeName: "Event"}},
		ReturnType: "void",
		Body: []manifest.Stmt{
			{Kind: manifest.StmtAssign, Name: "count", Expr: "count + 1"},
			{
				Kind: manifest.StmtIf,
				Expr: "count > 9",
				Body: []manifest.Stmt{{Kind: manifest.StmtReturn, Expr: "count"}},
				Else: []manifest.Stmt{{Kind: manifest.StmtDelete, Expr: "cache[count]"}},
			},
		},
		Alternates: []manifest.SourceAlternate{{Lang: "lua", Source: "count = count + 1"}},
	})
	lb.AddBinding(manifest.EventBinding{ComponentID: 1, EventKind: "click", HandlerName: "onClick"})

	src := &manifest.SourceStructures{}
	src.AddStaticBlock(manifest.StaticBlockRecord{ID: "static_1", ParentComponent: 1})
	src.AddForLoop(manifest.ForLoopRecord{
		ScopeID:       "for_1",
		Iterator:      "item",
		CollectionRef: "items",
		TemplateID:    4,
		ExpandedIDs:   []int{4, 5, 6},
	})
	src.AddVarDecl(manifest.VarDeclRecord{Name: "count", Kind: "state", ValueJSON: "0", Scope: "global"})
	src.AddImport(manifest.ImportRecord{LocalName: "cards", ModulePath: "./cards.kry"})
	src.AddStruct(manifest.StructTypeRecord{
		Name: "Item",
		Fields: []manifest.StructFieldRecord{
			{Name: "name", TypeName: "string"},
			{Name: "price", TypeName: "float"},
		},
	})
	src.AddExport(manifest.ExportRecord{Name: "Item", Kind: manifest.ExportStruct, Ref: "Item"})

	styles := &stylesheet.Stylesheet{}
	styles.AddRule(".card", ir.StyleRecord{Set: ir.SetBackground, Background: ir.Color{R: 1, G: 2, B: 3, A: 255}})
	styles.AddRule(".highlighted", ir.StyleRecord{Set: ir.SetOpacity, Opacity: 0.9})

	return &Document{
		Version:  FormatVersion,
		Root:     root,
		Manifest: m,
		Logic:    lb,
		Source:   src,
		Styles:   styles,
		Metadata: SourceMetadata{
			SourceLanguage:  "kry",
			CompilerVersion: "0.1.0",
			Timestamp:       "2026-07-29T00:00:00Z",
		},
	}
}

func TestBinaryRoundTrip_ComponentTree(t *testing.T) {
	doc := sampleDocument()
	data, err := EncodeBinary(doc)
	if err != nil {
		t.Fatalf("EncodeBinary: %v", err)
	}
	got, err := DecodeBinary(data)
	if err != nil {
		t.Fatalf("DecodeBinary: %v", err)
	}
	root := got.Root
	if root.ID != 1 || root.Kind != ir.KindContainer || root.Class != "card highlighted" {
		t.Fatalf("root identity mismatch: %#v", root)
	}
	if root.Style == nil || root.Style.Background != doc.Root.Style.Background || root.Style.Opacity != 0.5 {
		t.Fatalf("root style mismatch: %#v", root.Style)
	}
	if root.Layout == nil || root.Layout.FlexDirection != ir.FlexColumn {
		t.Fatalf("root layout mismatch: %#v", root.Layout)
	}
	if len(root.Events) != 1 || root.Events[0].Handler != "onClick" {
		t.Fatalf("root events mismatch: %#v", root.Events)
	}
	if root.CustomData["role"] != "dialog" {
		t.Fatalf("root custom data mismatch: %#v", root.CustomData)
	}
	if len(root.Bindings) != 1 || root.Bindings[0].SourceExpr != "count" {
		t.Fatalf("root bindings mismatch: %#v", root.Bindings)
	}
	if len(root.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(root.Children))
	}
	if root.Children[0].Text != "hello" || root.Children[0].Visible == nil || !root.Children[0].Visible.VisibleWhen {
		t.Fatalf("text child mismatch: %#v", root.Children[0])
	}
	if root.Children[1].ForEach == nil || root.Children[1].ForEach.DataSource != "items" || root.Children[1].ForEach.Template.Kind != ir.KindListItem {
		t.Fatalf("for-each child mismatch: %#v", root.Children[1])
	}
	if root.Children[2].Ref == nil || root.Children[2].Ref.Name != "CustomCard" {
		t.Fatalf("ref child mismatch: %#v", root.Children[2])
	}
}

func TestBinaryRoundTrip_Manifest(t *testing.T) {
	doc := sampleDocument()
	data, err := EncodeBinary(doc)
	if err != nil {
		t.Fatalf("EncodeBinary: %v", err)
	}
	got, err := DecodeBinary(data)
	if err != nil {
		t.Fatalf("DecodeBinary: %v", err)
	}
	if len(got.Manifest.Variables) != 1 || got.Manifest.Variables[0].Name != "count" {
		t.Fatalf("variables mismatch: %#v", got.Manifest.Variables)
	}
	if len(got.Manifest.Defs) != 1 || got.Manifest.Defs[0].Name != "CustomCard" {
		t.Fatalf("defs mismatch: %#v", got.Manifest.Defs)
	}
	if got.Manifest.Defs[0].StateVars[0].Name != "open" {
		t.Fatalf("state vars mismatch: %#v", got.Manifest.Defs[0].StateVars)
	}
}

func TestBinaryRoundTrip_LogicAndSource(t *testing.T) {
	doc := sampleDocument()
	data, err := EncodeBinary(doc)
	if err != nil {
		t.Fatalf("EncodeBinary: %v", err)
	}
	got, err := DecodeBinary(data)
	if err != nil {
		t.Fatalf("DecodeBinary: %v", err)
	}
	fn, ok := got.Logic.Lookup("onClick")
	if !ok || fn.Alternates[0].Source != "count = count + 1" {
		t.Fatalf("logic function mismatch: %#v", got.Logic.Functions)
	}
	if len(fn.Body) != 2 || fn.Body[0].Kind != manifest.StmtAssign || fn.Body[0].Name != "count" {
		t.Fatalf("statement body mismatch: %+v", fn.Body)
	}
	ifStmt := fn.Body[1]
	if ifStmt.Kind != manifest.StmtIf || ifStmt.Expr != "count > 9" {
		t.Fatalf("if statement mismatch: %+v", ifStmt)
	}
	if len(ifStmt.Body) != 1 || ifStmt.Body[0].Kind != manifest.StmtReturn {
		t.Fatalf("then-branch mismatch: %+v", ifStmt.Body)
	}
	if len(ifStmt.Else) != 1 || ifStmt.Else[0].Kind != manifest.StmtDelete || ifStmt.Else[0].Expr != "cache[count]" {
		t.Fatalf("else-branch mismatch: %+v", ifStmt.Else)
	}
	if len(got.Logic.Bindings) != 1 || got.Logic.Bindings[0].HandlerName != "onClick" {
		t.Fatalf("event bindings mismatch: %#v", got.Logic.Bindings)
	}
	if len(got.Source.ForLoops) != 1 || got.Source.ForLoops[0].Iterator != "item" {
		t.Fatalf("for loops mismatch: %#v", got.Source.ForLoops)
	}
	if len(got.Source.Structs) != 1 || got.Source.Structs[0].Fields[1].Name != "price" {
		t.Fatalf("structs mismatch: %#v", got.Source.Structs)
	}
}

func TestBinaryRoundTrip_Stylesheet(t *testing.T) {
	doc := sampleDocument()
	data, err := EncodeBinary(doc)
	if err != nil {
		t.Fatalf("EncodeBinary: %v", err)
	}
	got, err := DecodeBinary(data)
	if err != nil {
		t.Fatalf("DecodeBinary: %v", err)
	}
	rules := got.Styles.Rules()
	if len(rules) != 2 || rules[0].Selector != ".card" {
		t.Fatalf("stylesheet mismatch: %#v", rules)
	}
}

func TestBinaryRoundTrip_Metadata(t *testing.T) {
	doc := sampleDocument()
	data, err := EncodeBinary(doc)
	if err != nil {
		t.Fatalf("EncodeBinary: %v", err)
	}
	got, err := DecodeBinary(data)
	if err != nil {
		t.Fatalf("DecodeBinary: %v", err)
	}
	if got.Metadata != doc.Metadata {
		t.Fatalf("metadata mismatch: got %#v, want %#v", got.Metadata, doc.Metadata)
	}
}

func TestBinaryDecode_RejectsBadMagic(t *testing.T) {
	_, err := DecodeBinary([]byte("nope"))
	if err != ErrBadMagic {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestJSONRoundTrip_ComponentTree(t *testing.T) {
	doc := sampleDocument()
	data, err := EncodeJSON(doc)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	got, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if got.Root.ID != doc.Root.ID || got.Root.Kind != doc.Root.Kind {
		t.Fatalf("root identity mismatch: %#v", got.Root)
	}
	if len(got.Root.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(got.Root.Children))
	}
	if got.Root.Children[0].Text != "hello" || got.Root.Children[0].Visible == nil {
		t.Fatalf("text child mismatch: %#v", got.Root.Children[0])
	}
	if got.Root.Children[1].ForEach == nil || got.Root.Children[1].ForEach.DataSource != "items" {
		t.Fatalf("for-each child mismatch: %#v", got.Root.Children[1])
	}
	if got.Root.Children[2].Ref == nil || got.Root.Children[2].Ref.Name != "CustomCard" {
		t.Fatalf("ref child mismatch: %#v", got.Root.Children[2])
	}
}

func TestJSONRoundTrip_StyleAndLayout(t *testing.T) {
	doc := sampleDocument()
	data, err := EncodeJSON(doc)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	got, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if got.Root.Style == nil || got.Root.Style.Background != doc.Root.Style.Background {
		t.Fatalf("style mismatch: %#v", got.Root.Style)
	}
	if got.Root.Layout == nil || got.Root.Layout.FlexDirection != ir.FlexColumn {
		t.Fatalf("layout mismatch: %#v", got.Root.Layout)
	}
}

func TestJSONRoundTrip_ManifestLogicSource(t *testing.T) {
	doc := sampleDocument()
	data, err := EncodeJSON(doc)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	got, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if _, ok := got.Manifest.LookupVariable("count", "global"); !ok {
		t.Fatalf("variable lookup failed: %#v", got.Manifest.Variables)
	}
	if _, ok := got.Manifest.LookupDefinition("CustomCard"); !ok {
		t.Fatalf("definition lookup failed: %#v", got.Manifest.Defs)
	}
	fn, ok := got.Logic.Lookup("onClick")
	if !ok {
		t.Fatalf("logic function lookup failed: %#v", got.Logic.Functions)
	}
	if len(fn.Body) != 2 || fn.Body[1].Kind != manifest.StmtIf || len(fn.Body[1].Else) != 1 {
		t.Fatalf("statement body did not survive the JSON round trip: %+v", fn.Body)
	}
	if len(got.Source.Imports) != 1 || got.Source.Imports[0].LocalName != "cards" {
		t.Fatalf("imports mismatch: %#v", got.Source.Imports)
	}
}

func TestJSONRoundTrip_Stylesheet(t *testing.T) {
	doc := sampleDocument()
	data, err := EncodeJSON(doc)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	got, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if got.Styles == nil {
		t.Fatalf("expected stylesheet, got nil")
	}
	if style, ok := got.Styles.Lookup(".card"); !ok || style.Background.R != 1 {
		t.Fatalf("stylesheet rule mismatch: %#v", style)
	}
}

func TestJSONRoundTrip_NilStylesheetStaysNil(t *testing.T) {
	doc := sampleDocument()
	doc.Styles = nil
	data, err := EncodeJSON(doc)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	got, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if got.Styles != nil {
		t.Fatalf("expected nil stylesheet, got %#v", got.Styles)
	}
}

func TestJSONRoundTrip_Metadata(t *testing.T) {
	doc := sampleDocument()
	data, err := EncodeJSON(doc)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	got, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if got.Metadata != doc.Metadata {
		t.Fatalf("metadata mismatch: got %#v, want %#v", got.Metadata, doc.Metadata)
	}
}
