// JSON KIR: the structured, human-readable wire format. Built on
// github.com/bitly/go-simplejson because the codec's contract is
// null-safe add/get throughout — missing fields mean default, null
// strings serialize as JSON null — which is exactly what simplejson's
// Get/Must* accessors provide, without hand-rolled
// map[string]interface{} nil-checks.
package kir

import (
	"encoding/json"

	simplejson "github.com/bitly/go-simplejson"
	"github.com/kryonlabs/kryon-core/pkg/ir"
	"github.com/kryonlabs/kryon-core/pkg/manifest"
	"github.com/kryonlabs/kryon-core/pkg/stylesheet"
)

// setNullableStr writes val under key, or explicit JSON null when val
// is the Go zero value, so optional string fields keep their
// null-vs-empty distinction on the wire.
func setNullableStr(j *simplejson.Json, key, val string) {
	if val == "" {
		j.Set(key, nil)
		return
	}
	j.Set(key, val)
}

// getNullableStr reads key back as "" for both a missing key and an
// explicit JSON null.
func getNullableStr(j *simplejson.Json, key string) string {
	s, err := j.Get(key).String()
	if err != nil {
		return ""
	}
	return s
}

// EncodeJSON serializes doc to the structured JSON KIR document:
// `version`, `root`, `reactive_manifest`, `logic_block`,
// `source_metadata`, `source_structures`, and an optional `stylesheet`.
func EncodeJSON(doc *Document) ([]byte, error) {
	j := simplejson.New()
	j.Set("version", FormatVersion)
	j.Set("root", componentToJSON(doc.Root).Interface())
	j.Set("reactive_manifest", manifestToJSON(doc.Manifest).Interface())
	j.Set("logic_block", logicToJSON(doc.Logic).Interface())
	j.Set("source_metadata", metadataToJSON(doc.Metadata).Interface())
	j.Set("source_structures", sourceToJSON(doc.Source).Interface())
	if doc.Styles != nil {
		j.Set("stylesheet", stylesheetToJSON(doc.Styles).Interface())
	} else {
		j.Set("stylesheet", nil)
	}
	return j.Encode()
}

// DecodeJSON parses a structured JSON KIR document produced by EncodeJSON
// (or a conformant external writer) back into a Document.
func DecodeJSON(data []byte) (*Document, error) {
	j, err := simplejson.NewJson(data)
	if err != nil {
		return nil, err
	}
	doc := &Document{
		Version:  j.Get("version").MustInt(1),
		Root:     componentFromJSON(j.Get("root")),
		Manifest: manifestFromJSON(j.Get("reactive_manifest")),
		Logic:    logicFromJSON(j.Get("logic_block")),
		Source:   sourceFromJSON(j.Get("source_structures")),
	}
	doc.Metadata = metadataFromJSON(j.Get("source_metadata"))
	if sj, ok := j.CheckGet("stylesheet"); ok && sj.Interface() != nil {
		doc.Styles = stylesheetFromJSON(sj)
	}
	return doc, nil
}

func metadataToJSON(m SourceMetadata) *simplejson.Json {
	j := simplejson.New()
	setNullableStr(j, "source_language", m.SourceLanguage)
	setNullableStr(j, "compiler_version", m.CompilerVersion)
	setNullableStr(j, "timestamp", m.Timestamp)
	return j
}

func metadataFromJSON(j *simplejson.Json) SourceMetadata {
	return SourceMetadata{
		SourceLanguage:  getNullableStr(j, "source_language"),
		CompilerVersion: getNullableStr(j, "compiler_version"),
		Timestamp:       getNullableStr(j, "timestamp"),
	}
}

func dimensionToJSON(d ir.Dimension) *simplejson.Json {
	j := simplejson.New()
	j.Set("kind", int(d.Kind))
	j.Set("value", d.Value)
	return j
}

func dimensionFromJSON(j *simplejson.Json) ir.Dimension {
	return ir.Dimension{
		Kind:  ir.DimensionKind(j.Get("kind").MustInt()),
		Value: j.Get("value").MustFloat64(),
	}
}

func colorToJSON(c ir.Color) *simplejson.Json {
	j := simplejson.New()
	j.Set("r", c.R)
	j.Set("g", c.G)
	j.Set("b", c.B)
	j.Set("a", c.A)
	return j
}

func colorFromJSON(j *simplejson.Json) ir.Color {
	return ir.Color{
		R: uint8(j.Get("r").MustInt()),
		G: uint8(j.Get("g").MustInt()),
		B: uint8(j.Get("b").MustInt()),
		A: uint8(j.Get("a").MustInt()),
	}
}

func rectToJSON(r ir.Rect) *simplejson.Json {
	j := simplejson.New()
	j.Set("top", dimensionToJSON(r.Top).Interface())
	j.Set("right", dimensionToJSON(r.Right).Interface())
	j.Set("bottom", dimensionToJSON(r.Bottom).Interface())
	j.Set("left", dimensionToJSON(r.Left).Interface())
	return j
}

func rectFromJSON(j *simplejson.Json) ir.Rect {
	return ir.Rect{
		Top:    dimensionFromJSON(j.Get("top")),
		Right:  dimensionFromJSON(j.Get("right")),
		Bottom: dimensionFromJSON(j.Get("bottom")),
		Left:   dimensionFromJSON(j.Get("left")),
	}
}

func styleToJSON(s *ir.StyleRecord) interface{} {
	if s == nil {
		return nil
	}
	j := simplejson.New()
	j.Set("set", uint64(s.Set))
	j.Set("background", colorToJSON(s.Background).Interface())
	j.Set("color", colorToJSON(s.Foreground).Interface())
	j.Set("borderColor", colorToJSON(s.BorderColor).Interface())
	j.Set("borderWidth", dimensionToJSON(s.BorderWidth).Interface())
	j.Set("borderRadius", dimensionToJSON(s.BorderRadius).Interface())
	setNullableStr(j, "fontFamily", s.FontFamily)
	j.Set("fontSize", dimensionToJSON(s.FontSize).Interface())
	setNullableStr(j, "fontWeight", s.FontWeight)
	j.Set("fontFlags", int(s.FontFlags))
	j.Set("padding", rectToJSON(s.Padding).Interface())
	j.Set("margin", rectToJSON(s.Margin).Interface())
	j.Set("position", int(s.Position))
	j.Set("x", dimensionToJSON(s.X).Interface())
	j.Set("y", dimensionToJSON(s.Y).Interface())
	j.Set("visible", s.Visible)
	j.Set("opacity", s.Opacity)
	j.Set("zOrder", s.ZOrder)
	return j.Interface()
}

func styleFromJSON(j *simplejson.Json) *ir.StyleRecord {
	if j == nil || j.Interface() == nil {
		return nil
	}
	return &ir.StyleRecord{
		Set:          ir.StyleSetFlags(j.Get("set").MustUint64()),
		Background:   colorFromJSON(j.Get("background")),
		Foreground:   colorFromJSON(j.Get("color")),
		BorderColor:  colorFromJSON(j.Get("borderColor")),
		BorderWidth:  dimensionFromJSON(j.Get("borderWidth")),
		BorderRadius: dimensionFromJSON(j.Get("borderRadius")),
		FontFamily:   getNullableStr(j, "fontFamily"),
		FontSize:     dimensionFromJSON(j.Get("fontSize")),
		FontWeight:   getNullableStr(j, "fontWeight"),
		FontFlags:    ir.FontFlags(j.Get("fontFlags").MustInt()),
		Padding:      rectFromJSON(j.Get("padding")),
		Margin:       rectFromJSON(j.Get("margin")),
		Position:     ir.PositionMode(j.Get("position").MustInt()),
		X:            dimensionFromJSON(j.Get("x")),
		Y:            dimensionFromJSON(j.Get("y")),
		Visible:      j.Get("visible").MustBool(),
		Opacity:      j.Get("opacity").MustFloat64(),
		ZOrder:       j.Get("zOrder").MustInt(),
	}
}

func layoutToJSON(l *ir.LayoutRecord) interface{} {
	if l == nil {
		return nil
	}
	j := simplejson.New()
	j.Set("mode", int(l.Mode))
	j.Set("explicitDisplay", l.ExplicitDisplay)
	j.Set("minWidth", dimensionToJSON(l.MinWidth).Interface())
	j.Set("maxWidth", dimensionToJSON(l.MaxWidth).Interface())
	j.Set("minHeight", dimensionToJSON(l.MinHeight).Interface())
	j.Set("maxHeight", dimensionToJSON(l.MaxHeight).Interface())
	j.Set("flexDirection", int(l.FlexDirection))
	j.Set("gap", dimensionToJSON(l.Gap).Interface())
	j.Set("justifyContent", int(l.JustifyContent))
	j.Set("alignItems", int(l.AlignItems))
	j.Set("wrap", l.Wrap)
	j.Set("gridColumns", l.GridColumns)
	j.Set("gridRows", l.GridRows)
	j.Set("padding", rectToJSON(l.Padding).Interface())
	j.Set("margin", rectToJSON(l.Margin).Interface())
	j.Set("aspectRatio", l.AspectRatio)
	return j.Interface()
}

func layoutFromJSON(j *simplejson.Json) *ir.LayoutRecord {
	if j == nil || j.Interface() == nil {
		return nil
	}
	return &ir.LayoutRecord{
		Mode:            ir.LayoutMode(j.Get("mode").MustInt()),
		ExplicitDisplay: j.Get("explicitDisplay").MustBool(),
		MinWidth:        dimensionFromJSON(j.Get("minWidth")),
		MaxWidth:        dimensionFromJSON(j.Get("maxWidth")),
		MinHeight:       dimensionFromJSON(j.Get("minHeight")),
		MaxHeight:       dimensionFromJSON(j.Get("maxHeight")),
		FlexDirection:   ir.FlexDirection(j.Get("flexDirection").MustInt()),
		Gap:             dimensionFromJSON(j.Get("gap")),
		JustifyContent:  ir.Alignment(j.Get("justifyContent").MustInt()),
		AlignItems:      ir.Alignment(j.Get("alignItems").MustInt()),
		Wrap:            j.Get("wrap").MustBool(),
		GridColumns:     j.Get("gridColumns").MustInt(),
		GridRows:        j.Get("gridRows").MustInt(),
		Padding:         rectFromJSON(j.Get("padding")),
		Margin:          rectFromJSON(j.Get("margin")),
		AspectRatio:     j.Get("aspectRatio").MustFloat64(),
	}
}

func componentToJSON(c *ir.Component) *simplejson.Json {
	j := simplejson.New()
	if c == nil {
		return j
	}
	j.Set("id", c.ID)
	j.Set("type", ir.KindName(c.Kind))
	setNullableStr(j, "tag", c.Tag)
	setNullableStr(j, "className", c.Class)
	setNullableStr(j, "text", c.Text)
	setNullableStr(j, "text_expression", c.TextExpr)
	j.Set("style", styleToJSON(c.Style))
	j.Set("layout", layoutToJSON(c.Layout))

	children := make([]interface{}, 0, len(c.Children))
	for _, child := range c.Children {
		children = append(children, componentToJSON(child).Interface())
	}
	j.Set("children", children)

	events := make([]interface{}, 0, len(c.Events))
	for _, e := range c.Events {
		ej := simplejson.New()
		ej.Set("kind", e.Kind)
		ej.Set("handler", e.Handler)
		events = append(events, ej.Interface())
	}
	j.Set("events", events)

	customData := make(map[string]interface{}, len(c.CustomData))
	for k, v := range c.CustomData {
		customData[k] = v
	}
	j.Set("custom_data", customData)

	if c.Ref != nil {
		j.Set("component_ref", c.Ref.Name)
		j.Set("component_props", c.Ref.PropsJSON)
	} else {
		j.Set("component_ref", nil)
		j.Set("component_props", nil)
	}

	setNullableStr(j, "scope", c.Scope)

	if c.Visible != nil {
		vj := simplejson.New()
		vj.Set("expr", c.Visible.Expr)
		vj.Set("visible_when", c.Visible.VisibleWhen)
		j.Set("visible_condition", vj.Interface())
	} else {
		j.Set("visible_condition", nil)
	}

	if c.ForEach != nil {
		j.Set("foreach_def", foreachToJSON(c.ForEach).Interface())
	} else {
		j.Set("foreach_def", nil)
	}

	bindings := make([]interface{}, 0, len(c.Bindings))
	for _, b := range c.Bindings {
		bj := simplejson.New()
		bj.Set("property", b.Property)
		bj.Set("source_expr", b.SourceExpr)
		bj.Set("fallback", b.Fallback)
		bj.Set("kind", b.Kind)
		bindings = append(bindings, bj.Interface())
	}
	j.Set("property_bindings", bindings)

	return j
}

func componentFromJSON(j *simplejson.Json) *ir.Component {
	if j == nil || j.Interface() == nil {
		return nil
	}
	if _, ok := j.CheckGet("type"); !ok {
		return nil
	}
	c := &ir.Component{
		ID:       j.Get("id").MustInt(),
		Tag:      getNullableStr(j, "tag"),
		Class:    getNullableStr(j, "className"),
		Text:     getNullableStr(j, "text"),
		TextExpr: getNullableStr(j, "text_expression"),
		Scope:    getNullableStr(j, "scope"),
	}
	typeName := getNullableStr(j, "type")
	if k, ok := ir.ResolveBuiltinKind(typeName); ok {
		c.Kind = k
	} else if typeName == "for_each" {
		c.Kind = ir.KindForEach
	} else {
		c.Kind = ir.KindCustom
	}
	c.Style = styleFromJSON(j.Get("style"))
	c.Layout = layoutFromJSON(j.Get("layout"))

	for _, childIface := range j.Get("children").MustArray() {
		cj := jsonFromInterface(childIface)
		if child := componentFromJSON(cj); child != nil {
			c.Children = append(c.Children, child)
		}
	}

	for _, evIface := range j.Get("events").MustArray() {
		ej := jsonFromInterface(evIface)
		c.Events = append(c.Events, ir.Event{
			Kind:    getNullableStr(ej, "kind"),
			Handler: getNullableStr(ej, "handler"),
		})
	}

	if cd, err := j.Get("custom_data").Map(); err == nil && len(cd) > 0 {
		c.CustomData = make(map[string]string, len(cd))
		for k, v := range cd {
			if s, ok := v.(string); ok {
				c.CustomData[k] = s
			}
		}
	}

	if refName, ok := j.CheckGet("component_ref"); ok && refName.Interface() != nil {
		c.Ref = &ir.ComponentRef{
			Name:      refName.MustString(),
			PropsJSON: getNullableStr(j, "component_props"),
		}
	}

	if vj, ok := j.CheckGet("visible_condition"); ok && vj.Interface() != nil {
		c.Visible = &ir.VisibleCondition{
			Expr:        getNullableStr(vj, "expr"),
			VisibleWhen: vj.Get("visible_when").MustBool(),
		}
	}

	if fj, ok := j.CheckGet("foreach_def"); ok && fj.Interface() != nil {
		c.ForEach = foreachFromJSON(fj)
	}

	for _, bIface := range j.Get("property_bindings").MustArray() {
		bj := jsonFromInterface(bIface)
		c.Bindings = append(c.Bindings, ir.PropertyBinding{
			Property:   getNullableStr(bj, "property"),
			SourceExpr: getNullableStr(bj, "source_expr"),
			Fallback:   getNullableStr(bj, "fallback"),
			Kind:       getNullableStr(bj, "kind"),
		})
	}

	return c
}

func foreachToJSON(f *ir.ForEachDef) *simplejson.Json {
	j := simplejson.New()
	j.Set("item_name", f.ItemName)
	j.Set("index_name", f.IndexName)
	j.Set("implicit", f.Implicit)
	j.Set("data_source", f.DataSource)
	j.Set("template", componentToJSON(f.Template).Interface())
	bindings := make([]interface{}, 0, len(f.Bindings))
	for _, b := range f.Bindings {
		bj := simplejson.New()
		bj.Set("property", b.Property)
		bj.Set("expr", b.Expr)
		bj.Set("reactive", b.Reactive)
		bindings = append(bindings, bj.Interface())
	}
	j.Set("bindings", bindings)
	return j
}

func foreachFromJSON(j *simplejson.Json) *ir.ForEachDef {
	f := &ir.ForEachDef{
		ItemName:   getNullableStr(j, "item_name"),
		IndexName:  getNullableStr(j, "index_name"),
		Implicit:   j.Get("implicit").MustBool(),
		DataSource: getNullableStr(j, "data_source"),
		Template:   componentFromJSON(j.Get("template")),
	}
	for _, bIface := range j.Get("bindings").MustArray() {
		bj := jsonFromInterface(bIface)
		f.Bindings = append(f.Bindings, ir.ForEachBinding{
			Property: getNullableStr(bj, "property"),
			Expr:     getNullableStr(bj, "expr"),
			Reactive: bj.Get("reactive").MustBool(),
		})
	}
	return f
}

func manifestToJSON(m *manifest.Manifest) *simplejson.Json {
	j := simplejson.New()
	if m == nil {
		m = &manifest.Manifest{}
	}
	vars := make([]interface{}, 0, len(m.Variables))
	for _, v := range m.Variables {
		vj := simplejson.New()
		vj.Set("id", v.ID)
		vj.Set("name", v.Name)
		vj.Set("type", v.TypeTag)
		setNullableStr(vj, "initial_value_json", v.InitialJSON)
		vj.Set("scope", v.Scope)
		vars = append(vars, vj.Interface())
	}
	j.Set("variables", vars)

	defs := make([]interface{}, 0, len(m.Defs))
	for _, d := range m.Defs {
		dj := simplejson.New()
		dj.Set("name", d.Name)
		setNullableStr(dj, "extends", d.ExtendsParent)
		dj.Set("params", d.Params)
		stateVars := make([]interface{}, 0, len(d.StateVars))
		for _, sv := range d.StateVars {
			svj := simplejson.New()
			svj.Set("name", sv.Name)
			svj.Set("type", sv.TypeName)
			svj.Set("initial_expr", sv.InitialExpr)
			stateVars = append(stateVars, svj.Interface())
		}
		dj.Set("state_vars", stateVars)
		dj.Set("template", componentToJSON(d.Template).Interface())
		setNullableStr(dj, "module_path", d.ModulePath)
		setNullableStr(dj, "source_module", d.SourceModule)
		defs = append(defs, dj.Interface())
	}
	j.Set("component_definitions", defs)
	return j
}

func manifestFromJSON(j *simplejson.Json) *manifest.Manifest {
	m := &manifest.Manifest{}
	for _, vIface := range j.Get("variables").MustArray() {
		vj := jsonFromInterface(vIface)
		m.AddVariable(
			getNullableStr(vj, "name"),
			getNullableStr(vj, "type"),
			getNullableStr(vj, "initial_value_json"),
			getNullableStr(vj, "scope"),
		)
	}
	for _, dIface := range j.Get("component_definitions").MustArray() {
		dj := jsonFromInterface(dIface)
		def := &manifest.ComponentDefinition{
			Name:          getNullableStr(dj, "name"),
			ExtendsParent: getNullableStr(dj, "extends"),
			ModulePath:    getNullableStr(dj, "module_path"),
			SourceModule:  getNullableStr(dj, "source_module"),
			Template:      componentFromJSON(dj.Get("template")),
		}
		def.Params = dj.Get("params").MustStringArray()
		for _, svIface := range dj.Get("state_vars").MustArray() {
			svj := jsonFromInterface(svIface)
			def.StateVars = append(def.StateVars, manifest.StateVarDef{
				Name:        getNullableStr(svj, "name"),
				TypeName:    getNullableStr(svj, "type"),
				InitialExpr: getNullableStr(svj, "initial_expr"),
			})
		}
		m.AddDefinition(def)
	}
	return m
}

func logicToJSON(lb *manifest.LogicBlock) *simplejson.Json {
	j := simplejson.New()
	if lb == nil {
		lb = &manifest.LogicBlock{}
	}
	fns := make([]interface{}, 0, len(lb.Functions))
	for _, fn := range lb.Functions {
		fj := simplejson.New()
		fj.Set("name", fn.Name)
		params := make([]interface{}, 0, len(fn.Params))
		for _, p := range fn.Params {
			pj := simplejson.New()
			pj.Set("name", p.Name)
			pj.Set("type", p.TypeName)
			params = append(params, pj.Interface())
		}
		fj.Set("params", params)
		fj.Set("return_type", fn.ReturnType)
		fj.Set("statements", stmtsToJSON(fn.Body))
		alts := make([]interface{}, 0, len(fn.Alternates))
		for _, a := range fn.Alternates {
			aj := simplejson.New()
			aj.Set("lang", a.Lang)
			aj.Set("source", a.Source)
			alts = append(alts, aj.Interface())
		}
		fj.Set("source_alternates", alts)
		fns = append(fns, fj.Interface())
	}
	j.Set("functions", fns)

	bindings := make([]interface{}, 0, len(lb.Bindings))
	for _, b := range lb.Bindings {
		bj := simplejson.New()
		bj.Set("component_id", b.ComponentID)
		bj.Set("event", b.EventKind)
		bj.Set("handler", b.HandlerName)
		bindings = append(bindings, bj.Interface())
	}
	j.Set("event_bindings", bindings)
	return j
}

func logicFromJSON(j *simplejson.Json) *manifest.LogicBlock {
	lb := &manifest.LogicBlock{}
	for _, fnIface := range j.Get("functions").MustArray() {
		fj := jsonFromInterface(fnIface)
		fn := &manifest.LogicFunction{
			Name:       getNullableStr(fj, "name"),
			ReturnType: getNullableStr(fj, "return_type"),
		}
		for _, pIface := range fj.Get("params").MustArray() {
			pj := jsonFromInterface(pIface)
			fn.Params = append(fn.Params, manifest.Param{
				Name:     getNullableStr(pj, "name"),
				TypeName: getNullableStr(pj, "type"),
			})
		}
		fn.Body = stmtsFromJSON(fj.Get("statements").MustArray())
		for _, aIface := range fj.Get("source_alternates").MustArray() {
			aj := jsonFromInterface(aIface)
			fn.Alternates = append(fn.Alternates, manifest.SourceAlternate{
				Lang:   getNullableStr(aj, "lang"),
				Source: getNullableStr(aj, "source"),
			})
		}
		lb.AddFunction(fn)
	}
	for _, bIface := range j.Get("event_bindings").MustArray() {
		bj := jsonFromInterface(bIface)
		lb.AddBinding(manifest.EventBinding{
			ComponentID: bj.Get("component_id").MustInt(),
			EventKind:   getNullableStr(bj, "event"),
			HandlerName: getNullableStr(bj, "handler"),
		})
	}
	return lb
}

func stmtsToJSON(stmts []manifest.Stmt) []interface{} {
	out := make([]interface{}, 0, len(stmts))
	for _, s := range stmts {
		sj := simplejson.New()
		sj.Set("kind", int(s.Kind))
		setNullableStr(sj, "name", s.Name)
		setNullableStr(sj, "type", s.TypeName)
		setNullableStr(sj, "expr", s.Expr)
		sj.Set("body", stmtsToJSON(s.Body))
		sj.Set("else", stmtsToJSON(s.Else))
		out = append(out, sj.Interface())
	}
	return out
}

func stmtsFromJSON(arr []interface{}) []manifest.Stmt {
	var out []manifest.Stmt
	for _, v := range arr {
		sj := jsonFromInterface(v)
		out = append(out, manifest.Stmt{
			Kind:     manifest.StmtKind(sj.Get("kind").MustInt()),
			Name:     getNullableStr(sj, "name"),
			TypeName: getNullableStr(sj, "type"),
			Expr:     getNullableStr(sj, "expr"),
			Body:     stmtsFromJSON(sj.Get("body").MustArray()),
			Else:     stmtsFromJSON(sj.Get("else").MustArray()),
		})
	}
	return out
}

func sourceToJSON(s *manifest.SourceStructures) *simplejson.Json {
	j := simplejson.New()
	if s == nil {
		s = &manifest.SourceStructures{}
	}
	staticBlocks := make([]interface{}, 0, len(s.StaticBlocks))
	for _, b := range s.StaticBlocks {
		bj := simplejson.New()
		bj.Set("id", b.ID)
		bj.Set("parent_component", b.ParentComponent)
		staticBlocks = append(staticBlocks, bj.Interface())
	}
	j.Set("static_blocks", staticBlocks)

	forLoops := make([]interface{}, 0, len(s.ForLoops))
	for _, fl := range s.ForLoops {
		flj := simplejson.New()
		flj.Set("scope_id", fl.ScopeID)
		flj.Set("iterator", fl.Iterator)
		flj.Set("collection_ref", fl.CollectionRef)
		flj.Set("template_id", fl.TemplateID)
		flj.Set("expanded_component_ids", fl.ExpandedIDs)
		forLoops = append(forLoops, flj.Interface())
	}
	j.Set("for_loops", forLoops)

	varDecls := make([]interface{}, 0, len(s.VarDecls))
	for _, vd := range s.VarDecls {
		vdj := simplejson.New()
		vdj.Set("name", vd.Name)
		vdj.Set("kind", vd.Kind)
		setNullableStr(vdj, "value_json", vd.ValueJSON)
		vdj.Set("scope", vd.Scope)
		varDecls = append(varDecls, vdj.Interface())
	}
	j.Set("variable_declarations", varDecls)

	imports := make([]interface{}, 0, len(s.Imports))
	for _, im := range s.Imports {
		imj := simplejson.New()
		imj.Set("local_name", im.LocalName)
		imj.Set("module_path", im.ModulePath)
		imports = append(imports, imj.Interface())
	}
	j.Set("imports", imports)

	structs := make([]interface{}, 0, len(s.Structs))
	for _, st := range s.Structs {
		stj := simplejson.New()
		stj.Set("name", st.Name)
		fields := make([]interface{}, 0, len(st.Fields))
		for _, f := range st.Fields {
			fj := simplejson.New()
			fj.Set("name", f.Name)
			fj.Set("type", f.TypeName)
			fields = append(fields, fj.Interface())
		}
		stj.Set("fields", fields)
		structs = append(structs, stj.Interface())
	}
	j.Set("struct_types", structs)

	exports := make([]interface{}, 0, len(s.Exports))
	for _, ex := range s.Exports {
		exj := simplejson.New()
		exj.Set("name", ex.Name)
		exj.Set("kind", int(ex.Kind))
		setNullableStr(exj, "ref", ex.Ref)
		exports = append(exports, exj.Interface())
	}
	j.Set("module_exports", exports)

	return j
}

func sourceFromJSON(j *simplejson.Json) *manifest.SourceStructures {
	s := &manifest.SourceStructures{}
	for _, bIface := range j.Get("static_blocks").MustArray() {
		bj := jsonFromInterface(bIface)
		s.AddStaticBlock(manifest.StaticBlockRecord{
			ID:              getNullableStr(bj, "id"),
			ParentComponent: bj.Get("parent_component").MustInt(),
		})
	}
	for _, flIface := range j.Get("for_loops").MustArray() {
		flj := jsonFromInterface(flIface)
		rec := manifest.ForLoopRecord{
			ScopeID:       getNullableStr(flj, "scope_id"),
			Iterator:      getNullableStr(flj, "iterator"),
			CollectionRef: getNullableStr(flj, "collection_ref"),
			TemplateID:    flj.Get("template_id").MustInt(),
		}
		for _, idIface := range flj.Get("expanded_component_ids").MustArray() {
			if id, ok := intFromInterface(idIface); ok {
				rec.ExpandedIDs = append(rec.ExpandedIDs, id)
			}
		}
		s.AddForLoop(rec)
	}
	for _, vdIface := range j.Get("variable_declarations").MustArray() {
		vdj := jsonFromInterface(vdIface)
		s.AddVarDecl(manifest.VarDeclRecord{
			Name:      getNullableStr(vdj, "name"),
			Kind:      getNullableStr(vdj, "kind"),
			ValueJSON: getNullableStr(vdj, "value_json"),
			Scope:     getNullableStr(vdj, "scope"),
		})
	}
	for _, imIface := range j.Get("imports").MustArray() {
		imj := jsonFromInterface(imIface)
		s.AddImport(manifest.ImportRecord{
			LocalName:  getNullableStr(imj, "local_name"),
			ModulePath: getNullableStr(imj, "module_path"),
		})
	}
	for _, stIface := range j.Get("struct_types").MustArray() {
		stj := jsonFromInterface(stIface)
		rec := manifest.StructTypeRecord{Name: getNullableStr(stj, "name")}
		for _, fIface := range stj.Get("fields").MustArray() {
			fj := jsonFromInterface(fIface)
			rec.Fields = append(rec.Fields, manifest.StructFieldRecord{
				Name:     getNullableStr(fj, "name"),
				TypeName: getNullableStr(fj, "type"),
			})
		}
		s.AddStruct(rec)
	}
	for _, exIface := range j.Get("module_exports").MustArray() {
		exj := jsonFromInterface(exIface)
		s.AddExport(manifest.ExportRecord{
			Name: getNullableStr(exj, "name"),
			Kind: manifest.ExportKind(exj.Get("kind").MustInt()),
			Ref:  getNullableStr(exj, "ref"),
		})
	}
	return s
}

func stylesheetToJSON(s *stylesheet.Stylesheet) *simplejson.Json {
	j := simplejson.New()
	rules := s.Rules()
	out := make([]interface{}, 0, len(rules))
	for _, rule := range rules {
		rj := simplejson.New()
		rj.Set("selector", rule.Selector)
		style := rule.Style
		rj.Set("style", styleToJSON(&style))
		out = append(out, rj.Interface())
	}
	j.Set("rules", out)
	return j
}

func stylesheetFromJSON(j *simplejson.Json) *stylesheet.Stylesheet {
	rulesIface, ok := j.CheckGet("rules")
	if !ok {
		return nil
	}
	arr := rulesIface.MustArray()
	if len(arr) == 0 {
		return nil
	}
	s := &stylesheet.Stylesheet{}
	for _, rIface := range arr {
		rj := jsonFromInterface(rIface)
		selector := getNullableStr(rj, "selector")
		style := styleFromJSON(rj.Get("style"))
		if style == nil {
			continue
		}
		s.AddRule(selector, *style)
	}
	return s
}

// intFromInterface reads an array element back as an int. simplejson
// decodes with UseNumber, so elements arrive as json.Number on the decode
// path but stay Go ints when a document built in memory is re-read.
func intFromInterface(v interface{}) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}

// jsonFromInterface re-wraps a value that came out of MustArray()/a raw
// interface{} as a *simplejson.Json, so nested objects can keep using the
// same Get/Must* accessor vocabulary instead of a second map-walking path.
func jsonFromInterface(v interface{}) *simplejson.Json {
	j := simplejson.New()
	if m, ok := v.(map[string]interface{}); ok {
		for k, val := range m {
			j.Set(k, val)
		}
	}
	return j
}
