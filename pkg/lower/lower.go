package lower

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kryonlabs/kryon-core/internal/suggest"
	"github.com/kryonlabs/kryon-core/pkg/ast"
	"github.com/kryonlabs/kryon-core/pkg/diag"
	"github.com/kryonlabs/kryon-core/pkg/ir"
	"github.com/kryonlabs/kryon-core/pkg/manifest"
	"github.com/kryonlabs/kryon-core/pkg/token"
)

// Lower runs the whole AST->IR conversion over file and returns the root
// component tree. Everything else the pass produces (reactive variables,
// component definitions, logic functions, stylesheet rules, source
// structures, diagnostics) accumulates into ctx and is read back from
// there once Lower returns.
func Lower(file *ast.File, ctx *Context) *ir.Component {
	ctx.registerImports(file)

	for _, def := range file.ComponentDefs {
		if _, exists := ctx.defs[def.Name]; exists {
			ctx.Diags.Add(diag.Error, diag.Validation, def.Pos, "component %q already declared", def.Name)
			continue
		}
		ctx.registerDef(def.Name, &componentDef{def: def})
	}

	// Module-level declarations feed the substitution table so property
	// values and loop iterables can resolve against them.
	moduleScope := make(map[string]ast.Expr, len(file.VarDecls))
	for _, vd := range file.VarDecls {
		ctx.registerGlobalVar(vd)
		if vd.Value != nil {
			moduleScope[vd.Name] = vd.Value
		}
	}
	for _, st := range file.Structs {
		ctx.registerStruct(st)
	}
	for _, sb := range file.Styles {
		ctx.Styles.AddRule(sb.Selector, ctx.buildStyleRecord(sb.Properties))
	}
	for _, cb := range file.CodeBlocks {
		ctx.registerCodeBlock(cb)
	}
	for _, fn := range file.Functions {
		ctx.registerFunction(fn, "")
	}
	if file.ModuleReturn != nil {
		ctx.registerExports(file, file.ModuleReturn)
	}

	for _, name := range ctx.defOrder {
		entry := ctx.defs[name]
		if _, exists := ctx.Manifest.LookupDefinition(name); exists {
			continue
		}
		var stateVars []manifest.StateVarDef
		var params []string
		if entry.def.Body != nil {
			for _, sd := range entry.def.Body.StateDecls {
				stateVars = append(stateVars, manifest.StateVarDef{Name: sd.Name, TypeName: sd.TypeName, InitialExpr: exprText(sd.Value)})
			}
		}
		for _, p := range entry.def.Params {
			params = append(params, p.Name)
		}
		ctx.Manifest.AddDefinition(&manifest.ComponentDefinition{
			Name: name, ExtendsParent: entry.def.ExtendsParent,
			Params: params, StateVars: stateVars, ModulePath: entry.modulePath,
		})
	}

	if file.Root == nil {
		ctx.Diags.Add(diag.Error, diag.Validation, token.Position{}, "file has no root component instantiation")
		return nil
	}
	ctx.pushScope(moduleScope)
	defer ctx.popScope()
	return ctx.lowerInstance(file.Root)
}

// registerStruct preserves a `struct Name { fields }` declaration for
// codegen round-trip.
func (c *Context) registerStruct(st *ast.StructDecl) {
	if c.Mode == ModeRuntime {
		return
	}
	rec := manifest.StructTypeRecord{Name: st.Name}
	for _, f := range st.Fields {
		rec.Fields = append(rec.Fields, manifest.StructFieldRecord{Name: f.Name, TypeName: f.TypeName})
	}
	c.Source.AddStruct(rec)
}

// registerCodeBlock turns a module- or component-level `@<lang> { ... }`
// block into a logic function `_code_block_<N>` carrying the embedded
// source as its single alternate.
func (c *Context) registerCodeBlock(cb *ast.CodeBlock) {
	c.codeBlockCount++
	name := fmt.Sprintf("_code_block_%d", c.codeBlockCount)
	c.Logic.AddFunction(&manifest.LogicFunction{
		Name:       name,
		Alternates: []manifest.SourceAlternate{{Lang: cb.Lang, Source: cb.Source}},
	})
}

// registerExports records a module's `return { ... }` symbols, classifying
// each by what its value names: a declared function, a declared struct, or
// a plain value.
func (c *Context) registerExports(file *ast.File, mr *ast.ModuleReturn) {
	structNames := make(map[string]bool, len(file.Structs))
	for _, st := range file.Structs {
		structNames[st.Name] = true
	}
	for _, ex := range mr.Exports {
		rec := manifest.ExportRecord{Name: ex.Name, Kind: manifest.ExportValue, Ref: exprText(ex.Value)}
		if ref, ok := ex.Value.(*ast.VarRef); ok {
			if _, isFn := c.Logic.Lookup(ref.Name); isFn {
				rec.Kind = manifest.ExportFunction
			} else if structNames[ref.Name] {
				rec.Kind = manifest.ExportStruct
			}
		}
		c.Source.AddExport(rec)
	}
}

// registerImports records every import for round-trip and, when a
// Resolver is wired, eagerly follows it to pull in the imported module's
// component definitions. Direct recursion mirrors an import back onto its
// own ancestor path, which registerImports detects via importStack.
func (c *Context) registerImports(file *ast.File) {
	for _, imp := range file.Imports {
		c.Source.AddImport(manifest.ImportRecord{LocalName: imp.Name, ModulePath: imp.Path})
		if c.Resolver == nil {
			continue
		}
		if containsStr(c.importStack, imp.Path) {
			c.Diags.Add(diag.Fatal, diag.Validation, imp.Pos, "circular import: %q", imp.Path)
			continue
		}
		child, err := c.Resolver.Resolve(imp.Path)
		if err != nil {
			c.Diags.Add(diag.Error, diag.IO, imp.Pos, "cannot resolve import %q: %v", imp.Path, err)
			continue
		}
		c.importStack = append(c.importStack, imp.Path)
		for _, def := range child.ComponentDefs {
			if _, exists := c.defs[def.Name]; !exists {
				c.registerDef(def.Name, &componentDef{def: def, modulePath: imp.Path})
			}
		}
		if child.ModuleReturn != nil {
			c.registerExports(child, child.ModuleReturn)
		}
		c.registerImports(child)
		c.importStack = c.importStack[:len(c.importStack)-1]
	}
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (c *Context) registerGlobalVar(vd *ast.VarDecl) {
	typeTag := vd.TypeName
	if typeTag == "" {
		typeTag = inferType(vd.Value)
	}
	initJSON := "null"
	if sv, ok := c.evalStatic(vd.Value); ok {
		initJSON = staticJSON(sv)
	}
	// Only simple literal values enter the reactive manifest; arrays and
	// computed values stay substitution-table-only.
	if _, isLit := vd.Value.(*ast.Literal); isLit {
		c.Manifest.AddVariable(vd.Name, typeTag, initJSON, "global")
	}
	if c.Mode != ModeRuntime {
		c.Source.AddVarDecl(manifest.VarDeclRecord{Name: vd.Name, Kind: vd.Kind.String(), ValueJSON: initJSON, Scope: "global"})
	}
}

func (c *Context) registerStateDecl(comp *ir.Component, sd *ast.VarDecl) {
	scope := comp.Scope
	if scope == "" {
		scope = "component"
	}
	typeTag := sd.TypeName
	if typeTag == "" {
		typeTag = inferType(sd.Value)
	}
	initJSON := "null"
	if sv, ok := c.evalStatic(c.substitute(sd.Value)); ok {
		initJSON = staticJSON(sv)
	}
	c.Manifest.AddVariable(sd.Name, typeTag, initJSON, scope)
}

// registerFunction records a function declaration in the logic block,
// converting its parsed body through the recursive statement converter.
// owner namespaces a component-local function as `<ComponentName>:<func>`;
// top-level functions keep their bare names.
func (c *Context) registerFunction(fn *ast.FuncDecl, owner string) {
	name := fn.Name
	if owner != "" {
		name = owner + ":" + name
	}
	var params []manifest.Param
	for _, p := range fn.Params {
		params = append(params, manifest.Param{Name: p.Name, TypeName: p.TypeName})
	}
	c.Logic.AddFunction(&manifest.LogicFunction{
		Name:       name,
		Params:     params,
		ReturnType: fn.ReturnType,
		Body:       convertStmts(fn.Body),
	})
}

func inferType(e ast.Expr) string {
	if lit, ok := e.(*ast.Literal); ok {
		switch lit.Kind {
		case ast.LitInt:
			return "int"
		case ast.LitFloat:
			return "float"
		case ast.LitBool:
			return "bool"
		case ast.LitString:
			return "string"
		}
	}
	return "any"
}

func staticJSON(sv staticValue) string {
	switch {
	case sv.isStr:
		return strconv.Quote(sv.s)
	case sv.isBool:
		return strconv.FormatBool(sv.b)
	case sv.isInt:
		return strconv.FormatInt(sv.i, 10)
	default:
		return strconv.FormatFloat(sv.asFloat(), 'g', -1, 64)
	}
}

// buildStyleRecord lowers a `style <selector> { ... }` block's properties
// into a StyleRecord. Only statically-resolvable values apply — a style
// rule's right-hand side is never a live per-instance binding.
func (c *Context) buildStyleRecord(props []*ast.Property) ir.StyleRecord {
	var rec ir.StyleRecord
	for _, p := range props {
		sv, ok := c.evalStatic(p.Value)
		if !ok {
			continue
		}
		switch p.Name {
		case "backgroundColor":
			if sv.isStr {
				if col, good := parseColor(sv.s); good {
					rec.Background = col
					rec.Set |= ir.SetBackground
				}
			}
		case "color":
			if sv.isStr {
				if col, good := parseColor(sv.s); good {
					rec.Foreground = col
					rec.Set |= ir.SetColor
				}
			}
		case "borderColor":
			if sv.isStr {
				if col, good := parseColor(sv.s); good {
					rec.BorderColor = col
					rec.Set |= ir.SetBorderColor
				}
			}
		case "borderWidth":
			if dim, good := staticDimension(sv); good {
				rec.BorderWidth = dim
				rec.Set |= ir.SetBorderWidth
			}
		case "borderRadius":
			if dim, good := staticDimension(sv); good {
				rec.BorderRadius = dim
				rec.Set |= ir.SetBorderRadius
			}
		case "fontSize":
			if dim, good := staticDimension(sv); good {
				rec.FontSize = dim
				rec.Set |= ir.SetFontSize
			}
		case "fontFamily":
			if sv.isStr {
				rec.FontFamily = sv.s
				rec.Set |= ir.SetFontFamily
			}
		case "fontWeight":
			if sv.isStr {
				rec.FontWeight = sv.s
				if strings.EqualFold(sv.s, "bold") {
					rec.FontFlags |= ir.FontBold
				}
				rec.Set |= ir.SetFontWeight
			}
		case "opacity":
			rec.Opacity = sv.asFloat()
			rec.Set |= ir.SetOpacity
		case "zOrder":
			if sv.isInt {
				rec.ZOrder = int(sv.i)
				rec.Set |= ir.SetZOrder
			}
		case "visible":
			rec.Visible = sv.truthy()
			rec.Set |= ir.SetVisible
		}
	}
	return rec
}

// lowerInstance converts one component-tree node into IR: builtin kinds
// lower directly, everything else resolves against registered component
// definitions.
func (c *Context) lowerInstance(inst *ast.ComponentInst) *ir.Component {
	if kind, ok := ir.ResolveBuiltinKind(inst.Name); ok {
		comp := &ir.Component{ID: c.nextID(), Kind: kind, Tag: inst.Name}
		bindings := c.bindArgsRaw(inst.ArgumentsText)
		c.pushScope(bindings)
		if inst.Body != nil {
			c.lowerBody(comp, inst.Body)
		}
		c.popScope()
		return comp
	}
	return c.lowerCustom(inst)
}

// bindArgsRaw parses an argument list without a known parameter set
// (builtins declare no formal params), substituting each named value
// through the caller's current scope. Positional arguments have no name
// to bind to and are dropped.
func (c *Context) bindArgsRaw(argsText string) map[string]ast.Expr {
	parsed := parseArguments(argsText, c.Diags)
	out := make(map[string]ast.Expr, len(parsed))
	for _, a := range parsed {
		if a.Name == "" {
			continue
		}
		out[a.Name] = c.substitute(a.Value)
	}
	return out
}

// bindArgs parses and validates an argument list against a component
// definition's declared parameters. Positional arguments bind to the
// declared parameters in order; `name = value` arguments bind by name,
// warning on a name the definition never declared. This is the only
// place the arguments become bindings; lowerCustom's earlier
// parseBareVarRefArg check parses the same text separately.
func (c *Context) bindArgs(params []*ast.Param, argsText string) map[string]ast.Expr {
	known := make(map[string]bool, len(params))
	for _, p := range params {
		known[p.Name] = true
	}
	parsed := parseArguments(argsText, c.Diags)
	out := make(map[string]ast.Expr, len(parsed))
	next := 0
	for _, a := range parsed {
		name := a.Name
		if name == "" {
			if next >= len(params) {
				c.Diags.Add(diag.Warning, diag.Validation, a.Value.Position(), "component declares no parameter for positional argument %d", next+1)
				continue
			}
			name = params[next].Name
			next++
		} else if !known[name] {
			c.Diags.Add(diag.Warning, diag.Validation, a.Value.Position(), "component does not declare parameter %q", name)
		}
		out[name] = c.substitute(a.Value)
	}
	return out
}

// parseBareVarRefArg reports whether argsText is a single bare
// identifier reference (e.g. "habit") rather than the usual argument
// list — the shape a custom component invoked with a loop-item variable
// takes, unresolved until the component is actually instantiated at
// runtime.
func parseBareVarRefArg(argsText string) *ast.VarRef {
	if argsText == "" {
		return nil
	}
	errs := &diag.List{}
	tb := newTokenBuffer(argsText, errs)
	ep := ast.NewExprParser(tb, errs)
	e := ep.ParseExpr()
	if e == nil || errs.HasErrors() {
		return nil
	}
	ref, ok := e.(*ast.VarRef)
	if !ok || tb.Peek().Kind != token.EOF {
		return nil
	}
	return ref
}

// inTemplateContext reports whether lowering is inside a ForEach/for-loop
// template body, where a loop-item argument cannot resolve until the
// runtime instantiates the row.
func (c *Context) inTemplateContext() bool {
	return c.templateDepth > 0
}

// lowerCustom instantiates a user-defined component, flattening its
// `extends` chain (base ancestor first, most-derived last) and merging
// each layer's lowered fields onto the result.
func (c *Context) lowerCustom(inst *ast.ComponentInst) *ir.Component {
	if ref := parseBareVarRefArg(inst.ArgumentsText); ref != nil && c.inTemplateContext() {
		if _, resolvable := c.lookupParam(ref.Name); !resolvable {
			return &ir.Component{
				ID:   c.nextID(),
				Kind: ir.KindCustom,
				Tag:  inst.Name,
				Ref:  &ir.ComponentRef{Name: inst.Name, PropsJSON: fmt.Sprintf(`{"arg":%q}`, ref.Name)},
				Pos:  inst.Pos,
			}
		}
	}

	entry, ok := c.defs[inst.Name]
	if !ok {
		if hint := suggest.Hint(inst.Name, c.allComponentNames()); hint != "" {
			c.Diags.AddWithContext(diag.Error, diag.Validation, inst.Pos, hint, "unknown component %q", inst.Name)
		} else {
			c.Diags.Add(diag.Error, diag.Validation, inst.Pos, "unknown component %q", inst.Name)
		}
		return &ir.Component{ID: c.nextID(), Kind: ir.KindCustom, Tag: inst.Name}
	}

	chain, ok := c.resolveChain(inst.Name)
	if !ok {
		return &ir.Component{ID: c.nextID(), Kind: ir.KindCustom, Tag: inst.Name}
	}

	// The instance root is the base-most ancestor's builtin parent, or a
	// plain Container when no builtin is named.
	rootKind := ir.KindContainer
	if base := chain[0].def.ExtendsParent; base != "" {
		if k, isBuiltin := ir.ResolveBuiltinKind(base); isBuiltin {
			rootKind = k
		}
	}

	comp := &ir.Component{
		ID:    c.nextID(),
		Kind:  rootKind,
		Tag:   inst.Name,
		Scope: c.nextInstanceScope(inst.Name),
		Pos:   inst.Pos,
	}
	bindings := c.bindArgs(entry.def.Params, inst.ArgumentsText)

	for i, link := range chain {
		scope := map[string]ast.Expr{}
		if i == len(chain)-1 {
			scope = bindings
		}
		c.pushScope(scope)
		if link.def.Body != nil {
			layer := &ir.Component{Tag: inst.Name, ID: comp.ID, Scope: comp.Scope}
			c.lowerBody(layer, link.def.Body)
			mergeComponent(comp, layer)
		}
		c.popScope()
	}
	return comp
}

// allComponentNames lists the registered custom component names, used to
// compute "did you mean" hints for an unresolved component reference.
// Builtin component names are not included.
func (c *Context) allComponentNames() []string {
	names := append([]string{}, c.Manifest.DefinitionNames()...)
	for name := range c.defs {
		if _, exists := c.Manifest.LookupDefinition(name); !exists {
			names = append(names, name)
		}
	}
	return names
}

// resolveChain walks an `extends` chain from root ancestor to name,
// rejecting a cycle with a Fatal diagnostic. A builtin parent terminates
// the chain — it contributes the root kind, not a template layer.
func (c *Context) resolveChain(name string) ([]*componentDef, bool) {
	if containsStr(c.inheritStack, name) {
		c.Diags.Add(diag.Fatal, diag.Validation, token.Position{},
			"circular component inheritance: %s -> %s", strings.Join(c.inheritStack, " -> "), name)
		return nil, false
	}
	entry, ok := c.defs[name]
	if !ok {
		c.Diags.Add(diag.Error, diag.Validation, token.Position{}, "unknown component %q in extends chain", name)
		return nil, false
	}
	c.inheritStack = append(c.inheritStack, name)
	defer func() { c.inheritStack = c.inheritStack[:len(c.inheritStack)-1] }()

	var chain []*componentDef
	if parent := entry.def.ExtendsParent; parent != "" {
		if _, isBuiltin := ir.ResolveBuiltinKind(parent); !isBuiltin {
			parentChain, ok := c.resolveChain(parent)
			if !ok {
				return nil, false
			}
			chain = append(chain, parentChain...)
		}
	}
	return append(chain, entry), true
}

// mergeComponent overlays src's explicitly-produced fields onto dst,
// child-overrides-parent, matching StyleRecord.Merge's semantics at the
// component level.
func mergeComponent(dst, src *ir.Component) {
	if src.Style != nil {
		if dst.Style == nil {
			dst.Style = src.Style
		} else {
			merged := dst.Style.Merge(*src.Style)
			dst.Style = &merged
		}
	}
	if src.Layout != nil {
		dst.Layout = src.Layout
	}
	if src.Text != "" {
		dst.Text = src.Text
	}
	if src.TextExpr != "" {
		dst.TextExpr = src.TextExpr
	}
	if src.Class != "" {
		dst.Class = src.Class
	}
	if src.Visible != nil {
		dst.Visible = src.Visible
	}
	if src.ForEach != nil {
		dst.ForEach = src.ForEach
	}
	dst.Events = append(dst.Events, src.Events...)
	dst.Bindings = append(dst.Bindings, src.Bindings...)
	for k, v := range src.CustomData {
		if dst.CustomData == nil {
			dst.CustomData = make(map[string]string)
		}
		dst.CustomData[k] = v
	}
	dst.Children = append(dst.Children, src.Children...)
}

// lowerBody lowers every state declaration and tree item of a component
// body onto comp.
func (c *Context) lowerBody(comp *ir.Component, body *ast.ComponentBody) {
	for _, sd := range body.StateDecls {
		c.registerStateDecl(comp, sd)
	}
	for _, item := range body.Items {
		c.lowerItem(comp, item)
	}
}

func (c *Context) lowerItem(comp *ir.Component, item ast.Node) {
	switch n := item.(type) {
	case *ast.Property:
		c.applyProperty(comp, n)
	case *ast.ComponentInst:
		comp.Children = append(comp.Children, c.lowerInstance(n))
	case *ast.StaticBlock:
		c.lowerStaticBlock(comp, n)
	case *ast.ForLoop:
		c.lowerForLoop(comp, n)
	case *ast.ForEachTree:
		c.lowerForEachTree(comp, n)
	case *ast.CondRender:
		c.lowerCondRender(comp, n)
	case *ast.CodeBlock:
		c.registerCodeBlock(n)
	case *ast.FuncDecl:
		c.registerFunction(n, comp.Tag)
	case *ast.VarDecl:
		c.registerStateDecl(comp, n)
	}
}

// lowerStaticBlock assigns the block its stable `static_<N>` id, records
// it, and converts the children with the id current so nested for-loops
// tag their records with it. Variable declarations inside the block feed
// the substitution table and, outside RUNTIME mode, the preserved source
// structures.
func (c *Context) lowerStaticBlock(comp *ir.Component, sb *ast.StaticBlock) {
	c.staticCounter++
	id := fmt.Sprintf("static_%d", c.staticCounter)
	if c.Mode != ModeRuntime {
		c.Source.AddStaticBlock(manifest.StaticBlockRecord{ID: id, ParentComponent: comp.ID})
	}
	prev := c.currentStatic
	c.currentStatic = id

	blockScope := make(map[string]ast.Expr)
	c.pushScope(blockScope)
	for _, item := range sb.Items {
		if vd, ok := item.(*ast.VarDecl); ok {
			if vd.Value != nil {
				blockScope[vd.Name] = vd.Value
			}
			if c.Mode != ModeRuntime {
				initJSON := "null"
				if sv, ok := c.evalStatic(vd.Value); ok {
					initJSON = staticJSON(sv)
				}
				c.Source.AddVarDecl(manifest.VarDeclRecord{Name: vd.Name, Kind: vd.Kind.String(), ValueJSON: initJSON, Scope: id})
			}
			continue
		}
		c.lowerItem(comp, item)
	}
	c.popScope()
	c.currentStatic = prev
}

// lowerForLoop expands a compile-time `for item in a..b` or
// `for item in [a, b, c]` loop into one copy of its body's children per
// iteration, appended directly to comp.
func (c *Context) lowerForLoop(comp *ir.Component, fl *ast.ForLoop) {
	if !fl.IsRange {
		c.lowerForLoopArray(comp, fl)
		return
	}

	from, fromOk := c.evalStatic(c.substitute(fl.RangeFrom))
	to, toOk := c.evalStatic(c.substitute(fl.RangeTo))
	if !fromOk || !toOk || !from.isInt || !to.isInt {
		// Non-literal bounds are runtime-only in UI context and are
		// skipped silently.
		return
	}

	var expanded []int
	for i := from.i; i < to.i; i++ {
		c.pushScope(map[string]ast.Expr{fl.ItemName: &ast.Literal{Kind: ast.LitInt, IntVal: i}})
		before := len(comp.Children)
		if fl.Body != nil {
			for _, item := range fl.Body.Items {
				c.lowerItem(comp, item)
			}
		}
		for _, ch := range comp.Children[before:] {
			expanded = append(expanded, ch.ID)
		}
		c.popScope()
	}
	if c.Mode != ModeRuntime {
		c.Source.AddForLoop(manifest.ForLoopRecord{
			ScopeID:       c.currentStatic,
			Iterator:      fl.ItemName,
			CollectionRef: fmt.Sprintf("%d..%d", from.i, to.i),
			ExpandedIDs:   expanded,
		})
	}
}

// lowerForLoopArray handles lowerForLoop's non-range branch: `for item
// in expr` where expr folds to a constant array. Each element is bound
// to fl.ItemName in turn and the body is lowered once per element. An
// iterable that cannot be resolved at compile time falls back to a
// runtime ForEach node instead.
func (c *Context) lowerForLoopArray(comp *ir.Component, fl *ast.ForLoop) {
	iterable := c.substitute(fl.Iterable)
	sv, ok := c.evalStatic(iterable)
	if !ok || !sv.isArr {
		c.lowerForEach(comp, fl.ItemName, fl.Iterable, fl.Body, true)
		return
	}

	var expanded []int
	for _, elem := range sv.arr {
		scope := map[string]ast.Expr{fl.ItemName: elem.asExpr()}
		c.pushScope(scope)
		before := len(comp.Children)
		if fl.Body != nil {
			for _, item := range fl.Body.Items {
				c.lowerItem(comp, item)
			}
		}
		for _, ch := range comp.Children[before:] {
			expanded = append(expanded, ch.ID)
		}
		c.popScope()
	}
	if c.Mode != ModeRuntime {
		c.Source.AddForLoop(manifest.ForLoopRecord{
			ScopeID:       c.currentStatic,
			Iterator:      fl.ItemName,
			CollectionRef: exprText(fl.Iterable),
			ExpandedIDs:   expanded,
		})
	}
}

// lowerForEachTree lowers a runtime `for each item in expr { ... }`
// construct into a single KindForEach node.
func (c *Context) lowerForEachTree(comp *ir.Component, fe *ast.ForEachTree) {
	c.lowerForEach(comp, fe.ItemName, fe.Iterable, fe.Body, false)
}

// lowerForEach builds the KindForEach node both the explicit `for each`
// form and the unresolvable-`for` fallback share. The once-lowered row
// body becomes the node's template and its child[0]; `item`/`item.field`
// references inside it stay live — they never resolve against the scope
// stack, so applyProperty records them as reactive PropertyBindings
// instead of folding them to a constant.
func (c *Context) lowerForEach(comp *ir.Component, itemName string, iterable ast.Expr, body *ast.ComponentBody, implicit bool) {
	feComp := &ir.Component{ID: c.nextID(), Kind: ir.KindForEach}

	wrapper := &ir.Component{Kind: ir.KindContainer}
	c.templateDepth++
	c.pushScope(map[string]ast.Expr{})
	if body != nil {
		c.lowerBody(wrapper, body)
	}
	c.popScope()
	c.templateDepth--

	// A single-child body with nothing set on the wrapper is the common
	// case; the child itself is the row template then.
	template := wrapper
	if len(wrapper.Children) == 1 && len(wrapper.Bindings) == 0 && wrapper.Text == "" && wrapper.TextExpr == "" {
		template = wrapper.Children[0]
	} else {
		template.ID = c.nextID()
	}

	feComp.ForEach = &ir.ForEachDef{
		ItemName:   itemName,
		Implicit:   implicit,
		DataSource: exprText(c.substitute(iterable)),
		Template:   template,
		Bindings:   collectForEachBindings(itemName, template),
	}
	feComp.Children = append(feComp.Children, template)
	comp.Children = append(comp.Children, feComp)
}

// collectForEachBindings walks a ForEach template's tree and reports
// every property binding whose source expression references the loop
// item (a bare `item` or a `item.field` access) as a (property,
// expression, reactive) triple the runtime re-evaluates per row.
func collectForEachBindings(itemName string, node *ir.Component) []ir.ForEachBinding {
	if node == nil {
		return nil
	}
	var out []ir.ForEachBinding
	for _, b := range node.Bindings {
		if referencesItem(itemName, b.SourceExpr) {
			out = append(out, ir.ForEachBinding{Property: b.Property, Expr: b.SourceExpr, Reactive: true})
		}
	}
	for _, ch := range node.Children {
		out = append(out, collectForEachBindings(itemName, ch)...)
	}
	return out
}

// referencesItem reports whether expr is the bare loop-item identifier or
// a `item.field`/`item[...]` access rooted at it.
func referencesItem(itemName, expr string) bool {
	if expr == itemName {
		return true
	}
	return strings.HasPrefix(expr, itemName+".") || strings.HasPrefix(expr, itemName+"[")
}

// lowerCondRender resolves `if cond { ... } else { ... }`. Both branches
// are always emitted as children: a variable-reference condition marks
// them with visibility conditions, then-branch visible when true,
// else-branch when false; any other condition emits them unmarked and
// leaves evaluation to the runtime.
func (c *Context) lowerCondRender(comp *ir.Component, cr *ast.CondRender) {
	cond := c.substitute(cr.Cond)
	_, isVarRef := cond.(*ast.VarRef)
	condText := exprText(cond)
	if cr.Then != nil {
		thenComp := &ir.Component{ID: c.nextID(), Kind: ir.KindContainer}
		if isVarRef {
			thenComp.Visible = &ir.VisibleCondition{Expr: condText, VisibleWhen: true}
		}
		c.lowerBody(thenComp, cr.Then)
		comp.Children = append(comp.Children, thenComp)
	}
	if cr.Else != nil {
		elseComp := &ir.Component{ID: c.nextID(), Kind: ir.KindContainer}
		if isVarRef {
			elseComp.Visible = &ir.VisibleCondition{Expr: condText, VisibleWhen: false}
		}
		c.lowerBody(elseComp, cr.Else)
		comp.Children = append(comp.Children, elseComp)
	}
}
