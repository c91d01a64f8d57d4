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
)

// knownProperties is the dispatch table's vocabulary, consulted both to
// apply a recognized property and to produce a "did you mean" hint when a
// name outside it looks like a typo.
var knownProperties = []string{
	"text", "label", "checked", "class", "className", "backgroundColor",
	"background", "color", "visible", "opacity", "padding", "margin", "gap",
	"width", "height", "minWidth", "maxWidth", "minHeight", "maxHeight",
	"posX", "left", "posY", "top", "zOrder", "borderColor", "borderWidth",
	"borderRadius", "fontSize", "fontWeight", "fontFamily", "windowTitle",
	"windowWidth", "windowHeight", "contentAlignment", "alignItems",
	"justifyContent", "selectedIndex", "options",
	"onClick", "onChange", "onSubmit", "onHover", "onFocus", "onBlur",
}

var eventProperties = map[string]string{
	"onClick": "click", "onChange": "text-change", "onSubmit": "submit",
	"onHover": "hover", "onFocus": "focus", "onBlur": "blur",
}

// applyProperty dispatches one `name: expr` property onto c, either as a
// statically-folded field (the value is knowable at compile time) or as a
// live PropertyBinding the VM re-evaluates at runtime. Unknown names fall
// back to CustomData so a capability-registry plugin can still consume
// them.
func (c *Context) applyProperty(comp *ir.Component, prop *ast.Property) {
	value := c.substitute(prop.Value)

	if kind, ok := eventProperties[prop.Name]; ok {
		c.bindEvent(comp, kind, value)
		return
	}

	static, isStatic := c.evalStatic(value)

	switch prop.Name {
	case "text", "label":
		if isStatic {
			comp.Text = static.asText()
			return
		}
		if c.Mode != ModeHybrid {
			c.Diags.Add(diag.Error, diag.Conversion, prop.Pos, "text expression %q cannot be resolved at compile time", exprText(value))
			return
		}
		comp.TextExpr = exprText(value)
		comp.Bindings = append(comp.Bindings, ir.PropertyBinding{Property: "text", SourceExpr: comp.TextExpr, Kind: "runtime"})
		return
	case "checked":
		if isStatic {
			if comp.CustomData == nil {
				comp.CustomData = make(map[string]string)
			}
			comp.CustomData[prop.Name] = static.asText()
			return
		}
		c.bindLive(comp, prop.Name, value)
		return
	case "class", "className":
		if isStatic && static.isStr {
			comp.Class = static.s
			return
		}
		c.bindLive(comp, prop.Name, value)
		return
	case "visible":
		if isStatic {
			comp.Visible = &ir.VisibleCondition{Expr: exprText(value), VisibleWhen: static.truthy()}
			return
		}
		comp.Visible = &ir.VisibleCondition{Expr: exprText(value), VisibleWhen: true}
		return
	case "backgroundColor", "background", "color", "borderColor":
		if isStatic && static.isStr {
			if col, ok := parseColor(static.s); ok {
				style := comp.EnsureStyle()
				switch prop.Name {
				case "backgroundColor", "background":
					style.Background = col
					style.Set |= ir.SetBackground
				case "color":
					style.Foreground = col
					style.Set |= ir.SetColor
				case "borderColor":
					style.BorderColor = col
					style.Set |= ir.SetBorderColor
				}
				return
			}
		}
		c.bindLive(comp, prop.Name, value)
		return
	case "borderWidth", "borderRadius", "fontSize":
		if isStatic {
			if dim, ok := staticDimension(static); ok {
				style := comp.EnsureStyle()
				switch prop.Name {
				case "borderWidth":
					style.BorderWidth = dim
					style.Set |= ir.SetBorderWidth
				case "borderRadius":
					style.BorderRadius = dim
					style.Set |= ir.SetBorderRadius
				case "fontSize":
					style.FontSize = dim
					style.Set |= ir.SetFontSize
				}
				return
			}
		}
		c.bindLive(comp, prop.Name, value)
		return
	case "fontFamily", "fontWeight":
		if isStatic && static.isStr {
			style := comp.EnsureStyle()
			if prop.Name == "fontFamily" {
				style.FontFamily = static.s
				style.Set |= ir.SetFontFamily
			} else {
				style.FontWeight = static.s
				if strings.EqualFold(static.s, "bold") {
					style.FontFlags |= ir.FontBold
				}
				style.Set |= ir.SetFontWeight
			}
			return
		}
		c.bindLive(comp, prop.Name, value)
		return
	case "windowTitle", "windowWidth", "windowHeight":
		// Global window metadata: no component
		// carries it, so it is recorded on the compilation unit rather
		// than on comp's own style/layout.
		if isStatic {
			c.WindowMetadata[prop.Name] = static.asText()
			return
		}
		c.WindowMetadata[prop.Name] = exprText(value)
		return
	case "contentAlignment", "alignItems", "justifyContent":
		if isStatic && static.isStr {
			if align, ok := parseAlignment(static.s); ok {
				layout := comp.EnsureLayout()
				if prop.Name == "justifyContent" {
					layout.JustifyContent = align
				} else {
					layout.AlignItems = align
				}
				return
			}
		}
		c.bindLive(comp, prop.Name, value)
		return
	case "selectedIndex", "options":
		if isStatic {
			if comp.CustomData == nil {
				comp.CustomData = make(map[string]string)
			}
			comp.CustomData[prop.Name] = static.asText()
			return
		}
		c.bindLive(comp, prop.Name, value)
		return
	case "opacity":
		if isStatic {
			style := comp.EnsureStyle()
			style.Opacity = static.asFloat()
			style.Set |= ir.SetOpacity
			return
		}
		c.bindLive(comp, prop.Name, value)
		return
	case "zOrder":
		if isStatic && static.isInt {
			style := comp.EnsureStyle()
			style.ZOrder = int(static.i)
			style.Set |= ir.SetZOrder
			return
		}
		c.bindLive(comp, prop.Name, value)
		return
	case "width", "minWidth", "maxWidth", "height", "minHeight", "maxHeight", "gap":
		if isStatic {
			if dim, ok := staticDimension(static); ok {
				layout := comp.EnsureLayout()
				switch prop.Name {
				case "width":
					layout.MinWidth, layout.MaxWidth = dim, dim
				case "minWidth":
					layout.MinWidth = dim
				case "maxWidth":
					layout.MaxWidth = dim
				case "height":
					layout.MinHeight, layout.MaxHeight = dim, dim
				case "minHeight":
					layout.MinHeight = dim
				case "maxHeight":
					layout.MaxHeight = dim
				case "gap":
					layout.Gap = dim
				}
				return
			}
		}
		c.bindLive(comp, prop.Name, value)
		return
	case "padding", "margin":
		if isStatic {
			if dim, ok := staticDimension(static); ok {
				layout := comp.EnsureLayout()
				rect := ir.Rect{Top: dim, Right: dim, Bottom: dim, Left: dim}
				if prop.Name == "padding" {
					layout.Padding = rect
				} else {
					layout.Margin = rect
				}
				return
			}
		}
		c.bindLive(comp, prop.Name, value)
		return
	case "posX", "left", "posY", "top":
		if isStatic {
			if dim, ok := staticDimension(static); ok {
				style := comp.EnsureStyle()
				if prop.Name == "posX" || prop.Name == "left" {
					style.X = dim
				} else {
					style.Y = dim
				}
				style.Position = ir.PositionAbsolute
				style.Set |= ir.SetPosition
				return
			}
		}
		c.bindLive(comp, prop.Name, value)
		return
	}

	// Not in the built-in table: a plugin-registered parser gets the next
	// look.
	if c.Registry != nil {
		if parse, ok := c.Registry.PropertyParser(prop.Name); ok {
			if !parse(comp, exprText(value)) {
				c.Diags.Add(diag.Error, diag.Conversion, prop.Pos, "plugin parser rejected value for property %q", prop.Name)
			}
			return
		}
	}

	if hint := suggest.Hint(prop.Name, knownProperties); hint != "" {
		c.Diags.AddWithContext(diag.Warning, diag.Validation, prop.Pos, hint, "unrecognized property %q", prop.Name)
	}
	if comp.CustomData == nil {
		comp.CustomData = make(map[string]string)
	}
	comp.CustomData[prop.Name] = exprText(value)
}

// bindLive attaches a runtime property binding preserving the original
// expression text. Outside HYBRID mode
// nothing is preserved; the unresolved value is a conversion error
// surfaced by the text handler, or silently dropped for style fields.
func (c *Context) bindLive(comp *ir.Component, name string, value ast.Expr) {
	if c.Mode != ModeHybrid {
		return
	}
	comp.Bindings = append(comp.Bindings, ir.PropertyBinding{Property: name, SourceExpr: exprText(value), Kind: "runtime"})
}

func (v staticValue) asText() string {
	switch {
	case v.isStr:
		return v.s
	case v.isBool:
		return strconv.FormatBool(v.b)
	case v.isInt:
		return strconv.FormatInt(v.i, 10)
	default:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	}
}

// namedColors is the fixed palette accepted alongside hex literals.
var namedColors = map[string]ir.Color{
	"transparent": {R: 0, G: 0, B: 0, A: 0},
	"black":       {R: 0, G: 0, B: 0, A: 255},
	"white":       {R: 255, G: 255, B: 255, A: 255},
	"red":         {R: 255, G: 0, B: 0, A: 255},
	"green":       {R: 0, G: 128, B: 0, A: 255},
	"blue":        {R: 0, G: 0, B: 255, A: 255},
	"yellow":      {R: 255, G: 255, B: 0, A: 255},
	"orange":      {R: 255, G: 165, B: 0, A: 255},
	"purple":      {R: 128, G: 0, B: 128, A: 255},
	"pink":        {R: 255, G: 192, B: 203, A: 255},
	"gray":        {R: 128, G: 128, B: 128, A: 255},
	"grey":        {R: 128, G: 128, B: 128, A: 255},
	"cyan":        {R: 0, G: 255, B: 255, A: 255},
	"magenta":     {R: 255, G: 0, B: 255, A: 255},
	"brown":       {R: 165, G: 42, B: 42, A: 255},
}

// parseColor understands "#RGB", "#RGBA", "#RRGGBB", "#RRGGBBAA" hex forms
// and the fixed named palette.
func parseColor(s string) (ir.Color, bool) {
	if col, ok := namedColors[strings.ToLower(strings.TrimSpace(s))]; ok {
		return col, true
	}
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3, 4:
		// Short form: each digit doubles, e.g. "8F2" -> "88FF22".
		expanded := make([]byte, 0, 8)
		for i := 0; i < len(hex); i++ {
			expanded = append(expanded, hex[i], hex[i])
		}
		return parseHexColor(string(expanded))
	case 6, 8:
		return parseHexColor(hex)
	default:
		return ir.Color{}, false
	}
}

func parseHexColor(hex string) (ir.Color, bool) {
	r, err1 := strconv.ParseUint(hex[0:2], 16, 8)
	g, err2 := strconv.ParseUint(hex[2:4], 16, 8)
	b, err3 := strconv.ParseUint(hex[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return ir.Color{}, false
	}
	a := uint64(255)
	if len(hex) == 8 {
		var err4 error
		a, err4 = strconv.ParseUint(hex[6:8], 16, 8)
		if err4 != nil {
			return ir.Color{}, false
		}
	}
	return ir.Color{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}, true
}

// staticDimension converts a folded property value into a Dimension.
// Plain numbers are pixels; a "<n>%" string is percent; the bare string
// "auto" is the auto variant.
func staticDimension(v staticValue) (ir.Dimension, bool) {
	switch {
	case v.isStr:
		s := strings.TrimSpace(v.s)
		if s == "auto" {
			return ir.Auto(), true
		}
		if strings.HasSuffix(s, "%") {
			n, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
			if err != nil {
				return ir.Dimension{}, false
			}
			return ir.Percent(n), true
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return ir.Dimension{}, false
		}
		return ir.Pixels(n), true
	case v.isBool:
		return ir.Dimension{}, false
	default:
		return ir.Pixels(v.asFloat()), true
	}
}

// bindEvent wires one onClick/onChange/... property into both the legacy
// inline Event (kept for backward compatibility) and the logic block's
// event-binding list. A bare function identifier
// binds directly to its name; anything else is a lambda body, so a handler
// is synthesized and registered as a new logic function under the source
// language tag.
func (c *Context) bindEvent(comp *ir.Component, kind string, value ast.Expr) {
	comp.Events = append(comp.Events, ir.Event{Kind: kind, Handler: exprText(value)})

	if ref, ok := value.(*ast.VarRef); ok {
		if _, exists := c.Logic.Lookup(ref.Name); exists {
			c.Logic.AddBinding(manifest.EventBinding{ComponentID: comp.ID, EventKind: kind, HandlerName: ref.Name})
			return
		}
	}

	handlerName := fmt.Sprintf("handler_%d_%s", c.nextHandlerID(), kind)
	c.Logic.AddFunction(&manifest.LogicFunction{
		Name:       handlerName,
		Alternates: []manifest.SourceAlternate{{Lang: "kry", Source: exprText(value)}},
	})
	c.Logic.AddBinding(manifest.EventBinding{ComponentID: comp.ID, EventKind: kind, HandlerName: handlerName})
}

// parseAlignment accepts the alignment keywords along with their
// hyphenated CSS flex-* synonyms.
func parseAlignment(s string) (ir.Alignment, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "start", "flex-start":
		return ir.AlignStart, true
	case "end", "flex-end":
		return ir.AlignEnd, true
	case "center":
		return ir.AlignCenter, true
	case "space-between":
		return ir.AlignSpaceBetween, true
	case "space-around":
		return ir.AlignSpaceAround, true
	case "space-evenly":
		return ir.AlignSpaceEvenly, true
	case "stretch":
		return ir.AlignStretch, true
	}
	return 0, false
}
