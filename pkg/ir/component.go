// Package ir defines the typed, component-oriented Intermediate
// Representation that pkg/lower emits and pkg/kir serializes.
package ir

import "github.com/kryonlabs/kryon-core/pkg/token"

// Kind enumerates the built-in component types recognized by the
// component-type-resolution step, plus the Custom escape hatch for
// user-defined components.
type Kind int

const (
	KindCustom Kind = iota
	KindContainer
	KindRow
	KindColumn
	KindText
	KindButton
	KindInput
	KindCheckbox
	KindDropdown
	KindCanvas
	KindCenter
	KindTable
	KindTableRow
	KindTableHead
	KindTableBody
	KindTableCell
	KindHeading
	KindParagraph
	KindBlockquote
	KindCodeBlock
	KindLink
	KindSpan
	KindStrong
	KindEm
	KindCodeInline
	KindSmall
	KindMark
	KindList
	KindListItem
	KindTabGroup
	KindTabBar
	KindTab
	KindTabContent
	KindTabPanel
	KindForEach
	KindFlowchart
)

var builtinNames = map[string]Kind{
	"container": KindContainer, "row": KindRow, "column": KindColumn,
	"text": KindText, "button": KindButton, "input": KindInput,
	"checkbox": KindCheckbox, "dropdown": KindDropdown, "canvas": KindCanvas,
	"center": KindCenter, "table": KindTable, "tablerow": KindTableRow,
	"tablehead": KindTableHead, "tablebody": KindTableBody, "tablecell": KindTableCell,
	"heading": KindHeading, "paragraph": KindParagraph, "blockquote": KindBlockquote,
	"codeblock": KindCodeBlock, "link": KindLink, "span": KindSpan,
	"strong": KindStrong, "em": KindEm, "codeinline": KindCodeInline,
	"small": KindSmall, "mark": KindMark, "list": KindList,
	"listitem": KindListItem, "tabgroup": KindTabGroup, "tabbar": KindTabBar,
	"tab": KindTab, "tabcontent": KindTabContent, "tabpanel": KindTabPanel,
	"flowchart": KindFlowchart,
}

// ResolveBuiltinKind matches name case-insensitively against the built-in
// table. ok is false for a custom
// (user-defined or unknown) component name.
func ResolveBuiltinKind(name string) (Kind, bool) {
	k, ok := builtinNames[lower(name)]
	return k, ok
}

var kindNames map[Kind]string

func init() {
	kindNames = make(map[Kind]string, len(builtinNames)+2)
	for name, k := range builtinNames {
		kindNames[k] = name
	}
	kindNames[KindCustom] = "custom"
	kindNames[KindForEach] = "for_each"
}

// KindName returns the canonical lowercase name for k, the inverse of
// ResolveBuiltinKind, used by pkg/kir's JSON codec for the component
// object's `type` field.
func KindName(k Kind) string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "custom"
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// VisibleCondition marks a component as conditionally rendered.
type VisibleCondition struct {
	Expr        string
	VisibleWhen bool // then-branch: true, else-branch: false
}

// ComponentRef is an unexpanded custom-component reference preserved for
// runtime instantiation.
type ComponentRef struct {
	Name      string
	PropsJSON string
}

// Component is one node of the IR tree.
type Component struct {
	ID         int
	Kind       Kind
	Tag        string // the original .kry identifier, even for built-ins
	Class      string
	Text       string
	TextExpr   string // set when Text should be evaluated at runtime
	Style      *StyleRecord
	Layout     *LayoutRecord
	Events     []Event
	CustomData map[string]string
	Ref        *ComponentRef
	Scope      string
	Visible    *VisibleCondition
	ForEach    *ForEachDef
	Bindings   []PropertyBinding
	Children   []*Component
	Pos        token.Position
}

// EnsureStyle lazily allocates c.Style so property handlers can set a
// single field without checking for nil at every call site.
func (c *Component) EnsureStyle() *StyleRecord {
	if c.Style == nil {
		c.Style = &StyleRecord{}
	}
	return c.Style
}

// EnsureLayout is EnsureStyle's counterpart for c.Layout.
func (c *Component) EnsureLayout() *LayoutRecord {
	if c.Layout == nil {
		c.Layout = &LayoutRecord{}
	}
	return c.Layout
}

// Event is one (kind, handler) pair attached to a component.
type Event struct {
	Kind    string // click, hover, text-change, ...
	Handler string
}

// PropertyBinding preserves an unresolved expression alongside its
// substituted fallback.
type PropertyBinding struct {
	Property   string
	SourceExpr string
	Fallback   string
	Kind       string // "static_template" | "runtime"
}

// ForEachDef is the runtime-iteration descriptor attached to a ForEach
// component.
type ForEachDef struct {
	ItemName   string
	IndexName  string
	Implicit   bool // loop-kind: explicit (for each) vs implicit
	DataSource string
	Template   *Component
	Bindings   []ForEachBinding
}

// ForEachBinding is one {property, expression, reactive} triple for a
// ForEach template.
type ForEachBinding struct {
	Property string
	Expr     string
	Reactive bool
}

// IDAllocator hands out monotonic component ids; ids are unique across a
// compilation unit.
type IDAllocator struct{ next int }

func (a *IDAllocator) Next() int {
	a.next++
	return a.next
}
