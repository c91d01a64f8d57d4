package registry

import (
	"strings"

	"github.com/kryonlabs/kryon-core/internal/logx"
	"github.com/kryonlabs/kryon-core/pkg/ir"
)

// LogSeverity is one of the four levels the API exposes to plugin code
//.
type LogSeverity int

const (
	LogDebug LogSeverity = iota
	LogInfo
	LogWarn
	LogError
)

// StateAccessor is the state-manager surface the API exposes to
// plugins. A caller wires this to whatever actually owns reactive state
// at runtime (e.g. a pkg/vm.VM plus its OnStateChange hook); a plugin
// never reaches into that state directly.
type StateAccessor interface {
	GetInt(stateID int) (int64, bool)
	GetString(stateID int) (string, bool)
	QueueInt(stateID int, v int64)
	QueueString(stateID int, v string)
}

// API is the single struct whose function pointers plugins use to access
// core services. It is handed to a
// plugin's entry function by Registry.LoadPlugin.
type API struct {
	registry *Registry
	State    StateAccessor
	log      *logx.Logger
}

// Version reports the API's major.minor.patch string.
func (a *API) Version() string { return APIVersion }

func (a *API) logger() *logx.Logger {
	if a.log == nil {
		a.log = logx.New("plugin")
	}
	return a.log
}

// Log emits a message at the given severity, tagged with the plugin's
// component name by the underlying logx.Logger.
func (a *API) Log(sev LogSeverity, format string, args ...interface{}) {
	l := a.logger()
	switch sev {
	case LogWarn:
		l.Warnf(format, args...)
	case LogError:
		l.Errorf(format, args...)
	default:
		l.Infof(format, args...)
	}
}

// RegisterWebRenderer, RegisterCSSGenerator and RegisterComponentRenderer
// let plugin code reach back into the owning registry during its entry
// call.
func (a *API) RegisterWebRenderer(componentType, owner string, fn WebRendererFunc) error {
	return a.registry.RegisterWebRenderer(componentType, owner, fn)
}

func (a *API) RegisterCSSGenerator(componentType, owner string, fn CSSGeneratorFunc) error {
	return a.registry.RegisterCSSGenerator(componentType, owner, fn)
}

func (a *API) RegisterComponentRenderer(componentType, owner string, fn ComponentRendererFunc) error {
	return a.registry.RegisterComponentRenderer(componentType, owner, fn)
}

// RegisterPropertyParser lets a plugin extend the AST->IR property
// dispatch table.
func (a *API) RegisterPropertyParser(name string, fn PropertyParserFunc) {
	a.registry.RegisterPropertyParser(name, fn)
}

// snakeCaseKinds maps the snake_case component-type names plugins
// address (e.g. `code_block`, `table_header_cell`) onto ir.Kind, the
// internal enumerated id.
var snakeCaseKinds = map[string]ir.Kind{
	"container": ir.KindContainer, "row": ir.KindRow, "column": ir.KindColumn,
	"text": ir.KindText, "button": ir.KindButton, "input": ir.KindInput,
	"checkbox": ir.KindCheckbox, "dropdown": ir.KindDropdown, "canvas": ir.KindCanvas,
	"center": ir.KindCenter, "table": ir.KindTable, "table_row": ir.KindTableRow,
	"table_head": ir.KindTableHead, "table_body": ir.KindTableBody,
	"table_cell": ir.KindTableCell, "table_header_cell": ir.KindTableCell,
	"heading": ir.KindHeading, "paragraph": ir.KindParagraph,
	"blockquote": ir.KindBlockquote, "code_block": ir.KindCodeBlock,
	"link": ir.KindLink, "span": ir.KindSpan, "strong": ir.KindStrong,
	"em": ir.KindEm, "code_inline": ir.KindCodeInline, "small": ir.KindSmall,
	"mark": ir.KindMark, "list": ir.KindList, "list_item": ir.KindListItem,
	"tab_group": ir.KindTabGroup, "tab_bar": ir.KindTabBar, "tab": ir.KindTab,
	"tab_content": ir.KindTabContent, "tab_panel": ir.KindTabPanel,
	"for_each": ir.KindForEach, "flowchart": ir.KindFlowchart,
}

// ComponentTypeID translates a plugin's snake_case component-type name to
// the internal enumerated id. Custom
// component types (unknown to the built-in table) resolve to ir.KindCustom.
func ComponentTypeID(snakeName string) ir.Kind {
	if k, ok := snakeCaseKinds[strings.ToLower(snakeName)]; ok {
		return k
	}
	return ir.KindCustom
}
