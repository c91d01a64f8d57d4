// Package lower converts a parsed .kry AST into the typed IR tree, the
// reactive manifest, the logic block and the stylesheet that the rest of
// the pipeline consumes. It is the pipeline's centerpiece:
// component-type resolution, property dispatch, template instantiation
// with inheritance, for-loop expansion, static blocks, conditional
// rendering and module import resolution all live here.
package lower

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kryonlabs/kryon-core/pkg/ast"
	"github.com/kryonlabs/kryon-core/pkg/diag"
	"github.com/kryonlabs/kryon-core/pkg/ir"
	"github.com/kryonlabs/kryon-core/pkg/manifest"
	"github.com/kryonlabs/kryon-core/pkg/registry"
	"github.com/kryonlabs/kryon-core/pkg/stylesheet"
)

// CompileMode selects how much the lowering pass expands at compile
// time versus preserves for the runtime. Every mode folds static values
// and expands compile-time loops. ModeRuntime records no source
// structures; ModeCodegen and ModeHybrid record them. Only ModeHybrid
// keeps unresolved values as live property bindings. ModeCodegen does not
// skip expansion.
type CompileMode int

const (
	ModeRuntime CompileMode = iota
	ModeCodegen
	ModeHybrid
)

// ModuleResolver loads the AST for an imported module path. pkg/compiler
// supplies the real filesystem-backed implementation; tests supply an
// in-memory one.
type ModuleResolver interface {
	Resolve(path string) (*ast.File, error)
}

// Context is the conversion context: everything one AST->IR lowering
// run accumulates into, plus the bookkeeping needed for parameter
// substitution, cycle detection and id assignment.
type Context struct {
	Manifest *manifest.Manifest
	Logic    *manifest.LogicBlock
	Styles   *stylesheet.Stylesheet
	Source   *manifest.SourceStructures
	Diags    *diag.List

	// SessionID is a random per-run id minted by NewContext, the
	// counterpart of registry.Registry.SessionID. No diagnostic or log
	// line includes it.
	SessionID string

	Mode           CompileMode
	TargetPlatform string
	BaseDir        string
	Resolver       ModuleResolver

	// Registry, when set, supplies plugin-registered property parsers
	// that the dispatch table falls through to before giving up on a
	// name. Nil means no plugins are loaded.
	Registry *registry.Registry

	ids *ir.IDAllocator

	defs     map[string]*componentDef
	defOrder []string

	importStack  []string
	inheritStack []string

	staticCounter  int
	currentStatic  string // "static_<N>" while lowering inside a static block
	handlerCounter int
	codeBlockCount int

	// instanceCounters assigns each custom component's instances their
	// `<Name>#<n>` scope tokens, numbered from zero per name.
	instanceCounters map[string]int

	// templateDepth is positive while lowering a ForEach/for-loop template
	// body, where loop-item references stay symbolic until runtime.
	templateDepth int

	scopes []map[string]ast.Expr

	// WindowMetadata collects windowTitle/windowWidth/windowHeight
	// property values. No component owns these; they describe the
	// compilation unit.
	WindowMetadata map[string]string
}

// componentDef is a registered `component Name(...) extends Parent { ... }`
// declaration, kept in raw AST form because params are substituted fresh
// on every instantiation rather than baked into one shared template.
type componentDef struct {
	def        *ast.ComponentDef
	modulePath string
}

// NewContext builds an empty conversion context rooted at baseDir. resolver
// may be nil if the file being lowered has no imports to follow. The
// default compile mode is ModeHybrid: expand what resolves, preserve what
// doesn't.
func NewContext(baseDir string, resolver ModuleResolver) *Context {
	return &Context{
		Manifest:         &manifest.Manifest{},
		Logic:            &manifest.LogicBlock{},
		Styles:           &stylesheet.Stylesheet{},
		Source:           &manifest.SourceStructures{},
		Diags:            &diag.List{},
		SessionID:        uuid.New().String(),
		Mode:             ModeHybrid,
		BaseDir:          baseDir,
		Resolver:         resolver,
		ids:              &ir.IDAllocator{},
		defs:             make(map[string]*componentDef),
		instanceCounters: make(map[string]int),
		WindowMetadata:   make(map[string]string),
	}
}

// registerDef records a component definition, preserving registration
// order so the manifest lists definitions in AST traversal order.
func (c *Context) registerDef(name string, entry *componentDef) {
	c.defs[name] = entry
	c.defOrder = append(c.defOrder, name)
}

// nextInstanceScope mints the `<Name>#<n>` scope token for a new instance
// of the named component, numbering instances of each name from zero.
func (c *Context) nextInstanceScope(name string) string {
	n := c.instanceCounters[name]
	c.instanceCounters[name] = n + 1
	return fmt.Sprintf("%s#%d", name, n)
}

func (c *Context) nextID() int { return c.ids.Next() }

func (c *Context) nextHandlerID() int {
	c.handlerCounter++
	return c.handlerCounter
}

func (c *Context) pushScope(m map[string]ast.Expr) {
	c.scopes = append(c.scopes, m)
}

func (c *Context) popScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// lookupParam searches the scope stack innermost-first for name, returning
// the expression bound to it by the nearest enclosing instantiation's
// argument list.
func (c *Context) lookupParam(name string) (ast.Expr, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if e, ok := c.scopes[i][name]; ok {
			return e, true
		}
	}
	return nil, false
}

// substitute resolves a VarRef against the current scope stack, walking
// through chained substitutions (a param bound to another param's name)
// up to a small fixed depth to guard against a substitution cycle.
func (c *Context) substitute(e ast.Expr) ast.Expr {
	for depth := 0; depth < 32; depth++ {
		ref, ok := e.(*ast.VarRef)
		if !ok {
			return e
		}
		bound, ok := c.lookupParam(ref.Name)
		if !ok {
			return e
		}
		e = bound
	}
	return e
}
