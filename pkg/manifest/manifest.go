// Package manifest implements the reactive manifest and logic block:
// the registries of reactive variables, component definitions, logic
// functions, event bindings, and round-trip source structures that
// pkg/lower fills while converting an AST to IR.
package manifest

import "github.com/kryonlabs/kryon-core/pkg/ir"

// ReactiveVariable is one registered reactive state entry: stable id,
// name, type tag, JSON-encoded initial value, and scope.
type ReactiveVariable struct {
	ID           int
	Name         string
	TypeTag      string // "int" | "float" | "bool" | "string" | "any", or a declared type name
	InitialJSON  string
	Scope        string // "global" | "component" | "<Name>#<n>"
}

// StateVarDef is a component's declared state variable, attached to a
// ComponentDefinition.
type StateVarDef struct {
	Name         string
	TypeName     string
	InitialExpr  string
}

// ComponentDefinition is a named, instantiable template: name, optional
// parent, props, state vars, template root, and originating module.
type ComponentDefinition struct {
	Name          string
	ExtendsParent string
	Params        []string
	StateVars     []StateVarDef
	Template      *ir.Component
	ModulePath    string
	SourceModule  string
}

// LogicFunction is a named, typed function: its converted statement body
// plus optional per-language source alternates for multi-language
// codegen.
type LogicFunction struct {
	Name       string
	Params     []Param
	ReturnType string
	Body       []Stmt
	Alternates []SourceAlternate // {language tag, source text}
}

type Param struct {
	Name     string
	TypeName string
}

type SourceAlternate struct {
	Lang   string
	Source string
}

// EventBinding is one (component-id, event-kind, handler name) triple.
type EventBinding struct {
	ComponentID int
	EventKind   string
	HandlerName string
}

// LogicBlock is the ordered set of functions and event bindings shared by
// a compilation unit.
type LogicBlock struct {
	Functions []*LogicFunction
	Bindings  []EventBinding
	byName    map[string]*LogicFunction
}

// AddFunction appends fn, reporting false if its name already exists in
// this block; function names are unique within a logic block.
func (lb *LogicBlock) AddFunction(fn *LogicFunction) bool {
	if lb.byName == nil {
		lb.byName = make(map[string]*LogicFunction)
	}
	if _, exists := lb.byName[fn.Name]; exists {
		return false
	}
	lb.byName[fn.Name] = fn
	lb.Functions = append(lb.Functions, fn)
	return true
}

// Lookup returns the logic function named name, if any.
func (lb *LogicBlock) Lookup(name string) (*LogicFunction, bool) {
	fn, ok := lb.byName[name]
	return fn, ok
}

// AddBinding appends an event binding.
func (lb *LogicBlock) AddBinding(b EventBinding) {
	lb.Bindings = append(lb.Bindings, b)
}

// Manifest is the reactive manifest: ordered variables and component
// definitions plus name lookups.
type Manifest struct {
	Variables  []*ReactiveVariable
	Defs       []*ComponentDefinition
	nextVarID  int
	varByKey   map[string]*ReactiveVariable // name+"\x00"+scope
	defByName  map[string]*ComponentDefinition
}

// AddVariable registers a new reactive variable, assigning it the next
// monotonic id. Ids start at 1; 0 means "not registered". Returns false
// if (name, scope) is already taken — every variable has a distinct
// (name, scope) pair.
func (m *Manifest) AddVariable(name, typeTag, initialJSON, scope string) (*ReactiveVariable, bool) {
	if m.varByKey == nil {
		m.varByKey = make(map[string]*ReactiveVariable)
	}
	key := name + "\x00" + scope
	if _, exists := m.varByKey[key]; exists {
		return nil, false
	}
	m.nextVarID++
	v := &ReactiveVariable{ID: m.nextVarID, Name: name, TypeTag: typeTag, InitialJSON: initialJSON, Scope: scope}
	m.varByKey[key] = v
	m.Variables = append(m.Variables, v)
	return v, true
}

// LookupVariable finds a variable by (name, scope).
func (m *Manifest) LookupVariable(name, scope string) (*ReactiveVariable, bool) {
	v, ok := m.varByKey[name+"\x00"+scope]
	return v, ok
}

// AddDefinition registers a component definition. Returns false if the
// name is already registered.
func (m *Manifest) AddDefinition(def *ComponentDefinition) bool {
	if m.defByName == nil {
		m.defByName = make(map[string]*ComponentDefinition)
	}
	if _, exists := m.defByName[def.Name]; exists {
		return false
	}
	m.defByName[def.Name] = def
	m.Defs = append(m.Defs, def)
	return true
}

// LookupDefinition finds a component definition by name.
func (m *Manifest) LookupDefinition(name string) (*ComponentDefinition, bool) {
	d, ok := m.defByName[name]
	return d, ok
}

// DefinitionNames returns every registered definition name, used by
// internal/suggest to compute "did you mean" hints for unknown component
// types.
func (m *Manifest) DefinitionNames() []string {
	names := make([]string, 0, len(m.Defs))
	for _, d := range m.Defs {
		names = append(names, d.Name)
	}
	return names
}
