// Package ast defines the Abstract Syntax Tree for .kry source; every
// node carries a Pos and an Accept(Visitor) method.
package ast

import "github.com/kryonlabs/kryon-core/pkg/token"

// Node is the interface every AST node implements to support the visitor
// pattern.
type Node interface {
	Accept(v Visitor) interface{}
	Position() token.Position
}

// Base embeds a Pos and gives every node type Position() for free.
type Base struct {
	Pos token.Position
}

func (b Base) Position() token.Position { return b.Pos }

// ---------------------------------------------------------------------
// Top-level file
// ---------------------------------------------------------------------

// File is one parsed .kry compilation unit.
type File struct {
	Base
	Imports       []*Import
	VarDecls      []*VarDecl
	Structs       []*StructDecl
	Functions     []*FuncDecl
	Styles        []*StyleBlock
	CodeBlocks    []*CodeBlock
	ComponentDefs []*ComponentDef
	Root          *ComponentInst // the root component instantiation, if any
	ModuleReturn  *ModuleReturn
}

func (n *File) Accept(v Visitor) interface{} { return v.VisitFile(n) }

// Import is `import Name from dotted.path`.
type Import struct {
	Base
	Name string
	Path string
}

func (n *Import) Accept(v Visitor) interface{} { return v.VisitImport(n) }

// StructDecl is `struct Name { fields }`.
type StructDecl struct {
	Base
	Name   string
	Fields []*StructField
}

func (n *StructDecl) Accept(v Visitor) interface{} { return v.VisitStructDecl(n) }

type StructField struct {
	Base
	Name     string
	TypeName string
}

func (n *StructField) Accept(v Visitor) interface{} { return v.VisitStructField(n) }

// VarDeclKind distinguishes const/let/var/state declarations.
type VarDeclKind int

const (
	VarConst VarDeclKind = iota
	VarLet
	VarVar
	VarState
)

func (k VarDeclKind) String() string {
	switch k {
	case VarConst:
		return "const"
	case VarLet:
		return "let"
	case VarVar:
		return "var"
	case VarState:
		return "state"
	default:
		return "var"
	}
}

// VarDecl is a `const`/`let`/`var`/`state` declaration, with an optional
// `: type` annotation.
type VarDecl struct {
	Base
	Kind     VarDeclKind
	Name     string
	TypeName string // "" if not annotated
	Value    Expr
}

func (n *VarDecl) Accept(v Visitor) interface{} { return v.VisitVarDecl(n) }

// Param is a named, optionally typed parameter — a component prop or a
// function argument.
type Param struct {
	Base
	Name     string
	TypeName string
}

func (n *Param) Accept(v Visitor) interface{} { return v.VisitParam(n) }

// FuncDecl is `function name(params) -> type { ... }`. Name is namespaced
// `<ComponentName>:<func>` when declared inside a component body.
type FuncDecl struct {
	Base
	Name       string
	Params     []*Param
	ReturnType string
	Body       []Stmt
}

func (n *FuncDecl) Accept(v Visitor) interface{} { return v.VisitFuncDecl(n) }

// StyleBlock is `style <selector> { props }`.
type StyleBlock struct {
	Base
	Selector   string
	Properties []*Property
}

func (n *StyleBlock) Accept(v Visitor) interface{} { return v.VisitStyleBlock(n) }

// CodeBlock is an embedded `@lua { ... }` / `@js { ... }` / `@universal { ... }`.
type CodeBlock struct {
	Base
	Lang   string
	Source string
}

func (n *CodeBlock) Accept(v Visitor) interface{} { return v.VisitCodeBlock(n) }

// ModuleReturn is `return { symbols }` at module scope, producing exports.
type ModuleReturn struct {
	Base
	Exports []*ExportSym
}

func (n *ModuleReturn) Accept(v Visitor) interface{} { return v.VisitModuleReturn(n) }

type ExportSym struct {
	Base
	Name  string
	Value Expr
}

func (n *ExportSym) Accept(v Visitor) interface{} { return v.VisitExportSym(n) }

// ---------------------------------------------------------------------
// Components
// ---------------------------------------------------------------------

// ComponentDef is `component Name(props) extends Parent { ... }` — a
// named template that can be instantiated.
type ComponentDef struct {
	Base
	IsComponentDefinition bool
	Name                  string
	ExtendsParent         string // "" if none
	Params                []*Param
	Body                  *ComponentBody
}

func (n *ComponentDef) Accept(v Visitor) interface{} { return v.VisitComponentDef(n) }

// ComponentInst is `Name(args) { props; children }` appearing inside a
// component tree. ArgumentsText is the raw unparsed text between the
// parens; the lowering pass parses it against the target component's
// parameter list.
type ComponentInst struct {
	Base
	Name          string
	ArgumentsText string
	Body          *ComponentBody
}

func (n *ComponentInst) Accept(v Visitor) interface{} { return v.VisitComponentInst(n) }

// ComponentBody holds everything that can appear inside `{ ... }` for a
// component definition or instantiation: state declarations, property
// assignments, and heterogeneous tree children (nested components, static
// blocks, for-loops, for-each, conditional rendering, code blocks).
type ComponentBody struct {
	Base
	StateDecls []*VarDecl
	Items      []Node
}

func (n *ComponentBody) Accept(v Visitor) interface{} { return v.VisitComponentBody(n) }

// Property is `name: expr` inside a component body.
type Property struct {
	Base
	Name  string
	Value Expr
}

func (n *Property) Accept(v Visitor) interface{} { return v.VisitProperty(n) }

// StaticBlock is `static { ... }`.
type StaticBlock struct {
	Base
	Items []Node
}

func (n *StaticBlock) Accept(v Visitor) interface{} { return v.VisitStaticBlock(n) }

// ForLoop is the compile-time `for item in <array>` / `for i in a..b`
// construct.
type ForLoop struct {
	Base
	ItemName  string
	IsRange   bool
	RangeFrom Expr
	RangeTo   Expr
	Iterable  Expr // set when !IsRange
	Body      *ComponentBody
}

func (n *ForLoop) Accept(v Visitor) interface{} { return v.VisitForLoop(n) }

// ForEachTree is the runtime `for each item in expr { ... }` construct
// appearing in a component tree.
type ForEachTree struct {
	Base
	ItemName string
	Iterable Expr
	Body     *ComponentBody
}

func (n *ForEachTree) Accept(v Visitor) interface{} { return v.VisitForEachTree(n) }

// CondRender is `if cond { ... } else { ... }` inside a component tree.
// When cond is a bare variable reference, lowering emits both branches
// as children marked with visibility conditions.
type CondRender struct {
	Base
	Cond Expr
	Then *ComponentBody
	Else *ComponentBody // nil if no else
}

func (n *CondRender) Accept(v Visitor) interface{} { return v.VisitCondRender(n) }

// ---------------------------------------------------------------------
// Function-body statements
// ---------------------------------------------------------------------

// Stmt is a statement inside a function body.
type Stmt interface {
	Node
	stmtNode()
}

type AssignStmt struct {
	Base
	Name  string
	Value Expr
}

func (n *AssignStmt) Accept(v Visitor) interface{} { return v.VisitAssignStmt(n) }
func (n *AssignStmt) stmtNode()                    {}

type ReturnStmt struct {
	Base
	Value Expr // nil if bare `return`
}

func (n *ReturnStmt) Accept(v Visitor) interface{} { return v.VisitReturnStmt(n) }
func (n *ReturnStmt) stmtNode()                    {}

type DeleteStmt struct {
	Base
	Target Expr
}

func (n *DeleteStmt) Accept(v Visitor) interface{} { return v.VisitDeleteStmt(n) }
func (n *DeleteStmt) stmtNode()                    {}

type IfStmt struct {
	Base
	Cond Expr
	Then []Stmt
	Else []Stmt
}

func (n *IfStmt) Accept(v Visitor) interface{} { return v.VisitIfStmt(n) }
func (n *IfStmt) stmtNode()                    {}

type ForEachStmt struct {
	Base
	ItemName string
	Iterable Expr
	Body     []Stmt
}

func (n *ForEachStmt) Accept(v Visitor) interface{} { return v.VisitForEachStmt(n) }
func (n *ForEachStmt) stmtNode()                    {}

// VarDeclStmt wraps a VarDecl so it can appear in a Stmt list.
type VarDeclStmt struct {
	Base
	Decl *VarDecl
}

func (n *VarDeclStmt) Accept(v Visitor) interface{} { return v.VisitVarDeclStmt(n) }
func (n *VarDeclStmt) stmtNode()                    {}

// ExprStmt is a bare expression used as a statement (a function call for
// its side effects).
type ExprStmt struct {
	Base
	X Expr
}

func (n *ExprStmt) Accept(v Visitor) interface{} { return v.VisitExprStmt(n) }
func (n *ExprStmt) stmtNode()                    {}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// Expr is any expression node.
type Expr interface {
	Node
	exprNode()
}

type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitBool
	LitNull
)

type Literal struct {
	Base
	Kind     LiteralKind
	IntVal   int64
	FloatVal float64
	StrVal   string
	BoolVal  bool
}

func (n *Literal) Accept(v Visitor) interface{} { return v.VisitLiteral(n) }
func (n *Literal) exprNode()                    {}

// VarRef is a bare identifier used as a value.
type VarRef struct {
	Base
	Name string
}

func (n *VarRef) Accept(v Visitor) interface{} { return v.VisitVarRef(n) }
func (n *VarRef) exprNode()                    {}

// MemberExpr is `object.property`.
type MemberExpr struct {
	Base
	Object   Expr
	Property string
}

func (n *MemberExpr) Accept(v Visitor) interface{} { return v.VisitMemberExpr(n) }
func (n *MemberExpr) exprNode()                    {}

// IndexExpr is `object[key]` (computed member access).
type IndexExpr struct {
	Base
	Object Expr
	Key    Expr
}

func (n *IndexExpr) Accept(v Visitor) interface{} { return v.VisitIndexExpr(n) }
func (n *IndexExpr) exprNode()                    {}

// CallExpr is `name(args...)`.
type CallExpr struct {
	Base
	Name string
	Args []Expr
}

func (n *CallExpr) Accept(v Visitor) interface{} { return v.VisitCallExpr(n) }
func (n *CallExpr) exprNode()                    {}

// MethodCallExpr is `receiver.method(args...)`.
type MethodCallExpr struct {
	Base
	Receiver Expr
	Method   string
	Args     []Expr
}

func (n *MethodCallExpr) Accept(v Visitor) interface{} { return v.VisitMethodCallExpr(n) }
func (n *MethodCallExpr) exprNode()                    {}

// BinaryExpr is `left op right`.
type BinaryExpr struct {
	Base
	Op    string
	Left  Expr
	Right Expr
}

func (n *BinaryExpr) Accept(v Visitor) interface{} { return v.VisitBinaryExpr(n) }
func (n *BinaryExpr) exprNode()                    {}

// UnaryExpr is `op operand` for prefix `!`/`-`.
type UnaryExpr struct {
	Base
	Op      string
	Operand Expr
}

func (n *UnaryExpr) Accept(v Visitor) interface{} { return v.VisitUnaryExpr(n) }
func (n *UnaryExpr) exprNode()                    {}

// TernaryExpr is `cond ? then : else`.
type TernaryExpr struct {
	Base
	Cond Expr
	Then Expr
	Else Expr
}

func (n *TernaryExpr) Accept(v Visitor) interface{} { return v.VisitTernaryExpr(n) }
func (n *TernaryExpr) exprNode()                    {}

// GroupExpr is a parenthesized sub-expression, kept as its own node so a
// code generator can round-trip the original grouping.
type GroupExpr struct {
	Base
	Inner Expr
}

func (n *GroupExpr) Accept(v Visitor) interface{} { return v.VisitGroupExpr(n) }
func (n *GroupExpr) exprNode()                    {}

// ArrayLiteral is `[e1, e2, ...]`.
type ArrayLiteral struct {
	Base
	Elements []Expr
}

func (n *ArrayLiteral) Accept(v Visitor) interface{} { return v.VisitArrayLiteral(n) }
func (n *ArrayLiteral) exprNode()                    {}
