package ast

// Visitor is implemented by every tree walker over the AST — lowering
// (pkg/lower), diagnostics passes, and tests.
type Visitor interface {
	VisitFile(n *File) interface{}
	VisitImport(n *Import) interface{}
	VisitStructDecl(n *StructDecl) interface{}
	VisitStructField(n *StructField) interface{}
	VisitVarDecl(n *VarDecl) interface{}
	VisitParam(n *Param) interface{}
	VisitFuncDecl(n *FuncDecl) interface{}
	VisitStyleBlock(n *StyleBlock) interface{}
	VisitCodeBlock(n *CodeBlock) interface{}
	VisitModuleReturn(n *ModuleReturn) interface{}
	VisitExportSym(n *ExportSym) interface{}

	VisitComponentDef(n *ComponentDef) interface{}
	VisitComponentInst(n *ComponentInst) interface{}
	VisitComponentBody(n *ComponentBody) interface{}
	VisitProperty(n *Property) interface{}
	VisitStaticBlock(n *StaticBlock) interface{}
	VisitForLoop(n *ForLoop) interface{}
	VisitForEachTree(n *ForEachTree) interface{}
	VisitCondRender(n *CondRender) interface{}

	VisitAssignStmt(n *AssignStmt) interface{}
	VisitReturnStmt(n *ReturnStmt) interface{}
	VisitDeleteStmt(n *DeleteStmt) interface{}
	VisitIfStmt(n *IfStmt) interface{}
	VisitForEachStmt(n *ForEachStmt) interface{}
	VisitVarDeclStmt(n *VarDeclStmt) interface{}
	VisitExprStmt(n *ExprStmt) interface{}

	VisitLiteral(n *Literal) interface{}
	VisitVarRef(n *VarRef) interface{}
	VisitMemberExpr(n *MemberExpr) interface{}
	VisitIndexExpr(n *IndexExpr) interface{}
	VisitCallExpr(n *CallExpr) interface{}
	VisitMethodCallExpr(n *MethodCallExpr) interface{}
	VisitBinaryExpr(n *BinaryExpr) interface{}
	VisitUnaryExpr(n *UnaryExpr) interface{}
	VisitTernaryExpr(n *TernaryExpr) interface{}
	VisitGroupExpr(n *GroupExpr) interface{}
	VisitArrayLiteral(n *ArrayLiteral) interface{}
}
