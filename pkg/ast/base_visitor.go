package ast

// BaseVisitor implements Visitor with a default recursive walk over every
// child node, returning nil from each Visit method. Embed it and override
// only the methods a given pass cares about.
type BaseVisitor struct{}

var _ Visitor = (*BaseVisitor)(nil)

func visitAll(v Visitor, nodes []Node) {
	for _, n := range nodes {
		if n != nil {
			n.Accept(v)
		}
	}
}

func (b *BaseVisitor) VisitFile(n *File) interface{} {
	for _, i := range n.Imports {
		i.Accept(b)
	}
	for _, d := range n.VarDecls {
		d.Accept(b)
	}
	for _, s := range n.Structs {
		s.Accept(b)
	}
	for _, f := range n.Functions {
		f.Accept(b)
	}
	for _, s := range n.Styles {
		s.Accept(b)
	}
	for _, c := range n.CodeBlocks {
		c.Accept(b)
	}
	for _, c := range n.ComponentDefs {
		c.Accept(b)
	}
	if n.Root != nil {
		n.Root.Accept(b)
	}
	if n.ModuleReturn != nil {
		n.ModuleReturn.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitImport(n *Import) interface{} { return nil }

func (b *BaseVisitor) VisitStructDecl(n *StructDecl) interface{} {
	for _, f := range n.Fields {
		f.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitStructField(n *StructField) interface{} { return nil }

func (b *BaseVisitor) VisitVarDecl(n *VarDecl) interface{} {
	if n.Value != nil {
		n.Value.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitParam(n *Param) interface{} { return nil }

func (b *BaseVisitor) VisitFuncDecl(n *FuncDecl) interface{} {
	for _, p := range n.Params {
		p.Accept(b)
	}
	for _, s := range n.Body {
		s.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitStyleBlock(n *StyleBlock) interface{} {
	for _, p := range n.Properties {
		p.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitCodeBlock(n *CodeBlock) interface{} { return nil }

func (b *BaseVisitor) VisitModuleReturn(n *ModuleReturn) interface{} {
	for _, e := range n.Exports {
		e.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitExportSym(n *ExportSym) interface{} {
	if n.Value != nil {
		n.Value.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitComponentDef(n *ComponentDef) interface{} {
	for _, p := range n.Params {
		p.Accept(b)
	}
	if n.Body != nil {
		n.Body.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitComponentInst(n *ComponentInst) interface{} {
	if n.Body != nil {
		n.Body.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitComponentBody(n *ComponentBody) interface{} {
	for _, s := range n.StateDecls {
		s.Accept(b)
	}
	visitAll(b, n.Items)
	return nil
}

func (b *BaseVisitor) VisitProperty(n *Property) interface{} {
	if n.Value != nil {
		n.Value.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitStaticBlock(n *StaticBlock) interface{} {
	visitAll(b, n.Items)
	return nil
}

func (b *BaseVisitor) VisitForLoop(n *ForLoop) interface{} {
	if n.IsRange {
		if n.RangeFrom != nil {
			n.RangeFrom.Accept(b)
		}
		if n.RangeTo != nil {
			n.RangeTo.Accept(b)
		}
	} else if n.Iterable != nil {
		n.Iterable.Accept(b)
	}
	if n.Body != nil {
		n.Body.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitForEachTree(n *ForEachTree) interface{} {
	if n.Iterable != nil {
		n.Iterable.Accept(b)
	}
	if n.Body != nil {
		n.Body.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitCondRender(n *CondRender) interface{} {
	if n.Cond != nil {
		n.Cond.Accept(b)
	}
	if n.Then != nil {
		n.Then.Accept(b)
	}
	if n.Else != nil {
		n.Else.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitAssignStmt(n *AssignStmt) interface{} {
	if n.Value != nil {
		n.Value.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitReturnStmt(n *ReturnStmt) interface{} {
	if n.Value != nil {
		n.Value.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitDeleteStmt(n *DeleteStmt) interface{} {
	if n.Target != nil {
		n.Target.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitIfStmt(n *IfStmt) interface{} {
	if n.Cond != nil {
		n.Cond.Accept(b)
	}
	for _, s := range n.Then {
		s.Accept(b)
	}
	for _, s := range n.Else {
		s.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitForEachStmt(n *ForEachStmt) interface{} {
	if n.Iterable != nil {
		n.Iterable.Accept(b)
	}
	for _, s := range n.Body {
		s.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitVarDeclStmt(n *VarDeclStmt) interface{} {
	if n.Decl != nil {
		n.Decl.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitExprStmt(n *ExprStmt) interface{} {
	if n.X != nil {
		n.X.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitLiteral(n *Literal) interface{} { return nil }
func (b *BaseVisitor) VisitVarRef(n *VarRef) interface{}   { return nil }

func (b *BaseVisitor) VisitMemberExpr(n *MemberExpr) interface{} {
	if n.Object != nil {
		n.Object.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitIndexExpr(n *IndexExpr) interface{} {
	if n.Object != nil {
		n.Object.Accept(b)
	}
	if n.Key != nil {
		n.Key.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitCallExpr(n *CallExpr) interface{} {
	for _, a := range n.Args {
		a.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitMethodCallExpr(n *MethodCallExpr) interface{} {
	if n.Receiver != nil {
		n.Receiver.Accept(b)
	}
	for _, a := range n.Args {
		a.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitBinaryExpr(n *BinaryExpr) interface{} {
	if n.Left != nil {
		n.Left.Accept(b)
	}
	if n.Right != nil {
		n.Right.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitUnaryExpr(n *UnaryExpr) interface{} {
	if n.Operand != nil {
		n.Operand.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitTernaryExpr(n *TernaryExpr) interface{} {
	if n.Cond != nil {
		n.Cond.Accept(b)
	}
	if n.Then != nil {
		n.Then.Accept(b)
	}
	if n.Else != nil {
		n.Else.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitGroupExpr(n *GroupExpr) interface{} {
	if n.Inner != nil {
		n.Inner.Accept(b)
	}
	return nil
}

func (b *BaseVisitor) VisitArrayLiteral(n *ArrayLiteral) interface{} {
	for _, e := range n.Elements {
		if e != nil {
			e.Accept(b)
		}
	}
	return nil
}
