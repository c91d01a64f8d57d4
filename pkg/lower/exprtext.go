package lower

import (
	"fmt"
	"strings"

	"github.com/kryonlabs/kryon-core/pkg/ast"
)

// exprPrinter reconstructs an expression's source text: embed
// BaseVisitor, recurse via Accept, accumulate into a strings.Builder.
// Used to populate PropertyBinding and ForEachBinding source-expression
// text for codegen round-trip.
type exprPrinter struct {
	ast.BaseVisitor
	out strings.Builder
}

// exprText renders e back to .kry-like source text.
func exprText(e ast.Expr) string {
	if e == nil {
		return ""
	}
	p := &exprPrinter{}
	e.Accept(p)
	return p.out.String()
}

func (p *exprPrinter) VisitLiteral(n *ast.Literal) interface{} {
	switch n.Kind {
	case ast.LitInt:
		fmt.Fprintf(&p.out, "%d", n.IntVal)
	case ast.LitFloat:
		fmt.Fprintf(&p.out, "%g", n.FloatVal)
	case ast.LitString:
		fmt.Fprintf(&p.out, "%q", n.StrVal)
	case ast.LitBool:
		fmt.Fprintf(&p.out, "%t", n.BoolVal)
	case ast.LitNull:
		p.out.WriteString("null")
	}
	return nil
}

func (p *exprPrinter) VisitVarRef(n *ast.VarRef) interface{} {
	p.out.WriteString(n.Name)
	return nil
}

func (p *exprPrinter) VisitMemberExpr(n *ast.MemberExpr) interface{} {
	n.Object.Accept(p)
	p.out.WriteByte('.')
	p.out.WriteString(n.Property)
	return nil
}

func (p *exprPrinter) VisitIndexExpr(n *ast.IndexExpr) interface{} {
	n.Object.Accept(p)
	p.out.WriteByte('[')
	n.Key.Accept(p)
	p.out.WriteByte(']')
	return nil
}

func (p *exprPrinter) VisitCallExpr(n *ast.CallExpr) interface{} {
	p.out.WriteString(n.Name)
	p.out.WriteByte('(')
	for i, a := range n.Args {
		if i > 0 {
			p.out.WriteString(", ")
		}
		a.Accept(p)
	}
	p.out.WriteByte(')')
	return nil
}

func (p *exprPrinter) VisitMethodCallExpr(n *ast.MethodCallExpr) interface{} {
	n.Receiver.Accept(p)
	p.out.WriteByte('.')
	p.out.WriteString(n.Method)
	p.out.WriteByte('(')
	for i, a := range n.Args {
		if i > 0 {
			p.out.WriteString(", ")
		}
		a.Accept(p)
	}
	p.out.WriteByte(')')
	return nil
}

func (p *exprPrinter) VisitBinaryExpr(n *ast.BinaryExpr) interface{} {
	n.Left.Accept(p)
	p.out.WriteByte(' ')
	p.out.WriteString(n.Op)
	p.out.WriteByte(' ')
	n.Right.Accept(p)
	return nil
}

func (p *exprPrinter) VisitUnaryExpr(n *ast.UnaryExpr) interface{} {
	p.out.WriteString(n.Op)
	n.Operand.Accept(p)
	return nil
}

func (p *exprPrinter) VisitTernaryExpr(n *ast.TernaryExpr) interface{} {
	n.Cond.Accept(p)
	p.out.WriteString(" ? ")
	n.Then.Accept(p)
	p.out.WriteString(" : ")
	n.Else.Accept(p)
	return nil
}

func (p *exprPrinter) VisitGroupExpr(n *ast.GroupExpr) interface{} {
	p.out.WriteByte('(')
	n.Inner.Accept(p)
	p.out.WriteByte(')')
	return nil
}

func (p *exprPrinter) VisitArrayLiteral(n *ast.ArrayLiteral) interface{} {
	p.out.WriteByte('[')
	for i, e := range n.Elements {
		if i > 0 {
			p.out.WriteString(", ")
		}
		e.Accept(p)
	}
	p.out.WriteByte(']')
	return nil
}
