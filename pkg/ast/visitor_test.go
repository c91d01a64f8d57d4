package ast

import (
	"testing"

	"github.com/kryonlabs/kryon-core/pkg/token"
)

func token0() token.Position { return token.Position{Line: 1, Column: 1} }

// countingVisitor counts how many times each node kind is visited, used to
// exercise BaseVisitor's default traversal.
type countingVisitor struct {
	BaseVisitor
	counts map[string]int
}

func newCountingVisitor() *countingVisitor {
	return &countingVisitor{counts: make(map[string]int)}
}

func (v *countingVisitor) VisitComponentInst(n *ComponentInst) interface{} {
	v.counts["ComponentInst"]++
	return v.BaseVisitor.VisitComponentInst(n)
}

func (v *countingVisitor) VisitProperty(n *Property) interface{} {
	v.counts["Property"]++
	return v.BaseVisitor.VisitProperty(n)
}

func (v *countingVisitor) VisitLiteral(n *Literal) interface{} {
	v.counts["Literal"]++
	return v.BaseVisitor.VisitLiteral(n)
}

func (v *countingVisitor) VisitBinaryExpr(n *BinaryExpr) interface{} {
	v.counts["BinaryExpr"]++
	return v.BaseVisitor.VisitBinaryExpr(n)
}

func (v *countingVisitor) VisitVarRef(n *VarRef) interface{} {
	v.counts["VarRef"]++
	return v.BaseVisitor.VisitVarRef(n)
}

func TestBaseVisitor_TraversesComponentTree(t *testing.T) {
	pos := token0()
	leaf := &ComponentInst{
		Base: Base{Pos: pos},
		Name: "Text",
		Body: &ComponentBody{
			Base: Base{Pos: pos},
			Items: []Node{
				&Property{Base: Base{Pos: pos}, Name: "text", Value: &Literal{Base: Base{Pos: pos}, Kind: LitString, StrVal: "hi"}},
			},
		},
	}
	root := &ComponentInst{
		Base: Base{Pos: pos},
		Name: "Container",
		Body: &ComponentBody{
			Base:  Base{Pos: pos},
			Items: []Node{leaf},
		},
	}

	v := newCountingVisitor()
	root.Accept(v)

	if v.counts["ComponentInst"] != 2 {
		t.Errorf("expected 2 ComponentInst visits, got %d", v.counts["ComponentInst"])
	}
	if v.counts["Property"] != 1 {
		t.Errorf("expected 1 Property visit, got %d", v.counts["Property"])
	}
	if v.counts["Literal"] != 1 {
		t.Errorf("expected 1 Literal visit, got %d", v.counts["Literal"])
	}
}

func TestBaseVisitor_TraversesBinaryExpr(t *testing.T) {
	pos := token0()
	expr := &BinaryExpr{
		Base: Base{Pos: pos},
		Op:   "+",
		Left: &VarRef{Base: Base{Pos: pos}, Name: "count"},
		Right: &BinaryExpr{
			Base:  Base{Pos: pos},
			Op:    "*",
			Left:  &Literal{Base: Base{Pos: pos}, Kind: LitInt, IntVal: 2},
			Right: &Literal{Base: Base{Pos: pos}, Kind: LitInt, IntVal: 3},
		},
	}

	v := newCountingVisitor()
	expr.Accept(v)

	if v.counts["BinaryExpr"] != 2 {
		t.Errorf("expected 2 BinaryExpr visits, got %d", v.counts["BinaryExpr"])
	}
	if v.counts["Literal"] != 2 {
		t.Errorf("expected 2 Literal visits, got %d", v.counts["Literal"])
	}
	if v.counts["VarRef"] != 1 {
		t.Errorf("expected 1 VarRef visit, got %d", v.counts["VarRef"])
	}
}

// transformingVisitor demonstrates a visitor that mutates the tree in
// place while relying on BaseVisitor for traversal.
type transformingVisitor struct {
	BaseVisitor
}

func (v *transformingVisitor) VisitLiteral(n *Literal) interface{} {
	if n.Kind == LitString {
		n.StrVal = reverseString(n.StrVal)
	}
	return nil
}

func reverseString(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

func TestTransformingVisitor_ReversesStringLiteral(t *testing.T) {
	pos := token0()
	lit := &Literal{Base: Base{Pos: pos}, Kind: LitString, StrVal: "Hello"}

	lit.Accept(&transformingVisitor{})

	if lit.StrVal != "olleH" {
		t.Errorf("expected 'olleH', got %q", lit.StrVal)
	}
}
