package lower

import "github.com/kryonlabs/kryon-core/pkg/ast"

// evalStatic attempts to fold e to a concrete value at compile time,
// substituting any VarRef against the current parameter scope first. It
// supports exactly the arithmetic range bounds and simple property
// values need: literals, array literals and indexing into them, +-*/%,
// comparisons, && and ||, !, unary -, ternary and grouping. A VarRef
// that does not resolve to a param binding is a live reactive reference,
// not a compile-time constant.
func (c *Context) evalStatic(e ast.Expr) (val staticValue, ok bool) {
	switch n := e.(type) {
	case *ast.ArrayLiteral:
		elems := make([]staticValue, 0, len(n.Elements))
		for _, el := range n.Elements {
			ev, ok := c.evalStatic(el)
			if !ok {
				return staticValue{}, false
			}
			elems = append(elems, ev)
		}
		return staticValue{isArr: true, arr: elems}, true
	case *ast.Literal:
		switch n.Kind {
		case ast.LitInt:
			return staticValue{isInt: true, i: n.IntVal}, true
		case ast.LitFloat:
			return staticValue{f: n.FloatVal}, true
		case ast.LitString:
			return staticValue{isStr: true, s: n.StrVal}, true
		case ast.LitBool:
			return staticValue{isBool: true, b: n.BoolVal}, true
		default:
			return staticValue{}, false
		}
	case *ast.VarRef:
		bound, ok := c.lookupParam(n.Name)
		if !ok {
			return staticValue{}, false
		}
		return c.evalStatic(bound)
	case *ast.GroupExpr:
		return c.evalStatic(n.Inner)
	case *ast.IndexExpr:
		obj, ok := c.evalStatic(n.Object)
		if !ok || !obj.isArr {
			return staticValue{}, false
		}
		key, ok := c.evalStatic(n.Key)
		if !ok || !key.isInt || key.i < 0 || key.i >= int64(len(obj.arr)) {
			return staticValue{}, false
		}
		return obj.arr[key.i], true
	case *ast.UnaryExpr:
		operand, ok := c.evalStatic(n.Operand)
		if !ok {
			return staticValue{}, false
		}
		switch n.Op {
		case "-":
			if operand.isInt {
				return staticValue{isInt: true, i: -operand.i}, true
			}
			return staticValue{f: -operand.asFloat()}, true
		case "!":
			return staticValue{isBool: true, b: !operand.truthy()}, true
		}
		return staticValue{}, false
	case *ast.BinaryExpr:
		l, lok := c.evalStatic(n.Left)
		r, rok := c.evalStatic(n.Right)
		if !lok || !rok {
			return staticValue{}, false
		}
		return evalBinary(n.Op, l, r)
	case *ast.TernaryExpr:
		cond, ok := c.evalStatic(n.Cond)
		if !ok {
			return staticValue{}, false
		}
		if cond.truthy() {
			return c.evalStatic(n.Then)
		}
		return c.evalStatic(n.Else)
	default:
		return staticValue{}, false
	}
}

// staticValue is a minimal compile-time-foldable value, deliberately
// separate from kryval.Value so lowering's arithmetic doesn't depend on
// the VM's runtime representation.
type staticValue struct {
	isInt  bool
	i      int64
	f      float64
	isStr  bool
	s      string
	isBool bool
	b      bool
	isArr  bool
	arr    []staticValue
}

// asExpr converts a folded static value back into an AST literal, used to
// rebind a for-loop item name to its current element during compile-time
// array expansion.
func (v staticValue) asExpr() ast.Expr {
	switch {
	case v.isArr:
		elems := make([]ast.Expr, 0, len(v.arr))
		for _, e := range v.arr {
			elems = append(elems, e.asExpr())
		}
		return &ast.ArrayLiteral{Elements: elems}
	case v.isStr:
		return &ast.Literal{Kind: ast.LitString, StrVal: v.s}
	case v.isBool:
		return &ast.Literal{Kind: ast.LitBool, BoolVal: v.b}
	case v.isInt:
		return &ast.Literal{Kind: ast.LitInt, IntVal: v.i}
	default:
		return &ast.Literal{Kind: ast.LitFloat, FloatVal: v.f}
	}
}

func (v staticValue) asFloat() float64 {
	if v.isInt {
		return float64(v.i)
	}
	return v.f
}

func (v staticValue) truthy() bool {
	if v.isBool {
		return v.b
	}
	if v.isInt {
		return v.i != 0
	}
	return v.asFloat() != 0
}

func evalBinary(op string, l, r staticValue) (staticValue, bool) {
	if l.isStr || r.isStr {
		if op == "+" && l.isStr && r.isStr {
			return staticValue{isStr: true, s: l.s + r.s}, true
		}
		if op == "==" {
			return staticValue{isBool: true, b: l.isStr && r.isStr && l.s == r.s}, true
		}
		if op == "!=" {
			return staticValue{isBool: true, b: !(l.isStr && r.isStr && l.s == r.s)}, true
		}
		return staticValue{}, false
	}
	bothInt := l.isInt && r.isInt
	switch op {
	case "+":
		if bothInt {
			return staticValue{isInt: true, i: l.i + r.i}, true
		}
		return staticValue{f: l.asFloat() + r.asFloat()}, true
	case "-":
		if bothInt {
			return staticValue{isInt: true, i: l.i - r.i}, true
		}
		return staticValue{f: l.asFloat() - r.asFloat()}, true
	case "*":
		if bothInt {
			return staticValue{isInt: true, i: l.i * r.i}, true
		}
		return staticValue{f: l.asFloat() * r.asFloat()}, true
	case "/":
		if bothInt {
			if r.i == 0 {
				return staticValue{}, false
			}
			return staticValue{isInt: true, i: l.i / r.i}, true
		}
		if r.asFloat() == 0 {
			return staticValue{}, false
		}
		return staticValue{f: l.asFloat() / r.asFloat()}, true
	case "%":
		if !bothInt || r.i == 0 {
			return staticValue{}, false
		}
		return staticValue{isInt: true, i: l.i % r.i}, true
	case "==":
		return staticValue{isBool: true, b: l.asFloat() == r.asFloat()}, true
	case "!=":
		return staticValue{isBool: true, b: l.asFloat() != r.asFloat()}, true
	case "<":
		return staticValue{isBool: true, b: l.asFloat() < r.asFloat()}, true
	case ">":
		return staticValue{isBool: true, b: l.asFloat() > r.asFloat()}, true
	case "<=":
		return staticValue{isBool: true, b: l.asFloat() <= r.asFloat()}, true
	case ">=":
		return staticValue{isBool: true, b: l.asFloat() >= r.asFloat()}, true
	case "&&":
		return staticValue{isBool: true, b: l.truthy() && r.truthy()}, true
	case "||":
		return staticValue{isBool: true, b: l.truthy() || r.truthy()}, true
	}
	return staticValue{}, false
}
