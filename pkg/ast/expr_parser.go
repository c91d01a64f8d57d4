package ast

import (
	"strconv"

	"github.com/kryonlabs/kryon-core/pkg/diag"
	"github.com/kryonlabs/kryon-core/pkg/token"
)

// TokenStream is the minimal token cursor the expression parser needs.
// pkg/parser's statement parser implements this over its buffered lexer so
// both parsers share one expression grammar.
type TokenStream interface {
	Peek() token.Token
	Next() token.Token
}

// ExprParser parses expressions by precedence climbing over the fixed
// operator table:
//
//	?: (ternary) < || < && < == != < < > <= >= < + - < * / % < unary ! - < postfix . [] ()
type ExprParser struct {
	ts   TokenStream
	errs *diag.List
}

// NewExprParser builds an expression parser reading from ts and recording
// diagnostics into errs.
func NewExprParser(ts TokenStream, errs *diag.List) *ExprParser {
	return &ExprParser{ts: ts, errs: errs}
}

// binary operator precedence levels; higher binds tighter. Ternary and
// postfix are handled outside this table (see ParseExpr/parseUnary).
var binPrec = map[token.Kind]int{
	token.OR:      1,
	token.AND:     2,
	token.EQ:      3,
	token.NE:      3,
	token.LT:      4,
	token.GT:      4,
	token.LE:      4,
	token.GE:      4,
	token.PLUS:    5,
	token.MINUS:   5,
	token.STAR:    6,
	token.SLASH:   6,
	token.PERCENT: 6,
}

func opText(k token.Kind) string {
	switch k {
	case token.OR:
		return "||"
	case token.AND:
		return "&&"
	case token.EQ:
		return "=="
	case token.NE:
		return "!="
	case token.LT:
		return "<"
	case token.GT:
		return ">"
	case token.LE:
		return "<="
	case token.GE:
		return ">="
	case token.PLUS:
		return "+"
	case token.MINUS:
		return "-"
	case token.STAR:
		return "*"
	case token.SLASH:
		return "/"
	case token.PERCENT:
		return "%"
	default:
		return ""
	}
}

// ParseExpr parses a full expression, including the ternary operator,
// which binds the loosest of the table. Returns nil and
// appends a diagnostic on failure.
func (p *ExprParser) ParseExpr() Expr {
	cond := p.parseBinary(0)
	if cond == nil {
		return nil
	}
	if p.ts.Peek().Kind != token.QUESTION {
		return cond
	}
	pos := p.ts.Next().Pos // consume '?'
	then := p.ParseExpr()
	if then == nil {
		return nil
	}
	if p.ts.Peek().Kind != token.COLON {
		p.errs.Add(diag.Error, diag.Syntax, p.ts.Peek().Pos, "expected ':' in ternary expression")
		return nil
	}
	p.ts.Next() // consume ':'
	els := p.ParseExpr()
	if els == nil {
		return nil
	}
	return &TernaryExpr{Base: Base{Pos: pos}, Cond: cond, Then: then, Else: els}
}

// parseBinary climbs the binary-operator table, consuming operators whose
// precedence is at least minPrec.
func (p *ExprParser) parseBinary(minPrec int) Expr {
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	for {
		op := p.ts.Peek()
		prec, ok := binPrec[op.Kind]
		if !ok || prec < minPrec {
			return left
		}
		p.ts.Next() // consume operator
		right := p.parseBinary(prec + 1)
		if right == nil {
			return nil
		}
		left = &BinaryExpr{Base: Base{Pos: op.Pos}, Op: opText(op.Kind), Left: left, Right: right}
	}
}

// parseUnary handles prefix `!` and `-`, which bind tighter than any
// binary operator but looser than postfix access.
func (p *ExprParser) parseUnary() Expr {
	t := p.ts.Peek()
	if t.Kind == token.NOT || t.Kind == token.MINUS {
		p.ts.Next()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		return &UnaryExpr{Base: Base{Pos: t.Pos}, Op: opText2(t.Kind), Operand: operand}
	}
	return p.parsePostfix()
}

func opText2(k token.Kind) string {
	if k == token.NOT {
		return "!"
	}
	return "-"
}

// parsePostfix handles member access `.name`, computed access `[expr]`,
// and call chains `(args)`, left-associatively, binding tighter than
// unary.
func (p *ExprParser) parsePostfix() Expr {
	x := p.parsePrimary()
	if x == nil {
		return nil
	}
	for {
		switch p.ts.Peek().Kind {
		case token.DOT:
			dotPos := p.ts.Next().Pos
			name := p.ts.Peek()
			if name.Kind != token.IDENT {
				p.errs.Add(diag.Error, diag.Syntax, name.Pos, "expected identifier after '.'")
				return nil
			}
			p.ts.Next()
			if p.ts.Peek().Kind == token.LPAREN {
				p.ts.Next()
				args := p.parseArgList()
				if args == nil {
					return nil
				}
				x = &MethodCallExpr{Base: Base{Pos: dotPos}, Receiver: x, Method: name.Literal, Args: args}
				continue
			}
			x = &MemberExpr{Base: Base{Pos: dotPos}, Object: x, Property: name.Literal}
		case token.LBRACKET:
			lbPos := p.ts.Next().Pos
			key := p.ParseExpr()
			if key == nil {
				return nil
			}
			if p.ts.Peek().Kind != token.RBRACKET {
				p.errs.Add(diag.Error, diag.Syntax, p.ts.Peek().Pos, "expected ']'")
				return nil
			}
			p.ts.Next()
			x = &IndexExpr{Base: Base{Pos: lbPos}, Object: x, Key: key}
		default:
			return x
		}
	}
}

// parseArgList consumes a comma-separated argument list up to and
// including the closing ')'; the opening '(' has already been consumed.
func (p *ExprParser) parseArgList() []Expr {
	var args []Expr
	if p.ts.Peek().Kind == token.RPAREN {
		p.ts.Next()
		return args
	}
	for {
		a := p.ParseExpr()
		if a == nil {
			return nil
		}
		args = append(args, a)
		if p.ts.Peek().Kind == token.COMMA {
			p.ts.Next()
			continue
		}
		break
	}
	if p.ts.Peek().Kind != token.RPAREN {
		p.errs.Add(diag.Error, diag.Syntax, p.ts.Peek().Pos, "expected ')' after argument list")
		return nil
	}
	p.ts.Next()
	return args
}

// parsePrimary handles literals, identifiers (bare refs or calls), and
// parenthesized groups.
func (p *ExprParser) parsePrimary() Expr {
	t := p.ts.Peek()
	switch t.Kind {
	case token.INT:
		p.ts.Next()
		v, err := strconv.ParseInt(t.Literal, 10, 64)
		if err != nil {
			p.errs.Add(diag.Error, diag.Syntax, t.Pos, "invalid integer literal %q", t.Literal)
			return nil
		}
		return &Literal{Base: Base{Pos: t.Pos}, Kind: LitInt, IntVal: v}
	case token.FLOAT:
		p.ts.Next()
		v, err := strconv.ParseFloat(t.Literal, 64)
		if err != nil {
			p.errs.Add(diag.Error, diag.Syntax, t.Pos, "invalid float literal %q", t.Literal)
			return nil
		}
		return &Literal{Base: Base{Pos: t.Pos}, Kind: LitFloat, FloatVal: v}
	case token.STRING:
		p.ts.Next()
		return &Literal{Base: Base{Pos: t.Pos}, Kind: LitString, StrVal: t.Literal}
	case token.TRUE:
		p.ts.Next()
		return &Literal{Base: Base{Pos: t.Pos}, Kind: LitBool, BoolVal: true}
	case token.FALSE:
		p.ts.Next()
		return &Literal{Base: Base{Pos: t.Pos}, Kind: LitBool, BoolVal: false}
	case token.NULL:
		p.ts.Next()
		return &Literal{Base: Base{Pos: t.Pos}, Kind: LitNull}
	case token.IDENT:
		p.ts.Next()
		if p.ts.Peek().Kind == token.LPAREN {
			p.ts.Next()
			args := p.parseArgList()
			if args == nil {
				return nil
			}
			return &CallExpr{Base: Base{Pos: t.Pos}, Name: t.Literal, Args: args}
		}
		return &VarRef{Base: Base{Pos: t.Pos}, Name: t.Literal}
	case token.LPAREN:
		p.ts.Next()
		inner := p.ParseExpr()
		if inner == nil {
			return nil
		}
		if p.ts.Peek().Kind != token.RPAREN {
			p.errs.Add(diag.Error, diag.Syntax, p.ts.Peek().Pos, "expected ')'")
			return nil
		}
		p.ts.Next()
		return &GroupExpr{Base: Base{Pos: t.Pos}, Inner: inner}
	case token.LBRACKET:
		p.ts.Next()
		var elems []Expr
		if p.ts.Peek().Kind != token.RBRACKET {
			for {
				e := p.ParseExpr()
				if e == nil {
					return nil
				}
				elems = append(elems, e)
				if p.ts.Peek().Kind == token.COMMA {
					p.ts.Next()
					continue
				}
				break
			}
		}
		if p.ts.Peek().Kind != token.RBRACKET {
			p.errs.Add(diag.Error, diag.Syntax, p.ts.Peek().Pos, "expected ']' after array literal")
			return nil
		}
		p.ts.Next()
		return &ArrayLiteral{Base: Base{Pos: t.Pos}, Elements: elems}
	}
	p.errs.Add(diag.Error, diag.Syntax, t.Pos, "unexpected token %s in expression", t.Kind.String())
	return nil
}
