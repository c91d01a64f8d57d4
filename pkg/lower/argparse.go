package lower

import (
	"github.com/kryonlabs/kryon-core/pkg/ast"
	"github.com/kryonlabs/kryon-core/pkg/diag"
	"github.com/kryonlabs/kryon-core/pkg/lexer"
	"github.com/kryonlabs/kryon-core/pkg/token"
)

// tokenBuffer re-lexes a fragment of source on demand, giving pkg/ast's
// expression parser the same TokenStream contract pkg/parser's statement
// parser provides over the full file.
type tokenBuffer struct {
	lex *lexer.Lexer
	buf []token.Token
}

func newTokenBuffer(src string, errs *diag.List) *tokenBuffer {
	return &tokenBuffer{lex: lexer.New(src, errs)}
}

func (b *tokenBuffer) fill(n int) {
	for len(b.buf) <= n {
		b.buf = append(b.buf, b.lex.Next())
	}
}

func (b *tokenBuffer) Peek() token.Token {
	b.fill(0)
	return b.buf[0]
}

// PeekAt looks n tokens past the cursor without consuming.
func (b *tokenBuffer) PeekAt(n int) token.Token {
	b.fill(n)
	return b.buf[n]
}

func (b *tokenBuffer) Next() token.Token {
	b.fill(0)
	t := b.buf[0]
	b.buf = b.buf[1:]
	return t
}

// argBinding is one entry of a component instantiation's argument list,
// in source order. Name is "" for a positional argument.
type argBinding struct {
	Name  string
	Value ast.Expr
}

// parseArguments parses a ComponentInst.ArgumentsText fragment into
// ordered bindings. Both forms mix freely: `5, label = "go"` yields one
// positional entry and one named entry. A malformed fragment appends a
// diagnostic and yields as many bindings as could be recovered.
func parseArguments(text string, errs *diag.List) []argBinding {
	if text == "" {
		return nil
	}
	ts := newTokenBuffer(text, errs)
	expr := ast.NewExprParser(ts, errs)

	var out []argBinding
	for {
		if ts.Peek().Kind == token.EOF {
			break
		}
		var name string
		if ts.Peek().Kind == token.IDENT && ts.PeekAt(1).Kind == token.ASSIGN {
			name = ts.Next().Literal
			ts.Next() // '='
		}
		val := expr.ParseExpr()
		if val == nil {
			break
		}
		out = append(out, argBinding{Name: name, Value: val})
		if ts.Peek().Kind == token.COMMA {
			ts.Next()
			continue
		}
		break
	}
	return out
}
