// Package lexer hand-tokenizes .kry source. Lexical errors are recorded
// into a shared diagnostic list and lexing continues, so the parser can
// recover at statement boundaries instead of aborting.
package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/kryonlabs/kryon-core/pkg/diag"
	"github.com/kryonlabs/kryon-core/pkg/token"
)

// Lexer turns source bytes into a Token stream on demand via Next.
type Lexer struct {
	src    string
	offset int // byte offset of the next rune to read
	line   int
	col    int // rune column, 1-indexed
	errs   *diag.List
}

// New creates a Lexer over src, recording lexical diagnostics into errs.
func New(src string, errs *diag.List) *Lexer {
	return &Lexer{src: src, line: 1, col: 1, errs: errs}
}

func (l *Lexer) pos() token.Position {
	return token.Position{Line: l.line, Column: l.col, Offset: l.offset}
}

func (l *Lexer) peekRune() (rune, int) {
	if l.offset >= len(l.src) {
		return 0, 0
	}
	r, size := utf8.DecodeRuneInString(l.src[l.offset:])
	return r, size
}

func (l *Lexer) advance() rune {
	r, size := l.peekRune()
	if size == 0 {
		return 0
	}
	l.offset += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) peekAt(offset int) byte {
	if l.offset+offset >= len(l.src) {
		return 0
	}
	return l.src[l.offset+offset]
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// Next returns the next token. At end of input it returns an EOF token
// forever; lexical errors (unterminated string, illegal character) are
// recorded into the shared diag.List and an ILLEGAL token is returned so
// the parser can synchronize rather than abort.
func (l *Lexer) Next() token.Token {
	l.skipWhitespaceAndComments()
	start := l.pos()
	r, size := l.peekRune()
	if size == 0 {
		return token.Token{Kind: token.EOF, Pos: start}
	}

	switch {
	case isIdentStart(r):
		return l.lexIdent(start)
	case isDigit(r):
		return l.lexNumber(start)
	case r == '"':
		return l.lexString(start)
	}

	return l.lexOperator(start)
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		r, size := l.peekRune()
		if size == 0 {
			return
		}
		if r == ' ' || r == '\t' || r == '\r' || r == '\n' {
			l.advance()
			continue
		}
		if r == '/' && l.peekAt(1) == '/' {
			for {
				r, size := l.peekRune()
				if size == 0 || r == '\n' {
					break
				}
				l.advance()
			}
			continue
		}
		return
	}
}

func (l *Lexer) lexIdent(start token.Position) token.Token {
	var b strings.Builder
	for {
		r, size := l.peekRune()
		if size == 0 || !isIdentCont(r) {
			break
		}
		b.WriteRune(r)
		l.advance()
	}
	lit := b.String()
	return token.Token{Kind: token.Lookup(lit), Literal: lit, Pos: start}
}

func (l *Lexer) lexNumber(start token.Position) token.Token {
	var b strings.Builder
	kind := token.INT
	for {
		r, size := l.peekRune()
		if size == 0 {
			break
		}
		if isDigit(r) {
			b.WriteRune(r)
			l.advance()
			continue
		}
		if r == '.' && kind == token.INT && l.peekAt(1) != '.' {
			// A second '.' immediately following means this is a range
			// operator (`0..10`), not a decimal point — leave both dots
			// for lexOperator to tokenize as RANGE.
			kind = token.FLOAT
			b.WriteRune(r)
			l.advance()
			continue
		}
		break
	}
	return token.Token{Kind: kind, Literal: b.String(), Pos: start}
}

func (l *Lexer) lexString(start token.Position) token.Token {
	l.advance() // opening quote
	var b strings.Builder
	for {
		r, size := l.peekRune()
		if size == 0 {
			l.errs.Add(diag.Error, diag.Syntax, start, "unterminated string literal")
			return token.Token{Kind: token.ILLEGAL, Literal: b.String(), Pos: start}
		}
		if r == '"' {
			l.advance()
			break
		}
		if r == '\\' {
			l.advance()
			esc, size := l.peekRune()
			if size == 0 {
				l.errs.Add(diag.Error, diag.Syntax, start, "unterminated string literal")
				return token.Token{Kind: token.ILLEGAL, Literal: b.String(), Pos: start}
			}
			l.advance()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			case '\'':
				b.WriteByte('\'')
			default:
				l.errs.Add(diag.Warning, diag.Syntax, start, "unknown escape sequence \\%c", esc)
				b.WriteRune(esc)
			}
			continue
		}
		b.WriteRune(r)
		l.advance()
	}
	return token.Token{Kind: token.STRING, Literal: b.String(), Pos: start}
}

func (l *Lexer) lexOperator(start token.Position) token.Token {
	two := l.src[l.offset:min(l.offset+2, len(l.src))]
	switch two {
	case "->":
		l.advance()
		l.advance()
		return token.Token{Kind: token.ARROW, Literal: "->", Pos: start}
	case "==":
		l.advance()
		l.advance()
		return token.Token{Kind: token.EQ, Literal: "==", Pos: start}
	case "!=":
		l.advance()
		l.advance()
		return token.Token{Kind: token.NE, Literal: "!=", Pos: start}
	case "<=":
		l.advance()
		l.advance()
		return token.Token{Kind: token.LE, Literal: "<=", Pos: start}
	case ">=":
		l.advance()
		l.advance()
		return token.Token{Kind: token.GE, Literal: ">=", Pos: start}
	case "&&":
		l.advance()
		l.advance()
		return token.Token{Kind: token.AND, Literal: "&&", Pos: start}
	case "||":
		l.advance()
		l.advance()
		return token.Token{Kind: token.OR, Literal: "||", Pos: start}
	case "..":
		l.advance()
		l.advance()
		return token.Token{Kind: token.RANGE, Literal: "..", Pos: start}
	}

	r := l.advance()
	switch r {
	case '{':
		return token.Token{Kind: token.LBRACE, Literal: "{", Pos: start}
	case '}':
		return token.Token{Kind: token.RBRACE, Literal: "}", Pos: start}
	case '(':
		return token.Token{Kind: token.LPAREN, Literal: "(", Pos: start}
	case ')':
		return token.Token{Kind: token.RPAREN, Literal: ")", Pos: start}
	case '[':
		return token.Token{Kind: token.LBRACKET, Literal: "[", Pos: start}
	case ']':
		return token.Token{Kind: token.RBRACKET, Literal: "]", Pos: start}
	case ',':
		return token.Token{Kind: token.COMMA, Literal: ",", Pos: start}
	case ':':
		return token.Token{Kind: token.COLON, Literal: ":", Pos: start}
	case ';':
		return token.Token{Kind: token.SEMI, Literal: ";", Pos: start}
	case '.':
		return token.Token{Kind: token.DOT, Literal: ".", Pos: start}
	case '?':
		return token.Token{Kind: token.QUESTION, Literal: "?", Pos: start}
	case '@':
		return token.Token{Kind: token.AT, Literal: "@", Pos: start}
	case '=':
		return token.Token{Kind: token.ASSIGN, Literal: "=", Pos: start}
	case '+':
		return token.Token{Kind: token.PLUS, Literal: "+", Pos: start}
	case '-':
		return token.Token{Kind: token.MINUS, Literal: "-", Pos: start}
	case '*':
		return token.Token{Kind: token.STAR, Literal: "*", Pos: start}
	case '/':
		return token.Token{Kind: token.SLASH, Literal: "/", Pos: start}
	case '%':
		return token.Token{Kind: token.PERCENT, Literal: "%", Pos: start}
	case '<':
		return token.Token{Kind: token.LT, Literal: "<", Pos: start}
	case '>':
		return token.Token{Kind: token.GT, Literal: ">", Pos: start}
	case '!':
		return token.Token{Kind: token.NOT, Literal: "!", Pos: start}
	}

	l.errs.Add(diag.Error, diag.Syntax, start, "unexpected character %q", r)
	return token.Token{Kind: token.ILLEGAL, Literal: string(r), Pos: start}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
