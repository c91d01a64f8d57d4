// Package token defines the lexical token kinds and source positions
// produced by pkg/lexer and consumed by pkg/parser.
package token

import "fmt"

// Position locates a token in source. Line and Column are 1-indexed;
// Offset is the 0-indexed byte offset, matching the convention used
// throughout the rest of the pipeline (ast, ir, diag all embed Position).
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether the position was actually set.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Kind identifies the lexical category of a Token.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF
	COMMENT

	// Literals and identifiers.
	IDENT
	INT
	FLOAT
	STRING

	literalEnd

	// Keywords.
	keywordStart
	STATE
	CONST
	LET
	VAR
	STATIC
	FOR
	EACH
	IN
	IF
	ELSE
	FUNC
	STRUCT
	RETURN
	IMPORT
	FROM
	STYLE
	COMPONENT
	EXTENDS
	DELETE
	TRUE
	FALSE
	NULL
	keywordEnd

	// Punctuation and operators.
	LBRACE    // {
	RBRACE    // }
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	COLON     // :
	SEMI      // ;
	DOT      // .
	RANGE    // ..  (compile-time for-loop bounds, e.g. `for i in 0..10`)
	QUESTION // ?
	AT       // @ (prefixes @lua, @js, @universal)
	ARROW    // -> (function return type)

	ASSIGN // =
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	PERCENT

	EQ  // ==
	NE  // !=
	LT  // <
	GT  // >
	LE  // <=
	GE  // >=
	AND // &&
	OR  // ||
	NOT // !
)

var keywords = map[string]Kind{
	"state": STATE, "const": CONST, "let": LET, "var": VAR,
	"static": STATIC, "for": FOR, "each": EACH, "in": IN,
	"if": IF, "else": ELSE, "function": FUNC, "struct": STRUCT,
	"return": RETURN, "import": IMPORT, "from": FROM, "style": STYLE,
	"component": COMPONENT, "extends": EXTENDS, "delete": DELETE,
	"true": TRUE, "false": FALSE, "null": NULL,
}

// Lookup classifies an identifier as a keyword Kind, or IDENT if it is
// not a reserved word.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return IDENT
}

func (k Kind) IsKeyword() bool { return k > keywordStart && k < keywordEnd }
func (k Kind) IsLiteral() bool { return k > COMMENT && k < literalEnd }

var names = map[Kind]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", COMMENT: "COMMENT",
	IDENT: "IDENT", INT: "INT", FLOAT: "FLOAT", STRING: "STRING",
	STATE: "state", CONST: "const", LET: "let", VAR: "var",
	STATIC: "static", FOR: "for", EACH: "each", IN: "in",
	IF: "if", ELSE: "else", FUNC: "function", STRUCT: "struct",
	RETURN: "return", IMPORT: "import", FROM: "from", STYLE: "style",
	COMPONENT: "component", EXTENDS: "extends", DELETE: "delete",
	TRUE: "true", FALSE: "false", NULL: "null",
	LBRACE: "{", RBRACE: "}", LPAREN: "(", RPAREN: ")",
	LBRACKET: "[", RBRACKET: "]", COMMA: ",", COLON: ":", SEMI: ";",
	DOT: ".", RANGE: "..", QUESTION: "?", AT: "@", ARROW: "->",
	ASSIGN: "=", PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
	EQ: "==", NE: "!=", LT: "<", GT: ">", LE: "<=", GE: ">=",
	AND: "&&", OR: "||", NOT: "!",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a single lexical token with its literal text and position.
type Token struct {
	Kind    Kind
	Literal string
	Pos     Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %s", t.Kind, t.Literal, t.Pos)
}
