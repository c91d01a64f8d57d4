// Package parser implements a hand-rolled recursive-descent parser for
// .kry source with statement-level error recovery: a syntax error is
// recorded, the cursor resynchronizes to the next statement boundary,
// and parsing continues, so one invocation surfaces every problem it
// can.
package parser

import (
	"strings"

	"github.com/kryonlabs/kryon-core/pkg/ast"
	"github.com/kryonlabs/kryon-core/pkg/diag"
	"github.com/kryonlabs/kryon-core/pkg/lexer"
	"github.com/kryonlabs/kryon-core/pkg/token"
)

// Parser turns a token stream into an *ast.File, recovering from syntax
// errors at statement boundaries instead of aborting.
type Parser struct {
	lex   *lexer.Lexer
	buf   []token.Token
	errs  *diag.List
	arena *ast.Arena
	expr  *ast.ExprParser
}

// New creates a Parser over src. Diagnostics are appended to errs (the
// caller owns the list so multiple files can share one error report).
func New(src string, errs *diag.List) *Parser {
	p := &Parser{
		lex:   lexer.New(src, errs),
		errs:  errs,
		arena: ast.NewArena(),
	}
	p.expr = ast.NewExprParser(p, errs)
	return p
}

// Peek and Next implement ast.TokenStream so the Pratt expression parser
// shares this parser's token buffer.
func (p *Parser) Peek() token.Token {
	p.fill(1)
	return p.buf[0]
}

func (p *Parser) Next() token.Token {
	p.fill(1)
	t := p.buf[0]
	p.buf = p.buf[1:]
	return t
}

func (p *Parser) fill(n int) {
	for len(p.buf) < n {
		p.buf = append(p.buf, p.lex.Next())
	}
}

func (p *Parser) at(k token.Kind) bool { return p.Peek().Kind == k }

func at(pos token.Position) ast.Base { return ast.Base{Pos: pos} }

// expect consumes the current token if it matches k, else appends a
// diagnostic and leaves the cursor where it is so the caller can recover.
func (p *Parser) expect(k token.Kind, what string) (token.Token, bool) {
	t := p.Peek()
	if t.Kind != k {
		p.errs.Add(diag.Error, diag.Syntax, t.Pos, "expected %s, got %s", what, t.Kind.String())
		return t, false
	}
	return p.Next(), true
}

func (p *Parser) consumeOptSemi() {
	if p.at(token.SEMI) {
		p.Next()
	}
}

// synchronize discards tokens until it finds a plausible statement
// boundary, so one bad token doesn't cascade into spurious errors.
func (p *Parser) synchronize() {
	for {
		t := p.Peek()
		switch t.Kind {
		case token.EOF, token.RBRACE:
			return
		case token.SEMI:
			p.Next()
			return
		case token.IMPORT, token.CONST, token.LET, token.VAR, token.STATE,
			token.STRUCT, token.FUNC, token.STYLE, token.COMPONENT,
			token.STATIC, token.FOR, token.IF, token.RETURN, token.AT,
			token.IDENT, token.DELETE:
			return
		}
		p.Next()
	}
}

// Parse parses a complete compilation unit.
func (p *Parser) Parse() *ast.File {
	f := &ast.File{Base: at(p.Peek().Pos)}
	p.arena.Own(f)

	for !p.at(token.EOF) {
		switch p.Peek().Kind {
		case token.IMPORT:
			f.Imports = append(f.Imports, p.parseImport())
		case token.CONST, token.LET, token.VAR:
			f.VarDecls = append(f.VarDecls, p.parseVarDecl())
		case token.STRUCT:
			f.Structs = append(f.Structs, p.parseStructDecl())
		case token.FUNC:
			f.Functions = append(f.Functions, p.parseFuncDecl(""))
		case token.STYLE:
			f.Styles = append(f.Styles, p.parseStyleBlock())
		case token.AT:
			f.CodeBlocks = append(f.CodeBlocks, p.parseCodeBlock())
		case token.COMPONENT:
			f.ComponentDefs = append(f.ComponentDefs, p.parseComponentDef())
		case token.RETURN:
			f.ModuleReturn = p.parseModuleReturn()
		case token.IDENT:
			inst := p.parseComponentInst()
			if f.Root == nil {
				f.Root = inst
			}
		default:
			t := p.Peek()
			p.errs.Add(diag.Error, diag.Syntax, t.Pos, "unexpected token %s at top level", t.Kind.String())
			p.Next()
			p.synchronize()
		}
	}
	return f
}

func (p *Parser) parseImport() *ast.Import {
	start := p.Next() // 'import'
	name, _ := p.expect(token.IDENT, "module alias")
	var parts []string
	if _, ok := p.expect(token.FROM, "'from'"); ok {
		if first, ok := p.expect(token.IDENT, "module path"); ok {
			parts = append(parts, first.Literal)
		}
		for p.at(token.DOT) {
			p.Next()
			if seg, ok := p.expect(token.IDENT, "module path segment"); ok {
				parts = append(parts, seg.Literal)
			}
		}
	}
	p.consumeOptSemi()
	return &ast.Import{Base: at(start.Pos), Name: name.Literal, Path: strings.Join(parts, ".")}
}

// varDeclKeyword maps the leading keyword token to ast.VarDeclKind.
func varDeclKeyword(k token.Kind) ast.VarDeclKind {
	switch k {
	case token.CONST:
		return ast.VarConst
	case token.LET:
		return ast.VarLet
	case token.STATE:
		return ast.VarState
	default:
		return ast.VarVar
	}
}

// parseVarDecl parses `const|let|var|state name [: type] [= expr]`.
func (p *Parser) parseVarDecl() *ast.VarDecl {
	kw := p.Next()
	name, _ := p.expect(token.IDENT, "declaration name")
	decl := &ast.VarDecl{Base: at(kw.Pos), Kind: varDeclKeyword(kw.Kind), Name: name.Literal}
	if p.at(token.COLON) {
		p.Next()
		if tname, ok := p.expect(token.IDENT, "type name"); ok {
			decl.TypeName = tname.Literal
		}
	}
	if p.at(token.ASSIGN) {
		p.Next()
		decl.Value = p.expr.ParseExpr()
	}
	p.consumeOptSemi()
	return decl
}

func (p *Parser) parseStructDecl() *ast.StructDecl {
	start := p.Next() // 'struct'
	name, _ := p.expect(token.IDENT, "struct name")
	decl := &ast.StructDecl{Base: at(start.Pos), Name: name.Literal}
	if _, ok := p.expect(token.LBRACE, "'{'"); !ok {
		p.synchronize()
		return decl
	}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		fname, ok := p.expect(token.IDENT, "field name")
		if !ok {
			p.synchronize()
			continue
		}
		field := &ast.StructField{Base: at(fname.Pos), Name: fname.Literal}
		if _, ok := p.expect(token.COLON, "':'"); ok {
			if tname, ok := p.expect(token.IDENT, "field type"); ok {
				field.TypeName = tname.Literal
			}
		}
		decl.Fields = append(decl.Fields, field)
		p.consumeOptSemi()
		if p.at(token.COMMA) {
			p.Next()
		}
	}
	p.expect(token.RBRACE, "'}'")
	return decl
}

func (p *Parser) parseParams() []*ast.Param {
	var params []*ast.Param
	p.expect(token.LPAREN, "'('")
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		name, ok := p.expect(token.IDENT, "parameter name")
		if !ok {
			p.Next()
			continue
		}
		param := &ast.Param{Base: at(name.Pos), Name: name.Literal}
		if p.at(token.COLON) {
			p.Next()
			if tname, ok := p.expect(token.IDENT, "parameter type"); ok {
				param.TypeName = tname.Literal
			}
		}
		params = append(params, param)
		if p.at(token.COMMA) {
			p.Next()
			continue
		}
		break
	}
	p.expect(token.RPAREN, "')'")
	return params
}

// parseFuncDecl parses `function name(params) -> type { body }`, also
// accepting `: type` for the return annotation. A non-empty owner is
// prefixed onto the name as `<owner>:<name>`; functions declared inside a
// component body are parsed with an empty owner and namespaced later by
// the lowering pass.
func (p *Parser) parseFuncDecl(owner string) *ast.FuncDecl {
	start := p.Next() // 'function'
	name, _ := p.expect(token.IDENT, "function name")
	fd := &ast.FuncDecl{Base: at(start.Pos), Name: qualify(owner, name.Literal)}
	fd.Params = p.parseParams()
	if p.at(token.ARROW) || p.at(token.COLON) {
		p.Next()
		if tname, ok := p.expect(token.IDENT, "return type"); ok {
			fd.ReturnType = tname.Literal
		}
	}
	if _, ok := p.expect(token.LBRACE, "'{'"); ok {
		fd.Body = p.parseStmtList()
		p.expect(token.RBRACE, "'}'")
	} else {
		p.synchronize()
	}
	return fd
}

func qualify(owner, name string) string {
	if owner == "" {
		return name
	}
	return owner + ":" + name
}

func (p *Parser) parseProperty() *ast.Property {
	name := p.Next()
	prop := &ast.Property{Base: at(name.Pos), Name: name.Literal}
	p.expect(token.COLON, "':'")
	prop.Value = p.expr.ParseExpr()
	p.consumeOptSemi()
	return prop
}

func (p *Parser) parseStyleBlock() *ast.StyleBlock {
	start := p.Next() // 'style'
	var sel strings.Builder
	for !p.at(token.LBRACE) && !p.at(token.EOF) {
		sel.WriteString(p.Next().Literal)
	}
	block := &ast.StyleBlock{Base: at(start.Pos), Selector: strings.TrimSpace(sel.String())}
	if _, ok := p.expect(token.LBRACE, "'{'"); !ok {
		p.synchronize()
		return block
	}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		if !p.at(token.IDENT) {
			p.errs.Add(diag.Error, diag.Syntax, p.Peek().Pos, "expected style property name")
			p.synchronize()
			continue
		}
		block.Properties = append(block.Properties, p.parseProperty())
	}
	p.expect(token.RBRACE, "'}'")
	return block
}

// parseCodeBlock parses `@lang { ... }`. The body is not re-lexed as Kryon
// source — it belongs to another language — so it is reconstructed from
// the raw token literals between the matching braces.
func (p *Parser) parseCodeBlock() *ast.CodeBlock {
	start := p.Next() // '@'
	lang, _ := p.expect(token.IDENT, "code block language tag")
	cb := &ast.CodeBlock{Base: at(start.Pos), Lang: lang.Literal}
	if _, ok := p.expect(token.LBRACE, "'{'"); !ok {
		p.synchronize()
		return cb
	}
	var b strings.Builder
	depth := 1
	for depth > 0 {
		t := p.Peek()
		if t.Kind == token.EOF {
			p.errs.Add(diag.Error, diag.Syntax, t.Pos, "unterminated code block")
			break
		}
		if t.Kind == token.LBRACE {
			depth++
		} else if t.Kind == token.RBRACE {
			depth--
			if depth == 0 {
				p.Next()
				break
			}
		}
		b.WriteString(t.Literal)
		b.WriteByte(' ')
		p.Next()
	}
	cb.Source = strings.TrimSpace(b.String())
	return cb
}

func (p *Parser) parseModuleReturn() *ast.ModuleReturn {
	start := p.Next() // 'return'
	mr := &ast.ModuleReturn{Base: at(start.Pos)}
	if _, ok := p.expect(token.LBRACE, "'{'"); !ok {
		p.synchronize()
		return mr
	}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		name, ok := p.expect(token.IDENT, "export name")
		if !ok {
			p.synchronize()
			continue
		}
		sym := &ast.ExportSym{Base: at(name.Pos), Name: name.Literal}
		if p.at(token.COLON) {
			p.Next()
			sym.Value = p.expr.ParseExpr()
		}
		mr.Exports = append(mr.Exports, sym)
		if p.at(token.COMMA) {
			p.Next()
		}
	}
	p.expect(token.RBRACE, "'}'")
	p.consumeOptSemi()
	return mr
}

func (p *Parser) parseComponentDef() *ast.ComponentDef {
	start := p.Next() // 'component'
	name, _ := p.expect(token.IDENT, "component name")
	def := &ast.ComponentDef{Base: at(start.Pos), IsComponentDefinition: true, Name: name.Literal}
	if p.at(token.LPAREN) {
		def.Params = p.parseParams()
	}
	if p.at(token.EXTENDS) {
		p.Next()
		if parent, ok := p.expect(token.IDENT, "parent component name"); ok {
			def.ExtendsParent = parent.Literal
		}
	}
	if _, ok := p.expect(token.LBRACE, "'{'"); ok {
		def.Body = p.parseComponentBody()
		p.expect(token.RBRACE, "'}'")
	} else {
		p.synchronize()
	}
	return def
}

// parseComponentInst parses `Name(args) { body }`, `Name(args);`, or a
// bare `Name { body }`. ArgumentsText preserves the raw text between the
// parens unparsed; the lowering pass parses it once the target
// component's parameter list is known.
func (p *Parser) parseComponentInst() *ast.ComponentInst {
	name := p.Next()
	inst := &ast.ComponentInst{Base: at(name.Pos), Name: name.Literal}
	if p.at(token.LPAREN) {
		inst.ArgumentsText = p.captureParenText()
	}
	if p.at(token.LBRACE) {
		p.Next()
		inst.Body = p.parseComponentBody()
		p.expect(token.RBRACE, "'}'")
	} else {
		p.consumeOptSemi()
	}
	return inst
}

// captureParenText consumes a balanced '(' ... ')' and reconstructs its
// contents as source text for the AST->IR stage to parse.
func (p *Parser) captureParenText() string {
	p.Next() // '('
	var b strings.Builder
	depth := 1
	for depth > 0 {
		t := p.Peek()
		if t.Kind == token.EOF {
			p.errs.Add(diag.Error, diag.Syntax, t.Pos, "unterminated argument list")
			break
		}
		if t.Kind == token.LPAREN {
			depth++
		} else if t.Kind == token.RPAREN {
			depth--
			if depth == 0 {
				p.Next()
				break
			}
		}
		if t.Kind == token.STRING {
			b.WriteByte('"')
			b.WriteString(t.Literal)
			b.WriteByte('"')
		} else {
			b.WriteString(t.Literal)
		}
		if t.Kind == token.COMMA {
			b.WriteByte(' ')
		}
		p.Next()
	}
	return b.String()
}

// parseComponentBody parses the items between a component's '{' and '}':
// state declarations, properties, nested instantiations, static blocks,
// for-loops, for-each, conditional rendering, and code blocks.
func (p *Parser) parseComponentBody() *ast.ComponentBody {
	body := &ast.ComponentBody{Base: at(p.Peek().Pos)}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		switch p.Peek().Kind {
		case token.STATE:
			body.StateDecls = append(body.StateDecls, p.parseVarDecl())
		case token.CONST, token.LET, token.VAR:
			body.Items = append(body.Items, p.parseVarDecl())
		case token.STATIC:
			body.Items = append(body.Items, p.parseStaticBlock())
		case token.FOR:
			body.Items = append(body.Items, p.parseForConstruct())
		case token.IF:
			body.Items = append(body.Items, p.parseCondRender())
		case token.AT:
			body.Items = append(body.Items, p.parseCodeBlock())
		case token.FUNC:
			// Functions declared in a component body stay in the tree as
			// nested nodes; the lowering pass namespaces them under the
			// owning component's name.
			body.Items = append(body.Items, p.parseComponentLocalFunc())
		case token.IDENT:
			if p.peekIsProperty() {
				body.Items = append(body.Items, p.parseProperty())
			} else {
				body.Items = append(body.Items, p.parseComponentInst())
			}
		default:
			t := p.Peek()
			p.errs.Add(diag.Error, diag.Syntax, t.Pos, "unexpected token %s in component body", t.Kind.String())
			p.Next()
			p.synchronize()
		}
	}
	return body
}

// peekIsProperty reports whether the upcoming IDENT begins `name: expr`
// (a property) rather than a nested component instantiation.
func (p *Parser) peekIsProperty() bool {
	p.fill(2)
	return p.buf[1].Kind == token.COLON
}

// parseComponentLocalFunc parses a function declared inside a component
// body and returns the *ast.FuncDecl itself, unwrapped, as an ast.Node for
// ComponentBody.Items (which holds heterogeneous ast.Node values).
func (p *Parser) parseComponentLocalFunc() ast.Node {
	return p.parseFuncDecl("")
}

func (p *Parser) parseStaticBlock() *ast.StaticBlock {
	start := p.Next() // 'static'
	block := &ast.StaticBlock{Base: at(start.Pos)}
	if _, ok := p.expect(token.LBRACE, "'{'"); !ok {
		p.synchronize()
		return block
	}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		switch p.Peek().Kind {
		case token.CONST, token.LET, token.VAR, token.STATE:
			block.Items = append(block.Items, p.parseVarDecl())
		case token.FOR:
			block.Items = append(block.Items, p.parseForConstruct())
		case token.IDENT:
			block.Items = append(block.Items, p.parseComponentInst())
		default:
			t := p.Peek()
			p.errs.Add(diag.Error, diag.Syntax, t.Pos, "unexpected token %s in static block", t.Kind.String())
			p.Next()
			p.synchronize()
		}
	}
	p.expect(token.RBRACE, "'}'")
	return block
}

// parseForConstruct dispatches between the compile-time `for item in X`
// form and the runtime `for each item in X` form.
func (p *Parser) parseForConstruct() ast.Node {
	start := p.Next() // 'for'
	if p.at(token.EACH) {
		p.Next()
		itemName, _ := p.expect(token.IDENT, "loop item name")
		p.expect(token.IN, "'in'")
		iterable := p.expr.ParseExpr()
		tree := &ast.ForEachTree{Base: at(start.Pos), ItemName: itemName.Literal, Iterable: iterable}
		if _, ok := p.expect(token.LBRACE, "'{'"); ok {
			tree.Body = p.parseComponentBody()
			p.expect(token.RBRACE, "'}'")
		} else {
			p.synchronize()
		}
		return tree
	}

	itemName, _ := p.expect(token.IDENT, "loop item name")
	p.expect(token.IN, "'in'")
	loop := &ast.ForLoop{Base: at(start.Pos), ItemName: itemName.Literal}
	first := p.expr.ParseExpr()
	if p.at(token.RANGE) {
		p.Next()
		loop.IsRange = true
		loop.RangeFrom = first
		loop.RangeTo = p.expr.ParseExpr()
	} else {
		loop.Iterable = first
	}
	if _, ok := p.expect(token.LBRACE, "'{'"); ok {
		loop.Body = p.parseComponentBody()
		p.expect(token.RBRACE, "'}'")
	} else {
		p.synchronize()
	}
	return loop
}

func (p *Parser) parseCondRender() *ast.CondRender {
	start := p.Next() // 'if'
	cond := p.expr.ParseExpr()
	cr := &ast.CondRender{Base: at(start.Pos), Cond: cond}
	if _, ok := p.expect(token.LBRACE, "'{'"); ok {
		cr.Then = p.parseComponentBody()
		p.expect(token.RBRACE, "'}'")
	} else {
		p.synchronize()
	}
	if p.at(token.ELSE) {
		p.Next()
		if _, ok := p.expect(token.LBRACE, "'{'"); ok {
			cr.Else = p.parseComponentBody()
			p.expect(token.RBRACE, "'}'")
		} else {
			p.synchronize()
		}
	}
	return cr
}

// ---------------------------------------------------------------------
// Function-body statements
// ---------------------------------------------------------------------

func (p *Parser) parseStmtList() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		s := p.parseStmt()
		if s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.Peek().Kind {
	case token.RETURN:
		start := p.Next()
		var val ast.Expr
		if !p.at(token.SEMI) && !p.at(token.RBRACE) {
			val = p.expr.ParseExpr()
		}
		p.consumeOptSemi()
		return &ast.ReturnStmt{Base: at(start.Pos), Value: val}
	case token.DELETE:
		start := p.Next()
		target := p.expr.ParseExpr()
		p.consumeOptSemi()
		return &ast.DeleteStmt{Base: at(start.Pos), Target: target}
	case token.IF:
		start := p.Next()
		cond := p.expr.ParseExpr()
		p.expect(token.LBRACE, "'{'")
		then := p.parseStmtList()
		p.expect(token.RBRACE, "'}'")
		var els []ast.Stmt
		if p.at(token.ELSE) {
			p.Next()
			p.expect(token.LBRACE, "'{'")
			els = p.parseStmtList()
			p.expect(token.RBRACE, "'}'")
		}
		return &ast.IfStmt{Base: at(start.Pos), Cond: cond, Then: then, Else: els}
	case token.FOR:
		start := p.Next()
		p.expect(token.EACH, "'each'")
		itemName, _ := p.expect(token.IDENT, "loop item name")
		p.expect(token.IN, "'in'")
		iterable := p.expr.ParseExpr()
		p.expect(token.LBRACE, "'{'")
		body := p.parseStmtList()
		p.expect(token.RBRACE, "'}'")
		return &ast.ForEachStmt{Base: at(start.Pos), ItemName: itemName.Literal, Iterable: iterable, Body: body}
	case token.CONST, token.LET, token.VAR:
		decl := p.parseVarDecl()
		return &ast.VarDeclStmt{Base: decl.Base, Decl: decl}
	case token.IDENT:
		p.fill(2)
		if p.buf[1].Kind == token.ASSIGN {
			name := p.Next()
			p.Next() // '='
			val := p.expr.ParseExpr()
			p.consumeOptSemi()
			return &ast.AssignStmt{Base: at(name.Pos), Name: name.Literal, Value: val}
		}
		start := p.Peek()
		x := p.expr.ParseExpr()
		p.consumeOptSemi()
		return &ast.ExprStmt{Base: at(start.Pos), X: x}
	default:
		t := p.Peek()
		p.errs.Add(diag.Error, diag.Syntax, t.Pos, "unexpected token %s in function body", t.Kind.String())
		p.Next()
		p.synchronize()
		return nil
	}
}
