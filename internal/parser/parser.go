// Package parser implements OtterLang's recursive-descent, Pratt-style
// expression parser over the indentation-flattened token stream produced
// by internal/lexer.
package parser

import (
	"strconv"

	"github.com/otterlang/otterc/internal/ast"
	"github.com/otterlang/otterc/internal/errorsx"
	"github.com/otterlang/otterc/internal/lexer"
	"github.com/otterlang/otterc/internal/token"
)

// Operator precedence, lowest to highest.
const (
	_ int = iota
	LOWEST
	OR          // or
	AND         // and
	EQUALITY    // == !=
	COMPARISON  // < > <= >=
	RANGE       // ..
	ADDITIVE    // + -
	MULTIPLICATIVE // * / %
	POWER       // ** (right-associative)
	UNARY       // -x (`not x` parses its operand at AND)
	CALL       // f(x), obj.field, obj[i]
)

var precedences = map[token.Type]int{
	token.OR:         OR,
	token.AND:        AND,
	token.EQ:         EQUALITY,
	token.NOT_EQ:     EQUALITY,
	token.LESS:       COMPARISON,
	token.GREATER:    COMPARISON,
	token.LESS_EQ:    COMPARISON,
	token.GREATER_EQ: COMPARISON,
	token.DOTDOT:     RANGE,
	token.PLUS:       ADDITIVE,
	token.MINUS:      ADDITIVE,
	token.ASTERISK:   MULTIPLICATIVE,
	token.SLASH:      MULTIPLICATIVE,
	token.PERCENT:    MULTIPLICATIVE,
	token.POWER:      POWER,
	token.LPAREN:     CALL,
	token.DOT:        CALL,
	token.LBRACK:     CALL,
	token.LBRACE:     CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser turns a token stream into an *ast.Module, one file at a time.
type Parser struct {
	l    *lexer.Lexer
	file string

	cur  token.Token
	peek token.Token

	errs *errorsx.Collector

	prefixFns map[token.Type]prefixParseFn
	infixFns  map[token.Type]infixParseFn
}

// New constructs a Parser reading from l, attributing diagnostics to
// file/source.
func New(l *lexer.Lexer, file, source string) *Parser {
	p := &Parser{l: l, file: file, errs: errorsx.NewCollector(source, file)}

	p.prefixFns = map[token.Type]prefixParseFn{
		token.IDENT:     p.parseIdentifier,
		token.INT:       p.parseIntegerLiteral,
		token.FLOAT:     p.parseFloatLiteral,
		token.STRING:    p.parseStringLiteral,
		token.F_BEGIN:   p.parseFString,
		token.TRUE:      p.parseBoolLiteral,
		token.FALSE:     p.parseBoolLiteral,
		token.MINUS:     p.parseUnaryExpression,
		token.NOT:       p.parseUnaryExpression,
		token.LPAREN:    p.parseGroupedExpression,
		token.LBRACK:    p.parseListLiteral,
		token.LBRACE:    p.parseDictLiteral,
		token.MATCH:     p.parseMatchExpression,
		token.SPAWN:     p.parseSpawnExpression,
		token.AWAIT:     p.parseAwaitExpression,
		token.PIPE:      p.parseLambdaExpression,
	}

	p.infixFns = map[token.Type]infixParseFn{
		token.PLUS:       p.parseBinaryExpression,
		token.MINUS:      p.parseBinaryExpression,
		token.ASTERISK:   p.parseBinaryExpression,
		token.SLASH:      p.parseBinaryExpression,
		token.PERCENT:    p.parseBinaryExpression,
		token.POWER:      p.parseBinaryExpression,
		token.EQ:         p.parseBinaryExpression,
		token.NOT_EQ:     p.parseBinaryExpression,
		token.LESS:       p.parseBinaryExpression,
		token.GREATER:    p.parseBinaryExpression,
		token.LESS_EQ:    p.parseBinaryExpression,
		token.GREATER_EQ: p.parseBinaryExpression,
		token.AND:        p.parseBinaryExpression,
		token.OR:         p.parseBinaryExpression,
		token.DOTDOT:     p.parseRangeExpression,
		token.LPAREN:     p.parseCallExpression,
		token.DOT:        p.parseMemberExpression,
		token.LBRACK:     p.parseIndexExpression,
		token.LBRACE:     p.parseStructLiteral,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns every diagnostic accumulated while parsing.
func (p *Parser) Errors() []*errorsx.Diagnostic { return p.errs.Diagnostics() }

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.Type) {
	p.errs.Add(p.peek.Pos, "expected next token to be %s, got %s instead", t, p.peek.Type)
}

func (p *Parser) noPrefixParseFnError(t token.Type) {
	p.errs.Add(p.cur.Pos, "no prefix parse function for %s found", t)
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return LOWEST
}

// skipNewlines consumes any run of NEWLINE tokens (blank logical lines
// between statements are not meaningful once layout has been resolved).
func (p *Parser) skipNewlines() {
	for p.curIs(token.NEWLINE) {
		p.nextToken()
	}
}

// ParseModule parses an entire file: leading `use` declarations followed
// by top-level statements, until EOF. Parser errors are recovered by
// skipping to the next NEWLINE at the current nesting level so one bad
// statement doesn't abort the whole file.
func (p *Parser) ParseModule() *ast.Module {
	m := &ast.Module{}
	p.skipNewlines()
	for p.curIs(token.USE) || (p.curIs(token.PUB) && p.peekIs(token.USE)) {
		if u := p.parseUseDecl(); u != nil {
			m.Uses = append(m.Uses, u)
		}
		p.nextToken()
		p.skipNewlines()
	}
	for !p.curIs(token.EOF) {
		if p.curIs(token.NEWLINE) {
			p.nextToken()
			continue
		}
		before := len(p.errs.Diagnostics())
		stmt := p.parseStatement()
		if stmt != nil {
			m.Decls = append(m.Decls, stmt)
		}
		if len(p.errs.Diagnostics()) > before {
			depth := 0
			for !p.curIs(token.EOF) && (depth > 0 || !(p.curIs(token.NEWLINE) || p.curIs(token.DEDENT))) {
				if p.curIs(token.INDENT) {
					depth++
				} else if p.curIs(token.DEDENT) {
					depth--
				}
				p.nextToken()
			}
		}
		p.nextToken()
		p.skipNewlines()
	}
	return m
}

// parseBlock parses an INDENT ... DEDENT delimited block, assuming the
// current token is the ':' that ends a header, with the NEWLINE and
// INDENT still ahead of it.
func (p *Parser) parseBlock() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.cur}
	if !p.expectPeek(token.NEWLINE) {
		return block
	}
	if !p.expectPeek(token.INDENT) {
		return block
	}
	block.Token = p.cur
	p.nextToken()
	for !p.curIs(token.DEDENT) && !p.curIs(token.EOF) {
		if p.curIs(token.NEWLINE) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
		for p.curIs(token.NEWLINE) {
			p.nextToken()
		}
	}
	return block
}

// ParseExpression parses a standalone expression at the given minimum
// precedence, used both for statement-level expressions and for
// embedded f-string sub-expressions.
func (p *Parser) ParseExpression(precedence int) ast.Expression {
	prefix, ok := p.prefixFns[p.cur.Type]
	if !ok {
		p.noPrefixParseFnError(p.cur.Type)
		return nil
	}
	left := prefix()

	for !p.peekIs(token.NEWLINE) && precedence < p.peekPrecedence() {
		infix, ok := p.infixFns[p.peek.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.cur, Value: p.cur.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	v, err := strconv.ParseInt(p.cur.Literal, 10, 64)
	if err != nil {
		p.errs.Add(p.cur.Pos, "could not parse %q as integer", p.cur.Literal)
		return nil
	}
	return &ast.IntegerLiteral{Token: p.cur, Value: v}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	v, err := strconv.ParseFloat(p.cur.Literal, 64)
	if err != nil {
		p.errs.Add(p.cur.Pos, "could not parse %q as float", p.cur.Literal)
		return nil
	}
	return &ast.FloatLiteral{Token: p.cur, Value: v}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.cur, Value: p.cur.Literal}
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.cur, Value: p.curIs(token.TRUE)}
}

// parseFString consumes the F_BEGIN ... F_END sequence the lexer
// produced, recursively parsing each embedded expression.
func (p *Parser) parseFString() ast.Expression {
	fe := &ast.FStringExpression{Token: p.cur}
	fe.Parts = append(fe.Parts, p.cur.Literal)
	for {
		if !p.peekIs(token.F_EMBED_B) {
			break
		}
		p.nextToken() // consume F_EMBED_B
		p.nextToken() // move onto the embedded expression's first token
		expr := p.ParseExpression(LOWEST)
		fe.Embeds = append(fe.Embeds, expr)
		if !p.expectPeek(token.F_EMBED_E) {
			return fe
		}
		if !p.expectPeek(token.F_PART) && !p.peekIs(token.F_END) {
			break
		}
		if p.curIs(token.F_PART) {
			fe.Parts = append(fe.Parts, p.cur.Literal)
		}
	}
	if p.peekIs(token.F_END) {
		p.nextToken()
	}
	return fe
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	ue := &ast.UnaryExpression{Token: p.cur, Operator: p.cur.Literal}
	prec := UNARY
	if p.curIs(token.NOT) {
		prec = AND
	}
	p.nextToken()
	ue.Right = p.ParseExpression(prec)
	return ue
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	tok := p.cur
	p.nextToken()
	inner := p.ParseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return &ast.GroupedExpression{Token: tok, Expression: inner}
}

func (p *Parser) parseListLiteral() ast.Expression {
	ll := &ast.ListLiteral{Token: p.cur}
	ll.Elements = p.parseExpressionList(token.RBRACK)
	return ll
}

func (p *Parser) parseDictLiteral() ast.Expression {
	dl := &ast.DictLiteral{Token: p.cur}
	if p.peekIs(token.RBRACE) {
		p.nextToken()
		return dl
	}
	p.nextToken()
	for {
		key := p.ParseExpression(LOWEST)
		if !p.expectPeek(token.COLON) {
			return dl
		}
		p.nextToken()
		val := p.ParseExpression(LOWEST)
		dl.Entries = append(dl.Entries, ast.DictEntry{Key: key, Value: val})
		if !p.peekIs(token.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	if !p.expectPeek(token.RBRACE) {
		return dl
	}
	return dl
}

func (p *Parser) parseExpressionList(end token.Type) []ast.Expression {
	var list []ast.Expression
	if p.peekIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.ParseExpression(LOWEST))
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.ParseExpression(LOWEST))
	}
	if !p.expectPeek(end) {
		return list
	}
	return list
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	be := &ast.BinaryExpression{Token: p.cur, Left: left, Operator: p.cur.Literal}
	prec := p.curPrecedence()
	if be.Operator == "**" {
		prec--
	}
	p.nextToken()
	be.Right = p.ParseExpression(prec)
	return be
}

func (p *Parser) parseRangeExpression(left ast.Expression) ast.Expression {
	re := &ast.RangeExpression{Token: p.cur, Start: left}
	p.nextToken()
	re.End = p.ParseExpression(RANGE)
	return re
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	ce := &ast.CallExpression{Token: p.cur, Callee: callee}
	ce.Arguments = p.parseExpressionList(token.RPAREN)
	return ce
}

func (p *Parser) parseMemberExpression(obj ast.Expression) ast.Expression {
	me := &ast.MemberExpression{Token: p.cur, Object: obj}
	if !p.expectPeek(token.IDENT) {
		return me
	}
	me.Member = p.cur.Literal
	return me
}

func (p *Parser) parseIndexExpression(obj ast.Expression) ast.Expression {
	ie := &ast.IndexExpression{Token: p.cur, Object: obj}
	p.nextToken()
	ie.Index = p.ParseExpression(LOWEST)
	if !p.expectPeek(token.RBRACK) {
		return ie
	}
	return ie
}

func (p *Parser) parseSpawnExpression() ast.Expression {
	tok := p.cur
	p.nextToken()
	callee := p.ParseExpression(UNARY)
	call, ok := callee.(*ast.CallExpression)
	if !ok {
		p.errs.Add(tok.Pos, "spawn requires a function call expression")
		return nil
	}
	return &ast.SpawnExpression{Token: tok, Call: call}
}

func (p *Parser) parseAwaitExpression() ast.Expression {
	tok := p.cur
	p.nextToken()
	return &ast.AwaitExpression{Token: tok, Task: p.ParseExpression(UNARY)}
}

func (p *Parser) parseLambdaExpression() ast.Expression {
	tok := p.cur
	var params []*ast.Parameter
	if !p.peekIs(token.PIPE) {
		p.nextToken()
		for {
			param := &ast.Parameter{Token: p.cur, Name: &ast.Identifier{Token: p.cur, Value: p.cur.Literal}}
			if p.peekIs(token.COLON) {
				p.nextToken()
				p.nextToken()
				param.Type = p.parseTypeAnnotation()
			}
			params = append(params, param)
			if !p.peekIs(token.COMMA) {
				break
			}
			p.nextToken()
			p.nextToken()
		}
	}
	if !p.expectPeek(token.PIPE) {
		return nil
	}
	p.nextToken()
	le := &ast.LambdaExpression{Token: tok, Parameters: params}
	le.Expr = p.ParseExpression(LOWEST)
	return le
}

// parseTypeAnnotation parses a type expression in annotation position
// (after a ':' or '->'), assuming p.cur is the type's first token.
func (p *Parser) parseTypeAnnotation() *ast.TypeAnnotation {
	tok := p.cur
	inline := p.parseTypeExpression()
	if named, ok := inline.(*ast.NamedType); ok {
		return &ast.TypeAnnotation{Token: tok, Name: named.Name}
	}
	return &ast.TypeAnnotation{Token: tok, Inline: inline}
}

func (p *Parser) parseTypeExpression() ast.TypeExpression {
	first := p.parseTypeExpressionPrimary()
	if !p.peekIs(token.PIPE) {
		return first
	}
	firstTok := p.cur
	members := []ast.TypeExpression{first}
	for p.peekIs(token.PIPE) {
		p.nextToken()
		p.nextToken()
		members = append(members, p.parseTypeExpressionPrimary())
	}
	return &ast.UnionType{Token: firstTok, Members: members}
}

func (p *Parser) parseTypeExpressionPrimary() ast.TypeExpression {
	switch p.cur.Type {
	case token.LBRACK:
		tok := p.cur
		p.nextToken()
		elem := p.parseTypeExpression()
		if !p.expectPeek(token.RBRACK) {
			return &ast.ArrayType{Token: tok, Element: elem}
		}
		return &ast.ArrayType{Token: tok, Element: elem}
	case token.LBRACE:
		tok := p.cur
		p.nextToken()
		key := p.parseTypeExpression()
		if !p.expectPeek(token.COLON) {
			return &ast.DictType{Token: tok, Key: key}
		}
		p.nextToken()
		val := p.parseTypeExpression()
		if !p.expectPeek(token.RBRACE) {
			return &ast.DictType{Token: tok, Key: key, Value: val}
		}
		return &ast.DictType{Token: tok, Key: key, Value: val}
	case token.LPAREN:
		tok := p.cur
		var params []ast.TypeExpression
		if !p.peekIs(token.RPAREN) {
			p.nextToken()
			params = append(params, p.parseTypeExpression())
			for p.peekIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				params = append(params, p.parseTypeExpression())
			}
		}
		if !p.expectPeek(token.RPAREN) {
			return &ast.FunctionType{Token: tok, Params: params}
		}
		var ret ast.TypeExpression
		if p.peekIs(token.ARROW) {
			p.nextToken()
			p.nextToken()
			ret = p.parseTypeExpression()
		}
		return &ast.FunctionType{Token: tok, Params: params, ReturnType: ret}
	default:
		tok := p.cur
		name := p.cur.Literal
		if p.peekIs(token.LBRACK) {
			p.nextToken()
			var args []ast.TypeExpression
			p.nextToken()
			args = append(args, p.parseTypeExpression())
			for p.peekIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				args = append(args, p.parseTypeExpression())
			}
			if !p.expectPeek(token.RBRACK) {
				return &ast.GenericType{Token: tok, Base: name, Args: args}
			}
			return &ast.GenericType{Token: tok, Base: name, Args: args}
		}
		return &ast.NamedType{Token: tok, Name: name}
	}
}

// parseStatement dispatches on the current token to the statement or
// declaration parser that owns it, falling back to a bare expression (or
// an assignment, once an '=' family token turns up after it).
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case token.LET:
		return p.parseLetStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.BREAK:
		return &ast.BreakStatement{Token: p.cur}
	case token.CONTINUE:
		return &ast.ContinueStatement{Token: p.cur}
	case token.PASS:
		return &ast.PassStatement{Token: p.cur}
	case token.TRY:
		return p.parseTryStatement()
	case token.RAISE:
		return p.parseRaiseStatement()
	case token.DEF:
		return p.parseFunctionDecl(false)
	case token.STRUCT:
		return p.parseStructDecl(false)
	case token.ENUM:
		return p.parseEnumDecl(false)
	case token.PUB:
		return p.parsePubDecl()
	case token.MATCH:
		expr := p.parseMatchExpression()
		return &ast.ExpressionStatement{Token: p.cur, Expression: expr}
	default:
		return p.parseExpressionOrAssignStatement()
	}
}

func (p *Parser) parsePubDecl() ast.Statement {
	p.nextToken()
	switch p.cur.Type {
	case token.DEF:
		return p.parseFunctionDecl(true)
	case token.STRUCT:
		return p.parseStructDecl(true)
	case token.ENUM:
		return p.parseEnumDecl(true)
	default:
		p.errs.Add(p.cur.Pos, "expected def, struct, or enum after pub, got %s", p.cur.Type)
		return nil
	}
}

func (p *Parser) parseExpressionOrAssignStatement() ast.Statement {
	tok := p.cur
	expr := p.ParseExpression(LOWEST)
	switch p.peek.Type {
	case token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.ASTERISK_ASSIGN, token.SLASH_ASSIGN:
		p.nextToken()
		as := &ast.AssignStatement{Token: p.cur, Target: expr, Operator: p.cur.Literal}
		p.nextToken()
		as.Value = p.ParseExpression(LOWEST)
		return as
	default:
		return &ast.ExpressionStatement{Token: tok, Expression: expr}
	}
}

// parseUseDecl parses `use a.b.c`, `use a.b.{x, y}`, `use a.b as c`, and
// their `pub use` re-exporting forms. Assumes p.cur is PUB or USE.
func (p *Parser) parseUseDecl() *ast.UseDecl {
	ud := &ast.UseDecl{Token: p.cur}
	if p.curIs(token.PUB) {
		ud.Public = true
		p.nextToken()
	}
	ud.Token = p.cur
	if !p.expectPeek(token.IDENT) {
		return ud
	}
	ud.Path = append(ud.Path, p.cur.Literal)
	for p.peekIs(token.DOT) {
		p.nextToken()
		if p.peekIs(token.LBRACE) {
			p.nextToken()
			break
		}
		if !p.expectPeek(token.IDENT) {
			return ud
		}
		ud.Path = append(ud.Path, p.cur.Literal)
	}
	if p.curIs(token.LBRACE) {
		p.nextToken()
		for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			if p.curIs(token.IDENT) {
				ud.Names = append(ud.Names, p.cur.Literal)
			}
			if p.peekIs(token.COMMA) {
				p.nextToken()
			}
			p.nextToken()
		}
	}
	if p.peekIs(token.AS) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return ud
		}
		ud.Alias = p.cur.Literal
	}
	return ud
}

func (p *Parser) parseLetStatement() ast.Statement {
	ls := &ast.LetStatement{Token: p.cur}
	if !p.expectPeek(token.IDENT) {
		return ls
	}
	ls.Name = &ast.Identifier{Token: p.cur, Value: p.cur.Literal}
	if p.peekIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		ls.Type = p.parseTypeAnnotation()
	}
	if !p.expectPeek(token.ASSIGN) {
		return ls
	}
	p.nextToken()
	ls.Value = p.ParseExpression(LOWEST)
	return ls
}

func (p *Parser) parseReturnStatement() ast.Statement {
	rs := &ast.ReturnStatement{Token: p.cur}
	if p.peekIs(token.NEWLINE) || p.peekIs(token.EOF) || p.peekIs(token.DEDENT) {
		return rs
	}
	p.nextToken()
	rs.ReturnValue = p.ParseExpression(LOWEST)
	return rs
}

func (p *Parser) parseRaiseStatement() ast.Statement {
	rs := &ast.RaiseStatement{Token: p.cur}
	if p.peekIs(token.NEWLINE) || p.peekIs(token.EOF) || p.peekIs(token.DEDENT) {
		return rs
	}
	p.nextToken()
	rs.Value = p.ParseExpression(LOWEST)
	return rs
}

func (p *Parser) parseIfStatement() ast.Statement {
	is := &ast.IfStatement{Token: p.cur}
	p.nextToken()
	cond := p.ParseExpression(LOWEST)
	clause := ast.IfClause{Condition: cond}
	if !p.expectPeek(token.COLON) {
		is.Clauses = append(is.Clauses, clause)
		return is
	}
	clause.Body = p.parseBlock()
	is.Clauses = append(is.Clauses, clause)

	for p.peekIs(token.ELIF) {
		p.nextToken()
		p.nextToken()
		econd := p.ParseExpression(LOWEST)
		eclause := ast.IfClause{Condition: econd}
		if !p.expectPeek(token.COLON) {
			is.Clauses = append(is.Clauses, eclause)
			return is
		}
		eclause.Body = p.parseBlock()
		is.Clauses = append(is.Clauses, eclause)
	}

	if p.peekIs(token.ELSE) {
		p.nextToken()
		if !p.expectPeek(token.COLON) {
			return is
		}
		is.Alternative = p.parseBlock()
	}
	return is
}

func (p *Parser) parseForStatement() ast.Statement {
	fs := &ast.ForStatement{Token: p.cur}
	if !p.expectPeek(token.IDENT) {
		return fs
	}
	fs.Name = &ast.Identifier{Token: p.cur, Value: p.cur.Literal}
	if !p.expectPeek(token.IN) {
		return fs
	}
	p.nextToken()
	fs.Iterable = p.ParseExpression(LOWEST)
	if !p.expectPeek(token.COLON) {
		return fs
	}
	fs.Body = p.parseBlock()
	return fs
}

func (p *Parser) parseWhileStatement() ast.Statement {
	ws := &ast.WhileStatement{Token: p.cur}
	p.nextToken()
	ws.Condition = p.ParseExpression(LOWEST)
	if !p.expectPeek(token.COLON) {
		return ws
	}
	ws.Body = p.parseBlock()
	return ws
}

func (p *Parser) parseTryStatement() ast.Statement {
	ts := &ast.TryStatement{Token: p.cur}
	if !p.expectPeek(token.COLON) {
		return ts
	}
	ts.Body = p.parseBlock()

	for p.peekIs(token.EXCEPT) {
		p.nextToken()
		ec := ast.ExceptClause{}
		if !p.peekIs(token.COLON) && !p.peekIs(token.AS) {
			p.nextToken()
			ec.Type = p.parseTypeAnnotation()
		}
		if p.peekIs(token.AS) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				ts.Excepts = append(ts.Excepts, ec)
				return ts
			}
			ec.Name = &ast.Identifier{Token: p.cur, Value: p.cur.Literal}
		}
		if !p.expectPeek(token.COLON) {
			ts.Excepts = append(ts.Excepts, ec)
			return ts
		}
		ec.Body = p.parseBlock()
		ts.Excepts = append(ts.Excepts, ec)
	}

	if p.peekIs(token.FINALLY) {
		p.nextToken()
		if !p.expectPeek(token.COLON) {
			return ts
		}
		ts.FinallyBody = p.parseBlock()
	}
	return ts
}

// parseFunctionDecl parses `def name[T](params) -> Ret: body`, assuming
// p.cur is the 'def' token.
func (p *Parser) parseFunctionDecl(public bool) ast.Statement {
	fd := &ast.FunctionDecl{Token: p.cur, Public: public}
	if !p.expectPeek(token.IDENT) {
		return fd
	}
	fd.Name = &ast.Identifier{Token: p.cur, Value: p.cur.Literal}
	fd.TypeParams = p.parseTypeParamList()
	if !p.expectPeek(token.LPAREN) {
		return fd
	}
	fd.Parameters = p.parseParameterList()
	if p.peekIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		fd.ReturnType = p.parseTypeAnnotation()
	}
	if !p.expectPeek(token.COLON) {
		return fd
	}
	fd.Body = p.parseBlock()
	return fd
}

// parseTypeParamList parses an optional `[T, U]` type-parameter list that
// may follow a def/struct/enum name. Assumes p.cur is still the name
// token; leaves p.cur on the name token if absent, or on ']' if present.
func (p *Parser) parseTypeParamList() []ast.TypeParameter {
	if !p.peekIs(token.LBRACK) {
		return nil
	}
	p.nextToken()
	var params []ast.TypeParameter
	p.nextToken()
	params = append(params, ast.TypeParameter{Name: p.cur.Literal})
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, ast.TypeParameter{Name: p.cur.Literal})
	}
	p.expectPeek(token.RBRACK)
	return params
}

func (p *Parser) parseParameterList() []*ast.Parameter {
	var params []*ast.Parameter
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	params = append(params, p.parseParameter())
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, p.parseParameter())
	}
	p.expectPeek(token.RPAREN)
	return params
}

func (p *Parser) parseParameter() *ast.Parameter {
	param := &ast.Parameter{Token: p.cur, Name: &ast.Identifier{Token: p.cur, Value: p.cur.Literal}}
	if p.peekIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		param.Type = p.parseTypeAnnotation()
	}
	if p.peekIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		param.Default = p.ParseExpression(LOWEST)
	}
	return param
}

// parseStructDecl parses `struct Name[T]:` followed by an indented block
// of fields and methods. Assumes p.cur is the 'struct' token.
func (p *Parser) parseStructDecl(public bool) ast.Statement {
	sd := &ast.StructDecl{Token: p.cur, Public: public}
	if !p.expectPeek(token.IDENT) {
		return sd
	}
	sd.Name = &ast.Identifier{Token: p.cur, Value: p.cur.Literal}
	sd.TypeParams = p.parseTypeParamList()
	if !p.expectPeek(token.COLON) {
		return sd
	}
	if !p.expectPeek(token.NEWLINE) {
		return sd
	}
	if !p.expectPeek(token.INDENT) {
		return sd
	}
	p.nextToken()
	for !p.curIs(token.DEDENT) && !p.curIs(token.EOF) {
		switch {
		case p.curIs(token.NEWLINE):
			p.nextToken()
			continue
		case p.curIs(token.DEF):
			if m, ok := p.parseFunctionDecl(false).(*ast.FunctionDecl); ok {
				sd.Methods = append(sd.Methods, m)
			}
		case p.curIs(token.PASS):
			// empty struct body marker; nothing to record
		case p.curIs(token.IDENT):
			field := ast.StructField{Name: &ast.Identifier{Token: p.cur, Value: p.cur.Literal}}
			if p.expectPeek(token.COLON) {
				p.nextToken()
				field.Type = p.parseTypeAnnotation()
			}
			sd.Fields = append(sd.Fields, field)
		}
		p.nextToken()
		for p.curIs(token.NEWLINE) {
			p.nextToken()
		}
	}
	return sd
}

// parseEnumDecl parses `enum Name[T]:` followed by an indented block of
// variants, each optionally carrying a payload tuple. Assumes p.cur is
// the 'enum' token.
func (p *Parser) parseEnumDecl(public bool) ast.Statement {
	ed := &ast.EnumDecl{Token: p.cur, Public: public}
	if !p.expectPeek(token.IDENT) {
		return ed
	}
	ed.Name = &ast.Identifier{Token: p.cur, Value: p.cur.Literal}
	ed.TypeParams = p.parseTypeParamList()
	if !p.expectPeek(token.COLON) {
		return ed
	}
	if !p.expectPeek(token.NEWLINE) {
		return ed
	}
	if !p.expectPeek(token.INDENT) {
		return ed
	}
	p.nextToken()
	for !p.curIs(token.DEDENT) && !p.curIs(token.EOF) {
		if p.curIs(token.NEWLINE) {
			p.nextToken()
			continue
		}
		if p.curIs(token.IDENT) {
			variant := ast.EnumVariant{Name: p.cur.Literal}
			if p.peekIs(token.LPAREN) {
				p.nextToken()
				p.nextToken()
				variant.Fields = append(variant.Fields, p.parseTypeAnnotation())
				for p.peekIs(token.COMMA) {
					p.nextToken()
					p.nextToken()
					variant.Fields = append(variant.Fields, p.parseTypeAnnotation())
				}
				p.expectPeek(token.RPAREN)
			}
			ed.Variants = append(ed.Variants, variant)
		}
		p.nextToken()
		for p.curIs(token.NEWLINE) {
			p.nextToken()
		}
	}
	return ed
}

// parseMatchExpression parses `match subject:` followed by an indented
// block of `case pattern [if guard]:` or `case pattern => expr` arms, the
// two forms freely mixed. Assumes p.cur is the 'match' token.
func (p *Parser) parseMatchExpression() ast.Expression {
	mx := &ast.MatchExpression{Token: p.cur}
	p.nextToken()
	mx.Subject = p.ParseExpression(LOWEST)
	if !p.expectPeek(token.COLON) {
		return mx
	}
	if !p.expectPeek(token.NEWLINE) {
		return mx
	}
	if !p.expectPeek(token.INDENT) {
		return mx
	}
	p.nextToken()
	for !p.curIs(token.DEDENT) && !p.curIs(token.EOF) {
		if p.curIs(token.NEWLINE) {
			p.nextToken()
			continue
		}
		if !p.curIs(token.CASE) {
			p.errs.Add(p.cur.Pos, "expected case, got %s", p.cur.Type)
			p.nextToken()
			continue
		}
		p.nextToken()
		arm := ast.MatchArm{Pattern: p.parsePattern()}
		if p.peekIs(token.IF) {
			p.nextToken()
			p.nextToken()
			arm.Guard = p.ParseExpression(LOWEST)
		}
		if p.peekIs(token.FAT_ARROW) {
			p.nextToken()
			p.nextToken()
			arm.Arrow = true
			arm.Expr = p.ParseExpression(LOWEST)
		} else if p.expectPeek(token.COLON) {
			arm.Body = p.parseBlock()
		}
		mx.Arms = append(mx.Arms, arm)
		p.nextToken()
		for p.curIs(token.NEWLINE) {
			p.nextToken()
		}
	}
	return mx
}

// parsePattern parses a single match-arm pattern: wildcards, bindings,
// literals, enum-variant destructuring (with or without an explicit enum
// qualifier), struct destructuring, and list patterns with an optional
// `...rest` tail. Assumes p.cur is the pattern's first token.
func (p *Parser) parsePattern() ast.Pattern {
	switch p.cur.Type {
	case token.IDENT:
		tok := p.cur
		name := p.cur.Literal
		if name == "_" {
			return &ast.WildcardPattern{Token: tok}
		}
		if p.peekIs(token.DOT) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				return &ast.IdentifierPattern{Token: tok, Name: name}
			}
			variant := p.cur.Literal
			evp := &ast.EnumVariantPattern{Token: tok, Enum: name, Variant: variant}
			evp.Fields = p.parseVariantPatternFields()
			return evp
		}
		if p.peekIs(token.LPAREN) {
			evp := &ast.EnumVariantPattern{Token: tok, Variant: name}
			evp.Fields = p.parseVariantPatternFields()
			return evp
		}
		if p.peekIs(token.LBRACE) {
			p.nextToken()
			sp := &ast.StructPattern{Token: tok, Name: name}
			p.nextToken()
			for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
				fname := p.cur.Literal
				if !p.expectPeek(token.COLON) {
					break
				}
				p.nextToken()
				fp := p.parsePattern()
				sp.Fields = append(sp.Fields, ast.StructFieldPattern{Name: fname, Pattern: fp})
				if p.peekIs(token.COMMA) {
					p.nextToken()
				}
				p.nextToken()
			}
			return sp
		}
		return &ast.IdentifierPattern{Token: tok, Name: name}
	case token.LBRACK:
		tok := p.cur
		lp := &ast.ListPattern{Token: tok}
		p.nextToken()
		for !p.curIs(token.RBRACK) && !p.curIs(token.EOF) {
			if p.curIs(token.DOTDOT) {
				p.nextToken()
				if p.curIs(token.DOT) {
					p.nextToken()
				}
				if p.curIs(token.IDENT) {
					lp.Rest = &ast.IdentifierPattern{Token: p.cur, Name: p.cur.Literal}
				}
			} else {
				lp.Elements = append(lp.Elements, p.parsePattern())
			}
			if p.peekIs(token.COMMA) {
				p.nextToken()
			}
			p.nextToken()
		}
		return lp
	default:
		tok := p.cur
		val := p.ParseExpression(LOWEST)
		return &ast.LiteralPattern{Token: tok, Value: val}
	}
}

// parseVariantPatternFields parses the optional `(p1, p2, ...)` payload
// sub-patterns following an enum variant name in a pattern position.
// Assumes p.cur is the variant-name token, with peek possibly '('.
func (p *Parser) parseVariantPatternFields() []ast.Pattern {
	if !p.peekIs(token.LPAREN) {
		return nil
	}
	p.nextToken()
	var fields []ast.Pattern
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return fields
	}
	p.nextToken()
	fields = append(fields, p.parsePattern())
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		fields = append(fields, p.parsePattern())
	}
	p.expectPeek(token.RPAREN)
	return fields
}

// parseStructLiteral parses the `{ name: value, ... }` initializer
// following a struct-name expression, used as an infix parse function on
// '{'. left is restricted to an *ast.Identifier naming the struct type.
func (p *Parser) parseStructLiteral(left ast.Expression) ast.Expression {
	ident, ok := left.(*ast.Identifier)
	if !ok {
		p.errs.Add(p.cur.Pos, "struct literal must be preceded by a struct name")
		return left
	}
	sl := &ast.StructLiteral{Token: ident.Token, Name: ident.Value}
	if p.peekIs(token.RBRACE) {
		p.nextToken()
		return sl
	}
	p.nextToken()
	for {
		name := p.cur.Literal
		if !p.expectPeek(token.COLON) {
			return sl
		}
		p.nextToken()
		val := p.ParseExpression(LOWEST)
		sl.Fields = append(sl.Fields, ast.StructFieldInit{Name: name, Value: val})
		if !p.peekIs(token.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	if !p.expectPeek(token.RBRACE) {
		return sl
	}
	return sl
}
