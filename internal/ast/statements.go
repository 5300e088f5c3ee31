package ast

import (
	"strings"

	"github.com/otterlang/otterc/internal/token"
)

// LetStatement binds a new name: let x: Int = 5 or let x = 5.
type LetStatement struct {
	Token token.Token // the 'let' token
	Name  *Identifier
	Type  *TypeAnnotation // the declared type, if written
	Value Expression
}

func (ls *LetStatement) statementNode()       {}
func (ls *LetStatement) TokenLiteral() string { return ls.Token.Literal }
func (ls *LetStatement) Pos() token.Position  { return ls.Token.Pos }
func (ls *LetStatement) String() string {
	s := "let " + ls.Name.String()
	if ls.Type != nil {
		s += ": " + ls.Type.String()
	}
	if ls.Value != nil {
		s += " = " + ls.Value.String()
	}
	return s
}

// AssignStatement rebinds an existing name or mutates a place: x = expr,
// obj.field = expr, list[i] = expr. Target is restricted by the parser to
// Identifier, MemberExpression, or IndexExpression.
type AssignStatement struct {
	Token    token.Token // the '=' token (or compound-assign operator token)
	Target   Expression
	Operator string // "=", "+=", "-=", "*=", "/="
	Value    Expression
}

func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Literal }
func (as *AssignStatement) Pos() token.Position  { return as.Token.Pos }
func (as *AssignStatement) String() string {
	return as.Target.String() + " " + as.Operator + " " + as.Value.String()
}

// ReturnStatement returns from the enclosing function, optionally with a
// value.
type ReturnStatement struct {
	Token       token.Token // the 'return' token
	ReturnValue Expression  // nil for a bare `return`
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) Pos() token.Position  { return rs.Token.Pos }
func (rs *ReturnStatement) String() string {
	if rs.ReturnValue != nil {
		return "return " + rs.ReturnValue.String()
	}
	return "return"
}

// IfClause pairs a condition with the block to run when it holds; used
// for the initial `if` and each subsequent `elif`.
type IfClause struct {
	Condition Expression
	Body      *BlockStatement
}

// IfStatement represents if/elif*/else.
type IfStatement struct {
	Token      token.Token // the 'if' token
	Clauses    []IfClause  // first entry is the `if`, rest are `elif`
	Alternative *BlockStatement // the `else` block, nil if absent
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) Pos() token.Position  { return is.Token.Pos }
func (is *IfStatement) String() string {
	var b strings.Builder
	for i, c := range is.Clauses {
		if i == 0 {
			b.WriteString("if ")
		} else {
			b.WriteString("elif ")
		}
		b.WriteString(c.Condition.String())
		b.WriteString(":\n")
		b.WriteString(c.Body.String())
	}
	if is.Alternative != nil {
		b.WriteString("else:\n")
		b.WriteString(is.Alternative.String())
	}
	return b.String()
}

// ForStatement iterates Iterable, binding each element to Name in turn.
type ForStatement struct {
	Token    token.Token // the 'for' token
	Name     *Identifier
	Iterable Expression
	Body     *BlockStatement
}

func (fs *ForStatement) statementNode()       {}
func (fs *ForStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *ForStatement) Pos() token.Position  { return fs.Token.Pos }
func (fs *ForStatement) String() string {
	return "for " + fs.Name.String() + " in " + fs.Iterable.String() + ":\n" + fs.Body.String()
}

// WhileStatement loops while Condition holds.
type WhileStatement struct {
	Token     token.Token // the 'while' token
	Condition Expression
	Body      *BlockStatement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) Pos() token.Position  { return ws.Token.Pos }
func (ws *WhileStatement) String() string {
	return "while " + ws.Condition.String() + ":\n" + ws.Body.String()
}

// BreakStatement exits the nearest enclosing for/while loop.
type BreakStatement struct{ Token token.Token }

func (bs *BreakStatement) statementNode()       {}
func (bs *BreakStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BreakStatement) Pos() token.Position  { return bs.Token.Pos }
func (bs *BreakStatement) String() string       { return "break" }

// ContinueStatement skips to the next iteration of the nearest enclosing
// for/while loop.
type ContinueStatement struct{ Token token.Token }

func (cs *ContinueStatement) statementNode()       {}
func (cs *ContinueStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *ContinueStatement) Pos() token.Position  { return cs.Token.Pos }
func (cs *ContinueStatement) String() string       { return "continue" }

// PassStatement is a no-op placeholder, used where a block is
// syntactically required but has no body (e.g. an empty struct, an empty
// function stub).
type PassStatement struct{ Token token.Token }

func (ps *PassStatement) statementNode()       {}
func (ps *PassStatement) TokenLiteral() string { return ps.Token.Literal }
func (ps *PassStatement) Pos() token.Position  { return ps.Token.Pos }
func (ps *PassStatement) String() string       { return "pass" }

// ExceptClause catches a raised value matching Type (or any value, if
// Type is nil) and binds it to Name (if given) while running Body.
type ExceptClause struct {
	Type *TypeAnnotation // nil matches any raised value
	Name *Identifier     // nil if the caught value isn't bound
	Body *BlockStatement
}

// TryStatement represents try/except*/finally. Desugared by the analyzer
// into pushes/pops against the runtime's thread-local exception-context
// stack (spec §5's error model).
type TryStatement struct {
	Token       token.Token // the 'try' token
	Body        *BlockStatement
	Excepts     []ExceptClause
	FinallyBody *BlockStatement // nil if no `finally` clause
}

func (ts *TryStatement) statementNode()       {}
func (ts *TryStatement) TokenLiteral() string { return ts.Token.Literal }
func (ts *TryStatement) Pos() token.Position  { return ts.Token.Pos }
func (ts *TryStatement) String() string {
	var b strings.Builder
	b.WriteString("try:\n")
	b.WriteString(ts.Body.String())
	for _, ex := range ts.Excepts {
		b.WriteString("except")
		if ex.Type != nil {
			b.WriteString(" " + ex.Type.String())
		}
		if ex.Name != nil {
			b.WriteString(" as " + ex.Name.String())
		}
		b.WriteString(":\n")
		b.WriteString(ex.Body.String())
	}
	if ts.FinallyBody != nil {
		b.WriteString("finally:\n")
		b.WriteString(ts.FinallyBody.String())
	}
	return b.String()
}

// RaiseStatement raises a value as an error, unwinding to the nearest
// matching except clause (or the task boundary, if none matches).
type RaiseStatement struct {
	Token token.Token // the 'raise' token
	Value Expression  // nil for a bare `raise` (re-raise inside an except)
}

func (rs *RaiseStatement) statementNode()       {}
func (rs *RaiseStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *RaiseStatement) Pos() token.Position  { return rs.Token.Pos }
func (rs *RaiseStatement) String() string {
	if rs.Value != nil {
		return "raise " + rs.Value.String()
	}
	return "raise"
}

// UseDecl imports a module, optionally re-exporting it (`pub use`) and/or
// restricting to a set of names.
type UseDecl struct {
	Token   token.Token // the 'use' token
	Path    []string    // dotted module path, e.g. ["collections", "list"]
	Names   []string    // specific imported names; empty means import the module itself
	Alias   string      // non-empty for `use path as alias`
	Public  bool        // true for `pub use` (re-export)
}

func (ud *UseDecl) statementNode()       {}
func (ud *UseDecl) TokenLiteral() string { return ud.Token.Literal }
func (ud *UseDecl) Pos() token.Position  { return ud.Token.Pos }
func (ud *UseDecl) String() string {
	var b strings.Builder
	if ud.Public {
		b.WriteString("pub ")
	}
	b.WriteString("use ")
	b.WriteString(strings.Join(ud.Path, "."))
	if len(ud.Names) > 0 {
		b.WriteString(".{" + strings.Join(ud.Names, ", ") + "}")
	}
	if ud.Alias != "" {
		b.WriteString(" as " + ud.Alias)
	}
	return b.String()
}
