// Package ast defines the Abstract Syntax Tree node types for OtterLang.
package ast

import (
	"bytes"
	"strings"

	"github.com/otterlang/otterc/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	// TokenLiteral returns the literal value of the token this node is associated with.
	TokenLiteral() string

	// String returns a string representation of the node for debugging and testing.
	String() string

	// Pos returns the position of the node in the source code for error reporting.
	Pos() token.Position
}

// Expression represents any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement represents a node that performs an action but doesn't produce a value.
type Statement interface {
	Node
	statementNode()
}

// TypedExpression is implemented by every expression node that carries an
// inferred/annotated type slot, filled in by the analyzer.
type TypedExpression interface {
	Expression
	GetType() *TypeAnnotation
	SetType(typ *TypeAnnotation)
}

// Module is the root node of a single source file's AST: its imports
// followed by its top-level declarations and statements, in source order.
type Module struct {
	Uses  []*UseDecl
	Decls []Statement
}

func (m *Module) TokenLiteral() string {
	if len(m.Uses) > 0 {
		return m.Uses[0].TokenLiteral()
	}
	if len(m.Decls) > 0 {
		return m.Decls[0].TokenLiteral()
	}
	return ""
}

func (m *Module) String() string {
	var out bytes.Buffer
	for _, u := range m.Uses {
		out.WriteString(u.String())
		out.WriteString("\n")
	}
	for _, d := range m.Decls {
		out.WriteString(d.String())
		out.WriteString("\n")
	}
	return out.String()
}

func (m *Module) Pos() token.Position {
	if len(m.Uses) > 0 {
		return m.Uses[0].Pos()
	}
	if len(m.Decls) > 0 {
		return m.Decls[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

// Identifier represents an identifier (variable name, function name, etc).
type Identifier struct {
	Token token.Token
	Value string
	Type  *TypeAnnotation
}

func (i *Identifier) expressionNode()             {}
func (i *Identifier) TokenLiteral() string        { return i.Token.Literal }
func (i *Identifier) String() string              { return i.Value }
func (i *Identifier) Pos() token.Position         { return i.Token.Pos }
func (i *Identifier) GetType() *TypeAnnotation    { return i.Type }
func (i *Identifier) SetType(typ *TypeAnnotation) { i.Type = typ }

// IntegerLiteral represents an integer literal value.
type IntegerLiteral struct {
	Token token.Token
	Value int64
	Type  *TypeAnnotation
}

func (il *IntegerLiteral) expressionNode()             {}
func (il *IntegerLiteral) TokenLiteral() string        { return il.Token.Literal }
func (il *IntegerLiteral) String() string              { return il.Token.Literal }
func (il *IntegerLiteral) Pos() token.Position         { return il.Token.Pos }
func (il *IntegerLiteral) GetType() *TypeAnnotation    { return il.Type }
func (il *IntegerLiteral) SetType(typ *TypeAnnotation) { il.Type = typ }

// FloatLiteral represents a floating-point literal value.
type FloatLiteral struct {
	Token token.Token
	Value float64
	Type  *TypeAnnotation
}

func (fl *FloatLiteral) expressionNode()             {}
func (fl *FloatLiteral) TokenLiteral() string        { return fl.Token.Literal }
func (fl *FloatLiteral) String() string              { return fl.Token.Literal }
func (fl *FloatLiteral) Pos() token.Position         { return fl.Token.Pos }
func (fl *FloatLiteral) GetType() *TypeAnnotation    { return fl.Type }
func (fl *FloatLiteral) SetType(typ *TypeAnnotation) { fl.Type = typ }

// StringLiteral represents a plain (non-interpolated) string literal.
type StringLiteral struct {
	Token token.Token
	Value string
	Type  *TypeAnnotation
}

func (sl *StringLiteral) expressionNode()             {}
func (sl *StringLiteral) TokenLiteral() string        { return sl.Token.Literal }
func (sl *StringLiteral) String() string              { return "\"" + sl.Value + "\"" }
func (sl *StringLiteral) Pos() token.Position         { return sl.Token.Pos }
func (sl *StringLiteral) GetType() *TypeAnnotation    { return sl.Type }
func (sl *StringLiteral) SetType(typ *TypeAnnotation) { sl.Type = typ }

// FStringExpression represents an f-string: alternating literal text
// segments and embedded expressions, desugared by the analyzer into a
// concat(str(...)) chain.
type FStringExpression struct {
	Token   token.Token  // the F_BEGIN token
	Parts   []string     // literal text segments, len(Parts) == len(Embeds)+1
	Embeds  []Expression // embedded expressions, interleaved between Parts
	Type    *TypeAnnotation
}

func (fe *FStringExpression) expressionNode()      {}
func (fe *FStringExpression) TokenLiteral() string { return fe.Token.Literal }
func (fe *FStringExpression) Pos() token.Position  { return fe.Token.Pos }
func (fe *FStringExpression) String() string {
	var out bytes.Buffer
	out.WriteString("f\"")
	for i, p := range fe.Parts {
		out.WriteString(p)
		if i < len(fe.Embeds) {
			out.WriteString("{")
			out.WriteString(fe.Embeds[i].String())
			out.WriteString("}")
		}
	}
	out.WriteString("\"")
	return out.String()
}
func (fe *FStringExpression) GetType() *TypeAnnotation    { return fe.Type }
func (fe *FStringExpression) SetType(typ *TypeAnnotation) { fe.Type = typ }

// BooleanLiteral represents a boolean literal value (true or false).
type BooleanLiteral struct {
	Token token.Token
	Value bool
	Type  *TypeAnnotation
}

func (bl *BooleanLiteral) expressionNode()             {}
func (bl *BooleanLiteral) TokenLiteral() string        { return bl.Token.Literal }
func (bl *BooleanLiteral) String() string              { return bl.Token.Literal }
func (bl *BooleanLiteral) Pos() token.Position         { return bl.Token.Pos }
func (bl *BooleanLiteral) GetType() *TypeAnnotation    { return bl.Type }
func (bl *BooleanLiteral) SetType(typ *TypeAnnotation) { bl.Type = typ }

// NilLiteral represents the absence of a value (`nil`).
type NilLiteral struct {
	Token token.Token
	Type  *TypeAnnotation
}

func (nl *NilLiteral) expressionNode()             {}
func (nl *NilLiteral) TokenLiteral() string        { return nl.Token.Literal }
func (nl *NilLiteral) String() string              { return "nil" }
func (nl *NilLiteral) Pos() token.Position         { return nl.Token.Pos }
func (nl *NilLiteral) GetType() *TypeAnnotation    { return nl.Type }
func (nl *NilLiteral) SetType(typ *TypeAnnotation) { nl.Type = typ }

// ListLiteral represents a list literal: [1, 2, 3].
type ListLiteral struct {
	Token    token.Token // the '[' token
	Elements []Expression
	Type     *TypeAnnotation
}

func (ll *ListLiteral) expressionNode()      {}
func (ll *ListLiteral) TokenLiteral() string { return ll.Token.Literal }
func (ll *ListLiteral) Pos() token.Position  { return ll.Token.Pos }
func (ll *ListLiteral) String() string {
	parts := make([]string, len(ll.Elements))
	for i, e := range ll.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (ll *ListLiteral) GetType() *TypeAnnotation    { return ll.Type }
func (ll *ListLiteral) SetType(typ *TypeAnnotation) { ll.Type = typ }

// DictEntry is a single key: value pair inside a DictLiteral.
type DictEntry struct {
	Key   Expression
	Value Expression
}

// DictLiteral represents a dict literal: {"a": 1, "b": 2}.
type DictLiteral struct {
	Token   token.Token // the '{' token
	Entries []DictEntry
	Type    *TypeAnnotation
}

func (dl *DictLiteral) expressionNode()      {}
func (dl *DictLiteral) TokenLiteral() string { return dl.Token.Literal }
func (dl *DictLiteral) Pos() token.Position  { return dl.Token.Pos }
func (dl *DictLiteral) String() string {
	parts := make([]string, len(dl.Entries))
	for i, e := range dl.Entries {
		parts[i] = e.Key.String() + ": " + e.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (dl *DictLiteral) GetType() *TypeAnnotation    { return dl.Type }
func (dl *DictLiteral) SetType(typ *TypeAnnotation) { dl.Type = typ }

// BinaryExpression represents a binary operation (e.g., a + b, x < y).
type BinaryExpression struct {
	Token    token.Token // the operator token
	Left     Expression
	Operator string
	Right    Expression
	Type     *TypeAnnotation
}

func (be *BinaryExpression) expressionNode()      {}
func (be *BinaryExpression) TokenLiteral() string { return be.Token.Literal }
func (be *BinaryExpression) Pos() token.Position  { return be.Token.Pos }
func (be *BinaryExpression) String() string {
	return "(" + be.Left.String() + " " + be.Operator + " " + be.Right.String() + ")"
}
func (be *BinaryExpression) GetType() *TypeAnnotation    { return be.Type }
func (be *BinaryExpression) SetType(typ *TypeAnnotation) { be.Type = typ }

// UnaryExpression represents a unary operation (e.g., -x, not b).
type UnaryExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
	Type     *TypeAnnotation
}

func (ue *UnaryExpression) expressionNode()      {}
func (ue *UnaryExpression) TokenLiteral() string { return ue.Token.Literal }
func (ue *UnaryExpression) Pos() token.Position  { return ue.Token.Pos }
func (ue *UnaryExpression) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(ue.Operator)
	if len(ue.Operator) > 0 && ((ue.Operator[0] >= 'a' && ue.Operator[0] <= 'z') || (ue.Operator[0] >= 'A' && ue.Operator[0] <= 'Z')) {
		out.WriteString(" ")
	}
	out.WriteString(ue.Right.String())
	out.WriteString(")")
	return out.String()
}
func (ue *UnaryExpression) GetType() *TypeAnnotation    { return ue.Type }
func (ue *UnaryExpression) SetType(typ *TypeAnnotation) { ue.Type = typ }

// GroupedExpression represents an expression wrapped in parentheses.
type GroupedExpression struct {
	Token      token.Token // the '(' token
	Expression Expression
	Type       *TypeAnnotation
}

func (ge *GroupedExpression) expressionNode()             {}
func (ge *GroupedExpression) TokenLiteral() string        { return ge.Token.Literal }
func (ge *GroupedExpression) Pos() token.Position         { return ge.Token.Pos }
func (ge *GroupedExpression) String() string              { return "(" + ge.Expression.String() + ")" }
func (ge *GroupedExpression) GetType() *TypeAnnotation    { return ge.Type }
func (ge *GroupedExpression) SetType(typ *TypeAnnotation) { ge.Type = typ }

// RangeExpression represents a range expression (e.g., 0..10 in a for loop).
type RangeExpression struct {
	Token token.Token // the '..' token
	Start Expression
	End   Expression
	Type  *TypeAnnotation
}

func (re *RangeExpression) expressionNode()      {}
func (re *RangeExpression) TokenLiteral() string { return re.Token.Literal }
func (re *RangeExpression) Pos() token.Position  { return re.Token.Pos }
func (re *RangeExpression) String() string {
	return re.Start.String() + ".." + re.End.String()
}
func (re *RangeExpression) GetType() *TypeAnnotation    { return re.Type }
func (re *RangeExpression) SetType(typ *TypeAnnotation) { re.Type = typ }

// ExpressionStatement represents a statement that consists of a single expression.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) Pos() token.Position  { return es.Token.Pos }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String()
	}
	return ""
}

// BlockStatement represents an indented block of statements.
type BlockStatement struct {
	Token      token.Token // the INDENT token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) Pos() token.Position  { return bs.Token.Pos }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer
	for _, stmt := range bs.Statements {
		out.WriteString("    ")
		out.WriteString(strings.ReplaceAll(stmt.String(), "\n", "\n    "))
		out.WriteString("\n")
	}
	return out.String()
}
