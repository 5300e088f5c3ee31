package ast

import (
	"strings"

	"github.com/otterlang/otterc/internal/token"
)

// CallExpression represents a function/method call: callee(args...).
type CallExpression struct {
	Token     token.Token // the '(' token
	Callee    Expression
	Arguments []Expression
	Type      *TypeAnnotation
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) Pos() token.Position  { return ce.Token.Pos }
func (ce *CallExpression) String() string {
	args := make([]string, len(ce.Arguments))
	for i, a := range ce.Arguments {
		args[i] = a.String()
	}
	return ce.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}
func (ce *CallExpression) GetType() *TypeAnnotation    { return ce.Type }
func (ce *CallExpression) SetType(typ *TypeAnnotation) { ce.Type = typ }

// MemberExpression represents field/method access: obj.field.
type MemberExpression struct {
	Token  token.Token // the '.' token
	Object Expression
	Member string
	Type   *TypeAnnotation
}

func (me *MemberExpression) expressionNode()      {}
func (me *MemberExpression) TokenLiteral() string { return me.Token.Literal }
func (me *MemberExpression) Pos() token.Position  { return me.Token.Pos }
func (me *MemberExpression) String() string       { return me.Object.String() + "." + me.Member }
func (me *MemberExpression) GetType() *TypeAnnotation    { return me.Type }
func (me *MemberExpression) SetType(typ *TypeAnnotation) { me.Type = typ }

// IndexExpression represents list/dict subscripting: obj[index].
type IndexExpression struct {
	Token  token.Token // the '[' token
	Object Expression
	Index  Expression
	Type   *TypeAnnotation
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IndexExpression) Pos() token.Position  { return ie.Token.Pos }
func (ie *IndexExpression) String() string {
	return ie.Object.String() + "[" + ie.Index.String() + "]"
}
func (ie *IndexExpression) GetType() *TypeAnnotation    { return ie.Type }
func (ie *IndexExpression) SetType(typ *TypeAnnotation) { ie.Type = typ }

// StructFieldInit is a single `name: value` initializer inside a
// StructLiteral.
type StructFieldInit struct {
	Name  string
	Value Expression
}

// StructLiteral represents a struct construction expression:
// Point { x: 1, y: 2 }.
type StructLiteral struct {
	Token  token.Token // the struct-name identifier token
	Name   string
	Fields []StructFieldInit
	Type   *TypeAnnotation
}

func (sl *StructLiteral) expressionNode()      {}
func (sl *StructLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StructLiteral) Pos() token.Position  { return sl.Token.Pos }
func (sl *StructLiteral) String() string {
	parts := make([]string, len(sl.Fields))
	for i, f := range sl.Fields {
		parts[i] = f.Name + ": " + f.Value.String()
	}
	return sl.Name + " { " + strings.Join(parts, ", ") + " }"
}
func (sl *StructLiteral) GetType() *TypeAnnotation    { return sl.Type }
func (sl *StructLiteral) SetType(typ *TypeAnnotation) { sl.Type = typ }

// SpawnExpression schedules a call as a concurrently running task,
// producing a handle the caller may later `await`.
type SpawnExpression struct {
	Token token.Token // the 'spawn' token
	Call  *CallExpression
	Type  *TypeAnnotation
}

func (se *SpawnExpression) expressionNode()      {}
func (se *SpawnExpression) TokenLiteral() string { return se.Token.Literal }
func (se *SpawnExpression) Pos() token.Position  { return se.Token.Pos }
func (se *SpawnExpression) String() string       { return "spawn " + se.Call.String() }
func (se *SpawnExpression) GetType() *TypeAnnotation    { return se.Type }
func (se *SpawnExpression) SetType(typ *TypeAnnotation) { se.Type = typ }

// AwaitExpression blocks the current task until the operand task handle
// completes, producing its result (or propagating its error).
type AwaitExpression struct {
	Token token.Token // the 'await' token
	Task  Expression
	Type  *TypeAnnotation
}

func (ae *AwaitExpression) expressionNode()      {}
func (ae *AwaitExpression) TokenLiteral() string { return ae.Token.Literal }
func (ae *AwaitExpression) Pos() token.Position  { return ae.Token.Pos }
func (ae *AwaitExpression) String() string       { return "await " + ae.Task.String() }
func (ae *AwaitExpression) GetType() *TypeAnnotation    { return ae.Type }
func (ae *AwaitExpression) SetType(typ *TypeAnnotation) { ae.Type = typ }

// LambdaExpression is an anonymous function value: |a, b| a + b.
type LambdaExpression struct {
	Token      token.Token // the '|' token
	Parameters []*Parameter
	ReturnType *TypeAnnotation
	Body       *BlockStatement // nil when Expr is set (arrow-body form)
	Expr       Expression
	Type       *TypeAnnotation
}

func (le *LambdaExpression) expressionNode()      {}
func (le *LambdaExpression) TokenLiteral() string { return le.Token.Literal }
func (le *LambdaExpression) Pos() token.Position  { return le.Token.Pos }
func (le *LambdaExpression) String() string {
	parts := make([]string, len(le.Parameters))
	for i, p := range le.Parameters {
		parts[i] = p.String()
	}
	body := ""
	if le.Expr != nil {
		body = le.Expr.String()
	} else if le.Body != nil {
		body = le.Body.String()
	}
	return "|" + strings.Join(parts, ", ") + "| " + body
}
func (le *LambdaExpression) GetType() *TypeAnnotation    { return le.Type }
func (le *LambdaExpression) SetType(typ *TypeAnnotation) { le.Type = typ }
