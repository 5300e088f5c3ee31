package ast

import (
	"strings"

	"github.com/otterlang/otterc/internal/token"
)

// TypeExpression is the AST-level representation of a type written out in
// source (an annotation, a field type, a return type): a named type, a
// generic application, an array/dict shape, or a union.
type TypeExpression interface {
	Node
	typeExpressionNode()
}

// TypeAnnotation wraps a parsed type expression together with the token
// that introduced it, the way a variable/parameter/return-type annotation
// appears in source. Expression nodes also use *TypeAnnotation as their
// inferred-type slot once the analyzer has run (Name/Inline both nil then
// getting filled with the resolved shape).
type TypeAnnotation struct {
	Token  token.Token
	Name   string         // simple spelling, e.g. "Int", "String"
	Inline TypeExpression // non-nil for array/dict/union/generic shapes
}

func (ta *TypeAnnotation) String() string {
	if ta == nil {
		return ""
	}
	if ta.Inline != nil {
		return ta.Inline.String()
	}
	return ta.Name
}
func (ta *TypeAnnotation) TokenLiteral() string { return ta.Token.Literal }
func (ta *TypeAnnotation) Pos() token.Position  { return ta.Token.Pos }
func (ta *TypeAnnotation) typeExpressionNode()  {}

// NamedType is a plain type reference: Int, String, MyStruct.
type NamedType struct {
	Token token.Token
	Name  string
}

func (nt *NamedType) typeExpressionNode()  {}
func (nt *NamedType) TokenLiteral() string { return nt.Token.Literal }
func (nt *NamedType) Pos() token.Position  { return nt.Token.Pos }
func (nt *NamedType) String() string       { return nt.Name }

// GenericType is a type applied to type arguments: List[Int], Result[T, E].
type GenericType struct {
	Token token.Token // the base identifier token
	Base  string
	Args  []TypeExpression
}

func (gt *GenericType) typeExpressionNode()  {}
func (gt *GenericType) TokenLiteral() string { return gt.Token.Literal }
func (gt *GenericType) Pos() token.Position  { return gt.Token.Pos }
func (gt *GenericType) String() string {
	parts := make([]string, len(gt.Args))
	for i, a := range gt.Args {
		parts[i] = a.String()
	}
	return gt.Base + "[" + strings.Join(parts, ", ") + "]"
}

// ArrayType is a homogeneous list type: [Int].
type ArrayType struct {
	Token   token.Token // the '[' token
	Element TypeExpression
}

func (at *ArrayType) typeExpressionNode()  {}
func (at *ArrayType) TokenLiteral() string { return at.Token.Literal }
func (at *ArrayType) Pos() token.Position  { return at.Token.Pos }
func (at *ArrayType) String() string       { return "[" + at.Element.String() + "]" }

// DictType is a key-to-value mapping type: {String: Int}.
type DictType struct {
	Token token.Token // the '{' token
	Key   TypeExpression
	Value TypeExpression
}

func (dt *DictType) typeExpressionNode()  {}
func (dt *DictType) TokenLiteral() string { return dt.Token.Literal }
func (dt *DictType) Pos() token.Position  { return dt.Token.Pos }
func (dt *DictType) String() string {
	return "{" + dt.Key.String() + ": " + dt.Value.String() + "}"
}

// UnionType is a set of alternative types joined with '|': Int | String.
type UnionType struct {
	Token token.Token // the first member's token
	Members []TypeExpression
}

func (ut *UnionType) typeExpressionNode()  {}
func (ut *UnionType) TokenLiteral() string { return ut.Token.Literal }
func (ut *UnionType) Pos() token.Position  { return ut.Token.Pos }
func (ut *UnionType) String() string {
	parts := make([]string, len(ut.Members))
	for i, m := range ut.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// FunctionType is a first-class function type: (Int, Int) -> Bool.
type FunctionType struct {
	Token      token.Token // the '(' token
	Params     []TypeExpression
	ReturnType TypeExpression // nil for a function returning nothing
}

func (ft *FunctionType) typeExpressionNode()  {}
func (ft *FunctionType) TokenLiteral() string { return ft.Token.Literal }
func (ft *FunctionType) Pos() token.Position  { return ft.Token.Pos }
func (ft *FunctionType) String() string {
	parts := make([]string, len(ft.Params))
	for i, p := range ft.Params {
		parts[i] = p.String()
	}
	s := "(" + strings.Join(parts, ", ") + ")"
	if ft.ReturnType != nil {
		s += " -> " + ft.ReturnType.String()
	}
	return s
}
