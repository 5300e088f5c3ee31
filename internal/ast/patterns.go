package ast

import (
	"strings"

	"github.com/otterlang/otterc/internal/token"
)

// Pattern is a node appearing on the left of a match arm. The analyzer's
// exhaustiveness checker walks these to build its decision tree.
type Pattern interface {
	Node
	patternNode()
}

// WildcardPattern matches anything and binds nothing: `_`.
type WildcardPattern struct {
	Token token.Token
}

func (wp *WildcardPattern) patternNode()         {}
func (wp *WildcardPattern) TokenLiteral() string { return wp.Token.Literal }
func (wp *WildcardPattern) Pos() token.Position  { return wp.Token.Pos }
func (wp *WildcardPattern) String() string       { return "_" }

// IdentifierPattern matches anything and binds it to a name.
type IdentifierPattern struct {
	Token token.Token
	Name  string
}

func (ip *IdentifierPattern) patternNode()         {}
func (ip *IdentifierPattern) TokenLiteral() string { return ip.Token.Literal }
func (ip *IdentifierPattern) Pos() token.Position  { return ip.Token.Pos }
func (ip *IdentifierPattern) String() string       { return ip.Name }

// LiteralPattern matches a specific literal value.
type LiteralPattern struct {
	Token token.Token
	Value Expression // an Integer/Float/String/Boolean literal
}

func (lp *LiteralPattern) patternNode()         {}
func (lp *LiteralPattern) TokenLiteral() string { return lp.Token.Literal }
func (lp *LiteralPattern) Pos() token.Position  { return lp.Token.Pos }
func (lp *LiteralPattern) String() string       { return lp.Value.String() }

// EnumVariantPattern matches a specific enum variant, optionally
// destructuring its payload fields.
type EnumVariantPattern struct {
	Token   token.Token // the variant-name token
	Enum    string      // empty when the enum type is inferred from context
	Variant string
	Fields  []Pattern // payload sub-patterns, positional
}

func (evp *EnumVariantPattern) patternNode()         {}
func (evp *EnumVariantPattern) TokenLiteral() string { return evp.Token.Literal }
func (evp *EnumVariantPattern) Pos() token.Position  { return evp.Token.Pos }
func (evp *EnumVariantPattern) String() string {
	name := evp.Variant
	if evp.Enum != "" {
		name = evp.Enum + "." + evp.Variant
	}
	if len(evp.Fields) == 0 {
		return name
	}
	parts := make([]string, len(evp.Fields))
	for i, f := range evp.Fields {
		parts[i] = f.String()
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

// StructFieldPattern destructures a single named field of a struct pattern.
type StructFieldPattern struct {
	Name    string
	Pattern Pattern
}

// StructPattern matches a struct's shape, destructuring named fields.
type StructPattern struct {
	Token  token.Token // the struct-name token
	Name   string
	Fields []StructFieldPattern
}

func (sp *StructPattern) patternNode()         {}
func (sp *StructPattern) TokenLiteral() string { return sp.Token.Literal }
func (sp *StructPattern) Pos() token.Position  { return sp.Token.Pos }
func (sp *StructPattern) String() string {
	parts := make([]string, len(sp.Fields))
	for i, f := range sp.Fields {
		parts[i] = f.Name + ": " + f.Pattern.String()
	}
	return sp.Name + " { " + strings.Join(parts, ", ") + " }"
}

// ListPattern matches a list's shape, optionally capturing the tail.
type ListPattern struct {
	Token    token.Token // the '[' token
	Elements []Pattern
	Rest     *IdentifierPattern // non-nil for [first, ...rest] forms
}

func (lp *ListPattern) patternNode()         {}
func (lp *ListPattern) TokenLiteral() string { return lp.Token.Literal }
func (lp *ListPattern) Pos() token.Position  { return lp.Token.Pos }
func (lp *ListPattern) String() string {
	parts := make([]string, len(lp.Elements))
	for i, e := range lp.Elements {
		parts[i] = e.String()
	}
	if lp.Rest != nil {
		parts = append(parts, "..."+lp.Rest.Name)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MatchArm is one `case pattern [if guard]: body` or `pattern => expr` arm.
// Arrow is true for the expression-arrow form; the two forms may be mixed
// freely within a single MatchExpression.
type MatchArm struct {
	Pattern Pattern
	Guard   Expression // non-nil for `case P if guard:`
	Arrow   bool
	Body    *BlockStatement // set when Arrow is false
	Expr    Expression      // set when Arrow is true
}

// MatchExpression is both an expression (arrow arms yield a value) and
// usable in statement position (block arms perform side effects); the
// analyzer decides which based on how it's used.
type MatchExpression struct {
	Token   token.Token // the 'match' token
	Subject Expression
	Arms    []MatchArm
	Type    *TypeAnnotation
}

func (mx *MatchExpression) expressionNode()      {}
func (mx *MatchExpression) statementNode()       {}
func (mx *MatchExpression) TokenLiteral() string { return mx.Token.Literal }
func (mx *MatchExpression) Pos() token.Position  { return mx.Token.Pos }
func (mx *MatchExpression) String() string {
	var b strings.Builder
	b.WriteString("match ")
	b.WriteString(mx.Subject.String())
	b.WriteString(":\n")
	for _, arm := range mx.Arms {
		b.WriteString("    case ")
		b.WriteString(arm.Pattern.String())
		if arm.Guard != nil {
			b.WriteString(" if ")
			b.WriteString(arm.Guard.String())
		}
		if arm.Arrow {
			b.WriteString(" => ")
			b.WriteString(arm.Expr.String())
		} else {
			b.WriteString(":\n")
			b.WriteString(arm.Body.String())
		}
		b.WriteString("\n")
	}
	return b.String()
}
func (mx *MatchExpression) GetType() *TypeAnnotation    { return mx.Type }
func (mx *MatchExpression) SetType(typ *TypeAnnotation) { mx.Type = typ }
