package ast

import (
	"strings"

	"github.com/otterlang/otterc/internal/token"
)

// Parameter is a single function/lambda parameter.
type Parameter struct {
	Token   token.Token
	Name    *Identifier
	Type    *TypeAnnotation
	Default Expression // non-nil when the parameter has a default value
}

func (p *Parameter) String() string {
	s := p.Name.String()
	if p.Type != nil {
		s += ": " + p.Type.String()
	}
	if p.Default != nil {
		s += " = " + p.Default.String()
	}
	return s
}

// TypeParameter is a generic type parameter on a def/struct/enum, e.g.
// the `T` in `def first[T](xs: [T]) -> T:`.
type TypeParameter struct {
	Name string
}

// FunctionDecl declares a named function: def name[T](params) -> Ret: body.
type FunctionDecl struct {
	Token      token.Token // the 'def' token
	Name       *Identifier
	TypeParams []TypeParameter
	Parameters []*Parameter
	ReturnType *TypeAnnotation // nil for a function returning nothing
	Body       *BlockStatement
	Public     bool
}

func (fd *FunctionDecl) statementNode()       {}
func (fd *FunctionDecl) TokenLiteral() string { return fd.Token.Literal }
func (fd *FunctionDecl) Pos() token.Position  { return fd.Token.Pos }
func (fd *FunctionDecl) String() string {
	var b strings.Builder
	if fd.Public {
		b.WriteString("pub ")
	}
	b.WriteString("def ")
	b.WriteString(fd.Name.String())
	if len(fd.TypeParams) > 0 {
		names := make([]string, len(fd.TypeParams))
		for i, tp := range fd.TypeParams {
			names[i] = tp.Name
		}
		b.WriteString("[" + strings.Join(names, ", ") + "]")
	}
	params := make([]string, len(fd.Parameters))
	for i, p := range fd.Parameters {
		params[i] = p.String()
	}
	b.WriteString("(" + strings.Join(params, ", ") + ")")
	if fd.ReturnType != nil {
		b.WriteString(" -> " + fd.ReturnType.String())
	}
	b.WriteString(":\n")
	b.WriteString(fd.Body.String())
	return b.String()
}

// StructField is a single field declared inside a StructDecl.
type StructField struct {
	Name *Identifier
	Type *TypeAnnotation
}

// StructDecl declares a product type: struct Point: x: Int; y: Int.
type StructDecl struct {
	Token      token.Token // the 'struct' token
	Name       *Identifier
	TypeParams []TypeParameter
	Fields     []StructField
	Methods    []*FunctionDecl
	Public     bool
}

func (sd *StructDecl) statementNode()       {}
func (sd *StructDecl) TokenLiteral() string { return sd.Token.Literal }
func (sd *StructDecl) Pos() token.Position  { return sd.Token.Pos }
func (sd *StructDecl) String() string {
	var b strings.Builder
	if sd.Public {
		b.WriteString("pub ")
	}
	b.WriteString("struct ")
	b.WriteString(sd.Name.String())
	b.WriteString(":\n")
	for _, f := range sd.Fields {
		b.WriteString("    " + f.Name.String() + ": " + f.Type.String() + "\n")
	}
	for _, m := range sd.Methods {
		b.WriteString("    " + strings.ReplaceAll(m.String(), "\n", "\n    ") + "\n")
	}
	return b.String()
}

// EnumVariant is a single variant of an EnumDecl, optionally carrying a
// tuple of payload field types (spec §3.3's tagged-union shape).
type EnumVariant struct {
	Name   string
	Fields []*TypeAnnotation // empty for a unit variant
}

// EnumDecl declares a sum type: enum Shape: Circle(Float); Square(Float).
type EnumDecl struct {
	Token      token.Token // the 'enum' token
	Name       *Identifier
	TypeParams []TypeParameter
	Variants   []EnumVariant
	Public     bool
}

func (ed *EnumDecl) statementNode()       {}
func (ed *EnumDecl) TokenLiteral() string { return ed.Token.Literal }
func (ed *EnumDecl) Pos() token.Position  { return ed.Token.Pos }
func (ed *EnumDecl) String() string {
	var b strings.Builder
	if ed.Public {
		b.WriteString("pub ")
	}
	b.WriteString("enum ")
	b.WriteString(ed.Name.String())
	b.WriteString(":\n")
	for _, v := range ed.Variants {
		b.WriteString("    " + v.Name)
		if len(v.Fields) > 0 {
			parts := make([]string, len(v.Fields))
			for i, f := range v.Fields {
				parts[i] = f.String()
			}
			b.WriteString("(" + strings.Join(parts, ", ") + ")")
		}
		b.WriteString("\n")
	}
	return b.String()
}
