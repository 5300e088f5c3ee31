package ast

import (
	"testing"

	"github.com/otterlang/otterc/internal/token"
)

func tok(tt token.Type, lit string) token.Token {
	return token.New(tt, lit, token.Position{Line: 1, Column: 1})
}

func TestModuleString(t *testing.T) {
	m := &Module{
		Decls: []Statement{
			&LetStatement{
				Token: tok(token.LET, "let"),
				Name:  &Identifier{Token: tok(token.IDENT, "x"), Value: "x"},
				Value: &IntegerLiteral{Token: tok(token.INT, "5"), Value: 5},
			},
		},
	}
	want := "let x = 5\n"
	if got := m.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBinaryExpressionString(t *testing.T) {
	be := &BinaryExpression{
		Token:    tok(token.PLUS, "+"),
		Left:     &IntegerLiteral{Token: tok(token.INT, "1"), Value: 1},
		Operator: "+",
		Right:    &IntegerLiteral{Token: tok(token.INT, "2"), Value: 2},
	}
	if got, want := be.String(), "(1 + 2)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestUnaryExpressionWordOperatorSpacing(t *testing.T) {
	ue := &UnaryExpression{
		Token:    tok(token.NOT, "not"),
		Operator: "not",
		Right:    &BooleanLiteral{Token: tok(token.TRUE, "true"), Value: true},
	}
	if got, want := ue.String(), "(not true)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFStringExpressionString(t *testing.T) {
	fe := &FStringExpression{
		Token: tok(token.F_BEGIN, "hi "),
		Parts: []string{"hi ", "!"},
		Embeds: []Expression{
			&Identifier{Token: tok(token.IDENT, "name"), Value: "name"},
		},
	}
	if got, want := fe.String(), `f"hi {name}!"`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMatchExpressionMixedArms(t *testing.T) {
	mx := &MatchExpression{
		Token:   tok(token.MATCH, "match"),
		Subject: &Identifier{Token: tok(token.IDENT, "x"), Value: "x"},
		Arms: []MatchArm{
			{
				Pattern: &LiteralPattern{Value: &IntegerLiteral{Token: tok(token.INT, "1"), Value: 1}},
				Arrow:   true,
				Expr:    &StringLiteral{Token: tok(token.STRING, "one"), Value: "one"},
			},
			{
				Pattern: &WildcardPattern{Token: tok(token.IDENT, "_")},
				Arrow:   false,
				Body: &BlockStatement{
					Statements: []Statement{&PassStatement{Token: tok(token.PASS, "pass")}},
				},
			},
		},
	}
	out := mx.String()
	if out == "" {
		t.Fatal("expected non-empty String() for a mixed-arm match")
	}
}

func TestStructAndEnumDeclString(t *testing.T) {
	sd := &StructDecl{
		Token: tok(token.STRUCT, "struct"),
		Name:  &Identifier{Token: tok(token.IDENT, "Point"), Value: "Point"},
		Fields: []StructField{
			{Name: &Identifier{Value: "x"}, Type: &TypeAnnotation{Name: "Int"}},
			{Name: &Identifier{Value: "y"}, Type: &TypeAnnotation{Name: "Int"}},
		},
	}
	if got := sd.String(); got == "" {
		t.Fatal("expected non-empty struct decl string")
	}

	ed := &EnumDecl{
		Token: tok(token.ENUM, "enum"),
		Name:  &Identifier{Token: tok(token.IDENT, "Shape"), Value: "Shape"},
		Variants: []EnumVariant{
			{Name: "Circle", Fields: []*TypeAnnotation{{Name: "Float"}}},
			{Name: "Square", Fields: []*TypeAnnotation{{Name: "Float"}}},
		},
	}
	if got := ed.String(); got == "" {
		t.Fatal("expected non-empty enum decl string")
	}
}

func TestUseDeclString(t *testing.T) {
	ud := &UseDecl{
		Token: tok(token.USE, "use"),
		Path:  []string{"collections", "list"},
		Names: []string{"List"},
	}
	if got, want := ud.String(), "use collections.list.{List}"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
