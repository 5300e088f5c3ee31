package parser

import (
	"testing"

	"github.com/otterlang/otterc/internal/ast"
	"github.com/otterlang/otterc/internal/lexer"
)

func parseModule(t *testing.T, src string) *ast.Module {
	t.Helper()
	l := lexer.New("test.ot", src)
	p := New(l, "test.ot", src)
	m := p.ParseModule()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.Errors())
	}
	return m
}

func TestParseLetStatement(t *testing.T) {
	m := parseModule(t, "let x: Int = 5\n")
	if len(m.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(m.Decls))
	}
	ls, ok := m.Decls[0].(*ast.LetStatement)
	if !ok {
		t.Fatalf("expected *ast.LetStatement, got %T", m.Decls[0])
	}
	if ls.Name.Value != "x" || ls.Type.Name != "Int" {
		t.Errorf("unexpected let statement: %+v", ls)
	}
}

func TestParseFunctionDecl(t *testing.T) {
	src := "def add(a: Int, b: Int) -> Int:\n    return a + b\n"
	m := parseModule(t, src)
	fd, ok := m.Decls[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected *ast.FunctionDecl, got %T", m.Decls[0])
	}
	if fd.Name.Value != "add" || len(fd.Parameters) != 2 || fd.ReturnType.Name != "Int" {
		t.Fatalf("unexpected function decl: %s", fd.String())
	}
	if len(fd.Body.Statements) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fd.Body.Statements))
	}
}

func TestParseIfElifElse(t *testing.T) {
	src := "if a:\n    pass\nelif b:\n    pass\nelse:\n    pass\n"
	m := parseModule(t, src)
	is, ok := m.Decls[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected *ast.IfStatement, got %T", m.Decls[0])
	}
	if len(is.Clauses) != 2 || is.Alternative == nil {
		t.Fatalf("unexpected if statement: %s", is.String())
	}
}

func TestParseForRangeLoop(t *testing.T) {
	src := "for i in 0..10:\n    pass\n"
	m := parseModule(t, src)
	fs, ok := m.Decls[0].(*ast.ForStatement)
	if !ok {
		t.Fatalf("expected *ast.ForStatement, got %T", m.Decls[0])
	}
	if _, ok := fs.Iterable.(*ast.RangeExpression); !ok {
		t.Fatalf("expected RangeExpression iterable, got %T", fs.Iterable)
	}
}

func TestParseStructDecl(t *testing.T) {
	src := "struct Point:\n    x: Int\n    y: Int\n"
	m := parseModule(t, src)
	sd, ok := m.Decls[0].(*ast.StructDecl)
	if !ok {
		t.Fatalf("expected *ast.StructDecl, got %T", m.Decls[0])
	}
	if len(sd.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(sd.Fields))
	}
}

func TestParseEnumDeclWithPayload(t *testing.T) {
	src := "enum Shape:\n    Circle(Float)\n    Square(Float)\n"
	m := parseModule(t, src)
	ed, ok := m.Decls[0].(*ast.EnumDecl)
	if !ok {
		t.Fatalf("expected *ast.EnumDecl, got %T", m.Decls[0])
	}
	if len(ed.Variants) != 2 || len(ed.Variants[0].Fields) != 1 {
		t.Fatalf("unexpected enum decl: %s", ed.String())
	}
}

func TestParseMatchMixedArms(t *testing.T) {
	src := "match shape:\n    case Shape.Circle(r) => r * r\n    case Shape.Square(s):\n        return s * s\n"
	m := parseModule(t, src)
	es, ok := m.Decls[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected *ast.ExpressionStatement, got %T", m.Decls[0])
	}
	mx, ok := es.Expression.(*ast.MatchExpression)
	if !ok {
		t.Fatalf("expected *ast.MatchExpression, got %T", es.Expression)
	}
	if len(mx.Arms) != 2 || !mx.Arms[0].Arrow || mx.Arms[1].Arrow {
		t.Fatalf("unexpected match arms: %+v", mx.Arms)
	}
}

func TestParseTryExceptFinally(t *testing.T) {
	src := "try:\n    raise Error\nexcept Error as e:\n    pass\nfinally:\n    pass\n"
	m := parseModule(t, src)
	ts, ok := m.Decls[0].(*ast.TryStatement)
	if !ok {
		t.Fatalf("expected *ast.TryStatement, got %T", m.Decls[0])
	}
	if len(ts.Excepts) != 1 || ts.Excepts[0].Name.Value != "e" || ts.FinallyBody == nil {
		t.Fatalf("unexpected try statement: %s", ts.String())
	}
}

func TestParseUseDeclWithNames(t *testing.T) {
	src := "use collections.list.{map, filter}\n\nlet x = 1\n"
	m := parseModule(t, src)
	if len(m.Uses) != 1 {
		t.Fatalf("expected 1 use decl, got %d", len(m.Uses))
	}
	u := m.Uses[0]
	if len(u.Path) != 2 || u.Path[1] != "list" || len(u.Names) != 2 {
		t.Fatalf("unexpected use decl: %s", u.String())
	}
}

func TestParseAssignCompoundOperator(t *testing.T) {
	m := parseModule(t, "x += 1\n")
	as, ok := m.Decls[0].(*ast.AssignStatement)
	if !ok {
		t.Fatalf("expected *ast.AssignStatement, got %T", m.Decls[0])
	}
	if as.Operator != "+=" {
		t.Errorf("expected operator +=, got %q", as.Operator)
	}
}

func TestParseStructLiteral(t *testing.T) {
	m := parseModule(t, "let p = Point { x: 1, y: 2 }\n")
	ls := m.Decls[0].(*ast.LetStatement)
	sl, ok := ls.Value.(*ast.StructLiteral)
	if !ok {
		t.Fatalf("expected *ast.StructLiteral, got %T", ls.Value)
	}
	if sl.Name != "Point" || len(sl.Fields) != 2 {
		t.Fatalf("unexpected struct literal: %s", sl.String())
	}
}

func TestParseLambdaArrowBody(t *testing.T) {
	m := parseModule(t, "let f = |a, b| a + b\n")
	ls := m.Decls[0].(*ast.LetStatement)
	le, ok := ls.Value.(*ast.LambdaExpression)
	if !ok {
		t.Fatalf("expected *ast.LambdaExpression, got %T", ls.Value)
	}
	if len(le.Parameters) != 2 || le.Expr == nil {
		t.Fatalf("unexpected lambda: %s", le.String())
	}
}

func TestParseSpawnAwait(t *testing.T) {
	m := parseModule(t, "let t = spawn compute(1, 2)\nlet r = await t\n")
	ls := m.Decls[0].(*ast.LetStatement)
	if _, ok := ls.Value.(*ast.SpawnExpression); !ok {
		t.Fatalf("expected *ast.SpawnExpression, got %T", ls.Value)
	}
	ls2 := m.Decls[1].(*ast.LetStatement)
	if _, ok := ls2.Value.(*ast.AwaitExpression); !ok {
		t.Fatalf("expected *ast.AwaitExpression, got %T", ls2.Value)
	}
}

func TestParseFStringExpression(t *testing.T) {
	m := parseModule(t, "let s = f\"hello {name}!\"\n")
	ls := m.Decls[0].(*ast.LetStatement)
	fe, ok := ls.Value.(*ast.FStringExpression)
	if !ok {
		t.Fatalf("expected *ast.FStringExpression, got %T", ls.Value)
	}
	if len(fe.Embeds) != 1 {
		t.Fatalf("expected 1 embed, got %d", len(fe.Embeds))
	}
}

func TestParseGenericFunctionDecl(t *testing.T) {
	src := "def first[T](xs: [T]) -> T:\n    return xs[0]\n"
	m := parseModule(t, src)
	fd := m.Decls[0].(*ast.FunctionDecl)
	if len(fd.TypeParams) != 1 || fd.TypeParams[0].Name != "T" {
		t.Fatalf("unexpected type params: %+v", fd.TypeParams)
	}
}

func TestParseUnionTypeAnnotation(t *testing.T) {
	src := "let x: Int | String = 1\n"
	m := parseModule(t, src)
	ls := m.Decls[0].(*ast.LetStatement)
	ut, ok := ls.Type.Inline.(*ast.UnionType)
	if !ok {
		t.Fatalf("expected union type annotation, got %+v", ls.Type)
	}
	if len(ut.Members) != 2 {
		t.Fatalf("expected 2 union members, got %d", len(ut.Members))
	}
}
