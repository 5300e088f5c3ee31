package semantic

import (
	"testing"

	"github.com/otterlang/otterc/internal/ast"
	"github.com/otterlang/otterc/internal/errorsx"
	"github.com/otterlang/otterc/internal/lexer"
	"github.com/otterlang/otterc/internal/parser"
)

func analyze(t *testing.T, src string) (*ast.Module, *Analyzer, *errorsx.Collector) {
	t.Helper()
	l := lexer.New("test.ot", src)
	p := parser.New(l, "test.ot", src)
	mod := p.ParseModule()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.Errors())
	}
	errs := errorsx.NewCollector(src, "test.ot")
	a := Analyze(mod, errs)
	return mod, a, errs
}

func TestAnalyzeLetInference(t *testing.T) {
	_, _, errs := analyze(t, "let x = 5\nlet y: Int = x + 1\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", errs.Diagnostics())
	}
}

func TestAnalyzeTypeMismatchError(t *testing.T) {
	_, _, errs := analyze(t, "let x: Int = \"s\"\n")
	if !errs.HasErrors() {
		t.Fatal("expected a type mismatch diagnostic")
	}
}

func TestAnalyzeFunctionCall(t *testing.T) {
	mod, a, errs := analyze(t, "def add(a: Int, b: Int) -> Int:\n    return a + b\n\nlet r = add(1, 2)\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", errs.Diagnostics())
	}
	ls := mod.Decls[1].(*ast.LetStatement)
	if got := a.TypeOf(ls.Value); got == nil || got.Name() != "Int" {
		t.Errorf("expected call result type Int, got %v", got)
	}
}

func TestAnalyzeStructLiteralAndMember(t *testing.T) {
	src := "struct Point:\n    x: Int\n    y: Int\n\nlet p = Point { x: 1, y: 2 }\nlet z = p.x\n"
	_, _, errs := analyze(t, src)
	if errs.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", errs.Diagnostics())
	}
}

func TestAnalyzeStructLiteralMissingField(t *testing.T) {
	src := "struct Point:\n    x: Int\n    y: Int\n\nlet p = Point { x: 1 }\n"
	_, _, errs := analyze(t, src)
	if !errs.HasErrors() {
		t.Fatal("expected a missing-field diagnostic")
	}
}

func TestAnalyzeEnumMatchExhaustive(t *testing.T) {
	src := "enum Shape:\n    Circle(Float)\n    Square(Float)\n\n" +
		"def area(s: Shape) -> Float:\n" +
		"    match s:\n" +
		"        case Shape.Circle(r) => r * r\n" +
		"        case Shape.Square(side) => side * side\n"
	_, _, errs := analyze(t, src)
	if errs.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", errs.Diagnostics())
	}
}

func TestAnalyzeMatchNonExhaustive(t *testing.T) {
	src := "enum Shape:\n    Circle(Float)\n    Square(Float)\n\n" +
		"def area(s: Shape) -> Float:\n" +
		"    match s:\n" +
		"        case Shape.Circle(r) => r * r\n"
	_, _, errs := analyze(t, src)
	if !errs.HasErrors() {
		t.Fatal("expected a non-exhaustive match diagnostic")
	}
	found := false
	for _, d := range errs.Diagnostics() {
		if containsSub(d.Message, "non-exhaustive") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected non-exhaustive diagnostic, got %v", errs.Diagnostics())
	}
}

func TestAnalyzeGenericFunctionMonomorphizes(t *testing.T) {
	src := "def first[T](xs: [T]) -> T:\n    return xs[0]\n\nlet r = first([1, 2, 3])\n"
	mod, a, errs := analyze(t, src)
	if errs.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", errs.Diagnostics())
	}
	ls := mod.Decls[1].(*ast.LetStatement)
	if got := a.TypeOf(ls.Value); got == nil || got.Name() != "Int" {
		t.Errorf("expected specialized return type Int, got %v", got)
	}
	if len(a.instantiations) != 1 {
		t.Errorf("expected exactly 1 monomorphization, got %d", len(a.instantiations))
	}
}

func TestAnalyzeBreakOutsideLoop(t *testing.T) {
	_, _, errs := analyze(t, "break\n")
	if !errs.HasErrors() {
		t.Fatal("expected a diagnostic for break outside a loop")
	}
}

func TestAnalyzeReturnInFinally(t *testing.T) {
	src := "def f() -> Int:\n    try:\n        return 1\n    finally:\n        return 2\n"
	_, _, errs := analyze(t, src)
	if !errs.HasErrors() {
		t.Fatal("expected a diagnostic for return inside finally")
	}
}

func containsSub(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
