package semantic

import (
	"testing"

	"github.com/otterlang/otterc/internal/coreir"
)

func lowerSrc(t *testing.T, src string) *coreir.Module {
	t.Helper()
	mod, a, errs := analyze(t, src)
	if errs.HasErrors() {
		t.Fatalf("unexpected diagnostics for %q: %v", src, errs.Diagnostics())
	}
	return Lower(mod, a)
}

func findFunc(t *testing.T, m *coreir.Module, name string) *coreir.Func {
	t.Helper()
	for _, f := range m.Funcs {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("no lowered function named %q among %d", name, len(m.Funcs))
	return nil
}

func TestLowerFStringDesugarsToConcat(t *testing.T) {
	m := lowerSrc(t, "def greet(name: String) -> String:\n    return f\"hi {name}!\"\n")
	f := findFunc(t, m, "greet")
	ret, ok := f.Body[0].(*coreir.Return)
	if !ok {
		t.Fatalf("expected a Return statement, got %T", f.Body[0])
	}
	bin, ok := ret.Value.(*coreir.Binary)
	if !ok || bin.Op != coreir.OpConcat {
		t.Fatalf("expected a top-level concat, got %#v", ret.Value)
	}
}

func TestLowerCompoundAssignDesugarsToPlainStore(t *testing.T) {
	src := "def f() -> Int:\n    let x = 1\n    x += 2\n    return x\n"
	m := lowerSrc(t, src)
	f := findFunc(t, m, "f")
	assign, ok := f.Body[1].(*coreir.Assign)
	if !ok {
		t.Fatalf("expected an Assign statement, got %T", f.Body[1])
	}
	bin, ok := assign.Value.(*coreir.Binary)
	if !ok || bin.Op != coreir.OpAdd {
		t.Fatalf("expected value to be a + binary, got %#v", assign.Value)
	}
}

func TestLowerForRangeAvoidsMaterializingList(t *testing.T) {
	src := "def sum() -> Int:\n    let total = 0\n    for i in 0..10:\n        total += i\n    return total\n"
	m := lowerSrc(t, src)
	f := findFunc(t, m, "sum")
	if _, ok := f.Body[1].(*coreir.ForRange); !ok {
		t.Fatalf("expected a ForRange, got %T", f.Body[1])
	}
}

func TestLowerIfElifElseChains(t *testing.T) {
	src := "def classify(x: Int) -> Int:\n" +
		"    if x > 0:\n        return 1\n" +
		"    elif x < 0:\n        return -1\n" +
		"    else:\n        return 0\n"
	m := lowerSrc(t, src)
	f := findFunc(t, m, "classify")
	top, ok := f.Body[0].(*coreir.If)
	if !ok {
		t.Fatalf("expected an If, got %T", f.Body[0])
	}
	if len(top.Else) != 1 {
		t.Fatalf("expected the elif to be nested as a single Else statement, got %d", len(top.Else))
	}
	nested, ok := top.Else[0].(*coreir.If)
	if !ok {
		t.Fatalf("expected the nested Else to be an If, got %T", top.Else[0])
	}
	if len(nested.Else) != 1 {
		t.Fatalf("expected the final else block lowered under the nested if, got %d stmts", len(nested.Else))
	}
}

func TestLowerTryBuildsErrorContext(t *testing.T) {
	src := "def f() -> Int:\n" +
		"    try:\n        return 1\n" +
		"    except as e:\n        return 0\n" +
		"    finally:\n        let x = 1\n"
	m := lowerSrc(t, src)
	f := findFunc(t, m, "f")
	ec, ok := f.Body[0].(*coreir.ErrorContext)
	if !ok {
		t.Fatalf("expected an ErrorContext, got %T", f.Body[0])
	}
	if len(ec.Handlers) != 1 || ec.Handlers[0].BindName != "e" {
		t.Fatalf("expected one handler binding %q, got %#v", "e", ec.Handlers)
	}
	if len(ec.Finally) != 1 {
		t.Fatalf("expected a one-statement finally block, got %d", len(ec.Finally))
	}
}

func TestLowerMatchEnumBuildsTagConds(t *testing.T) {
	src := "enum Shape:\n    Circle(Float)\n    Square(Float)\n\n" +
		"def area(s: Shape) -> Float:\n" +
		"    return match s:\n" +
		"        case Shape.Circle(r) => r * r\n" +
		"        case Shape.Square(side) => side * side\n"
	m := lowerSrc(t, src)
	f := findFunc(t, m, "area")
	ret, ok := f.Body[0].(*coreir.Return)
	if !ok {
		t.Fatalf("expected a Return wrapping the match expression, got %T", f.Body[0])
	}
	dt, ok := ret.Value.(*coreir.DecisionTreeExpr)
	if !ok {
		t.Fatalf("expected a DecisionTreeExpr, got %T", ret.Value)
	}
	if len(dt.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(dt.Cases))
	}
	first := dt.Cases[0]
	if len(first.Conds) != 1 || first.Conds[0].Kind != coreir.KindTag || first.Conds[0].Tag != 0 {
		t.Fatalf("expected the Circle arm to test tag 0, got %#v", first.Conds)
	}
	if len(first.Binds) != 1 || first.Binds[0].Name != "r" {
		t.Fatalf("expected a binding for %q, got %#v", "r", first.Binds)
	}
}

func TestLowerGenericFunctionInstantiatesOncePerCallSite(t *testing.T) {
	src := "def first[T](xs: [T]) -> T:\n    return xs[0]\n\nlet r = first([1, 2, 3])\n"
	m := lowerSrc(t, src)
	if len(m.Funcs) != 1 {
		t.Fatalf("expected exactly one lowered function (the Int specialization), got %d", len(m.Funcs))
	}
	f := m.Funcs[0]
	if f.Name != "first#Int" {
		t.Fatalf("expected the specialization to be named %q, got %q", "first#Int", f.Name)
	}
	if f.ReturnType == nil || f.ReturnType.Name() != "Int" {
		t.Fatalf("expected the specialized return type to be Int, got %v", f.ReturnType)
	}
}
