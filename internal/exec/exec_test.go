package exec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/otterlang/otterc/internal/coreir"
	"github.com/otterlang/otterc/internal/runtimeabi"
	"github.com/otterlang/otterc/internal/types"
)

func newMachine(mod *coreir.Module, stdout *bytes.Buffer) *Machine {
	rt := runtimeabi.New(stdout, stdout, strings.NewReader(""), nil)
	return New(mod, rt)
}

func TestRunArithmeticAndReturn(t *testing.T) {
	// def main() -> Int: return (2 + 3) * 4
	mod := &coreir.Module{
		Name: "main",
		Funcs: []*coreir.Func{{
			Name:       "main",
			ReturnType: types.Int,
			Body: []coreir.Stmt{
				&coreir.Return{Value: &coreir.Binary{
					Op: coreir.OpMul,
					Left: &coreir.Binary{
						Op:   coreir.OpAdd,
						Left: &coreir.IntLit{Value: 2}, Right: &coreir.IntLit{Value: 3},
						Typ: types.Int,
					},
					Right: &coreir.IntLit{Value: 4},
					Typ:   types.Int,
				}},
			},
		}},
	}
	m := newMachine(mod, &bytes.Buffer{})
	result, err := m.Run("main", nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result != int64(20) {
		t.Errorf("result = %v, want 20", result)
	}
}

func TestIfElseBranches(t *testing.T) {
	// def main(x: Int) -> Int:
	//     if x < 0: return 0 - x
	//     return x
	mod := &coreir.Module{
		Funcs: []*coreir.Func{{
			Name:       "main",
			Params:     []coreir.Param{{Name: "x", Type: types.Int}},
			ReturnType: types.Int,
			Body: []coreir.Stmt{
				&coreir.If{
					Condition: &coreir.Binary{Op: coreir.OpLt, Left: &coreir.Ident{Name: "x", Typ: types.Int}, Right: &coreir.IntLit{Value: 0}, Typ: types.Bool},
					Body: []coreir.Stmt{&coreir.Return{Value: &coreir.Binary{
						Op: coreir.OpSub, Left: &coreir.IntLit{Value: 0}, Right: &coreir.Ident{Name: "x", Typ: types.Int}, Typ: types.Int,
					}}},
				},
				&coreir.Return{Value: &coreir.Ident{Name: "x", Typ: types.Int}},
			},
		}},
	}
	m := newMachine(mod, &bytes.Buffer{})
	for in, want := range map[int64]int64{-5: 5, 5: 5, 0: 0} {
		result, err := m.Run("main", []any{in})
		if err != nil {
			t.Fatalf("Run(%d) returned error: %v", in, err)
		}
		if result != want {
			t.Errorf("Run(%d) = %v, want %d", in, result, want)
		}
	}
}

func TestWhileLoopAccumulates(t *testing.T) {
	// def main() -> Int:
	//     let total = 0
	//     let i = 0
	//     while i < 5:
	//         total = total + i
	//         i = i + 1
	//     return total
	mod := &coreir.Module{
		Funcs: []*coreir.Func{{
			Name:       "main",
			ReturnType: types.Int,
			Body: []coreir.Stmt{
				&coreir.Let{Name: "total", Typ: types.Int, Value: &coreir.IntLit{Value: 0}},
				&coreir.Let{Name: "i", Typ: types.Int, Value: &coreir.IntLit{Value: 0}},
				&coreir.While{
					Condition: &coreir.Binary{Op: coreir.OpLt, Left: &coreir.Ident{Name: "i", Typ: types.Int}, Right: &coreir.IntLit{Value: 5}, Typ: types.Bool},
					Body: []coreir.Stmt{
						&coreir.Assign{
							Target: coreir.Place{Kind: coreir.PlaceSlot, Name: "total"},
							Value:  &coreir.Binary{Op: coreir.OpAdd, Left: &coreir.Ident{Name: "total", Typ: types.Int}, Right: &coreir.Ident{Name: "i", Typ: types.Int}, Typ: types.Int},
						},
						&coreir.Assign{
							Target: coreir.Place{Kind: coreir.PlaceSlot, Name: "i"},
							Value:  &coreir.Binary{Op: coreir.OpAdd, Left: &coreir.Ident{Name: "i", Typ: types.Int}, Right: &coreir.IntLit{Value: 1}, Typ: types.Int},
						},
					},
				},
				&coreir.Return{Value: &coreir.Ident{Name: "total", Typ: types.Int}},
			},
		}},
	}
	m := newMachine(mod, &bytes.Buffer{})
	result, err := m.Run("main", nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result != int64(10) {
		t.Errorf("result = %v, want 10", result)
	}
}

func TestCallsUserFunction(t *testing.T) {
	// def double(x: Int) -> Int: return x * 2
	// def main() -> Int: return double(21)
	mod := &coreir.Module{
		Funcs: []*coreir.Func{
			{
				Name:       "double",
				Params:     []coreir.Param{{Name: "x", Type: types.Int}},
				ReturnType: types.Int,
				Body: []coreir.Stmt{&coreir.Return{Value: &coreir.Binary{
					Op: coreir.OpMul, Left: &coreir.Ident{Name: "x", Typ: types.Int}, Right: &coreir.IntLit{Value: 2}, Typ: types.Int,
				}}},
			},
			{
				Name:       "main",
				ReturnType: types.Int,
				Body: []coreir.Stmt{&coreir.Return{Value: &coreir.Call{
					Callee: "double", Args: []coreir.Expr{&coreir.IntLit{Value: 21}}, Typ: types.Int,
				}}},
			},
		},
	}
	m := newMachine(mod, &bytes.Buffer{})
	result, err := m.Run("main", nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result != int64(42) {
		t.Errorf("result = %v, want 42", result)
	}
}

func TestPrintlnIntrinsicWritesStdout(t *testing.T) {
	// def main(): otter_std_io_println("hi")
	mod := &coreir.Module{
		Funcs: []*coreir.Func{{
			Name: "main",
			Body: []coreir.Stmt{&coreir.ExprStmt{Value: &coreir.Call{
				Callee: "otter_std_io_println", Args: []coreir.Expr{&coreir.StringLit{Value: "hi"}},
			}}},
		}},
	}
	var out bytes.Buffer
	m := newMachine(mod, &out)
	if _, err := m.Run("main", nil); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := out.String(); got != "hi\n" {
		t.Errorf("stdout = %q, want %q", got, "hi\n")
	}
}

func TestRaiseCaughtByExcept(t *testing.T) {
	// def main() -> String:
	//     try:
	//         raise "boom"
	//     except e:
	//         return e
	mod := &coreir.Module{
		Funcs: []*coreir.Func{{
			Name:       "main",
			ReturnType: types.String,
			Body: []coreir.Stmt{&coreir.ErrorContext{
				Body: []coreir.Stmt{&coreir.Raise{Message: &coreir.StringLit{Value: "boom"}}},
				Handlers: []coreir.ExceptHandler{{
					BindName: "e",
					Body:     []coreir.Stmt{&coreir.Return{Value: &coreir.Ident{Name: "e", Typ: types.String}}},
				}},
			}},
		}},
	}
	m := newMachine(mod, &bytes.Buffer{})
	result, err := m.Run("main", nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result != "boom" {
		t.Errorf("result = %v, want %q", result, "boom")
	}
}

func TestRaiseRunsFinallyBeforeRethrow(t *testing.T) {
	// def main():
	//     try:
	//         raise "boom"
	//     finally:
	//         otter_std_io_println("cleanup")
	mod := &coreir.Module{
		Funcs: []*coreir.Func{{
			Name: "main",
			Body: []coreir.Stmt{&coreir.ErrorContext{
				Body:    []coreir.Stmt{&coreir.Raise{Message: &coreir.StringLit{Value: "boom"}}},
				Finally: []coreir.Stmt{&coreir.ExprStmt{Value: &coreir.Call{Callee: "otter_std_io_println", Args: []coreir.Expr{&coreir.StringLit{Value: "cleanup"}}}}},
			}},
		}},
	}
	var out bytes.Buffer
	m := newMachine(mod, &out)
	_, err := m.Run("main", nil)
	if err == nil {
		t.Fatalf("Run returned no error, want an uncaught exception")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error = %v, want it to mention %q", err, "boom")
	}
	if out.String() != "cleanup\n" {
		t.Errorf("stdout = %q, want %q", out.String(), "cleanup\n")
	}
}

func TestUncaughtRaisePropagatesAsError(t *testing.T) {
	mod := &coreir.Module{
		Funcs: []*coreir.Func{{
			Name: "main",
			Body: []coreir.Stmt{&coreir.Raise{Message: &coreir.StringLit{Value: "no handler"}}},
		}},
	}
	m := newMachine(mod, &bytes.Buffer{})
	_, err := m.Run("main", nil)
	if err == nil {
		t.Fatal("Run returned no error for an uncaught raise")
	}
	if !strings.Contains(err.Error(), "no handler") {
		t.Errorf("error = %v, want it to mention %q", err, "no handler")
	}
}

func TestMatchDecisionTreeBindsPayload(t *testing.T) {
	// match the single-variant enum Box(value: Int) and return its payload.
	boxType := &types.EnumType{TypeName: "Box", Variants: []types.EnumVariant{
		{Name: "Box", Tag: 0, Fields: []types.Type{types.Int}},
	}}
	subject := &coreir.MakeEnum{EnumName: "Box", VariantName: "Box", Tag: 0, Payload: []coreir.Expr{&coreir.IntLit{Value: 7}}, Typ: boxType}
	mod := &coreir.Module{
		Funcs: []*coreir.Func{{
			Name:       "main",
			ReturnType: types.Int,
			Body: []coreir.Stmt{&coreir.DecisionTree{
				Subject: subject,
				Cases: []coreir.CaseStmt{{
					Conds: []coreir.Cond{{Kind: coreir.KindTag, Tag: 0}},
					Binds: []coreir.Bind{{Name: "v", Typ: types.Int, Path: []coreir.Projection{{Kind: coreir.ProjectEnumField, Index: 0}}}},
					Body:  []coreir.Stmt{&coreir.Return{Value: &coreir.Ident{Name: "v", Typ: types.Int}}},
				}},
			}},
		}},
	}
	m := newMachine(mod, &bytes.Buffer{})
	result, err := m.Run("main", nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result != int64(7) {
		t.Errorf("result = %v, want 7", result)
	}
}

func TestLambdaCapturesEnclosingLocal(t *testing.T) {
	// def main() -> Int:
	//     let n = 10
	//     let f = lambda(x: Int) -> Int: x + n
	//     return f(5)
	lambdaType := &types.FunctionType{Params: []types.Type{types.Int}, ReturnType: types.Int}
	mod := &coreir.Module{
		Funcs: []*coreir.Func{{
			Name:       "main",
			ReturnType: types.Int,
			Body: []coreir.Stmt{
				&coreir.Let{Name: "n", Typ: types.Int, Value: &coreir.IntLit{Value: 10}},
				&coreir.Let{Name: "f", Typ: lambdaType, Value: &coreir.Lambda{
					Captures: []string{"n"},
					Params:   []coreir.Param{{Name: "x", Type: types.Int}},
					Expr:     &coreir.Binary{Op: coreir.OpAdd, Left: &coreir.Ident{Name: "x", Typ: types.Int}, Right: &coreir.Ident{Name: "n", Typ: types.Int}, Typ: types.Int},
					Typ:      lambdaType,
				}},
				&coreir.Return{Value: &coreir.CallValue{
					Callee: &coreir.Ident{Name: "f", Typ: lambdaType},
					Args:   []coreir.Expr{&coreir.IntLit{Value: 5}},
					Typ:    types.Int,
				}},
			},
		}},
	}
	m := newMachine(mod, &bytes.Buffer{})
	result, err := m.Run("main", nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result != int64(15) {
		t.Errorf("result = %v, want 15", result)
	}
}

func TestStructFieldAccessAndAssign(t *testing.T) {
	// struct Point { x: Int, y: Int }
	// def main() -> Int:
	//     let p = Point{x: 1, y: 2}
	//     p.x = 40
	//     return p.x + p.y
	pointType := &types.StructType{TypeName: "Point", Fields: []types.StructField{
		{Name: "x", Type: types.Int}, {Name: "y", Type: types.Int},
	}}
	mod := &coreir.Module{
		Structs: []*types.StructType{pointType},
		Funcs: []*coreir.Func{{
			Name:       "main",
			ReturnType: types.Int,
			Body: []coreir.Stmt{
				&coreir.Let{Name: "p", Typ: pointType, Value: &coreir.StructLit{
					Typ: pointType,
					Fields: []coreir.FieldInit{
						{Name: "x", Index: 0, Value: &coreir.IntLit{Value: 1}},
						{Name: "y", Index: 1, Value: &coreir.IntLit{Value: 2}},
					},
				}},
				&coreir.Assign{
					Target: coreir.Place{Kind: coreir.PlaceField, Object: &coreir.Ident{Name: "p", Typ: pointType}, Field: "x", Index: 0},
					Value:  &coreir.IntLit{Value: 40},
				},
				&coreir.Return{Value: &coreir.Binary{
					Op:    coreir.OpAdd,
					Left:  &coreir.FieldAccess{Object: &coreir.Ident{Name: "p", Typ: pointType}, Field: "x", Index: 0, Typ: types.Int},
					Right: &coreir.FieldAccess{Object: &coreir.Ident{Name: "p", Typ: pointType}, Field: "y", Index: 1, Typ: types.Int},
					Typ:   types.Int,
				}},
			},
		}},
	}
	m := newMachine(mod, &bytes.Buffer{})
	result, err := m.Run("main", nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result != int64(42) {
		t.Errorf("result = %v, want 42", result)
	}
}

func TestTaskSpawnAwaitReturnsResult(t *testing.T) {
	// def main() -> Int:
	//     let t = spawn 6 * 7
	//     return await t
	taskType := &types.TaskType{Result: types.Int}
	mod := &coreir.Module{
		Funcs: []*coreir.Func{{
			Name:       "main",
			ReturnType: types.Int,
			Body: []coreir.Stmt{
				&coreir.Let{Name: "t", Typ: taskType, Value: &coreir.TaskSpawn{
					Expr: &coreir.Binary{Op: coreir.OpMul, Left: &coreir.IntLit{Value: 6}, Right: &coreir.IntLit{Value: 7}, Typ: types.Int},
					Typ:  taskType,
				}},
				&coreir.Return{Value: &coreir.TaskAwait{Task: &coreir.Ident{Name: "t", Typ: taskType}, Typ: types.Int}},
			},
		}},
	}
	m := newMachine(mod, &bytes.Buffer{})
	result, err := m.Run("main", nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result != int64(42) {
		t.Errorf("result = %v, want 42", result)
	}
}
