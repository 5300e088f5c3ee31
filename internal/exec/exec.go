// Package exec is the reference tree-walking evaluator over
// internal/coreir: it runs a compiled Module directly, the way
// internal/irgen instead translates one into textual IR for a linked
// native build. Both backends target the same internal/runtimeabi
// surface (spec 6.3's fixed ABI plus its emitter-adjacent helpers), so
// a program's observable behavior — what it prints, what it raises,
// how tasks interleave — is meant to agree between them.
//
// Grounded on the teacher's internal/interp.Interpreter: a single
// dispatch-on-node-type Eval loop over a parent-chained Environment
// (internal/interp/interpreter.go, environment.go). Two shapes differ
// deliberately rather than by oversight:
//
//   - Control flow (break/continue/return) is threaded as an ordinary
//     Go return value (signal, in control.go) instead of the teacher's
//     mutable i.ctx.ControlFlow() flags checked after each statement
//     (statements_control.go) — the same "check after every statement,
//     propagate upward" shape, expressed without shared mutable
//     interpreter state.
//   - Raising an exception that crosses a function-call boundary uses
//     an ordinary Go panic/recover (raisedSignal, in stmt.go), rather
//     than a check inserted after every single call site the way
//     internal/irgen's emitPostCallCheck has to for its static,
//     unwinding-unaware output. A tree-walker already has a call
//     stack; panic/recover is just Go's own non-local exit riding on
//     top of it, recovered precisely at each try region's boundary
//     (execErrorContext) and at Run's own top level.
package exec

import (
	"fmt"

	"github.com/otterlang/otterc/internal/coreir"
	"github.com/otterlang/otterc/internal/runtimeabi"
)

// Machine holds everything one execution of a linked coreir.Module
// needs: its function table (by mangled name, matching coreir.Call's
// Callee convention) and the struct layout ids RegisterStructLayout
// expects, plus the Runtime every ABI/intrinsic call goes through.
type Machine struct {
	rt        *runtimeabi.Runtime
	funcs     map[string]*coreir.Func
	structIDs map[string]int
}

// New builds a Machine for mod, registering every struct's field
// layout with rt under the same id convention internal/irgen's
// moduleEmitter uses (a struct's position in mod.Structs).
func New(mod *coreir.Module, rt *runtimeabi.Runtime) *Machine {
	m := &Machine{
		rt:        rt,
		funcs:     make(map[string]*coreir.Func, len(mod.Funcs)),
		structIDs: make(map[string]int, len(mod.Structs)),
	}
	for _, fn := range mod.Funcs {
		m.funcs[fn.Name] = fn
	}
	for id, st := range mod.Structs {
		names := make([]string, len(st.Fields))
		for i, f := range st.Fields {
			names[i] = f.Name
		}
		rt.RegisterStructLayout(id, names)
		m.structIDs[st.TypeName] = id
	}
	return m
}

// Run invokes the function named entry (ordinarily "main") with args
// and returns its result. A program that raises with no try region
// left to catch it panics, inside runtimeabi, with *runtimeabi.
// UncaughtError; Run is this package's one recovery point for that,
// converting it into an ordinary error so a caller (internal/driver)
// decides its own exit-code policy (spec 6.1) instead of this package
// calling os.Exit itself.
func (m *Machine) Run(entry string, args []any) (result any, err error) {
	fn, ok := m.funcs[entry]
	if !ok {
		return nil, fmt.Errorf("exec: no such function %q", entry)
	}
	defer func() {
		if r := recover(); r != nil {
			if ue, ok := r.(*runtimeabi.UncaughtError); ok {
				err = ue
				return
			}
			panic(r)
		}
	}()
	return m.callFunc(fn, args), nil
}

// callFunc runs fn's body in a fresh root scope seeded with args bound
// to its parameters, returning its Return value or nil for a Void
// function (or one that falls off the end of its body, which the
// analyzer's own control-flow checking rules out for a non-Void
// return type before execution ever reaches here).
func (m *Machine) callFunc(fn *coreir.Func, args []any) any {
	env := NewEnv()
	for i, p := range fn.Params {
		var a any
		if i < len(args) {
			a = args[i]
		}
		env.Define(p.Name, a)
	}
	sig := m.execBlock(env, fn.Body)
	if sig.kind == sigReturn {
		return sig.value
	}
	return nil
}

// closureValue is this package's own representation of a lambda value
// — the hoisted body plus the enclosing locals it closed over, keyed
// by name so the body's Ident lookups resolve exactly as they did at
// the capture site. internal/runtimeabi.ClosureValue instead pairs a
// function pointer with a positional capture list, which is enough
// for internal/irgen's LLVM-level calling convention but loses the
// name association a tree-walker needs to rebind captured identifiers
// inside the body; see DESIGN.md for why this package keeps its own
// type rather than forcing values through that one.
type closureValue struct {
	params  []coreir.Param
	body    []coreir.Stmt
	capture map[string]any
}

func (m *Machine) callClosure(cl *closureValue, args []any) any {
	env := NewEnv()
	for name, v := range cl.capture {
		env.Define(name, v)
	}
	for i, p := range cl.params {
		var a any
		if i < len(args) {
			a = args[i]
		}
		env.Define(p.Name, a)
	}
	sig := m.execBlock(env, cl.body)
	if sig.kind == sigReturn {
		return sig.value
	}
	return nil
}

// lambdaBody is lowerBody's lambda-literal counterpart: a
// single-expression lambda (Expr non-nil) becomes a one-statement
// Return, matching internal/irgen/expr.go's own lambdaBody helper.
func lambdaBody(l *coreir.Lambda) []coreir.Stmt {
	if l.Expr != nil {
		return []coreir.Stmt{&coreir.Return{Value: l.Expr}}
	}
	return l.Body
}

// taskBody is lambdaBody's spawn-literal counterpart.
func taskBody(t *coreir.TaskSpawn) []coreir.Stmt {
	if t.Expr != nil {
		return append(append([]coreir.Stmt{}, t.Body...), &coreir.Return{Value: t.Expr})
	}
	return t.Body
}

// runTask executes a spawned task's body under its own forked Runtime
// (a fresh error-frame stack sharing everything else — spec 5's
// thread-local error flag), in the shape runtimeabi.TaskPool.Submit
// and the Serial fallback both expect: never a Go panic escaping, only
// a (result, message, raised) triple. An uncaught raise inside the
// task — no try region left even within its own forked stack — is
// exactly the *runtimeabi.UncaughtError this recovers, converted into
// the task's own raised result rather than aborting the process, so
// the awaiter's own OtterTaskAwait can re-surface it as an ordinary
// raise in the awaiting context instead.
func (m *Machine) runTask(body []coreir.Stmt) (result any, errMsg string, raised bool) {
	defer func() {
		if r := recover(); r != nil {
			if ue, ok := r.(*runtimeabi.UncaughtError); ok {
				errMsg = ue.Message
				raised = true
				return
			}
			panic(r)
		}
	}()
	taskMachine := &Machine{rt: m.rt.Fork(), funcs: m.funcs, structIDs: m.structIDs}
	sig := taskMachine.execBlock(NewEnv(), body)
	if sig.kind == sigReturn {
		result = sig.value
	}
	return
}
