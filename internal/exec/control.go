package exec

import "github.com/otterlang/otterc/internal/coreir"

// signalKind is the control-flow outcome of running a statement or
// block. The teacher threads this as a set of mutable boolean flags on
// the Interpreter (i.ctx.ControlFlow(), checked after every statement
// in evalBlockStatement — internal/interp/statements_control.go); this
// package models the same "check after every statement, propagate
// upward" shape as an ordinary Go return value instead, which is the
// more idiomatic way to thread it through a recursive-descent
// evaluator with no shared mutable interpreter state.
type signalKind int

const (
	sigNone signalKind = iota
	sigBreak
	sigContinue
	sigReturn
)

// signal carries sigReturn's value alongside its kind; the other kinds
// never populate value.
type signal struct {
	kind  signalKind
	value any
}

var none = signal{kind: sigNone}

// execBlock runs body in order, stopping at the first statement that
// raises (rt.errors becomes active) or yields a non-none signal —
// exactly the teacher's evalBlockStatement loop, generalized from its
// exception-pointer check to this evaluator's HasError() query.
func (m *Machine) execBlock(env *Env, body []coreir.Stmt) signal {
	for _, stmt := range body {
		sig := m.execStmt(env, stmt)
		if m.rt.OtterErrorHasError() {
			return none
		}
		if sig.kind != sigNone {
			return sig
		}
	}
	return none
}
