package exec

import (
	"fmt"

	"github.com/otterlang/otterc/internal/coreir"
	"github.com/otterlang/otterc/internal/runtimeabi"
)

// execStmt runs one statement, returning the signal it (or a nested
// block) produced. Raise's own unwinding is handled entirely by
// panic/recover (see raisedSignal below and execErrorContext), so
// nothing here needs to check the runtime's error flag itself.
func (m *Machine) execStmt(env *Env, stmt coreir.Stmt) signal {
	switch s := stmt.(type) {
	case *coreir.Let:
		env.Define(s.Name, m.evalExpr(env, s.Value))
		return none

	case *coreir.Assign:
		m.execAssign(env, s)
		return none

	case *coreir.Return:
		var v any
		if s.Value != nil {
			v = m.evalExpr(env, s.Value)
		}
		return signal{kind: sigReturn, value: v}

	case *coreir.ExprStmt:
		m.evalExpr(env, s.Value)
		return none

	case *coreir.If:
		cond, _ := m.evalExpr(env, s.Condition).(bool)
		if cond {
			return m.execBlock(NewEnclosedEnv(env), s.Body)
		}
		if s.Else != nil {
			return m.execBlock(NewEnclosedEnv(env), s.Else)
		}
		return none

	case *coreir.While:
		for {
			cond, _ := m.evalExpr(env, s.Condition).(bool)
			if !cond {
				return none
			}
			sig := m.execBlock(NewEnclosedEnv(env), s.Body)
			switch sig.kind {
			case sigBreak:
				return none
			case sigReturn:
				return sig
			}
		}

	case *coreir.ForRange:
		start, _ := m.evalExpr(env, s.Start).(int64)
		end, _ := m.evalExpr(env, s.End).(int64)
		for i := start; i < end; i++ {
			loopEnv := NewEnclosedEnv(env)
			loopEnv.Define(s.Name, i)
			sig := m.execBlock(loopEnv, s.Body)
			switch sig.kind {
			case sigBreak:
				return none
			case sigReturn:
				return sig
			}
		}
		return none

	case *coreir.ForEach:
		arr, _ := m.evalExpr(env, s.Iterable).(*runtimeabi.ArrayValue)
		n := runtimeabi.OtterArrayLength(arr)
		for i := int64(0); i < n; i++ {
			loopEnv := NewEnclosedEnv(env)
			loopEnv.Define(s.Name, runtimeabi.OtterArrayGet(arr, i))
			sig := m.execBlock(loopEnv, s.Body)
			switch sig.kind {
			case sigBreak:
				return none
			case sigReturn:
				return sig
			}
		}
		return none

	case *coreir.Break:
		return signal{kind: sigBreak}

	case *coreir.Continue:
		return signal{kind: sigContinue}

	case *coreir.Pass:
		return none

	case *coreir.DecisionTree:
		subject := m.evalExpr(env, s.Subject)
		for _, c := range s.Cases {
			caseEnv, ok := m.tryCase(env, subject, c.Conds, c.Binds, c.Guard)
			if ok {
				return m.execBlock(caseEnv, c.Body)
			}
		}
		panic("exec: decision tree matched no case (exhaustiveness is an analyzer invariant)")

	case *coreir.ErrorContext:
		return m.execErrorContext(env, s)

	case *coreir.Raise:
		m.execRaise(env, s)
		return none

	default:
		panic(fmt.Sprintf("exec: unhandled statement %T", stmt))
	}
}

func (m *Machine) execAssign(env *Env, s *coreir.Assign) {
	val := m.evalExpr(env, s.Value)
	switch s.Target.Kind {
	case coreir.PlaceSlot:
		env.Set(s.Target.Name, val)
	case coreir.PlaceField:
		obj, _ := m.evalExpr(env, s.Target.Object).(*runtimeabi.StructValue)
		runtimeabi.OtterStructSetField(obj, int64(s.Target.Index), val)
	case coreir.PlaceIndexList:
		obj, _ := m.evalExpr(env, s.Target.Object).(*runtimeabi.ArrayValue)
		idx, _ := m.evalExpr(env, s.Target.Key).(int64)
		runtimeabi.OtterArraySet(obj, idx, val)
	case coreir.PlaceIndexDict:
		obj, _ := m.evalExpr(env, s.Target.Object).(*runtimeabi.DictValue)
		key := m.evalExpr(env, s.Target.Key)
		runtimeabi.OtterDictSet(obj, key, val)
	default:
		panic(fmt.Sprintf("exec: unhandled assignment target kind %v", s.Target.Kind))
	}
}

// raisedSignal is the panic value execRaise uses to unwind the Go
// call stack back to the nearest recover point (execErrorContext, or
// Run's own top-level one) once the runtime's error flag is already
// set but hasn't yet itself triggered runtimeabi's own UncaughtError
// panic — the "no frame left at all" case panics directly from inside
// runtimeabi instead; see this package's doc comment for why a panic
// is the right tool here rather than a check after every statement.
type raisedSignal struct{}

func (m *Machine) execRaise(env *Env, s *coreir.Raise) {
	if s.Message == nil {
		m.rt.OtterErrorRethrow()
		panic(raisedSignal{})
	}
	msg, _ := m.evalExpr(env, s.Message).(string)
	m.rt.OtterErrorRaise(msg)
	panic(raisedSignal{})
}

// runCatching runs fn, recovering a raisedSignal panic (the runtime's
// error flag is already set by the time it's thrown, so there's
// nothing further to record here) while letting any other panic —
// a genuine bug, not this package's own control-flow sentinel —
// keep propagating.
func (m *Machine) runCatching(fn func() signal) signal {
	var result signal
	func() {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(raisedSignal); ok {
					return
				}
				panic(r)
			}
		}()
		result = fn()
	}()
	return result
}

// execErrorContext runs a try/except/finally region (spec 4.5's
// landing-pad model, reference-runtime side): Body runs first; if it
// leaves the error flag set, the first handler runs (every except
// clause currently matches any raised value, since coreir.
// ExceptHandler.PatternType is always nil until a typed-exception
// extension exists); Finally always runs last regardless of how Body
// or the handler exited; and whatever error state remains once
// Finally has run is rethrown to the enclosing context (or, with none
// left, surfaces as runtimeabi's own UncaughtError).
func (m *Machine) execErrorContext(env *Env, s *coreir.ErrorContext) signal {
	m.rt.OtterErrorPushContext()

	result := m.runCatching(func() signal {
		return m.execBlock(env, s.Body)
	})

	if m.rt.OtterErrorHasError() {
		for _, h := range s.Handlers {
			msg := m.rt.OtterErrorGetMessage()
			m.rt.OtterErrorClear()
			handlerEnv := env
			if h.BindName != "" {
				handlerEnv = NewEnclosedEnv(env)
				handlerEnv.Define(h.BindName, msg)
			}
			result = m.runCatching(func() signal {
				return m.execBlock(handlerEnv, h.Body)
			})
			break
		}
	}

	if len(s.Finally) > 0 {
		finallyResult := m.runCatching(func() signal {
			return m.execBlock(env, s.Finally)
		})
		if finallyResult.kind != sigNone || m.rt.OtterErrorHasError() {
			result = finallyResult
		}
	}

	if m.rt.OtterErrorHasError() {
		m.rt.OtterErrorRethrow()
		m.rt.OtterErrorPopContext()
		panic(raisedSignal{})
	}
	m.rt.OtterErrorPopContext()
	return result
}
