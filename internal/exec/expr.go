package exec

import (
	"fmt"

	"github.com/otterlang/otterc/internal/coreir"
	"github.com/otterlang/otterc/internal/runtimeabi"
	"github.com/otterlang/otterc/internal/types"
)

// evalExpr evaluates e, returning a bare Go value: int64, float64,
// string, bool, nil (Void or an Option/Result's None/Err branch —
// this reference runtime carries no tag beyond "is it nil", the same
// simplification IndexDict's doc comment already notes), or a
// *runtimeabi.*Value heap handle for an array/dict/struct/enum, or
// this package's own *closureValue for a lambda.
func (m *Machine) evalExpr(env *Env, expr coreir.Expr) any {
	switch e := expr.(type) {
	case *coreir.IntLit:
		return e.Value
	case *coreir.FloatLit:
		return e.Value
	case *coreir.StringLit:
		return e.Value
	case *coreir.BoolLit:
		return e.Value
	case *coreir.NilLit:
		return nil

	case *coreir.Ident:
		v, ok := env.Get(e.Name)
		if !ok {
			panic("exec: unresolved identifier " + e.Name)
		}
		return v

	case *coreir.Unary:
		return m.evalUnary(env, e)

	case *coreir.Binary:
		return m.evalBinary(env, e)

	case *coreir.Call:
		return m.evalCall(env, e)

	case *coreir.CallValue:
		callee := m.evalExpr(env, e.Callee)
		cl, ok := callee.(*closureValue)
		if !ok {
			panic("exec: call of a non-function value")
		}
		args := m.evalArgs(env, e.Args)
		return m.callClosure(cl, args)

	case *coreir.FieldAccess:
		obj, _ := m.evalExpr(env, e.Object).(*runtimeabi.StructValue)
		return runtimeabi.OtterStructGetField(obj, int64(e.Index))

	case *coreir.IndexList:
		arr, _ := m.evalExpr(env, e.Object).(*runtimeabi.ArrayValue)
		idx, _ := m.evalExpr(env, e.Index).(int64)
		return runtimeabi.OtterArrayGet(arr, idx)

	case *coreir.IndexDict:
		dict, _ := m.evalExpr(env, e.Object).(*runtimeabi.DictValue)
		key := m.evalExpr(env, e.Index)
		return runtimeabi.OtterDictGet(dict, key)

	case *coreir.ListLit:
		arr := runtimeabi.OtterArrayNew(int64(len(e.Elements)))
		for _, el := range e.Elements {
			runtimeabi.OtterArrayPush(arr, m.evalExpr(env, el))
		}
		return arr

	case *coreir.DictLit:
		dict := runtimeabi.OtterDictNew()
		for _, entry := range e.Entries {
			k := m.evalExpr(env, entry.Key)
			v := m.evalExpr(env, entry.Value)
			runtimeabi.OtterDictSet(dict, k, v)
		}
		return dict

	case *coreir.StructLit:
		st := e.Typ.(*types.StructType)
		obj := m.rt.OtterStructNew(m.structIDs[st.TypeName])
		for _, f := range e.Fields {
			runtimeabi.OtterStructSetField(obj, int64(f.Index), m.evalExpr(env, f.Value))
		}
		return obj

	case *coreir.MakeEnum:
		payload := make([]any, len(e.Payload))
		for i, p := range e.Payload {
			payload[i] = m.evalExpr(env, p)
		}
		return &runtimeabi.EnumValue{Tag: int64(e.Tag), Payload: payload}

	case *coreir.Lambda:
		capture := make(map[string]any, len(e.Captures))
		for _, name := range e.Captures {
			v, _ := env.Get(name)
			capture[name] = v
		}
		return &closureValue{params: e.Params, body: lambdaBody(e), capture: capture}

	case *coreir.TaskSpawn:
		body := taskBody(e)
		return m.rt.OtterTaskSpawn(func() (any, string, bool) {
			return m.runTask(body)
		})

	case *coreir.TaskAwait:
		handle, _ := m.evalExpr(env, e.Task).(*runtimeabi.TaskHandle)
		result := m.rt.OtterTaskAwait(handle)
		if m.rt.OtterErrorHasError() {
			// OtterTaskAwait sets the flag without panicking (it has no
			// concept of this package's control-flow sentinel); force
			// the same unwind a direct raise would, so the awaiting
			// context's own try/finally machinery still sees it.
			panic(raisedSignal{})
		}
		return result

	case *coreir.DecisionTreeExpr:
		return m.evalDecisionTreeExpr(env, e)

	default:
		panic(fmt.Sprintf("exec: unhandled expression %T", expr))
	}
}

func (m *Machine) evalArgs(env *Env, exprs []coreir.Expr) []any {
	args := make([]any, len(exprs))
	for i, a := range exprs {
		args[i] = m.evalExpr(env, a)
	}
	return args
}

func (m *Machine) evalCall(env *Env, e *coreir.Call) any {
	args := m.evalArgs(env, e.Args)
	if fn, ok := m.funcs[e.Callee]; ok {
		return m.callFunc(fn, args)
	}
	return m.callIntrinsic(e.Callee, args)
}

func (m *Machine) evalDecisionTreeExpr(env *Env, d *coreir.DecisionTreeExpr) any {
	subject := m.evalExpr(env, d.Subject)
	for _, c := range d.Cases {
		caseEnv, ok := m.tryCase(env, subject, c.Conds, c.Binds, c.Guard)
		if ok {
			return m.evalExpr(caseEnv, c.Result)
		}
	}
	panic("exec: decision tree expression matched no case (exhaustiveness is an analyzer invariant)")
}

func (m *Machine) evalUnary(env *Env, u *coreir.Unary) any {
	v := m.evalExpr(env, u.Operand)
	switch u.Op {
	case "-":
		switch x := v.(type) {
		case int64:
			return -x
		case float64:
			return -x
		}
	case "not":
		b, _ := v.(bool)
		return !b
	}
	panic("exec: unhandled unary operator " + u.Op)
}

func (m *Machine) evalBinary(env *Env, b *coreir.Binary) any {
	l := m.evalExpr(env, b.Left)

	// and/or short-circuit: Right is only evaluated when the left
	// operand doesn't already decide the result.
	switch b.Op {
	case coreir.OpAnd:
		lb, _ := l.(bool)
		if !lb {
			return false
		}
		rb, _ := m.evalExpr(env, b.Right).(bool)
		return rb
	case coreir.OpOr:
		lb, _ := l.(bool)
		if lb {
			return true
		}
		rb, _ := m.evalExpr(env, b.Right).(bool)
		return rb
	}

	r := m.evalExpr(env, b.Right)

	switch b.Op {
	case coreir.OpConcat:
		ls, _ := l.(string)
		rs, _ := r.(string)
		return runtimeabi.OtterStrConcat(ls, rs)
	case coreir.OpIPow:
		li, _ := l.(int64)
		ri, _ := r.(int64)
		return runtimeabi.OtterIntPow(li, ri)
	case coreir.OpFPow:
		lf, _ := l.(float64)
		rf, _ := r.(float64)
		return runtimeabi.OtterFloatPow(lf, rf)
	}

	switch lv := l.(type) {
	case int64:
		rv, _ := r.(int64)
		switch b.Op {
		case coreir.OpAdd:
			return lv + rv
		case coreir.OpSub:
			return lv - rv
		case coreir.OpMul:
			return lv * rv
		case coreir.OpDiv:
			return lv / rv
		case coreir.OpMod:
			return lv % rv
		case coreir.OpEq:
			return lv == rv
		case coreir.OpNe:
			return lv != rv
		case coreir.OpLt:
			return lv < rv
		case coreir.OpLe:
			return lv <= rv
		case coreir.OpGt:
			return lv > rv
		case coreir.OpGe:
			return lv >= rv
		}

	case float64:
		rv, _ := r.(float64)
		switch b.Op {
		case coreir.OpAdd:
			return lv + rv
		case coreir.OpSub:
			return lv - rv
		case coreir.OpMul:
			return lv * rv
		case coreir.OpDiv:
			return lv / rv
		case coreir.OpEq:
			return lv == rv
		case coreir.OpNe:
			return lv != rv
		case coreir.OpLt:
			return lv < rv
		case coreir.OpLe:
			return lv <= rv
		case coreir.OpGt:
			return lv > rv
		case coreir.OpGe:
			return lv >= rv
		}

	case string:
		rv, _ := r.(string)
		switch b.Op {
		case coreir.OpEq:
			return runtimeabi.OtterStrEqual(lv, rv)
		case coreir.OpNe:
			return !runtimeabi.OtterStrEqual(lv, rv)
		}

	case bool:
		rv, _ := r.(bool)
		switch b.Op {
		case coreir.OpEq:
			return lv == rv
		case coreir.OpNe:
			return lv != rv
		}
	}
	panic(fmt.Sprintf("exec: unhandled binary operator %q for operand type %T", b.Op, l))
}
