package exec

import (
	"fmt"

	"github.com/otterlang/otterc/internal/coreir"
	"github.com/otterlang/otterc/internal/runtimeabi"
)

// tryCase tests one DecisionTree/DecisionTreeExpr case's Conds in
// order (an AND of independent shape tests, per coreir.CaseExpr's own
// doc comment on why a nested pattern flattens to a conjunction),
// materializes its Binds into a child scope once every Cond holds, and
// finally checks Guard (which may reference those binds) — mirroring
// internal/irgen/match.go's emitCaseTest, minus that file's
// handle-vs-leaf distinction: the reference runtime has no packed
// representation to decode, so every projection step yields the same
// value regardless of whether it's an intermediate step or the final
// leaf.
func (m *Machine) tryCase(env *Env, subject any, conds []coreir.Cond, binds []coreir.Bind, guard coreir.Expr) (*Env, bool) {
	for _, c := range conds {
		if !m.evalCond(env, subject, c) {
			return nil, false
		}
	}
	caseEnv := NewEnclosedEnv(env)
	for _, b := range binds {
		caseEnv.Define(b.Name, m.project(subject, b.Path))
	}
	if guard == nil {
		return caseEnv, true
	}
	ok, _ := m.evalExpr(caseEnv, guard).(bool)
	return caseEnv, ok
}

func (m *Machine) evalCond(env *Env, subject any, c coreir.Cond) bool {
	switch c.Kind {
	case coreir.KindAlways:
		return true

	case coreir.KindTag:
		ev, _ := m.project(subject, c.Path).(*runtimeabi.EnumValue)
		return runtimeabi.OtterEnumReadTag(ev) == int64(c.Tag)

	case coreir.KindEqual:
		leaf := m.project(subject, c.Path)
		lit := m.evalExpr(env, c.Literal)
		if ls, ok := leaf.(string); ok {
			rs, _ := lit.(string)
			return runtimeabi.OtterStrEqual(ls, rs)
		}
		return leaf == lit

	case coreir.KindLenExact:
		arr, _ := m.project(subject, c.Path).(*runtimeabi.ArrayValue)
		return runtimeabi.OtterArrayLength(arr) == int64(c.Len)

	case coreir.KindLenAtLeast:
		arr, _ := m.project(subject, c.Path).(*runtimeabi.ArrayValue)
		return runtimeabi.OtterArrayLength(arr) >= int64(c.Len)

	default:
		panic(fmt.Sprintf("exec: unhandled cond kind %v", c.Kind))
	}
}

// project walks every step of path from subject, extracting one
// sub-value at a time (an enum payload field, a struct field, a list
// element, or a list's tail).
func (m *Machine) project(subject any, path []coreir.Projection) any {
	cur := subject
	for _, p := range path {
		switch p.Kind {
		case coreir.ProjectEnumField:
			ev, _ := cur.(*runtimeabi.EnumValue)
			cur = runtimeabi.OtterEnumPayloadGet(ev, int64(p.Index))
		case coreir.ProjectStructField:
			sv, _ := cur.(*runtimeabi.StructValue)
			cur = m.rt.OtterStructFieldGetByName(sv, p.Field)
		case coreir.ProjectListElement:
			av, _ := cur.(*runtimeabi.ArrayValue)
			cur = runtimeabi.OtterArrayGet(av, int64(p.Index))
		case coreir.ProjectListRest:
			av, _ := cur.(*runtimeabi.ArrayValue)
			cur = runtimeabi.OtterArraySliceFrom(av, int64(p.Index))
		default:
			panic(fmt.Sprintf("exec: unhandled projection kind %v", p.Kind))
		}
	}
	return cur
}
