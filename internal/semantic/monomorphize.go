package semantic

import "github.com/otterlang/otterc/internal/types"

// Instantiation is one concrete specialization of a generic function,
// keyed by types.MonomorphKey(name, typeArgs) so the same (function,
// type-argument tuple) pair is only ever recorded once; the lowerer
// (lowerInstantiations) reads the analyzer's instantiations map to
// decide which monomorphized function bodies it actually needs to lower.
type Instantiation struct {
	FuncName string
	TypeArgs []types.Type
	Func     *types.FunctionType // ft with every TypeParam substituted
}

// isGeneric reports whether ft mentions any TypeParam in its signature.
func isGeneric(ft *types.FunctionType) bool {
	for _, p := range ft.Params {
		if mentionsTypeParam(p) {
			return true
		}
	}
	return ft.ReturnType != nil && mentionsTypeParam(ft.ReturnType)
}

func mentionsTypeParam(t types.Type) bool {
	switch v := t.(type) {
	case *types.TypeParam:
		return true
	case *types.ArrayType:
		return mentionsTypeParam(v.Element)
	case *types.DictType:
		return mentionsTypeParam(v.Key) || mentionsTypeParam(v.Value)
	case *types.OptionType:
		return mentionsTypeParam(v.Element)
	case *types.ResultType:
		return mentionsTypeParam(v.Ok) || mentionsTypeParam(v.Err)
	case *types.TaskType:
		return mentionsTypeParam(v.Result)
	case *types.FunctionType:
		for _, p := range v.Params {
			if mentionsTypeParam(p) {
				return true
			}
		}
		return v.ReturnType != nil && mentionsTypeParam(v.ReturnType)
	case *types.UnionType:
		for _, m := range v.Members {
			if mentionsTypeParam(m) {
				return true
			}
		}
		return false
	case *types.StructType:
		for _, a := range v.TypeArgs {
			if mentionsTypeParam(a) {
				return true
			}
		}
		return false
	case *types.EnumType:
		for _, a := range v.TypeArgs {
			if mentionsTypeParam(a) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// unify matches declared (a parameter type possibly containing TypeParam
// nodes) structurally against actual (the argument's concrete inferred
// type), recording every TypeParam binding it discovers into subst. It
// reports nothing on a structural mismatch — checkExpr's own comparison
// of the substituted type against the actual one is what produces the
// user-facing diagnostic.
func unify(declared, actual types.Type, subst map[string]types.Type) {
	if declared == nil || actual == nil {
		return
	}
	switch d := declared.(type) {
	case *types.TypeParam:
		if _, bound := subst[d.ParamName]; !bound {
			subst[d.ParamName] = actual
		}
	case *types.ArrayType:
		if a, ok := actual.(*types.ArrayType); ok {
			unify(d.Element, a.Element, subst)
		}
	case *types.DictType:
		if a, ok := actual.(*types.DictType); ok {
			unify(d.Key, a.Key, subst)
			unify(d.Value, a.Value, subst)
		}
	case *types.OptionType:
		if a, ok := actual.(*types.OptionType); ok {
			unify(d.Element, a.Element, subst)
		}
	case *types.ResultType:
		if a, ok := actual.(*types.ResultType); ok {
			unify(d.Ok, a.Ok, subst)
			unify(d.Err, a.Err, subst)
		}
	case *types.TaskType:
		if a, ok := actual.(*types.TaskType); ok {
			unify(d.Result, a.Result, subst)
		}
	case *types.StructType:
		if a, ok := actual.(*types.StructType); ok {
			for i := range d.TypeArgs {
				if i < len(a.TypeArgs) {
					unify(d.TypeArgs[i], a.TypeArgs[i], subst)
				}
			}
		}
	case *types.EnumType:
		if a, ok := actual.(*types.EnumType); ok {
			for i := range d.TypeArgs {
				if i < len(a.TypeArgs) {
					unify(d.TypeArgs[i], a.TypeArgs[i], subst)
				}
			}
		}
	}
}

// instantiate substitutes subst into ft and records the specialization
// (keyed by name+typeArgs) in a.instantiations, so repeated calls with
// the same type arguments share one entry.
func (a *Analyzer) instantiate(name string, ft *types.FunctionType, subst map[string]types.Type, order []string) *types.FunctionType {
	typeArgs := make([]types.Type, len(order))
	for i, p := range order {
		t := subst[p]
		if t == nil {
			t = types.Void
		}
		typeArgs[i] = t
	}
	key := types.MonomorphKey(name, typeArgs)
	if inst, ok := a.instantiations[key]; ok {
		return inst.Func
	}
	specialized := types.Substitute(ft, subst).(*types.FunctionType)
	if a.instantiations == nil {
		a.instantiations = make(map[string]*Instantiation)
	}
	a.instantiations[key] = &Instantiation{FuncName: name, TypeArgs: typeArgs, Func: specialized}
	return specialized
}
