package semantic

import (
	"github.com/otterlang/otterc/internal/ast"
	"github.com/otterlang/otterc/internal/coreir"
	"github.com/otterlang/otterc/internal/types"
)

func (lw *lowerer) lowerExpr(expr ast.Expression) coreir.Expr {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return &coreir.IntLit{Value: e.Value}
	case *ast.FloatLiteral:
		return &coreir.FloatLit{Value: e.Value}
	case *ast.StringLiteral:
		return &coreir.StringLit{Value: e.Value}
	case *ast.BooleanLiteral:
		return &coreir.BoolLit{Value: e.Value}
	case *ast.NilLiteral:
		return &coreir.NilLit{OptionType: lw.a.TypeOf(e)}
	case *ast.FStringExpression:
		return lw.lowerFString(e)
	case *ast.Identifier:
		return &coreir.Ident{Name: e.Value, Typ: lw.a.TypeOf(e)}
	case *ast.GroupedExpression:
		return lw.lowerExpr(e.Expression)
	case *ast.ListLiteral:
		return lw.lowerListLiteral(e)
	case *ast.DictLiteral:
		return lw.lowerDictLiteral(e)
	case *ast.StructLiteral:
		return lw.lowerStructLiteral(e)
	case *ast.RangeExpression:
		// A bare range only appears in a `for x in a..b:` header, lowered
		// directly by lowerFor; reaching here means it was used as a
		// first-class value, which has no core-IR representation today.
		return &coreir.ListLit{Typ: lw.a.TypeOf(e)}
	case *ast.UnaryExpression:
		return lw.lowerUnary(e)
	case *ast.BinaryExpression:
		return lw.lowerBinary(e)
	case *ast.CallExpression:
		return lw.lowerCall(e)
	case *ast.MemberExpression:
		return lw.lowerMember(e)
	case *ast.IndexExpression:
		return lw.lowerIndex(e)
	case *ast.LambdaExpression:
		return lw.lowerLambda(e)
	case *ast.SpawnExpression:
		return lw.lowerSpawn(e)
	case *ast.AwaitExpression:
		return &coreir.TaskAwait{Task: lw.lowerExpr(e.Task), Typ: lw.a.TypeOf(e)}
	case *ast.MatchExpression:
		return lw.lowerMatchExpr(e)
	default:
		return &coreir.NilLit{}
	}
}

// lowerFString desugars f"a{e}b{f}c" into a left-fold of concat/str
// calls: concat(concat(concat("a", str(e)), "b"), str(f)) ... , per
// spec 4.4's f-string desugaring rule.
func (lw *lowerer) lowerFString(e *ast.FStringExpression) coreir.Expr {
	var acc coreir.Expr = &coreir.StringLit{Value: e.Parts[0]}
	for i, embed := range e.Embeds {
		embedTyp := lw.a.TypeOf(embed)
		str := lw.stringify(lw.lowerExpr(embed), embedTyp)
		acc = &coreir.Binary{Op: coreir.OpConcat, Left: acc, Right: str, Typ: types.String}
		if i+1 < len(e.Parts) {
			acc = &coreir.Binary{Op: coreir.OpConcat, Left: acc, Right: &coreir.StringLit{Value: e.Parts[i+1]}, Typ: types.String}
		}
	}
	return acc
}

// stringify wraps val in the runtime formatting call appropriate to
// its static type (otter_format_int/float/bool), or leaves it as-is
// when it's already a String; struct/enum stringification is left to
// a later pass once a Display-style convention is chosen (tracked as
// an open question, see DESIGN.md).
func (lw *lowerer) stringify(val coreir.Expr, t types.Type) coreir.Expr {
	if t == nil {
		return val
	}
	switch t {
	case types.String:
		return val
	case types.Int:
		return &coreir.Call{Callee: "otter_format_int", Args: []coreir.Expr{val}, Typ: types.String}
	case types.Float:
		return &coreir.Call{Callee: "otter_format_float", Args: []coreir.Expr{val}, Typ: types.String}
	case types.Bool:
		return &coreir.Call{Callee: "otter_format_bool", Args: []coreir.Expr{val}, Typ: types.String}
	default:
		return val
	}
}

func (lw *lowerer) lowerListLiteral(e *ast.ListLiteral) coreir.Expr {
	elems := make([]coreir.Expr, len(e.Elements))
	for i, el := range e.Elements {
		elems[i] = lw.lowerExpr(el)
	}
	return &coreir.ListLit{Elements: elems, Typ: lw.a.TypeOf(e)}
}

func (lw *lowerer) lowerDictLiteral(e *ast.DictLiteral) coreir.Expr {
	entries := make([]coreir.DictEntry, len(e.Entries))
	for i, ent := range e.Entries {
		entries[i] = coreir.DictEntry{Key: lw.lowerExpr(ent.Key), Value: lw.lowerExpr(ent.Value)}
	}
	return &coreir.DictLit{Entries: entries, Typ: lw.a.TypeOf(e)}
}

func (lw *lowerer) lowerStructLiteral(e *ast.StructLiteral) coreir.Expr {
	typ := lw.a.TypeOf(e)
	st, _ := typ.(*types.StructType)
	fields := make([]coreir.FieldInit, len(e.Fields))
	for i, f := range e.Fields {
		idx := i
		if st != nil {
			for j, sf := range st.Fields {
				if sf.Name == f.Name {
					idx = j
					break
				}
			}
		}
		fields[i] = coreir.FieldInit{Name: f.Name, Index: idx, Value: lw.lowerExpr(f.Value)}
	}
	return &coreir.StructLit{Fields: fields, Typ: typ}
}

func (lw *lowerer) lowerUnary(e *ast.UnaryExpression) coreir.Expr {
	return &coreir.Unary{Op: e.Operator, Operand: lw.lowerExpr(e.Right), Typ: lw.a.TypeOf(e)}
}

// lowerBinary applies the surface-to-core operator desugaring rules:
// integer "**" becomes ipow, float "**" becomes fpow (spec 4.4).
func (lw *lowerer) lowerBinary(e *ast.BinaryExpression) coreir.Expr {
	left := lw.lowerExpr(e.Left)
	right := lw.lowerExpr(e.Right)
	typ := lw.a.TypeOf(e)
	op := e.Operator
	if op == "**" {
		leftTyp := lw.a.TypeOf(e.Left)
		if leftTyp != nil && leftTyp.Equals(types.Int) {
			op = coreir.OpIPow
		} else {
			op = coreir.OpFPow
		}
	}
	return &coreir.Binary{Op: op, Left: left, Right: right, Typ: typ}
}

func (lw *lowerer) lowerCall(e *ast.CallExpression) coreir.Expr {
	args := make([]coreir.Expr, len(e.Arguments))
	for i, arg := range e.Arguments {
		args[i] = lw.lowerExpr(arg)
	}
	typ := lw.a.TypeOf(e)

	if ident, ok := e.Callee.(*ast.Identifier); ok {
		if ident.Value == "str" && len(e.Arguments) == 1 {
			if _, declared := lw.a.funcs[ident.Value]; !declared {
				return lw.stringify(args[0], lw.a.TypeOf(e.Arguments[0]))
			}
		}
		name := ident.Value
		// Raises conservatively assumes every call can fail; a later
		// fixpoint pass over the call graph could narrow this, but a
		// false positive here only costs the emitter one redundant
		// error check, never a correctness bug.
		raises := true
		if order, generic := lw.a.funcTypeParams[name]; generic {
			argTypes := make([]types.Type, len(e.Arguments))
			for i, arg := range e.Arguments {
				argTypes[i] = lw.a.TypeOf(arg)
			}
			subst := make(map[string]types.Type)
			ft := lw.a.funcs[name]
			if ft != nil {
				for i, p := range ft.Params {
					if i < len(argTypes) {
						unify(p, argTypes[i], subst)
					}
				}
			}
			typeArgs := make([]types.Type, len(order))
			for i, p := range order {
				t := subst[p]
				if t == nil {
					t = types.Void
				}
				typeArgs[i] = t
			}
			name = types.MonomorphKey(name, typeArgs)
		}
		return &coreir.Call{Callee: name, Args: args, Typ: typ, Raises: raises}
	}

	return &coreir.CallValue{Callee: lw.lowerExpr(e.Callee), Args: args, Typ: typ}
}

func (lw *lowerer) lowerMember(e *ast.MemberExpression) coreir.Expr {
	objTyp := lw.a.TypeOf(e.Object)
	idx := 0
	if st, ok := objTyp.(*types.StructType); ok {
		for i, f := range st.Fields {
			if f.Name == e.Member {
				idx = i
				break
			}
		}
	}
	return &coreir.FieldAccess{Object: lw.lowerExpr(e.Object), Field: e.Member, Index: idx, Typ: lw.a.TypeOf(e)}
}

func (lw *lowerer) lowerIndex(e *ast.IndexExpression) coreir.Expr {
	objTyp := lw.a.TypeOf(e.Object)
	obj := lw.lowerExpr(e.Object)
	idx := lw.lowerExpr(e.Index)
	if _, ok := objTyp.(*types.DictType); ok {
		return &coreir.IndexDict{Object: obj, Index: idx, Typ: lw.a.TypeOf(e)}
	}
	return &coreir.IndexList{Object: obj, Index: idx, Typ: lw.a.TypeOf(e)}
}

func (lw *lowerer) lowerLambda(e *ast.LambdaExpression) coreir.Expr {
	typ := lw.a.TypeOf(e)
	ft, _ := typ.(*types.FunctionType)
	params := make([]coreir.Param, len(e.Parameters))
	for i, p := range e.Parameters {
		var t types.Type
		if ft != nil && i < len(ft.Params) {
			t = ft.Params[i]
		}
		params[i] = coreir.Param{Name: p.Name.Value, Type: t}
	}
	var expr coreir.Expr
	var body []coreir.Stmt
	if e.Expr != nil {
		expr = lw.lowerExpr(e.Expr)
	} else {
		body = lw.lowerBlock(e.Body)
	}
	return &coreir.Lambda{Captures: freeVars(e), Params: params, Body: body, Expr: expr, Typ: typ}
}

// freeVars is a placeholder capture list; a full free-variable analysis
// belongs in the analyzer's scope-tracking pass. Closures in the
// reference evaluator (internal/exec) capture their defining
// environment directly rather than an explicit list, so this is only
// informative for the emitter's future native-closure lowering.
func freeVars(*ast.LambdaExpression) []string { return nil }

func (lw *lowerer) lowerSpawn(e *ast.SpawnExpression) coreir.Expr {
	call := lw.lowerCall(e.Call)
	return &coreir.TaskSpawn{Expr: call, Typ: lw.a.TypeOf(e)}
}
