package semantic

import (
	"github.com/otterlang/otterc/internal/coreir"
	"github.com/otterlang/otterc/internal/types"
)

// substituteFunc rewrites every TypeParam-shaped types.Type reachable
// from f (its parameter/return types and every expression's Type())
// in place, using subst. This is the second half of monomorphization:
// the analyzer's Instantiation records only record the substituted
// *types.FunctionType* signature; the generic function's AST is kept as
// a template (see lowerer.templates), lowered again for each recorded
// instantiation, and its types are only ever specialized here.
func substituteFunc(f *coreir.Func, subst map[string]types.Type) {
	for i := range f.Params {
		f.Params[i].Type = types.Substitute(f.Params[i].Type, subst)
	}
	f.ReturnType = types.Substitute(f.ReturnType, subst)
	for _, s := range f.Body {
		substituteStmt(s, subst)
	}
}

func substituteStmt(s coreir.Stmt, subst map[string]types.Type) {
	switch v := s.(type) {
	case *coreir.Let:
		v.Typ = types.Substitute(v.Typ, subst)
		substituteExpr(v.Value, subst)
	case *coreir.Assign:
		substitutePlace(&v.Target, subst)
		substituteExpr(v.Value, subst)
	case *coreir.Return:
		if v.Value != nil {
			substituteExpr(v.Value, subst)
		}
	case *coreir.ExprStmt:
		substituteExpr(v.Value, subst)
	case *coreir.If:
		substituteExpr(v.Condition, subst)
		for _, s := range v.Body {
			substituteStmt(s, subst)
		}
		for _, s := range v.Else {
			substituteStmt(s, subst)
		}
	case *coreir.While:
		substituteExpr(v.Condition, subst)
		for _, s := range v.Body {
			substituteStmt(s, subst)
		}
	case *coreir.ForRange:
		substituteExpr(v.Start, subst)
		substituteExpr(v.End, subst)
		for _, s := range v.Body {
			substituteStmt(s, subst)
		}
	case *coreir.ForEach:
		v.ElemType = types.Substitute(v.ElemType, subst)
		substituteExpr(v.Iterable, subst)
		for _, s := range v.Body {
			substituteStmt(s, subst)
		}
	case *coreir.ErrorContext:
		for _, s := range v.Body {
			substituteStmt(s, subst)
		}
		for _, h := range v.Handlers {
			for _, s := range h.Body {
				substituteStmt(s, subst)
			}
		}
		for _, s := range v.Finally {
			substituteStmt(s, subst)
		}
	case *coreir.Raise:
		if v.Message != nil {
			substituteExpr(v.Message, subst)
		}
	case *coreir.DecisionTree:
		substituteExpr(v.Subject, subst)
		for i := range v.Cases {
			substituteCaseStmt(&v.Cases[i], subst)
		}
	}
}

func substitutePlace(p *coreir.Place, subst map[string]types.Type) {
	if p.Object != nil {
		substituteExpr(p.Object, subst)
	}
	if p.Key != nil {
		substituteExpr(p.Key, subst)
	}
}

func substituteCaseStmt(c *coreir.CaseStmt, subst map[string]types.Type) {
	for i := range c.Conds {
		if c.Conds[i].Literal != nil {
			substituteExpr(c.Conds[i].Literal, subst)
		}
	}
	for i := range c.Binds {
		c.Binds[i].Typ = types.Substitute(c.Binds[i].Typ, subst)
	}
	if c.Guard != nil {
		substituteExpr(c.Guard, subst)
	}
	for _, s := range c.Body {
		substituteStmt(s, subst)
	}
}

func substituteCaseExpr(c *coreir.CaseExpr, subst map[string]types.Type) {
	for i := range c.Conds {
		if c.Conds[i].Literal != nil {
			substituteExpr(c.Conds[i].Literal, subst)
		}
	}
	for i := range c.Binds {
		c.Binds[i].Typ = types.Substitute(c.Binds[i].Typ, subst)
	}
	if c.Guard != nil {
		substituteExpr(c.Guard, subst)
	}
	if c.Result != nil {
		substituteExpr(c.Result, subst)
	}
}

func substituteExpr(e coreir.Expr, subst map[string]types.Type) {
	switch v := e.(type) {
	case *coreir.NilLit:
		v.OptionType = types.Substitute(v.OptionType, subst)
	case *coreir.Ident:
		v.Typ = types.Substitute(v.Typ, subst)
	case *coreir.Unary:
		v.Typ = types.Substitute(v.Typ, subst)
		substituteExpr(v.Operand, subst)
	case *coreir.Binary:
		v.Typ = types.Substitute(v.Typ, subst)
		substituteExpr(v.Left, subst)
		substituteExpr(v.Right, subst)
	case *coreir.Call:
		v.Typ = types.Substitute(v.Typ, subst)
		for _, a := range v.Args {
			substituteExpr(a, subst)
		}
	case *coreir.CallValue:
		v.Typ = types.Substitute(v.Typ, subst)
		substituteExpr(v.Callee, subst)
		for _, a := range v.Args {
			substituteExpr(a, subst)
		}
	case *coreir.FieldAccess:
		v.Typ = types.Substitute(v.Typ, subst)
		substituteExpr(v.Object, subst)
	case *coreir.IndexList:
		v.Typ = types.Substitute(v.Typ, subst)
		substituteExpr(v.Object, subst)
		substituteExpr(v.Index, subst)
	case *coreir.IndexDict:
		v.Typ = types.Substitute(v.Typ, subst)
		substituteExpr(v.Object, subst)
		substituteExpr(v.Index, subst)
	case *coreir.ListLit:
		v.Typ = types.Substitute(v.Typ, subst)
		for _, el := range v.Elements {
			substituteExpr(el, subst)
		}
	case *coreir.DictLit:
		v.Typ = types.Substitute(v.Typ, subst)
		for i := range v.Entries {
			substituteExpr(v.Entries[i].Key, subst)
			substituteExpr(v.Entries[i].Value, subst)
		}
	case *coreir.StructLit:
		v.Typ = types.Substitute(v.Typ, subst)
		for i := range v.Fields {
			substituteExpr(v.Fields[i].Value, subst)
		}
	case *coreir.MakeEnum:
		v.Typ = types.Substitute(v.Typ, subst)
		for _, p := range v.Payload {
			substituteExpr(p, subst)
		}
	case *coreir.Lambda:
		v.Typ = types.Substitute(v.Typ, subst)
		for i := range v.Params {
			v.Params[i].Type = types.Substitute(v.Params[i].Type, subst)
		}
		for _, s := range v.Body {
			substituteStmt(s, subst)
		}
		if v.Expr != nil {
			substituteExpr(v.Expr, subst)
		}
	case *coreir.TaskSpawn:
		v.Typ = types.Substitute(v.Typ, subst)
		if v.Expr != nil {
			substituteExpr(v.Expr, subst)
		}
		for _, s := range v.Body {
			substituteStmt(s, subst)
		}
	case *coreir.TaskAwait:
		v.Typ = types.Substitute(v.Typ, subst)
		substituteExpr(v.Task, subst)
	case *coreir.DecisionTreeExpr:
		v.Typ = types.Substitute(v.Typ, subst)
		substituteExpr(v.Subject, subst)
		for i := range v.Cases {
			substituteCaseExpr(&v.Cases[i], subst)
		}
	}
}
