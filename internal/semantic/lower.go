package semantic

import (
	"sort"

	"github.com/otterlang/otterc/internal/ast"
	"github.com/otterlang/otterc/internal/coreir"
	"github.com/otterlang/otterc/internal/types"
)

// lowerer carries the state the desugaring pass threads through a
// single module: the analyzer it reads types from, a scratch counter
// for synthetic temporaries (see newTemp), and the generic-function
// templates it records once per declaration and re-specializes per
// instantiation.
type lowerer struct {
	a         *Analyzer
	templates map[string]*ast.FunctionDecl
	tmp       int
}

// Lower runs after Analyze has fully type-checked mod with no errors,
// desugaring it into the core-IR module the emitter/evaluator consume.
// Callers must check a.errs.HasErrors() is false before calling Lower;
// it assumes every expression already has a recorded type.
func Lower(mod *ast.Module, a *Analyzer) *coreir.Module {
	lw := &lowerer{a: a, templates: make(map[string]*ast.FunctionDecl)}
	out := &coreir.Module{}

	for _, d := range mod.Decls {
		switch decl := d.(type) {
		case *ast.StructDecl:
			if st, ok := a.structs[decl.Name.Value]; ok {
				out.Structs = append(out.Structs, st)
			}
		case *ast.EnumDecl:
			if et, ok := a.enums[decl.Name.Value]; ok {
				out.Enums = append(out.Enums, et)
			}
		}
	}

	for _, d := range mod.Decls {
		fd, ok := d.(*ast.FunctionDecl)
		if !ok {
			continue
		}
		if len(fd.TypeParams) > 0 {
			lw.templates[fd.Name.Value] = fd
			continue
		}
		out.Funcs = append(out.Funcs, lw.lowerFunc(fd.Name.Value, fd))
	}

	out.Funcs = append(out.Funcs, lw.lowerInstantiations()...)
	return out
}

// lowerInstantiations specializes every generic-function template once
// per recorded monomorphization, in a deterministic (key-sorted) order
// so repeated compiles of the same source emit byte-identical IR.
func (lw *lowerer) lowerInstantiations() []*coreir.Func {
	keys := make([]string, 0, len(lw.a.instantiations))
	for k := range lw.a.instantiations {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	funcs := make([]*coreir.Func, 0, len(keys))
	for _, key := range keys {
		inst := lw.a.instantiations[key]
		fd, ok := lw.templates[inst.FuncName]
		if !ok {
			continue
		}
		order := lw.a.funcTypeParams[inst.FuncName]
		subst := make(map[string]types.Type, len(order))
		for i, name := range order {
			if i < len(inst.TypeArgs) {
				subst[name] = inst.TypeArgs[i]
			}
		}
		f := lw.lowerFunc(key, fd)
		substituteFunc(f, subst)
		funcs = append(funcs, f)
	}
	return funcs
}

func (lw *lowerer) lowerFunc(name string, fd *ast.FunctionDecl) *coreir.Func {
	ft := lw.a.funcs[fd.Name.Value]
	params := make([]coreir.Param, len(fd.Parameters))
	for i, p := range fd.Parameters {
		var t types.Type
		if ft != nil && i < len(ft.Params) {
			t = ft.Params[i]
		}
		params[i] = coreir.Param{Name: p.Name.Value, Type: t}
	}
	var ret types.Type = types.Void
	if ft != nil {
		ret = ft.ReturnType
	}
	body := lw.lowerBlock(fd.Body)
	return &coreir.Func{
		Name:       name,
		Params:     params,
		ReturnType: ret,
		Body:       body,
		Raises:     blockRaises(body),
	}
}

func (lw *lowerer) lowerBlock(b *ast.BlockStatement) []coreir.Stmt {
	if b == nil {
		return nil
	}
	out := make([]coreir.Stmt, 0, len(b.Statements))
	for _, s := range b.Statements {
		out = append(out, lw.lowerStmt(s)...)
	}
	return out
}

// newTemp returns a fresh synthetic local name: $t1, $t2, and so on.
// No lowering function in this package calls it; match subjects and
// spawn expressions are lowered without a synthetic temporary.
func (lw *lowerer) newTemp() string {
	lw.tmp++
	return "$t" + itoa(lw.tmp)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := [20]byte{}
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}

// blockRaises reports whether any statement in body can set the
// runtime error flag: a raise, or a call to a function already known
// to raise. Used to decide whether call sites need a post-call error
// check inserted by the emitter.
func blockRaises(body []coreir.Stmt) bool {
	for _, s := range body {
		if stmtRaises(s) {
			return true
		}
	}
	return false
}

func stmtRaises(s coreir.Stmt) bool {
	switch v := s.(type) {
	case *coreir.Raise:
		return true
	case *coreir.ExprStmt:
		return exprRaises(v.Value)
	case *coreir.Let:
		return exprRaises(v.Value)
	case *coreir.Assign:
		return exprRaises(v.Value)
	case *coreir.Return:
		return v.Value != nil && exprRaises(v.Value)
	case *coreir.If:
		return blockRaises(v.Body) || blockRaises(v.Else)
	case *coreir.While:
		return blockRaises(v.Body)
	case *coreir.ForRange:
		return blockRaises(v.Body)
	case *coreir.ForEach:
		return blockRaises(v.Body)
	case *coreir.ErrorContext:
		// A protected try block's own raises are handled by its except
		// handlers (each one catches any error); with no handler they
		// propagate. Otherwise it only propagates if a handler (or
		// finally) itself raises.
		if len(v.Handlers) == 0 && blockRaises(v.Body) {
			return true
		}
		for _, h := range v.Handlers {
			if blockRaises(h.Body) {
				return true
			}
		}
		return blockRaises(v.Finally)
	case *coreir.DecisionTree:
		for _, c := range v.Cases {
			if blockRaises(c.Body) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func exprRaises(e coreir.Expr) bool {
	switch v := e.(type) {
	case *coreir.Call:
		return v.Raises
	case *coreir.Binary:
		return exprRaises(v.Left) || exprRaises(v.Right)
	case *coreir.Unary:
		return exprRaises(v.Operand)
	case *coreir.TaskAwait:
		return true // a propagated task error is observed at await
	default:
		return false
	}
}
