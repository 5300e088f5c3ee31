// Package semantic implements OtterLang's semantic analysis: scope and
// symbol tracking, bidirectional type inference, exhaustiveness checking
// over match patterns, and the desugaring decisions (f-strings, match,
// try/except/finally, spawn/await) later consumed by the IR emitter.
package semantic

import (
	"fmt"

	"github.com/otterlang/otterc/internal/ast"
	"github.com/otterlang/otterc/internal/errorsx"
	"github.com/otterlang/otterc/internal/token"
	"github.com/otterlang/otterc/internal/types"
)

// Analyzer holds the state threaded through every pass: the current
// scope, the module's struct/enum/function registries, and whatever
// context (current function, loop depth, exception depth) a given
// statement needs to validate against.
type Analyzer struct {
	errs    *errorsx.Collector
	symbols *SymbolTable

	structs map[string]*types.StructType
	enums   map[string]*types.EnumType
	funcs   map[string]*types.FunctionType

	// funcTypeParams records each generic function's type-parameter names
	// in declaration order, so a call site can rebuild the ordered
	// type-argument tuple instantiate() needs for its monomorphization key.
	funcTypeParams map[string][]string
	instantiations map[string]*Instantiation

	// typeParams names generic parameters in scope for the declaration
	// currently being registered/checked (e.g. {"T": true} inside
	// `def first[T](xs: [T]) -> T:`), so resolveType can tell a bare `T`
	// apart from an unknown type name.
	typeParams map[string]bool

	currentFunction *ast.FunctionDecl
	loopDepth       int
	inFinally       bool

	exprTypes ExprTypes
}

// New constructs an Analyzer that reports diagnostics into errs.
func New(errs *errorsx.Collector) *Analyzer {
	return &Analyzer{
		errs:       errs,
		symbols:    NewSymbolTable(),
		structs:        make(map[string]*types.StructType),
		enums:          make(map[string]*types.EnumType),
		funcs:          make(map[string]*types.FunctionType),
		funcTypeParams: make(map[string][]string),
		typeParams:     make(map[string]bool),
	}
}

// Analyze runs the full pass pipeline over mod. Callers should check
// a.errs.HasErrors() afterward; Analyze itself never returns an error,
// matching the rest of the pipeline's "collect diagnostics, don't panic"
// convention.
func Analyze(mod *ast.Module, errs *errorsx.Collector) *Analyzer {
	return AnalyzeWithImports(mod, errs, nil)
}

// Imports is the set of top-level names a module brings into scope from
// already-analyzed dependencies: the driver builds one per module from
// internal/resolver's module graph (every name an explicit `use`
// reaches) plus, for every module but core itself, an implicit copy of
// core's exported functions — OtterLang's bare `print`/`println`/`str`
// calls have no visible import in spec's own example programs, so the
// driver treats core as a prelude rather than requiring every module to
// `use core.{print, println, ...}` explicitly.
type Imports struct {
	Structs map[string]*types.StructType
	Enums   map[string]*types.EnumType
	Funcs   map[string]*types.FunctionType
}

// AnalyzeWithImports is Analyze plus a pre-seeded namespace of imported
// declarations, resolved before DeclarePass runs so the module's own
// top-level names still win on a collision (re-declaring an imported
// name is reported by DeclarePass's own duplicate check).
func AnalyzeWithImports(mod *ast.Module, errs *errorsx.Collector, imports *Imports) *Analyzer {
	a := New(errs)
	if imports != nil {
		a.seedImports(imports)
	}
	pm := NewPassManager(&DeclarePass{}, &TypeCheckPass{})
	pm.RunAll(a, mod)
	return a
}

func (a *Analyzer) seedImports(imports *Imports) {
	for name, st := range imports.Structs {
		a.structs[name] = st
	}
	for name, et := range imports.Enums {
		a.enums[name] = et
	}
	for name, ft := range imports.Funcs {
		a.funcs[name] = ft
		a.symbols.Define(name, ft)
	}
}

// Structs, Enums, and Funcs expose a module's own top-level registries
// (including anything seeded via Imports) so the driver can harvest a
// dependency's public names for the modules that import it in turn.
func (a *Analyzer) Structs() map[string]*types.StructType { return a.structs }
func (a *Analyzer) Enums() map[string]*types.EnumType     { return a.enums }
func (a *Analyzer) Funcs() map[string]*types.FunctionType { return a.funcs }

func (a *Analyzer) addError(pos token.Position, format string, args ...any) {
	a.errs.Add(pos, format, args...)
}

func (a *Analyzer) openScope() {
	a.symbols = NewEnclosedSymbolTable(a.symbols)
}

func (a *Analyzer) closeScope() {
	a.symbols = a.symbols.outer
}

// resolveAnnotation resolves a parsed type annotation (the `: Type` a
// let/parameter/field/return-type carries) to a types.Type, reporting an
// error and returning nil if the name is unknown.
func (a *Analyzer) resolveAnnotation(ta *ast.TypeAnnotation) types.Type {
	if ta == nil {
		return types.Void
	}
	if ta.Inline != nil {
		return a.resolveTypeExpr(ta.Inline)
	}
	return a.resolveNamedType(ta.Name, ta.Pos())
}

func (a *Analyzer) resolveNamedType(name string, pos token.Position) types.Type {
	if a.typeParams[name] {
		return &types.TypeParam{ParamName: name}
	}
	if prim, ok := types.LookupPrimitive(name); ok {
		return prim
	}
	if st, ok := a.structs[name]; ok {
		return st
	}
	if et, ok := a.enums[name]; ok {
		return et
	}
	a.addError(pos, "unknown type %q", name)
	return nil
}

// resolveTypeExpr resolves any inline type-expression shape: [T], {K: V},
// Name[Args...] (Option/Result/Task or a user generic), A | B, or a
// function type.
func (a *Analyzer) resolveTypeExpr(te ast.TypeExpression) types.Type {
	switch t := te.(type) {
	case *ast.NamedType:
		return a.resolveNamedType(t.Name, t.Pos())
	case *ast.ArrayType:
		elem := a.resolveTypeExpr(t.Element)
		if elem == nil {
			return nil
		}
		return &types.ArrayType{Element: elem}
	case *ast.DictType:
		key := a.resolveTypeExpr(t.Key)
		val := a.resolveTypeExpr(t.Value)
		if key == nil || val == nil {
			return nil
		}
		return &types.DictType{Key: key, Value: val}
	case *ast.UnionType:
		members := make([]types.Type, len(t.Members))
		for i, m := range t.Members {
			members[i] = a.resolveTypeExpr(m)
			if members[i] == nil {
				return nil
			}
		}
		return &types.UnionType{Members: members}
	case *ast.FunctionType:
		params := make([]types.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = a.resolveTypeExpr(p)
			if params[i] == nil {
				return nil
			}
		}
		var ret types.Type = types.Void
		if t.ReturnType != nil {
			ret = a.resolveTypeExpr(t.ReturnType)
			if ret == nil {
				return nil
			}
		}
		return &types.FunctionType{Params: params, ReturnType: ret}
	case *ast.GenericType:
		return a.resolveGenericType(t)
	default:
		a.addError(te.Pos(), "unsupported type expression %T", te)
		return nil
	}
}

func (a *Analyzer) resolveGenericType(t *ast.GenericType) types.Type {
	args := make([]types.Type, len(t.Args))
	for i, arg := range t.Args {
		args[i] = a.resolveTypeExpr(arg)
		if args[i] == nil {
			return nil
		}
	}
	switch t.Base {
	case "Option":
		if len(args) != 1 {
			a.addError(t.Pos(), "Option takes exactly one type argument")
			return nil
		}
		return &types.OptionType{Element: args[0]}
	case "Result":
		if len(args) != 2 {
			a.addError(t.Pos(), "Result takes exactly two type arguments")
			return nil
		}
		return &types.ResultType{Ok: args[0], Err: args[1]}
	case "Task":
		if len(args) != 1 {
			a.addError(t.Pos(), "Task takes exactly one type argument")
			return nil
		}
		return &types.TaskType{Result: args[0]}
	}
	if st, ok := a.structs[t.Base]; ok {
		return &types.StructType{TypeName: st.TypeName, Fields: st.Fields, TypeArgs: args}
	}
	if et, ok := a.enums[t.Base]; ok {
		return &types.EnumType{TypeName: et.TypeName, Variants: et.Variants, TypeArgs: args}
	}
	a.addError(t.Pos(), "unknown generic type %q", t.Base)
	return nil
}

// canAssign reports whether a value of type from may be used where to is
// expected, per spec's assignability rules (identical types, nil into an
// Option, a union member into its union).
func (a *Analyzer) canAssign(from, to types.Type) bool {
	if from == nil || to == nil {
		return true // avoid cascading errors once one side already failed to resolve
	}
	return types.AssignableTo(from, to)
}

func typeName(t types.Type) string {
	if t == nil {
		return "<unknown>"
	}
	return fmt.Sprint(t.Name())
}
