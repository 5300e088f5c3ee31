package semantic

import (
	"github.com/otterlang/otterc/internal/ast"
	"github.com/otterlang/otterc/internal/types"
)

// runtimeIntrinsics lists every bare identifier that names a runtime ABI
// symbol (spec 6.3) or an emitter-adjacent helper (spec 4.5.1) directly
// callable from a stdlib .ot body, e.g. core.ot's `print` wrapping
// `otter_std_io_print`. These never go through DeclarePass/a.funcs —
// there is no Otter-level declaration for them, just a fixed signature
// known to the analyzer, the same "builtin function lowers straight to
// a runtime call" shortcut the teacher's analyze_builtin_*.go family
// uses for DWScript's System-unit functions.
var runtimeIntrinsics = map[string]*types.FunctionType{
	"otter_std_io_print":       {Params: []types.Type{types.String}, ReturnType: types.Void},
	"otter_std_io_println":     {Params: []types.Type{types.String}, ReturnType: types.Void},
	"otter_std_io_eprintln":    {Params: []types.Type{types.String}, ReturnType: types.Void},
	"otter_std_io_read_line":   {Params: nil, ReturnType: &types.OptionType{Element: types.String}},
	"otter_std_time_now_ms":    {Params: nil, ReturnType: types.Int},
	"otter_math_sqrt":          {Params: []types.Type{types.Float}, ReturnType: types.Float},
	"otter_math_floor":         {Params: []types.Type{types.Float}, ReturnType: types.Float},
	"otter_math_ceil":          {Params: []types.Type{types.Float}, ReturnType: types.Float},
	"otter_runtime_version":    {Params: nil, ReturnType: types.String},
	"otter_runtime_gc_collect": {Params: nil, ReturnType: types.Void},
}

// checkIntrinsicCall type-checks a call to a runtimeIntrinsics entry: it
// still walks and records every argument's type (so later passes see a
// fully annotated tree) but checks arity/argument types against ft
// rather than requiring name to resolve through the symbol table.
func (a *Analyzer) checkIntrinsicCall(argExprs []ast.Expression, ft *types.FunctionType) types.Type {
	if len(argExprs) != len(ft.Params) {
		if len(argExprs) > 0 {
			a.addError(argExprs[0].Pos(), "expected %d argument(s), got %d", len(ft.Params), len(argExprs))
		}
	}
	for i, arg := range argExprs {
		if i < len(ft.Params) {
			a.checkExpr(arg, ft.Params[i])
		} else {
			a.inferExpr(arg)
		}
	}
	return ft.ReturnType
}
