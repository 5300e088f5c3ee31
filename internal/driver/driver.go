// Package driver wires the compilation stages — internal/resolver,
// internal/semantic, internal/irgen, internal/exec, internal/runtimeabi
// — into the entry points a CLI collaborator needs: Compile (emit
// textual IR) and Run (execute directly via the reference evaluator).
// Grounded on the teacher's own cmd/dwscript/cmd package, which
// likewise drives the same lexer → parser → semantic.Analyzer →
// (bytecode compiler | tree-walking interp) sequence this package now
// drives for a multi-module program instead of a single file.
package driver

import (
	"path/filepath"
	"strings"

	"github.com/otterlang/otterc/internal/coreir"
	"github.com/otterlang/otterc/internal/errorsx"
	"github.com/otterlang/otterc/internal/irgen"
	"github.com/otterlang/otterc/internal/resolver"
	"github.com/otterlang/otterc/internal/semantic"
	"github.com/otterlang/otterc/internal/stdlib"
	"github.com/otterlang/otterc/internal/token"
	"github.com/otterlang/otterc/internal/types"
)

// Diagnostics is returned by every stage that can fail with user-facing
// compiler errors: the caller formats it (errorsx.FormatAll, via Error)
// and exits non-zero, per spec §7's error-reporting convention.
type Diagnostics []*errorsx.Diagnostic

func (d Diagnostics) Error() string { return errorsx.FormatAll(d, false) }

// LinkedModule resolves, analyzes, and lowers every module reachable
// from entryFile into a single coreir.Module: the shape both
// internal/irgen.Emit and internal/exec.New expect, per coreir.Module's
// own doc comment ("every function body reachable from it"). stdlibPath
// is config.Config.StdlibPath — empty selects the compiler's embedded
// standard library sources.
func LinkedModule(entryFile, stdlibPath string) (*coreir.Module, Diagnostics) {
	loader := workspaceLoader{
		root:      filepath.Dir(entryFile),
		entryFile: entryFile,
		stdlib:    stdlib.Loader{Root: stdlibPath},
	}

	rootErrs := errorsx.NewCollector("", entryFile)
	res := resolver.New(loader, rootErrs)
	graph, err := res.Resolve(entryPath)
	if err != nil {
		return nil, Diagnostics{errorsx.New(token.Position{}, err.Error(), "", entryFile)}
	}
	if rootErrs.HasErrors() {
		return nil, rootErrs.Diagnostics()
	}

	order := ensureCoreFirst(graph)

	analyzed := make(map[string]*semantic.Analyzer, len(order))
	lowered := make(map[string]*coreir.Module, len(order))
	var allDiags []*errorsx.Diagnostic

	for _, key := range order {
		mod, ok := graph.Modules[key]
		if !ok {
			// core was force-included but nothing in the program
			// actually resolved it; nothing to analyze.
			continue
		}

		imports := buildImports(key, mod, analyzed)

		modErrs := errorsx.NewCollector("", mod.File)
		a := semantic.AnalyzeWithImports(mod.AST, modErrs, imports)
		allDiags = append(allDiags, modErrs.Diagnostics()...)
		analyzed[key] = a
		lowered[key] = semantic.Lower(mod.AST, a)
	}

	if len(allDiags) > 0 {
		return nil, allDiags
	}

	return mergeModules(order, lowered), nil
}

// Compile lowers entryFile's program and emits its textual IR at the
// given optimization level (config.Config.OptLevel), the Compile entry
// point a `build`/`emit-ir` CLI subcommand calls directly.
func Compile(entryFile, stdlibPath string, optLevel int) (string, Diagnostics) {
	mod, diags := LinkedModule(entryFile, stdlibPath)
	if diags != nil {
		return "", diags
	}
	out := irgen.Emit(mod, irgen.Options{OptLevel: optLevel})
	return out.String(), nil
}

// ensureCoreFirst returns graph.Order with "core" prepended if it isn't
// already present: every module but core itself gets an implicit
// prelude of core's exported functions (bare print/println/str calls
// have no visible `use` anywhere in a surface program), so core must be
// resolved and analyzed even when nothing explicitly imports it.
func ensureCoreFirst(graph *resolver.Graph) []string {
	for _, k := range graph.Order {
		if k == "core" {
			return graph.Order
		}
	}
	if _, ok := graph.Modules["core"]; !ok {
		return graph.Order
	}
	return append([]string{"core"}, graph.Order...)
}

// buildImports assembles the Imports a module's analysis pass seeds its
// scope with: the core prelude (every module but core itself) plus, for
// each of the module's own `use` declarations, the requested names (or
// every public name, for a bare `use M` with no name list) pulled from
// that dependency's already-completed Analyzer. Dependencies are looked
// up by trying progressively shorter prefixes of the use path against
// already-analyzed module keys, mirroring internal/resolver's own
// splitUsePath (the module/symbol-name split isn't re-exposed by the
// resolver, so the driver re-derives it the same way against modules it
// has already analyzed rather than ones the loader can merely load).
func buildImports(key string, mod *resolver.Module, analyzed map[string]*semantic.Analyzer) *semantic.Imports {
	imports := &semantic.Imports{
		Structs: map[string]*types.StructType{},
		Enums:   map[string]*types.EnumType{},
		Funcs:   map[string]*types.FunctionType{},
	}

	if key != "core" {
		if core, ok := analyzed["core"]; ok {
			for name, ft := range core.Funcs() {
				imports.Funcs[name] = ft
			}
		}
	}

	for _, u := range mod.AST.Uses {
		depKey, trailing := splitAnalyzedPrefix(u.Path, analyzed)
		dep, ok := analyzed[depKey]
		if !ok {
			continue
		}
		names := u.Names
		if len(names) == 0 && len(trailing) > 0 {
			names = trailing
		}
		if len(names) == 0 {
			for name, ft := range dep.Funcs() {
				imports.Funcs[name] = ft
			}
			for name, st := range dep.Structs() {
				imports.Structs[name] = st
			}
			for name, et := range dep.Enums() {
				imports.Enums[name] = et
			}
			continue
		}
		for _, name := range names {
			if ft, ok := dep.Funcs()[name]; ok {
				imports.Funcs[name] = ft
			}
			if st, ok := dep.Structs()[name]; ok {
				imports.Structs[name] = st
			}
			if et, ok := dep.Enums()[name]; ok {
				imports.Enums[name] = et
			}
		}
	}

	return imports
}

// splitAnalyzedPrefix finds the longest prefix of full that names an
// already-analyzed module, returning its key and the leftover suffix
// (the `.n` in `use M.n as k`, paralleling internal/resolver's own
// splitUsePath).
func splitAnalyzedPrefix(full []string, analyzed map[string]*semantic.Analyzer) (key string, trailing []string) {
	for i := len(full); i >= 1; i-- {
		k := strings.Join(full[:i], ".")
		if _, ok := analyzed[k]; ok {
			return k, full[i:]
		}
	}
	return "", nil
}

// mergeModules flattens every module's lowered coreir.Module into one
// linked program, in dependency order, deduplicating struct/enum/func
// declarations by name: a dependency's types are shared *types.StructType/
// *types.EnumType pointers (semantic.Imports.Structs/Enums carries them
// by reference, not by copy), so the first module to declare a given
// name owns its single registration — every importer's own lowered
// Structs/Enums slice would otherwise just repeat the same pointer.
func mergeModules(order []string, lowered map[string]*coreir.Module) *coreir.Module {
	merged := &coreir.Module{Name: "__main__"}
	seenStruct := map[string]bool{}
	seenEnum := map[string]bool{}
	seenFunc := map[string]bool{}

	for _, key := range order {
		m, ok := lowered[key]
		if !ok {
			continue
		}
		for _, st := range m.Structs {
			if !seenStruct[st.TypeName] {
				seenStruct[st.TypeName] = true
				merged.Structs = append(merged.Structs, st)
			}
		}
		for _, et := range m.Enums {
			if !seenEnum[et.TypeName] {
				seenEnum[et.TypeName] = true
				merged.Enums = append(merged.Enums, et)
			}
		}
		for _, fn := range m.Funcs {
			if !seenFunc[fn.Name] {
				seenFunc[fn.Name] = true
				merged.Funcs = append(merged.Funcs, fn)
			}
		}
	}
	return merged
}
