package semantic

import "github.com/otterlang/otterc/internal/ast"

// Pass is a single semantic analysis pass over a resolved module.
//
// The multi-pass split exists so declarations can be registered (structs,
// enums, function signatures) before any function body is type-checked,
// which is what lets a function call another declared later in the same
// module, or a struct embed a field typed by a struct declared after it.
type Pass interface {
	// Name identifies the pass for diagnostics and test failure messages.
	Name() string
	// Run executes the pass against mod, reading and writing the shared
	// Analyzer state (symbol table, type registry, diagnostics). It never
	// restructures the AST, only annotates it (TypeAnnotation slots) and
	// records errors.
	Run(a *Analyzer, mod *ast.Module)
}

// PassManager runs a fixed sequence of passes over one module.
type PassManager struct {
	passes []Pass
}

// NewPassManager builds a manager that runs passes in the given order.
func NewPassManager(passes ...Pass) *PassManager {
	return &PassManager{passes: passes}
}

// RunAll runs every pass in order, stopping early once the analyzer has
// accumulated hard errors, since type-checking a body whose declarations
// failed to register tends to cascade into noise rather than useful
// diagnostics.
func (pm *PassManager) RunAll(a *Analyzer, mod *ast.Module) {
	for _, pass := range pm.passes {
		pass.Run(a, mod)
		if a.errs.HasErrors() {
			return
		}
	}
}
