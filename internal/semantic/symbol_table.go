package semantic

import "github.com/otterlang/otterc/internal/types"

// Symbol is a single name visible in some scope: a let-binding, a
// function, a parameter, or a generic type parameter.
type Symbol struct {
	Name     string
	Type     types.Type
	ReadOnly bool
	IsConst  bool
	Value    any // compile-time constant value, for IsConst symbols
}

// SymbolTable manages symbols and scopes during semantic analysis,
// mirroring a function's/block's lexical nesting one-to-one.
type SymbolTable struct {
	symbols map[string]*Symbol
	outer   *SymbolTable
}

// NewSymbolTable creates a fresh top-level (module) scope.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

// NewEnclosedSymbolTable opens a nested scope inside outer, used for
// function bodies, block statements, and match arm bindings.
func NewEnclosedSymbolTable(outer *SymbolTable) *SymbolTable {
	st := NewSymbolTable()
	st.outer = outer
	return st
}

// Define binds name to typ in the current scope.
func (st *SymbolTable) Define(name string, typ types.Type) {
	st.symbols[name] = &Symbol{Name: name, Type: typ}
}

// DefineReadOnly binds name as an immutable symbol (a function parameter,
// a loop variable, a match-arm binding).
func (st *SymbolTable) DefineReadOnly(name string, typ types.Type) {
	st.symbols[name] = &Symbol{Name: name, Type: typ, ReadOnly: true}
}

// DefineConst binds name as a compile-time constant with a known value.
func (st *SymbolTable) DefineConst(name string, typ types.Type, value any) {
	st.symbols[name] = &Symbol{Name: name, Type: typ, ReadOnly: true, IsConst: true, Value: value}
}

// Resolve looks up name in this scope or any enclosing one.
func (st *SymbolTable) Resolve(name string) (*Symbol, bool) {
	if sym, ok := st.symbols[name]; ok {
		return sym, true
	}
	if st.outer != nil {
		return st.outer.Resolve(name)
	}
	return nil, false
}

// IsDeclaredInCurrentScope reports whether name is bound directly in this
// scope, ignoring enclosing scopes (used to reject shadowing re-declares
// within the same block).
func (st *SymbolTable) IsDeclaredInCurrentScope(name string) bool {
	_, ok := st.symbols[name]
	return ok
}
