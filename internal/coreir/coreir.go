// Package coreir is OtterLang's desugared, fully typed intermediate
// tree: the output of the semantic analyzer and the input to the IR
// emitter (internal/irgen) and the reference evaluator (internal/exec).
//
// Every surface construct that needed special-casing in the parser or
// analyzer has been reduced to a small, uniform node set by the time a
// program reaches this package: f-strings are concat/str chains, match
// is a decision tree of tag/equality tests, try/except/finally is an
// explicit error-context push/pop around landing pads, and generic
// calls have already been resolved to a specific monomorphized Func.
package coreir

import "github.com/otterlang/otterc/internal/types"

// Module is one compiled unit: its struct/enum layouts and every
// function body reachable from it, including monomorphized
// specializations of generic functions (each given its own mangled
// Func entry rather than being emitted once and parameterized).
type Module struct {
	Name    string
	Structs []*types.StructType
	Enums   []*types.EnumType
	Funcs   []*Func
}

// Param is one function parameter: a stable slot name the body's Ident
// nodes reference.
type Param struct {
	Name string
	Type types.Type
}

// Func is a single fully typed, desugared function body. Name is the
// mangled name for a monomorphized generic instantiation (see
// semantic.Instantiation), or the plain declared name otherwise.
type Func struct {
	Name       string
	Params     []Param
	ReturnType types.Type
	Body       []Stmt
	// Raises is true when the function body contains a construct that
	// can set the runtime's error flag (raise, or a call to a function
	// for which Raises is true), so the emitter knows to insert a
	// post-call error check after every call site.
	Raises bool
}

// Node is the base of every core-IR node, mirroring ast.Node.
type Node interface {
	irNode()
}

// Stmt is a core-IR statement.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is a core-IR expression, always fully typed (Type() never
// returns nil for a well-formed tree).
type Expr interface {
	Node
	exprNode()
	Type() types.Type
}
