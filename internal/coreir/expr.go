package coreir

import "github.com/otterlang/otterc/internal/types"

// IntLit, FloatLit, StringLit, BoolLit, NilLit are constant leaves.
type IntLit struct {
	Value int64
}

func (*IntLit) irNode()          {}
func (*IntLit) exprNode()        {}
func (*IntLit) Type() types.Type { return types.Int }

type FloatLit struct {
	Value float64
}

func (*FloatLit) irNode()          {}
func (*FloatLit) exprNode()        {}
func (*FloatLit) Type() types.Type { return types.Float }

type StringLit struct {
	Value string
}

func (*StringLit) irNode()          {}
func (*StringLit) exprNode()        {}
func (*StringLit) Type() types.Type { return types.String }

type BoolLit struct {
	Value bool
}

func (*BoolLit) irNode()          {}
func (*BoolLit) exprNode()        {}
func (*BoolLit) Type() types.Type { return types.Bool }

// NilLit represents the nil Option value; its static type is carried
// separately since `nil` alone doesn't determine an element type.
type NilLit struct {
	OptionType types.Type
}

func (n *NilLit) irNode()          {}
func (n *NilLit) exprNode()        {}
func (n *NilLit) Type() types.Type { return n.OptionType }

// Ident references a local slot: a parameter, let-binding, or pattern
// binding introduced by an enclosing DecisionTree/For/comprehension.
type Ident struct {
	Name string
	Typ  types.Type
}

func (*Ident) irNode()          {}
func (*Ident) exprNode()        {}
func (i *Ident) Type() types.Type { return i.Typ }

// Unary applies Op ("-" or "not") to Operand.
type Unary struct {
	Op      string
	Operand Expr
	Typ     types.Type
}

func (*Unary) irNode()          {}
func (*Unary) exprNode()        {}
func (u *Unary) Type() types.Type { return u.Typ }

// Binary applies Op to Left/Right. Integer "**" has already been split
// into IPow/FPow by desugaring (see Op constants below) rather than
// staying a generic "**" the emitter would have to re-dispatch on.
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
	Typ   types.Type
}

func (*Binary) irNode()          {}
func (*Binary) exprNode()        {}
func (b *Binary) Type() types.Type { return b.Typ }

// Binary operator spellings core-IR uses. Most are carried over
// unchanged from the surface operator; IPow/FPow are the desugared
// split of surface "**" per the exponentiation rule, and Concat is the
// desugared join underlying every f-string.
const (
	OpAdd   = "+"
	OpSub   = "-"
	OpMul   = "*"
	OpDiv   = "/"
	OpMod   = "%"
	OpEq    = "=="
	OpNe    = "!="
	OpLt    = "<"
	OpLe    = "<="
	OpGt    = ">"
	OpGe    = ">="
	OpAnd   = "and"
	OpOr    = "or"
	OpIPow  = "ipow"
	OpFPow  = "fpow"
	OpConcat = "concat"
)

// Call invokes a resolved function by name (already mangled, for a
// monomorphized generic) with fully typed arguments.
type Call struct {
	Callee string
	Args   []Expr
	Typ    types.Type
	// Raises mirrors the callee Func's Raises flag, copied here so the
	// emitter doesn't need the whole module to decide whether this call
	// site needs a post-call error check.
	Raises bool
}

func (*Call) irNode()          {}
func (*Call) exprNode()        {}
func (c *Call) Type() types.Type { return c.Typ }

// CallValue invokes a first-class function value (a closure produced
// by a LambdaExpr or stored in a variable), as opposed to Call's
// statically resolved direct callee.
type CallValue struct {
	Callee Expr
	Args   []Expr
	Typ    types.Type
}

func (*CallValue) irNode()          {}
func (*CallValue) exprNode()        {}
func (c *CallValue) Type() types.Type { return c.Typ }

// FieldAccess projects a struct field by stable declaration index
// (matching spec 4.5's "field indices are stable" layout rule), rather
// than by name, so the emitter never re-derives layout at use sites.
type FieldAccess struct {
	Object Expr
	Field  string
	Index  int
	Typ    types.Type
}

func (*FieldAccess) irNode()          {}
func (*FieldAccess) exprNode()        {}
func (f *FieldAccess) Type() types.Type { return f.Typ }

// IndexList reads Array[Index].
type IndexList struct {
	Object Expr
	Index  Expr
	Typ    types.Type
}

func (*IndexList) irNode()          {}
func (*IndexList) exprNode()        {}
func (x *IndexList) Type() types.Type { return x.Typ }

// IndexDict reads Dict[Index], producing an Option-wrapped value.
type IndexDict struct {
	Object Expr
	Index  Expr
	Typ    types.Type // always an OptionType
}

func (*IndexDict) irNode()          {}
func (*IndexDict) exprNode()        {}
func (x *IndexDict) Type() types.Type { return x.Typ }

// ListLit builds an array value from Elements.
type ListLit struct {
	Elements []Expr
	Typ      types.Type
}

func (*ListLit) irNode()          {}
func (*ListLit) exprNode()        {}
func (l *ListLit) Type() types.Type { return l.Typ }

// DictEntry is one key/value pair of a DictLit.
type DictEntry struct {
	Key   Expr
	Value Expr
}

// DictLit builds a dict value from Entries.
type DictLit struct {
	Entries []DictEntry
	Typ     types.Type
}

func (*DictLit) irNode()          {}
func (*DictLit) exprNode()        {}
func (d *DictLit) Type() types.Type { return d.Typ }

// FieldInit is one `name: value` pair of a StructLit.
type FieldInit struct {
	Name  string
	Index int
	Value Expr
}

// StructLit builds a struct value field-by-field, in declaration order.
type StructLit struct {
	Fields []FieldInit
	Typ    types.Type
}

func (*StructLit) irNode()          {}
func (*StructLit) exprNode()        {}
func (s *StructLit) Type() types.Type { return s.Typ }

// MakeEnum constructs a tagged enum value: the variant's declaration
// index (the tag, per spec 4.5's upper-32-bits encoding) plus its
// payload expressions in positional order.
type MakeEnum struct {
	EnumName    string
	VariantName string
	Tag         int32
	Payload     []Expr
	Typ         types.Type
}

func (*MakeEnum) irNode()          {}
func (*MakeEnum) exprNode()        {}
func (m *MakeEnum) Type() types.Type { return m.Typ }

// Lambda is a closure literal: Captures names the enclosing locals it
// closes over (resolved by the analyzer, not re-derived by the
// emitter), Params/Body describe the function itself.
type Lambda struct {
	Captures []string
	Params   []Param
	Body     []Stmt
	Expr     Expr // non-nil for a single-expression lambda body
	Typ      types.Type
}

func (*Lambda) irNode()          {}
func (*Lambda) exprNode()        {}
func (l *Lambda) Type() types.Type { return l.Typ }

// TaskSpawn lowers `spawn expr` into a call to the task runtime's
// creation intrinsic with a zero-argument closure.
type TaskSpawn struct {
	Body []Stmt
	Expr Expr // the spawned call's result expression, run inside Body's closure
	Typ  types.Type // always a TaskType
}

func (*TaskSpawn) irNode()          {}
func (*TaskSpawn) exprNode()        {}
func (t *TaskSpawn) Type() types.Type { return t.Typ }

// TaskAwait lowers `await task` into a blocking wait on the handle,
// followed by an error-flag check that rethrows if the task raised.
type TaskAwait struct {
	Task Expr
	Typ  types.Type
}

func (*TaskAwait) irNode()          {}
func (*TaskAwait) exprNode()        {}
func (t *TaskAwait) Type() types.Type { return t.Typ }

// DecisionTreeExpr is the expression-producing form of a desugared
// match: the arrow-arm form, usable wherever an expression is expected.
// See Stmt's DecisionTree for the block-arm statement form; the two
// share the same Case shape.
type DecisionTreeExpr struct {
	Subject Expr
	Cases   []CaseExpr
	Typ     types.Type
}

func (*DecisionTreeExpr) irNode()          {}
func (*DecisionTreeExpr) exprNode()        {}
func (d *DecisionTreeExpr) Type() types.Type { return d.Typ }

// CaseExpr is one test-and-produce arm of a DecisionTreeExpr. A pattern
// of arbitrary nesting depth (an enum variant whose payload is itself
// destructured by a struct pattern, a list pattern holding enum
// patterns, ...) desugars to a flat list of Conds, each anchored at a
// Path relative to the case's subject, ANDed together — rather than a
// single shape test, since a nested pattern is really a conjunction of
// independent shape tests at different projections of the same value.
type CaseExpr struct {
	Conds  []Cond
	Binds  []Bind
	Guard  Expr // non-nil for a guarded arm
	Result Expr
}

// Cond is one shape test in a case's conjunction: "the value reached
// by following Path from the subject has this shape".
type Cond struct {
	Path []Projection
	Kind TestKind
	// For KindTag: the expected variant tag.
	Tag int32
	// For KindEqual: the literal to compare against.
	Literal Expr
	// For KindLenExact/KindLenAtLeast: the required/minimum list length.
	Len int
}

type TestKind int

const (
	KindAlways TestKind = iota
	KindEqual
	KindTag
	KindLenExact
	KindLenAtLeast
)

// Bind is one name a matched case introduces, aliasing the value
// reached by following Path from the subject.
type Bind struct {
	Name string
	Typ  types.Type
	Path []Projection
}

// Projection is a single step extracting a sub-value: an enum payload
// field, a struct field, a list element, or a list's tail (the "rest"
// capture of `[first, ...rest]`).
type Projection struct {
	Kind  ProjectionKind
	Index int    // enum payload index / list element index
	Field string // struct field name
}

type ProjectionKind int

const (
	ProjectEnumField ProjectionKind = iota
	ProjectStructField
	ProjectListElement
	ProjectListRest
)
