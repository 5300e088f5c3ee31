// Package types implements OtterLang's type system: primitives,
// structs, enums, arrays, dicts, function types, and the Option/Result/
// Task wrapper types, plus the unification/compatibility rules the
// analyzer's bidirectional inference pass drives off of.
package types

import (
	"fmt"
	"strings"
)

// Type is implemented by every concrete type the analyzer can assign to
// an expression.
type Type interface {
	// Name returns the type's canonical display spelling.
	Name() string
	// Equals reports whether other is the identical type.
	Equals(other Type) bool
	typeNode()
}

// Kind classifies a Type without needing a full type switch, used by the
// IR emitter to pick a storage representation.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindString
	KindNil
	KindArray
	KindDict
	KindStruct
	KindEnum
	KindFunction
	KindOption
	KindResult
	KindTask
	KindUnion
	KindTypeParam
	KindVoid
)

// Primitive is one of OtterLang's built-in scalar types.
type Primitive struct {
	kind Kind
	name string
}

func (p *Primitive) Name() string { return p.name }
func (p *Primitive) Equals(other Type) bool {
	o, ok := other.(*Primitive)
	return ok && o.kind == p.kind
}
func (p *Primitive) Kind() Kind { return p.kind }
func (p *Primitive) typeNode()  {}

var (
	Int    = &Primitive{kind: KindInt, name: "Int"}
	Float  = &Primitive{kind: KindFloat, name: "Float"}
	Bool   = &Primitive{kind: KindBool, name: "Bool"}
	String = &Primitive{kind: KindString, name: "String"}
	Nil    = &Primitive{kind: KindNil, name: "Nil"}
	Void   = &Primitive{kind: KindVoid, name: "Void"}
)

// byName indexes the primitives for case-sensitive lookup from a
// parsed NamedType spelling.
var byName = map[string]*Primitive{
	"Int": Int, "Float": Float, "Bool": Bool, "String": String,
	"Nil": Nil, "Void": Void,
}

// LookupPrimitive returns the primitive type named n, if any.
func LookupPrimitive(n string) (Type, bool) {
	t, ok := byName[n]
	return t, ok
}

// ArrayType is a homogeneous ordered list: [Element].
type ArrayType struct {
	Element Type
}

func (a *ArrayType) Name() string { return "[" + a.Element.Name() + "]" }
func (a *ArrayType) Equals(other Type) bool {
	o, ok := other.(*ArrayType)
	return ok && a.Element.Equals(o.Element)
}
func (a *ArrayType) typeNode() {}

// DictType is a key-to-value mapping: {Key: Value}.
type DictType struct {
	Key   Type
	Value Type
}

func (d *DictType) Name() string { return "{" + d.Key.Name() + ": " + d.Value.Name() + "}" }
func (d *DictType) Equals(other Type) bool {
	o, ok := other.(*DictType)
	return ok && d.Key.Equals(o.Key) && d.Value.Equals(o.Value)
}
func (d *DictType) typeNode() {}

// StructField is one named, typed member of a StructType.
type StructField struct {
	Name string
	Type Type
}

// StructType is a nominal product type, optionally instantiated from a
// generic declaration with concrete TypeArgs.
type StructType struct {
	TypeName string
	Fields   []StructField
	TypeArgs []Type // empty for a non-generic struct
}

func (s *StructType) Name() string {
	if len(s.TypeArgs) == 0 {
		return s.TypeName
	}
	parts := make([]string, len(s.TypeArgs))
	for i, a := range s.TypeArgs {
		parts[i] = a.Name()
	}
	return s.TypeName + "[" + strings.Join(parts, ", ") + "]"
}
func (s *StructType) Equals(other Type) bool {
	o, ok := other.(*StructType)
	if !ok || s.TypeName != o.TypeName || len(s.TypeArgs) != len(o.TypeArgs) {
		return false
	}
	for i := range s.TypeArgs {
		if !s.TypeArgs[i].Equals(o.TypeArgs[i]) {
			return false
		}
	}
	return true
}
func (s *StructType) typeNode() {}

// FieldByName returns the field named n, if present.
func (s *StructType) FieldByName(n string) (StructField, bool) {
	for _, f := range s.Fields {
		if f.Name == n {
			return f, true
		}
	}
	return StructField{}, false
}

// EnumVariant is one tagged alternative of an EnumType, with its payload
// field types in declaration order.
type EnumVariant struct {
	Name   string
	Tag    int32 // packed into the upper 32 bits of the enum's i64 representation
	Fields []Type
}

// EnumType is a nominal sum type: a closed set of tagged variants, each
// optionally carrying a payload.
type EnumType struct {
	TypeName string
	Variants []EnumVariant
	TypeArgs []Type
}

func (e *EnumType) Name() string {
	if len(e.TypeArgs) == 0 {
		return e.TypeName
	}
	parts := make([]string, len(e.TypeArgs))
	for i, a := range e.TypeArgs {
		parts[i] = a.Name()
	}
	return e.TypeName + "[" + strings.Join(parts, ", ") + "]"
}
func (e *EnumType) Equals(other Type) bool {
	o, ok := other.(*EnumType)
	if !ok || e.TypeName != o.TypeName || len(e.TypeArgs) != len(o.TypeArgs) {
		return false
	}
	for i := range e.TypeArgs {
		if !e.TypeArgs[i].Equals(o.TypeArgs[i]) {
			return false
		}
	}
	return true
}
func (e *EnumType) typeNode() {}

// VariantByName returns the variant named n, if present.
func (e *EnumType) VariantByName(n string) (EnumVariant, bool) {
	for _, v := range e.Variants {
		if v.Name == n {
			return v, true
		}
	}
	return EnumVariant{}, false
}

// FunctionType is a first-class function's signature.
type FunctionType struct {
	Params     []Type
	ReturnType Type
}

func (f *FunctionType) Name() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.Name()
	}
	ret := "Void"
	if f.ReturnType != nil {
		ret = f.ReturnType.Name()
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + ret
}
func (f *FunctionType) Equals(other Type) bool {
	o, ok := other.(*FunctionType)
	if !ok || len(f.Params) != len(o.Params) {
		return false
	}
	for i := range f.Params {
		if !f.Params[i].Equals(o.Params[i]) {
			return false
		}
	}
	if (f.ReturnType == nil) != (o.ReturnType == nil) {
		return false
	}
	return f.ReturnType == nil || f.ReturnType.Equals(o.ReturnType)
}
func (f *FunctionType) typeNode() {}

// OptionType wraps a value that may be absent: Option[T].
type OptionType struct{ Element Type }

func (o *OptionType) Name() string { return "Option[" + o.Element.Name() + "]" }
func (o *OptionType) Equals(other Type) bool {
	t, ok := other.(*OptionType)
	return ok && o.Element.Equals(t.Element)
}
func (o *OptionType) typeNode() {}

// ResultType wraps a value that may instead be an error: Result[T, E].
type ResultType struct {
	Ok  Type
	Err Type
}

func (r *ResultType) Name() string { return "Result[" + r.Ok.Name() + ", " + r.Err.Name() + "]" }
func (r *ResultType) Equals(other Type) bool {
	t, ok := other.(*ResultType)
	return ok && r.Ok.Equals(t.Ok) && r.Err.Equals(t.Err)
}
func (r *ResultType) typeNode() {}

// TaskType is the handle returned by `spawn`, awaited to obtain Result.
type TaskType struct{ Result Type }

func (t *TaskType) Name() string { return "Task[" + t.Result.Name() + "]" }
func (t *TaskType) Equals(other Type) bool {
	o, ok := other.(*TaskType)
	return ok && t.Result.Equals(o.Result)
}
func (t *TaskType) typeNode() {}

// UnionType is a closed alternative among Members, spelled `A | B | C`.
type UnionType struct{ Members []Type }

func (u *UnionType) Name() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.Name()
	}
	return strings.Join(parts, " | ")
}
func (u *UnionType) Equals(other Type) bool {
	o, ok := other.(*UnionType)
	if !ok || len(u.Members) != len(o.Members) {
		return false
	}
	for i := range u.Members {
		if !u.Members[i].Equals(o.Members[i]) {
			return false
		}
	}
	return true
}
func (u *UnionType) typeNode() {}

// Contains reports whether u includes t as one of its alternatives.
func (u *UnionType) Contains(t Type) bool {
	for _, m := range u.Members {
		if m.Equals(t) {
			return true
		}
	}
	return false
}

// TypeParam is an unresolved generic type parameter, e.g. the `T` in a
// generic function/struct/enum declaration before monomorphization
// substitutes it with a concrete type.
type TypeParam struct{ ParamName string }

func (tp *TypeParam) Name() string { return tp.ParamName }
func (tp *TypeParam) Equals(other Type) bool {
	o, ok := other.(*TypeParam)
	return ok && tp.ParamName == o.ParamName
}
func (tp *TypeParam) typeNode() {}

// AssignableTo reports whether a value of type from may be used where a
// value of type to is expected: identical types, Nil into any Option,
// or a member type into the union that contains it.
func AssignableTo(from, to Type) bool {
	if from.Equals(to) {
		return true
	}
	if _, isNil := from.(*Primitive); isNil && from == Nil {
		if _, ok := to.(*OptionType); ok {
			return true
		}
	}
	if u, ok := to.(*UnionType); ok {
		return u.Contains(from)
	}
	return false
}

// Substitute replaces every TypeParam in t according to subst, used by
// the monomorphizer to specialize a generic declaration's body for a
// concrete set of type arguments.
func Substitute(t Type, subst map[string]Type) Type {
	switch v := t.(type) {
	case *TypeParam:
		if concrete, ok := subst[v.ParamName]; ok {
			return concrete
		}
		return v
	case *ArrayType:
		return &ArrayType{Element: Substitute(v.Element, subst)}
	case *DictType:
		return &DictType{Key: Substitute(v.Key, subst), Value: Substitute(v.Value, subst)}
	case *OptionType:
		return &OptionType{Element: Substitute(v.Element, subst)}
	case *ResultType:
		return &ResultType{Ok: Substitute(v.Ok, subst), Err: Substitute(v.Err, subst)}
	case *TaskType:
		return &TaskType{Result: Substitute(v.Result, subst)}
	case *FunctionType:
		params := make([]Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = Substitute(p, subst)
		}
		var ret Type
		if v.ReturnType != nil {
			ret = Substitute(v.ReturnType, subst)
		}
		return &FunctionType{Params: params, ReturnType: ret}
	case *UnionType:
		members := make([]Type, len(v.Members))
		for i, m := range v.Members {
			members[i] = Substitute(m, subst)
		}
		return &UnionType{Members: members}
	case *StructType:
		args := make([]Type, len(v.TypeArgs))
		for i, a := range v.TypeArgs {
			args[i] = Substitute(a, subst)
		}
		return &StructType{TypeName: v.TypeName, Fields: v.Fields, TypeArgs: args}
	case *EnumType:
		args := make([]Type, len(v.TypeArgs))
		for i, a := range v.TypeArgs {
			args[i] = Substitute(a, subst)
		}
		return &EnumType{TypeName: v.TypeName, Variants: v.Variants, TypeArgs: args}
	default:
		return t
	}
}

// MonomorphKey builds the memoization key for a generic instantiation
// from its ordered type-argument tuple, so the same (declaration,
// type-args) pair is only ever specialized once.
func MonomorphKey(declName string, typeArgs []Type) string {
	var b strings.Builder
	b.WriteString(declName)
	for _, a := range typeArgs {
		b.WriteString("#")
		b.WriteString(a.Name())
	}
	return b.String()
}

// Display renders t's name for diagnostics, or "<unknown>" for a nil t.
func Display(t Type) string {
	if t == nil {
		return "<unknown>"
	}
	return fmt.Sprint(t.Name())
}
