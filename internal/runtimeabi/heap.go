package runtimeabi

import "fmt"

// ArrayValue is the reference representation of spec 4.5's array
// layout ({ len, cap, data }): a Go slice of boxed elements, since
// this tree-walking reference implementation has no native memory
// layout to honor.
type ArrayValue struct {
	Elems []any
}

func OtterArrayNew(capacity int64) *ArrayValue {
	return &ArrayValue{Elems: make([]any, 0, capacity)}
}

func OtterArrayGet(a *ArrayValue, index int64) any {
	checkArrayBounds(a, index)
	return a.Elems[index]
}

func OtterArraySet(a *ArrayValue, index int64, v any) {
	checkArrayBounds(a, index)
	a.Elems[index] = v
}

func OtterArrayPush(a *ArrayValue, v any) {
	a.Elems = append(a.Elems, v)
}

func OtterArrayLength(a *ArrayValue) int64 {
	return int64(len(a.Elems))
}

// OtterArrayElemHandle backs match.go's projectIntermediate for a
// ProjectListElement step: the "opaque handle" internal/irgen's doc
// comment describes is, on this side of the ABI boundary, simply the
// boxed element value itself — there is no literal packed-integer
// handle to decode here, only the same element projectLeaf would
// eventually read.
func OtterArrayElemHandle(a *ArrayValue, index int64) any {
	checkArrayBounds(a, index)
	return a.Elems[index]
}

// OtterArrayRestHandle backs a ProjectListRest step: the remainder of
// the array from index onward, as a fresh ArrayValue sharing the
// original's backing slice.
func OtterArrayRestHandle(a *ArrayValue, index int64) *ArrayValue {
	if index > int64(len(a.Elems)) {
		panic(fmt.Sprintf("runtimeabi: array rest index %d out of bounds (len %d)", index, len(a.Elems)))
	}
	return &ArrayValue{Elems: a.Elems[index:]}
}

// OtterArraySliceFrom is projectLeaf's typed counterpart of
// OtterArrayRestHandle, used when a rest-pattern binding materializes
// its own array value rather than just an intermediate handle.
func OtterArraySliceFrom(a *ArrayValue, index int64) *ArrayValue {
	return OtterArrayRestHandle(a, index)
}

func checkArrayBounds(a *ArrayValue, index int64) {
	if index < 0 || index >= int64(len(a.Elems)) {
		panic(fmt.Sprintf("runtimeabi: array index %d out of bounds (len %d)", index, len(a.Elems)))
	}
}

// DictValue is an opaque runtime handle over a Go map, per spec 4.5's
// "dicts are opaque runtime handles" — callers never see a layout,
// only get/set.
type DictValue struct {
	entries map[any]any
}

func OtterDictNew() *DictValue {
	return &DictValue{entries: make(map[any]any)}
}

func OtterDictGet(d *DictValue, key any) any {
	return d.entries[key]
}

func OtterDictSet(d *DictValue, key any, v any) {
	d.entries[key] = v
}

// Range visits every entry; used by internal/stdlib/json to walk a
// dict's contents when stringifying it, since entries is unexported
// and dict iteration order doesn't matter to JSON object encoding.
func (d *DictValue) Range(fn func(key, value any)) {
	for k, v := range d.entries {
		fn(k, v)
	}
}

// StructValue is a struct instance: a stable layout id (matching
// internal/irgen.moduleEmitter's declaration-index assignment) plus
// its fields in declaration order.
type StructValue struct {
	LayoutID int
	Fields   []any
}

// OtterStructNew allocates a struct instance for layoutID, sized from
// the field count RegisterStructLayout recorded for it.
func (r *Runtime) OtterStructNew(layoutID int) *StructValue {
	n := r.layouts.fieldCount(layoutID)
	return &StructValue{LayoutID: layoutID, Fields: make([]any, n)}
}

func OtterStructGetField(s *StructValue, index int64) any {
	return s.Fields[index]
}

func OtterStructSetField(s *StructValue, index int64, v any) {
	s.Fields[index] = v
}

// OtterStructFieldHandle backs a ProjectStructField intermediate step;
// like the array case, the handle is just the field's boxed value.
func OtterStructFieldHandle(s *StructValue, index int64) any {
	return s.Fields[index]
}

// OtterStructFieldGetByName backs the one path-projection step that
// carries a name instead of an index (match.go's leaf decode, used
// because coreir.Projection's ProjectStructField.Field is a name, not
// a pre-resolved index).
func (r *Runtime) OtterStructFieldGetByName(s *StructValue, name string) any {
	return s.Fields[r.layouts.fieldIndex(s.LayoutID, name)]
}

// layoutRegistry maps a struct layout id to its field names in
// declaration order, populated once per compilation unit before
// execution begins.
type layoutRegistry struct {
	byID map[int][]string
}

func newLayoutRegistry() *layoutRegistry {
	return &layoutRegistry{byID: make(map[int][]string)}
}

func (l *layoutRegistry) register(id int, fieldNames []string) {
	l.byID[id] = fieldNames
}

func (l *layoutRegistry) fieldCount(id int) int {
	return len(l.byID[id])
}

func (l *layoutRegistry) fieldIndex(id int, name string) int64 {
	for i, n := range l.byID[id] {
		if n == name {
			return int64(i)
		}
	}
	panic("runtimeabi: unknown struct field " + name)
}

// EnumValue is the reference representation of spec 4.5's packed enum
// encoding. The emitted IR packs Tag and Payload into one i64's
// upper/lower halves (internal/irgen/expr.go's emitMakeEnum); this
// reference runtime keeps them as separate fields instead, since there
// is no raw memory layout to honor here — only the same tag/payload
// semantics the bit-packed encoding provides to user code.
type EnumValue struct {
	Tag     int64
	Payload []any
}

func OtterEnumReadTag(e *EnumValue) int64 {
	return e.Tag
}

// OtterEnumBoxPayload builds a variant's payload tuple; the IR-level
// emitter pairs its result with the tag via a bitwise or, while this
// reference runtime's MakeEnum lowering (internal/exec) pairs it with
// the tag by constructing an EnumValue directly.
func OtterEnumBoxPayload(vals ...any) []any {
	return vals
}

func OtterEnumPayloadHandle(e *EnumValue, index int64) any {
	return e.Payload[index]
}

func OtterEnumPayloadGet(e *EnumValue, index int64) any {
	return e.Payload[index]
}

// ClosureValue pairs a lambda's hoisted top-level function name with
// its captured locals, per internal/irgen's emitLambda.
type ClosureValue struct {
	FuncName string
	Captures []any
}

func OtterClosureNew(funcName string, captures ...any) *ClosureValue {
	return &ClosureValue{FuncName: funcName, Captures: captures}
}
