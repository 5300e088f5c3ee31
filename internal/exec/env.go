package exec

// Env is a parent-chained variable scope, the same shape as the
// teacher's interp.Environment (internal/interp/environment.go): a map
// of slot name to value plus a pointer to the enclosing scope a lookup
// falls back to. OtterLang's slots are already stably named by the
// analyzer (params, let-bindings, pattern binds), so unlike the
// teacher's dynamically typed Value wrapper, a slot here just holds
// the bare Go value the rest of this package already uses (int64,
// float64, string, bool, nil, or a *runtimeabi.*Value heap handle).
type Env struct {
	slots map[string]any
	outer *Env
}

// NewEnv creates a root scope with no enclosing environment.
func NewEnv() *Env {
	return &Env{slots: make(map[string]any)}
}

// NewEnclosedEnv creates a scope nested inside outer, the shape every
// block, loop body, and function call pushes for its own bindings.
func NewEnclosedEnv(outer *Env) *Env {
	return &Env{slots: make(map[string]any), outer: outer}
}

// Get resolves name, walking outward through enclosing scopes.
func (e *Env) Get(name string) (any, bool) {
	for s := e; s != nil; s = s.outer {
		if v, ok := s.slots[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Define binds name in this scope, shadowing any outer slot of the
// same name — the Let statement's behavior.
func (e *Env) Define(name string, v any) {
	e.slots[name] = v
}

// Set stores v into the nearest enclosing scope that already defines
// name (an Assign to a PlaceSlot always targets an existing binding;
// the analyzer rejects assignment to an undeclared name before this
// ever runs). Falls back to defining it in the current scope if, for
// some reason, no outer scope holds it yet, rather than silently
// discarding the store.
func (e *Env) Set(name string, v any) {
	for s := e; s != nil; s = s.outer {
		if _, ok := s.slots[name]; ok {
			s.slots[name] = v
			return
		}
	}
	e.slots[name] = v
}
