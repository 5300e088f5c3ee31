package runtimeabi

// otterVersion is the fixed string runtime.ot's version() reports. It
// isn't tied to any build-time version scheme today — there's only one
// ABI revision — so a literal constant is enough.
const otterVersion = "0.1"

func OtterRuntimeVersion() string { return otterVersion }

// OtterRuntimeGCCollect is a deliberate no-op: spec's non-goals rule out
// a full garbage collector, and this reference runtime's only
// reference-counted resource (owned strings) is reclaimed by Go's own
// GC, so there is nothing for a user-triggered collection to do beyond
// hinting one. runtime.ot still exposes it so `runtime.gc_collect()` in
// user source type-checks and runs, matching the emitted-IR backend
// where it does trigger a real collection.
func OtterRuntimeGCCollect() {}
