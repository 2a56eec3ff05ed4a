package dispatch

// Options configures a dispatch-wrapped callable. Zero values are safe;
// sane defaults are applied in New():
//   - nil Classify => DefaultClassify
//   - nil Metrics  => NoopMetrics
//   - Shards <= 0  => auto, rounded up to the next power of two
//
// SlowPath is the only required field.
type Options struct {
	// SlowPath is the general-purpose route for the wrapped callable.
	// It answers cache misses and unsupported calls, and yields the
	// materials for installing fast-path entries. Required.
	SlowPath SlowPathFunc

	// StaticArgNums lists the positions of arguments that are part of the
	// cache key rather than fed to the executable. Order does not matter
	// (New sorts a copy); duplicates are ignored; negative positions are
	// rejected.
	StaticArgNums []int

	// Classify derives an ArgSpec per dynamic argument.
	// Nil selects DefaultClassify.
	Classify ClassifyFunc

	// X64 is the dispatcher-wide default 64-bit precision mode.
	// Per-call overrides travel on the context via WithX64.
	X64 bool

	// Token is an opaque dispatcher-wide execution-context token folded
	// into every signature. Per-call tokens travel via WithToken.
	// Must be a comparable value with a deterministic fmt rendering.
	Token any

	// Shards defines the number of cache shards. If 0, an automatic value
	// is chosen (≈ 2*GOMAXPROCS) and rounded to the next power of two.
	Shards int

	// Metrics receives Hit/Miss/Fallback/CompileError/Size signals.
	Metrics Metrics
}
