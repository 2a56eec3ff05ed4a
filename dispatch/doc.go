// Package dispatch provides a signature-keyed compilation cache and call
// dispatcher for an expensive, shape-specialized, device-sharded callable.
//
// A wrapped callable is invoked many times with structurally similar
// arguments. Each call derives a Signature from its argument shapes, dtypes,
// static values and ambient execution state; a previously compiled entry is
// reused when the signature repeats, and compilation happens at most once
// per distinct signature even under concurrent callers. Calls the fast path
// cannot handle are routed, silently, to a general-purpose slow path.
//
// # Design
//
//   - Concurrency: the cache is split into shards, each protected by an
//     RWMutex. The cache is append-only (one insert per signature, ever),
//     so reads dominate and the write lock is held only for map inserts.
//
//   - Single-flight: each entry carries a one-shot gate (a closed channel).
//     The goroutine that wins the insert publishes the entry and closes the
//     gate; concurrent callers for the same signature wait on it. Waiters
//     honor context cancellation without disturbing the installer.
//
//   - Entry states: once the gate closes an entry is exactly one of ready
//     (executable + handlers installed), fallback-marked (this signature is
//     permanently slow-path) or failed (the recorded error is re-raised to
//     every caller, forever). Entries are immutable after publication.
//
//   - Miss handling: a cold call answers via the slow path and returns that
//     result directly — the freshly installed entry serves only future
//     calls. Re-running the fast path on a call that already went through
//     the slow path could repeat side effects (e.g. consumed buffers).
//
//   - Ambient state: precision mode and execution-context tokens travel on
//     the context (WithX64, WithToken) and participate in signature
//     equality, so calls made under different contexts never collide.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Fallback/CompileError/Size
//     signals. By default NoopMetrics is used; plug the Prometheus adapter
//     in metrics/prom to export them.
//
// # Basic usage
//
//	fn, err := dispatch.New(dispatch.Options{
//	    SlowPath:      slowPath, // computes the result and yields materials
//	    StaticArgNums: []int{0}, // argument 0 is part of the cache key
//	})
//	if err != nil {
//	    // only configuration errors: nil SlowPath, bad static positions
//	}
//	out, err := fn.Call(ctx, 3, input)   // cold: slow path, entry installed
//	out, err = fn.Call(ctx, 3, input2)   // same shapes: fast path
//	n := fn.CacheSize()                  // distinct signatures resident
//
// # Error behavior
//
// Routing decisions (unclassifiable arguments, fallback-marked entries, the
// latched all-calls fallback) are not errors; the caller just gets the slow
// path's result. Compile failures and materials version skew are cached on
// the entry and returned to every caller reaching that signature. Executor
// errors are returned to the affected caller only and never cached.
package dispatch
