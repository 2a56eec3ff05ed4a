package dispatch

import (
	"context"

	"github.com/IvanBrykalov/dispatchcache/tree"
)

// FastPathVersion is the materials protocol version this dispatcher speaks.
// The slow path stamps its materials with the version it was built against;
// a mismatch is a hard configuration error (build skew), not a fallback.
const FastPathVersion = 1

// Buffer is an opaque per-device value. Argument encoders produce buffers,
// executables consume and produce them, result decoders consume them.
// The dispatcher never inspects buffer contents.
type Buffer any

// Executable is a compiled, device-sharded artifact ready to run.
//
// Execute takes arguments organized per-argument-then-per-device
// (args[i][d] is argument i's shard on device d) and returns outputs
// organized per-output-then-per-device. An Execute error is surfaced to the
// calling goroutine only; it is never cached.
type Executable interface {
	Execute(ctx context.Context, args [][]Buffer) ([][]Buffer, error)
}

// EncodeFunc turns a call's flat dynamic arguments into the device-sharded
// buffers its entry's executable expects ([num_args][num_devices]).
type EncodeFunc func(args []any) ([][]Buffer, error)

// DecodeFunc turns raw executable output ([num_outputs][num_devices]) back
// into flat result values, one per output.
type DecodeFunc func(out [][]Buffer) ([]any, error)

// SlowPathFunc is the general-purpose, always-correct route for one call.
// It returns the call's result and, when the signature is fast-path
// compilable, the materials needed to install a cache entry. Nil materials
// with a nil error mean "this signature is permanently slow-path only".
// A non-nil error means the call (typically its compilation) failed; the
// dispatcher caches that failure for the call's signature.
type SlowPathFunc func(ctx context.Context, args []any) (any, *FastPathMaterials, error)

// FastPathMaterials is everything the slow path yields for installing a
// cache entry. All fields are required; Version must equal FastPathVersion.
type FastPathMaterials struct {
	Version       int
	Executable    Executable
	EncodeArgs    EncodeFunc
	DecodeResults DecodeFunc
	// OutTree describes the nested structure the decoded flat results are
	// reassembled into before being returned to the caller.
	OutTree *tree.Def
}

// Stats is a point-in-time snapshot of the dispatcher's shard counters.
type Stats struct {
	Hits   int64
	Misses int64
}

// Function is a dispatch-wrapped callable.
// All methods are safe for concurrent use by multiple goroutines.
type Function interface {
	// Call invokes the callable once. It derives the call's signature,
	// reuses a compiled entry when one exists, and otherwise answers via
	// the slow path while installing an entry for future calls.
	Call(ctx context.Context, args ...any) (any, error)

	// CacheSize returns the number of distinct signatures resident.
	CacheSize() int

	// Stats returns cumulative hit/miss counters across all cache shards.
	Stats() Stats
}
