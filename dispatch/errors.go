package dispatch

import (
	"errors"
	"fmt"
)

// Sentinel errors for dispatch configuration and classification.
var (
	// ErrNoSlowPath is returned by New when Options.SlowPath is nil.
	ErrNoSlowPath = errors.New("dispatch: no SlowPath provided")

	// ErrUnsupportedArgument is returned (or wrapped) by classifiers for
	// argument values the fast path cannot introspect. It is never surfaced
	// to callers: the dispatcher routes such calls to the slow path.
	ErrUnsupportedArgument = errors.New("dispatch: unsupported argument")

	// ErrNoFastPath is returned (or wrapped) by classifiers to signal that
	// this callable can never use the fast path (e.g. a tracing context is
	// active). It latches the dispatcher into permanent slow-path mode.
	ErrNoFastPath = errors.New("dispatch: fast path unsupported for this callable")

	// ErrBadMaterials indicates fast-path materials with a missing
	// executable, handler or result structure. Like a version mismatch it is
	// a build/configuration error: it is recorded on the cache entry and
	// re-raised to every caller reaching that signature.
	ErrBadMaterials = errors.New("dispatch: incomplete fast-path materials")
)

// VersionError reports fast-path materials built against an incompatible
// protocol version. It indicates skew between the slow-path producer and
// this dispatcher, not a runtime condition to recover from.
type VersionError struct {
	Got int
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("dispatch: incompatible fast-path materials: version %d, want %d", e.Got, FastPathVersion)
}
