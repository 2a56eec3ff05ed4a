package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
)

// dispatcher orchestrates one wrapped callable: signature derivation, cache
// consultation, slow-path misses and fast-path execution. Configuration is
// immutable after New; the signature cache is the only shared mutable state.
type dispatcher struct {
	opt        Options
	classify   ClassifyFunc
	staticNums []int // sorted ascending, duplicate-free
	metrics    Metrics
	cache      *signatureCache

	// Latched once a classifier reports the callable can never be
	// fast-pathed; every later call goes straight to the slow path.
	alwaysFallback atomic.Bool
}

// New wraps a callable's slow path with a signature-keyed dispatch cache.
func New(opt Options) (Function, error) {
	if opt.SlowPath == nil {
		return nil, ErrNoSlowPath
	}
	if opt.Classify == nil {
		opt.Classify = DefaultClassify
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}

	staticNums, err := normalizeStaticArgNums(opt.StaticArgNums)
	if err != nil {
		return nil, err
	}

	return &dispatcher{
		opt:        opt,
		classify:   opt.Classify,
		staticNums: staticNums,
		metrics:    opt.Metrics,
		cache:      newSignatureCache(opt.Shards, opt.Metrics),
	}, nil
}

// normalizeStaticArgNums sorts a copy and drops duplicates, so signature
// derivation can split arguments with a single cursor walk.
func normalizeStaticArgNums(nums []int) ([]int, error) {
	out := make([]int, 0, len(nums))
	for _, n := range nums {
		if n < 0 {
			return nil, fmt.Errorf("dispatch: negative static argument position %d", n)
		}
		out = append(out, n)
	}
	sort.Ints(out)
	dedup := out[:0]
	for i, n := range out {
		if i == 0 || n != out[i-1] {
			dedup = append(dedup, n)
		}
	}
	return dedup, nil
}

// Call implements Function.
func (d *dispatcher) Call(ctx context.Context, args ...any) (any, error) {
	if d.alwaysFallback.Load() {
		return d.slowOnly(ctx, args, FallbackForced)
	}

	x64 := x64FromContext(ctx, d.opt.X64)
	sig, dynamic, err := buildSignature(d.classify, d.staticNums, args, x64, d.opt.Token, tokenFromContext(ctx))
	if err != nil {
		if errors.Is(err, ErrNoFastPath) {
			d.alwaysFallback.Store(true)
			return d.slowOnly(ctx, args, FallbackForced)
		}
		// Derivation failure is a routing decision, not an error.
		return d.slowOnly(ctx, args, FallbackUnsupported)
	}

	e, err := d.cache.lookup(ctx, sig)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return d.miss(ctx, sig, args)
	}
	if e.state == entryFallback {
		return d.slowOnly(ctx, args, FallbackMarked)
	}
	return d.fast(ctx, e, dynamic)
}

// miss answers a cold signature via the slow path and installs the entry.
//
// The slow path both computes this call's result and yields the installable
// materials. If another goroutine raced us here, exactly one of us wins the
// insert and publishes; losers discard their materials. Either way the
// current call returns the slow path's own result: re-running the fast path
// now would repeat side effects the slow path has already applied (e.g. a
// consumed argument buffer).
func (d *dispatcher) miss(ctx context.Context, sig Signature, args []any) (any, error) {
	result, mats, slowErr := d.opt.SlowPath(ctx, args)

	e, inserted := d.cache.insertIfAbsent(sig)
	if inserted {
		d.publish(e, mats, slowErr)
		d.metrics.Size(d.cache.size())
		if slowErr == nil && e.state == entryFailed {
			// Materials were rejected (version skew, missing pieces): a
			// hard configuration error, surfaced now rather than on the
			// next call.
			return nil, e.err
		}
	}
	// Losers reuse the winner's entry only on future calls; this call
	// already has its answer.
	return result, slowErr
}

// publish validates the slow path's outcome and closes the entry's gate
// into exactly one terminal state.
func (d *dispatcher) publish(e *entry, mats *FastPathMaterials, slowErr error) {
	switch {
	case slowErr != nil:
		// Compilation failed: the failure is cached and re-raised to every
		// caller that ever reaches this signature.
		e.publishFailed(slowErr)
		d.metrics.CompileError()
	case mats == nil:
		// The fast path cannot serve this signature, permanently.
		e.publishFallback()
	case mats.Version != FastPathVersion:
		e.publishFailed(&VersionError{Got: mats.Version})
		d.metrics.CompileError()
	case mats.Executable == nil || mats.EncodeArgs == nil || mats.DecodeResults == nil || mats.OutTree == nil:
		e.publishFailed(ErrBadMaterials)
		d.metrics.CompileError()
	default:
		e.publishReady(mats)
	}
}

// fast drives one call through a ready entry: encode the dynamic arguments
// into device-sharded buffers, execute, decode, reassemble. Errors here are
// per-call; none of them is cached.
func (d *dispatcher) fast(ctx context.Context, e *entry, dynamic []any) (any, error) {
	// The encoded buffers stay referenced until Execute returns, so any
	// memory they pin outlives the executor's use of it.
	buffers, err := e.encode(dynamic)
	if err != nil {
		return nil, fmt.Errorf("dispatch: encode arguments: %w", err)
	}
	out, err := e.exec.Execute(ctx, buffers)
	if err != nil {
		return nil, err
	}
	flat, err := e.decode(out)
	if err != nil {
		return nil, fmt.Errorf("dispatch: decode results: %w", err)
	}
	return e.outTree.Unflatten(flat)
}

// slowOnly routes one call to the slow path and discards any materials.
func (d *dispatcher) slowOnly(ctx context.Context, args []any, reason FallbackReason) (any, error) {
	d.metrics.Fallback(reason)
	result, _, err := d.opt.SlowPath(ctx, args)
	return result, err
}

// CacheSize implements Function.
func (d *dispatcher) CacheSize() int { return d.cache.size() }

// Stats implements Function.
func (d *dispatcher) Stats() Stats { return d.cache.stats() }
