package dispatch

import "context"

// Per-call execution state travels on the context rather than in process
// globals: two calls made under different tokens or precision overrides must
// never collide in the cache, and explicit scoping keeps that property
// independent of how the caller propagates state.

type ctxKey int

const (
	x64Key ctxKey = iota
	tokenKey
)

// WithX64 overrides the dispatcher's default 64-bit precision mode for
// calls made with the returned context.
func WithX64(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, x64Key, enabled)
}

// WithToken attaches an opaque execution-context token to the returned
// context. The token participates in signature equality: calls made under
// different tokens use distinct cache entries. Tokens must be comparable
// values with a deterministic fmt rendering (strings, ints, small structs).
func WithToken(ctx context.Context, token any) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// x64FromContext resolves the effective precision mode: the per-call
// override when present, else the dispatcher-wide default.
func x64FromContext(ctx context.Context, dflt bool) bool {
	if v, ok := ctx.Value(x64Key).(bool); ok {
		return v
	}
	return dflt
}

// tokenFromContext returns the per-call token, or nil when absent.
func tokenFromContext(ctx context.Context) any {
	return ctx.Value(tokenKey)
}
