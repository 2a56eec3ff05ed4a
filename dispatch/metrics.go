package dispatch

// FallbackReason explains why a call was routed to the slow path.
type FallbackReason int

const (
	// FallbackUnsupported — an argument could not be classified for this call.
	FallbackUnsupported FallbackReason = iota
	// FallbackMarked — the signature's cache entry is permanently slow-path.
	FallbackMarked
	// FallbackForced — the dispatcher is latched into all-calls slow-path mode.
	FallbackForced
)

// Metrics exposes dispatcher-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	// Hit — a call reused a ready cache entry.
	Hit()
	// Miss — a call observed no entry for its signature.
	Miss()
	// Fallback — a call was routed to the slow path, with the reason.
	Fallback(reason FallbackReason)
	// CompileError — a failure was recorded on a cache entry.
	CompileError()
	// Size — number of distinct signatures resident after an insert.
	Size(entries int)
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
// It is safe for concurrent use and intended as the default when
// no observability backend is configured.
type NoopMetrics struct{}

func (NoopMetrics) Hit()                    {}
func (NoopMetrics) Miss()                   {}
func (NoopMetrics) Fallback(FallbackReason) {}
func (NoopMetrics) CompileError()           {}
func (NoopMetrics) Size(int)                {}

// Ensure NoopMetrics implements the Metrics interface at compile time.
var _ Metrics = NoopMetrics{}
