package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/IvanBrykalov/dispatchcache/dispatch"
)

// Adapter implements dispatch.Metrics and exports Prometheus counters/gauges.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits       prometheus.Counter
	misses     prometheus.Counter
	fallbacks  *prometheus.CounterVec
	compErrs   prometheus.Counter
	signatures prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Calls served from a ready cache entry",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Calls that observed no entry for their signature",
			ConstLabels: constLabels,
		}),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "fallbacks_total",
				Help:        "Calls routed to the slow path, by reason",
				ConstLabels: constLabels,
			},
			[]string{"reason"},
		),
		compErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "compile_errors_total",
			Help:        "Failures recorded on cache entries",
			ConstLabels: constLabels,
		}),
		signatures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "signatures",
			Help:        "Number of distinct signatures resident",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.fallbacks, a.compErrs, a.signatures)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Fallback increments the fallback counter with a reason label.
func (a *Adapter) Fallback(r dispatch.FallbackReason) {
	a.fallbacks.WithLabelValues(reason(r)).Inc()
}

// CompileError increments the cached-failure counter.
func (a *Adapter) CompileError() { a.compErrs.Inc() }

// Size updates the resident-signature gauge.
func (a *Adapter) Size(entries int) { a.signatures.Set(float64(entries)) }

// reason maps FallbackReason to a stable label value.
func reason(r dispatch.FallbackReason) string {
	switch r {
	case dispatch.FallbackMarked:
		return "marked"
	case dispatch.FallbackForced:
		return "forced"
	default:
		return "unsupported"
	}
}

// Compile-time check: ensure Adapter implements dispatch.Metrics.
var _ dispatch.Metrics = (*Adapter)(nil)
