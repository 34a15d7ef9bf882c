package resolver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts resolutions. A nil *Metrics records nothing.
type Metrics struct {
	resolves    *prometheus.CounterVec
	subsearches prometheus.Counter
	lookups     *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewMetrics creates the resolver metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		resolves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "otlresolve",
			Subsystem: "resolver",
			Name:      "resolves_total",
			Help:      "Resolve calls by result.",
		}, []string{"result"}),
		subsearches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "otlresolve",
			Subsystem: "resolver",
			Name:      "subsearches_total",
			Help:      "Subsearches registered, including repeated ids.",
		}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "otlresolve",
			Subsystem: "resolver",
			Name:      "lookups_total",
			Help:      "Catalog lookups by kind and result.",
		}, []string{"kind", "result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "otlresolve",
			Subsystem: "resolver",
			Name:      "resolve_duration_seconds",
			Help:      "Wall time of Resolve calls.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}),
	}
	for _, c := range []prometheus.Collector{m.resolves, m.subsearches, m.lookups, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeResolve(start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.resolves.WithLabelValues(result).Inc()
	m.duration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) observeSubsearch() {
	if m == nil {
		return
	}
	m.subsearches.Inc()
}

// observeLookup records a catalog lookup; kind is "datamodel" or "job".
func (m *Metrics) observeLookup(kind string, err error) {
	if m == nil {
		return
	}
	result := "hit"
	switch {
	case err == nil:
	case isNotFound(err):
		result = "miss"
	default:
		result = "error"
	}
	m.lookups.WithLabelValues(kind, result).Inc()
}
