package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts exports per format and outcome. A nil *Metrics records nothing.
type Metrics struct {
	exports    *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	unresolved prometheus.Counter
	limited    *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parish",
			Subsystem: "export",
			Name:      "requests_total",
			Help:      "Export requests by format and result.",
		}, []string{"format", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "parish",
			Subsystem: "export",
			Name:      "render_seconds",
			Help:      "Time spent assembling and rendering a document.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"format"}),
		unresolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parish",
			Subsystem: "export",
			Name:      "unresolved_placeholders_total",
			Help:      "Placeholders left verbatim in rendered documents.",
		}),
		limited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parish",
			Subsystem: "ratelimit",
			Name:      "rejected_total",
			Help:      "Requests rejected by the rate limiter.",
		}, []string{"class"}),
	}
	if reg != nil {
		reg.MustRegister(m.exports, m.duration, m.unresolved, m.limited)
	}
	return m
}

func (m *Metrics) observeExport(format, result string, started time.Time) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format, result).Inc()
	if result == "ok" {
		m.duration.WithLabelValues(format).Observe(time.Since(started).Seconds())
	}
}

func (m *Metrics) addUnresolved(n int) {
	if m == nil || n == 0 {
		return
	}
	m.unresolved.Add(float64(n))
}

// Limited records a request the rate limiter turned away.
func (m *Metrics) Limited(class string) {
	if m == nil {
		return
	}
	m.limited.WithLabelValues(class).Inc()
}
