package sproc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK     = "ok"
	outcomeStatus = "status"
	outcomeError  = "error"
)

// Metrics records stored procedure traffic. A nil *Metrics is valid and records nothing.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the gateway collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "backoffice",
			Name:      "stored_procedure_calls_total",
			Help:      "Stored procedure calls by procedure and outcome.",
		}, []string{"procedure", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "backoffice",
			Name:      "stored_procedure_duration_seconds",
			Help:      "Stored procedure round-trip latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
	}
	reg.MustRegister(m.calls, m.duration)
	return m
}

func (m *Metrics) observe(procedure, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(procedure, outcome).Inc()
	m.duration.WithLabelValues(procedure).Observe(elapsed.Seconds())
}
