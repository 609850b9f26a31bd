package executor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// --- Metrics ---

// Metrics holds all the Prometheus metrics for the dispatcher.
type Metrics struct {
	swapDuration *prometheus.HistogramVec
	swapsTotal   *prometheus.CounterVec
}

// NewMetrics creates and registers the metrics for the dispatcher.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		swapDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "executor_swap_duration_seconds",
			Help:    "Time taken to execute a single dispatched swap.",
			Buckets: prometheus.DefBuckets,
		}, []string{"protocol"}),
		swapsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "executor_swaps_total",
			Help: "Total number of dispatched swaps, labeled by protocol and result.",
		}, []string{"protocol", "result"}),
	}
	reg.MustRegister(m.swapDuration, m.swapsTotal)
	return m
}

func (m *Metrics) observe(p Protocol, result string, d time.Duration) {
	m.swapDuration.WithLabelValues(p.String()).Observe(d.Seconds())
	m.swapsTotal.WithLabelValues(p.String(), result).Inc()
}
