package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the delivery instruments. A nil *Metrics records nothing.
type Metrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the dispatch instruments with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		total: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sccrelay_dispatch_total",
			Help: "Webhook deliveries by target and outcome.",
		}, []string{"target", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sccrelay_dispatch_duration_seconds",
			Help:    "Time spent delivering one card.",
			Buckets: prometheus.DefBuckets,
		}, []string{"target"}),
	}
}

func (m *Metrics) observe(target, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.total.WithLabelValues(target, outcome).Inc()
	m.duration.WithLabelValues(target).Observe(d.Seconds())
}
