package handoff

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors shared by pipelines.
// A nil *Metrics records nothing.
type Metrics struct {
	CyclesTotal        *prometheus.CounterVec
	InvalidInputsTotal *prometheus.CounterVec
	CycleDuration      *prometheus.HistogramVec
}

// NewMetrics creates collectors registered with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CyclesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "handoff_cycles_total",
				Help: "Total number of completed pipeline cycles",
			},
			[]string{"pipeline"},
		),
		InvalidInputsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "handoff_invalid_inputs_total",
				Help: "Total number of inputs rejected before publishing",
			},
			[]string{"pipeline"},
		),
		CycleDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "handoff_cycle_duration_seconds",
				Help:    "Time from publishing an input until its output is done",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"pipeline"},
		),
	}
}

func (m *Metrics) observeCycle(pipeline string, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.CyclesTotal.WithLabelValues(pipeline).Inc()
	m.CycleDuration.WithLabelValues(pipeline).Observe(elapsed.Seconds())
}

func (m *Metrics) invalidInput(pipeline string) {
	if m == nil {
		return
	}

	m.InvalidInputsTotal.WithLabelValues(pipeline).Inc()
}
