package processor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports pipeline counters. A nil *Metrics is valid and records
// nothing, so tests can construct queues without a registry.
type Metrics struct {
	jobsTotal   *prometheus.CounterVec
	jobDuration prometheus.Histogram
	queueDepth  prometheus.Gauge
	inFlight    prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		jobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vidforge",
			Subsystem: "processor",
			Name:      "jobs_total",
			Help:      "Processing jobs by outcome.",
		}, []string{"outcome"}),
		jobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vidforge",
			Subsystem: "processor",
			Name:      "job_duration_seconds",
			Help:      "Wall time of one processing job.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vidforge",
			Subsystem: "processor",
			Name:      "queue_depth",
			Help:      "Jobs waiting in the pending queue.",
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vidforge",
			Subsystem: "processor",
			Name:      "jobs_in_flight",
			Help:      "Jobs currently executing.",
		}),
	}
	reg.MustRegister(m.jobsTotal, m.jobDuration, m.queueDepth, m.inFlight)
	return m
}

func (m *Metrics) observeOutcome(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.jobsTotal.WithLabelValues(outcome).Inc()
	m.jobDuration.Observe(seconds)
}

func (m *Metrics) setDepth(pending, inFlight int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(pending))
	m.inFlight.Set(float64(inFlight))
}
