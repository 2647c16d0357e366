package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	phaseMount = "mount"
	phasePatch = "patch"
)

// metrics holds the Prometheus collectors of one App. A nil *metrics is
// valid and records nothing.
type metrics struct {
	renders   *prometheus.CounterVec
	errors    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	mutations prometheus.Counter
}

func newMetrics(reg prometheus.Registerer, namespace string) *metrics {
	if reg == nil {
		return nil
	}
	factory := promauto.With(reg)

	return &metrics{
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Total number of root renders, by phase",
		}, []string{"phase"}),

		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_errors_total",
			Help:      "Total number of failed mounts and patches, by phase",
		}, []string{"phase"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering and reconciling the root component",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"phase"}),

		mutations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Total number of host tree mutations",
		}),
	}
}

func (m *metrics) observe(phase string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(phase).Inc()
	m.duration.WithLabelValues(phase).Observe(time.Since(start).Seconds())
	if err != nil {
		m.errors.WithLabelValues(phase).Inc()
	}
}

func (m *metrics) mutation() {
	if m == nil {
		return
	}
	m.mutations.Inc()
}
