package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goliatone/go-catalog/content"
)

// Metrics holds the load cycle instrumentation.
type Metrics struct {
	Loads        *prometheus.CounterVec
	LoadErrors   *prometheus.CounterVec
	LoadDuration *prometheus.HistogramVec
	Items        *prometheus.GaugeVec
	Discarded    *prometheus.CounterVec
}

// NewMetrics registers the catalog metrics with reg. A nil registerer builds
// unregistered collectors, which keeps tests and embedded hosts isolated.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Loads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_loads_total",
			Help: "Published load cycles by kind and origin",
		}, []string{"kind", "origin"}),
		LoadErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_load_errors_total",
			Help: "Recoverable load errors by kind and error code",
		}, []string{"kind", "code"}),
		LoadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_load_duration_seconds",
			Help:    "Duration of a single kind load cycle",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15},
		}, []string{"kind"}),
		Items: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "catalog_items",
			Help: "Items in the published collection by kind",
		}, []string{"kind"}),
		Discarded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_loads_discarded_total",
			Help: "Load results dropped because a newer generation was already published",
		}, []string{"kind"}),
	}
}

func (m *Metrics) recordPublish(kind content.Kind, origin Origin, count int, took time.Duration) {
	if m == nil {
		return
	}
	m.Loads.WithLabelValues(string(kind), string(origin)).Inc()
	m.Items.WithLabelValues(string(kind)).Set(float64(count))
	m.LoadDuration.WithLabelValues(string(kind)).Observe(took.Seconds())
}

func (m *Metrics) recordError(kind content.Kind, err error) {
	if m == nil || err == nil {
		return
	}
	code := string(content.ErrorCodeOf(err))
	if code == "" {
		code = "UNKNOWN"
	}
	m.LoadErrors.WithLabelValues(string(kind), code).Inc()
}

func (m *Metrics) recordDiscard(kind content.Kind) {
	if m == nil {
		return
	}
	m.Discarded.WithLabelValues(string(kind)).Inc()
}
