// Package metrics holds the prometheus collectors of a bridge client.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels
const (
	OutcomeOK          = "ok"
	OutcomeBridgeError = "bridge_error"
	OutcomeTransport   = "transport_error"
)

// Metrics tracks requests issued to the bridge
type Metrics struct {
	Requests  *prometheus.CounterVec
	Duration  *prometheus.HistogramVec
	BatchSize prometheus.Histogram
	BatchFail prometheus.Counter
}

// New registers the collectors with reg. A nil reg gets a private registry so
// several clients can live in one process without colliding.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wabridge",
			Name:      "requests_total",
			Help:      "Requests issued to the bridge by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wabridge",
			Name:      "request_duration_seconds",
			Help:      "Round trip time of bridge requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wabridge",
			Name:      "batch_size",
			Help:      "Number of items per batch send",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
		}),
		BatchFail: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "wabridge",
			Name:      "batch_item_failures_total",
			Help:      "Batch items that ended in a failure record",
		}),
	}
}

// Observe records one finished request
func (m *Metrics) Observe(endpoint, outcome string, elapsed time.Duration) {
	m.Requests.WithLabelValues(endpoint, outcome).Inc()
	m.Duration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveBatch records a finished batch of size items with failed failures
func (m *Metrics) ObserveBatch(size, failed int) {
	m.BatchSize.Observe(float64(size))
	m.BatchFail.Add(float64(failed))
}
