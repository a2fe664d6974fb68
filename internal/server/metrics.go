package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Export outcomes used as metric labels.
const (
	OutcomeSuccess        = "success"
	OutcomeEmpty          = "empty"
	OutcomeInvalidRequest = "invalid_request"
	OutcomeAPIError       = "api_error"
	OutcomeTransportError = "transport_error"
	OutcomeInternalError  = "internal_error"
)

// Metrics holds the export collectors.
type Metrics struct {
	exportsTotal   *prometheus.CounterVec
	exportDuration *prometheus.HistogramVec
	exportedRows   prometheus.Counter
}

// NewMetrics registers the export collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		exportsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "exports_total",
				Help: "Tracks the number of export requests by outcome.",
			}, []string{"outcome"},
		),
		exportDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "export_duration_seconds",
				Help:    "Tracks how long export requests take.",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
			}, []string{"outcome"},
		),
		exportedRows: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "exported_rows_total",
				Help: "Tracks the number of company rows written to workbooks.",
			},
		),
	}
}

func (m *Metrics) observe(outcome string, seconds float64, rows int) {
	m.exportsTotal.WithLabelValues(outcome).Inc()
	m.exportDuration.WithLabelValues(outcome).Observe(seconds)

	if rows > 0 {
		m.exportedRows.Add(float64(rows))
	}
}
