package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reconciliation kinds and results used as label values.
const (
	KindBulk   = "bulk"
	KindSingle = "single"

	ResultMatch    = "match"
	ResultMismatch = "mismatch"
	ResultNoMatch  = "no_match"
)

var (
	// HTTPRequestsTotal counts served requests by route template, method and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "handbook_http_requests_total",
		Help: "Total HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	// HTTPRequestDuration tracks handler latency.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "handbook_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	// ReconciliationsTotal counts completed validations by kind and outcome.
	ReconciliationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "handbook_reconciliations_total",
		Help: "Element reconciliations by kind and result",
	}, []string{"kind", "result"})
)

func ObserveReconciliation(kind, result string) {
	ReconciliationsTotal.WithLabelValues(kind, result).Inc()
}
