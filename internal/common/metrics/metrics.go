// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_queries_total",
			Help: "Total number of assistant queries answered, by intent branch",
		},
		[]string{"intent"},
	)

	QueryWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_query_warnings_total",
			Help: "Total number of non-fatal warnings raised while answering queries",
		},
		[]string{"code"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "assistant_query_duration_seconds",
			Help: "Duration of query processing in seconds",
		},
		[]string{"intent"},
	)

	SnapshotRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assistant_snapshot_records",
			Help: "Number of service records in the last loaded snapshot",
		},
	)
)
