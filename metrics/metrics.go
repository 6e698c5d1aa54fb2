// Package metrics provides Prometheus metrics for the report pipelines.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OUTCOME_SUCCEEDED = "succeeded"
	OUTCOME_FAILED    = "failed"
)

var (
	// PipelineRunsTotal tracks batch pipeline invocations by status
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reports",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of batch pipeline runs by status",
		},
		[]string{"pipeline", "status"},
	)

	// PipelineItemsTotal tracks per-record outcomes inside batch pipelines
	PipelineItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reports",
			Subsystem: "pipeline",
			Name:      "items_total",
			Help:      "Total number of records processed by batch pipelines by outcome",
		},
		[]string{"pipeline", "outcome"},
	)

	// FetchPageDuration tracks single page requests against the document store
	FetchPageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reports",
			Subsystem: "store",
			Name:      "fetch_page_duration_seconds",
			Help:      "Duration of document store page requests in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"collection"},
	)

	// FiltersCacheTotal tracks filter taxonomy cache lookups
	FiltersCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reports",
			Subsystem: "filters_cache",
			Name:      "lookups_total",
			Help:      "Total number of filter cache lookups by result",
		},
		[]string{"result"},
	)
)
