package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics exposed on /metrics.
var (
	// UploadsTotal counts upload requests that produced a workbook.
	UploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wqgrid",
		Name:      "uploads_total",
		Help:      "Number of upload requests that produced a workbook.",
	})

	// UploadFailuresTotal counts upload requests rejected by the pipeline.
	UploadFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wqgrid",
		Name:      "upload_failures_total",
		Help:      "Number of upload requests rejected by the pipeline.",
	})

	// SheetsRenderedTotal counts sheets rendered into workbooks.
	SheetsRenderedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wqgrid",
		Name:      "sheets_rendered_total",
		Help:      "Number of sheets rendered into workbooks.",
	})

	// ProcessDuration observes end-to-end upload processing time.
	ProcessDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "wqgrid",
		Name:      "process_duration_seconds",
		Help:      "End-to-end duration of upload processing.",
		Buckets:   prometheus.DefBuckets,
	})
)
