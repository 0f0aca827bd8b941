package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	uploadsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scorecard",
		Subsystem: "ingest",
		Name:      "uploads_total",
		Help:      "Number of uploads processed, by outcome.",
	}, []string{"outcome"})

	rowsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scorecard",
		Subsystem: "ingest",
		Name:      "rows_total",
		Help:      "Number of uploaded rows, by perspective. Unrouted rows are labeled skipped.",
	}, []string{"perspective"})

	uploadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "scorecard",
		Subsystem: "ingest",
		Name:      "upload_duration_seconds",
		Help:      "Time spent ingesting an upload.",
		Buckets:   prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(uploadsCounter, rowsCounter, uploadDuration)
}

func recordOutcome(outcome string) {
	uploadsCounter.WithLabelValues(outcome).Inc()
}

func recordRows(res *Result) {
	for p, n := range res.ByPerspective {
		if n > 0 {
			rowsCounter.WithLabelValues(string(p)).Add(float64(n))
		}
	}
	if res.Skipped > 0 {
		rowsCounter.WithLabelValues("skipped").Add(float64(res.Skipped))
	}
}
