package batches

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	cacheCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scorecard",
		Subsystem: "batches",
		Name:      "cache_lookups_total",
		Help:      "Aggregate cache lookups, by view and result.",
	}, []string{"view", "result"})

	mutationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scorecard",
		Subsystem: "batches",
		Name:      "mutations_total",
		Help:      "Batch mutations applied, by kind.",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(cacheCounter, mutationCounter)
}
