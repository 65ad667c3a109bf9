package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workforce",
		Subsystem: "cache",
		Name:      "requests_total",
		Help:      "Total number of snapshot cache lookups broken down by table and hit/miss.",
	}, []string{"table", "result"})

	cacheInvalidate = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workforce",
		Subsystem: "cache",
		Name:      "invalidate_total",
		Help:      "Total number of snapshot cache invalidations broken down by table.",
	}, []string{"table"})
)

func recordRequest(table string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheRequests.WithLabelValues(table, result).Inc()
}

func recordInvalidate(table string) {
	if table == "" {
		table = "all"
	}
	cacheInvalidate.WithLabelValues(table).Inc()
}
