package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	mapQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipecleaner_map_queries_total",
			Help: "Total number of map API query operations by result",
		},
		[]string{"result"},
	)

	refreshFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pipecleaner_refresh_failures_total",
			Help: "Total number of refresh attempts that failed and were swallowed",
		},
	)

	historyFrames = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pipecleaner_history_frames",
			Help: "Snapshots currently retained per observation kind",
		},
		[]string{"kind"},
	)
)

func init() {
	// Register metrics with the default registry
	prometheus.MustRegister(mapQueriesTotal)
	prometheus.MustRegister(refreshFailuresTotal)
	prometheus.MustRegister(historyFrames)
}
