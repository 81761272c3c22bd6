// Package metrics holds the Prometheus collectors for the runner database
// service. Collectors are registered on the default registry and exposed by
// the HTTP server on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReloadsTotal counts successful index rebuilds from the database file.
	ReloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "runnerdb_reloads_total",
		Help: "Successful reloads of the runner database file",
	})

	// ReloadFailuresTotal counts reload attempts that failed and left the
	// previous index in place.
	ReloadFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "runnerdb_reload_failures_total",
		Help: "Failed reload attempts of the runner database file",
	})

	// DecodeFaultsTotal counts slots skipped because they could not be
	// decoded.
	DecodeFaultsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "runnerdb_decode_faults_total",
		Help: "Slots skipped during load because decoding failed",
	})

	// SearchesTotal counts search queries answered, including empty results.
	SearchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "runnerdb_searches_total",
		Help: "Search queries answered",
	})

	// IndexSize tracks the number of runners in the current index.
	IndexSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "runnerdb_index_size",
		Help: "Runners currently held in the in-memory index",
	})
)
