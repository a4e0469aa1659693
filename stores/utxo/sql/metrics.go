package sql

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusUtxoContains prometheus.Counter
	prometheusUtxoInsert   prometheus.Counter
	prometheusUtxoRemove   prometheus.Counter
	prometheusUtxoErrors   *prometheus.CounterVec

	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusUtxoContains = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "utxoledger",
			Subsystem: "sql_utxo",
			Name:      "contains",
			Help:      "Number of utxo lookups done to sql",
		},
	)
	prometheusUtxoInsert = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "utxoledger",
			Subsystem: "sql_utxo",
			Name:      "insert",
			Help:      "Number of utxo inserts done to sql",
		},
	)
	prometheusUtxoRemove = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "utxoledger",
			Subsystem: "sql_utxo",
			Name:      "remove",
			Help:      "Number of utxo removals done to sql",
		},
	)
	prometheusUtxoErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "utxoledger",
			Subsystem: "sql_utxo",
			Name:      "errors",
			Help:      "Number of utxo errors",
		},
		[]string{
			"function", // function raising the error
			"error",    // error category
		},
	)
}
