package ledger

import (
	"sync"

	"github.com/bsv-blockchain/utxoledger/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusExecuteTransaction prometheus.Histogram
	prometheusExecuted           prometheus.Counter
	prometheusRollbacks          prometheus.Counter
	prometheusRejected           *prometheus.CounterVec
	prometheusPublishErrors      prometheus.Counter

	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusExecuteTransaction = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "utxoledger",
			Subsystem: "ledger",
			Name:      "execute",
			Help:      "Histogram of transaction execution",
			Buckets:   util.MetricsBucketsMilliSeconds,
		},
	)

	prometheusExecuted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "utxoledger",
			Subsystem: "ledger",
			Name:      "executed",
			Help:      "Number of transactions committed to the ledger",
		},
	)

	prometheusRollbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "utxoledger",
			Subsystem: "ledger",
			Name:      "rollbacks",
			Help:      "Number of executions rolled back after a partial mutation",
		},
	)

	prometheusRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "utxoledger",
			Subsystem: "ledger",
			Name:      "rejected",
			Help:      "Number of executions rejected, by reason",
		},
		[]string{"reason"},
	)

	prometheusPublishErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "utxoledger",
			Subsystem: "ledger",
			Name:      "publish_errors",
			Help:      "Number of committed receipts that could not be published",
		},
	)
}
