package validator

import (
	"sync"

	"github.com/bsv-blockchain/utxoledger/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusValidateTransaction prometheus.Histogram
	prometheusInvalidTransactions *prometheus.CounterVec
	prometheusResolverCacheHit    prometheus.Counter
	prometheusResolverCacheMiss   prometheus.Counter
	prometheusResolverLookup      prometheus.Histogram

	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusValidateTransaction = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "utxoledger",
			Subsystem: "validator",
			Name:      "transactions",
			Help:      "Histogram of transaction validation",
			Buckets:   util.MetricsBucketsMilliSeconds,
		},
	)

	prometheusInvalidTransactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "utxoledger",
			Subsystem: "validator",
			Name:      "invalid_transactions",
			Help:      "Number of transactions rejected by the validator, by reason",
		},
		[]string{"reason"},
	)

	prometheusResolverCacheHit = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "utxoledger",
			Subsystem: "resolver",
			Name:      "cache_hit",
			Help:      "Number of prior transactions served from the resolver cache",
		},
	)

	prometheusResolverCacheMiss = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "utxoledger",
			Subsystem: "resolver",
			Name:      "cache_miss",
			Help:      "Number of prior transactions read from the chain store",
		},
	)

	prometheusResolverLookup = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "utxoledger",
			Subsystem: "resolver",
			Name:      "lookup",
			Help:      "Histogram of chain store lookups done by the resolver",
			Buckets:   util.MetricsBucketsMicroSeconds,
		},
	)
}
