package util

// Histogram buckets shared by the service metrics, in seconds.
var (
	// MetricsBucketsMicroSeconds spans 128µs to 262ms, for cache and index lookups.
	MetricsBucketsMicroSeconds = []float64{
		128e-6, 256e-6, 512e-6, 1024e-6, 2048e-6, 4096e-6, 8192e-6, 16384e-6, 32768e-6, 65536e-6, 131072e-6, 262144e-6,
	}

	// MetricsBucketsMilliSeconds spans 1ms to 4s, for whole validations and executions.
	MetricsBucketsMilliSeconds = []float64{
		1e-3, 2e-3, 4e-3, 16e-3, 32e-3, 64e-3, 128e-3, 256e-3, 512e-3, 1024e-3, 2048e-3, 4096e-3,
	}
)
