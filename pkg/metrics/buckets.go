package metrics

// Shared histogram buckets so components report on comparable scales.
var (
	// DurationBuckets covers sub-millisecond work up to slow multi-second operations.
	DurationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

	// CountBuckets covers small discrete counts (items per batch, recipients, retries).
	CountBuckets = []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}

	// SizeBuckets covers payload sizes in bytes.
	SizeBuckets = []float64{64, 256, 1024, 4096, 16384, 65536, 262144, 1048576}
)
