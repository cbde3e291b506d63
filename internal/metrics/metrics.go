package metrics

import (
	"sync/atomic"
	"time"
)

// MetricID identifies a specific counter or histogram slot. The root package
// defines the public constants.
type MetricID uint16

// HistogramBucketCount is the fixed number of latency buckets.
const HistogramBucketCount = 8

// HistogramBoundsNanos holds the upper bound of each bucket except the last,
// which is +Inf.
var HistogramBoundsNanos = [HistogramBucketCount - 1]int64{
	int64(5 * time.Millisecond),
	int64(10 * time.Millisecond),
	int64(25 * time.Millisecond),
	int64(50 * time.Millisecond),
	int64(100 * time.Millisecond),
	int64(250 * time.Millisecond),
	int64(500 * time.Millisecond),
}

// Config controls metric collection. When Enabled is false every operation
// is a no-op.
type Config struct {
	Enabled       bool
	EnableLatency bool

	// Counters and Histograms size the slot arrays; the root package passes
	// its metricIDCount.
	Counters   int
	Histograms int
}

type paddedCounter struct {
	value uint64
	_     [7]uint64
}

type histogram struct {
	buckets [HistogramBucketCount]uint64
}

// Metrics holds atomic counters and optional latency histograms.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      []paddedCounter
	histograms    []histogram
}

// Snapshot is a point-in-time deep copy of all metrics.
type Snapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// New creates a [Metrics] instance per cfg.
func New(cfg Config) *Metrics {
	if !cfg.Enabled {
		return &Metrics{}
	}
	return &Metrics{
		enabled:       true,
		enableLatency: cfg.EnableLatency,
		counters:      make([]paddedCounter, cfg.Counters),
		histograms:    make([]histogram, cfg.Histograms),
	}
}

// Inc atomically increments a counter. No-op when disabled or out of range.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || int(id) >= len(m.counters) {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records a latency sample into the histogram for id. Histogram IDs
// are numbered from zero independently of counter IDs.
func (m *Metrics) Observe(id MetricID, elapsed time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || int(id) >= len(m.histograms) {
		return
	}

	nanos := elapsed.Nanoseconds()
	bucket := len(HistogramBoundsNanos)
	for i, bound := range HistogramBoundsNanos {
		if nanos <= bound {
			bucket = i
			break
		}
	}
	atomic.AddUint64(&m.histograms[id].buckets[bucket], 1)
}

// TakeSnapshot copies every slot into a new [Snapshot].
func (m *Metrics) TakeSnapshot() Snapshot {
	if m == nil || !m.enabled {
		return Snapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	snap := Snapshot{
		Counters:   make(map[MetricID]uint64, len(m.counters)),
		Histograms: make(map[MetricID][]uint64, len(m.histograms)),
	}

	for i := range m.counters {
		if v := atomic.LoadUint64(&m.counters[i].value); v > 0 {
			snap.Counters[MetricID(i)] = v
		}
	}
	for i := range m.histograms {
		buckets := make([]uint64, HistogramBucketCount)
		var total uint64
		for b := 0; b < HistogramBucketCount; b++ {
			buckets[b] = atomic.LoadUint64(&m.histograms[i].buckets[b])
			total += buckets[b]
		}
		if total > 0 {
			snap.Histograms[MetricID(i)] = buckets
		}
	}
	return snap
}
