package genref

import (
	"errors"
	"sync/atomic"
)

// MetricsCollector defines an interface for collecting arena metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Calls happen synchronously on the goroutine driving the arena, so
// implementations must be cheap.
type MetricsCollector interface {
	// RecordAlloc is called after an owner is constructed.
	// reused reports whether the slot came from the free list.
	RecordAlloc(layout Layout, reused bool)

	// RecordRelease is called after an owner is released.
	// retired reports whether the slot reached the terminal generation.
	RecordRelease(layout Layout, retired bool)

	// RecordBorrow is called after each borrow attempt, err is nil if successful.
	RecordBorrow(mode BorrowMode, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAlloc(Layout, bool)       {}
func (NoopMetricsCollector) RecordRelease(Layout, bool)     {}
func (NoopMetricsCollector) RecordBorrow(BorrowMode, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
//
// Counters are atomic so they can be read from another goroutine.
type BasicMetricsCollector struct {
	AllocCount       atomic.Int64
	ReuseCount       atomic.Int64
	ReleaseCount     atomic.Int64
	RetireCount      atomic.Int64
	SharedBorrows    atomic.Int64
	ExclusiveBorrows atomic.Int64
	StaleErrors      atomic.Int64
	AliasingErrors   atomic.Int64
}

// RecordAlloc implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAlloc(_ Layout, reused bool) {
	b.AllocCount.Add(1)
	if reused {
		b.ReuseCount.Add(1)
	}
}

// RecordRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelease(_ Layout, retired bool) {
	b.ReleaseCount.Add(1)
	if retired {
		b.RetireCount.Add(1)
	}
}

// RecordBorrow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBorrow(mode BorrowMode, err error) {
	switch {
	case errors.Is(err, ErrStale):
		b.StaleErrors.Add(1)
	case err != nil:
		b.AliasingErrors.Add(1)
	case mode == BorrowExclusive:
		b.ExclusiveBorrows.Add(1)
	default:
		b.SharedBorrows.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	allocs := b.AllocCount.Load()
	reuses := b.ReuseCount.Load()

	var reuseRatio float64
	if allocs > 0 {
		reuseRatio = float64(reuses) / float64(allocs)
	}

	return BasicMetricsStats{
		AllocCount:       allocs,
		ReuseCount:       reuses,
		ReuseRatio:       reuseRatio,
		ReleaseCount:     b.ReleaseCount.Load(),
		RetireCount:      b.RetireCount.Load(),
		SharedBorrows:    b.SharedBorrows.Load(),
		ExclusiveBorrows: b.ExclusiveBorrows.Load(),
		StaleErrors:      b.StaleErrors.Load(),
		AliasingErrors:   b.AliasingErrors.Load(),
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	AllocCount       int64
	ReuseCount       int64
	ReuseRatio       float64
	ReleaseCount     int64
	RetireCount      int64
	SharedBorrows    int64
	ExclusiveBorrows int64
	StaleErrors      int64
	AliasingErrors   int64
}
