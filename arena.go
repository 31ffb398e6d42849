package genref

import (
	"fmt"

	"github.com/hupe1980/genref/internal/resource"
	"github.com/hupe1980/genref/internal/slot"
)

// Layout describes the size and alignment of a value type.
// Values whose types share a Layout share slot storage.
type Layout = slot.Layout

// LayoutOf returns the Layout of T.
func LayoutOf[T any]() Layout {
	return slot.LayoutOf[T]()
}

// PoolStats is a snapshot of one slot pool.
type PoolStats = slot.Stats

// Stats tracks arena usage.
//
// Note on semantics:
//   - Slots: slots ever carved, across all pools
//   - Live: slots currently owned by a value
//   - Free: released slots waiting for reuse
//   - Retired: slots permanently removed from reuse
//   - Allocs/Reuses/Releases: historical counts
//   - BytesReserved: slot storage charged to the memory acquirer
//   - MemoryUsed/MemoryPeak/MemoryLimit: the built-in limiter's view, zero
//     unless WithMemoryLimit is used; it may be shared with other arenas
type Stats struct {
	Pools         int
	Slots         uint64
	Live          uint64
	Free          uint64
	Retired       uint64
	Allocs        uint64
	Reuses        uint64
	Releases      uint64
	BytesReserved int64
	MemoryUsed    int64
	MemoryPeak    int64
	MemoryLimit   int64
}

// Arena owns the slot pools that back generational references.
//
// An Arena is the explicit execution context of every Owner, Ref and guard
// created from it. It is not safe for concurrent use: confine each Arena to
// one goroutine. References never cross arenas.
type Arena struct {
	pools    []*slot.Pool
	loggers  []*Logger
	byLayout map[slot.Layout]uint32

	logger   *Logger
	metrics  MetricsCollector
	acquirer MemoryAcquirer

	allocs   uint64
	releases uint64
	reserved int64
	closed   bool
}

// NewArena creates an empty Arena.
func NewArena(opts ...Option) *Arena {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Arena{
		byLayout: make(map[slot.Layout]uint32),
		logger:   o.logger,
		metrics:  o.metricsCollector,
		acquirer: o.acquirer,
	}
}

// poolFor returns the pool serving layout, creating it on first use.
func (a *Arena) poolFor(layout slot.Layout) *slot.Pool {
	if id, ok := a.byLayout[layout]; ok {
		return a.pools[id]
	}

	id := uint32(len(a.pools)) //nolint:gosec // one pool per distinct layout
	p := slot.NewPool(id, layout)
	a.pools = append(a.pools, p)
	a.loggers = append(a.loggers, a.logger.WithPool(id).WithLayout(layout))
	a.byLayout[layout] = id
	return p
}

// allocate carves a slot for layout, charging fresh storage to the acquirer.
func (a *Arena) allocate(layout slot.Layout) (*slot.Pool, uint32, *slot.Slot, error) {
	if a.closed {
		return nil, 0, nil, ErrArenaClosed
	}

	p := a.poolFor(layout)

	charge := int64(0)
	if !p.HasFree() {
		charge = layout.SlotBytes()
		if a.acquirer != nil {
			if err := a.acquirer.AcquireMemory(charge); err != nil {
				return nil, 0, nil, translateError(err)
			}
		}
	}

	index, s, reused, err := p.Allocate()
	if err != nil {
		if a.acquirer != nil {
			a.acquirer.ReleaseMemory(charge)
		}
		return nil, 0, nil, translateError(err)
	}

	a.reserved += charge
	a.allocs++
	a.metrics.RecordAlloc(layout, reused)
	a.loggers[p.ID()].LogAlloc(index, s.Generation, reused)
	return p, index, s, nil
}

// release returns a slot to its pool once the owner dropped its value.
func (a *Arena) release(p *slot.Pool, index uint32, gen uint64) {
	retired, err := p.Release(index)
	if err != nil {
		// Owners guard against double release, so this is a broken invariant.
		a.logger.LogViolation(err)
		panic(err)
	}

	a.releases++
	a.metrics.RecordRelease(p.Layout(), retired)
	a.loggers[p.ID()].LogRelease(index, gen, retired)
}

// lookup resolves a (pool, index, generation) triple to its slot.
func (a *Arena) lookup(pool, index uint32, gen uint64) (*slot.Slot, error) {
	if a == nil || int(pool) >= len(a.pools) {
		return nil, slot.ErrStale
	}
	return a.pools[pool].Lookup(index, gen)
}

// Stats returns the current arena statistics.
func (a *Arena) Stats() Stats {
	st := Stats{
		Pools:         len(a.pools),
		Allocs:        a.allocs,
		Releases:      a.releases,
		BytesReserved: a.reserved,
	}

	for _, p := range a.pools {
		ps := p.Stats()
		st.Slots += uint64(ps.Slots)
		st.Live += ps.Live
		st.Free += uint64(ps.Free) //nolint:gosec // length is never negative
		st.Retired += ps.Retired
		st.Reuses += ps.Reuses
	}

	if c, ok := a.acquirer.(*resource.Controller); ok {
		st.MemoryUsed = c.MemoryUsage()
		st.MemoryPeak = c.PeakMemoryUsage()
		st.MemoryLimit = c.MemoryLimit()
	}

	return st
}

// PoolStats returns per-layout statistics, in pool creation order.
func (a *Arena) PoolStats() []PoolStats {
	out := make([]PoolStats, 0, len(a.pools))
	for _, p := range a.pools {
		out = append(out, p.Stats())
	}
	return out
}

// Closed reports whether Close succeeded.
func (a *Arena) Closed() bool {
	return a.closed
}

// Close drops every free slot and hands the reserved storage back to the
// memory acquirer. It fails with ErrArenaInUse while any owner is live.
//
// References into a closed arena stay permanently stale; allocating from it
// returns ErrArenaClosed. Close is idempotent.
func (a *Arena) Close() error {
	if a.closed {
		return nil
	}

	for _, p := range a.pools {
		if !p.HasLive() {
			continue
		}
		for index := range p.Live() {
			return fmt.Errorf("%w: %d live owner(s), first at pool %d index %d",
				ErrArenaInUse, a.Stats().Live, p.ID(), index)
		}
	}

	drained := 0
	for _, p := range a.pools {
		drained += p.Drain()
	}

	if a.acquirer != nil {
		a.acquirer.ReleaseMemory(a.reserved)
	}
	a.logger.Debug("arena closed",
		"pools", len(a.pools),
		"drained", drained,
		"bytes_released", a.reserved,
	)
	a.reserved = 0
	a.closed = true
	return nil
}

func (a *Arena) String() string {
	st := a.Stats()
	return fmt.Sprintf(
		"Arena{pools: %d, slots: %d, live: %d, free: %d, retired: %d, allocs: %d, reuses: %d, reserved: %.2f KB}",
		st.Pools,
		st.Slots,
		st.Live,
		st.Free,
		st.Retired,
		st.Allocs,
		st.Reuses,
		float64(st.BytesReserved)/1024,
	)
}
