package slot

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/hupe1980/genref/internal/bitmap"
	"github.com/hupe1980/genref/internal/container"
)

var (
	// ErrPoolExhausted is returned when a pool cannot address another slot.
	ErrPoolExhausted = errors.New("slot: pool exhausted")
	// ErrNotLive is returned when releasing a slot that holds no value.
	ErrNotLive = errors.New("slot: not live")
)

// Pool holds every slot of one Layout and the free list used to recycle them.
type Pool struct {
	id      uint32
	layout  Layout
	slots   *container.SegmentedArray[Slot]
	free    []uint32
	live    *bitmap.Set
	retired *bitmap.Set
	reuses  uint64
}

// NewPool creates an empty pool.
func NewPool(id uint32, layout Layout) *Pool {
	return &Pool{
		id:      id,
		layout:  layout,
		slots:   container.NewSegmentedArray[Slot](),
		live:    bitmap.New(),
		retired: bitmap.New(),
	}
}

// ID returns the pool identifier.
func (p *Pool) ID() uint32 { return p.id }

// Layout returns the layout served by the pool.
func (p *Pool) Layout() Layout { return p.layout }

// Allocate hands out a slot, reusing the most recently released one if any.
//
// A reused slot keeps the generation it was given on release; a fresh slot
// starts at generation 0. The borrow state is cleared in both cases. The
// returned pointer stays valid for the lifetime of the pool.
func (p *Pool) Allocate() (uint32, *Slot, bool, error) {
	if n := len(p.free); n > 0 {
		index := p.free[n-1]
		p.free = p.free[:n-1]

		s := p.slots.At(index)
		s.reset()
		p.live.Add(index)
		p.reuses++
		return index, s, true, nil
	}

	if p.slots.Len() == math.MaxUint32 {
		return 0, nil, false, fmt.Errorf("%w: %d slots of %s", ErrPoolExhausted, p.slots.Len(), p.layout)
	}

	index, s := p.slots.Append()
	p.live.Add(index)
	return index, s, false, nil
}

// Release advances the generation of a live slot and makes it reusable.
//
// When the advanced generation reaches Terminal, the slot is retired instead:
// it is never pushed onto the free list, so no future reference can match it.
// The caller is responsible for checking the borrow state and clearing the
// value beforehand.
func (p *Pool) Release(index uint32) (bool, error) {
	if !p.live.CheckedRemove(index) {
		return false, fmt.Errorf("%w: index %d", ErrNotLive, index)
	}

	s := p.slots.At(index)
	s.Generation++
	if s.Generation == Terminal {
		p.retired.Add(index)
		return true, nil
	}

	p.free = append(p.free, index)
	return false, nil
}

// At returns the slot at index, or nil if the pool never allocated it.
func (p *Pool) At(index uint32) *Slot {
	return p.slots.At(index)
}

// Lookup returns the slot at index if it currently holds generation gen.
func (p *Pool) Lookup(index uint32, gen uint64) (*Slot, error) {
	s := p.slots.At(index)
	if s == nil || s.Generation != gen || !p.live.Contains(index) {
		return nil, ErrStale
	}
	return s, nil
}

// IsLive reports whether index currently holds a value.
func (p *Pool) IsLive(index uint32) bool {
	return p.live.Contains(index)
}

// HasFree reports whether Allocate would recycle a slot instead of growing.
func (p *Pool) HasFree() bool {
	return len(p.free) > 0
}

// HasLive reports whether any slot currently holds a value.
func (p *Pool) HasLive() bool {
	return !p.live.IsEmpty()
}

// Live returns an iterator over the indices currently holding a value.
func (p *Pool) Live() iter.Seq[uint32] {
	return p.live.All()
}

// Stats is a snapshot of pool occupancy.
type Stats struct {
	Layout  Layout
	Slots   uint32 // Total slots ever allocated
	Live    uint64 // Slots holding a value
	Free    int    // Slots waiting on the free list
	Retired uint64 // Slots retired at the terminal generation
	Reuses  uint64 // Allocations served from the free list

	Segments    int    // Storage segments backing the slots
	BitmapBytes uint64 // Size of the live and retired index sets
}

// Stats returns the current pool statistics.
func (p *Pool) Stats() Stats {
	return Stats{
		Layout:  p.layout,
		Slots:   p.slots.Len(),
		Live:    p.live.Cardinality(),
		Free:    len(p.free),
		Retired: p.retired.Cardinality(),
		Reuses:  p.reuses,

		Segments:    p.slots.Segments(),
		BitmapBytes: p.live.SizeInBytes() + p.retired.SizeInBytes(),
	}
}

// Drain empties the free list and returns the number of slots removed.
// Drained slots are retired: their storage stays addressable, but they are
// never handed out again.
func (p *Pool) Drain() int {
	n := len(p.free)
	for _, index := range p.free {
		p.retired.Add(index)
	}
	p.free = p.free[:0]
	return n
}
