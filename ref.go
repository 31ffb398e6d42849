package genref

import (
	"fmt"

	"github.com/hupe1980/genref/internal/slot"
)

// BorrowMode distinguishes read-only from read-write borrows.
type BorrowMode uint8

const (
	// BorrowShared is a read-only borrow; any number may coexist.
	BorrowShared BorrowMode = iota
	// BorrowExclusive is a read-write borrow; it excludes every other borrow.
	BorrowExclusive
)

func (m BorrowMode) String() string {
	switch m {
	case BorrowShared:
		return "shared"
	case BorrowExclusive:
		return "exclusive"
	default:
		return "unknown"
	}
}

// BorrowState is the borrow state of a live value.
type BorrowState = slot.State

const (
	// StateIdle means no guard is alive.
	StateIdle = slot.Idle
	// StateShared means one or more Guards are alive.
	StateShared = slot.Shared
	// StateExclusive means a MutGuard is alive.
	StateExclusive = slot.Exclusive
)

// Ref is a copyable, non-owning reference to a value owned by an Owner.
//
// A Ref is the triple (pool, slot index, generation) plus the arena it
// belongs to. It may be stored indefinitely and compared with ==. Every
// access revalidates the generation, so a Ref that outlived its Owner fails
// with ErrStale instead of observing whatever now occupies the slot.
//
// The zero Ref is permanently stale.
type Ref[T any] struct {
	arena *Arena
	pool  uint32
	index uint32
	gen   uint64
}

func (r Ref[T]) lookup() (*slot.Slot, error) {
	return r.arena.lookup(r.pool, r.index, r.gen)
}

func (r Ref[T]) fail(mode BorrowMode, err error) error {
	berr := newBorrowError(mode, r.String(), err)
	if r.arena != nil {
		r.arena.metrics.RecordBorrow(mode, berr)
	}
	return berr
}

func (r Ref[T]) fatal(err error) {
	if r.arena != nil {
		r.arena.logger.LogViolation(err)
	}
	panic(err)
}

// TryBorrow acquires read-only access to the value.
//
// It fails with ErrStale if the owner has been released, and with ErrAliasing
// while a MutGuard is alive. Release the returned guard when done.
func (r Ref[T]) TryBorrow() (*Guard[T], error) {
	s, err := r.lookup()
	if err == nil {
		err = s.AcquireShared(r.gen)
	}
	if err != nil {
		return nil, r.fail(BorrowShared, err)
	}

	r.arena.metrics.RecordBorrow(BorrowShared, nil)
	return &Guard[T]{slot: s, value: s.Value.(*T)}, nil //nolint:forcetypeassert // generation match implies *T
}

// Borrow is TryBorrow for callers that guarantee success.
// A stale reference or an aliasing violation panics with *BorrowError.
func (r Ref[T]) Borrow() *Guard[T] {
	g, err := r.TryBorrow()
	if err != nil {
		r.fatal(err)
	}
	return g
}

// TryBorrowMut acquires read-write access to the value.
//
// It fails with ErrStale if the owner has been released, and with ErrAliasing
// while any Guard or MutGuard is alive. Release the returned guard when done.
func (r Ref[T]) TryBorrowMut() (*MutGuard[T], error) {
	s, err := r.lookup()
	if err == nil {
		err = s.AcquireExclusive(r.gen)
	}
	if err != nil {
		return nil, r.fail(BorrowExclusive, err)
	}

	r.arena.metrics.RecordBorrow(BorrowExclusive, nil)
	return &MutGuard[T]{slot: s, value: s.Value.(*T)}, nil //nolint:forcetypeassert // generation match implies *T
}

// BorrowMut is TryBorrowMut for callers that guarantee success.
// A stale reference or an aliasing violation panics with *BorrowError.
func (r Ref[T]) BorrowMut() *MutGuard[T] {
	g, err := r.TryBorrowMut()
	if err != nil {
		r.fatal(err)
	}
	return g
}

// With calls fn with read-only access to the value.
// The borrow is released when fn returns or panics.
func (r Ref[T]) With(fn func(v *T)) error {
	g, err := r.TryBorrow()
	if err != nil {
		return err
	}
	defer g.Release()

	fn(g.Ptr())
	return nil
}

// WithMut calls fn with read-write access to the value.
// The borrow is released when fn returns or panics.
func (r Ref[T]) WithMut(fn func(v *T)) error {
	g, err := r.TryBorrowMut()
	if err != nil {
		return err
	}
	defer g.Release()

	fn(g.Ptr())
	return nil
}

// Valid reports whether the owner is still alive.
// It does not borrow; a valid Ref can still fail with ErrAliasing.
func (r Ref[T]) Valid() bool {
	_, err := r.lookup()
	return err == nil
}

// State returns the borrow state of the value. A stale Ref reports StateIdle.
func (r Ref[T]) State() BorrowState {
	s, err := r.lookup()
	if err != nil {
		return StateIdle
	}
	return s.State()
}

// IsZero reports whether r is the zero Ref.
func (r Ref[T]) IsZero() bool {
	return r == Ref[T]{}
}

// Generation returns the generation captured by r.
func (r Ref[T]) Generation() uint64 {
	return r.gen
}

// Arena returns the arena r points into, or nil for the zero Ref.
func (r Ref[T]) Arena() *Arena {
	return r.arena
}

func (r Ref[T]) String() string {
	return fmt.Sprintf("ref(pool=%d,index=%d,gen=%d)", r.pool, r.index, r.gen)
}
