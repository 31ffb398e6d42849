package genref

import (
	"io"
	"reflect"

	"github.com/hupe1980/genref/internal/slot"
)

// Owner is the sole owner of a slot and the value stored in it.
//
// Refs taken from an Owner stay valid until the Owner is released; from then
// on every one of them is permanently stale. Release an Owner explicitly,
// typically with defer, or track it in a Scope.
type Owner[T any] struct {
	arena    *Arena
	pool     *slot.Pool
	index    uint32
	gen      uint64
	released bool
}

// New stores value in a fresh or recycled slot of a and returns its Owner.
//
// New panics if the allocation fails (closed arena, memory limit); use TryNew
// where that is a recoverable condition.
func New[T any](a *Arena, value T) *Owner[T] {
	o, err := TryNew(a, value)
	if err != nil {
		a.logger.LogViolation(err)
		panic(err)
	}
	return o
}

// TryNew stores value in a fresh or recycled slot of a and returns its Owner.
//
// A slot recycled from a previous value of the same type reuses its value
// cell. A slot recycled from a different type with the same Layout gets a new
// cell. The borrow state is reset in both cases.
func TryNew[T any](a *Arena, value T) (*Owner[T], error) {
	layout := slot.LayoutOf[T]()

	p, index, s, err := a.allocate(layout)
	if err != nil {
		return nil, err
	}

	cell, ok := s.Value.(*T)
	if !ok {
		cell = new(T)
		s.Value = cell
	}
	*cell = value

	return &Owner[T]{
		arena: a,
		pool:  p,
		index: index,
		gen:   s.Generation,
	}, nil
}

// Ref returns a weak reference to the owned value.
// After Release, the returned reference is stale.
func (o *Owner[T]) Ref() Ref[T] {
	return Ref[T]{
		arena: o.arena,
		pool:  o.pool.ID(),
		index: o.index,
		gen:   o.gen,
	}
}

// Arena returns the arena the value lives in.
func (o *Owner[T]) Arena() *Arena {
	return o.arena
}

// Released reports whether Release has completed.
func (o *Owner[T]) Released() bool {
	return o.released
}

// Release destroys the owned value and recycles its slot.
//
// If the value implements io.Closer, Close runs first; its error is logged
// and otherwise ignored. During Close the slot is held exclusively, so the
// value cannot be borrowed from its own finaliser.
//
// Releasing an Owner while any guard on its value is alive means a borrow
// escaped its scope: Release panics with *OwnerInUseError. Calling Release
// more than once is a no-op.
func (o *Owner[T]) Release() {
	if o == nil || o.released {
		return
	}

	s := o.pool.At(o.index)
	if s.Borrowed() {
		err := &OwnerInUseError{
			Ref:     o.Ref().String(),
			State:   s.State(),
			Readers: s.Shared,
		}
		o.arena.logger.LogViolation(err)
		panic(err)
	}

	cell := s.Value.(*T) //nolint:forcetypeassert // the slot was filled by TryNew with a *T
	o.finalize(s, cell)

	var zero T
	*cell = zero

	o.released = true
	o.arena.release(o.pool, o.index, o.gen)
}

func (o *Owner[T]) finalize(s *slot.Slot, cell *T) {
	// The method set of *T covers Close on T and on *T. Only pointer and
	// interface values are boxed.
	closer, ok := any(cell).(io.Closer)
	if !ok {
		switch reflect.TypeFor[T]().Kind() {
		case reflect.Pointer, reflect.Interface:
			closer, ok = any(*cell).(io.Closer)
		}
	}
	if !ok {
		return
	}

	s.Exclusive = true
	defer func() { s.Exclusive = false }()

	if err := closer.Close(); err != nil {
		o.arena.logger.LogFinalizer(o.Ref().String(), err)
	}
}
