package signal

import (
	"errors"

	"github.com/hupe1980/genref"
)

// Subscriber is notified with the new value after every update.
// Returning false unsubscribes it.
type Subscriber[T any] func(v *T) bool

type state[T any] struct {
	value       T
	dirty       bool
	subscribers []Subscriber[T]
}

// Owned owns a signal's storage. Release it when the signal is no longer
// needed; every Signal taken from it then becomes stale.
type Owned[T any] struct {
	owner *genref.Owner[state[T]]
}

// New creates a signal holding value in arena a.
// It panics like genref.New if the allocation fails.
func New[T any](a *genref.Arena, value T) *Owned[T] {
	return &Owned[T]{owner: genref.New(a, state[T]{value: value})}
}

// TryNew is New returning allocation errors instead of panicking.
func TryNew[T any](a *genref.Arena, value T) (*Owned[T], error) {
	o, err := genref.TryNew(a, state[T]{value: value})
	if err != nil {
		return nil, err
	}
	return &Owned[T]{owner: o}, nil
}

// Scoped creates a signal owned by scope s and returns its handle.
func Scoped[T any](s *genref.Scope, value T) Signal[T] {
	o := New(s.Arena(), value)
	s.Track(o)
	return o.Signal()
}

// Signal returns a copyable handle to the signal.
func (o *Owned[T]) Signal() Signal[T] {
	return Signal[T]{ref: o.owner.Ref()}
}

// Release destroys the signal and drops its subscribers.
// It panics with *genref.OwnerInUseError while the signal is borrowed.
func (o *Owned[T]) Release() {
	o.owner.Release()
}

// Signal is a copyable handle to an observable value.
type Signal[T any] struct {
	ref genref.Ref[state[T]]
}

// Valid reports whether the signal has not been released.
func (s Signal[T]) Valid() bool {
	return s.ref.Valid()
}

// Get returns a copy of the current value.
// It panics if the signal was released or is borrowed exclusively.
func (s Signal[T]) Get() T {
	g := s.ref.Borrow()
	defer g.Release()
	return g.Ptr().value
}

// With calls fn with read-only access to the value.
// It panics if the signal was released or is borrowed exclusively.
func (s Signal[T]) With(fn func(v *T)) {
	g := s.ref.Borrow()
	defer g.Release()
	fn(&g.Ptr().value)
}

// WithMut calls fn with read-write access to the value, without notifying
// subscribers. It panics if the signal was released or is borrowed.
func (s Signal[T]) WithMut(fn func(v *T)) {
	g := s.ref.BorrowMut()
	defer g.Release()
	fn(&g.Ptr().value)
}

// Set replaces the value and notifies subscribers.
// It panics if the signal cannot be updated; see TryUpdate.
func (s Signal[T]) Set(value T) {
	s.Update(func(v *T) { *v = value })
}

// Update modifies the value in place and notifies subscribers.
// It panics if the signal cannot be updated; see TryUpdate.
func (s Signal[T]) Update(fn func(v *T)) {
	if err := s.TryUpdate(fn); err != nil {
		panic(err)
	}
}

// TryUpdate modifies the value in place, marks the signal dirty and notifies
// subscribers, dropping those that return false.
//
// It fails with genref.ErrStale once the signal was released, and with
// genref.ErrAliasing while the signal is borrowed, which includes being
// called from one of its own subscribers.
//
// If a subscriber panics, it and the subscribers not yet notified stay
// registered; those that already returned false are dropped.
func (s Signal[T]) TryUpdate(fn func(v *T)) error {
	g, err := s.ref.TryBorrowMut()
	if err != nil {
		return err
	}
	defer g.Release()

	st := g.Ptr()
	fn(&st.value)
	st.dirty = true

	subs := st.subscribers
	kept := subs[:0]
	i := 0
	defer func() {
		kept = append(kept, subs[i:]...)
		clear(subs[len(kept):])
		st.subscribers = kept
	}()

	for ; i < len(subs); i++ {
		if subs[i](&st.value) {
			kept = append(kept, subs[i])
		}
	}

	return nil
}

// Subscribe registers fn to be notified after every update.
func (s Signal[T]) Subscribe(fn Subscriber[T]) error {
	return s.ref.WithMut(func(st *state[T]) {
		st.subscribers = append(st.subscribers, fn)
	})
}

// Subscribers returns the number of registered subscribers.
func (s Signal[T]) Subscribers() int {
	g := s.ref.Borrow()
	defer g.Release()
	return len(g.Ptr().subscribers)
}

// IsDirty reports whether the value changed since it was last borrowed
// through Borrow or BorrowMut.
func (s Signal[T]) IsDirty() bool {
	g := s.ref.Borrow()
	defer g.Release()
	return g.Ptr().dirty
}

// Borrow acquires read-only access and clears the dirty flag.
// It panics if the signal was released or is borrowed exclusively.
func (s Signal[T]) Borrow() *Guard[T] {
	g := s.ref.Borrow()
	g.Ptr().dirty = false
	return &Guard[T]{g: g}
}

// BorrowMut acquires read-write access and clears the dirty flag.
// Changes made through the guard do not notify subscribers.
// It panics if the signal was released or is borrowed.
func (s Signal[T]) BorrowMut() *MutGuard[T] {
	g := s.ref.BorrowMut()
	g.Ptr().dirty = false
	return &MutGuard[T]{g: g}
}

// Derive creates a signal holding fn applied to s, kept up to date on every
// update of s.
//
// The subscription is dropped on the first update of s after the derived
// signal was released. An update that finds the derived signal borrowed is
// skipped, but the subscription stays, so the next update catches up.
//
// Derive reads s and subscribes to it, so it panics if s was released or is
// borrowed at the time of the call.
func Derive[T, R any](s Signal[T], fn func(v *T) R) *Owned[R] {
	var initial R
	s.With(func(v *T) { initial = fn(v) })

	derived := New(s.ref.Arena(), initial)
	target := derived.Signal()

	err := s.Subscribe(func(v *T) bool {
		err := target.TryUpdate(func(r *R) { *r = fn(v) })
		return !errors.Is(err, genref.ErrStale)
	})
	if err != nil {
		derived.Release()
		panic(err)
	}

	return derived
}
