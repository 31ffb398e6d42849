package signal

import "github.com/hupe1980/genref"

// Guard is a read-only borrow of a signal value.
type Guard[T any] struct {
	g *genref.Guard[state[T]]
}

// Get returns a copy of the value.
func (g *Guard[T]) Get() T { return g.g.Ptr().value }

// Ptr returns a pointer to the value, valid until Release.
func (g *Guard[T]) Ptr() *T { return &g.g.Ptr().value }

// Release ends the borrow.
func (g *Guard[T]) Release() { g.g.Release() }

// MutGuard is a read-write borrow of a signal value.
type MutGuard[T any] struct {
	g *genref.MutGuard[state[T]]
}

// Get returns a copy of the value.
func (g *MutGuard[T]) Get() T { return g.g.Ptr().value }

// Ptr returns a pointer to the value, valid until Release.
func (g *MutGuard[T]) Ptr() *T { return &g.g.Ptr().value }

// Set replaces the value without notifying subscribers.
func (g *MutGuard[T]) Set(v T) { g.g.Ptr().value = v }

// Release ends the borrow.
func (g *MutGuard[T]) Release() { g.g.Release() }
