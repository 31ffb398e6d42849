package genref

import (
	"github.com/hupe1980/genref/internal/slot"
)

// Guard is a scope-bound, read-only borrow of a value.
//
// Any number of Guards for the same value may be alive at once. Release the
// guard when leaving the scope that acquired it, typically with defer:
//
//	g, err := ref.TryBorrow()
//	if err != nil {
//	    return err
//	}
//	defer g.Release()
//
// A Guard that is never released blocks every exclusive borrow, and makes
// releasing the Owner fatal.
type Guard[T any] struct {
	slot     *slot.Slot
	value    *T
	released bool
}

func (g *Guard[T]) check() {
	if g.released {
		panic(ErrGuardReleased)
	}
}

// Get returns a copy of the value.
func (g *Guard[T]) Get() T {
	g.check()
	return *g.value
}

// Ptr returns a pointer to the value, valid until Release.
// The value must not be modified through it.
func (g *Guard[T]) Ptr() *T {
	g.check()
	return g.value
}

// Release ends the borrow. Calling Release more than once is a no-op.
func (g *Guard[T]) Release() {
	if g == nil || g.released {
		return
	}
	g.released = true
	g.slot.ReleaseShared()
}

// MutGuard is a scope-bound, read-write borrow of a value.
//
// While a MutGuard is alive, no other Guard or MutGuard for the same value
// can be acquired.
type MutGuard[T any] struct {
	slot     *slot.Slot
	value    *T
	released bool
}

func (g *MutGuard[T]) check() {
	if g.released {
		panic(ErrGuardReleased)
	}
}

// Get returns a copy of the value.
func (g *MutGuard[T]) Get() T {
	g.check()
	return *g.value
}

// Ptr returns a pointer to the value, valid until Release.
func (g *MutGuard[T]) Ptr() *T {
	g.check()
	return g.value
}

// Set replaces the value.
func (g *MutGuard[T]) Set(v T) {
	g.check()
	*g.value = v
}

// Release ends the borrow. Calling Release more than once is a no-op.
func (g *MutGuard[T]) Release() {
	if g == nil || g.released {
		return
	}
	g.released = true
	g.slot.ReleaseExclusive()
}
