// Package genref provides generational references: copyable, non-owning
// handles to arena-resident values, checked on every access.
//
// An Owner stores one value in a slot of an Arena. Any number of Refs can be
// copied out of it and kept around, e.g. in subscriber lists. A Ref is
// exchanged for a Guard (read-only) or a MutGuard (read-write) for the
// duration of a scope. When the Owner is released the slot's generation
// advances and every Ref taken from it becomes permanently stale.
//
// # Quick Start
//
//	arena := genref.NewArena()
//
//	owner := genref.New(arena, 5)
//	defer owner.Release()
//
//	ref := owner.Ref()
//
//	g := ref.BorrowMut()
//	g.Set(6)
//	g.Release()
//
//	r := ref.Borrow()
//	fmt.Println(r.Get()) // 6
//	r.Release()
//
// # Aliasing Rule
//
// A value has either any number of Guards, or exactly one MutGuard, never
// both. The rule is enforced at run time:
//
//	g1, _ := ref.TryBorrow()       // ok
//	g2, _ := ref.TryBorrow()       // ok, shared borrows coexist
//	_, err := ref.TryBorrowMut()   // errors.Is(err, genref.ErrAliasing)
//	g1.Release()
//	g2.Release()
//
// # Failure Model
//
// Every access has two entry points. TryBorrow and TryBorrowMut return
// ErrStale or ErrAliasing. Borrow and BorrowMut are for callers that know the
// access cannot fail; if it does, that is a programmer error and they panic.
// Releasing an Owner while any of its guards is alive always panics.
//
// # Slot Reuse
//
// Slots are pooled by value Layout (size and alignment), so a slot released
// by one type can be reused by another type of the same layout. Generations
// never wrap: a slot that exhausts its generations is retired.
//
// # Concurrency
//
// An Arena and everything derived from it belongs to one goroutine. Nothing
// blocks; every operation completes in constant amortised time.
//
// # Reactive Values
//
// Package signal builds observable values with subscribers and derived
// values on top of this package.
package genref
