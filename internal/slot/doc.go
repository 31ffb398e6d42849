// Package slot implements the slot storage behind generational references.
//
// A Slot is a fixed cell holding a generation counter, the borrow state and
// one value. Slots are grouped into Pools by value Layout; a Pool hands out
// slot indices, recycling released ones through a LIFO free list.
//
// # Generations
//
// Every slot starts at generation 0. Releasing a slot advances its
// generation, so a reference that captured an older generation no longer
// matches and is reported as stale. Generations never wrap: a slot whose
// generation reaches Terminal is retired and never handed out again.
//
// # Borrow state
//
// A slot is Idle, Shared (one or more readers) or Exclusive (one writer).
// Shared and Exclusive never overlap. Only counts are tracked, not borrower
// identity, so a reader that re-enters a shared borrow is indistinguishable
// from an unrelated second reader.
//
// Nothing in this package is safe for concurrent use.
package slot
