package slot

import (
	"errors"
	"math"
)

// Terminal is the generation at which a slot is retired for good.
//
// Release retires a slot as soon as its advanced generation reaches Terminal,
// so the last value a slot ever holds lives at Terminal-1 and no live value
// occupies a slot at Terminal. A scheme that retires only slots already at
// the sentinel would hand out one more life, whose references could never be
// invalidated.
const Terminal = math.MaxUint64

var (
	// ErrStale is returned when a captured generation no longer matches.
	ErrStale = errors.New("slot: stale generation")
	// ErrExclusivelyBorrowed is returned when the slot is held for writing.
	ErrExclusivelyBorrowed = errors.New("slot: exclusively borrowed")
	// ErrSharedBorrowed is returned when an exclusive borrow meets readers.
	ErrSharedBorrowed = errors.New("slot: shared borrow outstanding")
	// ErrTooManyReaders is returned when the shared count would overflow.
	ErrTooManyReaders = errors.New("slot: shared borrow count saturated")
	// ErrNotBorrowed is raised when releasing a borrow that is not held.
	ErrNotBorrowed = errors.New("slot: borrow not held")
)

// State is the borrow sub-state of a slot.
type State uint8

const (
	// Idle means no borrow is outstanding.
	Idle State = iota
	// Shared means one or more read-only borrows are outstanding.
	Shared
	// Exclusive means exactly one read-write borrow is outstanding.
	Exclusive
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Shared:
		return "shared"
	case Exclusive:
		return "exclusive"
	default:
		return "unknown"
	}
}

// Slot is a memory cell holding one value and its bookkeeping.
//
// Invariant: Shared > 0 implies !Exclusive, and Exclusive implies Shared == 0.
type Slot struct {
	Generation uint64
	Shared     uint32
	Exclusive  bool
	Value      any
}

// State reports the current borrow state.
func (s *Slot) State() State {
	switch {
	case s.Exclusive:
		return Exclusive
	case s.Shared > 0:
		return Shared
	default:
		return Idle
	}
}

// Borrowed reports whether any borrow is outstanding.
func (s *Slot) Borrowed() bool {
	return s.Exclusive || s.Shared > 0
}

// AcquireShared validates gen and registers one more reader.
func (s *Slot) AcquireShared(gen uint64) error {
	if s.Generation != gen {
		return ErrStale
	}
	if s.Exclusive {
		return ErrExclusivelyBorrowed
	}
	if s.Shared == math.MaxUint32 {
		return ErrTooManyReaders
	}
	s.Shared++
	return nil
}

// AcquireExclusive validates gen and registers the single writer.
func (s *Slot) AcquireExclusive(gen uint64) error {
	if s.Generation != gen {
		return ErrStale
	}
	if s.Exclusive {
		return ErrExclusivelyBorrowed
	}
	if s.Shared > 0 {
		return ErrSharedBorrowed
	}
	s.Exclusive = true
	return nil
}

// ReleaseShared drops one reader. It panics if no reader is registered.
func (s *Slot) ReleaseShared() {
	if s.Shared == 0 {
		panic(ErrNotBorrowed)
	}
	s.Shared--
}

// ReleaseExclusive drops the writer. It panics if no writer is registered.
func (s *Slot) ReleaseExclusive() {
	if !s.Exclusive {
		panic(ErrNotBorrowed)
	}
	s.Exclusive = false
}

// reset clears the borrow state; the generation is left untouched.
func (s *Slot) reset() {
	s.Shared = 0
	s.Exclusive = false
}
