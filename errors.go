package genref

import (
	"errors"
	"fmt"

	"github.com/hupe1980/genref/internal/resource"
	"github.com/hupe1980/genref/internal/slot"
)

var (
	// ErrStale is returned when a Ref outlived the value it was taken from.
	ErrStale = errors.New("genref: stale reference")

	// ErrAliasing is returned when a borrow would break the aliasing rule:
	// an exclusive borrow while any borrow is outstanding, or a shared borrow
	// while an exclusive one is.
	ErrAliasing = errors.New("genref: aliasing violation")

	// ErrGuardReleased is raised when a guard is used after Release.
	ErrGuardReleased = errors.New("genref: guard already released")

	// ErrArenaClosed is returned when allocating from a closed arena.
	ErrArenaClosed = errors.New("genref: arena closed")

	// ErrArenaInUse is returned when closing an arena that still owns values.
	ErrArenaInUse = errors.New("genref: arena still owns live values")

	// ErrMemoryLimitExceeded is returned when fresh slot storage would exceed
	// the configured memory limit.
	ErrMemoryLimitExceeded = errors.New("genref: memory limit exceeded")

	// ErrPoolExhausted is returned when a pool cannot address another slot.
	ErrPoolExhausted = errors.New("genref: pool exhausted")
)

// BorrowError describes a failed borrow.
//
// It matches ErrStale or ErrAliasing with errors.Is. The underlying slot
// error is matched too.
type BorrowError struct {
	Mode  BorrowMode
	Ref   string
	kind  error
	cause error
}

func (e *BorrowError) Error() string {
	return fmt.Sprintf("%s borrow of %s failed: %v (%v)", e.Mode, e.Ref, e.kind, e.cause)
}

func (e *BorrowError) Unwrap() []error { return []error{e.kind, e.cause} }

// OwnerInUseError is raised when an Owner is released while a guard derived
// from one of its references is still alive.
type OwnerInUseError struct {
	Ref     string
	State   BorrowState
	Readers uint32
}

func (e *OwnerInUseError) Error() string {
	if e.State == StateShared {
		return fmt.Sprintf("genref: owner of %s released with %d shared borrow(s) outstanding", e.Ref, e.Readers)
	}
	return fmt.Sprintf("genref: owner of %s released with %s borrow outstanding", e.Ref, e.State)
}

func newBorrowError(mode BorrowMode, ref string, err error) *BorrowError {
	kind := ErrAliasing
	if errors.Is(err, slot.ErrStale) {
		kind = ErrStale
	}
	return &BorrowError{Mode: mode, Ref: ref, kind: kind, cause: err}
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, resource.ErrMemoryLimitExceeded) {
		return fmt.Errorf("%w: %w", ErrMemoryLimitExceeded, err)
	}
	if errors.Is(err, slot.ErrPoolExhausted) {
		return fmt.Errorf("%w: %w", ErrPoolExhausted, err)
	}

	return err
}
