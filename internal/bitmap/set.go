package bitmap

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// Set is a set of 32-bit slot indices.
// It wraps the official roaring implementation.
type Set struct {
	rb *roaring.Bitmap
}

// New creates a new empty set.
func New() *Set {
	return &Set{
		rb: roaring.New(),
	}
}

// Add adds an index to the set.
func (s *Set) Add(id uint32) {
	s.rb.Add(id)
}

// CheckedRemove removes an index and reports whether it was present.
func (s *Set) CheckedRemove(id uint32) bool {
	return s.rb.CheckedRemove(id)
}

// Contains checks if an index is in the set.
func (s *Set) Contains(id uint32) bool {
	return s.rb.Contains(id)
}

// Cardinality returns the number of indices in the set.
func (s *Set) Cardinality() uint64 {
	return s.rb.GetCardinality()
}

// IsEmpty returns true if the set is empty.
func (s *Set) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// ForEach iterates over the set in ascending order.
// Iteration stops when fn returns false.
func (s *Set) ForEach(fn func(id uint32) bool) {
	it := s.rb.Iterator()
	for it.HasNext() {
		if !fn(it.Next()) {
			break
		}
	}
}

// All returns an iterator over the set in ascending order.
func (s *Set) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		s.ForEach(yield)
	}
}

// SizeInBytes returns the estimated in-memory size of the set.
func (s *Set) SizeInBytes() uint64 {
	return s.rb.GetSizeInBytes()
}
