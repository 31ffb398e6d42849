// Package container implements container data structures.
package container

const (
	// segmentBits determines the size of each segment.
	// 8 bits = 256 items per segment.
	segmentBits = 8
	segmentSize = 1 << segmentBits
	segmentMask = segmentSize - 1
)

// SegmentedArray is an append-only, segmented array.
//
// Items never move once appended: growing the array allocates a new segment
// and leaves existing ones untouched, so pointers returned by At stay valid
// for the lifetime of the array. It is not safe for concurrent use.
type SegmentedArray[T any] struct {
	segments []*Segment[T]
	length   uint32
}

// Segment is a fixed-size array of items.
type Segment[T any] struct {
	items [segmentSize]T
}

// NewSegmentedArray creates a new SegmentedArray.
func NewSegmentedArray[T any]() *SegmentedArray[T] {
	return &SegmentedArray[T]{}
}

// Len returns the number of appended items.
func (sa *SegmentedArray[T]) Len() uint32 {
	return sa.length
}

// Append adds a zero item and returns its index and a stable pointer to it.
// The caller must make sure Len is below math.MaxUint32.
func (sa *SegmentedArray[T]) Append() (uint32, *T) {
	index := sa.length
	segIdx := int(index >> segmentBits)

	if segIdx == len(sa.segments) {
		sa.segments = append(sa.segments, &Segment[T]{})
	}

	sa.length++
	return index, &sa.segments[segIdx].items[index&segmentMask]
}

// At returns a pointer to the item at the given index.
// Returns nil if index is out of bounds.
func (sa *SegmentedArray[T]) At(index uint32) *T {
	if index >= sa.length {
		return nil
	}
	return &sa.segments[index>>segmentBits].items[index&segmentMask]
}

// Segments returns the number of allocated segments.
func (sa *SegmentedArray[T]) Segments() int {
	return len(sa.segments)
}
