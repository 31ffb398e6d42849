package slot

import (
	"fmt"
	"reflect"
)

// Layout describes the memory shape of a value: its size and alignment.
// Values of different types that share a Layout share a Pool.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// header mirrors the bookkeeping fields of a Slot; it is only used to size
// the per-slot overhead for memory accounting.
type header struct {
	generation uint64
	shared     uint32
	exclusive  bool
}

var headerSize = reflect.TypeFor[header]().Size()

// LayoutOf returns the Layout of T.
func LayoutOf[T any]() Layout {
	t := reflect.TypeFor[T]()
	return Layout{
		Size:  t.Size(),
		Align: uintptr(t.Align()),
	}
}

// SlotBytes returns the number of bytes a slot of this layout occupies,
// bookkeeping included.
func (l Layout) SlotBytes() int64 {
	return int64(headerSize + l.Size) //nolint:gosec // sizes of Go types fit in int64
}

func (l Layout) String() string {
	return fmt.Sprintf("size=%d,align=%d", l.Size, l.Align)
}
