package alloc

import "unsafe"

// minAlignment is the minimum alignment, in bytes, every allocator in this
// package guarantees (spec: "the minimum system alignment is 8 bytes").
const minAlignment = 8

// Block is the universal currency passed through every allocator operation:
// a base pointer and the number of bytes actually reserved there starting
// at that address. The zero value, Null, is the null block and signals
// allocation failure.
//
// Size as returned by Allocate may exceed the size requested — rounded up
// to the allocator's alignment, or to a bucket's maximum.
type Block struct {
	Ptr  unsafe.Pointer
	Size int
}

// Null is the null block: nil base, zero size.
var Null = Block{}

// IsNil reports whether b is the null block.
func (b Block) IsNil() bool {
	return b.Ptr == nil
}

// Bytes exposes the block's memory as a byte slice of length b.Size. The
// caller must not retain the slice past the block's lifetime (a
// deallocate, or a reallocate that rebinds the block, invalidates it).
func (b Block) Bytes() []byte {
	if b.IsNil() {
		return nil
	}
	return unsafe.Slice((*byte)(b.Ptr), b.Size)
}

// End returns the address one past the block's last byte.
func (b Block) End() uintptr {
	return uintptr(b.Ptr) + uintptr(b.Size)
}

// alignUp rounds size up to the next multiple of alignment. alignment must
// be a power of two.
func alignUp(size, alignment int) int {
	if alignment <= 1 {
		return size
	}
	mask := alignment - 1
	return (size + mask) &^ mask
}

// isPow2 reports whether n is a positive power of two.
func isPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// addOffset returns p advanced by off bytes.
func addOffset(p unsafe.Pointer, off int) unsafe.Pointer {
	return unsafe.Add(p, off)
}
