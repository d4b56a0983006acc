package alloc

import (
	"unsafe"

	"github.com/pkg/errors"
)

// LinearArena is a bump-pointer allocator over a single fixed-size buffer
// supplied by a BufferProvider (spec §4.3). Deallocate and Reallocate both
// recognize any block whose tail is still adjacent to the cursor —
// block.Ptr+block.Size == base+offset — and rewind or resize in place;
// this is a superset of "reclaim only the last block", since a caller that
// gives back a trailing sub-range of its last allocation (rather than the
// whole thing) is recognized by the same formula.
type LinearArena struct {
	buf       BufferProvider
	base      unsafe.Pointer
	offset    int
	alignment int
}

// NewLinearArena builds a LinearArena over buf, bump-allocating with the
// given alignment (must be a power of two, at least minAlignment).
func NewLinearArena(buf BufferProvider, alignment int) (*LinearArena, error) {
	if alignment < minAlignment {
		alignment = minAlignment
	}
	if !isPow2(alignment) {
		return nil, errors.Errorf("alloc: alignment %d is not a power of two", alignment)
	}
	return &LinearArena{buf: buf, alignment: alignment}, nil
}

// tailMatches reports whether b's end address is exactly the current
// cursor — the shared condition Deallocate and Reallocate use to decide
// whether b can be reclaimed/resized in place.
func (l *LinearArena) tailMatches(b *Block) bool {
	return unsafe.Add(l.base, l.offset) == unsafe.Add(b.Ptr, b.Size)
}

func (l *LinearArena) ensureLive() bool {
	if l.base != nil {
		return true
	}
	p := l.buf.Init()
	if p == nil {
		return false
	}
	l.base = p
	return true
}

// Allocate bumps the cursor forward by alignUp(size, alignment) bytes and
// returns the block, or Null if the buffer is exhausted.
func (l *LinearArena) Allocate(size int) Block {
	if size <= 0 {
		return Null
	}
	if !l.ensureLive() {
		return Null
	}
	aligned := alignUp(size, l.alignment)
	if l.offset+aligned > l.buf.Size() {
		return Null
	}
	ptr := unsafe.Add(l.base, l.offset)
	l.offset += aligned
	return Block{Ptr: ptr, Size: aligned}
}

// Deallocate rewinds the cursor by b.Size if b's tail is adjacent to the
// cursor (block.Ptr+block.Size == base+offset); otherwise it is a no-op,
// matching spec §4.3's tail-match reclaim rule. Because the match is on
// address, not on whether b is a whole prior allocation, a truncated
// trailing sub-range of the last block is reclaimed too.
func (l *LinearArena) Deallocate(b *Block) {
	if b.IsNil() {
		return
	}
	if l.tailMatches(b) {
		l.offset -= b.Size
	}
	*b = Null
}

// Reallocate grows/shrinks b in place when its tail is adjacent to the
// cursor and the buffer has room for the new aligned size. A shrink of a
// block that is not adjacent to the cursor succeeds without updating
// b.Size, so that if the block later becomes the last one it still
// tail-matches by its full extent. Anything else falls back to
// allocate-copy-free within this same arena.
func (l *LinearArena) Reallocate(b *Block, newSize int) bool {
	if handled, ok := reallocFastPath(l, b, newSize); handled {
		return ok
	}
	aligned := alignUp(newSize, l.alignment)
	if l.tailMatches(b) {
		base := l.offset - b.Size
		if base+aligned <= l.buf.Size() {
			l.offset = base + aligned
			b.Size = aligned
			return true
		}
	}
	if b.Size >= aligned {
		return true
	}
	return allocateCopyFree(l, l, b, newSize)
}

// Alignment reports the alignment this arena bump-allocates to.
func (l *LinearArena) Alignment() int {
	return l.alignment
}

// SupportsTruncatedDeallocation is true: Deallocate/Reallocate reclaim any
// block whose tail matches the cursor, including a sub-range of a larger
// prior allocation, not only a whole previously-returned block.
func (l *LinearArena) SupportsTruncatedDeallocation() bool {
	return true
}

// Owns reports whether b's address falls within this arena's buffer.
func (l *LinearArena) Owns(b Block) bool {
	if b.IsNil() || l.base == nil {
		return false
	}
	start := uintptr(l.base)
	end := start + uintptr(l.buf.Size())
	p := uintptr(b.Ptr)
	return p >= start && p < end
}

// DeallocateAll resets the cursor to the beginning of the buffer,
// reclaiming every outstanding allocation in one call.
func (l *LinearArena) DeallocateAll() {
	l.offset = 0
}

// Release releases the underlying buffer if it is a HeapBuffer, returning
// its memory to the buffer's own inner allocator. Stack-backed buffers
// have nothing to release and this is a no-op for them.
func (l *LinearArena) Release() {
	if hb, ok := l.buf.(*HeapBuffer); ok {
		hb.Release()
	}
	l.base = nil
}

// sizeInUse reports the number of bytes currently bump-allocated.
func (l *LinearArena) sizeInUse() int {
	return l.offset
}

// capacity reports the arena's total buffer size.
func (l *LinearArena) capacity() int {
	return l.buf.Size()
}
