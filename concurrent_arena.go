package alloc

import (
	"sync/atomic"
	"unsafe"

	"github.com/pkg/errors"
)

// ConcurrentLinearArena is the lock-free counterpart to LinearArena (spec
// §4.4): multiple goroutines may call Allocate concurrently without
// external synchronization, via a CAS-looped cursor. It runs the same
// algorithm as LinearArena (spec §4.3), including last-block reuse: a
// Deallocate or Reallocate of the block currently adjacent to the cursor
// (block.Ptr+block.Size == cursor) retries its CAS against a moving
// cursor instead of taking a lock, and simply gives up reclaiming — falling
// back to allocate-copy-free for Reallocate, or a no-op for Deallocate — the
// moment another goroutine has moved the cursor past that block.
type ConcurrentLinearArena struct {
	buf       BufferProvider
	base      unsafe.Pointer
	cursor    atomic.Uintptr
	size      uintptr
	alignment int
}

// NewConcurrentLinearArena builds a ConcurrentLinearArena over buf. Init is
// called eagerly here (unlike LinearArena's lazy ensureLive) because the
// base address must be fixed before any goroutine can safely CAS the
// cursor against it.
func NewConcurrentLinearArena(buf BufferProvider, alignment int) (*ConcurrentLinearArena, error) {
	if alignment < minAlignment {
		alignment = minAlignment
	}
	if !isPow2(alignment) {
		return nil, errors.Errorf("alloc: alignment %d is not a power of two", alignment)
	}
	base := buf.Init()
	if base == nil {
		return nil, errors.New("alloc: concurrent arena buffer initialization failed")
	}
	a := &ConcurrentLinearArena{buf: buf, base: base, size: uintptr(buf.Size()), alignment: alignment}
	return a, nil
}

// Allocate atomically bumps the cursor forward by alignUp(size, alignment)
// bytes via a CAS loop, returning Null once the buffer is exhausted.
func (a *ConcurrentLinearArena) Allocate(size int) Block {
	if size <= 0 {
		return Null
	}
	aligned := uintptr(alignUp(size, a.alignment))
	for {
		old := a.cursor.Load()
		next := old + aligned
		if next > a.size {
			return Null
		}
		if a.cursor.CompareAndSwap(old, next) {
			return Block{Ptr: unsafe.Add(a.base, old), Size: int(aligned)}
		}
	}
}

// Deallocate reclaims b only if it is still adjacent to the cursor
// (block.Ptr+block.Size == cursor): it CAS-loops the cursor back by
// b.Size, retrying against concurrent allocators, and gives up (a no-op)
// the instant the adjacency no longer holds — another goroutine has
// already bumped past b, so there is nothing safe left to reclaim.
func (a *ConcurrentLinearArena) Deallocate(b *Block) {
	if b.IsNil() {
		return
	}
	tail := uintptr(b.Ptr) + uintptr(b.Size)
	for {
		old := a.cursor.Load()
		if uintptr(a.base)+old != tail {
			break
		}
		if a.cursor.CompareAndSwap(old, old-uintptr(b.Size)) {
			break
		}
	}
	*b = Null
}

// Reallocate resizes b in place, CAS-looping the cursor, when b is still
// adjacent to the cursor and the arena has room for the new aligned size.
// Once b is not (or no longer) adjacent to the cursor, a shrink succeeds
// without updating b.Size, as in LinearArena, and a grow falls back to
// allocate-copy-free.
func (a *ConcurrentLinearArena) Reallocate(b *Block, newSize int) bool {
	if handled, ok := reallocFastPath(a, b, newSize); handled {
		return ok
	}
	aligned := uintptr(alignUp(newSize, a.alignment))
	offset := uintptr(b.Ptr) - uintptr(a.base)
	tail := uintptr(b.Ptr) + uintptr(b.Size)
	for {
		old := a.cursor.Load()
		if uintptr(a.base)+old != tail {
			if uintptr(b.Size) >= aligned {
				return true
			}
			return allocateCopyFree(a, a, b, newSize)
		}
		next := offset + aligned
		if next > a.size {
			return allocateCopyFree(a, a, b, newSize)
		}
		if a.cursor.CompareAndSwap(old, next) {
			b.Size = int(aligned)
			return true
		}
	}
}

// Alignment reports the alignment this arena bump-allocates to.
func (a *ConcurrentLinearArena) Alignment() int {
	return a.alignment
}

// SupportsTruncatedDeallocation is true: Deallocate/Reallocate recognize
// any block whose tail (Ptr+Size) matches the current cursor, including a
// sub-range of a larger allocation, the same tail-match rule LinearArena
// uses.
func (a *ConcurrentLinearArena) SupportsTruncatedDeallocation() bool {
	return true
}

// Owns reports whether b's address falls within this arena's buffer.
func (a *ConcurrentLinearArena) Owns(b Block) bool {
	if b.IsNil() {
		return false
	}
	start := uintptr(a.base)
	p := uintptr(b.Ptr)
	return p >= start && p < start+a.size
}

// DeallocateAll resets the cursor to zero. Callers must ensure no
// concurrent Allocate calls are in flight when calling this — it is not
// itself part of the lock-free protocol.
func (a *ConcurrentLinearArena) DeallocateAll() {
	a.cursor.Store(0)
}
