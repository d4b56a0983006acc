package alloc

/*
#include <stdlib.h>
*/
import "C"
import (
	"unsafe"

	"github.com/pkg/errors"
)

// Mallocator is the root allocator of most compositions: it reaches past
// Go's garbage collector straight to the C library allocator, the same way
// bnclabs-gostore's block pool backs itself with C.malloc/C.free rather
// than a GC-managed []byte. Most compositions in this package bottom out at
// one; the exceptions are arenas over a StackBuffer, AlignedMallocator and
// NullAllocator.
//
// Blocks returned by Mallocator are NOT visible to the Go garbage collector
// and NOT zeroed; callers that need zeroed memory should go through
// AllocZeroed/AllocSliceZeroed (generic.go).
type Mallocator struct{}

// Allocate requests size bytes from the C library allocator.
func (Mallocator) Allocate(size int) Block {
	if size <= 0 {
		return Null
	}
	p := C.malloc(C.size_t(size))
	if p == nil {
		return Null
	}
	return Block{Ptr: unsafe.Pointer(p), Size: size}
}

// Deallocate frees b and clears the caller's reference.
func (Mallocator) Deallocate(b *Block) {
	if b.IsNil() {
		return
	}
	C.free(b.Ptr)
	*b = Null
}

// Reallocate asks the C library to resize b in place, falling back to
// C.realloc's own move-and-copy semantics when it can't.
func (m Mallocator) Reallocate(b *Block, newSize int) bool {
	if handled, ok := reallocFastPath(m, b, newSize); handled {
		return ok
	}
	p := C.realloc(b.Ptr, C.size_t(newSize))
	if p == nil {
		return false
	}
	*b = Block{Ptr: unsafe.Pointer(p), Size: newSize}
	return true
}

// Alignment reports the alignment malloc itself guarantees on the host
// platform — the portable minimum, 8 bytes, for the max_align_t types this
// package cares about (pointers, 64-bit integers).
func (Mallocator) Alignment() int {
	return minAlignment
}

// SupportsTruncatedDeallocation is false: free() requires the exact
// pointer malloc returned, never an interior pointer or a prefix.
func (Mallocator) SupportsTruncatedDeallocation() bool {
	return false
}

// Owns always reports true. Mallocator sits at the bottom of almost every
// composition and never tracks which blocks it handed out, so it can't
// answer ownership precisely; reporting true makes it behave as the
// catch-all allocator a FallbackAllocator/CascadingAllocator chain expects
// at its tail — the same role the system heap plays in every other
// composition that bottoms out on it.
func (Mallocator) Owns(Block) bool {
	return true
}

// AlignedMallocator is a Mallocator that guarantees a caller-chosen
// power-of-two alignment via posix_memalign, for callers that need more
// than malloc's default alignment (SIMD buffers, page-aligned regions).
type AlignedMallocator struct {
	alignment int
}

// NewAlignedMallocator builds an AlignedMallocator guaranteeing the given
// power-of-two alignment, which must be a multiple of sizeof(void*).
func NewAlignedMallocator(alignment int) (*AlignedMallocator, error) {
	if !isPow2(alignment) {
		return nil, errors.Errorf("alloc: alignment %d is not a power of two", alignment)
	}
	if alignment < minAlignment {
		alignment = minAlignment
	}
	return &AlignedMallocator{alignment: alignment}, nil
}

// Allocate requests size bytes aligned to a.alignment via posix_memalign.
func (a *AlignedMallocator) Allocate(size int) Block {
	if size <= 0 {
		return Null
	}
	var p unsafe.Pointer
	ret := C.posix_memalign(&p, C.size_t(a.alignment), C.size_t(size))
	if ret != 0 || p == nil {
		return Null
	}
	return Block{Ptr: p, Size: size}
}

// Deallocate frees b (posix_memalign-obtained memory is freed with plain
// free, same as malloc) and clears the caller's reference.
func (a *AlignedMallocator) Deallocate(b *Block) {
	if b.IsNil() {
		return
	}
	C.free(b.Ptr)
	*b = Null
}

// Reallocate allocates a new aligned block, copies, and frees the old one
// — plain C.realloc does not preserve alignment guarantees, so the
// allocate-copy-free fallback is the only correct strategy here.
func (a *AlignedMallocator) Reallocate(b *Block, newSize int) bool {
	if handled, ok := reallocFastPath(a, b, newSize); handled {
		return ok
	}
	return allocateCopyFree(a, a, b, newSize)
}

// Alignment reports the alignment this allocator guarantees.
func (a *AlignedMallocator) Alignment() int {
	return a.alignment
}

// SupportsTruncatedDeallocation is false, for the same reason as Mallocator.
func (a *AlignedMallocator) SupportsTruncatedDeallocation() bool {
	return false
}

// NullAllocator always fails. It's useful as the terminal node of a
// FallbackAllocator chain or CascadingAllocator ceiling, and in tests that
// want to force an allocation-failure code path deterministically.
type NullAllocator struct{}

// Allocate always returns Null.
func (NullAllocator) Allocate(int) Block { return Null }

// Deallocate is a no-op; NullAllocator never owns anything.
func (NullAllocator) Deallocate(*Block) {}

// Reallocate always fails, leaving b untouched.
func (NullAllocator) Reallocate(*Block, int) bool { return false }

// Alignment returns the package minimum; NullAllocator never actually
// returns memory, so this is nominal.
func (NullAllocator) Alignment() int { return minAlignment }

// SupportsTruncatedDeallocation is false.
func (NullAllocator) SupportsTruncatedDeallocation() bool { return false }

// Owns always reports false: NullAllocator produces no blocks to own.
func (NullAllocator) Owns(Block) bool { return false }
