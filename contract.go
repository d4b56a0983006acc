package alloc

import "github.com/pkg/errors"

// Allocator is the contract every primitive and compositor in this package
// satisfies. Compositors hold their inner allocator(s) as ordinary struct
// fields typed Allocator — composition by value, never by embedding an
// inner allocator as a base type (the source's CRTP/inheritance layout
// trick doesn't translate to, and isn't needed in, Go).
type Allocator interface {
	// Allocate returns a block of at least size bytes, or Null on failure.
	// size == 0 may return Null or a zero-length block; callers must not
	// rely on either.
	Allocate(size int) Block

	// Deallocate releases b and zeroes the caller's reference to it.
	// Deallocating the null block is a no-op.
	Deallocate(b *Block)

	// Reallocate resizes b in place when possible; otherwise it may
	// allocate a new block, copy min(old, new) bytes, and release the old
	// one. On failure b is left completely unchanged and false is
	// returned.
	Reallocate(b *Block, newSize int) bool

	// Alignment is the power-of-two byte alignment this allocator
	// guarantees for every block it returns.
	Alignment() int

	// SupportsTruncatedDeallocation reports whether Deallocate accepts a
	// block that is a strict sub-range of a previously returned block.
	SupportsTruncatedDeallocation() bool
}

// Owner is implemented by allocators (primitive or composite) that can
// answer "did I produce this block" — required by compositors that route
// by ownership (FallbackAllocator, CascadingAllocator, the outer layer of a
// Segregator composition).
type Owner interface {
	Owns(b Block) bool
}

// Resettable is implemented by arenas that can release every outstanding
// allocation at once, resetting internal state in one call.
type Resettable interface {
	DeallocateAll()
}

// releaser is implemented by allocators that hold an external resource (a
// Mallocator-backed buffer) that must be explicitly returned rather than
// left for the garbage collector. CascadingAllocator type-asserts for this
// when discarding a node, so collapsing the chain doesn't silently leak the
// discarded nodes' buffers.
type releaser interface {
	Release()
}

// reallocFastPath applies the universal reallocate fast paths shared by
// every compositor before any type-specific logic runs (spec §4.1):
//
//  1. newSize == 0 behaves like Deallocate.
//  2. A null block behaves like a fresh Allocate.
//  3. A newSize that rounds up to the block's current size is a no-op.
//
// handled reports whether one of these paths fully processed the call; ok
// is only meaningful when handled is true.
func reallocFastPath(a Allocator, b *Block, newSize int) (handled, ok bool) {
	switch {
	case newSize == 0:
		a.Deallocate(b)
		return true, true
	case b.IsNil():
		nb := a.Allocate(newSize)
		if nb.IsNil() {
			return true, false
		}
		*b = nb
		return true, true
	case alignUp(newSize, a.Alignment()) == b.Size:
		return true, true
	default:
		return false, false
	}
}

// allocateCopyFree implements the shared "allocate a new block, copy
// min(old, new) bytes, deallocate the old block" fallback every compositor
// uses once its own in-place strategy fails. src and dst may be the same
// allocator (resizing within one allocator) or different ones (a
// compositor moving a block from one inner allocator to another, e.g.
// FallbackAllocator escalating to its secondary).
func allocateCopyFree(src, dst Allocator, b *Block, newSize int) bool {
	nb := dst.Allocate(newSize)
	if nb.IsNil() {
		return false
	}
	n := b.Size
	if newSize < n {
		n = newSize
	}
	if n > 0 {
		copy(nb.Bytes()[:n], b.Bytes()[:n])
	}
	src.Deallocate(b)
	*b = nb
	return true
}

// requirePositive returns a wrapped validation error if v is not positive.
// Shared by the compositor constructors that take a size/count parameter.
func requirePositive(name string, v int) error {
	if v <= 0 {
		return errors.Errorf("alloc: %s must be positive, got %d", name, v)
	}
	return nil
}
