package alloc

import (
	"unsafe"

	"github.com/pkg/errors"
)

// FreeList recycles blocks of a single fixed size carved from an inner
// allocator (spec §4.5): deallocate pushes the block onto a free stack
// instead of returning it to inner, and the next allocate of at most that
// size pops it back off — turning a churn of same-sized allocate/
// deallocate pairs into O(1) stack operations with no calls into inner at
// all once the list is populated.
//
// The free stack is stored in-place: a free block's own first pointer-sized
// bytes hold the address of the next free block (or nil), the same way a
// C free list links through the memory it manages instead of paying for
// separate bookkeeping nodes. This only needs bytes, never an Allocator
// interface value, so unlike cascadeNode (cascading.go) there is no GC
// visibility hazard in parking it inside manually-managed memory.
//
// Requests larger than blockSize are passed straight through to inner,
// unmanaged by the free list.
type FreeList struct {
	inner     Allocator
	blockSize int
	batch     int
	maxNodes  int
	free      unsafe.Pointer // head of the in-place free list, nil if empty
	numFree   int
}

// NewFreeList builds a FreeList recycling blocks of exactly blockSize bytes,
// carving `batch` of them from inner at a time once the list runs dry, and
// never holding more than maxNodes free blocks (deallocate beyond that cap
// passes straight through to inner instead of growing the list further).
// blockSize must be at least the size of a pointer, since a free block's
// own bytes double as the next-pointer linkage while it sits on the list.
func NewFreeList(inner Allocator, blockSize, batch, maxNodes int) (*FreeList, error) {
	if blockSize < int(unsafe.Sizeof(uintptr(0))) {
		return nil, errors.Errorf("alloc: free list block size %d below pointer size", blockSize)
	}
	if err := requirePositive("batch", batch); err != nil {
		return nil, err
	}
	if err := requirePositive("maxNodes", maxNodes); err != nil {
		return nil, err
	}
	return &FreeList{inner: inner, blockSize: blockSize, batch: batch, maxNodes: maxNodes}, nil
}

// push links b onto the head of the in-place free stack, writing the
// current head into b's own leading bytes.
func (f *FreeList) push(ptr unsafe.Pointer) {
	*(*unsafe.Pointer)(ptr) = f.free
	f.free = ptr
	f.numFree++
}

// pop unlinks and returns the block at the head of the free stack. The
// caller must ensure the stack is non-empty.
func (f *FreeList) pop() Block {
	ptr := f.free
	f.free = *(*unsafe.Pointer)(ptr)
	f.numFree--
	return Block{Ptr: ptr, Size: f.blockSize}
}

// populate refills the free stack per spec §4.5's populate policy: when
// inner supports truncated deallocation, carve one chunk of
// batch*blockSize bytes and split it into batch in-place nodes — one
// allocate call into inner instead of batch. Otherwise (inner can't accept
// a sub-range back on Deallocate), fall back to batch individual
// blockSize allocations, stopping early if inner runs out.
func (f *FreeList) populate() {
	if f.inner.SupportsTruncatedDeallocation() {
		chunk := f.inner.Allocate(f.batch * f.blockSize)
		if chunk.IsNil() {
			f.populateIndividually()
			return
		}
		for i := 0; i < f.batch; i++ {
			f.push(unsafe.Add(chunk.Ptr, i*f.blockSize))
		}
		return
	}
	f.populateIndividually()
}

// populateIndividually carves `batch` blockSize blocks from inner one at a
// time, used when inner can't hand back a carved sub-range on Deallocate.
func (f *FreeList) populateIndividually() {
	for i := 0; i < f.batch; i++ {
		b := f.inner.Allocate(f.blockSize)
		if b.IsNil() {
			return
		}
		f.push(b.Ptr)
	}
}

// Allocate returns a recycled blockSize block for any request of at most
// blockSize bytes, carving a fresh batch from inner if the free stack is
// empty; larger sizes are passed straight through to inner.
func (f *FreeList) Allocate(size int) Block {
	if size <= 0 {
		return Null
	}
	if size > f.blockSize {
		return f.inner.Allocate(size)
	}
	if f.free == nil {
		f.populate()
		if f.free == nil {
			return Null
		}
	}
	return f.pop()
}

// Deallocate pushes a blockSize block back onto the free stack (unless the
// list is already at maxNodes, in which case it releases to inner instead);
// any other size is deallocated straight through to inner.
func (f *FreeList) Deallocate(b *Block) {
	if b.IsNil() {
		return
	}
	if b.Size != f.blockSize || f.numFree >= f.maxNodes {
		f.inner.Deallocate(b)
		return
	}
	f.push(b.Ptr)
	*b = Null
}

// Reallocate succeeds in place when b is a blockSize block and newSize
// still fits in it, leaving b.Size at blockSize rather than shrinking it
// (the same non-update LinearArena makes for a shrink of a non-last
// block). Any other resize is handled as allocate-copy-free against the
// same list (which itself may pass through to inner).
func (f *FreeList) Reallocate(b *Block, newSize int) bool {
	if handled, ok := reallocFastPath(f, b, newSize); handled {
		return ok
	}
	if newSize <= f.blockSize && b.Size == f.blockSize {
		return true
	}
	return allocateCopyFree(f, f, b, newSize)
}

// Alignment reports the inner allocator's alignment guarantee, unchanged by
// recycling.
func (f *FreeList) Alignment() int {
	return f.inner.Alignment()
}

// SupportsTruncatedDeallocation is false: recycled blocks must be returned
// whole, at exactly blockSize, to remain eligible for reuse.
func (f *FreeList) SupportsTruncatedDeallocation() bool {
	return false
}

// Drain releases every currently free (recycled) block back to inner,
// without affecting blocks still in use by callers.
func (f *FreeList) Drain() {
	for f.free != nil {
		b := f.pop()
		f.inner.Deallocate(&b)
	}
}
