package alloc

import (
	"unsafe"

	"github.com/pkg/errors"
)

// BufferProvider supplies a fixed-size block of backing memory to a
// LinearArena (or ConcurrentLinearArena). It decouples "where the bytes
// live" from "how they're bump-allocated", the same separation the teacher
// draws between a chunk's []byte and the cursor that walks it.
type BufferProvider interface {
	// Size returns the total capacity of the buffer, in bytes.
	Size() int
	// Init returns the base address of the buffer, allocating its backing
	// storage on first call if this provider is lazy.
	Init() unsafe.Pointer
}

// StackBuffer is a BufferProvider whose storage is an inline Go array
// embedded directly in the struct — no separate heap allocation for the
// buffer itself, the closest Go analogue to a non-movable C++ stack buffer.
// Instantiate with a concrete array type as the type parameter, e.g.
// StackBuffer[[4096]byte]{}.
//
// StackBuffer must not be copied by value after Init has been called: a
// copy duplicates the backing array, silently splitting one logical buffer
// into two. Hold it by pointer (*StackBuffer[A]) and pass that pointer to
// the arena that wraps it.
type StackBuffer[A any] struct {
	data A
}

// Size returns the size, in bytes, of the underlying array type A.
func (s *StackBuffer[A]) Size() int {
	return int(unsafe.Sizeof(s.data))
}

// Init returns the address of the inline array. Always available — there
// is nothing to lazily allocate.
func (s *StackBuffer[A]) Init() unsafe.Pointer {
	return unsafe.Pointer(&s.data)
}

// HeapBuffer is a BufferProvider backed by a block obtained from an inner
// Allocator (typically Mallocator, to get real non-GC memory for the
// arena's bump region). It can be eager (allocated at construction) or
// lazy (allocated on first Init call).
type HeapBuffer struct {
	inner Allocator
	block Block
	size  int
	lazy  bool
}

// NewHeapBuffer eagerly allocates size bytes from inner.
func NewHeapBuffer(inner Allocator, size int) (*HeapBuffer, error) {
	if err := requirePositive("size", size); err != nil {
		return nil, err
	}
	b := inner.Allocate(size)
	if b.IsNil() {
		return nil, errors.Errorf("alloc: heap buffer allocation of %d bytes failed", size)
	}
	return &HeapBuffer{inner: inner, block: b, size: size}, nil
}

// NewLazyHeapBuffer defers the allocation to the first call to Init.
func NewLazyHeapBuffer(inner Allocator, size int) (*HeapBuffer, error) {
	if err := requirePositive("size", size); err != nil {
		return nil, err
	}
	return &HeapBuffer{inner: inner, size: size, lazy: true}, nil
}

// Size returns the buffer's configured size, even before a lazy buffer has
// been initialized.
func (h *HeapBuffer) Size() int {
	return h.size
}

// Init returns the buffer's base address, allocating it now if this buffer
// is lazy and hasn't been initialized yet. Returns nil if the deferred
// allocation fails.
func (h *HeapBuffer) Init() unsafe.Pointer {
	if h.block.IsNil() {
		h.block = h.inner.Allocate(h.size)
		if h.block.IsNil() {
			return nil
		}
	}
	return h.block.Ptr
}

// Release returns the backing block to the inner allocator. The HeapBuffer
// must not be used afterward.
func (h *HeapBuffer) Release() {
	h.inner.Deallocate(&h.block)
}
