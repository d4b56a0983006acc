package alloc

// DefaultChunkSize is the default chunk size for a new Arena (64 KiB).
const DefaultChunkSize = 1 << 16

// Arena is the toolkit's chunked, auto-growing convenience allocator:
// allocate many temporary objects from it, then Reset() for O(1) cleanup,
// or Release() when done entirely. Where the rest of this package exposes
// the raw compositors to build a composition by hand, Arena is the
// ready-made one most callers reach for first — a CascadingAllocator whose
// nodes are LinearArenas over HeapBuffers sourced from Mallocator, so it
// keeps the teacher's exact chunk-growth behavior while being built
// entirely out of the same primitives every other composition uses.
//
// Not goroutine-safe by default; wrap in Synchronized (safe.go), or use
// SafeArena, for concurrent access.
type Arena struct {
	chunkSize int
	cascade   *CascadingAllocator
	released  bool
}

// NewArena creates a new Arena with the given chunk size. If chunkSize <=
// 0, DefaultChunkSize is used.
func NewArena(chunkSize int) *Arena {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	a := &Arena{chunkSize: chunkSize}
	cascade, err := NewCascadingAllocator(a.newNode)
	if err != nil {
		// newNode only fails if Mallocator itself is out of memory on the
		// very first chunk; there is no good fallback, so surface an
		// unusable arena the same way Release() leaves one.
		a.released = true
		return a
	}
	a.cascade = cascade
	return a
}

// newNode builds one cascade node: a LinearArena over a HeapBuffer of
// a.chunkSize bytes, backed by Mallocator.
func (a *Arena) newNode() (Allocator, error) {
	buf, err := NewHeapBuffer(Mallocator{}, a.chunkSize)
	if err != nil {
		return nil, err
	}
	return NewLinearArena(buf, int(minAlignment))
}

// AllocBytes returns a []byte of length n carved from the arena's current
// chunk, growing the chain with a fresh chunk if needed. Returns nil if
// n <= 0, if n (rounded up to the alignment) is larger than one chunk, or
// if the underlying Mallocator failed.
func (a *Arena) AllocBytes(n int) []byte {
	a.panicIfReleased()
	if n <= 0 {
		return nil
	}
	b := a.cascade.Allocate(n)
	if b.IsNil() {
		return nil
	}
	return b.Bytes()[:n]
}

// EnsureCapacity grows the arena by one fresh chunk of ChunkSize bytes if
// the current chunk can't hold n more bytes. It's a hint, not a guarantee:
// a large enough n still grows by exactly one chunk, which may itself be
// insufficient, matching the teacher's single-grow behavior.
func (a *Arena) EnsureCapacity(n int) {
	a.panicIfReleased()
	head := a.cascade.head.alloc.(*LinearArena)
	if head.sizeInUse()+alignUp(n, head.Alignment()) > head.capacity() {
		a.cascade.grow()
	}
}

// Reset reclaims every allocation in the arena in one call: the newest
// chunk is rewound and kept for reuse by the next round of allocations,
// and every other chunk is returned to Mallocator, leaving one chunk.
func (a *Arena) Reset() {
	a.panicIfReleased()
	a.cascade.DeallocateAll()
}

// Release returns every chunk to Mallocator and makes the arena unusable.
// Any subsequent operation panics.
func (a *Arena) Release() {
	if a.released {
		return
	}
	for n := a.cascade.head; n != nil; n = n.next {
		if rel, ok := n.alloc.(releaser); ok {
			rel.Release()
		}
	}
	a.cascade = nil
	a.released = true
}

// panicIfReleased panics if the arena has been released, matching the
// teacher's "use after Release() panics" contract.
func (a *Arena) panicIfReleased() {
	if a.released {
		panic("alloc: use after Release()")
	}
}

// Allocate satisfies Allocator, so an Arena can be composed into (or
// wrapped by) anything that takes an Allocator — Segregator, Bucketizer,
// Synchronized, and the generic Alloc[T] front-end all work on a plain
// *Arena exactly as they do on any other allocator in this package.
func (a *Arena) Allocate(size int) Block {
	a.panicIfReleased()
	if size <= 0 {
		return Null
	}
	return a.cascade.Allocate(size)
}

// Deallocate forwards to the underlying cascade.
func (a *Arena) Deallocate(b *Block) {
	a.panicIfReleased()
	a.cascade.Deallocate(b)
}

// Reallocate forwards to the underlying cascade.
func (a *Arena) Reallocate(b *Block, newSize int) bool {
	a.panicIfReleased()
	return a.cascade.Reallocate(b, newSize)
}

// Alignment forwards to the underlying cascade.
func (a *Arena) Alignment() int {
	a.panicIfReleased()
	return a.cascade.Alignment()
}

// SupportsTruncatedDeallocation is false, matching CascadingAllocator, which
// every operation forwards to.
func (a *Arena) SupportsTruncatedDeallocation() bool {
	return false
}

// Owns forwards to the underlying cascade.
func (a *Arena) Owns(b Block) bool {
	a.panicIfReleased()
	return a.cascade.Owns(b)
}

// DeallocateAll is Reset's Resettable-interface name, so an Arena plugged
// into a generic composition can be reset the same way any other
// Resettable allocator is.
func (a *Arena) DeallocateAll() {
	a.Reset()
}
