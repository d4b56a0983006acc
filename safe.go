package alloc

import "sync"

// Synchronized wraps any Allocator in a mutex, giving it coarse-grained
// thread safety by explicit opt-in (spec §5 — no compositor introduces
// hidden locking on its own). This is the generalized shape of the
// teacher's hand-rolled SafeArena lock, for any Allocator. SafeArena below
// does not use it: it keeps its own mutex around an *Arena.
type Synchronized[A Allocator] struct {
	mu    sync.Mutex
	inner A
}

// NewSynchronized wraps inner in a mutex.
func NewSynchronized[A Allocator](inner A) *Synchronized[A] {
	return &Synchronized[A]{inner: inner}
}

// Allocate locks, forwards to inner, and unlocks.
func (s *Synchronized[A]) Allocate(size int) Block {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Allocate(size)
}

// Deallocate locks, forwards to inner, and unlocks.
func (s *Synchronized[A]) Deallocate(b *Block) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.Deallocate(b)
}

// Reallocate locks, forwards to inner, and unlocks.
func (s *Synchronized[A]) Reallocate(b *Block, newSize int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Reallocate(b, newSize)
}

// Alignment forwards to inner; alignment never changes under concurrent
// use, so this doesn't need the lock, but takes it anyway for simplicity
// and to stay safe if a future inner type makes Alignment stateful.
func (s *Synchronized[A]) Alignment() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Alignment()
}

// SupportsTruncatedDeallocation forwards to inner.
func (s *Synchronized[A]) SupportsTruncatedDeallocation() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.SupportsTruncatedDeallocation()
}

// Owns locks and forwards to inner if inner implements Owner; otherwise
// reports false.
func (s *Synchronized[A]) Owns(b Block) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return owns(s.inner, b)
}

// DeallocateAll locks and forwards to inner if inner implements
// Resettable; otherwise it is a no-op.
func (s *Synchronized[A]) DeallocateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := any(s.inner).(Resettable); ok {
		r.DeallocateAll()
	}
}

// SafeArena is a mutex-protected Arena, for callers that want the
// teacher's original chunked-arena API with concurrent access instead of
// reaching for Synchronized[*Arena] directly.
type SafeArena struct {
	mu sync.Mutex
	a  *Arena
}

// NewSafeArena creates a new thread-safe arena with the given chunk size.
// If chunkSize <= 0, DefaultChunkSize is used.
func NewSafeArena(chunkSize int) *SafeArena {
	return &SafeArena{a: NewArena(chunkSize)}
}

// AllocBytes thread-safely allocates n bytes and returns a slice over
// them. Returns nil if n <= 0.
func (s *SafeArena) AllocBytes(n int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.AllocBytes(n)
}

// EnsureCapacity thread-safely calls Arena.EnsureCapacity, which grows by
// one chunk if the current chunk can't hold n more bytes.
func (s *SafeArena) EnsureCapacity(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.EnsureCapacity(n)
}

// Reset thread-safely reclaims every allocation for arena reuse.
func (s *SafeArena) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Reset()
}

// Release thread-safely releases every chunk and makes the arena unusable.
func (s *SafeArena) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Release()
}

// SafeAlloc thread-safely allocates a zeroed T from the arena.
func SafeAlloc[T any](s *SafeArena) *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AllocZeroed[T](s.a)
}

// SafeAllocZeroed is identical to SafeAlloc; kept for API symmetry with
// AllocZeroed/AllocUninitialized.
func SafeAllocZeroed[T any](s *SafeArena) *T {
	return SafeAlloc[T](s)
}

// SafeAllocUninitialized thread-safely allocates a T without zeroing it.
func SafeAllocUninitialized[T any](s *SafeArena) *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AllocUninitialized[T](s.a)
}

// SafeAllocSlice thread-safely allocates a slice of n Ts, uninitialized.
func SafeAllocSlice[T any](s *SafeArena, n int) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AllocSlice[T](s.a, n)
}

// SafeAllocSliceZeroed thread-safely allocates a zeroed slice of n Ts.
func SafeAllocSliceZeroed[T any](s *SafeArena, n int) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AllocSliceZeroed[T](s.a, n)
}
