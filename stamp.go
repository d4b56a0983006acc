package alloc

// Debug fill patterns (spec §4.11): distinct byte values for freshly
// allocated and just-deallocated memory, chosen (as in most allocator
// debug builds) to be unlikely to occur in legitimate data and to crash
// fast if dereferenced as a pointer.
const (
	allocatedPattern   byte = 0xAC // "allocated"
	deallocatedPattern byte = 0xDE // "deallocated"
)

// StampAllocator wraps an inner allocator and fills every block with a
// fixed byte pattern on allocate and a different one on deallocate (spec
// §4.11). It's this toolkit's debug facility in place of a logging layer
// (see the ambient-stack note in the design docs): reading stale or
// uninitialized memory reliably shows the stamp instead of leftover data,
// the same role a log line would play but observable by inspecting memory
// directly.
type StampAllocator struct {
	inner Allocator
}

// NewStampAllocator wraps inner with allocate/deallocate pattern stamping.
func NewStampAllocator(inner Allocator) *StampAllocator {
	return &StampAllocator{inner: inner}
}

func fill(b Block, pattern byte) {
	bs := b.Bytes()
	for i := range bs {
		bs[i] = pattern
	}
}

// Allocate forwards to inner and stamps the returned block with
// allocatedPattern.
func (s *StampAllocator) Allocate(size int) Block {
	b := s.inner.Allocate(size)
	if !b.IsNil() {
		fill(b, allocatedPattern)
	}
	return b
}

// Deallocate stamps b with deallocatedPattern before forwarding the
// release to inner, so a use-after-free that reads through a stale
// reference sees the deallocated pattern rather than whatever the next
// allocation wrote.
func (s *StampAllocator) Deallocate(b *Block) {
	if b.IsNil() {
		return
	}
	fill(*b, deallocatedPattern)
	s.inner.Deallocate(b)
}

// Reallocate forwards to inner and stamps any newly added tail bytes with
// allocatedPattern, leaving the existing (possibly already-written) prefix
// untouched.
func (s *StampAllocator) Reallocate(b *Block, newSize int) bool {
	if handled, ok := reallocFastPath(s, b, newSize); handled {
		return ok
	}
	oldSize := b.Size
	if !s.inner.Reallocate(b, newSize) {
		return false
	}
	if b.Size > oldSize {
		tail := Block{Ptr: addOffset(b.Ptr, oldSize), Size: b.Size - oldSize}
		fill(tail, allocatedPattern)
	}
	return true
}

// Alignment reports inner's alignment, unaffected by stamping.
func (s *StampAllocator) Alignment() int {
	return s.inner.Alignment()
}

// SupportsTruncatedDeallocation mirrors inner's support.
func (s *StampAllocator) SupportsTruncatedDeallocation() bool {
	return s.inner.SupportsTruncatedDeallocation()
}

// Owns forwards to inner if it implements Owner.
func (s *StampAllocator) Owns(b Block) bool {
	return owns(s.inner, b)
}
