package alloc

// FallbackAllocator tries Primary first and only reaches for Secondary when
// Primary fails (spec §4.8) — the canonical "fast small arena, slow general
// heap behind it" composition.
type FallbackAllocator struct {
	Primary   Allocator
	Secondary Allocator
}

// NewFallbackAllocator builds a FallbackAllocator over primary and
// secondary.
func NewFallbackAllocator(primary, secondary Allocator) *FallbackAllocator {
	return &FallbackAllocator{Primary: primary, Secondary: secondary}
}

// Allocate tries Primary, then Secondary.
func (f *FallbackAllocator) Allocate(size int) Block {
	if b := f.Primary.Allocate(size); !b.IsNil() {
		return b
	}
	return f.Secondary.Allocate(size)
}

// Deallocate routes to Primary if it claims ownership of b, otherwise to
// Secondary — Secondary is the catch-all (Mallocator, the usual Secondary,
// always reports ownership since it can't track individual blocks).
func (f *FallbackAllocator) Deallocate(b *Block) {
	if b.IsNil() {
		return
	}
	if owns(f.Primary, *b) {
		f.Primary.Deallocate(b)
		return
	}
	f.Secondary.Deallocate(b)
}

// Reallocate resizes in place through whichever allocator owns b; on
// failure it falls back to allocating fresh from Primary then Secondary,
// copying, and releasing the old block.
func (f *FallbackAllocator) Reallocate(b *Block, newSize int) bool {
	if handled, ok := reallocFastPath(f, b, newSize); handled {
		return ok
	}
	owner := f.Secondary
	if owns(f.Primary, *b) {
		owner = f.Primary
	}
	if owner.Reallocate(b, newSize) {
		return true
	}
	if allocateCopyFree(owner, f.Primary, b, newSize) {
		return true
	}
	return allocateCopyFree(owner, f.Secondary, b, newSize)
}

// Alignment reports the maximum of Primary's and Secondary's alignment — a
// compositor advertises the strongest guarantee it can make across every
// inner allocator it might route a request to.
func (f *FallbackAllocator) Alignment() int {
	a, b := f.Primary.Alignment(), f.Secondary.Alignment()
	if a > b {
		return a
	}
	return b
}

// SupportsTruncatedDeallocation is false: ownership routing depends on the
// block's original address/size.
func (f *FallbackAllocator) SupportsTruncatedDeallocation() bool {
	return false
}

// Owns reports whether Primary or Secondary owns b.
func (f *FallbackAllocator) Owns(b Block) bool {
	return owns(f.Primary, b) || owns(f.Secondary, b)
}

// owns reports whether a implements Owner and claims b; allocators that
// don't implement Owner (e.g. FreeList, AlignedMallocator) conservatively
// report false.
func owns(a Allocator, b Block) bool {
	if owner, ok := a.(Owner); ok {
		return owner.Owns(b)
	}
	return false
}
