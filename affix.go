package alloc

import (
	"unsafe"

	"github.com/pkg/errors"
)

// AffixAllocator wraps an inner allocator and attaches a fixed-size prefix
// and/or suffix to every block it hands out (spec §4.10): the block the
// caller sees is the middle slice of a larger block actually carved from
// inner. This is how a composition gets per-block bookkeeping (a magic
// guard value, a size-class tag, a canary for a debug build) without the
// caller's code changing at all — it's the same bracketing idea as
// vkngwrapper-arsenal's debug-margin suballocations, generalized to
// arbitrary prefix/suffix byte counts instead of a fixed GPU guard word.
type AffixAllocator struct {
	inner      Allocator
	prefixSize int
	suffixSize int
}

// NewAffixAllocator builds an AffixAllocator attaching prefixSize bytes
// before and suffixSize bytes after every block inner produces. At least
// one of prefixSize/suffixSize must be positive. Both sizes are rounded up
// to inner's alignment, so the caller-visible pointer (full.Ptr+prefixSize)
// lands back on an inner.Alignment()-aligned address instead of drifting
// off it by whatever raw prefixSize the caller asked for.
func NewAffixAllocator(inner Allocator, prefixSize, suffixSize int) (*AffixAllocator, error) {
	if prefixSize < 0 || suffixSize < 0 {
		return nil, errors.New("alloc: affix sizes must not be negative")
	}
	if prefixSize == 0 && suffixSize == 0 {
		return nil, errors.New("alloc: affix allocator requires a non-zero prefix or suffix")
	}
	align := inner.Alignment()
	return &AffixAllocator{
		inner:      inner,
		prefixSize: alignUp(prefixSize, align),
		suffixSize: alignUp(suffixSize, align),
	}, nil
}

// full returns the total size actually carved from inner for a caller-
// visible request of size bytes.
func (a *AffixAllocator) full(size int) int {
	return a.prefixSize + size + a.suffixSize
}

// visible returns the caller-facing block (the middle slice) given the
// full block actually returned by inner.
func (a *AffixAllocator) visible(full Block, requestedSize int) Block {
	return Block{Ptr: unsafe.Add(full.Ptr, a.prefixSize), Size: requestedSize}
}

// affixed reconstructs the full block (including prefix/suffix) that
// backs a caller-visible block v.
func (a *AffixAllocator) affixed(v Block) Block {
	fullPtr := unsafe.Add(v.Ptr, -a.prefixSize)
	return Block{Ptr: fullPtr, Size: a.prefixSize + v.Size + a.suffixSize}
}

// Allocate carves prefixSize+size+suffixSize bytes from inner and returns
// only the middle size bytes to the caller.
func (a *AffixAllocator) Allocate(size int) Block {
	if size <= 0 {
		return Null
	}
	full := a.inner.Allocate(a.full(size))
	if full.IsNil() {
		return Null
	}
	return a.visible(full, size)
}

// Deallocate reconstructs the full (prefixed/suffixed) block from b and
// releases it to inner.
func (a *AffixAllocator) Deallocate(b *Block) {
	if b.IsNil() {
		return
	}
	full := a.affixed(*b)
	a.inner.Deallocate(&full)
	*b = Null
}

// Reallocate reconstructs the full block, resizes it through inner, and
// re-derives the caller-visible slice.
func (a *AffixAllocator) Reallocate(b *Block, newSize int) bool {
	if handled, ok := reallocFastPath(a, b, newSize); handled {
		return ok
	}
	full := a.affixed(*b)
	if !a.inner.Reallocate(&full, a.full(newSize)) {
		return false
	}
	*b = a.visible(full, newSize)
	return true
}

// Alignment reports inner's alignment. The caller-visible block starts
// prefixSize bytes into the full block, so callers needing a specific
// alignment on the visible pointer should choose prefixSize as a multiple
// of the desired alignment.
func (a *AffixAllocator) Alignment() int {
	return a.inner.Alignment()
}

// SupportsTruncatedDeallocation mirrors inner's support, since deallocation
// just reconstructs and forwards the full block.
func (a *AffixAllocator) SupportsTruncatedDeallocation() bool {
	return a.inner.SupportsTruncatedDeallocation()
}

// Owns reconstructs the full block from b and asks inner whether it owns
// it.
func (a *AffixAllocator) Owns(b Block) bool {
	if b.IsNil() {
		return false
	}
	return owns(a.inner, a.affixed(b))
}

// PrefixBytes exposes the prefix region immediately preceding b's visible
// memory, for callers that attached per-block metadata there.
func (a *AffixAllocator) PrefixBytes(b Block) []byte {
	if b.IsNil() || a.prefixSize == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Add(b.Ptr, -a.prefixSize)), a.prefixSize)
}

// SuffixBytes exposes the suffix region immediately following b's visible
// memory.
func (a *AffixAllocator) SuffixBytes(b Block) []byte {
	if b.IsNil() || a.suffixSize == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Add(b.Ptr, b.Size)), a.suffixSize)
}

// Prefix reinterprets the prefix region preceding b's visible memory as a
// *T, for allocators that attach a typed header (a size-class tag, a magic
// guard value) ahead of the caller's data.
func Prefix[T any](a *AffixAllocator, b Block) *T {
	if b.IsNil() || a.prefixSize < int(unsafe.Sizeof(*new(T))) {
		return nil
	}
	return (*T)(unsafe.Add(b.Ptr, -a.prefixSize))
}

// Suffix reinterprets the suffix region following b's visible memory as a
// *T.
func Suffix[T any](a *AffixAllocator, b Block) *T {
	if b.IsNil() || a.suffixSize < int(unsafe.Sizeof(*new(T))) {
		return nil
	}
	return (*T)(unsafe.Add(b.Ptr, b.Size))
}
