package alloc

import (
	"runtime"
	"unsafe"
)

// Alloc allocates space for one T from a and returns a pointer to it,
// uninitialized (its bytes carry whatever the underlying allocator handed
// back — zero if the allocator zeroes, garbage otherwise). Returns nil on
// allocation failure, never panics (spec §7).
func Alloc[T any](a Allocator) *T {
	var zero T
	b := a.Allocate(int(unsafe.Sizeof(zero)))
	if b.IsNil() {
		return nil
	}
	return (*T)(b.Ptr)
}

// AllocUninitialized is an alias for Alloc, named for symmetry with
// AllocZeroed at call sites that want to be explicit about not relying on
// zeroed memory.
func AllocUninitialized[T any](a Allocator) *T {
	return Alloc[T](a)
}

// AllocZeroed allocates space for one T from a and zeroes it before
// returning.
func AllocZeroed[T any](a Allocator) *T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	b := a.Allocate(size)
	if b.IsNil() {
		return nil
	}
	bs := b.Bytes()
	for i := range bs {
		bs[i] = 0
	}
	return (*T)(b.Ptr)
}

// AllocSlice allocates space for n Ts from a and returns it as a []T,
// uninitialized. Returns nil if n <= 0 or allocation fails.
func AllocSlice[T any](a Allocator, n int) []T {
	if n <= 0 {
		return nil
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	b := a.Allocate(elemSize * n)
	if b.IsNil() {
		return nil
	}
	return unsafe.Slice((*T)(b.Ptr), n)
}

// AllocSliceZeroed allocates space for n Ts from a, zeroes it, and returns
// it as a []T.
func AllocSliceZeroed[T any](a Allocator, n int) []T {
	s := AllocSlice[T](a, n)
	if s == nil {
		return nil
	}
	var zero T
	for i := range s {
		s[i] = zero
	}
	return s
}

// PtrAndKeepAlive allocates one T from a, runs init on the resulting
// pointer, calls runtime.KeepAlive on it after init returns, and returns
// the pointer — useful when T's pointer is about to be handed to code
// (cgo, a syscall) the Go compiler can't see is still using it, since the
// backing memory for a non-GC-backed allocator (Mallocator and anything
// built on it) is already invisible to the garbage collector and needs no
// such guard, but a composition whose leaf allocator happens to be
// GC-backed still benefits from the same call site shape.
func PtrAndKeepAlive[T any](a Allocator, init func(*T)) *T {
	p := Alloc[T](a)
	if p == nil {
		return nil
	}
	if init != nil {
		init(p)
	}
	runtime.KeepAlive(p)
	return p
}
