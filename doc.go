// Package alloc is a toolkit for building custom memory allocators by
// composition.
//
// # Overview
//
// A handful of primitive allocators (Mallocator, AlignedMallocator,
// NullAllocator) sit at the bottom of every composition, reaching past
// Go's garbage collector to the real system allocator via cgo. A set of
// compositors — Bucketizer, Segregator, FallbackAllocator,
// CascadingAllocator, FreeList, LinearArena, ConcurrentLinearArena,
// AffixAllocator, StampAllocator — wrap one or more inner allocators to add
// size-class routing, growth, recycling, bump-pointer speed, per-block
// metadata, or debug fill patterns. Every one of them, primitive or
// compositor, satisfies the same Allocator interface, so they nest
// arbitrarily:
//
//	small, _ := NewFreeList(Mallocator{}, 64, 32, 256)
//	buf, _ := NewHeapBuffer(Mallocator{}, 1<<20)
//	large, _ := NewLinearArena(buf, 16)
//	composed, _ := NewSegregator(128, small, large)
//
// # Basic Usage
//
// Arena is the ready-made composition most callers reach for first — a
// chunked, auto-growing bump allocator built entirely out of the
// primitives above:
//
//	a := NewArena(0) // default chunk size
//	defer a.Release()
//
//	buf := a.AllocBytes(1024)
//	ptr := Alloc[MyStruct](a)
//	slice := AllocSlice[int](a, 100)
//
//	a.Reset() // rewind the newest chunk for reuse; free the others
//
// # Thread Safety
//
// Nothing is thread-safe by default except ConcurrentLinearArena, which is
// lock-free. Wrap any other allocator in Synchronized for coarse-grained
// thread safety by explicit opt-in:
//
//	safe := NewSynchronized[*Arena](NewArena(0))
//	b := safe.Allocate(1024)
//
// SafeArena packages this up for the common Arena case:
//
//	s := NewSafeArena(0)
//	defer s.Release()
//	buf := s.AllocBytes(1024)
//	ptr := SafeAlloc[MyStruct](s)
//
// # Memory Layout
//
// Every allocator operates on Block — a (pointer, size) pair — not on Go
// slices directly, mirroring the pointer-and-length model a C allocator
// works with. Bytes() exposes a Block as a []byte when a caller wants to
// read or write through it; the caller must not retain that slice past the
// block's lifetime.
//
// # Important Notes
//
//   - Allocation failure is always a value (the null Block, or false from
//     Reallocate/Owns), never a panic or an error.
//   - No compositor here performs garbage collection, reference counting,
//     or defragmentation — see each type's doc comment for exactly what it
//     does and doesn't reclaim.
//   - Memory from Mallocator and anything built on it is not zeroed; use
//     AllocZeroed/AllocSliceZeroed when that matters.
package alloc
