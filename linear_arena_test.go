package alloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearArenaAllocate(t *testing.T) {
	var buf StackBuffer[[256]byte]
	l, err := NewLinearArena(&buf, 8)
	require.NoError(t, err)

	a := l.Allocate(10)
	require.False(t, a.IsNil())
	assert.Equal(t, 16, a.Size) // rounded up to 8-byte alignment

	b := l.Allocate(8)
	require.False(t, b.IsNil())
	assert.NotEqual(t, a.Ptr, b.Ptr)
}

func TestLinearArenaExhaustion(t *testing.T) {
	var buf StackBuffer[[16]byte]
	l, err := NewLinearArena(&buf, 8)
	require.NoError(t, err)

	a := l.Allocate(16)
	require.False(t, a.IsNil())
	assert.True(t, l.Allocate(1).IsNil())
}

func TestLinearArenaLIFODeallocateReuse(t *testing.T) {
	var buf StackBuffer[[32]byte]
	l, err := NewLinearArena(&buf, 8)
	require.NoError(t, err)

	a := l.Allocate(8)
	require.False(t, a.IsNil())
	firstPtr := a.Ptr

	l.Deallocate(&a)
	assert.True(t, a.IsNil())

	b := l.Allocate(8)
	require.False(t, b.IsNil())
	assert.Equal(t, firstPtr, b.Ptr, "deallocating the last block must reclaim its space")
}

func TestLinearArenaDeallocateNonLastIsNoop(t *testing.T) {
	var buf StackBuffer[[32]byte]
	l, err := NewLinearArena(&buf, 8)
	require.NoError(t, err)

	a := l.Allocate(8)
	b := l.Allocate(8)
	require.False(t, a.IsNil())
	require.False(t, b.IsNil())

	l.Deallocate(&a) // a is not the last block; must be a no-op on the arena
	assert.True(t, a.IsNil())

	c := l.Allocate(8)
	require.False(t, c.IsNil())
	assert.NotEqual(t, b.Ptr, c.Ptr, "cursor should not have rewound onto the still-live b block")
}

func TestLinearArenaReallocateGrowInPlace(t *testing.T) {
	var buf StackBuffer[[64]byte]
	l, err := NewLinearArena(&buf, 8)
	require.NoError(t, err)

	b := l.Allocate(8)
	require.False(t, b.IsNil())
	ptr := b.Ptr

	ok := l.Reallocate(&b, 24)
	require.True(t, ok)
	assert.Equal(t, ptr, b.Ptr, "growing the last block in place must not move it")
	assert.Equal(t, 24, b.Size)
}

func TestLinearArenaDeallocateAll(t *testing.T) {
	var buf StackBuffer[[32]byte]
	l, err := NewLinearArena(&buf, 8)
	require.NoError(t, err)

	l.Allocate(8)
	l.Allocate(8)
	l.DeallocateAll()
	assert.Equal(t, 0, l.sizeInUse())

	b := l.Allocate(32)
	assert.False(t, b.IsNil())
}

func TestLinearArenaSupportsTruncatedDeallocation(t *testing.T) {
	var buf StackBuffer[[8]byte]
	l, err := NewLinearArena(&buf, 8)
	require.NoError(t, err)
	assert.True(t, l.SupportsTruncatedDeallocation())
}

func TestLinearArenaDeallocateTruncatedTailReclaims(t *testing.T) {
	var buf StackBuffer[[32]byte]
	l, err := NewLinearArena(&buf, 8)
	require.NoError(t, err)

	a := l.Allocate(16)
	require.False(t, a.IsNil())

	// Give back only the trailing half of the last allocation; its end
	// address still matches the cursor, so it should be reclaimed.
	tail := Block{Ptr: unsafe.Add(a.Ptr, 8), Size: 8}
	l.Deallocate(&tail)

	b := l.Allocate(8)
	require.False(t, b.IsNil())
	assert.Equal(t, unsafe.Add(a.Ptr, 8), b.Ptr, "reclaimed trailing sub-range should be reused")
}

func TestLinearArenaOwns(t *testing.T) {
	var buf StackBuffer[[32]byte]
	l, err := NewLinearArena(&buf, 8)
	require.NoError(t, err)

	b := l.Allocate(8)
	require.False(t, b.IsNil())
	assert.True(t, l.Owns(b))

	var other Mallocator
	ext := other.Allocate(8)
	defer other.Deallocate(&ext)
	assert.False(t, l.Owns(ext))
}
