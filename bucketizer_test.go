package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBucketizer(t *testing.T) *Bucketizer {
	t.Helper()
	raider, err := NewLinearRaider(Range{Min: 1, Max: 64}, 16)
	require.NoError(t, err)
	bk, err := NewBucketizer(raider, func(r Range) (Allocator, error) {
		return NewFreeList(Mallocator{}, r.Max, 4, 16)
	})
	require.NoError(t, err)
	return bk
}

func TestBucketizerRoutesBySize(t *testing.T) {
	bk := newTestBucketizer(t)

	a := bk.Allocate(10)
	require.False(t, a.IsNil())
	assert.Equal(t, 16, a.Size)

	b := bk.Allocate(50)
	require.False(t, b.IsNil())
	assert.Equal(t, 64, b.Size)
}

func TestBucketizerOutOfRangeFails(t *testing.T) {
	bk := newTestBucketizer(t)
	assert.True(t, bk.Allocate(100).IsNil())
}

func TestBucketizerDeallocateRoundTrip(t *testing.T) {
	bk := newTestBucketizer(t)

	a := bk.Allocate(10)
	require.False(t, a.IsNil())
	ptr := a.Ptr
	bk.Deallocate(&a)
	assert.True(t, a.IsNil())

	b := bk.Allocate(10)
	require.False(t, b.IsNil())
	assert.Equal(t, ptr, b.Ptr, "recycled from the same bucket's free list")
}

func TestBucketizerLazyBucketConstruction(t *testing.T) {
	calls := 0
	raider, err := NewLinearRaider(Range{Min: 1, Max: 32}, 16)
	require.NoError(t, err)
	bk, err := NewBucketizer(raider, func(r Range) (Allocator, error) {
		calls++
		return NewFreeList(Mallocator{}, r.Max, 2, 8)
	})
	require.NoError(t, err)
	assert.Equal(t, 0, calls, "no bucket should be built until first use")

	bk.Allocate(10)
	assert.Equal(t, 1, calls)
	bk.Allocate(10)
	assert.Equal(t, 1, calls, "second allocate in the same bucket must not rebuild it")
}

func TestBucketizerReallocateAcrossBuckets(t *testing.T) {
	bk := newTestBucketizer(t)

	a := bk.Allocate(10)
	require.False(t, a.IsNil())
	bs := a.Bytes()
	bs[0] = 0x42

	ok := bk.Reallocate(&a, 50)
	require.True(t, ok)
	assert.Equal(t, byte(0x42), a.Bytes()[0])
	assert.Equal(t, 64, a.Size)
}
