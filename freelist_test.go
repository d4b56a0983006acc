package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeListRecyclesExactSize(t *testing.T) {
	fl, err := NewFreeList(Mallocator{}, 32, 4, 16)
	require.NoError(t, err)

	b := fl.Allocate(32)
	require.False(t, b.IsNil())
	ptr := b.Ptr

	fl.Deallocate(&b)
	assert.True(t, b.IsNil())

	b2 := fl.Allocate(32)
	require.False(t, b2.IsNil())
	assert.Equal(t, ptr, b2.Ptr, "recycled block should be handed back out")
}

func TestFreeListPassesThroughOtherSizes(t *testing.T) {
	fl, err := NewFreeList(Mallocator{}, 32, 4, 16)
	require.NoError(t, err)

	b := fl.Allocate(64)
	require.False(t, b.IsNil())
	assert.Equal(t, 64, b.Size)
	fl.Deallocate(&b)
}

func TestFreeListBatchPopulates(t *testing.T) {
	fl, err := NewFreeList(Mallocator{}, 16, 4, 16)
	require.NoError(t, err)

	var blocks []Block
	for i := 0; i < 4; i++ {
		b := fl.Allocate(16)
		require.False(t, b.IsNil())
		blocks = append(blocks, b)
	}
	assert.Equal(t, 0, fl.numFree, "batch of exactly 4 should be fully handed out")

	for i := range blocks {
		fl.Deallocate(&blocks[i])
	}
	assert.Equal(t, 4, fl.numFree)
}

// countingAllocator wraps another Allocator, counting Allocate calls and
// letting the test force SupportsTruncatedDeallocation's answer, to observe
// which populate path FreeList takes.
type countingAllocator struct {
	Allocator
	allocs    int
	truncated bool
}

func (c *countingAllocator) Allocate(size int) Block {
	c.allocs++
	return c.Allocator.Allocate(size)
}

func (c *countingAllocator) SupportsTruncatedDeallocation() bool {
	return c.truncated
}

func TestFreeListCarvesOneChunkWhenInnerSupportsTruncatedDeallocation(t *testing.T) {
	inner := &countingAllocator{Allocator: Mallocator{}, truncated: true}
	fl, err := NewFreeList(inner, 16, 4, 16)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		b := fl.Allocate(16)
		require.False(t, b.IsNil())
	}
	assert.Equal(t, 1, inner.allocs, "batch should be carved from a single chunk allocation")
}

func TestFreeListFallsBackToIndividualAllocationsWhenInnerCannotTruncate(t *testing.T) {
	inner := &countingAllocator{Allocator: Mallocator{}, truncated: false}
	fl, err := NewFreeList(inner, 16, 4, 16)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		b := fl.Allocate(16)
		require.False(t, b.IsNil())
	}
	assert.Equal(t, 4, inner.allocs, "without truncated deallocation support each block is carved individually")
}

func TestFreeListMaxNodesOverflowReleasesToInner(t *testing.T) {
	fl, err := NewFreeList(Mallocator{}, 16, 1, 1)
	require.NoError(t, err)

	a := fl.Allocate(16)
	b := fl.Allocate(16)
	require.False(t, a.IsNil())
	require.False(t, b.IsNil())

	fl.Deallocate(&a)
	assert.Equal(t, 1, fl.numFree)
	fl.Deallocate(&b) // list already at maxNodes=1, must release to inner
	assert.Equal(t, 1, fl.numFree)
}

func TestNewFreeListValidation(t *testing.T) {
	_, err := NewFreeList(Mallocator{}, 4, 1, 1)
	assert.Error(t, err, "block size below pointer size must fail construction")

	_, err = NewFreeList(Mallocator{}, 16, 0, 1)
	assert.Error(t, err)

	_, err = NewFreeList(Mallocator{}, 16, 1, 0)
	assert.Error(t, err)
}

func TestFreeListDrain(t *testing.T) {
	fl, err := NewFreeList(Mallocator{}, 16, 4, 16)
	require.NoError(t, err)

	b := fl.Allocate(16)
	require.False(t, b.IsNil())
	fl.Deallocate(&b)
	require.Greater(t, fl.numFree, 0)

	fl.Drain()
	assert.Equal(t, 0, fl.numFree)
}
