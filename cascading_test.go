package alloc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCascade(t *testing.T, chunkSize int) *CascadingAllocator {
	t.Helper()
	c, err := NewCascadingAllocator(func() (Allocator, error) {
		buf, err := NewHeapBuffer(Mallocator{}, chunkSize)
		if err != nil {
			return nil, err
		}
		return NewLinearArena(buf, 8)
	})
	require.NoError(t, err)
	return c
}

func TestCascadingAllocatorGrows(t *testing.T) {
	c := newTestCascade(t, 16)

	a := c.Allocate(16)
	require.False(t, a.IsNil())
	b := c.Allocate(16) // exhausts first node, must grow a second
	require.False(t, b.IsNil())
	assert.NotEqual(t, a.Ptr, b.Ptr)
}

func TestCascadingAllocatorDeallocateRoutesToOwner(t *testing.T) {
	c := newTestCascade(t, 16)

	a := c.Allocate(16)
	b := c.Allocate(16)
	require.False(t, a.IsNil())
	require.False(t, b.IsNil())

	c.Deallocate(&b)
	assert.True(t, b.IsNil())
}

func TestCascadingAllocatorOwns(t *testing.T) {
	c := newTestCascade(t, 16)
	a := c.Allocate(16)
	require.False(t, a.IsNil())
	assert.True(t, c.Owns(a))

	var other Mallocator
	ext := other.Allocate(16)
	defer other.Deallocate(&ext)
	assert.False(t, c.Owns(ext))
}

func TestCascadingAllocatorDeallocateAllCollapsesChain(t *testing.T) {
	c := newTestCascade(t, 16)

	c.Allocate(16)
	c.Allocate(16) // grows to 2 nodes
	require.NotNil(t, c.head.next)

	c.DeallocateAll()
	assert.Nil(t, c.head.next)

	b := c.Allocate(16)
	assert.False(t, b.IsNil())
}

func TestNewCascadingAllocatorConstructionFailure(t *testing.T) {
	_, err := NewCascadingAllocator(func() (Allocator, error) {
		return nil, errors.New("construction failed")
	})
	assert.Error(t, err)
}

func TestNewCascadingAllocatorRequiresFactory(t *testing.T) {
	_, err := NewCascadingAllocator(nil)
	assert.Error(t, err)
}
