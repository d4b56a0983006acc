package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackBuffer(t *testing.T) {
	var buf StackBuffer[[256]byte]
	assert.Equal(t, 256, buf.Size())
	p := buf.Init()
	require.NotNil(t, p)
	assert.Equal(t, p, buf.Init(), "Init must be stable across calls")
}

func TestHeapBufferEager(t *testing.T) {
	hb, err := NewHeapBuffer(Mallocator{}, 128)
	require.NoError(t, err)
	defer hb.Release()

	assert.Equal(t, 128, hb.Size())
	assert.NotNil(t, hb.Init())
}

func TestHeapBufferLazy(t *testing.T) {
	hb, err := NewLazyHeapBuffer(Mallocator{}, 64)
	require.NoError(t, err)
	defer hb.Release()

	assert.Equal(t, 64, hb.Size())
	p1 := hb.Init()
	require.NotNil(t, p1)
	p2 := hb.Init()
	assert.Equal(t, p1, p2, "lazy buffer must only allocate once")
}

func TestHeapBufferConstructionValidation(t *testing.T) {
	_, err := NewHeapBuffer(Mallocator{}, 0)
	assert.Error(t, err)

	_, err = NewLazyHeapBuffer(Mallocator{}, -1)
	assert.Error(t, err)
}
