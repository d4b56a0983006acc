package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteMultiplierConstants(t *testing.T) {
	assert.Equal(t, uint64(1), uint64(B))
	assert.Equal(t, uint64(1024), uint64(KiB))
	assert.Equal(t, uint64(1024*1024), uint64(MiB))
	assert.Equal(t, uint64(1024*1024*1024), uint64(GiB))
	assert.Equal(t, uint64(1000), uint64(KB))
	assert.Equal(t, uint64(1000*1000), uint64(MB))
	assert.Equal(t, uint64(1000*1000*1000), uint64(GB))
}

func TestParseSize(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{"1024", 1024},
		{"4KiB", 4 * 1024},
		{"16MiB", 16 * 1024 * 1024},
		{"2GiB", 2 * 1024 * 1024 * 1024},
		{"16MB", 16 * 1000 * 1000},
		{"3KB", 3000},
		{"10B", 10},
	}
	for _, c := range cases {
		got, err := ParseSize(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestParseSizeErrors(t *testing.T) {
	_, err := ParseSize("")
	assert.Error(t, err)

	_, err = ParseSize("abcMiB")
	assert.Error(t, err)

	_, err = ParseSize("not-a-size")
	assert.Error(t, err)
}
