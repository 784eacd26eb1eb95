package fm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWriteRoundTrip(t *testing.T) {
	var f File
	require.NoError(t, f.Write(2, 5, 0o123456))
	v, err := f.Read(2, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(0o123456), uint64(v))
}

func TestBlocksAreIndependent(t *testing.T) {
	var f File
	require.NoError(t, f.Write(0, 0, 1))
	require.NoError(t, f.Write(1, 0, 2))
	v0, _ := f.Read(0, 0)
	v1, _ := f.Read(1, 0)
	assert.NotEqual(t, v0, v1)
}

func TestOutOfRangeErrors(t *testing.T) {
	var f File
	require.Error(t, f.Write(NumBlocks, 0, 1))
	require.Error(t, f.Write(0, BlockSize, 1))
	_, err := f.Read(NumBlocks, 0)
	require.Error(t, err)
}
