package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcornwell/kl10/ebox/word"
)

// fakeWriter records every deposit for assertion without needing a
// real mbox.Memory.
type fakeWriter struct {
	writes map[int]word.Word36
}

func newFakeWriter() *fakeWriter { return &fakeWriter{writes: make(map[int]word.Word36)} }

func (w *fakeWriter) WriteMem(addr int, v word.Word36) error {
	w.writes[addr] = v
	return nil
}

func iowdHeader(count, address int) word.Word36 {
	neg := (-count) & 0o777777
	return word.Insert36(word.Insert36(0, word.Word36(neg), 0, 17), word.Word36(address), 18, 35)
}

func TestDecodeSingleBlock(t *testing.T) {
	raw := []word.Word36{
		iowdHeader(2, 0o100),
		0o111111,
		0o222222,
	}
	blocks, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, 0o100, blocks[0].Address)
	assert.Equal(t, []word.Word36{0o111111, 0o222222}, blocks[0].Words)
}

func TestDecodeMultipleBlocks(t *testing.T) {
	raw := []word.Word36{
		iowdHeader(1, 0o10),
		0o1,
		iowdHeader(2, 0o20),
		0o2, 0o3,
	}
	blocks, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, 0o10, blocks[0].Address)
	assert.Equal(t, 0o20, blocks[1].Address)
}

func TestDecodeTruncatedBlockErrors(t *testing.T) {
	raw := []word.Word36{iowdHeader(5, 0), 0o1}
	_, err := Decode(raw)
	require.Error(t, err)
}

func TestDecodeNonPositiveCountErrors(t *testing.T) {
	raw := []word.Word36{word.Insert36(0, 0, 0, 17)}
	_, err := Decode(raw)
	require.Error(t, err)
}

func TestLoadDepositsIntoWriter(t *testing.T) {
	raw := []word.Word36{
		iowdHeader(2, 0o100),
		0o111111,
		0o222222,
	}
	w := newFakeWriter()
	require.NoError(t, Load(w, raw))
	assert.Equal(t, word.Word36(0o111111), w.writes[0o100])
	assert.Equal(t, word.Word36(0o222222), w.writes[0o101])
}
