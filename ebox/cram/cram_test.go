package cram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcornwell/kl10/ebox/word"
	"github.com/rcornwell/kl10/ucode/definitions"
)

func TestStoreRangeChecks(t *testing.T) {
	var s Store
	require.NoError(t, s.WriteCRAM(0, word.Word84{Hi: 1}))
	require.Error(t, s.WriteCRAM(NumCRAM, word.Word84{}))
	require.Error(t, s.WriteCRAM(-1, word.Word84{}))
	require.NoError(t, s.WriteDRAM(NumDRAM-1, 7))
	require.Error(t, s.WriteDRAM(NumDRAM, 7))
}

func TestFieldCatalogRoundTrip(t *testing.T) {
	text := `
.UCODE
AD/=<0:5>
	A=0
	A+B=3
.DCODE
J/=<9:20>
	FOO=5
`
	cat, err := definitions.Parse(strings.NewReader(text), nil)
	require.NoError(t, err)
	fc := NewFieldCatalog(cat)

	var cr word.Word84
	cr = word.Insert84(cr, 3, 0, 5)
	v, err := fc.CRField(cr, "AD")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v)

	_, err = fc.CRField(cr, "NOPE")
	require.Error(t, err)

	var dr word.Word24
	dr = word.Insert24(dr, 5, 9, 20)
	v, err = fc.DRField(dr, "J")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), v)

	val, err := fc.SymbolValue("AD", "A+B")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), val)

	_, err = fc.SymbolValue("AD", "NOSUCH")
	require.Error(t, err)
	_, err = fc.SymbolValue("NOFIELD", "X")
	require.Error(t, err)

	name, err := fc.SymbolName("AD", 3)
	require.NoError(t, err)
	assert.Equal(t, "A+B", name)

	_, err = fc.SymbolName("AD", 99)
	require.Error(t, err, "no symbol maps to this value")
	_, err = fc.SymbolName("NOFIELD", 0)
	require.Error(t, err)
}
