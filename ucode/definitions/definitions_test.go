package definitions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldAndValues(t *testing.T) {
	text := `
.UCODE
AD/=<0:3>
	A=0
	B=1
	A+B=3
.DCODE
J/=<9:20>
`
	cat, err := Parse(strings.NewReader(text), nil)
	require.NoError(t, err)

	f, ok := cat.Fields["AD"]
	require.True(t, ok)
	assert.Equal(t, Field{Start: 0, End: 3, Side: UCode}, f)

	v, ok := cat.FieldValue("AD", "A+B")
	require.True(t, ok)
	assert.Equal(t, uint64(3), v)

	jf, ok := cat.Fields["J"]
	require.True(t, ok)
	assert.Equal(t, DCode, jf.Side)
}

// TestIfIfnotSameFlagIsElse is spec.md §8 scenario 6: a `.IFNOT X`
// directly following `.IF X` on the same flag X is an ELSE of that
// conditional, not a second independent negated block.
func TestIfIfnotSameFlagIsElse(t *testing.T) {
	text := `
.UCODE
.IF KLPAGE
AD/=<0:3>
	NEW=1
.IFNOT KLPAGE
AD/=<0:3>
	OLD=1
.ENDIF
`
	cat, err := Parse(strings.NewReader(text), map[string]bool{"KLPAGE": true})
	require.NoError(t, err)
	_, hasNew := cat.FieldValue("AD", "NEW")
	_, hasOld := cat.FieldValue("AD", "OLD")
	assert.True(t, hasNew, "KLPAGE true: .IF branch taken")
	assert.False(t, hasOld, "KLPAGE true: .IFNOT-as-else branch must be skipped")

	cat, err = Parse(strings.NewReader(text), map[string]bool{"KLPAGE": false})
	require.NoError(t, err)
	_, hasNew = cat.FieldValue("AD", "NEW")
	_, hasOld = cat.FieldValue("AD", "OLD")
	assert.False(t, hasNew, "KLPAGE false: .IF branch must be skipped")
	assert.True(t, hasOld, "KLPAGE false: .IFNOT-as-else branch taken")
}

// TestIfnotDifferentFlagIsNotElse verifies that .IFNOT on a DIFFERENT
// flag than the enclosing .IF opens its own independent nested block
// rather than being folded into an else.
func TestIfnotDifferentFlagIsNotElse(t *testing.T) {
	text := `
.UCODE
.IF KLPAGE
.IFNOT SMP
AD/=<0:3>
	BOTH=1
.ENDIF
.ENDIF
`
	cat, err := Parse(strings.NewReader(text), map[string]bool{"KLPAGE": true, "SMP": false})
	require.NoError(t, err)
	_, ok := cat.FieldValue("AD", "BOTH")
	assert.True(t, ok, "KLPAGE && !SMP should admit the nested block")

	cat, err = Parse(strings.NewReader(text), map[string]bool{"KLPAGE": true, "SMP": true})
	require.NoError(t, err)
	_, ok = cat.FieldValue("AD", "BOTH")
	assert.False(t, ok, "KLPAGE && SMP should skip the nested block")
}

func TestUnterminatedIfIsError(t *testing.T) {
	text := ".UCODE\n.IF KLPAGE\nAD/=<0:3>\n"
	_, err := Parse(strings.NewReader(text), map[string]bool{"KLPAGE": true})
	require.Error(t, err)
}

func TestUnrecognizedLineIsMalformed(t *testing.T) {
	text := ".UCODE\nthis is not a valid directive or field\n"
	_, err := Parse(strings.NewReader(text), nil)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
}
