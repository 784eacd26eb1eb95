package shifter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcornwell/kl10/ebox/word"
)

func TestCombinedShiftByOneCarriesAcrossHalves(t *testing.T) {
	ar := word.Word36(0)
	arx := word.Word36(1) << 35 // ARX's MSB (bit 0) set
	newAR, newARX := Combined(ar, arx, 1)
	assert.Equal(t, word.Word36(1), newAR, "ARX's top bit shifts into AR's bottom bit")
	assert.Equal(t, word.Word36(0), newARX)
}

func TestCombinedShiftByOneWithinAR(t *testing.T) {
	newAR, newARX := Combined(1, 0, 1)
	assert.Equal(t, word.Word36(2), newAR)
	assert.Equal(t, word.Word36(0), newARX)
}

func TestCombinedShiftByWordWidth(t *testing.T) {
	ar := word.Word36(0o123456)
	arx := word.Word36(0o654321)
	newAR, newARX := Combined(ar, arx, 36)
	assert.Equal(t, arx, newAR, "shifting by 36 moves ARX entirely into AR")
	assert.Equal(t, word.Word36(0), newARX)
}

func TestCombinedShiftByZero(t *testing.T) {
	ar := word.Word36(0o123456)
	arx := word.Word36(0o654321)
	newAR, newARX := Combined(ar, arx, 0)
	assert.Equal(t, ar, newAR)
	assert.Equal(t, arx, newARX)
}

func TestRotate36SwapsHalves(t *testing.T) {
	v := word.Insert36(word.Insert36(0, 0o111111, 0, 17), 0o222222, 18, 35)
	got := Rotate36(v)
	assert.Equal(t, word.Word36(0o222222), word.Extract36(got, 0, 17))
	assert.Equal(t, word.Word36(0o111111), word.Extract36(got, 18, 35))
}

func TestMultShifts(t *testing.T) {
	assert.Equal(t, word.Word36(2), Mult2(1))
	assert.Equal(t, word.Word36(4), Mult4(1))
}

func TestDivPreservesSign(t *testing.T) {
	neg := word.Mask36 // all ones, sign bit set
	assert.Equal(t, word.Mask36, Div2(neg), "arithmetic shift keeps all-ones negative value all-ones")
	assert.Equal(t, word.Word36(0), Div2(0))
}
