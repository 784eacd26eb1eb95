package reg

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcornwell/kl10/ebox/word"
)

func TestARHalves(t *testing.T) {
	var f File
	f.SetARL(0o777777)
	f.SetARR(0o000001)
	assert.Equal(t, word.Word36(0o777777), f.ARL())
	assert.Equal(t, word.Word36(0o000001), f.ARR())
	assert.Equal(t, word.Word36(0o777777000001), f.AR)
}

func TestVmaHeldOrPC(t *testing.T) {
	var f File
	f.PC = 100
	f.VMAHeld = 200
	assert.Equal(t, word.Word36(100), f.VmaHeldOrPC(false))
	assert.Equal(t, word.Word36(200), f.VmaHeldOrPC(true))
}
