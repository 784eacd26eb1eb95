package mux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcornwell/kl10/ebox/reg"
	"github.com/rcornwell/kl10/ebox/word"
)

func TestADASelectsAR(t *testing.T) {
	regs := &reg.File{AR: 0o123456}
	in := &Inputs{Regs: regs}
	v, err := ADA.Eval(selAR, in)
	require.NoError(t, err)
	assert.Equal(t, word.Word36(0o123456), v)
}

func TestUnwiredSelectorErrors(t *testing.T) {
	in := &Inputs{Regs: &reg.File{}}
	_, err := ADA.Eval(99, in)
	require.Error(t, err)
}

func TestArmmCombiner(t *testing.T) {
	got := ArmmCombiner(0o777777, 0o000001)
	assert.Equal(t, word.Word36(0o777777000001), got)
}

func TestFMAdrSelectors(t *testing.T) {
	regs := &reg.File{ARX: 0o000017}
	in := &Inputs{Regs: regs, Magic: 5}

	addr, err := FMAdr(FMAdrAC0to3, in, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, addr)

	addr, err = FMAdr(FMAdrACPlus, in, 3)
	require.NoError(t, err)
	assert.Equal(t, 8, addr)

	addr, err = FMAdr(FMAdrHashB, in, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, addr)

	_, err = FMAdr(99, in, 0)
	require.Error(t, err)
}
