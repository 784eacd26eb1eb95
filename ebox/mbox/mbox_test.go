package mbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWriteRoundTrip(t *testing.T) {
	m, err := New(1024)
	require.NoError(t, err)
	require.NoError(t, m.Write(10, 0o777))
	v, err := m.Read(10)
	require.NoError(t, err)
	assert.Equal(t, uint64(0o777), uint64(v))
}

func TestOutOfRangeRejected(t *testing.T) {
	m, err := New(16)
	require.NoError(t, err)
	_, err = m.Read(16)
	require.Error(t, err)
	require.Error(t, m.Write(-1, 0))
}

func TestNewRejectsOversize(t *testing.T) {
	_, err := New(MaxWords + 1)
	require.Error(t, err)
	_, err = New(0)
	require.Error(t, err)
}

func TestWriteMasked(t *testing.T) {
	m, err := New(4)
	require.NoError(t, err)
	require.NoError(t, m.Write(0, 0o777777777777))
	require.NoError(t, m.WriteMasked(0, 0, 0o000000777777))
	v, _ := m.Read(0)
	assert.Equal(t, uint64(0o777777000000), uint64(v))
}

func TestPendingImmediateByDefault(t *testing.T) {
	var p Pending
	ran := false
	p.Schedule(0, func() { ran = true })
	assert.True(t, ran)
	assert.False(t, p.Outstanding())
}

func TestPendingLatency(t *testing.T) {
	var p Pending
	ran := false
	p.Schedule(3, func() { ran = true })
	assert.True(t, p.Outstanding())
	p.Advance(2)
	assert.False(t, ran)
	p.Advance(1)
	assert.True(t, ran)
	assert.False(t, p.Outstanding())
}

func TestPendingOrdersMultipleCompletions(t *testing.T) {
	var p Pending
	var order []int
	p.Schedule(5, func() { order = append(order, 1) })
	p.Schedule(2, func() { order = append(order, 2) })
	p.Advance(2)
	assert.Equal(t, []int{2}, order)
	p.Advance(3)
	assert.Equal(t, []int{2, 1}, order)
}
