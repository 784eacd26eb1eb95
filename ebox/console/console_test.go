package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeliverAndPoll(t *testing.T) {
	m := NewMailbox(1)
	m.Deliver(0o123)
	w, ok := m.Poll()
	assert.True(t, ok)
	assert.Equal(t, uint64(0o123), uint64(w))

	_, ok = m.Poll()
	assert.False(t, ok, "mailbox should be empty after one poll")
}

func TestSendAndReceive(t *testing.T) {
	m := NewMailbox(1)
	m.Send(0o456)
	assert.Equal(t, uint64(0o456), uint64(m.Receive()))
}
