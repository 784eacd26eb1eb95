/*
   console - thin mailbox interface to an external front end.

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   ROBERT M SUPNIK BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

// Package console is the one piece of the EBOX allowed to touch
// another goroutine: a buffered mailbox carrying words to and from
// whatever front end is attached (a DTE console, a test harness). It
// is intentionally thin - no line discipline, no command parsing, just
// two channels - since the front end proper is out of scope here.
package console

import "github.com/rcornwell/kl10/ebox/word"

// Mailbox is a bidirectional, buffered word channel pair. Safe for one
// goroutine to Deliver/Receive on the external side while the EBOX
// cycle loop calls Send/Poll on the other; that is the only
// concurrency concern this module has.
type Mailbox struct {
	toEbox   chan word.Word36
	fromEbox chan word.Word36
}

// NewMailbox creates a mailbox with the given buffer depth per
// direction.
func NewMailbox(depth int) *Mailbox {
	return &Mailbox{
		toEbox:   make(chan word.Word36, depth),
		fromEbox: make(chan word.Word36, depth),
	}
}

// Deliver is the external side depositing a word for the EBOX to pick
// up; it blocks if the mailbox is full.
func (m *Mailbox) Deliver(w word.Word36) {
	m.toEbox <- w
}

// Receive is the external side collecting a word the EBOX sent out.
func (m *Mailbox) Receive() word.Word36 {
	return <-m.fromEbox
}

// Send is the EBOX side depositing an outbound word.
func (m *Mailbox) Send(w word.Word36) {
	m.fromEbox <- w
}

// Poll is the EBOX side non-blockingly checking for an inbound word;
// ok is false if nothing is waiting.
func (m *Mailbox) Poll() (w word.Word36, ok bool) {
	select {
	case w = <-m.toEbox:
		return w, true
	default:
		return 0, false
	}
}
