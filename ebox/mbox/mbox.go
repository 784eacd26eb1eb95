/*
   mbox - MBOX main memory.

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

// Package mbox is the KL10's main memory: a flat, word-addressed array
// of up to 4M 36-bit words. There is no paging here - VMA has already
// been translated to a physical word address by the time anything
// calls Read/Write.
package mbox

import (
	"github.com/rcornwell/kl10/ebox/ferr"
	"github.com/rcornwell/kl10/ebox/word"
)

// MaxWords is the largest MBOX this KL10 can be configured with.
const MaxWords = 4 * 1024 * 1024

// Memory is the main-memory array and its configured size.
type Memory struct {
	words []word.Word36
	size  int
}

// New allocates an MBOX of sizeWords words (sizeWords <= MaxWords).
func New(sizeWords int) (*Memory, error) {
	if sizeWords <= 0 || sizeWords > MaxWords {
		return nil, ferr.New(ferr.MemoryOutOfRange, "MBOX size %d out of range", sizeWords)
	}
	return &Memory{words: make([]word.Word36, sizeWords), size: sizeWords}, nil
}

// Size returns the number of addressable words.
func (m *Memory) Size() int { return m.size }

// CheckAddr reports whether addr is a valid physical word address.
func (m *Memory) CheckAddr(addr int) bool {
	return addr >= 0 && addr < m.size
}

// Read returns the word at addr.
func (m *Memory) Read(addr int) (word.Word36, error) {
	if !m.CheckAddr(addr) {
		return 0, ferr.New(ferr.MemoryOutOfRange, "MBOX read address %#o out of range", addr)
	}
	return m.words[addr], nil
}

// Write stores v at addr.
func (m *Memory) Write(addr int, v word.Word36) error {
	if !m.CheckAddr(addr) {
		return ferr.New(ferr.MemoryOutOfRange, "MBOX write address %#o out of range", addr)
	}
	m.words[addr] = v
	return nil
}

// WriteMasked stores only the bits set in mask, leaving the rest of
// the word at addr untouched - used by byte-pointer deposit microcode
// that writes less than a full word.
func (m *Memory) WriteMasked(addr int, v, mask word.Word36) error {
	if !m.CheckAddr(addr) {
		return ferr.New(ferr.MemoryOutOfRange, "MBOX write address %#o out of range", addr)
	}
	m.words[addr] = (m.words[addr] &^ mask) | (v & mask)
	return nil
}
