/*
   fm - fast memory, the 128-word AC block file.

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

// Package fm is fast memory: 8 blocks of 16 accumulators, addressed by
// CURRENT_BLOCK (which block) and the FM_ADR mux's 4-bit result (which
// AC within the block). A write only happens when the microword's
// CR.COND field says FM WRITE; everything else just reads.
package fm

import (
	"github.com/rcornwell/kl10/ebox/ferr"
	"github.com/rcornwell/kl10/ebox/word"
)

const (
	NumBlocks = 8
	BlockSize = 16
	NumWords  = NumBlocks * BlockSize
)

// File is the fast-memory array, addressed flat as block*16+offset.
type File struct {
	words [NumWords]word.Word36
}

func (f *File) index(block, offset uint8) (int, error) {
	if block >= NumBlocks {
		return 0, ferr.New(ferr.MemoryOutOfRange, "FM block %d out of range", block)
	}
	if offset >= BlockSize {
		return 0, ferr.New(ferr.MemoryOutOfRange, "FM offset %d out of range", offset)
	}
	return int(block)*BlockSize + int(offset), nil
}

// Read returns the accumulator at (block, offset).
func (f *File) Read(block, offset uint8) (word.Word36, error) {
	i, err := f.index(block, offset)
	if err != nil {
		return 0, err
	}
	return f.words[i], nil
}

// Write stores v at (block, offset); the caller (ebox's cycle driver)
// is responsible for only calling this when CR.COND says FM WRITE.
func (f *File) Write(block, offset uint8, v word.Word36) error {
	i, err := f.index(block, offset)
	if err != nil {
		return err
	}
	f.words[i] = v
	return nil
}
