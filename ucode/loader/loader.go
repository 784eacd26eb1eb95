/*
   loader - CSAV/IOWD memory-image decoder.

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

// Package loader decodes a CSAV-style memory image: a stream of IOWD
// (I/O Word Descriptor) blocks, each an (address, count) header
// followed by count data words to deposit starting at address. A
// negative count in the classic IOWD encoding means "count more
// words follow"; headerParts negates the two's complement count and
// each Block carries its words directly, so callers never have to
// remember the sign convention themselves.
package loader

import (
	"github.com/rcornwell/kl10/ebox/ferr"
	"github.com/rcornwell/kl10/ebox/word"
)

// Block is one decoded IOWD block: len(Words) words, read from the image
// immediately following the header, to be deposited starting at
// Address.
type Block struct {
	Address int
	Words   []word.Word36
}

// Writer is anything that accepts a physical-address word deposit -
// ebox.EBOX.WriteMem satisfies this.
type Writer interface {
	WriteMem(addr int, w word.Word36) error
}

// headerParts splits a 36-bit IOWD header word into its count and address
// halves: count is the left 18 bits read as a negative two's
// complement count (so -N means N words), address is the right 18
// bits.
func headerParts(h word.Word36) (count int, address int) {
	left := word.Extract36(h, 0, 17)
	right := word.Extract36(h, 18, 35)
	signed := int32(left)
	if left&0o400000 != 0 {
		signed = int32(left) - (1 << 18)
	}
	return -int(signed), int(right)
}

// Decode reads a sequence of raw 36-bit words as IOWD blocks until the
// input is exhausted, returning the decoded blocks in order. A
// malformed header (positive/zero count desynchronizes the stream) is
// a LoaderIOError.
func Decode(raw []word.Word36) ([]Block, error) {
	var blocks []Block
	i := 0
	for i < len(raw) {
		count, address := headerParts(raw[i])
		i++
		if count <= 0 {
			return nil, ferr.New(ferr.LoaderIOError, "IOWD header at word %d has non-positive count %d", i-1, count)
		}
		if i+count > len(raw) {
			return nil, ferr.New(ferr.LoaderIOError, "IOWD block at word %d truncated: wants %d words, %d remain", i-1, count, len(raw)-i)
		}
		blocks = append(blocks, Block{Address: address, Words: raw[i : i+count]})
		i += count
	}
	return blocks, nil
}

// Load decodes raw and deposits every block into w.
func Load(w Writer, raw []word.Word36) error {
	blocks, err := Decode(raw)
	if err != nil {
		return err
	}
	for _, b := range blocks {
		addr := b.Address
		for _, word36 := range b.Words {
			if err := w.WriteMem(addr, word36); err != nil {
				return err
			}
			addr++
		}
	}
	return nil
}
