/*
   word - fixed-width bit vectors for the KL10 EBOX data path.

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

// Package word implements the KL10's MSB=0 bit numbering over 36-, 38-,
// and 24-bit words, plus an 84-bit microword that needs two 64-bit limbs.
//
// Bit 0 is always the most significant bit of the declared width. A field
// (s, e) is the inclusive range [s, e] of a word of width W; its own width
// is e-s+1 and its LSB sits shiftLSB(e, W) = W-1-e bits above bit W-1.
package word

import "math/bits"

// Word36 is an unsigned 36-bit quantity, bit 0 = MSB.
type Word36 uint64

// Word38 is AD's carry-extended 38-bit quantity.
type Word38 uint64

// Word24 is a DRAM word.
type Word24 uint32

const (
	Mask36 = Word36(1)<<36 - 1
	Mask38 = Word38(1)<<38 - 1
	Mask24 = Word24(1)<<24 - 1
)

// Word84 is a CRAM microword, represented as two 64-bit limbs: Hi holds
// bits 0..19 (the high 20 bits) and Lo holds bits 20..83 (the low 64
// bits). Keeping it two fixed limbs rather than a slice avoids heap
// allocation on every CRAM read.
type Word84 struct {
	Hi uint32 // bits 0..19, right justified in the low 20 bits of Hi
	Lo uint64 // bits 20..83
}

// shiftLSB returns the number of bits between the field's LSB (bit e,
// counted from the MSB) and the word's own LSB (bit width-1).
func shiftLSB(e, width int) int {
	return width - 1 - e
}

// Extract36 reads the inclusive MSB-numbered field [s:e] out of v.
func Extract36(v Word36, s, e int) Word36 {
	width := e - s + 1
	shift := shiftLSB(e, 36)
	mask := Word36(1)<<width - 1
	return (v >> shift) & mask
}

// Insert36 returns v with the field [s:e] replaced by the low bits of n.
func Insert36(v Word36, n Word36, s, e int) Word36 {
	width := e - s + 1
	shift := shiftLSB(e, 36)
	mask := Word36(1)<<width - 1
	return (v &^ (mask << shift)) | ((n & mask) << shift)
}

// Extract38 and Insert38 are Extract36/Insert36 for the 38-bit AD word.
func Extract38(v Word38, s, e int) Word38 {
	width := e - s + 1
	shift := shiftLSB(e, 38)
	mask := Word38(1)<<width - 1
	return (v >> shift) & mask
}

func Insert38(v Word38, n Word38, s, e int) Word38 {
	width := e - s + 1
	shift := shiftLSB(e, 38)
	mask := Word38(1)<<width - 1
	return (v &^ (mask << shift)) | ((n & mask) << shift)
}

// Extract24 and Insert24 are the DRAM-word equivalents.
func Extract24(v Word24, s, e int) Word24 {
	width := e - s + 1
	shift := shiftLSB(e, 24)
	mask := Word24(1)<<width - 1
	return (v >> shift) & mask
}

func Insert24(v Word24, n Word24, s, e int) Word24 {
	width := e - s + 1
	shift := shiftLSB(e, 24)
	mask := Word24(1)<<width - 1
	return (v &^ (mask << shift)) | ((n & mask) << shift)
}

// Extract84 reads the MSB-numbered field [s:e] (0 <= s <= e <= 83) out of
// a microword. Fields never straddle more than the two limbs, and the
// common case (field entirely in Lo) avoids any 128-bit arithmetic.
func Extract84(v Word84, s, e int) uint64 {
	width := e - s + 1
	if s >= 20 {
		// Entirely within Lo; bit 20 of the word is bit 63 of Lo.
		shift := shiftLSB(e-20, 64)
		mask := uint64(1)<<width - 1
		return (v.Lo >> shift) & mask
	}
	if e < 20 {
		shift := shiftLSB(e, 20)
		mask := uint64(1)<<width - 1
		return (uint64(v.Hi) >> shift) & mask
	}
	// Straddles the Hi/Lo boundary: take the low bits of Hi and the high
	// bits of Lo and glue them together.
	hiBits := 20 - s
	loBits := width - hiBits
	hiPart := uint64(v.Hi) & (uint64(1)<<hiBits - 1)
	loPart := v.Lo >> (64 - loBits)
	return (hiPart << loBits) | loPart
}

// Insert84 returns v with field [s:e] replaced by the low bits of n.
func Insert84(v Word84, n uint64, s, e int) Word84 {
	width := e - s + 1
	if s >= 20 {
		shift := shiftLSB(e-20, 64)
		mask := uint64(1)<<width - 1
		v.Lo = (v.Lo &^ (mask << shift)) | ((n & mask) << shift)
		return v
	}
	if e < 20 {
		shift := shiftLSB(e, 20)
		mask := uint64(1)<<width - 1
		v.Hi = uint32((uint64(v.Hi) &^ (mask << shift)) | ((n & mask) << shift))
		return v
	}
	hiBits := 20 - s
	loBits := width - hiBits
	hiMask := uint64(1)<<hiBits - 1
	v.Hi = uint32((uint64(v.Hi) &^ hiMask) | ((n >> loBits) & hiMask))
	loMask := uint64(1)<<loBits - 1
	v.Lo = (v.Lo &^ (loMask << (64 - loBits))) | ((n & loMask) << (64 - loBits))
	return v
}

// PopCount36 reports the number of set bits. No other package in this
// module calls it.
func PopCount36(v Word36) int {
	return bits.OnesCount64(uint64(v))
}
