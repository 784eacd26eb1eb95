/*
   shifter - SH barrel shifter and the multiply/divide shift networks.

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

// Package shifter implements SH, the EBOX's combinational barrel
// shifter, plus the dedicated ShiftMult/ShiftDiv networks multiply and
// divide step microcode uses every cycle of a long-form multiply or
// divide.
package shifter

import "github.com/rcornwell/kl10/ebox/word"

const wordBits = 36

// Combined shifts AR‖ARX (a 72-bit register, AR the high half) left by
// sc bits (0..71, taken mod 72) and returns the resulting AR/ARX
// halves, zero-filling from the right and discarding bits shifted past
// AR's bit 0 - SH's normal shift-group function.
func Combined(ar, arx word.Word36, sc uint16) (newAR, newARX word.Word36) {
	hi := uint64(ar) & uint64(word.Mask36)
	lo := uint64(arx) & uint64(word.Mask36)
	shift := uint(sc) % (2 * wordBits)

	var newHi, newLo uint64
	switch {
	case shift == 0:
		newHi, newLo = hi, lo
	case shift < wordBits:
		newHi = (hi<<shift | lo>>(wordBits-shift)) & uint64(word.Mask36)
		newLo = (lo << shift) & uint64(word.Mask36)
	case shift == wordBits:
		newHi, newLo = lo, 0
	default:
		newHi = (lo << (shift - wordBits)) & uint64(word.Mask36)
		newLo = 0
	}
	return word.Word36(newHi), word.Word36(newLo)
}

// AR shifts AR alone left by sc bits, zero-filling from the right and
// discarding bits shifted out the top - SH's AR-only shift group.
func AR(ar word.Word36, sc uint16) word.Word36 {
	shift := uint(sc) % wordBits
	return word.Word36((uint64(ar) << shift) & uint64(word.Mask36))
}

// ARX shifts ARX alone, the same way AR does.
func ARX(arx word.Word36, sc uint16) word.Word36 {
	return AR(arx, sc)
}

// Rotate36 rotates a single 36-bit word left by 18 bits (swaps its two
// 18-bit halves) - SH's ROTATE function, used by byte-pointer and
// half-word swap microcode.
func Rotate36(v word.Word36) word.Word36 {
	lo := word.Extract36(v, 18, 35)
	hi := word.Extract36(v, 0, 17)
	return word.Insert36(word.Insert36(0, lo, 0, 17), hi, 18, 35)
}

// Mult2 and Mult4 are ShiftMult's two step sizes: arithmetic left
// shift by 1 or 2, the partial-product accumulation step of a Booth
// multiply.
func Mult2(v word.Word36) word.Word36 { return AR(v, 1) }
func Mult4(v word.Word36) word.Word36 { return AR(v, 2) }

// Div2 and Div4 are ShiftDiv's two step sizes: arithmetic right shift
// by 1 or 2, preserving the sign bit the way a restoring-divide step
// must.
func Div2(v word.Word36) word.Word36 { return arithShiftRight(v, 1) }
func Div4(v word.Word36) word.Word36 { return arithShiftRight(v, 2) }

func arithShiftRight(v word.Word36, n uint) word.Word36 {
	sign := word.Extract36(v, 0, 0)
	signExt := word.Word36(0)
	if sign != 0 {
		signExt = word.Mask36
	}
	shifted := (uint64(v) >> n) | (uint64(signExt) << (wordBits - n))
	return word.Word36(shifted) & word.Mask36
}
