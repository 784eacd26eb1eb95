/*
   reg - EBOX architectural registers.

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

// Package reg holds the EBOX's clocked architectural registers: AR,
// ARX, BR, BRX, MQ, PC, VMA, IR, IRAC, FE, SC and CURRENT_BLOCK.
// Every register latches only on its own clocked edge (ebox's second
// cycle phase); nothing in this package computes combinationally, that
// is the muxes' job (ebox/mux).
package reg

import "github.com/rcornwell/kl10/ebox/word"

// File is every EBOX register a microinstruction can name as a source
// or destination.
type File struct {
	AR  word.Word36 // Arithmetic register; ARL/ARR are its halves
	ARX word.Word36 // AR extension, used for double-word shifts/multiply

	BR  word.Word36 // B register, AD's second operand latch
	BRX word.Word36 // B register extension

	MQ word.Word36 // Multiplier-quotient register

	PC word.Word36 // Program counter: section number in bits 13..17, in-section address in the right half

	VMA         word.Word36 // Virtual memory address
	VMAHeld     word.Word36 // VMA held across a page fail/restart
	VMAPrevSect uint8       // Previous section number, for indirection across sections
	AdrBreak    bool        // Address-break flag latched with VMA

	IR   word.Word36 // Instruction register
	IRAC uint8       // AC field latched from IR<9:12>

	FE uint16 // Floating-point exponent register (SCAD's partner for float ops), 10 bits wide
	SC uint16 // Shift counter, 10 bits wide

	CurrentBlock uint8 // Current AC block (fast-memory bank select)
}

// ARL and ARR are AR's left and right 18-bit halves, named the way the
// microcode names them rather than a raw Word36 split.
func (f *File) ARL() word.Word36 { return word.Extract36(f.AR, 0, 17) }
func (f *File) ARR() word.Word36 { return word.Extract36(f.AR, 18, 35) }

func (f *File) SetARL(v word.Word36) { f.AR = word.Insert36(f.AR, v, 0, 17) }
func (f *File) SetARR(v word.Word36) { f.AR = word.Insert36(f.AR, v, 18, 35) }

// Named bit-field taps the microcode reads directly off AR/ARX/PC/VMA
// rather than through a mux, per the CRAM field catalog (e.g. AR_EXP is
// the floating exponent byte of AR, PC_13_17 is PC's section-number
// field).
func (f *File) ArExp() word.Word36   { return word.Extract36(f.AR, 1, 8) }
func (f *File) ArSize() word.Word36  { return word.Extract36(f.AR, 0, 8) }
func (f *File) ArShift() word.Word36 { return word.Extract36(f.AR, 28, 35) }
func (f *File) Ar0008() word.Word36  { return word.Extract36(f.AR, 0, 8) }
func (f *File) Ar0012() word.Word36  { return word.Extract36(f.AR, 0, 12) }
func (f *File) Arx1417() word.Word36 { return word.Extract36(f.ARX, 14, 17) }
func (f *File) Vma3235() word.Word36 { return word.Extract36(f.VMA, 32, 35) }
func (f *File) Pc1317() word.Word36  { return word.Extract36(f.PC, 13, 17) }

// VmaHeldOrPC is the VMA_HELD_OR_PC mux input: VMA_HELD when
// ADR_BREAK/the held flag applies, else the live PC. Resolving which
// one wins is the mux's job (ebox/mux); this just exposes the two
// operands under their microcode names.
func (f *File) VmaHeldOrPC(useHeld bool) word.Word36 {
	if useHeld {
		return f.VMAHeld
	}
	return f.PC
}
