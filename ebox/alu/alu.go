/*
   alu - 10181-style arithmetic/logic slice shared by AD, ADX and SCAD.

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

// Package alu models the classic 10181 4-bit ALU slice tiled out to
// whatever width AD (38), ADX (36) or SCAD (10) need. Function code f
// selects one of 64 operations on inputs a, b: f<32 is the arithmetic
// family (carry chain active), f>=32 is the boolean family (cout
// always 0). Arithmetic codes are resolved by arithTerm's switch and
// boolean codes by a table; a code with no entry in either (a reserved
// arithmetic slot or an unregistered boolean code) passes A through
// unchanged. Misspelled microcode symbols are rejected by the field
// catalog (cram.FieldCatalog), not by this package.
package alu

// Func is one of the 64 function codes the AD field names.
type Func int

const (
	FA Func = iota
	FB
	FAPlus1
	FAPlusB
	FAPlusBPlus1
	FAMinusB
	FAMinusBMinus1
	FAMinus1
	FAPlusAndCB // A + ANDCB: A plus (A and complement of B)
	FAPlusAnd   // A + AND: A plus (A and B)
	FOrPlus1
	FOrPlusAndCB
	FAPlusOr
	FOrCBPlus1
	FXCryMinus1
	FAndPlusOrCB
	FAndMinus1
	FAndCBMinus1
	// FAPlusXCry is A plus the external carry-in alone (B unused): the
	// form AD's field names "A+XCRY" for propagating ADX's carry-out
	// into AD when the two ALUs are cascaded into one 74-bit operation.
	// Unlike FAPlus1 (which hardwires carry-in to 1), this passes the
	// caller-supplied cin straight through.
	FAPlusXCry
	// remaining arithmetic slots the KL10 microcode table leaves unused
	// still decode: they fall back to FA (A passed through) the same
	// way an unused CRAM bit range decodes to zero.
	arithReserved1
	arithReserved2
	arithReserved3
	arithReserved4
	arithReserved5
	arithReserved6
	arithReserved7
	arithReserved8
	arithReserved9
	arithReserved10
	arithReserved11
	arithReserved12
	arithReserved13
)

const (
	FOr Func = iota + 32
	FAnd
	FXor
	FEqv
	FNor
	FNand // ORC: complement of (A and B)
	FOrCA // complement of A, or B
	FOrCB
	FAndCA
	FAndCB
	FSetCA
	FSetCB
	F0s
	F1s
	FAMul2   // A*2
	FAMul2P1 // A*2+1
)

const numFuncs = 64

// result is what the combinational slice computes for one boolean
// function: the bit pattern as a function of a, b. Arithmetic codes
// (f<32) are handled separately by arithTerm below, since they share one
// adder chain rather than 32 independent expressions.
type result struct {
	eval func(a, b uint64) uint64
}

var table [numFuncs]result

func init() {
	reg := func(f Func, eval func(a, b uint64) uint64) {
		table[f] = result{eval: eval}
	}

	reg(FOr, func(a, b uint64) uint64 { return a | b })
	reg(FAnd, func(a, b uint64) uint64 { return a & b })
	reg(FXor, func(a, b uint64) uint64 { return a ^ b })
	reg(FEqv, func(a, b uint64) uint64 { return ^(a ^ b) })
	reg(FNor, func(a, b uint64) uint64 { return ^(a | b) })
	reg(FNand, func(a, b uint64) uint64 { return ^(a & b) })
	reg(FOrCA, func(a, b uint64) uint64 { return ^a | b })
	reg(FOrCB, func(a, b uint64) uint64 { return a | ^b })
	reg(FAndCA, func(a, b uint64) uint64 { return ^a & b })
	reg(FAndCB, func(a, b uint64) uint64 { return a &^ b })
	reg(FSetCA, func(a, b uint64) uint64 { return ^a })
	reg(FSetCB, func(a, b uint64) uint64 { return ^b })
	reg(F0s, func(a, b uint64) uint64 { return 0 })
	reg(F1s, func(a, b uint64) uint64 { return ^uint64(0) })
	reg(FAMul2, func(a, b uint64) uint64 { return a << 1 })
	reg(FAMul2P1, func(a, b uint64) uint64 { return (a << 1) | 1 })
}

// arithTerm returns the two operands (each possibly complemented) and the
// fixed carry-in contribution that Eval's adder chain needs to reproduce
// function f's arithmetic identity A op B op cin exactly, for the
// "pure" two-operand arithmetic codes (A, B, A+1, A+B, A+B+1, A-B,
// A-B-1, A-1) plus the composite forms used by the KL10's AD field.
func arithTerm(f Func, a, b uint64, cin uint64) (opA, opB, carryIn uint64) {
	switch f {
	case FA:
		return a, 0, 0
	case FB:
		return 0, b, 0
	case FAPlus1:
		return a, 0, 1
	case FAPlusB:
		return a, b, cin
	case FAPlusBPlus1:
		return a, b, 1
	case FAMinusB:
		return a, ^b, 1
	case FAMinusBMinus1:
		return a, ^b, 0
	case FAMinus1:
		return a, ^uint64(0), 0
	case FAPlusAndCB:
		return a, a &^ b, 0
	case FAPlusAnd:
		return a, a & b, 0
	case FOrPlus1:
		return a | b, 0, 1
	case FOrPlusAndCB:
		return a | b, a &^ b, 0
	case FAPlusOr:
		return a, a | b, 0
	case FOrCBPlus1:
		return a | ^b, 0, 1
	case FXCryMinus1:
		return a ^ b, ^uint64(0), cin
	case FAndPlusOrCB:
		return a & b, a | ^b, 0
	case FAndMinus1:
		return a & b, ^uint64(0), 0
	case FAndCBMinus1:
		return a &^ b, ^uint64(0), 0
	case FAPlusXCry:
		return a, 0, cin
	default:
		// Unused reserved arithmetic slot: decode as a pass-through of A,
		// matching the convention for an undeclared CRAM bit range.
		return a, 0, 0
	}
}

// Eval computes the width-W result and carry-out of function f applied
// to a, b with carry-in cin. a and b must already be masked to width
// bits; the result is masked to width bits and cout is 0 or 1.
func Eval(f Func, a, b uint64, cin uint64, width int) (r uint64, cout uint64) {
	mask := uint64(1)<<width - 1
	if int(f) < 32 {
		opA, opB, carry := arithTerm(f, a&mask, b&mask, cin&1)
		sum := (opA & mask) + (opB & mask) + (carry & 1)
		return sum & mask, (sum >> width) & 1
	}
	e := table[f]
	if e.eval == nil {
		return a & mask, 0
	}
	return e.eval(a&mask, b&mask) & mask, 0
}

// Name returns a microcode-facing symbolic name for f, used only for
// diagnostics (the numeric code is authoritative everywhere else).
func Name(f Func) string {
	names := map[Func]string{
		FA: "A", FB: "B", FAPlus1: "A+1", FAPlusB: "A+B", FAPlusBPlus1: "A+B+1",
		FAMinusB: "A-B", FAMinusBMinus1: "A-B-1", FAMinus1: "A-1",
		FAPlusAndCB: "A+ANDCB", FAPlusAnd: "A+AND", FOrPlus1: "OR+1",
		FOrPlusAndCB: "OR+ANDCB", FAPlusOr: "A+OR", FOrCBPlus1: "ORCB+1",
		FXCryMinus1: "XCRY-1", FAndPlusOrCB: "AND+ORCB", FAndMinus1: "AND-1",
		FAndCBMinus1: "ANDCB-1", FAPlusXCry: "A+XCRY",
		FOr:          "OR", FAnd: "AND", FXor: "XOR", FEqv: "EQV",
		FNor: "NOR", FNand: "ORC", FOrCA: "ORCA", FOrCB: "ORCB",
		FAndCA: "ANDCA", FAndCB: "ANDCB", FSetCA: "SETCA", FSetCB: "SETCB",
		F0s: "0S", F1s: "1S", FAMul2: "A*2", FAMul2P1: "A*2+1",
	}
	if n, ok := names[f]; ok {
		return n
	}
	return "RESERVED"
}
