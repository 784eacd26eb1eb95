/*
   seq - the CRADR microprogram sequencer.

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

// Package seq computes CRADR, the next CRAM address, each cycle: the
// OR-assembly of CR.J (the literal next-address field) with whatever
// CR.SKIP and CR.DISP contribute, plus the 4-deep return-address stack
// that RETURN pops. Nothing in this package pushes onto the stack, and
// there is no forced jump to 1777 on a page fault. Dispatch codes are a
// table exactly like the teacher's opcode table: each entry is a
// function the sequencer calls to get its contribution, and an
// unimplemented entry fails closed with UnsupportedDispatch rather
// than silently contributing zero.
package seq

import (
	"github.com/rcornwell/kl10/ebox/ferr"
	"github.com/rcornwell/kl10/util/debug"
)

const stackDepth = 4

// Stack is the sequencer's 4-deep return-address stack.
type Stack struct {
	entries [stackDepth]uint16
	sp      int
}

func (s *Stack) Push(addr uint16) error {
	if s.sp >= stackDepth {
		return ferr.New(ferr.StackOverflow, "CRADR return stack full (depth %d)", stackDepth)
	}
	s.entries[s.sp] = addr
	s.sp++
	return nil
}

func (s *Stack) Pop() (uint16, error) {
	if s.sp == 0 {
		return 0, ferr.New(ferr.StackUnderflow, "CRADR return stack empty")
	}
	s.sp--
	return s.entries[s.sp], nil
}

func (s *Stack) Depth() int { return s.sp }

// Dispatch is a CR.DISP code's contribution function: given the
// current DR (DRAM word, resolved by the caller) and the return
// stack, it returns the bits to OR into CRADR.
type Dispatch func(dr uint32, stack *Stack) (uint16, error)

// Dispatch codes named in CR.DISP.
const (
	DispDramJ = iota
	DispDramB
	DispReturn
	DispMul
	DispDiv
	DispEAMod
	DispSigns
	DispByte
	DispNorm
	DispSh0
	DispSh1
	DispSh2
	DispSh3
	DispSR
	DispNicond
	DispDiag
	DispDramARd
	DispPgFail
	numDispatch
)

var dispatchName = map[int]string{
	DispDramJ: "DRAM J", DispDramB: "DRAM B", DispReturn: "RETURN", DispMul: "MUL",
	DispDiv: "DIV", DispEAMod: "EA MOD", DispSigns: "SIGNS", DispByte: "BYTE",
	DispNorm: "NORM", DispSh0: "SH0", DispSh1: "SH1", DispSh2: "SH2", DispSh3: "SH3",
	DispSR: "SR", DispNicond: "NICOND", DispDiag: "DIAG", DispDramARd: "DRAM A RD",
	DispPgFail: "PG FAIL",
}

var table [numDispatch]Dispatch

func stub(code int) Dispatch {
	logged := false
	return func(dr uint32, stack *Stack) (uint16, error) {
		if !logged {
			debug.Debugf(debug.SEQ, "dispatch code %s not implemented", dispatchName[code])
			logged = true
		}
		return 0, ferr.New(ferr.UnsupportedDispatch, "CR.DISP %s", dispatchName[code])
	}
}

func init() {
	table[DispDramJ] = func(dr uint32, stack *Stack) (uint16, error) {
		// DR.J is 4 bits; the caller is expected to have already
		// extracted it via the field catalog rather than pass the raw
		// DRAM word.
		return uint16(dr & 0xf), nil
	}
	table[DispDramB] = func(dr uint32, stack *Stack) (uint16, error) {
		// DR.B is 3 bits; the rest of the target address comes from CR.J.
		return uint16(dr & 0x7), nil
	}
	table[DispReturn] = func(dr uint32, stack *Stack) (uint16, error) {
		addr, err := stack.Pop()
		if err != nil {
			return 0, err
		}
		return addr, nil
	}
	table[DispMul] = func(dr uint32, stack *Stack) (uint16, error) {
		// MUL dispatches on the low 3 bits the caller packs into dr
		// before calling Eval: FE0 in bit 2, MQ<34:35> in bits 0-1.
		return uint16(dr & 0x7), nil
	}

	for _, code := range []int{
		DispDiv, DispEAMod, DispSigns, DispByte, DispNorm,
		DispSh0, DispSh1, DispSh2, DispSh3, DispSR,
		DispNicond, DispDiag, DispDramARd, DispPgFail,
	} {
		table[code] = stub(code)
	}
}

// Eval returns CR.DISP code's contribution to CRADR.
func Eval(code int, dr uint32, stack *Stack) (uint16, error) {
	if code < 0 || code >= numDispatch || table[code] == nil {
		return 0, ferr.New(ferr.UnsupportedDispatch, "CR.DISP code %d", code)
	}
	return table[code](dr, stack)
}

// Next computes CRADR: CR.J OR'd with CR.SKIP's single bit and
// CR.DISP's contribution. RETURN ignores CR.J entirely (the popped
// address is the whole of CRADR, not a partial OR term) - that is the
// one documented exception to the OR-assembly rule.
func Next(crJ uint16, skip bool, dispCode int, dr uint32, stack *Stack) (uint16, error) {
	if dispCode == DispReturn {
		return Eval(dispCode, dr, stack)
	}
	contribution, err := Eval(dispCode, dr, stack)
	if err != nil {
		return 0, err
	}
	addr := crJ | contribution
	if skip {
		addr |= 1
	}
	return addr, nil
}
