/*
   mux - combinational muxes feeding the EBOX ALUs and registers.

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

// Package mux implements the EBOX's combinational source selectors:
// ADA/ADB (AD's operands), ADXA/ADXB (ADX's operands), ARML/ARMR and
// ARMML/ARMMR (what latches into AR/ARX on the clock edge), SCADA/SCADB
// (SCAD's operands), SCM (the SC mux), MQM (the MQ shifter-or-hold
// mux), FM_ADR (fast-memory address select) and VMA_HELD_OR_PC. Every
// mux is a small selector-indexed dispatch table in the same spirit as
// the teacher's opcode dispatch table: build it once in init, look up
// by selector at eval time, fail closed (UnsupportedDispatch) on an
// unwired selector rather than guessing.
package mux

import (
	"github.com/rcornwell/kl10/ebox/ferr"
	"github.com/rcornwell/kl10/ebox/reg"
	"github.com/rcornwell/kl10/ebox/word"
)

// Inputs bundles every signal a mux function might read. Not every mux
// uses every field; unused ones simply go unread for a given selector.
type Inputs struct {
	Regs       *reg.File
	FM         word.Word36 // fast-memory read data
	MB         word.Word36 // MBOX read data, latched this cycle
	Immediate  word.Word36 // CR immediate / magic-number field, sign-extended by the caller as needed
	Magic      uint8       // CR.MAGIC NUMBER field, used by FM_ADR's AC+# and #B# forms
	ADResult   word.Word36 // this cycle's settled AD output, feeding ARML/ARMR's AD source
	ADXResult  word.Word36 // this cycle's settled ADX output, feeding ARMML/ARMMR's AD source
	ShAR       word.Word36 // this cycle's settled SH output for AR
	ShARX      word.Word36 // this cycle's settled SH output for ARX
	ScadResult word.Word36 // this cycle's settled SCAD output, feeding SCM
}

// table36 is a selector-indexed dispatch table returning a Word36,
// shared by every mux below except FM_ADR (which selects an address,
// not a data word).
type table36 struct {
	name string
	fns  map[int]func(*Inputs) word.Word36
}

func newTable36(name string) *table36 {
	return &table36{name: name, fns: make(map[int]func(*Inputs) word.Word36)}
}

func (t *table36) reg(sel int, f func(*Inputs) word.Word36) {
	t.fns[sel] = f
}

func (t *table36) Eval(sel int, in *Inputs) (word.Word36, error) {
	f, ok := t.fns[sel]
	if !ok {
		return 0, ferr.New(ferr.UnsupportedDispatch, "%s: selector %d", t.name, sel)
	}
	return f(in), nil
}

const (
	selZero = iota
	selAR
	selARX
	selBR
	selBRX
	selMQ
	selFM
	selMB
	selImmediate
	selPC
	selAD   // settled AD output, this cycle
	selADX  // settled ADX output, this cycle
	selSH   // settled SH output, this cycle
	selSCAD // settled SCAD output, this cycle
)

// Exported aliases of the selector constants above, for callers (e.g.
// ebox's AR CTL dispatch) that pick a mux source directly rather than
// through a CRAM field's raw numeric value.
const (
	SelZero      = selZero
	SelAR        = selAR
	SelARX       = selARX
	SelBR        = selBR
	SelBRX       = selBRX
	SelMQ        = selMQ
	SelFM        = selFM
	SelMB        = selMB
	SelImmediate = selImmediate
	SelPC        = selPC
	SelAD        = selAD
	SelADX       = selADX
	SelSH        = selSH
	SelSCAD      = selSCAD
)

var (
	ADA   = newTable36("ADA")
	ADB   = newTable36("ADB")
	ADXA  = newTable36("ADXA")
	ADXB  = newTable36("ADXB")
	ARML  = newTable36("ARML")
	ARMR  = newTable36("ARMR")
	ARMML = newTable36("ARMML")
	ARMMR = newTable36("ARMMR")
	SCADA = newTable36("SCADA")
	SCADB = newTable36("SCADB")
	SCM   = newTable36("SCM")
	MQM   = newTable36("MQM")
)

func init() {
	zero := func(in *Inputs) word.Word36 { return 0 }

	// ADA: AD's A operand.
	ADA.reg(selZero, zero)
	ADA.reg(selAR, func(in *Inputs) word.Word36 { return in.Regs.AR })
	ADA.reg(selARX, func(in *Inputs) word.Word36 { return in.Regs.ARX })
	ADA.reg(selBR, func(in *Inputs) word.Word36 { return in.Regs.BR })
	ADA.reg(selFM, func(in *Inputs) word.Word36 { return in.FM })

	// ADB: AD's B operand.
	ADB.reg(selZero, zero)
	ADB.reg(selBR, func(in *Inputs) word.Word36 { return in.Regs.BR })
	ADB.reg(selBRX, func(in *Inputs) word.Word36 { return in.Regs.BRX })
	ADB.reg(selFM, func(in *Inputs) word.Word36 { return in.FM })
	ADB.reg(selImmediate, func(in *Inputs) word.Word36 { return in.Immediate })

	// ADXA/ADXB mirror ADA/ADB one register to the right (ARX/BRX
	// instead of AR/BR), feeding the 36-bit ADX ALU.
	ADXA.reg(selZero, zero)
	ADXA.reg(selARX, func(in *Inputs) word.Word36 { return in.Regs.ARX })
	ADXA.reg(selBRX, func(in *Inputs) word.Word36 { return in.Regs.BRX })
	ADXA.reg(selMQ, func(in *Inputs) word.Word36 { return in.Regs.MQ })

	ADXB.reg(selZero, zero)
	ADXB.reg(selBRX, func(in *Inputs) word.Word36 { return in.Regs.BRX })
	ADXB.reg(selFM, func(in *Inputs) word.Word36 { return in.FM })

	// ARML/ARMR: what clocks into AR's left/right halves.
	ARML.reg(selAR, func(in *Inputs) word.Word36 { return in.Regs.ARL() })
	ARML.reg(selMB, func(in *Inputs) word.Word36 { return word.Extract36(in.MB, 0, 17) })
	ARML.reg(selAD, func(in *Inputs) word.Word36 { return word.Extract36(in.ADResult, 0, 17) })
	ARML.reg(selSH, func(in *Inputs) word.Word36 { return word.Extract36(in.ShAR, 0, 17) })
	ARMR.reg(selAR, func(in *Inputs) word.Word36 { return in.Regs.ARR() })
	ARMR.reg(selMB, func(in *Inputs) word.Word36 { return word.Extract36(in.MB, 18, 35) })
	ARMR.reg(selAD, func(in *Inputs) word.Word36 { return word.Extract36(in.ADResult, 18, 35) })
	ARMR.reg(selSH, func(in *Inputs) word.Word36 { return word.Extract36(in.ShAR, 18, 35) })

	// ARMML/ARMMR: the same, for ARX.
	ARMML.reg(selARX, func(in *Inputs) word.Word36 { return word.Extract36(in.Regs.ARX, 0, 17) })
	ARMML.reg(selMB, func(in *Inputs) word.Word36 { return word.Extract36(in.MB, 0, 17) })
	ARMML.reg(selADX, func(in *Inputs) word.Word36 { return word.Extract36(in.ADXResult, 0, 17) })
	ARMML.reg(selSH, func(in *Inputs) word.Word36 { return word.Extract36(in.ShARX, 0, 17) })
	ARMMR.reg(selARX, func(in *Inputs) word.Word36 { return word.Extract36(in.Regs.ARX, 18, 35) })
	ARMMR.reg(selMB, func(in *Inputs) word.Word36 { return word.Extract36(in.MB, 18, 35) })
	ARMMR.reg(selADX, func(in *Inputs) word.Word36 { return word.Extract36(in.ADXResult, 18, 35) })
	ARMMR.reg(selSH, func(in *Inputs) word.Word36 { return word.Extract36(in.ShARX, 18, 35) })

	// SCADA/SCADB: SCAD's two operands, narrower (10-bit) quantities
	// that still travel in a Word36 until the ALU masks them down.
	SCADA.reg(selZero, zero)
	SCADA.reg(selAR, func(in *Inputs) word.Word36 { return in.Regs.ArShift() })
	SCADA.reg(selImmediate, func(in *Inputs) word.Word36 { return in.Immediate })

	SCADB.reg(selZero, zero)
	SCADB.reg(selImmediate, func(in *Inputs) word.Word36 { return in.Immediate })
	SCADB.reg(selFM, func(in *Inputs) word.Word36 { return in.FM })

	// SCM: what clocks into SC - the SCAD ALU's own result, or a direct
	// CR immediate constant for setting a shift count explicitly.
	SCM.reg(selZero, zero)
	SCM.reg(selSCAD, func(in *Inputs) word.Word36 { return in.ScadResult })
	SCM.reg(selImmediate, func(in *Inputs) word.Word36 { return in.Immediate })

	// MQM: what clocks into MQ (shift network's job to pre-shift;
	// this just picks hold-vs-load).
	MQM.reg(selZero, zero)
	MQM.reg(selMQ, func(in *Inputs) word.Word36 { return in.Regs.MQ })
	MQM.reg(selAR, func(in *Inputs) word.Word36 { return in.Regs.AR })
	MQM.reg(selFM, func(in *Inputs) word.Word36 { return in.FM })
}

// ArmmCombiner folds ARMML/ARMMR's independently-selected halves back
// into one ARX-width word, the way ARML/ARMR's halves fold into AR.
func ArmmCombiner(left, right word.Word36) word.Word36 {
	return word.Insert36(word.Insert36(0, left, 0, 17), right, 18, 35)
}

// VmaHeldOrPC selects VMA_HELD when useHeld is set (a page-fail restart
// or an explicit microcode request to read the held address), else the
// live PC - same logic reg.File.VmaHeldOrPC exposes, kept here too
// since this is where the rest of the mux layer's callers look for it.
func VmaHeldOrPC(in *Inputs, useHeld bool) word.Word36 {
	return in.Regs.VmaHeldOrPC(useHeld)
}

// FM address selectors, CR.FM ADR field values.
const (
	FMAdrAC0to3 = iota // AC0: IRAC itself; there are no IRAC+1..+3 (AC1-AC3) selectors
	FMAdrXR            // XR: ARX<14:17>
	FMAdrVMA           // VMA: VMA<32:35>
	FMAdrACPlus        // AC+#: (IRAC+MAGIC) mod 16
	FMAdrHashB         // #B#: MAGIC<0:3>
)

// FMAdr computes the 4-bit fast-memory address (0..15) for the given
// selector, per spec.md's FM_ADR mux definition.
func FMAdr(sel int, in *Inputs, irac uint8) (int, error) {
	switch sel {
	case FMAdrAC0to3:
		return int(irac) & 0xf, nil
	case FMAdrXR:
		return int(in.Regs.Arx1417()) & 0xf, nil
	case FMAdrVMA:
		return int(in.Regs.Vma3235()) & 0xf, nil
	case FMAdrACPlus:
		return (int(irac) + int(in.Magic)) & 0xf, nil
	case FMAdrHashB:
		return int(in.Magic) & 0xf, nil
	default:
		return 0, ferr.New(ferr.UnsupportedDispatch, "FM_ADR: selector %d", sel)
	}
}
