/*
   cram - CRAM/DRAM control store.

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

// Package cram holds the KL10's two control stores - CRAM (2048 84-bit
// microwords) and DRAM (512 24-bit dispatch constants) - and the
// current microword registers CR/DR that the sequencer latches each
// cycle. Named field access goes through a FieldCatalog resolved once
// at load time from ucode/definitions, so the hot cycle path never
// re-parses a field name.
package cram

import (
	"github.com/rcornwell/kl10/ebox/ferr"
	"github.com/rcornwell/kl10/ebox/word"
	"github.com/rcornwell/kl10/ucode/definitions"
)

const (
	NumCRAM = 2048
	NumDRAM = 512
)

// Store is the two control-store arrays, addressed directly by
// CRADR/DRADR (no paging: flat index, range-checked on write).
type Store struct {
	CRAM [NumCRAM]word.Word84
	DRAM [NumDRAM]word.Word24
}

// WriteCRAM and WriteDRAM are the loader's entry points (ucode/loader),
// range-checked so a malformed image can't silently scribble past the
// end of the array.
func (s *Store) WriteCRAM(addr int, w word.Word84) error {
	if addr < 0 || addr >= NumCRAM {
		return ferr.New(ferr.MemoryOutOfRange, "CRAM address %#o out of range", addr)
	}
	s.CRAM[addr] = w
	return nil
}

func (s *Store) WriteDRAM(addr int, w word.Word24) error {
	if addr < 0 || addr >= NumDRAM {
		return ferr.New(ferr.MemoryOutOfRange, "DRAM address %#o out of range", addr)
	}
	s.DRAM[addr] = w
	return nil
}

// FieldCatalog is the definitions.Catalog split by side and indexed
// for O(1) field lookup, built once when the microcode image is
// loaded.
type FieldCatalog struct {
	cram map[string]definitions.Field
	dram map[string]definitions.Field
	vals map[string]map[string]uint64
}

// NewFieldCatalog partitions a parsed definitions.Catalog into its
// CRAM- and DRAM-side field maps.
func NewFieldCatalog(cat *definitions.Catalog) *FieldCatalog {
	fc := &FieldCatalog{
		cram: make(map[string]definitions.Field),
		dram: make(map[string]definitions.Field),
		vals: cat.Values,
	}
	for name, f := range cat.Fields {
		if f.Side == definitions.DCode {
			fc.dram[name] = f
		} else {
			fc.cram[name] = f
		}
	}
	return fc
}

// CRField extracts named field from a CR (current microword) value.
func (fc *FieldCatalog) CRField(cr word.Word84, name string) (uint64, error) {
	f, ok := fc.cram[name]
	if !ok {
		return 0, ferr.New(ferr.UnknownField, "CRAM field %q", name)
	}
	return word.Extract84(cr, f.Start, f.End), nil
}

// DRField extracts named field from a DR (current DRAM word) value.
func (fc *FieldCatalog) DRField(dr word.Word24, name string) (uint64, error) {
	f, ok := fc.dram[name]
	if !ok {
		return 0, ferr.New(ferr.UnknownField, "DRAM field %q", name)
	}
	return uint64(word.Extract24(dr, f.Start, f.End)), nil
}

// SymbolValue resolves a named microcode symbol (e.g. "AD", "A+B") to
// its numeric value within field, for building a CR/DR word from
// source text rather than decoding one.
func (fc *FieldCatalog) SymbolValue(field, symbol string) (uint64, error) {
	vals, ok := fc.vals[field]
	if !ok {
		return 0, ferr.New(ferr.UnknownField, "field %q", field)
	}
	v, ok := vals[symbol]
	if !ok {
		return 0, ferr.New(ferr.UnknownFieldValue, "field %q has no value %q", field, symbol)
	}
	return v, nil
}

// SymbolName is SymbolValue's inverse: given a field's decoded numeric
// value, it returns the microcode symbol that produced it, for fields
// whose meaning is an exclusive choice among named alternatives (e.g.
// CR.MEM, CR.VMA) rather than a single boolean or raw operand.
func (fc *FieldCatalog) SymbolName(field string, value uint64) (string, error) {
	vals, ok := fc.vals[field]
	if !ok {
		return "", ferr.New(ferr.UnknownField, "field %q", field)
	}
	for name, v := range vals {
		if v == value {
			return name, nil
		}
	}
	return "", ferr.New(ferr.UnknownFieldValue, "field %q has no symbol for value %d", field, value)
}
