package cram

import (
	"fmt"
	"strings"

	"github.com/rcornwell/kl10/ebox/ferr"
)

// SwizzleEntry is where one of the 84 logical CRAM bit positions lands
// in the raw vendor dump layout: dump word index and bit-within-word.
type SwizzleEntry struct {
	Word int
	Bit  int
}

// SwizzleTable is the full 84-entry bit-permutation table a CRAM
// "splat" dump carries ahead of its data words, so a reader can
// recover logical microword bit order from the physical layout the
// dump tool wrote.
type SwizzleTable [84]SwizzleEntry

// splatAlphabet encodes 6 bits per printable character: value v maps
// to the character ' '+v (0x20..0x5F), mirroring the compact
// 6-bit-per-character packing the vendor dump text uses throughout.
func splatEncodeChar(v uint8) byte {
	return byte(0x20 + (v & 0x3f))
}

func splatDecodeChar(c byte) (uint8, error) {
	if c < 0x20 || c > 0x5f {
		return 0, fmt.Errorf("splat: character %q out of range", c)
	}
	return c - 0x20, nil
}

// entryBits packs one SwizzleEntry into an 18-bit quantity: 11 bits of
// word index (0..2047) followed by 7 bits of bit index (0..127).
func entryBits(e SwizzleEntry) uint32 {
	return (uint32(e.Word)&0x7ff)<<7 | (uint32(e.Bit) & 0x7f)
}

func bitsToEntry(v uint32) SwizzleEntry {
	return SwizzleEntry{Word: int((v >> 7) & 0x7ff), Bit: int(v & 0x7f)}
}

// entriesPerLine and numLines divide the 84 entries across six lines,
// the same "six data words" shape the vendor splat dump uses.
const (
	numLines       = 6
	entriesPerLine = len(SwizzleTable{}) / numLines // 14
	charsPerEntry  = 3                              // 18 bits / 6 bits-per-char
)

// EncodeSwizzle renders t as six lines of splat-encoded characters.
func EncodeSwizzle(t SwizzleTable) []string {
	lines := make([]string, 0, numLines)
	for line := 0; line < numLines; line++ {
		var b strings.Builder
		for i := 0; i < entriesPerLine; i++ {
			e := t[line*entriesPerLine+i]
			packed := entryBits(e)
			b.WriteByte(splatEncodeChar(uint8((packed >> 12) & 0x3f)))
			b.WriteByte(splatEncodeChar(uint8((packed >> 6) & 0x3f)))
			b.WriteByte(splatEncodeChar(uint8(packed & 0x3f)))
		}
		lines = append(lines, b.String())
	}
	return lines
}

// DecodeSwizzle parses six splat-encoded lines back into a
// SwizzleTable. Fewer than six lines, or a line of the wrong length,
// is a MalformedDefinitions error - the dump is corrupt or truncated.
func DecodeSwizzle(lines []string) (SwizzleTable, error) {
	var t SwizzleTable
	if len(lines) != numLines {
		return t, ferr.New(ferr.MalformedDefinitions, "splat table needs %d lines, got %d", numLines, len(lines))
	}
	wantLen := entriesPerLine * charsPerEntry
	for li, line := range lines {
		if len(line) != wantLen {
			return t, ferr.New(ferr.MalformedDefinitions, "splat line %d: want %d characters, got %d", li, wantLen, len(line))
		}
		for i := 0; i < entriesPerLine; i++ {
			var packed uint32
			for c := 0; c < charsPerEntry; c++ {
				v, err := splatDecodeChar(line[i*charsPerEntry+c])
				if err != nil {
					return t, ferr.New(ferr.MalformedDefinitions, "splat line %d: %v", li, err)
				}
				packed = (packed << 6) | uint32(v)
			}
			t[li*entriesPerLine+i] = bitsToEntry(packed)
		}
	}
	return t, nil
}
