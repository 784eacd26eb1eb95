/*
   definitions - parser for the KL10 CRAM/DRAM field definitions text.

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

// Package definitions parses the vendor "define" text (spec.md §6.1): an
// alternating stream of .UCODE (CRAM field) and .DCODE (DRAM field)
// sections, gated by .IF/.IFNOT/.ENDIF blocks keyed to named model
// flags, declaring fields as `NAME/=<S>` or `NAME/=<S:E>` followed by
// indented `NAME=VALUE` symbol lines.
//
// The parser is a line scanner in the same style as
// config/configparser's device-config reader: read a line at a time,
// track a line number for diagnostics, dispatch on the first
// non-blank token.
package definitions

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Field describes one named CRAM or DRAM bit range.
type Field struct {
	Start int // MSB-numbered start bit, inclusive
	End   int // MSB-numbered end bit, inclusive
	Side  Side
}

// Side distinguishes a CRAM (.UCODE) field from a DRAM (.DCODE) field.
type Side int

const (
	UCode Side = iota
	DCode
)

// Catalog is the fully-resolved result of parsing a definitions text:
// every field, and every named value within each field.
type Catalog struct {
	Fields map[string]Field
	Values map[string]map[string]uint64 // field name -> symbol -> value
	order  []string                     // field declaration order, for diagnostics
}

func newCatalog() *Catalog {
	return &Catalog{
		Fields: make(map[string]Field),
		Values: make(map[string]map[string]uint64),
	}
}

// FieldValue looks up a microcode symbol's numeric value within a field,
// e.g. FieldValue("AD", "A+B"). The ok result is false for
// UnknownField/UnknownFieldValue (spec.md §7); callers MUST treat that
// as fatal at load time, not silently default to zero.
func (c *Catalog) FieldValue(field, symbol string) (uint64, bool) {
	vals, ok := c.Values[field]
	if !ok {
		return 0, false
	}
	v, ok := vals[symbol]
	return v, ok
}

// ParseError names the offending line, per spec.md §7's
// MalformedDefinitions requirement.
type ParseError struct {
	Line int
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("definitions: line %d: %s", e.Line, e.Text)
}

// condFrame tracks one level of .IF/.IFNOT/.ENDIF nesting. elseUsed
// guards the documented quirk: a `.IFNOT X` immediately following
// `.IF X` (same flag, same frame) replaces the condition in place
// rather than nesting a new nested nested nested frame - it is an ELSE,
// not an IF on top of an IF.
type condFrame struct {
	flag         string
	parentActive bool
	holds        bool
	elseUsed     bool
	active       bool
}

type parser struct {
	flags map[string]bool
	stack []condFrame
	side  Side
	field string // most recently declared field name, for indented value lines
	cat   *Catalog
	line  int
}

func (p *parser) active() bool {
	if len(p.stack) == 0 {
		return true
	}
	return p.stack[len(p.stack)-1].active
}

func (p *parser) pushIf(flag string, negate bool) {
	parentActive := p.active()
	holds := p.flags[flag]
	cond := holds
	if negate {
		cond = !holds
	}
	p.stack = append(p.stack, condFrame{
		flag:         flag,
		parentActive: parentActive,
		holds:        holds,
		active:       parentActive && cond,
	})
}

func (p *parser) ifnot(flag string) {
	if n := len(p.stack); n > 0 {
		top := &p.stack[n-1]
		if top.flag == flag && !top.elseUsed {
			top.active = top.parentActive && !top.holds
			top.elseUsed = true
			return
		}
	}
	p.pushIf(flag, true)
}

func (p *parser) endif() error {
	if len(p.stack) == 0 {
		return &ParseError{Line: p.line, Text: ".ENDIF without matching .IF/.IFNOT"}
	}
	p.stack = p.stack[:len(p.stack)-1]
	return nil
}

func parseNumber(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	// strconv's base 0 reads bare digits as decimal and honors the
	// 0x/0o/leading-0 prefixes for hex and octal. The base-8 retry only
	// runs when base 0 has already rejected the string.
	if n, err := strconv.ParseUint(s, 0, 64); err == nil {
		return n, nil
	}
	if n, err := strconv.ParseUint(s, 8, 64); err == nil {
		return n, nil
	}
	return 0, fmt.Errorf("not a number: %q", s)
}

// fieldDecl matches `NAME/=<S>` or `NAME/=<S:E>`, tolerating surrounding
// whitespace the way the vendor text is loosely formatted.
func parseFieldDecl(line string) (name string, start, end int, ok bool) {
	idx := strings.Index(line, "/=")
	if idx < 0 {
		return "", 0, 0, false
	}
	name = strings.TrimSpace(line[:idx])
	if name == "" {
		return "", 0, 0, false
	}
	rest := strings.TrimSpace(line[idx+2:])
	if !strings.HasPrefix(rest, "<") || !strings.HasSuffix(rest, ">") {
		return "", 0, 0, false
	}
	rest = rest[1 : len(rest)-1]
	parts := strings.SplitN(rest, ":", 2)
	s, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return "", 0, 0, false
	}
	e := s
	if len(parts) == 2 {
		e, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return "", 0, 0, false
		}
	}
	return name, s, e, true
}

// parseValueDecl matches an indented `NAME=VALUE` symbol line.
func parseValueDecl(line string) (name string, value uint64, ok bool) {
	if line == "" || (line[0] != ' ' && line[0] != '\t') {
		return "", 0, false
	}
	trimmed := strings.TrimSpace(line)
	idx := strings.LastIndex(trimmed, "=")
	if idx < 0 {
		return "", 0, false
	}
	name = strings.TrimSpace(trimmed[:idx])
	valStr := strings.TrimSpace(trimmed[idx+1:])
	if name == "" || valStr == "" {
		return "", 0, false
	}
	v, err := parseNumber(valStr)
	if err != nil {
		return "", 0, false
	}
	return name, v, true
}

// Parse reads a definitions text, evaluating .IF/.IFNOT/.ENDIF against
// flags (the model feature-flag set, e.g. from ucode/modelconfig) and
// returns the resolved field/value Catalog.
func Parse(r io.Reader, flags map[string]bool) (*Catalog, error) {
	p := &parser{flags: flags, cat: newCatalog(), side: UCode}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		p.line++
		raw := scanner.Text()
		if cut := strings.Index(raw, ";"); cut >= 0 {
			raw = raw[:cut] // trailing vendor comment marker
		}
		trimmed := strings.TrimSpace(raw)

		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, ".UCODE"):
			p.side = UCode
			continue
		case strings.HasPrefix(trimmed, ".DCODE"):
			p.side = DCode
			continue
		case strings.HasPrefix(trimmed, ".IFNOT"):
			flag := strings.TrimSpace(strings.TrimPrefix(trimmed, ".IFNOT"))
			if flag == "" {
				return nil, &ParseError{Line: p.line, Text: ".IFNOT without a flag name"}
			}
			p.ifnot(flag)
			continue
		case strings.HasPrefix(trimmed, ".IF"):
			flag := strings.TrimSpace(strings.TrimPrefix(trimmed, ".IF"))
			if flag == "" {
				return nil, &ParseError{Line: p.line, Text: ".IF without a flag name"}
			}
			p.pushIf(flag, false)
			continue
		case strings.HasPrefix(trimmed, ".ENDIF"):
			if err := p.endif(); err != nil {
				return nil, err
			}
			continue
		}

		if !p.active() {
			continue
		}

		if name, start, end, ok := parseFieldDecl(raw); ok {
			p.field = name
			p.cat.Fields[name] = Field{Start: start, End: end, Side: p.side}
			if _, exists := p.cat.Values[name]; !exists {
				p.cat.Values[name] = make(map[string]uint64)
				p.cat.order = append(p.cat.order, name)
			}
			continue
		}

		if name, value, ok := parseValueDecl(raw); ok {
			if p.field == "" {
				return nil, &ParseError{Line: p.line, Text: "value line with no preceding field declaration"}
			}
			p.cat.Values[p.field][name] = value
			continue
		}

		return nil, &ParseError{Line: p.line, Text: "unrecognized line: " + trimmed}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(p.stack) != 0 {
		return nil, &ParseError{Line: p.line, Text: "unterminated .IF/.IFNOT block"}
	}
	return p.cat, nil
}
