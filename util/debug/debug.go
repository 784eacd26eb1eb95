/*
 * KL10 - Log debug data to a file
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package debug is a bitmask-gated diagnostic logger for the EBOX
// units, in the same style as the original per-module Debugf: a module
// name, a bitmask the caller owns, and a level checked against it
// before anything is formatted or written.
package debug

import (
	"fmt"
	"os"
)

// Module bitmasks, one bit per EBOX unit, OR'd together to build the
// mask passed to SetMask.
const (
	CRAM = 1 << iota
	SEQ
	ALU
	MUX
	REG
	MBOX
	FM
	DISP
)

var logFile *os.File
var mask int

// SetOutput directs debug output at file; nil disables it.
func SetOutput(file *os.File) {
	logFile = file
}

// SetMask sets which module bits are active.
func SetMask(m int) {
	mask = m
}

// Debugf writes a module-tagged message if module's bit is set in the
// active mask.
func Debugf(module int, format string, a ...interface{}) {
	if logFile == nil || (mask&module) == 0 {
		return
	}
	if _, err := fmt.Fprintf(logFile, format+"\n", a...); err != nil {
		_, _ = os.Stderr.WriteString("debug: " + err.Error() + "\n")
	}
}
