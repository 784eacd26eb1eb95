/*
 * KL10 - Main process.
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

// Command kl10 wires up and runs a bare EBOX: no CRAM/DRAM image is
// loaded and no CLI flags are parsed (both the microcode
// listing/loader tooling and an interactive front end are out of
// scope here) - this is the minimal goroutine/signal harness the rest
// of the module's packages plug into.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rcornwell/kl10/ebox"
	"github.com/rcornwell/kl10/ebox/cram"
	"github.com/rcornwell/kl10/ebox/mbox"
	"github.com/rcornwell/kl10/ucode/definitions"
	"github.com/rcornwell/kl10/util/logger"
)

var Logger *slog.Logger

func main() {
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	debugFlag := false
	Logger = slog.New(logger.NewHandler(os.Stderr, &slog.HandlerOptions{Level: programLevel}, &debugFlag))
	slog.SetDefault(Logger)

	Logger.Info("KL10 EBOX starting")

	cat, err := definitions.Parse(strings.NewReader(""), nil)
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}
	fields := cram.NewFieldCatalog(cat)

	var store cram.Store
	mem, err := mbox.New(mbox.MaxWords)
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	e := ebox.New(&store, fields, mem)
	e.Reset()
	e.Run()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	Logger.Info("Shutting down EBOX")
	e.Halt()
	Logger.Info("EBOX stopped")
}
