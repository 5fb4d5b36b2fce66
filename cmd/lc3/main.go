// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/lassandro/lc3sim/pkg/machine"
)

var log *logrus.Entry

type CLI struct {
	Debug    bool     `help:"Stop before the first instruction in the debugger."`
	Trace    bool     `help:"Log every executed instruction."`
	LogLevel string   `name:"log-level" default:"warning" help:"Log level (error, warning, info, debug)."`
	Images   []string `arg:"" optional:"" name:"image" help:"Program images, loaded in order."`
}

func init() {
	exe, _ := os.Executable()
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log = logrus.WithField("prog", filepath.Base(exe))
}

// exitStatus logs the outcome of a run and maps it to a process exit status.
// A debugger quit is a clean exit even though it cancels the run.
func exitStatus(err error, quit bool) int {
	switch {
	case err == nil, quit:
		return 0
	case errors.Is(err, context.Canceled):
		log.Warn("interrupted")
		return 130
	default:
		log.Error(err)
		return 1
	}
}

func lc3(cli *CLI, stdin *os.File, stdout io.Writer) int {
	level, err := logrus.ParseLevel(cli.LogLevel)
	if err != nil {
		return exitStatus(err, false)
	}

	logrus.SetLevel(level)

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	mc := machine.New(&machine.DeviceHandler{
		Keyboard: newTTYInput(ctx, stdin),
		Display:  bufio.NewWriter(stdout),
	})

	if cli.Trace {
		logrus.SetLevel(logrus.DebugLevel)
		mc.Log = log
	}

	if err := loadImages(mc, cli.Images); err != nil {
		return exitStatus(err, false)
	}

	restore, err := enterRawTerm(stdin)
	if err != nil {
		return exitStatus(err, false)
	}

	defer restore()

	var dbg *repl

	if cli.Debug {
		dbg = newREPL(stdin, stdout, cli.Images, cancel)
		mc.Debugger = dbg.Debugger
		dbg.session(mc)
	}

	return exitStatus(mc.Run(ctx), dbg != nil && dbg.quit)
}

func loadImages(mc *machine.Machine, images []string) error {
	for _, path := range images {
		count, err := mc.LoadImageFile(path)
		if err != nil {
			return err
		}

		log.WithFields(logrus.Fields{"image": path, "words": count}).Info("loaded")
	}

	return nil
}

func main() {
	var cli CLI

	kong.Parse(&cli,
		kong.Name("lc3"),
		kong.Description("Runs LC-3 program images."),
	)

	os.Exit(lc3(&cli, os.Stdin, os.Stdout))
}
