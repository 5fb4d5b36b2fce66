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
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/lassandro/lc3sim/pkg/debugger"
	"github.com/lassandro/lc3sim/pkg/machine"
)

const prompt = "\033[1;30m(dbg)\033[0m "

type lineReader interface {
	ReadLine() (string, error)
}

type scanLines struct {
	*bufio.Scanner
}

func (s scanLines) ReadLine() (string, error) {
	if s.Scan() {
		return s.Text(), nil
	}

	if err := s.Err(); err != nil {
		return "", err
	}

	return "", io.EOF
}

// repl is the interactive front end of the debugger. On a terminal it reads
// lines through an x/term Terminal, otherwise it scans plain lines.
type repl struct {
	*debugger.Debugger

	in  lineReader
	out io.Writer
	fd  int
	tty bool

	images  []string
	cancel  func()
	lastcmd []string
	quit    bool
}

func newREPL(in io.Reader, out io.Writer, images []string, cancel func()) *repl {
	r := &repl{
		Debugger: &debugger.Debugger{},
		out:      out,
		fd:       -1,
		images:   images,
		cancel:   cancel,
	}

	if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		t := term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{in, out}, prompt)

		r.in, r.out = t, t
		r.fd, r.tty = int(file.Fd()), true
	} else {
		r.in = scanLines{bufio.NewScanner(in)}
	}

	r.HandleBreak = r.handleBreak
	r.HandleRead = r.handleWatch
	r.HandleWrite = r.handleWatch

	return r
}

func (r *repl) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

func (r *repl) println(args ...any) {
	fmt.Fprintln(r.out, args...)
}

func (r *repl) stop() {
	r.quit = true
	if r.cancel != nil {
		r.cancel()
	}
}

func (r *repl) eval(mc *machine.Machine, expr string) (uint16, bool) {
	value, err := r.Eval(expr, &mc.State)
	if err != nil {
		r.println(err)
		return 0, false
	}

	return value, true
}

func (r *repl) breakCmd(mc *machine.Machine, args []string) {
	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "break add [addr]"

		if len(args) != 1 {
			r.println(usage)
			return
		}

		addr, ok := r.eval(mc, args[0])
		if !ok {
			return
		}

		if r.AddBreakpoint(addr) {
			r.printf("Breakpoint added [%#04x]\n", addr)
		}

	case "l", "ls", "list":
		format := indexFormat(len(r.Breakpoints), "%#04x\n")

		for i, breakpoint := range r.Breakpoints {
			r.printf(format, i, breakpoint.Addr)
		}

	case "r", "rm", "remove":
		const usage = "break remove [#]"

		if len(args) != 1 {
			r.println(usage)
			return
		}

		i, err := strconv.Atoi(args[0])
		if err == nil {
			err = r.RemoveBreakpoint(i)
		}

		if err != nil {
			r.println(err)
			return
		}

		r.printf("Breakpoint removed [%d]\n", i)

	case "clear":
		r.Breakpoints = nil
		r.println("Breakpoints reset")

	default:
		r.printf("break: '%s' is not a valid command\n", cmd)
	}
}

func (r *repl) watchCmd(mc *machine.Machine, args []string) {
	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "watch add [addr] [read|write|readwrite]"

		if len(args) != 2 {
			r.println(usage)
			return
		}

		var wtype debugger.WatchpointType

		switch args[1] {
		case "r", "read":
			wtype = debugger.ReadWatch
		case "w", "write":
			wtype = debugger.WriteWatch
		case "rw", "readwrite":
			wtype = debugger.ReadWriteWatch
		default:
			r.println(usage)
			return
		}

		addr, ok := r.eval(mc, args[0])
		if !ok {
			return
		}

		if r.AddWatchpoint(addr, wtype) {
			r.printf("Watchpoint added [%#04x] (%v)\n", addr, wtype)
		}

	case "l", "ls", "list":
		format := indexFormat(len(r.Watchpoints), "%#04x %v\n")

		for i, watchpoint := range r.Watchpoints {
			r.printf(format, i, watchpoint.Addr, watchpoint.Type)
		}

	case "r", "rm", "remove":
		const usage = "watch remove [#]"

		if len(args) != 1 {
			r.println(usage)
			return
		}

		i, err := strconv.Atoi(args[0])
		if err == nil {
			err = r.RemoveWatchpoint(i)
		}

		if err != nil {
			r.println(err)
			return
		}

		r.printf("Watchpoint removed [%d]\n", i)

	case "clear":
		r.Watchpoints = nil
		r.println("Watchpoints reset")

	default:
		r.printf("watch: '%s' is not a valid command\n", cmd)
	}
}

// indexFormat pads list indices to the width of the largest one.
func indexFormat(count int, rest string) string {
	digits := math.Floor(math.Log10(float64(count + 1)))
	return fmt.Sprintf("#%%0%dd: ", int64(digits)+1) + rest
}

func (r *repl) registerCmd(mc *machine.Machine, args []string) {
	const usage = "register [R#|PC|CC] [value]"

	if len(args) == 0 {
		r.PrintRegisters(r.out, &mc.State)
		return
	}

	if len(args) != 2 {
		r.println(usage)
		return
	}

	name := strings.ToUpper(args[0])

	if name == "CC" {
		switch strings.ToUpper(args[1]) {
		case "N":
			mc.State.Condition = machine.FLAG_NEG
		case "Z":
			mc.State.Condition = machine.FLAG_ZERO
		case "P":
			mc.State.Condition = machine.FLAG_POS
		default:
			r.println("register CC [n|z|p]")
			return
		}

		r.printf("\033[1mCC:\033[0m %v\n", mc.State.Condition)
		return
	}

	value, ok := r.eval(mc, args[1])
	if !ok {
		return
	}

	switch {
	case name == "PC":
		mc.State.Program = value
	case len(name) == 2 && name[0] == 'R' && name[1] >= '0' && name[1] <= '7':
		mc.State.Registers[name[1]-'0'] = value
	default:
		r.println("Invalid register")
		return
	}

	r.printf("\033[1m%s:\033[0m %#04x\n", name, value)
}

// span reads the optional [addr] [count] arguments shared by memory and
// disasm.
func (r *repl) span(mc *machine.Machine, args []string, count uint16) (uint16, uint16, bool) {
	addr := mc.State.Program

	if len(args) > 2 {
		return 0, 0, false
	}

	if len(args) > 0 {
		value, ok := r.eval(mc, args[0])
		if !ok {
			return 0, 0, false
		}
		addr = value
	}

	if len(args) > 1 {
		value, ok := r.eval(mc, args[1])
		if !ok {
			return 0, 0, false
		}
		count = value
	}

	return addr, count, true
}

func (r *repl) memoryCmd(mc *machine.Machine, args []string) {
	addr, count, ok := r.span(mc, args, 1)
	if !ok {
		r.println("memory [addr] [count]")
		return
	}

	r.PrintMem(r.out, &mc.State, addr, count)
}

func (r *repl) disasmCmd(mc *machine.Machine, args []string) {
	addr, count, ok := r.span(mc, args, 8)
	if !ok {
		r.println("disasm [addr] [count]")
		return
	}

	r.PrintDisasm(r.out, &mc.State, addr, count)
}

func (r *repl) setCmd(mc *machine.Machine, args []string) {
	const usage = "set [addr] [value]"

	if len(args) != 2 {
		r.println(usage)
		return
	}

	addr, ok := r.eval(mc, args[0])
	if !ok {
		return
	}

	value, ok := r.eval(mc, args[1])
	if !ok {
		return
	}

	mc.State.Memory[addr] = value
	r.PrintMem(r.out, &mc.State, addr, 1)
}

func (r *repl) jumpCmd(mc *machine.Machine, args []string) {
	const usage = "jump [addr]"

	if len(args) != 1 {
		r.println(usage)
		return
	}

	addr, ok := r.eval(mc, args[0])
	if !ok {
		return
	}

	mc.State.Program = addr
	mc.Resume()
	r.printf("\033[1mPC:\033[0m %#04x\n", addr)
}

func (r *repl) evalCmd(mc *machine.Machine, args []string) {
	if len(args) == 0 {
		r.println("eval [expr]")
		return
	}

	value, ok := r.eval(mc, strings.Join(args, " "))
	if !ok {
		return
	}

	r.printf("%#04x (%d)\n", value, int16(value))
}

func (r *repl) resetCmd(mc *machine.Machine) {
	mc.Reset()

	if err := loadImages(mc, r.images); err != nil {
		r.println(err)
		return
	}

	r.printf("\033[1mPC:\033[0m %#04x\n", mc.State.Program)
}

// session reads commands until one of them resumes the machine.
func (r *repl) session(mc *machine.Machine) {
	if r.tty {
		state, err := term.MakeRaw(r.fd)
		if err != nil {
			log.WithError(err).Warn("debugger terminal")
		} else {
			defer term.Restore(r.fd, state)
		}
	}

	for {
		if !r.tty {
			fmt.Fprint(r.out, prompt)
		}

		line, err := r.in.ReadLine()
		if err != nil {
			r.println()
			r.stop()
			return
		}

		args := strings.Fields(line)

		if len(args) == 0 {
			if len(r.lastcmd) == 0 {
				continue
			}
			args = r.lastcmd
		} else {
			r.lastcmd = args
		}

		cmd := args[0]
		args = args[1:]

		switch cmd {
		case "b", "bp", "break", "breakpoint":
			r.breakCmd(mc, args)

		case "w", "wp", "watch", "watchpoint":
			r.watchCmd(mc, args)

		case "r", "reg", "register", "registers":
			r.registerCmd(mc, args)

		case "m", "mem", "memory":
			r.memoryCmd(mc, args)

		case "d", "dis", "disasm":
			r.disasmCmd(mc, args)

		case "set":
			r.setCmd(mc, args)

		case "j", "jmp", "jump":
			r.jumpCmd(mc, args)

		case "e", "p", "eval", "print":
			r.evalCmd(mc, args)

		case "reset":
			r.resetCmd(mc)

		case "c", "continue":
			r.Break = false
			return

		case "n", "next":
			r.Break = true
			return

		case "q", "quit", "exit":
			r.stop()
			return

		case "clear":
			fmt.Fprint(r.out, "\033[H\033[2J")

		default:
			r.printf("error: '%s' is not a valid command\n", cmd)
		}
	}
}

func (r *repl) handleBreak(dbg *debugger.Debugger, mc *machine.Machine) {
	if r.quit {
		return
	}

	if !dbg.Break {
		r.println()
		r.println("Program stopped")
	}

	dbg.PrintDisasm(r.out, &mc.State, mc.State.Program, 1)
	r.session(mc)
}

func (r *repl) handleWatch(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
	if r.quit {
		return
	}

	r.println()
	r.println("Program stopped")
	dbg.PrintMem(r.out, &mc.State, addr, 1)
	r.session(mc)
}
