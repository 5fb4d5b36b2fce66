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

package debugger

import (
	"fmt"
	"io"

	"github.com/lassandro/lc3sim/pkg/machine"
)

func (dbg *Debugger) Step(mc *machine.Machine) {
	if dbg.HandleBreak == nil {
		return
	}

	if dbg.Break {
		dbg.HandleBreak(dbg, mc)
		return
	}

	for _, breakpoint := range dbg.Breakpoints {
		if mc.State.Program == breakpoint.Addr {
			dbg.HandleBreak(dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Read(addr uint16, mc *machine.Machine) {
	if dbg.HandleRead != nil && dbg.watching(addr, ReadWatch) {
		dbg.HandleRead(addr, dbg, mc)
	}
}

func (dbg *Debugger) Write(addr uint16, mc *machine.Machine) {
	if dbg.HandleWrite != nil && dbg.watching(addr, WriteWatch) {
		dbg.HandleWrite(addr, dbg, mc)
	}
}

func (dbg *Debugger) watching(addr uint16, wtype WatchpointType) bool {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Addr == addr && watchpoint.Type&wtype != 0 {
			return true
		}
	}

	return false
}

// AddBreakpoint reports false when addr already has a breakpoint.
func (dbg *Debugger) AddBreakpoint(addr uint16) bool {
	for _, breakpoint := range dbg.Breakpoints {
		if breakpoint.Addr == addr {
			return false
		}
	}

	dbg.Breakpoints = append(dbg.Breakpoints, Breakpoint{Addr: addr})
	return true
}

func (dbg *Debugger) RemoveBreakpoint(i int) error {
	if i < 0 || i >= len(dbg.Breakpoints) {
		return ErrIndex
	}

	dbg.Breakpoints = append(dbg.Breakpoints[:i], dbg.Breakpoints[i+1:]...)
	return nil
}

// AddWatchpoint reports false when an identical watchpoint exists.
func (dbg *Debugger) AddWatchpoint(addr uint16, wtype WatchpointType) bool {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Addr == addr && watchpoint.Type == wtype {
			return false
		}
	}

	dbg.Watchpoints = append(dbg.Watchpoints, Watchpoint{Addr: addr, Type: wtype})
	return true
}

func (dbg *Debugger) RemoveWatchpoint(i int) error {
	if i < 0 || i >= len(dbg.Watchpoints) {
		return ErrIndex
	}

	dbg.Watchpoints = append(dbg.Watchpoints[:i], dbg.Watchpoints[i+1:]...)
	return nil
}

// PrintMem dumps count words from addr, four to a row. Zero words are
// dimmed.
func (dbg *Debugger) PrintMem(w io.Writer, mc *machine.MachineState, addr, count uint16) {
	for i := uint16(0); i < count; i++ {
		if i%4 == 0 {
			if i != 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "\033[1m[%#04x]\033[0m ", addr+i)
		}

		result := mc.Memory[addr+i]

		if result == 0 {
			fmt.Fprintf(w, "\033[1;30m%#04x\033[0m ", result)
		} else {
			fmt.Fprintf(w, "%#04x ", result)
		}
	}

	fmt.Fprintln(w)
}

// PrintDisasm lists count instructions from addr, marking the PC.
func (dbg *Debugger) PrintDisasm(w io.Writer, mc *machine.MachineState, addr, count uint16) {
	for i := uint16(0); i < count; i++ {
		at := addr + i
		instruction := mc.Memory[at]

		marker := "  "
		if at == mc.Program {
			marker = "=>"
		}

		fmt.Fprintf(
			w, "%s \033[1m[%#04x]\033[0m %#04x  %s\n",
			marker, at, instruction, machine.Disassemble(at, instruction),
		)
	}
}

func (dbg *Debugger) PrintRegisters(w io.Writer, mc *machine.MachineState) {
	for i, register := range mc.Registers {
		fmt.Fprintf(w, "\033[1mR%d:\033[0m %#04x\t", i, register)
		if i == (len(mc.Registers)-1)/2 {
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(
		w, "\033[1mPC:\033[0m %#04x\t\033[1mCC:\033[0m %v\n",
		mc.Program,
		mc.Condition,
	)
}
