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

package machine

import (
	"github.com/sirupsen/logrus"
)

// InputSource is the keyboard. Pending must not block; ReadByte blocks until
// a character arrives.
type InputSource interface {
	Pending() bool
	ReadByte() (byte, error)
}

// OutputSink is the display. *bufio.Writer satisfies it.
type OutputSink interface {
	WriteByte(c byte) error
	Flush() error
}

type DeviceHandler struct {
	Keyboard InputSource
	Display  OutputSink
}

type MachineState struct {
	Registers [8]uint16
	Program   uint16
	Condition Condition
	Memory    [1 << 16]uint16
}

// MachineDebugger receives a callback after every step and around every
// memory access made by an instruction.
type MachineDebugger interface {
	Step(mc *Machine)
	Read(addr uint16, mc *Machine)
	Write(addr uint16, mc *Machine)
}

type Machine struct {
	Devices  *DeviceHandler
	State    MachineState
	Debugger MachineDebugger

	// Log, when set, receives a Debug entry for every executed instruction.
	Log logrus.FieldLogger

	halted bool
}
