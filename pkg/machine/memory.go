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
	"bufio"
	"io"
)

// ReadWord returns the word at addr. Reading DEV_KBSR polls the keyboard
// first: a pending character is moved into DEV_KBDR and the status bit set,
// otherwise the status is cleared.
func (mc *Machine) ReadWord(addr uint16) uint16 {
	if addr == DEV_KBSR {
		mc.pollKeyboard()
	}

	if mc.Debugger != nil {
		mc.Debugger.Read(addr, mc)
	}

	return mc.State.Memory[addr]
}

// WriteWord stores value at addr. Device addresses are not write protected.
func (mc *Machine) WriteWord(addr uint16, value uint16) {
	mc.State.Memory[addr] = value

	if mc.Debugger != nil {
		mc.Debugger.Write(addr, mc)
	}
}

func (mc *Machine) pollKeyboard() {
	if mc.Devices == nil || mc.Devices.Keyboard == nil {
		mc.State.Memory[DEV_KBSR] = 0
		return
	}

	keyboard := mc.Devices.Keyboard

	if keyboard.Pending() {
		if key, err := keyboard.ReadByte(); err == nil {
			mc.State.Memory[DEV_KBSR] = 1 << 15
			mc.State.Memory[DEV_KBDR] = uint16(key)
			return
		}
	}

	mc.State.Memory[DEV_KBSR] = 0
}

// ReaderInput adapts an io.Reader to an InputSource. A character is pending
// when one can be peeked, so readers that block on Peek (a terminal) need a
// dedicated InputSource instead.
type ReaderInput struct {
	reader *bufio.Reader
}

func NewReaderInput(r io.Reader) *ReaderInput {
	return &ReaderInput{reader: bufio.NewReader(r)}
}

func (in *ReaderInput) Pending() bool {
	_, err := in.reader.Peek(1)
	return err == nil
}

func (in *ReaderInput) ReadByte() (byte, error) {
	return in.reader.ReadByte()
}
