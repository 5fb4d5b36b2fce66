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
	"fmt"
)

const (
	haltNotice = "HALT\n"
	inPrompt   = "Enter a character: "
)

func (mc *Machine) trap(vector uint16) error {
	if vector < TRAP_GETC || vector > TRAP_HALT {
		return ErrIllegalTrap
	}

	mc.State.Registers[7] = mc.State.Program

	switch vector {
	case TRAP_GETC:
		key, err := mc.getc()
		if err != nil {
			return fmt.Errorf("GETC: %w", err)
		}

		mc.State.Registers[0] = uint16(key)

	case TRAP_OUT:
		if err := mc.puts([]byte{byte(mc.State.Registers[0])}); err != nil {
			return fmt.Errorf("OUT: %w", err)
		}

	case TRAP_PUTS:
		var out []byte

		mc.scanString(mc.State.Registers[0], func(value uint16) {
			out = append(out, byte(value))
		})

		if err := mc.puts(out); err != nil {
			return fmt.Errorf("PUTS: %w", err)
		}

	case TRAP_IN:
		if err := mc.puts([]byte(inPrompt)); err != nil {
			return fmt.Errorf("IN: %w", err)
		}

		key, err := mc.getc()
		if err != nil {
			return fmt.Errorf("IN: %w", err)
		}

		if err := mc.puts([]byte{key}); err != nil {
			return fmt.Errorf("IN: %w", err)
		}

		mc.State.Registers[0] = uint16(key)

	case TRAP_PUTSP:
		var out []byte

		// The low byte is written even when it is zero; only a zero word ends
		// the string.
		mc.scanString(mc.State.Registers[0], func(value uint16) {
			out = append(out, byte(value))

			if high := byte(value >> 8); high != 0 {
				out = append(out, high)
			}
		})

		if err := mc.puts(out); err != nil {
			return fmt.Errorf("PUTSP: %w", err)
		}

	case TRAP_HALT:
		err := mc.puts([]byte(haltNotice))
		mc.halted = true

		if err != nil {
			return fmt.Errorf("HALT: %w", err)
		}
	}

	return nil
}

// scanString calls fn for each word from addr up to, not including, the
// first zero word. Memory is read directly, without device side effects.
func (mc *Machine) scanString(addr uint16, fn func(uint16)) {
	for i := 0; i < len(mc.State.Memory); i++ {
		value := mc.State.Memory[addr]

		if value == 0 {
			return
		}

		fn(value)
		addr++
	}
}

func (mc *Machine) getc() (byte, error) {
	if mc.Devices == nil || mc.Devices.Keyboard == nil {
		return 0, ErrNoKeyboard
	}

	return mc.Devices.Keyboard.ReadByte()
}

// puts writes out to the display and flushes it. Output to a machine without
// a display is discarded.
func (mc *Machine) puts(out []byte) error {
	if mc.Devices == nil || mc.Devices.Display == nil {
		return nil
	}

	display := mc.Devices.Display

	for _, c := range out {
		if err := display.WriteByte(c); err != nil {
			return err
		}
	}

	return display.Flush()
}
