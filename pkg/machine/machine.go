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
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lassandro/lc3sim/pkg/encoding"
)

// New returns a reset machine attached to devices, which may be nil.
func New(devices *DeviceHandler) *Machine {
	mc := &Machine{Devices: devices}
	mc.Reset()
	return mc
}

func (mc *MachineState) Reset() {
	for i := range mc.Registers {
		mc.Registers[i] = 0x0000
	}

	for i := range mc.Memory {
		mc.Memory[i] = 0x0000
	}

	mc.Program = MEMSPACE_USER
	mc.Condition = FLAG_ZERO
}

// Reset clears the machine state and leaves it ready to run.
func (mc *Machine) Reset() {
	mc.State.Reset()
	mc.halted = false
}

// Halted reports whether HALT or a fatal error stopped the machine.
func (mc *Machine) Halted() bool {
	return mc.halted
}

// Resume lets a stopped machine execute again from the current PC.
func (mc *Machine) Resume() {
	mc.halted = false
}

func (mc *Machine) updateFlags(register uint16) {
	value := mc.State.Registers[register]

	if value == 0 {
		mc.State.Condition = FLAG_ZERO
	} else if value>>15 == 1 {
		mc.State.Condition = FLAG_NEG
	} else {
		mc.State.Condition = FLAG_POS
	}
}

// Run steps the machine until it halts, fails, or ctx is done. A HALT trap
// ends the run with a nil error.
func (mc *Machine) Run(ctx context.Context) error {
	for !mc.halted {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := mc.Step(); err != nil {
			return err
		}
	}

	return nil
}

// Step executes a single instruction. Any error stops the machine; decode
// failures are returned as *ErrDecode.
func (mc *Machine) Step() error {
	if mc.halted {
		return ErrHalted
	}

	addr := mc.State.Program
	instruction := mc.ReadWord(addr)

	mc.State.Program++

	if mc.Log != nil {
		mc.Log.WithFields(logrus.Fields{
			"pc":    fmt.Sprintf("%#04x", addr),
			"instr": fmt.Sprintf("%#04x", instruction),
			"asm":   Disassemble(addr, instruction),
		}).Debug("step")
	}

	if err := mc.execute(instruction); err != nil {
		mc.halted = true

		if errors.Is(err, ErrIllegalOpcode) || errors.Is(err, ErrIllegalTrap) {
			return &ErrDecode{Addr: addr, Instruction: instruction, Err: err}
		}

		return err
	}

	if mc.Debugger != nil {
		mc.Debugger.Step(mc)
	}

	return nil
}

func (mc *Machine) execute(instruction uint16) error {
	regs := &mc.State.Registers

	switch Decode(instruction) {
	// ADD  |0001    |DR   |SR1  |0|00 |SR2   | Register  addition
	// ADD  |0001    |DR   |SR1  |1|imm5      | Immediate addition
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_ADD:
		dest := (instruction >> 9) & 0x7
		src1 := (instruction >> 6) & 0x7

		if (instruction>>5)&0x1 == 1 {
			regs[dest] = regs[src1] + encoding.SignExtend(instruction, 5)
		} else {
			regs[dest] = regs[src1] + regs[instruction&0x7]
		}

		mc.updateFlags(dest)

	// AND  |0101    |DR   |SR1  |0|00 |SR2   | Register  bitwise
	// AND  |0101    |DR   |SR1  |1|imm5      | Immediate bitwise
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_AND:
		dest := (instruction >> 9) & 0x7
		src1 := (instruction >> 6) & 0x7

		if (instruction>>5)&0x1 == 1 {
			regs[dest] = regs[src1] & encoding.SignExtend(instruction, 5)
		} else {
			regs[dest] = regs[src1] & regs[instruction&0x7]
		}

		mc.updateFlags(dest)

	// NOT  |1001    |DR   |SR   |1|11111     | Bitwise complement
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_NOT:
		dest := (instruction >> 9) & 0x7
		src := (instruction >> 6) & 0x7

		regs[dest] = ^regs[src]

		mc.updateFlags(dest)

	// BR   |0000    |N|Z|P|PCoffset9         | Conditional branch
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_BR:
		cond := Condition((instruction >> 9) & 0x7)

		if cond&mc.State.Condition != 0 {
			mc.State.Program += encoding.SignExtend(instruction, 9)
		}

	// JMP  |1100    |000  |BaseR|000000      | Jump
	// RET  |1100    |000  |111  |000000      | Return
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_JMP:
		mc.State.Program = regs[(instruction>>6)&0x7]

	// JSR  |0100    |1|PCoffset11            | Jump to subroutine
	// JSRR |0100    |0|00 |BaseR|000000      | Jump to subroutine register
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_JSR:
		// Linking happens first: JSRR R7 jumps to the return address
		regs[7] = mc.State.Program

		if (instruction>>11)&0x1 == 1 {
			mc.State.Program += encoding.SignExtend(instruction, 11)
		} else {
			mc.State.Program = regs[(instruction>>6)&0x7]
		}

	// LD   |0010    |DR   |PCoffset9         | Load
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LD:
		dest := (instruction >> 9) & 0x7
		addr := mc.State.Program + encoding.SignExtend(instruction, 9)

		regs[dest] = mc.ReadWord(addr)

		mc.updateFlags(dest)

	// LDI  |1010    |DR   |PCoffset9         | Load indirect
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LDI:
		dest := (instruction >> 9) & 0x7
		addr := mc.State.Program + encoding.SignExtend(instruction, 9)

		regs[dest] = mc.ReadWord(mc.ReadWord(addr))

		mc.updateFlags(dest)

	// LDR  |0110    |DR   |BaseR|offset6     | Load base+offset
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LDR:
		dest := (instruction >> 9) & 0x7
		base := (instruction >> 6) & 0x7
		addr := regs[base] + encoding.SignExtend(instruction, 6)

		regs[dest] = mc.ReadWord(addr)

		mc.updateFlags(dest)

	// LEA  |1110    |DR   |PCoffset9         | Load effective address
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LEA:
		dest := (instruction >> 9) & 0x7

		regs[dest] = mc.State.Program + encoding.SignExtend(instruction, 9)

		mc.updateFlags(dest)

	// ST   |0011    |SR   |PCoffset9         | Store
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_ST:
		src := (instruction >> 9) & 0x7
		addr := mc.State.Program + encoding.SignExtend(instruction, 9)

		mc.WriteWord(addr, regs[src])

	// STI  |1011    |SR   |PCoffset9         | Store indirect
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_STI:
		src := (instruction >> 9) & 0x7
		addr := mc.State.Program + encoding.SignExtend(instruction, 9)

		mc.WriteWord(mc.ReadWord(addr), regs[src])

	// STR  |0111    |SR   |BaseR|offset6     | Store base+offset
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_STR:
		src := (instruction >> 9) & 0x7
		base := (instruction >> 6) & 0x7
		addr := regs[base] + encoding.SignExtend(instruction, 6)

		mc.WriteWord(addr, regs[src])

	// TRAP |1111    |0000   |trapvect8       | System call
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_TRAP:
		return mc.trap(encoding.ZeroExtend(instruction, 8))

	// RTI  |1000    |000000000000            | Unsupported
	// RES  |1101    |                        | Reserved
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	default:
		return ErrIllegalOpcode
	}

	return nil
}
