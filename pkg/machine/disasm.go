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

	"github.com/lassandro/lc3sim/pkg/encoding"
)

type operands uint8

const (
	operandsNone operands = iota
	// DR, SR1, SR2|imm5
	operandsALU
	// DR, SR
	operandsNot
	// nzp, PCoffset9
	operandsBranch
	// BaseR
	operandsBase
	// PCoffset11 | BaseR
	operandsSubroutine
	// DR|SR, PCoffset9
	operandsPCOffset
	// DR|SR, BaseR, offset6
	operandsBaseOffset
	// trapvect8
	operandsTrap
)

// RTI and RES have no operand form and render as data.
var disasmOperands = [16]operands{
	OP_BR:   operandsBranch,
	OP_ADD:  operandsALU,
	OP_LD:   operandsPCOffset,
	OP_ST:   operandsPCOffset,
	OP_JSR:  operandsSubroutine,
	OP_AND:  operandsALU,
	OP_LDR:  operandsBaseOffset,
	OP_STR:  operandsBaseOffset,
	OP_RTI:  operandsNone,
	OP_NOT:  operandsNot,
	OP_LDI:  operandsPCOffset,
	OP_STI:  operandsPCOffset,
	OP_JMP:  operandsBase,
	OP_RES:  operandsNone,
	OP_LEA:  operandsPCOffset,
	OP_TRAP: operandsTrap,
}

var trapNames = map[uint16]string{
	TRAP_GETC:  "GETC",
	TRAP_OUT:   "OUT",
	TRAP_PUTS:  "PUTS",
	TRAP_IN:    "IN",
	TRAP_PUTSP: "PUTSP",
	TRAP_HALT:  "HALT",
}

func reg(index uint16) string {
	return fmt.Sprintf("R%d", index&0x7)
}

func imm(value uint16) string {
	return fmt.Sprintf("#%d", int16(value))
}

func target(addr uint16, offset uint16) string {
	return fmt.Sprintf("x%04X", addr+1+offset)
}

// Disassemble renders the instruction stored at addr in LC-3 assembly
// syntax. PC-relative operands are shown as absolute addresses.
func Disassemble(addr uint16, instruction uint16) string {
	op := Decode(instruction)
	name := op.String()

	dr := instruction >> 9
	sr := instruction >> 6

	switch disasmOperands[op] {
	case operandsALU:
		if (instruction>>5)&0x1 == 1 {
			return fmt.Sprintf("%s %s, %s, %s", name, reg(dr), reg(sr),
				imm(encoding.SignExtend(instruction, 5)))
		}
		return fmt.Sprintf("%s %s, %s, %s", name, reg(dr), reg(sr),
			reg(instruction))

	case operandsNot:
		return fmt.Sprintf("%s %s, %s", name, reg(dr), reg(sr))

	case operandsBranch:
		nzp := (instruction >> 9) & 0x7
		if nzp == 0 {
			return "NOP"
		}

		var cond string
		if nzp&0x4 != 0 {
			cond += "n"
		}
		if nzp&0x2 != 0 {
			cond += "z"
		}
		if nzp&0x1 != 0 {
			cond += "p"
		}

		return fmt.Sprintf("%s%s %s", name, cond,
			target(addr, encoding.SignExtend(instruction, 9)))

	case operandsBase:
		if (sr & 0x7) == 7 {
			return "RET"
		}
		return fmt.Sprintf("%s %s", name, reg(sr))

	case operandsSubroutine:
		if (instruction>>11)&0x1 == 1 {
			return fmt.Sprintf("%s %s", name,
				target(addr, encoding.SignExtend(instruction, 11)))
		}
		return fmt.Sprintf("%sR %s", name, reg(sr))

	case operandsPCOffset:
		return fmt.Sprintf("%s %s, %s", name, reg(dr),
			target(addr, encoding.SignExtend(instruction, 9)))

	case operandsBaseOffset:
		return fmt.Sprintf("%s %s, %s, %s", name, reg(dr), reg(sr),
			imm(encoding.SignExtend(instruction, 6)))

	case operandsTrap:
		vector := encoding.ZeroExtend(instruction, 8)
		if name, ok := trapNames[vector]; ok {
			return name
		}
		return fmt.Sprintf("%s x%02X", name, vector)
	}

	return fmt.Sprintf(".FILL x%04X", instruction)
}
