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

// Condition is the processor condition code register. Exactly one flag is
// set at any time.
type Condition uint16

const (
	FLAG_POS  Condition = 1 << 0
	FLAG_ZERO Condition = 1 << 1
	FLAG_NEG  Condition = 1 << 2
)

func (c Condition) String() string {
	switch c {
	case FLAG_POS:
		return "P"
	case FLAG_ZERO:
		return "Z"
	case FLAG_NEG:
		return "N"
	default:
		return "?"
	}
}

const (
	TRAP_GETC  uint16 = 0x20 // read a character, no echo
	TRAP_OUT   uint16 = 0x21 // write R0[7:0]
	TRAP_PUTS  uint16 = 0x22 // write a one-char-per-word string at R0
	TRAP_IN    uint16 = 0x23 // prompt, read and echo a character
	TRAP_PUTSP uint16 = 0x24 // write a two-chars-per-word string at R0
	TRAP_HALT  uint16 = 0x25
)

// Programs start executing at the base of user space
const MEMSPACE_USER uint16 = 0x3000

const (
	DEV_KBSR uint16 = 0xFE00
	DEV_KBDR uint16 = 0xFE02
)

// Opcode is the top nibble of an instruction word.
type Opcode uint16

const (
	OP_BR   Opcode = 0b0000
	OP_ADD  Opcode = 0b0001
	OP_LD   Opcode = 0b0010
	OP_ST   Opcode = 0b0011
	OP_JSR  Opcode = 0b0100
	OP_AND  Opcode = 0b0101
	OP_LDR  Opcode = 0b0110
	OP_STR  Opcode = 0b0111
	OP_RTI  Opcode = 0b1000
	OP_NOT  Opcode = 0b1001
	OP_LDI  Opcode = 0b1010
	OP_STI  Opcode = 0b1011
	OP_JMP  Opcode = 0b1100
	OP_RES  Opcode = 0b1101
	OP_LEA  Opcode = 0b1110
	OP_TRAP Opcode = 0b1111
)

var opcodeNames = [16]string{
	"BR", "ADD", "LD", "ST", "JSR", "AND", "LDR", "STR",
	"RTI", "NOT", "LDI", "STI", "JMP", "RES", "LEA", "TRAP",
}

func (op Opcode) String() string {
	return opcodeNames[op&0xF]
}

// Decode returns the opcode of an instruction word.
func Decode(instruction uint16) Opcode {
	return Opcode(instruction >> 12)
}
