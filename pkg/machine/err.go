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
	"errors"

	"github.com/lassandro/lc3sim/pkg/translate"
)

var f = translate.From

var (
	ErrIllegalOpcode = errors.New(f("illegal opcode"))
	ErrIllegalTrap   = errors.New(f("illegal trap vector"))
	ErrHalted        = errors.New(f("machine halted"))
	ErrNoKeyboard    = errors.New(f("no keyboard attached"))
)

// ErrDecode is a fatal decode failure at Addr. The machine does not execute
// past it.
type ErrDecode struct {
	Addr        uint16
	Instruction uint16
	Err         error
}

func (err *ErrDecode) Error() string {
	return f("%#04x: %v (%#04x)", err.Addr, err.Err, err.Instruction)
}

func (err *ErrDecode) Unwrap() error {
	return err.Err
}

// ErrLoad reports an image that could not be read.
type ErrLoad struct {
	Path string
	Err  error
}

func (err *ErrLoad) Error() string {
	return f("load %v: %v", err.Path, err.Err)
}

func (err *ErrLoad) Unwrap() error {
	return err.Err
}
