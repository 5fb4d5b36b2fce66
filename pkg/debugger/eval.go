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
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/lassandro/lc3sim/pkg/encoding"
	"github.com/lassandro/lc3sim/pkg/machine"
)

// Eval turns a debugger argument into a word. LC-3 literals (x3000, #-2) are
// taken as-is; anything else is a Starlark expression over the registers
// R0-R7, PC, COND, the device addresses KBSR and KBDR, and mem(addr).
func (dbg *Debugger) Eval(expr string, mc *machine.MachineState) (uint16, error) {
	expr = strings.TrimSpace(expr)

	if value, err := encoding.DecodeHex(expr); err == nil {
		return value, nil
	}

	if value, err := encoding.DecodeInt(expr); err == nil {
		return uint16(value), nil
	}

	value, err := evalStarlark(expr, mc)
	if err != nil {
		return 0, &ErrExpression{Expr: expr, Err: err}
	}

	return value, nil
}

func evalStarlark(expr string, mc *machine.MachineState) (value uint16, err error) {
	thread := starlark.Thread{Name: "dbg"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{
		"PC":   starlark.MakeInt(int(mc.Program)),
		"COND": starlark.MakeInt(int(mc.Condition)),
		"KBSR": starlark.MakeInt(int(machine.DEV_KBSR)),
		"KBDR": starlark.MakeInt(int(machine.DEV_KBDR)),
		"mem": starlark.NewBuiltin("mem", func(
			thread *starlark.Thread,
			fn *starlark.Builtin,
			args starlark.Tuple,
			kwargs []starlark.Tuple,
		) (starlark.Value, error) {
			var addr int
			if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &addr); err != nil {
				return nil, err
			}
			return starlark.MakeInt(int(mc.Memory[uint16(addr)])), nil
		}),
	}

	for i, register := range mc.Registers {
		pred[fmt.Sprintf("R%d", i)] = starlark.MakeInt(int(register))
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}

	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrNotInteger
		return
	}

	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < -0x8000 || st_int64 > 0xFFFF {
		err = ErrRange
		return
	}

	value = uint16(st_int64)
	return
}
