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
	"encoding/binary"
	"errors"
	"io"
	"os"
)

// LoadImage copies a program image into memory. The first big-endian word is
// the origin; every following word is stored at consecutive addresses until
// the stream or the address space ends. Existing memory outside the image is
// left untouched so images can be layered. It returns the number of words
// stored.
func (mc *Machine) LoadImage(reader io.Reader) (int, error) {
	scratch := make([]byte, 2)

	if _, err := io.ReadFull(reader, scratch); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, nil
		}
		return 0, err
	}

	origin := int(binary.BigEndian.Uint16(scratch))
	count := 0

	for addr := origin; addr < len(mc.State.Memory); addr++ {
		if _, err := io.ReadFull(reader, scratch); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return count, err
		}

		mc.State.Memory[addr] = binary.BigEndian.Uint16(scratch)
		count++
	}

	return count, nil
}

// LoadImageFile loads the image stored at path. Failures are reported as
// *ErrLoad.
func (mc *Machine) LoadImageFile(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, &ErrLoad{Path: path, Err: err}
	}

	defer file.Close()

	count, err := mc.LoadImage(bufio.NewReader(file))
	if err != nil {
		return count, &ErrLoad{Path: path, Err: err}
	}

	return count, nil
}
