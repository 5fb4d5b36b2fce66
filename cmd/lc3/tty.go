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

package main

import (
	"context"
	"errors"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

const ttyPollMillis = 100

// ttyInput is the machine keyboard backed by a file descriptor. Pending never
// blocks; ReadByte blocks until input arrives or ctx is done.
type ttyInput struct {
	ctx  context.Context
	file *os.File
}

func newTTYInput(ctx context.Context, file *os.File) *ttyInput {
	return &ttyInput{ctx: ctx, file: file}
}

func (in *ttyInput) poll(timeout int) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(in.file.Fd()), Events: unix.POLLIN}}

	for {
		n, err := unix.Poll(fds, timeout)
		if errors.Is(err, unix.EINTR) {
			if timeout != 0 {
				return false, nil
			}
			continue
		}

		if err != nil {
			return false, err
		}

		return n > 0 && fds[0].Revents&(unix.POLLIN|unix.POLLHUP) != 0, nil
	}
}

func (in *ttyInput) Pending() bool {
	ready, err := in.poll(0)
	return err == nil && ready
}

func (in *ttyInput) ReadByte() (byte, error) {
	for {
		if err := in.ctx.Err(); err != nil {
			return 0, err
		}

		ready, err := in.poll(ttyPollMillis)
		if err != nil {
			return 0, err
		}

		if ready {
			break
		}
	}

	var buf [1]byte

	n, err := in.file.Read(buf[:])
	if n == 0 && err == nil {
		err = io.EOF
	}

	if err != nil {
		return 0, err
	}

	return buf[0], nil
}
