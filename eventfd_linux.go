// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package segbuf

import (
	"encoding/binary"

	"golang.org/x/sys/unix"
)

// eventFD wraps a non-blocking Linux eventfd used by [NotifyEventFD].
type eventFD struct {
	fd int
}

func newEventFD() (*eventFD, error) {
	fd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &eventFD{fd: fd}, nil
}

// write adds 1 to the eventfd's 64-bit counter, waking anything polling it.
func (e *eventFD) write() error {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	_, err := unix.Write(e.fd, buf[:])
	return err
}

func (e *eventFD) close() error {
	return unix.Close(e.fd)
}
