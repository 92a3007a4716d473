// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux

package segbuf

import "errors"

// eventFD stubs out NotifyEventFD on platforms without eventfd(2).
type eventFD struct{}

func newEventFD() (*eventFD, error) {
	return nil, errors.New("segbuf: eventfd notify mode requires linux")
}

func (e *eventFD) write() error { return errors.New("segbuf: eventfd not supported") }
func (e *eventFD) close() error { return nil }
