// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"code.hybscloud.com/iox"
	"golang.org/x/sys/unix"
)

// InputFromFD reads from fd directly into the buffer's segments, avoiding
// an intermediate userspace copy. If cont is true, InputFromFD keeps
// reading until fd returns EOF or [iox.ErrWouldBlock]; otherwise it
// returns after the first successful read. max bounds the total bytes
// read in one call; a non-positive max means unbounded. Identical in
// contract to [Buffer.InputFromFD] minus the notification, since a
// SeqBuffer has no second goroutine to wake.
func (b *SeqBuffer) InputFromFD(fd int, cont bool, max int64) (int64, error) {
	var total int64
	for {
		if max > 0 && total >= max {
			return total, nil
		}
		room := b.blockSize - b.wpos
		if room == 0 {
			b.rollTail()
			room = b.blockSize
		}
		if max > 0 && int64(room) > max-total {
			room = int(max - total)
		}
		n, err := unix.Read(fd, b.tail.block[b.wpos:b.wpos+room])
		if n > 0 {
			b.wpos += n
			b.tail.end = b.wpos
			total += int64(n)
		}
		if err != nil {
			if iox.IsWouldBlock(err) {
				return total, nil
			}
			return total, err
		}
		if n == 0 {
			return total, nil // EOF
		}
		if !cont {
			return total, nil
		}
	}
}

// OutputToFD writes all currently-available unread bytes to fd. Like
// [Buffer.OutputToFD] it never blocks: an empty buffer returns
// immediately with zero bytes.
func (b *SeqBuffer) OutputToFD(fd int) (int64, error) {
	var total int64
	for {
		avail := b.headEnd() - b.rpos
		if avail == 0 {
			if b.head == b.tail {
				return total, nil
			}
			b.popHead()
			continue
		}
		n, err := unix.Write(fd, b.head.block[b.rpos:b.rpos+avail])
		if n > 0 {
			b.rpos += n
			total += int64(n)
			b.ClearPreserved(n)
		}
		if err != nil {
			return total, err
		}
		if n < avail {
			return total, nil
		}
	}
}
