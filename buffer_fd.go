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
// reading until fd returns EOF or [iox.ErrWouldBlock] (the fd is expected
// to be non-blocking in that case); otherwise it returns after the first
// successful read. max bounds the total bytes read in one call; a
// non-positive max means unbounded. The whole call issues at most one
// [Buffer.Notify], after the loop, and only if it read any bytes at all —
// a caller looping on InputFromFD isn't paying a wakeup per syscall.
func (b *Buffer) InputFromFD(fd int, cont bool, max int64) (n int64, err error) {
	defer func() {
		if n > 0 {
			b.Notify()
		}
	}()
	for {
		if max > 0 && n >= max {
			return n, nil
		}
		room := b.blockSize - b.wposPrivate
		if room == 0 {
			b.rollTail()
			room = b.blockSize
		}
		if max > 0 && int64(room) > max-n {
			room = int(max - n)
		}
		nr, rerr := unix.Read(fd, b.tailPrivate.block[b.wposPrivate:b.wposPrivate+room])
		if nr > 0 {
			b.wposPrivate += nr
			n += int64(nr)
			b.bytesWritten.AddAcqRel(uint64(nr))
		}
		if rerr != nil {
			if iox.IsWouldBlock(rerr) {
				return n, nil
			}
			return n, rerr
		}
		if nr == 0 {
			return n, nil // EOF
		}
		if !cont {
			return n, nil
		}
	}
}

// OutputToFD writes all currently-available unread bytes to fd. Never
// blocks: an empty buffer returns immediately with zero bytes rather than
// waiting for the producer, since fd I/O must stay responsive to the
// caller's own event loop rather than suspend on the buffer's notifier.
func (b *Buffer) OutputToFD(fd int) (int64, error) {
	var total int64
	for {
		avail := b.headEnd() - b.rpos
		if avail == 0 {
			if b.head.next.Load() == nil {
				return total, nil
			}
			b.popHead()
			continue
		}
		n, err := unix.Write(fd, b.head.block[b.rpos:b.rpos+avail])
		if n > 0 {
			b.rpos += n
			total += int64(n)
			b.bytesRead.AddAcqRel(uint64(n))
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

// EventFD returns the underlying eventfd descriptor when the buffer was
// built with NotifyMode(NotifyEventFD), for use in an external poll/epoll
// loop. Returns -1 otherwise.
func (b *Buffer) EventFD() int {
	return b.notifier.fd()
}

// Close releases resources held by the buffer's notifier, such as an
// eventfd descriptor. A Buffer built without NotifyEventFD has nothing to
// release and Close is a no-op.
func (b *Buffer) Close() error {
	return b.notifier.close()
}
