// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import "unsafe"

// headEnd returns how many bytes of the current head segment are readable.
// head.next is acquire-loaded fresh on every call: once it is non-nil the
// producer closed head at exactly the block size (a value that can never
// change again), so the block size is returned directly. Otherwise head is
// still the producer's active tail, and an acquire-load of the segment's
// published end observes the producer's latest write.
//
// This always re-checks next rather than caching the fact that it was last
// seen non-nil, because a producer can link several further segments
// between two Notify calls: a consumer walking more than one of those
// links needs its own fresh acquire at each hop, not just the one that
// first observed the chain grow.
func (b *Buffer) headEnd() int {
	if b.head.next.Load() != nil {
		return b.blockSize
	}
	return int(b.head.end.LoadAcquire())
}

// popHead advances past an exhausted head segment. The old segment is not
// freed immediately: any pointer handed out by a prior ReadCont/ReadValue
// may still alias it, so it moves to the preserved list until
// [Buffer.ClearPreserved] says it is safe to recycle.
func (b *Buffer) popHead() {
	old := b.head
	b.preserved = append(b.preserved, old)
	b.head = old.next.Load()
	b.rpos = 0
}

// ensureHeadHasBytes blocks (per the buffer's [NotifyMode]) until at least
// n contiguous bytes are available starting at rpos in the head segment,
// rolling over to the next segment first if the current one is exhausted.
func (b *Buffer) ensureHeadHasBytes(n int) {
	if b.blockSize-b.rpos < n {
		b.notifier.wait(func() bool {
			return b.head.next.Load() != nil
		})
		b.popHead()
	}
	b.notifier.wait(func() bool {
		return b.headEnd()-b.rpos >= n
	})
}

// Empty reports whether the buffer currently has no unread bytes, without
// blocking. Safe to call from the consumer goroutine only.
func (b *Buffer) Empty() bool {
	return b.head.next.Load() == nil && b.rpos == b.headEnd()
}

// ReadCont blocks until n contiguous bytes are available and returns a
// slice viewing them directly inside the segment — no copy. The slice
// remains valid until enough bytes are released via
// [Buffer.ClearPreserved]. Precondition: n does not exceed the block size
// minus the consumer's current offset after a roll-over, i.e. n <= block
// size.
func (b *Buffer) ReadCont(n int) []byte {
	b.ensureHeadHasBytes(n)
	p := b.head.block[b.rpos : b.rpos+n]
	b.rpos += n
	b.bytesRead.AddAcqRel(uint64(n))
	return p
}

// GetCont behaves like ReadCont but immediately clears n bytes of
// preserved debt, for callers that never keep the returned slice past
// their next call.
func (b *Buffer) GetCont(n int) []byte {
	p := b.ReadCont(n)
	b.ClearPreserved(n)
	return p
}

// GetString reads a length-prefixed string written by [Buffer.WriteString]
// and copies it out as an independent string (safe to retain indefinitely,
// unlike ReadCont's aliasing slice).
func (b *Buffer) GetString() string {
	n := GetValue[int](b)
	// Write filled each segment to the block size before moving on, so the
	// body is read back one segment's piece at a time.
	p := make([]byte, 0, n)
	for len(p) < n {
		k := n - len(p)
		if room := b.blockSize - b.rpos; room > 0 && k > room {
			k = room
		} else if room == 0 && k > b.blockSize {
			k = b.blockSize
		}
		p = append(p, b.GetCont(k)...)
	}
	return string(p)
}

// ClearPreserved releases n bytes' worth of previously-read data, in FIFO
// order against the preserved list. Once a preserved segment's entire
// block size has been released, it is returned to the free list for reuse
// by the producer. n may cover bytes read from the still-active head
// segment, which isn't in the preserved list yet (it can't be freed before
// it is fully read and popped anyway) — that debt simply accumulates and
// is honored once the segment eventually lands at preserved[0].
func (b *Buffer) ClearPreserved(n int) {
	for n > 0 {
		if len(b.preserved) == 0 {
			b.preservedOwed += n
			return
		}
		front := b.preserved[0]
		need := b.blockSize - b.preservedOwed
		if n < need {
			b.preservedOwed += n
			return
		}
		n -= need
		b.preserved = b.preserved[1:]
		b.preservedOwed = 0
		b.freeSegment(front)
	}
}

// ReadValue blocks until sizeof(T) bytes are available and returns a
// pointer directly into the segment (no copy). As with ReadCont, the
// pointer remains valid only until ClearPreserved releases its bytes.
func ReadValue[T any](b *Buffer) *T {
	var zero T
	n := int(unsafe.Sizeof(zero))
	p := b.ReadCont(n)
	return (*T)(unsafe.Pointer(&p[0]))
}

// GetValue blocks until sizeof(T) bytes are available, copies out a T, and
// clears the preserved debt for those bytes in the same call.
func GetValue[T any](b *Buffer) T {
	v := *ReadValue[T](b)
	b.ClearPreserved(int(unsafe.Sizeof(v)))
	return v
}
