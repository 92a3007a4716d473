// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import "unsafe"

// seqSegment is [segment]'s non-concurrent counterpart: a plain int end
// cursor instead of an atomix.Uint64, since a [SeqBuffer] is only ever
// touched from one goroutine at a time and has no producer/consumer split
// to synchronize.
type seqSegment struct {
	end   int
	next  *seqSegment
	block []byte
}

func newSeqSegmentBlock(size int) *seqSegment {
	return &seqSegment{block: make([]byte, size)}
}

// SeqBuffer is the sequential counterpart to [Buffer]: the same unbounded,
// segmented, pointer-stable byte stream, but for a single goroutine that
// interleaves writes and reads on its own — a parser building up and then
// draining scratch buffers, for example. It carries no atomics and issues
// no notifications; there is nothing to publish across a goroutine
// boundary.
type SeqBuffer struct {
	blockSize int

	head *seqSegment
	tail *seqSegment
	rpos int
	wpos int

	freeHead *seqSegment
	freeTail *seqSegment

	preserved     []*seqSegment
	preservedOwed int
}

func newSeqBuffer(blockSize int) *SeqBuffer {
	seg0 := newSeqSegmentBlock(blockSize)
	return &SeqBuffer{
		blockSize: blockSize,
		head:      seg0,
		tail:      seg0,
	}
}

func (b *SeqBuffer) acquireSegment() *seqSegment {
	if b.freeHead == nil {
		return newSeqSegmentBlock(b.blockSize)
	}
	seg := b.freeHead
	b.freeHead = seg.next
	if b.freeHead == nil {
		b.freeTail = nil
	}
	seg.next = nil
	seg.end = 0
	return seg
}

func (b *SeqBuffer) freeSegment(seg *seqSegment) {
	seg.next = nil
	if b.freeTail == nil {
		b.freeHead = seg
	} else {
		b.freeTail.next = seg
	}
	b.freeTail = seg
}

func (b *SeqBuffer) rollTail() {
	b.tail.end = b.wpos
	next := b.acquireSegment()
	b.tail.next = next
	b.tail = next
	b.wpos = 0
}

// EnsureCont returns a writable slice of n contiguous bytes in the tail
// segment, rolling over first if the current one lacks room. The caller
// must follow up with [SeqBuffer.Advance]. Panics if n exceeds the block
// size.
func (b *SeqBuffer) EnsureCont(n int) []byte {
	if n > b.blockSize {
		panic("segbuf: write size exceeds block size")
	}
	if b.blockSize-b.wpos < n {
		b.rollTail()
	}
	return b.tail.block[b.wpos : b.wpos+n]
}

// Advance commits n bytes previously written into the slice returned by
// EnsureCont.
func (b *SeqBuffer) Advance(n int) {
	b.wpos += n
	b.tail.end = b.wpos
}

// Write copies p into the buffer, crossing segment boundaries as needed.
func (b *SeqBuffer) Write(p []byte) {
	for len(p) > 0 {
		avail := b.blockSize - b.wpos
		n := len(p)
		if n > avail {
			n = avail
		}
		copy(b.tail.block[b.wpos:], p[:n])
		b.wpos += n
		b.tail.end = b.wpos
		p = p[n:]
		if b.wpos == b.blockSize && len(p) > 0 {
			b.rollTail()
		}
	}
}

// WriteCont copies p into a single contiguous segment. Precondition:
// len(p) <= block size.
func (b *SeqBuffer) WriteCont(p []byte) {
	dst := b.EnsureCont(len(p))
	copy(dst, p)
	b.Advance(len(p))
}

// WriteString writes a length prefix followed by the string's bytes.
func (b *SeqBuffer) WriteString(s string) {
	WriteSeqValue(b, len(s))
	b.Write([]byte(s))
}

// WriteSeqValue binary-copies v into the buffer in a single contiguous
// segment.
func WriteSeqValue[T any](b *SeqBuffer, v T) {
	n := int(unsafe.Sizeof(v))
	dst := b.EnsureCont(n)
	*(*T)(unsafe.Pointer(&dst[0])) = v
	b.Advance(n)
}

func (b *SeqBuffer) headEnd() int {
	return b.head.end
}

func (b *SeqBuffer) popHead() {
	old := b.head
	b.preserved = append(b.preserved, old)
	b.head = old.next
	b.rpos = 0
}

// Empty reports whether the buffer has no unread bytes.
func (b *SeqBuffer) Empty() bool {
	return b.head == b.tail && b.rpos == b.wpos
}

// Len returns the number of committed, unread bytes across all segments.
// Approximate only in the sense that it does not count bytes reserved via
// EnsureCont but not yet advanced.
func (b *SeqBuffer) Len() int {
	if b.head == b.tail {
		return b.wpos - b.rpos
	}
	n := b.headEnd() - b.rpos
	for s := b.head.next; s != nil; s = s.next {
		if s == b.tail {
			n += b.wpos
		} else {
			n += s.end
		}
	}
	return n
}

// ReadCont returns a slice viewing n contiguous unread bytes directly
// inside the segment, without copying. Panics if fewer than n bytes are
// available — unlike [Buffer.ReadCont], a SeqBuffer never blocks.
func (b *SeqBuffer) ReadCont(n int) []byte {
	if b.blockSize-b.rpos < n && b.head != b.tail {
		b.popHead()
	}
	if b.headEnd()-b.rpos < n {
		panic("segbuf: read past available data")
	}
	p := b.head.block[b.rpos : b.rpos+n]
	b.rpos += n
	return p
}

// GetCont behaves like ReadCont but immediately releases the bytes read.
func (b *SeqBuffer) GetCont(n int) []byte {
	p := b.ReadCont(n)
	b.ClearPreserved(n)
	return p
}

// GetString reads a length-prefixed string written by WriteString and
// copies it out as an independent string.
func (b *SeqBuffer) GetString() string {
	n := GetSeqValue[int](b)
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

// ClearPreserved releases n bytes' worth of previously-read data. See
// [Buffer.ClearPreserved] — the accounting is identical, just without the
// atomics.
func (b *SeqBuffer) ClearPreserved(n int) {
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

// ReadSeqValue returns a pointer directly into the segment holding a T's
// bytes. The pointer remains valid until ClearPreserved releases it.
func ReadSeqValue[T any](b *SeqBuffer) *T {
	var zero T
	n := int(unsafe.Sizeof(zero))
	p := b.ReadCont(n)
	return (*T)(unsafe.Pointer(&p[0]))
}

// GetSeqValue reads and immediately releases a T.
func GetSeqValue[T any](b *SeqBuffer) T {
	v := *ReadSeqValue[T](b)
	b.ClearPreserved(int(unsafe.Sizeof(v)))
	return v
}
