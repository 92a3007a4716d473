// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"sync/atomic"
	"unsafe"

	"code.hybscloud.com/atomix"
)

// closeRec remembers a tail segment that was rolled over before the
// producer's next [Buffer.Notify] call. Its final length is held here,
// privately, rather than written into the segment's published end field,
// so that a composite write built from several notify=false steps stays
// fully invisible to the consumer until the outer Notify call — including
// across segment boundaries.
type closeRec struct {
	seg *segment
	end int
}

// Stats is a best-effort, approximate snapshot of a [Buffer]'s allocation
// behavior, in the spirit of the teacher package's stance that exact
// counts belong in application logic, not the hot path.
type Stats struct {
	SegmentsAllocated uint64
	SegmentsRecycled  uint64
	BytesWritten      uint64
	BytesRead         uint64
}

// Buffer is an unbounded SPSC byte stream. One producer goroutine may call
// the Write* family; one consumer goroutine may call the Read*/Get* family.
// Construction and destruction must be externally serialized against both.
//
// Segments are fixed-size, heap-allocated once, and never relocated or
// compacted: an address returned by [ReadValue] or ReadCont stays valid
// until [Buffer.ClearPreserved] has released the bytes that came before it.
type Buffer struct {
	_        pad
	head     *segment // consumer-owned, current read target
	_        pad
	freeHead *segment // producer-owned (pop recycled segments)
	_        pad
	freeTail atomic.Pointer[segment] // consumer-published (push cleared segments)
	_        pad

	blockSize int

	// producer-owned
	tailPrivate   *segment
	wposPrivate   int
	pendingCloses []closeRec

	// consumer-owned
	rpos          int
	preserved     []*segment // drained segments kept alive for outstanding pointers
	preservedOwed int        // bytes already released toward preserved[0]

	notifier *notifier

	segmentsAllocated atomix.Uint64
	segmentsRecycled  atomix.Uint64
	bytesWritten      atomix.Uint64
	bytesRead         atomix.Uint64
}

func newBuffer(opts Options) *Buffer {
	seg0 := newSegmentBlock(opts.blockSize)
	freeSentinel := &segment{}

	b := &Buffer{
		head:        seg0,
		blockSize:   opts.blockSize,
		tailPrivate: seg0,
		freeHead:    freeSentinel,
		notifier:    newNotifier(opts),
	}
	b.freeTail.Store(freeSentinel)
	return b
}

// Stats returns a snapshot of segment allocation/recycling counts. See
// [Stats] — it is approximate and intended for observability, not flow
// control.
func (b *Buffer) Stats() Stats {
	return Stats{
		SegmentsAllocated: b.segmentsAllocated.LoadAcquire(),
		SegmentsRecycled:  b.segmentsRecycled.LoadAcquire(),
		BytesWritten:      b.bytesWritten.LoadAcquire(),
		BytesRead:         b.bytesRead.LoadAcquire(),
	}
}

// Notify publishes the producer's current write position and, depending on
// the buffer's [NotifyMode], wakes a waiting consumer. Every Write*
// operation calls this once by default; composite writes (e.g.
// [Buffer.WriteString]) pass notify=false to their inner steps and call
// Notify exactly once at the end, so the consumer never observes a
// size-prefix without its body.
func (b *Buffer) Notify() {
	for _, c := range b.pendingCloses {
		c.seg.end.StoreRelease(uint64(c.end))
	}
	b.pendingCloses = b.pendingCloses[:0]
	b.tailPrivate.end.StoreRelease(uint64(b.wposPrivate))
	b.notifier.notify()
}

// acquireSegment takes a segment from the free list (producer-side pop),
// allocating a fresh one if the free list is empty.
func (b *Buffer) acquireSegment() *segment {
	tail := b.freeTail.Load()
	if b.freeHead == tail {
		b.segmentsAllocated.AddAcqRel(1)
		return newSegmentBlock(b.blockSize)
	}
	// Hand out the old dummy head; its successor becomes the new dummy,
	// which the consumer may still link further freed segments after.
	seg := b.freeHead
	b.freeHead = seg.next.Load()
	if seg.block == nil {
		// the free list's initial sentinel has no block of its own
		seg.block = make([]byte, b.blockSize)
		b.segmentsAllocated.AddAcqRel(1)
	} else {
		b.segmentsRecycled.AddAcqRel(1)
	}
	seg.end.StoreRelaxed(0)
	seg.next.Store(nil)
	return seg
}

// freeSegment returns a drained segment to the free list (consumer-side
// push), publishing it with a release-store into freeTail.
func (b *Buffer) freeSegment(seg *segment) {
	seg.next.Store(nil)
	tail := b.freeTail.Load()
	tail.next.Store(seg)
	b.freeTail.Store(seg)
}

// rollTail closes the current tail segment (recording its final length for
// the next Notify) and links a freshly acquired segment as the new tail.
// The link itself is published with its own release-store (segment.next),
// independent of when the matching pendingCloses entry eventually reaches
// Notify — see segment.go's doc comment.
func (b *Buffer) rollTail() {
	b.pendingCloses = append(b.pendingCloses, closeRec{seg: b.tailPrivate, end: b.wposPrivate})
	next := b.acquireSegment()
	b.tailPrivate.next.Store(next)
	b.tailPrivate = next
	b.wposPrivate = 0
}

// EnsureCont returns a writable slice of at least n contiguous bytes in the
// tail segment, rolling over to a fresh segment first if the current tail
// doesn't have enough room. The caller must advance the cursor itself via
// [Buffer.Advance] after filling the slice. Panics if n exceeds the block
// size.
func (b *Buffer) EnsureCont(n int) []byte {
	if n > b.blockSize {
		panic("segbuf: write size exceeds block size")
	}
	if b.blockSize-b.wposPrivate < n {
		b.rollTail()
	}
	return b.tailPrivate.block[b.wposPrivate : b.wposPrivate+n]
}

// Advance commits n bytes previously written into the slice returned by
// EnsureCont.
func (b *Buffer) Advance(n int) {
	b.wposPrivate += n
}

// Write copies p into the buffer, crossing segment boundaries as needed.
// Issues a notification at the end unless notify is false.
func (b *Buffer) Write(p []byte, notify bool) {
	b.bytesWritten.AddAcqRel(uint64(len(p)))
	for len(p) > 0 {
		avail := b.blockSize - b.wposPrivate
		n := len(p)
		if n > avail {
			n = avail
		}
		copy(b.tailPrivate.block[b.wposPrivate:], p[:n])
		b.wposPrivate += n
		p = p[n:]
		if b.wposPrivate == b.blockSize && len(p) > 0 {
			b.rollTail()
		}
	}
	if notify {
		b.Notify()
	}
}

// WriteCont copies p into a single contiguous segment, rolling the tail
// over first if necessary. Precondition: len(p) <= block size. Issues a
// notification at the end unless notify is false.
func (b *Buffer) WriteCont(p []byte, notify bool) {
	dst := b.EnsureCont(len(p))
	copy(dst, p)
	b.Advance(len(p))
	b.bytesWritten.AddAcqRel(uint64(len(p)))
	if notify {
		b.Notify()
	}
}

// WriteString writes a length-prefixed string: a WriteValue[int] of
// len(s) followed by the raw bytes. Neither the length nor the body
// notifies on its own — the consumer would otherwise be able to observe a
// size prefix before its body arrives. Notify runs exactly once, after
// both pieces are in place.
func (b *Buffer) WriteString(s string) {
	WriteValue(b, len(s), false)
	b.Write([]byte(s), false)
	b.Notify()
}

// WriteValue binary-copies sizeof(v) bytes of v (host byte order, host
// layout — no cross-architecture portability is claimed) into the buffer,
// in a single contiguous segment. Issues a notification at the end unless
// notify is false, mirroring Write/WriteCont.
//
// Go has no generic methods, so this is a free function parameterized over
// T rather than a method on Buffer — the same simulation every generic Go
// library uses for a C++-style read<T>()/write<T>().
func WriteValue[T any](b *Buffer, v T, notify bool) {
	n := int(unsafe.Sizeof(v))
	dst := b.EnsureCont(n)
	*(*T)(unsafe.Pointer(&dst[0])) = v
	b.Advance(n)
	b.bytesWritten.AddAcqRel(uint64(n))
	if notify {
		b.Notify()
	}
}
