// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
)

// segment is a fixed-size byte block paired with a published length. It is
// heap-allocated once and never relocated; its address is stable for the
// segment's entire lifetime, so any slice taken from block remains valid
// for as long as the segment itself is kept alive (by the main chain, the
// preserved list, or the free list).
//
// next carries two different meanings depending on which chain the segment
// currently belongs to (main chain vs free list), never both at once: it
// is the forward link of whichever singly-linked list currently owns the
// segment. This is the literal "intrusive" part of the design — segment
// needs no separate node wrapper the way [Queue]'s arbitrary payload does.
// It is published with its own release-store and read with its own
// acquire-load, the same way goakt's segmented mailbox publishes a
// segment's next pointer, rather than riding on the happens-before edge
// from a different segment's end field: a chain of several links can be
// built up by the producer between one notification and the next, and a
// consumer that walks more than one of those links needs a fresh acquire
// at every hop, not just the first.
type segment struct {
	_     pad
	end   atomix.Uint64 // producer-published fill level / finalized length
	_     pad
	next  atomic.Pointer[segment]
	block []byte
}

func newSegmentBlock(size int) *segment {
	return &segment{block: make([]byte, size)}
}
