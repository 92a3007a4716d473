// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"os"
	"time"
)

// pageSize is cached once at startup instead of asking the OS on every
// buffer construction.
var pageSize = os.Getpagesize()

// NotifyMode selects how a [Buffer]'s producer wakes a waiting consumer.
//
// The mode is a construction-time choice (Go has no template
// specialization to make it a compile-time one); all six disciplines from
// the design are represented. Batched-CV is not its own constant — it is
// [NotifyCV] or [NotifyTimedCV] built with NotifyInterval(k) for k > 1.
type NotifyMode int

const (
	// NotifyNone performs a plain release-store of the write cursor and
	// never signals anything. The consumer's blocking reads busy-wait on
	// the published cursor, without backoff.
	NotifyNone NotifyMode = iota

	// NotifySpin behaves like NotifyNone on the producer side; the
	// consumer busy-waits on a predicate using [code.hybscloud.com/iox.Backoff].
	NotifySpin

	// NotifyCV signals a condition variable on notify (every call, or
	// every NotifyInterval(k)-th call when batched). The consumer blocks
	// on the condition variable.
	NotifyCV

	// NotifySpinThenCV signals the condition variable on every notify, but
	// the consumer spins up to SpinCount(n) times before waiting on it —
	// trading a little CPU for avoiding the syscall-ish cost of a wakeup
	// under low latency workloads.
	NotifySpinThenCV

	// NotifyTimedCV signals the condition variable every NotifyInterval(k)-th
	// call; the consumer loops on a bounded wait (Timeout(d)) so it is
	// never blocked indefinitely even if a notify is dropped or delayed.
	NotifyTimedCV

	// NotifyEventFD performs a release-store then writes 1 to a
	// non-blocking Linux eventfd the caller can poll externally. See
	// [Buffer.EventFD].
	NotifyEventFD
)

// Options configures [Buffer] (and [SeqBuffer]) construction.
type Options struct {
	blockSize      int
	notifyMode     NotifyMode
	notifyInterval int
	spinCount      int
	timeout        time.Duration
}

// Builder creates a [Buffer] with fluent configuration, mirroring the
// teacher package's own construction style.
//
//	buf := segbuf.New().BlockSize(64 << 10).NotifyMode(segbuf.NotifyCV).Build()
type Builder struct {
	opts Options
}

// New creates a buffer builder with default options: block size is the OS
// page size, notify mode is [NotifyNone], notify interval 1, spin count 64,
// and timeout 1ms.
func New() *Builder {
	return &Builder{opts: Options{
		blockSize:      pageSize,
		notifyMode:     NotifyNone,
		notifyInterval: 1,
		spinCount:      64,
		timeout:        time.Millisecond,
	}}
}

// BlockSize sets the segment size in bytes. Panics if n <= 0.
func (b *Builder) BlockSize(n int) *Builder {
	if n <= 0 {
		panic("segbuf: block size must be > 0")
	}
	b.opts.blockSize = n
	return b
}

// NotifyMode sets the notification discipline. See [NotifyMode].
func (b *Builder) NotifyMode(m NotifyMode) *Builder {
	b.opts.notifyMode = m
	return b
}

// NotifyInterval sets the batch count k: under [NotifyCV] or
// [NotifyTimedCV], only every k-th [Buffer.Notify] call signals the
// condition variable. Panics if k <= 0.
func (b *Builder) NotifyInterval(k int) *Builder {
	if k <= 0 {
		panic("segbuf: notify interval must be > 0")
	}
	b.opts.notifyInterval = k
	return b
}

// SpinCount sets how many predicate checks [NotifySpinThenCV] performs
// before falling back to a condition-variable wait.
func (b *Builder) SpinCount(n int) *Builder {
	if n < 0 {
		panic("segbuf: spin count must be >= 0")
	}
	b.opts.spinCount = n
	return b
}

// Timeout sets the per-wake bound used by [NotifyTimedCV].
func (b *Builder) Timeout(d time.Duration) *Builder {
	if d <= 0 {
		panic("segbuf: timeout must be > 0")
	}
	b.opts.timeout = d
	return b
}

// Build creates the configured [Buffer].
func (b *Builder) Build() *Buffer {
	return newBuffer(b.opts)
}

// BuildSeq creates the configured [SeqBuffer]. Notification options are
// ignored: SeqBuffer is single-threaded and never blocks.
func (b *Builder) BuildSeq() *SeqBuffer {
	return newSeqBuffer(b.opts.blockSize)
}

// pad is cache line padding to prevent false sharing between fields
// touched by different goroutines.
type pad [64]byte
