// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package segbuf provides byte-oriented buffers and queues for inter-thread
// handoff in a single-producer/single-consumer (SPSC) setting, plus a
// non-concurrent unbounded block buffer used as their sequential
// counterpart.
//
// # Components
//
//   - [Queue] is a wait-free intrusive SPSC node queue: unbounded, one
//     producer pushes, one consumer pops, and node addresses never move.
//   - [Buffer] is an unbounded SPSC byte stream built the same way as
//     [Queue] — a producer-owned chain of segments with its own internal
//     free list, rather than a wrapper around Queue itself, since a segment
//     is already its own intrusive link. The producer appends bytes (or
//     typed values, or whole strings) and the consumer reads them back
//     FIFO, with zero-copy access to the underlying segment memory and
//     direct file-descriptor I/O.
//   - [SeqBuffer] is [Buffer]'s single-threaded counterpart: same external
//     contract, no atomics, no notification.
//
// # Quick Start
//
//	buf := segbuf.New().Build()
//
//	go func() { // producer
//	    buf.WriteString("hello") // notifies internally
//	}()
//
//	go func() { // consumer
//	    s := buf.GetString()
//	    fmt.Println(s)
//	}()
//
// # Notification modes
//
// A [Buffer] is unbuffered with respect to wakeups by default (notify mode
// [NotifyNone]): nothing is signalled, and the consumer's blocking reads
// busy-wait without backoff. [NotifySpin] spins the consumer on
// a predicate using [code.hybscloud.com/iox.Backoff]. [NotifyCV] and
// [NotifySpinThenCV] block the consumer on a condition variable, with the
// producer signalling it on every [Buffer.Notify] call ([NotifyCV] signals
// only every Nth call when built with NotifyInterval(k) — this is the
// "batched-CV" row of the notification table; [NotifySpinThenCV] ignores
// the interval). [NotifyTimedCV] bounds the consumer's wait latency.
// [NotifyEventFD] writes to a Linux eventfd the caller can poll externally.
//
//	buf := segbuf.New().
//	    NotifyMode(segbuf.NotifyCV).
//	    NotifyInterval(8).
//	    Build()
//
// # Pointer stability
//
// A pointer returned by [ReadValue], [Buffer.ReadCont], or [SeqBuffer]'s
// equivalents remains valid — the underlying segment memory is never
// relocated or reused — until [Buffer.ClearPreserved] has released at least
// that many cumulative bytes. This is the defining contract of the
// "preserved" list described in the package's design notes; callers that
// need the value to outlive the next clear must copy it out.
//
// # Thread safety
//
// [Queue] and [Buffer] are safe for exactly one producer goroutine and one
// consumer goroutine concurrently; construction and destruction must be
// externally serialized against both. [SeqBuffer] has no concurrency
// contract at all — use it from a single goroutine.
package segbuf
