// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"sync"
	"sync/atomic"

	"code.hybscloud.com/iox"
)

// node is an intrusive wrapper around a Queue payload. next is written once
// by the producer and read by the consumer only after observing the
// producer's release-store of tail (or freeTail); that publication is the
// happens-before edge that makes the plain field safe to read without its
// own atomic.
type node[T any] struct {
	payload T
	next    *node[T]
}

// blockMode selects how Queue.Wait behaves when the queue is empty.
type blockMode int

const (
	waitFree blockMode = iota
	spinBlock
	cvBlock
)

// Queue is a wait-free intrusive SPSC node queue: one producer calls Push,
// one consumer calls Pop/Front/Wait. It is unbounded — Push never fails —
// and never relocates a node once pushed, so a payload obtained via Front
// stays at a stable address until the matching Pop.
//
// A singly-linked list with a dummy head node represents the live queue;
// emptiness is head == tail. A second, symmetric list recycles detached
// dummy nodes so steady-state Push rarely allocates: Push takes a node from
// this internal free list when one is available, Pop returns the detached
// node to it.
//
// Queue follows the same intrusive chain-plus-freelist discipline [Buffer]
// applies to its segments, generalized to an arbitrary payload type. It is
// exported directly so any SPSC handoff of arbitrary values can use it
// standalone (e.g. a free list of pooled buffers), without pulling in the
// byte-stream machinery.
type Queue[T any] struct {
	_        pad
	head     *node[T] // consumer-owned
	_        pad
	tail     atomic.Pointer[node[T]] // producer-published
	_        pad
	freeHead *node[T] // producer-owned (pops recycled nodes)
	_        pad
	freeTail atomic.Pointer[node[T]] // consumer-published (pushes cleared nodes)
	_        pad

	mode blockMode
	mu   sync.Mutex
	cond *sync.Cond
}

func newQueue[T any](mode blockMode) *Queue[T] {
	sentinel := &node[T]{}
	freeSentinel := &node[T]{}
	q := &Queue[T]{
		head:     sentinel,
		freeHead: freeSentinel,
		mode:     mode,
	}
	q.tail.Store(sentinel)
	q.freeTail.Store(freeSentinel)
	if mode == cvBlock {
		q.cond = sync.NewCond(&q.mu)
	}
	return q
}

// NewQueue creates a wait-free Queue. Pop/Front require the caller to
// ensure the queue is non-empty (e.g. via application-level coordination);
// calling them on an empty queue just returns ok == false, but Wait is a
// no-op, so a caller that relies on it to block will spin forever.
func NewQueue[T any]() *Queue[T] {
	return newQueue[T](waitFree)
}

// NewSpinQueue creates a Queue whose Wait method busy-waits on the empty
// predicate using [code.hybscloud.com/iox.Backoff].
func NewSpinQueue[T any]() *Queue[T] {
	return newQueue[T](spinBlock)
}

// NewCVQueue creates a Queue whose Wait method blocks on a condition
// variable, signalled by every Push.
func NewCVQueue[T any]() *Queue[T] {
	return newQueue[T](cvBlock)
}

// Push adds v to the back of the queue (producer only). Never blocks; the
// only failure mode is allocation failure, which panics like any other Go
// allocation.
func (q *Queue[T]) Push(v T) {
	n := q.allocNode()
	n.payload = v
	n.next = nil

	if q.mode == cvBlock {
		q.mu.Lock()
		tail := q.tail.Load()
		tail.next = n
		q.tail.Store(n)
		q.mu.Unlock()
		q.cond.Signal()
		return
	}

	tail := q.tail.Load()
	tail.next = n
	q.tail.Store(n)
}

// Empty reports whether the queue currently holds no elements.
func (q *Queue[T]) Empty() bool {
	return q.head == q.tail.Load()
}

// Front returns the payload at the front of the queue without removing it.
// Returns ok == false if the queue is empty.
func (q *Queue[T]) Front() (v T, ok bool) {
	if q.head == q.tail.Load() {
		return v, false
	}
	front := q.head.next
	return front.payload, true
}

// Pop removes and returns the front element (consumer only). Returns
// ok == false if the queue is empty.
func (q *Queue[T]) Pop() (v T, ok bool) {
	if q.head == q.tail.Load() {
		return v, false
	}
	front := q.head.next
	v = front.payload
	var zero T
	front.payload = zero // drop references so GC can collect them
	old := q.head
	q.head = front
	q.freeNode(old)
	return v, true
}

// Wait blocks (consumer only) until the queue is non-empty, according to
// the block mode the queue was built with: a no-op for [NewQueue], a
// busy-wait for [NewSpinQueue], a condition-variable wait for
// [NewCVQueue].
func (q *Queue[T]) Wait() {
	switch q.mode {
	case waitFree:
		return
	case spinBlock:
		bo := iox.Backoff{}
		for q.Empty() {
			bo.Wait()
		}
	case cvBlock:
		q.mu.Lock()
		for q.head == q.tail.Load() {
			q.cond.Wait()
		}
		q.mu.Unlock()
	}
}

// allocNode takes a node from the internal free list (producer side pop),
// falling back to allocation when the free list is empty. As with Pop on the
// main list, the node handed out is the old dummy head; its successor becomes
// the new dummy, which the consumer may still link further nodes after.
func (q *Queue[T]) allocNode() *node[T] {
	tail := q.freeTail.Load()
	if q.freeHead == tail {
		return &node[T]{}
	}
	n := q.freeHead
	q.freeHead = n.next
	return n
}

// freeNode returns a detached node to the internal free list (consumer
// side push), publishing it with a release-store into freeTail.
func (q *Queue[T]) freeNode(n *node[T]) {
	n.next = nil
	tail := q.freeTail.Load()
	tail.next = n
	q.freeTail.Store(n)
}
