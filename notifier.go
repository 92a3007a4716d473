// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"sync"
	"time"

	"code.hybscloud.com/iox"
)

// notifier implements the six-row notification table from the design: it
// is the polymorphic "notify()/wait(predicate)" capability the design notes
// describe, collapsed into one struct with a mode switch since Go picks
// notification discipline at construction time rather than compile time.
type notifier struct {
	mode     NotifyMode
	interval int
	spinCount int
	timeout  time.Duration

	mu      sync.Mutex
	cond    *sync.Cond
	counter int // producer-owned; batches CV signals every interval-th call

	evfd *eventFD
}

func newNotifier(opts Options) *notifier {
	n := &notifier{
		mode:      opts.notifyMode,
		interval:  opts.notifyInterval,
		spinCount: opts.spinCount,
		timeout:   opts.timeout,
	}
	switch n.mode {
	case NotifyCV, NotifySpinThenCV, NotifyTimedCV:
		n.cond = sync.NewCond(&n.mu)
	case NotifyEventFD:
		fd, err := newEventFD()
		if err != nil {
			panic("segbuf: eventfd notify mode: " + err.Error())
		}
		n.evfd = fd
	}
	return n
}

// notify performs the producer-side half of the table. The atomic
// publication of the write cursor itself always happens in [Buffer.Notify]
// before this is called; notify only decides whether (and how) to wake a
// waiting consumer.
func (n *notifier) notify() {
	switch n.mode {
	case NotifyNone, NotifySpin:
		// Nothing to do: the consumer observes the published cursor itself.
	case NotifyCV, NotifyTimedCV:
		n.mu.Lock()
		n.counter++
		fire := n.counter%n.interval == 0
		n.mu.Unlock()
		if fire {
			n.cond.Signal()
		}
	case NotifySpinThenCV:
		n.cond.Signal()
	case NotifyEventFD:
		// Best-effort: errors from the eventfd write are ignored, matching
		// the design's error-handling taxonomy for notify-path writes.
		_ = n.evfd.write()
	}
}

// wait blocks the consumer (according to mode) until predicate reports
// true. predicate must be safe to call repeatedly and must itself perform
// whatever atomic loads are needed to observe producer progress.
func (n *notifier) wait(predicate func() bool) {
	switch n.mode {
	case NotifyNone:
		for !predicate() {
		}
	case NotifySpin:
		bo := iox.Backoff{}
		for !predicate() {
			bo.Wait()
		}
	case NotifyCV:
		n.mu.Lock()
		for !predicate() {
			n.cond.Wait()
		}
		n.mu.Unlock()
	case NotifySpinThenCV:
		for i := 0; i < n.spinCount; i++ {
			if predicate() {
				return
			}
		}
		n.mu.Lock()
		for !predicate() {
			n.cond.Wait()
		}
		n.mu.Unlock()
	case NotifyTimedCV:
		n.mu.Lock()
		for !predicate() {
			n.condWaitTimeout()
		}
		n.mu.Unlock()
	case NotifyEventFD:
		// The eventfd itself is meant to be polled externally (see
		// [Buffer.EventFD]); this fallback keeps typed reads usable for
		// callers that don't run their own event loop.
		bo := iox.Backoff{}
		for !predicate() {
			bo.Wait()
		}
	}
}

// condWaitTimeout waits on the condition variable for at most n.timeout.
// sync.Cond has no native deadline, so a timer broadcasts it if nobody else
// does first; this is the standard Go idiom for a bounded Cond.Wait.
// Caller must hold n.mu.
func (n *notifier) condWaitTimeout() {
	timer := time.AfterFunc(n.timeout, n.cond.Broadcast)
	n.cond.Wait()
	timer.Stop()
}

// fd returns the underlying eventfd descriptor for external polling, or -1
// when the buffer was not built with NotifyMode(NotifyEventFD).
func (n *notifier) fd() int {
	if n.evfd == nil {
		return -1
	}
	return n.evfd.fd
}

// close releases the eventfd, if any.
func (n *notifier) close() error {
	if n.evfd == nil {
		return nil
	}
	return n.evfd.close()
}
