// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf_test

import (
	"sync"
	"testing"

	"code.hybscloud.com/segbuf"
)

func TestQueuePushPopFIFO(t *testing.T) {
	q := segbuf.NewQueue[int]()
	if !q.Empty() {
		t.Fatal("new queue should be empty")
	}
	for i := 0; i < 5; i++ {
		q.Push(i * 10)
	}
	for i := 0; i < 5; i++ {
		v, ok := q.Pop()
		if !ok {
			t.Fatalf("pop %d: expected ok", i)
		}
		if v != i*10 {
			t.Fatalf("pop %d: got %d, want %d", i, v, i*10)
		}
	}
	if !q.Empty() {
		t.Fatal("queue should be empty after draining")
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("pop on empty queue should report ok == false")
	}
}

func TestQueueFront(t *testing.T) {
	q := segbuf.NewQueue[string]()
	if _, ok := q.Front(); ok {
		t.Fatal("front on empty queue should report ok == false")
	}
	q.Push("a")
	q.Push("b")
	v, ok := q.Front()
	if !ok || v != "a" {
		t.Fatalf("front = %q, %v, want \"a\", true", v, ok)
	}
	// Front must not remove the element.
	v, ok = q.Front()
	if !ok || v != "a" {
		t.Fatalf("second front = %q, %v, want \"a\", true", v, ok)
	}
	v, _ = q.Pop()
	if v != "a" {
		t.Fatalf("pop = %q, want \"a\"", v)
	}
}

// TestQueueFreelistReuse exercises the internal node free list by
// interleaving pushes and pops repeatedly: after the first full cycle,
// steady-state Push should be satisfied entirely from recycled nodes.
func TestQueueFreelistReuse(t *testing.T) {
	q := segbuf.NewQueue[int]()
	for round := 0; round < 1000; round++ {
		q.Push(round)
		v, ok := q.Pop()
		if !ok || v != round {
			t.Fatalf("round %d: got %d, %v", round, v, ok)
		}
	}
}

func TestQueueConcurrentSpin(t *testing.T) {
	if segbuf.RaceEnabled {
		t.Skip("skip: relies on atomic.Pointer publication across goroutines")
	}
	const n = 100000
	q := segbuf.NewSpinQueue[int]()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			q.Push(i)
		}
	}()
	for i := 0; i < n; i++ {
		q.Wait()
		v, ok := q.Pop()
		if !ok || v != i {
			t.Fatalf("want %d, got %d, %v", i, v, ok)
		}
	}
	wg.Wait()
}

func TestQueueConcurrentCV(t *testing.T) {
	const n = 20000
	q := segbuf.NewCVQueue[int]()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			q.Push(i)
		}
	}()
	for i := 0; i < n; i++ {
		q.Wait()
		v, ok := q.Pop()
		if !ok || v != i {
			t.Fatalf("want %d, got %d, %v", i, v, ok)
		}
	}
	wg.Wait()
}
