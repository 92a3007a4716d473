// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !race

// This file contains examples that use atomix concurrency primitives.
// These trigger false positives with Go's race detector because atomix
// atomic operations appear as regular memory accesses to the detector.
// The examples are correct; they're excluded from race testing.

package segbuf_test

import (
	"fmt"
	"sync"

	"code.hybscloud.com/segbuf"
)

// ExampleQueue demonstrates a basic SPSC node queue handoff.
func ExampleQueue() {
	q := segbuf.NewQueue[int]()
	for i := 1; i <= 3; i++ {
		q.Push(i * 10)
	}
	for range 3 {
		v, _ := q.Pop()
		fmt.Println(v)
	}
	// Output:
	// 10
	// 20
	// 30
}

// ExampleBuffer demonstrates a producer and consumer exchanging
// length-prefixed strings over a CV-notified Buffer.
func ExampleBuffer() {
	buf := segbuf.New().NotifyMode(segbuf.NotifyCV).Build()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		buf.WriteString("hello")
		buf.WriteString("segbuf")
	}()

	fmt.Println(buf.GetString())
	fmt.Println(buf.GetString())
	wg.Wait()

	// Output:
	// hello
	// segbuf
}

// ExampleWriteValue demonstrates the generic typed read/write helpers.
func ExampleWriteValue() {
	buf := segbuf.New().Build()
	segbuf.WriteValue(buf, 42, true)
	fmt.Println(segbuf.GetValue[int](buf))
	// Output:
	// 42
}
