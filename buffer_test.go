// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf_test

import (
	"testing"

	"code.hybscloud.com/segbuf"
)

func TestBufferWriteReadStringSingleSegment(t *testing.T) {
	buf := segbuf.New().BlockSize(64).Build()
	buf.WriteString("hello")
	buf.WriteString("world")

	if got := buf.GetString(); got != "hello" {
		t.Fatalf("got %q, want hello", got)
	}
	if got := buf.GetString(); got != "world" {
		t.Fatalf("got %q, want world", got)
	}
	if !buf.Empty() {
		t.Fatal("buffer should be empty after draining")
	}
}

// TestBufferWriteReadAcrossSegments forces many segment roll-overs with a
// tiny block size, and checks that strings straddling a segment boundary
// are still read back intact.
func TestBufferWriteReadAcrossSegments(t *testing.T) {
	buf := segbuf.New().BlockSize(16).Build()
	want := []string{"a", "bb", "ccccccccccc", "dddddddddddddddddddd", "e"}
	for _, s := range want {
		buf.WriteString(s)
	}
	for i, s := range want {
		if got := buf.GetString(); got != s {
			t.Fatalf("string %d: got %q, want %q", i, got, s)
		}
	}
}

func TestBufferTypedReadWrite(t *testing.T) {
	buf := segbuf.New().BlockSize(8).Build()
	for i := 0; i < 50; i++ {
		segbuf.WriteValue(buf, int64(i), true)
	}
	for i := 0; i < 50; i++ {
		if got := segbuf.GetValue[int64](buf); got != int64(i) {
			t.Fatalf("value %d: got %d", i, got)
		}
	}
}

// TestBufferClearPreservedStabilizesAllocations checks that after the
// first lap through the ring of segments, steady-state ClearPreserved
// usage stops requiring new allocations — segments are recycled instead.
func TestBufferClearPreservedStabilizesAllocations(t *testing.T) {
	buf := segbuf.New().BlockSize(16).Build()
	for round := 0; round < 200; round++ {
		buf.WriteCont([]byte("0123456789abcdef"), true)
		p := buf.ReadCont(16)
		if len(p) != 16 {
			t.Fatalf("round %d: short read", round)
		}
		buf.ClearPreserved(16)
	}
	stats := buf.Stats()
	if stats.SegmentsAllocated > 3 {
		t.Fatalf("expected allocations to stabilize, got %d", stats.SegmentsAllocated)
	}
	if stats.BytesWritten != 200*16 || stats.BytesRead != 200*16 {
		t.Fatalf("stats mismatch: %+v", stats)
	}
}

func TestBufferPointerStableAcrossClearPreserved(t *testing.T) {
	buf := segbuf.New().BlockSize(16).Build()
	buf.WriteCont([]byte("0123456789abcdef"), true)
	p := segbuf.ReadValue[[8]byte](buf)
	before := *p
	// Write and read a second segment's worth without releasing the first;
	// the pointer above must stay valid since ClearPreserved hasn't run.
	buf.WriteCont([]byte("0123456789abcdef"), true)
	_ = buf.ReadCont(16)
	if *p != before {
		t.Fatal("preserved segment's memory changed before ClearPreserved released it")
	}
	buf.ClearPreserved(16)
}
