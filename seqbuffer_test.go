// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf_test

import (
	"testing"

	"code.hybscloud.com/segbuf"
)

func TestSeqBufferWriteReadString(t *testing.T) {
	buf := segbuf.New().BlockSize(64).BuildSeq()
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

func TestSeqBufferAcrossSegments(t *testing.T) {
	buf := segbuf.New().BlockSize(16).BuildSeq()
	want := []string{"a", "bb", "ccccccccccc", "dddddddddddddddddddd"}
	for _, s := range want {
		buf.WriteString(s)
	}
	for i, s := range want {
		if got := buf.GetString(); got != s {
			t.Fatalf("string %d: got %q, want %q", i, got, s)
		}
	}
}

func TestSeqBufferLen(t *testing.T) {
	buf := segbuf.New().BlockSize(8).BuildSeq()
	if buf.Len() != 0 {
		t.Fatalf("new buffer Len() = %d, want 0", buf.Len())
	}
	buf.Write([]byte("0123456789")) // crosses the 8-byte block boundary
	if buf.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", buf.Len())
	}
	_ = buf.GetCont(4)
	if buf.Len() != 6 {
		t.Fatalf("Len() after partial read = %d, want 6", buf.Len())
	}
}

func TestSeqBufferTypedValues(t *testing.T) {
	buf := segbuf.New().BlockSize(8).BuildSeq()
	for i := 0; i < 40; i++ {
		segbuf.WriteSeqValue(buf, int64(i))
	}
	for i := 0; i < 40; i++ {
		if got := segbuf.GetSeqValue[int64](buf); got != int64(i) {
			t.Fatalf("value %d: got %d", i, got)
		}
	}
}

func TestSeqBufferClearPreservedRoundTrips(t *testing.T) {
	buf := segbuf.New().BlockSize(16).BuildSeq()
	for round := 0; round < 200; round++ {
		buf.WriteCont([]byte("0123456789abcdef"))
		p := buf.ReadCont(16)
		if len(p) != 16 {
			t.Fatalf("round %d: short read", round)
		}
		buf.ClearPreserved(16)
	}
}

func TestSeqBufferReadPastAvailablePanics(t *testing.T) {
	buf := segbuf.New().BlockSize(16).BuildSeq()
	buf.WriteCont([]byte("abc"))
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic reading past available data")
		}
	}()
	buf.ReadCont(8)
}
