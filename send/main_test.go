package main

import (
	"bytes"
	"testing"

	"github.com/xtaci/lanefec/std"
)

func TestSplitColumnsMatchesWindowFormula(t *testing.T) {
	data := make([]byte, 23)
	for i := range data {
		data[i] = byte(i)
	}
	cols := splitColumns(data, 3)
	if len(cols) != 3 {
		t.Fatalf("got %d columns, want 3", len(cols))
	}
	// S = ceil(23/3) = 8, F = 23 - 2*8 = 7
	if len(cols[0]) != 8 || len(cols[1]) != 8 || len(cols[2]) != 7 {
		t.Fatalf("unexpected column lengths: %d %d %d", len(cols[0]), len(cols[1]), len(cols[2]))
	}
	var reassembled []byte
	reassembled = append(reassembled, cols[0]...)
	reassembled = append(reassembled, cols[1]...)
	reassembled = append(reassembled, cols[2]...)
	if !bytes.Equal(reassembled, data) {
		t.Fatalf("columns do not reassemble to original data")
	}
}

func TestSendAllEmitsOriginalsAndRecovery(t *testing.T) {
	config := &Config{WindowColumns: 4, BlockBytes: 4, RecoverySymbols: 2, Quiet: true}
	data := bytes.Repeat([]byte{0xAB}, 16)

	var buf bytes.Buffer
	if err := sendAll(&buf, bytes.NewReader(data), config); err != nil {
		t.Fatalf("sendAll: %v", err)
	}

	var originals, recovery int
	for buf.Len() > 0 {
		f, err := std.ReadFrame(&buf)
		if err != nil {
			t.Fatalf("ReadFrame: %v", err)
		}
		switch f.Kind {
		case std.FrameOriginal:
			originals++
		case std.FrameRecovery:
			recovery++
		}
	}
	if originals != 4 {
		t.Fatalf("got %d original frames, want 4", originals)
	}
	if recovery != 2 {
		t.Fatalf("got %d recovery frames, want 2", recovery)
	}
}
