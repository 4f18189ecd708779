package lanefec

import "testing"

func TestNewWindowRejectsZeroInputs(t *testing.T) {
	if _, err := newWindow(nil, 0); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNewWindowRejectsShortTotal(t *testing.T) {
	originals := [][]byte{{1}, {2}, {3}}
	if _, err := newWindow(originals, 2); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for totalBytes < N, got %v", err)
	}
}

func TestNewWindowRejectsNilOriginal(t *testing.T) {
	originals := [][]byte{{1, 2}, nil}
	if _, err := newWindow(originals, 4); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for nil original, got %v", err)
	}
}

func TestNewWindowComputesSymbolAndFinalBytes(t *testing.T) {
	// N=2, S=4, F=3, matching scenario S3 of the spec.
	originals := [][]byte{{0x11, 0x22, 0x33, 0x44}, {0x55, 0x66, 0x77}}
	w, err := newWindow(originals, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.symbolBytes != 4 {
		t.Fatalf("symbolBytes = %d, want 4", w.symbolBytes)
	}
	if w.finalBytes != 3 {
		t.Fatalf("finalBytes = %d, want 3", w.finalBytes)
	}
	if !w.isFinalColumn(1) || w.isFinalColumn(0) {
		t.Fatalf("isFinalColumn wrong for N=2")
	}
}

func TestNewWindowSingleShortOriginal(t *testing.T) {
	// N=1, S=4, F=4 -- scenario S1/S2: total_bytes == N*S exactly.
	originals := [][]byte{{0xAA, 0xBB, 0xCC, 0xDD}}
	w, err := newWindow(originals, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.symbolBytes != 4 || w.finalBytes != 4 {
		t.Fatalf("got S=%d F=%d, want S=4 F=4", w.symbolBytes, w.finalBytes)
	}
}

func TestCopyColumnZeroExtendsFinalColumn(t *testing.T) {
	originals := [][]byte{{0x11, 0x22, 0x33, 0x44}, {0x55, 0x66, 0x77}}
	w, err := newWindow(originals, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dst := make([]byte, w.symbolBytes)
	w.copyColumn(dst, 1)
	want := []byte{0x55, 0x66, 0x77, 0x00}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("byte %d: got %#x want %#x", i, dst[i], want[i])
		}
	}
}

func TestCopyColumnDoesNotReadPastFinalBytes(t *testing.T) {
	// The final original's backing array has garbage past F; copyColumn
	// must never read it.
	backing := []byte{0x55, 0x66, 0x77, 0xFF, 0xFF, 0xFF}
	originals := [][]byte{{0x11, 0x22, 0x33, 0x44}, backing[:3]}
	w, err := newWindow(originals, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dst := make([]byte, w.symbolBytes)
	w.copyColumn(dst, 1)

	// Now mutate the tail bytes adjacent to the final original in the
	// caller's backing array and confirm a fresh copy is unaffected.
	backing[3] = 0x01
	backing[4] = 0x02
	dst2 := make([]byte, w.symbolBytes)
	w.copyColumn(dst2, 1)
	for i := range dst {
		if dst[i] != dst2[i] {
			t.Fatalf("byte %d changed after mutating memory beyond F: %#x != %#x", i, dst[i], dst2[i])
		}
	}
}
