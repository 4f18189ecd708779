package lanefec

import "testing"

func TestEncodeBeforeConstructionFails(t *testing.T) {
	var e Encoder
	if _, err := e.Encode(0); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput from zero-value Encoder, got %v", err)
	}
}

func TestEncodeNilEncoderFails(t *testing.T) {
	var e *Encoder
	if _, err := e.Encode(0); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput from nil Encoder, got %v", err)
	}
}

// S1: a single all-zero 4-byte original encodes to an all-zero symbol.
func TestScenarioS1AllZeroSingleOriginal(t *testing.T) {
	originals := [][]byte{{0, 0, 0, 0}}
	enc, err := NewEncoder(originals, 4)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	sym, err := enc.Encode(0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for i, b := range sym.Data {
		if b != 0 {
			t.Fatalf("byte %d = %#x, want 0", i, b)
		}
	}
}

// S2: repeated Encode(0) on the same input is byte-identical.
func TestScenarioS2Determinism(t *testing.T) {
	originals := [][]byte{{0xAA, 0xBB, 0xCC, 0xDD}}
	enc, err := NewEncoder(originals, 4)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	first, err := enc.Encode(0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	firstCopy := append([]byte(nil), first.Data...)

	second, err := enc.Encode(0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for i := range firstCopy {
		if firstCopy[i] != second.Data[i] {
			t.Fatalf("byte %d: repeated Encode(0) diverged: %#x != %#x", i, firstCopy[i], second.Data[i])
		}
	}
}

// S3: N=2, S=4, F=3 -- final column contributes only 3 bytes.
func TestScenarioS3ShortFinalColumn(t *testing.T) {
	originals := [][]byte{{0x11, 0x22, 0x33, 0x44}, {0x55, 0x66, 0x77}}
	enc, err := NewEncoder(originals, 7)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if enc.SymbolBytes() != 4 {
		t.Fatalf("SymbolBytes() = %d, want 4", enc.SymbolBytes())
	}
	sym, err := enc.Encode(3)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if sym.Bytes != 4 || len(sym.Data) != 4 {
		t.Fatalf("expected a 4-byte symbol, got %d bytes", len(sym.Data))
	}
}

// S5 / property 3: encoding is linear over XOR of originals.
func TestLinearityOverXor(t *testing.T) {
	a := [][]byte{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 11, 12}}
	b := [][]byte{{9, 8, 7, 6}, {5, 4, 3, 2}, {1, 0, 255, 254}}
	xored := make([][]byte, len(a))
	for i := range a {
		xored[i] = make([]byte, len(a[i]))
		for j := range a[i] {
			xored[i][j] = a[i][j] ^ b[i][j]
		}
	}

	encA, err := NewEncoder(a, 12)
	if err != nil {
		t.Fatalf("NewEncoder(a): %v", err)
	}
	encB, err := NewEncoder(b, 12)
	if err != nil {
		t.Fatalf("NewEncoder(b): %v", err)
	}
	encX, err := NewEncoder(xored, 12)
	if err != nil {
		t.Fatalf("NewEncoder(xored): %v", err)
	}

	for row := uint32(0); row < 20; row++ {
		symA, err := encA.Encode(row)
		if err != nil {
			t.Fatalf("Encode(a): %v", err)
		}
		gotA := append([]byte(nil), symA.Data...)

		symB, err := encB.Encode(row)
		if err != nil {
			t.Fatalf("Encode(b): %v", err)
		}
		gotB := append([]byte(nil), symB.Data...)

		symX, err := encX.Encode(row)
		if err != nil {
			t.Fatalf("Encode(xored): %v", err)
		}

		for i := range gotA {
			want := gotA[i] ^ gotB[i]
			if symX.Data[i] != want {
				t.Fatalf("row %d byte %d: encode(a^b)=%#x != encode(a)^encode(b)=%#x", row, i, symX.Data[i], want)
			}
		}
	}
}

// Property 4: all-zero originals produce all-zero recovery symbols for
// any row.
func TestZeroPreservation(t *testing.T) {
	originals := make([][]byte, 17)
	for i := range originals {
		originals[i] = make([]byte, 5)
	}
	enc, err := NewEncoder(originals, 85)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	for row := uint32(0); row < 10; row++ {
		sym, err := enc.Encode(row)
		if err != nil {
			t.Fatalf("Encode(%d): %v", row, err)
		}
		for i, b := range sym.Data {
			if b != 0 {
				t.Fatalf("row %d byte %d = %#x, want 0", row, i, b)
			}
		}
	}
}

// Property 5: bytes beyond F in the final original's backing memory are
// never read and never influence the recovery symbol.
func TestFinalColumnTailIsolation(t *testing.T) {
	tail := []byte{0x55, 0x66, 0x77, 0xAA, 0xBB}
	originals := [][]byte{{1, 2, 3, 4}, tail[:3]}
	enc, err := NewEncoder(originals, 7)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	before, err := enc.Encode(11)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	beforeCopy := append([]byte(nil), before.Data...)

	tail[3] = 0xFF
	tail[4] = 0xFF

	after, err := enc.Encode(11)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for i := range beforeCopy {
		if beforeCopy[i] != after.Data[i] {
			t.Fatalf("byte %d changed after mutating bytes beyond F: %#x != %#x", i, beforeCopy[i], after.Data[i])
		}
	}
}

// Property 2 (seed independence): with equal (N, row), the set of
// columns combined by the LDPC overlay does not depend on payload
// contents. We can't observe the PRNG draws directly through the
// public API, but we can observe their effect: two encoders with
// different payloads but the same shape must still be linear (already
// covered by TestLinearityOverXor) and must diverge only through the
// payload, never through row-dependent structure -- i.e. re-running
// Encode with an all-zero payload for the same N and row is
// all-zero regardless of what other payloads were tried on separate
// encoders.
func TestSeedIndependenceFromPayload(t *testing.T) {
	n := 25
	zero := make([][]byte, n)
	nonzero := make([][]byte, n)
	for i := 0; i < n; i++ {
		zero[i] = make([]byte, 6)
		nonzero[i] = []byte{byte(i), byte(i * 3), byte(i * 5), byte(i * 7), byte(i * 11), byte(i * 13)}
	}

	encZero, err := NewEncoder(zero, uint64(n*6))
	if err != nil {
		t.Fatalf("NewEncoder(zero): %v", err)
	}
	encNonzero, err := NewEncoder(nonzero, uint64(n*6))
	if err != nil {
		t.Fatalf("NewEncoder(nonzero): %v", err)
	}

	for row := uint32(0); row < 5; row++ {
		symZero, err := encZero.Encode(row)
		if err != nil {
			t.Fatalf("Encode(zero): %v", err)
		}
		for _, b := range symZero.Data {
			if b != 0 {
				t.Fatalf("row %d: all-zero payload produced nonzero symbol", row)
			}
		}
		if _, err := encNonzero.Encode(row); err != nil {
			t.Fatalf("Encode(nonzero): %v", err)
		}
	}
}

// S6: distinct rows generally produce distinct symbols.
func TestScenarioS6DistinctRowsDiffer(t *testing.T) {
	originals := make([][]byte, 12)
	for i := range originals {
		originals[i] = []byte{byte(i + 1), byte(i * 2), byte(i*3 + 1), byte(255 - i)}
	}
	enc, err := NewEncoder(originals, 48)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	sym1, err := enc.Encode(1)
	if err != nil {
		t.Fatalf("Encode(1): %v", err)
	}
	data1 := append([]byte(nil), sym1.Data...)
	sym2, err := enc.Encode(2)
	if err != nil {
		t.Fatalf("Encode(2): %v", err)
	}
	same := true
	for i := range data1 {
		if data1[i] != sym2.Data[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("Encode(1) and Encode(2) produced identical symbols")
	}
}
