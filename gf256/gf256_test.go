package gf256

import "testing"

func TestAddIsXor(t *testing.T) {
	dst := []byte{0x01, 0x02, 0x03, 0x04}
	src := []byte{0xFF, 0x00, 0x0F, 0x01}
	want := []byte{0xFE, 0x02, 0x0C, 0x05}

	Add(dst, src)
	for i := range dst {
		if dst[i] != want[i] {
			t.Fatalf("byte %d: got %#x want %#x", i, dst[i], want[i])
		}
	}
}

func TestAddSelfInverse(t *testing.T) {
	dst := []byte{0xAA, 0xBB, 0xCC}
	orig := append([]byte(nil), dst...)
	Add(dst, dst)
	for i := range dst {
		if dst[i] != 0 {
			t.Fatalf("byte %d: expected 0 after self-xor, got %#x", i, dst[i])
		}
	}
	_ = orig
}

func TestMulAddZeroCoefficientIsNoop(t *testing.T) {
	dst := []byte{1, 2, 3}
	src := []byte{9, 9, 9}
	MulAdd(dst, 0, src)
	for i, v := range dst {
		if v != []byte{1, 2, 3}[i] {
			t.Fatalf("MulAdd with c=0 mutated dst at %d", i)
		}
	}
}

func TestMulAddOneCoefficientIsAdd(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{1, 2, 3}
	MulAdd(a, 1, []byte{9, 9, 9})
	Add(b, []byte{9, 9, 9})
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("byte %d: MulAdd(c=1) %#x != Add %#x", i, a[i], b[i])
		}
	}
}

func TestMulIsCommutative(t *testing.T) {
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			if Mul(byte(a), byte(b)) != Mul(byte(b), byte(a)) {
				t.Fatalf("Mul(%d,%d) != Mul(%d,%d)", a, b, b, a)
			}
		}
	}
}

func TestMulZeroIsAbsorbing(t *testing.T) {
	for a := 0; a < 256; a++ {
		if Mul(byte(a), 0) != 0 || Mul(0, byte(a)) != 0 {
			t.Fatalf("Mul(%d,0) should be 0", a)
		}
	}
}

func TestMulOneIsIdentity(t *testing.T) {
	for a := 0; a < 256; a++ {
		if Mul(byte(a), 1) != byte(a) {
			t.Fatalf("Mul(%d,1) should be %d, got %d", a, a, Mul(byte(a), 1))
		}
	}
}

func TestSqrMatchesMul(t *testing.T) {
	for a := 0; a < 256; a++ {
		if Sqr(byte(a)) != Mul(byte(a), byte(a)) {
			t.Fatalf("Sqr(%d) != Mul(%d,%d)", a, a, a)
		}
	}
}

func TestMulAddDistributesOverAdd(t *testing.T) {
	// c*(a xor b) == c*a xor c*b, checked via buffer semantics.
	a := []byte{5, 6, 7}
	b := []byte{8, 9, 10}
	c := byte(0x1D)

	ab := append([]byte(nil), a...)
	Add(ab, b)
	lhs := make([]byte, 3)
	MulAdd(lhs, c, ab)

	rhs := make([]byte, 3)
	MulAdd(rhs, c, a)
	MulAdd(rhs, c, b)

	for i := range lhs {
		if lhs[i] != rhs[i] {
			t.Fatalf("byte %d: c*(a^b)=%#x != c*a^c*b=%#x", i, lhs[i], rhs[i])
		}
	}
}
