package lanefec

import "github.com/xtaci/lanefec/gf256"

// Tuning constants that are part of the wire-compatibility contract:
// changing any of these breaks interoperability with other
// implementations of this codec.
const (
	// kColumnLaneCount is the number of column-residue lanes (L).
	kColumnLaneCount = 8
	// kColumnSumCount is the number of polynomial degrees per lane (K).
	kColumnSumCount = 3
	// kPairAddRate is how many originals feed one LDPC pair-add.
	kPairAddRate = 16
)

// laneSums is the precomputed L*K table of cubic polynomial partial
// sums over the originals, built once by buildLaneSums and never
// mutated afterward.
type laneSums [kColumnLaneCount][kColumnSumCount][]byte

// buildLaneSums allocates and fills the lane sum table: for each
// column c, LaneSums[c%L][0] accumulates the original, [1] accumulates
// CX(c)*original, and [2] accumulates CX(c)^2*original, where CX is
// GetColumnValue. The final column contributes only its first F bytes;
// the high tail of every cell is left at its zero-allocated value.
func buildLaneSums(w *window) (*laneSums, error) {
	var sums laneSums
	for lane := 0; lane < kColumnLaneCount; lane++ {
		for k := 0; k < kColumnSumCount; k++ {
			buf, err := allocSymbol(w.symbolBytes)
			if err != nil {
				return nil, err
			}
			sums[lane][k] = buf
		}
	}

	for column := 0; column < w.inputCount; column++ {
		lane := column % kColumnLaneCount
		n := w.columnBytes(column)
		data := w.originals[column][:n]

		cx := GetColumnValue(uint32(column))
		cx2 := gf256.Sqr(cx)

		gf256.Add(sums[lane][0][:n], data)
		gf256.MulAdd(sums[lane][1][:n], cx, data)
		gf256.MulAdd(sums[lane][2][:n], cx2, data)
	}

	return &sums, nil
}

// allocSymbol allocates an n-byte, zero-initialized symbol buffer,
// converting a panic raised by make (such as a length the runtime
// refuses to allocate) into ErrOutOfMemory — Go's make() has no
// error-returning form, so this is the idiomatic substitute for the C
// original's allocator failure path. A fatal out-of-memory error of the
// Go runtime is not a panic and is not caught here.
func allocSymbol(n int) (buf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = ErrOutOfMemory
		}
	}()
	return make([]byte, n), nil
}
