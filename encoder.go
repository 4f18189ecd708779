package lanefec

import (
	"github.com/xtaci/lanefec/gf256"
	"github.com/xtaci/lanefec/prng"
	"github.com/xtaci/lanefec/xorsum"
)

// Encoder holds one initialized window plus its lane sum table and the
// two scratch buffers Encode writes into. It is not safe for
// concurrent use by multiple goroutines: callers must serialize their
// own calls to Encode on a single *Encoder.
type Encoder struct {
	window      *window
	lanes       *laneSums
	sum         []byte
	product     []byte
	initialized bool
}

// NewEncoder validates (N, totalBytes), borrows originals, and builds
// the lane sum table. It returns ErrInvalidInput for malformed
// parameters and ErrOutOfMemory if a scratch or lane sum buffer cannot
// be allocated.
func NewEncoder(originals [][]byte, totalBytes uint64) (*Encoder, error) {
	w, err := newWindow(originals, totalBytes)
	if err != nil {
		return nil, err
	}

	lanes, err := buildLaneSums(w)
	if err != nil {
		return nil, err
	}

	sum, err := allocSymbol(w.symbolBytes)
	if err != nil {
		return nil, err
	}
	product, err := allocSymbol(w.symbolBytes)
	if err != nil {
		return nil, err
	}

	return &Encoder{
		window:      w,
		lanes:       lanes,
		sum:         sum,
		product:     product,
		initialized: true,
	}, nil
}

// Encode generates the recovery symbol for row. The returned Symbol's
// Data aliases the encoder's internal Sum buffer and is only valid
// until the next call to Encode on this Encoder.
func (e *Encoder) Encode(row uint32) (*Symbol, error) {
	if e == nil || !e.initialized {
		return nil, ErrInvalidInput
	}

	w := e.window
	count := uint32(w.inputCount)
	sum := e.sum
	product := e.product

	rng := prng.New(row, count)
	pairCount := (w.inputCount + kPairAddRate - 1) / kPairAddRate

	// Unrolled first pair: seeds Sum and Product outright rather than
	// XOR-adding into whatever they held from the previous Encode call.
	e1 := rng.Next() % count
	eRX := rng.Next() % count
	w.copyColumn(sum, int(e1))
	w.copyColumn(product, int(eRX))

	sumBatch := xorsum.New(sum)
	prodBatch := xorsum.New(product)

	for i := 1; i < pairCount; i++ {
		e1 := int(rng.Next() % count)
		eRX := int(rng.Next() % count)

		if w.isFinalColumn(e1) {
			n := w.columnBytes(e1)
			gf256.Add(sum[:n], w.originals[e1][:n])
		} else {
			sumBatch.Add(w.originals[e1])
		}

		if w.isFinalColumn(eRX) {
			n := w.columnBytes(eRX)
			gf256.Add(product[:n], w.originals[eRX][:n])
		} else {
			prodBatch.Add(w.originals[eRX])
		}
	}

	for lane := 0; lane < kColumnLaneCount; lane++ {
		opcode := GetRowOpcode(uint32(lane), row)
		for k := 0; k < kColumnSumCount; k++ {
			if opcode&(1<<uint(k)) != 0 {
				sumBatch.Add(e.lanes[lane][k])
			}
		}
		for k := 0; k < kColumnSumCount; k++ {
			if opcode&(1<<uint(kColumnSumCount+k)) != 0 {
				prodBatch.Add(e.lanes[lane][k])
			}
		}
	}

	sumBatch.Finalize()
	prodBatch.Finalize()

	rx := GetRowValue(row)
	gf256.MulAdd(sum, rx, product)

	return &Symbol{Data: sum, Bytes: w.symbolBytes, Index: row}, nil
}

// SymbolBytes returns S, the fixed length of every symbol this encoder
// produces (including the final original's zero-extended tail).
func (e *Encoder) SymbolBytes() int {
	if e == nil || !e.initialized {
		return 0
	}
	return e.window.symbolBytes
}

// InputCount returns N, the number of originals this encoder protects.
func (e *Encoder) InputCount() int {
	if e == nil || !e.initialized {
		return 0
	}
	return e.window.inputCount
}
