// Package xorsum implements the batched XOR accumulator described in
// the encoder's design notes: a destination buffer plus a small queue
// of pending sources. A flush XOR-adds each queued source into the
// destination in turn through gf256.Add; the sources are not fused
// into a single pass. The batched form is always interchangeable with
// a plain sequential XOR loop.
package xorsum

import "github.com/xtaci/lanefec/gf256"

// kBatchDepth is how many pending sources Batch queues before it must
// flush. It is an implementation choice, not part of the wire format.
const kBatchDepth = 8

// Batch accumulates XOR-adds into a destination buffer, deferring the
// actual memory writes until the queue fills or Finalize is called.
type Batch struct {
	dst     []byte
	pending [][]byte
}

// New starts a batch that will XOR-add sources into dst.
func New(dst []byte) *Batch {
	b := &Batch{dst: dst}
	b.pending = make([][]byte, 0, kBatchDepth)
	return b
}

// Add enqueues src to be XORed into the destination. When the queue
// reaches kBatchDepth it is flushed automatically.
func (b *Batch) Add(src []byte) {
	b.pending = append(b.pending, src)
	if len(b.pending) >= kBatchDepth {
		b.flush()
	}
}

// Finalize flushes any remaining queued sources. After Finalize
// returns, dst equals its state at New() XOR-added with every source
// passed to Add, in order — the same result a naive loop of
// gf256.Add(dst, src) calls would produce.
func (b *Batch) Finalize() {
	b.flush()
}

func (b *Batch) flush() {
	for _, src := range b.pending {
		gf256.Add(b.dst, src)
	}
	b.pending = b.pending[:0]
}
