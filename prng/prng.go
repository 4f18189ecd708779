// Package prng implements the small deterministic generator the
// encoder seeds by (row, count) to pick the LDPC pair-overlay columns.
// It follows the xorshift family used by github.com/xtaci/qpp for
// permutation-pad pattern selection, adapted to a 64-bit state that
// yields 32-bit output words.
package prng

// fallbackSeed guards against an all-zero xorshift state, which is a
// fixed point of xorshift64star and would produce an all-zero stream.
const fallbackSeed = 0xDEADBEEFCAFEBABE

// goldenRatio64 is the standard splitmix64/xorshift seed-mixing
// constant (2^64/phi, rounded to odd).
const goldenRatio64 = 0x9E3779B97F4A7C15

// Rand is a small-state deterministic generator. The zero value is not
// usable; construct with New.
type Rand struct {
	state uint64
}

// New seeds a generator from (row, count). Equal (row, count) pairs
// always produce identical Next() sequences, independent of any other
// state — this is what lets the encoder and a remote decoder agree on
// which columns a given row combines without exchanging a recipe.
func New(row, count uint32) *Rand {
	state := (uint64(row) << 32) ^ uint64(count) ^ goldenRatio64
	if state == 0 {
		state = fallbackSeed
	}
	r := &Rand{state: state}
	r.state = xorshift64star(r.state)
	return r
}

// Next returns the next pseudo-random 32-bit word in the sequence.
func (r *Rand) Next() uint32 {
	r.state = xorshift64star(r.state)
	return uint32(r.state >> 32)
}

// xorshift64star advances a 64-bit xorshift state and scrambles it
// through a multiplication, as in github.com/xtaci/qpp's prng.go.
func xorshift64star(state uint64) uint64 {
	state ^= state >> 12
	state ^= state << 25
	state ^= state >> 27
	return state * 2685821657736338717
}
