package lanefec

// Deterministic mappings from column/row (and lane) to the GF(256)
// coefficients and LDPC-mixing bitmask the encoder uses. These three
// functions are part of the wire format: any two implementations
// configured with equal (N, S, F) must agree bit-for-bit on their
// output for equal inputs, forever. Do not change the constants below
// without also bumping wire compatibility.
//
// The mapping is a fixed-point avalanche mix (the splitmix64
// finalizer) applied to domain-salted combinations of the column, row,
// and lane index — the same "seed a fast integer hash with a fixed
// salt" approach github.com/xtaci/qpp uses to derive independent
// permutation pads from one seed, just without QPP's HMAC step since
// nothing here needs to be secret, only stable.
const (
	columnMul   uint64 = 0x9E3779B97F4A7C15
	columnSalt  uint64 = 0xBF58476D1CE4E5B9
	rowValueMul uint64 = 0xC2B2AE3D27D4EB4F
	rowValueAdd uint64 = 0x165667B19E3779F9
	laneMul     uint64 = 0x27D4EB2F165667C5
	laneAdd     uint64 = 0x94D049BB133111EB
	opcodeSalt  uint64 = 0xD6E8FEB86659FD93
)

// avalanche64 is the splitmix64 output finalizer: a fixed, well-mixed
// bijection on uint64 used here purely for its statistical spread, not
// for any cryptographic property.
func avalanche64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return x
}

// GetColumnValue returns CX, the GF(256) coefficient assigned to
// column c. CX is always nonzero (and therefore invertible).
func GetColumnValue(column uint32) byte {
	h := avalanche64(uint64(column)*columnMul + columnSalt)
	v := byte(h)
	if v == 0 {
		v = 1
	}
	return v
}

func rowMix(row uint32) uint64 {
	return uint64(row)*rowValueMul + rowValueAdd
}

// GetRowValue returns RX, the GF(256) coefficient that blends Product
// into Sum for row r.
func GetRowValue(row uint32) byte {
	return byte(avalanche64(rowMix(row)))
}

func laneMix(lane uint32) uint64 {
	return uint64(lane)*laneMul + laneAdd
}

// GetRowOpcode returns the low 2*kColumnSumCount bits selecting, for
// lane and row, which LaneSums[lane][k] cells feed Sum (bits
// 0..kColumnSumCount-1) versus Product (bits kColumnSumCount..2*kColumnSumCount-1).
func GetRowOpcode(lane, row uint32) uint32 {
	h := avalanche64(rowMix(row) ^ laneMix(lane) ^ opcodeSalt)
	return uint32(h) & ((1 << (2 * kColumnSumCount)) - 1)
}
