// Package gf256 implements byte-wise arithmetic over GF(256) using the
// Rijndael irreducible polynomial (0x11B). It is the arithmetic
// collaborator consumed by the lanefec encoder: add (XOR), scalar
// multiply-add on byte buffers, and scalar square.
package gf256

import (
	"log"
	"sync"

	"github.com/klauspost/cpuid"
	"github.com/templexxx/xorsimd"
)

// poly is the Rijndael/AES reduction polynomial for GF(2^8).
const poly = 0x11B

// generator is a primitive element of GF(2^8) under poly.
const generator = 0x03

var (
	expTable [512]byte
	logTable [256]byte
	mulTable [256][256]byte

	tablesOnce sync.Once
)

func buildTables() {
	x := 1
	for i := 0; i < 255; i++ {
		expTable[i] = byte(x)
		logTable[byte(x)] = byte(i)
		x ^= x << 1 // x *= generator (0x03)
		if x&0x100 != 0 {
			x ^= poly
		}
	}
	for i := 255; i < 512; i++ {
		expTable[i] = expTable[i-255]
	}

	for a := 1; a < 256; a++ {
		for b := 1; b < 256; b++ {
			mulTable[a][b] = expTable[int(logTable[byte(a)])+int(logTable[byte(b)])]
		}
	}

	log.Printf("gf256: tables ready, cpu features: avx2=%v ssse3=%v sse2=%v",
		cpuid.CPU.AVX2(), cpuid.CPU.SSSE3(), cpuid.CPU.SSE2())
}

// Init builds the exp/log/multiplication tables. It is idempotent and
// safe to call from multiple goroutines; the tables are also built
// lazily on first use of Add/MulAdd/Sqr/Mul, mirroring the one-time
// process-wide initialization step of the C original without requiring
// callers to remember to invoke it.
func Init() {
	tablesOnce.Do(buildTables)
}

// Add computes dst ^= src across the shared length of the two buffers.
func Add(dst, src []byte) {
	Init()
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	if n == 0 {
		return
	}
	xorsimd.Bytes(dst[:n], dst[:n], src[:n])
}

// MulAdd computes dst ^= c*src elementwise across the shared length of
// the two buffers. c == 0 is a no-op; c == 1 degenerates to Add.
func MulAdd(dst []byte, c byte, src []byte) {
	if c == 0 {
		return
	}
	Init()
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	if c == 1 {
		Add(dst[:n], src[:n])
		return
	}
	mt := mulTable[c][:256]
	for i := 0; i < n; i++ {
		dst[i] ^= mt[src[i]]
	}
}

// Mul returns a*b in GF(256).
func Mul(a, b byte) byte {
	Init()
	return mulTable[a][b]
}

// Sqr returns c*c in GF(256).
func Sqr(c byte) byte {
	Init()
	return mulTable[c][c]
}
