// Package lanefec implements the encoder side of a convolutional
// fountain FEC codec over GF(256). Given a fixed window of N
// equal-length original symbols, it produces an unlimited stream of
// recovery symbols, each generated on demand from a pseudo-random
// recipe keyed by a row index rather than precomputed as a full
// generator matrix.
//
// Decoding, allocation strategy, and process wiring are collaborators
// outside this package's scope — see the gf256 and prng packages for
// the two collaborators this encoder does depend on.
package lanefec
