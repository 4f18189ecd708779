package lanefec

import "github.com/pkg/errors"

// The flat, three-valued result taxonomy from the codec's design: a
// call either succeeds (nil error), or fails with one of these two
// sentinels. No other error values are ever returned by NewEncoder or
// Encoder.Encode.
var (
	// ErrInvalidInput covers N == 0, total bytes shorter than N, a nil
	// original, and calling Encode before construction succeeded.
	ErrInvalidInput = errors.New("lanefec: invalid input")

	// ErrOutOfMemory covers an allocation failure of a lane sum or
	// scratch buffer during construction. Encode never allocates, so
	// it can never return this error.
	ErrOutOfMemory = errors.New("lanefec: out of memory")
)
