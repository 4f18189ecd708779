package lanefec

// window holds the parameters and borrowed original data for one
// encoder instance: the input count N, the per-symbol byte length S,
// the short length F of the final column, and the original pointers
// themselves. The codec never copies or frees originals — the caller
// owns that memory for as long as the encoder may be called.
type window struct {
	inputCount  int
	symbolBytes int
	finalBytes  int
	originals   [][]byte
}

// newWindow validates (N, totalBytes), derives S and F, and borrows
// the caller's original slices. N is len(originals). It fails with
// ErrInvalidInput if N is zero, totalBytes is shorter than N, any
// original is nil, or the derived F falls outside [1, S].
func newWindow(originals [][]byte, totalBytes uint64) (*window, error) {
	n := len(originals)
	if n == 0 {
		return nil, ErrInvalidInput
	}
	if totalBytes < uint64(n) {
		return nil, ErrInvalidInput
	}
	for _, o := range originals {
		if o == nil {
			return nil, ErrInvalidInput
		}
	}

	symbolBytes := int((totalBytes + uint64(n) - 1) / uint64(n))
	finalBytes := int(totalBytes - uint64(n-1)*uint64(symbolBytes))
	if finalBytes < 1 || finalBytes > symbolBytes {
		return nil, ErrInvalidInput
	}

	return &window{
		inputCount:  n,
		symbolBytes: symbolBytes,
		finalBytes:  finalBytes,
		originals:   originals,
	}, nil
}

// isFinalColumn reports whether column c is the last original, which
// may be shorter than symbolBytes.
func (w *window) isFinalColumn(c int) bool {
	return c == w.inputCount-1
}

// columnBytes returns how many bytes of column c are meaningful: F for
// the final column, S otherwise. Bytes past this length are never read
// from the caller's memory.
func (w *window) columnBytes(c int) int {
	if w.isFinalColumn(c) {
		return w.finalBytes
	}
	return w.symbolBytes
}

// copyColumn writes column c's data into dst (which must be
// symbolBytes long), zero-extending the tail when c is the short final
// column.
func (w *window) copyColumn(dst []byte, c int) {
	n := w.columnBytes(c)
	copy(dst, w.originals[c][:n])
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}
