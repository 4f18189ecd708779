// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package std

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Frame kinds carried over a fec-protected smux stream.
const (
	FrameOriginal byte = iota
	FrameRecovery
)

// frameHeaderSize is kind(1) + windowID(4) + index(4) + length(4).
const frameHeaderSize = 1 + 4 + 4 + 4

// Frame is a single wire unit: either an original column of a window or one
// of its on-demand recovery symbols.
type Frame struct {
	Kind     byte
	WindowID uint32
	Index    uint32
	Payload  []byte
}

// WriteFrame serializes f to w. The header is fixed size so a reader never
// has to guess how much to buffer before it knows the payload length.
func WriteFrame(w io.Writer, f Frame) error {
	hdr := make([]byte, frameHeaderSize)
	hdr[0] = f.Kind
	binary.BigEndian.PutUint32(hdr[1:5], f.WindowID)
	binary.BigEndian.PutUint32(hdr[5:9], f.Index)
	binary.BigEndian.PutUint32(hdr[9:13], uint32(len(f.Payload)))
	if _, err := w.Write(hdr); err != nil {
		return errors.Wrap(err, "WriteFrame() header")
	}
	if _, err := w.Write(f.Payload); err != nil {
		return errors.Wrap(err, "WriteFrame() payload")
	}
	return nil
}

// ReadFrame blocks until a full frame has been read from r.
func ReadFrame(r io.Reader) (Frame, error) {
	hdr := make([]byte, frameHeaderSize)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return Frame{}, err
	}
	n := binary.BigEndian.Uint32(hdr[9:13])
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Frame{}, errors.Wrap(err, "ReadFrame() payload")
	}
	return Frame{
		Kind:     hdr[0],
		WindowID: binary.BigEndian.Uint32(hdr[1:5]),
		Index:    binary.BigEndian.Uint32(hdr[5:9]),
		Payload:  payload,
	}, nil
}
