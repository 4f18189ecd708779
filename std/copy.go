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
	"io"
	"sync"
	"time"
)

const bufSize = 4096

// Copy is a memory optimized io.Copy specialized for the streams used here.
func Copy(dst io.Writer, src io.Reader) (written int64, err error) {
	if wt, ok := src.(io.WriterTo); ok {
		return wt.WriteTo(dst)
	}
	if rt, ok := dst.(io.ReaderFrom); ok {
		return rt.ReadFrom(src)
	}

	buf := make([]byte, bufSize)
	return io.CopyBuffer(dst, src, buf)
}

// Pipe creates a bidirectional relay between two streams and blocks until
// both directions have finished. closeWait, when greater than zero, delays
// tearing down the peer that finishes first so the last few in-flight bytes
// on the other direction have a chance to drain.
func Pipe(alice, bob io.ReadWriteCloser, closeWait int) (errA, errB error) {
	var closed sync.Once
	closeBoth := func() {
		closed.Do(func() {
			if closeWait > 0 {
				time.Sleep(time.Duration(closeWait) * time.Second)
			}
			alice.Close()
			bob.Close()
		})
	}

	var wg sync.WaitGroup
	wg.Add(2)

	streamCopy := func(dst io.Writer, src io.Reader, err *error) {
		defer wg.Done()
		_, *err = Copy(dst, src)
		closeBoth()
	}

	go streamCopy(alice, bob, &errA)
	go streamCopy(bob, alice, &errB)

	wg.Wait()
	return
}
