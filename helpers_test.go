// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hdlc_test

import (
	"bytes"
	"io"

	"code.hybscloud.com/iox"
)

// --- Test fakes shared by the package tests ---

type readStep struct {
	b   []byte
	err error
}

// scriptedReader replays steps in order. A step's error is returned together
// with the last bytes of that step.
type scriptedReader struct {
	steps []readStep
	step  int
	off   int
}

func (r *scriptedReader) Read(p []byte) (int, error) {
	if r.step >= len(r.steps) {
		return 0, io.EOF
	}
	st := r.steps[r.step]
	n := copy(p, st.b[r.off:])
	r.off += n
	if r.off < len(st.b) {
		return n, nil
	}
	r.step++
	r.off = 0
	return n, st.err
}

// chunkReader hands out at most chunk bytes per Read.
type chunkReader struct {
	b     []byte
	chunk int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.b) == 0 {
		return 0, io.EOF
	}
	c := r.chunk
	if c <= 0 || c > len(p) {
		c = len(p)
	}
	n := copy(p[:c], r.b)
	r.b = r.b[n:]
	return n, nil
}

// wouldBlockWriter accepts at most limit bytes per call and reports
// ErrWouldBlock on short writes.
type wouldBlockWriter struct {
	limit int
	buf   bytes.Buffer
}

func (w *wouldBlockWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := min(w.limit, len(p))
	if n <= 0 {
		return 0, iox.ErrWouldBlock
	}
	_, _ = w.buf.Write(p[:n])
	if n < len(p) {
		return n, iox.ErrWouldBlock
	}
	return n, nil
}

// sliceWriter writes into a preallocated byte slice without allocating.
type sliceWriter struct {
	buf []byte
	off int
}

func (w *sliceWriter) Reset() { w.off = 0 }

func (w *sliceWriter) Write(p []byte) (int, error) {
	n := copy(w.buf[w.off:], p)
	w.off += n
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

type noProgressReader struct{}

func (*noProgressReader) Read(p []byte) (int, error) { return 0, nil }

type noProgressWriter struct{}

func (*noProgressWriter) Write(p []byte) (int, error) { return 0, nil }

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}
