// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package hdlc delimits variable-length binary messages inside a continuous
// byte stream using HDLC/SLIP-style byte stuffing.
//
// Wire format: a frame is the delimiter byte, the escaped payload, and the
// delimiter byte again. Inside the payload every escape byte becomes
// (escape, escape-substitute) and every delimiter byte becomes
// (escape, delimiter-substitute), so the delimiter only ever appears on frame
// boundaries. The four reserved bytes form a CharSet; DefaultCharSet is the
// IEEE/RFC 1662 convention 0x7E, 0x7D, 0x5E, 0x5D.
//
// Layers:
//   - Transforms: Encode, AppendEncode, Decode and DecodeInPlace are pure
//     functions over whole frames. DecodeInPlace does not allocate.
//   - Boundary detection: FrameReader pulls bytes from any io.Reader and
//     returns one complete, still escaped frame per call, regardless of how
//     the source fragments its data. Bytes before the first delimiter are
//     discarded, back-to-back frames may share a delimiter, and delimiter
//     runs (empty frames) are skipped.
//   - io adapters: Reader yields one decoded payload per Read, Writer emits
//     one frame per Write, Forwarder relays frames between two links,
//     optionally translating between character sets.
//
// Non-blocking semantics: iox.ErrWouldBlock and iox.ErrMore from the
// underlying transport are surfaced as control-flow signals (re-exposed as
// hdlc.ErrWouldBlock / hdlc.ErrMore) with all partial state preserved for the
// retry. WithBlock or WithRetryDelay turn them into internal retries.
//
// Errors: decode failures are sentinel errors (ErrStrayDelimiter and
// friends). A stream that ends inside a started frame reports
// io.ErrUnexpectedEOF once; a clean end reports io.EOF.
package hdlc

import (
	"io"

	"code.hybscloud.com/iox"
)

// NewReader returns an io.Reader that reads one decoded payload per Read from r.
func NewReader(r io.Reader, opts ...Option) io.Reader {
	return &Reader{fr: newFramer(r, nil, opts...)}
}

// NewWriter returns an io.Writer that writes each Write as one frame to w.
func NewWriter(w io.Writer, opts ...Option) io.Writer {
	return &Writer{fr: newFramer(nil, w, opts...)}
}

// NewReadWriter returns an io.ReadWriter that reads and writes framed messages.
func NewReadWriter(r io.Reader, w io.Writer, opts ...Option) io.ReadWriter {
	fr := newFramer(r, w, opts...)
	return &ReadWriter{Reader: &Reader{fr: fr}, Writer: &Writer{fr: fr}}
}

// NewPipe returns a synchronous in-memory framing pipe.
func NewPipe(opts ...Option) (reader io.Reader, writer io.Writer) {
	r, w := io.Pipe()
	pipe := NewReadWriter(r, w, opts...)
	return pipe, pipe
}

// Reader reads framed messages and returns their payloads.
//
// Read returns exactly one payload. If p is shorter than the payload, Read
// returns io.ErrShortBuffer and keeps the payload for the next call. A frame
// that fails to decode is dropped and its error (ErrStrayDelimiter,
// ErrMissingTradeChar, ...) returned; the following Read continues with the
// next frame.
type Reader struct{ fr *framer }

func (r *Reader) Read(p []byte) (int, error) { return r.fr.read(p) }

// WriteTo implements io.WriterTo.
//
// Semantics:
//   - Payloads are written to dst back to back, one dst.Write per message
//     (more on short writes). No framing is reconstructed on dst unless dst
//     is itself a hdlc.Writer.
//   - Returns (total, nil) at a clean end of stream, io.ErrUnexpectedEOF if
//     the stream ends inside a frame, and stops at the first decode error.
//
// Non-blocking semantics: if the underlying reader or writer returns iox.ErrWouldBlock
// or iox.ErrMore, WriteTo returns immediately with the progress count (bytes written) and
// the same semantic error. A partially written payload is resumed on the next call.
func (r *Reader) WriteTo(dst io.Writer) (int64, error) {
	fr := r.fr
	var total int64
	for {
		msg, err := fr.peekMessage()
		if err != nil {
			if err == io.EOF {
				return total, nil
			}
			return total, err
		}

		for fr.wtOff < len(msg) {
			wn, we := dst.Write(msg[fr.wtOff:])
			if wn > 0 {
				total += int64(wn)
				fr.wtOff += wn
			}
			if we != nil {
				// Propagate semantic control-flow unchanged; the message
				// stays pending at wtOff.
				return total, we
			}
			if wn == 0 {
				// Avoid potential infinite loop on pathological writers.
				return total, io.ErrShortWrite
			}
		}
		fr.dropMessage()
	}
}

// Writer writes framed messages.
//
// Each Write encodes p as one frame. On ErrWouldBlock/ErrMore the frame stays
// in flight and the caller must retry with the same p; Write reports len(p)
// only once the whole frame has been written. Empty writes produce no bytes.
type Writer struct{ fr *framer }

func (w *Writer) Write(p []byte) (int, error) { return w.fr.write(p) }

// ReadFrom implements io.ReaderFrom.
//
// Semantics:
//   - Chunk-to-message: each chunk read from src (a successful src.Read call) is encoded
//     as a single frame and written via w.Write. This does not preserve upstream
//     application message boundaries.
//
// Non-blocking semantics: if src.Read or the underlying writer returns iox.ErrWouldBlock
// or iox.ErrMore, ReadFrom returns immediately with the progress count and the same error.
func (w *Writer) ReadFrom(src io.Reader) (int64, error) {
	fr := w.fr
	if fr.wbuf == nil {
		fr.wbuf = make([]byte, 32*1024)
	}
	buf := fr.wbuf

	var total int64
	if fr.busy {
		// Finish the frame left in flight by a previous would-block. Its
		// payload counts only if an earlier ReadFrom read it from a source.
		if fr.wr == nil {
			return 0, ErrInvalidArgument
		}
		if err := fr.drain(); err != nil {
			return 0, err
		}
		if fr.fromSrc {
			total += int64(fr.length)
			fr.fromSrc = false
		}
	}
	for {
		n, er := src.Read(buf)
		if n > 0 {
			wn, we := fr.write(buf[:n])
			if wn > 0 {
				total += int64(wn)
			}
			if we != nil {
				fr.fromSrc = fr.busy
				return total, we
			}
			if wn != n {
				return total, io.ErrShortWrite
			}
		}
		if er != nil {
			if er == io.EOF {
				return total, nil
			}
			return total, er
		}
	}
}

// ReadWriter groups Reader and Writer.
type ReadWriter struct {
	*Reader
	*Writer
}

// These are provided as package-level aliases so callers can reference the
// semantic control-flow errors without importing iox directly.
var (
	// ErrWouldBlock means “no further progress without waiting”.
	//
	// It is an expected, non-failure control-flow signal for non-blocking I/O.
	// Any partial progress is kept inside the framer.
	//
	// Caller action: stop the current attempt and retry later (after readiness/event),
	// or configure RetryDelay to emulate cooperative blocking on top of a non-blocking transport.
	ErrWouldBlock = iox.ErrWouldBlock

	// ErrMore means “this completion is usable and more completions will follow”.
	//
	// Caller action: call again to obtain the next chunk.
	ErrMore = iox.ErrMore
)
