// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hdlc

import (
	"io"
	"iter"
)

// FrameReader extracts complete frames from a byte stream.
//
// Semantics:
//   - Bytes before the first delimiter are discarded.
//   - A run of delimiters opens a frame at its last delimiter, so empty
//     frames are never returned.
//   - The closing delimiter of one frame also opens the next one.
//   - Frames are returned delimiter-inclusive and still escaped; no escape
//     validation happens here. Pass them to Decode or DecodeInPlace.
//   - Bytes read past the end of a frame are kept for the next call. Results
//     do not depend on how the source splits its data across reads.
//
// FrameReader is not safe for concurrent use; use one per connection.
type FrameReader struct{ fr *framer }

// NewFrameReader returns a FrameReader over r using the read-side options
// (WithCharSet, WithReadCharSet, WithChunkSize, WithRetryDelay, ...).
func NewFrameReader(r io.Reader, opts ...Option) *FrameReader {
	return &FrameReader{fr: newFramer(r, nil, opts...)}
}

// ReadFrame returns the next complete frame. The slice is owned by the caller.
//
// Bytes already pending are scanned before the source is read again. When
// the source is exhausted ReadFrame returns io.EOF, or io.ErrUnexpectedEOF
// once if a started frame was cut off; the partial frame is discarded. Source
// errors, including ErrWouldBlock, are returned with all pending bytes kept,
// so ReadFrame may be called again.
func (r *FrameReader) ReadFrame() ([]byte, error) { return r.fr.readFrame() }

// Frames returns the frames as a pull sequence; each step is one ReadFrame.
// The sequence ends at io.EOF; any other error is yielded once as (nil, err)
// and ends the sequence.
func (r *FrameReader) Frames() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for {
			f, err := r.ReadFrame()
			if err != nil {
				if err != io.EOF {
					yield(nil, err)
				}
				return
			}
			if !yield(f, nil) {
				return
			}
		}
	}
}

// Buffered returns the number of bytes read from the source and still held.
func (r *FrameReader) Buffered() int { return len(r.fr.pending) }
