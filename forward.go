// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hdlc

import (
	"io"
)

// Forwarder relays framed messages from a source to a destination while
// preserving message boundaries.
//
// Semantics:
//   - One call to ForwardOnce processes at most one logical message.
//   - Two-phase state machine per message:
//     1) Extract the next frame from src and decode it with the read-side
//     CharSet (may return early with ErrWouldBlock or ErrMore; bytes already
//     read stay buffered).
//     2) Encode the payload with the write-side CharSet and write it as one
//     frame to dst (may return early with ErrWouldBlock or ErrMore).
//   - Returns (n, nil) when a whole message has been forwarded; n is the
//     payload length.
//   - With different read and write character sets the Forwarder translates
//     between link conventions, e.g. WithReadSLIP() and WithWriteHDLC().
//
// Errors:
//   - A frame that fails to decode is dropped and its decode error returned;
//     the next call continues with the following frame.
//   - io.EOF at a clean end of src, io.ErrUnexpectedEOF if src ends inside a
//     frame.
//
// Retry rule:
//   - On ErrWouldBlock or ErrMore, the caller must retry ForwardOnce on the SAME
//     Forwarder instance to complete the in-flight message.
type Forwarder struct {
	rr *framer // read-side state machine (uses rr.rd, rr.rcs)
	ww *framer // write-side state machine (uses ww.wr, ww.wcs)

	// Per-message state.
	msg   []byte // decoded payload; aliases rr's pending buffer
	state uint8  // 0: extract frame, 1: write frame
}

// NewForwarder constructs a Forwarder that relays messages from src to dst.
// Options apply per direction (read/write) following the same rules as Reader/Writer.
func NewForwarder(dst io.Writer, src io.Reader, opts ...Option) *Forwarder {
	return &Forwarder{
		rr: newFramer(src, nil, opts...),
		ww: newFramer(nil, dst, opts...),
	}
}

// ForwardOnce forwards at most one message. See Forwarder docs for semantics.
func (f *Forwarder) ForwardOnce() (n int, err error) {
	// Phase 0: extract and decode the next frame.
	if f.state == 0 {
		msg, e := f.rr.peekMessage()
		if e != nil {
			return 0, e
		}
		f.msg = msg
		f.state = 1
	}

	// Phase 1: write the payload as one frame to the destination. The
	// write-side framer keeps the encoded frame and its offset across
	// would-block retries.
	wn, we := f.ww.write(f.msg)
	if we != nil {
		return wn, we
	}
	f.rr.dropMessage()
	f.msg = nil
	f.state = 0
	return wn, nil
}

// Forward relays messages until src is exhausted. It returns the number of
// messages forwarded and the first error other than io.EOF.
func (f *Forwarder) Forward() (messages int, err error) {
	for {
		_, err = f.ForwardOnce()
		if err != nil {
			if err == io.EOF {
				return messages, nil
			}
			return messages, err
		}
		messages++
	}
}
