// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hdlc

import (
	"io"
	"runtime"
	"slices"
	"time"
)

type framer struct {
	rd  io.Reader
	rcs CharSet
	wr  io.Writer
	wcs CharSet

	chunkSize  int
	retryDelay time.Duration

	// read state: pending holds bytes read from rd but not yet handed out.
	// start is the offset of the current opening delimiter (-1 while seeking),
	// scan is the next offset to examine. Both survive across calls so frame
	// boundaries do not depend on how the source chunks its data.
	pending []byte
	start   int
	scan    int
	eof     bool

	// decoded message held between peek and drop; it aliases pending.
	msg    []byte
	hasMsg bool
	// WriteTo partial-write resume offset inside msg.
	wtOff int

	// write state: encoded frame in flight, its payload length and the
	// number of wire bytes already accepted by wr.
	wire   []byte
	length int
	offset int
	// busy is set from encoding until wr has accepted the whole frame;
	// fromSrc marks a busy frame whose payload came from ReadFrom.
	busy    bool
	fromSrc bool

	// reusable scratch buffer for Writer.ReadFrom fast path
	wbuf []byte
}

func newFramer(r io.Reader, w io.Writer, opts ...Option) *framer {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = defaultChunkSize
	}

	fr := &framer{
		rd:        r,
		wr:        w,
		rcs:       o.ReadCharSet,
		wcs:       o.WriteCharSet,
		chunkSize: o.ChunkSize,
		start:     -1,

		retryDelay: o.RetryDelay,
	}
	return fr
}

func (fr *framer) waitOnceOnWouldBlock() bool {
	// returns whether the caller should retry
	if fr.retryDelay < 0 {
		return false
	}
	if fr.retryDelay == 0 {
		runtime.Gosched()
		return true
	}
	time.Sleep(fr.retryDelay)
	return true
}

func (fr *framer) readOnce(p []byte) (n int, err error) {
	for {
		n, err = fr.rd.Read(p)
		// Guard against broken Readers that violate the io.Reader contract by
		// returning (0, nil) on a non-empty buffer. Without this, the frame
		// scanner can spin indefinitely.
		if len(p) != 0 && n == 0 && err == nil {
			return 0, io.ErrNoProgress
		}
		if n > 0 {
			return n, err
		}
		if err != ErrWouldBlock {
			return n, err
		}
		if !fr.waitOnceOnWouldBlock() {
			return n, err
		}
	}
}

func (fr *framer) writeOnce(p []byte) (n int, err error) {
	for {
		n, err = fr.wr.Write(p)
		// Guard against broken Writers that violate the io.Writer contract by
		// returning (0, nil) on a non-empty buffer.
		if len(p) != 0 && n == 0 && err == nil {
			return 0, io.ErrShortWrite
		}
		if n > 0 {
			return n, err
		}
		if err != ErrWouldBlock {
			return n, err
		}
		if !fr.waitOnceOnWouldBlock() {
			return n, err
		}
	}
}

// scanFrame advances the boundary state machine over pending. On success the
// returned frame aliases pending[start:scan+1] and stays valid until release.
func (fr *framer) scanFrame() ([]byte, bool) {
	d := fr.rcs.Delimiter
	for ; fr.scan < len(fr.pending); fr.scan++ {
		if fr.pending[fr.scan] != d {
			continue
		}
		if fr.start >= 0 && fr.scan > fr.start+1 {
			return fr.pending[fr.start : fr.scan+1], true
		}
		// Seeking, or a delimiter run: the latest delimiter opens the frame.
		fr.start = fr.scan
	}
	return nil, false
}

// release drops the frame returned by scanFrame. Its closing delimiter stays
// pending and opens the next frame.
func (fr *framer) release() {
	n := copy(fr.pending, fr.pending[fr.scan:])
	fr.pending = fr.pending[:n]
	fr.start = 0
	fr.scan = 1
}

// compact discards noise before the current opening delimiter.
func (fr *framer) compact() {
	if fr.start < 0 {
		fr.pending = fr.pending[:0]
		fr.scan = 0
		return
	}
	if fr.start > 0 {
		n := copy(fr.pending, fr.pending[fr.start:])
		fr.pending = fr.pending[:n]
		fr.scan -= fr.start
		fr.start = 0
	}
}

// fill appends up to chunkSize bytes from rd to pending. Bytes that arrive
// together with an error are kept.
func (fr *framer) fill() error {
	fr.pending = slices.Grow(fr.pending, fr.chunkSize)
	off := len(fr.pending)
	n, err := fr.readOnce(fr.pending[off : off+fr.chunkSize])
	fr.pending = fr.pending[:off+n]
	if err != nil {
		if err == io.EOF {
			fr.eof = true
			return nil
		}
		if n > 0 && (err == ErrWouldBlock || err == ErrMore) {
			// Scan what arrived first; the next fill reports the condition
			// again if nothing completes.
			return nil
		}
		return err
	}
	return nil
}

// finish resets the read state at end of stream and reports whether a
// started frame was cut off. The source is asked again on the next call.
func (fr *framer) finish() error {
	truncated := fr.start >= 0 && len(fr.pending) > fr.start+1
	fr.pending = fr.pending[:0]
	fr.start = -1
	fr.scan = 0
	fr.eof = false
	if truncated {
		return io.ErrUnexpectedEOF
	}
	return io.EOF
}

// nextFrame returns the next complete, still escaped frame. The result
// aliases pending; callers must release it before scanning again.
func (fr *framer) nextFrame() ([]byte, error) {
	if fr.rd == nil {
		return nil, ErrInvalidArgument
	}
	if err := fr.rcs.Validate(); err != nil {
		return nil, err
	}
	for {
		if f, ok := fr.scanFrame(); ok {
			return f, nil
		}
		if fr.eof {
			return nil, fr.finish()
		}
		fr.compact()
		if err := fr.fill(); err != nil {
			return nil, err
		}
	}
}

func (fr *framer) readFrame() ([]byte, error) {
	f, err := fr.nextFrame()
	if err != nil {
		return nil, err
	}
	out := slices.Clone(f)
	fr.release()
	return out, nil
}

// peekMessage decodes the next frame in place and holds it until
// dropMessage. A frame that fails to decode is dropped and its error returned.
func (fr *framer) peekMessage() ([]byte, error) {
	if fr.hasMsg {
		return fr.msg, nil
	}
	f, err := fr.nextFrame()
	if err != nil {
		return nil, err
	}
	msg, err := DecodeInPlace(f, fr.rcs)
	if err != nil {
		fr.release()
		return nil, err
	}
	fr.msg, fr.hasMsg = msg, true
	return msg, nil
}

func (fr *framer) dropMessage() {
	fr.msg, fr.hasMsg = nil, false
	fr.wtOff = 0
	fr.release()
}

func (fr *framer) read(p []byte) (n int, err error) {
	msg, err := fr.peekMessage()
	if err != nil {
		return 0, err
	}
	rest := msg[fr.wtOff:]
	if len(p) < len(rest) {
		return 0, io.ErrShortBuffer
	}
	n = copy(p, rest)
	fr.dropMessage()
	return n, nil
}

func (fr *framer) write(p []byte) (n int, err error) {
	if fr.wr == nil {
		return 0, ErrInvalidArgument
	}

	// Encode once per message; retries resume from offset.
	if !fr.busy {
		if len(p) == 0 {
			return 0, nil
		}
		wire, err := AppendEncode(fr.wire[:0], p, fr.wcs)
		if err != nil {
			return 0, err
		}
		fr.wire = wire
		fr.length = len(p)
		fr.busy, fr.fromSrc = true, false
	} else if fr.length != len(p) {
		// The caller changed the message buffer mid-frame.
		return 0, io.ErrShortWrite
	}

	if err := fr.drain(); err != nil {
		return 0, err
	}
	return len(p), nil
}

// drain writes the rest of the encoded frame in fr.wire and clears busy once
// wr has accepted all of it.
func (fr *framer) drain() error {
	for fr.offset < len(fr.wire) {
		wn, we := fr.writeOnce(fr.wire[fr.offset:])
		fr.offset += wn
		if we != nil {
			if wn > 0 && we == ErrWouldBlock && fr.waitOnceOnWouldBlock() {
				continue
			}
			return we
		}
	}
	fr.offset = 0
	fr.busy = false
	return nil
}
