// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hdlc

import (
	"bufio"
	"io"
)

// ScanFrames returns a bufio.SplitFunc that yields escaped frames with the
// same boundary rules as FrameReader. Tokens alias the Scanner's buffer.
//
// At end of input a started, unterminated frame makes the Scanner stop with
// io.ErrUnexpectedEOF. Frames longer than the Scanner's maximum token size
// fail with bufio.ErrTooLong; use FrameReader for unbounded frames.
func ScanFrames(cs CharSet) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (advance int, token []byte, err error) {
		if err := cs.Validate(); err != nil {
			return 0, nil, err
		}
		start := -1
		for i, b := range data {
			if b != cs.Delimiter {
				continue
			}
			if start >= 0 && i > start+1 {
				// Keep the closing delimiter; it opens the next frame.
				return i, data[start : i+1], nil
			}
			start = i
		}
		switch {
		case atEOF && start >= 0 && len(data) > start+1:
			return len(data), nil, io.ErrUnexpectedEOF
		case atEOF, start < 0:
			return len(data), nil, nil
		default:
			return start, nil, nil
		}
	}
}
