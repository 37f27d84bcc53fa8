// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hdlc

// Decode returns the payload carried by one delimiter-wrapped frame.
//
// The frame must start and end with cs.Delimiter and contain no other
// unescaped delimiter. Errors:
//   - ErrDuplicateCharacter: cs is invalid.
//   - ErrMissingFirstDelimiter: frame is empty or does not start with the delimiter.
//   - ErrMissingTradeChar: an escape is last or followed by neither substitute.
//   - ErrStrayDelimiter: a delimiter appears before the last byte.
//   - ErrMissingFinalDelimiter: frame ends without a closing delimiter.
//
// frame is not modified; the result is a new slice.
func Decode(frame []byte, cs CharSet) ([]byte, error) {
	if err := cs.Validate(); err != nil {
		return nil, err
	}
	if len(frame) == 0 || frame[0] != cs.Delimiter {
		return nil, ErrMissingFirstDelimiter
	}

	out := make([]byte, 0, len(frame))
	for i := 1; i < len(frame); i++ {
		switch b := frame[i]; b {
		case cs.Escape:
			if i+1 == len(frame) {
				return nil, ErrMissingTradeChar
			}
			i++
			switch frame[i] {
			case cs.DelimiterSub:
				out = append(out, cs.Delimiter)
			case cs.EscapeSub:
				out = append(out, cs.Escape)
			default:
				return nil, ErrMissingTradeChar
			}
		case cs.Delimiter:
			if i+1 != len(frame) {
				return nil, ErrStrayDelimiter
			}
			return out, nil
		default:
			out = append(out, b)
		}
	}
	return nil, ErrMissingFinalDelimiter
}

// DecodeInPlace is Decode without allocation: it unescapes buf into its own
// prefix and returns that prefix.
//
// The result aliases buf and stays valid only until the caller modifies or
// reuses buf. On error the contents of buf are unspecified. For every input,
// DecodeInPlace(x) returns the same payload or error as Decode(x).
func DecodeInPlace(buf []byte, cs CharSet) ([]byte, error) {
	if err := cs.Validate(); err != nil {
		return nil, err
	}
	if len(buf) == 0 || buf[0] != cs.Delimiter {
		return nil, ErrMissingFirstDelimiter
	}

	// w trails i by the opening delimiter plus one per consumed escape
	// marker, so buf[w] is always a byte that has already been read.
	w := 0
	for i := 1; i < len(buf); i++ {
		switch b := buf[i]; b {
		case cs.Escape:
			if i+1 == len(buf) {
				return nil, ErrMissingTradeChar
			}
			i++
			switch buf[i] {
			case cs.DelimiterSub:
				buf[w] = cs.Delimiter
			case cs.EscapeSub:
				buf[w] = cs.Escape
			default:
				return nil, ErrMissingTradeChar
			}
			w++
		case cs.Delimiter:
			if i+1 != len(buf) {
				return nil, ErrStrayDelimiter
			}
			return buf[:w], nil
		default:
			buf[w] = b
			w++
		}
	}
	return nil, ErrMissingFinalDelimiter
}
