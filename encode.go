// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hdlc

// Encode returns payload escaped and wrapped in cs.Delimiter.
//
// Every cs.Escape is replaced by Escape, EscapeSub and every cs.Delimiter by
// Escape, DelimiterSub. The result is always between len(payload)+2 and
// 2*len(payload)+2 bytes long.
func Encode(payload []byte, cs CharSet) ([]byte, error) {
	if err := cs.Validate(); err != nil {
		return nil, err
	}
	return appendEncode(make([]byte, 0, 2*len(payload)+2), payload, cs), nil
}

// AppendEncode appends the encoded frame of payload to dst and returns the
// extended slice. It does not allocate when dst has EncodedLen spare capacity.
func AppendEncode(dst, payload []byte, cs CharSet) ([]byte, error) {
	if err := cs.Validate(); err != nil {
		return dst, err
	}
	if need := EncodedLen(payload, cs); cap(dst)-len(dst) < need {
		grown := make([]byte, len(dst), len(dst)+need)
		copy(grown, dst)
		dst = grown
	}
	return appendEncode(dst, payload, cs), nil
}

// EncodedLen reports the exact number of bytes Encode produces for payload.
func EncodedLen(payload []byte, cs CharSet) int {
	n := len(payload) + 2
	for _, b := range payload {
		if b == cs.Delimiter || b == cs.Escape {
			n++
		}
	}
	return n
}

func appendEncode(dst, payload []byte, cs CharSet) []byte {
	dst = append(dst, cs.Delimiter)
	for _, b := range payload {
		switch b {
		case cs.Escape:
			dst = append(dst, cs.Escape, cs.EscapeSub)
		case cs.Delimiter:
			dst = append(dst, cs.Escape, cs.DelimiterSub)
		default:
			dst = append(dst, b)
		}
	}
	return append(dst, cs.Delimiter)
}
