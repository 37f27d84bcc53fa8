// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hdlc

import "fmt"

// CharSet holds the four reserved byte values of a byte-stuffing scheme.
//
// All four values must be pairwise distinct; every transform checks this
// with Validate before touching its input.
type CharSet struct {
	// Delimiter marks the start and end of a frame (FEND).
	Delimiter byte
	// Escape introduces a two-byte substitution (FESC).
	Escape byte
	// DelimiterSub follows Escape in place of a literal Delimiter (TFEND).
	DelimiterSub byte
	// EscapeSub follows Escape in place of a literal Escape (TFESC).
	EscapeSub byte
}

// DefaultCharSet is the IEEE/RFC 1662 convention: 0x7E, 0x7D, 0x5E, 0x5D.
var DefaultCharSet = CharSet{
	Delimiter:    0x7E,
	Escape:       0x7D,
	DelimiterSub: 0x5E,
	EscapeSub:    0x5D,
}

// Validate returns ErrDuplicateCharacter unless the four values are pairwise distinct.
func (cs CharSet) Validate() error {
	v := [4]byte{cs.Delimiter, cs.Escape, cs.DelimiterSub, cs.EscapeSub}
	for i := 0; i < len(v); i++ {
		for j := i + 1; j < len(v); j++ {
			if v[i] == v[j] {
				return ErrDuplicateCharacter
			}
		}
	}
	return nil
}

func (cs CharSet) String() string {
	return fmt.Sprintf("{delim=%#02x esc=%#02x delimSub=%#02x escSub=%#02x}",
		cs.Delimiter, cs.Escape, cs.DelimiterSub, cs.EscapeSub)
}
