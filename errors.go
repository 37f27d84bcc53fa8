// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hdlc

import "errors"

var (
	// ErrInvalidArgument reports a nil reader/writer.
	ErrInvalidArgument = errors.New("hdlc: invalid argument")

	// ErrDuplicateCharacter reports a CharSet whose four values are not pairwise distinct.
	ErrDuplicateCharacter = errors.New("hdlc: duplicate special character")

	// ErrMissingFirstDelimiter reports a frame that does not begin with the delimiter.
	ErrMissingFirstDelimiter = errors.New("hdlc: missing first delimiter")

	// ErrStrayDelimiter reports an unescaped delimiter before the last byte of a frame.
	ErrStrayDelimiter = errors.New("hdlc: stray delimiter in data")

	// ErrMissingTradeChar reports an escape byte not followed by a valid substitute.
	ErrMissingTradeChar = errors.New("hdlc: escape not followed by substitute")

	// ErrMissingFinalDelimiter reports a frame that ends without a closing delimiter.
	ErrMissingFinalDelimiter = errors.New("hdlc: missing final delimiter")
)
