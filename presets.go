// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hdlc

import "strings"

// Link convention helpers and mapping.
//
// Link convention to CharSet:
//   - HDLC (async, ISO 13239) -> 0x7E 0x7D 0x5E 0x5D
//   - PPP  (RFC 1662)         -> 0x7E 0x7D 0x5E 0x5D  // same octets as HDLC
//   - SLIP (RFC 1055)         -> 0xC0 0xDB 0xDC 0xDD
//   - KISS (TNC)              -> 0xC0 0xDB 0xDC 0xDD  // SLIP framing
//
// Read*/Write* helpers touch one direction only, so conventions can be mixed
// (for example, a Forwarder bridging a SLIP link to an HDLC link).

type linkKind uint8

const (
	linkHDLC linkKind = iota
	linkPPP
	linkSLIP
	linkKISS
)

var slipCharSet = CharSet{
	Delimiter:    0xC0,
	Escape:       0xDB,
	DelimiterSub: 0xDC,
	EscapeSub:    0xDD,
}

func charSetFor(kind linkKind) CharSet {
	switch kind {
	case linkSLIP, linkKISS:
		return slipCharSet
	default:
		return DefaultCharSet
	}
}

var presetNames = map[string]linkKind{
	"hdlc": linkHDLC,
	"ppp":  linkPPP,
	"slip": linkSLIP,
	"kiss": linkKISS,
}

// LookupPreset returns the CharSet of a named link convention
// ("hdlc", "ppp", "slip", "kiss"; case-insensitive).
func LookupPreset(name string) (CharSet, bool) {
	kind, ok := presetNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return CharSet{}, false
	}
	return charSetFor(kind), true
}

func withPreset(kind linkKind, read, write bool) Option {
	return func(o *Options) {
		cs := charSetFor(kind)
		if read {
			o.ReadCharSet = cs
		}
		if write {
			o.WriteCharSet = cs
		}
	}
}

// WithHDLC configures both directions for HDLC-style async framing.
func WithHDLC() Option { return withPreset(linkHDLC, true, true) }

// WithReadHDLC configures the reader side for HDLC-style async framing.
func WithReadHDLC() Option { return withPreset(linkHDLC, true, false) }

// WithWriteHDLC configures the writer side for HDLC-style async framing.
func WithWriteHDLC() Option { return withPreset(linkHDLC, false, true) }

// WithPPP configures both directions for PPP in HDLC-like framing.
func WithPPP() Option { return withPreset(linkPPP, true, true) }

// WithSLIP configures both directions for SLIP.
func WithSLIP() Option { return withPreset(linkSLIP, true, true) }

// WithReadSLIP configures the reader side for SLIP.
func WithReadSLIP() Option { return withPreset(linkSLIP, true, false) }

// WithWriteSLIP configures the writer side for SLIP.
func WithWriteSLIP() Option { return withPreset(linkSLIP, false, true) }

// WithKISS configures both directions for KISS TNC framing.
func WithKISS() Option { return withPreset(linkKISS, true, true) }
