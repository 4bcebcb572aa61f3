// Copyright (c) 2025 Justin Cranford

// Package jose implements the low-level JOSE primitives RFC 7515 requires:
// base64url encoding with no padding, and ES256 (ECDSA P-256 / SHA-256)
// signing and verification using the fixed-width raw r||s encoding RFC 7518
// section 3.4 mandates for JWS (never ASN.1 DER). Higher layers (the compact
// JWS codec, PASSporT) build on this package; this package knows nothing
// about JSON, claims, or SIP.
package jose

import (
	"encoding/base64"
	"strings"
)

var rawURLEncoding = base64.URLEncoding.WithPadding(base64.NoPadding)

// EncodeSegment base64url-encodes data with no padding, per RFC 7515 §2.
func EncodeSegment(data []byte) string {
	return rawURLEncoding.EncodeToString(data)
}

// DecodeSegment base64url-decodes s. It rejects non-alphabet bytes. Trailing
// '=' padding is tolerated for interop with legacy encoders, even though
// RFC 7515 mandates unpadded output.
func DecodeSegment(s string) ([]byte, error) {
	if b, err := rawURLEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.URLEncoding.DecodeString(padBase64(s))
}

func padBase64(s string) string {
	if n := len(s) % 4; n != 0 {
		s += strings.Repeat("=", 4-n)
	}
	return s
}
