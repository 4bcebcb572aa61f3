// Copyright (c) 2025 Justin Cranford

package passport

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"stirshaken/internal/apperr"
	cryptoutilJose "stirshaken/internal/crypto/jose"
)

// Alg and Typ are the only values this core signs or accepts.
const (
	Alg = "ES256"
	Typ = "passport"
	Ppt = "shaken"
)

// Header is the PASSporT JOSE header (RFC 8225 §8, ATIS-1000074 §5.2.2).
// Fields are declared in the exact order they must serialize in: this is
// the whole of this package's "canonical JSON" story, since encoding/json
// emits struct fields in declaration order rather than sorting them.
type Header struct {
	Alg string `json:"alg"`
	Ppt string `json:"ppt,omitempty"`
	Typ string `json:"typ"`
	X5u string `json:"x5u"`
}

// Payload is the PASSporT claims set (RFC 8225 §5, ATIS-1000074 §5.2.1).
// Orig and Dest are carried as json.RawMessage so Build controls their
// exact scalar/array rendering and Verify can inspect the as-received
// shape without a lossy round-trip through a generic struct.
type Payload struct {
	Attest string          `json:"attest,omitempty"`
	Dest   json.RawMessage `json:"dest"`
	IAT    int64           `json:"iat"`
	Orig   json.RawMessage `json:"orig"`
	OrigID string          `json:"origid,omitempty"`
}

// Params is the caller-supplied content for a new PASSporT.
type Params struct {
	X5U    string
	Attest string // AttestFull, AttestPartial, AttestGateway, or "" to omit
	IAT    int64
	OrigID string
	Orig   Endpoint
	Dest   Endpoint
	// OmitPpt drops the ppt claim entirely. Off by default: this core always
	// signs ppt=shaken.
	OmitPpt bool
}

// Build validates params and renders the Header/Payload pair ready to sign.
// It does not touch the clock or generate an origid: callers (the
// authentication-service orchestration layer) own freshness and
// default-origid policy.
func Build(p Params) (Header, Payload, error) {
	if p.X5U == "" {
		return Header{}, Payload{}, apperr.New(apperr.KindGeneral, "x5u is required", nil)
	}

	if p.Attest != "" && p.Attest != AttestFull && p.Attest != AttestPartial && p.Attest != AttestGateway {
		return Header{}, Payload{}, apperr.New(apperr.KindGeneral, "attest must be A, B, C, or empty", nil)
	}

	if p.Orig.Key == "" || p.Orig.Value == "" {
		return Header{}, Payload{}, apperr.New(apperr.KindGeneral, "orig is required", nil)
	}

	if p.Dest.Key == "" || p.Dest.Value == "" {
		return Header{}, Payload{}, apperr.New(apperr.KindGeneral, "dest is required", nil)
	}

	origRaw, err := marshalOrig(p.Orig)
	if err != nil {
		return Header{}, Payload{}, apperr.New(apperr.KindGeneral, "orig", err)
	}

	destRaw, err := marshalDest(p.Dest)
	if err != nil {
		return Header{}, Payload{}, apperr.New(apperr.KindGeneral, "dest", err)
	}

	header := Header{Alg: Alg, Typ: Typ, X5u: p.X5U}
	if !p.OmitPpt {
		header.Ppt = Ppt
	}

	payload := Payload{
		Attest: p.Attest,
		Dest:   destRaw,
		IAT:    p.IAT,
		Orig:   origRaw,
		OrigID: p.OrigID,
	}

	return header, payload, nil
}

// Sign renders header and payload to their base64url segments and produces
// the compact three-segment PASSporT, signing over the exact bytes of the
// first two segments.
func Sign(priv *ecdsa.PrivateKey, header Header, payload Payload) (string, error) {
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", apperr.New(apperr.KindGeneral, "marshal header", err)
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", apperr.New(apperr.KindGeneral, "marshal payload", err)
	}

	headerSeg := cryptoutilJose.EncodeSegment(headerJSON)
	payloadSeg := cryptoutilJose.EncodeSegment(payloadJSON)

	signingInput := headerSeg + "." + payloadSeg

	sig, err := cryptoutilJose.SignES256(priv, []byte(signingInput))
	if err != nil {
		return "", apperr.New(apperr.KindCrypto, "sign passport", err)
	}

	return signingInput + "." + cryptoutilJose.EncodeSegment(sig), nil
}

// Parsed holds a PASSporT split into its three raw segments plus the
// decoded header, ready for claim validation and signature verification.
// The raw header/payload segment strings are kept (not re-derived from the
// decoded structs) so Verify always checks the signature against the
// bytes that were actually received, never a re-serialization of them.
type Parsed struct {
	HeaderSeg  string
	PayloadSeg string
	SigSeg     string
	Header     Header
	Payload    Payload
}

// Parse splits a compact PASSporT string into its segments and decodes the
// header and payload JSON, without yet checking any claim invariants or
// the signature.
func Parse(compact string) (*Parsed, error) {
	parts := strings.Split(compact, ".")
	if len(parts) != 3 {
		return nil, apperr.New(apperr.KindInvalidIdentityHeader, "passport must have exactly 3 segments", nil)
	}

	headerJSON, err := cryptoutilJose.DecodeSegment(parts[0])
	if err != nil {
		return nil, apperr.New(apperr.KindInvalidIdentityHeader, "decode header segment", err)
	}

	payloadJSON, err := cryptoutilJose.DecodeSegment(parts[1])
	if err != nil {
		return nil, apperr.New(apperr.KindInvalidIdentityHeader, "decode payload segment", err)
	}

	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, apperr.New(apperr.KindInvalidIdentityHeader, "unmarshal header", err)
	}

	var payload Payload
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return nil, apperr.New(apperr.KindInvalidIdentityHeader, "unmarshal payload", err)
	}

	return &Parsed{
		HeaderSeg:  parts[0],
		PayloadSeg: parts[1],
		SigSeg:     parts[2],
		Header:     header,
		Payload:    payload,
	}, nil
}

// VerifyOptions tunes the leniency of claim validation. The leniency flags
// default to false, which is the strict SHAKEN profile; a zero
// FreshnessWindow skips the freshness check.
type VerifyOptions struct {
	// AllowMissingPpt accepts a header with no ppt claim instead of
	// rejecting with 438.
	AllowMissingPpt bool
	// AllowDestTNScalar accepts a dest.tn claim encoded as a bare string
	// instead of the RFC 8588-mandated one-element array.
	AllowDestTNScalar bool
	// FreshnessWindow bounds how far iat may drift from Now, in either
	// direction. Zero disables the freshness check (useful only for
	// inspection tooling, never for real verification policy).
	FreshnessWindow time.Duration
	// Now returns the current time; defaults to time.Now when nil.
	Now func() time.Time
}

func (o VerifyOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}

	return time.Now()
}

// Claims is the validated, caller-friendly view of a verified PASSporT.
type Claims struct {
	Attest string
	Orig   Endpoint
	Dest   Endpoint
	IAT    int64
	OrigID string
}

// Verify checks header grammar, claim shape invariants, freshness, and the
// ES256 signature, in that order, against the exact bytes Parse captured.
// Every failure is an *apperr.Error carrying the SIP status the caller
// should return.
func Verify(parsed *Parsed, pub *ecdsa.PublicKey, opts VerifyOptions) (*Claims, error) {
	if parsed.Header.Alg != Alg {
		return nil, apperr.New(apperr.KindInvalidIdentityHeader, fmt.Sprintf("unsupported alg %q", parsed.Header.Alg), nil)
	}

	if parsed.Header.Typ != Typ {
		return nil, apperr.New(apperr.KindInvalidIdentityHeader, fmt.Sprintf("unsupported typ %q", parsed.Header.Typ), nil)
	}

	if parsed.Header.Ppt == "" {
		if !opts.AllowMissingPpt {
			return nil, apperr.New(apperr.KindInvalidIdentityHeader, "missing ppt claim", nil)
		}
	} else if parsed.Header.Ppt != Ppt {
		return nil, apperr.New(apperr.KindInvalidIdentityHeader, fmt.Sprintf("unsupported ppt %q", parsed.Header.Ppt), nil)
	}

	x5u, err := url.Parse(parsed.Header.X5u)
	if err != nil || !x5u.IsAbs() {
		return nil, apperr.New(apperr.KindBadIdentityInfo, fmt.Sprintf("x5u is not an absolute URL: %q", parsed.Header.X5u), nil)
	}

	claims, err := validatePayload(parsed.Payload, opts)
	if err != nil {
		return nil, err
	}

	if opts.FreshnessWindow > 0 {
		iat := time.Unix(claims.IAT, 0)
		age := opts.now().Sub(iat)

		if age < -opts.FreshnessWindow || age > opts.FreshnessWindow {
			return nil, apperr.New(apperr.KindStaleDate, fmt.Sprintf("iat %d outside freshness window", claims.IAT), nil)
		}
	}

	signingInput := parsed.HeaderSeg + "." + parsed.PayloadSeg

	sig, err := cryptoutilJose.DecodeSegment(parsed.SigSeg)
	if err != nil {
		return nil, apperr.New(apperr.KindInvalidSignature, "decode signature segment", err)
	}

	if err := cryptoutilJose.VerifyES256(pub, []byte(signingInput), sig); err != nil {
		return nil, apperr.New(apperr.KindInvalidSignature, "signature verification failed", err)
	}

	return claims, nil
}

func validatePayload(p Payload, opts VerifyOptions) (*Claims, error) {
	if p.Attest != "" && p.Attest != AttestFull && p.Attest != AttestPartial && p.Attest != AttestGateway {
		return nil, apperr.New(apperr.KindInvalidIdentityHeader, fmt.Sprintf("invalid attest %q", p.Attest), nil)
	}

	orig, err := parseEndpoint(p.Orig)
	if err != nil || orig.empty() {
		return nil, apperr.New(apperr.KindInvalidIdentityHeader, "invalid orig claim", err)
	}

	if orig.Key == KeyTN && orig.IsArray {
		return nil, apperr.New(apperr.KindInvalidIdentityHeader, "orig.tn must be a scalar string", nil)
	}

	if orig.Key == KeyURI && !orig.IsArray {
		return nil, apperr.New(apperr.KindInvalidIdentityHeader, "orig.uri must be a one-element array", nil)
	}

	dest, err := parseEndpoint(p.Dest)
	if err != nil || dest.empty() {
		return nil, apperr.New(apperr.KindInvalidIdentityHeader, "invalid dest claim", err)
	}

	if !dest.IsArray {
		allowed := dest.Key == KeyTN && opts.AllowDestTNScalar
		if !allowed {
			return nil, apperr.New(apperr.KindInvalidIdentityHeader, fmt.Sprintf("dest.%s must be an array", dest.Key), nil)
		}
	}

	return &Claims{
		Attest: p.Attest,
		Orig:   Endpoint{Key: orig.Key, Value: orig.Values[0]},
		Dest:   Endpoint{Key: dest.Key, Value: dest.Values[0]},
		IAT:    p.IAT,
		OrigID: p.OrigID,
	}, nil
}
