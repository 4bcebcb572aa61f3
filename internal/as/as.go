// Copyright (c) 2025 Justin Cranford

// Package as implements the Authentication Service orchestration (RFC 8224
// §4, ATIS-1000074): build a PASSporT, sign it, and package it into a SIP
// Identity header. It is the single entry point a calling service provider
// uses to stamp an outbound call with an attestation.
package as

import (
	"crypto/ecdsa"
	"time"

	"github.com/google/uuid"

	"stirshaken/internal/apperr"
	"stirshaken/internal/passport"
	"stirshaken/internal/sipidentity"
)

// Params is the call-level content the Authentication Service needs. IAT
// and OrigID are optional: a zero IAT is stamped with time.Now(), and an
// empty OrigID is filled with a fresh UUID, matching the opaque/"UUID-shaped,
// optional" origid the PASSporT claim set calls for.
type Params struct {
	Attest  string
	Orig    passport.Endpoint
	Dest    passport.Endpoint
	OrigID  string
	IAT     int64
	OmitPpt bool
}

// Result is what Authorize produces: the ready-to-emit Identity header
// value, plus the signed PASSporT when the caller asked to keep it.
type Result struct {
	Header   string
	Passport *passport.Parsed
}

// Authorize builds, signs, and packages a PASSporT as an Identity header,
// using certURL for the x5u claim and the info parameter. When keepPassport is true,
// Result.Passport carries the parsed PASSporT so the caller can log or
// re-serialize it; otherwise it is left nil.
func Authorize(priv *ecdsa.PrivateKey, certURL string, params Params, keepPassport bool) (*Result, error) {
	if certURL == "" {
		return nil, apperr.New(apperr.KindGeneral, "cert URL is required", nil)
	}

	iat := params.IAT
	if iat == 0 {
		iat = time.Now().Unix()
	}

	origID := params.OrigID
	if origID == "" {
		origID = uuid.New().String()
	}

	header, payload, err := passport.Build(passport.Params{
		X5U:     certURL,
		Attest:  params.Attest,
		IAT:     iat,
		OrigID:  origID,
		Orig:    params.Orig,
		Dest:    params.Dest,
		OmitPpt: params.OmitPpt,
	})
	if err != nil {
		return nil, err
	}

	compact, err := passport.Sign(priv, header, payload)
	if err != nil {
		return nil, err
	}

	identityHeader := sipidentity.Serialize(compact, certURL)

	result := &Result{Header: identityHeader}

	if keepPassport {
		parsed, err := passport.Parse(compact)
		if err != nil {
			return nil, err
		}

		result.Passport = parsed
	}

	return result, nil
}
