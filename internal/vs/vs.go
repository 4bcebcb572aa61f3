// Copyright (c) 2025 Justin Cranford

// Package vs implements the Verification Service orchestration (RFC 8224
// §6, ATIS-1000074): parse an Identity header, fetch and validate the
// signing certificate, verify the PASSporT signature, and check its
// claims, producing a SIP status outcome at every failure point.
package vs

import (
	"context"
	"crypto/ecdsa"
	"encoding/pem"

	"stirshaken/internal/apperr"
	"stirshaken/internal/ca/trust"
	"stirshaken/internal/config"
	cryptoutilJose "stirshaken/internal/crypto/jose"
	"stirshaken/internal/fetch"
	"stirshaken/internal/passport"
	"stirshaken/internal/sipidentity"
)

// State names one step of the per-verification state machine. Any state
// may transition directly to Done on error; there are no retries.
type State string

const (
	StateInit          State = "Init"
	StateParseHeader   State = "ParseHeader"
	StateFetchCert     State = "FetchCert"
	StateValidateChain State = "ValidateChain"
	StateVerifySig     State = "VerifySig"
	StateCheckClaims   State = "CheckClaims"
	StateDone          State = "Done"
)

// Result is the outcome of one verification attempt.
type Result struct {
	OK      bool
	Status  int
	State   State
	Claims  *passport.Claims
	InfoURL string
}

// Verify runs the Init→ParseHeader→FetchCert→ValidateChain→VerifySig→
// CheckClaims→Done pipeline over headerValue. fetcher resolves the cert
// URL extracted from the header; cfg supplies freshness window, receive
// leniency, and trust/CRL store locations. The returned error, when
// non-nil, is always an *apperr.Error whose Kind maps to the SIP status
// also recorded in Result.Status.
func Verify(ctx context.Context, headerValue string, fetcher fetch.Func, cfg config.Config) (*Result, error) {
	result := &Result{State: StateInit}

	result.State = StateParseHeader

	id, err := sipidentity.Parse(headerValue, sipidentity.ParseOptions{AllowMissingPpt: cfg.AllowMissingPpt})
	if err != nil {
		return fail(result, err)
	}

	result.InfoURL = id.InfoURL

	result.State = StateFetchCert

	fetchCtx := ctx
	if cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc

		fetchCtx, cancel = context.WithTimeout(ctx, cfg.FetchTimeout)
		defer cancel()
	}

	certBytes, err := fetcher(fetchCtx, id.InfoURL)
	if err != nil {
		return fail(result, apperr.Wrap(apperr.KindBadIdentityInfo, "fetch signing certificate", err))
	}

	certDER := certBytes
	if block, _ := pem.Decode(certBytes); block != nil {
		certDER = block.Bytes
	}

	result.State = StateValidateChain

	cert, _, err := trust.Validate(certDER, trust.Options{
		TrustDir:   cfg.TrustDir,
		CRLDir:     cfg.CRLDir,
		RequireCRL: cfg.RequireCRL,
	})
	if err != nil {
		return fail(result, err)
	}

	pub, ok := cert.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return fail(result, apperr.New(apperr.KindUnsupportedCredential, "certificate public key is not ECDSA", nil))
	}

	result.State = StateVerifySig

	parsed, err := passport.Parse(id.JWS)
	if err != nil {
		return fail(result, err)
	}

	sig, err := cryptoutilJose.DecodeSegment(parsed.SigSeg)
	if err != nil {
		return fail(result, apperr.New(apperr.KindInvalidSignature, "decode signature segment", err))
	}

	if err := cryptoutilJose.VerifyES256(pub, []byte(parsed.HeaderSeg+"."+parsed.PayloadSeg), sig); err != nil {
		return fail(result, apperr.New(apperr.KindInvalidSignature, "signature verification failed", err))
	}

	result.State = StateCheckClaims

	claims, err := passport.Verify(parsed, pub, passport.VerifyOptions{
		AllowMissingPpt:   cfg.AllowMissingPpt,
		AllowDestTNScalar: cfg.AllowDestTNScalar,
		FreshnessWindow:   cfg.FreshnessWindow,
	})
	if err != nil {
		return fail(result, err)
	}

	result.State = StateDone
	result.OK = true
	result.Claims = claims

	return result, nil
}

func fail(result *Result, err error) (*Result, error) {
	result.State = StateDone
	result.OK = false

	if status, ok := apperr.Status(err); ok {
		result.Status = status
	}

	return result, err
}
