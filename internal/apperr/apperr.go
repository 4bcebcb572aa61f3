// Copyright (c) 2025 Justin Cranford

// Package apperr carries the error taxonomy for STIR/SHAKEN call
// verification and its mapping onto the SIP 403/428/436/437/438
// status-code family. Each error carries a status line (code + reason
// phrase), a short machine code, a human summary, the wrapped cause, a
// correlation ID, and a UTC timestamp.
package apperr

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind names one of the error categories the core raises.
type Kind string

const (
	// KindGeneral covers programmer/caller mistakes: nil inputs, I/O
	// failures unrelated to the protocol.
	KindGeneral Kind = "GENERAL_ERROR"
	// KindCrypto covers underlying crypto-primitive failures (key
	// generation, signing).
	KindCrypto Kind = "CRYPTO_ERROR"
	// KindStaleDate maps to SIP 403: iat outside the freshness window.
	KindStaleDate Kind = "STALE_DATE"
	// KindUseIdentityHeader maps to SIP 428: emitted by caller policy, not
	// detected by this core.
	KindUseIdentityHeader Kind = "USE_IDENTITY_HEADER"
	// KindBadIdentityInfo maps to SIP 436: the cert URL could not be
	// fetched.
	KindBadIdentityInfo Kind = "BAD_IDENTITY_INFO"
	// KindUnsupportedCredential maps to SIP 437: cert malformed, untrusted,
	// revoked, expired, or wrong EKU.
	KindUnsupportedCredential Kind = "UNSUPPORTED_CREDENTIAL"
	// KindInvalidIdentityHeader maps to SIP 438: grammar, missing param, or
	// missing claim.
	KindInvalidIdentityHeader Kind = "INVALID_IDENTITY_HEADER"
	// KindInvalidSignature is the SIP-438 subkind for a signature mismatch.
	KindInvalidSignature Kind = "INVALID_IDENTITY_HEADER_SIGNATURE"
)

// SIPStatus is the SIP response code an error kind maps to. Kinds with no
// SIP mapping (General, Crypto) return 0.
func (k Kind) SIPStatus() int {
	switch k {
	case KindStaleDate:
		return 403
	case KindUseIdentityHeader:
		return 428
	case KindBadIdentityInfo:
		return 436
	case KindUnsupportedCredential:
		return 437
	case KindInvalidIdentityHeader, KindInvalidSignature:
		return 438
	default:
		return 0
	}
}

// reasonPhrases is the human-readable text for each SIP status this core
// can raise; callers surface these without reinterpreting the cause.
var reasonPhrases = map[int]string{
	403: "Forbidden (Stale Date)",
	428: "Use Identity Header",
	436: "Bad Identity Info",
	437: "Unsupported Credential",
	438: "Invalid Identity Header",
}

// Error is the app-visible error-context record: every failing operation in
// this module populates one of these and returns it as its failure status.
type Error struct {
	Kind      Kind
	Summary   string
	Err       error
	ID        uuid.UUID
	Timestamp time.Time
}

// New creates an Error of the given kind with summary and optional wrapped
// cause.
func New(kind Kind, summary string, cause error) *Error {
	return &Error{
		Kind:      kind,
		Summary:   summary,
		Err:       cause,
		ID:        uuid.New(),
		Timestamp: time.Now().UTC(),
	}
}

// Error implements the error interface. Format:
// "<kind> <status> <reason>: <summary> [id=<uuid>] [ts=<rfc3339nano>]: <cause>".
func (e *Error) Error() string {
	status := e.Kind.SIPStatus()
	reason := reasonPhrases[status]

	msg := fmt.Sprintf("%s", e.Kind)
	if status != 0 {
		msg = fmt.Sprintf("%s %d %s", e.Kind, status, reason)
	}

	msg += fmt.Sprintf(": %s [id=%s] [ts=%s]", e.Summary, e.ID, e.Timestamp.Format(time.RFC3339Nano))

	if e.Err != nil {
		msg += fmt.Sprintf(": %s", e.Err)
	}

	return msg
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap implements "set-if-clear" propagation: if cause already carries an
// *Error, it is returned unchanged so the deepest/root failure kind
// survives propagation through nested operations. Otherwise a new Error of
// kind is created wrapping cause.
func Wrap(kind Kind, summary string, cause error) *Error {
	var existing *Error
	if errors.As(cause, &existing) {
		return existing
	}

	return New(kind, summary, cause)
}

// Status returns the SIP status this error maps to, and whether the error
// carries a recognized *Error at all.
func Status(err error) (status int, ok bool) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return 0, false
	}

	return appErr.Kind.SIPStatus(), true
}
