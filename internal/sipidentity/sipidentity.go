// Copyright (c) 2025 Justin Cranford

// Package sipidentity serializes and parses the SIP Identity header value
// (RFC 8224 §4, ATIS-1000074 §5.2.3): a compact JWS plus its info/alg/ppt
// parameters. It never touches a SIP message, only the header value string.
package sipidentity

import (
	"fmt"
	"net/url"
	"strings"

	"stirshaken/internal/apperr"
)

const (
	paramInfo = "info"
	paramAlg  = "alg"
	paramPpt  = "ppt"

	algValue = "ES256"
	pptValue = "shaken"
)

// Identity is a parsed SIP Identity header value.
type Identity struct {
	JWS     string
	InfoURL string
	Alg     string
	Ppt     string
}

// Serialize renders jws and infoURL as `<JWS>;info=<URL>;alg=ES256;ppt=shaken`.
// The info URL's angle brackets are mandatory per RFC 8224 §4.1.
func Serialize(jws, infoURL string) string {
	return fmt.Sprintf("%s;%s=<%s>;%s=%s;%s=%s", jws, paramInfo, infoURL, paramAlg, algValue, paramPpt, pptValue)
}

// ParseOptions tunes receive-side leniency.
type ParseOptions struct {
	// AllowMissingPpt accepts a header with no ppt parameter.
	AllowMissingPpt bool
}

// Parse validates the Identity header grammar and extracts the JWS and its
// parameters. Structural and parameter-grammar violations map to SIP 438;
// a syntactically invalid info URL maps to 436, since it can never be
// resolved to a certificate.
func Parse(value string, opts ParseOptions) (*Identity, error) {
	jws, rest, found := strings.Cut(value, ";")
	if !found {
		return nil, apperr.New(apperr.KindInvalidIdentityHeader, "missing parameters", nil)
	}

	jws = strings.TrimSpace(jws)
	if strings.Count(jws, ".") != 2 {
		return nil, apperr.New(apperr.KindInvalidIdentityHeader, "jws must have exactly two structural dots", nil)
	}

	segments := strings.Split(jws, ".")
	for _, seg := range segments {
		if seg == "" {
			return nil, apperr.New(apperr.KindInvalidIdentityHeader, "jws segment is empty", nil)
		}
	}

	id := &Identity{JWS: jws}

	for _, rawParam := range strings.Split(rest, ";") {
		param := strings.TrimSpace(rawParam)
		if param == "" {
			continue
		}

		name, value, found := strings.Cut(param, "=")
		if !found {
			return nil, apperr.New(apperr.KindInvalidIdentityHeader, fmt.Sprintf("malformed parameter %q", param), nil)
		}

		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)

		switch name {
		case paramInfo:
			if err := parseInfo(value, id); err != nil {
				return nil, err
			}
		case paramAlg:
			id.Alg = value
		case paramPpt:
			id.Ppt = value
		}
	}

	if id.InfoURL == "" {
		return nil, apperr.New(apperr.KindInvalidIdentityHeader, "missing info parameter", nil)
	}

	if id.Alg != algValue {
		return nil, apperr.New(apperr.KindInvalidIdentityHeader, fmt.Sprintf("unsupported alg %q", id.Alg), nil)
	}

	if id.Ppt == "" {
		if !opts.AllowMissingPpt {
			return nil, apperr.New(apperr.KindInvalidIdentityHeader, "missing ppt parameter", nil)
		}
	} else if id.Ppt != pptValue {
		return nil, apperr.New(apperr.KindInvalidIdentityHeader, fmt.Sprintf("unsupported ppt %q", id.Ppt), nil)
	}

	return id, nil
}

// parseInfo strips the mandatory angle brackets from the info parameter
// value and validates it as an absolute URL.
func parseInfo(raw string, id *Identity) error {
	if !strings.HasPrefix(raw, "<") || !strings.HasSuffix(raw, ">") {
		return apperr.New(apperr.KindInvalidIdentityHeader, "info value must be enclosed in angle brackets", nil)
	}

	inner := raw[1 : len(raw)-1]

	parsed, err := url.Parse(inner)
	if err != nil || !parsed.IsAbs() {
		return apperr.New(apperr.KindBadIdentityInfo, fmt.Sprintf("info is not an absolute URL: %q", inner), err)
	}

	id.InfoURL = inner

	return nil
}
