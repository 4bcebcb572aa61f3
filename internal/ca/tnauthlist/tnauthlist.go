// Copyright (c) 2025 Justin Cranford

// Package tnauthlist encodes and parses the TNAuthList X.509 extension
// (RFC 8226 §9, OID 1.3.6.1.5.5.7.1.26) that binds an end-entity cert to a
// telephone-number authority. No example repo in this corpus carries a
// custom X.509 extension codec, so this is built directly on the
// stdlib encoding/asn1 primitives x509 issuance already depends on.
package tnauthlist

import (
	"encoding/asn1"

	"stirshaken/internal/apperr"
)

// OID is the TNAuthList extension's object identifier.
var OID = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 1, 26}

// Choice tags for the TNEntry CHOICE, RFC 8226 §9. tagURI is not part of
// the RFC's TNEntry CHOICE (spc/range/one); this deployment's CLI only
// ever supplies a cert-fetch URL for the extension, so tagURI is a
// pragmatic fourth choice carrying that URL as an IA5String, kept distinct
// from the RFC's "one" (single TN) choice.
const (
	tagSPC = 0
	tagURI = 3
)

var (
	// ErrEmptyEntry is returned by Marshal when neither SPC nor URI is set.
	ErrEmptyEntry = apperr.New(apperr.KindGeneral, "tnauthlist: entry must set SPC or URI", nil)
	// ErrEmptyList is returned by Parse on a TNAuthorizationList with no entries.
	ErrEmptyList = apperr.New(apperr.KindUnsupportedCredential, "tnauthlist: empty TNAuthorizationList", nil)
	// ErrUnsupportedChoice is returned by Parse for a TNEntry CHOICE tag this
	// package does not recognize.
	ErrUnsupportedChoice = apperr.New(apperr.KindUnsupportedCredential, "tnauthlist: unsupported TNEntry choice", nil)
)

// Entry is one TNEntry. Exactly one of SPC or URI should be set.
type Entry struct {
	SPC string
	URI string
}

// Marshal DER-encodes a one-element TNAuthorizationList carrying e.
func Marshal(e Entry) ([]byte, error) {
	var raw asn1.RawValue

	switch {
	case e.SPC != "":
		raw = asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: tagSPC, Bytes: []byte(e.SPC)}
	case e.URI != "":
		raw = asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: tagURI, Bytes: []byte(e.URI)}
	default:
		return nil, ErrEmptyEntry
	}

	der, err := asn1.Marshal([]asn1.RawValue{raw})
	if err != nil {
		return nil, apperr.New(apperr.KindCrypto, "marshal TNAuthorizationList", err)
	}

	return der, nil
}

// Parse decodes a TNAuthorizationList DER value and returns its first
// entry. This core only ever writes and reads single-entry lists.
func Parse(der []byte) (Entry, error) {
	var entries []asn1.RawValue
	if _, err := asn1.Unmarshal(der, &entries); err != nil {
		return Entry{}, apperr.New(apperr.KindUnsupportedCredential, "parse TNAuthorizationList", err)
	}

	if len(entries) == 0 {
		return Entry{}, ErrEmptyList
	}

	switch entries[0].Tag {
	case tagSPC:
		return Entry{SPC: string(entries[0].Bytes)}, nil
	case tagURI:
		return Entry{URI: string(entries[0].Bytes)}, nil
	default:
		return Entry{}, ErrUnsupportedChoice
	}
}
