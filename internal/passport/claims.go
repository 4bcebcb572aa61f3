// Copyright (c) 2025 Justin Cranford

// Package passport builds, signs, parses, and verifies PASSporT objects
// (RFC 8225) under the SHAKEN profile (ATIS-1000074 / RFC 8588). It owns the
// claim model and the canonical JSON encoding; signing itself is delegated
// to internal/crypto/jose so this package never touches raw ECDSA math.
package passport

import (
	"encoding/json"
	"errors"
	"fmt"
)

// KeyTN and KeyURI are the two recognized shapes for the orig/dest identity
// objects.
const (
	KeyTN  = "tn"
	KeyURI = "uri"
)

// Attest levels defined by SHAKEN.
const (
	AttestFull    = "A"
	AttestPartial = "B"
	AttestGateway = "C"
)

var (
	// ErrInvalidEndpointShape is returned when an orig/dest object is not a
	// single-key {tn|uri: value} structure.
	ErrInvalidEndpointShape = errors.New("passport: orig/dest must be a single-key tn or uri object")
	// ErrUnknownEndpointKey is returned for an orig/dest key other than tn/uri.
	ErrUnknownEndpointKey = errors.New("passport: orig/dest key must be tn or uri")
)

// Endpoint is the caller-supplied identity for orig or dest: a single key
// ("tn" or "uri") and its value.
type Endpoint struct {
	Key   string
	Value string
}

// endpointView is the decoded, shape-classified form of an orig/dest claim,
// used on the verify path to check the received value's array/scalar shape.
type endpointView struct {
	Key     string
	Values  []string
	IsArray bool
}

func (e endpointView) empty() bool {
	return e.Key == "" || len(e.Values) == 0
}

// marshalOrig renders orig: "tn" is always a scalar string; "uri" is always
// a one-element array.
func marshalOrig(e Endpoint) (json.RawMessage, error) {
	switch e.Key {
	case KeyTN:
		return json.Marshal(map[string]string{KeyTN: e.Value})
	case KeyURI:
		return json.Marshal(map[string][]string{KeyURI: {e.Value}})
	default:
		return nil, ErrUnknownEndpointKey
	}
}

// marshalDest renders dest per RFC 8588 §5.2.1: the value is always a
// one-element array, for both "tn" and "uri" keys.
func marshalDest(e Endpoint) (json.RawMessage, error) {
	switch e.Key {
	case KeyTN, KeyURI:
		return json.Marshal(map[string][]string{e.Key: {e.Value}})
	default:
		return nil, ErrUnknownEndpointKey
	}
}

// parseEndpoint decodes a raw orig/dest claim into its key and values,
// recording whether the value was encoded as a JSON array or a bare string
// so the caller can enforce the scalar/array shape rules.
func parseEndpoint(raw json.RawMessage) (endpointView, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return endpointView{}, fmt.Errorf("%w: %s", ErrInvalidEndpointShape, err)
	}

	if len(obj) != 1 {
		return endpointView{}, ErrInvalidEndpointShape
	}

	for key, rawValue := range obj {
		var scalar string
		if err := json.Unmarshal(rawValue, &scalar); err == nil {
			return endpointView{Key: key, Values: []string{scalar}, IsArray: false}, nil
		}

		var array []string
		if err := json.Unmarshal(rawValue, &array); err == nil {
			return endpointView{Key: key, Values: array, IsArray: true}, nil
		}

		return endpointView{}, ErrInvalidEndpointShape
	}

	return endpointView{}, ErrInvalidEndpointShape
}
