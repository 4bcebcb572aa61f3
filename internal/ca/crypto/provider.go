// Copyright (c) 2025 Justin Cranford

// Package crypto abstracts key-pair generation behind a Provider interface
// so the CA/CSR tooling never hard-codes a single crypto backend. Only the
// ES256 (ECDSA P-256) key type is supported: this core signs nothing else.
package crypto

import (
	"crypto/ecdsa"

	"stirshaken/internal/apperr"
	cryptoutilJose "stirshaken/internal/crypto/jose"
)

// KeyType names the supported key algorithm family. ES256 is the only
// member today; the type exists so a future key type is additive rather
// than a breaking signature change.
type KeyType string

// KeyTypeECDSA is the sole supported key type: ECDSA on curve P-256.
const KeyTypeECDSA KeyType = "ECDSA"

// KeySpec describes the key material a caller wants generated.
type KeySpec struct {
	Type KeyType
}

// KeyPair is a generated key pair plus its descriptive metadata.
type KeyPair struct {
	PrivateKey *ecdsa.PrivateKey
	PublicKey  *ecdsa.PublicKey
	Type       KeyType
	Algorithm  string
}

// Provider generates key pairs. SoftwareProvider is the only implementation
// today; the interface exists so an HSM- or KMS-backed provider can be
// substituted without touching callers.
type Provider interface {
	GenerateKeyPair(spec KeySpec) (*KeyPair, error)
}

// SoftwareProvider generates key material in host memory via crypto/ecdsa.
type SoftwareProvider struct{}

// NewSoftwareProvider returns a Provider backed by the host's crypto/rand.
func NewSoftwareProvider() *SoftwareProvider {
	return &SoftwareProvider{}
}

// GenerateKeyPair validates spec and generates an ES256 key pair. Any Type
// other than KeyTypeECDSA fails, since this tooling never issues or
// verifies credentials on any other curve.
func (p *SoftwareProvider) GenerateKeyPair(spec KeySpec) (*KeyPair, error) {
	if spec.Type != KeyTypeECDSA {
		return nil, apperr.New(apperr.KindGeneral, "unsupported key type: "+string(spec.Type), nil)
	}

	priv, pub, _, err := cryptoutilJose.GenerateES256KeyPair()
	if err != nil {
		return nil, apperr.New(apperr.KindCrypto, "generate ES256 key pair", err)
	}

	return &KeyPair{
		PrivateKey: priv,
		PublicKey:  pub,
		Type:       KeyTypeECDSA,
		Algorithm:  "ECDSA-P-256",
	}, nil
}
