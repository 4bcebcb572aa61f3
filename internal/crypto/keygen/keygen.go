// Copyright (c) 2025 Justin Cranford

// Package keygen loads and persists ES256 key material as PEM, the on-disk
// format the CA/CSR tooling uses for its --private-key and --public-key
// flags.
package keygen

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

const (
	pemBlockECPrivateKey = "EC PRIVATE KEY"
	pemBlockPublicKey    = "PUBLIC KEY"
)

var (
	// ErrNotECDSAKey is returned when a loaded PEM block does not decode to
	// an ECDSA key.
	ErrNotECDSAKey = errors.New("keygen: PEM block is not an ECDSA key")
	// ErrNoPEMBlock is returned when a file contains no PEM block.
	ErrNoPEMBlock = errors.New("keygen: no PEM block found")
)

// WritePrivateKeyPEM writes priv to path as a SEC1 "EC PRIVATE KEY" PEM file.
func WritePrivateKeyPEM(path string, priv *ecdsa.PrivateKey) error {
	der, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		return fmt.Errorf("keygen: marshal private key: %w", err)
	}

	block := &pem.Block{Type: pemBlockECPrivateKey, Bytes: der}

	return os.WriteFile(path, pem.EncodeToMemory(block), 0o600)
}

// WritePublicKeyPEM writes pub to path as a PKIX "PUBLIC KEY" PEM file.
func WritePublicKeyPEM(path string, pub *ecdsa.PublicKey) error {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return fmt.Errorf("keygen: marshal public key: %w", err)
	}

	block := &pem.Block{Type: pemBlockPublicKey, Bytes: der}

	return os.WriteFile(path, pem.EncodeToMemory(block), 0o644)
}

// LoadPrivateKeyPEM reads an ES256 private key from a PEM file. It accepts
// both SEC1 "EC PRIVATE KEY" and PKCS#8 "PRIVATE KEY" blocks.
func LoadPrivateKeyPEM(path string) (*ecdsa.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keygen: read %s: %w", path, err)
	}

	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, ErrNoPEMBlock
	}

	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("keygen: parse private key: %w", err)
	}

	key, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, ErrNotECDSAKey
	}

	return key, nil
}

// LoadPublicKeyPEM reads an ES256 public key from a PKIX "PUBLIC KEY" PEM file.
func LoadPublicKeyPEM(path string) (*ecdsa.PublicKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keygen: read %s: %w", path, err)
	}

	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, ErrNoPEMBlock
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("keygen: parse public key: %w", err)
	}

	key, ok := parsed.(*ecdsa.PublicKey)
	if !ok {
		return nil, ErrNotECDSAKey
	}

	return key, nil
}
