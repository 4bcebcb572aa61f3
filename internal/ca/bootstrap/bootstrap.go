// Copyright (c) 2025 Justin Cranford

// Package bootstrap issues a self-signed CA certificate: the root of
// trust the CA/CSR tooling uses to sign end-entity (service-provider)
// certificates.
package bootstrap

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // subjectKeyIdentifier is conventionally SHA-1 of the public key, not a security boundary.
	"crypto/x509"
	"math/big"
	"time"

	"stirshaken/internal/apperr"
	"stirshaken/internal/ca/subject"
)

// Config is the caller-supplied content for a self-signed CA certificate.
type Config struct {
	Issuer       subject.Name
	Serial       *big.Int
	ValidityDays int
}

// Issue creates a self-signed, CA:TRUE certificate over pub, signed by
// priv: basicConstraints CA:TRUE with no pathlen, keyUsage
// keyCertSign+cRLSign, subjectKeyIdentifier from SHA-1 of the public key.
func Issue(priv *ecdsa.PrivateKey, pub *ecdsa.PublicKey, cfg Config) ([]byte, error) {
	if err := cfg.Issuer.Validate(); err != nil {
		return nil, err
	}

	if cfg.Serial == nil {
		return nil, apperr.New(apperr.KindGeneral, "serial is required", nil)
	}

	if cfg.ValidityDays <= 0 {
		return nil, apperr.New(apperr.KindGeneral, "validity days must be positive", nil)
	}

	skid := subjectKeyIdentifier(pub)

	now := time.Now()

	tmpl := &x509.Certificate{
		SerialNumber:          cfg.Serial,
		Subject:               cfg.Issuer.PKIXName(),
		Issuer:                cfg.Issuer.PKIXName(),
		NotBefore:             now.Add(-5 * time.Minute),
		NotAfter:              now.AddDate(0, 0, cfg.ValidityDays),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		SubjectKeyId:          skid,
		SignatureAlgorithm:    x509.ECDSAWithSHA256,
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, pub, priv)
	if err != nil {
		return nil, apperr.New(apperr.KindCrypto, "issue CA certificate", err)
	}

	return der, nil
}

// subjectKeyIdentifier computes the conventional SKI: SHA-1 of the
// uncompressed EC point octet string (RFC 5280 §4.2.1.2 method (1)).
func subjectKeyIdentifier(pub *ecdsa.PublicKey) []byte {
	point := elliptic.Marshal(pub.Curve, pub.X, pub.Y) //nolint:staticcheck // SEC1 point encoding, not deprecated ECDH usage
	sum := sha1.Sum(point)                             //nolint:gosec // SKI convention, not a security digest

	return sum[:]
}
