// Copyright (c) 2025 Justin Cranford

// Package issuer generates CSRs carrying a TNAuthList request attribute
// and issues end-entity (service-provider) certificates from them,
// embedding the TNAuthList extension per RFC 8226.
package issuer

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // authorityKeyIdentifier is conventionally SHA-1, not a security boundary.
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"time"

	"stirshaken/internal/apperr"
	"stirshaken/internal/ca/subject"
	"stirshaken/internal/ca/tnauthlist"
)

// tnAuthListRequestOID is reused as the CSR request-attribute OID: the
// CSR carries the same TNAuthList value the issued cert will embed, so
// the CA can see what SPC the requester is asking to bind.
var tnAuthListRequestOID = tnauthlist.OID

// CSRConfig is the caller-supplied content for a CSR.
type CSRConfig struct {
	Subject subject.Name
	SPC     string
}

// GenerateCSR produces a PKCS#10 CSR whose subject is cfg.Subject and
// whose TNAuthList request attribute encodes cfg.SPC, signed with priv.
func GenerateCSR(priv *ecdsa.PrivateKey, cfg CSRConfig) ([]byte, error) {
	if err := cfg.Subject.Validate(); err != nil {
		return nil, err
	}

	if cfg.SPC == "" {
		return nil, apperr.New(apperr.KindGeneral, "spc is required", nil)
	}

	tnAuthListDER, err := tnauthlist.Marshal(tnauthlist.Entry{SPC: cfg.SPC})
	if err != nil {
		return nil, err
	}

	tmpl := &x509.CertificateRequest{
		Subject:            cfg.Subject.PKIXName(),
		SignatureAlgorithm: x509.ECDSAWithSHA256,
		ExtraExtensions: []pkix.Extension{
			{Id: tnAuthListRequestOID, Value: tnAuthListDER},
		},
	}

	der, err := x509.CreateCertificateRequest(rand.Reader, tmpl, priv)
	if err != nil {
		return nil, apperr.New(apperr.KindCrypto, "generate CSR", err)
	}

	return der, nil
}

// EECertConfig is the caller-supplied content for an end-entity
// certificate issued from a CSR.
type EECertConfig struct {
	Issuer        subject.Name
	Serial        *big.Int
	ValidityDays  int
	TNAuthListURI string
}

// IssueEECert verifies csrDER's self-signature, copies its subject, embeds
// a TNAuthList extension pointing at cfg.TNAuthListURI, sets
// authorityKeyIdentifier from the CA cert, and signs with caPriv.
func IssueEECert(caCertDER []byte, caPriv *ecdsa.PrivateKey, csrDER []byte, cfg EECertConfig) ([]byte, error) {
	if err := cfg.Issuer.Validate(); err != nil {
		return nil, err
	}

	if cfg.Serial == nil {
		return nil, apperr.New(apperr.KindGeneral, "serial is required", nil)
	}

	if cfg.ValidityDays <= 0 {
		return nil, apperr.New(apperr.KindGeneral, "validity days must be positive", nil)
	}

	if cfg.TNAuthListURI == "" {
		return nil, apperr.New(apperr.KindGeneral, "tn_auth_list_uri is required", nil)
	}

	csr, err := x509.ParseCertificateRequest(csrDER)
	if err != nil {
		return nil, apperr.New(apperr.KindUnsupportedCredential, "parse CSR", err)
	}

	if err := csr.CheckSignature(); err != nil {
		return nil, apperr.New(apperr.KindUnsupportedCredential, "CSR signature invalid", err)
	}

	caCert, err := x509.ParseCertificate(caCertDER)
	if err != nil {
		return nil, apperr.New(apperr.KindUnsupportedCredential, "parse CA certificate", err)
	}

	tnAuthListDER, err := tnauthlist.Marshal(tnauthlist.Entry{URI: cfg.TNAuthListURI})
	if err != nil {
		return nil, err
	}

	now := time.Now()

	tmpl := &x509.Certificate{
		SerialNumber:       cfg.Serial,
		Subject:            csr.Subject,
		Issuer:             cfg.Issuer.PKIXName(),
		NotBefore:          now.Add(-5 * time.Minute),
		NotAfter:           now.AddDate(0, 0, cfg.ValidityDays),
		KeyUsage:           x509.KeyUsageDigitalSignature,
		ExtKeyUsage:        []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		AuthorityKeyId:     authorityKeyIdentifier(caCert),
		SignatureAlgorithm: x509.ECDSAWithSHA256,
		ExtraExtensions: []pkix.Extension{
			{Id: tnauthlist.OID, Value: tnAuthListDER},
		},
	}

	pub, ok := csr.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return nil, apperr.New(apperr.KindUnsupportedCredential, "CSR public key is not ECDSA", nil)
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, caCert, pub, caPriv)
	if err != nil {
		return nil, apperr.New(apperr.KindCrypto, "issue end-entity certificate", err)
	}

	return der, nil
}

func authorityKeyIdentifier(caCert *x509.Certificate) []byte {
	if len(caCert.SubjectKeyId) > 0 {
		return caCert.SubjectKeyId
	}

	pub, ok := caCert.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return nil
	}

	point := elliptic.Marshal(pub.Curve, pub.X, pub.Y) //nolint:staticcheck // SEC1 point encoding
	sum := sha1.Sum(point)                             //nolint:gosec // AKI convention, not a security digest

	return sum[:]
}
