// Copyright (c) 2025 Justin Cranford

// Package trust runs RFC 5280 basic path validation against a trust-roots
// directory and an optional CRL directory, and computes the
// OpenSSL-style subject-hash filename used to index that directory.
package trust

import (
	"crypto/sha1" //nolint:gosec // OpenSSL subject-hash filenames are defined over SHA-1, not used for security.
	"crypto/x509"
	"encoding/binary"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stirshaken/internal/apperr"
	"stirshaken/internal/ca/tnauthlist"
)

// Outcome classifies the result of chain validation.
type Outcome string

const (
	OutcomeOK                Outcome = "OK"
	OutcomeUntrusted         Outcome = "UNTRUSTED"
	OutcomeRevoked           Outcome = "REVOKED"
	OutcomeExpired           Outcome = "EXPIRED"
	OutcomeMalformed         Outcome = "MALFORMED"
	OutcomeMissingTNAuthList Outcome = "MISSING_TN_AUTH_LIST"
)

// SIPStatus maps a validation outcome onto its SIP status: everything
// except a missing TNAuthList is 437; that one is 438.
func (o Outcome) SIPStatus() int {
	if o == OutcomeMissingTNAuthList {
		return 438
	}

	if o == OutcomeOK {
		return 0
	}

	return 437
}

// SubjectHashFilename computes the OpenSSL-style "<8-hex>.0" trust-anchor
// filename for a certificate's subject DER: the first 4 bytes of its
// SHA-1 digest, read little-endian, hex-encoded.
func SubjectHashFilename(subjectDER []byte) string {
	digest := sha1.Sum(subjectDER) //nolint:gosec // filename indexing only
	hash := binary.LittleEndian.Uint32(digest[:4])

	return fmt.Sprintf("%08x.0", hash)
}

// Options tunes chain-validation policy.
type Options struct {
	TrustDir string
	CRLDir   string
	// RequireCRL rejects a cert whose issuer has no CRL file in CRLDir.
	// Callers that configure a CRLDir should default this to true.
	RequireCRL bool
	Now        func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}

	return time.Now()
}

// Validate parses certDER, checks it against the trust roots directory,
// requires the TNAuthList extension, and consults the CRL directory if
// configured. It returns the parsed certificate (even on a non-OK outcome,
// when parsing itself succeeded) so the caller can log details.
func Validate(certDER []byte, opts Options) (*x509.Certificate, Outcome, error) {
	cert, err := x509.ParseCertificate(certDER)
	if err != nil {
		return nil, OutcomeMalformed, apperr.New(apperr.KindUnsupportedCredential, "parse certificate", err)
	}

	pool, err := loadTrustPool(opts.TrustDir)
	if err != nil {
		return cert, OutcomeMalformed, apperr.New(apperr.KindUnsupportedCredential, "load trust store", err)
	}

	if _, err := cert.Verify(x509.VerifyOptions{Roots: pool, CurrentTime: opts.now()}); err != nil {
		return cert, classifyVerifyError(err), apperr.New(apperr.KindUnsupportedCredential, "chain validation failed", err)
	}

	hasTNAuthList := false

	for _, ext := range cert.Extensions {
		if ext.Id.Equal(tnauthlist.OID) {
			hasTNAuthList = true
			break
		}
	}

	if !hasTNAuthList {
		return cert, OutcomeMissingTNAuthList, apperr.New(apperr.KindInvalidIdentityHeader, "certificate has no TNAuthList extension", nil)
	}

	if opts.CRLDir != "" {
		revoked, err := checkRevocation(cert, opts.CRLDir, opts.RequireCRL)
		if err != nil {
			return cert, OutcomeRevoked, err
		}

		if revoked {
			return cert, OutcomeRevoked, apperr.New(apperr.KindUnsupportedCredential, "certificate is revoked", nil)
		}
	}

	return cert, OutcomeOK, nil
}

func classifyVerifyError(err error) Outcome {
	var invalidErr x509.CertificateInvalidError
	if errors.As(err, &invalidErr) {
		if invalidErr.Reason == x509.Expired {
			return OutcomeExpired
		}

		return OutcomeMalformed
	}

	var unknownAuthErr x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthErr) {
		return OutcomeUntrusted
	}

	return OutcomeMalformed
}

func loadTrustPool(dir string) (*x509.CertPool, error) {
	pool := x509.NewCertPool()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read trust dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read trust anchor %s: %w", entry.Name(), err)
		}

		if !pool.AppendCertsFromPEM(raw) {
			if cert, err := x509.ParseCertificate(raw); err == nil {
				pool.AddCert(cert)
			}
		}
	}

	return pool, nil
}

// checkRevocation looks for a CRL file named after the cert issuer's
// subject-hash filename (with a .r0 extension) in crlDir and checks
// whether cert's serial number appears in its revocation list.
func checkRevocation(cert *x509.Certificate, crlDir string, requireCRL bool) (bool, error) {
	crlPath := filepath.Join(crlDir, crlFilename(cert.RawIssuer))

	raw, err := os.ReadFile(crlPath)
	if err != nil {
		if requireCRL {
			return false, apperr.New(apperr.KindUnsupportedCredential, "no CRL found for issuer", err)
		}

		return false, nil
	}

	if block, _ := pem.Decode(raw); block != nil {
		raw = block.Bytes
	}

	crl, err := x509.ParseRevocationList(raw)
	if err != nil {
		return false, apperr.New(apperr.KindUnsupportedCredential, "parse CRL", err)
	}

	for _, revoked := range crl.RevokedCertificateEntries {
		if revoked.SerialNumber.Cmp(cert.SerialNumber) == 0 {
			return true, nil
		}
	}

	return false, nil
}

func crlFilename(issuerDER []byte) string {
	base := SubjectHashFilename(issuerDER)
	return base[:len(base)-len(".0")] + ".r0"
}

// WriteTrustAnchor writes certDER's PEM form under dir using its
// subject-hash filename, so it can be discovered as a trust-anchor
// directory entry.
func WriteTrustAnchor(dir string, certDER []byte) (string, error) {
	cert, err := x509.ParseCertificate(certDER)
	if err != nil {
		return "", apperr.New(apperr.KindUnsupportedCredential, "parse certificate", err)
	}

	name := SubjectHashFilename(cert.RawSubject)
	path := filepath.Join(dir, name)

	block := &pem.Block{Type: "CERTIFICATE", Bytes: certDER}
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o644); err != nil {
		return "", fmt.Errorf("write trust anchor %s: %w", path, err)
	}

	return path, nil
}
