// Copyright (c) 2025 Justin Cranford

// Package subject models the minimal Country/CommonName identity the
// CA/CSR tooling carries on certificates and CSRs, and renders it as a
// crypto/x509/pkix.Name.
package subject

import (
	"crypto/x509/pkix"

	"stirshaken/internal/apperr"
)

// Name is a Country + CommonName identity, used for both the CSR subject
// and the issuer of a CA or end-entity certificate.
type Name struct {
	Country    string
	CommonName string
}

// Validate checks that both fields are present; the tooling never issues
// an anonymous or stateless cert.
func (n Name) Validate() error {
	if n.Country == "" {
		return apperr.New(apperr.KindGeneral, "subject country is required", nil)
	}

	if n.CommonName == "" {
		return apperr.New(apperr.KindGeneral, "subject common name is required", nil)
	}

	return nil
}

// PKIXName renders n as a crypto/x509/pkix.Name for embedding in a CSR or
// certificate template.
func (n Name) PKIXName() pkix.Name {
	return pkix.Name{
		Country:    []string{n.Country},
		CommonName: n.CommonName,
	}
}
