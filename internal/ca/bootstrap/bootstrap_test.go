// Copyright (c) 2025 Justin Cranford

package bootstrap

import (
	"crypto/x509"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"stirshaken/internal/ca/subject"
	cryptoutilJose "stirshaken/internal/crypto/jose"
)

func TestIssue_ProducesSelfSignedCACert(t *testing.T) {
	t.Parallel()

	priv, pub, _, err := cryptoutilJose.GenerateES256KeyPair()
	require.NoError(t, err)

	der, err := Issue(priv, pub, Config{
		Issuer:       subject.Name{Country: "US", CommonName: "Example Root CA"},
		Serial:       big.NewInt(1),
		ValidityDays: 3650,
	})
	require.NoError(t, err)

	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	require.True(t, cert.IsCA)
	require.Equal(t, cert.RawSubject, cert.RawIssuer)
	require.NotEmpty(t, cert.SubjectKeyId)
	require.NoError(t, cert.CheckSignatureFrom(cert))
}

func TestIssue_RejectsMissingSerial(t *testing.T) {
	t.Parallel()

	priv, pub, _, err := cryptoutilJose.GenerateES256KeyPair()
	require.NoError(t, err)

	_, err = Issue(priv, pub, Config{
		Issuer:       subject.Name{Country: "US", CommonName: "Example Root CA"},
		ValidityDays: 1,
	})
	require.Error(t, err)
}

func TestIssue_RejectsInvalidSubject(t *testing.T) {
	t.Parallel()

	priv, pub, _, err := cryptoutilJose.GenerateES256KeyPair()
	require.NoError(t, err)

	_, err = Issue(priv, pub, Config{Serial: big.NewInt(1), ValidityDays: 1})
	require.Error(t, err)
}
