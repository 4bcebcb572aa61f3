// Copyright (c) 2025 Justin Cranford

package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSoftwareProvider_GenerateKeyPair(t *testing.T) {
	t.Parallel()

	provider := NewSoftwareProvider()

	kp, err := provider.GenerateKeyPair(KeySpec{Type: KeyTypeECDSA})
	require.NoError(t, err)
	require.Equal(t, KeyTypeECDSA, kp.Type)
	require.Equal(t, "ECDSA-P-256", kp.Algorithm)
	require.True(t, kp.PrivateKey.PublicKey.Equal(kp.PublicKey))
}

func TestSoftwareProvider_RejectsUnsupportedType(t *testing.T) {
	t.Parallel()

	provider := NewSoftwareProvider()

	_, err := provider.GenerateKeyPair(KeySpec{Type: "RSA"})
	require.Error(t, err)
}
