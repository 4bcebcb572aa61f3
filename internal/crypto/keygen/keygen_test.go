// Copyright (c) 2025 Justin Cranford

package keygen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	cryptoutilJose "stirshaken/internal/crypto/jose"
)

func TestWriteLoadPrivateKeyPEM_RoundTrip(t *testing.T) {
	t.Parallel()

	priv, _, _, err := cryptoutilJose.GenerateES256KeyPair()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "key.pem")
	require.NoError(t, WritePrivateKeyPEM(path, priv))

	loaded, err := LoadPrivateKeyPEM(path)
	require.NoError(t, err)
	require.Equal(t, priv.D, loaded.D)
}

func TestWriteLoadPublicKeyPEM_RoundTrip(t *testing.T) {
	t.Parallel()

	_, pub, _, err := cryptoutilJose.GenerateES256KeyPair()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "key.pub.pem")
	require.NoError(t, WritePublicKeyPEM(path, pub))

	loaded, err := LoadPublicKeyPEM(path)
	require.NoError(t, err)
	require.True(t, pub.Equal(loaded))
}

func TestLoadPrivateKeyPEM_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadPrivateKeyPEM(filepath.Join(t.TempDir(), "missing.pem"))
	require.Error(t, err)
}

func TestLoadPrivateKeyPEM_NoPEMBlock(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notpem.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a pem file"), 0o600))

	_, err := LoadPrivateKeyPEM(path)
	require.ErrorIs(t, err, ErrNoPEMBlock)
}
