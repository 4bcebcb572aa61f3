// Copyright (c) 2025 Justin Cranford

package jose

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeSegment_RoundTrip(t *testing.T) {
	t.Parallel()

	cases := [][]byte{
		nil,
		{},
		[]byte("hello, world!"),
		{0x00, 0x01, 0xff, 0xfe, 0x10},
	}

	for _, c := range cases {
		encoded := EncodeSegment(c)
		require.NotContains(t, encoded, "=")
		require.NotContains(t, encoded, "+")
		require.NotContains(t, encoded, "/")

		decoded, err := DecodeSegment(encoded)
		require.NoError(t, err)
		require.Equal(t, c, decoded)
	}
}

func TestDecodeSegment_TolerantOfPadding(t *testing.T) {
	t.Parallel()

	decoded, err := DecodeSegment("aGVsbG8=")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), decoded)
}

func TestDecodeSegment_RejectsInvalidAlphabet(t *testing.T) {
	t.Parallel()

	_, err := DecodeSegment("not base64url!!")
	require.Error(t, err)
}

func TestSignVerifyES256_RoundTrip(t *testing.T) {
	t.Parallel()

	priv, pub, raw32, err := GenerateES256KeyPair()
	require.NoError(t, err)
	require.Len(t, raw32, 32)

	msg := []byte("header.payload")

	sig, err := SignES256(priv, msg)
	require.NoError(t, err)
	require.Len(t, sig, rawSignatureLen)

	require.NoError(t, VerifyES256(pub, msg, sig))
}

func TestVerifyES256_RejectsTamperedMessage(t *testing.T) {
	t.Parallel()

	priv, pub, _, err := GenerateES256KeyPair()
	require.NoError(t, err)

	sig, err := SignES256(priv, []byte("original"))
	require.NoError(t, err)

	err = VerifyES256(pub, []byte("tampered"), sig)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyES256_RejectsMalformedSignature(t *testing.T) {
	t.Parallel()

	_, pub, _, err := GenerateES256KeyPair()
	require.NoError(t, err)

	err = VerifyES256(pub, []byte("msg"), []byte("too-short"))
	require.ErrorIs(t, err, ErrSignatureLength)
}

func TestPrivateKeyFromRaw32_RoundTrip(t *testing.T) {
	t.Parallel()

	priv, pub, raw32, err := GenerateES256KeyPair()
	require.NoError(t, err)

	reconstructed, err := PrivateKeyFromRaw32(raw32)
	require.NoError(t, err)
	require.Equal(t, priv.D, reconstructed.D)
	require.True(t, pub.Equal(&reconstructed.PublicKey))
}
