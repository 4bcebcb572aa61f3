// Copyright (c) 2025 Justin Cranford

package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSIPStatus_Mapping(t *testing.T) {
	t.Parallel()

	require.Equal(t, 403, KindStaleDate.SIPStatus())
	require.Equal(t, 428, KindUseIdentityHeader.SIPStatus())
	require.Equal(t, 436, KindBadIdentityInfo.SIPStatus())
	require.Equal(t, 437, KindUnsupportedCredential.SIPStatus())
	require.Equal(t, 438, KindInvalidIdentityHeader.SIPStatus())
	require.Equal(t, 438, KindInvalidSignature.SIPStatus())
	require.Equal(t, 0, KindGeneral.SIPStatus())
	require.Equal(t, 0, KindCrypto.SIPStatus())
}

func TestNew_PopulatesCorrelationIDAndTimestamp(t *testing.T) {
	t.Parallel()

	err := New(KindInvalidIdentityHeader, "missing info param", nil)

	require.NotEqual(t, "", err.ID.String())
	require.True(t, err.Timestamp.Location() == err.Timestamp.UTC().Location())
	require.Contains(t, err.Error(), "438")
	require.Contains(t, err.Error(), "missing info param")
}

func TestError_IncludesWrappedCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: timeout")
	err := New(KindBadIdentityInfo, "cert fetch failed", cause)

	require.Contains(t, err.Error(), "dial tcp: timeout")
	require.ErrorIs(t, err, cause)
}

func TestWrap_PreservesRootCause(t *testing.T) {
	t.Parallel()

	root := New(KindStaleDate, "iat too old", nil)

	wrapped := Wrap(KindGeneral, "outer failure", root)
	require.Same(t, root, wrapped)
	require.Equal(t, KindStaleDate, wrapped.Kind)
}

func TestWrap_CreatesNewErrorForPlainCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("plain")

	wrapped := Wrap(KindCrypto, "sign failed", cause)
	require.Equal(t, KindCrypto, wrapped.Kind)
	require.Equal(t, cause, wrapped.Err)
}

func TestStatus_OfPlainError(t *testing.T) {
	t.Parallel()

	_, ok := Status(errors.New("not an apperr"))
	require.False(t, ok)
}

func TestStatus_OfAppError(t *testing.T) {
	t.Parallel()

	status, ok := Status(New(KindUnsupportedCredential, "untrusted issuer", nil))
	require.True(t, ok)
	require.Equal(t, 437, status)
}
