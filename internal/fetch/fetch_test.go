// Copyright (c) 2025 Justin Cranford

package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"stirshaken/internal/apperr"
)

func TestNewHTTPFetcher_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("cert-bytes"))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.Client())

	body, err := fetcher(context.Background(), server.URL)
	require.NoError(t, err)
	require.Equal(t, "cert-bytes", string(body))
}

func TestNewHTTPFetcher_NonTwoXXMapsToBadIdentityInfo(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.Client())

	_, err := fetcher(context.Background(), server.URL)
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.KindBadIdentityInfo, appErr.Kind)
	require.Equal(t, 436, appErr.Kind.SIPStatus())
}

func TestNewHTTPFetcher_UnreachableHostMapsToBadIdentityInfo(t *testing.T) {
	t.Parallel()

	fetcher := NewHTTPFetcher(nil)

	_, err := fetcher(context.Background(), "http://127.0.0.1:1")
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.KindBadIdentityInfo, appErr.Kind)
}

func TestStatic_ReturnsFixedBody(t *testing.T) {
	t.Parallel()

	fetcher := Static([]byte("fixed"))

	body, err := fetcher(context.Background(), "https://ignored.example/cert.pem")
	require.NoError(t, err)
	require.Equal(t, "fixed", string(body))
}
