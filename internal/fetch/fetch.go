// Copyright (c) 2025 Justin Cranford

// Package fetch defines the certificate-retrieval capability the
// verification service depends on. The core never owns a transport; it
// consumes a Func value so tests can supply canned responses and so the
// production binary can plug in whatever HTTP stack it likes.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"stirshaken/internal/apperr"
)

// DefaultTimeout is the fetch deadline applied when the caller's context
// carries no earlier deadline.
const DefaultTimeout = 10 * time.Second

// Func resolves a URL to its raw body bytes, or an error. Implementations
// MUST honor ctx's deadline and MUST NOT retry internally; retry policy
// belongs to the caller.
type Func func(ctx context.Context, url string) ([]byte, error)

// NewHTTPFetcher returns a Func backed by client, performing a plain HTTPS
// GET. A nil client uses http.DefaultClient. Any network, TLS, or non-2xx
// HTTP response is wrapped as apperr.KindBadIdentityInfo (SIP 436), since
// an unreadable cert URL is indistinguishable from a bad one at this layer.
func NewHTTPFetcher(client *http.Client) Func {
	if client == nil {
		client = http.DefaultClient
	}

	return func(ctx context.Context, url string) ([]byte, error) {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)

			defer cancel()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, apperr.New(apperr.KindBadIdentityInfo, fmt.Sprintf("build request for %s", url), err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, apperr.New(apperr.KindBadIdentityInfo, fmt.Sprintf("fetch %s", url), err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, apperr.New(apperr.KindBadIdentityInfo, fmt.Sprintf("fetch %s: status %d", url, resp.StatusCode), nil)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, apperr.New(apperr.KindBadIdentityInfo, fmt.Sprintf("read body from %s", url), err)
		}

		return body, nil
	}
}

// Static returns a Func that always resolves to body, ignoring url and ctx.
// Used by tests and by tooling that already has the cert bytes in hand.
func Static(body []byte) Func {
	return func(ctx context.Context, url string) ([]byte, error) {
		return body, nil
	}
}
