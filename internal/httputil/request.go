// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP request primitive shared by remote
// clients: a GET that carries the caller's User-Agent and accepts only a
// declared set of status codes.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"

	"github.com/pdiddy/doi-fix/pkg/types"
)

// Doer sends an HTTP request. *http.Client satisfies it; tests substitute
// counting or failing implementations.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError reports a response whose status code was not accepted.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// Get issues a GET for rawURL with the given User-Agent. Statuses listed in
// accepted (default 200 only) are returned to the caller, who must close the
// body. Any other status is drained, closed, and reported as a StatusError.
// All failures wrap types.ErrTransport. Get never retries.
func Get(ctx context.Context, client Doer, rawURL, userAgent string, accepted ...int) (*http.Response, error) {
	if len(accepted) == 0 {
		accepted = []int{http.StatusOK}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", types.ErrTransport, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrTransport, err)
	}

	if !slices.Contains(accepted, resp.StatusCode) {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %w", types.ErrTransport, &StatusError{URL: rawURL, StatusCode: resp.StatusCode})
	}
	return resp, nil
}
