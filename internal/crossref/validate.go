// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crossref

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pdiddy/doi-fix/internal/doi"
	"github.com/pdiddy/doi-fix/internal/httputil"
	"github.com/pdiddy/doi-fix/pkg/types"
)

// Exists reports whether CrossRef has a record for the DOI. The DOI is
// cleaned first, so resolver URLs are accepted. HTTP 200 means registered
// and 404 means not; any other status or a transport failure is an error.
func (c *Client) Exists(ctx context.Context, rawDOI string) (bool, error) {
	d := doi.Clean(rawDOI)
	if d == "" {
		return false, fmt.Errorf("%w: empty DOI", types.ErrInput)
	}

	reqURL := c.baseURL + "/works/" + url.PathEscape(d)
	if c.mailto != "" {
		reqURL += "?" + url.Values{"mailto": {c.mailto}}.Encode()
	}

	resp, err := httputil.Get(ctx, c.http, reqURL, c.userAgent, http.StatusOK, http.StatusNotFound)
	if err != nil {
		return false, fmt.Errorf("CrossRef DOI lookup: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK, nil
}

// Validate reports whether the DOI is registered. Lookup failures are
// logged and reported as invalid.
func (c *Client) Validate(ctx context.Context, rawDOI string) bool {
	ok, err := c.Exists(ctx, rawDOI)
	if err != nil {
		c.logger.Warn("DOI validation failed", "doi", rawDOI, "error", err)
		return false
	}
	return ok
}
