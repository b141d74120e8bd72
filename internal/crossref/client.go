// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crossref queries the CrossRef REST API to find the DOI of a work
// from its title and authors, and to check that a DOI is registered.
//
// Remote failures never escape the high-level calls: FindDOI degrades to
// "no DOI" and Validate to "invalid", logging the cause. Search and Exists
// expose the underlying errors for callers that want them.
package crossref

import (
	"log/slog"
	"strings"

	"github.com/pdiddy/doi-fix/internal/httputil"
	"github.com/pdiddy/doi-fix/pkg/types"
)

// DefaultBaseURL is the public CrossRef API root.
const DefaultBaseURL = "https://api.crossref.org"

// DefaultRows is the number of candidates requested per search.
const DefaultRows = 5

const defaultUserAgent = "doi-fix/dev"

// Client talks to one CrossRef API root.
type Client struct {
	http       httputil.Doer
	baseURL    string
	rows       int
	mailto     string
	yearFilter bool
	userAgent  string
	logger     *slog.Logger
}

// New returns a client using doer for requests. Zero-valued settings in cfg
// fall back to DefaultBaseURL and DefaultRows. A nil logger uses slog.Default.
func New(doer httputil.Doer, cfg types.CrossRefConfig, logger *slog.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	rows := cfg.Rows
	if rows <= 0 {
		rows = DefaultRows
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:       doer,
		baseURL:    baseURL,
		rows:       rows,
		mailto:     cfg.Mailto,
		yearFilter: cfg.YearFilter,
		userAgent:  ua,
		logger:     logger,
	}
}
