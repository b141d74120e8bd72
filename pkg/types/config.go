// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Identity describes the running tool. It is set once by the composition
// root and passed to the components that need it.
type Identity struct {
	// ID is the product name sent in the User-Agent (e.g. "doi-fix").
	ID string `json:"id" yaml:"id"`

	// Version is the build version.
	Version string `json:"version" yaml:"version"`

	// RootURI is the location the tool was started from. Informational only.
	RootURI string `json:"root_uri" yaml:"root_uri"`
}

// UserAgent returns "<id>/<version>", with a mailto comment appended when
// mailto is non-empty, as CrossRef asks of polite clients.
func (id Identity) UserAgent(mailto string) string {
	ua := id.ID + "/" + id.Version
	if mailto != "" {
		ua += " (mailto:" + mailto + ")"
	}
	return ua
}

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "doi-fix/0.1 (mailto:me@example.org)").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CrossRefConfig holds settings for the CrossRef client.
type CrossRefConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the API root without a trailing slash (default https://api.crossref.org).
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Rows caps the number of candidates requested per search (default 5).
	Rows int `json:"rows" yaml:"rows"`

	// Mailto is the contact address sent as the mailto parameter for polite pool access.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty"`

	// YearFilter restricts searches to the item's publication year when one is known.
	YearFilter bool `json:"year_filter" yaml:"year_filter"`
}

// LibraryConfig holds settings for the local item library.
type LibraryConfig struct {
	// Path is the SQLite database file (default "library.db").
	Path string `json:"path" yaml:"path"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level"`

	// Format is "text" or "json" (default text).
	Format string `json:"format" yaml:"format"`
}

// Config groups all settings for a doi-fix run.
type Config struct {
	CrossRef CrossRefConfig `json:"crossref" yaml:"crossref"`
	Library  LibraryConfig  `json:"library" yaml:"library"`
	Log      LogConfig      `json:"log" yaml:"log"`
}
