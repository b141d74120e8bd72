// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/doi-fix/internal/crossref"
	"github.com/pdiddy/doi-fix/internal/library"
	"github.com/pdiddy/doi-fix/internal/secrets"
	"github.com/pdiddy/doi-fix/pkg/types"
)

const defaultTimeout = 30 * time.Second

// envKeyReplacer maps nested keys to env names: crossref.base_url is
// read from DOI_FIX_CROSSREF_BASE_URL.
var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

func setDefaults(v *viper.Viper) {
	v.SetDefault("crossref.base_url", crossref.DefaultBaseURL)
	v.SetDefault("crossref.rows", crossref.DefaultRows)
	v.SetDefault("crossref.timeout", defaultTimeout)
	v.SetDefault("crossref.year_filter", false)
	v.SetDefault("library.path", library.DefaultPath)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// identity describes this build of the tool.
func identity() types.Identity {
	root := ""
	if exe, err := os.Executable(); err == nil {
		root = filepath.Dir(exe)
	}
	return types.Identity{ID: "doi-fix", Version: version, RootURI: root}
}

// loadConfig assembles the run configuration from v. The CrossRef mailto
// falls back to the crossref-mailto secret, and the User-Agent is derived
// from id unless configured.
func loadConfig(v *viper.Viper, id types.Identity) types.Config {
	mailto := secretDefault(secrets.KeyCrossRefMailto, v.GetString("crossref.mailto"))

	ua := v.GetString("crossref.user_agent")
	if ua == "" {
		ua = id.UserAgent(mailto)
	}
	timeout := v.GetDuration("crossref.timeout")
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return types.Config{
		CrossRef: types.CrossRefConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: ua,
			},
			BaseURL:    v.GetString("crossref.base_url"),
			Rows:       v.GetInt("crossref.rows"),
			Mailto:     mailto,
			YearFilter: v.GetBool("crossref.year_filter"),
		},
		Library: types.LibraryConfig{Path: v.GetString("library.path")},
		Log: types.LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
}
