package config

import (
	"time"

	"github.com/brandedliving/backoffice/internal/store"
)

// Config file names, in lookup order.
const (
	ConfigFileName    = "backoffice.yaml"
	ConfigFileNameAlt = "backoffice.yml"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "BACKOFFICE_"

// Source modes.
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

// Output formats.
const (
	OutputAuto = "auto" // text on a terminal, json otherwise
	OutputText = "text"
	OutputJSON = "json"
)

// Default configuration values.
const (
	DefaultDSN           = ".backoffice/backoffice.db"
	DefaultPort          = 8080
	DefaultSessionSecret = "backoffice-dev-secret-change-in-production" //nolint:gosec
	DefaultPageSize      = 10
	DefaultDebounce      = 300 * time.Millisecond
	DefaultFuzzyMaxGap   = 3
	DefaultTimeout       = 10 * time.Second
	DefaultRetries       = 2
	DefaultSeeds         = "seeds/demo.yaml"
	DefaultLogLevel      = "info"
	DefaultIdleTimeout   = 30 * time.Minute
)

// MaxPageSize bounds table.page_size.
const MaxPageSize = 100

func defaults() map[string]any {
	return map[string]any{
		"database.driver":       store.DriverSQLite,
		"database.dsn":          DefaultDSN,
		"server.port":           DefaultPort,
		"server.session_secret": DefaultSessionSecret,
		"server.watch":          true,
		"server.dev":            false,
		"server.idle_timeout":   DefaultIdleTimeout.String(),
		"table.page_size":       DefaultPageSize,
		"table.search_debounce": DefaultDebounce.String(),
		"table.fuzzy_max_gap":   DefaultFuzzyMaxGap,
		"table.keep_selection":  false,
		"table.page_floor":      0,
		"table.client_side":     false,
		"source.mode":           SourceLocal,
		"source.base_url":       "",
		"source.timeout":        DefaultTimeout.String(),
		"source.retries":        DefaultRetries,
		"seeds":                 DefaultSeeds,
		"log_level":             DefaultLogLevel,
		"verbose":               false,
		"output":                OutputAuto,
	}
}
