package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"

	"github.com/brandedliving/backoffice/internal/store"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(slices.Contains([]string{store.DriverSQLite, store.DriverPostgres}, c.Database.Driver),
		"database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	check(c.Database.DSN != "", "database.dsn is required")

	check(c.Server.Port > 0 && c.Server.Port < 65536, "server.port must be between 1 and 65535, got %d", c.Server.Port)
	check(c.Server.SessionSecret != "", "server.session_secret is required")
	check(c.Server.IdleTimeout >= 0, "server.idle_timeout must not be negative")

	check(c.Table.PageSize > 0 && c.Table.PageSize <= MaxPageSize,
		"table.page_size must be between 1 and %d, got %d", MaxPageSize, c.Table.PageSize)
	check(c.Table.SearchDebounce >= 0, "table.search_debounce must not be negative")
	check(c.Table.FuzzyMaxGap >= 0, "table.fuzzy_max_gap must not be negative")
	check(c.Table.PageFloor >= 0, "table.page_floor must not be negative")

	switch c.Source.Mode {
	case SourceLocal:
	case SourceRemote:
		u, err := url.Parse(c.Source.BaseURL)
		check(err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "",
			"source.base_url must be an http(s) URL when source.mode is remote, got %q", c.Source.BaseURL)
	default:
		check(false, "source.mode must be local or remote, got %q", c.Source.Mode)
	}
	check(c.Source.Timeout >= 0, "source.timeout must not be negative")
	check(c.Source.Retries >= 0, "source.retries must not be negative")

	check(slices.Contains(logLevels, c.LogLevel), "log_level must be one of debug, info, warn, error, got %q", c.LogLevel)
	check(slices.Contains([]string{OutputAuto, OutputText, OutputJSON}, c.Output),
		"output must be auto, text or json, got %q", c.Output)

	return errors.Join(errs...)
}
