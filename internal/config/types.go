// Package config loads the back office configuration.
//
// Values are layered with koanf: built-in defaults, then a backoffice.yaml
// found by searching upward from the working directory, then BACKOFFICE_
// environment variables, then command-line flags that were set explicitly.
package config

import (
	"time"

	"github.com/brandedliving/backoffice/internal/remote"
	"github.com/brandedliving/backoffice/internal/store"
	"github.com/brandedliving/backoffice/internal/ui/tablestate"
)

// Config holds all configuration options.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Table    TableConfig    `koanf:"table"`
	Source   SourceConfig   `koanf:"source"`
	// Seeds is the YAML fixture file loaded by `seed` and watched by `serve`.
	Seeds    string `koanf:"seeds"`
	LogLevel string `koanf:"log_level"`
	Verbose  bool   `koanf:"verbose"`
	Output   string `koanf:"output"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// DatabaseConfig selects the record store.
type DatabaseConfig struct {
	Driver string `koanf:"driver"` // sqlite or postgres
	DSN    string `koanf:"dsn"`
}

// ServerConfig holds configuration for the web server.
type ServerConfig struct {
	Port          int           `koanf:"port"`
	SessionSecret string        `koanf:"session_secret"`
	Watch         bool          `koanf:"watch"`
	Dev           bool          `koanf:"dev"`
	IdleTimeout   time.Duration `koanf:"idle_timeout"`
}

// TableConfig tunes every list screen.
type TableConfig struct {
	PageSize       int           `koanf:"page_size"`
	SearchDebounce time.Duration `koanf:"search_debounce"`
	FuzzyMaxGap    int           `koanf:"fuzzy_max_gap"`
	KeepSelection  bool          `koanf:"keep_selection"`
	PageFloor      int           `koanf:"page_floor"`
	ClientSide     bool          `koanf:"client_side"`
}

// SourceConfig chooses where list screens read records from.
type SourceConfig struct {
	Mode    string        `koanf:"mode"` // local or remote
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
	Retries int           `koanf:"retries"`
}

// Remote reports whether records come from another back office server.
func (c *Config) Remote() bool {
	return c.Source.Mode == SourceRemote
}

// StoreConfig returns the options for opening the local store.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Driver: c.Database.Driver,
		DSN:    c.Database.DSN,
		MaxGap: c.Table.FuzzyMaxGap,
	}
}

// RemoteConfig returns the options for the API client.
func (c *Config) RemoteConfig() remote.Config {
	return remote.Config{
		BaseURL: c.Source.BaseURL,
		Timeout: c.Source.Timeout,
		Retries: c.Source.Retries,
	}
}

// TableOptions returns the options of every list screen.
func (c *Config) TableOptions() tablestate.Options {
	return tablestate.Options{
		PageSize:      c.Table.PageSize,
		PageFloor:     c.Table.PageFloor,
		MaxGap:        c.Table.FuzzyMaxGap,
		KeepSelection: c.Table.KeepSelection,
		ClientSide:    c.Table.ClientSide,
		Debounce:      c.Table.SearchDebounce,
	}
}
