package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/brandedliving/backoffice/internal/store"
)

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// sections are the nested keys; an environment variable starting with a
// section name addresses a key inside it.
var sections = []string{"database", "server", "table", "source"}

// flagKeys maps flag names that differ from their config key.
var flagKeys = map[string]string{
	"driver":      "database.driver",
	"dsn":         "database.dsn",
	"port":        "server.port",
	"watch":       "server.watch",
	"dev":         "server.dev",
	"page-size":   "table.page_size",
	"client-side": "table.client_side",
	"source":      "source.mode",
	"base-url":    "source.base_url",
	"timeout":     "source.timeout",
	"log-level":   "log_level",
	"seeds":       "seeds",
	"output":      "output",
	"verbose":     "verbose",
}

// Loaded is a configuration together with where it came from.
type Loaded struct {
	*Config
	// File is the config file that was read, if any.
	File string
}

// configExistsIn returns the config file in dir, or "".
func configExistsIn(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findConfigUpward searches upward from startDir for a config file.
func findConfigUpward(startDir string) string {
	dir := startDir
	for range maxUpwardSearchLevels {
		if path := configExistsIn(dir); path != "" {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// envKey turns BACKOFFICE_SERVER_SESSION_SECRET into server.session_secret.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range sections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest
		}
	}
	return key
}

// flagKey returns the config key of a flag.
func flagKey(name string) string {
	if key, ok := flagKeys[name]; ok {
		return key
	}
	return strings.ReplaceAll(name, "-", "_")
}

// Load loads configuration from defaults, the config file, environment
// variables and flags. Precedence (highest to lowest): flags > env vars >
// config file > defaults. An empty cfgFile searches upward from the
// working directory. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Loaded, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	if cfgFile == "" {
		cfgFile = findConfigUpward(cwd)
	}
	root := cwd
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
		if abs, err := filepath.Abs(cfgFile); err == nil {
			root = filepath.Dir(abs)
		}
	}

	// 3. Environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were set explicitly
	fromFlag := map[string]bool{}
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key := flagKey(f.Name)
			fromFlag[key] = true
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Paths given on the command line are relative to the working directory;
	// everything else is relative to the config file.
	cfg.ProjectRoot = root
	cfg.Seeds = resolvePath(cfg.Seeds, root, cwd, fromFlag["seeds"])
	if cfg.Database.Driver == store.DriverSQLite && isFilePath(cfg.Database.DSN) {
		cfg.Database.DSN = resolvePath(cfg.Database.DSN, root, cwd, fromFlag["database.dsn"])
	}
	cfg.Source.BaseURL = strings.TrimRight(cfg.Source.BaseURL, "/")
	cfg.Output = strings.ToLower(cfg.Output)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Loaded{Config: &cfg, File: cfgFile}, nil
}

// resolvePath anchors a relative path at the config root, or at the working
// directory when the path came from a flag.
func resolvePath(path, root, cwd string, fromFlag bool) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if fromFlag {
		return filepath.Join(cwd, path)
	}
	return filepath.Join(root, path)
}

// isFilePath reports whether a sqlite DSN names a file on disk.
func isFilePath(dsn string) bool {
	return dsn != "" && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:")
}
