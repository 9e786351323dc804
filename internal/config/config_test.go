package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("dsn", "", "")
	fs.Int("port", 0, "")
	fs.Int("page-size", 0, "")
	fs.String("source", "", "")
	fs.String("base-url", "", "")
	fs.String("seeds", "", "")
	fs.BoolP("verbose", "v", false, "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.File)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, filepath.Join(dir, DefaultDSN), cfg.Database.DSN)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.True(t, cfg.Server.Watch)
	assert.Equal(t, DefaultPageSize, cfg.Table.PageSize)
	assert.Equal(t, 300*time.Millisecond, cfg.Table.SearchDebounce)
	assert.Equal(t, DefaultFuzzyMaxGap, cfg.Table.FuzzyMaxGap)
	assert.Equal(t, SourceLocal, cfg.Source.Mode)
	assert.Equal(t, DefaultTimeout, cfg.Source.Timeout)
	assert.Equal(t, filepath.Join(dir, DefaultSeeds), cfg.Seeds)
	assert.Equal(t, OutputAuto, cfg.Output)
	assert.False(t, cfg.Remote())
}

func TestLoad_FileFoundUpward(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, `
database:
  dsn: data/app.db
server:
  port: 9000
table:
  page_size: 25
  search_debounce: 150ms
  keep_selection: true
seeds: fixtures/demo.yaml
`)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	t.Chdir(nested)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, "data", "app.db"), cfg.Database.DSN)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 25, cfg.Table.PageSize)
	assert.Equal(t, 150*time.Millisecond, cfg.Table.SearchDebounce)
	assert.True(t, cfg.Table.KeepSelection)
	assert.Equal(t, filepath.Join(root, "fixtures", "demo.yaml"), cfg.Seeds)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeConfig(t, dir, "server:\n  port: 9000\ntable:\n  page_size: 25\n")

	t.Setenv("BACKOFFICE_SERVER_PORT", "9100")
	t.Setenv("BACKOFFICE_SERVER_SESSION_SECRET", "from-env")
	t.Setenv("BACKOFFICE_LOG_LEVEL", "DEBUG")

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--port", "9200", "--seeds", "local.yaml"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Server.Port, "flags beat env vars")
	assert.Equal(t, "from-env", cfg.Server.SessionSecret, "env vars beat defaults")
	assert.Equal(t, 25, cfg.Table.PageSize, "file beats defaults")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, filepath.Join(dir, "local.yaml"), cfg.Seeds)
}

func TestLoad_UnsetFlagsDoNotOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeConfig(t, dir, "table:\n  page_size: 25\n")

	flags := testFlags()
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Table.PageSize)
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(t.TempDir())
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source:\n  mode: remote\n  base_url: http://localhost:8080/\n"), 0o600))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.True(t, cfg.Remote())
	assert.Equal(t, "http://localhost:8080", cfg.Source.BaseURL)
	assert.Equal(t, "http://localhost:8080", cfg.RemoteConfig().BaseURL)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_MemoryDSNIsKept(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BACKOFFICE_DATABASE_DSN", ":memory:")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.Database.DSN)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown driver", "database:\n  driver: oracle\n", "database.driver"},
		{"port out of range", "server:\n  port: 70000\n", "server.port"},
		{"page size too large", "table:\n  page_size: 500\n", "table.page_size"},
		{"negative gap", "table:\n  fuzzy_max_gap: -1\n", "table.fuzzy_max_gap"},
		{"remote without url", "source:\n  mode: remote\n", "source.base_url"},
		{"unknown mode", "source:\n  mode: cache\n", "source.mode"},
		{"unknown log level", "log_level: loud\n", "log_level"},
		{"unknown output", "output: xml\n", "output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			writeConfig(t, dir, tt.content)

			_, err := Load("", nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTableOptions(t *testing.T) {
	cfg := &Config{Table: TableConfig{
		PageSize:       20,
		SearchDebounce: time.Second,
		FuzzyMaxGap:    2,
		KeepSelection:  true,
		PageFloor:      1,
		ClientSide:     true,
	}}

	opts := cfg.TableOptions()
	assert.Equal(t, 20, opts.PageSize)
	assert.Equal(t, time.Second, opts.Debounce)
	assert.Equal(t, 2, opts.MaxGap)
	assert.True(t, opts.KeepSelection)
	assert.Equal(t, 1, opts.PageFloor)
	assert.True(t, opts.ClientSide)
	assert.Equal(t, 2, cfg.StoreConfig().MaxGap)
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"BACKOFFICE_SERVER_SESSION_SECRET": "server.session_secret",
		"BACKOFFICE_TABLE_PAGE_SIZE":       "table.page_size",
		"BACKOFFICE_SOURCE_BASE_URL":       "source.base_url",
		"BACKOFFICE_LOG_LEVEL":             "log_level",
		"BACKOFFICE_SEEDS":                 "seeds",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn", false)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	NewLogger(&buf, "error", true).Debug("verbose wins")
	assert.Contains(t, buf.String(), "verbose wins")

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))
	assert.NotNil(t, GetLogger(context.Background()))
}
