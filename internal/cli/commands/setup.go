// Package commands implements the backoffice subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/brandedliving/backoffice/internal/api"
	"github.com/brandedliving/backoffice/internal/cli/output"
	"github.com/brandedliving/backoffice/internal/config"
	"github.com/brandedliving/backoffice/internal/remote"
	"github.com/brandedliving/backoffice/internal/store"
)

// configKey is used to store config in context.
type configKey struct{}

// WithConfig returns a context carrying the loaded configuration.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config, logger and renderer of a command.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg, ok := cmd.Context().Value(configKey{}).(*config.Config)
	if !ok {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)),
	}, nil
}

// OpenStore opens the local store and brings its schema up to date.
func (c *CommandContext) OpenStore(ctx context.Context) (*store.Store, error) {
	sc := c.Cfg.StoreConfig()
	sc.Logger = c.Logger

	if sc.Driver == store.DriverSQLite && sc.DSN != ":memory:" {
		if dir := filepath.Dir(sc.DSN); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	s, err := store.Open(sc)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// OpenBackend returns the configured record source: the local store, or a
// client of another back office server. The store is nil in remote mode.
// The cleanup function must be called.
func (c *CommandContext) OpenBackend(ctx context.Context) (api.Backend, *store.Store, func(), error) {
	if c.Cfg.Remote() {
		rc := c.Cfg.RemoteConfig()
		rc.Logger = c.Logger
		client, err := remote.New(rc)
		if err != nil {
			return nil, nil, nil, err
		}
		return client, nil, func() {}, nil
	}

	s, err := c.OpenStore(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return s, s, func() { _ = s.Close() }, nil
}
