package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brandedliving/backoffice/internal/cli/output"
)

// MigrateResult is the JSON output of the migrate command.
type MigrateResult struct {
	Driver  string `json:"driver"`
	Version int64  `json:"version"`
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database schema up to date",
		Long: `Apply every pending schema migration to the configured database and print
the resulting schema version. Both sqlite and postgres are supported.`,
		Example: `  backoffice migrate
  backoffice migrate --driver postgres --dsn postgres://localhost/backoffice`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			if c.Cfg.Remote() {
				return fmt.Errorf("migrations need a local database (source.mode is %q)", c.Cfg.Source.Mode)
			}

			ctx := cmd.Context()
			s, err := c.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			version, err := s.MigrationVersion(ctx)
			if err != nil {
				return err
			}

			if c.Renderer.EffectiveMode() == output.ModeJSON {
				return c.Renderer.JSON(MigrateResult{Driver: c.Cfg.Database.Driver, Version: version})
			}
			c.Renderer.Success(fmt.Sprintf("Schema is at version %d (%s)", version, c.Cfg.Database.Driver))
			return nil
		},
	}
}
