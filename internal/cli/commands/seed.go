package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brandedliving/backoffice/internal/cli/output"
	"github.com/brandedliving/backoffice/internal/domain"
	"github.com/brandedliving/backoffice/internal/screens"
	"github.com/brandedliving/backoffice/internal/store"
)

// SeedResult is the JSON output of the seed command.
type SeedResult struct {
	File   string         `json:"file"`
	Counts map[string]int `json:"counts"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed [file]",
		Short: "Replace the database contents with a YAML seed file",
		Long: `Load a YAML seed file into the local database. Every table is cleared and
the records of the file are inserted in one transaction, so a file that fails
to load leaves the database unchanged.

Without an argument the configured seeds file is used.`,
		Example: `  # Load the configured seed file
  backoffice seed

  # Load a specific file and print the counts as JSON
  backoffice seed seeds/demo.yaml -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args)
		},
	}

	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	c, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if c.Cfg.Remote() {
		return fmt.Errorf("seeding needs a local database (source.mode is %q)", c.Cfg.Source.Mode)
	}

	path := c.Cfg.Seeds
	if len(args) == 1 {
		path = args[0]
	}
	fixtures, err := store.LoadFixtures(path)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := c.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.Seed(ctx, fixtures); err != nil {
		return err
	}
	counts, err := s.Counts(ctx)
	if err != nil {
		return err
	}
	c.Logger.Info("seeded database", "file", path)

	if c.Renderer.EffectiveMode() == output.ModeJSON {
		return c.Renderer.JSON(SeedResult{File: path, Counts: counts})
	}
	c.Renderer.Success("Loaded " + path)
	fields := make([]output.Field, len(domain.Screens))
	for i, screen := range domain.Screens {
		fields[i] = output.Field{Label: screens.Label(screen), Value: fmt.Sprint(counts[screen])}
	}
	c.Renderer.Card("Records", fields)
	return nil
}
