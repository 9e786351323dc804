package commands

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/brandedliving/backoffice/internal/config"
	"github.com/brandedliving/backoffice/internal/store"
	"github.com/brandedliving/backoffice/internal/ui"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Seed bool
	Open bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the back office web server",
		Long: `Start the web server with the dashboard, the list screens and the JSON API.

List screens keep their state per browser session and mirror it into the
address bar. With --watch the seed file is reloaded whenever it changes.`,
		Example: `  # Start on the configured port
  backoffice serve

  # Load the demo records first and serve on port 3000
  backoffice serve --seed --port 3000

  # Serve screens backed by another back office server
  backoffice serve --source remote --base-url http://records.internal:8080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().Int("port", config.DefaultPort, "Port to serve on")
	cmd.Flags().Bool("watch", true, "Reload the seed file when it changes")
	cmd.Flags().Bool("dev", false, "Enable live reload of the browser")
	cmd.Flags().Bool("client-side", false, "Filter, sort and page every screen in memory")
	cmd.Flags().String("seeds", "", "Seed file to load and watch")
	cmd.Flags().BoolVar(&opts.Seed, "seed", false, "Load the seed file before serving")
	cmd.Flags().BoolVar(&opts.Open, "open", false, "Open the browser")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	c, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	cfg := c.Cfg

	backend, local, cleanup, err := c.OpenBackend(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	serverCfg := ui.Config{
		Backend:       backend,
		Port:          cfg.Server.Port,
		Watch:         cfg.Server.Watch,
		SeedsFile:     cfg.Seeds,
		SessionSecret: cfg.Server.SessionSecret,
		Dev:           cfg.Server.Dev,
		Table:         cfg.TableOptions(),
		IdleTimeout:   cfg.Server.IdleTimeout,
		Logger:        c.Logger,
	}
	if local != nil {
		serverCfg.Seeder = local
		if opts.Seed {
			if err := seedFile(ctx, local, cfg.Seeds); err != nil {
				return err
			}
			c.Logger.Info("loaded seed file", "path", cfg.Seeds)
		}
	} else if opts.Seed {
		return fmt.Errorf("--seed needs a local database")
	}

	if cfg.Server.SessionSecret == config.DefaultSessionSecret && !cfg.Server.Dev {
		c.Logger.Warn("using the default session secret; set server.session_secret")
	}

	server := ui.NewServer(serverCfg)

	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	if opts.Open {
		go openBrowser(url)
	}

	c.Renderer.Println(fmt.Sprintf("Starting back office on %s", url))
	c.Renderer.Muted("Press Ctrl+C to stop")

	return server.Serve(ctx)
}

func seedFile(ctx context.Context, s *store.Store, path string) error {
	f, err := store.LoadFixtures(path)
	if err != nil {
		return err
	}
	return s.Seed(ctx, f)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
