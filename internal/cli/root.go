// Package cli wires the kanban command line.
package cli

import (
	"log/slog"
	"os"

	"github.com/kanban-dev/kanban/internal/config"
	"github.com/spf13/cobra"
)

var Version = "dev"

var configPath string

// NewRootCommand builds the command tree. Running it without a subcommand
// starts the server.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "kanban",
		Short:         "Kanban board API server",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML config file")

	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())

	return root
}

// loadConfig reads the configuration and installs the process logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	return cfg, logger, nil
}
