package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/storefront/pkg/logger"
)

// app carries what every subcommand needs once configuration is loaded
type app struct {
	cfg *config.Config
	log *slog.Logger
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "storefront",
		Short: "Product catalog storefront with WhatsApp ordering",
		Long: `Serve the storefront pages and JSON API, backed by a remote product store
with a local products snapshot as fallback.

Without a subcommand the server is started.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}

	root.AddCommand(newServeCommand(a))
	root.AddCommand(newSeedCommand(a))
	return root
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a.cfg = cfg
	a.log = logger.New(cfg.LogLevel)
	slog.SetDefault(a.log)
	return nil
}
