// Package cmd provides the commands of the estimate CLI.
package cmd

import (
	"context"
	"fmt"

	"detailing-bot/internal/app"
	"detailing-bot/internal/catalog"
	"detailing-bot/internal/config"
	"detailing-bot/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// env holds what every subcommand needs once the root has loaded it.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var (
		verbose bool
		source  string
		e       = &env{}
	)

	root := &cobra.Command{
		Use:   "estimate",
		Short: "Price detailing services from the command line",
		Long: `estimate prices a selection of detailing services the same way the website
and the Telegram bot do.

Examples:
  estimate quote --services ceramic-coating,paint-correction
  estimate quote --package sport --animate
  estimate pricelist --out prices.xlsx
  estimate migrate up`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if source != "" {
				cfg.CatalogSource = source
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if verbose {
				cfg.LogLevel = "debug"
			}

			log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			e.cfg, e.logger = cfg, log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.logger != nil {
				_ = e.logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&source, "source", "", "catalog source (static, postgres, http); overrides CATALOG_SOURCE")

	root.AddCommand(newQuoteCmd(e))
	root.AddCommand(newPriceListCmd(e))
	root.AddCommand(newMigrateCmd(e))

	return root
}

// loadCatalog reads the configured catalog once, without the Redis cache.
func (e *env) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	provider, release, err := app.CatalogProvider(ctx, e.cfg, nil, e.logger)
	if err != nil {
		return nil, err
	}
	defer release()

	cat, err := provider.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, nil
}
