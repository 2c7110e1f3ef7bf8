package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/config"
	"github.com/rustyeddy/tradebook/manager"
	"github.com/rustyeddy/tradebook/pkg/logger"
	"github.com/rustyeddy/tradebook/store"
)

var rootCmd = &cobra.Command{
	Use:   "tradebook",
	Short: "A personal trading journal",
	Long: `Tradebook is a flat-file trading journal for personal use.

It provides tools for:
  - Logging trades with strategy-aware records
  - Closing positions with automatic P&L accounting
  - Importing broker CSV exports with column mapping
  - Filtering and summarizing the trade history
  - Exporting records and text reports
  - Zip backups of the journal

The journal is a single CSV file you can open in any spreadsheet.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	dataDir  string
	logLevel string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "journal data directory (default from config or $TRADEBOOK_DIR)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

// Execute runs the root command and reports failures on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func newLogger() zerolog.Logger {
	return logger.New(logger.Config{Level: logLevel, Pretty: true})
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dataDir != "" {
		cfg.Data.Dir = dataDir
	}
	return cfg, nil
}

func openManager() (*manager.Manager, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log := newLogger()
	st := store.New(cfg.TradesPath(), log)
	return manager.New(st, log), cfg, nil
}
