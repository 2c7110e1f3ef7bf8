package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/manager"
	"github.com/rustyeddy/tradebook/trade"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a new trade",
	Long: `Log a new trade in the journal.

Leave --exit at 0 for a position that is still open.

Examples:
  tradebook add --symbol AAPL --strategy "Long Stock" --entry 150.25 --qty 100
  tradebook add --symbol TSLA --strategy "Short Stock" --entry 200 --exit 190 --qty -5`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var addFlags struct {
	date     string
	symbol   string
	strategy string
	entry    float64
	exit     float64
	qty      int64
	notes    string
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addFlags.date, "date", "", "execution date YYYY-MM-DD (default today)")
	addCmd.Flags().StringVarP(&addFlags.symbol, "symbol", "s", "", "instrument symbol")
	addCmd.Flags().StringVar(&addFlags.strategy, "strategy", "", "strategy label (default from config)")
	addCmd.Flags().Float64Var(&addFlags.entry, "entry", 0, "entry price")
	addCmd.Flags().Float64Var(&addFlags.exit, "exit", 0, "exit price, 0 while open")
	addCmd.Flags().Int64Var(&addFlags.qty, "qty", 0, "signed quantity (negative for short)")
	addCmd.Flags().StringVar(&addFlags.notes, "notes", "", "free-form notes")
}

func runAdd(cmd *cobra.Command, args []string) error {
	mgr, cfg, err := openManager()
	if err != nil {
		return err
	}

	date := addFlags.date
	if date == "" {
		date = time.Now().Format(trade.DateLayout)
	}
	strategy := addFlags.strategy
	if strategy == "" {
		strategy = cfg.DefaultStrategy
	}

	created, err := mgr.Create(trade.Fields{
		trade.FieldDate:       date,
		trade.FieldSymbol:     addFlags.symbol,
		trade.FieldStrategy:   strategy,
		trade.FieldEntryPrice: addFlags.entry,
		trade.FieldExitPrice:  addFlags.exit,
		trade.FieldQuantity:   addFlags.qty,
		trade.FieldNotes:      addFlags.notes,
	})
	if err != nil {
		var verr *manager.ValidationError
		if errors.As(err, &verr) {
			for _, fe := range verr.Fields {
				fmt.Printf("  %s: %s\n", fe.Field, fe.Message)
			}
			return fmt.Errorf("trade rejected")
		}
		return err
	}

	fmt.Printf("Added trade %d: %s %s (%s)\n", created.ID, created.Symbol, created.Date, created.Status)
	return maybeBackup(cfg)
}
