package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var closeCmd = &cobra.Command{
	Use:   "close <id> <exit-price>",
	Short: "Close an open trade",
	Long: `Close an open trade at the given exit price, fixing its P&L.

Closing is one-way: a closed trade stays closed unless re-opened with
'tradebook edit <id> --exit 0'.`,
	Args: cobra.ExactArgs(2),
	RunE: runClose,
}

func init() {
	rootCmd.AddCommand(closeCmd)
}

func runClose(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad trade id %q", args[0])
	}
	exit, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("bad exit price %q", args[1])
	}

	mgr, cfg, err := openManager()
	if err != nil {
		return err
	}

	closed, err := mgr.Close(id, exit)
	if err != nil {
		return err
	}
	fmt.Printf("Closed trade %d: %s P&L %+.2f %s\n", closed.ID, closed.Symbol, closed.PnL, cfg.Currency)
	return maybeBackup(cfg)
}
