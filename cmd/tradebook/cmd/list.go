package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades, optionally narrowed by filters",
	Long: `List trades in the journal. All filters combine with AND; a trade
must match every one you pass.

Examples:
  tradebook list --open
  tradebook list --symbol AAPL --from 2026-01-01
  tradebook list --min-pnl 0 --search earnings`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	addFilterFlags(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	mgr, _, err := openManager()
	if err != nil {
		return err
	}
	trades, err := mgr.ListAll()
	if err != nil {
		return err
	}
	trades = criteriaFromFlags(cmd).Apply(trades)
	if len(trades) == 0 {
		fmt.Println("No matching trades")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tSYMBOL\tSTRATEGY\tENTRY\tEXIT\tQTY\tP&L\tSTATUS")
	for _, t := range trades {
		exit := "-"
		if t.Closed() {
			exit = fmt.Sprintf("%.2f", t.ExitPrice)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.2f\t%s\t%d\t%+.2f\t%s\n",
			t.ID, t.Date, t.Symbol, t.Strategy, t.EntryPrice, exit, t.Quantity, t.PnL, t.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d trade(s)\n", len(trades))
	return nil
}
