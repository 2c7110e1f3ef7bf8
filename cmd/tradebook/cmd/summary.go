package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/query"
	"github.com/rustyeddy/tradebook/trade"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize performance across the journal",
	Long: `Print descriptive statistics for the journal: totals, win rate,
best and worst trades, and per-strategy and per-symbol breakdowns.

Pass --mark SYMBOL=PRICE to value open positions at a current price;
the report then includes unrealized P&L for the marked symbols.

Filters narrow the trades first, so 'summary --symbol AAPL' reports on
AAPL alone.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

var summaryFlags struct {
	marks   []string
	monthly bool
	curve   bool
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	addFilterFlags(summaryCmd)
	summaryCmd.Flags().StringArrayVar(&summaryFlags.marks, "mark", nil, "SYMBOL=PRICE for valuing open positions (repeatable)")
	summaryCmd.Flags().BoolVar(&summaryFlags.monthly, "monthly", false, "append a per-month P&L table")
	summaryCmd.Flags().BoolVar(&summaryFlags.curve, "curve", false, "append the cumulative P&L series")
}

func runSummary(cmd *cobra.Command, args []string) error {
	mgr, cfg, err := openManager()
	if err != nil {
		return err
	}
	trades, err := mgr.ListAll()
	if err != nil {
		return err
	}
	trades = criteriaFromFlags(cmd).Apply(trades)

	marks, err := parseMarks(summaryFlags.marks)
	if err != nil {
		return err
	}

	var s query.Summary
	if len(marks) > 0 {
		s = query.SummarizeMarked(trades, marks)
	} else {
		s = query.Summarize(trades)
	}
	fmt.Print(query.FormatSummary(s, cfg.Currency))

	dist := query.WinLossDistribution(trades)
	if s.ClosedCount > 0 {
		fmt.Printf("\nWins / Losses / Breakeven: %d / %d / %d\n", dist.Wins, dist.Losses, dist.Breakeven)
	}

	if summaryFlags.monthly {
		printMonthly(query.MonthlySummary(trades))
	}
	if summaryFlags.curve {
		printCurve(query.PnLOverTime(trades))
	}
	return nil
}

func parseMarks(specs []string) (map[string]float64, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	marks := make(map[string]float64, len(specs))
	for _, spec := range specs {
		sym, price, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("bad --mark %q, want SYMBOL=PRICE", spec)
		}
		v, err := strconv.ParseFloat(price, 64)
		if err != nil {
			return nil, fmt.Errorf("bad --mark price %q", price)
		}
		marks[trade.NormalizeSymbol(sym)] = v
	}
	return marks, nil
}

func printMonthly(months []query.MonthPnL) {
	if len(months) == 0 {
		return
	}
	fmt.Println("\nMonthly P&L:")
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, m := range months {
		fmt.Fprintf(tw, "  %s\t%+.2f\n", m.Month, m.PnL)
	}
	tw.Flush()
}

func printCurve(points []query.PnLPoint) {
	if len(points) == 0 {
		return
	}
	fmt.Println("\nCumulative P&L:")
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, p := range points {
		fmt.Fprintf(tw, "  %s\t%+.2f\t%+.2f\n", p.Date, p.PnL, p.Cumulative)
	}
	tw.Flush()
}
