package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/query"
	"github.com/rustyeddy/tradebook/trade"
)

// addFilterFlags registers the shared narrowing flags used by list and
// export.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "earliest date YYYY-MM-DD (inclusive)")
	cmd.Flags().String("to", "", "latest date YYYY-MM-DD (inclusive)")
	cmd.Flags().StringSlice("symbol", nil, "restrict to these symbols")
	cmd.Flags().StringSlice("strategy", nil, "restrict to these strategies")
	cmd.Flags().Bool("open", false, "only open trades")
	cmd.Flags().Bool("closed", false, "only closed trades")
	cmd.Flags().Float64("min-pnl", 0, "minimum P&L (inclusive)")
	cmd.Flags().Float64("max-pnl", 0, "maximum P&L (inclusive)")
	cmd.Flags().String("search", "", "substring match over symbol and notes")
}

func criteriaFromFlags(cmd *cobra.Command) query.Criteria {
	var c query.Criteria
	c.DateFrom, _ = cmd.Flags().GetString("from")
	c.DateTo, _ = cmd.Flags().GetString("to")
	c.Text, _ = cmd.Flags().GetString("search")

	c.Symbols, _ = cmd.Flags().GetStringSlice("symbol")
	names, _ := cmd.Flags().GetStringSlice("strategy")
	for _, n := range names {
		c.Strategies = append(c.Strategies, trade.Strategy(n))
	}

	if open, _ := cmd.Flags().GetBool("open"); open {
		c.Statuses = append(c.Statuses, trade.StatusOpen)
	}
	if closed, _ := cmd.Flags().GetBool("closed"); closed {
		c.Statuses = append(c.Statuses, trade.StatusClosed)
	}

	if cmd.Flags().Changed("min-pnl") {
		v, _ := cmd.Flags().GetFloat64("min-pnl")
		c.PnLMin = &v
	}
	if cmd.Flags().Changed("max-pnl") {
		v, _ := cmd.Flags().GetFloat64("max-pnl")
		c.PnLMax = &v
	}
	return c
}
