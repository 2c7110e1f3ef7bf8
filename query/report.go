package query

import (
	"fmt"
	"strings"
)

// FormatSummary renders a Summary as a plain-text report.
func FormatSummary(s Summary, currency string) string {
	var b strings.Builder

	b.WriteString("Trading Journal Summary\n")
	b.WriteString("=======================\n")
	fmt.Fprintf(&b, "Trades:       %d (%d open, %d closed)\n", s.TradeCount, s.OpenCount, s.ClosedCount)
	fmt.Fprintf(&b, "Total P&L:    %.2f %s\n", s.TotalPnL, currency)
	fmt.Fprintf(&b, "Win Rate:     %.1f%%\n", s.WinRate*100)
	fmt.Fprintf(&b, "Avg Trade:    %.2f %s\n", s.AverageTrade, currency)
	if s.MarkedCount > 0 {
		fmt.Fprintf(&b, "Open P&L:     %.2f %s (%d marked)\n", s.UnrealizedPnL, currency, s.MarkedCount)
	}
	if s.Best != nil {
		fmt.Fprintf(&b, "Best Trade:   %s %s %+.2f\n", s.Best.Date, s.Best.Symbol, s.Best.PnL)
	}
	if s.Worst != nil {
		fmt.Fprintf(&b, "Worst Trade:  %s %s %+.2f\n", s.Worst.Date, s.Worst.Symbol, s.Worst.PnL)
	}

	if len(s.ByStrategy) > 0 {
		b.WriteString("\nBy Strategy\n-----------\n")
		writeGroups(&b, s.ByStrategy)
	}
	if len(s.BySymbol) > 0 {
		b.WriteString("\nBy Symbol\n---------\n")
		writeGroups(&b, s.BySymbol)
	}
	return b.String()
}

func writeGroups(b *strings.Builder, groups map[string]GroupStats) {
	for _, key := range GroupKeys(groups) {
		g := groups[key]
		fmt.Fprintf(b, "%-18s trades=%-3d pnl=%+.2f avg=%+.2f win=%.0f%%\n",
			key, g.TradeCount, g.TotalPnL, g.AverageTrade, g.WinRate*100)
	}
}
