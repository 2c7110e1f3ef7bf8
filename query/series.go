package query

import (
	"sort"

	"github.com/rustyeddy/tradebook/trade"
)

// PnLPoint is one day of realized P&L with the running total, feeding
// the caller's equity-curve rendering.
type PnLPoint struct {
	Date       string
	PnL        float64
	Cumulative float64
}

// PnLOverTime groups realized P&L by execution date over closed trades
// and accumulates in date order.
func PnLOverTime(trades []trade.Trade) []PnLPoint {
	byDate := map[string]float64{}
	for _, t := range trades {
		if t.Closed() {
			byDate[t.Date] += t.PnL
		}
	}
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]PnLPoint, 0, len(dates))
	var running float64
	for _, d := range dates {
		running += byDate[d]
		out = append(out, PnLPoint{Date: d, PnL: byDate[d], Cumulative: running})
	}
	return out
}

// MonthPnL is realized P&L for one calendar month.
type MonthPnL struct {
	Month string // YYYY-MM
	PnL   float64
}

// MonthlySummary groups realized P&L by month over closed trades,
// sorted by month.
func MonthlySummary(trades []trade.Trade) []MonthPnL {
	byMonth := map[string]float64{}
	for _, t := range trades {
		if t.Closed() && len(t.Date) >= 7 {
			byMonth[t.Date[:7]] += t.PnL
		}
	}
	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]MonthPnL, 0, len(months))
	for _, m := range months {
		out = append(out, MonthPnL{Month: m, PnL: byMonth[m]})
	}
	return out
}

// WinLoss counts closed trades by outcome.
type WinLoss struct {
	Wins      int
	Losses    int
	Breakeven int
}

// WinLossDistribution tallies closed-trade outcomes.
func WinLossDistribution(trades []trade.Trade) WinLoss {
	var w WinLoss
	for _, t := range trades {
		if !t.Closed() {
			continue
		}
		switch {
		case t.PnL > 0:
			w.Wins++
		case t.PnL < 0:
			w.Losses++
		default:
			w.Breakeven++
		}
	}
	return w
}
