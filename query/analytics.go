package query

import (
	"sort"

	"github.com/rustyeddy/tradebook/trade"
)

// GroupStats are the per-group aggregates in a Summary.
type GroupStats struct {
	TradeCount   int
	ClosedCount  int
	TotalPnL     float64
	AverageTrade float64
	WinRate      float64
}

// Summary holds the descriptive aggregates over a trade set. Every
// ratio is defined as 0 when its denominator is empty; nothing here
// divides by zero.
type Summary struct {
	TotalPnL     float64
	WinRate      float64
	TradeCount   int
	OpenCount    int
	ClosedCount  int
	AverageTrade float64
	Best         *trade.Trade // highest pnl among closed trades, ties to earliest date
	Worst        *trade.Trade
	ByStrategy   map[string]GroupStats
	BySymbol     map[string]GroupStats

	// UnrealizedPnL is only populated by SummarizeMarked; it covers
	// open trades whose symbol had a caller-supplied mark price.
	UnrealizedPnL float64
	MarkedCount   int
}

// Summarize computes aggregates fresh from the input. Open trades
// contribute 0 to every P&L figure.
func Summarize(trades []trade.Trade) Summary {
	s := Summary{
		TradeCount: len(trades),
		ByStrategy: map[string]GroupStats{},
		BySymbol:   map[string]GroupStats{},
	}

	byStrategy := newGrouper()
	bySymbol := newGrouper()

	var wins int
	for i := range trades {
		t := &trades[i]
		byStrategy.add(string(t.Strategy), t)
		bySymbol.add(t.Symbol, t)

		if t.Open() {
			s.OpenCount++
			continue
		}
		s.ClosedCount++
		s.TotalPnL += t.PnL
		if t.PnL > 0 {
			wins++
		}
		if s.Best == nil || better(t, s.Best) {
			c := *t
			s.Best = &c
		}
		if s.Worst == nil || worse(t, s.Worst) {
			c := *t
			s.Worst = &c
		}
	}

	if s.ClosedCount > 0 {
		s.WinRate = float64(wins) / float64(s.ClosedCount)
		s.AverageTrade = s.TotalPnL / float64(s.ClosedCount)
	}
	s.ByStrategy = byStrategy.stats()
	s.BySymbol = bySymbol.stats()
	return s
}

// SummarizeMarked is Summarize plus an unrealized P&L figure for open
// trades, using caller-supplied current prices keyed by symbol. Open
// trades without a mark are simply left out of the figure.
func SummarizeMarked(trades []trade.Trade, marks map[string]float64) Summary {
	s := Summarize(trades)
	for _, t := range trades {
		if t.Closed() {
			continue
		}
		mark, ok := marks[t.Symbol]
		if !ok {
			continue
		}
		s.UnrealizedPnL += trade.PnL(t.EntryPrice, mark, t.Quantity)
		s.MarkedCount++
	}
	return s
}

// better prefers higher pnl, then the earlier date on ties.
func better(a, b *trade.Trade) bool {
	if a.PnL != b.PnL {
		return a.PnL > b.PnL
	}
	return a.Date < b.Date
}

func worse(a, b *trade.Trade) bool {
	if a.PnL != b.PnL {
		return a.PnL < b.PnL
	}
	return a.Date < b.Date
}

type grouper struct {
	order []string
	sums  map[string]*groupAccum
}

type groupAccum struct {
	trades, closed, wins int
	pnl                  float64
}

func newGrouper() *grouper {
	return &grouper{sums: map[string]*groupAccum{}}
}

func (g *grouper) add(key string, t *trade.Trade) {
	acc, ok := g.sums[key]
	if !ok {
		acc = &groupAccum{}
		g.sums[key] = acc
		g.order = append(g.order, key)
	}
	acc.trades++
	if t.Closed() {
		acc.closed++
		acc.pnl += t.PnL
		if t.PnL > 0 {
			acc.wins++
		}
	}
}

func (g *grouper) stats() map[string]GroupStats {
	out := make(map[string]GroupStats, len(g.sums))
	for key, acc := range g.sums {
		gs := GroupStats{
			TradeCount:  acc.trades,
			ClosedCount: acc.closed,
			TotalPnL:    acc.pnl,
		}
		if acc.closed > 0 {
			gs.AverageTrade = acc.pnl / float64(acc.closed)
			gs.WinRate = float64(acc.wins) / float64(acc.closed)
		}
		out[key] = gs
	}
	return out
}

// GroupKeys returns a group map's keys sorted for stable rendering.
func GroupKeys(groups map[string]GroupStats) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
