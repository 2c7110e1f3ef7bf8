// Package query provides read-only narrowing and summarizing over a
// trade set. Nothing here mutates its input or keeps state between
// calls; callers may re-run or parallelize freely over snapshots.
package query

import (
	"strings"

	"github.com/rustyeddy/tradebook/trade"
)

// Criteria is a filter configuration. Every field is optional; supplied
// criteria combine with logical AND. Date and P&L bounds are inclusive.
type Criteria struct {
	DateFrom   string // YYYY-MM-DD
	DateTo     string
	Symbols    []string
	Strategies []trade.Strategy
	Statuses   []trade.Status
	PnLMin     *float64
	PnLMax     *float64
	Text       string // case-insensitive substring over symbol and notes
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return c.DateFrom == "" && c.DateTo == "" &&
		len(c.Symbols) == 0 && len(c.Strategies) == 0 && len(c.Statuses) == 0 &&
		c.PnLMin == nil && c.PnLMax == nil && c.Text == ""
}

// Apply returns the trades matching every supplied criterion, in the
// original order. A zero Criteria returns the input unchanged.
func (c Criteria) Apply(trades []trade.Trade) []trade.Trade {
	if c.IsZero() {
		return trades
	}

	symbols := toSet(c.Symbols, trade.NormalizeSymbol)
	strategies := toSet(c.Strategies, func(s trade.Strategy) trade.Strategy { return s })
	statuses := toSet(c.Statuses, func(s trade.Status) trade.Status { return s })
	needle := strings.ToLower(c.Text)

	var out []trade.Trade
	for _, t := range trades {
		if c.DateFrom != "" && t.Date < c.DateFrom {
			continue
		}
		if c.DateTo != "" && t.Date > c.DateTo {
			continue
		}
		if len(symbols) > 0 && !symbols[trade.NormalizeSymbol(t.Symbol)] {
			continue
		}
		if len(strategies) > 0 && !strategies[t.Strategy] {
			continue
		}
		if len(statuses) > 0 && !statuses[t.Status] {
			continue
		}
		if c.PnLMin != nil && t.PnL < *c.PnLMin {
			continue
		}
		if c.PnLMax != nil && t.PnL > *c.PnLMax {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(t.Symbol), needle) &&
			!strings.Contains(strings.ToLower(t.Notes), needle) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func toSet[T comparable](in []T, norm func(T) T) map[T]bool {
	if len(in) == 0 {
		return nil
	}
	out := make(map[T]bool, len(in))
	for _, v := range in {
		out[norm(v)] = true
	}
	return out
}
