// Package trade defines the trade record, its derived fields and the
// validation rules every mutation must pass.
package trade

import "strings"

// DateLayout is the storage format for trade dates.
const DateLayout = "2006-01-02"

// Strategy labels a trade. The label is descriptive metadata only; it
// never alters the P&L arithmetic.
type Strategy string

const (
	LongStock      Strategy = "Long Stock"
	ShortStock     Strategy = "Short Stock"
	LongCall       Strategy = "Long Call"
	ShortCall      Strategy = "Short Call"
	LongPut        Strategy = "Long Put"
	ShortPut       Strategy = "Short Put"
	CoveredCall    Strategy = "Covered Call"
	CashSecuredPut Strategy = "Cash Secured Put"
	Other          Strategy = "Other"
)

// Strategies lists every accepted strategy, in menu order.
var Strategies = []Strategy{
	LongStock, ShortStock,
	LongCall, ShortCall,
	LongPut, ShortPut,
	CoveredCall, CashSecuredPut,
	Other,
}

// Valid reports whether s is one of the accepted strategies.
func (s Strategy) Valid() bool {
	for _, k := range Strategies {
		if s == k {
			return true
		}
	}
	return false
}

// Status is derived from the exit price and is never set directly.
type Status string

const (
	StatusOpen   Status = "Open"
	StatusClosed Status = "Closed"
)

// Trade is one logged position.
type Trade struct {
	ID         int64
	Date       string // YYYY-MM-DD
	Symbol     string
	Strategy   Strategy
	EntryPrice float64
	ExitPrice  float64 // 0 means not yet exited
	Quantity   int64   // sign encodes direction
	PnL        float64 // derived, see PnL
	Notes      string
	Status     Status // derived, see StatusOf
}

// PnL computes realized profit/loss. The signed quantity handles both
// directions: a short (negative quantity) gains when price falls.
// Open trades (exit == 0) carry no realized P&L.
func PnL(entry, exit float64, quantity int64) float64 {
	if exit == 0 {
		return 0
	}
	return (exit - entry) * float64(quantity)
}

// StatusOf derives the lifecycle state from the exit price.
func StatusOf(exit float64) Status {
	if exit > 0 {
		return StatusClosed
	}
	return StatusOpen
}

// Recalc refreshes the derived fields from the primary ones. Callers
// mutating EntryPrice, ExitPrice or Quantity must call it before
// persisting.
func (t *Trade) Recalc() {
	t.PnL = PnL(t.EntryPrice, t.ExitPrice, t.Quantity)
	t.Status = StatusOf(t.ExitPrice)
}

// Open reports whether the position has not been exited.
func (t Trade) Open() bool { return t.Status == StatusOpen }

// Closed reports whether the position has been exited.
func (t Trade) Closed() bool { return t.Status == StatusClosed }

// NormalizeSymbol uppercases the instrument identifier and strips
// surrounding whitespace.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
