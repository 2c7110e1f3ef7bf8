package trade

import (
	"fmt"
	"time"
)

// FieldError describes one rejected field. Callers render these next to
// the offending inputs.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requiredFields must be present and non-empty for any candidate trade.
var requiredFields = []string{
	FieldDate, FieldSymbol, FieldStrategy, FieldEntryPrice, FieldQuantity,
}

// Validate checks a raw field mapping against the trade rules and
// returns the list of violations, empty when the candidate is valid.
// Checks run in three passes: required presence, type coercibility,
// then the domain invariants. It never panics on malformed input.
func Validate(fields Fields) []FieldError {
	var errs []FieldError

	missing := map[string]bool{}
	for _, name := range requiredFields {
		v, ok := fields[name]
		if !ok || ParseString(v) == "" {
			missing[name] = true
			errs = append(errs, FieldError{name, "is required"})
		}
	}

	if !missing[FieldEntryPrice] {
		if _, err := ParseFloat(fields[FieldEntryPrice]); err != nil {
			missing[FieldEntryPrice] = true
			errs = append(errs, FieldError{FieldEntryPrice, "must be a number"})
		}
	}
	if !missing[FieldQuantity] {
		if _, err := ParseInt(fields[FieldQuantity]); err != nil {
			missing[FieldQuantity] = true
			errs = append(errs, FieldError{FieldQuantity, "must be an integer"})
		}
	}
	if v, ok := fields[FieldExitPrice]; ok && ParseString(v) != "" {
		if _, err := ParseFloat(v); err != nil {
			errs = append(errs, FieldError{FieldExitPrice, "must be a number"})
		}
	}
	if !missing[FieldDate] {
		if _, err := time.Parse(DateLayout, ParseString(fields[FieldDate])); err != nil {
			missing[FieldDate] = true
			errs = append(errs, FieldError{FieldDate, "must be a date in YYYY-MM-DD form"})
		}
	}

	if !missing[FieldEntryPrice] {
		if entry, _ := ParseFloat(fields[FieldEntryPrice]); entry <= 0 {
			errs = append(errs, FieldError{FieldEntryPrice, "must be positive"})
		}
	}
	if !missing[FieldQuantity] {
		if qty, _ := ParseInt(fields[FieldQuantity]); qty == 0 {
			errs = append(errs, FieldError{FieldQuantity, "cannot be zero"})
		}
	}
	if v, ok := fields[FieldExitPrice]; ok && ParseString(v) != "" {
		if exit, err := ParseFloat(v); err == nil && exit < 0 {
			errs = append(errs, FieldError{FieldExitPrice, "cannot be negative"})
		}
	}
	if !missing[FieldStrategy] {
		if s := Strategy(ParseString(fields[FieldStrategy])); !s.Valid() {
			errs = append(errs, FieldError{FieldStrategy, fmt.Sprintf("unknown strategy %q", s)})
		}
	}

	return errs
}

// FromFields validates a raw mapping and, when valid, builds a Trade
// with normalized inputs and freshly derived status and pnl. The ID is
// left zero; assignment is the manager's job.
func FromFields(fields Fields) (Trade, []FieldError) {
	if errs := Validate(fields); len(errs) > 0 {
		return Trade{}, errs
	}

	entry, _ := ParseFloat(fields[FieldEntryPrice])
	qty, _ := ParseInt(fields[FieldQuantity])
	var exit float64
	if v, ok := fields[FieldExitPrice]; ok && ParseString(v) != "" {
		exit, _ = ParseFloat(v)
	}

	t := Trade{
		Date:       ParseString(fields[FieldDate]),
		Symbol:     NormalizeSymbol(ParseString(fields[FieldSymbol])),
		Strategy:   Strategy(ParseString(fields[FieldStrategy])),
		EntryPrice: entry,
		ExitPrice:  exit,
		Quantity:   qty,
		Notes:      ParseString(fields[FieldNotes]),
	}
	t.Recalc()
	return t, nil
}

// ToFields converts a Trade back into a raw mapping, used when merging
// partial updates onto an existing record.
func (t Trade) ToFields() Fields {
	return Fields{
		FieldDate:       t.Date,
		FieldSymbol:     t.Symbol,
		FieldStrategy:   string(t.Strategy),
		FieldEntryPrice: t.EntryPrice,
		FieldExitPrice:  t.ExitPrice,
		FieldQuantity:   t.Quantity,
		FieldNotes:      t.Notes,
	}
}
