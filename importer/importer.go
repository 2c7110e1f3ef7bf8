// Package importer ingests arbitrary delimited-text uploads, maps
// their columns onto the trade schema, coerces types, flags bad rows
// and suppresses duplicates of already-recorded trades.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rustyeddy/tradebook/manager"
	"github.com/rustyeddy/tradebook/trade"
)

// Table is a parsed upload: a header row plus data rows, column order
// and naming unconstrained.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ReadTable parses a delimited upload. The delimiter is sniffed from
// the header line among comma, semicolon, tab and pipe.
func ReadTable(r io.Reader) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, fmt.Errorf("read upload: %w", err)
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return Table{}, fmt.Errorf("empty upload")
	}

	firstLine := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		firstLine = text[:i]
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = detectDelimiter(firstLine)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parse upload: %w", err)
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("empty upload")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
	}
	return Table{Columns: header, Rows: records[1:]}, nil
}

func detectDelimiter(header string) rune {
	best, bestCount := ',', strings.Count(header, ",")
	for _, c := range []rune{';', '\t', '|'} {
		if n := strings.Count(header, string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

// mappableFields are the schema fields an upload can supply. Derived
// fields (id, pnl, status) are never imported.
var mappableFields = []string{
	trade.FieldDate, trade.FieldSymbol, trade.FieldStrategy,
	trade.FieldEntryPrice, trade.FieldExitPrice,
	trade.FieldQuantity, trade.FieldNotes,
}

// synonyms map normalized header names straight to schema fields,
// covering the renames broker exports use most.
var synonyms = map[string]string{
	"ticker":      trade.FieldSymbol,
	"instrument":  trade.FieldSymbol,
	"qty":         trade.FieldQuantity,
	"shares":      trade.FieldQuantity,
	"contracts":   trade.FieldQuantity,
	"entry":       trade.FieldEntryPrice,
	"open_price":  trade.FieldEntryPrice,
	"exit":        trade.FieldExitPrice,
	"close_price": trade.FieldExitPrice,
	"comment":     trade.FieldNotes,
	"description": trade.FieldNotes,
}

// Inspection is what a caller needs to confirm or correct a mapping
// before committing an import.
type Inspection struct {
	Columns   []string
	Sample    []map[string]string
	Suggested map[string]string // schema field -> source column
}

const sampleSize = 5

// Inspect reports the upload's columns, a few sample rows, and a
// best-effort field mapping. The suggestion is a heuristic default the
// caller may override, never authoritative: fields without a confident
// match are simply absent from the map.
func Inspect(t Table) Inspection {
	sample := make([]map[string]string, 0, sampleSize)
	for _, row := range t.Rows {
		if len(sample) == sampleSize {
			break
		}
		m := make(map[string]string, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(row) {
				m[col] = row[i]
			}
		}
		sample = append(sample, m)
	}

	return Inspection{
		Columns:   t.Columns,
		Sample:    sample,
		Suggested: SuggestMapping(t.Columns),
	}
}

// SuggestMapping matches schema fields to source columns. Pass order:
// case-insensitive exact match on normalized names, known synonyms,
// then substring containment either way. First match wins; each source
// column maps at most once.
func SuggestMapping(columns []string) map[string]string {
	norm := make([]string, len(columns))
	for i, c := range columns {
		norm[i] = normalizeHeader(c)
	}
	taken := map[string]bool{}
	out := map[string]string{}

	claim := func(field, column string) {
		if _, done := out[field]; !done && !taken[column] {
			out[field] = column
			taken[column] = true
		}
	}

	for _, field := range mappableFields {
		for i, n := range norm {
			if n == field {
				claim(field, columns[i])
			}
		}
	}
	for i, n := range norm {
		if field, ok := synonyms[n]; ok {
			claim(field, columns[i])
		}
	}
	for _, field := range mappableFields {
		for i, n := range norm {
			if n == "" {
				continue
			}
			if strings.Contains(n, field) || strings.Contains(field, n) {
				claim(field, columns[i])
			}
		}
	}
	return out
}

func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

// RowErrors lists the problems with one upload row. Row indices are
// zero-based over the data rows (the header is not counted).
type RowErrors struct {
	Row    int
	Errors []trade.FieldError
}

// Preview is the dry-run result of applying a mapping: coerced
// trade-shaped rows ready to create, plus per-row errors. Rows are
// independent; one failure never blocks the rest.
type Preview struct {
	Valid     []trade.Fields
	ValidRows []int // source row index per Valid entry
	Errors    []RowErrors
}

// PreviewRows applies the column mapping and type coercion to every
// row, then validates each candidate.
func PreviewRows(t Table, mapping map[string]string) Preview {
	colIndex := map[string]int{}
	for i, c := range t.Columns {
		colIndex[c] = i
	}

	var p Preview
	for rowIdx, row := range t.Rows {
		fields, errs := coerceRow(row, mapping, colIndex)
		if len(errs) == 0 {
			errs = trade.Validate(fields)
		}
		if len(errs) > 0 {
			p.Errors = append(p.Errors, RowErrors{Row: rowIdx, Errors: errs})
			continue
		}
		p.Valid = append(p.Valid, fields)
		p.ValidRows = append(p.ValidRows, rowIdx)
	}
	return p
}

func coerceRow(row []string, mapping map[string]string, colIndex map[string]int) (trade.Fields, []trade.FieldError) {
	fields := trade.Fields{}
	var errs []trade.FieldError

	cell := func(field string) (string, bool) {
		column, mapped := mapping[field]
		if !mapped {
			return "", false
		}
		i, ok := colIndex[column]
		if !ok {
			return "", false
		}
		if i >= len(row) {
			return "", true
		}
		return strings.TrimSpace(row[i]), true
	}

	if v, ok := cell(trade.FieldDate); ok && v != "" {
		iso, err := NormalizeDate(v)
		if err != nil {
			errs = append(errs, trade.FieldError{Field: trade.FieldDate, Message: err.Error()})
		} else {
			fields[trade.FieldDate] = iso
		}
	}
	if v, ok := cell(trade.FieldSymbol); ok && v != "" {
		fields[trade.FieldSymbol] = trade.NormalizeSymbol(v)
	}
	if v, ok := cell(trade.FieldStrategy); ok && v != "" {
		fields[trade.FieldStrategy] = v
	} else {
		// Unmapped or blank strategy defaults rather than failing the row.
		fields[trade.FieldStrategy] = string(trade.Other)
	}
	for _, field := range []string{trade.FieldEntryPrice, trade.FieldExitPrice} {
		if v, ok := cell(field); ok && v != "" {
			f, err := trade.ParseFloat(v)
			if err != nil {
				errs = append(errs, trade.FieldError{Field: field, Message: fmt.Sprintf("cannot parse %q as a number", v)})
			} else {
				fields[field] = f
			}
		}
	}
	if v, ok := cell(trade.FieldQuantity); ok && v != "" {
		n, err := trade.ParseInt(v)
		if err != nil {
			errs = append(errs, trade.FieldError{Field: trade.FieldQuantity, Message: fmt.Sprintf("cannot parse %q as an integer", v)})
		} else {
			fields[trade.FieldQuantity] = n
		}
	}
	if v, ok := cell(trade.FieldNotes); ok {
		fields[trade.FieldNotes] = v
	}

	return fields, errs
}

// Result accounts for every input row of an import exactly once:
// created, skipped as a duplicate, or failed.
type Result struct {
	Created []trade.Trade
	Skipped []int
	Failed  []RowErrors
}

// ImportRows runs the full pipeline: mapping, coercion, validation,
// duplicate suppression against the existing set, then creation through
// the manager in one logical batch. Partial success is normal.
func ImportRows(t Table, mapping map[string]string, mgr *manager.Manager, existing []trade.Trade, skipDuplicates bool) (Result, error) {
	p := PreviewRows(t, mapping)

	res := Result{Failed: p.Errors}
	seen := map[string]bool{}
	if skipDuplicates {
		for _, e := range existing {
			seen[dupKey(e.Date, e.Symbol, e.EntryPrice)] = true
		}
	}

	var batch []trade.Fields
	var batchRows []int
	for i, fields := range p.Valid {
		row := p.ValidRows[i]
		if skipDuplicates {
			entry, _ := trade.ParseFloat(fields[trade.FieldEntryPrice])
			key := dupKey(
				trade.ParseString(fields[trade.FieldDate]),
				trade.ParseString(fields[trade.FieldSymbol]),
				entry,
			)
			if seen[key] {
				res.Skipped = append(res.Skipped, row)
				continue
			}
			seen[key] = true
		}
		batch = append(batch, fields)
		batchRows = append(batchRows, row)
	}

	created, failed, err := mgr.CreateBatch(batch)
	if err != nil {
		return Result{}, err
	}
	res.Created = created
	for _, f := range failed {
		res.Failed = append(res.Failed, RowErrors{Row: batchRows[f.Index], Errors: f.Errors})
	}
	return res, nil
}

// dupKey is the (date, symbol, entry_price) identity used to suppress
// re-imports; the price takes the store's canonical 4-decimal form so
// equal values compare exactly.
func dupKey(date, symbol string, entry float64) string {
	return date + "|" + trade.NormalizeSymbol(symbol) + "|" + strconv.FormatFloat(entry, 'f', 4, 64)
}
