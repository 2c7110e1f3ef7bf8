// Package store owns the persisted record set. The backing CSV file is
// the single source of truth; every mutation above it reads the full
// set, applies the change and writes the full set back.
package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/tradebook/trade"
)

// Header is the persisted column set, in file order.
var Header = []string{
	"id", "date", "symbol", "strategy",
	"entry_price", "exit_price", "quantity",
	"pnl", "notes", "status",
}

// Store reads and writes the full trade set to a single CSV file.
type Store struct {
	path string
	log  zerolog.Logger
}

// New returns a store backed by the file at path. The file and its
// directory are created on the first Save.
func New(path string, log zerolog.Logger) *Store {
	return &Store{
		path: path,
		log:  log.With().Str("component", "store").Logger(),
	}
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

// Load reads the full record set in file order. A missing file is an
// empty journal, not an error. A present but malformed file yields a
// *CorruptError naming every offending row; nothing is silently
// dropped or repaired.
func (s *Store) Load() ([]trade.Trade, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	return s.read(f)
}

func (s *Store) read(r io.Reader) ([]trade.Trade, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, &CorruptError{Path: s.path, Rows: []RowError{{Line: 0, Reason: err.Error()}}}
	}
	if len(records) == 0 {
		return nil, nil
	}

	col := map[string]int{}
	for i, name := range records[0] {
		col[name] = i
	}
	var missing []string
	for _, name := range Header {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &CorruptError{Path: s.path, Missing: missing}
	}

	var trades []trade.Trade
	var bad []RowError
	for i, rec := range records[1:] {
		line := i + 2 // 1-based, after the header
		t, err := parseRow(rec, col)
		if err != nil {
			bad = append(bad, RowError{Line: line, Reason: err.Error()})
			continue
		}
		trades = append(trades, t)
	}
	if len(bad) > 0 {
		return nil, &CorruptError{Path: s.path, Rows: bad}
	}
	return trades, nil
}

func parseRow(rec []string, col map[string]int) (trade.Trade, error) {
	get := func(name string) string {
		i := col[name]
		if i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	id, err := strconv.ParseInt(get("id"), 10, 64)
	if err != nil {
		return trade.Trade{}, fmt.Errorf("bad id %q", get("id"))
	}
	if _, err := time.Parse(trade.DateLayout, get("date")); err != nil {
		return trade.Trade{}, fmt.Errorf("bad date %q", get("date"))
	}
	if s := trade.Strategy(get("strategy")); !s.Valid() {
		return trade.Trade{}, fmt.Errorf("unknown strategy %q", s)
	}
	entry, err := strconv.ParseFloat(get("entry_price"), 64)
	if err != nil {
		return trade.Trade{}, fmt.Errorf("bad entry_price %q", get("entry_price"))
	}
	exit, err := strconv.ParseFloat(get("exit_price"), 64)
	if err != nil {
		return trade.Trade{}, fmt.Errorf("bad exit_price %q", get("exit_price"))
	}
	qty, err := strconv.ParseInt(get("quantity"), 10, 64)
	if err != nil {
		return trade.Trade{}, fmt.Errorf("bad quantity %q", get("quantity"))
	}
	pnl, err := strconv.ParseFloat(get("pnl"), 64)
	if err != nil {
		return trade.Trade{}, fmt.Errorf("bad pnl %q", get("pnl"))
	}

	status := trade.Status(get("status"))
	if status != trade.StatusOpen && status != trade.StatusClosed {
		return trade.Trade{}, fmt.Errorf("unknown status %q", status)
	}
	if status != trade.StatusOf(exit) {
		return trade.Trade{}, fmt.Errorf("status %q inconsistent with exit_price %s", status, get("exit_price"))
	}

	t := trade.Trade{
		ID:         id,
		Date:       get("date"),
		Symbol:     get("symbol"),
		Strategy:   trade.Strategy(get("strategy")),
		EntryPrice: entry,
		ExitPrice:  exit,
		Quantity:   qty,
		PnL:        pnl,
		Notes:      get("notes"),
		Status:     status,
	}
	return t, nil
}

// Save writes the complete set, replacing the backing file. The write
// goes to a temp file in the same directory and is renamed into place
// only on full success, so a crash mid-write leaves the previous file
// intact.
func (s *Store) Save(trades []trade.Trade) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".trades-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := Export(tmp, trades); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	name := tmp.Name()
	tmp = nil
	if err := os.Rename(name, s.path); err != nil {
		os.Remove(name)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}

	s.log.Debug().Int("trades", len(trades)).Str("path", s.path).Msg("saved journal")
	return nil
}

// idFile is the sidecar holding the next unissued id. Ids must never be
// reused, and max(current ids)+1 alone cannot tell that a higher id once
// existed and was deleted.
func (s *Store) idFile() string {
	return s.path + ".nextid"
}

// ReserveIDs hands out n consecutive ids, returning the first, and
// advances the persisted counter past them. The counter never moves
// backwards; a journal without the sidecar (or with a garbled one)
// falls back to one past the highest id currently in the set.
func (s *Store) ReserveIDs(trades []trade.Trade, n int) (int64, error) {
	next := int64(1)
	for _, t := range trades {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	if data, err := os.ReadFile(s.idFile()); err == nil {
		if v, perr := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64); perr == nil && v > next {
			next = v
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return 0, fmt.Errorf("create data dir: %w", err)
	}
	counter := strconv.FormatInt(next+int64(n), 10) + "\n"
	if err := os.WriteFile(s.idFile(), []byte(counter), 0o644); err != nil {
		return 0, fmt.Errorf("persist id counter: %w", err)
	}
	return next, nil
}

// Append persists a single new trade. Full-file consistency wins over
// throughput at personal-journal scale.
func (s *Store) Append(t trade.Trade) error {
	trades, err := s.Load()
	if err != nil {
		return err
	}
	return s.Save(append(trades, t))
}

// Export writes trades to w in the persisted schema. It serves both
// Save and the user-facing CSV export of filtered subsets.
func Export(w io.Writer, trades []trade.Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, t := range trades {
		row := []string{
			strconv.FormatInt(t.ID, 10),
			t.Date,
			t.Symbol,
			string(t.Strategy),
			fmtFloat(t.EntryPrice),
			fmtFloat(t.ExitPrice),
			strconv.FormatInt(t.Quantity, 10),
			fmtFloat(t.PnL),
			t.Notes,
			string(t.Status),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write trade %d: %w", t.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 4, 64)
}
