// Package manager is the single mutation path for the trade journal.
// Every operation reads the current set from the store, applies the
// change and writes the full set back; either the new state persists in
// full or the store is left untouched.
package manager

import (
	"github.com/rs/zerolog"

	"github.com/rustyeddy/tradebook/store"
	"github.com/rustyeddy/tradebook/trade"
)

// Manager orchestrates create/update/close/delete on top of the store.
// It holds no record cache beyond a single operation.
type Manager struct {
	store *store.Store
	log   zerolog.Logger
}

// New returns a manager bound to st.
func New(st *store.Store, log zerolog.Logger) *Manager {
	return &Manager{
		store: st,
		log:   log.With().Str("component", "manager").Logger(),
	}
}

// Create validates the raw fields, assigns the next unused id, derives
// status and pnl, and persists the new record.
func (m *Manager) Create(fields trade.Fields) (trade.Trade, error) {
	t, ferrs := trade.FromFields(fields)
	if len(ferrs) > 0 {
		return trade.Trade{}, &ValidationError{Fields: ferrs}
	}

	trades, err := m.store.Load()
	if err != nil {
		return trade.Trade{}, err
	}
	t.ID, err = m.store.ReserveIDs(trades, 1)
	if err != nil {
		return trade.Trade{}, err
	}
	if err := m.store.Save(append(trades, t)); err != nil {
		return trade.Trade{}, err
	}

	m.log.Info().Int64("id", t.ID).Str("symbol", t.Symbol).Msg("trade created")
	return t, nil
}

// RowFailure pairs an index into a batch with its validation errors.
type RowFailure struct {
	Index  int
	Errors []trade.FieldError
}

// CreateBatch validates every row and persists all valid ones in a
// single load/save cycle. Rows are independent: one row's failure never
// blocks the others, and partial success is normal.
func (m *Manager) CreateBatch(rows []trade.Fields) ([]trade.Trade, []RowFailure, error) {
	trades, err := m.store.Load()
	if err != nil {
		return nil, nil, err
	}

	var created []trade.Trade
	var failed []RowFailure
	for i, fields := range rows {
		t, ferrs := trade.FromFields(fields)
		if len(ferrs) > 0 {
			failed = append(failed, RowFailure{Index: i, Errors: ferrs})
			continue
		}
		created = append(created, t)
	}

	if len(created) > 0 {
		id, err := m.store.ReserveIDs(trades, len(created))
		if err != nil {
			return nil, nil, err
		}
		for i := range created {
			created[i].ID = id + int64(i)
		}
		if err := m.store.Save(append(trades, created...)); err != nil {
			return nil, nil, err
		}
	}
	m.log.Info().Int("created", len(created)).Int("failed", len(failed)).Msg("batch created")
	return created, failed, nil
}

// Update merges the supplied fields onto the existing record,
// re-validates the merged result, recomputes the derived fields and
// persists. Clearing exit_price to zero re-opens the trade and resets
// its pnl.
func (m *Manager) Update(id int64, fields trade.Fields) (trade.Trade, error) {
	trades, err := m.store.Load()
	if err != nil {
		return trade.Trade{}, err
	}
	i := indexOf(trades, id)
	if i < 0 {
		return trade.Trade{}, &NotFoundError{ID: id}
	}

	merged := trades[i].ToFields().Merge(fields)
	t, ferrs := trade.FromFields(merged)
	if len(ferrs) > 0 {
		return trade.Trade{}, &ValidationError{Fields: ferrs}
	}
	t.ID = id
	trades[i] = t

	if err := m.store.Save(trades); err != nil {
		return trade.Trade{}, err
	}
	m.log.Info().Int64("id", id).Msg("trade updated")
	return t, nil
}

// Close sets the exit price on an open trade, fixing its pnl and moving
// it to Closed. Closing twice fails; the first close wins.
func (m *Manager) Close(id int64, exitPrice float64) (trade.Trade, error) {
	if exitPrice <= 0 {
		return trade.Trade{}, &ValidationError{Fields: []trade.FieldError{
			{Field: trade.FieldExitPrice, Message: "must be positive to close"},
		}}
	}

	trades, err := m.store.Load()
	if err != nil {
		return trade.Trade{}, err
	}
	i := indexOf(trades, id)
	if i < 0 {
		return trade.Trade{}, &NotFoundError{ID: id}
	}
	if trades[i].Closed() {
		return trade.Trade{}, &AlreadyClosedError{ID: id}
	}

	trades[i].ExitPrice = exitPrice
	trades[i].Recalc()

	if err := m.store.Save(trades); err != nil {
		return trade.Trade{}, err
	}
	t := trades[i]
	m.log.Info().Int64("id", id).Float64("pnl", t.PnL).Msg("trade closed")
	return t, nil
}

// Delete removes the record if present. Deleting a nonexistent id is
// not an error; the bool reports whether anything was removed.
func (m *Manager) Delete(id int64) (bool, error) {
	trades, err := m.store.Load()
	if err != nil {
		return false, err
	}
	i := indexOf(trades, id)
	if i < 0 {
		return false, nil
	}

	trades = append(trades[:i], trades[i+1:]...)
	if err := m.store.Save(trades); err != nil {
		return false, err
	}
	m.log.Info().Int64("id", id).Msg("trade deleted")
	return true, nil
}

// Get returns a single trade by id.
func (m *Manager) Get(id int64) (trade.Trade, error) {
	trades, err := m.store.Load()
	if err != nil {
		return trade.Trade{}, err
	}
	i := indexOf(trades, id)
	if i < 0 {
		return trade.Trade{}, &NotFoundError{ID: id}
	}
	return trades[i], nil
}

// ListAll returns every trade in store (insertion) order.
func (m *Manager) ListAll() ([]trade.Trade, error) {
	return m.store.Load()
}

// ListOpen returns open trades in store order.
func (m *Manager) ListOpen() ([]trade.Trade, error) {
	return m.listStatus(trade.StatusOpen)
}

// ListClosed returns closed trades in store order.
func (m *Manager) ListClosed() ([]trade.Trade, error) {
	return m.listStatus(trade.StatusClosed)
}

func (m *Manager) listStatus(status trade.Status) ([]trade.Trade, error) {
	trades, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	var out []trade.Trade
	for _, t := range trades {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func indexOf(trades []trade.Trade, id int64) int {
	for i, t := range trades {
		if t.ID == id {
			return i
		}
	}
	return -1
}
