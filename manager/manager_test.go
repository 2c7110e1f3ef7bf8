package manager

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradebook/store"
	"github.com/rustyeddy/tradebook/trade"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "trades.csv"), zerolog.Nop())
	return New(st, zerolog.Nop())
}

func openFields(symbol string) trade.Fields {
	return trade.Fields{
		"date":        "2024-03-15",
		"symbol":      symbol,
		"strategy":    "Long Stock",
		"entry_price": "100",
		"quantity":    "10",
	}
}

func TestCreateAssignsIDAndDerivedFields(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	created, err := m.Create(openFields("aapl"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "AAPL", created.Symbol)
	assert.Equal(t, trade.StatusOpen, created.Status)
	assert.Zero(t, created.PnL)

	all, err := m.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, created, all[0])
}

func TestCreateRejectsInvalidFields(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	_, err := m.Create(trade.Fields{"symbol": "AAPL"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Fields)

	all, err := m.ListAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCloseComputesPnL(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	created, err := m.Create(openFields("AAPL"))
	require.NoError(t, err)

	closed, err := m.Close(created.ID, 110)
	require.NoError(t, err)
	assert.Equal(t, trade.StatusClosed, closed.Status)
	assert.InDelta(t, 100.0, closed.PnL, 1e-9)
}

func TestCloseShortPosition(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	f := openFields("TSLA")
	f["quantity"] = "-10"
	f["strategy"] = "Short Stock"
	created, err := m.Create(f)
	require.NoError(t, err)

	closed, err := m.Close(created.ID, 110)
	require.NoError(t, err)
	assert.InDelta(t, -100.0, closed.PnL, 1e-9)
}

func TestCloseAlreadyClosedLeavesStoreUntouched(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	created, err := m.Create(openFields("AAPL"))
	require.NoError(t, err)
	_, err = m.Close(created.ID, 110)
	require.NoError(t, err)

	before, err := m.ListAll()
	require.NoError(t, err)

	_, err = m.Close(created.ID, 120)
	var closedErr *AlreadyClosedError
	require.ErrorAs(t, err, &closedErr)
	assert.Equal(t, created.ID, closedErr.ID)

	after, err := m.ListAll()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCloseNotFound(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	_, err := m.Close(42, 110)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, int64(42), nf.ID)
}

func TestCloseRequiresPositiveExit(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	created, err := m.Create(openFields("AAPL"))
	require.NoError(t, err)

	_, err = m.Close(created.ID, 0)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUpdateMergesAndRevalidates(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	created, err := m.Create(openFields("AAPL"))
	require.NoError(t, err)

	updated, err := m.Update(created.ID, trade.Fields{"notes": "revised", "exit_price": "105"})
	require.NoError(t, err)
	assert.Equal(t, "revised", updated.Notes)
	assert.Equal(t, trade.StatusClosed, updated.Status)
	assert.InDelta(t, 50.0, updated.PnL, 1e-9)

	_, err = m.Update(created.ID, trade.Fields{"quantity": "0"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUpdateReopensAndResetsPnL(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	created, err := m.Create(openFields("AAPL"))
	require.NoError(t, err)
	_, err = m.Close(created.ID, 110)
	require.NoError(t, err)

	reopened, err := m.Update(created.ID, trade.Fields{"exit_price": "0"})
	require.NoError(t, err)
	assert.Equal(t, trade.StatusOpen, reopened.Status)
	assert.Zero(t, reopened.PnL)

	// And it can be closed again.
	closed, err := m.Close(created.ID, 120)
	require.NoError(t, err)
	assert.InDelta(t, 200.0, closed.PnL, 1e-9)
}

func TestUpdateNotFound(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	_, err := m.Update(7, trade.Fields{"notes": "x"})
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestDeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	created, err := m.Create(openFields("AAPL"))
	require.NoError(t, err)

	removed, err := m.Delete(created.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = m.Delete(created.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestIDsNotReusedAfterDelete(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	first, err := m.Create(openFields("AAPL"))
	require.NoError(t, err)
	second, err := m.Create(openFields("MSFT"))
	require.NoError(t, err)
	require.Equal(t, int64(2), second.ID)

	// Deleting the highest id must not recycle it.
	_, err = m.Delete(second.ID)
	require.NoError(t, err)

	third, err := m.Create(openFields("GOOGL"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), third.ID)
	assert.NotEqual(t, first.ID, third.ID)
	assert.NotEqual(t, second.ID, third.ID)
}

func TestIDCounterSurvivesDeleteAll(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	for _, sym := range []string{"AAPL", "MSFT", "GOOGL"} {
		_, err := m.Create(openFields(sym))
		require.NoError(t, err)
	}
	for id := int64(1); id <= 3; id++ {
		_, err := m.Delete(id)
		require.NoError(t, err)
	}

	created, err := m.Create(openFields("TSLA"))
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)
}

func TestListProjections(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	a, err := m.Create(openFields("AAPL"))
	require.NoError(t, err)
	_, err = m.Create(openFields("MSFT"))
	require.NoError(t, err)
	_, err = m.Close(a.ID, 110)
	require.NoError(t, err)

	open, err := m.ListOpen()
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "MSFT", open[0].Symbol)

	closed, err := m.ListClosed()
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, "AAPL", closed[0].Symbol)
}

func TestCreateBatchPartialSuccess(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	rows := []trade.Fields{
		openFields("AAPL"),
		{"symbol": "BAD"}, // missing everything else
		openFields("MSFT"),
	}
	created, failed, err := m.CreateBatch(rows)
	require.NoError(t, err)

	require.Len(t, created, 2)
	assert.Equal(t, int64(1), created[0].ID)
	assert.Equal(t, int64(2), created[1].ID)
	require.Len(t, failed, 1)
	assert.Equal(t, 1, failed[0].Index)

	all, err := m.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGet(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	created, err := m.Create(openFields("AAPL"))
	require.NoError(t, err)

	got, err := m.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = m.Get(99)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestMutationsSurviveReload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "trades.csv")
	m := New(store.New(path, zerolog.Nop()), zerolog.Nop())

	created, err := m.Create(openFields("AAPL"))
	require.NoError(t, err)
	_, err = m.Close(created.ID, 110)
	require.NoError(t, err)

	// A fresh manager over the same file sees the same state.
	m2 := New(store.New(path, zerolog.Nop()), zerolog.Nop())
	all, err := m2.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, trade.StatusClosed, all[0].Status)
	assert.InDelta(t, 100.0, all[0].PnL, 1e-9)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
