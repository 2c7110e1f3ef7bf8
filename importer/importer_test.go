package importer

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradebook/manager"
	"github.com/rustyeddy/tradebook/store"
	"github.com/rustyeddy/tradebook/trade"
)

const upload = `Date,Ticker,Strategy,Entry Price,Exit Price,Qty,Comment
03/15/2024,aapl,Long Stock,"1,150.25",1155.00,100,solid setup
2024-03-16,MSFT,Long Stock,$300,0,10,still running
bad-date,GOOGL,Long Stock,2800,0,10,broken row
2024-03-18,TSLA,Short Stock,200,190,-5,quick short
`

func identityMapping() map[string]string {
	return map[string]string{
		"date":        "Date",
		"symbol":      "Ticker",
		"strategy":    "Strategy",
		"entry_price": "Entry Price",
		"exit_price":  "Exit Price",
		"quantity":    "Qty",
		"notes":       "Comment",
	}
}

func newTestManager(t *testing.T) *manager.Manager {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "trades.csv"), zerolog.Nop())
	return manager.New(st, zerolog.Nop())
}

func TestReadTable(t *testing.T) {
	t.Parallel()

	tbl, err := ReadTable(strings.NewReader(upload))
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Ticker", "Strategy", "Entry Price", "Exit Price", "Qty", "Comment"}, tbl.Columns)
	assert.Len(t, tbl.Rows, 4)
}

func TestReadTableSniffsDelimiter(t *testing.T) {
	t.Parallel()

	tbl, err := ReadTable(strings.NewReader("date;symbol;qty\n2024-01-01;AAPL;10\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "symbol", "qty"}, tbl.Columns)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "AAPL", tbl.Rows[0][1])
}

func TestReadTableEmpty(t *testing.T) {
	t.Parallel()

	_, err := ReadTable(strings.NewReader("  \n"))
	assert.Error(t, err)
}

func TestInspectSuggestsMapping(t *testing.T) {
	t.Parallel()

	tbl, err := ReadTable(strings.NewReader(upload))
	require.NoError(t, err)

	insp := Inspect(tbl)
	assert.Equal(t, tbl.Columns, insp.Columns)
	assert.Len(t, insp.Sample, 4) // fewer rows than the sample cap

	want := identityMapping()
	assert.Equal(t, want, insp.Suggested)
}

func TestSuggestMappingLeavesUnknownUnmapped(t *testing.T) {
	t.Parallel()

	got := SuggestMapping([]string{"When", "What", "HowMany"})
	assert.Empty(t, got)
}

func TestSuggestMappingSubstring(t *testing.T) {
	t.Parallel()

	got := SuggestMapping([]string{"trade_date", "symbol name", "entry_price_usd"})
	assert.Equal(t, "trade_date", got["date"])
	assert.Equal(t, "symbol name", got["symbol"])
	assert.Equal(t, "entry_price_usd", got["entry_price"])
}

func TestPreviewCoercesAndFlagsRows(t *testing.T) {
	t.Parallel()

	tbl, err := ReadTable(strings.NewReader(upload))
	require.NoError(t, err)

	p := PreviewRows(tbl, identityMapping())
	require.Len(t, p.Valid, 3)
	require.Len(t, p.Errors, 1)
	assert.Equal(t, 2, p.Errors[0].Row)
	assert.Equal(t, "date", p.Errors[0].Errors[0].Field)

	first := p.Valid[0]
	assert.Equal(t, "2024-03-15", first["date"])
	assert.Equal(t, "AAPL", first["symbol"])
	entry, _ := trade.ParseFloat(first["entry_price"])
	assert.InDelta(t, 1150.25, entry, 1e-9)

	second := p.Valid[1]
	assert.Equal(t, "2024-03-16", second["date"])
	entry, _ = trade.ParseFloat(second["entry_price"])
	assert.InDelta(t, 300.0, entry, 1e-9)
}

func TestPreviewDefaultsStrategy(t *testing.T) {
	t.Parallel()

	tbl, err := ReadTable(strings.NewReader("date,symbol,entry_price,quantity\n2024-01-02,AAPL,100,10\n"))
	require.NoError(t, err)

	mapping := SuggestMapping(tbl.Columns)
	p := PreviewRows(tbl, mapping)
	require.Len(t, p.Valid, 1)
	assert.Equal(t, string(trade.Other), p.Valid[0]["strategy"])
}

func TestImportRowsAccountsForEveryRow(t *testing.T) {
	t.Parallel()

	mgr := newTestManager(t)
	tbl, err := ReadTable(strings.NewReader(upload))
	require.NoError(t, err)

	res, err := ImportRows(tbl, identityMapping(), mgr, nil, true)
	require.NoError(t, err)

	assert.Len(t, res.Created, 3)
	assert.Empty(t, res.Skipped)
	assert.Len(t, res.Failed, 1)
	assert.Equal(t, len(tbl.Rows), len(res.Created)+len(res.Skipped)+len(res.Failed))

	all, err := mgr.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestImportRowsSkipsDuplicatesOnSecondRun(t *testing.T) {
	t.Parallel()

	mgr := newTestManager(t)
	tbl, err := ReadTable(strings.NewReader(upload))
	require.NoError(t, err)

	first, err := ImportRows(tbl, identityMapping(), mgr, nil, true)
	require.NoError(t, err)
	require.Len(t, first.Created, 3)

	existing, err := mgr.ListAll()
	require.NoError(t, err)

	second, err := ImportRows(tbl, identityMapping(), mgr, existing, true)
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	assert.Len(t, second.Skipped, 3) // every importable row reported as skipped
	assert.Len(t, second.Failed, 1)

	all, err := mgr.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestImportRowsDuplicatesAllowedWhenDisabled(t *testing.T) {
	t.Parallel()

	mgr := newTestManager(t)
	tbl, err := ReadTable(strings.NewReader(upload))
	require.NoError(t, err)

	_, err = ImportRows(tbl, identityMapping(), mgr, nil, false)
	require.NoError(t, err)
	existing, err := mgr.ListAll()
	require.NoError(t, err)

	res, err := ImportRows(tbl, identityMapping(), mgr, existing, false)
	require.NoError(t, err)
	assert.Len(t, res.Created, 3)

	all, err := mgr.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestNormalizeDateFormats(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"2024-03-15":          "2024-03-15",
		"2024/03/15":          "2024-03-15",
		"03/15/2024":          "2024-03-15",
		"3/5/2024":            "2024-03-05",
		"Jan 2, 2024":         "2024-01-02",
		"02 Jan 2024":         "2024-01-02",
		"2024-03-15 09:30:00": "2024-03-15",
	}
	for in, want := range cases {
		got, err := NormalizeDate(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	_, err := NormalizeDate("the ides of march")
	assert.Error(t, err)
}
