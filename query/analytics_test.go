package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradebook/trade"
)

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	s := Summarize(nil)
	assert.Zero(t, s.TradeCount)
	assert.Zero(t, s.WinRate)
	assert.Zero(t, s.AverageTrade)
	assert.Zero(t, s.TotalPnL)
	assert.Nil(t, s.Best)
	assert.Nil(t, s.Worst)
	assert.Empty(t, s.ByStrategy)
	assert.Empty(t, s.BySymbol)
}

func TestSummarizeScenario(t *testing.T) {
	t.Parallel()

	trades := []trade.Trade{
		mk(1, "2024-01-10", "AAPL", trade.LongStock, 150, 155, 100, ""),
		mk(2, "2024-01-12", "GOOGL", trade.LongStock, 2800, 0, 10, ""),
	}
	s := Summarize(trades)

	assert.InDelta(t, 500.0, s.TotalPnL, 1e-9)
	assert.Equal(t, 2, s.TradeCount)
	assert.Equal(t, 1, s.OpenCount)
	assert.Equal(t, 1, s.ClosedCount)
	assert.InDelta(t, 1.0, s.WinRate, 1e-9)
	assert.InDelta(t, 500.0, s.AverageTrade, 1e-9)
}

func TestSummarizeOpenTradesContributeZero(t *testing.T) {
	t.Parallel()

	trades := []trade.Trade{
		mk(1, "2024-01-10", "AAPL", trade.LongStock, 150, 0, 100, ""),
		mk(2, "2024-01-12", "MSFT", trade.LongStock, 300, 0, 10, ""),
	}
	s := Summarize(trades)
	assert.Zero(t, s.TotalPnL)
	assert.Zero(t, s.WinRate) // no closed trades, no division
	assert.Equal(t, 2, s.OpenCount)
}

func TestSummarizeBestWorstTieBreaksToEarliestDate(t *testing.T) {
	t.Parallel()

	trades := []trade.Trade{
		mk(1, "2024-02-01", "AAPL", trade.LongStock, 100, 110, 10, ""), // +100
		mk(2, "2024-01-01", "MSFT", trade.LongStock, 200, 210, 10, ""), // +100 earlier
		mk(3, "2024-01-15", "TSLA", trade.LongStock, 50, 45, 10, ""),   // -50
	}
	s := Summarize(trades)

	require.NotNil(t, s.Best)
	assert.Equal(t, int64(2), s.Best.ID)
	require.NotNil(t, s.Worst)
	assert.Equal(t, int64(3), s.Worst.ID)
}

func TestSummarizeGroups(t *testing.T) {
	t.Parallel()

	s := Summarize(fixture())

	long := s.ByStrategy[string(trade.LongStock)]
	assert.Equal(t, 2, long.TradeCount)
	assert.Equal(t, 1, long.ClosedCount)
	assert.InDelta(t, 500.0, long.TotalPnL, 1e-9)
	assert.InDelta(t, 1.0, long.WinRate, 1e-9)

	aapl := s.BySymbol["AAPL"]
	assert.Equal(t, 2, aapl.TradeCount)
	assert.InDelta(t, 502.3, aapl.TotalPnL, 1e-6)

	assert.Equal(t, []string{"AAPL", "GOOGL", "TSLA"}, GroupKeys(s.BySymbol))
}

func TestSummarizeMarked(t *testing.T) {
	t.Parallel()

	trades := []trade.Trade{
		mk(1, "2024-01-10", "AAPL", trade.LongStock, 150, 155, 100, ""),
		mk(2, "2024-01-12", "GOOGL", trade.LongStock, 2800, 0, 10, ""),
		mk(3, "2024-01-13", "MSFT", trade.LongStock, 300, 0, 10, ""),
	}
	marks := map[string]float64{"GOOGL": 2850} // no mark for MSFT

	s := SummarizeMarked(trades, marks)
	assert.InDelta(t, 500.0, s.TotalPnL, 1e-9) // realized unchanged
	assert.InDelta(t, 500.0, s.UnrealizedPnL, 1e-9)
	assert.Equal(t, 1, s.MarkedCount)
}

func TestPnLOverTime(t *testing.T) {
	t.Parallel()

	trades := []trade.Trade{
		mk(1, "2024-01-12", "MSFT", trade.LongStock, 300, 310, 10, ""), // +100
		mk(2, "2024-01-10", "AAPL", trade.LongStock, 150, 155, 100, ""), // +500
		mk(3, "2024-01-10", "AAPL", trade.LongStock, 150, 145, 10, ""),  // -50 same day
		mk(4, "2024-01-15", "GOOGL", trade.LongStock, 2800, 0, 10, ""),  // open, excluded
	}
	points := PnLOverTime(trades)
	require.Len(t, points, 2)

	assert.Equal(t, "2024-01-10", points[0].Date)
	assert.InDelta(t, 450.0, points[0].PnL, 1e-9)
	assert.InDelta(t, 450.0, points[0].Cumulative, 1e-9)

	assert.Equal(t, "2024-01-12", points[1].Date)
	assert.InDelta(t, 100.0, points[1].PnL, 1e-9)
	assert.InDelta(t, 550.0, points[1].Cumulative, 1e-9)
}

func TestMonthlySummary(t *testing.T) {
	t.Parallel()

	trades := []trade.Trade{
		mk(1, "2024-01-10", "AAPL", trade.LongStock, 150, 155, 100, ""),
		mk(2, "2024-01-20", "MSFT", trade.LongStock, 300, 290, 10, ""),
		mk(3, "2024-02-02", "TSLA", trade.ShortStock, 200, 190, -5, ""),
	}
	months := MonthlySummary(trades)
	require.Len(t, months, 2)
	assert.Equal(t, MonthPnL{Month: "2024-01", PnL: 400}, months[0])
	assert.Equal(t, MonthPnL{Month: "2024-02", PnL: 50}, months[1])
}

func TestWinLossDistribution(t *testing.T) {
	t.Parallel()

	trades := []trade.Trade{
		mk(1, "2024-01-10", "AAPL", trade.LongStock, 150, 155, 100, ""),
		mk(2, "2024-01-11", "MSFT", trade.LongStock, 300, 290, 10, ""),
		mk(3, "2024-01-12", "TSLA", trade.LongStock, 200, 200, 10, ""),
		mk(4, "2024-01-13", "GOOGL", trade.LongStock, 2800, 0, 10, ""),
	}
	w := WinLossDistribution(trades)
	assert.Equal(t, WinLoss{Wins: 1, Losses: 1, Breakeven: 1}, w)
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	out := FormatSummary(Summarize(fixture()), "USD")
	assert.Contains(t, out, "Trades:       4 (1 open, 3 closed)")
	assert.Contains(t, out, "Total P&L:    552.30 USD")
	assert.Contains(t, out, "Win Rate:     100.0%")
	assert.Contains(t, out, "Best Trade:   2024-01-10 AAPL +500.00")
	assert.Contains(t, out, "By Strategy")
	assert.Contains(t, out, "By Symbol")
}

func TestFormatSummaryEmptyJournal(t *testing.T) {
	t.Parallel()

	out := FormatSummary(Summarize(nil), "USD")
	assert.Contains(t, out, "Trades:       0 (0 open, 0 closed)")
	assert.Contains(t, out, "Win Rate:     0.0%")
	assert.NotContains(t, out, "Best Trade")
}
