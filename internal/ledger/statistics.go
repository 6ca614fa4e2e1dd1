package ledger

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/candle-backtest/internal/types"
)

// Summarize aggregates closed trades into run statistics. A position
// still open after the last candle is attached as-is and does not
// enter any aggregate.
func Summarize(trades []types.ClosedTrade, openPosition optional.Option[types.Position]) types.BacktestStats {
	stats := types.BacktestStats{
		Total: sideStats(trades),
		Long:  sideStats(filterSide(trades, types.PositionSideLong)),
		Short: sideStats(filterSide(trades, types.PositionSideShort)),
	}

	if len(trades) > 0 {
		first := trades[0]
		last := trades[len(trades)-1]
		stats.PeriodReturnPercent = (last.ClosePrice - first.OpenPrice) / first.OpenPrice * 100
	}

	for _, trade := range trades {
		stats.TotalProfitPercent += trade.ProfitPercent
		stats.TotalProfitRatePercent += trade.ProfitRatePercent
	}

	if openPosition.IsSome() {
		position := openPosition.Unwrap()
		stats.OpenPosition = &position
	}

	return stats
}

func filterSide(trades []types.ClosedTrade, side types.PositionSide) []types.ClosedTrade {
	var filtered []types.ClosedTrade

	for _, trade := range trades {
		if trade.Side == side {
			filtered = append(filtered, trade)
		}
	}

	return filtered
}

// sideStats computes count, win rate and the first two moments of the
// quantity-weighted profits. The standard deviation uses the sample
// (n-1) denominator and is zero below two trades.
func sideStats(trades []types.ClosedTrade) types.SideStats {
	if len(trades) == 0 {
		return types.SideStats{}
	}

	var wins int
	var sum float64

	for _, trade := range trades {
		if trade.ProfitPercent > 0 {
			wins++
		}

		sum += trade.ProfitPercent
	}

	n := float64(len(trades))
	mean := sum / n

	var variance float64
	if len(trades) > 1 {
		for _, trade := range trades {
			diff := trade.ProfitPercent - mean
			variance += diff * diff
		}

		variance /= n - 1
	}

	return types.SideStats{
		Trades:            len(trades),
		WinRatePercent:    float64(wins) / n * 100,
		MeanProfitPercent: mean,
		StdProfitPercent:  math.Sqrt(variance),
	}
}
