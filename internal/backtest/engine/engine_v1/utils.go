package engine

import (
	"github.com/rxtech-lab/candle-backtest/internal/types"
	"github.com/rxtech-lab/candle-backtest/pkg/errors"
)

// ValidateCandles rejects histories the simulation cannot run over:
// empty input, out-of-order timestamps and duplicate timestamps.
func ValidateCandles(candles []types.Candle) error {
	if len(candles) == 0 {
		return errors.New(errors.ErrCodeBacktestNoData, "candle history is empty")
	}

	for i := 1; i < len(candles); i++ {
		prev := candles[i-1].Time
		cur := candles[i].Time

		if cur.Equal(prev) {
			return errors.Newf(errors.ErrCodeInvalidCandleSeries, "duplicate candle timestamp %s at index %d", cur, i)
		}

		if cur.Before(prev) {
			return errors.Newf(errors.ErrCodeInvalidCandleSeries, "candle timestamp %s at index %d precedes %s", cur, i, prev)
		}
	}

	return nil
}

// filterWindow narrows the history to the configured backtest window.
func filterWindow(candles []types.Candle, config BacktestEngineV1Config) []types.Candle {
	if config.StartTime.IsNone() && config.EndTime.IsNone() {
		return candles
	}

	filtered := make([]types.Candle, 0, len(candles))

	for _, candle := range candles {
		if config.StartTime.IsSome() && candle.Time.Before(config.StartTime.Unwrap()) {
			continue
		}

		if config.EndTime.IsSome() && candle.Time.After(config.EndTime.Unwrap()) {
			continue
		}

		filtered = append(filtered, candle)
	}

	return filtered
}
