package indicator

import (
	"time"

	"github.com/rxtech-lab/candle-backtest/internal/types"
)

var testStart = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// candlesFromCloses builds a one-minute candle series where each candle
// opens at the previous close and trades one unit around its close.
func candlesFromCloses(closes ...float64) []types.Candle {
	candles := make([]types.Candle, len(closes))

	for i, close := range closes {
		open := close
		if i > 0 {
			open = closes[i-1]
		}

		candles[i] = types.Candle{
			Time:   testStart.Add(time.Duration(i) * time.Minute),
			Open:   open,
			High:   max(open, close) + 1,
			Low:    min(open, close) - 1,
			Close:  close,
			Volume: 1,
		}
	}

	return candles
}

func constantCandles(n int, price float64) []types.Candle {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}

	return candlesFromCloses(closes...)
}
