// Package ledger turns the execution history of a backtest run into
// closed round-trip trades and summary statistics.
package ledger

import (
	"time"

	"github.com/rxtech-lab/candle-backtest/internal/types"
	"github.com/rxtech-lab/candle-backtest/pkg/errors"
	"github.com/shopspring/decimal"
)

// Build folds the execution history into closed trades. Each close
// execution produces one trade whose open price is the position's
// average entry price at close time and whose open time is the first
// entry fill since the previous close. The fee percent is subtracted
// from every profit rate once per round trip.
func Build(executions []types.Execution, feePercent float64) ([]types.ClosedTrade, error) {
	var (
		trades    []types.ClosedTrade
		openTime  time.Time
		entryFill int
	)

	entrySide := types.SideBuy

	for _, execution := range executions {
		if execution.Side != types.SideClose {
			entrySide = execution.Side
			if entryFill == 0 {
				openTime = execution.Timestamp
			}

			entryFill++

			continue
		}

		if execution.PositionPriceAtClose.IsNone() {
			return nil, errors.Newf(errors.ErrCodeDataParseFailed, "close execution %s is missing the position price", execution.OrderID)
		}

		positionPrice := execution.PositionPriceAtClose.Unwrap()
		if positionPrice == 0 {
			return nil, errors.Newf(errors.ErrCodeDataParseFailed, "close execution %s has a zero position price", execution.OrderID)
		}

		side := types.PositionSideLong
		delta := decimal.NewFromFloat(execution.FillPrice).Sub(decimal.NewFromFloat(positionPrice))

		if entrySide == types.SideSell {
			side = types.PositionSideShort
			delta = delta.Neg()
		}

		rate, _ := delta.
			Div(decimal.NewFromFloat(positionPrice)).
			Mul(decimal.NewFromInt(100)).
			Sub(decimal.NewFromFloat(feePercent)).
			Float64()

		trades = append(trades, types.ClosedTrade{
			Side:              side,
			OpenPrice:         positionPrice,
			ClosePrice:        execution.FillPrice,
			OpenTime:          openTime,
			CloseTime:         execution.Timestamp,
			Quantity:          execution.Quantity,
			ProfitPercent:     rate * execution.Quantity,
			ProfitRatePercent: rate,
			HoldingPeriod:     execution.Timestamp.Sub(openTime),
		})

		entryFill = 0
	}

	return trades, nil
}
