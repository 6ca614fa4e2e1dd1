package indicator

import (
	"github.com/rxtech-lab/candle-backtest/internal/types"
	"github.com/rxtech-lab/candle-backtest/pkg/errors"
)

// vwapWarmup caps the number of leading candles skipped while the
// decayed accumulators stabilize.
const vwapWarmup = 50

// ExponentialVWAP computes a volume weighted average price where both
// accumulators decay by 1/period at every candle, so recent candles
// dominate.
type ExponentialVWAP struct {
	period int
}

// NewExponentialVWAP creates a new ExponentialVWAP indicator with
// default configuration.
func NewExponentialVWAP() Indicator {
	return &ExponentialVWAP{
		period: 120, // Default period
	}
}

// Name returns the name of the indicator.
func (v *ExponentialVWAP) Name() types.IndicatorType {
	return types.IndicatorTypeVWAP
}

// Expected parameters: period (int).
func (v *ExponentialVWAP) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeInvalidParameter, "Config expects 1 parameter: period (int)")
	}

	period, ok := asInt(params[0])
	if !ok {
		return errors.New(errors.ErrCodeInvalidParameter, "invalid type for period parameter, expected int or float")
	}

	if err := positivePeriod("period", period); err != nil {
		return err
	}

	v.period = period

	return nil
}

// Compute calculates the exponential VWAP series over the given candles.
func (v *ExponentialVWAP) Compute(candles []types.Candle) (any, error) {
	if err := positivePeriod("period", v.period); err != nil {
		return nil, err
	}

	return VWAPSeries(candles, v.period), nil
}

// VWAPSeries returns the exponentially decayed VWAP of close prices.
// The first min(period, 50) candles are consumed but not emitted while
// the accumulators warm up. A candle run with zero accumulated volume
// yields a zero value.
func VWAPSeries(candles []types.Candle, period int) []types.VWAPPoint {
	if len(candles) == 0 || period <= 0 {
		return nil
	}

	decay := 1 - 1/float64(period)
	warmup := min(period, vwapWarmup)

	var cumulativeVolume, cumulativePriceVolume float64

	points := make([]types.VWAPPoint, 0, max(len(candles)-warmup, 0))

	for i, candle := range candles {
		cumulativeVolume = cumulativeVolume*decay + candle.Volume
		cumulativePriceVolume = cumulativePriceVolume*decay + candle.Close*candle.Volume

		if i < warmup {
			continue
		}

		var vwap float64
		if cumulativeVolume > 0 {
			vwap = cumulativePriceVolume / cumulativeVolume
		}

		points = append(points, types.VWAPPoint{
			Timestamp: candle.Time,
			Value:     vwap,
		})
	}

	return points
}
