package indicator

import (
	"github.com/rxtech-lab/candle-backtest/internal/types"
	"github.com/rxtech-lab/candle-backtest/pkg/errors"
)

// MA indicator implements Simple Moving Average calculation over close
// prices.
type MA struct {
	period int
}

// NewMA creates a new MA indicator with default configuration.
func NewMA() Indicator {
	return &MA{
		period: 50, // Default period
	}
}

// Name returns the name of the indicator.
func (m *MA) Name() types.IndicatorType {
	return types.IndicatorTypeMA
}

// Expected parameters: period (int).
func (m *MA) Config(params ...any) error {
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

	m.period = period

	return nil
}

// Compute calculates the moving average series over the given candles.
func (m *MA) Compute(candles []types.Candle) (any, error) {
	if err := positivePeriod("period", m.period); err != nil {
		return nil, err
	}

	return MASeries(candles, m.period), nil
}

// MASeries returns the simple moving average of close prices. The first
// point sits at the candle where a full window is available.
func MASeries(candles []types.Candle, period int) []types.MAPoint {
	if len(candles) < period || period <= 0 {
		return nil
	}

	points := make([]types.MAPoint, 0, len(candles)-period+1)

	var sum float64
	for i, candle := range candles {
		sum += candle.Close
		if i >= period {
			sum -= candles[i-period].Close
		}

		if i >= period-1 {
			points = append(points, types.MAPoint{
				Timestamp: candle.Time,
				Value:     sum / float64(period),
			})
		}
	}

	return points
}
