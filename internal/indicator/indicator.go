package indicator

import (
	"github.com/rxtech-lab/candle-backtest/internal/types"
	"github.com/rxtech-lab/candle-backtest/pkg/errors"
)

// Indicator interface defines methods that any technical indicator must implement
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Config updates the indicator parameters
	Config(params ...any) error
	// Compute calculates the indicator series over the given candles.
	// The concrete return type depends on the indicator.
	Compute(candles []types.Candle) (any, error)
}

// asInt coerces a Config parameter to int, accepting float64 values
// that arrive through YAML or JSON decoding.
func asInt(param any) (int, bool) {
	switch v := param.(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func asFloat(param any) (float64, bool) {
	switch v := param.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func positivePeriod(name string, period int) error {
	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "%s must be a positive integer, got %d", name, period)
	}

	return nil
}
