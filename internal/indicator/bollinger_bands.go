package indicator

import (
	"math"

	"github.com/rxtech-lab/candle-backtest/internal/types"
	"github.com/rxtech-lab/candle-backtest/pkg/errors"
)

// BollingerBands indicator computes a middle SMA band with upper and
// lower bands two population standard deviations away.
type BollingerBands struct {
	period int
}

// NewBollingerBands creates a new BollingerBands indicator with default
// configuration.
func NewBollingerBands() Indicator {
	return &BollingerBands{
		period: 20, // Default period
	}
}

// Name returns the name of the indicator.
func (b *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Expected parameters: period (int).
func (b *BollingerBands) Config(params ...any) error {
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

	b.period = period

	return nil
}

// Compute calculates the Bollinger Bands series over the given candles.
func (b *BollingerBands) Compute(candles []types.Candle) (any, error) {
	if err := positivePeriod("period", b.period); err != nil {
		return nil, err
	}

	return BollingerSeries(candles, b.period), nil
}

// BollingerSeries returns the Bollinger Bands of close prices.
func BollingerSeries(candles []types.Candle, period int) []types.BollingerPoint {
	if len(candles) < period || period <= 0 {
		return nil
	}

	points := make([]types.BollingerPoint, 0, len(candles)-period+1)

	for i := period - 1; i < len(candles); i++ {
		window := candles[i-period+1 : i+1]

		var sum float64
		for _, candle := range window {
			sum += candle.Close
		}

		mean := sum / float64(period)

		var variance float64
		for _, candle := range window {
			diff := candle.Close - mean
			variance += diff * diff
		}

		stdDev := math.Sqrt(variance / float64(period))

		points = append(points, types.BollingerPoint{
			Timestamp: candles[i].Time,
			Upper:     mean + 2*stdDev,
			Middle:    mean,
			Lower:     mean - 2*stdDev,
		})
	}

	return points
}
