package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/candle-backtest/internal/types"
	"github.com/rxtech-lab/candle-backtest/pkg/errors"
)

// RSI indicator implements Wilder's relative strength index with an
// optional simple moving average attached to each point.
type RSI struct {
	period   int
	maPeriod int
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() Indicator {
	return &RSI{
		period:   18,
		maPeriod: 3,
	}
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Expected parameters: period (int), maPeriod (int).
func (r *RSI) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeInvalidParameter, "Config expects 2 parameters: period (int), maPeriod (int)")
	}

	period, ok := asInt(params[0])
	if !ok {
		return errors.New(errors.ErrCodeInvalidParameter, "invalid type for period parameter, expected int or float")
	}

	maPeriod, ok := asInt(params[1])
	if !ok {
		return errors.New(errors.ErrCodeInvalidParameter, "invalid type for maPeriod parameter, expected int or float")
	}

	if err := positivePeriod("period", period); err != nil {
		return err
	}

	if err := positivePeriod("maPeriod", maPeriod); err != nil {
		return err
	}

	r.period = period
	r.maPeriod = maPeriod

	return nil
}

// Compute calculates the RSI series over the given candles.
func (r *RSI) Compute(candles []types.Candle) (any, error) {
	if err := positivePeriod("period", r.period); err != nil {
		return nil, err
	}

	return RSISeries(candles, r.period, r.maPeriod), nil
}

// RSISeries returns Wilder's RSI of close prices. The seed averages
// come from the first period deltas, where a zero delta counts as a
// gain; afterwards each average is smoothed with weight (period-1). A
// zero average loss maps to a relative strength of 100 rather than
// infinity. The first point sits at index period.
func RSISeries(candles []types.Candle, period, maPeriod int) []types.RSIPoint {
	if len(candles) < period+1 || period <= 0 {
		return nil
	}

	var gainSum, lossSum float64
	for i := 1; i <= period; i++ {
		diff := candles[i].Close - candles[i-1].Close
		if diff >= 0 {
			gainSum += diff
		} else {
			lossSum -= diff
		}
	}

	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)

	points := make([]types.RSIPoint, 0, len(candles)-period)
	points = append(points, types.RSIPoint{
		Timestamp: candles[period].Time,
		Value:     100 - 100/(1+relativeStrength(avgGain, avgLoss)),
	})

	for i := period + 1; i < len(candles); i++ {
		diff := candles[i].Close - candles[i-1].Close

		var gain, loss float64
		if diff > 0 {
			gain = diff
		} else {
			loss = -diff
		}

		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)

		points = append(points, types.RSIPoint{
			Timestamp: candles[i].Time,
			Value:     100 - 100/(1+relativeStrength(avgGain, avgLoss)),
		})
	}

	if maPeriod > 0 {
		attachRSIMA(points, maPeriod)
	}

	return points
}

func relativeStrength(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}

	return avgGain / avgLoss
}

// attachRSIMA sets the simple moving average of the RSI values on every
// point that has a full window behind it.
func attachRSIMA(points []types.RSIPoint, maPeriod int) {
	for i := maPeriod - 1; i < len(points); i++ {
		var sum float64
		for j := i - maPeriod + 1; j <= i; j++ {
			sum += points[j].Value
		}

		points[i].MA = optional.Some(sum / float64(maPeriod))
	}
}
