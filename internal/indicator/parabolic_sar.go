package indicator

import (
	"github.com/rxtech-lab/candle-backtest/internal/types"
	"github.com/rxtech-lab/candle-backtest/pkg/errors"
)

// ParabolicSAR indicator implements the parabolic stop-and-reverse
// trend tracker.
type ParabolicSAR struct {
	step  float64
	maxAF float64
}

// NewParabolicSAR creates a new ParabolicSAR indicator with default
// configuration.
func NewParabolicSAR() Indicator {
	return &ParabolicSAR{
		step:  0.005,
		maxAF: 0.05,
	}
}

// Name returns the name of the indicator.
func (p *ParabolicSAR) Name() types.IndicatorType {
	return types.IndicatorTypeParabolicSAR
}

// Expected parameters: step (float64), maxAF (float64).
func (p *ParabolicSAR) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeInvalidParameter, "Config expects 2 parameters: step (float64), maxAF (float64)")
	}

	step, ok := asFloat(params[0])
	if !ok {
		return errors.New(errors.ErrCodeInvalidParameter, "invalid type for step parameter, expected float")
	}

	maxAF, ok := asFloat(params[1])
	if !ok {
		return errors.New(errors.ErrCodeInvalidParameter, "invalid type for maxAF parameter, expected float")
	}

	if step <= 0 || maxAF <= 0 {
		return errors.Newf(errors.ErrCodeInvalidParameter, "step and maxAF must be positive, got %f and %f", step, maxAF)
	}

	if step > maxAF {
		return errors.Newf(errors.ErrCodeInvalidParameter, "step %f must not exceed maxAF %f", step, maxAF)
	}

	p.step = step
	p.maxAF = maxAF

	return nil
}

// Compute calculates the SAR series over the given candles.
func (p *ParabolicSAR) Compute(candles []types.Candle) (any, error) {
	if p.step <= 0 || p.maxAF <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "step and maxAF must be positive, got %f and %f", p.step, p.maxAF)
	}

	return SARSeries(candles, p.step, p.maxAF), nil
}

// SARSeries returns the parabolic SAR. The initial trend direction
// comes from the first two closes. In an uptrend the SAR is clamped to
// the lower of the previous two lows, in a downtrend to the higher of
// the previous two highs. The trend flips when the current candle
// touches the SAR, resetting the acceleration factor.
func SARSeries(candles []types.Candle, step, maxAF float64) []types.SARPoint {
	if len(candles) < 2 {
		return nil
	}

	uptrend := candles[1].Close > candles[0].Close

	var sar, ep float64
	if uptrend {
		sar = candles[0].Low
		ep = candles[0].High
	} else {
		sar = candles[0].High
		ep = candles[0].Low
	}

	acceleration := step

	points := make([]types.SARPoint, 0, len(candles))
	points = append(points, types.SARPoint{
		Timestamp: candles[0].Time,
		Value:     sar,
		Uptrend:   uptrend,
	})

	for i := 1; i < len(candles); i++ {
		high := candles[i].High
		low := candles[i].Low

		newSar := sar + acceleration*(ep-sar)

		if uptrend {
			prevLow := candles[i-1].Low
			prevPrevLow := prevLow
			if i > 1 {
				prevPrevLow = candles[i-2].Low
			}

			newSar = min(newSar, prevLow, prevPrevLow)
		} else {
			prevHigh := candles[i-1].High
			prevPrevHigh := prevHigh
			if i > 1 {
				prevPrevHigh = candles[i-2].High
			}

			newSar = max(newSar, prevHigh, prevPrevHigh)
		}

		switch {
		case uptrend && low <= newSar:
			uptrend = false
			newSar = ep
			ep = low
			acceleration = step
		case !uptrend && high >= newSar:
			uptrend = true
			newSar = ep
			ep = high
			acceleration = step
		case uptrend && high > ep:
			ep = high
			acceleration = min(acceleration+step, maxAF)
		case !uptrend && low < ep:
			ep = low
			acceleration = min(acceleration+step, maxAF)
		}

		sar = newSar
		points = append(points, types.SARPoint{
			Timestamp: candles[i].Time,
			Value:     sar,
			Uptrend:   uptrend,
		})
	}

	return points
}
