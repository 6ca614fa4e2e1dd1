package indicator

import (
	"math"
	"time"

	"github.com/rxtech-lab/candle-backtest/internal/types"
	"github.com/rxtech-lab/candle-backtest/pkg/errors"
)

// Boundary indicator predicts upper and lower trend boundaries by
// fitting a regression line through recent local close-price extremes.
type Boundary struct {
	lookback    int
	localWindow int
}

// NewBoundary creates a new Boundary indicator with default
// configuration.
func NewBoundary() Indicator {
	return &Boundary{
		lookback:    60,
		localWindow: 3,
	}
}

// Name returns the name of the indicator.
func (b *Boundary) Name() types.IndicatorType {
	return types.IndicatorTypeBoundary
}

// Expected parameters: lookback (int), localWindow (int).
func (b *Boundary) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeInvalidParameter, "Config expects 2 parameters: lookback (int), localWindow (int)")
	}

	lookback, ok := asInt(params[0])
	if !ok {
		return errors.New(errors.ErrCodeInvalidParameter, "invalid type for lookback parameter, expected int or float")
	}

	localWindow, ok := asInt(params[1])
	if !ok {
		return errors.New(errors.ErrCodeInvalidParameter, "invalid type for localWindow parameter, expected int or float")
	}

	if err := positivePeriod("lookback", lookback); err != nil {
		return err
	}

	if err := positivePeriod("localWindow", localWindow); err != nil {
		return err
	}

	b.lookback = lookback
	b.localWindow = localWindow

	return nil
}

// Compute calculates the boundary series over the given candles.
func (b *Boundary) Compute(candles []types.Candle) (any, error) {
	if err := positivePeriod("lookback", b.lookback); err != nil {
		return nil, err
	}

	return BoundarySeries(candles, b.lookback, b.localWindow), nil
}

// localExtreme is a local maximum or minimum of the close prices inside
// one lookback window.
type localExtreme struct {
	timestamp time.Time
	price     float64
	index     int
}

// BoundarySeries returns predicted trend boundaries. Each candle from
// index lookback onwards gets a pair of regression-line values
// extrapolated to its own timestamp from the filtered local extremes of
// the preceding lookback window.
func BoundarySeries(candles []types.Candle, lookback, localWindow int) []types.BoundaryPoint {
	if len(candles) < lookback+localWindow {
		return nil
	}

	points := make([]types.BoundaryPoint, 0, len(candles)-lookback)

	for i := lookback; i < len(candles); i++ {
		window := candles[i-lookback : i]

		localHighs := findLocalExtremes(window, localWindow, true)
		localLows := findLocalExtremes(window, localWindow, false)

		points = append(points, types.BoundaryPoint{
			Timestamp:   candles[i].Time,
			Upper:       trendLineAt(localHighs, candles[i].Time),
			Lower:       trendLineAt(localLows, candles[i].Time),
			MaximaCount: len(filterOutliers(localHighs)),
			MinimaCount: len(filterOutliers(localLows)),
		})
	}

	return points
}

// findLocalExtremes returns the candles whose close is a strict local
// maximum (or minimum) against every neighbor within the window radius.
func findLocalExtremes(candles []types.Candle, window int, high bool) []localExtreme {
	var extremes []localExtreme

	for i := window; i < len(candles)-window; i++ {
		price := candles[i].Close
		isExtreme := true

		for j := i - window; j <= i+window; j++ {
			if j == i {
				continue
			}

			compare := candles[j].Close
			if (high && compare > price) || (!high && compare < price) {
				isExtreme = false
				break
			}
		}

		if isExtreme {
			extremes = append(extremes, localExtreme{
				timestamp: candles[i].Time,
				price:     price,
				index:     i,
			})
		}
	}

	return extremes
}

// trendLineAt fits a least-squares line through the most recent (at
// most three) filtered extremes, using unix milliseconds as the x axis,
// and evaluates it at the target time. With fewer than two raw extremes
// the first extreme's price (or zero) is returned; with fewer than two
// filtered extremes the last raw extreme's price is returned.
func trendLineAt(extremes []localExtreme, target time.Time) float64 {
	if len(extremes) < 2 {
		if len(extremes) > 0 {
			return extremes[0].price
		}

		return 0
	}

	filtered := filterOutliers(extremes)
	if len(filtered) < 2 {
		return extremes[len(extremes)-1].price
	}

	recent := filtered
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}

	n := float64(len(recent))

	var sumX, sumY, sumXY, sumX2 float64
	for _, extreme := range recent {
		x := float64(extreme.timestamp.UnixMilli())
		y := extreme.price
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	slope := (n*sumXY - sumX*sumY) / (n*sumX2 - sumX*sumX)
	intercept := (sumY - slope*sumX) / n

	return slope*float64(target.UnixMilli()) + intercept
}

// filterOutliers drops the stale head of the extreme list. Scanning
// from the most recent extreme backwards, the first price more than two
// population standard deviations from the mean marks the cut: that
// extreme and everything after it survive. Short lists pass through
// unchanged, and a cut leaving fewer than three extremes falls back to
// the last five.
func filterOutliers(extremes []localExtreme) []localExtreme {
	if len(extremes) < 5 {
		return extremes
	}

	var sum float64
	for _, extreme := range extremes {
		sum += extreme.price
	}

	mean := sum / float64(len(extremes))

	var variance float64
	for _, extreme := range extremes {
		diff := extreme.price - mean
		variance += diff * diff
	}

	threshold := 2 * math.Sqrt(variance/float64(len(extremes)))

	lastValidIndex := len(extremes) - 1
	for i := len(extremes) - 1; i >= 0; i-- {
		if math.Abs(extremes[i].price-mean) > threshold {
			lastValidIndex = i
			break
		}
	}

	filtered := extremes[lastValidIndex:]
	if len(filtered) < 3 {
		return extremes[len(extremes)-5:]
	}

	return filtered
}
