package indicator

import (
	"time"

	"github.com/rxtech-lab/candle-backtest/internal/types"
	"github.com/rxtech-lab/candle-backtest/pkg/errors"
)

// MACD indicator computes the classic moving average convergence
// divergence over close prices.
type MACD struct {
	shortPeriod  int
	longPeriod   int
	signalPeriod int
}

// NewMACD creates a new MACD indicator with default configuration.
func NewMACD() Indicator {
	return &MACD{
		shortPeriod:  12,
		longPeriod:   26,
		signalPeriod: 9,
	}
}

// Name returns the name of the indicator.
func (m *MACD) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Expected parameters: shortPeriod (int), longPeriod (int), signalPeriod (int).
func (m *MACD) Config(params ...any) error {
	if len(params) != 3 {
		return errors.New(errors.ErrCodeInvalidParameter, "Config expects 3 parameters: shortPeriod (int), longPeriod (int), signalPeriod (int)")
	}

	names := []string{"shortPeriod", "longPeriod", "signalPeriod"}
	values := make([]int, len(params))

	for i, param := range params {
		value, ok := asInt(param)
		if !ok {
			return errors.Newf(errors.ErrCodeInvalidParameter, "invalid type for %s parameter, expected int or float", names[i])
		}

		if err := positivePeriod(names[i], value); err != nil {
			return err
		}

		values[i] = value
	}

	if values[0] >= values[1] {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "shortPeriod %d must be smaller than longPeriod %d", values[0], values[1])
	}

	m.shortPeriod = values[0]
	m.longPeriod = values[1]
	m.signalPeriod = values[2]

	return nil
}

// Compute calculates the MACD series over the given candles.
func (m *MACD) Compute(candles []types.Candle) (any, error) {
	if m.shortPeriod >= m.longPeriod {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "shortPeriod %d must be smaller than longPeriod %d", m.shortPeriod, m.longPeriod)
	}

	return MACDSeries(candles, m.shortPeriod, m.longPeriod, m.signalPeriod), nil
}

// MACDSeries returns the MACD of close prices. The fast and slow EMAs
// are aligned from the most recent candle backwards before subtracting.
func MACDSeries(candles []types.Candle, shortPeriod, longPeriod, signalPeriod int) []types.MACDPoint {
	if len(candles) == 0 {
		return nil
	}

	closes := make([]float64, len(candles))
	for i, candle := range candles {
		closes[i] = candle.Close
	}

	emaShort := emaSeries(closes, shortPeriod)
	emaLong := emaSeries(closes, longPeriod)

	if len(emaShort) == 0 || len(emaLong) == 0 {
		return nil
	}

	minLength := min(len(emaShort), len(emaLong))
	shortStart := len(emaShort) - minLength
	longStart := len(emaLong) - minLength
	candleStart := len(candles) - minLength

	macdLine := make([]float64, minLength)
	timestamps := make([]time.Time, minLength)

	for i := 0; i < minLength; i++ {
		macdLine[i] = emaShort[shortStart+i] - emaLong[longStart+i]
		timestamps[i] = candles[candleStart+i].Time
	}

	return assembleMACD(macdLine, timestamps, signalPeriod)
}

// assembleMACD derives the signal line from the MACD line, aligns the
// two from the end and builds the result points.
func assembleMACD(macdLine []float64, timestamps []time.Time, signalPeriod int) []types.MACDPoint {
	signalLine := emaSeries(macdLine, signalPeriod)

	resultLength := min(len(macdLine), len(signalLine))
	macdStart := len(macdLine) - resultLength
	timestampStart := len(timestamps) - resultLength

	points := make([]types.MACDPoint, 0, resultLength)

	for i := 0; i < resultLength; i++ {
		macd := macdLine[macdStart+i]
		signal := signalLine[i]

		points = append(points, types.MACDPoint{
			Timestamp: timestamps[timestampStart+i],
			MACD:      macd,
			Signal:    signal,
			Histogram: macd - signal,
		})
	}

	return points
}

// emaSeries computes an exponential moving average seeded with the
// simple mean of the first min(period, len) values.
func emaSeries(data []float64, period int) []float64 {
	if len(data) == 0 || period <= 0 {
		return nil
	}

	k := 2 / float64(period+1)
	startPeriod := min(period, len(data))

	var sum float64
	for i := 0; i < startPeriod; i++ {
		sum += data[i]
	}

	ema := make([]float64, 0, len(data)-startPeriod+1)
	ema = append(ema, sum/float64(startPeriod))

	for i := startPeriod; i < len(data); i++ {
		ema = append(ema, data[i]*k+ema[len(ema)-1]*(1-k))
	}

	return ema
}
