package indicator

import (
	"time"

	"github.com/rxtech-lab/candle-backtest/internal/types"
	"github.com/rxtech-lab/candle-backtest/pkg/errors"
)

// VWAPMACD computes a MACD-style oscillator over two exponential VWAP
// horizons instead of price EMAs.
type VWAPMACD struct {
	longPeriod   int
	shortPeriod  int
	signalPeriod int
}

// NewVWAPMACD creates a new VWAPMACD indicator with default
// configuration.
func NewVWAPMACD() Indicator {
	return &VWAPMACD{
		longPeriod:   200,
		shortPeriod:  100,
		signalPeriod: 25,
	}
}

// Name returns the name of the indicator.
func (v *VWAPMACD) Name() types.IndicatorType {
	return types.IndicatorTypeVWAPMACD
}

// Expected parameters: longPeriod (int), shortPeriod (int), signalPeriod (int).
func (v *VWAPMACD) Config(params ...any) error {
	if len(params) != 3 {
		return errors.New(errors.ErrCodeInvalidParameter, "Config expects 3 parameters: longPeriod (int), shortPeriod (int), signalPeriod (int)")
	}

	names := []string{"longPeriod", "shortPeriod", "signalPeriod"}
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

	if values[1] >= values[0] {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "shortPeriod %d must be smaller than longPeriod %d", values[1], values[0])
	}

	v.longPeriod = values[0]
	v.shortPeriod = values[1]
	v.signalPeriod = values[2]

	return nil
}

// Compute calculates the VWAP MACD series over the given candles.
func (v *VWAPMACD) Compute(candles []types.Candle) (any, error) {
	if v.shortPeriod >= v.longPeriod {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "shortPeriod %d must be smaller than longPeriod %d", v.shortPeriod, v.longPeriod)
	}

	return VWAPMACDSeries(candles, v.longPeriod, v.shortPeriod, v.signalPeriod), nil
}

// VWAPMACDSeries subtracts a long-horizon exponential VWAP from a
// short-horizon one and derives a signal line from the difference. The
// two VWAP series are aligned from the most recent candle backwards
// because the longer horizon emits fewer points.
func VWAPMACDSeries(candles []types.Candle, longPeriod, shortPeriod, signalPeriod int) []types.MACDPoint {
	if len(candles) == 0 {
		return nil
	}

	vwapLong := VWAPSeries(candles, longPeriod)
	vwapShort := VWAPSeries(candles, shortPeriod)

	if len(vwapLong) == 0 || len(vwapShort) == 0 {
		return nil
	}

	minLength := min(len(vwapLong), len(vwapShort))
	longStart := len(vwapLong) - minLength
	shortStart := len(vwapShort) - minLength

	macdLine := make([]float64, minLength)
	timestamps := make([]time.Time, minLength)

	for i := 0; i < minLength; i++ {
		macdLine[i] = vwapShort[shortStart+i].Value - vwapLong[longStart+i].Value
		timestamps[i] = vwapShort[shortStart+i].Timestamp
	}

	return assembleMACD(macdLine, timestamps, signalPeriod)
}
