package indicator

import (
	"testing"
	"time"

	"github.com/rxtech-lab/candle-backtest/internal/types"
	"github.com/stretchr/testify/suite"
)

type ParabolicSARTestSuite struct {
	suite.Suite
}

func TestParabolicSARSuite(t *testing.T) {
	suite.Run(t, new(ParabolicSARTestSuite))
}

// ohlcCandles builds a one-minute series from explicit open, high,
// low, close rows.
func ohlcCandles(rows ...[4]float64) []types.Candle {
	candles := make([]types.Candle, len(rows))

	for i, row := range rows {
		candles[i] = types.Candle{
			Time:   testStart.Add(time.Duration(i) * time.Minute),
			Open:   row[0],
			High:   row[1],
			Low:    row[2],
			Close:  row[3],
			Volume: 1,
		}
	}

	return candles
}

func (suite *ParabolicSARTestSuite) TestInitialTrendFromFirstTwoCloses() {
	rising := candlesFromCloses(100, 110, 120, 130)
	points := SARSeries(rising, 0.02, 0.2)
	suite.Require().NotEmpty(points)
	suite.True(points[0].Uptrend)
	suite.InDelta(rising[0].Low, points[0].Value, 1e-9)

	falling := candlesFromCloses(130, 120, 110, 100)
	points = SARSeries(falling, 0.02, 0.2)
	suite.Require().NotEmpty(points)
	suite.False(points[0].Uptrend)
	suite.InDelta(falling[0].High, points[0].Value, 1e-9)
}

func (suite *ParabolicSARTestSuite) TestUptrendTracksBelowLows() {
	candles := ohlcCandles(
		[4]float64{100, 105, 95, 102},
		[4]float64{102, 110, 101, 108},
		[4]float64{108, 115, 107, 112},
		[4]float64{112, 118, 111, 116},
	)

	points := SARSeries(candles, 0.02, 0.2)
	suite.Require().Len(points, 4)

	// Clamped to the lower of the previous two lows while the
	// acceleration builds up.
	suite.InDelta(95.0, points[1].Value, 1e-9)
	suite.InDelta(95.0, points[2].Value, 1e-9)
	suite.InDelta(96.2, points[3].Value, 1e-9)

	for _, point := range points {
		suite.True(point.Uptrend)
		suite.Less(point.Value, 101.0)
	}
}

func (suite *ParabolicSARTestSuite) TestTrendFlipsOnBreak() {
	candles := ohlcCandles(
		[4]float64{100, 105, 95, 102},
		[4]float64{102, 110, 101, 108},
		[4]float64{108, 115, 107, 112},
		[4]float64{112, 118, 111, 116},
		[4]float64{116, 117, 90, 92},
	)

	points := SARSeries(candles, 0.02, 0.2)
	suite.Require().Len(points, 5)

	suite.True(points[3].Uptrend)
	suite.False(points[4].Uptrend)

	// On the flip the SAR jumps to the extreme high of the uptrend.
	suite.InDelta(118.0, points[4].Value, 1e-9)
}

func (suite *ParabolicSARTestSuite) TestTooFewCandles() {
	suite.Nil(SARSeries(candlesFromCloses(100), 0.02, 0.2))
}
