package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type VWAPTestSuite struct {
	suite.Suite
}

func TestVWAPSuite(t *testing.T) {
	suite.Run(t, new(VWAPTestSuite))
}

func (suite *VWAPTestSuite) TestWarmupSkipsLeadingCandles() {
	candles := constantCandles(10, 100)

	points := VWAPSeries(candles, 5)
	suite.Require().Len(points, 5)
	suite.Equal(candles[5].Time, points[0].Timestamp)
}

func (suite *VWAPTestSuite) TestWarmupCappedAtFifty() {
	candles := constantCandles(60, 100)

	points := VWAPSeries(candles, 120)
	suite.Require().Len(points, 10)
	suite.Equal(candles[50].Time, points[0].Timestamp)
}

func (suite *VWAPTestSuite) TestConstantPrice() {
	points := VWAPSeries(constantCandles(20, 12345), 5)
	suite.Require().NotEmpty(points)

	for _, point := range points {
		suite.InDelta(12345.0, point.Value, 1e-6)
	}
}

func (suite *VWAPTestSuite) TestZeroVolumeYieldsZero() {
	candles := constantCandles(10, 100)
	for i := range candles {
		candles[i].Volume = 0
	}

	points := VWAPSeries(candles, 5)
	suite.Require().NotEmpty(points)

	for _, point := range points {
		suite.Zero(point.Value)
	}
}

func (suite *VWAPTestSuite) TestRecentCandlesDominate() {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}
	for i := 20; i < 30; i++ {
		closes[i] = 200
	}

	points := VWAPSeries(candlesFromCloses(closes...), 5)
	suite.Require().NotEmpty(points)

	last := points[len(points)-1].Value
	suite.Greater(last, 185.0)
	suite.Less(last, 200.0+1e-9)
}

func (suite *VWAPTestSuite) TestEmptyInput() {
	suite.Nil(VWAPSeries(nil, 5))
}
