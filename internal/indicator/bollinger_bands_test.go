package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type BollingerBandsTestSuite struct {
	suite.Suite
}

func TestBollingerBandsSuite(t *testing.T) {
	suite.Run(t, new(BollingerBandsTestSuite))
}

func (suite *BollingerBandsTestSuite) TestConstantPriceCollapsesBands() {
	points := BollingerSeries(constantCandles(30, 500), 20)
	suite.Require().NotEmpty(points)

	for _, point := range points {
		suite.InDelta(500.0, point.Middle, 1e-9)
		suite.InDelta(500.0, point.Upper, 1e-9)
		suite.InDelta(500.0, point.Lower, 1e-9)
	}
}

func (suite *BollingerBandsTestSuite) TestBandWidth() {
	// Window [1 3] has mean 2 and population stdev 1.
	points := BollingerSeries(candlesFromCloses(1, 3), 2)
	suite.Require().Len(points, 1)

	suite.InDelta(2.0, points[0].Middle, 1e-9)
	suite.InDelta(4.0, points[0].Upper, 1e-9)
	suite.InDelta(0.0, points[0].Lower, 1e-9)
}

func (suite *BollingerBandsTestSuite) TestUpperAlwaysAboveLower() {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/3)
	}

	points := BollingerSeries(candlesFromCloses(closes...), 20)
	suite.Require().NotEmpty(points)

	for _, point := range points {
		suite.GreaterOrEqual(point.Upper, point.Middle)
		suite.GreaterOrEqual(point.Middle, point.Lower)
	}
}
