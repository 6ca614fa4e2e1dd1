package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type BoundaryTestSuite struct {
	suite.Suite
}

func TestBoundarySuite(t *testing.T) {
	suite.Run(t, new(BoundaryTestSuite))
}

func extremesFromPrices(prices ...float64) []localExtreme {
	extremes := make([]localExtreme, len(prices))

	for i, price := range prices {
		extremes[i] = localExtreme{
			timestamp: testStart.Add(time.Duration(i) * time.Minute),
			price:     price,
			index:     i,
		}
	}

	return extremes
}

func (suite *BoundaryTestSuite) TestFilterOutliersShortListPassesThrough() {
	extremes := extremesFromPrices(10, 10, 10, 10)
	suite.Len(filterOutliers(extremes), 4)
}

func (suite *BoundaryTestSuite) TestFilterOutliersBoundaryDeviationKept() {
	// 100 sits exactly two standard deviations from the mean, which the
	// strict comparison does not count as an outlier.
	extremes := extremesFromPrices(10, 10, 10, 10, 100)

	filtered := filterOutliers(extremes)
	suite.Require().Len(filtered, 5)
	suite.InDelta(100.0, filtered[4].price, 1e-9)
}

func (suite *BoundaryTestSuite) TestFilterOutliersRecentOutlierFallsBackToLastFive() {
	// The final price deviates more than two standard deviations, but
	// cutting there would leave fewer than three extremes.
	extremes := extremesFromPrices(10, 10, 10, 10, 10, 100)

	filtered := filterOutliers(extremes)
	suite.Require().Len(filtered, 5)
	suite.InDelta(10.0, filtered[0].price, 1e-9)
	suite.InDelta(100.0, filtered[4].price, 1e-9)
}

func (suite *BoundaryTestSuite) TestFilterOutliersCutsStaleHead() {
	extremes := extremesFromPrices(10, 10, 100, 10, 10, 10)

	filtered := filterOutliers(extremes)
	suite.Require().Len(filtered, 4)
	suite.InDelta(100.0, filtered[0].price, 1e-9)
}

func (suite *BoundaryTestSuite) TestTrendLineSingleExtreme() {
	extremes := extremesFromPrices(42)
	suite.InDelta(42.0, trendLineAt(extremes, testStart.Add(time.Hour)), 1e-9)

	suite.Zero(trendLineAt(nil, testStart))
}

func (suite *BoundaryTestSuite) TestTrendLineExtrapolatesSlope() {
	// Prices rise one unit per minute; the regression through the last
	// three extremes continues that slope.
	extremes := make([]localExtreme, 4)
	for i := range extremes {
		extremes[i] = localExtreme{
			timestamp: time.UnixMilli(int64(i) * 60_000),
			price:     10 + float64(i),
			index:     i,
		}
	}

	target := time.UnixMilli(10 * 60_000)
	suite.InDelta(20.0, trendLineAt(extremes, target), 1e-6)
}

func (suite *BoundaryTestSuite) TestSeriesNeedsFullLookback() {
	suite.Nil(BoundarySeries(constantCandles(62, 100), 60, 3))

	points := BoundarySeries(constantCandles(70, 100), 60, 3)
	suite.Require().Len(points, 10)
}

func (suite *BoundaryTestSuite) TestFindLocalExtremes() {
	// A single peak in the middle of the window.
	closes := []float64{10, 10, 10, 10, 20, 10, 10, 10, 10}
	candles := candlesFromCloses(closes...)

	highs := findLocalExtremes(candles, 2, true)
	suite.Require().Len(highs, 1)
	suite.InDelta(20.0, highs[0].price, 1e-9)
	suite.Equal(4, highs[0].index)

	// The peak is never a local low; plateaus on both sides tie, and
	// ties count as extremes because the comparison is strict.
	lows := findLocalExtremes(candles, 2, false)
	for _, low := range lows {
		suite.InDelta(10.0, low.price, 1e-9)
	}
}
