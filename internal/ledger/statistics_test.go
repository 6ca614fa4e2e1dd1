package ledger

import (
	"math"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/candle-backtest/internal/types"
	"github.com/stretchr/testify/suite"
)

type StatisticsTestSuite struct {
	suite.Suite
}

func TestStatisticsSuite(t *testing.T) {
	suite.Run(t, new(StatisticsTestSuite))
}

func tradeWithRate(side types.PositionSide, rate, quantity float64) types.ClosedTrade {
	return types.ClosedTrade{
		Side:              side,
		OpenPrice:         100000,
		ClosePrice:        100000 * (1 + rate/100),
		ProfitRatePercent: rate,
		ProfitPercent:     rate * quantity,
		Quantity:          quantity,
	}
}

func (suite *StatisticsTestSuite) TestNoTrades() {
	stats := Summarize(nil, optional.None[types.Position]())

	suite.Zero(stats.Total.Trades)
	suite.Zero(stats.Total.WinRatePercent)
	suite.Zero(stats.PeriodReturnPercent)
	suite.Nil(stats.OpenPosition)
}

func (suite *StatisticsTestSuite) TestWinRateAndMoments() {
	trades := []types.ClosedTrade{
		tradeWithRate(types.PositionSideLong, 1.0, 0.2),
		tradeWithRate(types.PositionSideLong, -0.5, 0.2),
		tradeWithRate(types.PositionSideLong, 2.5, 0.2),
		tradeWithRate(types.PositionSideShort, 0.5, 0.2),
	}

	stats := Summarize(trades, optional.None[types.Position]())

	suite.Equal(4, stats.Total.Trades)
	suite.InDelta(75.0, stats.Total.WinRatePercent, 1e-9)
	// mean of the profits 0.2, -0.1, 0.5, 0.1
	suite.InDelta(0.175, stats.Total.MeanProfitPercent, 1e-9)
	// sample stdev with the n-1 denominator
	suite.InDelta(0.25, stats.Total.StdProfitPercent, 1e-9)

	suite.Equal(3, stats.Long.Trades)
	suite.InDelta(0.2, stats.Long.MeanProfitPercent, 1e-9)
	suite.Equal(1, stats.Short.Trades)
	suite.InDelta(100.0, stats.Short.WinRatePercent, 1e-9)

	suite.InDelta(3.5, stats.TotalProfitRatePercent, 1e-9)
	suite.InDelta(0.7, stats.TotalProfitPercent, 1e-9)
}

func (suite *StatisticsTestSuite) TestMomentsWeightQuantity() {
	// Two trades with equal fill prices but different sizes must not
	// average the same as two unit-size trades.
	trades := []types.ClosedTrade{
		tradeWithRate(types.PositionSideLong, 1.0, 2.0),
		tradeWithRate(types.PositionSideLong, 3.0, 1.0),
	}

	stats := Summarize(trades, optional.None[types.Position]())

	// mean of the profits 2.0 and 3.0, not of the rates 1.0 and 3.0
	suite.InDelta(2.5, stats.Total.MeanProfitPercent, 1e-9)
	suite.InDelta(math.Sqrt(0.5), stats.Total.StdProfitPercent, 1e-9)
}

func (suite *StatisticsTestSuite) TestSingleTradeHasZeroStdDev() {
	trades := []types.ClosedTrade{tradeWithRate(types.PositionSideLong, 1.5, 0.2)}

	stats := Summarize(trades, optional.None[types.Position]())

	suite.Zero(stats.Total.StdProfitPercent)
	suite.InDelta(0.3, stats.Total.MeanProfitPercent, 1e-9)
	suite.Zero(stats.Short.Trades)
}

func (suite *StatisticsTestSuite) TestPeriodReturnSpansFirstToLast() {
	trades := []types.ClosedTrade{
		{Side: types.PositionSideLong, OpenPrice: 100000, ClosePrice: 101000, ProfitRatePercent: 1},
		{Side: types.PositionSideLong, OpenPrice: 101000, ClosePrice: 99000, ProfitRatePercent: -2},
	}

	stats := Summarize(trades, optional.None[types.Position]())

	// (99000 - 100000) / 100000 * 100
	suite.InDelta(-1.0, stats.PeriodReturnPercent, 1e-9)
}

func (suite *StatisticsTestSuite) TestOpenPositionAttachedUntouched() {
	position := types.Position{
		ID:       "p1",
		Side:     types.PositionSideLong,
		AvgPrice: 99000,
		Quantity: 0.4,
	}

	stats := Summarize(nil, optional.Some(position))

	suite.Require().NotNil(stats.OpenPosition)
	suite.Equal("p1", stats.OpenPosition.ID)
	suite.InDelta(0.4, stats.OpenPosition.Quantity, 1e-12)
	suite.Zero(stats.Total.Trades)
}
