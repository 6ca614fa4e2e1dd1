package ledger

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/candle-backtest/internal/types"
	"github.com/rxtech-lab/candle-backtest/pkg/errors"
	"github.com/stretchr/testify/suite"
)

var testStart = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func entryExecution(id string, side types.Side, price, quantity float64, at time.Time) types.Execution {
	return types.Execution{
		OrderID:   id,
		Side:      side,
		FillPrice: price,
		Quantity:  quantity,
		Timestamp: at,
	}
}

func closeExecution(id string, positionSide types.PositionSide, fillPrice, positionPrice, quantity float64, at time.Time) types.Execution {
	return types.Execution{
		OrderID:              id,
		Side:                 types.SideClose,
		FillPrice:            fillPrice,
		Quantity:             quantity,
		Timestamp:            at,
		LiquidatedSide:       optional.Some(positionSide),
		PositionPriceAtClose: optional.Some(positionPrice),
	}
}

type LedgerTestSuite struct {
	suite.Suite
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func (suite *LedgerTestSuite) TestNoExecutions() {
	trades, err := Build(nil, 0.05)
	suite.NoError(err)
	suite.Empty(trades)
}

func (suite *LedgerTestSuite) TestLongRoundTrip() {
	executions := []types.Execution{
		entryExecution("1-entry", types.SideBuy, 99000, 0.2, testStart),
		closeExecution("2-close", types.PositionSideLong, 100000, 99000, 0.2, testStart.Add(time.Minute)),
	}

	trades, err := Build(executions, 0.05)
	suite.Require().NoError(err)
	suite.Require().Len(trades, 1)

	trade := trades[0]
	suite.Equal(types.PositionSideLong, trade.Side)
	suite.InDelta(99000.0, trade.OpenPrice, 1e-9)
	suite.InDelta(100000.0, trade.ClosePrice, 1e-9)
	suite.Equal(testStart, trade.OpenTime)
	suite.Equal(time.Minute, trade.HoldingPeriod)
	// (1000 / 99000) * 100 - 0.05
	suite.InDelta(0.960101010101, trade.ProfitRatePercent, 1e-9)
	suite.InDelta(0.192020202020, trade.ProfitPercent, 1e-9)
}

func (suite *LedgerTestSuite) TestPyramidedEntryKeepsFirstOpenTime() {
	executions := []types.Execution{
		entryExecution("1-entry", types.SideBuy, 100000, 0.2, testStart),
		entryExecution("2-add", types.SideBuy, 98000, 0.2, testStart.Add(30*time.Minute)),
		closeExecution("3-close", types.PositionSideLong, 99500, 99000, 0.4, testStart.Add(time.Hour)),
	}

	trades, err := Build(executions, 0.05)
	suite.Require().NoError(err)
	suite.Require().Len(trades, 1)

	trade := trades[0]
	suite.Equal(testStart, trade.OpenTime)
	suite.Equal(time.Hour, trade.HoldingPeriod)
	suite.InDelta(0.4, trade.Quantity, 1e-12)
	// The open price is the position average at close time, not the
	// first fill price.
	suite.InDelta(99000.0, trade.OpenPrice, 1e-9)
}

func (suite *LedgerTestSuite) TestShortTradeInvertsDelta() {
	executions := []types.Execution{
		entryExecution("1-entry", types.SideSell, 101000, 0.2, testStart),
		closeExecution("2-close", types.PositionSideShort, 100000, 101000, 0.2, testStart.Add(time.Minute)),
	}

	trades, err := Build(executions, 0.05)
	suite.Require().NoError(err)
	suite.Require().Len(trades, 1)

	trade := trades[0]
	suite.Equal(types.PositionSideShort, trade.Side)
	// (1000 / 101000) * 100 - 0.05
	suite.InDelta(0.940099009901, trade.ProfitRatePercent, 1e-9)
}

func (suite *LedgerTestSuite) TestConsecutiveTradesResetOpenTime() {
	executions := []types.Execution{
		entryExecution("1-entry", types.SideBuy, 100000, 0.2, testStart),
		closeExecution("2-close", types.PositionSideLong, 101000, 100000, 0.2, testStart.Add(time.Minute)),
		entryExecution("3-entry", types.SideBuy, 99000, 0.2, testStart.Add(5*time.Minute)),
		closeExecution("4-close", types.PositionSideLong, 98000, 99000, 0.2, testStart.Add(6*time.Minute)),
	}

	trades, err := Build(executions, 0.05)
	suite.Require().NoError(err)
	suite.Require().Len(trades, 2)

	suite.Equal(testStart, trades[0].OpenTime)
	suite.Equal(testStart.Add(5*time.Minute), trades[1].OpenTime)
	suite.Negative(trades[1].ProfitRatePercent)
}

func (suite *LedgerTestSuite) TestZeroFeeKeepsRawRate() {
	executions := []types.Execution{
		entryExecution("1-entry", types.SideBuy, 100000, 0.2, testStart),
		closeExecution("2-close", types.PositionSideLong, 101000, 100000, 0.2, testStart.Add(time.Minute)),
	}

	trades, err := Build(executions, 0)
	suite.Require().NoError(err)
	suite.InDelta(1.0, trades[0].ProfitRatePercent, 1e-9)
}

func (suite *LedgerTestSuite) TestMissingPositionPriceFails() {
	executions := []types.Execution{
		entryExecution("1-entry", types.SideBuy, 100000, 0.2, testStart),
		{
			OrderID:   "2-close",
			Side:      types.SideClose,
			FillPrice: 101000,
			Quantity:  0.2,
			Timestamp: testStart.Add(time.Minute),
		},
	}

	_, err := Build(executions, 0.05)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataParseFailed))
}

func (suite *LedgerTestSuite) TestZeroPositionPriceFails() {
	executions := []types.Execution{
		closeExecution("1-close", types.PositionSideLong, 101000, 0, 0.2, testStart),
	}

	_, err := Build(executions, 0.05)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataParseFailed))
}
