package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/candle-backtest/internal/logger"
	"github.com/rxtech-lab/candle-backtest/internal/types"
	"github.com/stretchr/testify/suite"
)

type ResultStoreTestSuite struct {
	suite.Suite

	store *ResultStore
}

func TestResultStoreSuite(t *testing.T) {
	suite.Run(t, new(ResultStoreTestSuite))
}

func (suite *ResultStoreTestSuite) SetupTest() {
	store, err := NewResultStore(logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.store = store
}

func (suite *ResultStoreTestSuite) TearDownTest() {
	suite.NoError(suite.store.Close())
}

func (suite *ResultStoreTestSuite) sampleExecutions() []types.Execution {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	return []types.Execution{
		{
			OrderID:   "1-entry",
			Side:      types.SideBuy,
			FillPrice: 99000,
			Quantity:  0.2,
			Timestamp: start,
			Reason:    types.Reason{Reason: types.OrderReasonEntrySignal, Message: "entry"},
		},
		{
			OrderID:              "2-close",
			Side:                 types.SideClose,
			FillPrice:            100266.67,
			Quantity:             0.2,
			Timestamp:            start.Add(time.Minute),
			LiquidatedSide:       optional.Some(types.PositionSideLong),
			PositionPriceAtClose: optional.Some(99000.0),
			Reason:               types.Reason{Reason: types.OrderReasonMeanReversionExit, Message: "exit"},
		},
	}
}

func (suite *ResultStoreTestSuite) sampleTrades() []types.ClosedTrade {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	return []types.ClosedTrade{{
		Side:              types.PositionSideLong,
		OpenPrice:         99000,
		ClosePrice:        100266.67,
		OpenTime:          start,
		CloseTime:         start.Add(time.Minute),
		Quantity:          0.2,
		ProfitPercent:     0.2459,
		ProfitRatePercent: 1.2295,
		HoldingPeriod:     time.Minute,
	}}
}

func (suite *ResultStoreTestSuite) TestEmptyStoreCounts() {
	count, err := suite.store.CountExecutions()
	suite.NoError(err)
	suite.Zero(count)

	count, err = suite.store.CountClosedTrades()
	suite.NoError(err)
	suite.Zero(count)
}

func (suite *ResultStoreTestSuite) TestInsertExecutions() {
	suite.Require().NoError(suite.store.InsertExecutions(suite.sampleExecutions()))

	count, err := suite.store.CountExecutions()
	suite.NoError(err)
	suite.Equal(2, count)
}

func (suite *ResultStoreTestSuite) TestInsertNothingIsNoop() {
	suite.NoError(suite.store.InsertExecutions(nil))
	suite.NoError(suite.store.InsertClosedTrades(nil))
}

func (suite *ResultStoreTestSuite) TestInsertClosedTrades() {
	suite.Require().NoError(suite.store.InsertClosedTrades(suite.sampleTrades()))

	count, err := suite.store.CountClosedTrades()
	suite.NoError(err)
	suite.Equal(1, count)
}

func (suite *ResultStoreTestSuite) TestWriteExportsParquetFiles() {
	suite.Require().NoError(suite.store.InsertExecutions(suite.sampleExecutions()))
	suite.Require().NoError(suite.store.InsertClosedTrades(suite.sampleTrades()))

	folder := suite.T().TempDir()

	executionsPath, tradesPath, err := suite.store.Write(folder)
	suite.Require().NoError(err)
	suite.Equal(filepath.Join(folder, "executions.parquet"), executionsPath)
	suite.Equal(filepath.Join(folder, "trades.parquet"), tradesPath)

	info, err := os.Stat(executionsPath)
	suite.Require().NoError(err)
	suite.Positive(info.Size())

	info, err = os.Stat(tradesPath)
	suite.Require().NoError(err)
	suite.Positive(info.Size())
}
