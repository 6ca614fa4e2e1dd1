package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type SnapshotTestSuite struct {
	suite.Suite
}

func TestSnapshotSuite(t *testing.T) {
	suite.Run(t, new(SnapshotTestSuite))
}

func (suite *SnapshotTestSuite) TestLookupsAfterWarmup() {
	candles := constantCandles(250, 100)
	snapshot := ComputeSnapshot(candles, DefaultSnapshotConfig())

	last := candles[len(candles)-1].Time

	suite.True(snapshot.MAAt(last).IsSome())
	suite.True(snapshot.BollingerAt(last).IsSome())
	suite.True(snapshot.VWAPSlowAt(last).IsSome())
	suite.True(snapshot.VWAPFastAt(last).IsSome())
	suite.True(snapshot.RSIAt(last).IsSome())
	suite.True(snapshot.MACDAt(last).IsSome())
	suite.True(snapshot.VWAPMACDAt(last).IsSome())
	suite.True(snapshot.SARAt(last).IsSome())
	suite.True(snapshot.BoundaryAt(last).IsSome())

	suite.InDelta(100.0, snapshot.VWAPSlowAt(last).Unwrap().Value, 1e-6)
}

func (suite *SnapshotTestSuite) TestLookupsInsideWarmupAreNone() {
	candles := constantCandles(250, 100)
	snapshot := ComputeSnapshot(candles, DefaultSnapshotConfig())

	first := candles[0].Time

	suite.True(snapshot.MAAt(first).IsNone())
	suite.True(snapshot.RSIAt(first).IsNone())
	suite.True(snapshot.VWAPSlowAt(first).IsNone())
	suite.True(snapshot.BoundaryAt(first).IsNone())
}

func (suite *SnapshotTestSuite) TestUnknownTimestampIsNone() {
	candles := constantCandles(250, 100)
	snapshot := ComputeSnapshot(candles, DefaultSnapshotConfig())

	off := candles[len(candles)-1].Time.Add(30 * time.Second)
	suite.True(snapshot.RSIAt(off).IsNone())
}

func (suite *SnapshotTestSuite) TestSeriesLengths() {
	candles := constantCandles(250, 100)
	cfg := DefaultSnapshotConfig()
	snapshot := ComputeSnapshot(candles, cfg)

	suite.Len(snapshot.MA, len(candles)-cfg.MAPeriod+1)
	suite.Len(snapshot.RSI, len(candles)-cfg.RSIPeriod)
	suite.Len(snapshot.VWAPFast, len(candles)-50)
	suite.Len(snapshot.Boundary, len(candles)-cfg.BoundaryLookback)
}
