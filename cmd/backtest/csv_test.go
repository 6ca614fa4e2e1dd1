package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/candle-backtest/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type CSVTestSuite struct {
	suite.Suite
}

func TestCSVSuite(t *testing.T) {
	suite.Run(t, new(CSVTestSuite))
}

func (suite *CSVTestSuite) writeFile(content string) string {
	path := filepath.Join(suite.T().TempDir(), "candles.csv")
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0644))

	return path
}

func (suite *CSVTestSuite) TestReadWithHeader() {
	path := suite.writeFile(`time,open,high,low,close,volume
2024-03-01T00:00:00Z,100,101,99,100.5,12.5
2024-03-01T00:01:00Z,100.5,102,100,101,8
`)

	candles, err := readCandles(path)
	suite.Require().NoError(err)
	suite.Require().Len(candles, 2)

	suite.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), candles[0].Time)
	suite.InDelta(100.0, candles[0].Open, 1e-12)
	suite.InDelta(101.0, candles[0].High, 1e-12)
	suite.InDelta(99.0, candles[0].Low, 1e-12)
	suite.InDelta(100.5, candles[0].Close, 1e-12)
	suite.InDelta(12.5, candles[0].Volume, 1e-12)
}

func (suite *CSVTestSuite) TestReadWithoutHeader() {
	path := suite.writeFile("2024-03-01T00:00:00Z,100,101,99,100.5,1\n")

	candles, err := readCandles(path)
	suite.Require().NoError(err)
	suite.Len(candles, 1)
}

func (suite *CSVTestSuite) TestReadUnixMillisecondTimes() {
	path := suite.writeFile("1709251200000,100,101,99,100.5,1\n")

	candles, err := readCandles(path)
	suite.Require().NoError(err)
	suite.Require().Len(candles, 1)
	suite.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), candles[0].Time)
}

func (suite *CSVTestSuite) TestMissingFile() {
	_, err := readCandles(filepath.Join(suite.T().TempDir(), "missing.csv"))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeNoDataFound))
}

func (suite *CSVTestSuite) TestHeaderOnlyFile() {
	path := suite.writeFile("time,open,high,low,close,volume\n")

	_, err := readCandles(path)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeNoDataFound))
}

func (suite *CSVTestSuite) TestBadTimeAfterFirstLine() {
	path := suite.writeFile(`2024-03-01T00:00:00Z,100,101,99,100.5,1
not-a-time,100,101,99,100.5,1
`)

	_, err := readCandles(path)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataParseFailed))
}

func (suite *CSVTestSuite) TestBadNumber() {
	path := suite.writeFile("2024-03-01T00:00:00Z,100,xyz,99,100.5,1\n")

	_, err := readCandles(path)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataParseFailed))
}

func (suite *CSVTestSuite) TestWrongColumnCount() {
	path := suite.writeFile("2024-03-01T00:00:00Z,100,101,99\n")

	_, err := readCandles(path)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataParseFailed))
}
