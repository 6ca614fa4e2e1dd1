package main

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rxtech-lab/candle-backtest/internal/types"
	"github.com/rxtech-lab/candle-backtest/pkg/errors"
)

// csv column order: time, open, high, low, close, volume. The time
// column accepts RFC3339 or unix milliseconds.
const csvColumns = 6

// readCandles loads a candle history from a CSV file. A header row is
// skipped when the first field does not parse as a timestamp.
func readCandles(path string) ([]types.Candle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeNoDataFound, err, "failed to open data file %s", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = csvColumns

	var candles []types.Candle

	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeDataParseFailed, err, "failed to read %s line %d", path, line)
		}

		candleTime, err := parseTime(record[0])
		if err != nil {
			if line == 1 {
				// Header row.
				continue
			}

			return nil, errors.Wrapf(errors.ErrCodeDataParseFailed, err, "invalid time %q at %s line %d", record[0], path, line)
		}

		values := make([]float64, csvColumns-1)
		for i := 1; i < csvColumns; i++ {
			values[i-1], err = strconv.ParseFloat(record[i], 64)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrCodeDataParseFailed, err, "invalid number %q at %s line %d", record[i], path, line)
			}
		}

		candles = append(candles, types.Candle{
			Time:   candleTime,
			Open:   values[0],
			High:   values[1],
			Low:    values[2],
			Close:  values[3],
			Volume: values[4],
		})
	}

	if len(candles) == 0 {
		return nil, errors.Newf(errors.ErrCodeNoDataFound, "no candles in %s", path)
	}

	return candles, nil
}

func parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, err
	}

	return time.UnixMilli(ms).UTC(), nil
}
