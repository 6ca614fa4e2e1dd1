package types

import "time"

// Candle is a single OHLCV bar for a fixed time interval. A candle
// series is ordered by Time ascending with unique timestamps and is
// immutable once ingested.
type Candle struct {
	Time   time.Time `yaml:"time" json:"time" csv:"time"`
	Open   float64   `yaml:"open" json:"open" csv:"open"`
	High   float64   `yaml:"high" json:"high" csv:"high"`
	Low    float64   `yaml:"low" json:"low" csv:"low"`
	Close  float64   `yaml:"close" json:"close" csv:"close"`
	Volume float64   `yaml:"volume" json:"volume" csv:"volume"`
}

// UnixMilli returns the candle timestamp in milliseconds since the epoch.
func (c Candle) UnixMilli() int64 {
	return c.Time.UnixMilli()
}
