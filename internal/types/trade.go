package types

import "time"

// ClosedTrade is one entry-to-exit round trip derived from a close
// execution plus the position state that existed at open time.
type ClosedTrade struct {
	Side       PositionSide `yaml:"side" json:"side" csv:"side"`
	OpenPrice  float64      `yaml:"open_price" json:"open_price" csv:"open_price"`
	ClosePrice float64      `yaml:"close_price" json:"close_price" csv:"close_price"`
	OpenTime   time.Time    `yaml:"open_time" json:"open_time" csv:"open_time"`
	CloseTime  time.Time    `yaml:"close_time" json:"close_time" csv:"close_time"`
	Quantity   float64      `yaml:"quantity" json:"quantity" csv:"quantity"`
	// ProfitPercent is the fee-adjusted percentage profit scaled by the
	// closed quantity; ProfitRatePercent is the same figure without the
	// quantity multiplier.
	ProfitPercent     float64       `yaml:"profit_percent" json:"profit_percent" csv:"profit_percent"`
	ProfitRatePercent float64       `yaml:"profit_rate_percent" json:"profit_rate_percent" csv:"profit_rate_percent"`
	HoldingPeriod     time.Duration `yaml:"holding_period" json:"holding_period" csv:"holding_period"`
}
