package types

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// Position represents the single open position of a backtest run. At
// most one position is open at a time; it is created on the first fill
// when none exists, mutated on add/partial-close, and destroyed on a
// full close. A position's side never flips directly.
type Position struct {
	ID       string       `yaml:"id" json:"id" csv:"id"`
	Side     PositionSide `yaml:"side" json:"side" csv:"side"`
	AvgPrice float64      `yaml:"avg_price" json:"avg_price" csv:"avg_price"`
	Quantity float64      `yaml:"quantity" json:"quantity" csv:"quantity"`
	// OpenTimestamp is the time of the fill that created the position.
	OpenTimestamp time.Time `yaml:"open_timestamp" json:"open_timestamp" csv:"open_timestamp"`
	// StopLoss and TakeProfit are absolute prices derived from the
	// opening order, if configured.
	StopLoss   optional.Option[float64] `yaml:"stop_loss" json:"stop_loss" csv:"stop_loss"`
	TakeProfit optional.Option[float64] `yaml:"take_profit" json:"take_profit" csv:"take_profit"`
	// LastTradeTime and LastTradePrice track the most recent fill that
	// touched the position, used for time-gated averaging.
	LastTradeTime  time.Time `yaml:"last_trade_time" json:"last_trade_time" csv:"last_trade_time"`
	LastTradePrice float64   `yaml:"last_trade_price" json:"last_trade_price" csv:"last_trade_price"`
}

// AddFill returns a copy of the position with a same-direction fill
// averaged in. AvgPrice becomes the quantity-weighted mean of the old
// position and the new fill.
func (p Position) AddFill(fillPrice float64, quantity float64) Position {
	oldAmount := decimal.NewFromFloat(p.AvgPrice).Mul(decimal.NewFromFloat(p.Quantity))
	fillAmount := decimal.NewFromFloat(fillPrice).Mul(decimal.NewFromFloat(quantity))
	totalQty := decimal.NewFromFloat(p.Quantity).Add(decimal.NewFromFloat(quantity))

	if !totalQty.IsZero() {
		avg, _ := oldAmount.Add(fillAmount).Div(totalQty).Float64()
		p.AvgPrice = avg
	}

	qty, _ := totalQty.Float64()
	p.Quantity = qty

	return p
}

// ReduceFill returns a copy of the position reduced by an opposing
// partial fill. AvgPrice is unchanged; quantity is clamped at zero so a
// partial close can never drive it negative. Reaching zero quantity
// still requires an explicit close to clear the position.
func (p Position) ReduceFill(quantity float64) Position {
	remaining, _ := decimal.NewFromFloat(p.Quantity).Sub(decimal.NewFromFloat(quantity)).Float64()
	if remaining < 0 {
		remaining = 0
	}

	p.Quantity = remaining

	return p
}
