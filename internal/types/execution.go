package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// Execution is an immutable record of a fill. Executions are appended
// to the backtest driver's history and never mutated.
type Execution struct {
	OrderID   string    `yaml:"order_id" json:"order_id" csv:"order_id"`
	Side      Side      `yaml:"side" json:"side" csv:"side"`
	FillPrice float64   `yaml:"fill_price" json:"fill_price" csv:"fill_price"`
	Quantity  float64   `yaml:"quantity" json:"quantity" csv:"quantity"`
	Timestamp time.Time `yaml:"timestamp" json:"timestamp" csv:"timestamp"`
	// LiquidatedSide is set on close executions to the side of the
	// position that was closed.
	LiquidatedSide optional.Option[PositionSide] `yaml:"liquidated_side" json:"liquidated_side" csv:"liquidated_side"`
	// PositionPriceAtClose carries the position's average entry price at
	// close time for downstream P&L computation.
	PositionPriceAtClose optional.Option[float64] `yaml:"position_price_at_close" json:"position_price_at_close" csv:"position_price_at_close"`
	Reason               Reason                   `yaml:"reason" json:"reason" csv:"reason"`
}
