package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/candle-backtest/pkg/errors"
)

type Side string

type PositionSide string

const (
	SideBuy   Side = "BUY"
	SideSell  Side = "SELL"
	SideClose Side = "CLOSE"
)

const (
	PositionSideLong  PositionSide = "LONG"
	PositionSideShort PositionSide = "SHORT"
)

const (
	OrderReasonEntrySignal       string = "entry_signal"
	OrderReasonPositionAdd       string = "position_add"
	OrderReasonMeanReversionExit string = "mean_reversion_exit"
	OrderReasonRiskReduction     string = "risk_reduction"
	OrderReasonStopLoss          string = "stop_loss"
	OrderReasonTakeProfit        string = "take_profit"
)

type Reason struct {
	Reason  string `yaml:"reason" json:"reason" csv:"reason"`
	Message string `yaml:"message" json:"message" csv:"message"`
}

// Order is a candidate order produced by a strategy for a single candle.
// It represents intent, not a guaranteed fill; the execution simulator
// decides whether and at what price it fills. Orders are produced fresh
// each step and never reused.
type Order struct {
	ID        string    `yaml:"id" json:"id" csv:"id" validate:"required"`
	Side      Side      `yaml:"side" json:"side" csv:"side" validate:"required,oneof=BUY SELL CLOSE"`
	Price     float64   `yaml:"price" json:"price" csv:"price" validate:"required,gt=0"`
	Timestamp time.Time `yaml:"timestamp" json:"timestamp" csv:"timestamp" validate:"required"`
	Quantity  float64   `yaml:"quantity" json:"quantity" csv:"quantity" validate:"required,gt=0"`
	// PositionID references the position this order targets, if any.
	PositionID optional.Option[string] `yaml:"position_id" json:"position_id" csv:"position_id"`
	// StopLoss and TakeProfit are fractions of the entry price
	// (e.g. 0.02 places a stop 2% below a long entry).
	StopLoss   optional.Option[float64] `yaml:"stop_loss" json:"stop_loss" csv:"stop_loss"`
	TakeProfit optional.Option[float64] `yaml:"take_profit" json:"take_profit" csv:"take_profit"`
	Reason     Reason                   `yaml:"reason" json:"reason" csv:"reason"`
}

// Validate validates the Order struct.
func (o *Order) Validate() error {
	validate := validator.New()
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrder, err, "invalid order")
	}

	return nil
}
