// Package strategy contains the decision layer of the backtester.
// Strategies see one candle at a time together with the precomputed
// indicator snapshot and emit limit orders; they never touch fills or
// position bookkeeping.
package strategy

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/candle-backtest/internal/indicator"
	"github.com/rxtech-lab/candle-backtest/internal/logger"
	"github.com/rxtech-lab/candle-backtest/internal/types"
)

// Context carries everything a strategy may inspect when deciding on
// orders for one candle.
type Context struct {
	// Timestamp is the open time of the current candle.
	Timestamp time.Time
	// Candle is the candle the emitted orders will be tested against.
	Candle types.Candle
	// Candles is the full history, for strategies that look backwards.
	Candles []types.Candle
	// Position is the currently open position, if any.
	Position optional.Option[types.Position]
	// Indicators is the snapshot computed once over the full history.
	Indicators *indicator.Snapshot
	Logger     *logger.Logger
}

// Strategy is the interface every trading strategy implements.
type Strategy interface {
	// Name returns the name of the strategy.
	Name() string
	// Initialize parses the YAML config string. An empty string keeps
	// the strategy defaults.
	Initialize(config string) error
	// PlaceOrder returns the orders for the current candle. Orders are
	// evaluated in emission order and at most one of them fills.
	PlaceOrder(ctx Context) ([]types.Order, error)
}
