package engine

import (
	"context"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/candle-backtest/internal/strategy"
	"github.com/rxtech-lab/candle-backtest/internal/types"
)

// OnProcessDataCallback is called for each candle processed. Returning
// an error aborts the run.
type OnProcessDataCallback func(current int, total int) error

// BacktestResult is the in-memory outcome of one backtest run.
type BacktestResult struct {
	// RunID is a unique identifier generated for this run.
	RunID string
	// StrategyName names the strategy that produced the run.
	StrategyName string
	// Executions is the ordered fill history, at most one per candle.
	Executions []types.Execution
	// Trades are the closed round trips derived from the executions.
	Trades []types.ClosedTrade
	// Stats summarizes the trades.
	Stats types.BacktestStats
	// OpenPosition is a position still open after the last candle.
	OpenPosition optional.Option[types.Position]
}

type Engine interface {
	// Initialize the engine with the given YAML configuration. An
	// empty string keeps the defaults.
	Initialize(config string) error
	// LoadStrategy loads the trading strategy to run.
	LoadStrategy(s strategy.Strategy) error
	// SetStrategyConfig sets the YAML configuration passed to the
	// strategy before the run.
	SetStrategyConfig(config string) error
	// SetCandles sets the candle history to run over. Candles must be
	// sorted ascending by time without duplicates.
	SetCandles(candles []types.Candle) error
	// SetResultsFolder sets the output directory for saving backtest
	// results. Without it the run stays in memory.
	SetResultsFolder(folder string) error
	// Run executes the strategy over the candle history. The context
	// can be used to cancel the backtest operation.
	Run(ctx context.Context, onProcessData optional.Option[OnProcessDataCallback]) (*BacktestResult, error)
	// GetConfigSchema returns the JSON schema of the engine
	// configuration.
	GetConfigSchema() (string, error)
}
