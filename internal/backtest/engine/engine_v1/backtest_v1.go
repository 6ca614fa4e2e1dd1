package engine

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/candle-backtest/internal/backtest/engine"
	"github.com/rxtech-lab/candle-backtest/internal/backtest/engine/engine_v1/store"
	"github.com/rxtech-lab/candle-backtest/internal/indicator"
	"github.com/rxtech-lab/candle-backtest/internal/ledger"
	"github.com/rxtech-lab/candle-backtest/internal/logger"
	"github.com/rxtech-lab/candle-backtest/internal/strategy"
	"github.com/rxtech-lab/candle-backtest/internal/types"
	"github.com/rxtech-lab/candle-backtest/internal/utils"
	"github.com/rxtech-lab/candle-backtest/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// BacktestEngineV1 replays a candle history against one strategy. The
// whole run is a fold over the candles: the strategy emits orders for
// each candle, the fill simulation applies at most one of them, and the
// resulting execution list feeds the trade ledger.
type BacktestEngineV1 struct {
	config            BacktestEngineV1Config
	indicatorRegistry indicator.IndicatorRegistry
	strategy          strategy.Strategy
	strategyConfig    string
	candles           []types.Candle
	resultsFolder     optional.Option[string]
	log               *logger.Logger
}

// NewBacktestEngineV1 creates a new backtest engine.
func NewBacktestEngineV1() engine.Engine {
	return &BacktestEngineV1{
		config:            EmptyConfig(),
		indicatorRegistry: indicator.DefaultRegistry(),
		resultsFolder:     optional.None[string](),
		log:               logger.NewNopLogger(),
	}
}

// Initialize parses and validates the YAML engine configuration, then
// pushes the configured parameters into the indicator registry.
func (b *BacktestEngineV1) Initialize(config string) error {
	cfg := EmptyConfig()

	if config != "" {
		if err := yaml.Unmarshal([]byte(config), &cfg); err != nil {
			return errors.Wrap(errors.ErrCodeBacktestConfigError, err, "failed to parse engine config")
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := b.configureIndicators(cfg); err != nil {
		return err
	}

	log, err := logger.NewLogger()
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnknown, err, "failed to create logger")
	}

	b.config = cfg
	b.log = log

	return nil
}

// configureIndicators validates the indicator parameters by applying
// them to every registered indicator.
func (b *BacktestEngineV1) configureIndicators(cfg BacktestEngineV1Config) error {
	params := map[types.IndicatorType][]any{
		types.IndicatorTypeMA:             {cfg.MAPeriod},
		types.IndicatorTypeBollingerBands: {cfg.BollingerPeriod},
		types.IndicatorTypeVWAP:           {cfg.VWAPSlowPeriod},
		types.IndicatorTypeRSI:            {cfg.RSIPeriod, cfg.RSIMAPeriod},
		types.IndicatorTypeMACD:           {cfg.MACDShortPeriod, cfg.MACDLongPeriod, cfg.MACDSignalPeriod},
		types.IndicatorTypeVWAPMACD:       {cfg.VWAPMACDLongPeriod, cfg.VWAPMACDShortPeriod, cfg.VWAPMACDSignalPeriod},
		types.IndicatorTypeParabolicSAR:   {cfg.SARStep, cfg.SARMaxAF},
		types.IndicatorTypeBoundary:       {cfg.BoundaryLookback, cfg.BoundaryLocalWindow},
	}

	for name, p := range params {
		ind, err := b.indicatorRegistry.GetIndicator(name)
		if err != nil {
			return err
		}

		if err := ind.Config(p...); err != nil {
			return errors.Wrapf(errors.ErrCodeBacktestConfigError, err, "invalid parameters for indicator %s", name)
		}
	}

	return nil
}

// LoadStrategy loads the trading strategy to run.
func (b *BacktestEngineV1) LoadStrategy(s strategy.Strategy) error {
	if s == nil {
		return errors.New(errors.ErrCodeBacktestNoStrategy, "strategy is nil")
	}

	b.strategy = s

	return nil
}

// SetStrategyConfig sets the YAML configuration passed to the strategy.
func (b *BacktestEngineV1) SetStrategyConfig(config string) error {
	b.strategyConfig = config

	return nil
}

// SetCandles sets the candle history to run over.
func (b *BacktestEngineV1) SetCandles(candles []types.Candle) error {
	if err := ValidateCandles(candles); err != nil {
		return err
	}

	b.candles = candles

	return nil
}

// SetResultsFolder sets the output directory for backtest results.
func (b *BacktestEngineV1) SetResultsFolder(folder string) error {
	if folder == "" {
		return errors.New(errors.ErrCodeInvalidParameter, "results folder is empty")
	}

	b.resultsFolder = optional.Some(folder)

	return nil
}

// Run executes the strategy over the candle history.
func (b *BacktestEngineV1) Run(ctx context.Context, onProcessData optional.Option[engine.OnProcessDataCallback]) (*engine.BacktestResult, error) {
	if b.strategy == nil {
		return nil, errors.New(errors.ErrCodeBacktestNoStrategy, "no strategy loaded")
	}

	if len(b.candles) == 0 {
		return nil, errors.New(errors.ErrCodeBacktestNoData, "no candles set")
	}

	candles := filterWindow(b.candles, b.config)
	if len(candles) == 0 {
		return nil, errors.New(errors.ErrCodeBacktestNoData, "no candles inside the configured time window")
	}

	if err := b.strategy.Initialize(b.strategyConfig); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	b.log.Info("starting backtest",
		zap.String("run_id", runID),
		zap.String("strategy", b.strategy.Name()),
		zap.Int("candles", len(candles)),
	)

	snapshot := indicator.ComputeSnapshot(candles, b.config.snapshotConfig())

	executions, openPosition, err := b.fold(ctx, candles, snapshot, onProcessData)
	if err != nil {
		return nil, err
	}

	trades, err := ledger.Build(executions, b.config.FeePercent)
	if err != nil {
		return nil, err
	}

	stats := ledger.Summarize(trades, openPosition)
	stats.ID = runID
	stats.StrategyName = b.strategy.Name()

	result := &engine.BacktestResult{
		RunID:        runID,
		StrategyName: b.strategy.Name(),
		Executions:   executions,
		Trades:       trades,
		Stats:        stats,
		OpenPosition: openPosition,
	}

	if b.resultsFolder.IsSome() {
		if err := b.writeResults(result); err != nil {
			return nil, err
		}
	}

	b.log.Info("backtest finished",
		zap.String("run_id", runID),
		zap.Int("executions", len(executions)),
		zap.Int("trades", len(trades)),
	)

	return result, nil
}

// fold replays the candles one at a time, at most one fill per candle.
func (b *BacktestEngineV1) fold(
	ctx context.Context,
	candles []types.Candle,
	snapshot *indicator.Snapshot,
	onProcessData optional.Option[engine.OnProcessDataCallback],
) ([]types.Execution, optional.Option[types.Position], error) {
	position := optional.None[types.Position]()

	var executions []types.Execution

	for i, candle := range candles {
		select {
		case <-ctx.Done():
			return nil, optional.None[types.Position](), errors.Wrap(errors.ErrCodeUnknown, ctx.Err(), "backtest canceled")
		default:
		}

		if onProcessData.IsSome() {
			if err := onProcessData.Unwrap()(i+1, len(candles)); err != nil {
				return nil, optional.None[types.Position](), err
			}
		}

		orders, err := b.strategy.PlaceOrder(strategy.Context{
			Timestamp:  candle.Time,
			Candle:     candle,
			Candles:    candles,
			Position:   position,
			Indicators: snapshot,
			Logger:     b.log,
		})
		if err != nil {
			return nil, optional.None[types.Position](), errors.Wrap(errors.ErrCodeStrategyRuntime, err, "strategy failed to place orders")
		}

		for j := range orders {
			orders[j].Quantity = utils.RoundToDecimalPrecision(orders[j].Quantity, b.config.QuantityPrecision)

			if err := orders[j].Validate(); err != nil {
				return nil, optional.None[types.Position](), err
			}
		}

		if fill := Simulate(candle, orders, position); fill.IsSome() {
			result := fill.Unwrap()
			executions = append(executions, result.Execution)
			position = result.Position
		}
	}

	return executions, position, nil
}

// writeResults exports the run to the results folder: executions and
// trades as Parquet via the result store, stats as YAML.
func (b *BacktestEngineV1) writeResults(result *engine.BacktestResult) error {
	folder := b.resultsFolder.Unwrap()
	if err := os.MkdirAll(folder, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeDataWriteFailed, err, "failed to create results folder")
	}

	resultStore, err := store.NewResultStore(b.log)
	if err != nil {
		return err
	}
	defer resultStore.Close()

	if err := resultStore.InsertExecutions(result.Executions); err != nil {
		return err
	}

	if err := resultStore.InsertClosedTrades(result.Trades); err != nil {
		return err
	}

	executionsPath, tradesPath, err := resultStore.Write(folder)
	if err != nil {
		return err
	}

	result.Stats.ExecutionsFilePath = executionsPath
	result.Stats.TradesFilePath = tradesPath

	statsPath := filepath.Join(folder, "stats.yaml")
	if err := types.WriteBacktestStats(statsPath, result.Stats); err != nil {
		return errors.Wrap(errors.ErrCodeDataWriteFailed, err, "failed to write stats")
	}

	b.log.Info("results written",
		zap.String("executions", executionsPath),
		zap.String("trades", tradesPath),
		zap.String("stats", statsPath),
	)

	return nil
}

// GetConfigSchema returns the JSON schema of the engine configuration.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	return b.config.GenerateSchemaJSON()
}
