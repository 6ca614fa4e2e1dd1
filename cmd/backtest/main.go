package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/candle-backtest/internal/backtest/engine"
	engine_v1 "github.com/rxtech-lab/candle-backtest/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/candle-backtest/internal/indicator"
	"github.com/rxtech-lab/candle-backtest/internal/strategy"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

// runAction loads the configs and the candle data, then executes one
// backtest run with a progress bar.
func runAction(ctx context.Context, cmd *cli.Command) error {
	engineConfig, err := readOptionalFile(cmd.String("config"))
	if err != nil {
		return err
	}

	strategyConfig, err := readOptionalFile(cmd.String("strategy-config"))
	if err != nil {
		return err
	}

	candles, err := readCandles(cmd.String("data"))
	if err != nil {
		return err
	}

	backtester := engine_v1.NewBacktestEngineV1()

	if err := backtester.Initialize(engineConfig); err != nil {
		return fmt.Errorf("failed to initialize backtest engine: %w", err)
	}

	if err := backtester.LoadStrategy(strategy.NewRSIMeanReversion()); err != nil {
		return fmt.Errorf("failed to load strategy: %w", err)
	}

	if err := backtester.SetStrategyConfig(strategyConfig); err != nil {
		return fmt.Errorf("failed to set strategy config: %w", err)
	}

	if err := backtester.SetCandles(candles); err != nil {
		return fmt.Errorf("failed to set candles: %w", err)
	}

	if output := cmd.String("output"); output != "" {
		if err := backtester.SetResultsFolder(output); err != nil {
			return fmt.Errorf("failed to set results folder: %w", err)
		}
	}

	bar := progressbar.Default(int64(len(candles)), "backtesting")
	onProcessData := engine.OnProcessDataCallback(func(current, total int) error {
		return bar.Set(current)
	})

	result, err := backtester.Run(ctx, optional.Some(onProcessData))
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	printSummary(result)

	return nil
}

func printSummary(result *engine.BacktestResult) {
	fmt.Printf("\nrun %s (%s)\n", result.RunID, result.StrategyName)
	fmt.Printf("executions: %d, closed trades: %d\n", len(result.Executions), len(result.Trades))
	fmt.Printf("win rate: %.2f%%, mean profit: %.4f%%, total profit: %.4f%%\n",
		result.Stats.Total.WinRatePercent,
		result.Stats.Total.MeanProfitPercent,
		result.Stats.TotalProfitPercent,
	)

	if result.OpenPosition.IsSome() {
		position := result.OpenPosition.Unwrap()
		fmt.Printf("open position: %s %.4f @ %.2f\n", position.Side, position.Quantity, position.AvgPrice)
	}
}

// schemaAction prints the JSON schema of the engine configuration.
func schemaAction(ctx context.Context, cmd *cli.Command) error {
	schema, err := engine_v1.NewBacktestEngineV1().GetConfigSchema()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Println(schema)

	return nil
}

// indicatorsAction lists the registered indicators.
func indicatorsAction(ctx context.Context, cmd *cli.Command) error {
	names := indicator.DefaultRegistry().ListIndicators()

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	for _, name := range names {
		fmt.Println(name)
	}

	return nil
}

func readOptionalFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return string(content), nil
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Run candle backtests of the RSI mean reversion strategy",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a backtest over a CSV candle history",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Path to the candle CSV file (time,open,high,low,close,volume)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to the engine YAML config. Defaults apply when omitted.",
					},
					&cli.StringFlag{
						Name:    "strategy-config",
						Aliases: []string{"s"},
						Usage:   "Path to the strategy YAML config. Defaults apply when omitted.",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Results folder. When set, executions and trades are exported as Parquet plus a stats YAML.",
					},
				},
				Action: runAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the engine configuration",
				Action: schemaAction,
			},
			{
				Name:   "indicators",
				Usage:  "List the available indicators",
				Action: indicatorsAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
