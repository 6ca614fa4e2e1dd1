package types

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SideStats summarizes the closed trades of one side (or all of them).
type SideStats struct {
	// Count of closed trades.
	Trades int `yaml:"trades"`
	// Fraction of trades with positive profit, in percent.
	WinRatePercent float64 `yaml:"win_rate_percent"`
	// Mean profit percent per trade.
	MeanProfitPercent float64 `yaml:"mean_profit_percent"`
	// Sample standard deviation (n-1 denominator) of profit percent.
	// Zero when fewer than two trades exist.
	StdProfitPercent float64 `yaml:"std_profit_percent"`
}

// BacktestStats is the summary statistics record for one backtest run.
type BacktestStats struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id" json:"id"`
	// Total covers all closed trades; Long and Short cover the per-side
	// subsets.
	Total SideStats `yaml:"total"`
	Long  SideStats `yaml:"long"`
	Short SideStats `yaml:"short"`
	// PeriodReturnPercent is the buy-and-hold style return from the
	// first trade's open price to the last trade's close price.
	PeriodReturnPercent float64 `yaml:"period_return_percent"`
	// TotalProfitPercent sums quantity-scaled profit over all trades;
	// TotalProfitRatePercent sums the unscaled profit rates.
	TotalProfitPercent     float64 `yaml:"total_profit_percent"`
	TotalProfitRatePercent float64 `yaml:"total_profit_rate_percent"`
	// OpenPosition reports a position still open after the last candle.
	// Such a position is excluded from the closed-trade statistics.
	OpenPosition *Position `yaml:"open_position,omitempty"`
	// ExecutionsFilePath and TradesFilePath point at the exported
	// Parquet files when a results folder was configured.
	ExecutionsFilePath string `yaml:"executions_file_path,omitempty"`
	TradesFilePath     string `yaml:"trades_file_path,omitempty"`
	// StrategyName is the name of the strategy that produced this run.
	StrategyName string `yaml:"strategy_name"`
}

// WriteBacktestStats writes the stats record to a YAML file.
func WriteBacktestStats(path string, stats BacktestStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest stats to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest stats to file: %w", err)
	}

	return nil
}
