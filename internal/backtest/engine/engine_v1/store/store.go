// Package store persists finished backtest runs through an in-memory
// DuckDB instance, exporting executions and closed trades as Parquet
// files.
package store

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/candle-backtest/internal/logger"
	"github.com/rxtech-lab/candle-backtest/internal/types"
	"github.com/rxtech-lab/candle-backtest/pkg/errors"
	"go.uber.org/zap"
)

// ResultStore buffers the executions and closed trades of one run.
type ResultStore struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewResultStore opens an in-memory DuckDB database and creates the
// result tables.
func NewResultStore(log *logger.Logger) (*ResultStore, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBacktestStoreFailed, err, "failed to open database")
	}

	s := &ResultStore{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *ResultStore) initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS executions (
			order_id TEXT,
			side TEXT,
			fill_price DOUBLE,
			quantity DOUBLE,
			timestamp TIMESTAMP,
			liquidated_side TEXT,
			position_price_at_close DOUBLE,
			reason TEXT,
			message TEXT
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestStoreFailed, err, "failed to create executions table")
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS closed_trades (
			side TEXT,
			open_price DOUBLE,
			close_price DOUBLE,
			open_time TIMESTAMP,
			close_time TIMESTAMP,
			quantity DOUBLE,
			profit_percent DOUBLE,
			profit_rate_percent DOUBLE,
			holding_period_ms BIGINT
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestStoreFailed, err, "failed to create closed_trades table")
	}

	return nil
}

// InsertExecutions stores the execution history of a run.
func (s *ResultStore) InsertExecutions(executions []types.Execution) error {
	if len(executions) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestStoreFailed, err, "failed to begin transaction")
	}

	insert := s.sq.
		Insert("executions").
		Columns(
			"order_id", "side", "fill_price", "quantity", "timestamp",
			"liquidated_side", "position_price_at_close", "reason", "message",
		)

	for _, execution := range executions {
		var liquidatedSide any
		if execution.LiquidatedSide.IsSome() {
			liquidatedSide = string(execution.LiquidatedSide.Unwrap())
		}

		var positionPrice any
		if execution.PositionPriceAtClose.IsSome() {
			positionPrice = execution.PositionPriceAtClose.Unwrap()
		}

		insert = insert.Values(
			execution.OrderID, string(execution.Side), execution.FillPrice,
			execution.Quantity, execution.Timestamp, liquidatedSide,
			positionPrice, execution.Reason.Reason, execution.Reason.Message,
		)
	}

	if _, err := insert.RunWith(tx).Exec(); err != nil {
		tx.Rollback()
		return errors.Wrap(errors.ErrCodeBacktestStoreFailed, err, "failed to insert executions")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestStoreFailed, err, "failed to commit executions")
	}

	return nil
}

// InsertClosedTrades stores the closed trades of a run.
func (s *ResultStore) InsertClosedTrades(trades []types.ClosedTrade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestStoreFailed, err, "failed to begin transaction")
	}

	insert := s.sq.
		Insert("closed_trades").
		Columns(
			"side", "open_price", "close_price", "open_time", "close_time",
			"quantity", "profit_percent", "profit_rate_percent", "holding_period_ms",
		)

	for _, trade := range trades {
		insert = insert.Values(
			string(trade.Side), trade.OpenPrice, trade.ClosePrice,
			trade.OpenTime, trade.CloseTime, trade.Quantity,
			trade.ProfitPercent, trade.ProfitRatePercent,
			trade.HoldingPeriod.Milliseconds(),
		)
	}

	if _, err := insert.RunWith(tx).Exec(); err != nil {
		tx.Rollback()
		return errors.Wrap(errors.ErrCodeBacktestStoreFailed, err, "failed to insert closed trades")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestStoreFailed, err, "failed to commit closed trades")
	}

	return nil
}

// Write exports both tables as Parquet files into the folder and
// returns their paths.
func (s *ResultStore) Write(folder string) (executionsPath string, tradesPath string, err error) {
	executionsPath = filepath.Join(folder, "executions.parquet")
	tradesPath = filepath.Join(folder, "trades.parquet")

	if _, err = s.db.Exec(fmt.Sprintf(`COPY executions TO '%s' (FORMAT PARQUET)`, executionsPath)); err != nil {
		return "", "", errors.Wrap(errors.ErrCodeDataWriteFailed, err, "failed to write executions parquet")
	}

	if _, err = s.db.Exec(fmt.Sprintf(`COPY closed_trades TO '%s' (FORMAT PARQUET)`, tradesPath)); err != nil {
		return "", "", errors.Wrap(errors.ErrCodeDataWriteFailed, err, "failed to write trades parquet")
	}

	s.logger.Debug("parquet export finished",
		zap.String("executions", executionsPath),
		zap.String("trades", tradesPath),
	)

	return executionsPath, tradesPath, nil
}

// CountExecutions returns the number of buffered execution rows.
func (s *ResultStore) CountExecutions() (int, error) {
	var count int
	if err := s.sq.Select("COUNT(*)").From("executions").RunWith(s.db).QueryRow().Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, err, "failed to count executions")
	}

	return count, nil
}

// CountClosedTrades returns the number of buffered trade rows.
func (s *ResultStore) CountClosedTrades() (int, error) {
	var count int
	if err := s.sq.Select("COUNT(*)").From("closed_trades").RunWith(s.db).QueryRow().Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, err, "failed to count closed trades")
	}

	return count, nil
}

// Close releases the underlying database.
func (s *ResultStore) Close() error {
	return s.db.Close()
}
