package engine

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/candle-backtest/internal/types"
)

// FillResult is the outcome of a filled order: the execution record and
// the position state after the fill. The position is None when the fill
// closed it.
type FillResult struct {
	Execution types.Execution
	Position  optional.Option[types.Position]
}

// Simulate tests the orders against the candle in emission order and
// returns the first fill. At most one order fills per candle; the rest
// expire.
func Simulate(candle types.Candle, orders []types.Order, position optional.Option[types.Position]) optional.Option[FillResult] {
	for _, order := range orders {
		if result := simulateOrder(candle, order, position); result.IsSome() {
			return result
		}
	}

	return optional.None[FillResult]()
}

// simulateOrder applies the intrabar fill rules. Buys fill when the low
// reaches the limit price, sells when the high does. A filled entry
// never fills better than the candle open: buys fill at min(open,
// limit), sells and closes at max(open, limit).
func simulateOrder(candle types.Candle, order types.Order, position optional.Option[types.Position]) optional.Option[FillResult] {
	switch order.Side {
	case types.SideBuy:
		if candle.Low <= order.Price {
			return optional.Some(fillBuy(candle, order, position))
		}
	case types.SideSell:
		if candle.High >= order.Price {
			return optional.Some(fillSell(candle, order, position))
		}
	case types.SideClose:
		return fillClose(candle, order, position)
	}

	return optional.None[FillResult]()
}

func fillBuy(candle types.Candle, order types.Order, position optional.Option[types.Position]) FillResult {
	fillPrice := math.Min(candle.Open, order.Price)

	execution := types.Execution{
		OrderID:   order.ID,
		Side:      types.SideBuy,
		FillPrice: fillPrice,
		Quantity:  order.Quantity,
		Timestamp: candle.Time,
		Reason:    order.Reason,
	}

	if position.IsNone() {
		return FillResult{
			Execution: execution,
			Position:  optional.Some(openPosition(candle, order, types.PositionSideLong, fillPrice)),
		}
	}

	current := position.Unwrap()

	var next types.Position
	if current.Side == types.PositionSideLong {
		next = current.AddFill(fillPrice, order.Quantity)
	} else {
		next = current.ReduceFill(order.Quantity)
	}

	next.LastTradeTime = candle.Time
	next.LastTradePrice = order.Price

	return FillResult{
		Execution: execution,
		Position:  optional.Some(next),
	}
}

func fillSell(candle types.Candle, order types.Order, position optional.Option[types.Position]) FillResult {
	fillPrice := math.Max(candle.Open, order.Price)

	execution := types.Execution{
		OrderID:   order.ID,
		Side:      types.SideSell,
		FillPrice: fillPrice,
		Quantity:  order.Quantity,
		Timestamp: candle.Time,
		Reason:    order.Reason,
	}

	if position.IsNone() {
		return FillResult{
			Execution: execution,
			Position:  optional.Some(openPosition(candle, order, types.PositionSideShort, fillPrice)),
		}
	}

	current := position.Unwrap()

	var next types.Position
	if current.Side == types.PositionSideShort {
		next = current.AddFill(fillPrice, order.Quantity)
	} else {
		next = current.ReduceFill(order.Quantity)
	}

	next.LastTradeTime = candle.Time
	next.LastTradePrice = order.Price

	return FillResult{
		Execution: execution,
		Position:  optional.Some(next),
	}
}

// fillClose liquidates the whole position. A long closes once the high
// trades above the limit, a short once the low trades below it; either
// way the fill is never better than the open.
func fillClose(candle types.Candle, order types.Order, position optional.Option[types.Position]) optional.Option[FillResult] {
	if position.IsNone() {
		return optional.None[FillResult]()
	}

	current := position.Unwrap()

	triggered := (current.Side == types.PositionSideLong && candle.High > order.Price) ||
		(current.Side == types.PositionSideShort && candle.Low < order.Price)
	if !triggered {
		return optional.None[FillResult]()
	}

	return optional.Some(FillResult{
		Execution: types.Execution{
			OrderID:              order.ID,
			Side:                 types.SideClose,
			FillPrice:            math.Max(candle.Open, order.Price),
			Quantity:             order.Quantity,
			Timestamp:            candle.Time,
			LiquidatedSide:       optional.Some(current.Side),
			PositionPriceAtClose: optional.Some(current.AvgPrice),
			Reason:               order.Reason,
		},
		Position: optional.None[types.Position](),
	})
}

// openPosition builds the position created by an entry fill. Stop loss
// and take profit prices derive from the limit price and are recorded
// on the position without being enforced by the simulation.
func openPosition(candle types.Candle, order types.Order, side types.PositionSide, fillPrice float64) types.Position {
	position := types.Position{
		ID:             order.ID,
		Side:           side,
		AvgPrice:       fillPrice,
		Quantity:       order.Quantity,
		OpenTimestamp:  candle.Time,
		LastTradeTime:  candle.Time,
		LastTradePrice: order.Price,
	}

	direction := 1.0
	if side == types.PositionSideShort {
		direction = -1.0
	}

	if order.StopLoss.IsSome() {
		position.StopLoss = optional.Some(roundPrice(order.Price * (1 - direction*order.StopLoss.Unwrap())))
	}

	if order.TakeProfit.IsSome() {
		position.TakeProfit = optional.Some(roundPrice(order.Price * (1 + direction*order.TakeProfit.Unwrap())))
	}

	return position
}

func roundPrice(price float64) float64 {
	return math.Round(price*10) / 10
}
