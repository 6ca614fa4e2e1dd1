package strategy

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/candle-backtest/internal/types"
	"github.com/rxtech-lab/candle-backtest/pkg/errors"
	"gopkg.in/yaml.v3"
)

// RSIMeanReversionConfig is the YAML configuration of the
// RSIMeanReversion strategy.
type RSIMeanReversionConfig struct {
	// EntryRSI is the oversold level below which a new long may open.
	EntryRSI float64 `yaml:"entry_rsi" validate:"gt=0,lt=100"`
	// OverboughtRSI is the level above which a short may open when
	// EnableShort is set.
	OverboughtRSI float64 `yaml:"overbought_rsi" validate:"gt=0,lt=100"`
	// VWAPDivergence is the absolute price gap required between the
	// close and the slow VWAP before entering.
	VWAPDivergence float64 `yaml:"vwap_divergence" validate:"gte=0"`
	// OrderQuantity is the size of the opening order.
	OrderQuantity float64 `yaml:"order_quantity" validate:"gt=0"`

	// AddRSI is the oversold level below which an open long is added
	// to.
	AddRSI float64 `yaml:"add_rsi" validate:"gt=0,lt=100"`
	// PriceDropRatio triggers the fast add path when the close falls
	// this fraction below the last traded price.
	PriceDropRatio float64 `yaml:"price_drop_ratio" validate:"gt=0,lt=1"`
	// CooldownMinutes must elapse since the last fill before a normal
	// add; DropCooldownMinutes applies on the price-drop path.
	CooldownMinutes     float64 `yaml:"cooldown_minutes" validate:"gt=0"`
	DropCooldownMinutes float64 `yaml:"drop_cooldown_minutes" validate:"gt=0"`
	// MaxPyramidQuantity caps position doubling: below it each add
	// matches the current position size, above it adds fall back to
	// AddQuantity.
	MaxPyramidQuantity float64 `yaml:"max_pyramid_quantity" validate:"gt=0"`
	AddQuantity        float64 `yaml:"add_quantity" validate:"gt=0"`

	// RiskQuantity is the position size above which a protective close
	// near break-even is kept on the book. SafetyMargin is the
	// break-even markup of that close price.
	RiskQuantity float64 `yaml:"risk_quantity" validate:"gt=0"`
	SafetyMargin float64 `yaml:"safety_margin" validate:"gte=0"`

	// StopLoss and TakeProfit are optional ratios recorded on entry
	// orders.
	StopLoss   *float64 `yaml:"stop_loss" validate:"omitempty,gt=0,lt=1"`
	TakeProfit *float64 `yaml:"take_profit" validate:"omitempty,gt=0"`

	// EnableShort opens the short side of the strategy. Off by
	// default.
	EnableShort bool `yaml:"enable_short"`
}

// DefaultRSIMeanReversionConfig returns the parameters the strategy
// runs with when no config is provided.
func DefaultRSIMeanReversionConfig() RSIMeanReversionConfig {
	return RSIMeanReversionConfig{
		EntryRSI:            25,
		OverboughtRSI:       70,
		VWAPDivergence:      300,
		OrderQuantity:       0.2,
		AddRSI:              34,
		PriceDropRatio:      0.01,
		CooldownMinutes:     20,
		DropCooldownMinutes: 1,
		MaxPyramidQuantity:  10,
		AddQuantity:         0.1,
		RiskQuantity:        3,
		SafetyMargin:        0.0006,
		EnableShort:         false,
	}
}

// RSIMeanReversion buys oversold dips below the slow VWAP, pyramids
// into falling prices with a cooldown, and exits back at the slow VWAP.
// Oversized positions additionally keep a protective close near
// break-even on the book.
type RSIMeanReversion struct {
	config RSIMeanReversionConfig
}

// NewRSIMeanReversion creates the strategy with default configuration.
func NewRSIMeanReversion() Strategy {
	return &RSIMeanReversion{
		config: DefaultRSIMeanReversionConfig(),
	}
}

// Name returns the name of the strategy.
func (s *RSIMeanReversion) Name() string {
	return "rsi_mean_reversion"
}

// Initialize parses the YAML config string over the defaults.
func (s *RSIMeanReversion) Initialize(config string) error {
	cfg := DefaultRSIMeanReversionConfig()

	if config != "" {
		if err := yaml.Unmarshal([]byte(config), &cfg); err != nil {
			return errors.Wrap(errors.ErrCodeStrategyConfigError, err, "failed to parse strategy config")
		}
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, err, "invalid strategy config")
	}

	if cfg.EntryRSI >= cfg.OverboughtRSI {
		return errors.Newf(errors.ErrCodeStrategyConfigError, "entry_rsi %f must be below overbought_rsi %f", cfg.EntryRSI, cfg.OverboughtRSI)
	}

	s.config = cfg

	return nil
}

// PlaceOrder emits the orders for the current candle.
func (s *RSIMeanReversion) PlaceOrder(ctx Context) ([]types.Order, error) {
	rsiPoint := ctx.Indicators.RSIAt(ctx.Timestamp)
	if rsiPoint.IsNone() {
		// Still inside the indicator warm-up window.
		return nil, nil
	}

	rsi := rsiPoint.Unwrap().Value

	if ctx.Position.IsNone() {
		return s.entryOrders(ctx, rsi), nil
	}

	position := ctx.Position.Unwrap()

	switch position.Side {
	case types.PositionSideLong:
		return s.manageLong(ctx, position, rsi), nil
	case types.PositionSideShort:
		return s.manageShort(ctx, position), nil
	default:
		return nil, errors.Newf(errors.ErrCodeStrategyRuntime, "unknown position side %s", position.Side)
	}
}

// entryOrders opens a long on oversold RSI when the close sits far
// enough below the slow VWAP, or a short on overbought RSI when shorts
// are enabled.
func (s *RSIMeanReversion) entryOrders(ctx Context, rsi float64) []types.Order {
	vwapPoint := ctx.Indicators.VWAPSlowAt(ctx.Timestamp)
	if vwapPoint.IsNone() {
		return nil
	}

	vwap := vwapPoint.Unwrap().Value
	close := ctx.Candle.Close

	if rsi < s.config.EntryRSI {
		if close+s.config.VWAPDivergence >= vwap {
			return nil
		}

		return []types.Order{{
			ID:         orderID(ctx, "entry"),
			Side:       types.SideBuy,
			Price:      close,
			Timestamp:  ctx.Timestamp,
			Quantity:   s.config.OrderQuantity,
			StopLoss:   optional.FromNillable(s.config.StopLoss),
			TakeProfit: optional.FromNillable(s.config.TakeProfit),
			Reason: types.Reason{
				Reason:  types.OrderReasonEntrySignal,
				Message: fmt.Sprintf("rsi %.2f below %.2f, close %.2f under vwap %.2f", rsi, s.config.EntryRSI, close, vwap),
			},
		}}
	}

	if s.config.EnableShort && rsi > s.config.OverboughtRSI {
		if close-s.config.VWAPDivergence <= vwap {
			return nil
		}

		return []types.Order{{
			ID:         orderID(ctx, "entry"),
			Side:       types.SideSell,
			Price:      close,
			Timestamp:  ctx.Timestamp,
			Quantity:   s.config.OrderQuantity,
			StopLoss:   optional.FromNillable(s.config.StopLoss),
			TakeProfit: optional.FromNillable(s.config.TakeProfit),
			Reason: types.Reason{
				Reason:  types.OrderReasonEntrySignal,
				Message: fmt.Sprintf("rsi %.2f above %.2f, close %.2f over vwap %.2f", rsi, s.config.OverboughtRSI, close, vwap),
			},
		}}
	}

	return nil
}

// manageLong adds to a long while it stays oversold or keeps dropping,
// otherwise posts the mean-reversion exit at the slow VWAP. An
// oversized position also carries a protective close near break-even.
func (s *RSIMeanReversion) manageLong(ctx Context, position types.Position, rsi float64) []types.Order {
	var orders []types.Order

	close := ctx.Candle.Close
	dropped := position.LastTradePrice*(1-s.config.PriceDropRatio) > close

	if rsi < s.config.AddRSI || dropped {
		if order, ok := s.addOrder(ctx, position, dropped); ok {
			orders = append(orders, order)
		}
	} else {
		if order, ok := s.exitOrder(ctx, position); ok {
			orders = append(orders, order)
		}
	}

	if position.Quantity > s.config.RiskQuantity {
		if order, ok := s.riskOrder(ctx, position); ok {
			orders = append(orders, order)
		}
	}

	return orders
}

// manageShort only posts the mean-reversion close back at the slow
// VWAP; shorts are never pyramided.
func (s *RSIMeanReversion) manageShort(ctx Context, position types.Position) []types.Order {
	vwapPoint := ctx.Indicators.VWAPSlowAt(ctx.Timestamp)
	if vwapPoint.IsNone() {
		return nil
	}

	vwap := vwapPoint.Unwrap().Value
	if vwap == 0 {
		return nil
	}

	return []types.Order{{
		ID:         orderID(ctx, "close"),
		Side:       types.SideClose,
		Price:      vwap,
		Timestamp:  ctx.Timestamp,
		Quantity:   position.Quantity,
		PositionID: optional.Some(position.ID),
		Reason: types.Reason{
			Reason:  types.OrderReasonMeanReversionExit,
			Message: fmt.Sprintf("closing short at slow vwap %.2f", vwap),
		},
	}}
}

// addOrder pyramids into the position when the fill cooldown has
// elapsed. The drop path uses the shorter cooldown.
func (s *RSIMeanReversion) addOrder(ctx Context, position types.Position, dropped bool) (types.Order, bool) {
	lastTradeTime := position.LastTradeTime
	if lastTradeTime.IsZero() {
		lastTradeTime = position.OpenTimestamp
	}

	elapsed := ctx.Timestamp.Sub(lastTradeTime).Minutes()
	if elapsed <= s.config.CooldownMinutes && !(dropped && elapsed > s.config.DropCooldownMinutes) {
		return types.Order{}, false
	}

	quantity := position.Quantity
	if quantity > s.config.MaxPyramidQuantity {
		quantity = s.config.AddQuantity
	}

	close := ctx.Candle.Close
	if close == 0 || quantity == 0 {
		return types.Order{}, false
	}

	return types.Order{
		ID:         orderID(ctx, "add"),
		Side:       types.SideBuy,
		Price:      close,
		Timestamp:  ctx.Timestamp,
		Quantity:   quantity,
		PositionID: optional.Some(position.ID),
		Reason: types.Reason{
			Reason:  types.OrderReasonPositionAdd,
			Message: fmt.Sprintf("adding %.4f at %.2f after %.1f minutes", quantity, close, elapsed),
		},
	}, true
}

// exitOrder posts the full-size close at the slow VWAP.
func (s *RSIMeanReversion) exitOrder(ctx Context, position types.Position) (types.Order, bool) {
	vwapPoint := ctx.Indicators.VWAPSlowAt(ctx.Timestamp)
	if vwapPoint.IsNone() {
		return types.Order{}, false
	}

	vwap := vwapPoint.Unwrap().Value
	if vwap == 0 {
		return types.Order{}, false
	}

	return types.Order{
		ID:         orderID(ctx, "close"),
		Side:       types.SideClose,
		Price:      vwap,
		Timestamp:  ctx.Timestamp,
		Quantity:   position.Quantity,
		PositionID: optional.Some(position.ID),
		Reason: types.Reason{
			Reason:  types.OrderReasonMeanReversionExit,
			Message: fmt.Sprintf("closing at slow vwap %.2f", vwap),
		},
	}, true
}

// riskOrder posts a protective close at the lower of the fast VWAP and
// the break-even price plus the safety margin.
func (s *RSIMeanReversion) riskOrder(ctx Context, position types.Position) (types.Order, bool) {
	vwapPoint := ctx.Indicators.VWAPFastAt(ctx.Timestamp)
	if vwapPoint.IsNone() {
		return types.Order{}, false
	}

	price := min(vwapPoint.Unwrap().Value, position.AvgPrice*(1+s.config.SafetyMargin))

	return types.Order{
		ID:         orderID(ctx, "risk"),
		Side:       types.SideClose,
		Price:      price,
		Timestamp:  ctx.Timestamp,
		Quantity:   position.Quantity,
		PositionID: optional.Some(position.ID),
		Reason: types.Reason{
			Reason:  types.OrderReasonRiskReduction,
			Message: fmt.Sprintf("oversized position %.4f, protective close at %.2f", position.Quantity, price),
		},
	}, true
}

// orderID derives a stable identifier from the candle timestamp so two
// runs over the same data produce identical order streams.
func orderID(ctx Context, kind string) string {
	return fmt.Sprintf("%d-%s", ctx.Timestamp.UnixMilli(), kind)
}
