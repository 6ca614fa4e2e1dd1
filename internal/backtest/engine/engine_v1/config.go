package engine

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/candle-backtest/internal/indicator"
	"github.com/rxtech-lab/candle-backtest/pkg/errors"
)

// BacktestEngineV1Config configures one backtest run: the indicator
// parameters, the round-trip fee and an optional time window.
type BacktestEngineV1Config struct {
	MAPeriod        int `yaml:"ma_period" json:"ma_period" validate:"gt=0" jsonschema:"title=MA Period,description=Simple moving average period,minimum=1"`
	BollingerPeriod int `yaml:"bollinger_period" json:"bollinger_period" validate:"gt=0" jsonschema:"title=Bollinger Period,description=Bollinger Bands period,minimum=1"`

	VWAPSlowPeriod int `yaml:"vwap_slow_period" json:"vwap_slow_period" validate:"gt=0" jsonschema:"title=Slow VWAP Period,description=Decay horizon of the slow VWAP,minimum=1"`
	VWAPFastPeriod int `yaml:"vwap_fast_period" json:"vwap_fast_period" validate:"gt=0" jsonschema:"title=Fast VWAP Period,description=Decay horizon of the fast VWAP,minimum=1"`

	RSIPeriod   int `yaml:"rsi_period" json:"rsi_period" validate:"gt=0" jsonschema:"title=RSI Period,description=Wilder RSI period,minimum=1"`
	RSIMAPeriod int `yaml:"rsi_ma_period" json:"rsi_ma_period" validate:"gt=0" jsonschema:"title=RSI MA Period,description=Smoothing period of the RSI moving average,minimum=1"`

	MACDShortPeriod  int `yaml:"macd_short_period" json:"macd_short_period" validate:"gt=0" jsonschema:"title=MACD Short Period,minimum=1"`
	MACDLongPeriod   int `yaml:"macd_long_period" json:"macd_long_period" validate:"gt=0" jsonschema:"title=MACD Long Period,minimum=1"`
	MACDSignalPeriod int `yaml:"macd_signal_period" json:"macd_signal_period" validate:"gt=0" jsonschema:"title=MACD Signal Period,minimum=1"`

	VWAPMACDLongPeriod   int `yaml:"vwap_macd_long_period" json:"vwap_macd_long_period" validate:"gt=0" jsonschema:"title=VWAP MACD Long Period,minimum=1"`
	VWAPMACDShortPeriod  int `yaml:"vwap_macd_short_period" json:"vwap_macd_short_period" validate:"gt=0" jsonschema:"title=VWAP MACD Short Period,minimum=1"`
	VWAPMACDSignalPeriod int `yaml:"vwap_macd_signal_period" json:"vwap_macd_signal_period" validate:"gt=0" jsonschema:"title=VWAP MACD Signal Period,minimum=1"`

	SARStep  float64 `yaml:"sar_step" json:"sar_step" validate:"gt=0" jsonschema:"title=SAR Step,description=Initial acceleration factor of the parabolic SAR,exclusiveMinimum=0"`
	SARMaxAF float64 `yaml:"sar_max_af" json:"sar_max_af" validate:"gt=0" jsonschema:"title=SAR Max AF,description=Acceleration factor cap of the parabolic SAR,exclusiveMinimum=0"`

	BoundaryLookback    int `yaml:"boundary_lookback" json:"boundary_lookback" validate:"gt=0" jsonschema:"title=Boundary Lookback,minimum=1"`
	BoundaryLocalWindow int `yaml:"boundary_local_window" json:"boundary_local_window" validate:"gt=0" jsonschema:"title=Boundary Local Window,minimum=1"`

	// FeePercent is subtracted from every closed trade's profit rate
	// once per round trip.
	FeePercent float64 `yaml:"fee_percent" json:"fee_percent" validate:"gte=0" jsonschema:"title=Fee Percent,description=Round-trip fee in percent,minimum=0"`

	// QuantityPrecision is the number of decimals order quantities are
	// floored to before simulation.
	QuantityPrecision int `yaml:"quantity_precision" json:"quantity_precision" validate:"gte=0" jsonschema:"title=Quantity Precision,description=Decimal places of order quantities,minimum=0"`

	StartTime optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start of the backtest window"`
	EndTime   optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end of the backtest window"`
}

// UnmarshalYAML implements custom unmarshaling for BacktestEngineV1Config
func (c *BacktestEngineV1Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type Config struct {
		MAPeriod             int        `yaml:"ma_period"`
		BollingerPeriod      int        `yaml:"bollinger_period"`
		VWAPSlowPeriod       int        `yaml:"vwap_slow_period"`
		VWAPFastPeriod       int        `yaml:"vwap_fast_period"`
		RSIPeriod            int        `yaml:"rsi_period"`
		RSIMAPeriod          int        `yaml:"rsi_ma_period"`
		MACDShortPeriod      int        `yaml:"macd_short_period"`
		MACDLongPeriod       int        `yaml:"macd_long_period"`
		MACDSignalPeriod     int        `yaml:"macd_signal_period"`
		VWAPMACDLongPeriod   int        `yaml:"vwap_macd_long_period"`
		VWAPMACDShortPeriod  int        `yaml:"vwap_macd_short_period"`
		VWAPMACDSignalPeriod int        `yaml:"vwap_macd_signal_period"`
		SARStep              float64    `yaml:"sar_step"`
		SARMaxAF             float64    `yaml:"sar_max_af"`
		BoundaryLookback     int        `yaml:"boundary_lookback"`
		BoundaryLocalWindow  int        `yaml:"boundary_local_window"`
		FeePercent           float64    `yaml:"fee_percent"`
		QuantityPrecision    int        `yaml:"quantity_precision"`
		StartTime            *time.Time `yaml:"start_time"`
		EndTime              *time.Time `yaml:"end_time"`
	}

	// Seed the temporary struct from the receiver so a partial YAML
	// document only overrides the fields it names.
	config := Config{
		MAPeriod:             c.MAPeriod,
		BollingerPeriod:      c.BollingerPeriod,
		VWAPSlowPeriod:       c.VWAPSlowPeriod,
		VWAPFastPeriod:       c.VWAPFastPeriod,
		RSIPeriod:            c.RSIPeriod,
		RSIMAPeriod:          c.RSIMAPeriod,
		MACDShortPeriod:      c.MACDShortPeriod,
		MACDLongPeriod:       c.MACDLongPeriod,
		MACDSignalPeriod:     c.MACDSignalPeriod,
		VWAPMACDLongPeriod:   c.VWAPMACDLongPeriod,
		VWAPMACDShortPeriod:  c.VWAPMACDShortPeriod,
		VWAPMACDSignalPeriod: c.VWAPMACDSignalPeriod,
		SARStep:              c.SARStep,
		SARMaxAF:             c.SARMaxAF,
		BoundaryLookback:     c.BoundaryLookback,
		BoundaryLocalWindow:  c.BoundaryLocalWindow,
		FeePercent:           c.FeePercent,
		QuantityPrecision:    c.QuantityPrecision,
	}

	if err := unmarshal(&config); err != nil {
		return err
	}

	c.MAPeriod = config.MAPeriod
	c.BollingerPeriod = config.BollingerPeriod
	c.VWAPSlowPeriod = config.VWAPSlowPeriod
	c.VWAPFastPeriod = config.VWAPFastPeriod
	c.RSIPeriod = config.RSIPeriod
	c.RSIMAPeriod = config.RSIMAPeriod
	c.MACDShortPeriod = config.MACDShortPeriod
	c.MACDLongPeriod = config.MACDLongPeriod
	c.MACDSignalPeriod = config.MACDSignalPeriod
	c.VWAPMACDLongPeriod = config.VWAPMACDLongPeriod
	c.VWAPMACDShortPeriod = config.VWAPMACDShortPeriod
	c.VWAPMACDSignalPeriod = config.VWAPMACDSignalPeriod
	c.SARStep = config.SARStep
	c.SARMaxAF = config.SARMaxAF
	c.BoundaryLookback = config.BoundaryLookback
	c.BoundaryLocalWindow = config.BoundaryLocalWindow
	c.FeePercent = config.FeePercent
	c.QuantityPrecision = config.QuantityPrecision

	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	return nil
}

// Validate checks the config invariants beyond field-level tags.
func (c *BacktestEngineV1Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, err, "invalid engine config")
	}

	if c.MACDShortPeriod >= c.MACDLongPeriod {
		return errors.Newf(errors.ErrCodeBacktestConfigError, "macd_short_period %d must be smaller than macd_long_period %d", c.MACDShortPeriod, c.MACDLongPeriod)
	}

	if c.VWAPMACDShortPeriod >= c.VWAPMACDLongPeriod {
		return errors.Newf(errors.ErrCodeBacktestConfigError, "vwap_macd_short_period %d must be smaller than vwap_macd_long_period %d", c.VWAPMACDShortPeriod, c.VWAPMACDLongPeriod)
	}

	if c.SARStep > c.SARMaxAF {
		return errors.Newf(errors.ErrCodeBacktestConfigError, "sar_step %f must not exceed sar_max_af %f", c.SARStep, c.SARMaxAF)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.New(errors.ErrCodeBacktestConfigError, "end_time must not be before start_time")
	}

	return nil
}

// snapshotConfig maps the engine config onto the indicator parameters.
func (c *BacktestEngineV1Config) snapshotConfig() indicator.SnapshotConfig {
	return indicator.SnapshotConfig{
		MAPeriod:             c.MAPeriod,
		BollingerPeriod:      c.BollingerPeriod,
		VWAPSlowPeriod:       c.VWAPSlowPeriod,
		VWAPFastPeriod:       c.VWAPFastPeriod,
		RSIPeriod:            c.RSIPeriod,
		RSIMAPeriod:          c.RSIMAPeriod,
		MACDShortPeriod:      c.MACDShortPeriod,
		MACDLongPeriod:       c.MACDLongPeriod,
		MACDSignalPeriod:     c.MACDSignalPeriod,
		VWAPMACDLongPeriod:   c.VWAPMACDLongPeriod,
		VWAPMACDShortPeriod:  c.VWAPMACDShortPeriod,
		VWAPMACDSignalPeriod: c.VWAPMACDSignalPeriod,
		SARStep:              c.SARStep,
		SARMaxAF:             c.SARMaxAF,
		BoundaryLookback:     c.BoundaryLookback,
		BoundaryLocalWindow:  c.BoundaryLocalWindow,
	}
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// TestConfig returns a config bounded to the given window, for tests.
func TestConfig(startTime time.Time, endTime time.Time) BacktestEngineV1Config {
	config := EmptyConfig()
	config.StartTime = optional.Some(startTime)
	config.EndTime = optional.Some(endTime)

	return config
}

// EmptyConfig returns a BacktestEngineV1Config with default values.
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		MAPeriod:             50,
		BollingerPeriod:      20,
		VWAPSlowPeriod:       120,
		VWAPFastPeriod:       60,
		RSIPeriod:            18,
		RSIMAPeriod:          3,
		MACDShortPeriod:      12,
		MACDLongPeriod:       26,
		MACDSignalPeriod:     9,
		VWAPMACDLongPeriod:   200,
		VWAPMACDShortPeriod:  100,
		VWAPMACDSignalPeriod: 25,
		SARStep:              0.005,
		SARMaxAF:             0.05,
		BoundaryLookback:     60,
		BoundaryLocalWindow:  3,
		FeePercent:           0.05,
		QuantityPrecision:    4,
		StartTime:            optional.None[time.Time](),
		EndTime:              optional.None[time.Time](),
	}
}
