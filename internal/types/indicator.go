package types

import (
	"time"

	"github.com/moznion/go-optional"
)

type IndicatorType string

const (
	IndicatorTypeMA             IndicatorType = "ma"
	IndicatorTypeBollingerBands IndicatorType = "bollinger_bands"
	IndicatorTypeVWAP           IndicatorType = "vwap"
	IndicatorTypeMACD           IndicatorType = "macd"
	IndicatorTypeVWAPMACD       IndicatorType = "vwap_macd"
	IndicatorTypeRSI            IndicatorType = "rsi"
	IndicatorTypeParabolicSAR   IndicatorType = "parabolic_sar"
	IndicatorTypeBoundary       IndicatorType = "boundary"
)

// MAPoint is one simple moving average value.
type MAPoint struct {
	Timestamp time.Time `yaml:"timestamp" json:"timestamp" csv:"timestamp"`
	Value     float64   `yaml:"value" json:"value" csv:"value"`
}

// BollingerPoint is one Bollinger Bands value. Upper and Lower sit two
// standard deviations around the middle band.
type BollingerPoint struct {
	Timestamp time.Time `yaml:"timestamp" json:"timestamp" csv:"timestamp"`
	Upper     float64   `yaml:"upper" json:"upper" csv:"upper"`
	Middle    float64   `yaml:"middle" json:"middle" csv:"middle"`
	Lower     float64   `yaml:"lower" json:"lower" csv:"lower"`
}

// VWAPPoint is one exponentially-decayed VWAP value.
type VWAPPoint struct {
	Timestamp time.Time `yaml:"timestamp" json:"timestamp" csv:"timestamp"`
	Value     float64   `yaml:"value" json:"value" csv:"value"`
}

// MACDPoint is one MACD value, shared by the price MACD and the
// VWAP-MACD variants.
type MACDPoint struct {
	Timestamp time.Time `yaml:"timestamp" json:"timestamp" csv:"timestamp"`
	MACD      float64   `yaml:"macd" json:"macd" csv:"macd"`
	Signal    float64   `yaml:"signal" json:"signal" csv:"signal"`
	Histogram float64   `yaml:"histogram" json:"histogram" csv:"histogram"`
}

// RSIPoint is one Wilder RSI value. MA is attached once enough points
// exist for the configured smoothing period.
type RSIPoint struct {
	Timestamp time.Time                `yaml:"timestamp" json:"timestamp" csv:"timestamp"`
	Value     float64                  `yaml:"value" json:"value" csv:"value"`
	MA        optional.Option[float64] `yaml:"ma" json:"ma" csv:"ma"`
}

// SARPoint is one Parabolic SAR value with the trend direction at that
// candle.
type SARPoint struct {
	Timestamp time.Time `yaml:"timestamp" json:"timestamp" csv:"timestamp"`
	Value     float64   `yaml:"value" json:"value" csv:"value"`
	Uptrend   bool      `yaml:"uptrend" json:"uptrend" csv:"uptrend"`
}

// BoundaryPoint is one pair of predicted trend-boundary values with the
// counts of filtered extremes that produced them.
type BoundaryPoint struct {
	Timestamp   time.Time `yaml:"timestamp" json:"timestamp" csv:"timestamp"`
	Upper       float64   `yaml:"upper" json:"upper" csv:"upper"`
	Lower       float64   `yaml:"lower" json:"lower" csv:"lower"`
	MaximaCount int       `yaml:"maxima_count" json:"maxima_count" csv:"maxima_count"`
	MinimaCount int       `yaml:"minima_count" json:"minima_count" csv:"minima_count"`
}
