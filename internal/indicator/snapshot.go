package indicator

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/candle-backtest/internal/types"
)

// SnapshotConfig collects the parameters of every indicator series a
// backtest run precomputes.
type SnapshotConfig struct {
	MAPeriod        int
	BollingerPeriod int

	// VWAPSlowPeriod feeds the entry divergence check and the normal
	// exit price; VWAPFastPeriod feeds the risk-reduction exit.
	VWAPSlowPeriod int
	VWAPFastPeriod int

	RSIPeriod   int
	RSIMAPeriod int

	MACDShortPeriod  int
	MACDLongPeriod   int
	MACDSignalPeriod int

	VWAPMACDLongPeriod   int
	VWAPMACDShortPeriod  int
	VWAPMACDSignalPeriod int

	SARStep  float64
	SARMaxAF float64

	BoundaryLookback    int
	BoundaryLocalWindow int
}

// DefaultSnapshotConfig returns the parameters used when the engine
// config leaves an indicator section unset.
func DefaultSnapshotConfig() SnapshotConfig {
	return SnapshotConfig{
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
	}
}

// Snapshot holds every indicator series computed once over the full
// candle history, with unix-millisecond lookup indexes so strategies
// can query values at a candle timestamp in constant time.
//
// Series start later than the candles they derive from because each
// indicator needs a warm-up window; a lookup before the first point of
// a series returns None.
type Snapshot struct {
	MA        []types.MAPoint
	Bollinger []types.BollingerPoint
	VWAPSlow  []types.VWAPPoint
	VWAPFast  []types.VWAPPoint
	RSI       []types.RSIPoint
	MACD      []types.MACDPoint
	VWAPMACD  []types.MACDPoint
	SAR       []types.SARPoint
	Boundary  []types.BoundaryPoint

	maIndex        map[int64]int
	bollingerIndex map[int64]int
	vwapSlowIndex  map[int64]int
	vwapFastIndex  map[int64]int
	rsiIndex       map[int64]int
	macdIndex      map[int64]int
	vwapMACDIndex  map[int64]int
	sarIndex       map[int64]int
	boundaryIndex  map[int64]int
}

// ComputeSnapshot calculates all indicator series over the candles.
func ComputeSnapshot(candles []types.Candle, cfg SnapshotConfig) *Snapshot {
	s := &Snapshot{
		MA:        MASeries(candles, cfg.MAPeriod),
		Bollinger: BollingerSeries(candles, cfg.BollingerPeriod),
		VWAPSlow:  VWAPSeries(candles, cfg.VWAPSlowPeriod),
		VWAPFast:  VWAPSeries(candles, cfg.VWAPFastPeriod),
		RSI:       RSISeries(candles, cfg.RSIPeriod, cfg.RSIMAPeriod),
		MACD:      MACDSeries(candles, cfg.MACDShortPeriod, cfg.MACDLongPeriod, cfg.MACDSignalPeriod),
		VWAPMACD:  VWAPMACDSeries(candles, cfg.VWAPMACDLongPeriod, cfg.VWAPMACDShortPeriod, cfg.VWAPMACDSignalPeriod),
		SAR:       SARSeries(candles, cfg.SARStep, cfg.SARMaxAF),
		Boundary:  BoundarySeries(candles, cfg.BoundaryLookback, cfg.BoundaryLocalWindow),
	}

	s.maIndex = make(map[int64]int, len(s.MA))
	for i, p := range s.MA {
		s.maIndex[p.Timestamp.UnixMilli()] = i
	}

	s.bollingerIndex = make(map[int64]int, len(s.Bollinger))
	for i, p := range s.Bollinger {
		s.bollingerIndex[p.Timestamp.UnixMilli()] = i
	}

	s.vwapSlowIndex = make(map[int64]int, len(s.VWAPSlow))
	for i, p := range s.VWAPSlow {
		s.vwapSlowIndex[p.Timestamp.UnixMilli()] = i
	}

	s.vwapFastIndex = make(map[int64]int, len(s.VWAPFast))
	for i, p := range s.VWAPFast {
		s.vwapFastIndex[p.Timestamp.UnixMilli()] = i
	}

	s.rsiIndex = make(map[int64]int, len(s.RSI))
	for i, p := range s.RSI {
		s.rsiIndex[p.Timestamp.UnixMilli()] = i
	}

	s.macdIndex = make(map[int64]int, len(s.MACD))
	for i, p := range s.MACD {
		s.macdIndex[p.Timestamp.UnixMilli()] = i
	}

	s.vwapMACDIndex = make(map[int64]int, len(s.VWAPMACD))
	for i, p := range s.VWAPMACD {
		s.vwapMACDIndex[p.Timestamp.UnixMilli()] = i
	}

	s.sarIndex = make(map[int64]int, len(s.SAR))
	for i, p := range s.SAR {
		s.sarIndex[p.Timestamp.UnixMilli()] = i
	}

	s.boundaryIndex = make(map[int64]int, len(s.Boundary))
	for i, p := range s.Boundary {
		s.boundaryIndex[p.Timestamp.UnixMilli()] = i
	}

	return s
}

// MAAt returns the moving average point at the given candle time.
func (s *Snapshot) MAAt(t time.Time) optional.Option[types.MAPoint] {
	if i, ok := s.maIndex[t.UnixMilli()]; ok {
		return optional.Some(s.MA[i])
	}

	return optional.None[types.MAPoint]()
}

// BollingerAt returns the Bollinger Bands point at the given candle time.
func (s *Snapshot) BollingerAt(t time.Time) optional.Option[types.BollingerPoint] {
	if i, ok := s.bollingerIndex[t.UnixMilli()]; ok {
		return optional.Some(s.Bollinger[i])
	}

	return optional.None[types.BollingerPoint]()
}

// VWAPSlowAt returns the slow-horizon VWAP point at the given candle time.
func (s *Snapshot) VWAPSlowAt(t time.Time) optional.Option[types.VWAPPoint] {
	if i, ok := s.vwapSlowIndex[t.UnixMilli()]; ok {
		return optional.Some(s.VWAPSlow[i])
	}

	return optional.None[types.VWAPPoint]()
}

// VWAPFastAt returns the fast-horizon VWAP point at the given candle time.
func (s *Snapshot) VWAPFastAt(t time.Time) optional.Option[types.VWAPPoint] {
	if i, ok := s.vwapFastIndex[t.UnixMilli()]; ok {
		return optional.Some(s.VWAPFast[i])
	}

	return optional.None[types.VWAPPoint]()
}

// RSIAt returns the RSI point at the given candle time.
func (s *Snapshot) RSIAt(t time.Time) optional.Option[types.RSIPoint] {
	if i, ok := s.rsiIndex[t.UnixMilli()]; ok {
		return optional.Some(s.RSI[i])
	}

	return optional.None[types.RSIPoint]()
}

// MACDAt returns the price MACD point at the given candle time.
func (s *Snapshot) MACDAt(t time.Time) optional.Option[types.MACDPoint] {
	if i, ok := s.macdIndex[t.UnixMilli()]; ok {
		return optional.Some(s.MACD[i])
	}

	return optional.None[types.MACDPoint]()
}

// VWAPMACDAt returns the VWAP MACD point at the given candle time.
func (s *Snapshot) VWAPMACDAt(t time.Time) optional.Option[types.MACDPoint] {
	if i, ok := s.vwapMACDIndex[t.UnixMilli()]; ok {
		return optional.Some(s.VWAPMACD[i])
	}

	return optional.None[types.MACDPoint]()
}

// SARAt returns the parabolic SAR point at the given candle time.
func (s *Snapshot) SARAt(t time.Time) optional.Option[types.SARPoint] {
	if i, ok := s.sarIndex[t.UnixMilli()]; ok {
		return optional.Some(s.SAR[i])
	}

	return optional.None[types.SARPoint]()
}

// BoundaryAt returns the trend boundary point at the given candle time.
func (s *Snapshot) BoundaryAt(t time.Time) optional.Option[types.BoundaryPoint] {
	if i, ok := s.boundaryIndex[t.UnixMilli()]; ok {
		return optional.Some(s.Boundary[i])
	}

	return optional.None[types.BoundaryPoint]()
}
