// Package indicator computes technical indicators over price and candle
// series. All functions are pure and stateless: the caller owns the series,
// and a series shorter than the requested period yields an empty result
// rather than an error, so "not enough data yet" stays a checkable state.
package indicator

import "math"

// Candle is one OHLC sample. Only the fields volatility measures need are
// carried here.
type Candle struct {
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// Default periods, matching common charting conventions.
const (
	DefaultRSIPeriod    = 14
	DefaultATRPeriod    = 14
	DefaultMACDFast     = 12
	DefaultMACDSlow     = 26
	DefaultMACDSignal   = 9
	DefaultBandPeriod   = 20
	DefaultBandWidth    = 2.0
	DefaultLevelLookback = 5
	// DefaultLevelProximity is the relative price distance within which
	// support/resistance candidates collapse into one level.
	DefaultLevelProximity = 0.02
)

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStdDev is the uncorrected standard deviation of values.
func populationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	sum2 := 0.0
	for _, v := range values {
		d := v - m
		sum2 += d * d
	}
	return math.Sqrt(sum2 / float64(len(values)))
}
