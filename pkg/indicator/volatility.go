package indicator

import "math"

// Bands holds Bollinger band series. All three share the same alignment as
// SMA(period).
type Bands struct {
	Middle []float64
	Upper  []float64
	Lower  []float64
}

// Bollinger computes volatility bands: middle = SMA(period), half-width =
// k * population standard deviation of the same window.
func Bollinger(values []float64, period int, k float64) Bands {
	if period <= 0 || len(values) < period {
		return Bands{}
	}

	n := len(values) - period + 1
	b := Bands{
		Middle: SMA(values, period),
		Upper:  make([]float64, n),
		Lower:  make([]float64, n),
	}
	for i := 0; i < n; i++ {
		half := k * populationStdDev(values[i:i+period])
		b.Upper[i] = b.Middle[i] + half
		b.Lower[i] = b.Middle[i] - half
	}
	return b
}

// ATR computes the Average True Range: the EMA of the true-range series.
// The first sample's true range is its high-low span, since there is no
// prior close to compare against.
func ATR(candles []Candle, period int) []float64 {
	if len(candles) == 0 {
		return nil
	}

	tr := make([]float64, len(candles))
	tr[0] = candles[0].High - candles[0].Low
	for i := 1; i < len(candles); i++ {
		c := candles[i]
		prevClose := candles[i-1].Close
		tr[i] = math.Max(c.High-c.Low,
			math.Max(math.Abs(c.High-prevClose), math.Abs(c.Low-prevClose)))
	}
	return EMA(tr, period)
}
