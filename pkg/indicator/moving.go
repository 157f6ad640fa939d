package indicator

// SMA computes the simple moving average with a sliding window. The result
// has len(values)-period+1 entries; it is empty when the series is shorter
// than the period.
func SMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	out := make([]float64, 0, len(values)-period+1)
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out = append(out, sum/float64(period))
		}
	}
	return out
}

// EMA computes the exponential moving average, seeded with the SMA of the
// first period samples. k = 2/(period+1).
func EMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	k := 2.0 / float64(period+1)
	out := make([]float64, 0, len(values)-period+1)

	ema := mean(values[:period])
	out = append(out, ema)
	for i := period; i < len(values); i++ {
		ema = (values[i]-ema)*k + ema
		out = append(out, ema)
	}
	return out
}

// MACDResult holds the three MACD series. Signal starts signal-1 entries
// into MACD; Histogram is MACD minus Signal, aligned to Signal's first
// valid index.
type MACDResult struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

// MACD computes moving average convergence/divergence from two EMAs. The
// fast EMA is offset so both series line up on the same samples.
func MACD(values []float64, fast, slow, signal int) MACDResult {
	if fast <= 0 || slow <= fast || len(values) < slow {
		return MACDResult{}
	}

	fastEMA := EMA(values, fast)
	slowEMA := EMA(values, slow)
	offset := slow - fast

	macd := make([]float64, len(slowEMA))
	for i := range slowEMA {
		macd[i] = fastEMA[i+offset] - slowEMA[i]
	}

	res := MACDResult{MACD: macd}
	if signal <= 0 || len(macd) < signal {
		return res
	}

	res.Signal = EMA(macd, signal)
	res.Histogram = make([]float64, len(res.Signal))
	for i := range res.Signal {
		res.Histogram[i] = macd[i+signal-1] - res.Signal[i]
	}
	return res
}
