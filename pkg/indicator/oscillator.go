package indicator

// RSI computes the Relative Strength Index with Wilder smoothing of average
// gain and loss. The result has len(values)-period entries, each in
// [0, 100]; RSI is pinned to 100 while the average loss is exactly zero.
func RSI(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period+1 {
		return nil
	}

	avgGain := 0.0
	avgLoss := 0.0
	for i := 1; i <= period; i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	out := make([]float64, 0, len(values)-period)
	out = append(out, rsiValue(avgGain, avgLoss))

	p := float64(period)
	for i := period + 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		out = append(out, rsiValue(avgGain, avgLoss))
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
