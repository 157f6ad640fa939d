package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMAKnownSeries(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4, 5}, 3)
	assert.Equal(t, []float64{2, 3, 4}, got)
}

func TestSMAWindowCountAndMeans(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3}
	period := 4

	got := SMA(values, period)
	require.Len(t, got, len(values)-period+1)

	for i, v := range got {
		window := values[i : i+period]
		sum := 0.0
		for _, w := range window {
			sum += w
		}
		assert.InDelta(t, sum/float64(period), v, 1e-12, "window %d", i)
	}
}

func TestSMAInsufficientData(t *testing.T) {
	assert.Empty(t, SMA([]float64{1, 2}, 3))
	assert.Empty(t, SMA(nil, 1))
	assert.Empty(t, SMA([]float64{1, 2, 3}, 0))
}

func TestEMASeededWithSMA(t *testing.T) {
	// period 3: seed = mean(1,2,3) = 2, k = 0.5
	got := EMA([]float64{1, 2, 3, 4, 5}, 3)
	require.Len(t, got, 3)
	assert.InDelta(t, 2, got[0], 1e-12)
	assert.InDelta(t, 3, got[1], 1e-12)
	assert.InDelta(t, 4, got[2], 1e-12)
}

func TestEMAConstantSeries(t *testing.T) {
	values := []float64{7, 7, 7, 7, 7, 7}
	for _, v := range EMA(values, 3) {
		assert.InDelta(t, 7, v, 1e-12)
	}
}

func TestEMAInsufficientData(t *testing.T) {
	assert.Empty(t, EMA([]float64{1, 2}, 3))
}

func TestMACDAlignment(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = float64(i%7) + 100
	}

	res := MACD(values, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
	require.Len(t, res.MACD, len(values)-DefaultMACDSlow+1)
	require.Len(t, res.Signal, len(res.MACD)-DefaultMACDSignal+1)
	require.Len(t, res.Histogram, len(res.Signal))

	fastEMA := EMA(values, DefaultMACDFast)
	slowEMA := EMA(values, DefaultMACDSlow)
	offset := DefaultMACDSlow - DefaultMACDFast
	for i := range res.MACD {
		assert.InDelta(t, fastEMA[i+offset]-slowEMA[i], res.MACD[i], 1e-12)
	}
	for i := range res.Histogram {
		assert.InDelta(t, res.MACD[i+DefaultMACDSignal-1]-res.Signal[i], res.Histogram[i], 1e-12)
	}
}

func TestMACDConstantSeriesIsZero(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = 50
	}
	res := MACD(values, 12, 26, 9)
	for _, v := range res.MACD {
		assert.InDelta(t, 0, v, 1e-12)
	}
	for _, v := range res.Histogram {
		assert.InDelta(t, 0, v, 1e-12)
	}
}

func TestMACDInsufficientData(t *testing.T) {
	res := MACD(make([]float64, 20), 12, 26, 9)
	assert.Empty(t, res.MACD)
	assert.Empty(t, res.Signal)
	assert.Empty(t, res.Histogram)
}
