package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportResistanceFindsExtrema(t *testing.T) {
	values := []float64{5, 4, 3, 4, 5, 6, 7, 6, 5}

	levels := SupportResistance(values, 2, 0.02)
	require.Len(t, levels, 2)

	assert.Equal(t, Level{Price: 3, Strength: 1, Kind: Support}, levels[0])
	assert.Equal(t, Level{Price: 7, Strength: 1, Kind: Resistance}, levels[1])
}

func TestSupportResistanceClustersNearbyCandidates(t *testing.T) {
	// Two supports at 8 and 8.1 (1.25% apart) collapse into one level.
	values := []float64{10, 9, 8, 9, 10, 9, 8.1, 9, 10}

	levels := SupportResistance(values, 2, 0.02)
	require.Len(t, levels, 2)

	assert.InDelta(t, 8.05, levels[0].Price, 1e-12)
	assert.Equal(t, 2, levels[0].Strength)
	assert.Equal(t, Support, levels[0].Kind)

	assert.InDelta(t, 10, levels[1].Price, 1e-12)
	assert.Equal(t, Resistance, levels[1].Kind)
}

func TestSupportResistanceSortedAscending(t *testing.T) {
	values := []float64{1, 2, 3, 2, 1, 2, 3, 4, 5, 4, 3, 2, 1, 2, 3}
	levels := SupportResistance(values, 2, 0.02)
	for i := 1; i < len(levels); i++ {
		assert.LessOrEqual(t, levels[i-1].Price, levels[i].Price)
	}
}

func TestSupportResistanceInsufficientData(t *testing.T) {
	assert.Empty(t, SupportResistance([]float64{1, 2, 3}, 2, 0.02))
	assert.Empty(t, SupportResistance(nil, 5, 0))
}
