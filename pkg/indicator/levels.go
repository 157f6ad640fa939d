package indicator

import "sort"

// LevelKind distinguishes support from resistance.
type LevelKind string

const (
	Support    LevelKind = "support"
	Resistance LevelKind = "resistance"
)

// Level is a clustered support or resistance price with the number of
// candidate extrema that fell into it.
type Level struct {
	Price    float64
	Strength int
	Kind     LevelKind
}

// SupportResistance finds local extrema and clusters them into levels. A
// sample is a support (resistance) candidate when it is the minimum
// (maximum) over lookback points on both sides. Candidates of each kind are
// sorted ascending by price, then merged while within proximity (relative,
// e.g. 0.02 for 2%) of the cluster mean. The combined result is sorted
// ascending by price.
func SupportResistance(values []float64, lookback int, proximity float64) []Level {
	if lookback <= 0 || len(values) < 2*lookback+1 {
		return nil
	}
	if proximity <= 0 {
		proximity = DefaultLevelProximity
	}

	var supports, resistances []float64
	for i := lookback; i < len(values)-lookback; i++ {
		isMin, isMax := true, true
		for j := i - lookback; j <= i+lookback; j++ {
			if j == i {
				continue
			}
			if values[j] < values[i] {
				isMin = false
			}
			if values[j] > values[i] {
				isMax = false
			}
		}
		if isMin {
			supports = append(supports, values[i])
		}
		if isMax {
			resistances = append(resistances, values[i])
		}
	}

	levels := append(cluster(supports, proximity, Support),
		cluster(resistances, proximity, Resistance)...)
	sort.Slice(levels, func(i, j int) bool { return levels[i].Price < levels[j].Price })
	return levels
}

func cluster(prices []float64, proximity float64, kind LevelKind) []Level {
	if len(prices) == 0 {
		return nil
	}
	sort.Float64s(prices)

	var out []Level
	sum := prices[0]
	count := 1
	for _, p := range prices[1:] {
		centre := sum / float64(count)
		if centre > 0 && (p-centre)/centre <= proximity {
			sum += p
			count++
			continue
		}
		out = append(out, Level{Price: sum / float64(count), Strength: count, Kind: kind})
		sum = p
		count = 1
	}
	out = append(out, Level{Price: sum / float64(count), Strength: count, Kind: kind})
	return out
}
