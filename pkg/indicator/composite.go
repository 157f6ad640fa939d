package indicator

import "math"

// FearGreedInput carries the market observations the composite sentiment
// index is derived from. Change fields are percentages over the reference
// window (typically 24h); Sentiment is an external [0,100] index.
type FearGreedInput struct {
	PriceChangePct     float64
	VolumeChangePct    float64
	MarketCapChangePct float64
	VolatilityPct      float64
	Sentiment          float64
}

// FearGreedScore is the weighted composite with its qualitative band.
type FearGreedScore struct {
	Score float64
	Label string
}

// FearGreed computes the composite sentiment index: a weighted sum of five
// sub-scores, each clamped to [0,100]. Weights: price 25%, volume 20%,
// market cap 20%, inverted volatility 15%, external sentiment 20%.
func FearGreed(in FearGreedInput) FearGreedScore {
	price := clamp(50+in.PriceChangePct*2.5, 0, 100)
	volume := clamp(50+in.VolumeChangePct/2, 0, 100)
	marketCap := clamp(50+in.MarketCapChangePct*2.5, 0, 100)
	volatility := clamp(100-in.VolatilityPct*5, 0, 100)
	sentiment := clamp(in.Sentiment, 0, 100)

	score := price*0.25 + volume*0.20 + marketCap*0.20 + volatility*0.15 + sentiment*0.20
	return FearGreedScore{Score: score, Label: fearGreedLabel(score)}
}

func fearGreedLabel(score float64) string {
	switch {
	case score < 20:
		return "Extreme Fear"
	case score < 40:
		return "Fear"
	case score < 60:
		return "Neutral"
	case score < 80:
		return "Greed"
	default:
		return "Extreme Greed"
	}
}

// TrendDirection classifies a price series.
type TrendDirection string

const (
	Bullish TrendDirection = "bullish"
	Bearish TrendDirection = "bearish"
	Neutral TrendDirection = "neutral"
)

// Trend is a direction with a bounded strength.
type Trend struct {
	Direction TrendDirection
	Strength  float64 // [0,100]
}

// ClassifyTrend labels the series bullish when price > SMA20 > SMA50 and
// bearish when the inequalities reverse. Strength blends the price's
// deviation from SMA20 with the RSI's distance from 50, clamped to [0,100].
// Series shorter than 50 samples classify as neutral.
func ClassifyTrend(values []float64) Trend {
	sma20 := SMA(values, 20)
	sma50 := SMA(values, 50)
	if len(sma20) == 0 || len(sma50) == 0 {
		return Trend{Direction: Neutral}
	}

	price := values[len(values)-1]
	s20 := sma20[len(sma20)-1]
	s50 := sma50[len(sma50)-1]

	direction := Neutral
	switch {
	case price > s20 && s20 > s50:
		direction = Bullish
	case price < s20 && s20 < s50:
		direction = Bearish
	}

	rsi := 50.0
	if r := RSI(values, DefaultRSIPeriod); len(r) > 0 {
		rsi = r[len(r)-1]
	}

	smaDev := 0.0
	if s20 != 0 {
		smaDev = math.Abs(price-s20) / s20 * 100
	}
	strength := clamp(smaDev*5+math.Abs(rsi-50)*2, 0, 100)

	return Trend{Direction: direction, Strength: strength}
}

// Diversification is the rescaled concentration score with its band.
type Diversification struct {
	Score  float64 // [0,100]; higher is more diversified
	Rating string
}

// DiversificationScore rescales the Herfindahl-Hirschman Index of the
// allocation fractions between the equal-weight minimum (score 100) and the
// single-asset maximum (score 0). Fractions are normalized first; fewer
// than two allocations score zero.
func DiversificationScore(allocations []float64) Diversification {
	n := len(allocations)
	total := 0.0
	for _, a := range allocations {
		total += a
	}
	if n < 2 || total <= 0 {
		return Diversification{Score: 0, Rating: diversificationRating(0)}
	}

	hhi := 0.0
	for _, a := range allocations {
		f := a / total
		hhi += f * f
	}

	minHHI := 1.0 / float64(n)
	score := clamp((1-(hhi-minHHI)/(1-minHHI))*100, 0, 100)
	return Diversification{Score: score, Rating: diversificationRating(score)}
}

func diversificationRating(score float64) string {
	switch {
	case score >= 80:
		return "excellent"
	case score >= 60:
		return "good"
	case score >= 40:
		return "moderate"
	case score >= 20:
		return "poor"
	default:
		return "concentrated"
	}
}
