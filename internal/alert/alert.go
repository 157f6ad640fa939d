// Package alert stores user-defined price and indicator alerts and
// evaluates them against live market snapshots. Alerts are one-shot: a
// matching condition flips the alert to triggered and deactivates it until
// the user explicitly re-arms it.
package alert

import (
	"time"

	"github.com/google/uuid"
)

// Condition is the kind of market event an alert watches for. New kinds are
// added by extending the handler table in engine.go; string values persist,
// so they must stay stable.
type Condition string

const (
	PriceAbove    Condition = "price_above"
	PriceBelow    Condition = "price_below"
	PercentChange Condition = "percent_change"
	RSIOversold   Condition = "rsi_oversold"
	RSIOverbought Condition = "rsi_overbought"
	VolumeSpike   Condition = "volume_spike"
)

// Threshold defaults applied when an alert carries a zero target.
const (
	DefaultOversold   = 30.0
	DefaultOverbought = 70.0
	DefaultSpikePct   = 100.0
)

// Alert is one stored alert definition. Active and Triggered are
// independent one-shot flags: triggering sets Triggered and clears Active.
type Alert struct {
	ID          string    `json:"id"`
	CoinID      string    `json:"coinId"`
	Condition   Condition `json:"condition"`
	TargetValue float64   `json:"targetValue"`
	Active      bool      `json:"active"`
	Triggered   bool      `json:"triggered"`
	CreatedAt   time.Time `json:"createdAt"`
}

// New creates an armed alert.
func New(coinID string, condition Condition, target float64, at time.Time) Alert {
	return Alert{
		ID:          uuid.NewString(),
		CoinID:      coinID,
		Condition:   condition,
		TargetValue: target,
		Active:      true,
		CreatedAt:   at,
	}
}

// Snapshot is the per-coin market state an evaluation runs against.
// Optional fields are nil when the data source did not supply them; alert
// kinds needing an absent field evaluate to not-triggered.
type Snapshot struct {
	Price           float64  `json:"price"`
	Volume          float64  `json:"volume"`
	RSI             *float64 `json:"rsi,omitempty"`
	PriceChangePct  *float64 `json:"priceChangePct,omitempty"`
	VolumeChangePct *float64 `json:"volumeChangePct,omitempty"`
}
