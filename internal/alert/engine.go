package alert

import (
	"fmt"
	"math"

	"github.com/kundanmehta01/CryptoHub/pkg/logger"
	"github.com/kundanmehta01/CryptoHub/pkg/metrics"
)

// Result is the outcome of evaluating one alert.
type Result struct {
	Alert   Alert
	Message string
}

type handler func(a Alert, s Snapshot) (bool, string)

// handlers maps every known condition kind to its evaluation. An alert
// whose condition is missing here degrades to not-triggered with a
// diagnostic message instead of failing the whole evaluation pass.
var handlers = map[Condition]handler{
	PriceAbove: func(a Alert, s Snapshot) (bool, string) {
		if s.Price >= a.TargetValue {
			return true, fmt.Sprintf("price %.2f reached target %.2f", s.Price, a.TargetValue)
		}
		return false, ""
	},
	PriceBelow: func(a Alert, s Snapshot) (bool, string) {
		if s.Price <= a.TargetValue {
			return true, fmt.Sprintf("price %.2f fell to target %.2f", s.Price, a.TargetValue)
		}
		return false, ""
	},
	PercentChange: func(a Alert, s Snapshot) (bool, string) {
		if s.PriceChangePct == nil {
			return false, "snapshot carries no price change data"
		}
		if math.Abs(*s.PriceChangePct) >= a.TargetValue {
			return true, fmt.Sprintf("price moved %.2f%%, threshold %.2f%%", *s.PriceChangePct, a.TargetValue)
		}
		return false, ""
	},
	RSIOversold: func(a Alert, s Snapshot) (bool, string) {
		if s.RSI == nil {
			return false, "snapshot carries no RSI"
		}
		threshold := a.TargetValue
		if threshold == 0 {
			threshold = DefaultOversold
		}
		if *s.RSI <= threshold {
			return true, fmt.Sprintf("RSI %.1f at or below %.1f", *s.RSI, threshold)
		}
		return false, ""
	},
	RSIOverbought: func(a Alert, s Snapshot) (bool, string) {
		if s.RSI == nil {
			return false, "snapshot carries no RSI"
		}
		threshold := a.TargetValue
		if threshold == 0 {
			threshold = DefaultOverbought
		}
		if *s.RSI >= threshold {
			return true, fmt.Sprintf("RSI %.1f at or above %.1f", *s.RSI, threshold)
		}
		return false, ""
	},
	VolumeSpike: func(a Alert, s Snapshot) (bool, string) {
		if s.VolumeChangePct == nil {
			return false, "snapshot carries no volume change data"
		}
		threshold := a.TargetValue
		if threshold == 0 {
			threshold = DefaultSpikePct
		}
		if *s.VolumeChangePct >= threshold {
			return true, fmt.Sprintf("volume up %.1f%%, threshold %.1f%%", *s.VolumeChangePct, threshold)
		}
		return false, ""
	},
}

// Engine evaluates stored alerts against market snapshots.
type Engine struct {
	alerts *Store
	log    *logger.Logger
	rec    metrics.Recorder
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger attaches a logger.
func WithLogger(log *logger.Logger) EngineOption {
	return func(e *Engine) { e.log = log }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(rec metrics.Recorder) EngineOption {
	return func(e *Engine) { e.rec = rec }
}

// NewEngine creates an Engine over the alert store.
func NewEngine(alerts *Store, opts ...EngineOption) *Engine {
	e := &Engine{alerts: alerts, log: logger.Nop(), rec: metrics.Noop{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs every active alert against the snapshots, keyed by coin id.
// Coins absent from the map are skipped. Each triggered alert is persisted
// with its terminal state before it is appended to the returned results.
func (e *Engine) Evaluate(snapshots map[string]Snapshot) ([]Result, error) {
	active, err := e.alerts.Active()
	if err != nil {
		return nil, err
	}

	var triggered []Result
	for _, a := range active {
		snap, ok := snapshots[a.CoinID]
		if !ok {
			continue
		}

		h, known := handlers[a.Condition]
		if !known {
			e.log.Warn("unknown alert condition",
				logger.String("alert", a.ID),
				logger.String("condition", string(a.Condition)))
			continue
		}

		hit, msg := h(a, snap)
		if !hit {
			continue
		}

		a.Active = false
		a.Triggered = true
		if err := e.alerts.Update(a); err != nil {
			return triggered, fmt.Errorf("persist triggered alert %s: %w", a.ID, err)
		}

		e.rec.AlertTriggered(string(a.Condition))
		e.log.Info("alert triggered",
			logger.String("coin", a.CoinID),
			logger.String("condition", string(a.Condition)),
			logger.String("detail", msg))
		triggered = append(triggered, Result{Alert: a, Message: msg})
	}
	return triggered, nil
}
