package feed

import (
	"strings"
	"sync"

	"github.com/kundanmehta01/CryptoHub/internal/alert"
)

// Tracker folds the ticker stream into the latest per-coin snapshot.
// Safe for concurrent use.
type Tracker struct {
	mu      sync.RWMutex
	coinIDs map[string]string
	latest  map[string]alert.Snapshot
}

// NewTracker creates a Tracker. coinIDs maps a stream symbol (upper case,
// e.g. "BTCUSDT") to a coin id; symbols without a mapping fall back to the
// lower-cased symbol with a trailing quote currency stripped.
func NewTracker(coinIDs map[string]string) *Tracker {
	return &Tracker{
		coinIDs: coinIDs,
		latest:  make(map[string]alert.Snapshot),
	}
}

// Observe records a ticker as the coin's latest snapshot.
func (t *Tracker) Observe(tick Ticker) {
	var changePct *float64
	if tick.Open > 0 {
		pct := (tick.Price - tick.Open) / tick.Open * 100
		changePct = &pct
	}
	snap := alert.Snapshot{
		Price:          tick.Price,
		Volume:         tick.Volume,
		PriceChangePct: changePct,
	}

	t.mu.Lock()
	t.latest[t.coinID(tick.Symbol)] = snap
	t.mu.Unlock()
}

// Snapshots returns a copy of the latest per-coin snapshots.
func (t *Tracker) Snapshots() map[string]alert.Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]alert.Snapshot, len(t.latest))
	for k, v := range t.latest {
		out[k] = v
	}
	return out
}

func (t *Tracker) coinID(symbol string) string {
	if id, ok := t.coinIDs[strings.ToUpper(symbol)]; ok {
		return id
	}
	s := strings.ToLower(symbol)
	for _, quote := range []string{"usdt", "usdc", "busd"} {
		if trimmed, ok := strings.CutSuffix(s, quote); ok && trimmed != "" {
			return trimmed
		}
	}
	return s
}
