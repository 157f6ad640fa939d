package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTicker(t *testing.T) {
	m := miniTicker{
		Event:  "24hrMiniTicker",
		Time:   1717243200000,
		Symbol: "BTCUSDT",
		Close:  "65000.50",
		Open:   "63000.00",
		Volume: "12345.6",
	}
	tick, ok := decodeTicker(m)
	require.True(t, ok)
	assert.Equal(t, "BTCUSDT", tick.Symbol)
	assert.Equal(t, 65000.50, tick.Price)
	assert.Equal(t, 63000.00, tick.Open)
	assert.Equal(t, 12345.6, tick.Volume)
}

func TestDecodeTickerBadNumbers(t *testing.T) {
	_, ok := decodeTicker(miniTicker{Close: "nope", Open: "1", Volume: "1"})
	assert.False(t, ok)
	_, ok = decodeTicker(miniTicker{Close: "1", Open: "", Volume: "1"})
	assert.False(t, ok)
}

func TestTrackerObserve(t *testing.T) {
	tr := NewTracker(map[string]string{"BTCUSDT": "bitcoin"})

	tr.Observe(Ticker{Symbol: "BTCUSDT", Price: 66000, Open: 60000, Volume: 100})
	tr.Observe(Ticker{Symbol: "ETHUSDT", Price: 2500, Open: 2500, Volume: 50})

	snaps := tr.Snapshots()
	require.Len(t, snaps, 2)

	btc := snaps["bitcoin"]
	assert.Equal(t, 66000.0, btc.Price)
	require.NotNil(t, btc.PriceChangePct)
	assert.InDelta(t, 10.0, *btc.PriceChangePct, 1e-9)

	// Unmapped symbols fall back to the stripped quote currency.
	eth, ok := snaps["eth"]
	require.True(t, ok)
	assert.Equal(t, 2500.0, eth.Price)
}

func TestTrackerLatestWins(t *testing.T) {
	tr := NewTracker(nil)
	tr.Observe(Ticker{Symbol: "BTCUSDT", Price: 100, Open: 100})
	tr.Observe(Ticker{Symbol: "BTCUSDT", Price: 200, Open: 100})

	snaps := tr.Snapshots()
	assert.Equal(t, 200.0, snaps["btc"].Price)
}

func TestTrackerNoOpenPrice(t *testing.T) {
	tr := NewTracker(nil)
	tr.Observe(Ticker{Symbol: "BTCUSDT", Price: 100, Open: 0})

	snap := tr.Snapshots()["btc"]
	assert.Nil(t, snap.PriceChangePct)
}

func TestSnapshotsReturnsCopy(t *testing.T) {
	tr := NewTracker(nil)
	tr.Observe(Ticker{Symbol: "BTCUSDT", Price: 100, Open: 100})

	snaps := tr.Snapshots()
	delete(snaps, "btc")
	fresh := tr.Snapshots()
	assert.Equal(t, 100.0, fresh["btc"].Price)
}
