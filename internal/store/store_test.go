package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kundanmehta01/CryptoHub/pkg/storage"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

type testValue struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func newTestStore(t *testing.T) (*Store, *storage.MemoryBackend, *fakeClock) {
	t.Helper()
	backend := storage.NewMemoryBackend()
	clock := newFakeClock()
	return New(backend, WithClock(clock.Now)), backend, clock
}

func TestSetGetRoundtrip(t *testing.T) {
	s, _, _ := newTestStore(t)

	in := testValue{Name: "bitcoin", Price: 52000.5}
	require.NoError(t, s.Set(KeyWatchlist, in, 0))

	var out testValue
	require.NoError(t, s.Get(KeyWatchlist, &out))
	assert.Equal(t, in, out)
}

func TestGetMissing(t *testing.T) {
	s, _, _ := newTestStore(t)

	var out testValue
	assert.ErrorIs(t, s.Get("nothing", &out), ErrNotFound)
}

func TestTTLExpiry(t *testing.T) {
	s, backend, clock := newTestStore(t)

	require.NoError(t, s.Set("session", testValue{Name: "x"}, time.Second))

	clock.Advance(999 * time.Millisecond)
	var out testValue
	require.NoError(t, s.Get("session", &out))
	assert.Equal(t, "x", out.Name)

	clock.Advance(2 * time.Millisecond) // now 1001ms past write
	assert.ErrorIs(t, s.Get("session", &out), ErrNotFound)

	// The expired record was purged, not just hidden.
	_, ok, err := backend.Read(DefaultNamespace + "session")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSchemaVersionMismatchPurges(t *testing.T) {
	s, backend, clock := newTestStore(t)

	stale := envelope{
		Value:     json.RawMessage(`{"name":"old"}`),
		Version:   "0.9.0",
		Timestamp: clock.Now().UnixMilli(),
	}
	data, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, backend.Write(DefaultNamespace+"legacy", data))

	var out testValue
	assert.ErrorIs(t, s.Get("legacy", &out), ErrNotFound)

	_, ok, err := backend.Read(DefaultNamespace + "legacy")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCorruptEnvelopePurges(t *testing.T) {
	s, backend, _ := newTestStore(t)

	require.NoError(t, backend.Write(DefaultNamespace+"junk", []byte("not json{")))

	var out testValue
	assert.ErrorIs(t, s.Get("junk", &out), ErrNotFound)
	assert.False(t, s.Has("junk"))
}

func TestQuotaRecoveryPurgesExpiredAndRetries(t *testing.T) {
	backend := storage.NewMemoryBackend(storage.WithQuota(220))
	clock := newFakeClock()
	s := New(backend, WithClock(clock.Now))

	require.NoError(t, s.Set("old", testValue{Name: "doomed"}, time.Second))
	clock.Advance(2 * time.Second)

	// Enough data that the write only fits after the expired record goes.
	big := testValue{Name: "new-record-with-a-reasonably-long-name", Price: 1}
	require.NoError(t, s.Set("fresh", big, time.Minute))

	var out testValue
	require.NoError(t, s.Get("fresh", &out))
	assert.Equal(t, big.Name, out.Name)
	assert.False(t, s.Has("old"))
}

func TestQuotaRecoveryFailureLeavesPriorState(t *testing.T) {
	backend := storage.NewMemoryBackend(storage.WithQuota(200))
	clock := newFakeClock()
	s := New(backend, WithClock(clock.Now))

	require.NoError(t, s.Set("keep", testValue{Name: "survivor"}, 0))

	// Nothing is expired, so recovery cannot make room.
	err := s.Set("huge", testValue{Name: "way-too-large-for-the-remaining-quota-by-any-measure"}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrQuotaExceeded)

	var out testValue
	require.NoError(t, s.Get("keep", &out))
	assert.Equal(t, "survivor", out.Name)
	assert.False(t, s.Has("huge"))
}

func TestSubscribeNotifiesOnSetAndRemove(t *testing.T) {
	s, _, _ := newTestStore(t)

	var got []json.RawMessage
	unsub := s.Subscribe("watched", func(v json.RawMessage) {
		got = append(got, v)
	})

	require.NoError(t, s.Set("watched", 42, 0))
	require.NoError(t, s.Remove("watched"))

	require.Len(t, got, 2)
	assert.JSONEq(t, "42", string(got[0]))
	assert.Nil(t, got[1])

	unsub()
	require.NoError(t, s.Set("watched", 43, 0))
	assert.Len(t, got, 2)
}

func TestPanickingListenerDoesNotAbort(t *testing.T) {
	s, _, _ := newTestStore(t)

	s.Subscribe("k", func(json.RawMessage) {
		panic("listener bug")
	})
	calls := 0
	s.Subscribe("k", func(json.RawMessage) {
		calls++
	})

	require.NoError(t, s.Set("k", "v", 0))

	assert.Equal(t, 1, calls)
	var out string
	require.NoError(t, s.Get("k", &out))
	assert.Equal(t, "v", out)
}

func TestKeysSortedAndClear(t *testing.T) {
	s, _, _ := newTestStore(t)

	require.NoError(t, s.Set(KeyWatchlist, []string{"btc"}, 0))
	require.NoError(t, s.Set(KeyAlerts, []string{}, 0))
	require.NoError(t, s.Set(KeyTheme, "dark", 0))

	assert.Equal(t, []string{KeyAlerts, KeyTheme, KeyWatchlist}, s.Keys())

	require.NoError(t, s.Clear())
	assert.Empty(t, s.Keys())
}

func TestClearExpiredCountsOnlyInvalid(t *testing.T) {
	s, _, clock := newTestStore(t)

	require.NoError(t, s.Set("a", 1, time.Second))
	require.NoError(t, s.Set("b", 2, time.Hour))
	require.NoError(t, s.Set("c", 3, 0))

	clock.Advance(2 * time.Second)
	assert.Equal(t, 1, s.ClearExpired())
	assert.Equal(t, []string{"b", "c"}, s.Keys())
}

func TestNamespaceIsolation(t *testing.T) {
	backend := storage.NewMemoryBackend()
	a := New(backend, WithNamespace("a_"))
	b := New(backend, WithNamespace("b_"))

	require.NoError(t, a.Set("k", "from-a", 0))
	require.NoError(t, b.Set("k", "from-b", 0))

	require.NoError(t, a.Clear())

	var out string
	assert.ErrorIs(t, a.Get("k", &out), ErrNotFound)
	require.NoError(t, b.Get("k", &out))
	assert.Equal(t, "from-b", out)
}
