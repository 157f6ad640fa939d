package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackendRoundtrip(t *testing.T) {
	b := NewMemoryBackend()

	require.NoError(t, b.Write("a", []byte("one")))

	v, ok, err := b.Read("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("one"), v)

	_, ok, err = b.Read("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryBackendQuota(t *testing.T) {
	b := NewMemoryBackend(WithQuota(10))

	require.NoError(t, b.Write("a", []byte("12345678"))) // 1 + 8 = 9 bytes

	err := b.Write("b", []byte("x"))
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// Overwriting an existing key counts the replaced bytes, not both.
	require.NoError(t, b.Write("a", []byte("123456789")))
	assert.Equal(t, 10, b.Used())

	require.NoError(t, b.Delete("a"))
	assert.Equal(t, 0, b.Used())
	require.NoError(t, b.Write("b", []byte("x")))
}

func TestMemoryBackendKeysPrefix(t *testing.T) {
	b := NewMemoryBackend()
	require.NoError(t, b.Write("app_watchlist", []byte("[]")))
	require.NoError(t, b.Write("app_alerts", []byte("[]")))
	require.NoError(t, b.Write("other", []byte("{}")))

	keys, err := b.Keys("app_")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"app_watchlist", "app_alerts"}, keys)
}

func TestMemoryBackendDeleteAbsent(t *testing.T) {
	b := NewMemoryBackend()
	assert.NoError(t, b.Delete("nothing"))
}
