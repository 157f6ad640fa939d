package portfolio

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kundanmehta01/CryptoHub/internal/store"
	"github.com/kundanmehta01/CryptoHub/pkg/storage"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	st := store.New(storage.NewMemoryBackend())
	return NewLedger(st)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustTx(t *testing.T, l *Ledger, coin string, typ TransactionType, price, amount string) Transaction {
	t.Helper()
	tx, err := NewTransaction(coin, coin, typ, dec(price), dec(amount), time.Now())
	require.NoError(t, err)
	require.NoError(t, l.AddTransaction(tx))
	return tx
}

func TestBuyAveragePriceWeighted(t *testing.T) {
	l := newTestLedger(t)

	mustTx(t, l, "bitcoin", Buy, "10000", "1.0")
	mustTx(t, l, "bitcoin", Buy, "20000", "1.0")

	holdings, err := l.Holdings()
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.True(t, holdings[0].Amount.Equal(dec("2.0")), "amount %s", holdings[0].Amount)
	assert.True(t, holdings[0].AveragePrice.Equal(dec("15000")), "avg %s", holdings[0].AveragePrice)
}

func TestSellLeavesAveragePriceUnchanged(t *testing.T) {
	l := newTestLedger(t)

	mustTx(t, l, "bitcoin", Buy, "10000", "1.0")
	mustTx(t, l, "bitcoin", Buy, "20000", "1.0")
	mustTx(t, l, "bitcoin", Sell, "99999", "0.5")

	holdings, err := l.Holdings()
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.True(t, holdings[0].Amount.Equal(dec("1.5")))
	assert.True(t, holdings[0].AveragePrice.Equal(dec("15000")))
}

func TestAveragePriceIndependentOfFillOrder(t *testing.T) {
	fills := [][2]string{{"100", "2"}, {"250", "1"}, {"40", "5"}, {"180", "0.5"}}

	a := newTestLedger(t)
	for _, f := range fills {
		mustTx(t, a, "ethereum", Buy, f[0], f[1])
	}
	b := newTestLedger(t)
	for i := len(fills) - 1; i >= 0; i-- {
		mustTx(t, b, "ethereum", Buy, fills[i][0], fills[i][1])
	}

	ha, err := a.Holdings()
	require.NoError(t, err)
	hb, err := b.Holdings()
	require.NoError(t, err)

	// Weighted mean of all buys: (200 + 250 + 200 + 90) / 8.5
	want := dec("740").Div(dec("8.5"))
	assert.True(t, ha[0].AveragePrice.Sub(want).Abs().LessThan(dec("0.0000001")))
	assert.True(t, ha[0].AveragePrice.Equal(hb[0].AveragePrice))
}

func TestSellExhaustingPositionRemovesHolding(t *testing.T) {
	l := newTestLedger(t)

	mustTx(t, l, "solana", Buy, "150", "4")
	mustTx(t, l, "solana", Sell, "170", "4")

	holdings, err := l.Holdings()
	require.NoError(t, err)
	assert.Empty(t, holdings)
}

func TestSellWithoutPositionIsNoop(t *testing.T) {
	l := newTestLedger(t)

	mustTx(t, l, "solana", Sell, "170", "4")

	holdings, err := l.Holdings()
	require.NoError(t, err)
	assert.Empty(t, holdings)
}

func TestRemoveTransactionRebuildsFromRemainingLog(t *testing.T) {
	l := newTestLedger(t)

	mustTx(t, l, "bitcoin", Buy, "10000", "1")
	middle := mustTx(t, l, "bitcoin", Buy, "30000", "1")
	mustTx(t, l, "bitcoin", Sell, "25000", "0.5")
	mustTx(t, l, "ethereum", Buy, "2000", "3")

	require.NoError(t, l.RemoveTransaction(middle.ID))

	// Replay the same remaining fills on a fresh ledger.
	ref := newTestLedger(t)
	mustTx(t, ref, "bitcoin", Buy, "10000", "1")
	mustTx(t, ref, "bitcoin", Sell, "25000", "0.5")
	mustTx(t, ref, "ethereum", Buy, "2000", "3")

	got, err := l.Holdings()
	require.NoError(t, err)
	want, err := ref.Holdings()
	require.NoError(t, err)

	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].CoinID, got[i].CoinID)
		assert.True(t, want[i].Amount.Equal(got[i].Amount))
		assert.True(t, want[i].AveragePrice.Equal(got[i].AveragePrice))
	}
}

func TestRemoveTransactionUnknownID(t *testing.T) {
	l := newTestLedger(t)
	mustTx(t, l, "bitcoin", Buy, "10000", "1")
	assert.ErrorIs(t, l.RemoveTransaction("no-such-id"), ErrTxNotFound)
}

func TestTransactionValidation(t *testing.T) {
	now := time.Now()

	_, err := NewTransaction("btc", "BTC", Buy, dec("1"), dec("0"), now)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = NewTransaction("btc", "BTC", Sell, dec("-1"), dec("1"), now)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewTransaction("btc", "BTC", "short", dec("1"), dec("1"), now)
	assert.ErrorIs(t, err, ErrInvalidTxType)
}

func TestTransactionsPersistAcrossLedgerInstances(t *testing.T) {
	backend := storage.NewMemoryBackend()
	st := store.New(backend)

	l := NewLedger(st)
	mustTx(t, l, "bitcoin", Buy, "10000", "1")

	again := NewLedger(store.New(backend))
	txs, err := again.Transactions()
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "bitcoin", txs[0].CoinID)
}
