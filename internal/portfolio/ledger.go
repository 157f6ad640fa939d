// Package portfolio maintains the transaction log and its derived holdings
// projection, with weighted cost-basis accounting.
//
// Appends update holdings incrementally; removing an arbitrary historical
// transaction always replays the remaining log from empty state, because a
// weighted average cannot be unwound in place. The log and the projection
// are two sequential stores with no cross-key transaction: if the second
// write fails, Rebuild is the recovery path.
package portfolio

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kundanmehta01/CryptoHub/internal/store"
	"github.com/kundanmehta01/CryptoHub/pkg/logger"
)

// Ledger owns the persisted transaction log and holdings projection.
type Ledger struct {
	store *store.Store
	log   *logger.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger attaches a logger.
func WithLogger(log *logger.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

// NewLedger creates a Ledger over st.
func NewLedger(st *store.Store, opts ...Option) *Ledger {
	l := &Ledger{store: st, log: logger.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Transactions returns the full log, oldest first.
func (l *Ledger) Transactions() ([]Transaction, error) {
	var txs []Transaction
	if err := l.store.Get(store.KeyTransactions, &txs); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return txs, nil
}

// AddTransaction appends tx to the log and applies it incrementally to the
// holdings projection.
func (l *Ledger) AddTransaction(tx Transaction) error {
	txs, err := l.Transactions()
	if err != nil {
		return err
	}
	txs = append(txs, tx)
	if err := l.store.Set(store.KeyTransactions, txs, 0); err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}

	holdings, err := l.holdingsMap()
	if err != nil {
		return err
	}
	applyTransaction(holdings, tx)
	if err := l.saveHoldings(holdings); err != nil {
		return err
	}

	l.log.Info("transaction recorded",
		logger.String("coin", tx.CoinID),
		logger.String("type", string(tx.Type)),
		logger.String("amount", tx.Amount.String()))
	return nil
}

// RemoveTransaction deletes the transaction with the given id and rebuilds
// the holdings projection by replaying the remaining log from empty state.
func (l *Ledger) RemoveTransaction(id string) error {
	txs, err := l.Transactions()
	if err != nil {
		return err
	}

	kept := txs[:0]
	found := false
	for _, tx := range txs {
		if tx.ID == id {
			found = true
			continue
		}
		kept = append(kept, tx)
	}
	if !found {
		return ErrTxNotFound
	}

	if err := l.store.Set(store.KeyTransactions, kept, 0); err != nil {
		return fmt.Errorf("rewrite transactions: %w", err)
	}
	return l.Rebuild()
}

// Rebuild rederives the holdings projection from the whole log. It is also
// the caller's recovery path after a partial write.
func (l *Ledger) Rebuild() error {
	txs, err := l.Transactions()
	if err != nil {
		return err
	}
	holdings := make(map[string]Holding)
	for _, tx := range txs {
		applyTransaction(holdings, tx)
	}
	return l.saveHoldings(holdings)
}

// Holdings returns the current projection sorted by coin id.
func (l *Ledger) Holdings() ([]Holding, error) {
	m, err := l.holdingsMap()
	if err != nil {
		return nil, err
	}
	out := make([]Holding, 0, len(m))
	for _, h := range m {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CoinID < out[j].CoinID })
	return out, nil
}

func (l *Ledger) holdingsMap() (map[string]Holding, error) {
	holdings := make(map[string]Holding)
	if err := l.store.Get(store.KeyPortfolio, &holdings); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return holdings, nil
		}
		return nil, fmt.Errorf("load holdings: %w", err)
	}
	return holdings, nil
}

func (l *Ledger) saveHoldings(holdings map[string]Holding) error {
	if err := l.store.Set(store.KeyPortfolio, holdings, 0); err != nil {
		return fmt.Errorf("save holdings: %w", err)
	}
	return nil
}

// applyTransaction folds one fill into the projection. Buys move the
// weighted average; sells only reduce the amount, and a position driven to
// zero (or below) is deleted rather than retained.
func applyTransaction(holdings map[string]Holding, tx Transaction) {
	h, ok := holdings[tx.CoinID]

	switch tx.Type {
	case Buy:
		if !ok {
			holdings[tx.CoinID] = Holding{
				CoinID:       tx.CoinID,
				Amount:       tx.Amount,
				AveragePrice: tx.Price,
				UpdatedAt:    tx.CreatedAt,
			}
			return
		}
		newAmount := h.Amount.Add(tx.Amount)
		oldCost := h.AveragePrice.Mul(h.Amount)
		fillCost := tx.Price.Mul(tx.Amount)
		h.AveragePrice = oldCost.Add(fillCost).Div(newAmount)
		h.Amount = newAmount
		h.UpdatedAt = tx.CreatedAt
		holdings[tx.CoinID] = h

	case Sell:
		if !ok {
			return
		}
		h.Amount = h.Amount.Sub(tx.Amount)
		if h.Amount.LessThanOrEqual(decimal.Zero) {
			delete(holdings, tx.CoinID)
			return
		}
		h.UpdatedAt = tx.CreatedAt
		holdings[tx.CoinID] = h
	}
}
