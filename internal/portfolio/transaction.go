package portfolio

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the side of a fill.
type TransactionType string

const (
	Buy  TransactionType = "buy"
	Sell TransactionType = "sell"
)

var (
	ErrInvalidAmount   = errors.New("portfolio: amount must be positive")
	ErrInvalidPrice    = errors.New("portfolio: price must not be negative")
	ErrInvalidTxType   = errors.New("portfolio: unknown transaction type")
	ErrTxNotFound      = errors.New("portfolio: transaction not found")
)

// Transaction is one immutable entry of the append-only log.
type Transaction struct {
	ID        string          `json:"id"`
	CoinID    string          `json:"coinId"`
	Symbol    string          `json:"symbol"`
	Type      TransactionType `json:"type"`
	Price     decimal.Decimal `json:"price"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewTransaction validates the fill and assigns it an ID.
func NewTransaction(coinID, symbol string, typ TransactionType, price, amount decimal.Decimal, at time.Time) (Transaction, error) {
	if typ != Buy && typ != Sell {
		return Transaction{}, ErrInvalidTxType
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return Transaction{}, ErrInvalidAmount
	}
	if price.IsNegative() {
		return Transaction{}, ErrInvalidPrice
	}
	return Transaction{
		ID:        uuid.NewString(),
		CoinID:    coinID,
		Symbol:    symbol,
		Type:      typ,
		Price:     price,
		Amount:    amount,
		CreatedAt: at,
	}, nil
}

// Holding is the derived position for one coin. It exists only while the
// amount is positive; averagePrice is the quantity-weighted mean of buy
// fills and is never altered by sells.
type Holding struct {
	CoinID       string          `json:"coinId"`
	Amount       decimal.Decimal `json:"amount"`
	AveragePrice decimal.Decimal `json:"averagePrice"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
