package portfolio

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/kundanmehta01/CryptoHub/pkg/indicator"
)

// HoldingSummary joins one holding with its current market price.
type HoldingSummary struct {
	Holding
	CurrentPrice  decimal.Decimal `json:"currentPrice"`
	Value         decimal.Decimal `json:"value"`
	Cost          decimal.Decimal `json:"cost"`
	ProfitLoss    decimal.Decimal `json:"profitLoss"`
	ProfitLossPct decimal.Decimal `json:"profitLossPct"`
}

// Summary aggregates the whole portfolio against a price snapshot.
type Summary struct {
	Holdings        []HoldingSummary          `json:"holdings"`
	TotalValue      decimal.Decimal           `json:"totalValue"`
	TotalCost       decimal.Decimal           `json:"totalCost"`
	TotalProfitLoss decimal.Decimal           `json:"totalProfitLoss"`
	ChangePct       decimal.Decimal           `json:"changePct"`
	Diversification indicator.Diversification `json:"diversification"`
	DisplayValue    string                    `json:"displayValue"`
}

var hundred = decimal.NewFromInt(100)

// Summary joins holdings with the caller-supplied current prices. A coin
// missing from the price map values at zero. The aggregate change
// percentage is zero when total cost is zero.
func (l *Ledger) Summary(prices map[string]decimal.Decimal, currency string) (Summary, error) {
	holdings, err := l.Holdings()
	if err != nil {
		return Summary{}, err
	}

	s := Summary{Holdings: make([]HoldingSummary, 0, len(holdings))}
	allocations := make([]float64, 0, len(holdings))

	for _, h := range holdings {
		price := prices[h.CoinID]
		value := h.Amount.Mul(price)
		cost := h.Amount.Mul(h.AveragePrice)
		pl := value.Sub(cost)

		plPct := decimal.Zero
		if cost.IsPositive() {
			plPct = pl.Div(cost).Mul(hundred)
		}

		s.Holdings = append(s.Holdings, HoldingSummary{
			Holding:       h,
			CurrentPrice:  price,
			Value:         value,
			Cost:          cost,
			ProfitLoss:    pl,
			ProfitLossPct: plPct,
		})
		s.TotalValue = s.TotalValue.Add(value)
		s.TotalCost = s.TotalCost.Add(cost)
		allocations = append(allocations, value.InexactFloat64())
	}

	s.TotalProfitLoss = s.TotalValue.Sub(s.TotalCost)
	if s.TotalCost.IsPositive() {
		s.ChangePct = s.TotalProfitLoss.Div(s.TotalCost).Mul(hundred)
	}
	s.Diversification = indicator.DiversificationScore(allocations)
	s.DisplayValue = formatMoney(s.TotalValue, currency)
	return s, nil
}

// formatMoney renders an amount in the user's preferred currency.
func formatMoney(amount decimal.Decimal, currency string) string {
	code := strings.ToUpper(currency)
	if code == "" {
		code = money.USD
	}
	fraction := 2
	if cur := money.GetCurrency(code); cur != nil {
		fraction = cur.Fraction
	}
	minor := amount.Shift(int32(fraction)).Round(0).IntPart()
	return money.New(minor, code).Display()
}
