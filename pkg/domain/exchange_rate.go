package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is the price of one unit of FromCurrency in ToCurrency.
type ExchangeRate struct {
	FromCurrency string          `json:"from"`
	ToCurrency   string          `json:"to"`
	Rate         decimal.Decimal `json:"rate"`
	Source       string          `json:"source"`
	LastUpdated  time.Time       `json:"last_updated"`
}
