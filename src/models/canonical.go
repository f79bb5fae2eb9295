// src/models/canonical.go
package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the side of a trade. Only buys and sells take part in
// profit/loss math; anything else is rejected by the engine.
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "buy"
	TransactionTypeSell TransactionType = "sell"
)

// ParseTransactionType normalizes a side string ("BUY", "Sell", " buy ") into a
// TransactionType. The second return value is false for unsupported sides.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(s))) {
	case TransactionTypeBuy:
		return TransactionTypeBuy, true
	case TransactionTypeSell:
		return TransactionTypeSell, true
	default:
		return TransactionType(strings.ToLower(strings.TrimSpace(s))), false
	}
}

// UnmarshalJSON accepts any casing; the value is stored lowercase. Unknown
// sides are kept as-is so that validation can report them with their index.
func (t *TransactionType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t, _ = ParseTransactionType(raw)
	return nil
}

// CanonicalTransaction is the exchange-agnostic representation of one trade.
// Every parser produces these and the cost-basis engine consumes them.
type CanonicalTransaction struct {
	Timestamp time.Time       `json:"timestamp"`
	Exchange  string          `json:"exchange"` // informational only
	Symbol    string          `json:"symbol"`   // accounting is scoped per symbol, e.g. BTC/JPY
	Type      TransactionType `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Price     decimal.Decimal `json:"price"` // unit price in the settlement currency
	Fee       decimal.Decimal `json:"fee"`   // same currency as Price
}
