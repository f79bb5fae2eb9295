package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalcSession is a persisted calculation run.
type CalcSession struct {
	ID               int64             `json:"id"`
	CreatedAt        time.Time         `json:"created_at"`
	CalcMethod       CalculationMethod `json:"calc_method"`
	TotalProfitLoss  decimal.Decimal   `json:"total_profit_loss"`
	TransactionCount int               `json:"transaction_count"`
	Note             *string           `json:"note"`
}

// SessionDetail is a session together with its full input and output.
type SessionDetail struct {
	CalcSession
	Transactions []CanonicalTransaction `json:"transactions"`
	Results      []TradeResult          `json:"results"`
}

// ExchangeInfo describes a supported export format.
type ExchangeInfo struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"` // domestic or international
}
