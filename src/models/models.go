package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CalculationMethod selects which cost-basis engine runs.
type CalculationMethod string

const (
	MethodMovingAverage CalculationMethod = "moving_average" // 移動平均法
	MethodTotalAverage  CalculationMethod = "total_average"  // 総平均法
)

// ParseCalculationMethod maps a request value to a method. An empty value
// selects the moving-average method.
func ParseCalculationMethod(s string) (CalculationMethod, error) {
	switch CalculationMethod(strings.ToLower(strings.TrimSpace(s))) {
	case "", MethodMovingAverage:
		return MethodMovingAverage, nil
	case MethodTotalAverage:
		return MethodTotalAverage, nil
	default:
		return "", fmt.Errorf("unknown calculation method %q", s)
	}
}

// JapaneseLabel is the statutory name of the method, used in reports.
func (m CalculationMethod) JapaneseLabel() string {
	if m == MethodTotalAverage {
		return "総平均法"
	}
	return "移動平均法"
}

// Label is the English name of the method.
func (m CalculationMethod) Label() string {
	if m == MethodTotalAverage {
		return "Total average"
	}
	return "Moving average"
}

// TradeResult is produced once per input transaction, in input order.
type TradeResult struct {
	CanonicalTransaction

	ProfitLoss decimal.Decimal `json:"profit_loss"` // always zero for buys

	// AverageCostUsed is the cost basis applied to a disposal; null for buys.
	AverageCostUsed decimal.NullDecimal `json:"average_cost_used"`
	// AverageCostAfter is null until the symbol has a cost basis.
	AverageCostAfter decimal.NullDecimal `json:"average_cost_after"`

	HeldQuantityAfter decimal.Decimal `json:"held_quantity_after"`
	Oversold          bool            `json:"oversold"`
}

// Warning kinds reported in CalculationSummary.Warnings.
const (
	WarningOversell    = "oversell"
	WarningNoCostBasis = "no_cost_basis"
)

// DataQualityWarning flags a suspect record. It never aborts a calculation.
type DataQualityWarning struct {
	Index              int             `json:"index"`
	Symbol             string          `json:"symbol"`
	Timestamp          time.Time       `json:"timestamp"`
	Kind               string          `json:"kind"`
	HeldQuantityBefore decimal.Decimal `json:"held_quantity_before"`
	Amount             decimal.Decimal `json:"amount"`
	Message            string          `json:"message"`
}

// Holding is the end-of-run ledger state of one symbol.
type Holding struct {
	Symbol      string              `json:"symbol"`
	Quantity    decimal.Decimal     `json:"quantity"`
	AverageCost decimal.NullDecimal `json:"average_cost"`
	Suspect     bool                `json:"suspect"` // quantity went negative at some point
}

// CalculationSummary aggregates a run.
type CalculationSummary struct {
	Method             CalculationMethod          `json:"method"`
	TotalProfitLoss    decimal.Decimal            `json:"total_profit_loss"`
	TransactionCount   int                        `json:"transaction_count"`
	ProfitLossBySymbol map[string]decimal.Decimal `json:"profit_loss_by_symbol"`
	ProfitLossByYear   map[int]decimal.Decimal    `json:"profit_loss_by_year"`
	Holdings           []Holding                  `json:"holdings"`
	Warnings           []DataQualityWarning       `json:"warnings"`
}
