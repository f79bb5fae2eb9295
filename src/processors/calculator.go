// src/processors/calculator.go
package processors

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/username/zeitan/backend/src/models"
)

// EngineRun is what a cost-basis processor hands to the aggregator.
type EngineRun struct {
	results  []models.TradeResult // input order
	holdings []models.Holding     // first-seen symbol order
	warnings []models.DataQualityWarning
}

// Calculate runs the selected cost-basis engine over transactions and returns
// one result per transaction, in input order, plus the aggregated summary.
//
// It is pure: the same input always yields the same output, and concurrent
// calls share no state. A *ValidationError is returned for an empty batch, an
// unknown method, or a malformed record; oversells are reported in the
// summary's warnings instead.
func Calculate(transactions []models.CanonicalTransaction, method models.CalculationMethod) ([]models.TradeResult, models.CalculationSummary, error) {
	if err := validateTransactions(transactions); err != nil {
		return nil, models.CalculationSummary{}, err
	}

	processor, ok := costBasisProcessors[method]
	if !ok {
		return nil, models.CalculationSummary{}, &ValidationError{
			Index:  -1,
			Field:  "method",
			Reason: fmt.Sprintf("unsupported calculation method %q", method),
		}
	}

	run := processor.Process(transactions)
	return run.results, summarize(processor.Method(), run), nil
}

func validateTransactions(transactions []models.CanonicalTransaction) error {
	if len(transactions) == 0 {
		return &ValidationError{Index: -1, Field: "transactions", Reason: "at least one transaction is required"}
	}
	for i, tx := range transactions {
		switch {
		case tx.Type != models.TransactionTypeBuy && tx.Type != models.TransactionTypeSell:
			return &ValidationError{Index: i, Field: "type", Reason: fmt.Sprintf("unsupported transaction type %q", tx.Type)}
		case tx.Amount.Sign() <= 0:
			return &ValidationError{Index: i, Field: "amount", Reason: "must be greater than zero"}
		case tx.Price.IsNegative():
			return &ValidationError{Index: i, Field: "price", Reason: "must not be negative"}
		case tx.Fee.IsNegative():
			return &ValidationError{Index: i, Field: "fee", Reason: "must not be negative"}
		}
	}
	return nil
}

// chronologicalOrder pairs every record with its input index and groups the
// indices by symbol, each group sorted by timestamp with ties kept in input
// order. Symbols are returned in order of first appearance.
func chronologicalOrder(transactions []models.CanonicalTransaction) ([]string, map[string][]int) {
	var symbols []string
	groups := make(map[string][]int)
	for idx, tx := range transactions {
		if _, seen := groups[tx.Symbol]; !seen {
			symbols = append(symbols, tx.Symbol)
		}
		groups[tx.Symbol] = append(groups[tx.Symbol], idx)
	}

	for _, indices := range groups {
		sort.SliceStable(indices, func(i, j int) bool {
			a, b := transactions[indices[i]].Timestamp, transactions[indices[j]].Timestamp
			if a.Equal(b) {
				return indices[i] < indices[j]
			}
			return a.Before(b)
		})
	}
	return symbols, groups
}

func disposalWarnings(idx int, tx models.CanonicalTransaction, heldBefore decimal.Decimal, hadCostBasis, oversold bool) []models.DataQualityWarning {
	var warnings []models.DataQualityWarning
	if !hadCostBasis {
		warnings = append(warnings, models.DataQualityWarning{
			Index:              idx,
			Symbol:             tx.Symbol,
			Timestamp:          tx.Timestamp,
			Kind:               models.WarningNoCostBasis,
			HeldQuantityBefore: heldBefore,
			Amount:             tx.Amount,
			Message:            fmt.Sprintf("%s sold with no recorded acquisition; cost basis taken as 0", tx.Symbol),
		})
	}
	if oversold {
		warnings = append(warnings, models.DataQualityWarning{
			Index:              idx,
			Symbol:             tx.Symbol,
			Timestamp:          tx.Timestamp,
			Kind:               models.WarningOversell,
			HeldQuantityBefore: heldBefore,
			Amount:             tx.Amount,
			Message:            fmt.Sprintf("%s sell of %s exceeds held quantity %s", tx.Symbol, tx.Amount.String(), heldBefore.String()),
		})
	}
	return warnings
}
