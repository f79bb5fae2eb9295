// src/processors/moving_average_processor.go
package processors

import (
	"github.com/shopspring/decimal"
	"github.com/username/zeitan/backend/src/models"
)

type movingAverageProcessor struct{}

func NewMovingAverageProcessor() CostBasisProcessor {
	return &movingAverageProcessor{}
}

func (p *movingAverageProcessor) Method() models.CalculationMethod {
	return models.MethodMovingAverage
}

// Process recomputes the average cost on every acquisition and realizes
// each disposal against the average in effect at that moment.
//
// Records are folded per symbol in chronological order (ties keep input
// order) while results are written back at their input positions.
func (p *movingAverageProcessor) Process(transactions []models.CanonicalTransaction) EngineRun {
	results := make([]models.TradeResult, len(transactions))
	symbols, groups := chronologicalOrder(transactions)

	var warnings []models.DataQualityWarning
	holdings := make([]models.Holding, 0, len(symbols))

	for _, symbol := range symbols {
		ledger := NewLedger(symbol)

		for _, idx := range groups[symbol] {
			tx := transactions[idx]
			result := models.TradeResult{CanonicalTransaction: tx, ProfitLoss: decimal.Zero}

			switch tx.Type {
			case models.TransactionTypeBuy:
				ledger.Acquire(tx.Amount, tx.Price, tx.Fee)
			case models.TransactionTypeSell:
				disposal := ledger.Dispose(tx.Amount, tx.Price, tx.Fee)
				result.ProfitLoss = disposal.ProfitLoss
				result.AverageCostUsed = decimal.NullDecimal{Decimal: disposal.CostBasis, Valid: true}
				result.Oversold = disposal.Oversold
				warnings = append(warnings, disposalWarnings(idx, tx, disposal.HeldQuantityBefore, disposal.HadCostBasis, disposal.Oversold)...)
			}

			result.AverageCostAfter = ledger.AverageCost()
			result.HeldQuantityAfter = ledger.HeldQuantity()
			results[idx] = result
		}

		holdings = append(holdings, ledger.Snapshot())
	}

	return EngineRun{results: results, holdings: holdings, warnings: warnings}
}
