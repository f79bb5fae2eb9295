// src/processors/total_average_processor.go
package processors

import (
	"github.com/shopspring/decimal"
	"github.com/username/zeitan/backend/src/models"
)

// costPool accumulates every acquisition of one symbol in the batch.
type costPool struct {
	value    decimal.Decimal // Σ amount*price + fee
	quantity decimal.Decimal // Σ amount
}

func (p costPool) averageCost() decimal.NullDecimal {
	if p.quantity.Sign() <= 0 {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: p.value.Div(p.quantity), Valid: true}
}

type totalAverageProcessor struct{}

func NewTotalAverageProcessor() CostBasisProcessor {
	return &totalAverageProcessor{}
}

func (p *totalAverageProcessor) Method() models.CalculationMethod {
	return models.MethodTotalAverage
}

// Process computes one cost basis per symbol from all of the batch's buys,
// then realizes every sell against it regardless of order.
func (p *totalAverageProcessor) Process(transactions []models.CanonicalTransaction) EngineRun {
	pools := make(map[string]costPool)
	for _, tx := range transactions {
		if tx.Type != models.TransactionTypeBuy {
			continue
		}
		pool := pools[tx.Symbol]
		pool.value = pool.value.Add(tx.Amount.Mul(tx.Price).Add(tx.Fee))
		pool.quantity = pool.quantity.Add(tx.Amount)
		pools[tx.Symbol] = pool
	}

	averages := make(map[string]decimal.NullDecimal, len(pools))
	for symbol, pool := range pools {
		averages[symbol] = pool.averageCost()
	}

	results := make([]models.TradeResult, len(transactions))
	for idx, tx := range transactions {
		average := averages[tx.Symbol]
		result := models.TradeResult{
			CanonicalTransaction: tx,
			ProfitLoss:           decimal.Zero,
			AverageCostAfter:     average,
		}
		if tx.Type == models.TransactionTypeSell {
			costUsed := decimal.Zero
			if average.Valid {
				costUsed = average.Decimal
			}
			result.ProfitLoss = tx.Price.Sub(costUsed).Mul(tx.Amount).Sub(tx.Fee)
			result.AverageCostUsed = decimal.NullDecimal{Decimal: costUsed, Valid: true}
		}
		results[idx] = result
	}

	// Quantities do not affect the math here, but they are still tracked in
	// chronological order so oversells show up the same way as for the
	// moving-average method.
	symbols, groups := chronologicalOrder(transactions)
	var warnings []models.DataQualityWarning
	holdings := make([]models.Holding, 0, len(symbols))
	for _, symbol := range symbols {
		held := decimal.Zero
		wentNegative := false
		for _, idx := range groups[symbol] {
			tx := transactions[idx]
			switch tx.Type {
			case models.TransactionTypeBuy:
				held = held.Add(tx.Amount)
			case models.TransactionTypeSell:
				oversold := tx.Amount.GreaterThan(held)
				results[idx].Oversold = oversold
				warnings = append(warnings, disposalWarnings(idx, tx, held, averages[symbol].Valid, oversold)...)
				held = held.Sub(tx.Amount)
				if held.IsNegative() {
					wentNegative = true
				}
			}
			results[idx].HeldQuantityAfter = held
		}
		holdings = append(holdings, models.Holding{
			Symbol:      symbol,
			Quantity:    held,
			AverageCost: averages[symbol],
			Suspect:     wentNegative,
		})
	}

	return EngineRun{results: results, holdings: holdings, warnings: warnings}
}
