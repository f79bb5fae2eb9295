package processors

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/username/zeitan/backend/src/models"
)

// summarize totals a run. All sums are decimal so totals over thousands of
// records stay exact.
func summarize(method models.CalculationMethod, run EngineRun) models.CalculationSummary {
	total := decimal.Zero
	bySymbol := make(map[string]decimal.Decimal)
	byYear := make(map[int]decimal.Decimal)

	for _, r := range run.results {
		total = total.Add(r.ProfitLoss)

		if sum, ok := bySymbol[r.Symbol]; ok {
			bySymbol[r.Symbol] = sum.Add(r.ProfitLoss)
		} else {
			bySymbol[r.Symbol] = r.ProfitLoss
		}

		year := r.Timestamp.Year()
		if sum, ok := byYear[year]; ok {
			byYear[year] = sum.Add(r.ProfitLoss)
		} else {
			byYear[year] = r.ProfitLoss
		}
	}

	holdings := append([]models.Holding(nil), run.holdings...)
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].Symbol < holdings[j].Symbol })

	warnings := append([]models.DataQualityWarning{}, run.warnings...)
	sort.SliceStable(warnings, func(i, j int) bool { return warnings[i].Index < warnings[j].Index })

	return models.CalculationSummary{
		Method:             method,
		TotalProfitLoss:    total,
		TransactionCount:   len(run.results),
		ProfitLossBySymbol: bySymbol,
		ProfitLossByYear:   byYear,
		Holdings:           holdings,
		Warnings:           warnings,
	}
}
