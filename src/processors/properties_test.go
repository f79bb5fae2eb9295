package processors

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/username/zeitan/backend/src/models"
)

var propertySymbols = []string{"BTC/JPY", "ETH/JPY", "XRP/JPY"}

// randomBatch builds a mixed batch with shared timestamps, tiny and large
// amounts, and symbols that are sold before (or without) any buy.
func randomBatch(rng *rand.Rand) []models.CanonicalTransaction {
	n := 1 + rng.Intn(40)
	txs := make([]models.CanonicalTransaction, n)
	for i := range txs {
		side := models.TransactionTypeBuy
		if rng.Intn(5) < 2 {
			side = models.TransactionTypeSell
		}
		txs[i] = models.CanonicalTransaction{
			Timestamp: baseTime.Add(time.Duration(rng.Intn(10)) * time.Hour),
			Exchange:  "bitflyer",
			Symbol:    propertySymbols[rng.Intn(len(propertySymbols))],
			Type:      side,
			Amount:    decimal.New(1+rng.Int63n(100000), -3),
			Price:     decimal.New(rng.Int63n(10000000), -2),
			Fee:       decimal.New(rng.Int63n(500), -1),
		}
	}
	return txs
}

func TestCalculate_RandomBatchesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(20240101))

	for round := 0; round < 200; round++ {
		txs := randomBatch(rng)
		for _, method := range methods {
			t.Run(fmt.Sprintf("%d/%s", round, method), func(t *testing.T) {
				rq := require.New(t)
				results, summary, err := Calculate(txs, method)
				rq.NoError(err)
				rq.Len(results, len(txs))

				sum := decimal.Zero
				bySymbol := decimal.Zero
				for i, res := range results {
					in := txs[i]
					rq.True(in.Timestamp.Equal(res.Timestamp), "index %d", i)
					rq.Equal(in.Symbol, res.Symbol, "index %d", i)
					rq.Equal(in.Type, res.Type, "index %d", i)
					rq.True(in.Amount.Equal(res.Amount), "index %d", i)

					if res.Type == models.TransactionTypeBuy {
						rq.True(res.ProfitLoss.IsZero(), "buy %d has profit/loss %s", i, res.ProfitLoss)
					} else {
						rq.True(res.AverageCostUsed.Valid, "sell %d has no cost used", i)
					}
					sum = sum.Add(res.ProfitLoss)
				}
				for _, pl := range summary.ProfitLossBySymbol {
					bySymbol = bySymbol.Add(pl)
				}
				rq.True(sum.Equal(summary.TotalProfitLoss), "sum %s, total %s", sum, summary.TotalProfitLoss)
				rq.True(bySymbol.Equal(summary.TotalProfitLoss))
				rq.Equal(len(txs), summary.TransactionCount)

				oversells := map[int]bool{}
				for _, w := range summary.Warnings {
					if w.Kind == models.WarningOversell {
						oversells[w.Index] = true
					}
				}
				for i, res := range results {
					rq.Equal(res.Oversold, oversells[i], "index %d", i)
				}

				again, _, err := Calculate(txs, method)
				rq.NoError(err)
				for i := range results {
					rq.True(results[i].ProfitLoss.Equal(again[i].ProfitLoss), "index %d", i)
				}
			})
		}
	}
}

func TestCalculate_TotalAverageIsOrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 100; round++ {
		txs := randomBatch(rng)
		results, summary, err := Calculate(txs, models.MethodTotalAverage)
		require.NoError(t, err)

		perm := rng.Perm(len(txs))
		shuffled := make([]models.CanonicalTransaction, len(txs))
		for to, from := range perm {
			shuffled[to] = txs[from]
		}
		shuffledResults, shuffledSummary, err := Calculate(shuffled, models.MethodTotalAverage)
		require.NoError(t, err)

		require.True(t, summary.TotalProfitLoss.Equal(shuffledSummary.TotalProfitLoss), "round %d", round)
		for to, from := range perm {
			require.True(t, results[from].ProfitLoss.Equal(shuffledResults[to].ProfitLoss), "round %d index %d", round, from)
		}

		averages := map[string]decimal.NullDecimal{}
		for _, res := range results {
			if res.Type != models.TransactionTypeBuy {
				continue
			}
			if seen, ok := averages[res.Symbol]; ok {
				require.True(t, seen.Decimal.Equal(res.AverageCostAfter.Decimal), "round %d symbol %s", round, res.Symbol)
				continue
			}
			averages[res.Symbol] = res.AverageCostAfter
		}
	}
}
