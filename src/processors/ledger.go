package processors

import (
	"github.com/shopspring/decimal"
	"github.com/username/zeitan/backend/src/models"
)

// Ledger is the running cost-basis state of one symbol during a single
// calculation run. It must be fed the symbol's records in chronological order.
type Ledger struct {
	Symbol string

	heldQuantity decimal.Decimal
	averageCost  decimal.Decimal
	hasCostBasis bool
	wentNegative bool
}

// Disposal is the outcome of Ledger.Dispose.
type Disposal struct {
	ProfitLoss         decimal.Decimal
	CostBasis          decimal.Decimal // per-unit cost applied; zero when no basis existed
	HeldQuantityBefore decimal.Decimal
	HadCostBasis       bool
	Oversold           bool
}

func NewLedger(symbol string) *Ledger {
	return &Ledger{Symbol: symbol}
}

// HeldQuantity may be negative after an oversell.
func (l *Ledger) HeldQuantity() decimal.Decimal {
	return l.heldQuantity
}

// AverageCost is null until the first acquisition.
func (l *Ledger) AverageCost() decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: l.averageCost, Valid: l.hasCostBasis}
}

// Acquire adds amount units bought at price and returns the new average cost:
//
//	(held * average + amount*price + fee) / (held + amount)
//
// The fee is part of the acquisition cost. A non-positive held quantity
// (nothing held, or an earlier oversell) carries no cost into the new average,
// so the result is (amount*price + fee) / amount. Non-positive amounts are ignored.
func (l *Ledger) Acquire(amount, price, fee decimal.Decimal) decimal.Decimal {
	if amount.Sign() <= 0 {
		return l.averageCost
	}

	carriedQuantity := decimal.Zero
	carriedCost := decimal.Zero
	if l.hasCostBasis && l.heldQuantity.Sign() > 0 {
		carriedQuantity = l.heldQuantity
		carriedCost = l.heldQuantity.Mul(l.averageCost)
	}

	purchaseCost := amount.Mul(price).Add(fee)
	l.averageCost = carriedCost.Add(purchaseCost).Div(carriedQuantity.Add(amount))
	l.heldQuantity = l.heldQuantity.Add(amount)
	l.hasCostBasis = true
	return l.averageCost
}

// Dispose removes amount units sold at price and realizes
//
//	(price - average) * amount - fee
//
// The average cost is left unchanged. Selling more than is held is allowed:
// the quantity goes negative and the disposal is flagged as oversold. Without
// any cost basis the per-unit cost is taken as zero.
func (l *Ledger) Dispose(amount, price, fee decimal.Decimal) Disposal {
	d := Disposal{
		HeldQuantityBefore: l.heldQuantity,
		HadCostBasis:       l.hasCostBasis,
		Oversold:           amount.GreaterThan(l.heldQuantity),
	}
	if l.hasCostBasis {
		d.CostBasis = l.averageCost
	}

	d.ProfitLoss = price.Sub(d.CostBasis).Mul(amount).Sub(fee)

	l.heldQuantity = l.heldQuantity.Sub(amount)
	if l.heldQuantity.IsNegative() {
		l.wentNegative = true
	}
	return d
}

// Snapshot returns the end-of-run state as a Holding.
func (l *Ledger) Snapshot() models.Holding {
	return models.Holding{
		Symbol:      l.Symbol,
		Quantity:    l.heldQuantity,
		AverageCost: l.AverageCost(),
		Suspect:     l.wentNegative,
	}
}
