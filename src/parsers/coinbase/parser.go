// Package coinbase reads the Coinbase transaction history export.
package coinbase

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/username/zeitan/backend/src/models"
	"github.com/username/zeitan/backend/src/parsers/csvutil"
)

const (
	colTime         = "Timestamp"
	colType         = "Transaction Type"
	colAsset        = "Asset"
	colAmount       = "Quantity Transacted"
	colSpotCurrency = "Spot Price Currency"
	colSpotPrice    = "Spot Price at Transaction"
	colFee          = "Fees and/or Spread"
)

var requiredColumns = []string{colTime, colType, colAsset, colAmount}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05 MST", "2006-01-02 15:04:05", "2006-01-02T15:04:05"}

type CoinbaseParser struct{}

func NewParser() *CoinbaseParser {
	return &CoinbaseParser{}
}

func (p *CoinbaseParser) Exchange() string { return "coinbase" }

func (p *CoinbaseParser) Detect(header []string) bool {
	return csvutil.HasColumns(header, requiredColumns...)
}

func (p *CoinbaseParser) Parse(file io.Reader) ([]models.CanonicalTransaction, error) {
	table, err := csvutil.ReadCSV(file)
	if err != nil {
		return nil, err
	}
	if !p.Detect(table.Header) {
		return nil, fmt.Errorf("not a Coinbase export: missing one of %v", requiredColumns)
	}

	txs := []models.CanonicalTransaction{}
	for _, rec := range table.Records {
		txType, ok := transactionType(rec.Get(colType))
		if !ok {
			continue
		}
		ts, err := rec.Time(colTime, time.UTC, timeLayouts...)
		if err != nil {
			return nil, err
		}
		amount, err := rec.AbsDecimal(colAmount)
		if err != nil {
			return nil, err
		}
		price, err := rec.Decimal(colSpotPrice)
		if err != nil {
			return nil, err
		}
		fee, err := rec.AbsDecimal(colFee)
		if err != nil {
			return nil, err
		}

		quote := strings.ToUpper(rec.Get(colSpotCurrency))
		if quote == "" {
			quote = "USD"
		}
		txs = append(txs, models.CanonicalTransaction{
			Timestamp: ts,
			Exchange:  p.Exchange(),
			Symbol:    strings.ToUpper(rec.Get(colAsset)) + "/" + quote,
			Type:      txType,
			Amount:    amount,
			Price:     price,
			Fee:       fee,
		})
	}
	return txs, nil
}

// transactionType accepts "Buy", "Sell" and prefixed variants such as
// "Advanced Trade Buy". Sends, receives and rewards are skipped.
func transactionType(kind string) (models.TransactionType, bool) {
	kind = strings.ToLower(kind)
	switch {
	case strings.Contains(kind, "buy"):
		return models.TransactionTypeBuy, true
	case strings.Contains(kind, "sell"):
		return models.TransactionTypeSell, true
	default:
		return "", false
	}
}
