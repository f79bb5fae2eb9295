// Package bitbank reads the bitbank execution history export.
package bitbank

import (
	"fmt"
	"io"
	"strings"

	"github.com/username/zeitan/backend/src/models"
	"github.com/username/zeitan/backend/src/parsers/csvutil"
)

const (
	colTime   = "取引日時"
	colSide   = "売/買"
	colPair   = "通貨ペア"
	colAmount = "数量"
	colPrice  = "価格"
	colFee    = "手数料"
)

var requiredColumns = []string{colTime, colSide, colPair, colAmount, colPrice, colFee}

var timeLayouts = []string{"2006/01/02 15:04:05", "2006-01-02 15:04:05"}

var sides = map[string]models.TransactionType{
	"買": models.TransactionTypeBuy,
	"売": models.TransactionTypeSell,
}

type BitbankParser struct{}

func NewParser() *BitbankParser {
	return &BitbankParser{}
}

func (p *BitbankParser) Exchange() string { return "bitbank" }

func (p *BitbankParser) Detect(header []string) bool {
	return csvutil.HasColumns(header, requiredColumns...)
}

func (p *BitbankParser) Parse(file io.Reader) ([]models.CanonicalTransaction, error) {
	table, err := csvutil.ReadCSV(file)
	if err != nil {
		return nil, err
	}
	if !p.Detect(table.Header) {
		return nil, fmt.Errorf("not a bitbank export: missing one of %v", requiredColumns)
	}

	txs := []models.CanonicalTransaction{}
	for _, rec := range table.Records {
		txType, ok := sides[rec.Get(colSide)]
		if !ok {
			continue
		}
		ts, err := rec.Time(colTime, csvutil.JST, timeLayouts...)
		if err != nil {
			return nil, err
		}
		amount, err := rec.AbsDecimal(colAmount)
		if err != nil {
			return nil, err
		}
		price, err := rec.Decimal(colPrice)
		if err != nil {
			return nil, err
		}
		fee, err := rec.AbsDecimal(colFee)
		if err != nil {
			return nil, err
		}

		txs = append(txs, models.CanonicalTransaction{
			Timestamp: ts,
			Exchange:  p.Exchange(),
			Symbol:    PairToSymbol(rec.Get(colPair)),
			Type:      txType,
			Amount:    amount,
			Price:     price,
			Fee:       fee,
		})
	}
	return txs, nil
}

// PairToSymbol turns "btc_jpy" or "eth-jpy" into "BTC/JPY".
func PairToSymbol(pair string) string {
	key := strings.ReplaceAll(strings.TrimSpace(pair), "-", "_")
	return strings.ToUpper(strings.ReplaceAll(key, "_", "/"))
}
