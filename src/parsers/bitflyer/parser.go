// Package bitflyer reads the bitFlyer trade history export.
package bitflyer

import (
	"fmt"
	"io"
	"strings"

	"github.com/username/zeitan/backend/src/models"
	"github.com/username/zeitan/backend/src/parsers/csvutil"
)

const (
	colTime     = "日時"
	colKind     = "種別"
	colCurrency = "通貨"
	colAmount   = "数量"
	colPrice    = "価格"
	colFee      = "手数料"

	timeLayout = "2006/01/02 15:04:05"
)

var requiredColumns = []string{colTime, colKind, colCurrency, colAmount, colPrice, colFee}

var kinds = map[string]models.TransactionType{
	"買": models.TransactionTypeBuy,
	"売": models.TransactionTypeSell,
}

type BitflyerParser struct{}

func NewParser() *BitflyerParser {
	return &BitflyerParser{}
}

func (p *BitflyerParser) Exchange() string { return "bitflyer" }

func (p *BitflyerParser) Detect(header []string) bool {
	return csvutil.HasColumns(header, requiredColumns...)
}

func (p *BitflyerParser) Parse(file io.Reader) ([]models.CanonicalTransaction, error) {
	table, err := csvutil.ReadCSV(file)
	if err != nil {
		return nil, err
	}
	if !p.Detect(table.Header) {
		return nil, fmt.Errorf("not a bitFlyer export: missing one of %v", requiredColumns)
	}

	txs := []models.CanonicalTransaction{}
	for _, rec := range table.Records {
		txType, ok := kinds[rec.Get(colKind)]
		if !ok {
			continue
		}

		ts, err := rec.Time(colTime, csvutil.JST, timeLayout)
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
			Symbol:    strings.ToUpper(rec.Get(colCurrency)) + "/JPY",
			Type:      txType,
			Amount:    amount,
			Price:     price,
			Fee:       fee,
		})
	}
	return txs, nil
}
