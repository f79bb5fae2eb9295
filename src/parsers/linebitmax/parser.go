// Package linebitmax reads the LINE BITMAX trade history, saved as CSV.
package linebitmax

import (
	"fmt"
	"io"

	"github.com/username/zeitan/backend/src/models"
	"github.com/username/zeitan/backend/src/parsers/csvutil"
)

const (
	colTime   = "約定日時"
	colSide   = "売買"
	colPair   = "通貨ペア"
	colAmount = "約定数量"
	colPrice  = "約定レート"
	colFee    = "手数料"
)

var requiredColumns = []string{colTime, colSide, colPair, colAmount, colPrice, colFee}

var sides = map[string]models.TransactionType{
	"買":  models.TransactionTypeBuy,
	"購入": models.TransactionTypeBuy,
	"売":  models.TransactionTypeSell,
	"売却": models.TransactionTypeSell,
}

type LineBitmaxParser struct{}

func NewParser() *LineBitmaxParser {
	return &LineBitmaxParser{}
}

func (p *LineBitmaxParser) Exchange() string { return "linebitmax" }

func (p *LineBitmaxParser) Detect(header []string) bool {
	return csvutil.HasColumns(header, requiredColumns...)
}

func (p *LineBitmaxParser) Parse(file io.Reader) ([]models.CanonicalTransaction, error) {
	table, err := csvutil.ReadCSV(file)
	if err != nil {
		return nil, err
	}
	if !p.Detect(table.Header) {
		return nil, fmt.Errorf("not a LINE BITMAX export: missing one of %v", requiredColumns)
	}

	txs := []models.CanonicalTransaction{}
	for _, rec := range table.Records {
		txType, ok := sides[rec.Get(colSide)]
		if !ok {
			continue
		}
		ts, err := rec.Time(colTime, csvutil.JST, csvutil.DomesticLayouts...)
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
			Symbol:    csvutil.JPYSymbol(rec.Get(colPair)),
			Type:      txType,
			Amount:    amount,
			Price:     price,
			Fee:       fee,
		})
	}
	return txs, nil
}
