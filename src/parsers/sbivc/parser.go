// Package sbivc reads the SBI VC Trade trade record export.
package sbivc

import (
	"fmt"
	"io"

	"github.com/username/zeitan/backend/src/models"
	"github.com/username/zeitan/backend/src/parsers/csvutil"
)

const (
	colTime   = "約定日時"
	colKind   = "取引区分"
	colSymbol = "銘柄"
	colAmount = "約定数量"
	colPrice  = "約定価格"
	colFee    = "手数料"
)

var requiredColumns = []string{colTime, colKind, colSymbol, colAmount, colPrice, colFee}

var kinds = map[string]models.TransactionType{
	"買":    models.TransactionTypeBuy,
	"購入":   models.TransactionTypeBuy,
	"現物買い": models.TransactionTypeBuy,
	"売":    models.TransactionTypeSell,
	"売却":   models.TransactionTypeSell,
	"現物売り": models.TransactionTypeSell,
}

type SBIVCParser struct{}

func NewParser() *SBIVCParser {
	return &SBIVCParser{}
}

func (p *SBIVCParser) Exchange() string { return "sbivc" }

func (p *SBIVCParser) Detect(header []string) bool {
	return csvutil.HasColumns(header, requiredColumns...)
}

func (p *SBIVCParser) Parse(file io.Reader) ([]models.CanonicalTransaction, error) {
	table, err := csvutil.ReadCSV(file)
	if err != nil {
		return nil, err
	}
	if !p.Detect(table.Header) {
		return nil, fmt.Errorf("not an SBI VC Trade export: missing one of %v", requiredColumns)
	}

	txs := []models.CanonicalTransaction{}
	for _, rec := range table.Records {
		txType, ok := kinds[rec.Get(colKind)]
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
			Symbol:    csvutil.JPYSymbol(rec.Get(colSymbol)),
			Type:      txType,
			Amount:    amount,
			Price:     price,
			Fee:       fee,
		})
	}
	return txs, nil
}
