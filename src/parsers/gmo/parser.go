// Package gmo reads the GMO Coin spot trade export.
package gmo

import (
	"fmt"
	"io"
	"strings"

	"github.com/username/zeitan/backend/src/models"
	"github.com/username/zeitan/backend/src/parsers/csvutil"
)

const (
	colTime   = "取引日時"
	colSymbol = "銘柄"
	colKind   = "取引区分"
	colAmount = "取引数量"
	colPrice  = "取引レート"
	colFee    = "手数料"

	timeLayout = "2006/01/02 15:04:05"
)

var requiredColumns = []string{colTime, colSymbol, colKind, colAmount, colPrice, colFee}

// Only spot trades count; leverage rows are skipped.
var kinds = map[string]models.TransactionType{
	"現物買い": models.TransactionTypeBuy,
	"現物売り": models.TransactionTypeSell,
}

type GMOParser struct{}

func NewParser() *GMOParser {
	return &GMOParser{}
}

func (p *GMOParser) Exchange() string { return "gmo" }

func (p *GMOParser) Detect(header []string) bool {
	return csvutil.HasColumns(header, requiredColumns...)
}

func (p *GMOParser) Parse(file io.Reader) ([]models.CanonicalTransaction, error) {
	table, err := csvutil.ReadCSV(file)
	if err != nil {
		return nil, err
	}
	if !p.Detect(table.Header) {
		return nil, fmt.Errorf("not a GMO Coin export: missing one of %v", requiredColumns)
	}

	txs := []models.CanonicalTransaction{}
	for _, rec := range table.Records {
		txType, ok := kinds[rec.Get(colKind)]
		if !ok {
			continue
		}
		ts, err := rec.Time(colTime, csvutil.JST, timeLayout, "2006-01-02 15:04:05")
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
			Symbol:    strings.ToUpper(rec.Get(colSymbol)) + "/JPY",
			Type:      txType,
			Amount:    amount,
			Price:     price,
			Fee:       fee,
		})
	}
	return txs, nil
}
