// Package rakuten reads the Rakuten Wallet tax statement export.
package rakuten

import (
	"fmt"
	"io"

	"github.com/username/zeitan/backend/src/models"
	"github.com/username/zeitan/backend/src/parsers/csvutil"
)

const (
	colTime   = "約定日時"
	colKind   = "取引種別"
	colAsset  = "暗号資産"
	colAmount = "約定数量"
	colPrice  = "約定単価"
	colFee    = "手数料"
)

var requiredColumns = []string{colTime, colKind, colAsset, colAmount, colPrice, colFee}

var timeLayouts = append([]string{"2006年01月02日 15:04:05"}, csvutil.DomesticLayouts...)

var kinds = map[string]models.TransactionType{
	"買":  models.TransactionTypeBuy,
	"購入": models.TransactionTypeBuy,
	"売":  models.TransactionTypeSell,
	"売却": models.TransactionTypeSell,
}

type RakutenParser struct{}

func NewParser() *RakutenParser {
	return &RakutenParser{}
}

func (p *RakutenParser) Exchange() string { return "rakuten" }

func (p *RakutenParser) Detect(header []string) bool {
	return csvutil.HasColumns(header, requiredColumns...)
}

func (p *RakutenParser) Parse(file io.Reader) ([]models.CanonicalTransaction, error) {
	table, err := csvutil.ReadCSV(file)
	if err != nil {
		return nil, err
	}
	if !p.Detect(table.Header) {
		return nil, fmt.Errorf("not a Rakuten Wallet export: missing one of %v", requiredColumns)
	}

	txs := []models.CanonicalTransaction{}
	for _, rec := range table.Records {
		txType, ok := kinds[rec.Get(colKind)]
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
			Symbol:    csvutil.JPYSymbol(rec.Get(colAsset)),
			Type:      txType,
			Amount:    amount,
			Price:     price,
			Fee:       fee,
		})
	}
	return txs, nil
}
