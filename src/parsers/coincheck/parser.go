// Package coincheck reads the Coincheck trade history export.
package coincheck

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/zeitan/backend/src/models"
	"github.com/username/zeitan/backend/src/parsers/csvutil"
)

const (
	colTime      = "日時"
	colOperation = "操作"
	colRate      = "レート(円)"
	colFee       = "手数料(円)"

	timeLayout = "2006-01-02 15:04:05"
)

var requiredColumns = []string{colTime, colOperation, colRate, colFee}

// amountColumn matches per-currency quantity columns such as "BTC(量)".
var amountColumn = regexp.MustCompile(`^([A-Za-z]+)\(量\)$`)

type amountCol struct {
	column string
	symbol string
}

type CoincheckParser struct{}

func NewParser() *CoincheckParser {
	return &CoincheckParser{}
}

func (p *CoincheckParser) Exchange() string { return "coincheck" }

func (p *CoincheckParser) Detect(header []string) bool {
	return csvutil.HasColumns(header, requiredColumns...) && len(amountColumns(header)) > 0
}

func (p *CoincheckParser) Parse(file io.Reader) ([]models.CanonicalTransaction, error) {
	table, err := csvutil.ReadCSV(file)
	if err != nil {
		return nil, err
	}
	if !p.Detect(table.Header) {
		return nil, fmt.Errorf("not a Coincheck export: need %v and at least one XXX(量) column", requiredColumns)
	}
	cols := amountColumns(table.Header)

	txs := []models.CanonicalTransaction{}
	for _, rec := range table.Records {
		txType, ok := models.ParseTransactionType(rec.Get(colOperation))
		if !ok {
			continue
		}

		// One currency per row: the first non-zero quantity column wins.
		var symbol string
		var amount decimal.Decimal
		for _, c := range cols {
			qty, err := rec.AbsDecimal(c.column)
			if err != nil {
				return nil, err
			}
			if !qty.IsZero() {
				symbol = c.symbol
				amount = qty
				break
			}
		}
		if symbol == "" {
			continue
		}

		ts, err := rec.Time(colTime, csvutil.JST, timeLayout, "2006/01/02 15:04:05")
		if err != nil {
			return nil, err
		}
		price, err := rec.Decimal(colRate)
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
			Symbol:    symbol,
			Type:      txType,
			Amount:    amount,
			Price:     price,
			Fee:       fee,
		})
	}
	return txs, nil
}

func amountColumns(header []string) []amountCol {
	var cols []amountCol
	for _, h := range header {
		m := amountColumn.FindStringSubmatch(strings.TrimSpace(h))
		if m == nil {
			continue
		}
		cols = append(cols, amountCol{column: strings.TrimSpace(h), symbol: strings.ToUpper(m[1]) + "/JPY"})
	}
	return cols
}
