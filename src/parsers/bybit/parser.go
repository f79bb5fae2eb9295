// Package bybit reads the Bybit spot trade history export.
package bybit

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/username/zeitan/backend/src/models"
	"github.com/username/zeitan/backend/src/parsers/csvutil"
)

const (
	colTime   = "Date(UTC)"
	colPair   = "Pair"
	colSide   = "Side"
	colPrice  = "Filled Price"
	colAmount = "Qty"
	colFee    = "Fee"
)

var requiredColumns = []string{colTime, colPair, colSide, colPrice, colAmount, colFee}

var timeLayouts = []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05", time.RFC3339, "2006/01/02 15:04:05", "2006-01-02 15:04"}

var quoteAssets = []string{"USDT", "USDC", "BTC", "ETH"}

type BybitParser struct{}

func NewParser() *BybitParser {
	return &BybitParser{}
}

func (p *BybitParser) Exchange() string { return "bybit" }

func (p *BybitParser) Detect(header []string) bool {
	return csvutil.HasColumns(header, requiredColumns...)
}

func (p *BybitParser) Parse(file io.Reader) ([]models.CanonicalTransaction, error) {
	table, err := csvutil.ReadCSV(file)
	if err != nil {
		return nil, err
	}
	if !p.Detect(table.Header) {
		return nil, fmt.Errorf("not a Bybit export: missing one of %v", requiredColumns)
	}

	txs := []models.CanonicalTransaction{}
	for _, rec := range table.Records {
		txType, ok := models.ParseTransactionType(rec.Get(colSide))
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

// PairToSymbol splits "BTCUSDT" into "BTC/USDT". Unknown quotes are returned
// unchanged.
func PairToSymbol(pair string) string {
	pair = strings.ToUpper(strings.TrimSpace(pair))
	for _, quote := range quoteAssets {
		if strings.HasSuffix(pair, quote) && len(pair) > len(quote) {
			return pair[:len(pair)-len(quote)] + "/" + quote
		}
	}
	return pair
}
