// Package binance reads the Binance spot trade history export.
package binance

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/username/zeitan/backend/src/models"
	"github.com/username/zeitan/backend/src/parsers/csvutil"
)

const (
	colTime     = "Date(UTC)"
	colPair     = "Pair"
	colSide     = "Side"
	colPrice    = "Price"
	colExecuted = "Executed"
	colFee      = "Fee"
)

var requiredColumns = []string{colTime, colPair, colSide, colPrice, colExecuted, colFee}

var timeLayouts = []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006/01/02 15:04:05", "2006-01-02 15:04"}

// Quote assets in match order; longer tickers sharing a prefix come first.
var quoteAssets = []string{"USDT", "BUSD", "BTC", "ETH"}

type BinanceParser struct{}

func NewParser() *BinanceParser {
	return &BinanceParser{}
}

func (p *BinanceParser) Exchange() string { return "binance" }

func (p *BinanceParser) Detect(header []string) bool {
	return csvutil.HasColumns(header, requiredColumns...)
}

func (p *BinanceParser) Parse(file io.Reader) ([]models.CanonicalTransaction, error) {
	table, err := csvutil.ReadCSV(file)
	if err != nil {
		return nil, err
	}
	if !p.Detect(table.Header) {
		return nil, fmt.Errorf("not a Binance export: missing one of %v", requiredColumns)
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
		amount, err := rec.AbsDecimal(colExecuted)
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
