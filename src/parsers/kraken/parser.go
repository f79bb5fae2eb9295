// Package kraken reads Kraken trade and ledger exports.
package kraken

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/username/zeitan/backend/src/models"
	"github.com/username/zeitan/backend/src/parsers/csvutil"
)

var isoLayouts = []string{
	"2006-01-02 15:04:05.9999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

var quoteAssets = []string{"USDT", "USDC", "USD", "EUR", "JPY"}

// Kraken's legacy asset codes.
var assetAliases = map[string]string{
	"XBT":  "BTC",
	"XXBT": "BTC",
	"XETH": "ETH",
	"XXRP": "XRP",
	"XLTC": "LTC",
	"XXLM": "XLM",
	"XDG":  "DOGE",
	"XXDG": "DOGE",
	"ZUSD": "USD",
	"ZEUR": "EUR",
	"ZJPY": "JPY",
	"ZGBP": "GBP",
}

type KrakenParser struct{}

func NewParser() *KrakenParser {
	return &KrakenParser{}
}

func (p *KrakenParser) Exchange() string { return "kraken" }

// Detect accepts both the trades export (time, type, pair) and the ledger
// export (txid, type, asset).
func (p *KrakenParser) Detect(header []string) bool {
	return csvutil.HasAnyColumn(header, "time", "txid") &&
		csvutil.HasColumns(header, "type") &&
		csvutil.HasAnyColumn(header, "pair", "asset")
}

func (p *KrakenParser) Parse(file io.Reader) ([]models.CanonicalTransaction, error) {
	table, err := csvutil.ReadCSV(file)
	if err != nil {
		return nil, err
	}
	if !p.Detect(table.Header) {
		return nil, fmt.Errorf("not a Kraken export: need time|txid, type and pair|asset columns")
	}

	timeCol := "time"
	if !table.Has(timeCol) {
		timeCol = "txid"
	}
	amountCol := "vol"
	if !table.Has(amountCol) {
		amountCol = "amount"
	}

	txs := []models.CanonicalTransaction{}
	for _, rec := range table.Records {
		txType, ok := models.ParseTransactionType(rec.Get("type"))
		if !ok {
			continue
		}
		ts, err := parseTime(rec, timeCol)
		if err != nil {
			return nil, err
		}

		var symbol string
		if table.Has("pair") {
			symbol = PairToSymbol(rec.Get("pair"))
		} else {
			quote := rec.Get("currency")
			if quote == "" {
				quote = "USD"
			}
			symbol = normalizeAsset(rec.Get("asset")) + "/" + normalizeAsset(quote)
		}

		amount, err := rec.AbsDecimal(amountCol)
		if err != nil {
			return nil, err
		}
		price, err := rec.Decimal("price")
		if err != nil {
			return nil, err
		}
		fee, err := rec.AbsDecimal("fee")
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

// parseTime accepts unix seconds (with optional fraction) or ISO text, in UTC.
func parseTime(rec csvutil.Record, col string) (time.Time, error) {
	value := rec.Get(col)
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		whole := int64(secs)
		return time.Unix(whole, int64((secs-float64(whole))*1e9)).UTC(), nil
	}
	return rec.Time(col, time.UTC, isoLayouts...)
}

// PairToSymbol maps "XXBTZUSD" to "BTC/USD" and "ETHEUR" to "ETH/EUR".
func PairToSymbol(pair string) string {
	pair = strings.ToUpper(strings.TrimSpace(pair))
	if strings.Contains(pair, "/") {
		base, quote, _ := strings.Cut(pair, "/")
		return normalizeAsset(base) + "/" + normalizeAsset(quote)
	}
	// Legacy four-letter codes: X<base>Z<fiat>.
	if len(pair) == 8 && pair[0] == 'X' && pair[4] == 'Z' {
		return normalizeAsset(pair[1:4]) + "/" + pair[5:]
	}
	for _, quote := range quoteAssets {
		if strings.HasSuffix(pair, quote) && len(pair) > len(quote) {
			return normalizeAsset(pair[:len(pair)-len(quote)]) + "/" + quote
		}
	}
	return normalizeAsset(pair)
}

func normalizeAsset(asset string) string {
	asset = strings.ToUpper(strings.TrimSpace(asset))
	if alias, ok := assetAliases[asset]; ok {
		return alias
	}
	return asset
}
