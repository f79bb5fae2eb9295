package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

func TestGetParser(t *testing.T) {
	rq := require.New(t)

	for _, id := range Exchanges() {
		p, err := GetParser(strings.ToUpper(id))
		rq.NoError(err)
		rq.Equal(id, p.Exchange())
	}

	_, err := GetParser("degiro")
	rq.ErrorIs(err, ErrUnknownExchange)
}

func TestDetectParser(t *testing.T) {
	cases := map[string][]string{
		"bitflyer":   {"日時", "種別", "通貨", "数量", "価格", "手数料"},
		"coincheck":  {"日時", "操作", "円(量)", "BTC(量)", "レート(円)", "手数料(円)"},
		"gmo":        {"取引日時", "銘柄", "取引区分", "取引数量", "取引レート", "手数料"},
		"bitbank":    {"取引日時", "売/買", "通貨ペア", "数量", "価格", "手数料"},
		"sbivc":      {"約定日時", "取引区分", "銘柄", "約定数量", "約定価格", "手数料"},
		"rakuten":    {"約定日時", "取引種別", "暗号資産", "約定数量", "約定単価", "手数料"},
		"linebitmax": {"注文番号", "約定日時", "通貨ペア", "取引種別", "売買", "注文方式", "約定数量", "約定レート", "取引金額", "手数料"},
		"binance":    {"Date(UTC)", "Pair", "Side", "Price", "Executed", "Amount", "Fee"},
		"bybit":      {"Date(UTC)", "Pair", "Side", "Filled Price", "Qty", "Fee", "Fee Asset"},
		"coinbase":   {"Timestamp", "Transaction Type", "Asset", "Quantity Transacted", "Spot Price Currency", "Spot Price at Transaction", "Fees and/or Spread"},
		"kraken":     {"txid", "pair", "time", "type", "price", "fee", "vol"},
	}
	for want, header := range cases {
		p, err := DetectParser(header)
		require.NoError(t, err, want)
		require.Equal(t, want, p.Exchange())
	}

	_, err := DetectParser([]string{"foo", "bar"})
	require.ErrorIs(t, err, ErrFormatNotDetected)
}

func TestDetectParserFromContent_ShiftJIS(t *testing.T) {
	rq := require.New(t)
	sjis, err := japanese.ShiftJIS.NewEncoder().String("取引日時,銘柄,取引区分,取引数量,取引レート,手数料\n")
	rq.NoError(err)

	p, err := DetectParserFromContent([]byte(sjis))
	rq.NoError(err)
	rq.Equal("gmo", p.Exchange())
}

func TestCatalogMatchesRegistry(t *testing.T) {
	rq := require.New(t)

	catalog, err := Catalog()
	rq.NoError(err)
	rq.Len(catalog, len(Exchanges()))
	for i, info := range catalog {
		rq.Equal(Exchanges()[i], info.ID)
		rq.NotEmpty(info.Name)
		rq.Contains([]string{"domestic", "international"}, info.Category)
	}

	_, err = loadCatalog([]byte("exchanges:\n  - id: mtgox\n    name: Mt.Gox\n"))
	rq.ErrorIs(err, ErrUnknownExchange)
}

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
}
