package bitbank

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/username/zeitan/backend/src/models"
)

func TestParse(t *testing.T) {
	rq := require.New(t)
	input := "注文ID,取引ID,通貨ペア,タイプ,売/買,数量,価格,手数料,M/T,取引日時\n" +
		"1,10,btc_jpy,limit,買,0.02,6100000,0,maker,2024/04/01 12:00:00\n" +
		"2,11,xrp_jpy,market,売,100,80.5,1.2,taker,2024-04-02 12:00:00\n"

	txs, err := NewParser().Parse(strings.NewReader(input))
	rq.NoError(err)
	rq.Len(txs, 2)
	rq.Equal("BTC/JPY", txs[0].Symbol)
	rq.Equal(models.TransactionTypeBuy, txs[0].Type)
	rq.Equal("XRP/JPY", txs[1].Symbol)
	rq.Equal("80.5", txs[1].Price.String())
	rq.True(txs[0].Timestamp.Before(txs[1].Timestamp))
}

func TestPairToSymbol(t *testing.T) {
	require.Equal(t, "BTC/JPY", PairToSymbol("btc_jpy"))
	require.Equal(t, "ETH/BTC", PairToSymbol(" eth-btc "))
}
