package coinbase

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/username/zeitan/backend/src/models"
)

const export = "Timestamp,Transaction Type,Asset,Quantity Transacted,Spot Price Currency,Spot Price at Transaction,Subtotal,Total (inclusive of fees and/or spread),Fees and/or Spread,Notes\n" +
	"2024-07-01T14:00:00Z,Buy,BTC,0.005,USD,\"$61,000.00\",$305.00,$307.99,$2.99,Bought BTC\n" +
	"2024-07-02 09:30:00 UTC,Receive,ETH,1,USD,3400,,,,\n" +
	"2024-07-03 10:00:00 UTC,Advanced Trade Sell,eth,-0.5,EUR,3150.25,1575.125,1570.00,5.125,\n"

func TestParse(t *testing.T) {
	rq := require.New(t)

	txs, err := NewParser().Parse(strings.NewReader(export))
	rq.NoError(err)
	rq.Len(txs, 2)

	buy := txs[0]
	rq.Equal("coinbase", buy.Exchange)
	rq.Equal("BTC/USD", buy.Symbol)
	rq.Equal(models.TransactionTypeBuy, buy.Type)
	rq.Equal("61000", buy.Price.String())
	rq.Equal("2.99", buy.Fee.String())
	rq.True(time.Date(2024, 7, 1, 14, 0, 0, 0, time.UTC).Equal(buy.Timestamp))

	sell := txs[1]
	rq.Equal("ETH/EUR", sell.Symbol)
	rq.Equal(models.TransactionTypeSell, sell.Type)
	rq.Equal("0.5", sell.Amount.String())
	rq.True(time.Date(2024, 7, 3, 10, 0, 0, 0, time.UTC).Equal(sell.Timestamp))
}

func TestParse_MissingSpotCurrencyDefaultsToUSD(t *testing.T) {
	rq := require.New(t)
	input := "Timestamp,Transaction Type,Asset,Quantity Transacted\n2024-07-01T14:00:00Z,Buy,SOL,3\n"

	txs, err := NewParser().Parse(strings.NewReader(input))
	rq.NoError(err)
	rq.Len(txs, 1)
	rq.Equal("SOL/USD", txs[0].Symbol)
	rq.True(txs[0].Price.IsZero())
}
