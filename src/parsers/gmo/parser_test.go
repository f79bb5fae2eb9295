package gmo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/username/zeitan/backend/src/models"
)

func TestParse(t *testing.T) {
	rq := require.New(t)
	input := "取引日時,銘柄,取引区分,取引数量,取引レート,手数料\n" +
		"2024/03/01 08:00:00,ETH,現物買い,1.5,450000,-10\n" +
		"2024/03/02 08:00:00,BTC,レバレッジ新規,0.1,7000000,0\n" +
		"2024/03/03 08:00:00,eth,現物売り,0.5,500000,\n"

	txs, err := NewParser().Parse(strings.NewReader(input))
	rq.NoError(err)
	rq.Len(txs, 2)
	rq.Equal("ETH/JPY", txs[0].Symbol)
	rq.Equal(models.TransactionTypeBuy, txs[0].Type)
	rq.Equal("10", txs[0].Fee.String())
	rq.Equal("ETH/JPY", txs[1].Symbol)
	rq.Equal(models.TransactionTypeSell, txs[1].Type)
	rq.True(txs[1].Fee.IsZero())
}
