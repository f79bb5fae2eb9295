package rakuten

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/username/zeitan/backend/src/models"
	"golang.org/x/text/encoding/japanese"
)

func TestParse_ShiftJIS(t *testing.T) {
	rq := require.New(t)
	input, err := japanese.ShiftJIS.NewEncoder().String("約定日時,取引種別,暗号資産,約定数量,約定単価,手数料\n" +
		"2024年04月01日 15:00:00,購入,ETH,0.3,520000,0\n" +
		"2024/04/02 15:00:00,送付,ETH,0.1,,\n" +
		"2024/04/03 15:00,売却,bch,2,60000,12\n")
	rq.NoError(err)

	txs, err := NewParser().Parse(strings.NewReader(input))
	rq.NoError(err)
	rq.Len(txs, 2)

	rq.Equal("rakuten", txs[0].Exchange)
	rq.Equal("ETH/JPY", txs[0].Symbol)
	rq.Equal(models.TransactionTypeBuy, txs[0].Type)
	rq.True(time.Date(2024, 4, 1, 6, 0, 0, 0, time.UTC).Equal(txs[0].Timestamp))

	rq.Equal("BCH/JPY", txs[1].Symbol)
	rq.Equal(models.TransactionTypeSell, txs[1].Type)
	rq.Equal("12", txs[1].Fee.String())
}

func TestParse_WrongFormat(t *testing.T) {
	_, err := NewParser().Parse(strings.NewReader("約定日時,売買,通貨ペア\n"))
	require.ErrorContains(t, err, "not a Rakuten Wallet export")
}
