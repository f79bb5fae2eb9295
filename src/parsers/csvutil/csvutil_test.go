package csvutil

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

func TestReadCSV_StripsBOMAndIndexesHeader(t *testing.T) {
	rq := require.New(t)
	input := "\xEF\xBB\xBF日時, 種別,数量\n2024/01/02 03:04:05,買,\"1,000.5\"\n\n,,\n2024/01/03 00:00:00,売,2\n"

	table, err := ReadCSV(strings.NewReader(input))
	rq.NoError(err)

	rq.Equal([]string{"日時", "種別", "数量"}, table.Header)
	rq.True(table.Has("種別"))
	rq.Len(table.Records, 2)
	rq.Equal(2, table.Records[0].Line)
	rq.Equal(5, table.Records[1].Line)
	rq.Equal("買", table.Records[0].Get("種別"))
	rq.Equal("", table.Records[0].Get("missing"))

	amount, err := table.Records[0].Decimal("数量")
	rq.NoError(err)
	rq.Equal("1000.5", amount.String())
}

func TestReadCSV_ShiftJIS(t *testing.T) {
	rq := require.New(t)
	encoded, err := japanese.ShiftJIS.NewEncoder().String("取引日時,売/買\n2024/01/02 03:04:05,売\n")
	rq.NoError(err)

	table, err := ReadCSV(strings.NewReader(encoded))
	rq.NoError(err)
	rq.Equal([]string{"取引日時", "売/買"}, table.Header)
	rq.Equal("売", table.Records[0].Get("売/買"))
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	require.ErrorIs(t, err, ErrEmptyFile)
}

func TestRecordErrorsCarryLine(t *testing.T) {
	rq := require.New(t)
	table, err := ReadCSV(strings.NewReader("when,qty\nyesterday,abc\n"))
	rq.NoError(err)
	rec := table.Records[0]

	_, err = rec.Decimal("qty")
	var rowErr *RowError
	rq.ErrorAs(err, &rowErr)
	rq.Equal(2, rowErr.Line)
	rq.Equal("qty", rowErr.Column)

	_, err = rec.Time("when", time.UTC, "2006-01-02")
	rq.ErrorAs(err, &rowErr)
}

func TestRecordTimeUsesLocation(t *testing.T) {
	rq := require.New(t)
	table, err := ReadCSV(strings.NewReader("when\n2024-01-02 09:00:00\n"))
	rq.NoError(err)

	got, err := table.Records[0].Time("when", JST, "2006/01/02 15:04:05", "2006-01-02 15:04:05")
	rq.NoError(err)
	rq.True(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).Equal(got))
}

func TestHasColumns(t *testing.T) {
	header := []string{"time", " type ", "pair"}
	require.True(t, HasColumns(header, "time", "type"))
	require.False(t, HasColumns(header, "time", "vol"))
	require.True(t, HasAnyColumn(header, "txid", "time"))
}

func TestJPYSymbol(t *testing.T) {
	require.Equal(t, "BTC/JPY", JPYSymbol(" btc "))
	require.Equal(t, "ETH/JPY", JPYSymbol("eth/jpy"))
}
