// Package csvutil holds the CSV plumbing shared by the exchange parsers.
package csvutil

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/username/zeitan/backend/src/utils"
	"golang.org/x/text/encoding/japanese"
)

// JST is the zone domestic exchanges print their naive timestamps in.
var JST = time.FixedZone("JST", 9*60*60)

// DomesticLayouts are the timestamp layouts Japanese exchanges print.
var DomesticLayouts = []string{
	"2006/01/02 15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04",
	"2006-01-02 15:04",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var ErrEmptyFile = errors.New("csv file is empty")

// Table is a CSV file indexed by its header row.
type Table struct {
	Header  []string
	Records []Record
	index   map[string]int
}

// Record is one data row. Line is the 1-based line it started on.
type Record struct {
	Line  int
	cells []string
	table *Table
}

// RowError reports a cell that could not be converted.
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d, column %q: %v", e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Decode returns the content as UTF-8 without a byte order mark. Input that
// is not valid UTF-8 is read as Shift-JIS, which Japanese Excel writes.
func Decode(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data, nil
	}
	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("file is neither UTF-8 nor Shift-JIS: %w", err)
	}
	return decoded, nil
}

// ReadCSV decodes r and reads it as a header-indexed table. Blank lines are
// dropped.
func ReadCSV(r io.Reader) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	data, err := Decode(raw)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	table := &Table{Header: make([]string, len(header)), index: make(map[string]int, len(header))}
	for i, name := range header {
		name = strings.TrimSpace(name)
		table.Header[i] = name
		if _, dup := table.index[name]; !dup {
			table.index[name] = i
		}
	}

	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		if blank(cells) {
			continue
		}
		line, _ := reader.FieldPos(0)
		table.Records = append(table.Records, Record{Line: line, cells: cells, table: table})
	}
	return table, nil
}

// ReadHeader returns the trimmed header row of data.
func ReadHeader(data []byte) ([]string, error) {
	decoded, err := Decode(data)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return header, nil
}

// HasColumns reports whether header contains every name in cols.
func HasColumns(header []string, cols ...string) bool {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = true
	}
	for _, c := range cols {
		if !present[c] {
			return false
		}
	}
	return true
}

// HasAnyColumn reports whether header contains at least one name in cols.
func HasAnyColumn(header []string, cols ...string) bool {
	for _, c := range cols {
		if HasColumns(header, c) {
			return true
		}
	}
	return false
}

// Has reports whether the table has column name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Get returns the trimmed cell of column name, or "" when the column or
// cell is missing.
func (r Record) Get(name string) string {
	i, ok := r.table.index[name]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

// Decimal reads column name as a number. Empty cells are zero.
func (r Record) Decimal(name string) (decimal.Decimal, error) {
	d, err := utils.ParseDecimal(r.Get(name))
	if err != nil {
		return decimal.Zero, &RowError{Line: r.Line, Column: name, Err: err}
	}
	return d, nil
}

// AbsDecimal reads column name as a number and drops its sign.
func (r Record) AbsDecimal(name string) (decimal.Decimal, error) {
	d, err := r.Decimal(name)
	return d.Abs(), err
}

// Time reads column name with the first matching layout, in loc.
func (r Record) Time(name string, loc *time.Location, layouts ...string) (time.Time, error) {
	value := r.Get(name)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &RowError{Line: r.Line, Column: name, Err: fmt.Errorf("unrecognised time %q", value)}
}

// JPYSymbol turns a currency ("btc") or pair ("BTC/JPY") cell into a symbol,
// quoting bare currencies in yen.
func JPYSymbol(cell string) string {
	symbol := strings.ToUpper(strings.TrimSpace(cell))
	if strings.Contains(symbol, "/") {
		return symbol
	}
	return symbol + "/JPY"
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
