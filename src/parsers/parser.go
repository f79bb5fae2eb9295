// src/parsers/parser.go
package parsers

import (
	"io"

	"github.com/username/zeitan/backend/src/models"
	"github.com/username/zeitan/backend/src/parsers/csvutil"
)

// Parser turns one exchange's CSV export into canonical transactions.
type Parser interface {
	// Exchange is the catalog id, e.g. "bitflyer".
	Exchange() string
	// Detect reports whether a header row belongs to this exchange.
	Detect(header []string) bool
	Parse(file io.Reader) ([]models.CanonicalTransaction, error)
}

// ReadCSV decodes an export (UTF-8 with or without BOM, or Shift-JIS) into a
// header-indexed table.
func ReadCSV(r io.Reader) (*csvutil.Table, error) {
	return csvutil.ReadCSV(r)
}
