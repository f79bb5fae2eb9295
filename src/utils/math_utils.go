package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var numberNoise = strings.NewReplacer(",", "", " ", "", "¥", "", "￥", "", "円", "", " ", "")

// ParseDecimal reads a number as exchanges print it: thousands separators,
// currency marks and surrounding blanks are dropped. An empty cell is zero.
func ParseDecimal(s string) (decimal.Decimal, error) {
	cleaned := numberNoise.Replace(strings.TrimSpace(s))
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return d, nil
}

// ParseAbsDecimal is ParseDecimal with the sign dropped.
func ParseAbsDecimal(s string) (decimal.Decimal, error) {
	d, err := ParseDecimal(s)
	if err != nil {
		return d, err
	}
	return d.Abs(), nil
}
