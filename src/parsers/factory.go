// src/parsers/factory.go
package parsers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/username/zeitan/backend/src/parsers/binance"
	"github.com/username/zeitan/backend/src/parsers/bitbank"
	"github.com/username/zeitan/backend/src/parsers/bitflyer"
	"github.com/username/zeitan/backend/src/parsers/bybit"
	"github.com/username/zeitan/backend/src/parsers/coinbase"
	"github.com/username/zeitan/backend/src/parsers/coincheck"
	"github.com/username/zeitan/backend/src/parsers/csvutil"
	"github.com/username/zeitan/backend/src/parsers/gmo"
	"github.com/username/zeitan/backend/src/parsers/kraken"
	"github.com/username/zeitan/backend/src/parsers/linebitmax"
	"github.com/username/zeitan/backend/src/parsers/rakuten"
	"github.com/username/zeitan/backend/src/parsers/sbivc"
)

var (
	ErrUnknownExchange   = errors.New("no parser available for exchange")
	ErrFormatNotDetected = errors.New("could not detect the exchange from the CSV header")
)

// registry is ordered: detection tries the strict domestic formats before
// Kraken's loose header check.
var registry = []Parser{
	bitflyer.NewParser(),
	coincheck.NewParser(),
	gmo.NewParser(),
	bitbank.NewParser(),
	sbivc.NewParser(),
	rakuten.NewParser(),
	linebitmax.NewParser(),
	binance.NewParser(),
	bybit.NewParser(),
	coinbase.NewParser(),
	kraken.NewParser(),
}

func GetParser(exchange string) (Parser, error) {
	id := strings.ToLower(strings.TrimSpace(exchange))
	for _, p := range registry {
		if p.Exchange() == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownExchange, exchange)
}

// DetectParser returns the first registered parser that recognises header.
func DetectParser(header []string) (Parser, error) {
	for _, p := range registry {
		if p.Detect(header) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrFormatNotDetected, header)
}

// DetectParserFromContent reads the header row of data and detects its parser.
func DetectParserFromContent(data []byte) (Parser, error) {
	header, err := csvutil.ReadHeader(data)
	if err != nil {
		return nil, err
	}
	return DetectParser(header)
}

// Exchanges lists the ids of all registered parsers.
func Exchanges() []string {
	ids := make([]string, len(registry))
	for i, p := range registry {
		ids[i] = p.Exchange()
	}
	return ids
}
