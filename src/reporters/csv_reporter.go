package reporters

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/zeitan/backend/src/security/validation"
)

var csvHeader = []string{
	"timestamp", "exchange", "symbol", "type", "amount", "price", "fee",
	"profit_loss", "average_cost_used", "average_cost_after", "held_quantity_after", "oversold",
}

// CSVReporter writes one row per trade result. The BOM makes Excel open the
// file as UTF-8.
type CSVReporter struct{}

func NewCSVReporter() *CSVReporter {
	return &CSVReporter{}
}

func (r *CSVReporter) ContentType() string { return "text/csv; charset=utf-8" }

func (r *CSVReporter) Extension() string { return "csv" }

func (r *CSVReporter) Write(w io.Writer, report Report) error {
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i, res := range report.Results {
		record := []string{
			res.Timestamp.Format(time.RFC3339),
			validation.SanitizeForFormulaInjection(res.Exchange),
			validation.SanitizeForFormulaInjection(res.Symbol),
			string(res.Type),
			res.Amount.String(),
			res.Price.String(),
			res.Fee.String(),
			res.ProfitLoss.String(),
			nullDecimal(res.AverageCostUsed),
			nullDecimal(res.AverageCostAfter),
			res.HeldQuantityAfter.String(),
			strconv.FormatBool(res.Oversold),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func nullDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
