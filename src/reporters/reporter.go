package reporters

import (
	"io"
	"time"

	"github.com/username/zeitan/backend/src/models"
)

// Report is everything a renderer needs for one calculation run.
type Report struct {
	Method      models.CalculationMethod
	Results     []models.TradeResult
	Summary     models.CalculationSummary
	GeneratedAt time.Time
}

// Reporter renders a Report into a downloadable file.
type Reporter interface {
	ContentType() string
	Extension() string
	Write(w io.Writer, report Report) error
}

// Filename is the attachment name for a report, e.g. zeitan_report_total_average.pdf.
func Filename(r Reporter, method models.CalculationMethod) string {
	return "zeitan_report_" + string(method) + "." + r.Extension()
}
