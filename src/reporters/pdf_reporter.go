package reporters

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/username/zeitan/backend/src/logger"
	"github.com/username/zeitan/backend/src/models"
)

const (
	pdfFontFamily = "zeitan"
	pdfMargin     = 15.0
	pdfRowHeight  = 6.0
)

type pdfLabels struct {
	title, generated, summary, method, count, sells, total, warnings, bySymbol, trades, oversold string
	columns                                                                                      []string
	buy, sell                                                                                    string
}

var englishLabels = pdfLabels{
	title:     "Zeitan crypto asset tax report",
	generated: "Generated",
	summary:   "Summary",
	method:    "Method",
	count:     "Transactions",
	sells:     "Sales",
	total:     "Total profit/loss",
	warnings:  "Data quality warnings",
	bySymbol:  "Profit/loss by symbol",
	trades:    "Trades",
	oversold:  "* sold more than held",
	columns:   []string{"Date", "Exchange", "Symbol", "Type", "Amount", "Price", "Fee", "Profit/loss"},
	buy:       "Buy",
	sell:      "Sell",
}

var japaneseLabels = pdfLabels{
	title:     "Zeitan 暗号資産税金計算レポート",
	generated: "生成日時",
	summary:   "サマリー",
	method:    "計算方法",
	count:     "総取引件数",
	sells:     "売却取引件数",
	total:     "総損益",
	warnings:  "データ警告",
	bySymbol:  "通貨別損益",
	trades:    "取引履歴",
	oversold:  "* 保有数量を超える売却",
	columns:   []string{"日時", "取引所", "通貨", "種別", "数量", "価格", "手数料", "損益"},
	buy:       "購入",
	sell:      "売却",
}

var pdfColumnWidths = []float64{30, 20, 22, 14, 22, 26, 16, 30}

// PDFReporter renders an A4 report. With a UTF-8 TrueType font it prints
// Japanese labels; otherwise it falls back to Helvetica and English.
type PDFReporter struct {
	fontPath string
	compress bool
}

func NewPDFReporter(fontPath string) *PDFReporter {
	if fontPath != "" {
		if _, err := os.Stat(fontPath); err != nil {
			if logger.L != nil {
				logger.L.Warn("PDF font not readable, using Helvetica", "fontPath", fontPath, "error", err)
			}
			fontPath = ""
		}
	}
	return &PDFReporter{fontPath: fontPath, compress: true}
}

func (r *PDFReporter) ContentType() string { return "application/pdf" }

func (r *PDFReporter) Extension() string { return "pdf" }

func (r *PDFReporter) Write(w io.Writer, report Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetCompression(r.compress)
	pdf.SetCreator("Zeitan", false)
	if !report.GeneratedAt.IsZero() {
		pdf.SetCreationDate(report.GeneratedAt)
	}

	labels := englishLabels
	methodLabel := report.Method.Label()
	family := "Helvetica"
	text := pdf.UnicodeTranslatorFromDescriptor("")
	if r.fontPath != "" {
		pdf.AddUTF8Font(pdfFontFamily, "", r.fontPath)
		family = pdfFontFamily
		labels = japaneseLabels
		methodLabel = report.Method.JapaneseLabel()
		text = func(s string) string { return s }
	}
	pdf.SetTitle(labels.title, true)

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont(family, "", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont(family, "", 18)
	pdf.CellFormat(0, 10, text(labels.title), "", 1, "L", false, 0, "")
	pdf.SetFont(family, "", 9)
	pdf.CellFormat(0, 5, text(fmt.Sprintf("%s: %s", labels.generated, report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	writeSummary(pdf, family, text, labels, methodLabel, report)
	writeTrades(pdf, family, text, labels, report.Results)

	if pdf.Err() {
		return fmt.Errorf("failed to render PDF: %w", pdf.Error())
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func writeSummary(pdf *fpdf.Fpdf, family string, text func(string) string, labels pdfLabels, methodLabel string, report Report) {
	pdf.SetFont(family, "", 13)
	pdf.CellFormat(0, 8, text(labels.summary), "", 1, "L", false, 0, "")

	sells := 0
	for _, res := range report.Results {
		if res.Type == models.TransactionTypeSell {
			sells++
		}
	}

	rows := [][2]string{
		{labels.method, methodLabel},
		{labels.count, fmt.Sprintf("%d", report.Summary.TransactionCount)},
		{labels.sells, fmt.Sprintf("%d", sells)},
		{labels.total, formatNumber(report.Summary.TotalProfitLoss.Round(2).String())},
		{labels.warnings, fmt.Sprintf("%d", len(report.Summary.Warnings))},
	}

	pdf.SetFont(family, "", 10)
	pdf.SetFillColor(240, 240, 240)
	for _, row := range rows {
		pdf.CellFormat(60, pdfRowHeight, text(row[0]), "1", 0, "L", true, 0, "")
		pdf.CellFormat(80, pdfRowHeight, text(row[1]), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	if len(report.Summary.ProfitLossBySymbol) > 0 {
		pdf.SetFont(family, "", 11)
		pdf.CellFormat(0, 7, text(labels.bySymbol), "", 1, "L", false, 0, "")
		pdf.SetFont(family, "", 10)
		symbols := make([]string, 0, len(report.Summary.ProfitLossBySymbol))
		for symbol := range report.Summary.ProfitLossBySymbol {
			symbols = append(symbols, symbol)
		}
		sort.Strings(symbols)
		for _, symbol := range symbols {
			pl := report.Summary.ProfitLossBySymbol[symbol]
			pdf.CellFormat(60, pdfRowHeight, text(symbol), "1", 0, "L", true, 0, "")
			pdf.CellFormat(80, pdfRowHeight, text(formatNumber(pl.Round(2).String())), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(3)
	}
}

func writeTrades(pdf *fpdf.Fpdf, family string, text func(string) string, labels pdfLabels, results []models.TradeResult) {
	if len(results) == 0 {
		return
	}
	pdf.SetFont(family, "", 13)
	pdf.CellFormat(0, 8, text(labels.trades), "", 1, "L", false, 0, "")

	_, pageHeight := pdf.GetPageSize()
	header := func() {
		pdf.SetFont(family, "", 9)
		pdf.SetFillColor(33, 150, 243)
		pdf.SetTextColor(255, 255, 255)
		for i, col := range labels.columns {
			pdf.CellFormat(pdfColumnWidths[i], pdfRowHeight, text(col), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont(family, "", 8)
	}
	header()

	anyOversold := false
	for i, res := range results {
		if pdf.GetY()+pdfRowHeight > pageHeight-pdfMargin {
			pdf.AddPage()
			header()
		}
		side := labels.buy
		if res.Type == models.TransactionTypeSell {
			side = labels.sell
		}
		amount := res.Amount.String()
		if res.Oversold {
			amount += "*"
			anyOversold = true
		}
		pl := "-"
		if res.Type == models.TransactionTypeSell {
			pl = formatNumber(res.ProfitLoss.Round(2).String())
		}
		cells := []string{
			res.Timestamp.Format("2006-01-02 15:04"),
			res.Exchange,
			res.Symbol,
			side,
			amount,
			res.Price.String(),
			res.Fee.String(),
			pl,
		}
		fill := i%2 == 1
		pdf.SetFillColor(245, 245, 245)
		for c, cell := range cells {
			align := "L"
			if c >= 4 {
				align = "R"
			}
			pdf.CellFormat(pdfColumnWidths[c], pdfRowHeight, text(cell), "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if anyOversold {
		pdf.Ln(2)
		pdf.SetFont(family, "", 8)
		pdf.CellFormat(0, 5, text(labels.oversold), "", 1, "L", false, 0, "")
	}
}

// formatNumber groups the integer part by thousands: "-1234567.5" -> "-1,234,567.5".
func formatNumber(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	var b strings.Builder
	lead := len(intPart) % 3
	if lead == 0 && len(intPart) > 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return sign + b.String()
}
