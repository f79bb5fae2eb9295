package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/username/zeitan/backend/src/logger"
	"github.com/username/zeitan/backend/src/models"
	"github.com/username/zeitan/backend/src/reporters"
)

type reportServiceImpl struct {
	calculations CalculationService
	reporters    map[string]reporters.Reporter
	now          func() time.Time
}

func NewReportService(calculations CalculationService, pdfFontPath string) ReportService {
	return &reportServiceImpl{
		calculations: calculations,
		reporters: map[string]reporters.Reporter{
			"csv": reporters.NewCSVReporter(),
			"pdf": reporters.NewPDFReporter(pdfFontPath),
		},
		now: time.Now,
	}
}

func (s *reportServiceImpl) Generate(ctx context.Context, transactions []models.CanonicalTransaction, method models.CalculationMethod, format string) (*ReportFile, error) {
	reporter, ok := s.reporters[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("%w: report format %q", ErrUnsupportedFormat, format)
	}

	result, err := s.calculations.Run(ctx, transactions, method)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	report := reporters.Report{
		Method:      result.Method,
		Results:     result.Results,
		Summary:     result.Summary,
		GeneratedAt: s.now(),
	}
	if err := reporter.Write(&buf, report); err != nil {
		logger.FromContext(ctx).Error("Report rendering failed", "format", format, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrReportFailed, err)
	}

	return &ReportFile{
		Filename:    reporters.Filename(reporter, result.Method),
		ContentType: reporter.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}
