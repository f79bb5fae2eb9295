package services

import (
	"context"
	"errors"
	"io"

	"github.com/shopspring/decimal"
	"github.com/username/zeitan/backend/src/model"
	"github.com/username/zeitan/backend/src/models"
)

var (
	ErrParsingFailed     = errors.New("failed to parse transaction file")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrReportFailed      = errors.New("failed to generate report")
	// ErrSessionNotFound is the store's sentinel so errors.Is works across layers.
	ErrSessionNotFound = model.ErrSessionNotFound
)

// ParseResult is the outcome of reading one exchange export.
type ParseResult struct {
	Exchange     string                        `json:"exchange"`
	Transactions []models.CanonicalTransaction `json:"transactions"`
}

// CalculationResult is returned by POST /api/calculate.
type CalculationResult struct {
	Results         []models.TradeResult      `json:"results"`
	TotalProfitLoss decimal.Decimal           `json:"total_profit_loss"`
	Method          models.CalculationMethod  `json:"method"`
	SessionID       *int64                    `json:"session_id"`
	Summary         models.CalculationSummary `json:"summary"`
}

// ReportFile is a rendered report ready to be sent as an attachment.
type ReportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SessionRepository is the persistence the services need; *model.SessionStore
// implements it.
type SessionRepository interface {
	InsertCalcSession(ctx context.Context, method models.CalculationMethod, transactions []models.CanonicalTransaction, results []models.TradeResult, summary models.CalculationSummary, note *string) (models.CalcSession, error)
	ListCalcSessions(ctx context.Context, limit int) ([]models.CalcSession, error)
	GetCalcSessionDetail(ctx context.Context, id int64) (*models.SessionDetail, error)
	DeleteCalcSession(ctx context.Context, id int64) error
}

type UploadService interface {
	// ParseUpload reads an export. An empty exchange auto-detects the format
	// from the header row.
	ParseUpload(ctx context.Context, file io.Reader, exchange string) (*ParseResult, error)
}

type CalculationService interface {
	// Calculate runs the engine and saves the run as a history session.
	Calculate(ctx context.Context, transactions []models.CanonicalTransaction, method models.CalculationMethod, note *string) (*CalculationResult, error)
	// Run computes without saving. Repeated identical requests hit the cache.
	Run(ctx context.Context, transactions []models.CanonicalTransaction, method models.CalculationMethod) (*CalculationResult, error)
}

type HistoryService interface {
	ListSessions(ctx context.Context, limit int) ([]models.CalcSession, error)
	GetSession(ctx context.Context, id int64) (*models.SessionDetail, error)
	DeleteSession(ctx context.Context, id int64) error
}

type ReportService interface {
	Generate(ctx context.Context, transactions []models.CanonicalTransaction, method models.CalculationMethod, format string) (*ReportFile, error)
}
