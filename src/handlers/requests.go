package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/username/zeitan/backend/src/models"
	"github.com/username/zeitan/backend/src/processors"
	"github.com/username/zeitan/backend/src/security/validation"
	"github.com/username/zeitan/backend/src/utils"
)

const maxNoteRunes = 500

// transactionRequest is the wire form of a transaction. Timestamps may omit
// the zone; decimals may be JSON numbers or strings.
type transactionRequest struct {
	Timestamp string                 `json:"timestamp"`
	Exchange  string                 `json:"exchange"`
	Symbol    string                 `json:"symbol"`
	Type      models.TransactionType `json:"type"`
	Amount    decimal.Decimal        `json:"amount"`
	Price     decimal.Decimal        `json:"price"`
	Fee       decimal.Decimal        `json:"fee"`
}

type calculateRequest struct {
	Transactions []transactionRequest `json:"transactions"`
	Method       string               `json:"method"`
	Note         *string              `json:"note"`
}

// decodeCalculateRequest reads and converts a calculate/report body.
// Conversion problems come back as *processors.ValidationError.
func decodeCalculateRequest(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]models.CanonicalTransaction, models.CalculationMethod, *string, error) {
	var req calculateRequest
	body := http.MaxBytesReader(w, r.Body, maxBytes)
	decoder := json.NewDecoder(body)
	if err := decoder.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, "", nil, errBodyTooLarge
		}
		if errors.Is(err, io.EOF) {
			return nil, "", nil, &processors.ValidationError{Index: -1, Field: "body", Reason: "request body is empty"}
		}
		return nil, "", nil, &processors.ValidationError{Index: -1, Field: "body", Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	method, err := models.ParseCalculationMethod(req.Method)
	if err != nil {
		return nil, "", nil, &processors.ValidationError{Index: -1, Field: "method", Reason: err.Error()}
	}

	txs := make([]models.CanonicalTransaction, len(req.Transactions))
	for i, t := range req.Transactions {
		ts, err := utils.ParseTimestamp(t.Timestamp)
		if err != nil {
			return nil, "", nil, &processors.ValidationError{Index: i, Field: "timestamp", Reason: err.Error()}
		}
		txs[i] = models.CanonicalTransaction{
			Timestamp: ts,
			Exchange:  t.Exchange,
			Symbol:    t.Symbol,
			Type:      t.Type,
			Amount:    t.Amount,
			Price:     t.Price,
			Fee:       t.Fee,
		}
	}

	var note *string
	if req.Note != nil {
		if cleaned := validation.SanitizeNote(*req.Note, maxNoteRunes); cleaned != "" {
			note = &cleaned
		}
	}
	return txs, method, note, nil
}
