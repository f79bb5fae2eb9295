package handlers

import (
	"errors"
	"net/http"

	"github.com/username/zeitan/backend/src/logger"
	"github.com/username/zeitan/backend/src/processors"
	"github.com/username/zeitan/backend/src/services"
	"github.com/username/zeitan/backend/src/utils"
)

var errBodyTooLarge = errors.New("request body too large")

// sendServiceError maps service and engine errors to HTTP status codes.
func sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	switch {
	case errors.Is(err, errBodyTooLarge):
		utils.SendJSONError(w, err.Error(), http.StatusRequestEntityTooLarge)
	case errors.Is(err, processors.ErrValidationFailed):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrUnsupportedFormat):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrParsingFailed):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrSessionNotFound):
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrReportFailed):
		log.Error("Report generation failed", "error", err)
		utils.SendJSONError(w, "failed to generate report", http.StatusInternalServerError)
	default:
		log.Error("Internal error handling request", "method", r.Method, "path", r.URL.Path, "error", err)
		utils.SendJSONError(w, "an internal error occurred, please try again later", http.StatusInternalServerError)
	}
}
