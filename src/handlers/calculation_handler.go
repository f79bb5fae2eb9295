package handlers

import (
	"net/http"

	"github.com/username/zeitan/backend/src/logger"
	"github.com/username/zeitan/backend/src/services"
	"github.com/username/zeitan/backend/src/utils"
)

type CalculationHandler struct {
	calculationService services.CalculationService
	maxBodyBytes       int64
}

func NewCalculationHandler(service services.CalculationService, maxBodyBytes int64) *CalculationHandler {
	return &CalculationHandler{calculationService: service, maxBodyBytes: maxBodyBytes}
}

// HandleCalculate runs the engine over the posted batch and records the run.
func (h *CalculationHandler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	txs, method, note, err := decodeCalculateRequest(w, r, h.maxBodyBytes)
	if err != nil {
		logger.FromContext(r.Context()).Warn("Rejected calculate request", "error", err)
		sendServiceError(w, r, err)
		return
	}

	result, err := h.calculationService.Calculate(r.Context(), txs, method, note)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}
