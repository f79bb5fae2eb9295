package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/username/zeitan/backend/src/logger"
	"github.com/username/zeitan/backend/src/services"
)

type ReportHandler struct {
	reportService services.ReportService
	maxBodyBytes  int64
}

func NewReportHandler(service services.ReportService, maxBodyBytes int64) *ReportHandler {
	return &ReportHandler{reportService: service, maxBodyBytes: maxBodyBytes}
}

func (h *ReportHandler) HandleCSVReport(w http.ResponseWriter, r *http.Request) {
	h.handleReport(w, r, "csv")
}

func (h *ReportHandler) HandlePDFReport(w http.ResponseWriter, r *http.Request) {
	h.handleReport(w, r, "pdf")
}

func (h *ReportHandler) handleReport(w http.ResponseWriter, r *http.Request, format string) {
	txs, method, _, err := decodeCalculateRequest(w, r, h.maxBodyBytes)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}

	file, err := h.reportService.Generate(r.Context(), txs, method, format)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		logger.FromContext(r.Context()).Error("Failed to write report", "format", format, "error", err)
	}
}
