package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/username/zeitan/backend/src/logger"
	"github.com/username/zeitan/backend/src/security/validation"
	"github.com/username/zeitan/backend/src/services"
	"github.com/username/zeitan/backend/src/utils"
)

type UploadHandler struct {
	uploadService  services.UploadService
	maxUploadBytes int64
}

func NewUploadHandler(service services.UploadService, maxUploadBytes int64) *UploadHandler {
	return &UploadHandler{
		uploadService:  service,
		maxUploadBytes: maxUploadBytes,
	}
}

// HandleParse reads a multipart "file" field and returns the canonical
// transactions. The optional "exchange" field skips format detection.
func (h *UploadHandler) HandleParse(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	maxMB := h.maxUploadBytes / (1024 * 1024)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1024*1024)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		log.Warn("Failed to parse multipart form or request too large", "error", err, "limit", h.maxUploadBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", maxMB), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		log.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > h.maxUploadBytes {
		log.Warn("Uploaded file too large", "fileSize", fileHeader.Size, "limit", h.maxUploadBytes)
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB", maxMB), http.StatusBadRequest)
		return
	}

	if err := validation.ValidateFilename(fileHeader.Filename); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		log.Warn("Invalid client-declared file type", "contentType", clientContentType, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		log.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	exchange := strings.TrimSpace(r.FormValue("exchange"))
	log.Info("Processing parse request", "filename", fileHeader.Filename, "exchange", exchange, "detectedType", detectedContentType)

	result, err := h.uploadService.ParseUpload(r.Context(), file, exchange)
	if err != nil {
		log.Warn("Parse request failed", "filename", fileHeader.Filename, "error", err)
		sendServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}
