package handlers

import (
	"net/http"
	"strconv"

	"github.com/username/zeitan/backend/src/logger"
	"github.com/username/zeitan/backend/src/services"
	"github.com/username/zeitan/backend/src/utils"
)

type HistoryHandler struct {
	historyService services.HistoryService
	defaultLimit   int
}

func NewHistoryHandler(service services.HistoryService, defaultLimit int) *HistoryHandler {
	return &HistoryHandler{historyService: service, defaultLimit: defaultLimit}
}

// HandleListSessions returns saved sessions, newest first. ?limit= narrows
// the page but never widens it past the configured default.
func (h *HistoryHandler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	limit := h.defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.SendJSONError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		if n < limit {
			limit = n
		}
	}

	sessions, err := h.historyService.ListSessions(r.Context(), limit)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sessions)
}

func (h *HistoryHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	detail, err := h.historyService.GetSession(r.Context(), id)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.WriteETagged(w, r, detail)
}

func (h *HistoryHandler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if err := h.historyService.DeleteSession(r.Context(), id); err != nil {
		sendServiceError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("Deleted calculation session", "sessionID", id)
	w.WriteHeader(http.StatusNoContent)
}

func sessionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.SendJSONError(w, "invalid session id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
