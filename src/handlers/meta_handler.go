package handlers

import (
	"net/http"

	"github.com/username/zeitan/backend/src/logger"
	"github.com/username/zeitan/backend/src/models"
	"github.com/username/zeitan/backend/src/parsers"
	"github.com/username/zeitan/backend/src/utils"
)

const apiVersion = "1.0.0"

type exchangesResponse struct {
	Exchanges []models.ExchangeInfo `json:"exchanges"`
	Total     int                   `json:"total"`
}

func HandleRoot(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Zeitan API", "version": apiVersion})
}

func HandleNotFound(w http.ResponseWriter, r *http.Request) {
	logger.FromContext(r.Context()).Warn("Path not found", "method", r.Method, "path", r.URL.Path)
	utils.SendJSONError(w, "not found", http.StatusNotFound)
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// HandleExchanges lists the exchanges whose exports can be parsed.
func HandleExchanges(w http.ResponseWriter, r *http.Request) {
	catalog, err := parsers.Catalog()
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.WriteETagged(w, r, exchangesResponse{Exchanges: catalog, Total: len(catalog)})
}
