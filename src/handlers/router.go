package handlers

import "net/http"

// Handlers groups the API handlers mounted by NewRouter.
type Handlers struct {
	Upload      *UploadHandler
	Calculation *CalculationHandler
	Report      *ReportHandler
	History     *HistoryHandler
}

func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", HandleRoot)
	mux.HandleFunc("GET /health", HandleHealth)
	mux.HandleFunc("GET /api/exchanges", HandleExchanges)

	mux.HandleFunc("POST /api/parse", h.Upload.HandleParse)
	mux.HandleFunc("POST /api/calculate", h.Calculation.HandleCalculate)
	mux.HandleFunc("POST /api/report/csv", h.Report.HandleCSVReport)
	mux.HandleFunc("POST /api/report/pdf", h.Report.HandlePDFReport)

	mux.HandleFunc("GET /api/history", h.History.HandleListSessions)
	mux.HandleFunc("GET /api/history/{id}", h.History.HandleGetSession)
	mux.HandleFunc("DELETE /api/history/{id}", h.History.HandleDeleteSession)

	mux.HandleFunc("/", HandleNotFound)
	return mux
}
