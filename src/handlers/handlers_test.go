package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/require"
	"github.com/username/zeitan/backend/src/database"
	"github.com/username/zeitan/backend/src/model"
	"github.com/username/zeitan/backend/src/services"
	"golang.org/x/time/rate"
)

const calcBody = `{
	"method": "total_average",
	"note": "  2024 tax year\u0000 ",
	"transactions": [
		{"timestamp": "2024-01-01T00:00:00", "exchange": "bitflyer", "symbol": "BTC/JPY", "type": "BUY", "amount": 1, "price": "100", "fee": 0},
		{"timestamp": "2024-01-02 00:00:00", "exchange": "bitflyer", "symbol": "BTC/JPY", "type": "buy", "amount": "1", "price": 300},
		{"timestamp": "2024-01-03T00:00:00Z", "exchange": "bitflyer", "symbol": "BTC/JPY", "type": "sell", "amount": "1", "price": "250", "fee": "0"}
	]
}`

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	db, dialect, err := database.Open("sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := model.NewSessionStore(db, dialect)
	calc := services.NewCalculationService(store, cache.New(time.Minute, time.Minute))
	router := NewRouter(Handlers{
		Upload:      NewUploadHandler(services.NewUploadService(), 1<<20),
		Calculation: NewCalculationHandler(calc, 1<<20),
		Report:      NewReportHandler(services.NewReportService(calc, ""), 1<<20),
		History:     NewHistoryHandler(services.NewHistoryService(store, cache.New(time.Minute, time.Minute)), 50),
	})
	return RequestLogger(router)
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func uploadRequest(t *testing.T, filename, content, exchange string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	if exchange != "" {
		require.NoError(t, mw.WriteField("exchange", exchange))
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/parse", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestRootAndHealth(t *testing.T) {
	rq := require.New(t)
	h := newTestRouter(t)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/", nil))
	rq.Equal(http.StatusOK, rec.Code)
	rq.Equal("Zeitan API", decode(t, rec)["message"])
	rq.NotEmpty(rec.Header().Get("X-Request-ID"))

	rec = do(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	rq.Equal(http.StatusOK, rec.Code)
	rq.Equal("healthy", decode(t, rec)["status"])

	rec = do(h, httptest.NewRequest(http.MethodGet, "/nope", nil))
	rq.Equal(http.StatusNotFound, rec.Code)
}

func TestExchanges_ETag(t *testing.T) {
	rq := require.New(t)
	h := newTestRouter(t)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/api/exchanges", nil))
	rq.Equal(http.StatusOK, rec.Code)
	body := decode(t, rec)
	rq.EqualValues(11, body["total"])
	rq.Len(body["exchanges"], 11)

	etag := rec.Header().Get("ETag")
	rq.NotEmpty(etag)
	req := httptest.NewRequest(http.MethodGet, "/api/exchanges", nil)
	req.Header.Set("If-None-Match", `"stale", `+etag)
	rq.Equal(http.StatusNotModified, do(h, req).Code)
}

func TestParse_AutoDetect(t *testing.T) {
	rq := require.New(t)
	h := newTestRouter(t)
	csv := "日時,種別,通貨,数量,価格,手数料\n2024/01/05 10:00:00,買,BTC,0.01,6000000,0\n"

	rec := do(h, uploadRequest(t, "trades.csv", csv, ""))
	rq.Equal(http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	rq.Equal("bitflyer", body["exchange"])
	txs := body["transactions"].([]any)
	rq.Len(txs, 1)
	tx := txs[0].(map[string]any)
	rq.Equal("BTC/JPY", tx["symbol"])
	rq.Equal("0.01", tx["amount"])
}

func TestParse_Rejections(t *testing.T) {
	h := newTestRouter(t)

	cases := map[string]*http.Request{
		"unknown format":   uploadRequest(t, "trades.csv", "a,b\n1,2\n", ""),
		"unknown exchange": uploadRequest(t, "trades.csv", "a,b\n1,2\n", "mtgox"),
		"wrong extension":  uploadRequest(t, "trades.xlsx", "a,b\n1,2\n", ""),
		"missing file":     uploadRequest(t, "", "", "bitflyer"),
		"empty file":       uploadRequest(t, "trades.csv", "", ""),
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(h, req)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			require.NotEmpty(t, decode(t, rec)["error"])
		})
	}
}

func TestCalculate_SavesSession(t *testing.T) {
	rq := require.New(t)
	h := newTestRouter(t)

	rec := do(h, httptest.NewRequest(http.MethodPost, "/api/calculate", strings.NewReader(calcBody)))
	rq.Equal(http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	rq.Equal("total_average", body["method"])
	rq.Equal("50", body["total_profit_loss"])
	rq.Len(body["results"], 3)
	rq.NotNil(body["session_id"])
	id := int64(body["session_id"].(float64))

	rec = do(h, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	rq.Equal(http.StatusOK, rec.Code)
	var sessions []map[string]any
	rq.NoError(json.Unmarshal(rec.Body.Bytes(), &sessions))
	rq.Len(sessions, 1)
	rq.Equal("2024 tax year", sessions[0]["note"])

	path := "/api/history/" + jsonInt(id)
	rec = do(h, httptest.NewRequest(http.MethodGet, path, nil))
	rq.Equal(http.StatusOK, rec.Code)
	detail := decode(t, rec)
	rq.Len(detail["transactions"], 3)
	etag := rec.Header().Get("ETag")
	rq.NotEmpty(etag)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("If-None-Match", etag)
	rq.Equal(http.StatusNotModified, do(h, req).Code)

	rq.Equal(http.StatusNoContent, do(h, httptest.NewRequest(http.MethodDelete, path, nil)).Code)
	rq.Equal(http.StatusNotFound, do(h, httptest.NewRequest(http.MethodGet, path, nil)).Code)
	rq.Equal(http.StatusNotFound, do(h, httptest.NewRequest(http.MethodDelete, path, nil)).Code)
}

func jsonInt(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestCalculate_BadRequests(t *testing.T) {
	h := newTestRouter(t)

	cases := map[string]string{
		"invalid json":     `{"transactions": [`,
		"empty body":       ``,
		"unknown method":   `{"method": "fifo", "transactions": []}`,
		"empty batch":      `{"transactions": []}`,
		"bad timestamp":    `{"transactions": [{"timestamp": "yesterday", "symbol": "BTC/JPY", "type": "buy", "amount": 1, "price": 1}]}`,
		"negative amount":  `{"transactions": [{"timestamp": "2024-01-01", "symbol": "BTC/JPY", "type": "buy", "amount": -1, "price": 1}]}`,
		"unsupported type": `{"transactions": [{"timestamp": "2024-01-01", "symbol": "BTC/JPY", "type": "deposit", "amount": 1, "price": 1}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(h, httptest.NewRequest(http.MethodPost, "/api/calculate", strings.NewReader(body)))
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestCalculate_BodyTooLarge(t *testing.T) {
	db, dialect, err := database.Open("sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	calc := services.NewCalculationService(model.NewSessionStore(db, dialect), cache.New(time.Minute, time.Minute))
	h := NewCalculationHandler(calc, 16)

	rec := do(http.HandlerFunc(h.HandleCalculate), httptest.NewRequest(http.MethodPost, "/api/calculate", strings.NewReader(calcBody)))
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHistory_InvalidInput(t *testing.T) {
	h := newTestRouter(t)
	require.Equal(t, http.StatusBadRequest, do(h, httptest.NewRequest(http.MethodGet, "/api/history/abc", nil)).Code)
	require.Equal(t, http.StatusBadRequest, do(h, httptest.NewRequest(http.MethodGet, "/api/history?limit=0", nil)).Code)
	require.Equal(t, http.StatusNotFound, do(h, httptest.NewRequest(http.MethodGet, "/api/history/99", nil)).Code)
}

func TestReports(t *testing.T) {
	rq := require.New(t)
	h := newTestRouter(t)

	rec := do(h, httptest.NewRequest(http.MethodPost, "/api/report/csv", strings.NewReader(calcBody)))
	rq.Equal(http.StatusOK, rec.Code, rec.Body.String())
	rq.Contains(rec.Header().Get("Content-Type"), "text/csv")
	rq.Equal(`attachment; filename="zeitan_report_total_average.csv"`, rec.Header().Get("Content-Disposition"))
	rq.True(strings.HasPrefix(rec.Body.String(), "\ufeff"))

	rec = do(h, httptest.NewRequest(http.MethodPost, "/api/report/pdf", strings.NewReader(calcBody)))
	rq.Equal(http.StatusOK, rec.Code, rec.Body.String())
	rq.Equal("application/pdf", rec.Header().Get("Content-Type"))
	rq.True(bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	// Reports do not create history sessions.
	rec = do(h, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	rq.Equal("[]", strings.TrimSpace(rec.Body.String()))
}

func TestRateLimit(t *testing.T) {
	rq := require.New(t)
	limited := RateLimit(rate.NewLimiter(rate.Every(time.Hour), 1))(http.HandlerFunc(HandleHealth))

	rq.Equal(http.StatusOK, do(limited, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
	rq.Equal(http.StatusTooManyRequests, do(limited, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
}

func TestCORS(t *testing.T) {
	rq := require.New(t)
	h := CORS([]string{"http://localhost:3000"})(http.HandlerFunc(HandleHealth))

	req := httptest.NewRequest(http.MethodOptions, "/api/calculate", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := do(h, req)
	rq.Equal(http.StatusNoContent, rec.Code)
	rq.Equal("http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = do(h, req)
	rq.Equal(http.StatusOK, rec.Code)
	rq.Empty(rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogger_KeepsValidID(t *testing.T) {
	id := "6f1c2f7e-8a59-4d63-9a47-2d3f0c5b9e11"
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", id)
	rec := do(RequestLogger(http.HandlerFunc(HandleHealth)), req)
	require.Equal(t, id, rec.Header().Get("X-Request-ID"))
}
