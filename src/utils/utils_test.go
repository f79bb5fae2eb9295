package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1,234,567.5", "1234567.5"},
		{" ¥3,000 ", "3000"},
		{"$42,150.10", "42150.1"},
		{"", "0"},
		{"-0.25", "-0.25"},
		{"1.5e-3", "0.0015"},
	}
	for _, tc := range cases {
		got, err := ParseDecimal(tc.in)
		require.NoError(t, err, tc.in)
		require.Truef(t, got.String() == tc.want, "%q: want %s, got %s", tc.in, tc.want, got.String())
	}

	_, err := ParseDecimal("abc")
	require.Error(t, err)

	abs, err := ParseAbsDecimal("-0.01")
	require.NoError(t, err)
	require.Equal(t, "0.01", abs.String())
}

func TestParseTimestamp(t *testing.T) {
	rq := require.New(t)
	want := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	for _, in := range []string{"2024-01-02T03:04:05Z", "2024-01-02T03:04:05", "2024-01-02 03:04:05", "2024-01-02T12:04:05+09:00"} {
		got, err := ParseTimestamp(in)
		rq.NoError(err, in)
		rq.True(want.Equal(got), in)
	}

	_, err := ParseTimestamp("02/01/2024")
	rq.Error(err)
	_, err = ParseTimestamp("  ")
	rq.Error(err)
}

func TestWriteETagged(t *testing.T) {
	rq := require.New(t)
	payload := map[string]string{"k": "v"}

	rec := httptest.NewRecorder()
	WriteETagged(rec, httptest.NewRequest(http.MethodGet, "/", nil), payload)
	rq.Equal(http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	rq.NotEmpty(etag)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	WriteETagged(rec, req, payload)
	rq.Equal(http.StatusNotModified, rec.Code)
	rq.Empty(rec.Body.String())
}

func TestSendJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	SendJSONError(rec, "bad input", http.StatusBadRequest)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"error":"bad input"}`, rec.Body.String())
}
