package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	rq := require.New(t)

	level, ok := ParseLevel("DEBUG")
	rq.True(ok)
	rq.Equal(slog.LevelDebug, level)

	level, ok = ParseLevel("verbose")
	rq.False(ok)
	rq.Equal(slog.LevelInfo, level)
}

func TestInitLoggerWritesJSON(t *testing.T) {
	rq := require.New(t)
	var buf bytes.Buffer

	InitLoggerWithWriter("info", &buf)

	var entry map[string]any
	rq.NoError(json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	rq.Equal("Logger initialized", entry["msg"])
	rq.Equal("INFO", entry["level"])
}

func TestFromContext(t *testing.T) {
	rq := require.New(t)
	var buf bytes.Buffer
	InitLoggerWithWriter("info", &buf)

	rq.Same(L, FromContext(context.Background()))

	scoped := L.With("request_id", "abc")
	ctx := WithContext(context.Background(), scoped)
	rq.Same(scoped, FromContext(ctx))
}
