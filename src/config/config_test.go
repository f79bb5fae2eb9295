package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	rq := require.New(t)
	for _, key := range []string{"PORT", "DATABASE_URL", "LOG_LEVEL", "MAX_UPLOAD_SIZE_BYTES", "ALLOWED_ORIGINS", "RATE_LIMIT_BURST", "CACHE_EXPIRATION"} {
		t.Setenv(key, "")
	}
	t.Setenv("PORT", "9090")

	cfg := LoadConfig()

	rq.Same(Cfg, cfg)
	rq.Equal("9090", cfg.Port)
	rq.Equal([]string{"*"}, cfg.AllowedOrigins)
	rq.Equal(30, cfg.RateLimitBurst)
	rq.Equal(15*time.Minute, cfg.CacheExpiration)
	rq.Equal(int64(10*1024*1024), cfg.MaxUploadSizeBytes)
}

func TestLoadConfig_Overrides(t *testing.T) {
	rq := require.New(t)
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000, https://zeitan.example ,")
	t.Setenv("RATE_LIMIT_INTERVAL", "250ms")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")
	t.Setenv("MAX_UPLOAD_SIZE_BYTES", "2048")

	cfg := LoadConfig()

	rq.Equal([]string{"http://localhost:3000", "https://zeitan.example"}, cfg.AllowedOrigins)
	rq.Equal(250*time.Millisecond, cfg.RateLimitInterval)
	rq.Equal(30, cfg.RateLimitBurst)
	rq.Equal(int64(2048), cfg.MaxUploadSizeBytes)
}

func TestRedactDatabaseURL(t *testing.T) {
	rq := require.New(t)
	rq.Equal("postgres://zeitan:****@db:5432/zeitan?sslmode=disable",
		redactDatabaseURL("postgres://zeitan:secret@db:5432/zeitan?sslmode=disable"))
	rq.Equal("sqlite://./zeitan.db", redactDatabaseURL("sqlite://./zeitan.db"))
}
