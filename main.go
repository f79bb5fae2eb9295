package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/patrickmn/go-cache"
	"github.com/username/zeitan/backend/src/config"
	"github.com/username/zeitan/backend/src/database"
	"github.com/username/zeitan/backend/src/handlers"
	"github.com/username/zeitan/backend/src/logger"
	"github.com/username/zeitan/backend/src/model"
	"github.com/username/zeitan/backend/src/parsers"
	"github.com/username/zeitan/backend/src/services"
	"golang.org/x/time/rate"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Zeitan backend server starting...")

	if _, err := parsers.Catalog(); err != nil {
		logger.L.Error("Exchange catalog is invalid", "error", err)
		os.Exit(1)
	}

	logger.L.Info("Initializing database...")
	database.InitDB(config.Cfg.DatabaseURL)
	defer database.DB.Close()
	logger.L.Info("Database initialized successfully.", "dialect", string(database.CurrentDialect))

	logger.L.Info("Initializing caches...")
	resultCache := cache.New(config.Cfg.CacheExpiration, config.Cfg.CacheCleanupInterval)
	sessionCache := cache.New(config.Cfg.CacheExpiration, config.Cfg.CacheCleanupInterval)

	logger.L.Info("Initializing services and handlers...")
	sessionStore := model.NewSessionStore(database.DB, database.CurrentDialect)
	uploadService := services.NewUploadService()
	calculationService := services.NewCalculationService(sessionStore, resultCache)
	historyService := services.NewHistoryService(sessionStore, sessionCache)
	reportService := services.NewReportService(calculationService, config.Cfg.PDFFontPath)

	logger.L.Info("Configuring routes...")
	router := handlers.NewRouter(handlers.Handlers{
		Upload:      handlers.NewUploadHandler(uploadService, config.Cfg.MaxUploadSizeBytes),
		Calculation: handlers.NewCalculationHandler(calculationService, config.Cfg.MaxUploadSizeBytes),
		Report:      handlers.NewReportHandler(reportService, config.Cfg.MaxUploadSizeBytes),
		History:     handlers.NewHistoryHandler(historyService, config.Cfg.HistoryLimit),
	})

	logger.L.Info("Applying global middleware...")
	limiter := rate.NewLimiter(rate.Every(config.Cfg.RateLimitInterval), config.Cfg.RateLimitBurst)
	finalHandler := handlers.RequestLogger(
		handlers.CORS(config.Cfg.AllowedOrigins)(
			handlers.RateLimit(limiter)(router)))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  config.Cfg.ReadTimeout,
		WriteTimeout: config.Cfg.WriteTimeout,
		IdleTimeout:  config.Cfg.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.L.Info("Server starting", "address", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L.Error("Failed to start server", "error", err)
			stdlog.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.L.Info("Shutdown signal received, draining connections...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L.Error("Graceful shutdown failed", "error", err)
		return
	}
	logger.L.Info("Server stopped gracefully.")
}
