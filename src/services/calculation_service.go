package services

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/zeitan/backend/src/logger"
	"github.com/username/zeitan/backend/src/models"
	"github.com/username/zeitan/backend/src/processors"
	"github.com/username/zeitan/backend/src/utils"
)

// Keyed by method and the ETag of the input batch.
const ckCalculation = "calc_%s_%s"

type calculationServiceImpl struct {
	sessions    SessionRepository
	resultCache *cache.Cache
}

func NewCalculationService(sessions SessionRepository, resultCache *cache.Cache) CalculationService {
	return &calculationServiceImpl{sessions: sessions, resultCache: resultCache}
}

func (s *calculationServiceImpl) Run(ctx context.Context, transactions []models.CanonicalTransaction, method models.CalculationMethod) (*CalculationResult, error) {
	log := logger.FromContext(ctx)

	cacheKey := ""
	if etag, err := utils.GenerateETag(transactions); err == nil {
		cacheKey = fmt.Sprintf(ckCalculation, method, etag)
		if cached, found := s.resultCache.Get(cacheKey); found {
			log.Debug("Calculation served from cache", "method", method, "transactions", len(transactions))
			result := *cached.(*CalculationResult)
			result.SessionID = nil
			return &result, nil
		}
	} else {
		log.Warn("Could not fingerprint transactions for caching", "error", err)
	}

	start := time.Now()
	results, summary, err := processors.Calculate(transactions, method)
	if err != nil {
		return nil, err
	}
	result := &CalculationResult{
		Results:         results,
		TotalProfitLoss: summary.TotalProfitLoss,
		Method:          summary.Method,
		Summary:         summary,
	}
	log.Info("Calculation finished",
		"method", method,
		"transactions", len(transactions),
		"warnings", len(summary.Warnings),
		"duration", time.Since(start))

	if cacheKey != "" {
		s.resultCache.Set(cacheKey, result, cache.DefaultExpiration)
	}
	copied := *result
	return &copied, nil
}

func (s *calculationServiceImpl) Calculate(ctx context.Context, transactions []models.CanonicalTransaction, method models.CalculationMethod, note *string) (*CalculationResult, error) {
	result, err := s.Run(ctx, transactions, method)
	if err != nil {
		return nil, err
	}

	// History is best effort: a failed save still returns the numbers.
	session, err := s.sessions.InsertCalcSession(ctx, result.Method, transactions, result.Results, result.Summary, note)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to save calculation session", "method", method, "error", err)
		return result, nil
	}
	id := session.ID
	result.SessionID = &id
	logger.FromContext(ctx).Info("Calculation session saved", "sessionID", id)
	return result, nil
}
