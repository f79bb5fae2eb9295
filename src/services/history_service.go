package services

import (
	"context"
	"fmt"

	"github.com/patrickmn/go-cache"
	"github.com/username/zeitan/backend/src/logger"
	"github.com/username/zeitan/backend/src/models"
)

const ckSessionDetail = "session_detail_%d"

type historyServiceImpl struct {
	sessions    SessionRepository
	detailCache *cache.Cache
}

func NewHistoryService(sessions SessionRepository, detailCache *cache.Cache) HistoryService {
	return &historyServiceImpl{sessions: sessions, detailCache: detailCache}
}

func (s *historyServiceImpl) ListSessions(ctx context.Context, limit int) ([]models.CalcSession, error) {
	sessions, err := s.sessions.ListCalcSessions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing calculation sessions: %w", err)
	}
	return sessions, nil
}

// GetSession returns a stored session. Sessions never change after they are
// written, so details stay cached until deleted or expired.
func (s *historyServiceImpl) GetSession(ctx context.Context, id int64) (*models.SessionDetail, error) {
	cacheKey := fmt.Sprintf(ckSessionDetail, id)
	if cached, found := s.detailCache.Get(cacheKey); found {
		logger.FromContext(ctx).Debug("Session detail served from cache", "sessionID", id)
		return cached.(*models.SessionDetail), nil
	}

	detail, err := s.sessions.GetCalcSessionDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	s.detailCache.Set(cacheKey, detail, cache.DefaultExpiration)
	return detail, nil
}

func (s *historyServiceImpl) DeleteSession(ctx context.Context, id int64) error {
	if err := s.sessions.DeleteCalcSession(ctx, id); err != nil {
		return err
	}
	s.detailCache.Delete(fmt.Sprintf(ckSessionDetail, id))
	logger.FromContext(ctx).Info("Calculation session deleted", "sessionID", id)
	return nil
}
