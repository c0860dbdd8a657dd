package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/storeops/opsdash-api/internal/models"
	"github.com/storeops/opsdash-api/internal/query"
	appErrors "github.com/storeops/opsdash-api/pkg/errors"
)

type feedbackRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Feedback, int, error)
	Stats(ctx context.Context, month query.DateRange) (*models.FeedbackStats, error)
}

// FeedbackService serves the feedback dashboard.
type FeedbackService struct {
	repo   feedbackRepository
	cache  *CacheService
	logger *zap.Logger
	cfg    DashboardConfig
	now    func() time.Time
}

// NewFeedbackService constructs a FeedbackService.
func NewFeedbackService(repo feedbackRepository, cache *CacheService, logger *zap.Logger, cfg DashboardConfig) *FeedbackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{repo: repo, cache: cache, logger: logger, cfg: cfg.withDefaults(), now: time.Now}
}

// Clock anchors relative periods in the configured timezone.
func (s *FeedbackService) Clock() query.Clock {
	return query.Clock{Now: s.now().In(s.cfg.Location), WeekStart: s.cfg.WeekStart}
}

// List returns a page of feedback.
func (s *FeedbackService) List(ctx context.Context, criteria query.Criteria, page, pageSize int) ([]models.Feedback, *models.Pagination, error) {
	page, pageSize = normalizePage(page, pageSize)
	items, total, err := s.repo.List(ctx, models.ListFilter{Predicate: query.Build(criteria), Page: page, PageSize: pageSize})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to list feedback")
	}
	if items == nil {
		items = []models.Feedback{}
	}
	return items, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Stats returns feedback counters with the average rounded to two places.
// Store failures degrade to zeros.
func (s *FeedbackService) Stats(ctx context.Context) (models.FeedbackStats, bool) {
	key := CacheKey("stats", "feedback")
	var cached models.FeedbackStats
	if s.cache.Get(ctx, key, &cached) {
		return cached, true
	}

	month, _ := query.ResolvePeriod(query.PeriodThisMonth, nil, nil, s.Clock().Now, s.cfg.WeekStart)
	stats, err := s.repo.Stats(ctx, *month)
	if err != nil {
		s.logger.Error("feedback stats failed; returning zeros", zap.Error(err))
		return models.FeedbackStats{}, false
	}
	stats.AverageRating = math.Round(stats.AverageRating*100) / 100
	s.cache.Set(ctx, key, stats, s.cfg.CacheTTL)
	return *stats, false
}
