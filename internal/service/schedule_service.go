package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/storeops/opsdash-api/internal/models"
	"github.com/storeops/opsdash-api/internal/query"
	appErrors "github.com/storeops/opsdash-api/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context, kind models.ScheduleKind, filter models.ListFilter) ([]models.Schedule, int, error)
	GetByID(ctx context.Context, kind models.ScheduleKind, id int64) (*models.Schedule, error)
	Employees(ctx context.Context, kind models.ScheduleKind, scheduleIDs []int64) (map[int64][]models.ScheduleEmployee, error)
	Stats(ctx context.Context, kind models.ScheduleKind, week query.DateRange) (*models.ScheduleStats, error)
}

// ScheduleService serves the read-only security and thirdparty schedule reviews.
type ScheduleService struct {
	repo    scheduleRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     DashboardConfig
	now     func() time.Time
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(repo scheduleRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg DashboardConfig) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, cache: cache, metrics: metrics, logger: logger, cfg: cfg.withDefaults(), now: time.Now}
}

// Clock anchors relative periods in the configured timezone.
func (s *ScheduleService) Clock() query.Clock {
	return query.Clock{Now: s.now().In(s.cfg.Location), WeekStart: s.cfg.WeekStart}
}

// List returns a page of schedules with their employee rows.
func (s *ScheduleService) List(ctx context.Context, kind models.ScheduleKind, criteria query.Criteria, page, pageSize int) ([]models.Schedule, *models.Pagination, error) {
	page, pageSize = normalizePage(page, pageSize)
	start := time.Now()
	items, total, err := s.repo.List(ctx, kind, models.ListFilter{Predicate: query.Build(criteria), Page: page, PageSize: pageSize})
	s.metrics.ObserveDBQuery(string(kind)+"_schedule_list", time.Since(start))
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to list schedules")
	}
	if items == nil {
		items = []models.Schedule{}
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	employees, err := s.repo.Employees(ctx, kind, ids)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load schedule employees")
	}
	for i := range items {
		items[i].Employees = employees[items[i].ID]
	}
	return items, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns one schedule with its employee rows.
func (s *ScheduleService) Get(ctx context.Context, kind models.ScheduleKind, id int64) (*models.Schedule, error) {
	schedule, err := s.repo.GetByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load schedule")
	}
	employees, err := s.repo.Employees(ctx, kind, []int64{id})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load schedule employees")
	}
	schedule.Employees = employees[id]
	return schedule, nil
}

// Stats counts schedules by status and those active in the current week.
// Store failures degrade to zeros.
func (s *ScheduleService) Stats(ctx context.Context, kind models.ScheduleKind) (models.ScheduleStats, bool) {
	key := CacheKey("stats", "schedule", string(kind))
	var cached models.ScheduleStats
	if s.cache.Get(ctx, key, &cached) {
		return cached, true
	}

	clock := s.Clock()
	week := query.Week(query.WeekStart(clock.Now, clock.WeekStart))
	stats, err := s.repo.Stats(ctx, kind, week)
	if err != nil {
		s.logger.Error("schedule stats failed; returning zeros", zap.String("kind", string(kind)), zap.Error(err))
		return models.ScheduleStats{}, false
	}
	s.cache.Set(ctx, key, stats, s.cfg.CacheTTL)
	return *stats, false
}
