package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/storeops/opsdash-api/internal/models"
	"github.com/storeops/opsdash-api/internal/query"
	appErrors "github.com/storeops/opsdash-api/pkg/errors"
)

type attendanceRepository interface {
	List(ctx context.Context, pred query.Predicate) ([]models.AttendanceRecord, error)
	Stats(ctx context.Context, month query.DateRange) (*models.AttendanceStats, error)
	Distinct(ctx context.Context, field query.Field) ([]string, error)
}

// DashboardConfig holds the settings shared by the dashboard services.
type DashboardConfig struct {
	CacheTTL    time.Duration
	WeekStart   time.Weekday
	Location    *time.Location
	RawRowLimit int
}

func (c DashboardConfig) withDefaults() DashboardConfig {
	if c.CacheTTL <= 0 {
		c.CacheTTL = 2 * time.Minute
	}
	if c.Location == nil {
		c.Location = time.Local
	}
	if c.RawRowLimit <= 0 {
		c.RawRowLimit = 500
	}
	return c
}

// AttendanceServiceParams groups constructor dependencies.
type AttendanceServiceParams struct {
	Repo    attendanceRepository
	Cache   *CacheService
	Metrics *MetricsService
	Logger  *zap.Logger
	Config  DashboardConfig
}

// AttendanceService composes the attendance dashboard.
type AttendanceService struct {
	repo    attendanceRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     DashboardConfig
	now     func() time.Time
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(params AttendanceServiceParams) *AttendanceService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		repo:    params.Repo,
		cache:   params.Cache,
		metrics: params.Metrics,
		logger:  logger,
		cfg:     params.Config.withDefaults(),
		now:     time.Now,
	}
}

// Clock anchors relative periods in the configured timezone.
func (s *AttendanceService) Clock() query.Clock {
	return query.Clock{Now: s.now().In(s.cfg.Location), WeekStart: s.cfg.WeekStart}
}

// Records returns every record matching criteria together with the predicate used.
func (s *AttendanceService) Records(ctx context.Context, criteria query.Criteria) ([]models.AttendanceRecord, query.Predicate, error) {
	pred := query.Build(criteria)
	start := time.Now()
	records, err := s.repo.List(ctx, pred)
	s.metrics.ObserveDBQuery("attendance_list", time.Since(start))
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load attendance")
	}
	return MatchAttendance(records, pred), pred, nil
}

// Dashboard aggregates the full filtered set and returns at most RawRowLimit
// raw rows alongside the dropdown options.
func (s *AttendanceService) Dashboard(ctx context.Context, criteria query.Criteria, groupBy models.AttendanceGroupBy) (*models.AttendanceDashboard, error) {
	var (
		records []models.AttendanceRecord
		pred    query.Predicate
		filters *models.AttendanceFilterOptions
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, pred, err = s.Records(gctx, criteria)
		return err
	})
	g.Go(func() error {
		opts, _, err := s.FilterOptions(gctx)
		if err != nil {
			s.logger.Warn("attendance filter options unavailable", zap.Error(err))
			return nil
		}
		filters = opts
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dashboard := &models.AttendanceDashboard{
		AttendanceAggregation: AggregateAttendance(records, pred, groupBy),
		RowLimit:              s.cfg.RawRowLimit,
		Filters:               filters,
	}
	dashboard.Rows = make([]models.AttendanceRecord, 0, min(len(records), s.cfg.RawRowLimit))
	for _, record := range records {
		if len(dashboard.Rows) == s.cfg.RawRowLimit {
			dashboard.Truncated = true
			break
		}
		dashboard.Rows = append(dashboard.Rows, record)
	}
	return dashboard, nil
}

// Stats returns the headline counters. Store failures degrade to zeros.
func (s *AttendanceService) Stats(ctx context.Context) (models.AttendanceStats, bool) {
	key := CacheKey("stats", "attendance")
	var cached models.AttendanceStats
	if s.cache.Get(ctx, key, &cached) {
		return cached, true
	}

	month, _ := query.ResolvePeriod(query.PeriodThisMonth, nil, nil, s.Clock().Now, s.cfg.WeekStart)
	start := time.Now()
	stats, err := s.repo.Stats(ctx, *month)
	s.metrics.ObserveDBQuery("attendance_stats", time.Since(start))
	if err != nil {
		s.logger.Error("attendance stats failed; returning zeros", zap.Error(err))
		return models.AttendanceStats{}, false
	}
	s.cache.Set(ctx, key, stats, s.cfg.CacheTTL)
	return *stats, false
}

// FilterOptions lists distinct stores, companies and worker types.
func (s *AttendanceService) FilterOptions(ctx context.Context) (*models.AttendanceFilterOptions, bool, error) {
	key := CacheKey("filters", "attendance")
	var cached models.AttendanceFilterOptions
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	opts := &models.AttendanceFilterOptions{}
	targets := map[query.Field]*[]string{
		query.FieldStore:      &opts.Stores,
		query.FieldCompany:    &opts.Companies,
		query.FieldWorkerType: &opts.WorkerTypes,
	}
	g, gctx := errgroup.WithContext(ctx)
	for field, dest := range targets {
		field, dest := field, dest
		g.Go(func() error {
			values, err := s.repo.Distinct(gctx, field)
			if err != nil {
				return err
			}
			if values == nil {
				values = []string{}
			}
			*dest = values
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load attendance filters")
	}
	s.cache.Set(ctx, key, opts, s.cfg.CacheTTL)
	return opts, false, nil
}
