package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/storeops/opsdash-api/internal/models"
	"github.com/storeops/opsdash-api/internal/query"
	"github.com/storeops/opsdash-api/internal/repository"
	appErrors "github.com/storeops/opsdash-api/pkg/errors"
)

type approvalRepository interface {
	List(ctx context.Context, kind models.ApprovalKind, filter models.ListFilter) ([]models.ApprovalRequest, int, error)
	GetByID(ctx context.Context, kind models.ApprovalKind, id int64) (*models.ApprovalRequest, error)
	Stats(ctx context.Context, kind models.ApprovalKind, today, month query.DateRange) (*models.ApprovalStats, error)
	CountBy(ctx context.Context, kind models.ApprovalKind, field query.Field, pred query.Predicate) ([]models.GroupCount, error)
	UpdateStatus(ctx context.Context, kind models.ApprovalKind, params repository.UpdateStatusParams) error
}

// ApprovalServiceParams groups constructor dependencies.
type ApprovalServiceParams struct {
	Repo    approvalRepository
	Gate    *StatusGate
	Cache   *CacheService
	Metrics *MetricsService
	Logger  *zap.Logger
	Config  DashboardConfig
}

// ApprovalService serves cleaning requests, production extras and theft incidents.
type ApprovalService struct {
	repo    approvalRepository
	gate    *StatusGate
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     DashboardConfig
	now     func() time.Time
}

// NewApprovalService constructs an ApprovalService.
func NewApprovalService(params ApprovalServiceParams) *ApprovalService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gate := params.Gate
	if gate == nil {
		gate = NewStatusGate()
	}
	return &ApprovalService{
		repo:    params.Repo,
		gate:    gate,
		cache:   params.Cache,
		metrics: params.Metrics,
		logger:  logger,
		cfg:     params.Config.withDefaults(),
		now:     time.Now,
	}
}

// Clock anchors relative periods in the configured timezone.
func (s *ApprovalService) Clock() query.Clock {
	return query.Clock{Now: s.now().In(s.cfg.Location), WeekStart: s.cfg.WeekStart}
}

// List returns a page of requests matching criteria.
func (s *ApprovalService) List(ctx context.Context, kind models.ApprovalKind, criteria query.Criteria, page, pageSize int) ([]models.ApprovalRequest, *models.Pagination, error) {
	page, pageSize = normalizePage(page, pageSize)
	start := time.Now()
	items, total, err := s.repo.List(ctx, kind, models.ListFilter{Predicate: query.Build(criteria), Page: page, PageSize: pageSize})
	s.metrics.ObserveDBQuery(string(kind)+"_list", time.Since(start))
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to list requests")
	}
	if items == nil {
		items = []models.ApprovalRequest{}
	}
	return items, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns a single request.
func (s *ApprovalService) Get(ctx context.Context, kind models.ApprovalKind, id int64) (*models.ApprovalRequest, error) {
	req, err := s.repo.GetByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load request")
	}
	return req, nil
}

// CountBy groups matching requests by store or status.
func (s *ApprovalService) CountBy(ctx context.Context, kind models.ApprovalKind, field query.Field, criteria query.Criteria) ([]models.GroupCount, error) {
	if field != query.FieldStore && field != query.FieldStatus {
		return nil, appErrors.Clone(appErrors.ErrValidation, "groupBy must be status or store")
	}
	counts, err := s.repo.CountBy(ctx, kind, field, query.Build(criteria))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to group requests")
	}
	return counts, nil
}

// Stats returns headline counters. Store failures degrade to zeros.
func (s *ApprovalService) Stats(ctx context.Context, kind models.ApprovalKind) (models.ApprovalStats, bool) {
	key := CacheKey("stats", string(kind))
	var cached models.ApprovalStats
	if s.cache.Get(ctx, key, &cached) {
		return cached, true
	}

	now := s.Clock().Now
	today, _ := query.ResolvePeriod(query.PeriodToday, nil, nil, now, s.cfg.WeekStart)
	month, _ := query.ResolvePeriod(query.PeriodThisMonth, nil, nil, now, s.cfg.WeekStart)
	start := time.Now()
	stats, err := s.repo.Stats(ctx, kind, *today, *month)
	s.metrics.ObserveDBQuery(string(kind)+"_stats", time.Since(start))
	if err != nil {
		s.logger.Error("approval stats failed; returning zeros", zap.String("kind", string(kind)), zap.Error(err))
		return models.ApprovalStats{}, false
	}
	s.cache.Set(ctx, key, stats, s.cfg.CacheTTL)
	return *stats, false
}

// UpdateStatus validates the target status and persists it with one UPDATE.
func (s *ApprovalService) UpdateStatus(ctx context.Context, kind models.ApprovalKind, id int64, status string, notes *string, actor string) (*Transition, error) {
	req, err := s.repo.GetByID(ctx, kind, id)
	if err != nil {
		return nil, s.statusUpdateError(kind, id, err)
	}
	transition, err := s.gate.Apply(req, status, actor, notes, s.now().UTC())
	if err != nil {
		return nil, err
	}

	err = s.repo.UpdateStatus(ctx, kind, repository.UpdateStatusParams{
		ID:     id,
		Status: transition.To,
		Actor:  actor,
		Notes:  transition.Notes,
		At:     transition.At,
	})
	if err != nil {
		return nil, s.statusUpdateError(kind, id, err)
	}

	s.metrics.RecordStatusTransition(kind, transition.To)
	s.cache.Invalidate(ctx, CacheKey("stats", string(kind))+"*")
	s.logger.Info("status updated",
		zap.String("kind", string(kind)),
		zap.Int64("id", id),
		zap.String("from", transition.From),
		zap.String("to", transition.To),
		zap.String("actor", actor),
	)
	return transition, nil
}

// statusUpdateError maps a missing row to 404 and anything else to
// STATUS_UPDATE_FAILED carrying the driver message.
func (s *ApprovalService) statusUpdateError(kind models.ApprovalKind, id int64, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}
	s.logger.Error("status update failed", zap.String("kind", string(kind)), zap.Int64("id", id), zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrStatusUpdateFailed.Code, appErrors.ErrStatusUpdateFailed.Status, appErrors.ErrStatusUpdateFailed.Message)
}

func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
