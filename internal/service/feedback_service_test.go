package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeops/opsdash-api/internal/models"
	"github.com/storeops/opsdash-api/internal/query"
)

type feedbackRepoStub struct {
	filter   models.ListFilter
	month    query.DateRange
	statsErr error
}

func (s *feedbackRepoStub) List(ctx context.Context, filter models.ListFilter) ([]models.Feedback, int, error) {
	s.filter = filter
	return nil, 0, nil
}

func (s *feedbackRepoStub) Stats(ctx context.Context, month query.DateRange) (*models.FeedbackStats, error) {
	s.month = month
	if s.statsErr != nil {
		return nil, s.statsErr
	}
	return &models.FeedbackStats{Total: 3, AverageRating: 4.3333333, ThisMonth: 1}, nil
}

func TestFeedbackServiceStatsRoundsAverage(t *testing.T) {
	repo := &feedbackRepoStub{}
	svc := NewFeedbackService(repo, nil, nil, DashboardConfig{Location: time.UTC})
	svc.now = func() time.Time { return time.Date(2026, time.February, 17, 9, 0, 0, 0, time.UTC) }

	stats, _ := svc.Stats(context.Background())
	assert.Equal(t, 4.33, stats.AverageRating)
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), *repo.month.From)

	repo.statsErr = errors.New("offline")
	stats, _ = svc.Stats(context.Background())
	assert.Equal(t, models.FeedbackStats{}, stats)
}

func TestFeedbackServiceListReturnsEmptySlice(t *testing.T) {
	repo := &feedbackRepoStub{}
	svc := NewFeedbackService(repo, nil, nil, DashboardConfig{})

	items, pagination, err := svc.List(context.Background(), query.Criteria{Store: "Main", Category: "Service"}, 3, 10)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Equal(t, 3, pagination.Page)
	assert.Len(t, repo.filter.Predicate, 2)
	assert.Equal(t, 20, repo.filter.Offset())
}
