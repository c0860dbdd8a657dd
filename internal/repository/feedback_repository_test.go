package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/storeops/opsdash-api/internal/models"
	"github.com/storeops/opsdash-api/internal/query"
)

func TestFeedbackRepositoryListBindsStoreInsteadOfInterpolating(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	hostile := "x'; DROP TABLE StoreFeedback; --"
	pred := query.Build(query.Criteria{Store: hostile})

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM StoreFeedback WHERE StoreName = ?")).
		WithArgs(hostile).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM StoreFeedback WHERE StoreName = ? ORDER BY CreatedAt DESC")).
		WithArgs(hostile, 0, 25).
		WillReturnRows(sqlmock.NewRows([]string{"id", "store_name", "category", "rating", "comment", "submitted_by", "created_at"}))

	items, total, err := NewFeedbackRepository(db).List(context.Background(), models.ListFilter{Predicate: pred, PageSize: 25})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryStats(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	now := time.Date(2026, time.February, 17, 0, 0, 0, 0, time.UTC)
	month, err := query.ResolvePeriod(query.PeriodThisMonth, nil, nil, now, time.Monday)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("AVG(CAST(Rating AS FLOAT))")).
		WithArgs(*month.From, *month.To).
		WillReturnRows(sqlmock.NewRows([]string{"total", "average_rating", "this_month"}).AddRow(8, 4.25, 2))

	stats, err := NewFeedbackRepository(db).Stats(context.Background(), *month)
	require.NoError(t, err)
	require.Equal(t, models.FeedbackStats{Total: 8, AverageRating: 4.25, ThisMonth: 2}, *stats)
	require.NoError(t, mock.ExpectationsWereMet())
}
