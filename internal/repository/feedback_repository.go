package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/storeops/opsdash-api/internal/models"
	"github.com/storeops/opsdash-api/internal/query"
)

var feedbackColumns = query.ColumnMap{
	query.FieldStore:    query.Col("StoreName"),
	query.FieldCategory: query.Col("Category"),
	query.FieldName:     query.Col("SubmittedBy"),
	query.FieldDate:     query.Col("CreatedAt"),
}

const feedbackSelect = `SELECT Id AS id, COALESCE(StoreName, '') AS store_name, COALESCE(Category, '') AS category, Rating AS rating,
       Comment AS comment, SubmittedBy AS submitted_by, CreatedAt AS created_at
FROM StoreFeedback`

// FeedbackRepository reads store feedback.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository constructs the repository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// List returns one page of feedback plus the total match count.
func (r *FeedbackRepository) List(ctx context.Context, filter models.ListFilter) ([]models.Feedback, int, error) {
	clause, args := query.Compile(filter.Predicate, feedbackColumns)
	where := query.Where(clause)

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind("SELECT COUNT(*) FROM StoreFeedback"+where), args...); err != nil {
		return nil, 0, fmt.Errorf("count feedback: %w", err)
	}

	stmt := r.db.Rebind(feedbackSelect + where + " ORDER BY CreatedAt DESC, Id DESC OFFSET ? ROWS FETCH NEXT ? ROWS ONLY")
	pageArgs := append(append([]interface{}{}, args...), filter.Offset(), filter.PageSize)

	var items []models.Feedback
	if err := r.db.SelectContext(ctx, &items, stmt, pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("list feedback: %w", err)
	}
	return items, total, nil
}

type feedbackStatsRow struct {
	Total         int     `db:"total"`
	AverageRating float64 `db:"average_rating"`
	ThisMonth     int     `db:"this_month"`
}

// Stats counts feedback, averages ratings and counts this month's entries.
func (r *FeedbackRepository) Stats(ctx context.Context, month query.DateRange) (*models.FeedbackStats, error) {
	stmt := r.db.Rebind(`SELECT COUNT(*) AS total,
       COALESCE(AVG(CAST(Rating AS FLOAT)), 0) AS average_rating,
       COALESCE(SUM(CASE WHEN CreatedAt >= ? AND CreatedAt < ? THEN 1 ELSE 0 END), 0) AS this_month
FROM StoreFeedback`)

	from, to := month.Bounds()
	var row feedbackStatsRow
	if err := r.db.GetContext(ctx, &row, stmt, from, to); err != nil {
		return nil, fmt.Errorf("feedback stats: %w", err)
	}
	return &models.FeedbackStats{Total: row.Total, AverageRating: row.AverageRating, ThisMonth: row.ThisMonth}, nil
}
