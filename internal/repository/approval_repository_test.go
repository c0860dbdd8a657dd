package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/storeops/opsdash-api/internal/models"
	"github.com/storeops/opsdash-api/internal/query"
)

var approvalCols = []string{"id", "store_name", "category", "description", "requested_by", "approver1_status",
	"approver2_status", "approver3_status", "status", "review_notes", "reviewed_by", "reviewed_at", "created_at", "updated_at"}

func TestApprovalRepositoryListPagesAndTagsKind(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	pred := query.Build(query.Criteria{Status: "Pending", Store: "Main"})
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM ProductionExtrasRequests WHERE StoreName = ? AND OverallStatus = ?")).
		WithArgs("Main", "Pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	created := time.Date(2026, time.February, 10, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("HRStatus AS approver3_status")).
		WithArgs("Main", "Pending", 10, 10).
		WillReturnRows(sqlmock.NewRows(approvalCols).
			AddRow(7, "Main", "Overtime", "stocktake", "amy", "Pending", "Pending", "Pending", "Pending", nil, nil, nil, created, nil))

	repo := NewApprovalRepository(db)
	items, total, err := repo.List(context.Background(), models.ApprovalKindProduction, models.ListFilter{Predicate: pred, Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 11, total)
	require.Len(t, items, 1)
	require.Equal(t, models.ApprovalKindProduction, items[0].Kind)
	require.Equal(t, "Pending", *items[0].Approver3Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApprovalRepositoryTheftHasNoApproverSlots(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("NULL AS approver1_status, NULL AS approver2_status, NULL AS approver3_status, COALESCE(Status, '') AS status, ReviewNotes AS review_notes")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(approvalCols).
			AddRow(3, "Annex", "Shoplifting", "two items", "guard", nil, nil, nil, "Open", nil, nil, nil, time.Now(), nil))

	req, err := NewApprovalRepository(db).GetByID(context.Background(), models.ApprovalKindTheft, 3)
	require.NoError(t, err)
	require.Equal(t, models.ApprovalKindTheft, req.Kind)
	require.Nil(t, req.Approver1Status)
	require.Equal(t, "Open", req.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApprovalRepositoryUpdateStatusSingleStatement(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	at := time.Date(2026, time.February, 17, 15, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE ExtraCleaningRequests SET OverallStatus = ?, UpdatedAt = ?, AreaManagerStatus = ?, HeadOfficeStatus = ?, ApprovedBy = ?, ApprovedAt = ? WHERE Id = ?")).
		WithArgs("Approved", at, "Approved", "Approved", "ops@example.com", at, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewApprovalRepository(db)
	err := repo.UpdateStatus(context.Background(), models.ApprovalKindCleaning, UpdateStatusParams{
		ID: 5, Status: "Approved", Actor: "ops@example.com", At: at,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApprovalRepositoryUpdateStatusTheftNotesAndMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	notes := "cctv reviewed"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE TheftIncidents SET Status = ?, UpdatedAt = ?, ReviewedBy = ?, ReviewedAt = ?, ReviewNotes = ? WHERE Id = ?")).
		WithArgs("Reviewed", sqlmock.AnyArg(), "lead", sqlmock.AnyArg(), notes, int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewApprovalRepository(db).UpdateStatus(context.Background(), models.ApprovalKindTheft, UpdateStatusParams{
		ID: 404, Status: "Reviewed", Actor: "lead", Notes: &notes, At: time.Now(),
	})
	require.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApprovalRepositoryStatsCountsOpenAsPendingForTheft(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	today := query.ActiveOn(time.Date(2026, time.February, 17, 0, 0, 0, 0, time.UTC))
	month := query.DateRange{From: today.From, To: today.To}
	mock.ExpectQuery(regexp.QuoteMeta("CASE WHEN Status IN (?, ?)")).
		WithArgs("Open", "Pending", *today.From, *today.To, *month.From, *month.To).
		WillReturnRows(sqlmock.NewRows([]string{"total", "pending", "today", "this_month"}).AddRow(9, 4, 1, 3))

	stats, err := NewApprovalRepository(db).Stats(context.Background(), models.ApprovalKindTheft, today, month)
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStats{Total: 9, Pending: 4, Today: 1, ThisMonth: 3}, *stats)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApprovalRepositoryCountBy(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT OverallStatus AS group_key, COUNT(*) AS group_count FROM ExtraCleaningRequests WHERE StoreName = ? GROUP BY OverallStatus")).
		WithArgs("Main").
		WillReturnRows(sqlmock.NewRows([]string{"group_key", "group_count"}).AddRow("Approved", 2).AddRow("Pending", 5))

	repo := NewApprovalRepository(db)
	counts, err := repo.CountBy(context.Background(), models.ApprovalKindCleaning, query.FieldStatus, query.Build(query.Criteria{Store: "Main"}))
	require.NoError(t, err)
	require.Equal(t, []models.GroupCount{{Key: "Approved", Count: 2}, {Key: "Pending", Count: 5}}, counts)

	_, err = repo.CountBy(context.Background(), models.ApprovalKindCleaning, query.FieldDate, nil)
	require.Error(t, err)
	_, err = repo.CountBy(context.Background(), models.ApprovalKind("payroll"), query.FieldStatus, nil)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
