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

var scheduleCols = []string{"id", "store_name", "from_date", "to_date", "status", "submitted_by", "submitted_at", "created_at"}

func TestScheduleRepositoryListWeekOverlapIsBound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	week := query.Week(time.Date(2026, time.February, 16, 0, 0, 0, 0, time.UTC))
	pred := query.Build(query.Criteria{Store: "Main' --", ActiveOn: &week})

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM SecuritySchedules WHERE StoreName = ? AND FromDate < ? AND ToDate >= ?")).
		WithArgs("Main' --", *week.To, *week.From).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM SecuritySchedules WHERE StoreName = ? AND FromDate < ? AND ToDate >= ? ORDER BY FromDate DESC")).
		WithArgs("Main' --", *week.To, *week.From, 0, 20).
		WillReturnRows(sqlmock.NewRows(scheduleCols).
			AddRow(4, "Main' --", *week.From, week.To.AddDate(0, 0, -1), "Submitted", "sam", nil, *week.From))

	items, total, err := NewScheduleRepository(db).List(context.Background(), models.ScheduleKindSecurity, models.ListFilter{Predicate: pred, Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, items, 1)
	require.Equal(t, models.ScheduleKindSecurity, items[0].Kind)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryEmployeesUsesInClause(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	cols := []string{"id", "schedule_id", "employee_name", "position", "sort_order",
		"monday_from", "monday_to", "tuesday_from", "tuesday_to", "wednesday_from", "wednesday_to",
		"thursday_from", "thursday_to", "friday_from", "friday_to", "saturday_from", "saturday_to", "sunday_from", "sunday_to"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM ThirdpartyScheduleEmployees WHERE ScheduleId IN (?, ?)")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(10, 1, "Bo", nil, 1, "08:00", "16:00", nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil).
			AddRow(11, 2, "Cy", "Lead", 1, nil, nil, "22:00", "06:00", nil, nil, nil, nil, nil, nil, nil, nil, nil, nil))

	repo := NewScheduleRepository(db)
	byID, err := repo.Employees(context.Background(), models.ScheduleKindThirdparty, []int64{1, 2})
	require.NoError(t, err)
	require.Len(t, byID[1], 1)
	require.Equal(t, "16:00", *byID[1][0].MondayTo)
	require.Equal(t, "Lead", *byID[2][0].Position)

	empty, err := repo.Employees(context.Background(), models.ScheduleKindThirdparty, nil)
	require.NoError(t, err)
	require.Empty(t, empty)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryStats(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	week := query.Week(time.Date(2026, time.February, 16, 0, 0, 0, 0, time.UTC))
	mock.ExpectQuery(regexp.QuoteMeta("AS active_this_week")).
		WithArgs("Submitted", "Draft", *week.To, *week.From).
		WillReturnRows(sqlmock.NewRows([]string{"total", "submitted", "draft", "active_this_week"}).AddRow(5, 3, 2, 1))

	stats, err := NewScheduleRepository(db).Stats(context.Background(), models.ScheduleKindSecurity, week)
	require.NoError(t, err)
	require.Equal(t, models.ScheduleStats{Total: 5, Submitted: 3, Draft: 2, ActiveThisWeek: 1}, *stats)
	require.NoError(t, mock.ExpectationsWereMet())
}
