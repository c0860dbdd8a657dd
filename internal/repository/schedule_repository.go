package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/storeops/opsdash-api/internal/models"
	"github.com/storeops/opsdash-api/internal/query"
)

type scheduleTable struct {
	header    string
	employees string
}

var scheduleTables = map[models.ScheduleKind]scheduleTable{
	models.ScheduleKindSecurity:   {header: "SecuritySchedules", employees: "SecurityScheduleEmployees"},
	models.ScheduleKindThirdparty: {header: "ThirdpartySchedules", employees: "ThirdpartyScheduleEmployees"},
}

var scheduleColumns = query.ColumnMap{
	query.FieldStore:  query.Col("StoreName"),
	query.FieldStatus: query.Col("Status"),
	query.FieldDate:   query.Col("FromDate"),
	query.FieldActive: query.Span("FromDate", "ToDate"),
}

const scheduleSelect = `SELECT Id AS id, COALESCE(StoreName, '') AS store_name, FromDate AS from_date, ToDate AS to_date,
       COALESCE(Status, '') AS status, SubmittedBy AS submitted_by, SubmittedAt AS submitted_at, CreatedAt AS created_at
FROM %s`

const scheduleEmployeeSelect = `SELECT Id AS id, ScheduleId AS schedule_id, COALESCE(EmployeeName, '') AS employee_name, Position AS position,
       SortOrder AS sort_order, MondayFrom AS monday_from, MondayTo AS monday_to, TuesdayFrom AS tuesday_from,
       TuesdayTo AS tuesday_to, WednesdayFrom AS wednesday_from, WednesdayTo AS wednesday_to,
       ThursdayFrom AS thursday_from, ThursdayTo AS thursday_to, FridayFrom AS friday_from, FridayTo AS friday_to,
       SaturdayFrom AS saturday_from, SaturdayTo AS saturday_to, SundayFrom AS sunday_from, SundayTo AS sunday_to
FROM %s WHERE ScheduleId IN (?) ORDER BY ScheduleId, SortOrder, Id`

// ScheduleRepository reads security and thirdparty schedules.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func scheduleTableFor(kind models.ScheduleKind) (scheduleTable, error) {
	t, ok := scheduleTables[kind]
	if !ok {
		return scheduleTable{}, fmt.Errorf("unknown schedule kind %q", kind)
	}
	return t, nil
}

// List returns one page of schedule headers plus the total match count.
func (r *ScheduleRepository) List(ctx context.Context, kind models.ScheduleKind, filter models.ListFilter) ([]models.Schedule, int, error) {
	t, err := scheduleTableFor(kind)
	if err != nil {
		return nil, 0, err
	}
	clause, args := query.Compile(filter.Predicate, scheduleColumns)
	where := query.Where(clause)

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind("SELECT COUNT(*) FROM "+t.header+where), args...); err != nil {
		return nil, 0, fmt.Errorf("count %s schedules: %w", kind, err)
	}

	stmt := r.db.Rebind(fmt.Sprintf(scheduleSelect, t.header) + where + " ORDER BY FromDate DESC, Id DESC OFFSET ? ROWS FETCH NEXT ? ROWS ONLY")
	pageArgs := append(append([]interface{}{}, args...), filter.Offset(), filter.PageSize)

	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, stmt, pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("list %s schedules: %w", kind, err)
	}
	for i := range schedules {
		schedules[i].Kind = kind
	}
	return schedules, total, nil
}

// GetByID loads a schedule header without employees.
func (r *ScheduleRepository) GetByID(ctx context.Context, kind models.ScheduleKind, id int64) (*models.Schedule, error) {
	t, err := scheduleTableFor(kind)
	if err != nil {
		return nil, err
	}
	var schedule models.Schedule
	stmt := r.db.Rebind(fmt.Sprintf(scheduleSelect, t.header) + " WHERE Id = ?")
	if err := r.db.GetContext(ctx, &schedule, stmt, id); err != nil {
		return nil, err
	}
	schedule.Kind = kind
	return &schedule, nil
}

// Employees loads employee rows for the given schedules keyed by schedule id.
func (r *ScheduleRepository) Employees(ctx context.Context, kind models.ScheduleKind, scheduleIDs []int64) (map[int64][]models.ScheduleEmployee, error) {
	result := make(map[int64][]models.ScheduleEmployee, len(scheduleIDs))
	if len(scheduleIDs) == 0 {
		return result, nil
	}
	t, err := scheduleTableFor(kind)
	if err != nil {
		return nil, err
	}
	stmt, args, err := sqlx.In(fmt.Sprintf(scheduleEmployeeSelect, t.employees), scheduleIDs)
	if err != nil {
		return nil, fmt.Errorf("build %s employee query: %w", kind, err)
	}

	var rows []models.ScheduleEmployee
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(stmt), args...); err != nil {
		return nil, fmt.Errorf("list %s schedule employees: %w", kind, err)
	}
	for _, row := range rows {
		result[row.ScheduleID] = append(result[row.ScheduleID], row)
	}
	return result, nil
}

type scheduleStatsRow struct {
	Total          int `db:"total"`
	Submitted      int `db:"submitted"`
	Draft          int `db:"draft"`
	ActiveThisWeek int `db:"active_this_week"`
}

// Stats counts schedules by status and those overlapping week.
func (r *ScheduleRepository) Stats(ctx context.Context, kind models.ScheduleKind, week query.DateRange) (*models.ScheduleStats, error) {
	t, err := scheduleTableFor(kind)
	if err != nil {
		return nil, err
	}
	stmt := r.db.Rebind(fmt.Sprintf(`SELECT COUNT(*) AS total,
       COALESCE(SUM(CASE WHEN Status = ? THEN 1 ELSE 0 END), 0) AS submitted,
       COALESCE(SUM(CASE WHEN Status = ? THEN 1 ELSE 0 END), 0) AS draft,
       COALESCE(SUM(CASE WHEN FromDate < ? AND ToDate >= ? THEN 1 ELSE 0 END), 0) AS active_this_week
FROM %s`, t.header))

	from, to := week.Bounds()
	var row scheduleStatsRow
	if err := r.db.GetContext(ctx, &row, stmt, models.ScheduleStatusSubmitted, models.ScheduleStatusDraft, to, from); err != nil {
		return nil, fmt.Errorf("%s schedule stats: %w", kind, err)
	}
	return &models.ScheduleStats{
		Total:          row.Total,
		Submitted:      row.Submitted,
		Draft:          row.Draft,
		ActiveThisWeek: row.ActiveThisWeek,
	}, nil
}
