package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/storeops/opsdash-api/internal/models"
	"github.com/storeops/opsdash-api/internal/query"
)

// approvalTable describes how one request kind is laid out. Empty column
// names mean the table has no such column.
type approvalTable struct {
	name        string
	category    string
	description string
	requestedBy string
	slots       []string
	status      string
	notes       string
	reviewedBy  string
	reviewedAt  string
	pending     []string
}

var approvalTables = map[models.ApprovalKind]approvalTable{
	models.ApprovalKindCleaning: {
		name:        "ExtraCleaningRequests",
		category:    "CleaningType",
		description: "Reason",
		requestedBy: "CreatedBy",
		slots:       []string{"AreaManagerStatus", "HeadOfficeStatus"},
		status:      "OverallStatus",
		reviewedBy:  "ApprovedBy",
		reviewedAt:  "ApprovedAt",
		pending:     []string{models.StatusPending},
	},
	models.ApprovalKindProduction: {
		name:        "ProductionExtrasRequests",
		category:    "ExtraType",
		description: "Description",
		requestedBy: "RequestedBy",
		slots:       []string{"Approver1Status", "Approver2Status", "HRStatus"},
		status:      "OverallStatus",
		reviewedBy:  "ApprovedBy",
		reviewedAt:  "ApprovedAt",
		pending:     []string{models.StatusPending},
	},
	models.ApprovalKindTheft: {
		name:        "TheftIncidents",
		category:    "IncidentType",
		description: "Description",
		requestedBy: "ReportedBy",
		status:      "Status",
		notes:       "ReviewNotes",
		reviewedBy:  "ReviewedBy",
		reviewedAt:  "ReviewedAt",
		pending:     []string{models.StatusOpen, models.StatusPending},
	},
}

func (t approvalTable) selectList() string {
	cols := []string{
		"Id AS id",
		"COALESCE(StoreName, '') AS store_name",
		nullable(t.category, "category"),
		nullable(t.description, "description"),
		nullable(t.requestedBy, "requested_by"),
	}
	for i := 0; i < 3; i++ {
		slot := ""
		if i < len(t.slots) {
			slot = t.slots[i]
		}
		cols = append(cols, nullable(slot, fmt.Sprintf("approver%d_status", i+1)))
	}
	cols = append(cols,
		"COALESCE("+t.status+", '') AS status",
		nullable(t.notes, "review_notes"),
		nullable(t.reviewedBy, "reviewed_by"),
		nullable(t.reviewedAt, "reviewed_at"),
		"CreatedAt AS created_at",
		"UpdatedAt AS updated_at",
	)
	return "SELECT " + strings.Join(cols, ", ") + " FROM " + t.name
}

func (t approvalTable) columns() query.ColumnMap {
	m := query.ColumnMap{
		query.FieldStore:  query.Col("StoreName"),
		query.FieldStatus: query.Col(t.status),
		query.FieldDate:   query.Col("CreatedAt"),
	}
	if t.category != "" {
		m[query.FieldCategory] = query.Col(t.category)
	}
	if t.requestedBy != "" {
		m[query.FieldName] = query.Col(t.requestedBy)
	}
	return m
}

func nullable(column, alias string) string {
	if column == "" {
		return "NULL AS " + alias
	}
	return column + " AS " + alias
}

// ApprovalRepository reads and transitions approval-style requests.
type ApprovalRepository struct {
	db *sqlx.DB
}

// NewApprovalRepository constructs the repository.
func NewApprovalRepository(db *sqlx.DB) *ApprovalRepository {
	return &ApprovalRepository{db: db}
}

func tableFor(kind models.ApprovalKind) (approvalTable, error) {
	t, ok := approvalTables[kind]
	if !ok {
		return approvalTable{}, fmt.Errorf("unknown approval kind %q", kind)
	}
	return t, nil
}

// List returns one page of requests plus the total match count.
func (r *ApprovalRepository) List(ctx context.Context, kind models.ApprovalKind, filter models.ListFilter) ([]models.ApprovalRequest, int, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, 0, err
	}
	clause, args := query.Compile(filter.Predicate, t.columns())
	where := query.Where(clause)

	var total int
	countStmt := r.db.Rebind("SELECT COUNT(*) FROM " + t.name + where)
	if err := r.db.GetContext(ctx, &total, countStmt, args...); err != nil {
		return nil, 0, fmt.Errorf("count %s requests: %w", kind, err)
	}

	stmt := r.db.Rebind(t.selectList() + where + " ORDER BY CreatedAt DESC, Id DESC OFFSET ? ROWS FETCH NEXT ? ROWS ONLY")
	pageArgs := append(append([]interface{}{}, args...), filter.Offset(), filter.PageSize)

	var requests []models.ApprovalRequest
	if err := r.db.SelectContext(ctx, &requests, stmt, pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("list %s requests: %w", kind, err)
	}
	for i := range requests {
		requests[i].Kind = kind
	}
	return requests, total, nil
}

// GetByID loads a single request.
func (r *ApprovalRepository) GetByID(ctx context.Context, kind models.ApprovalKind, id int64) (*models.ApprovalRequest, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	var req models.ApprovalRequest
	if err := r.db.GetContext(ctx, &req, r.db.Rebind(t.selectList()+" WHERE Id = ?"), id); err != nil {
		return nil, err
	}
	req.Kind = kind
	return &req, nil
}

type approvalStatsRow struct {
	Total     int `db:"total"`
	Pending   int `db:"pending"`
	Today     int `db:"today"`
	ThisMonth int `db:"this_month"`
}

// Stats counts all, pending, created-today and created-this-month requests.
func (r *ApprovalRepository) Stats(ctx context.Context, kind models.ApprovalKind, today, month query.DateRange) (*models.ApprovalStats, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.pending)), ", ")
	stmt := r.db.Rebind(fmt.Sprintf(`SELECT COUNT(*) AS total,
       COALESCE(SUM(CASE WHEN %s IN (%s) THEN 1 ELSE 0 END), 0) AS pending,
       COALESCE(SUM(CASE WHEN CreatedAt >= ? AND CreatedAt < ? THEN 1 ELSE 0 END), 0) AS today,
       COALESCE(SUM(CASE WHEN CreatedAt >= ? AND CreatedAt < ? THEN 1 ELSE 0 END), 0) AS this_month
FROM %s`, t.status, placeholders, t.name))

	args := make([]interface{}, 0, len(t.pending)+4)
	for _, status := range t.pending {
		args = append(args, status)
	}
	todayFrom, todayTo := today.Bounds()
	monthFrom, monthTo := month.Bounds()
	args = append(args, todayFrom, todayTo, monthFrom, monthTo)

	var row approvalStatsRow
	if err := r.db.GetContext(ctx, &row, stmt, args...); err != nil {
		return nil, fmt.Errorf("%s stats: %w", kind, err)
	}
	return &models.ApprovalStats{Total: row.Total, Pending: row.Pending, Today: row.Today, ThisMonth: row.ThisMonth}, nil
}

// CountBy groups matching requests by store or status.
func (r *ApprovalRepository) CountBy(ctx context.Context, kind models.ApprovalKind, field query.Field, pred query.Predicate) ([]models.GroupCount, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	columns := t.columns()
	col, ok := columns[field]
	if !ok || (field != query.FieldStore && field != query.FieldStatus) {
		return nil, fmt.Errorf("count %s requests by %s: unsupported field", kind, field)
	}
	clause, args := query.Compile(pred, columns)
	stmt := r.db.Rebind(fmt.Sprintf("SELECT %[1]s AS group_key, COUNT(*) AS group_count FROM %[2]s%[3]s GROUP BY %[1]s ORDER BY %[1]s",
		col.Expr, t.name, query.Where(clause)))

	var rows []struct {
		Key   sql.NullString `db:"group_key"`
		Count int            `db:"group_count"`
	}
	if err := r.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, fmt.Errorf("count %s requests by %s: %w", kind, field, err)
	}
	counts := make([]models.GroupCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, models.GroupCount{Key: row.Key.String, Count: row.Count})
	}
	return counts, nil
}

// UpdateStatusParams groups the columns written by a status transition.
type UpdateStatusParams struct {
	ID     int64
	Status string
	Actor  string
	Notes  *string
	At     time.Time
}

// UpdateStatus writes the overall status, every approver slot and the review
// metadata in one statement. It returns sql.ErrNoRows when the id is unknown.
func (r *ApprovalRepository) UpdateStatus(ctx context.Context, kind models.ApprovalKind, params UpdateStatusParams) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}
	setParts := []string{t.status + " = :status", "UpdatedAt = :at"}
	for _, slot := range t.slots {
		setParts = append(setParts, slot+" = :status")
	}
	if t.reviewedBy != "" {
		setParts = append(setParts, t.reviewedBy+" = :actor")
	}
	if t.reviewedAt != "" {
		setParts = append(setParts, t.reviewedAt+" = :at")
	}
	if t.notes != "" && params.Notes != nil {
		setParts = append(setParts, t.notes+" = :notes")
	}
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE Id = :id", t.name, strings.Join(setParts, ", "))

	result, err := r.db.NamedExecContext(ctx, stmt, map[string]interface{}{
		"id":     params.ID,
		"status": params.Status,
		"actor":  params.Actor,
		"notes":  params.Notes,
		"at":     params.At,
	})
	if err != nil {
		return fmt.Errorf("update %s status: %w", kind, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check %s update rows: %w", kind, err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
