package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/storeops/opsdash-api/internal/models"
	"github.com/storeops/opsdash-api/internal/query"
)

const attendanceSelect = `SELECT Id AS id, StoreName AS store_name, StoreCode AS store_code, FirstName AS first_name,
       LastName AS last_name, Company AS company, WorkerType AS worker_type, AttendanceDate AS attendance_date,
       TimeIn AS time_in, TimeOut AS time_out, TotalDuration AS total_duration, UploadedBy AS uploaded_by,
       BatchId AS batch_id, UploadedAt AS uploaded_at
FROM AttendanceRecords`

var attendanceColumns = query.ColumnMap{
	query.FieldStore:      query.Col("StoreName"),
	query.FieldCompany:    query.Col("Company"),
	query.FieldWorkerType: query.Col("WorkerType"),
	query.FieldName:       query.Col("CONCAT(FirstName, ' ', LastName)"),
	query.FieldDate:       query.Col("AttendanceDate"),
}

var attendanceDistinctColumns = map[query.Field]string{
	query.FieldStore:      "StoreName",
	query.FieldCompany:    "Company",
	query.FieldWorkerType: "WorkerType",
}

// AttendanceRepository reads uploaded attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// attendanceRow tolerates NULL text columns left by partial uploads.
type attendanceRow struct {
	ID             int64          `db:"id"`
	StoreName      sql.NullString `db:"store_name"`
	StoreCode      *string        `db:"store_code"`
	FirstName      sql.NullString `db:"first_name"`
	LastName       sql.NullString `db:"last_name"`
	Company        sql.NullString `db:"company"`
	WorkerType     sql.NullString `db:"worker_type"`
	AttendanceDate time.Time      `db:"attendance_date"`
	TimeIn         *string        `db:"time_in"`
	TimeOut        *string        `db:"time_out"`
	TotalDuration  *string        `db:"total_duration"`
	UploadedBy     *string        `db:"uploaded_by"`
	BatchID        *string        `db:"batch_id"`
	UploadedAt     time.Time      `db:"uploaded_at"`
}

func (r attendanceRow) toModel() models.AttendanceRecord {
	return models.AttendanceRecord{
		ID:             r.ID,
		StoreName:      r.StoreName.String,
		StoreCode:      r.StoreCode,
		FirstName:      r.FirstName.String,
		LastName:       r.LastName.String,
		Company:        r.Company.String,
		WorkerType:     r.WorkerType.String,
		AttendanceDate: r.AttendanceDate,
		TimeIn:         r.TimeIn,
		TimeOut:        r.TimeOut,
		TotalDuration:  r.TotalDuration,
		UploadedBy:     r.UploadedBy,
		BatchID:        r.BatchID,
		UploadedAt:     r.UploadedAt,
	}
}

// List returns every record matching the predicate, newest first.
func (r *AttendanceRepository) List(ctx context.Context, pred query.Predicate) ([]models.AttendanceRecord, error) {
	clause, args := query.Compile(pred, attendanceColumns)
	stmt := r.db.Rebind(attendanceSelect + query.Where(clause) + " ORDER BY AttendanceDate DESC, Id DESC")

	var rows []attendanceRow
	if err := r.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	records := make([]models.AttendanceRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toModel())
	}
	return records, nil
}

type attendanceStatsRow struct {
	Total     int `db:"total"`
	Companies int `db:"companies"`
	ThisMonth int `db:"this_month"`
}

// Stats counts all records, distinct companies and records dated inside month.
func (r *AttendanceRepository) Stats(ctx context.Context, month query.DateRange) (*models.AttendanceStats, error) {
	from, to := month.Bounds()
	stmt := r.db.Rebind(`SELECT COUNT(*) AS total,
       COUNT(DISTINCT Company) AS companies,
       COALESCE(SUM(CASE WHEN AttendanceDate >= ? AND AttendanceDate < ? THEN 1 ELSE 0 END), 0) AS this_month
FROM AttendanceRecords`)

	var row attendanceStatsRow
	if err := r.db.GetContext(ctx, &row, stmt, from, to); err != nil {
		return nil, fmt.Errorf("attendance stats: %w", err)
	}
	return &models.AttendanceStats{Total: row.Total, Companies: row.Companies, ThisMonth: row.ThisMonth}, nil
}

// Distinct lists the non-empty values of a dropdown dimension.
func (r *AttendanceRepository) Distinct(ctx context.Context, field query.Field) ([]string, error) {
	column, ok := attendanceDistinctColumns[field]
	if !ok {
		return nil, fmt.Errorf("distinct attendance %s: unsupported field", field)
	}
	stmt := fmt.Sprintf("SELECT DISTINCT %[1]s FROM AttendanceRecords WHERE %[1]s IS NOT NULL AND %[1]s <> '' ORDER BY %[1]s", column)

	var values []string
	if err := r.db.SelectContext(ctx, &values, stmt); err != nil {
		return nil, fmt.Errorf("distinct attendance %s: %w", field, err)
	}
	return values, nil
}
