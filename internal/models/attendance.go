package models

import (
	"strings"
	"time"
)

// AttendanceRecord is one uploaded attendance line. Rows are immutable once uploaded.
type AttendanceRecord struct {
	ID             int64     `db:"id" json:"id"`
	StoreName      string    `db:"store_name" json:"storeName"`
	StoreCode      *string   `db:"store_code" json:"storeCode,omitempty"`
	FirstName      string    `db:"first_name" json:"firstName"`
	LastName       string    `db:"last_name" json:"lastName"`
	Company        string    `db:"company" json:"company"`
	WorkerType     string    `db:"worker_type" json:"workerType"`
	AttendanceDate time.Time `db:"attendance_date" json:"attendanceDate"`
	TimeIn         *string   `db:"time_in" json:"timeIn,omitempty"`
	TimeOut        *string   `db:"time_out" json:"timeOut,omitempty"`
	TotalDuration  *string   `db:"total_duration" json:"totalDuration,omitempty"`
	UploadedBy     *string   `db:"uploaded_by" json:"uploadedBy,omitempty"`
	BatchID        *string   `db:"batch_id" json:"batchId,omitempty"`
	UploadedAt     time.Time `db:"uploaded_at" json:"uploadedAt"`
}

// FullName joins first and last name the way the name filter sees it.
func (r AttendanceRecord) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// AttendanceGroupBy enumerates the pivot keys.
type AttendanceGroupBy string

const (
	GroupByNone       AttendanceGroupBy = ""
	GroupByStore      AttendanceGroupBy = "store"
	GroupByCompany    AttendanceGroupBy = "company"
	GroupByWorkerType AttendanceGroupBy = "workerType"
	GroupByDate       AttendanceGroupBy = "date"
	GroupByName       AttendanceGroupBy = "name"
)

// Valid reports whether g is a supported pivot key.
func (g AttendanceGroupBy) Valid() bool {
	switch g {
	case GroupByStore, GroupByCompany, GroupByWorkerType, GroupByDate, GroupByName:
		return true
	}
	return false
}

// AttendanceSummary holds overall statistics for a filtered record set.
type AttendanceSummary struct {
	Records         int     `json:"records"`
	UniqueStores    int     `json:"uniqueStores"`
	UniqueCompanies int     `json:"uniqueCompanies"`
	UniqueEmployees int     `json:"uniqueEmployees"`
	UniqueDays      int     `json:"uniqueDays"`
	TotalHours      float64 `json:"totalHours"`
}

// AttendanceGroup is one pivot row.
type AttendanceGroup struct {
	Key            string  `json:"key"`
	RecordCount    int     `json:"recordCount"`
	SecondaryCount int     `json:"secondaryCount"`
	TertiaryCount  int     `json:"tertiaryCount"`
	TotalHours     float64 `json:"totalHours"`
}

// AttendanceAggregation is the engine output.
type AttendanceAggregation struct {
	Summary        AttendanceSummary `json:"summary"`
	GroupBy        AttendanceGroupBy `json:"groupBy,omitempty"`
	SecondaryLabel string            `json:"secondaryLabel,omitempty"`
	TertiaryLabel  string            `json:"tertiaryLabel,omitempty"`
	Groups         []AttendanceGroup `json:"groups"`
}

// AttendanceDashboard combines the aggregation with capped raw rows.
type AttendanceDashboard struct {
	AttendanceAggregation
	Rows      []AttendanceRecord       `json:"rows"`
	Truncated bool                     `json:"truncated"`
	RowLimit  int                      `json:"rowLimit"`
	Filters   *AttendanceFilterOptions `json:"filters,omitempty"`
}

// AttendanceStats keeps the PascalCase contract existing callers rely on.
type AttendanceStats struct {
	Total     int `json:"Total"`
	Companies int `json:"Companies"`
	ThisMonth int `json:"ThisMonth"`
}

// AttendanceFilterOptions lists distinct values for dashboard dropdowns.
type AttendanceFilterOptions struct {
	Stores      []string `json:"stores"`
	Companies   []string `json:"companies"`
	WorkerTypes []string `json:"workerTypes"`
}
