package models

import "time"

// ScheduleKind distinguishes security and thirdparty schedules.
type ScheduleKind string

const (
	ScheduleKindSecurity   ScheduleKind = "security"
	ScheduleKindThirdparty ScheduleKind = "thirdparty"
)

const (
	ScheduleStatusDraft     = "Draft"
	ScheduleStatusSubmitted = "Submitted"
)

// Schedule is a store header covering [FromDate, ToDate], both inclusive.
type Schedule struct {
	ID          int64              `db:"id" json:"id"`
	Kind        ScheduleKind       `db:"-" json:"kind"`
	StoreName   string             `db:"store_name" json:"storeName"`
	FromDate    time.Time          `db:"from_date" json:"fromDate"`
	ToDate      time.Time          `db:"to_date" json:"toDate"`
	Status      string             `db:"status" json:"status"`
	SubmittedBy *string            `db:"submitted_by" json:"submittedBy,omitempty"`
	SubmittedAt *time.Time         `db:"submitted_at" json:"submittedAt,omitempty"`
	CreatedAt   time.Time          `db:"created_at" json:"createdAt"`
	Employees   []ScheduleEmployee `db:"-" json:"employees,omitempty"`
}

// ScheduleEmployee carries from/to times for each weekday.
type ScheduleEmployee struct {
	ID            int64   `db:"id" json:"id"`
	ScheduleID    int64   `db:"schedule_id" json:"scheduleId"`
	EmployeeName  string  `db:"employee_name" json:"employeeName"`
	Position      *string `db:"position" json:"position,omitempty"`
	SortOrder     int     `db:"sort_order" json:"sortOrder"`
	MondayFrom    *string `db:"monday_from" json:"mondayFrom,omitempty"`
	MondayTo      *string `db:"monday_to" json:"mondayTo,omitempty"`
	TuesdayFrom   *string `db:"tuesday_from" json:"tuesdayFrom,omitempty"`
	TuesdayTo     *string `db:"tuesday_to" json:"tuesdayTo,omitempty"`
	WednesdayFrom *string `db:"wednesday_from" json:"wednesdayFrom,omitempty"`
	WednesdayTo   *string `db:"wednesday_to" json:"wednesdayTo,omitempty"`
	ThursdayFrom  *string `db:"thursday_from" json:"thursdayFrom,omitempty"`
	ThursdayTo    *string `db:"thursday_to" json:"thursdayTo,omitempty"`
	FridayFrom    *string `db:"friday_from" json:"fridayFrom,omitempty"`
	FridayTo      *string `db:"friday_to" json:"fridayTo,omitempty"`
	SaturdayFrom  *string `db:"saturday_from" json:"saturdayFrom,omitempty"`
	SaturdayTo    *string `db:"saturday_to" json:"saturdayTo,omitempty"`
	SundayFrom    *string `db:"sunday_from" json:"sundayFrom,omitempty"`
	SundayTo      *string `db:"sunday_to" json:"sundayTo,omitempty"`
}

// ScheduleStats keeps the camelCase stats contract.
type ScheduleStats struct {
	Total          int `json:"total"`
	Submitted      int `json:"submitted"`
	Draft          int `json:"draft"`
	ActiveThisWeek int `json:"activeThisWeek"`
}
