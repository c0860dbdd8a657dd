package models

import "time"

// ApprovalKind identifies which request table and status taxonomy apply.
type ApprovalKind string

const (
	ApprovalKindCleaning   ApprovalKind = "cleaning"
	ApprovalKindProduction ApprovalKind = "production"
	ApprovalKindTheft      ApprovalKind = "theft"
)

// Statuses shared by approval requests and their approver slots.
const (
	StatusPending    = "Pending"
	StatusApproved   = "Approved"
	StatusRejected   = "Rejected"
	StatusInProgress = "InProgress"
	StatusCompleted  = "Completed"
	StatusOpen       = "Open"
	StatusReviewed   = "Reviewed"
	StatusClosed     = "Closed"
)

// ApprovalRequest generalises extra cleaning requests, production extras and
// theft incidents. Approver slots are nil when the kind has no such column.
type ApprovalRequest struct {
	ID              int64        `db:"id" json:"id"`
	Kind            ApprovalKind `db:"-" json:"kind"`
	StoreName       string       `db:"store_name" json:"storeName"`
	Category        *string      `db:"category" json:"category,omitempty"`
	Description     *string      `db:"description" json:"description,omitempty"`
	RequestedBy     *string      `db:"requested_by" json:"requestedBy,omitempty"`
	Approver1Status *string      `db:"approver1_status" json:"approver1Status,omitempty"`
	Approver2Status *string      `db:"approver2_status" json:"approver2Status,omitempty"`
	Approver3Status *string      `db:"approver3_status" json:"approver3Status,omitempty"`
	Status          string       `db:"status" json:"status"`
	ReviewNotes     *string      `db:"review_notes" json:"reviewNotes,omitempty"`
	ReviewedBy      *string      `db:"reviewed_by" json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time   `db:"reviewed_at" json:"reviewedAt,omitempty"`
	CreatedAt       time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt       *time.Time   `db:"updated_at" json:"updatedAt,omitempty"`
}

// ApprovalStats keeps the camelCase stats contract.
type ApprovalStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Today     int `json:"today"`
	ThisMonth int `json:"thisMonth"`
}

// GroupCount is a key with its record count.
type GroupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}
