package models

import "time"

// Feedback is a store-submitted rating.
type Feedback struct {
	ID          int64     `db:"id" json:"id"`
	StoreName   string    `db:"store_name" json:"storeName"`
	Category    string    `db:"category" json:"category"`
	Rating      int       `db:"rating" json:"rating"`
	Comment     *string   `db:"comment" json:"comment,omitempty"`
	SubmittedBy *string   `db:"submitted_by" json:"submittedBy,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// FeedbackStats summarises feedback volume and rating.
type FeedbackStats struct {
	Total         int     `json:"total"`
	AverageRating float64 `json:"averageRating"`
	ThisMonth     int     `json:"thisMonth"`
}
