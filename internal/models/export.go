package models

import "time"

// ExportResult describes a stored export and its signed download link.
type ExportResult struct {
	ID           string    `json:"id"`
	Format       string    `json:"format"`
	FileName     string    `json:"fileName"`
	RelativePath string    `json:"-"`
	Token        string    `json:"token"`
	URL          string    `json:"url"`
	ExpiresAt    time.Time `json:"expiresAt"`
}
