package models

import "time"

// Dataset is a named batch of result records uploaded or loaded from a file.
// The store owns datasets; the projection pipeline only reads their records.
type Dataset struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Records   []*ResultRecord `json:"records,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// DatasetInfo is a dataset listing entry without the record payload.
type DatasetInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	RecordCount int       `json:"record_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
