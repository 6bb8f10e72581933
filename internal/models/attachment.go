package models

import "time"

// AttachmentVersion is one link in the version chain for a named file of a
// work order. For every (work_order_id, original_name) pair at most one row
// has IsLatest set; PreviousID chains back to version 1.
//
// No soft delete here: superseded versions stay as real rows, deleted ones
// are gone, and the chain invariant is maintained inside one transaction.
type AttachmentVersion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	WorkOrderID uint `gorm:"index;not null" json:"work_order_id"`

	StoredName   string `gorm:"size:255;not null" json:"stored_name"`
	OriginalName string `gorm:"size:255;not null;index:idx_attachment_name" json:"original_name"`
	MimeType     string `gorm:"size:100" json:"mime_type"`
	SizeBytes    int64  `json:"size_bytes"`
	StoragePath  string `gorm:"size:512;not null" json:"-"`

	Version    int   `gorm:"not null" json:"version"`
	IsLatest   bool  `gorm:"not null;index" json:"is_latest"`
	PreviousID *uint `json:"previous_id"`
}
