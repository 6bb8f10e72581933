package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditCreate             AuditAction = "create"
	AuditUpdate             AuditAction = "update"
	AuditNote               AuditAction = "note"
	AuditAttachmentUploaded AuditAction = "attachment_uploaded"
	AuditAttachmentDeleted  AuditAction = "attachment_deleted"
)

// FieldChange is one element of an update entry's change set.
type FieldChange struct {
	Field string      `json:"field"`
	From  interface{} `json:"from"`
	To    interface{} `json:"to"`
}

// AuditEntry is an immutable record of one state-changing operation on a
// work order. Changes holds the field-level diff for updates, or
// action-specific metadata for notes and attachment operations.
// BoardSnapshot freezes the ids of the board entries linked to the work
// order at write time; later relinking does not rewrite history.
//
// CreatedAt defaults to write time but is overridable for backdated notes.
type AuditEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	WorkOrderID uint  `gorm:"index;not null" json:"work_order_id"`
	ActorID     *uint `json:"actor_id"`

	Action        AuditAction    `gorm:"type:varchar(30);not null" json:"action"`
	Changes       datatypes.JSON `json:"changes"`
	BoardSnapshot datatypes.JSON `json:"board_snapshot"`
}

// AuditEntryView is an AuditEntry joined with the acting user's display
// identity for history reads.
type AuditEntryView struct {
	AuditEntry
	ActorUsername    string `json:"actor_username"`
	ActorDisplayName string `json:"actor_display_name"`
}
