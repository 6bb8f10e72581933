package models

import (
	"time"

	"gorm.io/gorm"
)

type WorkOrderStatus string
type PaymentStatus string

const (
	StatusOpen            WorkOrderStatus = "open"
	StatusQuoted          WorkOrderStatus = "quoted"
	StatusPendingApproval WorkOrderStatus = "pending_approval"
	StatusNeedsRevision   WorkOrderStatus = "needs_revision"
	StatusCustom          WorkOrderStatus = "custom"
	StatusClosed          WorkOrderStatus = "closed"

	PaymentUnbilled   PaymentStatus = "unbilled"
	PaymentInvoiced   PaymentStatus = "invoiced"
	PaymentPartlyPaid PaymentStatus = "partly_paid"
	PaymentPaid       PaymentStatus = "paid"
)

func (s WorkOrderStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusQuoted, StatusPendingApproval,
		StatusNeedsRevision, StatusCustom, StatusClosed:
		return true
	}
	return false
}

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentUnbilled, PaymentInvoiced, PaymentPartlyPaid, PaymentPaid:
		return true
	}
	return false
}

// WorkOrder is a billable unit of client engagement. Mutations go through
// the optimistic-concurrency update keyed on RowVersion; every accepted
// mutation leaves a field-level AuditEntry behind.
type WorkOrder struct {
	gorm.Model
	Title string `gorm:"size:255;not null" json:"title"`

	ClientID uint    `gorm:"index" json:"client_id"`
	Client   *Client `json:"client,omitempty"`

	Status WorkOrderStatus `gorm:"type:varchar(30);not null;default:'open'" json:"status"`
	// SubStatus is free text and only meaningful while the order is not
	// closed; closing clears it.
	SubStatus     string        `gorm:"size:100" json:"sub_status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(30);not null;default:'unbilled'" json:"payment_status"`

	QuotedAmount float64 `json:"quoted_amount"`
	TotalAmount  float64 `json:"total_amount"`
	PaidAmount   float64 `json:"paid_amount"`

	ProgressPercent int      `gorm:"not null;default:0" json:"progress_percent"`
	EstimatedHours  *float64 `json:"estimated_hours"`

	ResponsibleID uint   `gorm:"index" json:"responsible_id"`
	Location      string `gorm:"size:255" json:"location"`

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	Notes string `gorm:"type:text" json:"notes"`

	// ParentID groups orders hierarchically. Structural marks a node that
	// exists only as an organizational container, not billable work.
	ParentID   *uint `gorm:"index" json:"parent_id"`
	Structural bool  `gorm:"not null;default:false" json:"structural"`

	RowVersion int64 `gorm:"not null;default:1" json:"row_version"`

	Attachments  []AttachmentVersion `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AuditEntries []AuditEntry        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	BoardEntries []BoardEntry        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
