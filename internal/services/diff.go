package services

import (
	"time"

	"workdesk/internal/models"
)

// WorkOrderFields is the full mutable field set of a work order, the typed
// update contract. The same struct feeds validation, the diff and the
// column map for the optimistic write.
type WorkOrderFields struct {
	Title           string                 `json:"title"`
	ClientID        uint                   `json:"client_id"`
	Status          models.WorkOrderStatus `json:"status"`
	SubStatus       string                 `json:"sub_status"`
	PaymentStatus   models.PaymentStatus   `json:"payment_status"`
	QuotedAmount    float64                `json:"quoted_amount"`
	TotalAmount     float64                `json:"total_amount"`
	PaidAmount      float64                `json:"paid_amount"`
	ProgressPercent int                    `json:"progress_percent"`
	EstimatedHours  *float64               `json:"estimated_hours"`
	ResponsibleID   uint                   `json:"responsible_id"`
	Location        string                 `json:"location"`
	StartDate       *time.Time             `json:"start_date"`
	EndDate         *time.Time             `json:"end_date"`
	Notes           string                 `json:"notes"`
	ParentID        *uint                  `json:"parent_id"`
	Structural      bool                   `json:"structural"`
}

// Normalize enforces field-level invariants that are corrections rather than
// rejections. Sub-status carries no meaning on a closed order, so closing
// clears it.
func (f *WorkOrderFields) Normalize() {
	if f.Status == "" {
		f.Status = models.StatusOpen
	}
	if f.PaymentStatus == "" {
		f.PaymentStatus = models.PaymentUnbilled
	}
	if f.Status == models.StatusClosed {
		f.SubStatus = ""
	}
}

// columns maps the fields to their database columns for the versioned write.
func (f *WorkOrderFields) columns() map[string]interface{} {
	return map[string]interface{}{
		"title":            f.Title,
		"client_id":        f.ClientID,
		"status":           f.Status,
		"sub_status":       f.SubStatus,
		"payment_status":   f.PaymentStatus,
		"quoted_amount":    f.QuotedAmount,
		"total_amount":     f.TotalAmount,
		"paid_amount":      f.PaidAmount,
		"progress_percent": f.ProgressPercent,
		"estimated_hours":  f.EstimatedHours,
		"responsible_id":   f.ResponsibleID,
		"location":         f.Location,
		"start_date":       f.StartDate,
		"end_date":         f.EndDate,
		"notes":            f.Notes,
		"parent_id":        f.ParentID,
		"structural":       f.Structural,
	}
}

// diffWorkOrder compares the stored row with the proposed next state across
// the audited field whitelist and returns the non-empty changes.
func diffWorkOrder(prev *models.WorkOrder, next *WorkOrderFields) []models.FieldChange {
	var out []models.FieldChange
	add := func(field string, from, to interface{}) {
		out = append(out, models.FieldChange{Field: field, From: from, To: to})
	}

	if prev.Title != next.Title {
		add("title", prev.Title, next.Title)
	}
	if prev.ClientID != next.ClientID {
		add("client", prev.ClientID, next.ClientID)
	}
	if prev.Status != next.Status {
		add("status", string(prev.Status), string(next.Status))
	}
	if prev.SubStatus != next.SubStatus {
		add("sub_status", prev.SubStatus, next.SubStatus)
	}
	if prev.PaymentStatus != next.PaymentStatus {
		add("payment_status", string(prev.PaymentStatus), string(next.PaymentStatus))
	}
	if prev.QuotedAmount != next.QuotedAmount {
		add("quoted_amount", prev.QuotedAmount, next.QuotedAmount)
	}
	if prev.TotalAmount != next.TotalAmount {
		add("total_amount", prev.TotalAmount, next.TotalAmount)
	}
	if prev.PaidAmount != next.PaidAmount {
		add("paid_amount", prev.PaidAmount, next.PaidAmount)
	}
	if prev.ProgressPercent != next.ProgressPercent {
		add("progress_percent", prev.ProgressPercent, next.ProgressPercent)
	}
	if !floatPtrEqual(prev.EstimatedHours, next.EstimatedHours) {
		add("estimated_hours", floatPtrValue(prev.EstimatedHours), floatPtrValue(next.EstimatedHours))
	}
	if prev.ResponsibleID != next.ResponsibleID {
		add("responsible", prev.ResponsibleID, next.ResponsibleID)
	}
	if prev.Location != next.Location {
		add("location", prev.Location, next.Location)
	}
	if !datePtrEqual(prev.StartDate, next.StartDate) {
		add("start_date", datePtrValue(prev.StartDate), datePtrValue(next.StartDate))
	}
	if !datePtrEqual(prev.EndDate, next.EndDate) {
		add("end_date", datePtrValue(prev.EndDate), datePtrValue(next.EndDate))
	}
	if prev.Notes != next.Notes {
		add("notes", prev.Notes, next.Notes)
	}
	if !uintPtrEqual(prev.ParentID, next.ParentID) {
		add("parent", uintPtrValue(prev.ParentID), uintPtrValue(next.ParentID))
	}
	if prev.Structural != next.Structural {
		add("structural", prev.Structural, next.Structural)
	}
	return out
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func floatPtrValue(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func uintPtrEqual(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func uintPtrValue(p *uint) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func datePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func datePtrValue(p *time.Time) interface{} {
	if p == nil {
		return nil
	}
	return p.UTC().Format("2006-01-02")
}
