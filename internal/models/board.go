package models

import "gorm.io/gorm"

// BoardEntry is a card on the visual task board linked to a work order.
// The board itself is routine CRUD; it matters here because AuditTrail
// freezes the linked entry ids into every audit record.
type BoardEntry struct {
	gorm.Model
	WorkOrderID uint   `gorm:"index;not null" json:"work_order_id"`
	Lane        string `gorm:"size:50;not null" json:"lane"`
	Position    int    `gorm:"not null;default:0" json:"position"`
	Label       string `gorm:"size:255" json:"label"`
}
