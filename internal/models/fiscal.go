package models

import "gorm.io/gorm"

// FiscalSettings is a singleton aggregate (one row). It shares the
// row-version update discipline with work orders and user profiles.
type FiscalSettings struct {
	gorm.Model
	VATRate           float64 `gorm:"not null;default:0" json:"vat_rate"`
	Currency          string  `gorm:"size:3;not null;default:'EUR'" json:"currency"`
	InvoicePrefix     string  `gorm:"size:20" json:"invoice_prefix"`
	NextInvoiceNumber int     `gorm:"not null;default:1" json:"next_invoice_number"`

	RowVersion int64 `gorm:"not null;default:1" json:"row_version"`
}
