package models

import "gorm.io/gorm"

type Client struct {
	gorm.Model
	Name         string `gorm:"size:255;not null" json:"name"`
	ContactName  string `gorm:"size:255" json:"contact_name"`
	ContactEmail string `gorm:"size:255" json:"contact_email"`
	ContactPhone string `gorm:"size:50" json:"contact_phone"`
	Notes        string `gorm:"type:text" json:"notes"`

	WorkOrders []WorkOrder `json:"-"`
}
