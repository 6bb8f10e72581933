package models

import "gorm.io/gorm"

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleStaff   UserRole = "staff"
	RoleViewer  UserRole = "viewer"
)

type User struct {
	gorm.Model
	Username     string   `gorm:"uniqueIndex;size:50;not null" json:"username"`
	PasswordHash string   `gorm:"not null" json:"-"`
	DisplayName  string   `gorm:"size:255" json:"display_name"`
	Role         UserRole `gorm:"type:varchar(20);not null" json:"role"`

	// Profile edits go through the same optimistic-concurrency update as
	// work orders.
	RowVersion int64 `gorm:"not null;default:1" json:"row_version"`
}

// Elevated reports whether the user may act on records owned by others
// (force-stopping another actor's timer, for one).
func (u *User) Elevated() bool {
	return u.Role == RoleAdmin
}
