package models

import (
	"time"
)

// Role values assignable to a user. Roles are mapped to scope sets at
// login-token issuance; the OAuth grant flows carry whatever scopes the
// authorization code or refresh token was bound to.
const (
	RoleAdmin    = "admin"
	RoleViewer   = "viewer"
	RoleCustomer = "customer"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:'customer'"` // "admin", "viewer" or "customer"
	Name         string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin returns true if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (User) TableName() string {
	return "users"
}
