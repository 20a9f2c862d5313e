package models

import "time"

// RefreshToken is an opaque long-lived credential bound to one user and one
// client. Redemption always rotates: the presented token is revoked and a
// fresh value with a full new window is issued, so a given value can never
// be redeemed twice.
type RefreshToken struct {
	Token     string `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	ClientID  string `gorm:"not null;index"`
	Scopes    string `gorm:"not null"`
	ExpiresAt time.Time
	Revoked   bool `gorm:"not null;default:false"`
	CreatedAt time.Time
}

func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
