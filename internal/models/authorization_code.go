package models

import "time"

// AuthorizationCode stores OAuth 2.0 authorization codes (RFC 6749).
// Codes are short-lived (10 minutes) and single-use: once redeemed the Used
// flag is set and the record is logically dead. Expiry is evaluated lazily
// at redemption time; no background sweeper is required for correctness.
type AuthorizationCode struct {
	Code        string `gorm:"primaryKey"`
	ClientID    string `gorm:"not null;index"`
	UserID      uint   `gorm:"not null;index"`
	Scopes      string `gorm:"not null"` // space-delimited, as granted at consent
	RedirectURI string `gorm:"not null"` // exact URI the code was issued for
	ExpiresAt   time.Time
	Used        bool `gorm:"not null;default:false"`
	CreatedAt   time.Time
}

func (a *AuthorizationCode) IsExpired() bool {
	return time.Now().After(a.ExpiresAt)
}

func (AuthorizationCode) TableName() string {
	return "auth_codes"
}
