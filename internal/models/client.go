package models

import (
	"crypto/subtle"
	"strings"
	"time"
)

// OAuthClient is a registered OAuth 2.0 client application. Clients are
// configuration-like: created out of band (seed or ops tooling) and treated
// as static at runtime.
type OAuthClient struct {
	ClientID     string `gorm:"primaryKey"`
	ClientSecret string `gorm:"not null"` // shared secret, exact match at the token endpoint
	Name         string `gorm:"not null"`
	RedirectURIs string `gorm:"not null"` // comma-delimited allow-list, exact string match
	Scopes       string `gorm:"not null"` // space-delimited
	CreatedAt    time.Time
}

// AllowsRedirectURI reports whether uri exactly matches one of the client's
// registered redirect URIs.
func (c *OAuthClient) AllowsRedirectURI(uri string) bool {
	if uri == "" {
		return false
	}
	for _, registered := range strings.Split(c.RedirectURIs, ",") {
		if strings.TrimSpace(registered) == uri {
			return true
		}
	}
	return false
}

// ValidateSecret compares the presented secret against the stored one in
// constant time.
func (c *OAuthClient) ValidateSecret(secret string) bool {
	if secret == "" || c.ClientSecret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.ClientSecret), []byte(secret)) == 1
}

func (OAuthClient) TableName() string {
	return "oauth_clients"
}
