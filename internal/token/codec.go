package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token type constants
const (
	TokenTypeBearer = "Bearer"

	// UseClientCredentials marks access tokens minted for the
	// client_credentials grant. User-bound tokens carry no token_type claim.
	UseClientCredentials = "client_credentials"
)

// Claims is the payload of every access token this service mints. User-bound
// tokens populate UserID/Email/Role/Name; client_credentials tokens populate
// ClientID/ClientName and set TokenUse. Scopes is present on both.
type Claims struct {
	UserID     uint     `json:"user_id,omitempty"`
	Email      string   `json:"email,omitempty"`
	Role       string   `json:"role,omitempty"`
	Name       string   `json:"name,omitempty"`
	ClientID   string   `json:"client_id,omitempty"`
	ClientName string   `json:"client_name,omitempty"`
	Scopes     []string `json:"scopes"`
	TokenUse   string   `json:"token_type,omitempty"`

	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 access tokens. Tokens are stateless: all
// authorization data travels in the claims and verification needs only the
// shared secret.
type Codec struct {
	secret   []byte
	issuer   string
	audience string
}

// NewCodec creates a codec bound to one signing key, issuer and audience.
func NewCodec(secret, issuer, audience string) *Codec {
	return &Codec{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
	}
}

// Issue signs claims into a compact JWT valid for ttl. The registered claims
// (iss, aud, sub, exp, iat, jti) are filled here; callers supply only the
// domain claims. Returns the token string and its expiry instant.
func (c *Codec) Issue(claims Claims, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims.Issuer = c.issuer
	claims.Audience = jwt.ClaimStrings{c.audience}
	claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ID = uuid.New().String()
	if claims.Subject == "" {
		if claims.UserID != 0 {
			claims.Subject = fmt.Sprintf("%d", claims.UserID)
		} else {
			claims.Subject = claims.ClientID
		}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return signed, expiresAt, nil
}

// Verify parses and verifies a token string, returning its claims. Failures
// are mapped to the package sentinels so callers can distinguish expiry from
// signature and framing problems without inspecting library errors.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return c.secret, nil
		},
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureInvalid
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
		}
	}
	if !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
