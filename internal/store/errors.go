package store

import "errors"

var (
	// ErrRecordNotFound wraps GORM's not found error for consistency
	ErrRecordNotFound = errors.New("record not found")

	// ErrCodeAlreadyUsed is returned by ConsumeAuthorizationCode when the
	// code was already redeemed by a concurrent request (0 rows updated).
	ErrCodeAlreadyUsed = errors.New("authorization code already used")

	// ErrTokenAlreadyRevoked is returned by RevokeRefreshToken when the
	// token was already revoked by a concurrent redemption (0 rows updated).
	ErrTokenAlreadyRevoked = errors.New("refresh token already revoked")
)
