package token

import "errors"

var (
	// ErrTokenGeneration indicates token signing failed
	ErrTokenGeneration = errors.New("failed to generate token")

	// ErrTokenInvalid indicates the token failed verification
	ErrTokenInvalid = errors.New("invalid token")

	// ErrTokenExpired indicates the token's exp claim is in the past
	ErrTokenExpired = errors.New("token expired")

	// ErrSignatureInvalid indicates the signature does not match the signing key
	ErrSignatureInvalid = errors.New("token signature invalid")

	// ErrTokenMalformed indicates the token is not a structurally valid JWT
	ErrTokenMalformed = errors.New("token malformed")
)
