package services

import "errors"

// Service-level errors. The token endpoint errors are named after the OAuth
// 2.0 error codes they map to on the wire. Every failure inside a grant
// (unknown code, wrong client binding, wrong redirect URI, replay, expiry)
// collapses to ErrInvalidGrant so responses never reveal which check failed;
// the finer-grained cause is logged server side only.
var (
	ErrInvalidRequest       = errors.New("invalid_request")
	ErrInvalidClient        = errors.New("invalid_client")
	ErrInvalidGrant         = errors.New("invalid_grant")
	ErrAccessDenied         = errors.New("access_denied")
	ErrUnsupportedGrantType = errors.New("unsupported_grant_type")

	// ErrInvalidRedirectURI means the redirect URI is not registered for the
	// client. Maps to invalid_request on the wire, with its own description.
	ErrInvalidRedirectURI = errors.New("invalid redirect_uri")

	// ErrInvalidCredentials is returned by Authenticate for both unknown
	// email and wrong password, preventing account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned by profile lookups for missing users
	ErrUserNotFound = errors.New("user not found")
)
