package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cesariojr/ecommerce-microservices/internal/config"
	"github.com/cesariojr/ecommerce-microservices/internal/metrics"
	"github.com/cesariojr/ecommerce-microservices/internal/models"
	"github.com/cesariojr/ecommerce-microservices/internal/store"

	"github.com/google/uuid"
)

// DefaultScope is granted when an authorization request names no scopes.
const DefaultScope = "read"

// AuthorizationRequest holds the validated parameters of an authorization
// request, ready to be presented for consent.
type AuthorizationRequest struct {
	Client      *models.OAuthClient
	RedirectURI string
	Scopes      []string
	State       string
}

// AuthorizationService manages the front half of the OAuth 2.0 Authorization
// Code Flow (RFC 6749 section 4.1): request validation and code issuance at
// consent. Code redemption lives in GrantService.
type AuthorizationService struct {
	store   *store.Store
	config  *config.Config
	metrics metrics.Recorder
}

func NewAuthorizationService(
	s *store.Store,
	cfg *config.Config,
	m metrics.Recorder,
) *AuthorizationService {
	return &AuthorizationService{
		store:   s,
		config:  cfg,
		metrics: m,
	}
}

// ValidateAuthorizationRequest checks an incoming authorization request.
// Validation order is fixed: framing first, then client existence, then
// redirect URI registration. The redirect URI must exactly match one of the
// client's registered URIs; no wildcard or prefix matching.
func (s *AuthorizationService) ValidateAuthorizationRequest(
	clientID, redirectURI, responseType, scope, state string,
) (*AuthorizationRequest, error) {
	if clientID == "" || redirectURI == "" || responseType != "code" {
		return nil, ErrInvalidRequest
	}

	client, err := s.store.GetClient(clientID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, ErrInvalidClient
		}
		return nil, fmt.Errorf("failed to load client %s: %w", clientID, err)
	}

	if !client.AllowsRedirectURI(redirectURI) {
		return nil, ErrInvalidRedirectURI
	}

	scopes := strings.Fields(scope)
	if len(scopes) == 0 {
		scopes = []string{DefaultScope}
	}

	return &AuthorizationRequest{
		Client:      client,
		RedirectURI: redirectURI,
		Scopes:      scopes,
		State:       state,
	}, nil
}

// CreateAuthorizationCode issues a single-use code after the user consents.
// A zero userID means no authenticated user confirmed the request. Returns
// the code and the redirect URL carrying it (plus state when supplied).
func (s *AuthorizationService) CreateAuthorizationCode(
	clientID, redirectURI, scope, state string,
	userID uint,
) (code, redirectURL string, err error) {
	if userID == 0 {
		return "", "", ErrAccessDenied
	}

	if scope == "" {
		scope = DefaultScope
	}

	code = uuid.New().String()
	record := &models.AuthorizationCode{
		Code:        code,
		ClientID:    clientID,
		UserID:      userID,
		Scopes:      scope,
		RedirectURI: redirectURI,
		ExpiresAt:   time.Now().Add(s.config.AuthorizationCodeExpiration),
	}
	if err := s.store.CreateAuthorizationCode(record); err != nil {
		return "", "", fmt.Errorf("failed to save authorization code: %w", err)
	}

	target, err := url.Parse(redirectURI)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse redirect URI: %w", err)
	}
	query := target.Query()
	query.Set("code", code)
	if state != "" {
		query.Set("state", state)
	}
	target.RawQuery = query.Encode()

	s.metrics.RecordAuthorizationCodeIssued()
	return code, target.String(), nil
}
