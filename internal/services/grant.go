package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cesariojr/ecommerce-microservices/internal/config"
	"github.com/cesariojr/ecommerce-microservices/internal/metrics"
	"github.com/cesariojr/ecommerce-microservices/internal/models"
	"github.com/cesariojr/ecommerce-microservices/internal/store"
	"github.com/cesariojr/ecommerce-microservices/internal/token"

	"github.com/google/uuid"
)

// Grant type constants for the token endpoint
const (
	GrantAuthorizationCode = "authorization_code"
	GrantRefreshToken      = "refresh_token"
	GrantClientCredentials = "client_credentials"
)

// TokenResponse is the success payload of the token endpoint (RFC 6749
// section 5.1). RefreshToken is empty for the client_credentials grant.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope"`
}

// GrantService redeems credentials at the token endpoint: authorization
// codes, refresh tokens and client credentials. It also verifies issued
// access tokens for introspection and validation.
type GrantService struct {
	store   *store.Store
	codec   *token.Codec
	config  *config.Config
	metrics metrics.Recorder
}

func NewGrantService(
	s *store.Store,
	codec *token.Codec,
	cfg *config.Config,
	m metrics.Recorder,
) *GrantService {
	return &GrantService{
		store:   s,
		codec:   codec,
		config:  cfg,
		metrics: m,
	}
}

// ExchangeAuthorizationCode redeems a single-use authorization code for an
// access/refresh token pair. The code must match the client and redirect URI
// it was issued for, be unexpired and unused. Consumption is atomic: when two
// requests race on the same code, exactly one receives tokens.
func (s *GrantService) ExchangeAuthorizationCode(
	code, clientID, redirectURI string,
) (*TokenResponse, error) {
	record, err := s.store.GetAuthorizationCode(code)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			log.Printf("authorization_code grant rejected: code not found (client=%s)", clientID)
			return nil, s.rejectGrant(GrantAuthorizationCode, ErrInvalidGrant)
		}
		return nil, fmt.Errorf("failed to load authorization code: %w", err)
	}

	if record.ClientID != clientID || record.RedirectURI != redirectURI || record.Used {
		log.Printf("authorization_code grant rejected: binding mismatch or replay (client=%s)", clientID)
		return nil, s.rejectGrant(GrantAuthorizationCode, ErrInvalidGrant)
	}
	if record.IsExpired() {
		log.Printf("authorization_code grant rejected: code expired (client=%s)", clientID)
		return nil, s.rejectGrant(GrantAuthorizationCode, ErrInvalidGrant)
	}

	// Atomic consumption. The conditional update guarantees a single winner
	// among concurrent redemptions of the same code.
	if err := s.store.ConsumeAuthorizationCode(code); err != nil {
		if errors.Is(err, store.ErrCodeAlreadyUsed) {
			log.Printf("authorization_code grant rejected: lost consumption race (client=%s)", clientID)
			return nil, s.rejectGrant(GrantAuthorizationCode, ErrInvalidGrant)
		}
		return nil, fmt.Errorf("failed to consume authorization code: %w", err)
	}

	user, err := s.store.GetUserByID(record.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", record.UserID, err)
	}

	return s.issueUserTokens(GrantAuthorizationCode, user, clientID, record.Scopes)
}

// ExchangeRefreshToken rotates a refresh token: the presented token is
// revoked and a new access/refresh pair is issued with a full expiry window.
// A rotated-out value can never be redeemed again.
func (s *GrantService) ExchangeRefreshToken(refreshToken string) (*TokenResponse, error) {
	record, err := s.store.GetRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			log.Printf("refresh_token grant rejected: token not found")
			return nil, s.rejectGrant(GrantRefreshToken, ErrInvalidGrant)
		}
		return nil, fmt.Errorf("failed to load refresh token: %w", err)
	}

	if record.Revoked {
		log.Printf("refresh_token grant rejected: token revoked (client=%s)", record.ClientID)
		return nil, s.rejectGrant(GrantRefreshToken, ErrInvalidGrant)
	}
	if record.IsExpired() {
		log.Printf("refresh_token grant rejected: token expired (client=%s)", record.ClientID)
		return nil, s.rejectGrant(GrantRefreshToken, ErrInvalidGrant)
	}

	// Revoke before issuing. The conditional update makes rotation atomic
	// under concurrent redemption of the same value.
	if err := s.store.RevokeRefreshToken(refreshToken); err != nil {
		if errors.Is(err, store.ErrTokenAlreadyRevoked) {
			log.Printf("refresh_token grant rejected: lost rotation race (client=%s)", record.ClientID)
			return nil, s.rejectGrant(GrantRefreshToken, ErrInvalidGrant)
		}
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	user, err := s.store.GetUserByID(record.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", record.UserID, err)
	}

	return s.issueUserTokens(GrantRefreshToken, user, record.ClientID, record.Scopes)
}

// ClientCredentials authenticates a client by ID and secret and issues a
// longer-lived access token bound to the client rather than a user. No
// refresh token is issued; clients re-authenticate instead.
func (s *GrantService) ClientCredentials(
	clientID, clientSecret, scope string,
) (*TokenResponse, error) {
	client, err := s.store.GetClient(clientID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			log.Printf("client_credentials grant rejected: unknown client %q", clientID)
			return nil, s.rejectGrant(GrantClientCredentials, ErrInvalidClient)
		}
		return nil, fmt.Errorf("failed to load client %s: %w", clientID, err)
	}
	if !client.ValidateSecret(clientSecret) {
		log.Printf("client_credentials grant rejected: bad secret (client=%s)", clientID)
		return nil, s.rejectGrant(GrantClientCredentials, ErrInvalidClient)
	}

	scopes := strings.Fields(scope)
	if len(scopes) == 0 {
		scopes = []string{DefaultScope}
	}

	claims := token.Claims{
		ClientID:   client.ClientID,
		ClientName: client.Name,
		Scopes:     scopes,
		TokenUse:   token.UseClientCredentials,
	}
	signed, _, err := s.codec.Issue(claims, s.config.ClientCredentialsExpiration)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTokenIssued(GrantClientCredentials)
	return &TokenResponse{
		AccessToken: signed,
		TokenType:   token.TokenTypeBearer,
		ExpiresIn:   int(s.config.ClientCredentialsExpiration.Seconds()),
		Scope:       strings.Join(scopes, " "),
	}, nil
}

// VerifyAccessToken verifies a token string and returns its claims. Used by
// introspection, validation and the bearer middleware.
func (s *GrantService) VerifyAccessToken(tokenString string) (*token.Claims, error) {
	claims, err := s.codec.Verify(tokenString)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrTokenExpired):
			s.metrics.RecordTokenValidation("expired")
		default:
			s.metrics.RecordTokenValidation("invalid")
		}
		return nil, err
	}
	s.metrics.RecordTokenValidation("valid")
	return claims, nil
}

// issueUserTokens mints the access/refresh pair shared by the code and
// refresh grants. Scopes carry over verbatim from the consumed credential.
func (s *GrantService) issueUserTokens(
	grantType string,
	user *models.User,
	clientID, scopes string,
) (*TokenResponse, error) {
	claims := token.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Name:   user.Name,
		Scopes: strings.Fields(scopes),
	}
	signed, _, err := s.codec.Issue(claims, s.config.AccessTokenExpiration)
	if err != nil {
		return nil, err
	}

	refresh := &models.RefreshToken{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		ClientID:  clientID,
		Scopes:    scopes,
		ExpiresAt: time.Now().Add(s.config.RefreshTokenExpiration),
	}
	if err := s.store.CreateRefreshToken(refresh); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	s.metrics.RecordTokenIssued(grantType)
	return &TokenResponse{
		AccessToken:  signed,
		TokenType:    token.TokenTypeBearer,
		ExpiresIn:    int(s.config.AccessTokenExpiration.Seconds()),
		RefreshToken: refresh.Token,
		Scope:        scopes,
	}, nil
}

// rejectGrant records the rejection metric and passes the error through.
func (s *GrantService) rejectGrant(grantType string, err error) error {
	s.metrics.RecordGrantRejected(grantType, err.Error())
	return err
}
