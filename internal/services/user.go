package services

import (
	"errors"
	"time"

	"github.com/cesariojr/ecommerce-microservices/internal/config"
	"github.com/cesariojr/ecommerce-microservices/internal/metrics"
	"github.com/cesariojr/ecommerce-microservices/internal/models"
	"github.com/cesariojr/ecommerce-microservices/internal/store"
	"github.com/cesariojr/ecommerce-microservices/internal/token"

	"golang.org/x/crypto/bcrypt"
)

// roleScopes maps a user role to the scopes granted at login. Unknown roles
// fall back to read-only access.
var roleScopes = map[string][]string{
	models.RoleAdmin:    {"read", "write", "delete", "admin", "reports"},
	models.RoleViewer:   {"read", "reports"},
	models.RoleCustomer: {"read", "purchase"},
}

// RoleScopes returns the scope set for a role.
func RoleScopes(role string) []string {
	if scopes, ok := roleScopes[role]; ok {
		return scopes
	}
	return []string{"read"}
}

// UserService handles password authentication and login-token issuance.
type UserService struct {
	store   *store.Store
	codec   *token.Codec
	config  *config.Config
	metrics metrics.Recorder
}

func NewUserService(
	s *store.Store,
	codec *token.Codec,
	cfg *config.Config,
	m metrics.Recorder,
) *UserService {
	return &UserService{
		store:   s,
		codec:   codec,
		config:  cfg,
		metrics: m,
	}
}

// Authenticate verifies an email/password pair against the stored bcrypt
// hash. Unknown email and wrong password are indistinguishable to callers.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			s.metrics.RecordLogin(false)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.metrics.RecordLogin(false)
		return nil, ErrInvalidCredentials
	}

	s.metrics.RecordLogin(true)
	return user, nil
}

// IssueLoginToken mints a short-lived access token for a directly
// authenticated user, with scopes derived from the user's role.
func (s *UserService) IssueLoginToken(user *models.User) (string, time.Time, error) {
	claims := token.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Name:   user.Name,
		Scopes: RoleScopes(user.Role),
	}
	signed, expiresAt, err := s.codec.Issue(claims, s.config.AccessTokenExpiration)
	if err != nil {
		return "", time.Time{}, err
	}
	s.metrics.RecordTokenIssued("password_login")
	return signed, expiresAt, nil
}

// GetProfile loads a user by ID together with the role-derived scopes.
func (s *UserService) GetProfile(userID uint) (*models.User, []string, error) {
	user, err := s.store.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}
	return user, RoleScopes(user.Role), nil
}
