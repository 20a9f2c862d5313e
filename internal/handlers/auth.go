package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/cesariojr/ecommerce-microservices/internal/middleware"
	"github.com/cesariojr/ecommerce-microservices/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves direct authentication: password login, token
// validation and the authenticated profile endpoint.
type AuthHandler struct {
	userService  *services.UserService
	grantService *services.GrantService
}

func NewAuthHandler(us *services.UserService, gs *services.GrantService) *AuthHandler {
	return &AuthHandler{
		userService:  us,
		grantService: gs,
	}
}

type loginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Login authenticates an email/password pair and returns a short-lived
// access token with role-derived scopes. No refresh token is issued here;
// refresh tokens come only from the OAuth grant flows.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	_ = c.ShouldBind(&req)

	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Email and password are required",
		})
		return
	}

	user, err := h.userService.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_credentials",
				"message": "Invalid email or password",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "server_error",
			"message": "Authentication failed",
		})
		return
	}

	accessToken, expiresAt, err := h.userService.IssueLoginToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "server_error",
			"message": "Authentication failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
		"token_type":   "Bearer",
		"expires_in":   int(time.Until(expiresAt).Round(time.Second).Seconds()),
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

type validateRequest struct {
	Token string `form:"token" json:"token"`
}

// Validate verifies a token presented in the request body. Unlike
// introspection, failures return 401 with valid=false; callers use this as a
// yes/no gate.
func (h *AuthHandler) Validate(c *gin.Context) {
	var req validateRequest
	_ = c.ShouldBind(&req)

	if req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Token is required",
		})
		return
	}

	claims, err := h.grantService.VerifyAccessToken(req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"valid":   false,
			"error":   "invalid_token",
			"message": "Token is invalid or expired",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"user": gin.H{
			"user_id": claims.UserID,
			"email":   claims.Email,
			"role":    claims.Role,
			"name":    claims.Name,
			"scopes":  claims.Scopes,
		},
		"expires_at": claims.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Profile returns the authenticated user's profile with role-derived scopes.
// Requires the bearer token middleware.
func (h *AuthHandler) Profile(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok || claims.UserID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "access_denied",
			"message": "Access token is required",
		})
		return
	}

	user, scopes, err := h.userService.GetProfile(claims.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "user_not_found",
			"message": "User not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"name":       user.Name,
			"role":       user.Role,
			"created_at": user.CreatedAt,
			"scopes":     scopes,
		},
	})
}
