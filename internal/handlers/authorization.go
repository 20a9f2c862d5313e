package handlers

import (
	"errors"
	"net/http"

	"github.com/cesariojr/ecommerce-microservices/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthorizationHandler serves the authorization endpoint pair: request
// validation (GET /oauth/authorize) and consent confirmation
// (POST /oauth/authorize/confirm).
type AuthorizationHandler struct {
	authorizationService *services.AuthorizationService
}

func NewAuthorizationHandler(as *services.AuthorizationService) *AuthorizationHandler {
	return &AuthorizationHandler{authorizationService: as}
}

// Authorize validates an authorization request and returns the data a
// consent page needs. This service returns JSON; rendering the consent UI is
// the frontend's job.
func (h *AuthorizationHandler) Authorize(c *gin.Context) {
	clientID := c.Query("client_id")
	redirectURI := c.Query("redirect_uri")
	responseType := c.Query("response_type")
	scope := c.Query("scope")
	state := c.Query("state")

	request, err := h.authorizationService.ValidateAuthorizationRequest(
		clientID, redirectURI, responseType, scope, state,
	)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidClient):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":             "invalid_client",
				"error_description": "Invalid client_id",
			})
		case errors.Is(err, services.ErrInvalidRedirectURI):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":             "invalid_request",
				"error_description": "Invalid redirect_uri",
			})
		case errors.Is(err, services.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":             "invalid_request",
				"error_description": "Missing or invalid parameters",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":             "server_error",
				"error_description": "Failed to process authorization request",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Authorization required",
		"client_name":   request.Client.Name,
		"scopes":        request.Scopes,
		"authorize_url": "/oauth/authorize/confirm",
		"params": gin.H{
			"client_id":    clientID,
			"redirect_uri": redirectURI,
			"scope":        scope,
			"state":        state,
		},
	})
}

type confirmRequest struct {
	ClientID    string `form:"client_id" json:"client_id"`
	RedirectURI string `form:"redirect_uri" json:"redirect_uri"`
	Scope       string `form:"scope" json:"scope"`
	State       string `form:"state" json:"state"`
	UserID      uint   `form:"user_id" json:"user_id"`
}

// Confirm records user consent and issues a single-use authorization code.
// Responds with the redirect URL carrying the code (and state when given);
// the caller performs the actual redirect.
func (h *AuthorizationHandler) Confirm(c *gin.Context) {
	var req confirmRequest
	_ = c.ShouldBind(&req)

	code, redirectURL, err := h.authorizationService.CreateAuthorizationCode(
		req.ClientID, req.RedirectURI, req.Scope, req.State, req.UserID,
	)
	if err != nil {
		if errors.Is(err, services.ErrAccessDenied) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":             "access_denied",
				"error_description": "User authentication required",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":             "server_error",
			"error_description": "Failed to generate authorization code",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"redirect_url": redirectURL,
		"code":         code,
	})
}
