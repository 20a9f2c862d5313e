package handlers

import (
	"errors"
	"net/http"

	"github.com/cesariojr/ecommerce-microservices/internal/services"
	"github.com/cesariojr/ecommerce-microservices/internal/token"

	"github.com/gin-gonic/gin"
)

// TokenHandler serves the token endpoint (RFC 6749 section 3.2) and token
// introspection (RFC 7662 style).
type TokenHandler struct {
	grantService *services.GrantService
}

func NewTokenHandler(gs *services.GrantService) *TokenHandler {
	return &TokenHandler{grantService: gs}
}

// grantRequest is a parsed, typed token endpoint request. Each supported
// grant is its own variant; dispatch happens over the variant type rather
// than raw grant_type strings, so an unsupported grant is rejected at parse
// time and each handler only sees the fields its grant defines.
type grantRequest interface {
	grantType() string
}

type authorizationCodeGrant struct {
	Code        string
	RedirectURI string
	ClientID    string
}

func (authorizationCodeGrant) grantType() string { return services.GrantAuthorizationCode }

type refreshTokenGrant struct {
	RefreshToken string
}

func (refreshTokenGrant) grantType() string { return services.GrantRefreshToken }

type clientCredentialsGrant struct {
	ClientID     string
	ClientSecret string
	Scope        string
}

func (clientCredentialsGrant) grantType() string { return services.GrantClientCredentials }

// tokenRequest is the raw wire form of a token endpoint request, accepted as
// form or JSON body. Which fields matter depends on grant_type.
type tokenRequest struct {
	GrantType    string `form:"grant_type" json:"grant_type"`
	Code         string `form:"code" json:"code"`
	RedirectURI  string `form:"redirect_uri" json:"redirect_uri"`
	ClientID     string `form:"client_id" json:"client_id"`
	ClientSecret string `form:"client_secret" json:"client_secret"`
	RefreshToken string `form:"refresh_token" json:"refresh_token"`
	Scope        string `form:"scope" json:"scope"`
}

// grant narrows the raw request to its typed variant.
func (r *tokenRequest) grant() (grantRequest, error) {
	switch r.GrantType {
	case services.GrantAuthorizationCode:
		return authorizationCodeGrant{
			Code:        r.Code,
			RedirectURI: r.RedirectURI,
			ClientID:    r.ClientID,
		}, nil
	case services.GrantRefreshToken:
		return refreshTokenGrant{RefreshToken: r.RefreshToken}, nil
	case services.GrantClientCredentials:
		return clientCredentialsGrant{
			ClientID:     r.ClientID,
			ClientSecret: r.ClientSecret,
			Scope:        r.Scope,
		}, nil
	default:
		return nil, services.ErrUnsupportedGrantType
	}
}

// Token is the OAuth 2.0 token endpoint. Supports the authorization_code,
// refresh_token and client_credentials grants.
func (h *TokenHandler) Token(c *gin.Context) {
	var req tokenRequest
	_ = c.ShouldBind(&req)

	grant, err := req.grant()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "unsupported_grant_type",
			"error_description": "Grant type not supported",
		})
		return
	}

	var resp *services.TokenResponse
	switch g := grant.(type) {
	case authorizationCodeGrant:
		resp, err = h.grantService.ExchangeAuthorizationCode(g.Code, g.ClientID, g.RedirectURI)
	case refreshTokenGrant:
		resp, err = h.grantService.ExchangeRefreshToken(g.RefreshToken)
	case clientCredentialsGrant:
		resp, err = h.grantService.ClientCredentials(g.ClientID, g.ClientSecret, g.Scope)
	}
	if err != nil {
		h.writeGrantError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// writeGrantError maps service errors to RFC 6749 error responses. All grant
// validation failures surface as a single undifferentiated invalid_grant.
func (h *TokenHandler) writeGrantError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidGrant):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "invalid_grant",
			"error_description": "Grant is invalid, expired, or already used",
		})
	case errors.Is(err, services.ErrInvalidClient):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "invalid_client",
			"error_description": "Invalid client credentials",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":             "server_error",
			"error_description": "Failed to issue tokens",
		})
	}
}

type introspectRequest struct {
	Token string `form:"token" json:"token"`
}

// Introspect reports whether a token is active, and its claims when it is.
// Inactive tokens get {"active": false} with no further detail, always 200.
func (h *TokenHandler) Introspect(c *gin.Context) {
	var req introspectRequest
	_ = c.ShouldBind(&req)

	claims, err := h.grantService.VerifyAccessToken(req.Token)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"active": false})
		return
	}

	c.JSON(http.StatusOK, introspectionResponse(claims))
}

// introspectionResponse flattens claims into the introspection payload.
func introspectionResponse(claims *token.Claims) gin.H {
	resp := gin.H{
		"active": true,
		"scopes": claims.Scopes,
		"iss":    claims.Issuer,
		"aud":    claims.Audience,
		"sub":    claims.Subject,
		"exp":    claims.ExpiresAt.Unix(),
		"iat":    claims.IssuedAt.Unix(),
		"jti":    claims.ID,
	}
	if claims.UserID != 0 {
		resp["user_id"] = claims.UserID
		resp["email"] = claims.Email
		resp["role"] = claims.Role
		resp["name"] = claims.Name
	}
	if claims.ClientID != "" {
		resp["client_id"] = claims.ClientID
		resp["client_name"] = claims.ClientName
	}
	if claims.TokenUse != "" {
		resp["token_type"] = claims.TokenUse
	}
	return resp
}
