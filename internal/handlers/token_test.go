package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/cesariojr/ecommerce-microservices/internal/config"
	"github.com/cesariojr/ecommerce-microservices/internal/metrics"
	"github.com/cesariojr/ecommerce-microservices/internal/middleware"
	"github.com/cesariojr/ecommerce-microservices/internal/services"
	"github.com/cesariojr/ecommerce-microservices/internal/store"
	"github.com/cesariojr/ecommerce-microservices/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRedirectURI = "http://localhost:3000/callback"

// setupTestEnv builds a router backed by an in-memory store seeded with the
// demo users and client.
func setupTestEnv(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:                   "test-secret-32-chars-long!!!!!!!",
		JWTIssuer:                   "ecommerce-auth-service",
		JWTAudience:                 "ecommerce-api",
		AccessTokenExpiration:       15 * time.Minute,
		ClientCredentialsExpiration: time.Hour,
		AuthorizationCodeExpiration: 10 * time.Minute,
		RefreshTokenExpiration:      7 * 24 * time.Hour,
	}

	s, err := store.New("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, s.SeedDemoData())
	t.Cleanup(func() { _ = s.Close() })

	codec := token.NewCodec(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	noop := metrics.NewNoopMetrics()
	userSvc := services.NewUserService(s, codec, cfg, noop)
	authzSvc := services.NewAuthorizationService(s, cfg, noop)
	grantSvc := services.NewGrantService(s, codec, cfg, noop)

	authHandler := NewAuthHandler(userSvc, grantSvc)
	authzHandler := NewAuthorizationHandler(authzSvc)
	tokenHandler := NewTokenHandler(grantSvc)

	r := gin.New()
	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/validate", authHandler.Validate)
	r.GET("/auth/profile", middleware.RequireToken(grantSvc), authHandler.Profile)
	r.GET("/oauth/authorize", authzHandler.Authorize)
	r.POST("/oauth/authorize/confirm", authzHandler.Confirm)
	r.POST("/oauth/token", tokenHandler.Token)
	r.POST("/oauth/introspect", tokenHandler.Introspect)

	return r, s
}

// postForm sends a form-encoded POST request.
func postForm(t *testing.T, r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// postJSON sends a JSON POST request.
func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

// confirmAuthorization walks the consent step and returns the issued code.
func confirmAuthorization(t *testing.T, r *gin.Engine, userID uint, scope string) string {
	t.Helper()
	w := postJSON(t, r, "/oauth/authorize/confirm", map[string]any{
		"client_id":    "ecommerce-frontend",
		"redirect_uri": testRedirectURI,
		"scope":        scope,
		"user_id":      userID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	code, _ := resp["code"].(string)
	require.NotEmpty(t, code)
	return code
}

func TestAuthorizationCodeFlow_EndToEnd(t *testing.T) {
	r, _ := setupTestEnv(t)

	// User 3 is the seeded customer
	code := confirmAuthorization(t, r, 3, "read write")

	w := postForm(t, r, "/oauth/token", url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {testRedirectURI},
		"client_id":    {"ecommerce-frontend"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)

	assert.NotEmpty(t, resp["access_token"])
	assert.Equal(t, "Bearer", resp["token_type"])
	assert.EqualValues(t, 900, resp["expires_in"])
	assert.NotEmpty(t, resp["refresh_token"])
	assert.Equal(t, "read write", resp["scope"])

	// Replaying the same code must fail closed
	w = postForm(t, r, "/oauth/token", url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {testRedirectURI},
		"client_id":    {"ecommerce-frontend"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp = decodeBody(t, w)
	assert.Equal(t, "invalid_grant", resp["error"])
}

func TestTokenEndpoint_RefreshRotation(t *testing.T) {
	r, _ := setupTestEnv(t)
	code := confirmAuthorization(t, r, 3, "read")

	w := postForm(t, r, "/oauth/token", url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {testRedirectURI},
		"client_id":    {"ecommerce-frontend"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	first := decodeBody(t, w)
	oldToken := first["refresh_token"].(string)

	w = postForm(t, r, "/oauth/token", url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {oldToken},
	})
	require.Equal(t, http.StatusOK, w.Code)
	rotated := decodeBody(t, w)
	assert.NotEmpty(t, rotated["access_token"])
	assert.NotEqual(t, oldToken, rotated["refresh_token"])

	// The old value is revoked by rotation
	w = postForm(t, r, "/oauth/token", url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {oldToken},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_grant", decodeBody(t, w)["error"])
}

func TestTokenEndpoint_ClientCredentials(t *testing.T) {
	r, _ := setupTestEnv(t)

	w := postForm(t, r, "/oauth/token", url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {"ecommerce-frontend"},
		"client_secret": {"frontend-secret-key"},
		"scope":         {"read write"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)

	assert.NotEmpty(t, resp["access_token"])
	assert.EqualValues(t, 3600, resp["expires_in"])
	assert.Equal(t, "read write", resp["scope"])
	assert.Nil(t, resp["refresh_token"])
}

func TestTokenEndpoint_ClientCredentialsWrongSecret(t *testing.T) {
	r, _ := setupTestEnv(t)

	w := postForm(t, r, "/oauth/token", url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {"ecommerce-frontend"},
		"client_secret": {"wrong-secret"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_client", decodeBody(t, w)["error"])
}

func TestTokenEndpoint_UnsupportedGrantType(t *testing.T) {
	r, _ := setupTestEnv(t)

	w := postForm(t, r, "/oauth/token", url.Values{
		"grant_type": {"password"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unsupported_grant_type", decodeBody(t, w)["error"])

	w = postForm(t, r, "/oauth/token", url.Values{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unsupported_grant_type", decodeBody(t, w)["error"])
}

func TestTokenEndpoint_StoreFailure(t *testing.T) {
	r, s := setupTestEnv(t)
	code := confirmAuthorization(t, r, 3, "read")
	require.NoError(t, s.Close())

	// A store outage is a server_error, never invalid_grant
	w := postForm(t, r, "/oauth/token", url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {testRedirectURI},
		"client_id":    {"ecommerce-frontend"},
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "server_error", decodeBody(t, w)["error"])
}

func TestAuthorizeEndpoint(t *testing.T) {
	r, _ := setupTestEnv(t)

	req, err := http.NewRequest(http.MethodGet,
		"/oauth/authorize?client_id=ecommerce-frontend&redirect_uri="+
			url.QueryEscape(testRedirectURI)+"&response_type=code&scope=read+write&state=abc",
		nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "Authorization required", resp["message"])
	assert.Equal(t, "E-commerce Frontend", resp["client_name"])
	assert.Equal(t, "/oauth/authorize/confirm", resp["authorize_url"])
}

func TestAuthorizeEndpoint_Invalid(t *testing.T) {
	r, _ := setupTestEnv(t)

	tests := []struct {
		name      string
		query     string
		wantError string
	}{
		{
			"wrong response_type",
			"client_id=ecommerce-frontend&redirect_uri=" + url.QueryEscape(testRedirectURI) + "&response_type=token",
			"invalid_request",
		},
		{
			"unknown client",
			"client_id=ghost&redirect_uri=" + url.QueryEscape(testRedirectURI) + "&response_type=code",
			"invalid_client",
		},
		{
			"unregistered redirect URI",
			"client_id=ecommerce-frontend&redirect_uri=" + url.QueryEscape("http://evil.example.com/cb") + "&response_type=code",
			"invalid_request",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, "/oauth/authorize?"+tt.query, nil)
			require.NoError(t, err)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantError, decodeBody(t, w)["error"])
		})
	}
}

func TestAuthorizeEndpoint_StoreFailure(t *testing.T) {
	r, s := setupTestEnv(t)
	require.NoError(t, s.Close())

	req, err := http.NewRequest(http.MethodGet,
		"/oauth/authorize?client_id=ecommerce-frontend&redirect_uri="+
			url.QueryEscape(testRedirectURI)+"&response_type=code",
		nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "server_error", decodeBody(t, w)["error"])
}

func TestConfirmEndpoint_NoUser(t *testing.T) {
	r, _ := setupTestEnv(t)

	w := postJSON(t, r, "/oauth/authorize/confirm", map[string]any{
		"client_id":    "ecommerce-frontend",
		"redirect_uri": testRedirectURI,
		"scope":        "read",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "access_denied", decodeBody(t, w)["error"])
}

func TestConfirmEndpoint_RedirectURL(t *testing.T) {
	r, _ := setupTestEnv(t)

	w := postJSON(t, r, "/oauth/authorize/confirm", map[string]any{
		"client_id":    "ecommerce-frontend",
		"redirect_uri": testRedirectURI,
		"scope":        "read",
		"state":        "s-42",
		"user_id":      1,
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)

	parsed, err := url.Parse(resp["redirect_url"].(string))
	require.NoError(t, err)
	assert.Equal(t, resp["code"], parsed.Query().Get("code"))
	assert.Equal(t, "s-42", parsed.Query().Get("state"))
}

func TestIntrospect(t *testing.T) {
	r, _ := setupTestEnv(t)

	w := postForm(t, r, "/oauth/token", url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {"ecommerce-frontend"},
		"client_secret": {"frontend-secret-key"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	accessToken := decodeBody(t, w)["access_token"].(string)

	w = postForm(t, r, "/oauth/introspect", url.Values{"token": {accessToken}})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, true, resp["active"])
	assert.Equal(t, "ecommerce-frontend", resp["client_id"])
	assert.Equal(t, "ecommerce-auth-service", resp["iss"])
	assert.Equal(t, "client_credentials", resp["token_type"])
}

func TestIntrospect_Inactive(t *testing.T) {
	r, _ := setupTestEnv(t)

	// Garbage and empty tokens both report inactive with a 200
	w := postForm(t, r, "/oauth/introspect", url.Values{"token": {"garbage"}})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, false, resp["active"])
	assert.Len(t, resp, 1, "inactive response must carry no claims")

	w = postForm(t, r, "/oauth/introspect", url.Values{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["active"])
}
