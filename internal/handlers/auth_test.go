package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginAs(t *testing.T, r *gin.Engine, email, password string) map[string]any {
	t.Helper()
	w := postJSON(t, r, "/auth/login", map[string]any{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code)
	return decodeBody(t, w)
}

func TestLogin_Success(t *testing.T) {
	r, _ := setupTestEnv(t)

	resp := loginAs(t, r, "admin@ecommerce.com", "admin123")
	assert.NotEmpty(t, resp["access_token"])
	assert.Equal(t, "Bearer", resp["token_type"])
	assert.EqualValues(t, 900, resp["expires_in"])

	user := resp["user"].(map[string]any)
	assert.Equal(t, "admin@ecommerce.com", user["email"])
	assert.Equal(t, "System Administrator", user["name"])
	assert.Equal(t, "admin", user["role"])
}

func TestLogin_WrongPassword(t *testing.T) {
	r, _ := setupTestEnv(t)

	w := postJSON(t, r, "/auth/login", map[string]any{
		"email":    "admin@ecommerce.com",
		"password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_credentials", decodeBody(t, w)["error"])
}

func TestLogin_MissingFields(t *testing.T) {
	r, _ := setupTestEnv(t)

	w := postJSON(t, r, "/auth/login", map[string]any{"email": "admin@ecommerce.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decodeBody(t, w)["error"])
}

func TestValidate(t *testing.T) {
	r, _ := setupTestEnv(t)
	login := loginAs(t, r, "viewer@ecommerce.com", "viewer123")

	w := postForm(t, r, "/auth/validate", url.Values{
		"token": {login["access_token"].(string)},
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, true, resp["valid"])
	assert.NotEmpty(t, resp["expires_at"])

	user := resp["user"].(map[string]any)
	assert.Equal(t, "viewer@ecommerce.com", user["email"])
	assert.Equal(t, "viewer", user["role"])
	assert.ElementsMatch(t, []any{"read", "reports"}, user["scopes"])
}

func TestValidate_InvalidToken(t *testing.T) {
	r, _ := setupTestEnv(t)

	w := postForm(t, r, "/auth/validate", url.Values{"token": {"garbage"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, false, resp["valid"])
	assert.Equal(t, "invalid_token", resp["error"])
}

func TestValidate_MissingToken(t *testing.T) {
	r, _ := setupTestEnv(t)

	w := postForm(t, r, "/auth/validate", url.Values{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decodeBody(t, w)["error"])
}

func TestProfile(t *testing.T) {
	r, _ := setupTestEnv(t)
	login := loginAs(t, r, "customer@ecommerce.com", "customer123")

	req, err := http.NewRequest(http.MethodGet, "/auth/profile", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+login["access_token"].(string))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	user := decodeBody(t, w)["user"].(map[string]any)
	assert.Equal(t, "customer@ecommerce.com", user["email"])
	assert.Equal(t, "John Customer", user["name"])
	assert.ElementsMatch(t, []any{"read", "purchase"}, user["scopes"])
}

func TestProfile_MissingToken(t *testing.T) {
	r, _ := setupTestEnv(t)

	req, err := http.NewRequest(http.MethodGet, "/auth/profile", nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "access_denied", decodeBody(t, w)["error"])
}

func TestProfile_InvalidToken(t *testing.T) {
	r, _ := setupTestEnv(t)

	req, err := http.NewRequest(http.MethodGet, "/auth/profile", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "invalid_token", decodeBody(t, w)["error"])
}
