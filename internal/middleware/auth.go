package middleware

import (
	"net/http"
	"strings"

	"github.com/cesariojr/ecommerce-microservices/internal/services"
	"github.com/cesariojr/ecommerce-microservices/internal/token"

	"github.com/gin-gonic/gin"
)

const claimsContextKey = "access_token_claims"

// RequireToken authenticates requests with a Bearer access token. A missing
// token is 401, a token that fails verification is 403. Verified claims are
// stored on the gin context for handlers downstream.
func RequireToken(grants *services.GrantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := ""
		if after, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			tokenString = after
		}

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "access_denied",
				"message": "Access token is required",
			})
			return
		}

		claims, err := grants.VerifyAccessToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "invalid_token",
				"message": "Token is invalid or expired",
			})
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// ClaimsFromContext retrieves the verified claims set by RequireToken.
func ClaimsFromContext(c *gin.Context) (*token.Claims, bool) {
	value, exists := c.Get(claimsContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*token.Claims)
	return claims, ok
}
