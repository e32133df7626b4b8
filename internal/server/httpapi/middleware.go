package httpapi

import (
	"net/http"
	"strings"

	"github.com/dormdeals/dormdeals/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const claimsContextKey = "authClaims"

// Authenticate gates protected routes. A missing bearer token fails the
// request with 401; a token that does not verify fails with 403. On success
// the decoded claims are attached to the gin context.
func Authenticate(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access token required"})
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid or expired token"})
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// OptionalAuthenticate attaches claims when a valid bearer token is present
// but proceeds regardless of outcome. Routes that personalize output for
// authenticated callers use this instead of Authenticate.
func OptionalAuthenticate(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := tokens.Verify(token); err == nil {
				c.Set(claimsContextKey, claims)
			}
		}
		c.Next()
	}
}

// ClaimsFromContext returns the claims attached by the middleware, or nil.
func ClaimsFromContext(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
