package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NEXUS-UST/nexus-forum/internal/auth"
)

const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// Auth requires a valid Bearer token and stores its claims in the gin
// context.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromHeader(c, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}

// OptionalAuth stores claims when a valid Bearer token is present and
// lets the request through either way. Write handlers prefer the token
// identity over the user_id carried in the body.
func OptionalAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := claimsFromHeader(c, secret); err == nil {
			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextUsername, claims.Username)
		}
		c.Next()
	}
}

func claimsFromHeader(c *gin.Context, secret []byte) (*auth.Claims, error) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, auth.ErrMissingToken
	}
	return auth.ParseToken(secret, parts[1])
}
