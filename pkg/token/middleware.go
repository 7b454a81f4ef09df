package token

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	IdentityKey   = "identity"
	UserIDKey     = "user_id"
	RoleKey       = "role"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// RequireAuth returns a Gin middleware that resolves the caller's identity
// from a bearer token and stores it in the request context.
func (v *Verifier) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing authorization header",
			})
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid authorization format",
			})
			return
		}

		id, err := v.Verify(strings.TrimPrefix(authHeader, BearerPrefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": err.Error(),
			})
			return
		}

		c.Set(IdentityKey, *id)
		c.Set(UserIDKey, id.UserID)
		c.Set(RoleKey, id.Role)

		c.Next()
	}
}

// GetIdentity extracts the resolved identity from the Gin context.
func GetIdentity(c *gin.Context) (Identity, bool) {
	if v, exists := c.Get(IdentityKey); exists {
		if id, ok := v.(Identity); ok {
			return id, true
		}
	}
	return Identity{}, false
}

// GetUserID extracts the user ID from the Gin context.
func GetUserID(c *gin.Context) string {
	if id, exists := c.Get(UserIDKey); exists {
		return id.(string)
	}
	return ""
}
