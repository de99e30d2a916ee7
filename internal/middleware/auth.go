package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"courier/internal/auth"
)

// AdminIDKey is the gin context key holding the authenticated operator.
const AdminIDKey = "adminId"

// TokenVerifier validates dashboard tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AdminAuth rejects requests without a valid bearer token.
func AdminAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authorization required"})
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid or expired token"})
			return
		}

		c.Set(AdminIDKey, claims.AdminID)
		c.Next()
	}
}
