package middleware

import (
	"net/http"
	"strings"

	"toko-online/models"
	"toko-online/utils"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// IdentityMiddleware resolves the caller identity from the Authorization
// header. No header means a valid Guest identity; a header that is present
// but malformed, invalid or expired is rejected with 401. Cart routes use
// this so guests and signed-in users share one code path.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(identityKey, models.Guest())
			c.Next()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenParts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(identityKey, models.Authenticated(claims.UserID, claims.Email))
		c.Next()
	}
}

// CallerIdentity returns the identity set by IdentityMiddleware, falling
// back to Guest when the middleware did not run.
func CallerIdentity(c *gin.Context) models.Identity {
	if v, exists := c.Get(identityKey); exists {
		if identity, ok := v.(models.Identity); ok {
			return identity
		}
	}
	return models.Guest()
}
