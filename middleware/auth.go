package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"elasti/internal/auth"
	"elasti/internal/config"
)

type AuthMiddleware struct {
	config *config.Config
}

func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{config: cfg}
}

// RequireAuth accepts either the static API token or an admin session token
// in the Authorization header.
func (a *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error_code": "unauthorized",
				"message":    "Authentication token is required",
			})
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(tokenString), []byte(a.config.APIToken)) == 1 {
			c.Set("auth_method", "api_token")
			c.Next()
			return
		}

		claims, err := auth.ValidateToken(tokenString, a.config.JWTSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error_code": "invalid_token",
				"message":    "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set("auth_method", "jwt")
		c.Set("username", claims.Username)
		c.Next()
	}
}

// GetUsername returns the authenticated admin username, if any.
func GetUsername(c *gin.Context) string {
	if username, exists := c.Get("username"); exists {
		if u, ok := username.(string); ok {
			return u
		}
	}
	return ""
}
