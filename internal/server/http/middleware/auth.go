package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/studorg/marketplace/internal/pkg/auth"
)

const (
	// UserIDContextKey is a gin context key for authenticated user identifier.
	UserIDContextKey = "userID"
	authCookieName   = "marketplace_token"
	adminKeyHeader   = "X-Admin-Key"
)

// AuthRequired ensures the caller presents a valid identity token before
// accessing handler.
func AuthRequired(strategy pkgAuth.Strategy) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		userID, err := strategy.ParseToken(token)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(UserIDContextKey, userID)
		c.Next()
	}
}

// AdminRequired guards administrative endpoints with the configured API
// key, verified against its bcrypt hash.
func AdminRequired(hasher pkgAuth.PasswordHasher, adminKeyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminKeyHash == "" {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		key := c.GetHeader(adminKeyHeader)
		if key == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		if err := hasher.Compare(adminKeyHash, key); err != nil {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}
