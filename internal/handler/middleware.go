package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"flashcard_service/internal/auth"
	"flashcard_service/internal/models"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// AuthMiddleware requires a valid bearer token. A missing header is 401, any
// other failure is 403.
func AuthMiddleware(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			newErrorResponse(c, http.StatusUnauthorized, "Missing token")

			return
		}

		if !authenticate(c, tokens, authHeader) {
			return
		}

		c.Next()
	}
}

// OptionalAuth lets anonymous requests through but still rejects a bad token.
func OptionalAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()

			return
		}

		if !authenticate(c, tokens, authHeader) {
			return
		}

		c.Next()
	}
}

func authenticate(c *gin.Context, tokens TokenVerifier, authHeader string) bool {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		newErrorResponse(c, http.StatusForbidden, "Invalid token")

		return false
	}

	claims, err := tokens.Verify(parts[1])
	if err != nil {
		newErrorResponse(c, http.StatusForbidden, "Invalid token")

		return false
	}

	c.Set(identityKey, claims.Identity())

	return true
}

func identityFrom(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}

	id, ok := v.(auth.Identity)

	return id, ok
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFrom(c)
		if !ok {
			newErrorResponse(c, http.StatusUnauthorized, "Missing token")

			return
		}

		for _, r := range roles {
			if id.Role == r {
				c.Next()

				return
			}
		}

		newErrorResponse(c, http.StatusForbidden, "Access denied")
	}
}

// RejectRole turns away authenticated callers holding role.
func RejectRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := identityFrom(c); ok && id.Role == role {
			newErrorResponse(c, http.StatusForbidden, "Access denied")

			return
		}

		c.Next()
	}
}

func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Info("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}
