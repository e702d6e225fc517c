package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kaushik-sharma/full-stack-app/internal/modules/auth/auth"
	"github.com/kaushik-sharma/full-stack-app/internal/pkg/response"
)

// RequireAuth enforces token authentication under the given access mode and
// attaches the resolved identity to the request context.
func RequireAuth(svc *auth.Service, mode auth.AccessMode) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := NormalizeToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Unauthorized(c, "Auth token is required.")
			return
		}
		id, err := svc.VerifyAuthToken(c.Request.Context(), token, mode)
		if err != nil {
			response.Error(c, err)
			return
		}
		auth.SetIdentity(c, id)
		c.Next()
	}
}

// OptionalAuth resolves an anonymous identity when a token is present.
// Absence of a token is not an error; an invalid token still is.
func OptionalAuth(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := NormalizeToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}
		id, err := svc.VerifyAuthToken(c.Request.Context(), token, auth.ModeAnonymousOnly)
		if err != nil {
			response.Error(c, err)
			return
		}
		auth.SetIdentity(c, id)
		c.Next()
	}
}

// NormalizeToken trims spaces and strips an optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
