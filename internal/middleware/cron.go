package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/kaushik-sharma/full-stack-app/internal/pkg/response"
)

// CronAuth authenticates administrative cron calls by a shared secret
// header. The comparison is constant-time.
func CronAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		supplied := c.GetHeader("X-Cron-Secret")
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(secret)) != 1 {
			response.Unauthorized(c, "Unauthenticated request.")
			return
		}
		c.Next()
	}
}
