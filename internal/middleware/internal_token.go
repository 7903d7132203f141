package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"venuebook/internal/pkg/response"
)

// InternalTokenAuth protects the scheduler endpoints used by the expiry
// poller. SCHEDULER_TOKEN_HASH holds a bcrypt hash of the shared token so
// the plaintext never sits in the environment of the API process.
func InternalTokenAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_MISSING", "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			response.Error(c, http.StatusUnauthorized, "AUTH_INVALID", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		hash := os.Getenv("SCHEDULER_TOKEN_HASH")
		if hash == "" {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Scheduler token is not configured")
			c.Abort()
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(parts[1])); err != nil {
			response.Error(c, http.StatusForbidden, "AUTH_INVALID", "Invalid scheduler token")
			c.Abort()
			return
		}

		c.Next()
	}
}
