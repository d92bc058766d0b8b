package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"dmapi/internal/pkg/jwt"
	"dmapi/internal/pkg/response"
)

// Auth resolves the caller's session from a bearer token and stores the
// user ID and role in the request context. It does not authorize: the
// registry's permission checks decide per endpoint.
func Auth(j *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.AbortError(c, http.StatusUnauthorized, "rest_not_logged_in", "You are not currently logged in.")
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			response.AbortError(c, http.StatusUnauthorized, "rest_not_logged_in", "Invalid Authorization header.")
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.AbortError(c, http.StatusUnauthorized, "rest_not_logged_in", "Empty token.")
			return
		}

		claims, err := j.ValidateToken(tokenStr)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "rest_not_logged_in", "Invalid token.")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)

		c.Next()
	}
}
