package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/terraquest/terraquest-backend/internal/auth"
	"github.com/terraquest/terraquest-backend/internal/metrics"
)

// userIDKey is the gin context key the auth middleware stores the caller's
// user id under.
const userIDKey = "user_id"

// AuthRequired rejects requests without a valid bearer token and stores the
// token's user id in the request context.
func AuthRequired(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "missing bearer token",
				"timestamp": time.Now().UTC(),
			})
			return
		}

		claims, err := issuer.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "invalid or expired token",
				"timestamp": time.Now().UTC(),
			})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// authenticatedUser returns the user id stored by AuthRequired. Handlers
// behind the auth middleware can rely on it being set.
func authenticatedUser(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// MetricsMiddleware records request counts and latencies per route.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
