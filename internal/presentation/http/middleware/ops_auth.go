package middleware

import (
	"net/http"
	"strings"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/security"
	"github.com/Soochol/F2X-NeuroHub-sub006/pkg/config"
	"github.com/gin-gonic/gin"
)

// OpsAuthMiddleware guards the ops endpoints with the ops JWT issued by
// the login endpoint. EventSource clients cannot set headers, so a token
// query parameter and the ops_auth cookie are accepted as fallbacks.
func OpsAuthMiddleware(logger *logging.ChanneledLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""

		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			if cookie, err := c.Cookie("ops_auth"); err == nil {
				token = cookie
			}
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		claims, err := security.ValidateJWT(token, config.JWTSecret)
		if err != nil || !security.IsOpsClaims(claims) {
			logger.Auth().Warn("Rejected ops request", "path", c.Request.URL.Path, "requestId", GetRequestID(c))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Next()
	}
}
