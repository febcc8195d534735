package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/application/services"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/performance"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/security"
	"github.com/Soochol/F2X-NeuroHub-sub006/pkg/config"
	"github.com/gin-gonic/gin"
)

// AuthHandlers contains all authentication-related HTTP handlers
type AuthHandlers struct {
	authService *services.AuthService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(authService *services.AuthService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// PostLogin handles POST /api/v1/auth/login - ops authentication
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_login_request")
	defer h.perfTracker.CompleteOperation(marker)
	h.logger.Auth().Debug("Received login request", "method", c.Request.Method, "path", c.Request.URL.Path)

	var loginReq struct {
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&loginReq); err != nil {
		h.logger.Auth().Error("Login request JSON binding failed", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result := h.authService.AuthenticateOps(loginReq.Password)
	if !result.Success {
		h.logger.Auth().Warn("Login attempt failed", "error", result.Error, "duration", time.Since(start))
		marker.SetSuccess(false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": result.Error})
		return
	}

	c.SetCookie(
		"ops_auth",   // name
		result.Token, // value
		int(config.OpsTokenTTL.Seconds()), // maxAge
		"/",   // path
		"",    // domain (empty for current domain)
		false, // secure (set to true in production)
		true,  // httpOnly
	)

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for PostLogin request", "duration", time.Since(start), "success", true)

	c.JSON(http.StatusOK, gin.H{"token": result.Token, "role": result.Role})
}

// GetAuthStatus handles GET /api/v1/auth/status - reports whether the
// presented token is a live ops token.
func (h *AuthHandlers) GetAuthStatus(c *gin.Context) {
	token := ""
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		token = strings.TrimPrefix(authHeader, "Bearer ")
	}
	if token == "" {
		if cookie, err := c.Cookie("ops_auth"); err == nil {
			token = cookie
		}
	}

	if token == "" {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	claims, err := security.ValidateJWT(token, config.JWTSecret)
	authenticated := err == nil && security.IsOpsClaims(claims)
	c.JSON(http.StatusOK, gin.H{"authenticated": authenticated})
}
