package services

import (
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/security"
	"github.com/Soochol/F2X-NeuroHub-sub006/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

// AuthService validates ops credentials and issues ops JWTs.
type AuthService struct {
	logger *logging.ChanneledLogger
}

// NewAuthService creates a new authentication service
func NewAuthService(logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{logger: logger}
}

// AuthResult holds authentication result data
type AuthResult struct {
	Token   string `json:"token"`
	Role    string `json:"role"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// AuthenticateOps validates the ops password and generates an ops JWT.
// OPS_PASSWORD normally holds a bcrypt hash; a plaintext value still
// matches so local setups work before hashing.
func (a *AuthService) AuthenticateOps(password string) *AuthResult {
	if config.OpsPassword == "" {
		a.logger.Auth().Warn("Ops login rejected, OPS_PASSWORD not configured")
		return &AuthResult{Success: false, Error: "Ops access not configured"}
	}

	matched := bcrypt.CompareHashAndPassword([]byte(config.OpsPassword), []byte(password)) == nil
	if !matched && password == config.OpsPassword {
		matched = true
	}
	if !matched {
		a.logger.Auth().Warn("Ops login failed")
		return &AuthResult{Success: false, Error: "Invalid credentials"}
	}

	token, err := security.GenerateOpsToken(config.JWTSecret, config.OpsTokenTTL)
	if err != nil {
		a.logger.Auth().Error("Ops token generation failed", "error", err)
		return &AuthResult{Success: false, Error: "Token generation failed"}
	}

	a.logger.Auth().Info("Ops login succeeded")
	return &AuthResult{Token: token, Role: "ops", Success: true}
}
