package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/erp/ecocare/internal/infrastructure/auth"
	"github.com/erp/ecocare/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTTenantIDKey = "jwt_tenant_id"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateAccessToken(token string) (*auth.Claims, error)
}

// JWTConfig holds configuration for JWT middleware
type JWTConfig struct {
	Validator        TokenValidator
	SkipPaths        []string
	SkipPathPrefixes []string
	Logger           *zap.Logger
}

// DefaultJWTConfig returns default JWT middleware configuration
func DefaultJWTConfig(validator TokenValidator) JWTConfig {
	return JWTConfig{
		Validator:        validator,
		SkipPaths:        []string{"/health", "/ready"},
		SkipPathPrefixes: []string{"/swagger"},
	}
}

// JWTAuth authenticates requests with a bearer token and stores the claims
// in the gin and request contexts.
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipped(c.Request.URL.Path, cfg.SkipPaths, cfg.SkipPathPrefixes) {
			c.Next()
			return
		}

		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			authFailed(c, cfg, auth.ErrInvalidToken, "Missing authorization header")
			return
		}
		token, ok := strings.CutPrefix(header, BearerPrefix)
		if !ok || token == "" {
			authFailed(c, cfg, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}

		claims, err := cfg.Validator.ValidateAccessToken(token)
		if err != nil {
			authFailed(c, cfg, err, "Token validation failed")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTTenantIDKey, claims.TenantID)

		ctx := logger.WithUser(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(logger.WithTenant(ctx, claims.TenantID))

		c.Next()
	}
}

func authFailed(c *gin.Context, cfg JWTConfig, err error, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	code, msg := "ERR_TOKEN_INVALID", "Invalid token"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, msg = "ERR_TOKEN_EXPIRED", "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		msg = "Token is not yet valid"
	case errors.Is(err, auth.ErrInvalidTokenType):
		msg = "Invalid token type"
	case errors.Is(err, auth.ErrMissingTenantID), errors.Is(err, auth.ErrMissingUserID):
		msg = "Token is missing required claims"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(c, code, msg))
}

func skipped(path string, paths, prefixes []string) bool {
	for _, p := range paths {
		if path == p {
			return true
		}
	}
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetJWTUserID retrieves the user ID from JWT claims in context
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

// GetJWTTenantID retrieves the tenant ID from JWT claims in context
func GetJWTTenantID(c *gin.Context) string {
	return c.GetString(JWTTenantIDKey)
}
