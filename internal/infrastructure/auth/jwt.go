// Package auth verifies the bearer tokens presented to the API.
package auth

import (
	"errors"
	"slices"
	"time"

	"github.com/erp/ecocare/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTypeAccess is the only token type the API accepts.
const TokenTypeAccess = "access"

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingTenantID  = errors.New("missing tenant_id in claims")
	ErrMissingUserID    = errors.New("missing user_id in claims")
)

// Claims are the claims issued by the identity service.
type Claims struct {
	jwt.RegisteredClaims
	TenantID    string   `json:"tenant_id"`
	UserID      string   `json:"user_id"`
	Username    string   `json:"username"`
	Permissions []string `json:"permissions,omitempty"`
	TokenType   string   `json:"token_type"`
}

// JWTService signs and validates HS256 access tokens.
type JWTService struct {
	secret []byte
	issuer string
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{secret: []byte(cfg.Secret), issuer: cfg.Issuer}
}

// TokenInput describes the subject of a token.
type TokenInput struct {
	TenantID    uuid.UUID
	UserID      uuid.UUID
	Username    string
	Permissions []string
}

// GenerateAccessToken signs an access token valid for ttl. Production tokens
// come from the identity service; this serves tooling and tests.
func (s *JWTService) GenerateAccessToken(in TokenInput, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   in.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		TenantID:    in.TenantID.String(),
		UserID:      in.UserID.String(),
		Username:    in.Username,
		Permissions: in.Permissions,
		TokenType:   TokenTypeAccess,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateAccessToken parses tokenString and checks signature, lifetime,
// issuer, type and the tenant and user claims.
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, ErrInvalidTokenType
	}
	if claims.TenantID == "" {
		return nil, ErrMissingTenantID
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	return claims, nil
}

// TenantUUID parses the tenant claim.
func (c *Claims) TenantUUID() (uuid.UUID, error) {
	return uuid.Parse(c.TenantID)
}

// UserUUID parses the user claim.
func (c *Claims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

func (c *Claims) HasPermission(permission string) bool {
	return slices.Contains(c.Permissions, permission)
}
