package auth

import (
	"testing"
	"time"

	"github.com/erp/ecocare/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-characters"

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{Secret: testSecret, Issuer: "ecocare"})
}

func TestJWTService_RoundTrip(t *testing.T) {
	s := newTestService()
	tenantID, userID := uuid.New(), uuid.New()

	token, err := s.GenerateAccessToken(TokenInput{
		TenantID:    tenantID,
		UserID:      userID,
		Username:    "sales",
		Permissions: []string{"sale_order_request:validate"},
	}, time.Hour)
	require.NoError(t, err)

	claims, err := s.ValidateAccessToken(token)
	require.NoError(t, err)
	got, err := claims.TenantUUID()
	require.NoError(t, err)
	assert.Equal(t, tenantID, got)
	uid, err := claims.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, uid)
	assert.True(t, claims.HasPermission("sale_order_request:validate"))
	assert.False(t, claims.HasPermission("product:delete"))
}

func TestJWTService_Rejects(t *testing.T) {
	s := newTestService()
	in := TokenInput{TenantID: uuid.New(), UserID: uuid.New()}

	t.Run("expired", func(t *testing.T) {
		token, err := s.GenerateAccessToken(in, -time.Minute)
		require.NoError(t, err)
		_, err = s.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "another-secret-key-of-32-characters!", Issuer: "ecocare"})
		token, err := other.GenerateAccessToken(in, time.Hour)
		require.NoError(t, err)
		_, err = s.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: testSecret, Issuer: "someone-else"})
		token, err := other.GenerateAccessToken(in, time.Hour)
		require.NoError(t, err)
		_, err = s.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := s.ValidateAccessToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("refresh token type", func(t *testing.T) {
		token := sign(t, &Claims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "ecocare", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
			TenantID:         uuid.NewString(),
			UserID:           uuid.NewString(),
			TokenType:        "refresh",
		})
		_, err := s.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})

	t.Run("missing tenant", func(t *testing.T) {
		token := sign(t, &Claims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "ecocare", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
			UserID:           uuid.NewString(),
			TokenType:        TokenTypeAccess,
		})
		_, err := s.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrMissingTenantID)
	})
}

func sign(t *testing.T, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}
