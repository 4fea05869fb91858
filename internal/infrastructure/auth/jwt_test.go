package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kudos/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-for-jwt-signing",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		MagicLinkExpiration:    15 * time.Minute,
		Issuer:                 "kudos-test",
	})
}

func TestJWTService_TokenPair(t *testing.T) {
	service := newTestJWTService()
	userID := uuid.New()

	pair, err := service.GenerateTokenPair(userID, "sam@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)

	t.Run("access token round trip", func(t *testing.T) {
		claims, err := service.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "sam@example.com", claims.Email)
		assert.Equal(t, TokenTypeAccess, claims.TokenType)
		assert.NotEmpty(t, claims.RegisteredClaims.ID)

		parsed, err := claims.GetUserUUID()
		require.NoError(t, err)
		assert.Equal(t, userID, parsed)
	})

	t.Run("refresh token round trip", func(t *testing.T) {
		claims, err := service.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	})

	t.Run("access and refresh tokens are not interchangeable", func(t *testing.T) {
		_, err := service.ValidateAccessToken(pair.RefreshToken)
		assert.Error(t, err)

		_, err = service.ValidateRefreshToken(pair.AccessToken)
		assert.Error(t, err)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := service.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with a different secret is rejected", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                 "completely-different-secret",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: time.Hour,
			MagicLinkExpiration:    15 * time.Minute,
			Issuer:                 "kudos-test",
		})
		otherPair, err := other.GenerateTokenPair(userID, "sam@example.com")
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(otherPair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestJWTService_MagicLinkToken(t *testing.T) {
	service := newTestJWTService()

	t.Run("round trip", func(t *testing.T) {
		token, expiresAt, err := service.GenerateMagicLinkToken("new.member@example.com")
		require.NoError(t, err)
		assert.True(t, expiresAt.After(time.Now()))

		claims, err := service.ValidateMagicLinkToken(token)
		require.NoError(t, err)
		assert.Equal(t, "new.member@example.com", claims.Email)
		assert.Equal(t, TokenTypeMagicLink, claims.TokenType)
		assert.Empty(t, claims.UserID)
	})

	t.Run("magic link is not an access token", func(t *testing.T) {
		token, _, err := service.GenerateMagicLinkToken("new.member@example.com")
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("expired link is rejected", func(t *testing.T) {
		expired := NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-for-jwt-signing",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: time.Hour,
			MagicLinkExpiration:    -time.Minute,
			Issuer:                 "kudos-test",
		})
		token, _, err := expired.GenerateMagicLinkToken("late@example.com")
		require.NoError(t, err)

		_, err = expired.ValidateMagicLinkToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestClaims_GetRemainingTTL(t *testing.T) {
	service := newTestJWTService()

	pair, err := service.GenerateTokenPair(uuid.New(), "sam@example.com")
	require.NoError(t, err)

	claims, err := service.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	ttl := claims.GetRemainingTTL()
	assert.Greater(t, ttl, 14*time.Minute)
	assert.LessOrEqual(t, ttl, 15*time.Minute)
}

func TestInMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	blacklist := NewInMemoryTokenBlacklist()

	t.Run("unknown jti is not revoked", func(t *testing.T) {
		revoked, err := blacklist.IsRevoked(ctx, "unknown")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("revoked jti stays revoked for its ttl", func(t *testing.T) {
		require.NoError(t, blacklist.Revoke(ctx, "jti-1", time.Hour))

		revoked, err := blacklist.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("expired entry is forgotten", func(t *testing.T) {
		require.NoError(t, blacklist.Revoke(ctx, "jti-2", time.Nanosecond))
		time.Sleep(time.Millisecond)

		revoked, err := blacklist.IsRevoked(ctx, "jti-2")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("revoking an already-expired token is a no-op", func(t *testing.T) {
		require.NoError(t, blacklist.Revoke(ctx, "jti-3", -time.Minute))

		revoked, err := blacklist.IsRevoked(ctx, "jti-3")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}
