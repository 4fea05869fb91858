package identity

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/kudos/backend/internal/domain/shared"
	"github.com/kudos/backend/internal/infrastructure/auth"
	"github.com/kudos/backend/internal/infrastructure/config"
	"github.com/kudos/backend/internal/infrastructure/persistence"
	"github.com/kudos/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// captureMailer records the last magic link instead of sending mail
type captureMailer struct {
	to   string
	link string
	err  error
}

func (m *captureMailer) SendMagicLink(_ context.Context, to, link string) error {
	if m.err != nil {
		return m.err
	}
	m.to = to
	m.link = link
	return nil
}

type authEnv struct {
	svc         *AuthService
	profileRepo *persistence.GormProfileRepository
	blacklist   *auth.InMemoryTokenBlacklist
	jwtService  *auth.JWTService
	mailer      *captureMailer
}

func setupAuthEnv(t *testing.T) *authEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ProfileModel{}))

	profileRepo := persistence.NewGormProfileRepository(db)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "auth-service-test-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		MagicLinkExpiration:    15 * time.Minute,
		Issuer:                 "kudos-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	mailer := &captureMailer{}

	return &authEnv{
		svc:         NewAuthService(profileRepo, jwtService, blacklist, mailer, "https://kudos.example.com", zap.NewNop()),
		profileRepo: profileRepo,
		blacklist:   blacklist,
		jwtService:  jwtService,
		mailer:      mailer,
	}
}

// requestLink drives the full mail round trip and returns the token
// embedded in the captured link.
func requestLink(t *testing.T, env *authEnv, email string) string {
	t.Helper()
	require.NoError(t, env.svc.RequestMagicLink(context.Background(), email))

	parsed, err := url.Parse(env.mailer.link)
	require.NoError(t, err)
	token := parsed.Query().Get("token")
	require.NotEmpty(t, token)
	return token
}

func TestAuthService_RequestMagicLink(t *testing.T) {
	ctx := context.Background()

	t.Run("mails a callback link to the address", func(t *testing.T) {
		env := setupAuthEnv(t)
		require.NoError(t, env.svc.RequestMagicLink(ctx, "newcomer@example.com"))

		assert.Equal(t, "newcomer@example.com", env.mailer.to)
		assert.True(t, strings.HasPrefix(env.mailer.link, "https://kudos.example.com/auth/callback?token="))
	})

	t.Run("delivery failure surfaces as a domain error", func(t *testing.T) {
		env := setupAuthEnv(t)
		env.mailer.err = assert.AnError

		err := env.svc.RequestMagicLink(ctx, "newcomer@example.com")
		assert.Equal(t, "MAIL_DELIVERY_FAILED", domainCode(t, err))
	})
}

func TestAuthService_VerifyMagicLink(t *testing.T) {
	ctx := context.Background()

	t.Run("first sign-in provisions the profile", func(t *testing.T) {
		env := setupAuthEnv(t)
		token := requestLink(t, env, "newcomer@example.com")

		result, err := env.svc.VerifyMagicLink(ctx, token)
		require.NoError(t, err)

		assert.True(t, result.FirstSignIn)
		assert.Equal(t, "newcomer@example.com", result.Profile.Email)
		assert.Equal(t, "newcomer", result.Profile.DisplayName)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)

		// the issued access token is immediately usable
		claims, err := env.jwtService.ValidateAccessToken(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, result.Profile.ID.String(), claims.UserID)
	})

	t.Run("returning member keeps the existing profile", func(t *testing.T) {
		env := setupAuthEnv(t)

		first, err := env.svc.VerifyMagicLink(ctx, requestLink(t, env, "member@example.com"))
		require.NoError(t, err)

		second, err := env.svc.VerifyMagicLink(ctx, requestLink(t, env, "member@example.com"))
		require.NoError(t, err)

		assert.False(t, second.FirstSignIn)
		assert.Equal(t, first.Profile.ID, second.Profile.ID)
	})

	t.Run("a link can only be used once", func(t *testing.T) {
		env := setupAuthEnv(t)
		token := requestLink(t, env, "member@example.com")

		_, err := env.svc.VerifyMagicLink(ctx, token)
		require.NoError(t, err)

		_, err = env.svc.VerifyMagicLink(ctx, token)
		assert.Equal(t, "LINK_ALREADY_USED", domainCode(t, err))
	})

	t.Run("garbage token", func(t *testing.T) {
		env := setupAuthEnv(t)
		_, err := env.svc.VerifyMagicLink(ctx, "not-a-token")
		assert.Equal(t, "INVALID_LINK", domainCode(t, err))
	})

	t.Run("access token is not a sign-in link", func(t *testing.T) {
		env := setupAuthEnv(t)
		result, err := env.svc.VerifyMagicLink(ctx, requestLink(t, env, "member@example.com"))
		require.NoError(t, err)

		_, err = env.svc.VerifyMagicLink(ctx, result.AccessToken)
		assert.Equal(t, "INVALID_LINK", domainCode(t, err))
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("exchanges a refresh token for a new pair", func(t *testing.T) {
		env := setupAuthEnv(t)
		signIn, err := env.svc.VerifyMagicLink(ctx, requestLink(t, env, "member@example.com"))
		require.NoError(t, err)

		pair, err := env.svc.Refresh(ctx, signIn.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)

		claims, err := env.jwtService.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, signIn.Profile.ID.String(), claims.UserID)
	})

	t.Run("a used refresh token cannot be replayed", func(t *testing.T) {
		env := setupAuthEnv(t)
		signIn, err := env.svc.VerifyMagicLink(ctx, requestLink(t, env, "member@example.com"))
		require.NoError(t, err)

		_, err = env.svc.Refresh(ctx, signIn.RefreshToken)
		require.NoError(t, err)

		_, err = env.svc.Refresh(ctx, signIn.RefreshToken)
		assert.Equal(t, "INVALID_TOKEN", domainCode(t, err))
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		env := setupAuthEnv(t)
		signIn, err := env.svc.VerifyMagicLink(ctx, requestLink(t, env, "member@example.com"))
		require.NoError(t, err)

		_, err = env.svc.Refresh(ctx, signIn.AccessToken)
		assert.Equal(t, "INVALID_TOKEN", domainCode(t, err))
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	env := setupAuthEnv(t)

	signIn, err := env.svc.VerifyMagicLink(ctx, requestLink(t, env, "member@example.com"))
	require.NoError(t, err)

	require.NoError(t, env.svc.Logout(ctx, signIn.AccessToken, signIn.RefreshToken))

	accessClaims, err := env.jwtService.ValidateAccessToken(signIn.AccessToken)
	require.NoError(t, err)
	revoked, err := env.blacklist.IsRevoked(ctx, accessClaims.RegisteredClaims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	// the revoked refresh token can no longer be exchanged
	_, err = env.svc.Refresh(ctx, signIn.RefreshToken)
	assert.Equal(t, "INVALID_TOKEN", domainCode(t, err))
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Code
}
