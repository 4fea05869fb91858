package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/kudos/backend/internal/domain/identity"
	"github.com/kudos/backend/internal/domain/shared"
	"github.com/kudos/backend/internal/infrastructure/auth"
	"github.com/kudos/backend/internal/infrastructure/mail"
	"go.uber.org/zap"
)

// AuthService implements the passwordless sign-in flow: a magic link is
// mailed to the address, and verifying it provisions the profile on first
// use and issues a session token pair.
type AuthService struct {
	profileRepo identity.ProfileRepository
	jwtService  *auth.JWTService
	blacklist   auth.TokenBlacklist
	mailer      mail.Mailer
	baseURL     string
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	profileRepo identity.ProfileRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	mailer mail.Mailer,
	baseURL string,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		profileRepo: profileRepo,
		jwtService:  jwtService,
		blacklist:   blacklist,
		mailer:      mailer,
		baseURL:     baseURL,
		logger:      logger,
	}
}

// RequestMagicLink mails a one-time sign-in link to the address.
// The response never reveals whether the address is already registered.
func (s *AuthService) RequestMagicLink(ctx context.Context, email string) error {
	token, expiresAt, err := s.jwtService.GenerateMagicLinkToken(email)
	if err != nil {
		s.logger.Error("failed to generate magic link token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to generate sign-in link")
	}

	link := fmt.Sprintf("%s/auth/callback?token=%s", s.baseURL, url.QueryEscape(token))
	if err := s.mailer.SendMagicLink(ctx, email, link); err != nil {
		s.logger.Error("failed to send magic link", zap.Error(err))
		return shared.NewDomainError("MAIL_DELIVERY_FAILED", "Failed to send sign-in link")
	}

	s.logger.Info("magic link sent",
		zap.String("email", email),
		zap.Time("expires_at", expiresAt),
	)
	return nil
}

// VerifyMagicLink validates a one-time sign-in token, provisions the
// profile on first sign-in, and issues a session token pair. A link can
// be used once: its JTI is blacklisted for its remaining lifetime.
func (s *AuthService) VerifyMagicLink(ctx context.Context, token string) (*SignInResult, error) {
	claims, err := s.jwtService.ValidateMagicLinkToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, shared.NewDomainError("LINK_EXPIRED", "This sign-in link has expired")
		}
		return nil, shared.NewDomainError("INVALID_LINK", "This sign-in link is invalid")
	}

	used, err := s.blacklist.IsRevoked(ctx, claims.RegisteredClaims.ID)
	if err != nil {
		s.logger.Error("failed to check magic link reuse", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify sign-in link")
	}
	if used {
		return nil, shared.NewDomainError("LINK_ALREADY_USED", "This sign-in link has already been used")
	}

	firstSignIn := false
	profile, err := s.profileRepo.FindByEmail(ctx, claims.Email)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		profile, err = s.provisionProfile(ctx, claims.Email)
		if err != nil {
			return nil, err
		}
		firstSignIn = true
	}

	if err := s.blacklist.Revoke(ctx, claims.RegisteredClaims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Error("failed to consume magic link", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify sign-in link")
	}

	pair, err := s.jwtService.GenerateTokenPair(profile.ID, profile.Email)
	if err != nil {
		s.logger.Error("failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create session")
	}

	s.logger.Info("sign-in completed",
		zap.String("profile_id", profile.ID.String()),
		zap.Bool("first_sign_in", firstSignIn),
	)

	return &SignInResult{
		Profile:               ProfileToDTO(profile),
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		FirstSignIn:           firstSignIn,
	}, nil
}

// provisionProfile creates the profile on first sign-in. A concurrent
// verification of the same address may win the insert; fall back to the
// winner's row.
func (s *AuthService) provisionProfile(ctx context.Context, email string) (*identity.Profile, error) {
	profile, err := identity.NewProfile(email)
	if err != nil {
		return nil, err
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return s.profileRepo.FindByEmail(ctx, email)
		}
		return nil, err
	}
	return profile, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
// The used refresh token is revoked so it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Invalid or expired refresh token")
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.RegisteredClaims.ID)
	if err != nil {
		s.logger.Error("failed to check refresh token revocation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to refresh session")
	}
	if revoked {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token has been revoked")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Invalid refresh token")
	}

	// The account must still exist
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Account no longer exists")
	}

	if err := s.blacklist.Revoke(ctx, claims.RegisteredClaims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Error("failed to revoke used refresh token", zap.Error(err))
	}

	pair, err := s.jwtService.GenerateTokenPair(profile.ID, profile.Email)
	if err != nil {
		s.logger.Error("failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to refresh session")
	}
	return pair, nil
}

// Logout revokes the session's access and refresh tokens
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if claims, err := s.jwtService.ValidateAccessToken(accessToken); err == nil {
		if err := s.blacklist.Revoke(ctx, claims.RegisteredClaims.ID, claims.GetRemainingTTL()); err != nil {
			s.logger.Error("failed to revoke access token", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
		}
	}

	if refreshToken != "" {
		if claims, err := s.jwtService.ValidateRefreshToken(refreshToken); err == nil {
			if err := s.blacklist.Revoke(ctx, claims.RegisteredClaims.ID, claims.GetRemainingTTL()); err != nil {
				s.logger.Error("failed to revoke refresh token", zap.Error(err))
				return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
			}
		}
	}

	return nil
}
