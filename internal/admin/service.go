// File: internal/admin/service.go
package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bridgex_waitlist/internal/auth"
	"bridgex_waitlist/internal/common"
	"bridgex_waitlist/internal/config"
	"bridgex_waitlist/internal/platform/crypto"
	"bridgex_waitlist/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// errInvalidCredentials covers both unknown emails and wrong passwords.
var errInvalidCredentials = common.ErrUnauthorized.WithMessage("Invalid email or password.")

var errInvalidRefresh = common.ErrUnauthorized.WithMessage("Invalid or expired refresh token.")

// Service defines the interface for admin authentication.
type Service interface {
	SignIn(ctx context.Context, email, password string) (*Admin, *shared.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*shared.TokenPair, error)
	Logout(ctx context.Context, access *shared.Claims, refreshToken string) error
	GetByID(ctx context.Context, id uuid.UUID) (*Admin, error)
	// EnsureAdmin creates the configured admin if it does not exist. It returns the
	// generated password when one had to be made up, otherwise "".
	EnsureAdmin(ctx context.Context, email, password string) (string, error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo      Repository
	tokens    shared.TokenService
	blocklist auth.TokenBlocklistService
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new admin service.
func NewService(repo Repository, tokens shared.TokenService, blocklist auth.TokenBlocklistService, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:      repo,
		tokens:    tokens,
		blocklist: blocklist,
		logger:    logger.Named("AdminService"),
		now:       time.Now,
	}
}

// SignIn checks the credentials and mints a token pair.
func (s *ServiceImplementation) SignIn(ctx context.Context, email, password string) (*Admin, *shared.TokenPair, error) {
	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("Sign-in for unknown admin", zap.String("email", email))
			return nil, nil, errInvalidCredentials
		}
		return nil, nil, fmt.Errorf("find admin: %w", err)
	}
	if !common.CheckPasswordHash(password, admin.PasswordHash) {
		s.logger.Info("Sign-in with wrong password", zap.String("email", admin.Email))
		return nil, nil, errInvalidCredentials
	}

	pair, err := s.tokens.GenerateTokenPair(admin)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	now := s.now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		s.logger.Warn("Failed to record last login", zap.String("adminID", admin.ID.String()), zap.Error(err))
	} else {
		admin.LastLoginAt = &now
	}

	s.logger.Info("Admin signed in", zap.String("adminID", admin.ID.String()))
	return admin, pair, nil
}

// Refresh exchanges a refresh token for a new pair and revokes the old refresh token.
func (s *ServiceImplementation) Refresh(ctx context.Context, refreshToken string) (*shared.TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errInvalidRefresh
	}

	revoked, err := s.blocklist.IsBlocklisted(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check blocklist: %w", err)
	}
	if revoked {
		s.logger.Warn("Revoked refresh token presented", zap.String("adminID", claims.UserID.String()))
		return nil, errInvalidRefresh
	}

	admin, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errInvalidRefresh
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}

	pair, err := s.tokens.GenerateTokenPair(admin)
	if err != nil {
		return nil, fmt.Errorf("generate tokens: %w", err)
	}
	if err := s.blocklist.AddToBlocklist(ctx, claims.ID, claims.ExpiresAtTime()); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	return pair, nil
}

// Logout revokes the access token in use and, when given, the caller's refresh token.
func (s *ServiceImplementation) Logout(ctx context.Context, access *shared.Claims, refreshToken string) error {
	if access == nil {
		return common.ErrUnauthorized
	}
	if err := s.blocklist.AddToBlocklist(ctx, access.ID, access.ExpiresAtTime()); err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}

	if refreshToken != "" {
		refresh, err := s.tokens.ValidateRefreshToken(refreshToken)
		switch {
		case err != nil:
			s.logger.Debug("Ignoring invalid refresh token on logout", zap.Error(err))
		case refresh.UserID != access.UserID:
			s.logger.Warn("Refresh token on logout belongs to another admin", zap.String("adminID", access.UserID.String()))
		default:
			if err := s.blocklist.AddToBlocklist(ctx, refresh.ID, refresh.ExpiresAtTime()); err != nil {
				return fmt.Errorf("revoke refresh token: %w", err)
			}
		}
	}

	s.logger.Info("Admin signed out", zap.String("adminID", access.UserID.String()))
	return nil
}

// GetByID retrieves an admin.
func (s *ServiceImplementation) GetByID(ctx context.Context, id uuid.UUID) (*Admin, error) {
	return s.repo.FindByID(ctx, id)
}

// EnsureAdmin seeds the first admin account.
func (s *ServiceImplementation) EnsureAdmin(ctx context.Context, email, password string) (string, error) {
	if email == "" {
		return "", nil
	}
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return "", nil
	} else if !errors.Is(err, common.ErrNotFound) {
		return "", fmt.Errorf("find admin: %w", err)
	}

	var generated string
	if password == "" {
		var err error
		generated, err = crypto.GenerateSecureRandomString(18)
		if err != nil {
			return "", fmt.Errorf("generate admin password: %w", err)
		}
		password = generated
	}

	hash, err := common.HashPassword(password)
	if err != nil {
		return "", err
	}
	admin := &Admin{Email: email, PasswordHash: hash, Role: common.RoleAdmin}
	if err := s.repo.Create(ctx, admin); err != nil {
		return "", fmt.Errorf("create admin: %w", err)
	}
	s.logger.Info("Seeded admin account", zap.String("email", admin.Email))
	return generated, nil
}

// SeedFromConfig runs EnsureAdmin with ADMIN_EMAIL and ADMIN_PASSWORD and logs a generated password once.
func SeedFromConfig(ctx context.Context, svc Service, cfg *config.Config, logger *zap.Logger) error {
	generated, err := svc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return err
	}
	if generated != "" {
		logger.Warn("ADMIN_PASSWORD is not set; generated a password for the seeded admin.",
			zap.String("email", cfg.AdminEmail),
			zap.String("password", generated),
		)
	}
	return nil
}
