// File: internal/auth/service.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"bridgex_waitlist/internal/config"
	"bridgex_waitlist/internal/shared"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrInvalidToken is returned for tokens that fail signature, expiry or claim checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrWrongTokenUse is returned when a refresh token is presented as an access token or vice versa.
	ErrWrongTokenUse = errors.New("token used for the wrong purpose")
)

type JWTService struct {
	cfg    *config.Config
	logger *zap.Logger
	now    func() time.Time
}

// NewJWTService creates the HS256 token service.
func NewJWTService(cfg *config.Config, logger *zap.Logger) shared.TokenService {
	return &JWTService{cfg: cfg, logger: logger.Named("JWTService"), now: time.Now}
}

// GenerateTokenPair mints an access token and a refresh token for userData. Each carries its own JTI.
func (s *JWTService) GenerateTokenPair(userData shared.UserDataForToken) (*shared.TokenPair, error) {
	now := s.now()
	accessExp := now.Add(s.cfg.JWTAccessTokenExpiryMinutes)
	refreshExp := now.Add(s.cfg.JWTRefreshTokenExpiryDays)

	access, err := s.sign(userData, shared.TokenUseAccess, now, accessExp)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(userData, shared.TokenUseRefresh, now, refreshExp)
	if err != nil {
		return nil, err
	}
	return &shared.TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *JWTService) sign(userData shared.UserDataForToken, use string, issuedAt, expiresAt time.Time) (string, error) {
	claims := &shared.Claims{
		UserID:   userData.GetID(),
		Email:    userData.GetEmail(),
		Role:     userData.GetRole(),
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Issuer:    s.cfg.JWTIssuer,
			Subject:   userData.GetID().String(),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		s.logger.Error("Failed to sign token", zap.String("token_use", use), zap.Error(err))
		return "", fmt.Errorf("could not sign %s token: %w", use, err)
	}
	return tokenString, nil
}

// ValidateAccessToken validates an access token and returns its claims.
func (s *JWTService) ValidateAccessToken(tokenString string) (*shared.Claims, error) {
	return s.validate(tokenString, shared.TokenUseAccess)
}

// ValidateRefreshToken validates a refresh token and returns its claims.
func (s *JWTService) ValidateRefreshToken(tokenString string) (*shared.Claims, error) {
	return s.validate(tokenString, shared.TokenUseRefresh)
}

func (s *JWTService) validate(tokenString, use string) (*shared.Claims, error) {
	claims := &shared.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.JWTIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		s.logger.Debug("Token validation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.ID == "" || claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenUse != use {
		return nil, fmt.Errorf("%w: expected %s token, got %q", ErrWrongTokenUse, use, claims.TokenUse)
	}
	return claims, nil
}
