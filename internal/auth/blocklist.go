// File: internal/auth/blocklist.go
package auth

import (
	"context"
	"time"

	"bridgex_waitlist/internal/config"

	"github.com/patrickmn/go-cache"
)

// TokenBlocklistService records revoked token IDs until the tokens would have expired anyway.
type TokenBlocklistService interface {
	AddToBlocklist(ctx context.Context, jti string, expiresAt time.Time) error
	IsBlocklisted(ctx context.Context, jti string) (bool, error)
}

// InMemoryBlocklistService keeps revoked JTIs in a TTL cache. Revocations do not survive a restart.
type InMemoryBlocklistService struct {
	cache *cache.Cache
}

// InMemoryBlocklistConfig holds the configuration for the InMemoryBlocklistService.
type InMemoryBlocklistConfig struct {
	DefaultExpiration time.Duration
	CleanupInterval   time.Duration
}

// NewInMemoryBlocklistService creates a new in-memory blocklist service.
func NewInMemoryBlocklistService(cfg InMemoryBlocklistConfig) *InMemoryBlocklistService {
	return &InMemoryBlocklistService{
		cache: cache.New(cfg.DefaultExpiration, cfg.CleanupInterval),
	}
}

// AddToBlocklist revokes jti until expiresAt. Already expired tokens are ignored.
func (s *InMemoryBlocklistService) AddToBlocklist(_ context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if jti == "" || ttl <= 0 {
		return nil
	}
	s.cache.Set(jti, struct{}{}, ttl)
	return nil
}

// IsBlocklisted reports whether jti has been revoked.
func (s *InMemoryBlocklistService) IsBlocklisted(_ context.Context, jti string) (bool, error) {
	_, found := s.cache.Get(jti)
	return found, nil
}

// NewTokenBlocklist sizes the blocklist for the refresh token lifetime in cfg.
func NewTokenBlocklist(cfg *config.Config) TokenBlocklistService {
	return NewInMemoryBlocklistService(InMemoryBlocklistConfig{
		DefaultExpiration: cfg.JWTRefreshTokenExpiryDays,
		CleanupInterval:   10 * time.Minute,
	})
}
