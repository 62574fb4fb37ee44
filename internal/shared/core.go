// File: internal/shared/core.go
package shared

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token uses carried in the token_use claim.
const (
	TokenUseAccess  = "access"
	TokenUseRefresh = "refresh"
)

// UserDataForToken is the subject data a token is minted for.
type UserDataForToken interface {
	GetID() uuid.UUID
	GetEmail() string
	GetRole() string
}

// TokenPair is a freshly minted access and refresh token.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// TokenService mints and validates admin JWTs.
type TokenService interface {
	GenerateTokenPair(userData UserDataForToken) (*TokenPair, error)
	// ValidateAccessToken accepts only unexpired access tokens.
	ValidateAccessToken(tokenString string) (*Claims, error)
	// ValidateRefreshToken accepts only unexpired refresh tokens.
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

// Claims represents the JWT claims structure
type Claims struct {
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	TokenUse string    `json:"token_use"`
	jwt.RegisteredClaims
}

// ExpiresAtTime returns the expiry of c, or the zero time when it has none.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
