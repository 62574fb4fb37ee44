package auth

import (
	"context"
	"testing"
	"time"

	"bridgex_waitlist/internal/config"
	"bridgex_waitlist/internal/shared"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testSubject struct {
	id    uuid.UUID
	email string
}

func (s testSubject) GetID() uuid.UUID { return s.id }
func (s testSubject) GetEmail() string { return s.email }
func (s testSubject) GetRole() string  { return "admin" }

func testConfig() *config.Config {
	return &config.Config{
		JWTSecretKey:                "unit-test-secret",
		JWTIssuer:                   "bridgex_waitlist",
		JWTAccessTokenExpiryMinutes: 15 * time.Minute,
		JWTRefreshTokenExpiryDays:   7 * 24 * time.Hour,
	}
}

func TestJWTService_TokenPairRoundTrip(t *testing.T) {
	svc := NewJWTService(testConfig(), zap.NewNop())
	subject := testSubject{id: uuid.New(), email: "admin@bridgex.ng"}

	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))

	access, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, subject.id, access.UserID)
	assert.Equal(t, "admin@bridgex.ng", access.Email)
	assert.Equal(t, shared.TokenUseAccess, access.TokenUse)
	assert.NotEmpty(t, access.ID)

	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, shared.TokenUseRefresh, refresh.TokenUse)
	assert.NotEqual(t, access.ID, refresh.ID)
}

func TestJWTService_RejectsWrongUse(t *testing.T) {
	svc := NewJWTService(testConfig(), zap.NewNop())
	pair, err := svc.GenerateTokenPair(testSubject{id: uuid.New()})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrWrongTokenUse)
	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenUse)
}

func TestJWTService_RejectsExpiredAndForeignTokens(t *testing.T) {
	cfg := testConfig()
	svc := NewJWTService(cfg, zap.NewNop()).(*JWTService)
	pair, err := svc.GenerateTokenPair(testSubject{id: uuid.New()})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewJWTService(&config.Config{
		JWTSecretKey:                "another-secret",
		JWTIssuer:                   cfg.JWTIssuer,
		JWTAccessTokenExpiryMinutes: time.Minute,
		JWTRefreshTokenExpiryDays:   time.Hour,
	}, zap.NewNop())
	foreign, err := other.GenerateTokenPair(testSubject{id: uuid.New()})
	require.NoError(t, err)
	_, err = NewJWTService(cfg, zap.NewNop()).ValidateAccessToken(foreign.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsUnsignedAlgorithm(t *testing.T) {
	claims := &shared.Claims{
		UserID:   uuid.New(),
		TokenUse: shared.TokenUseAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    "bridgex_waitlist",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTService(testConfig(), zap.NewNop()).ValidateAccessToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestInMemoryBlocklist(t *testing.T) {
	bl := NewTokenBlocklist(testConfig())
	ctx := context.Background()

	require.NoError(t, bl.AddToBlocklist(ctx, "jti-1", time.Now().Add(time.Minute)))
	require.NoError(t, bl.AddToBlocklist(ctx, "jti-expired", time.Now().Add(-time.Minute)))

	found, err := bl.IsBlocklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, found)

	found, _ = bl.IsBlocklisted(ctx, "jti-expired")
	assert.False(t, found)
	found, _ = bl.IsBlocklisted(ctx, "jti-unknown")
	assert.False(t, found)
}
