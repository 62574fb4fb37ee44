package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bridgex_waitlist/internal/auth"
	"bridgex_waitlist/internal/common"
	"bridgex_waitlist/internal/config"
	"bridgex_waitlist/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type admin struct{ id uuid.UUID }

func (a admin) GetID() uuid.UUID { return a.id }
func (a admin) GetEmail() string { return "admin@bridgex.ng" }
func (a admin) GetRole() string  { return common.RoleAdmin }

type middlewareFixture struct {
	router    *gin.Engine
	tokens    shared.TokenService
	blocklist auth.TokenBlocklistService
}

func setupMiddlewareTest(t *testing.T) *middlewareFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		GinMode:                     gin.TestMode,
		JWTSecretKey:                "middleware-secret",
		JWTIssuer:                   "bridgex_waitlist",
		JWTAccessTokenExpiryMinutes: 15 * time.Minute,
		JWTRefreshTokenExpiryDays:   24 * time.Hour,
	}
	logger := zap.NewNop()
	f := &middlewareFixture{
		tokens:    auth.NewJWTService(cfg, logger),
		blocklist: auth.NewTokenBlocklist(cfg),
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(ZapLogger(logger, cfg), ErrorHandler(logger))
	protected := r.Group("/admin", AuthMiddleware(f.tokens, f.blocklist, logger))
	protected.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUserIDFromContext(c).String(), "role": GetUserRoleFromContext(c)})
	})
	protected.GET("/root", RoleAuthMiddleware("superadmin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.POST("/signup", RateLimit(NewIPRateLimiter(60, 2), logger), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	f.router = r
	return f
}

func (f *middlewareFixture) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	f := setupMiddlewareTest(t)
	id := uuid.New()
	pair, err := f.tokens.GenerateTokenPair(admin{id: id})
	require.NoError(t, err)

	w := f.do(http.MethodGet, "/admin/me", pair.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/admin/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/admin/me", "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/admin/me", pair.RefreshToken).Code, "refresh tokens are not access tokens")

	claims, err := f.tokens.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.NoError(t, f.blocklist.AddToBlocklist(context.Background(), claims.ID, claims.ExpiresAtTime()))
	w = f.do(http.MethodGet, "/admin/me", pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body common.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "UNAUTHORIZED", body.Code)
	assert.Equal(t, "Token has been revoked.", body.Details)
}

func TestRoleAuthMiddleware(t *testing.T) {
	f := setupMiddlewareTest(t)
	pair, err := f.tokens.GenerateTokenPair(admin{id: uuid.New()})
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/admin/root", pair.AccessToken).Code)
}

func TestRateLimit(t *testing.T) {
	f := setupMiddlewareTest(t)

	assert.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/signup", "").Code)
	assert.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/signup", "").Code)
	w := f.do(http.MethodPost, "/signup", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestIPRateLimiter_PerIP(t *testing.T) {
	l := NewIPRateLimiter(1, 1)
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))

	unlimited := NewIPRateLimiter(0, 0)
	for i := 0; i < 100; i++ {
		require.True(t, unlimited.Allow("10.0.0.3"))
	}
}

func TestErrorHandler_UnknownRouteAndMethod(t *testing.T) {
	f := setupMiddlewareTest(t)

	w := f.do(http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")

	w = f.do(http.MethodGet, "/signup", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), "METHOD_NOT_ALLOWED")
}
