// File: internal/apiclient/auth.go
package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultRole is assumed when the sign-in response does not describe the user.
const DefaultRole = "admin"

// UserInfo describes the signed-in admin.
type UserInfo struct {
	ID          string     `json:"id,omitempty"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// LoginResult is returned by a successful Login.
type LoginResult struct {
	Message string
	User    UserInfo
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	User         *UserInfo `json:"user"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

// AuthService signs admins in and out.
type AuthService struct {
	client *Client
	logger *zap.Logger
}

// NewAuthService creates an AuthService on top of client.
func NewAuthService(client *Client, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{client: client, logger: logger}
}

// Login signs in and stores the session. The session is left untouched unless
// the server returns a token.
func (a *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var resp signInResponse
	if err := a.client.Do(ctx, http.MethodPost, PathSignIn, signInRequest{Email: email, Password: password}, &resp); err != nil {
		a.logger.Error("Login error", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	if resp.Token == "" {
		a.logger.Error("Login error", zap.String("email", email), zap.Error(ErrMissingToken))
		return nil, ErrMissingToken
	}

	refreshToken := resp.RefreshToken
	if refreshToken == "" {
		refreshToken = resp.Token
	}
	if err := a.client.Sessions().Set(resp.Token, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	user := UserInfo{Email: email, Role: DefaultRole}
	if resp.User != nil {
		user = *resp.User
	}
	return &LoginResult{Message: "Login successful", User: user}, nil
}

// Logout tells the server to revoke the session and always clears it locally.
func (a *AuthService) Logout(ctx context.Context) {
	sessions := a.client.Sessions()
	defer func() {
		if err := sessions.Clear(); err != nil {
			a.logger.Error("Failed to clear session on logout", zap.Error(err))
		}
	}()

	// Read the refresh token per attempt: a replay after refresh must revoke the rotated one.
	body := BodyFunc(func() any {
		var req logoutRequest
		if sess, ok := sessions.Get(); ok {
			req.RefreshToken = sess.RefreshToken
		}
		return req
	})
	if err := a.client.Do(ctx, http.MethodPost, PathLogout, body, nil); err != nil {
		a.logger.Warn("Logout error", zap.Error(err))
	}
}

// Profile fetches the signed-in admin.
func (a *AuthService) Profile(ctx context.Context) (*UserInfo, error) {
	var user UserInfo
	if err := a.client.Do(ctx, http.MethodGet, PathProfile, nil, &user); err != nil {
		a.logger.Error("Profile fetch error", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

// IsAuthenticated reports whether a session is held.
func (a *AuthService) IsAuthenticated() bool {
	return a.client.Sessions().IsAuthenticated()
}

// Token returns the current access token, or "".
func (a *AuthService) Token() string {
	sess, _ := a.client.Sessions().Get()
	return sess.AccessToken
}
