// File: internal/apiclient/client.go
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"bridgex_waitlist/internal/session"

	"go.uber.org/zap"
)

// DefaultTimeout bounds every request made by a Client.
const DefaultTimeout = 20 * time.Second

type attemptKey struct{}

// withAttempt records how many times the current request has already been sent.
func withAttempt(ctx context.Context, n int) context.Context {
	return context.WithValue(ctx, attemptKey{}, n)
}

func attemptFrom(ctx context.Context) int {
	n, _ := ctx.Value(attemptKey{}).(int)
	return n
}

// Client is the single point of egress for waitlist API calls. It attaches the
// current access token and, on a 401, refreshes the session once and replays
// the request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   session.Store
	notifier   Notifier
	onExpired  func(ctx context.Context)
	logger     *zap.Logger

	refreshMu sync.Mutex
	expireMu  sync.Mutex
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithNotifier sets where user-facing failure messages go.
func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithSessionExpiredHandler is called after the session has been cleared
// because it could not be refreshed. Callers use it to send the user back to login.
func WithSessionExpiredHandler(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onExpired = fn }
}

// WithLogger sets the client's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, sessions session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		sessions:   sessions,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.notifier == nil {
		c.notifier = LogNotifier{Logger: c.logger}
	}
	return c
}

// Sessions returns the store the client reads tokens from.
func (c *Client) Sessions() session.Store { return c.sessions }

// BodyFunc builds a request body at send time. A request replayed after a
// token refresh calls it again, so it sees the refreshed session.
type BodyFunc func() any

// Do sends a JSON request and decodes a successful response into out (which may be nil).
// in may be a BodyFunc.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	build, ok := in.(BodyFunc)
	if !ok {
		build = func() any { return in }
	}
	return c.do(ctx, method, path, build, out)
}

func encodeBody(build BodyFunc) ([]byte, error) {
	in := build()
	if in == nil {
		return nil, nil
	}
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, method, path string, build BodyFunc, out any) error {
	body, err := encodeBody(build)
	if err != nil {
		return err
	}
	status, respBody, sentToken, err := c.send(ctx, method, path, body)
	if err != nil {
		c.logger.Warn("Request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return err
	}

	if status >= 200 && status < 300 {
		return decodeResponse(respBody, out)
	}

	statusErr := newStatusError(method, path, status, respBody)
	if status == http.StatusUnauthorized && !skipsRefresh[path] {
		return c.handleUnauthorized(ctx, method, path, build, out, sentToken, statusErr)
	}

	if n, ok := notificationFor(status); ok {
		c.notifier.Notify(ctx, n)
	}
	return statusErr
}

func (c *Client) handleUnauthorized(ctx context.Context, method, path string, build BodyFunc, out any, sentToken string, statusErr *StatusError) error {
	attempt := attemptFrom(ctx)
	if attempt > 0 {
		c.logger.Warn("Request rejected after token refresh", zap.String("method", method), zap.String("path", path))
		c.expireSession(ctx)
		return statusErr
	}

	cur, ok := c.sessions.Get()
	if !ok || cur.RefreshToken == "" {
		return statusErr
	}
	stale := session.Session{AccessToken: sentToken, RefreshToken: cur.RefreshToken}

	if err := c.refresh(ctx, stale); err != nil {
		c.logger.Warn("Token refresh failed", zap.Error(err))
		c.expireSession(ctx)
		return err
	}

	return c.do(withAttempt(ctx, attempt+1), method, path, build, out)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// refresh exchanges the refresh token of stale for a new session. stale.AccessToken
// is the token the rejected request carried; if the store already holds a
// different one, another caller has refreshed and nothing is sent.
func (c *Client) refresh(ctx context.Context, stale session.Session) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	cur, ok := c.sessions.Get()
	if !ok {
		return fmt.Errorf("%w: session was cleared", ErrRefreshRejected)
	}
	if cur.AccessToken != stale.AccessToken {
		return nil
	}

	payload, err := json.Marshal(refreshRequest{RefreshToken: stale.RefreshToken})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRefreshRejected, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PathRefresh, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRefreshRejected, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRefreshRejected, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrRefreshRejected, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %w", ErrRefreshRejected, newStatusError(http.MethodPost, PathRefresh, resp.StatusCode, respBody))
	}

	var tokens refreshResponse
	if err := decodeResponse(respBody, &tokens); err != nil {
		return fmt.Errorf("%w: %v", ErrRefreshRejected, err)
	}
	if tokens.AccessToken == "" {
		return fmt.Errorf("%w: response has no access token", ErrRefreshRejected)
	}
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = stale.RefreshToken
	}
	if err := c.sessions.Set(tokens.AccessToken, tokens.RefreshToken); err != nil {
		return fmt.Errorf("%w: %v", ErrRefreshRejected, err)
	}
	c.logger.Debug("Session refreshed")
	return nil
}

// expireSession clears the store and fires the expiry hook. Only the caller
// that actually ended a live session fires it.
func (c *Client) expireSession(ctx context.Context) {
	c.expireMu.Lock()
	_, live := c.sessions.Get()
	if err := c.sessions.Clear(); err != nil {
		c.logger.Error("Failed to clear session", zap.Error(err))
	}
	c.expireMu.Unlock()

	if live && c.onExpired != nil {
		c.onExpired(ctx)
	}
}

// send performs one HTTP exchange and reports the access token it attached.
func (c *Client) send(ctx context.Context, method, path string, body []byte) (int, []byte, string, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	var token string
	if sess, ok := c.sessions.Get(); ok && sess.AccessToken != "" {
		token = sess.AccessToken
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, token, fmt.Errorf("%s %s: request failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, token, fmt.Errorf("%s %s: failed to read response: %w", method, path, err)
	}
	return resp.StatusCode, respBody, token, nil
}

// envelope is the server's success wrapper.
type envelope struct {
	Status     string          `json:"status"`
	Data       json.RawMessage `json:"data"`
	Pagination json.RawMessage `json:"pagination"`
}

// decodeResponse accepts either a bare document or a success envelope.
// Paginated envelopes are decoded whole so the caller keeps the pagination.
func decodeResponse(body []byte, out any) error {
	body = bytes.TrimSpace(body)
	if out == nil || len(body) == 0 {
		return nil
	}
	if body[0] == '{' {
		var env envelope
		if json.Unmarshal(body, &env) == nil && env.Status == "success" && len(env.Data) > 0 && len(env.Pagination) == 0 {
			body = env.Data
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
