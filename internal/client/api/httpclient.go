package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dormdeals/dormdeals/internal/client/config"
	"github.com/dormdeals/dormdeals/internal/client/models"
	"github.com/dormdeals/dormdeals/internal/client/storage"
	"github.com/dormdeals/dormdeals/internal/logging"
)

// HTTPClient implements Client over the backend REST API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient builds a client whose transport attaches bearer tokens from
// the store and retries once after a transparent refresh. onSessionExpired
// fires when a refresh attempt fails for good; it may be nil.
func NewHTTPClient(cfg *config.Config, store storage.TokenStore, logger logging.Logger, onSessionExpired func()) *HTTPClient {
	c := &HTTPClient{baseURL: cfg.ServerBaseURL}
	c.http = &http.Client{
		Timeout: cfg.RequestTimeout,
		Transport: &authTransport{
			base:             http.DefaultTransport,
			store:            store,
			refresh:          c.RefreshToken,
			onSessionExpired: onSessionExpired,
			logger:           logger.With("module", "api"),
		},
	}
	return c
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type loginResponse struct {
	AccessToken  string              `json:"accessToken"`
	RefreshToken string              `json:"refreshToken"`
	User         *models.UserSummary `json:"user"`
}

type userResponse struct {
	User *models.UserSummary `json:"user"`
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*models.UserSummary, error) {
	var out userResponse
	err := c.do(ctx, http.MethodPost, "/api/register",
		registerRequest{Name: name, Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.TokenPair, *models.UserSummary, error) {
	var out loginResponse
	err := c.do(ctx, http.MethodPost, "/api/login",
		loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, nil, err
	}
	return &models.TokenPair{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken}, out.User, nil
}

func (c *HTTPClient) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	var out models.TokenPair
	err := c.do(ctx, http.MethodPost, "/api/refresh-token",
		refreshRequest{RefreshToken: refreshToken}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) VerifyToken(ctx context.Context) (*models.UserSummary, error) {
	var out userResponse
	if err := c.do(ctx, http.MethodGet, "/api/verify-token", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
}

func (c *HTTPClient) Universities(ctx context.Context) ([]*models.University, error) {
	var out []*models.University
	if err := c.do(ctx, http.MethodGet, "/api/universities", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do issues one API request and decodes the JSON response into out (when out
// is non-nil). Transport failures map to ErrUnavailable; server rejections
// map to sentinel errors carrying the server's message.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return mapStatus(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func mapStatus(resp *http.Response) error {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	msg := payload.Message
	if msg == "" {
		msg = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrValidation, msg)
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	default:
		return fmt.Errorf("server error %d: %s", resp.StatusCode, msg)
	}
}
