package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dormdeals/dormdeals/internal/client/models"
	"github.com/dormdeals/dormdeals/internal/client/storage"
	"github.com/dormdeals/dormdeals/internal/logging"
)

// refreshFunc exchanges a refresh token for a new pair. The exchange request
// itself goes through the transport unmodified (the refresh path is skipped).
type refreshFunc func(ctx context.Context, refreshToken string) (*models.TokenPair, error)

// authTransport attaches the stored access token to outgoing requests and, on
// a 401 or 403 response, performs a single refresh-and-replay. If the refresh
// is impossible or fails, the stored session is cleared, the session-expired
// callback fires and the original response is returned untouched.
type authTransport struct {
	base             http.RoundTripper
	store            storage.TokenStore
	refresh          refreshFunc
	onSessionExpired func()
	logger           logging.Logger
}

const refreshPath = "/api/refresh-token"

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	// The refresh exchange must not trigger itself.
	if strings.HasSuffix(req.URL.Path, refreshPath) {
		return t.base.RoundTrip(req)
	}

	pair, err := t.store.Tokens(ctx)
	if err != nil {
		t.logger.Warn(ctx, "failed to read stored session", "error", err.Error())
	}
	if pair == nil {
		return t.base.RoundTrip(req)
	}

	authed := req.Clone(ctx)
	authed.Header.Set("Authorization", "Bearer "+pair.AccessToken)

	resp, err := t.base.RoundTrip(authed)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden {
		return resp, nil
	}

	newPair, err := t.refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.expire(ctx)
		return resp, nil
	}
	if err := t.store.Save(ctx, newPair); err != nil {
		t.logger.Warn(ctx, "failed to persist refreshed session", "error", err.Error())
	}

	retry, err := t.rewind(req)
	if err != nil {
		return resp, nil
	}
	drain(resp)

	retry.Header.Set("Authorization", "Bearer "+newPair.AccessToken)
	// A rejection of the replay passes through to the caller as-is.
	return t.base.RoundTrip(retry)
}

// rewind clones the request with a fresh body for the replay. Requests built
// with http.NewRequest from an in-memory reader carry GetBody; anything else
// with a body cannot be replayed.
func (t *authTransport) rewind(req *http.Request) (*http.Request, error) {
	retry := req.Clone(req.Context())
	if req.Body == nil {
		return retry, nil
	}
	if req.GetBody == nil {
		return nil, errors.New("request body cannot be replayed")
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	retry.Body = body
	return retry, nil
}

func (t *authTransport) expire(ctx context.Context) {
	if err := t.store.Clear(ctx); err != nil {
		t.logger.Warn(ctx, "failed to clear stored session", "error", err.Error())
	}
	if t.onSessionExpired != nil {
		t.onSessionExpired()
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
