// Package session implements the client-side session lifecycle: restoring a
// saved session on startup with proactive token renewal, establishing
// sessions on login, and tearing them down on logout or expiry.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dormdeals/dormdeals/internal/client/api"
	"github.com/dormdeals/dormdeals/internal/client/models"
	"github.com/dormdeals/dormdeals/internal/client/storage"
	"github.com/dormdeals/dormdeals/internal/logging"
)

// proactiveRefreshThreshold is how close to expiry a restored access token may
// be before Init refreshes it up front instead of letting a request bounce.
const proactiveRefreshThreshold = 300 * time.Second

// State is the current session state as seen by the UI.
type State struct {
	Loading         bool
	IsAuthenticated bool
	User            *models.UserSummary
}

// Result reports the outcome of a login or registration attempt. When OK is
// false, Err distinguishes a server rejection from an unreachable server
// (errors.Is(Err, api.ErrUnavailable)).
type Result struct {
	OK   bool
	User *models.UserSummary
	Err  error
}

// Manager owns the session state machine.
type Manager struct {
	client api.Client
	store  storage.TokenStore
	logger logging.Logger

	mu    sync.Mutex
	state State
}

func NewManager(client api.Client, store storage.TokenStore, logger logging.Logger) *Manager {
	return &Manager{
		client: client,
		store:  store,
		logger: logger.With("module", "session"),
		state:  State{Loading: true},
	}
}

// State returns a snapshot of the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Init restores a saved session, refreshing the access token up front when it
// is within proactiveRefreshThreshold of expiry. Any failure along the way
// clears the saved tokens and leaves the session anonymous.
func (m *Manager) Init(ctx context.Context) {
	pair, err := m.store.Tokens(ctx)
	if err != nil {
		m.logger.Warn(ctx, "failed to read stored session", "error", err.Error())
	}
	if pair == nil {
		m.setAnonymous()
		return
	}

	if exp, ok := tokenExpiry(pair.AccessToken); !ok || time.Until(exp) < proactiveRefreshThreshold {
		newPair, err := m.client.RefreshToken(ctx, pair.RefreshToken)
		if err != nil {
			m.logger.Warn(ctx, "session restore refresh failed", "error", err.Error())
			m.clear(ctx)
			return
		}
		if err := m.store.Save(ctx, newPair); err != nil {
			m.logger.Warn(ctx, "failed to persist refreshed session", "error", err.Error())
			m.clear(ctx)
			return
		}
	}

	user, err := m.client.VerifyToken(ctx)
	if err != nil {
		m.logger.Warn(ctx, "session verification failed", "error", err.Error())
		m.clear(ctx)
		return
	}

	m.setAuthenticated(user)
}

// Login exchanges credentials for a session.
func (m *Manager) Login(ctx context.Context, email, password string) Result {
	pair, user, err := m.client.Login(ctx, email, password)
	if err != nil {
		return Result{Err: err}
	}

	if err := m.store.Save(ctx, pair); err != nil {
		m.logger.Warn(ctx, "failed to persist session", "error", err.Error())
		return Result{Err: err}
	}

	m.setAuthenticated(user)
	return Result{OK: true, User: user}
}

// Register creates an account. It never establishes a session; the user logs
// in afterwards.
func (m *Manager) Register(ctx context.Context, name, email, password string) Result {
	user, err := m.client.Register(ctx, name, email, password)
	if err != nil {
		return Result{Err: err}
	}
	return Result{OK: true, User: user}
}

// Logout revokes the session server-side on a best-effort basis. Local state
// and stored tokens are cleared even when the server is unreachable.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.client.Logout(ctx); err != nil && !errors.Is(err, api.ErrUnauthorized) {
		m.logger.Warn(ctx, "server logout failed", "error", err.Error())
	}
	m.clear(ctx)
}

// Expire drops the in-memory session. The transport calls this after it has
// already cleared the stored tokens.
func (m *Manager) Expire() {
	m.setAnonymous()
}

func (m *Manager) clear(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn(ctx, "failed to clear stored session", "error", err.Error())
	}
	m.setAnonymous()
}

func (m *Manager) setAnonymous() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State{}
}

func (m *Manager) setAuthenticated(user *models.UserSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State{IsAuthenticated: true, User: user}
}

// tokenExpiry reads the exp claim without verifying the signature; only the
// server can verify, the client just needs the timestamp for scheduling.
func tokenExpiry(token string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
