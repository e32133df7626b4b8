package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dormdeals/dormdeals/internal/client/api"
	"github.com/dormdeals/dormdeals/internal/client/models"
	"github.com/dormdeals/dormdeals/internal/logging"
)

type fakeStore struct {
	pair     *models.TokenPair
	saveErr  error
	clearErr error
}

func (s *fakeStore) Tokens(ctx context.Context) (*models.TokenPair, error) {
	if s.pair == nil {
		return nil, nil
	}
	p := *s.pair
	return &p, nil
}

func (s *fakeStore) Save(ctx context.Context, pair *models.TokenPair) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	p := *pair
	s.pair = &p
	return nil
}

func (s *fakeStore) Clear(ctx context.Context) error {
	s.pair = nil
	return s.clearErr
}

type fakeClient struct {
	refreshCalls int
	refreshPair  *models.TokenPair
	refreshErr   error

	verifyCalls int
	verifyUser  *models.UserSummary
	verifyErr   error

	loginPair *models.TokenPair
	loginUser *models.UserSummary
	loginErr  error

	registerUser *models.UserSummary
	registerErr  error

	logoutErr error
}

func (c *fakeClient) Register(ctx context.Context, name, email, password string) (*models.UserSummary, error) {
	return c.registerUser, c.registerErr
}

func (c *fakeClient) Login(ctx context.Context, email, password string) (*models.TokenPair, *models.UserSummary, error) {
	return c.loginPair, c.loginUser, c.loginErr
}

func (c *fakeClient) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	c.refreshCalls++
	return c.refreshPair, c.refreshErr
}

func (c *fakeClient) VerifyToken(ctx context.Context) (*models.UserSummary, error) {
	c.verifyCalls++
	return c.verifyUser, c.verifyErr
}

func (c *fakeClient) Logout(ctx context.Context) error { return c.logoutErr }

func (c *fakeClient) Universities(ctx context.Context) ([]*models.University, error) {
	return nil, nil
}

func (c *fakeClient) Ping(ctx context.Context) error { return nil }
func (c *fakeClient) Close() error                   { return nil }

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

// mintToken signs a throwaway token whose exp is now+ttl. The manager only
// decodes it unverified, so the key never matters.
func mintToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl))}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestInit_NoStoredSession_Anonymous(t *testing.T) {
	client := &fakeClient{}
	m := NewManager(client, &fakeStore{}, discardLogger())

	m.Init(context.Background())

	state := m.State()
	assert.False(t, state.Loading)
	assert.False(t, state.IsAuthenticated)
	assert.Equal(t, 0, client.refreshCalls)
	assert.Equal(t, 0, client.verifyCalls)
}

func TestInit_FreshToken_SkipsRefresh(t *testing.T) {
	client := &fakeClient{verifyUser: &models.UserSummary{ID: 1, Email: "a@test.edu"}}
	store := &fakeStore{pair: &models.TokenPair{AccessToken: mintToken(t, time.Hour), RefreshToken: "rt"}}
	m := NewManager(client, store, discardLogger())

	m.Init(context.Background())

	state := m.State()
	require.True(t, state.IsAuthenticated)
	assert.Equal(t, "a@test.edu", state.User.Email)
	assert.Equal(t, 0, client.refreshCalls)
	assert.Equal(t, 1, client.verifyCalls)
}

func TestInit_NearExpiryToken_RefreshesProactively(t *testing.T) {
	client := &fakeClient{
		refreshPair: &models.TokenPair{AccessToken: mintToken(t, time.Hour), RefreshToken: "new-rt"},
		verifyUser:  &models.UserSummary{ID: 1},
	}
	// 200s left is inside the 300s renewal window.
	store := &fakeStore{pair: &models.TokenPair{AccessToken: mintToken(t, 200*time.Second), RefreshToken: "old-rt"}}
	m := NewManager(client, store, discardLogger())

	m.Init(context.Background())

	require.True(t, m.State().IsAuthenticated)
	assert.Equal(t, 1, client.refreshCalls)
	assert.Equal(t, "new-rt", store.pair.RefreshToken)
}

func TestInit_UndecodableToken_Refreshes(t *testing.T) {
	client := &fakeClient{
		refreshPair: &models.TokenPair{AccessToken: mintToken(t, time.Hour), RefreshToken: "rt2"},
		verifyUser:  &models.UserSummary{ID: 1},
	}
	store := &fakeStore{pair: &models.TokenPair{AccessToken: "garbage", RefreshToken: "rt"}}
	m := NewManager(client, store, discardLogger())

	m.Init(context.Background())

	require.True(t, m.State().IsAuthenticated)
	assert.Equal(t, 1, client.refreshCalls)
}

func TestInit_RefreshFails_ClearsSession(t *testing.T) {
	client := &fakeClient{refreshErr: fmt.Errorf("%w: Invalid refresh token", api.ErrUnauthorized)}
	store := &fakeStore{pair: &models.TokenPair{AccessToken: mintToken(t, time.Minute), RefreshToken: "rt"}}
	m := NewManager(client, store, discardLogger())

	m.Init(context.Background())

	assert.False(t, m.State().IsAuthenticated)
	assert.Nil(t, store.pair)
	assert.Equal(t, 0, client.verifyCalls)
}

func TestInit_VerifyFails_ClearsSession(t *testing.T) {
	client := &fakeClient{verifyErr: fmt.Errorf("%w: User not found", api.ErrUnauthorized)}
	store := &fakeStore{pair: &models.TokenPair{AccessToken: mintToken(t, time.Hour), RefreshToken: "rt"}}
	m := NewManager(client, store, discardLogger())

	m.Init(context.Background())

	assert.False(t, m.State().IsAuthenticated)
	assert.Nil(t, store.pair)
}

func TestLogin_Success_PersistsAndAuthenticates(t *testing.T) {
	client := &fakeClient{
		loginPair: &models.TokenPair{AccessToken: "at", RefreshToken: "rt"},
		loginUser: &models.UserSummary{ID: 2, Email: "b@test.edu"},
	}
	store := &fakeStore{}
	m := NewManager(client, store, discardLogger())

	res := m.Login(context.Background(), "b@test.edu", "pw")

	require.True(t, res.OK)
	assert.Equal(t, "b@test.edu", res.User.Email)
	assert.True(t, m.State().IsAuthenticated)
	require.NotNil(t, store.pair)
	assert.Equal(t, "at", store.pair.AccessToken)
}

func TestLogin_ServerRejection_IsNotUnavailable(t *testing.T) {
	client := &fakeClient{loginErr: fmt.Errorf("%w: Invalid email or password", api.ErrUnauthorized)}
	m := NewManager(client, &fakeStore{}, discardLogger())

	res := m.Login(context.Background(), "b@test.edu", "wrong")

	require.False(t, res.OK)
	assert.ErrorIs(t, res.Err, api.ErrUnauthorized)
	assert.False(t, errors.Is(res.Err, api.ErrUnavailable))
	assert.False(t, m.State().IsAuthenticated)
}

func TestLogin_NetworkError_IsUnavailable(t *testing.T) {
	client := &fakeClient{loginErr: fmt.Errorf("%w: connection refused", api.ErrUnavailable)}
	m := NewManager(client, &fakeStore{}, discardLogger())

	res := m.Login(context.Background(), "b@test.edu", "pw")

	require.False(t, res.OK)
	assert.ErrorIs(t, res.Err, api.ErrUnavailable)
}

func TestRegister_NeverEstablishesSession(t *testing.T) {
	client := &fakeClient{registerUser: &models.UserSummary{ID: 3, Name: "Carol"}}
	store := &fakeStore{}
	m := NewManager(client, store, discardLogger())

	res := m.Register(context.Background(), "Carol", "c@test.edu", "pw")

	require.True(t, res.OK)
	assert.Equal(t, "Carol", res.User.Name)
	assert.False(t, m.State().IsAuthenticated)
	assert.Nil(t, store.pair)
}

func TestLogout_ClearsEvenWhenServerUnreachable(t *testing.T) {
	client := &fakeClient{
		loginPair: &models.TokenPair{AccessToken: "at", RefreshToken: "rt"},
		loginUser: &models.UserSummary{ID: 2},
		logoutErr: fmt.Errorf("%w: connection refused", api.ErrUnavailable),
	}
	store := &fakeStore{}
	m := NewManager(client, store, discardLogger())
	require.True(t, m.Login(context.Background(), "b@test.edu", "pw").OK)

	m.Logout(context.Background())

	assert.False(t, m.State().IsAuthenticated)
	assert.Nil(t, store.pair)
}

func TestExpire_DropsInMemorySession(t *testing.T) {
	client := &fakeClient{
		loginPair: &models.TokenPair{AccessToken: "at", RefreshToken: "rt"},
		loginUser: &models.UserSummary{ID: 2},
	}
	m := NewManager(client, &fakeStore{}, discardLogger())
	require.True(t, m.Login(context.Background(), "b@test.edu", "pw").OK)

	m.Expire()

	assert.False(t, m.State().IsAuthenticated)
	assert.Nil(t, m.State().User)
}
