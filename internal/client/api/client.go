// Package api implements the HTTP client for the Dorm Deals backend,
// including the transport that attaches bearer tokens and transparently
// refreshes an expired session once per request.
package api

import (
	"context"

	"github.com/dormdeals/dormdeals/internal/client/models"
)

// Client is the backend API surface used by the session manager and the CLI.
type Client interface {
	// Register creates an account. It does not establish a session.
	Register(ctx context.Context, name, email, password string) (*models.UserSummary, error)
	// Login exchanges credentials for a token pair and the account summary.
	Login(ctx context.Context, email, password string) (*models.TokenPair, *models.UserSummary, error)
	// RefreshToken exchanges a refresh token for a fresh pair.
	RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	// VerifyToken validates the stored session server-side and returns the
	// current account summary.
	VerifyToken(ctx context.Context) (*models.UserSummary, error)
	// Logout revokes the server-held refresh token.
	Logout(ctx context.Context) error
	// Universities lists the accepted university email domains.
	Universities(ctx context.Context) ([]*models.University, error)
	// Ping checks server reachability.
	Ping(ctx context.Context) error
	// Close releases idle connections.
	Close() error
}
