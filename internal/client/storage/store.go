// Package storage persists the saved session (access and refresh tokens)
// between runs of the CLI, backed by a local SQLite database.
package storage

import (
	"context"

	"github.com/dormdeals/dormdeals/internal/client/models"
)

// TokenStore is the session persistence surface used by the session manager
// and the API transport.
type TokenStore interface {
	// Tokens returns the saved pair, or nil if no session is stored.
	Tokens(ctx context.Context) (*models.TokenPair, error)
	// Save overwrites the saved pair. Both tokens are written atomically so a
	// crash can never leave a new access token next to a stale refresh token.
	Save(ctx context.Context, pair *models.TokenPair) error
	// Clear removes any saved session. Clearing an empty store is a no-op.
	Clear(ctx context.Context) error
}
