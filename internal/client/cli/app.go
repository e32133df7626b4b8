// Package cli implements the interactive Dorm Deals client: an App wiring
// the session manager to local storage and the backend API, plus a small
// REPL for account commands.
package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	"github.com/dormdeals/dormdeals/internal/client/api"
	"github.com/dormdeals/dormdeals/internal/client/config"
	"github.com/dormdeals/dormdeals/internal/client/session"
	"github.com/dormdeals/dormdeals/internal/client/storage"
	"github.com/dormdeals/dormdeals/internal/logging"
)

type App struct {
	config  *config.Config
	session *session.Manager
	client  api.Client
	store   *storage.SQLiteStore
	reader  *bufio.Reader
	out     *os.File
}

// NewApp opens the local session database, wires the API client and the
// session manager together, and restores any saved session.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	store, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	// The transport's session-expired callback fires into the manager, which
	// is created after the client; the indirection breaks the cycle.
	var mgr *session.Manager
	client := api.NewHTTPClient(cfg, store, logger, func() {
		if mgr != nil {
			mgr.Expire()
		}
	})
	mgr = session.NewManager(client, store, logger)
	mgr.Init(ctx)

	return &App{
		config:  cfg,
		session: mgr,
		client:  client,
		store:   store,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.close()
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

func (a *App) close() {
	_ = a.client.Close()
	_ = a.store.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.State().IsAuthenticated
}

// status renders the prompt prefix: the account email when logged in.
func (a *App) status() string {
	state := a.session.State()
	if state.IsAuthenticated && state.User != nil {
		return state.User.Email
	}
	return "anonymous"
}
