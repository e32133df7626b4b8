// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, token refresh, logout, and
// session verification.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dormdeals/dormdeals/internal/common"
	"github.com/dormdeals/dormdeals/internal/logging"
	"github.com/dormdeals/dormdeals/internal/server/auth"
	"github.com/dormdeals/dormdeals/internal/server/models"
	"github.com/dormdeals/dormdeals/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// UserService provides authentication-related operations:
//   - Register: create users after validating the email domain
//   - Login: verify credentials and mint token pairs
//   - Refresh: mint a new pair from fresh claims
//   - Logout: clear the server-held refresh token
//   - VerifySession: re-read current user state
type UserService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	tokens *auth.Manager
	logger logging.Logger
}

// NewUserService constructs a UserService using repositories and the token manager.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.Manager, logger logging.Logger) *UserService {
	return &UserService{
		db:     db,
		repos:  m,
		tokens: tokens,
		logger: logger.With("module", "user_service"),
	}
}

// Register validates that the email domain belongs to a known university,
// hashes the password, and creates the user. A duplicate email yields
// common.ErrorAlreadyExists; an unknown domain yields
// common.ErrUnknownEmailDomain. Registration never establishes a session.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.Summary, error) {
	domain := emailDomain(email)
	if domain == "" {
		return nil, common.ErrUnknownEmailDomain
	}

	university, err := s.repos.Universities(s.db).GetByDomain(ctx, domain)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnknownEmailDomain
		}
		return nil, fmt.Errorf("university lookup error: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("password hashing error: %w", err)
	}

	user := &models.User{
		Name:           name,
		Email:          email,
		PasswordHash:   string(hash),
		UniversityID:   university.ID,
		UniversityName: university.Name,
	}
	created, err := s.repos.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return created.Summary(), nil
}

// Login verifies the password against the stored bcrypt hash and, on success,
// issues a token pair and best-effort persists the refresh token against the
// user row. A missing user and a wrong password both collapse into
// common.ErrorUnauthorized so responses cannot be used for account
// enumeration.
func (s *UserService) Login(ctx context.Context, email, password string) (*auth.TokenPair, *models.Summary, error) {
	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, common.ErrorUnauthorized
	}

	pair, err := s.issueAndPersist(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user.Summary(), nil
}

// Refresh verifies the refresh token, re-confirms the user still exists, and
// issues a new pair from claims re-read from storage so that profile changes
// since issuance propagate into the new tokens.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	user, err := s.repos.Users(s.db).GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return s.issueAndPersist(ctx, user)
}

// Logout clears the persisted refresh token. It is idempotent and never
// fails from the caller's perspective; a failed clear is logged, not
// surfaced, so the client can always discard local state.
func (s *UserService) Logout(ctx context.Context, userID int64) {
	if err := s.repos.Users(s.db).ClearRefreshToken(ctx, userID); err != nil {
		s.logger.Warn(ctx, "refresh token clear failed", "user_id", userID, "error", err.Error())
	}
}

// VerifySession re-reads current user state from storage so profile edits
// since token issuance are reflected. A deleted account yields
// common.ErrorNotFound.
func (s *UserService) VerifySession(ctx context.Context, userID int64) (*models.Summary, error) {
	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user.Summary(), nil
}

// Universities returns the directory used by registration forms.
func (s *UserService) Universities(ctx context.Context) ([]*models.University, error) {
	return s.repos.Universities(s.db).List(ctx)
}

// issueAndPersist mints a pair from the user row and best-effort persists the
// refresh token. Persistence failure is logged and swallowed: token validity
// is determined by signature and expiry, the stored copy only supports
// revocation-by-overwrite.
func (s *UserService) issueAndPersist(ctx context.Context, user *models.User) (*auth.TokenPair, error) {
	pair, err := s.tokens.Issue(user.ID, user.Email, user.Name, user.UniversityID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repos.Users(s.db).UpdateRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		s.logger.Warn(ctx, "refresh token persistence failed", "user_id", user.ID, "error", err.Error())
	}
	return pair, nil
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}
