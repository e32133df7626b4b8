// Package users provides a PostgreSQL-backed repository for credential
// records, including the server-held refresh token column used for
// revocation-by-overwrite.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dormdeals/dormdeals/internal/common"
	"github.com/dormdeals/dormdeals/internal/dbx"
	"github.com/dormdeals/dormdeals/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const pgUniqueViolation = "23505"

// Create inserts a new user and returns it with ID populated.
// A duplicate email yields common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (name, email, password, university_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.UniversityID).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// GetByEmail returns the user with the given email, joined with the
// university name. If no row exists, it returns common.ErrorNotFound.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.password, u.university_id,
		       COALESCE(un.name, ''), COALESCE(u.profile_image_url, ''), COALESCE(u.refresh_token, '')
		FROM users u
		LEFT JOIN universities un ON un.id = u.university_id
		WHERE u.email = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByID returns the user with the given ID, joined with the university
// name. If no row exists, it returns common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.password, u.university_id,
		       COALESCE(un.name, ''), COALESCE(u.profile_image_url, ''), COALESCE(u.refresh_token, '')
		FROM users u
		LEFT JOIN universities un ON un.id = u.university_id
		WHERE u.id = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// UpdateRefreshToken overwrites the stored refresh token for the user.
// Last writer wins; concurrent logins race harmlessly because only the most
// recent refresh token needs to stay revocable.
func (r *PostgresRepository) UpdateRefreshToken(ctx context.Context, userID int64, token string) error {
	query := `
		UPDATE users SET refresh_token = $1, updated_at = NOW()
		WHERE id = $2
	`
	if _, err := r.db.ExecContext(ctx, query, token, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ClearRefreshToken nulls out the stored refresh token (logout).
func (r *PostgresRepository) ClearRefreshToken(ctx context.Context, userID int64) error {
	query := `
		UPDATE users SET refresh_token = NULL, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var universityID sql.NullInt64
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&universityID, &user.UniversityName, &user.ProfileImageURL, &user.RefreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.UniversityID = universityID.Int64
	return user, nil
}
