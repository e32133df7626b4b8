// Package universities provides read access to the university directory used
// by registration to validate email domains.
package universities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dormdeals/dormdeals/internal/common"
	"github.com/dormdeals/dormdeals/internal/dbx"
	"github.com/dormdeals/dormdeals/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByDomain returns the university whose domain matches exactly.
// If no row exists, it returns common.ErrorNotFound.
func (r *PostgresRepository) GetByDomain(ctx context.Context, domain string) (*models.University, error) {
	query := `
		SELECT id, name, domain
		FROM universities
		WHERE domain = $1
	`
	u := &models.University{}
	if err := r.db.QueryRowContext(ctx, query, domain).Scan(&u.ID, &u.Name, &u.Domain); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// List returns the whole directory ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.University, error) {
	query := `
		SELECT id, name, domain
		FROM universities
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.University
	for rows.Next() {
		u := &models.University{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Domain); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
