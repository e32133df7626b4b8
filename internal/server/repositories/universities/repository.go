package universities

import (
	"context"

	"github.com/dormdeals/dormdeals/internal/server/models"
)

type Repository interface {
	GetByDomain(ctx context.Context, domain string) (*models.University, error)
	List(ctx context.Context) ([]*models.University, error)
}
