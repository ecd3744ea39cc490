package category

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// ListAll returns every category ordered by sort_order, name
	ListAll(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
}
