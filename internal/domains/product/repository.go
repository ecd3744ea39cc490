package product

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	List(ctx context.Context, req ListProductsRequest) ([]Product, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	Create(ctx context.Context, p *Product) error
}
