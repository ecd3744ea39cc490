package asset

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Asset) error
	GetByID(ctx context.Context, id uuid.UUID) (*Asset, error)
	// GetByIDs returns the assets that still exist; missing ids are absent from the map
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Asset, error)
	SetVariants(ctx context.Context, id uuid.UUID, thumbnailURL, mediumURL string) error
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error
	Delete(ctx context.Context, id uuid.UUID) error
}
