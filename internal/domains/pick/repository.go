package pick

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Pick) error
	// Update writes every editable column plus is_active and last_active_at
	Update(ctx context.Context, p *Pick) error
	GetByID(ctx context.Context, id uuid.UUID) (*Pick, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Pick, error)
	List(ctx context.Context, filter ListFilter) ([]Pick, int, error)
	// ListVisible returns customer-visible picks, most recently active first
	ListVisible(ctx context.Context) ([]Pick, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
