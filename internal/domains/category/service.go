package category

import (
	"context"

	"github.com/google/uuid"
)

type Service interface {
	List(ctx context.Context, includeInactive bool) ([]Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	Create(ctx context.Context, req CreateCategoryRequest) (*Category, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*Category, error)
}

// Lookup is the read side other domains depend on (editor, picks)
type Lookup interface {
	ByID(ctx context.Context, id uuid.UUID) (*Category, error)
	ByName(ctx context.Context, name string) (*Category, error)
}
