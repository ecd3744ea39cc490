package asset

import (
	"context"

	"github.com/google/uuid"
)

// UploadInput is one multipart file already read into memory
type UploadInput struct {
	OwnerID uuid.UUID
	Data    []byte
}

type Service interface {
	Upload(ctx context.Context, in UploadInput) (*Asset, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Asset, error)
	Delete(ctx context.Context, actorID uuid.UUID, isManager bool, id uuid.UUID) error

	// worker side
	ProcessVariants(ctx context.Context, id uuid.UUID) error
	DeleteObjects(ctx context.Context, prefix string) error
	SweepOrphans(ctx context.Context) (int, error)
}

// Lookup is the read side boards and picks depend on
type Lookup interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Asset, error)
}
