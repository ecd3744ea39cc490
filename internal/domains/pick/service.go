package pick

import (
	"context"
	"io"

	"github.com/google/uuid"

	"guidelight-backend/internal/shared"
)

// Store is the entity store the publish flow writes through.
// previous is an optional hint that avoids re-reading the row.
type Store interface {
	Create(ctx context.Context, in Input) (*Pick, error)
	Update(ctx context.Context, id uuid.UUID, in Input, previous *Pick) (*Pick, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Pick, error)
}

type Service interface {
	Store
	Lookup
	List(ctx context.Context, filter ListFilter) ([]Pick, int, error)
	SetActive(ctx context.Context, actor shared.Actor, id uuid.UUID, active bool) (*Pick, error)
	// SetStatus archives or restores a pick; last_active_at is left as is
	SetStatus(ctx context.Context, actor shared.Actor, id uuid.UUID, status Status) (*Pick, error)
	Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error
	DisplayFeed(ctx context.Context) ([]FeedItem, error)
	ExportXLSX(ctx context.Context, filter ListFilter, w io.Writer) error
}

// Lookup is the read side boards depend on
type Lookup interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Pick, error)
}
