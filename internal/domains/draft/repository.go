package draft

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Repository is the draft store. The conflict key is (owner, target pick).
type Repository interface {
	// Upsert writes the payload. With a draftID it updates that row, falling
	// back to the (owner, target) key if the row is gone.
	Upsert(ctx context.Context, ownerID uuid.UUID, payload json.RawMessage, target, draftID *uuid.UUID) (*Draft, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteByTarget(ctx context.Context, ownerID uuid.UUID, target *uuid.UUID) (bool, error)
	// GetByTarget returns ErrDraftNotFound when there is none
	GetByTarget(ctx context.Context, ownerID uuid.UUID, target *uuid.UUID) (*Draft, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Draft, error)
	DeleteStale(ctx context.Context, updatedBefore time.Time) (int64, error)
}
