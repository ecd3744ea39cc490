package draft

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"guidelight-backend/internal/domains/pick"
	"guidelight-backend/internal/shared"
)

// PublishRequest carries everything publish needs. Previous is the pick
// being edited (nil for a new one); DraftID is the draft row if known.
type PublishRequest struct {
	Actor    shared.Actor
	Form     FormState
	Previous *pick.Pick
	DraftID  *uuid.UUID
}

// Publisher orchestrates publish and discard
type Publisher interface {
	Publish(ctx context.Context, req PublishRequest, onPublished func(*pick.Pick)) (*pick.Pick, error)
	Discard(ctx context.Context, ownerID uuid.UUID, target, draftID *uuid.UUID) error
}

// Editor is the server-side editing surface
type Editor interface {
	Open(ctx context.Context, actor shared.Actor, req OpenSessionRequest) (*SessionView, error)
	Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*SessionView, error)
	Patch(ctx context.Context, actor shared.Actor, id uuid.UUID, patch json.RawMessage) (*SessionView, error)
	AddTag(ctx context.Context, actor shared.Actor, id uuid.UUID, req TagRequest) (*SessionView, error)
	RemoveTag(ctx context.Context, actor shared.Actor, id uuid.UUID, req TagRequest) (*SessionView, error)
	Publish(ctx context.Context, actor shared.Actor, id uuid.UUID) (*pick.Pick, error)
	Discard(ctx context.Context, actor shared.Actor, id uuid.UUID) error

	ListDrafts(ctx context.Context, ownerID uuid.UUID) ([]DraftSummary, error)
	GetDraft(ctx context.Context, ownerID uuid.UUID, target *uuid.UUID) (*Draft, error)
}
