package board

import (
	"context"

	"github.com/google/uuid"

	"guidelight-backend/internal/shared"
)

type Service interface {
	List(ctx context.Context) ([]Board, error)
	Create(ctx context.Context, actor shared.Actor, req CreateBoardRequest) (*Board, error)
	Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req UpdateBoardRequest) (*Board, error)
	Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error

	// Get is the edit view: stale references become placeholders
	Get(ctx context.Context, id uuid.UUID) (*View, error)
	// Display is the kiosk view by slug; stale and hidden items are omitted
	Display(ctx context.Context, slug string) (*View, error)

	AddItem(ctx context.Context, actor shared.Actor, boardID uuid.UUID, req AddItemRequest) (*View, error)
	RemoveItem(ctx context.Context, actor shared.Actor, boardID, itemID uuid.UUID) (*View, error)
	// Reorder applies the order immediately and persists it debounced
	Reorder(ctx context.Context, actor shared.Actor, boardID uuid.UUID, order []uuid.UUID) (*View, error)

	// Flush persists every pending order
	Flush(ctx context.Context) error
}
