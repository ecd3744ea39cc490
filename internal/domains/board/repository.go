package board

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	List(ctx context.Context) ([]Board, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Board, error)
	GetBySlug(ctx context.Context, slug string) (*Board, error)
	// Create and Update clear is_default on every other board when b is the default
	Create(ctx context.Context, b *Board) error
	Update(ctx context.Context, b *Board) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ListItems returns items ordered by position
	ListItems(ctx context.Context, boardID uuid.UUID) ([]Item, error)
	// AddItem appends at the end of the board
	AddItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, boardID, itemID uuid.UUID) error
	// SetPositions writes positions 0..n-1 in order; ids no longer on the
	// board are skipped
	SetPositions(ctx context.Context, boardID uuid.UUID, order []uuid.UUID) error
}
