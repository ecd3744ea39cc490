package staff

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Staff) error
	FindByID(ctx context.Context, id uuid.UUID) (*Staff, error)
	FindByEmail(ctx context.Context, email string) (*Staff, error)
	List(ctx context.Context, req ListStaffRequest) ([]Staff, int, error)

	// Update writes display name, role and is_active
	Update(ctx context.Context, s *Staff) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}
