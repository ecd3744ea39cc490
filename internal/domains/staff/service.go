package staff

import (
	"context"

	"github.com/google/uuid"
)

// Service covers authentication, the signed-in profile and manager administration
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error

	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)

	ListStaff(ctx context.Context, req ListStaffRequest) ([]Profile, int, error)
	CreateStaff(ctx context.Context, req CreateStaffRequest) (*Profile, error)
	UpdateStaff(ctx context.Context, actorID, id uuid.UUID, req UpdateStaffRequest) (*Profile, error)
	SetPassword(ctx context.Context, id uuid.UUID, req SetPasswordRequest) error
}
