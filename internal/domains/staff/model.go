package staff

import (
	"time"

	"github.com/google/uuid"

	"guidelight-backend/internal/shared"
)

type Role string

const (
	RoleBudtender Role = shared.RoleBudtender
	RoleManager   Role = shared.RoleManager
)

func (r Role) Valid() bool {
	return r == RoleBudtender || r == RoleManager
}

// Staff is a row of the staff table
type Staff struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	DisplayName  string
	Role         Role
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is what clients see: the staff row without secrets
type Profile struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        Role       `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (s *Staff) ToProfile() Profile {
	return Profile{
		ID:          s.ID,
		Email:       s.Email,
		DisplayName: s.DisplayName,
		Role:        s.Role,
		IsActive:    s.IsActive,
		LastLoginAt: s.LastLoginAt,
		CreatedAt:   s.CreatedAt,
	}
}

func (s *Staff) IsManager() bool {
	return s.Role == RoleManager
}
