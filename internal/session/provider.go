package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is an authenticated sign-in
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Profile is the staff record linked to a session
type Profile struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
}

// Provider is the auth/session backend
type Provider interface {
	// GetSession returns the current session, nil when signed out
	GetSession(ctx context.Context) (*Session, error)
	// OnSessionChange registers fn for sign-in and sign-out; nil means signed out
	OnSessionChange(fn func(*Session)) (unsubscribe func())
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
}

// ProfileFetcher loads the profile for a session
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, s *Session) (*Profile, error)
}
