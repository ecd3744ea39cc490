package asset

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusFailed     Status = "failed"
)

// Asset is an uploaded image. The original lives at ObjectKey; the worker
// fills the variant URLs once resized.
type Asset struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	ObjectKey    string    `json:"object_key"`
	OriginalURL  string    `json:"original_url"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	MediumURL    *string   `json:"medium_url,omitempty"`
	Status       Status    `json:"status"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Prefix is the storage folder holding the original and every variant
func Prefix(id uuid.UUID) string {
	return fmt.Sprintf("assets/%s/", id)
}

// DisplayURL prefers the medium variant once it exists
func (a *Asset) DisplayURL() string {
	if a.MediumURL != nil {
		return *a.MediumURL
	}
	return a.OriginalURL
}

// Task payloads

type ProcessVariantsPayload struct {
	AssetID uuid.UUID `json:"asset_id"`
}

type DeleteObjectsPayload struct {
	AssetID uuid.UUID `json:"asset_id"`
	Prefix  string    `json:"prefix"`
}
