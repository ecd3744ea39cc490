package draft

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Draft is an autosaved, unpublished form snapshot. There is at most one per
// (owner, target pick); a nil target means "a pick that does not exist yet".
type Draft struct {
	ID           uuid.UUID       `json:"id"`
	OwnerID      uuid.UUID       `json:"owner_id"`
	TargetPickID *uuid.UUID      `json:"target_pick_id,omitempty"`
	Payload      json.RawMessage `json:"payload"`
	ContentHash  string          `json:"content_hash"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Form decodes the payload
func (d *Draft) Form() (FormState, error) {
	var f FormState
	err := json.Unmarshal(d.Payload, &f)
	return f, err
}
