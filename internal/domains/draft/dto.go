package draft

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"guidelight-backend/pkg/autosave"
)

type OpenSessionRequest struct {
	TargetPickID *uuid.UUID `json:"target_pick_id"`
	CategoryID   *uuid.UUID `json:"category_id"`
}

type TagRequest struct {
	Kind TagKind `json:"kind"`
	Tag  string  `json:"tag"`
}

// Source says where an editor session's initial form came from
type Source string

const (
	SourceDraft    Source = "draft"
	SourcePick     Source = "pick"
	SourceDefaults Source = "defaults"
)

// SessionView is what the editor endpoints return
type SessionView struct {
	ID            uuid.UUID             `json:"id"`
	TargetPickID  *uuid.UUID            `json:"target_pick_id,omitempty"`
	DraftID       *uuid.UUID            `json:"draft_id,omitempty"`
	Source        Source                `json:"source"`
	Form          FormState             `json:"form"`
	VisibleFields []string              `json:"visible_fields"`
	Labels        map[string]FieldLabel `json:"labels"`
	Autosave      autosave.Status       `json:"autosave"`
	OpenedAt      time.Time             `json:"opened_at"`
}

// DraftSummary is a list entry of GET /drafts
type DraftSummary struct {
	ID           uuid.UUID  `json:"id"`
	TargetPickID *uuid.UUID `json:"target_pick_id,omitempty"`
	CategoryName string     `json:"category_name"`
	Title        string     `json:"title"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Summarize builds a list entry without failing on an unreadable payload
func (d *Draft) Summarize() DraftSummary {
	s := DraftSummary{ID: d.ID, TargetPickID: d.TargetPickID, UpdatedAt: d.UpdatedAt}
	var f FormState
	if json.Unmarshal(d.Payload, &f) == nil {
		s.CategoryName = f.CategoryName
		s.Title = f.Name
		if f.IsDeals() {
			s.Title = f.DealTitle
		}
	}
	return s
}
