package board

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"guidelight-backend/internal/domains/asset"
	"guidelight-backend/internal/domains/pick"
)

type Board struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	OwnerID   uuid.UUID `json:"owner_id"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ItemKind string

const (
	KindPick  ItemKind = "pick"
	KindAsset ItemKind = "asset"
	KindText  ItemKind = "text"
)

func (k ItemKind) Valid() bool {
	return k == KindPick || k == KindAsset || k == KindText
}

// Item is a positioned entry on a board. Exactly one of PickID, AssetID or
// Text is set, matching Kind.
type Item struct {
	ID       uuid.UUID  `json:"id"`
	BoardID  uuid.UUID  `json:"board_id"`
	Kind     ItemKind   `json:"kind"`
	PickID   *uuid.UUID `json:"pick_id,omitempty"`
	AssetID  *uuid.UUID `json:"asset_id,omitempty"`
	Text     *string    `json:"text,omitempty"`
	Position int        `json:"position"`
}

// Mode selects how stale references are rendered
type Mode int

const (
	ModeEdit Mode = iota
	ModeDisplay
)

// RenderedItem is an item with its reference resolved. Placeholder is set
// in edit mode when the referenced pick or asset no longer exists.
type RenderedItem struct {
	Item
	Pick        *pick.FeedItem `json:"pick,omitempty"`
	ImageURL    *string        `json:"image_url,omitempty"`
	Placeholder bool           `json:"placeholder,omitempty"`
	Notice      string         `json:"notice,omitempty"`
}

type View struct {
	Board
	Items []RenderedItem `json:"items"`
}

// Render resolves items against the loaded picks and assets. Display mode
// silently drops stale references and picks customers should not see; edit
// mode keeps them as removable placeholders.
func Render(items []Item, picks map[uuid.UUID]*pick.Pick, assets map[uuid.UUID]*asset.Asset, mode Mode) []RenderedItem {
	out := make([]RenderedItem, 0, len(items))
	for _, it := range items {
		r := RenderedItem{Item: it}
		switch it.Kind {
		case KindPick:
			p := lookup(picks, it.PickID)
			if p == nil {
				if mode == ModeDisplay {
					continue
				}
				r.Placeholder, r.Notice = true, "This pick was deleted"
				break
			}
			if mode == ModeDisplay && !p.Visible() {
				continue
			}
			feed := p.ToFeedItem()
			r.Pick = &feed
		case KindAsset:
			a := lookup(assets, it.AssetID)
			if a == nil || a.Status == asset.StatusFailed {
				if mode == ModeDisplay {
					continue
				}
				r.Placeholder, r.Notice = true, "This image is no longer available"
				break
			}
			url := a.DisplayURL()
			r.ImageURL = &url
		case KindText:
			if mode == ModeDisplay && (it.Text == nil || *it.Text == "") {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func lookup[T any](m map[uuid.UUID]*T, id *uuid.UUID) *T {
	if id == nil {
		return nil
	}
	return m[*id]
}

// ApplyOrder sorts items by the given id order. Items missing from order
// keep their relative position after the ordered ones; unknown ids are
// ignored.
func ApplyOrder(items []Item, order []uuid.UUID) []Item {
	rank := make(map[uuid.UUID]int, len(order))
	for i, id := range order {
		rank[id] = i
	}
	ordered := make([]Item, 0, len(items))
	var rest []Item
	for _, it := range items {
		if _, ok := rank[it.ID]; ok {
			ordered = append(ordered, it)
		} else {
			rest = append(rest, it)
		}
	}
	slices.SortStableFunc(ordered, func(a, b Item) int { return rank[a.ID] - rank[b.ID] })
	ordered = append(ordered, rest...)
	for i := range ordered {
		ordered[i].Position = i
	}
	return ordered
}

// RefIDs collects the pick and asset ids referenced by items
func RefIDs(items []Item) (pickIDs, assetIDs []uuid.UUID) {
	for _, it := range items {
		if it.PickID != nil {
			pickIDs = append(pickIDs, *it.PickID)
		}
		if it.AssetID != nil {
			assetIDs = append(assetIDs, *it.AssetID)
		}
	}
	return pickIDs, assetIDs
}
