package pick

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"guidelight-backend/internal/domains/category"
)

type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

func (s Status) Valid() bool {
	return s == StatusPublished || s == StatusArchived
}

// MaxEffectTags caps the curated tag collection
const MaxEffectTags = 3

// Pick is a published recommendation. Optional fields are nil when absent;
// every category's fields live on the same row.
type Pick struct {
	ID           uuid.UUID  `json:"id"`
	StaffID      uuid.UUID  `json:"staff_id"`
	CategoryID   uuid.UUID  `json:"category_id"`
	CategoryName string     `json:"category_name"`
	ProductID    *uuid.UUID `json:"product_id,omitempty"`
	AssetID      *uuid.UUID `json:"asset_id,omitempty"`

	Name  *string `json:"name,omitempty"`
	Brand *string `json:"brand,omitempty"`
	Notes *string `json:"notes,omitempty"`

	// flower / pre-roll
	StrainType *string          `json:"strain_type,omitempty"`
	THCPercent *decimal.Decimal `json:"thc_percent,omitempty"`
	CBDPercent *decimal.Decimal `json:"cbd_percent,omitempty"`
	Terpenes   pq.StringArray   `json:"terpenes,omitempty"`

	// vape / concentrate
	Hardware   *string `json:"hardware,omitempty"`
	Extraction *string `json:"extraction,omitempty"`

	// edible / beverage
	DoseMg *decimal.Decimal `json:"dose_mg,omitempty"`
	Onset  *string          `json:"onset,omitempty"`

	// deals
	DealTitle       *string          `json:"deal_title,omitempty"`
	DealDescription *string          `json:"deal_description,omitempty"`
	DealType        *string          `json:"deal_type,omitempty"`
	DealValue       *decimal.Decimal `json:"deal_value,omitempty"`
	DealDays        pq.StringArray   `json:"deal_days,omitempty"`
	DealFinePrint   *string          `json:"deal_fine_print,omitempty"`

	EffectTags pq.StringArray `json:"effect_tags,omitempty"`
	CustomTags pq.StringArray `json:"custom_tags,omitempty"`
	Rating     *int           `json:"rating,omitempty"`

	IsActive     bool       `json:"is_active"`
	Status       Status     `json:"status"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Visible reports whether customers may see the pick
func (p *Pick) Visible() bool {
	return p.IsActive && p.Status == StatusPublished
}

// Title is what a customer reads: the deal title for deals, the name otherwise
func (p *Pick) Title() string {
	if p.DealTitle != nil && (p.Name == nil || isDeals(p.CategoryName)) {
		return *p.DealTitle
	}
	if p.Name != nil {
		return *p.Name
	}
	return ""
}

func isDeals(categoryName string) bool {
	return category.SameName(categoryName, category.NameDeals)
}

// Input is the persistence payload of a create or update. Strings are
// already trimmed; nil means absent.
type Input struct {
	StaffID    uuid.UUID
	CategoryID uuid.UUID
	ProductID  *uuid.UUID
	AssetID    *uuid.UUID

	Name  *string
	Brand *string
	Notes *string

	StrainType *string
	THCPercent *decimal.Decimal
	CBDPercent *decimal.Decimal
	Terpenes   []string

	Hardware   *string
	Extraction *string

	DoseMg *decimal.Decimal
	Onset  *string

	DealTitle       *string
	DealDescription *string
	DealType        *string
	DealValue       *decimal.Decimal
	DealDays        []string
	DealFinePrint   *string

	EffectTags []string
	CustomTags []string
	Rating     *int

	IsActive bool
}

// apply copies the input onto p; identity, ownership and timestamps are kept
func (in Input) apply(p *Pick) {
	p.CategoryID = in.CategoryID
	p.ProductID = in.ProductID
	p.AssetID = in.AssetID
	p.Name, p.Brand, p.Notes = in.Name, in.Brand, in.Notes
	p.StrainType, p.THCPercent, p.CBDPercent = in.StrainType, in.THCPercent, in.CBDPercent
	p.Terpenes = in.Terpenes
	p.Hardware, p.Extraction = in.Hardware, in.Extraction
	p.DoseMg, p.Onset = in.DoseMg, in.Onset
	p.DealTitle, p.DealDescription, p.DealType = in.DealTitle, in.DealDescription, in.DealType
	p.DealValue, p.DealDays, p.DealFinePrint = in.DealValue, in.DealDays, in.DealFinePrint
	p.EffectTags, p.CustomTags = in.EffectTags, in.CustomTags
	p.Rating = in.Rating
	p.IsActive = in.IsActive
}

// NewFromInput builds an unsaved pick
func NewFromInput(in Input) *Pick {
	p := &Pick{StaffID: in.StaffID, Status: StatusPublished}
	in.apply(p)
	return p
}

// ApplyInput overwrites the editable fields of p with in
func ApplyInput(p *Pick, in Input) {
	in.apply(p)
}

// NextLastActiveAt is the last_active_at policy. previous is nil on create.
// The timestamp moves to now when the pick ends up active (inactive→active,
// or an edit of an already-active pick) and is left alone otherwise, so
// deactivating keeps "when was this last in use".
func NextLastActiveAt(previous *Pick, nextActive bool, now time.Time) *time.Time {
	if nextActive {
		return &now
	}
	if previous == nil {
		return nil
	}
	return previous.LastActiveAt
}

// FeedItem is the customer-facing projection used by Display Mode
type FeedItem struct {
	ID           uuid.UUID        `json:"id"`
	CategoryName string           `json:"category_name"`
	Title        string           `json:"title"`
	Brand        *string          `json:"brand,omitempty"`
	Details      *string          `json:"details,omitempty"`
	THCPercent   *decimal.Decimal `json:"thc_percent,omitempty"`
	DealValue    *decimal.Decimal `json:"deal_value,omitempty"`
	EffectTags   []string         `json:"effect_tags,omitempty"`
	ImageAssetID *uuid.UUID       `json:"image_asset_id,omitempty"`
	StaffID      uuid.UUID        `json:"staff_id"`
	LastActiveAt *time.Time       `json:"last_active_at,omitempty"`
}

func (p *Pick) ToFeedItem() FeedItem {
	details := p.Notes
	if isDeals(p.CategoryName) && p.DealDescription != nil {
		details = p.DealDescription
	}
	return FeedItem{
		ID:           p.ID,
		CategoryName: p.CategoryName,
		Title:        p.Title(),
		Brand:        p.Brand,
		Details:      details,
		THCPercent:   p.THCPercent,
		DealValue:    p.DealValue,
		EffectTags:   p.EffectTags,
		ImageAssetID: p.AssetID,
		StaffID:      p.StaffID,
		LastActiveAt: p.LastActiveAt,
	}
}
