package draft

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"guidelight-backend/internal/domains/category"
	"guidelight-backend/internal/domains/pick"
)

// FormState is the whole editor form as one flat record. Every category's
// fields are always present; the selected category only decides which of
// them are shown. Numeric inputs are kept as typed text until publish.
type FormState struct {
	CategoryID   *uuid.UUID `json:"category_id"`
	CategoryName string     `json:"category_name"`
	Name         string     `json:"name"`
	Brand        string     `json:"brand"`
	ProductID    *uuid.UUID `json:"product_id"`
	AssetID      *uuid.UUID `json:"asset_id"`
	Notes        string     `json:"notes"`
	EffectTags   []string   `json:"effect_tags"`
	CustomTags   []string   `json:"custom_tags"`
	Rating       *int       `json:"rating"`
	IsActive     bool       `json:"is_active"`

	StrainType string   `json:"strain_type"`
	THCPercent string   `json:"thc_percent"`
	CBDPercent string   `json:"cbd_percent"`
	Terpenes   []string `json:"terpenes"`

	Hardware   string `json:"hardware"`
	Extraction string `json:"extraction"`

	DoseMg string `json:"dose_mg"`
	Onset  string `json:"onset"`

	DealTitle       string   `json:"deal_title"`
	DealDescription string   `json:"deal_description"`
	DealType        string   `json:"deal_type"`
	DealValue       string   `json:"deal_value"`
	DealDays        []string `json:"deal_days"`
	DealFinePrint   string   `json:"deal_fine_print"`
}

// Field keys, matching the JSON names above
const (
	FieldCategoryID      = "category_id"
	FieldCategoryName    = "category_name"
	FieldName            = "name"
	FieldBrand           = "brand"
	FieldProductID       = "product_id"
	FieldAssetID         = "asset_id"
	FieldNotes           = "notes"
	FieldEffectTags      = "effect_tags"
	FieldCustomTags      = "custom_tags"
	FieldRating          = "rating"
	FieldIsActive        = "is_active"
	FieldStrainType      = "strain_type"
	FieldTHCPercent      = "thc_percent"
	FieldCBDPercent      = "cbd_percent"
	FieldTerpenes        = "terpenes"
	FieldHardware        = "hardware"
	FieldExtraction      = "extraction"
	FieldDoseMg          = "dose_mg"
	FieldOnset           = "onset"
	FieldDealTitle       = "deal_title"
	FieldDealDescription = "deal_description"
	FieldDealType        = "deal_type"
	FieldDealValue       = "deal_value"
	FieldDealDays        = "deal_days"
	FieldDealFinePrint   = "deal_fine_print"
)

// patchable lists the keys Apply accepts. category_name is derived from
// category_id by the editor and cannot be patched.
var patchable = map[string]bool{
	FieldCategoryID: true, FieldName: true, FieldBrand: true, FieldProductID: true,
	FieldAssetID: true, FieldNotes: true, FieldEffectTags: true, FieldCustomTags: true,
	FieldRating: true, FieldIsActive: true, FieldStrainType: true, FieldTHCPercent: true,
	FieldCBDPercent: true, FieldTerpenes: true, FieldHardware: true, FieldExtraction: true,
	FieldDoseMg: true, FieldOnset: true, FieldDealTitle: true, FieldDealDescription: true,
	FieldDealType: true, FieldDealValue: true, FieldDealDays: true, FieldDealFinePrint: true,
}

// Defaults seeds a brand-new pick for the requested category (nil for none)
func Defaults(c *category.Category) FormState {
	f := FormState{IsActive: true}
	if c != nil {
		id := c.ID
		f.CategoryID = &id
		f.CategoryName = c.Name
	}
	return f
}

// FromPick loads a published pick into the form
func FromPick(p *pick.Pick) FormState {
	categoryID := p.CategoryID
	return FormState{
		CategoryID:      &categoryID,
		CategoryName:    p.CategoryName,
		Name:            deref(p.Name),
		Brand:           deref(p.Brand),
		ProductID:       p.ProductID,
		AssetID:         p.AssetID,
		Notes:           deref(p.Notes),
		EffectTags:      cloneStrings(p.EffectTags),
		CustomTags:      cloneStrings(p.CustomTags),
		Rating:          p.Rating,
		IsActive:        p.IsActive,
		StrainType:      deref(p.StrainType),
		THCPercent:      decimalText(p.THCPercent),
		CBDPercent:      decimalText(p.CBDPercent),
		Terpenes:        cloneStrings(p.Terpenes),
		Hardware:        deref(p.Hardware),
		Extraction:      deref(p.Extraction),
		DoseMg:          decimalText(p.DoseMg),
		Onset:           deref(p.Onset),
		DealTitle:       deref(p.DealTitle),
		DealDescription: deref(p.DealDescription),
		DealType:        deref(p.DealType),
		DealValue:       decimalText(p.DealValue),
		DealDays:        cloneStrings(p.DealDays),
		DealFinePrint:   deref(p.DealFinePrint),
	}
}

// Apply merges a partial JSON object into the form. Keys that are absent
// are left alone; unknown keys reject the whole patch. The form is only
// modified when the patch is accepted.
func (f *FormState) Apply(patch []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(patch, &keys); err != nil {
		return ErrInvalidPatch.Wrap(err)
	}
	var unknown []string
	for k := range keys {
		if !patchable[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		return ErrInvalidPatch.WithMessage("Unknown field(s): %s", strings.Join(unknown, ", "))
	}

	next := f.Clone()
	dec := json.NewDecoder(bytes.NewReader(patch))
	if err := dec.Decode(&next); err != nil {
		return ErrInvalidPatch.Wrap(err)
	}

	if _, ok := keys[FieldEffectTags]; ok {
		tags, err := normalizeTags(next.EffectTags, pick.MaxEffectTags)
		if err != nil {
			return err
		}
		next.EffectTags = tags
	}
	if _, ok := keys[FieldCustomTags]; ok {
		next.CustomTags, _ = normalizeTags(next.CustomTags, 0)
	}
	if next.Rating != nil && (*next.Rating < 1 || *next.Rating > 5) {
		return ErrInvalidPatch.WithMessage("rating must be between 1 and 5")
	}

	*f = next
	return nil
}

// CategoryChanged reports whether a patch touched category_id
func CategoryChanged(patch []byte) bool {
	var keys map[string]json.RawMessage
	if json.Unmarshal(patch, &keys) != nil {
		return false
	}
	_, ok := keys[FieldCategoryID]
	return ok
}

// Clone deep-copies the slices so the copy can be handed to another goroutine
func (f FormState) Clone() FormState {
	f.EffectTags = cloneStrings(f.EffectTags)
	f.CustomTags = cloneStrings(f.CustomTags)
	f.Terpenes = cloneStrings(f.Terpenes)
	f.DealDays = cloneStrings(f.DealDays)
	if f.CategoryID != nil {
		id := *f.CategoryID
		f.CategoryID = &id
	}
	if f.ProductID != nil {
		id := *f.ProductID
		f.ProductID = &id
	}
	if f.AssetID != nil {
		id := *f.AssetID
		f.AssetID = &id
	}
	if f.Rating != nil {
		r := *f.Rating
		f.Rating = &r
	}
	return f
}

// IsDeals reports whether the selected category is Deals
func (f *FormState) IsDeals() bool {
	return category.SameName(f.CategoryName, category.NameDeals)
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
