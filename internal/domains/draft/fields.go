package draft

import (
	"sort"

	"guidelight-backend/internal/domains/category"
)

// FieldSet is a set of form field keys
type FieldSet map[string]struct{}

func newFieldSet(groups ...[]string) FieldSet {
	fs := FieldSet{}
	for _, g := range groups {
		for _, k := range g {
			fs[k] = struct{}{}
		}
	}
	return fs
}

func (fs FieldSet) Has(key string) bool {
	_, ok := fs[key]
	return ok
}

// Keys returns the keys sorted, for stable responses
func (fs FieldSet) Keys() []string {
	out := make([]string, 0, len(fs))
	for k := range fs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var (
	sharedFields = []string{
		FieldCategoryID, FieldName, FieldBrand, FieldProductID, FieldAssetID, FieldNotes,
		FieldEffectTags, FieldCustomTags, FieldRating, FieldIsActive,
	}
	cannabinoidFields = []string{FieldStrainType, FieldTHCPercent, FieldCBDPercent}
	flowerFields      = []string{FieldTerpenes}
	vapeFields        = []string{FieldHardware, FieldExtraction}
	edibleFields      = []string{FieldDoseMg, FieldOnset}
	dealFields        = []string{
		FieldCategoryID, FieldAssetID, FieldIsActive, FieldCustomTags,
		FieldDealTitle, FieldDealDescription, FieldDealType, FieldDealValue,
		FieldDealDays, FieldDealFinePrint,
	}
)

// VisibleFields returns the keys the editor shows for a category. Unknown or
// empty category names get the shared fields only. It never affects what is
// stored.
func VisibleFields(categoryName string) FieldSet {
	switch {
	case is(categoryName, category.NameFlower), is(categoryName, category.NamePreRolls):
		return newFieldSet(sharedFields, cannabinoidFields, flowerFields)
	case is(categoryName, category.NameVapes), is(categoryName, category.NameConcentrates):
		return newFieldSet(sharedFields, cannabinoidFields, vapeFields)
	case is(categoryName, category.NameEdibles), is(categoryName, category.NameBeverages):
		return newFieldSet(sharedFields, edibleFields)
	case is(categoryName, category.NameTopicals), is(categoryName, category.NameWellness):
		return newFieldSet(sharedFields, []string{FieldCBDPercent})
	case is(categoryName, category.NameDeals):
		return newFieldSet(dealFields)
	default:
		return newFieldSet(sharedFields)
	}
}

// FieldLabel says how a shared form slot is presented and which key backs it
type FieldLabel struct {
	Label string `json:"label"`
	Field string `json:"field"`
}

// FieldLabels maps the generic "name" and "notes" slots to their labels.
// Under Deals they present the deal title and details, stored in their own
// keys so switching away and back loses nothing.
func FieldLabels(categoryName string) map[string]FieldLabel {
	if is(categoryName, category.NameDeals) {
		return map[string]FieldLabel{
			FieldName:  {Label: "Deal title", Field: FieldDealTitle},
			FieldNotes: {Label: "Deal details", Field: FieldDealDescription},
		}
	}
	return map[string]FieldLabel{
		FieldName:  {Label: "Name", Field: FieldName},
		FieldNotes: {Label: "Notes", Field: FieldNotes},
	}
}

func is(name, want string) bool {
	return category.SameName(name, want)
}
