package category

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Seeded category names. Field visibility in the editor keys off these.
const (
	NameFlower       = "Flower"
	NamePreRolls     = "Pre-rolls"
	NameVapes        = "Vapes"
	NameConcentrates = "Concentrates"
	NameEdibles      = "Edibles"
	NameBeverages    = "Beverages"
	NameTopicals     = "Topicals"
	NameWellness     = "Wellness"
	NameAccessories  = "Accessories"
	NameDeals        = "Deals"
)

// SeedNames in display order
var SeedNames = []string{
	NameFlower, NamePreRolls, NameVapes, NameConcentrates, NameEdibles,
	NameBeverages, NameTopicals, NameWellness, NameAccessories, NameDeals,
}

type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	SortOrder int       `json:"sort_order"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SameName compares category names the way the editor does: trimmed, case-insensitive
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
