package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry a pick may link to
type Product struct {
	ID         uuid.UUID        `json:"id"`
	Name       string           `json:"name"`
	Brand      *string          `json:"brand,omitempty"`
	CategoryID *uuid.UUID       `json:"category_id,omitempty"`
	SKU        *string          `json:"sku,omitempty"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	IsActive   bool             `json:"is_active"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}
