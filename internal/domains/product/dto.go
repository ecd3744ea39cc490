package product

import (
	"github.com/google/uuid"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Name       string           `json:"name"`
	Brand      *string          `json:"brand"`
	CategoryID *uuid.UUID       `json:"category_id"`
	SKU        *string          `json:"sku"`
	Price      *decimal.Decimal `json:"price"`
}

func (r CreateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(1, 200)),
		validation.Field(&r.Brand, validation.Length(0, 120)),
		validation.Field(&r.SKU, validation.Length(0, 64)),
		validation.Field(&r.Price, validation.By(nonNegative)),
	)
}

func nonNegative(value interface{}) error {
	p, _ := value.(*decimal.Decimal)
	if p != nil && p.IsNegative() {
		return validation.NewError("validation_negative", "must not be negative")
	}
	return nil
}

// ListProductsRequest filters the catalog; Query matches name, brand or sku
type ListProductsRequest struct {
	Query      string
	CategoryID *uuid.UUID
	ActiveOnly bool
	Page       int
	Limit      int
}
