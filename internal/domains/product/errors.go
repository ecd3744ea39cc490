package product

import (
	"net/http"

	"guidelight-backend/internal/shared/apperror"
)

var (
	ErrProductNotFound = apperror.New(http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
	ErrDuplicateSKU    = apperror.New(http.StatusConflict, "PRODUCT_SKU_EXISTS", "A product with this SKU already exists")
)
