package category

import (
	"net/http"

	"guidelight-backend/internal/shared/apperror"
)

var (
	ErrCategoryNotFound = apperror.New(http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found")
	ErrDuplicateName    = apperror.New(http.StatusConflict, "CATEGORY_EXISTS", "A category with this name already exists")
)
