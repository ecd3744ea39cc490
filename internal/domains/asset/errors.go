package asset

import (
	"net/http"

	"guidelight-backend/internal/shared/apperror"
)

var (
	ErrAssetNotFound = apperror.New(http.StatusNotFound, "ASSET_NOT_FOUND", "Asset not found")
	ErrInvalidImage  = apperror.New(http.StatusUnprocessableEntity, "ASSET_INVALID_IMAGE", "Only JPEG or PNG images up to 5MB are accepted")
	ErrUploadFailed  = apperror.New(http.StatusBadGateway, "ASSET_UPLOAD_FAILED", "Could not store the image, try again")
)
