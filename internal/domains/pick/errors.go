package pick

import (
	"net/http"

	"guidelight-backend/internal/shared/apperror"
)

var (
	ErrPickNotFound  = apperror.New(http.StatusNotFound, "PICK_NOT_FOUND", "Pick not found")
	ErrTooManyEffect = apperror.New(http.StatusUnprocessableEntity, "PICK_TOO_MANY_EFFECT_TAGS", "A pick can have at most 3 effect tags")
	ErrInvalidStatus = apperror.New(http.StatusUnprocessableEntity, "PICK_INVALID_STATUS", "Status must be published or archived")
	ErrExportFailed  = apperror.New(http.StatusInternalServerError, "PICK_EXPORT_FAILED", "Could not build the export")
)
