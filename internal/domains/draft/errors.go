package draft

import (
	"net/http"

	"guidelight-backend/internal/shared/apperror"
)

var (
	ErrDraftNotFound     = apperror.New(http.StatusNotFound, "DRAFT_NOT_FOUND", "Draft not found")
	ErrSessionNotFound   = apperror.New(http.StatusNotFound, "EDITOR_SESSION_NOT_FOUND", "Editor session not found or expired")
	ErrInvalidPatch      = apperror.New(http.StatusUnprocessableEntity, "DRAFT_INVALID_PATCH", "Invalid form patch")
	ErrEmptyTag          = apperror.New(http.StatusUnprocessableEntity, "DRAFT_EMPTY_TAG", "Tag cannot be empty")
	ErrInvalidTagKind    = apperror.New(http.StatusBadRequest, "DRAFT_INVALID_TAG_KIND", "Tag kind must be effect or custom")
	ErrTooManyEffectTags = apperror.New(http.StatusUnprocessableEntity, "DRAFT_TOO_MANY_EFFECT_TAGS", "You can pick at most 3 effect tags")
)
