package board

import (
	"net/http"

	"guidelight-backend/internal/shared/apperror"
)

var (
	ErrBoardNotFound = apperror.New(http.StatusNotFound, "BOARD_NOT_FOUND", "Board not found")
	ErrItemNotFound  = apperror.New(http.StatusNotFound, "BOARD_ITEM_NOT_FOUND", "Board item not found")
	ErrDuplicateSlug = apperror.New(http.StatusConflict, "BOARD_SLUG_TAKEN", "A board with this name already exists")
	ErrInvalidOrder  = apperror.New(http.StatusUnprocessableEntity, "BOARD_INVALID_ORDER", "The order must list every item on the board exactly once")
)
