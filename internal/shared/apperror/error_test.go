package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	errPickNotFound := New(http.StatusNotFound, "PICK_NOT_FOUND", "Pick not found")

	wrapped := fmt.Errorf("load pick: %w", errPickNotFound.Wrap(errors.New("no rows")))

	assert.ErrorIs(t, wrapped, errPickNotFound)
	assert.NotErrorIs(t, wrapped, ErrNotFound)
}

func TestMapErrorToHTTP(t *testing.T) {
	status, msg, code := MapErrorToHTTP(Forbidden("manage staff"))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "You don't have permission to manage staff", msg)
	assert.Equal(t, "FORBIDDEN", code)

	status, _, code = MapErrorToHTTP(fmt.Errorf("publish: %w", Validation(map[string]string{"category_id": "category is required"})))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "VALIDATION_FAILED", code)

	status, msg, code = MapErrorToHTTP(errors.New("pq: relation does not exist"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", msg)
	assert.Equal(t, "INTERNAL_ERROR", code)
}
