package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"guidelight-backend/internal/domains/board"
	"guidelight-backend/internal/shared"
	"guidelight-backend/internal/shared/response"
)

// mockService implements only what the tests route to
type mockService struct {
	board.Service
	mock.Mock
}

func (m *mockService) Reorder(ctx context.Context, actor shared.Actor, boardID uuid.UUID, order []uuid.UUID) (*board.View, error) {
	args := m.Called(ctx, actor, boardID, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*board.View), args.Error(1)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func withStaff(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(shared.CtxStaffID, id)
		c.Set(shared.CtxRole, shared.RoleManager)
		c.Next()
	}
}

func reorder(t *testing.T, svc board.Service, boardID string, order []uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.PUT("/boards/:id/order", withStaff(uuid.New()), NewBoardHandler(svc).Reorder)

	body, err := json.Marshal(board.ReorderRequest{ItemIDs: order})
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/boards/"+boardID+"/order", bytes.NewReader(body)))
	return w
}

func TestReorder_IncompleteOrderIs422(t *testing.T) {
	svc := new(mockService)
	boardID := uuid.New()
	order := []uuid.UUID{uuid.New()}
	svc.On("Reorder", mock.Anything, mock.Anything, boardID, order).Return(nil, board.ErrInvalidOrder)

	w := reorder(t, svc, boardID.String(), order)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var env response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, "BOARD_INVALID_ORDER", env.Error.Code)
}

func TestReorder_ReturnsNewOrder(t *testing.T) {
	svc := new(mockService)
	boardID := uuid.New()
	order := []uuid.UUID{uuid.New(), uuid.New()}
	svc.On("Reorder", mock.Anything, mock.Anything, boardID, order).Return(&board.View{}, nil)

	w := reorder(t, svc, boardID.String(), order)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestReorder_InvalidBoardIdIs400(t *testing.T) {
	svc := new(mockService)

	w := reorder(t, svc, "nope", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Reorder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
