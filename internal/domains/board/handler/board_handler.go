package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"guidelight-backend/internal/domains/board"
	"guidelight-backend/internal/shared/middleware"
	"guidelight-backend/internal/shared/response"
)

type BoardHandler struct {
	service board.Service
}

func NewBoardHandler(service board.Service) *BoardHandler {
	return &BoardHandler{service: service}
}

func parseID(c *gin.Context, param, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.BadRequest(c, "Invalid "+what+" id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *BoardHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *BoardHandler) Create(c *gin.Context) {
	var req board.CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	actor, _ := middleware.Actor(c)

	b, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

// Get handles GET /boards/:id, the edit view
func (h *BoardHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "board")
	if !ok {
		return
	}
	view, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *BoardHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "board")
	if !ok {
		return
	}
	var req board.UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	actor, _ := middleware.Actor(c)

	b, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *BoardHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "board")
	if !ok {
		return
	}
	actor, _ := middleware.Actor(c)

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddItem handles POST /boards/:id/items
func (h *BoardHandler) AddItem(c *gin.Context) {
	id, ok := parseID(c, "id", "board")
	if !ok {
		return
	}
	var req board.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	actor, _ := middleware.Actor(c)

	view, err := h.service.AddItem(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, view)
}

// RemoveItem handles DELETE /boards/:id/items/:item_id
func (h *BoardHandler) RemoveItem(c *gin.Context) {
	id, ok := parseID(c, "id", "board")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "item_id", "item")
	if !ok {
		return
	}
	actor, _ := middleware.Actor(c)

	view, err := h.service.RemoveItem(c.Request.Context(), actor, id, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Reorder handles PUT /boards/:id/order
func (h *BoardHandler) Reorder(c *gin.Context) {
	id, ok := parseID(c, "id", "board")
	if !ok {
		return
	}
	var req board.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	actor, _ := middleware.Actor(c)

	view, err := h.service.Reorder(c.Request.Context(), actor, id, req.ItemIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Display handles GET /display/boards/:slug for kiosks
func (h *BoardHandler) Display(c *gin.Context) {
	view, err := h.service.Display(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}
