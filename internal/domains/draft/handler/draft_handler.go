package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"guidelight-backend/internal/domains/draft"
	"guidelight-backend/internal/shared"
	"guidelight-backend/internal/shared/middleware"
	"guidelight-backend/internal/shared/response"
	"guidelight-backend/internal/shared/utils"
)

// maxPatchBytes bounds a single form patch
const maxPatchBytes = 64 << 10

type DraftHandler struct {
	editor draft.Editor
}

func NewDraftHandler(editor draft.Editor) *DraftHandler {
	return &DraftHandler{editor: editor}
}

func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session id")
		return uuid.Nil, false
	}
	return id, true
}

// Open handles POST /editor/sessions
func (h *DraftHandler) Open(c *gin.Context) {
	var req draft.OpenSessionRequest
	// an empty body opens a new-pick session
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Invalid request body")
		return
	}
	actor, _ := middleware.Actor(c)

	view, err := h.editor.Open(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, view)
}

func (h *DraftHandler) Get(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	actor, _ := middleware.Actor(c)

	view, err := h.editor.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Patch handles PATCH /editor/sessions/:id with a partial form object
func (h *DraftHandler) Patch(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPatchBytes+1))
	if err != nil || len(body) > maxPatchBytes || !json.Valid(body) {
		response.BadRequest(c, "Invalid request body")
		return
	}
	actor, _ := middleware.Actor(c)

	view, err := h.editor.Patch(c.Request.Context(), actor, id, body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// AddTag handles POST /editor/sessions/:id/tags
func (h *DraftHandler) AddTag(c *gin.Context) {
	h.tag(c, h.editor.AddTag)
}

// RemoveTag handles DELETE /editor/sessions/:id/tags
func (h *DraftHandler) RemoveTag(c *gin.Context) {
	h.tag(c, h.editor.RemoveTag)
}

type tagFunc func(ctx context.Context, actor shared.Actor, id uuid.UUID, req draft.TagRequest) (*draft.SessionView, error)

func (h *DraftHandler) tag(c *gin.Context, apply tagFunc) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req draft.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	actor, _ := middleware.Actor(c)

	view, err := apply(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Publish handles POST /editor/sessions/:id/publish
func (h *DraftHandler) Publish(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	actor, _ := middleware.Actor(c)

	p, err := h.editor.Publish(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// Discard handles DELETE /editor/sessions/:id
func (h *DraftHandler) Discard(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	actor, _ := middleware.Actor(c)

	if err := h.editor.Discard(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListDrafts handles GET /drafts
func (h *DraftHandler) ListDrafts(c *gin.Context) {
	actor, _ := middleware.Actor(c)

	list, err := h.editor.ListDrafts(c.Request.Context(), actor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// GetDraft handles GET /drafts/by-target?target_pick_id=; no id means the
// new-pick draft
func (h *DraftHandler) GetDraft(c *gin.Context) {
	target, err := utils.ParseOptionalUUID(c.Query("target_pick_id"))
	if err != nil {
		response.BadRequest(c, "Invalid target_pick_id")
		return
	}
	actor, _ := middleware.Actor(c)

	d, err := h.editor.GetDraft(c.Request.Context(), actor.ID, target)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}
