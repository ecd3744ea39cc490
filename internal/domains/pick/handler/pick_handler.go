package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"guidelight-backend/internal/domains/pick"
	"guidelight-backend/internal/shared/middleware"
	"guidelight-backend/internal/shared/response"
	"guidelight-backend/internal/shared/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PickHandler struct {
	service pick.Service
}

func NewPickHandler(service pick.Service) *PickHandler {
	return &PickHandler{service: service}
}

func parseFilter(c *gin.Context) (pick.ListFilter, error) {
	var f pick.ListFilter
	var err error
	if f.StaffID, err = utils.ParseOptionalUUID(c.Query("staff_id")); err != nil {
		return f, fmt.Errorf("invalid staff_id")
	}
	if f.CategoryID, err = utils.ParseOptionalUUID(c.Query("category_id")); err != nil {
		return f, fmt.Errorf("invalid category_id")
	}
	if v := c.Query("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("invalid active")
		}
		f.IsActive = &active
	}
	return f, nil
}

// List handles GET /picks?staff_id=&category_id=&active=&page=&limit=
func (h *PickHandler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	filter.Page, filter.Limit = utils.Pagination(c.Query("page"), c.Query("limit"), 50, 200)

	list, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, list, &response.Meta{Page: filter.Page, Limit: filter.Limit, Total: total})
}

func (h *PickHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid pick id")
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// SetActive handles PATCH /picks/:id/active
func (h *PickHandler) SetActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid pick id")
		return
	}
	var req pick.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		response.BadRequest(c, "is_active is required")
		return
	}
	actor, _ := middleware.Actor(c)

	p, err := h.service.SetActive(c.Request.Context(), actor, id, *req.IsActive)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// SetStatus handles PATCH /picks/:id/status
func (h *PickHandler) SetStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid pick id")
		return
	}
	var req pick.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	actor, _ := middleware.Actor(c)

	p, err := h.service.SetStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *PickHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid pick id")
		return
	}
	actor, _ := middleware.Actor(c)

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DisplayFeed handles GET /display/picks for kiosks
func (h *PickHandler) DisplayFeed(c *gin.Context) {
	feed, err := h.service.DisplayFeed(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, feed)
}

// Export handles GET /admin/picks/export
func (h *PickHandler) Export(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// buffered so a failure can still produce a JSON error
	var buf bytes.Buffer
	if err := h.service.ExportXLSX(c.Request.Context(), filter, &buf); err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("picks_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
