package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"guidelight-backend/internal/domains/staff"
	"guidelight-backend/internal/shared/middleware"
	"guidelight-backend/internal/shared/response"
	"guidelight-backend/internal/shared/utils"
)

const refreshCookie = "refresh_token"

type StaffHandler struct {
	service      staff.Service
	secureCookie bool
}

func NewStaffHandler(service staff.Service, secureCookie bool) *StaffHandler {
	return &StaffHandler{service: service, secureCookie: secureCookie}
}

// ========================================
// AUTH
// ========================================

// Login handles POST /auth/login.
// The refresh token goes both in an HttpOnly cookie (browser) and the body (kiosk CLI).
func (h *StaffHandler) Login(c *gin.Context) {
	var req staff.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetCookie(refreshCookie, res.RefreshToken, 7*24*3600, "/", "", h.secureCookie, true)
	response.Success(c, http.StatusOK, res)
}

// Refresh handles POST /auth/refresh (body first, cookie fallback)
func (h *StaffHandler) Refresh(c *gin.Context) {
	var req staff.RefreshRequest
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(refreshCookie)
	}
	if req.RefreshToken == "" {
		response.Unauthorized(c, "Missing refresh token")
		return
	}

	res, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetCookie(refreshCookie, res.RefreshToken, 7*24*3600, "/", "", h.secureCookie, true)
	response.Success(c, http.StatusOK, res)
}

// Logout handles POST /auth/logout
func (h *StaffHandler) Logout(c *gin.Context) {
	var req staff.RefreshRequest
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(refreshCookie)
	}

	if err := h.service.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		response.Error(c, err)
		return
	}

	c.SetCookie(refreshCookie, "", -1, "/", "", h.secureCookie, true)
	response.Success(c, http.StatusOK, gin.H{"signed_out": true})
}

// Me handles GET /staff/me, the profile the session bootstrap loads
func (h *StaffHandler) Me(c *gin.Context) {
	staffID, ok := middleware.StaffID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), staffID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// ========================================
// ADMIN (manager only, enforced by the router)
// ========================================

func (h *StaffHandler) List(c *gin.Context) {
	page, limit := utils.Pagination(c.Query("page"), c.Query("limit"), 50, 200)
	req := staff.ListStaffRequest{
		Role:   staff.Role(c.Query("role")),
		Search: c.Query("q"),
		Page:   page,
		Limit:  limit,
	}
	if v := c.Query("active"); v != "" {
		if active, err := strconv.ParseBool(v); err == nil {
			req.IsActive = &active
		}
	}

	list, total, err := h.service.ListStaff(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, list, &response.Meta{Page: page, Limit: limit, Total: total})
}

func (h *StaffHandler) Create(c *gin.Context) {
	var req staff.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	profile, err := h.service.CreateStaff(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, profile)
}

func (h *StaffHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid staff id")
		return
	}
	actorID, _ := middleware.StaffID(c)

	var req staff.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	profile, err := h.service.UpdateStaff(c.Request.Context(), actorID, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

func (h *StaffHandler) SetPassword(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid staff id")
		return
	}

	var req staff.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.service.SetPassword(c.Request.Context(), id, req); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
