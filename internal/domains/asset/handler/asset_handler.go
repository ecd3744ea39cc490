package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"guidelight-backend/internal/domains/asset"
	"guidelight-backend/internal/infrastructure/storage"
	"guidelight-backend/internal/shared"
	"guidelight-backend/internal/shared/middleware"
	"guidelight-backend/internal/shared/response"
)

type AssetHandler struct {
	service asset.Service
}

func NewAssetHandler(service asset.Service) *AssetHandler {
	return &AssetHandler{service: service}
}

// Upload handles POST /assets (multipart field "file")
func (h *AssetHandler) Upload(c *gin.Context) {
	staffID, ok := middleware.StaffID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Missing file")
		return
	}
	if file.Size > storage.MaxImageSize {
		response.Error(c, asset.ErrInvalidImage)
		return
	}

	f, err := file.Open()
	if err != nil {
		response.BadRequest(c, "Cannot read file")
		return
	}
	defer f.Close()

	// one extra byte so oversize bodies with a lying header still fail validation
	data, err := io.ReadAll(io.LimitReader(f, storage.MaxImageSize+1))
	if err != nil {
		response.BadRequest(c, "Cannot read file")
		return
	}

	a, err := h.service.Upload(c.Request.Context(), asset.UploadInput{OwnerID: staffID, Data: data})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, a)
}

func (h *AssetHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid asset id")
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

func (h *AssetHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid asset id")
		return
	}
	staffID, _ := middleware.StaffID(c)

	if err := h.service.Delete(c.Request.Context(), staffID, middleware.Role(c) == shared.RoleManager, id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
