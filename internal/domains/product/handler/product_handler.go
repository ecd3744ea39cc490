package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"guidelight-backend/internal/domains/product"
	"guidelight-backend/internal/shared/response"
	"guidelight-backend/internal/shared/utils"
)

type ProductHandler struct {
	service product.Service
}

func NewProductHandler(service product.Service) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /products?q=&category_id=&page=&limit=
func (h *ProductHandler) List(c *gin.Context) {
	categoryID, err := utils.ParseOptionalUUID(c.Query("category_id"))
	if err != nil {
		response.BadRequest(c, "Invalid category id")
		return
	}
	page, limit := utils.Pagination(c.Query("page"), c.Query("limit"), 20, 100)

	list, total, err := h.service.List(c.Request.Context(), product.ListProductsRequest{
		Query:      c.Query("q"),
		CategoryID: categoryID,
		ActiveOnly: c.Query("all") != "true",
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, list, &response.Meta{Page: page, Limit: limit, Total: total})
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product id")
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req product.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}
