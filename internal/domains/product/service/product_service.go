package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"guidelight-backend/internal/domains/category"
	"guidelight-backend/internal/domains/product"
	"guidelight-backend/internal/shared/apperror"
	"guidelight-backend/internal/shared/utils"
)

type productService struct {
	repo       product.Repository
	categories category.Lookup
}

func NewProductService(repo product.Repository, categories category.Lookup) product.Service {
	return &productService{repo: repo, categories: categories}
}

func (s *productService) List(ctx context.Context, req product.ListProductsRequest) ([]product.Product, int, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 20
	}
	return s.repo.List(ctx, req)
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *productService) Create(ctx context.Context, req product.CreateProductRequest) (*product.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	if req.CategoryID != nil {
		if _, err := s.categories.ByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	p := &product.Product{
		Name:       req.Name,
		Brand:      utils.TrimToNil(utils.Deref(req.Brand)),
		CategoryID: req.CategoryID,
		SKU:        utils.TrimToNil(utils.Deref(req.SKU)),
		Price:      req.Price,
		IsActive:   true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
