package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"guidelight-backend/internal/domains/category"
	"guidelight-backend/internal/shared/apperror"
	"guidelight-backend/internal/shared/utils"
)

type categoryService struct {
	repo  category.Repository
	cache *category.Cache
}

func NewCategoryService(repo category.Repository, cache *category.Cache) category.Service {
	return &categoryService{repo: repo, cache: cache}
}

func (s *categoryService) List(ctx context.Context, includeInactive bool) ([]category.Category, error) {
	all, err := s.cache.All(ctx)
	if err != nil {
		return nil, err
	}
	if includeInactive {
		return all, nil
	}
	active := make([]category.Category, 0, len(all))
	for _, c := range all {
		if c.IsActive {
			active = append(active, c)
		}
	}
	return active, nil
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	return s.cache.ByID(ctx, id)
}

func (s *categoryService) Create(ctx context.Context, req category.CreateCategoryRequest) (*category.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	c := &category.Category{
		Name:      req.Name,
		Slug:      utils.GenerateSlug(req.Name),
		SortOrder: req.SortOrder,
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req category.UpdateCategoryRequest) (*category.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
		c.Slug = utils.GenerateSlug(c.Name)
	}
	if req.SortOrder != nil {
		c.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return c, nil
}

// invalidate never fails the write; a stale list expires with the TTL
func (s *categoryService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("category cache invalidation failed")
	}
}
