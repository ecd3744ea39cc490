package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"guidelight-backend/internal/domains/category"
	"guidelight-backend/internal/domains/pick"
	"guidelight-backend/internal/shared"
	"guidelight-backend/internal/shared/apperror"
	"guidelight-backend/pkg/cache"
)

const feedCacheKey = "picks:display:feed"

type pickService struct {
	repo       pick.Repository
	categories category.Lookup
	cache      cache.Cache
	feedTTL    time.Duration
	now        func() time.Time
}

func NewPickService(repo pick.Repository, categories category.Lookup, c cache.Cache, feedTTL time.Duration) pick.Service {
	return &pickService{
		repo:       repo,
		categories: categories,
		cache:      c,
		feedTTL:    feedTTL,
		now:        time.Now,
	}
}

func (s *pickService) checkInput(ctx context.Context, in pick.Input) error {
	if len(in.EffectTags) > pick.MaxEffectTags {
		return pick.ErrTooManyEffect
	}
	if _, err := s.categories.ByID(ctx, in.CategoryID); err != nil {
		return err
	}
	return nil
}

func (s *pickService) Create(ctx context.Context, in pick.Input) (*pick.Pick, error) {
	if err := s.checkInput(ctx, in); err != nil {
		return nil, err
	}

	p := pick.NewFromInput(in)
	p.LastActiveAt = pick.NextLastActiveAt(nil, in.IsActive, s.now())
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateFeed(ctx)

	log.Info().Str("pick_id", p.ID.String()).Str("staff_id", p.StaffID.String()).Msg("pick created")
	return s.repo.GetByID(ctx, p.ID)
}

func (s *pickService) Update(ctx context.Context, id uuid.UUID, in pick.Input, previous *pick.Pick) (*pick.Pick, error) {
	if err := s.checkInput(ctx, in); err != nil {
		return nil, err
	}

	if previous == nil || previous.ID != id {
		var err error
		if previous, err = s.repo.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}

	next := *previous
	pick.ApplyInput(&next, in)
	next.LastActiveAt = pick.NextLastActiveAt(previous, in.IsActive, s.now())
	if err := s.repo.Update(ctx, &next); err != nil {
		return nil, err
	}
	s.invalidateFeed(ctx)

	log.Info().Str("pick_id", id.String()).Bool("is_active", next.IsActive).Msg("pick updated")
	return s.repo.GetByID(ctx, id)
}

func (s *pickService) GetByID(ctx context.Context, id uuid.UUID) (*pick.Pick, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *pickService) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*pick.Pick, error) {
	return s.repo.GetByIDs(ctx, ids)
}

func (s *pickService) List(ctx context.Context, filter pick.ListFilter) ([]pick.Pick, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	return s.repo.List(ctx, filter)
}

// SetActive toggles visibility; the same last_active_at rule as an edit applies
func (s *pickService) SetActive(ctx context.Context, actor shared.Actor, id uuid.UUID, active bool) (*pick.Pick, error) {
	previous, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(previous.StaffID) {
		return nil, apperror.Forbidden("change this pick")
	}

	next := *previous
	next.IsActive = active
	next.LastActiveAt = pick.NextLastActiveAt(previous, active, s.now())
	if err := s.repo.Update(ctx, &next); err != nil {
		return nil, err
	}
	s.invalidateFeed(ctx)
	return &next, nil
}

func (s *pickService) SetStatus(ctx context.Context, actor shared.Actor, id uuid.UUID, status pick.Status) (*pick.Pick, error) {
	if !status.Valid() {
		return nil, pick.ErrInvalidStatus
	}
	previous, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(previous.StaffID) {
		return nil, apperror.Forbidden("change this pick")
	}
	if previous.Status == status {
		return previous, nil
	}

	next := *previous
	next.Status = status
	if err := s.repo.Update(ctx, &next); err != nil {
		return nil, err
	}
	s.invalidateFeed(ctx)

	log.Info().Str("pick_id", id.String()).Str("status", string(status)).Msg("pick status changed")
	return &next, nil
}

func (s *pickService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanModify(p.StaffID) {
		return apperror.Forbidden("delete this pick")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateFeed(ctx)
	log.Info().Str("pick_id", id.String()).Str("staff_id", actor.ID.String()).Msg("pick deleted")
	return nil
}

// DisplayFeed is the customer-visible list, cached until the next pick write
func (s *pickService) DisplayFeed(ctx context.Context) ([]pick.FeedItem, error) {
	var feed []pick.FeedItem
	found, err := s.cache.Get(ctx, feedCacheKey, &feed)
	if err != nil {
		log.Warn().Err(err).Msg("display feed cache read failed")
	}
	if found {
		return feed, nil
	}

	visible, err := s.repo.ListVisible(ctx)
	if err != nil {
		return nil, err
	}
	feed = make([]pick.FeedItem, 0, len(visible))
	for i := range visible {
		feed = append(feed, visible[i].ToFeedItem())
	}

	if err := s.cache.Set(ctx, feedCacheKey, feed, s.feedTTL); err != nil {
		log.Warn().Err(err).Msg("display feed cache write failed")
	}
	return feed, nil
}

func (s *pickService) invalidateFeed(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, "picks:display:*"); err != nil {
		log.Warn().Err(err).Msg("display feed invalidation failed")
	}
}

func (s *pickService) ExportXLSX(ctx context.Context, filter pick.ListFilter, w io.Writer) error {
	filter.Page, filter.Limit = 1, 0
	picks, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("list picks for export: %w", err)
	}

	f, err := buildPicksWorkbook(picks)
	if err != nil {
		return pick.ErrExportFailed.Wrap(err)
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return pick.ErrExportFailed.Wrap(err)
	}
	return nil
}

func joinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
