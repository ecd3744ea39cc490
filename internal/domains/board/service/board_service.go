package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"guidelight-backend/internal/domains/asset"
	"guidelight-backend/internal/domains/board"
	"guidelight-backend/internal/domains/pick"
	"guidelight-backend/internal/shared"
	"guidelight-backend/internal/shared/apperror"
	"guidelight-backend/internal/shared/utils"
	"guidelight-backend/pkg/autosave"
)

// OrderConfig tunes the per-board reorder autosave
type OrderConfig struct {
	Debounce    time.Duration
	RevertAfter time.Duration
	SaveTimeout time.Duration
}

type boardService struct {
	repo    board.Repository
	picks   pick.Lookup
	assets  asset.Lookup
	cfg     OrderConfig
	baseCtx context.Context

	mu     sync.Mutex
	orders map[uuid.UUID]*autosave.Engine[[]uuid.UUID]
}

// NewBoardService creates the service. ctx bounds background order writes.
func NewBoardService(ctx context.Context, repo board.Repository, picks pick.Lookup, assets asset.Lookup, cfg OrderConfig) board.Service {
	return &boardService{
		repo:    repo,
		picks:   picks,
		assets:  assets,
		cfg:     cfg,
		baseCtx: ctx,
		orders:  make(map[uuid.UUID]*autosave.Engine[[]uuid.UUID]),
	}
}

func (s *boardService) List(ctx context.Context) ([]board.Board, error) {
	return s.repo.List(ctx)
}

func (s *boardService) Create(ctx context.Context, actor shared.Actor, req board.CreateBoardRequest) (*board.Board, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	if req.IsDefault && !actor.IsManager() {
		return nil, apperror.Forbidden("set the default board")
	}

	b := &board.Board{
		Name:      req.Name,
		Slug:      utils.GenerateSlug(req.Name),
		OwnerID:   actor.ID,
		IsDefault: req.IsDefault,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	log.Info().Str("board_id", b.ID.String()).Str("owner_id", actor.ID.String()).Msg("board created")
	return b, nil
}

// editable loads a board the actor may change
func (s *boardService) editable(ctx context.Context, actor shared.Actor, id uuid.UUID) (*board.Board, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(b.OwnerID) {
		return nil, apperror.Forbidden("edit this board")
	}
	return b, nil
}

func (s *boardService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req board.UpdateBoardRequest) (*board.Board, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	b, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		b.Name = strings.TrimSpace(*req.Name)
		b.Slug = utils.GenerateSlug(b.Name)
	}
	if req.IsDefault != nil && *req.IsDefault != b.IsDefault {
		if !actor.IsManager() {
			return nil, apperror.Forbidden("set the default board")
		}
		b.IsDefault = *req.IsDefault
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *boardService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	if _, err := s.editable(ctx, actor, id); err != nil {
		return err
	}

	s.mu.Lock()
	if e, ok := s.orders[id]; ok {
		e.Close()
		delete(s.orders, id)
	}
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("board_id", id.String()).Msg("board deleted")
	return nil
}

func (s *boardService) Get(ctx context.Context, id uuid.UUID) (*board.View, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, b, board.ModeEdit)
}

func (s *boardService) Display(ctx context.Context, slug string) (*board.View, error) {
	b, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, b, board.ModeDisplay)
}

func (s *boardService) AddItem(ctx context.Context, actor shared.Actor, boardID uuid.UUID, req board.AddItemRequest) (*board.View, error) {
	if req.Text != nil {
		trimmed := strings.TrimSpace(*req.Text)
		req.Text = &trimmed
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	b, err := s.editable(ctx, actor, boardID)
	if err != nil {
		return nil, err
	}
	if err := s.checkReference(ctx, req); err != nil {
		return nil, err
	}

	item := &board.Item{BoardID: boardID, Kind: req.Kind, PickID: req.PickID, AssetID: req.AssetID, Text: req.Text}
	if err := s.repo.AddItem(ctx, item); err != nil {
		return nil, err
	}
	return s.view(ctx, b, board.ModeEdit)
}

// checkReference rejects items pointing at something that does not exist yet
func (s *boardService) checkReference(ctx context.Context, req board.AddItemRequest) error {
	switch req.Kind {
	case board.KindPick:
		found, err := s.picks.GetByIDs(ctx, []uuid.UUID{*req.PickID})
		if err != nil {
			return err
		}
		if _, ok := found[*req.PickID]; !ok {
			return pick.ErrPickNotFound
		}
	case board.KindAsset:
		found, err := s.assets.GetByIDs(ctx, []uuid.UUID{*req.AssetID})
		if err != nil {
			return err
		}
		if _, ok := found[*req.AssetID]; !ok {
			return asset.ErrAssetNotFound
		}
	}
	return nil
}

func (s *boardService) RemoveItem(ctx context.Context, actor shared.Actor, boardID, itemID uuid.UUID) (*board.View, error) {
	b, err := s.editable(ctx, actor, boardID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteItem(ctx, boardID, itemID); err != nil {
		return nil, err
	}
	return s.view(ctx, b, board.ModeEdit)
}

// Reorder validates the order against the current items, applies it to the
// in-memory state and hands it to the board's autosave engine
func (s *boardService) Reorder(ctx context.Context, actor shared.Actor, boardID uuid.UUID, order []uuid.UUID) (*board.View, error) {
	b, err := s.editable(ctx, actor, boardID)
	if err != nil {
		return nil, err
	}
	items, err := s.items(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !samePermutation(items, order) {
		return nil, board.ErrInvalidOrder
	}

	s.engine(boardID).Update(append([]uuid.UUID(nil), order...))
	return s.render(ctx, b, board.ApplyOrder(items, order), board.ModeEdit)
}

func samePermutation(items []board.Item, order []uuid.UUID) bool {
	if len(items) != len(order) {
		return false
	}
	seen := make(map[uuid.UUID]bool, len(items))
	for _, it := range items {
		seen[it.ID] = false
	}
	for _, id := range order {
		used, ok := seen[id]
		if !ok || used {
			return false
		}
		seen[id] = true
	}
	return true
}

func (s *boardService) engine(boardID uuid.UUID) *autosave.Engine[[]uuid.UUID] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.orders[boardID]; ok {
		return e
	}
	e := autosave.New(s.baseCtx,
		func(ctx context.Context, order []uuid.UUID) error {
			return s.repo.SetPositions(ctx, boardID, order)
		},
		autosave.WithDelay(s.cfg.Debounce),
		autosave.WithRevertAfter(s.cfg.RevertAfter),
		autosave.WithSaveTimeout(s.cfg.SaveTimeout),
		autosave.OnStatus(func(st autosave.Status) {
			if st.State == autosave.StateError {
				log.Warn().Str("board_id", boardID.String()).Str("error", st.LastError).Msg("board order autosave failed")
			}
		}),
	)
	s.orders[boardID] = e
	return e
}

// items loads the stored items with any pending order laid over them
func (s *boardService) items(ctx context.Context, boardID uuid.UUID) ([]board.Item, error) {
	items, err := s.repo.ListItems(ctx, boardID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	e, ok := s.orders[boardID]
	s.mu.Unlock()
	if ok {
		if order, has := e.Latest(); has {
			items = board.ApplyOrder(items, order)
		}
	}
	return items, nil
}

func (s *boardService) view(ctx context.Context, b *board.Board, mode board.Mode) (*board.View, error) {
	items, err := s.items(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, b, items, mode)
}

func (s *boardService) render(ctx context.Context, b *board.Board, items []board.Item, mode board.Mode) (*board.View, error) {
	pickIDs, assetIDs := board.RefIDs(items)

	var (
		picks  map[uuid.UUID]*pick.Pick
		assets map[uuid.UUID]*asset.Asset
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		picks, err = s.picks.GetByIDs(gctx, pickIDs)
		return err
	})
	g.Go(func() error {
		var err error
		assets, err = s.assets.GetByIDs(gctx, assetIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &board.View{Board: *b, Items: board.Render(items, picks, assets, mode)}, nil
}

// Flush persists every pending board order concurrently
func (s *boardService) Flush(ctx context.Context) error {
	s.mu.Lock()
	engines := make([]*autosave.Engine[[]uuid.UUID], 0, len(s.orders))
	for _, e := range s.orders {
		engines = append(engines, e)
	}
	s.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, e := range engines {
		g.Go(func() error { return e.Flush(gctx) })
	}
	return g.Wait()
}
