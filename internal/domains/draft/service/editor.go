package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"guidelight-backend/internal/domains/category"
	"guidelight-backend/internal/domains/draft"
	"guidelight-backend/internal/domains/pick"
	"guidelight-backend/internal/shared"
	"guidelight-backend/internal/shared/apperror"
	"guidelight-backend/pkg/autosave"
)

type EditorConfig struct {
	Debounce    time.Duration
	RevertAfter time.Duration
	SaveTimeout time.Duration
	IdleTTL     time.Duration
}

type session struct {
	id       uuid.UUID
	ownerID  uuid.UUID
	target   *uuid.UUID
	previous *pick.Pick
	source   draft.Source
	openedAt time.Time
	engine   *autosave.Engine[draft.FormState]

	// mu guards form, touched and closed. Never held by the engine's save.
	mu      sync.Mutex
	form    draft.FormState
	touched time.Time
	closed  bool

	draftMu sync.Mutex
	draftID *uuid.UUID
}

func (s *session) currentDraftID() *uuid.UUID {
	s.draftMu.Lock()
	defer s.draftMu.Unlock()
	if s.draftID == nil {
		return nil
	}
	id := *s.draftID
	return &id
}

func (s *session) setDraftID(id *uuid.UUID) {
	s.draftMu.Lock()
	s.draftID = id
	s.draftMu.Unlock()
}

// SessionManager keeps open editor sessions in memory, one autosave engine
// each. Sessions idle longer than IdleTTL are flushed and closed by Run.
type SessionManager struct {
	drafts     draft.Repository
	picks      pick.Store
	categories category.Lookup
	publisher  draft.Publisher
	cfg        EditorConfig
	baseCtx    context.Context
	now        func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

var _ draft.Editor = (*SessionManager)(nil)

// NewSessionManager creates the manager. ctx bounds every autosave write.
func NewSessionManager(
	ctx context.Context,
	drafts draft.Repository,
	picks pick.Store,
	categories category.Lookup,
	publisher draft.Publisher,
	cfg EditorConfig,
) *SessionManager {
	return &SessionManager{
		drafts:     drafts,
		picks:      picks,
		categories: categories,
		publisher:  publisher,
		cfg:        cfg,
		baseCtx:    ctx,
		now:        time.Now,
		sessions:   make(map[uuid.UUID]*session),
	}
}

// Open loads the initial form from, in order: the caller's draft for the
// target, the pick being edited, or defaults for the requested category.
func (m *SessionManager) Open(ctx context.Context, actor shared.Actor, req draft.OpenSessionRequest) (*draft.SessionView, error) {
	var previous *pick.Pick
	if req.TargetPickID != nil {
		p, err := m.picks.GetByID(ctx, *req.TargetPickID)
		if err != nil {
			return nil, err
		}
		if !actor.CanModify(p.StaffID) {
			return nil, apperror.Forbidden("edit this pick")
		}
		previous = p
	}

	now := m.now()
	s := &session{
		id:       uuid.New(),
		ownerID:  actor.ID,
		target:   req.TargetPickID,
		previous: previous,
		openedAt: now,
		touched:  now,
	}

	existing, err := m.drafts.GetByTarget(ctx, actor.ID, req.TargetPickID)
	switch {
	case err == nil:
		form, decodeErr := existing.Form()
		if decodeErr != nil {
			log.Warn().Err(decodeErr).Str("draft_id", existing.ID.String()).Msg("unreadable draft payload, starting over")
		} else {
			s.form, s.source = form, draft.SourceDraft
		}
		// the row is reused either way
		s.draftID = &existing.ID
	case errors.Is(err, draft.ErrDraftNotFound):
	default:
		return nil, err
	}

	if s.source == "" {
		if previous != nil {
			s.form, s.source = draft.FromPick(previous), draft.SourcePick
		} else {
			var c *category.Category
			if req.CategoryID != nil {
				if c, err = m.categories.ByID(ctx, *req.CategoryID); err != nil {
					return nil, err
				}
			}
			s.form, s.source = draft.Defaults(c), draft.SourceDefaults
		}
	}
	m.refreshCategoryName(ctx, &s.form)

	s.engine = autosave.New[draft.FormState](m.baseCtx, m.saveFunc(s),
		autosave.WithDelay(m.cfg.Debounce),
		autosave.WithRevertAfter(m.cfg.RevertAfter),
		autosave.WithSaveTimeout(m.cfg.SaveTimeout),
		autosave.WithDelete(func(ctx context.Context) error {
			err := m.publisher.Discard(ctx, s.ownerID, s.target, s.currentDraftID())
			if err == nil {
				s.setDraftID(nil)
			}
			return err
		}),
		autosave.OnStatus(func(st autosave.Status) {
			if st.State == autosave.StateError {
				log.Warn().Str("session_id", s.id.String()).Str("owner_id", s.ownerID.String()).
					Str("error", st.LastError).Msg("draft autosave failed")
			}
		}),
	)

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	log.Info().Str("session_id", s.id.String()).Str("owner_id", actor.ID.String()).
		Str("source", string(s.source)).Msg("editor session opened")

	s.mu.Lock()
	defer s.mu.Unlock()
	return m.view(s), nil
}

func (m *SessionManager) saveFunc(s *session) autosave.SaveFunc[draft.FormState] {
	return func(ctx context.Context, form draft.FormState) error {
		payload, err := json.Marshal(form)
		if err != nil {
			return err
		}
		d, err := m.drafts.Upsert(ctx, s.ownerID, payload, s.target, s.currentDraftID())
		if err != nil {
			return err
		}
		s.setDraftID(&d.ID)
		return nil
	}
}

// refreshCategoryName keeps category_name in step with category_id. An
// unknown id keeps the stored name so nothing the user saw disappears.
func (m *SessionManager) refreshCategoryName(ctx context.Context, f *draft.FormState) {
	if f.CategoryID == nil {
		f.CategoryName = ""
		return
	}
	c, err := m.categories.ByID(ctx, *f.CategoryID)
	if err != nil {
		log.Warn().Err(err).Str("category_id", f.CategoryID.String()).Msg("category lookup failed")
		return
	}
	f.CategoryName = c.Name
}

// lock finds the caller's session and locks it
func (m *SessionManager) lock(actor shared.Actor, id uuid.UUID) (*session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, draft.ErrSessionNotFound
	}
	if s.ownerID != actor.ID {
		return nil, apperror.Forbidden("use this editor session")
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, draft.ErrSessionNotFound
	}
	s.touched = m.now()
	return s, nil
}

func (m *SessionManager) view(s *session) *draft.SessionView {
	form := s.form.Clone()
	return &draft.SessionView{
		ID:            s.id,
		TargetPickID:  s.target,
		DraftID:       s.currentDraftID(),
		Source:        s.source,
		Form:          form,
		VisibleFields: draft.VisibleFields(form.CategoryName).Keys(),
		Labels:        draft.FieldLabels(form.CategoryName),
		Autosave:      s.engine.Status(),
		OpenedAt:      s.openedAt,
	}
}

func (m *SessionManager) Get(_ context.Context, actor shared.Actor, id uuid.UUID) (*draft.SessionView, error) {
	s, err := m.lock(actor, id)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	return m.view(s), nil
}

// Patch merges a partial form and feeds the result to autosave
func (m *SessionManager) Patch(ctx context.Context, actor shared.Actor, id uuid.UUID, patch json.RawMessage) (*draft.SessionView, error) {
	s, err := m.lock(actor, id)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	next := s.form.Clone()
	if err := next.Apply(patch); err != nil {
		return nil, err
	}
	if draft.CategoryChanged(patch) && next.CategoryID != nil {
		c, err := m.categories.ByID(ctx, *next.CategoryID)
		if err != nil {
			return nil, err
		}
		next.CategoryName = c.Name
	} else if next.CategoryID == nil {
		next.CategoryName = ""
	}

	s.form = next
	s.engine.Update(s.form.Clone())
	return m.view(s), nil
}

func (m *SessionManager) AddTag(_ context.Context, actor shared.Actor, id uuid.UUID, req draft.TagRequest) (*draft.SessionView, error) {
	s, err := m.lock(actor, id)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	next := s.form.Clone()
	if err := next.AddTag(req.Kind, req.Tag); err != nil {
		return nil, err
	}
	s.form = next
	s.engine.Update(s.form.Clone())
	return m.view(s), nil
}

func (m *SessionManager) RemoveTag(_ context.Context, actor shared.Actor, id uuid.UUID, req draft.TagRequest) (*draft.SessionView, error) {
	s, err := m.lock(actor, id)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	removed, err := s.form.RemoveTag(req.Kind, req.Tag)
	if err != nil {
		return nil, err
	}
	if removed {
		s.engine.Update(s.form.Clone())
	}
	return m.view(s), nil
}

// Publish flushes pending autosave work, then publishes. The session stays
// open when publishing fails so the user can fix the form and retry.
func (m *SessionManager) Publish(ctx context.Context, actor shared.Actor, id uuid.UUID) (*pick.Pick, error) {
	s, err := m.lock(actor, id)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if err := s.engine.Flush(ctx); err != nil {
		log.Warn().Err(err).Str("session_id", s.id.String()).Msg("flush before publish failed")
	}

	// the pick may have been toggled or edited since Open
	if s.target != nil {
		current, err := m.picks.GetByID(ctx, *s.target)
		if err != nil {
			return nil, err
		}
		s.previous = current
	}

	published, err := m.publisher.Publish(ctx, draft.PublishRequest{
		Actor:    actor,
		Form:     s.form.Clone(),
		Previous: s.previous,
		DraftID:  s.currentDraftID(),
	}, func(*pick.Pick) {
		m.closeLocked(s)
	})
	if err != nil {
		return nil, err
	}
	return published, nil
}

// Discard deletes the draft and closes the session
func (m *SessionManager) Discard(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	s, err := m.lock(actor, id)
	if err != nil {
		return err
	}
	defer s.mu.Unlock()

	err = s.engine.Discard(ctx)
	m.closeLocked(s)
	if err != nil {
		return err
	}
	log.Info().Str("session_id", s.id.String()).Str("owner_id", s.ownerID.String()).Msg("draft discarded")
	return nil
}

// closeLocked must be called with s.mu held
func (m *SessionManager) closeLocked(s *session) {
	if s.closed {
		return
	}
	s.closed = true
	s.engine.Close()

	m.mu.Lock()
	delete(m.sessions, s.id)
	m.mu.Unlock()
}

func (m *SessionManager) ListDrafts(ctx context.Context, ownerID uuid.UUID) ([]draft.DraftSummary, error) {
	drafts, err := m.drafts.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]draft.DraftSummary, 0, len(drafts))
	for i := range drafts {
		out = append(out, drafts[i].Summarize())
	}
	return out, nil
}

func (m *SessionManager) GetDraft(ctx context.Context, ownerID uuid.UUID, target *uuid.UUID) (*draft.Draft, error) {
	return m.drafts.GetByTarget(ctx, ownerID, target)
}

// Sweep flushes and closes sessions idle for longer than IdleTTL
func (m *SessionManager) Sweep(ctx context.Context) int {
	cutoff := m.now().Add(-m.cfg.IdleTTL)

	m.mu.RLock()
	candidates := make([]*session, 0, len(m.sessions))
	for _, s := range m.sessions {
		candidates = append(candidates, s)
	}
	m.mu.RUnlock()

	closed := 0
	for _, s := range candidates {
		s.mu.Lock()
		if !s.closed && s.touched.Before(cutoff) {
			m.flushAndClose(ctx, s)
			closed++
		}
		s.mu.Unlock()
	}
	if closed > 0 {
		log.Info().Int("closed", closed).Msg("idle editor sessions swept")
	}
	return closed
}

// Run sweeps every interval until ctx is cancelled, then flushes everything
func (m *SessionManager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.Shutdown(context.WithoutCancel(ctx))
			return nil
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

// Shutdown flushes and closes every open session
func (m *SessionManager) Shutdown(ctx context.Context) {
	m.mu.RLock()
	all := make([]*session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.RUnlock()

	for _, s := range all {
		s.mu.Lock()
		if !s.closed {
			m.flushAndClose(ctx, s)
		}
		s.mu.Unlock()
	}
}

func (m *SessionManager) flushAndClose(ctx context.Context, s *session) {
	if err := s.engine.Flush(ctx); err != nil {
		log.Warn().Err(err).Str("session_id", s.id.String()).Msg("flush on close failed")
	}
	m.closeLocked(s)
}

// Len returns the number of open sessions
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
