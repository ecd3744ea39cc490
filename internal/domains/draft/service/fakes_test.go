package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"guidelight-backend/internal/domains/category"
	"guidelight-backend/internal/domains/draft"
	"guidelight-backend/internal/domains/pick"
)

// memDrafts is an in-memory draft store keyed like the real table
type memDrafts struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]*draft.Draft
	upserts int
	failing error
}

func newMemDrafts() *memDrafts {
	return &memDrafts{rows: map[uuid.UUID]*draft.Draft{}}
}

func sameTarget(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (m *memDrafts) findLocked(owner uuid.UUID, target *uuid.UUID) *draft.Draft {
	for _, d := range m.rows {
		if d.OwnerID == owner && sameTarget(d.TargetPickID, target) {
			return d
		}
	}
	return nil
}

func (m *memDrafts) Upsert(_ context.Context, owner uuid.UUID, payload json.RawMessage, target, draftID *uuid.UUID) (*draft.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return nil, m.failing
	}
	m.upserts++

	var d *draft.Draft
	if draftID != nil {
		d = m.rows[*draftID]
	}
	if d == nil {
		d = m.findLocked(owner, target)
	}
	if d == nil {
		d = &draft.Draft{ID: uuid.New(), OwnerID: owner, TargetPickID: target, CreatedAt: time.Now()}
		m.rows[d.ID] = d
	}
	d.Payload = append(json.RawMessage(nil), payload...)
	d.UpdatedAt = time.Now()
	cp := *d
	return &cp, nil
}

func (m *memDrafts) DeleteByID(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[id]
	delete(m.rows, id)
	return ok, nil
}

func (m *memDrafts) DeleteByTarget(_ context.Context, owner uuid.UUID, target *uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.findLocked(owner, target)
	if d == nil {
		return false, nil
	}
	delete(m.rows, d.ID)
	return true, nil
}

func (m *memDrafts) GetByTarget(_ context.Context, owner uuid.UUID, target *uuid.UUID) (*draft.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.findLocked(owner, target)
	if d == nil {
		return nil, draft.ErrDraftNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memDrafts) ListByOwner(_ context.Context, owner uuid.UUID) ([]draft.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []draft.Draft
	for _, d := range m.rows {
		if d.OwnerID == owner {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *memDrafts) DeleteStale(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, d := range m.rows {
		if d.UpdatedAt.Before(before) {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

func (m *memDrafts) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *memDrafts) upsertCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upserts
}

// memPicks is a pick.Store
type memPicks struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]*pick.Pick
	failing error
	updates []*pick.Pick
}

func newMemPicks() *memPicks {
	return &memPicks{rows: map[uuid.UUID]*pick.Pick{}}
}

func (m *memPicks) Create(_ context.Context, in pick.Input) (*pick.Pick, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return nil, m.failing
	}
	p := pick.NewFromInput(in)
	p.ID = uuid.New()
	m.rows[p.ID] = p
	cp := *p
	return &cp, nil
}

func (m *memPicks) Update(_ context.Context, id uuid.UUID, in pick.Input, previous *pick.Pick) (*pick.Pick, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return nil, m.failing
	}
	p, ok := m.rows[id]
	if !ok {
		return nil, pick.ErrPickNotFound
	}
	pick.ApplyInput(p, in)
	m.updates = append(m.updates, previous)
	cp := *p
	return &cp, nil
}

func (m *memPicks) GetByID(_ context.Context, id uuid.UUID) (*pick.Pick, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, pick.ErrPickNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPicks) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type memCategories struct {
	byID map[uuid.UUID]*category.Category
}

func newMemCategories(names ...string) *memCategories {
	m := &memCategories{byID: map[uuid.UUID]*category.Category{}}
	for _, n := range names {
		c := &category.Category{ID: uuid.New(), Name: n, IsActive: true}
		m.byID[c.ID] = c
	}
	return m
}

func (m *memCategories) ByID(_ context.Context, id uuid.UUID) (*category.Category, error) {
	if c, ok := m.byID[id]; ok {
		return c, nil
	}
	return nil, category.ErrCategoryNotFound
}

func (m *memCategories) ByName(_ context.Context, name string) (*category.Category, error) {
	for _, c := range m.byID {
		if category.SameName(c.Name, name) {
			return c, nil
		}
	}
	return nil, category.ErrCategoryNotFound
}

var errWriteFailed = errors.New("connection reset by peer")
