package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guidelight-backend/internal/domains/category"
	"guidelight-backend/internal/domains/draft"
	"guidelight-backend/internal/domains/pick"
	"guidelight-backend/internal/shared"
	"guidelight-backend/internal/shared/apperror"
)

func flowerForm(t *testing.T, cats *memCategories, name string) draft.FormState {
	t.Helper()
	c, err := cats.ByName(context.Background(), category.NameFlower)
	require.NoError(t, err)
	f := draft.Defaults(c)
	f.Name = name
	return f
}

func TestPublish_ManagerEditKeepsAuthor(t *testing.T) {
	ctx := context.Background()
	drafts, picks, cats := newMemDrafts(), newMemPicks(), newMemCategories(category.NameFlower)
	author := uuid.New()
	form := flowerForm(t, cats, "Original")

	existing, err := picks.Create(ctx, form.ToInput(author))
	require.NoError(t, err)

	manager := shared.Actor{ID: uuid.New(), Role: shared.RoleManager}
	payload, _ := json.Marshal(form)
	d, err := drafts.Upsert(ctx, manager.ID, payload, &existing.ID, nil)
	require.NoError(t, err)

	form.Name = "Edited by manager"
	var called *pick.Pick
	published, err := NewPublisher(drafts, picks).Publish(ctx, draft.PublishRequest{
		Actor: manager, Form: form, Previous: existing, DraftID: &d.ID,
	}, func(p *pick.Pick) { called = p })
	require.NoError(t, err)

	assert.Equal(t, author, published.StaffID)
	assert.Equal(t, "Edited by manager", published.Title())
	assert.Same(t, published, called)
	assert.Equal(t, 0, drafts.count())
}

func TestPublish_BudtenderCannotEditOthersPick(t *testing.T) {
	ctx := context.Background()
	drafts, picks, cats := newMemDrafts(), newMemPicks(), newMemCategories(category.NameFlower)
	form := flowerForm(t, cats, "Theirs")
	existing, err := picks.Create(ctx, form.ToInput(uuid.New()))
	require.NoError(t, err)

	actor := shared.Actor{ID: uuid.New(), Role: shared.RoleBudtender}
	_, err = NewPublisher(drafts, picks).Publish(ctx, draft.PublishRequest{Actor: actor, Form: form, Previous: existing}, nil)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Empty(t, picks.updates)
}

func TestPublish_FailureSkipsCallbackAndKeepsDraft(t *testing.T) {
	ctx := context.Background()
	drafts, picks, cats := newMemDrafts(), newMemPicks(), newMemCategories(category.NameFlower)
	actor := shared.Actor{ID: uuid.New(), Role: shared.RoleBudtender}
	form := flowerForm(t, cats, "Sour Diesel")
	payload, _ := json.Marshal(form)
	d, err := drafts.Upsert(ctx, actor.ID, payload, nil, nil)
	require.NoError(t, err)

	picks.failing = errWriteFailed
	called := false
	_, err = NewPublisher(drafts, picks).Publish(ctx, draft.PublishRequest{Actor: actor, Form: form, DraftID: &d.ID},
		func(*pick.Pick) { called = true })
	assert.ErrorIs(t, err, errWriteFailed)
	assert.False(t, called)
	assert.Equal(t, 1, drafts.count())
}

func TestDiscard_FallsBackToTarget(t *testing.T) {
	ctx := context.Background()
	drafts := newMemDrafts()
	owner := uuid.New()
	_, err := drafts.Upsert(ctx, owner, json.RawMessage(`{}`), nil, nil)
	require.NoError(t, err)

	stale := uuid.New()
	require.NoError(t, NewPublisher(drafts, newMemPicks()).Discard(ctx, owner, nil, &stale))
	assert.Equal(t, 0, drafts.count())
}
