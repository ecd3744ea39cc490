package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"guidelight-backend/internal/domains/draft"
	"guidelight-backend/internal/domains/pick"
	"guidelight-backend/internal/shared/apperror"
)

type publisher struct {
	drafts draft.Repository
	picks  pick.Store
}

func NewPublisher(drafts draft.Repository, picks pick.Store) draft.Publisher {
	return &publisher{drafts: drafts, picks: picks}
}

// Publish validates, writes the pick and only then deletes the draft, so a
// failed write leaves the autosaved draft in place.
func (p *publisher) Publish(ctx context.Context, req draft.PublishRequest, onPublished func(*pick.Pick)) (*pick.Pick, error) {
	if err := req.Form.Validate(); err != nil {
		return nil, err
	}

	var (
		result *pick.Pick
		target *uuid.UUID
		err    error
	)
	if req.Previous == nil {
		result, err = p.picks.Create(ctx, req.Form.ToInput(req.Actor.ID))
	} else {
		if !req.Actor.CanModify(req.Previous.StaffID) {
			return nil, apperror.Forbidden("edit this pick")
		}
		target = &req.Previous.ID
		// the owner stays the original author when a manager edits
		result, err = p.picks.Update(ctx, req.Previous.ID, req.Form.ToInput(req.Previous.StaffID), req.Previous)
	}
	if err != nil {
		log.Warn().Err(err).Str("owner_id", req.Actor.ID.String()).Msg("publish failed, draft kept")
		return nil, err
	}

	if err := p.deleteDraft(ctx, req.Actor.ID, target, req.DraftID); err != nil {
		// the pick is live; a leftover draft is cleaned up by the stale job
		log.Warn().Err(err).Str("pick_id", result.ID.String()).Msg("failed to delete draft after publish")
	}

	if onPublished != nil {
		onPublished(result)
	}
	log.Info().Str("pick_id", result.ID.String()).Str("owner_id", req.Actor.ID.String()).Msg("pick published")
	return result, nil
}

// Discard deletes the draft unconditionally; published picks are never touched
func (p *publisher) Discard(ctx context.Context, ownerID uuid.UUID, target, draftID *uuid.UUID) error {
	return p.deleteDraft(ctx, ownerID, target, draftID)
}

func (p *publisher) deleteDraft(ctx context.Context, ownerID uuid.UUID, target, draftID *uuid.UUID) error {
	if draftID != nil {
		deleted, err := p.drafts.DeleteByID(ctx, *draftID)
		if err != nil || deleted {
			return err
		}
	}
	_, err := p.drafts.DeleteByTarget(ctx, ownerID, target)
	return err
}
