package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"guidelight-backend/internal/domains/draft"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) draft.Repository {
	return &postgresRepository{pool: pool}
}

const columns = `id, owner_id, target_pick_id, payload, content_hash, created_at, updated_at`

func scan(row pgx.Row) (*draft.Draft, error) {
	var d draft.Draft
	var payload []byte
	if err := row.Scan(&d.ID, &d.OwnerID, &d.TargetPickID, &payload, &d.ContentHash, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.Payload = payload
	return &d, nil
}

func hashOf(payload []byte) string {
	return strconv.FormatUint(xxhash.Sum64(payload), 16)
}

func (r *postgresRepository) Upsert(ctx context.Context, ownerID uuid.UUID, payload json.RawMessage, target, draftID *uuid.UUID) (*draft.Draft, error) {
	hash := hashOf(payload)

	if draftID != nil {
		d, err := scan(r.pool.QueryRow(ctx, `
			UPDATE drafts SET payload = $3, content_hash = $4, updated_at = NOW()
			WHERE id = $1 AND owner_id = $2
			RETURNING `+columns,
			*draftID, ownerID, []byte(payload), hash))
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("update draft: %w", err)
		}
		// row deleted underneath us (stale cleanup, other tab); fall through
	}

	// the unique index is NULLS NOT DISTINCT so a NULL target still conflicts
	d, err := scan(r.pool.QueryRow(ctx, `
		INSERT INTO drafts (owner_id, target_pick_id, payload, content_hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id, target_pick_id)
		DO UPDATE SET payload = EXCLUDED.payload, content_hash = EXCLUDED.content_hash, updated_at = NOW()
		RETURNING `+columns,
		ownerID, target, []byte(payload), hash))
	if err != nil {
		return nil, fmt.Errorf("upsert draft: %w", err)
	}
	return d, nil
}

func (r *postgresRepository) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM drafts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete draft: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) DeleteByTarget(ctx context.Context, ownerID uuid.UUID, target *uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM drafts WHERE owner_id = $1 AND target_pick_id IS NOT DISTINCT FROM $2`,
		ownerID, target)
	if err != nil {
		return false, fmt.Errorf("delete draft by target: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) GetByTarget(ctx context.Context, ownerID uuid.UUID, target *uuid.UUID) (*draft.Draft, error) {
	d, err := scan(r.pool.QueryRow(ctx,
		`SELECT `+columns+` FROM drafts WHERE owner_id = $1 AND target_pick_id IS NOT DISTINCT FROM $2`,
		ownerID, target))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, draft.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return d, nil
}

func (r *postgresRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]draft.Draft, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+columns+` FROM drafts WHERE owner_id = $1 ORDER BY updated_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var out []draft.Draft
	for rows.Next() {
		d, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *postgresRepository) DeleteStale(ctx context.Context, updatedBefore time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM drafts WHERE updated_at < $1`, updatedBefore)
	if err != nil {
		return 0, fmt.Errorf("delete stale drafts: %w", err)
	}
	return tag.RowsAffected(), nil
}
