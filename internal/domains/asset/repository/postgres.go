package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"guidelight-backend/internal/domains/asset"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) asset.Repository {
	return &postgresRepository{pool: pool}
}

const columns = `id, owner_id, object_key, original_url, thumbnail_url, medium_url, status, content_type, size_bytes, created_at, updated_at`

func scan(row pgx.Row) (*asset.Asset, error) {
	var a asset.Asset
	err := row.Scan(&a.ID, &a.OwnerID, &a.ObjectKey, &a.OriginalURL, &a.ThumbnailURL, &a.MediumURL,
		&a.Status, &a.ContentType, &a.SizeBytes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts with the id chosen by the service so the object key is known before the row exists
func (r *postgresRepository) Create(ctx context.Context, a *asset.Asset) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO assets (id, owner_id, object_key, original_url, status, content_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		a.ID, a.OwnerID, a.ObjectKey, a.OriginalURL, a.Status, a.ContentType, a.SizeBytes,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create asset: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	a, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM assets WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, asset.ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return a, nil
}

func (r *postgresRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*asset.Asset, error) {
	out := make(map[uuid.UUID]*asset.Asset, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make(pq.StringArray, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM assets WHERE id = ANY($1::uuid[])`, keys)
	if err != nil {
		return nil, fmt.Errorf("get assets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		out[a.ID] = a
	}
	return out, rows.Err()
}

func (r *postgresRepository) SetVariants(ctx context.Context, id uuid.UUID, thumbnailURL, mediumURL string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE assets
		SET thumbnail_url = $2, medium_url = $3, status = $4, updated_at = NOW()
		WHERE id = $1`,
		id, thumbnailURL, mediumURL, asset.StatusReady)
	if err != nil {
		return fmt.Errorf("set asset variants: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return asset.ErrAssetNotFound
	}
	return nil
}

func (r *postgresRepository) SetStatus(ctx context.Context, id uuid.UUID, status asset.Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE assets SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set asset status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return asset.ErrAssetNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return asset.ErrAssetNotFound
	}
	return nil
}
