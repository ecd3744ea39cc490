package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"guidelight-backend/internal/domains/board"
	"guidelight-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) board.Repository {
	return &postgresRepository{pool: pool}
}

const boardColumns = `id, name, slug, owner_id, is_default, created_at, updated_at`

func scanBoard(row pgx.Row) (*board.Board, error) {
	var b board.Board
	if err := row.Scan(&b.ID, &b.Name, &b.Slug, &b.OwnerID, &b.IsDefault, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]board.Board, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+boardColumns+` FROM boards ORDER BY is_default DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer rows.Close()

	var out []board.Board
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan board: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*board.Board, error) {
	return r.getOne(ctx, `SELECT `+boardColumns+` FROM boards WHERE id = $1`, id)
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*board.Board, error) {
	return r.getOne(ctx, `SELECT `+boardColumns+` FROM boards WHERE slug = $1`, slug)
}

func (r *postgresRepository) getOne(ctx context.Context, query string, arg any) (*board.Board, error) {
	b, err := scanBoard(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, board.ErrBoardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get board: %w", err)
	}
	return b, nil
}

func clearDefault(ctx context.Context, tx pgx.Tx, except uuid.UUID) error {
	_, err := tx.Exec(ctx, `UPDATE boards SET is_default = FALSE, updated_at = NOW() WHERE is_default AND id <> $1`, except)
	return err
}

func (r *postgresRepository) Create(ctx context.Context, b *board.Board) error {
	return mapWriteErr(database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO boards (name, slug, owner_id, is_default)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at`,
			b.Name, b.Slug, b.OwnerID, b.IsDefault,
		).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
		if err != nil || !b.IsDefault {
			return err
		}
		return clearDefault(ctx, tx, b.ID)
	}))
}

func (r *postgresRepository) Update(ctx context.Context, b *board.Board) error {
	return mapWriteErr(database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			UPDATE boards SET name = $2, slug = $3, is_default = $4, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`,
			b.ID, b.Name, b.Slug, b.IsDefault,
		).Scan(&b.UpdatedAt)
		if err != nil || !b.IsDefault {
			return err
		}
		return clearDefault(ctx, tx, b.ID)
	}))
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete board: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return board.ErrBoardNotFound
	}
	return nil
}

func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return board.ErrBoardNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return board.ErrDuplicateSlug
	}
	return fmt.Errorf("write board: %w", err)
}

func (r *postgresRepository) ListItems(ctx context.Context, boardID uuid.UUID) ([]board.Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, board_id, kind, pick_id, asset_id, text, position
		FROM board_items
		WHERE board_id = $1
		ORDER BY position ASC, created_at ASC`, boardID)
	if err != nil {
		return nil, fmt.Errorf("list board items: %w", err)
	}
	defer rows.Close()

	out := []board.Item{}
	for rows.Next() {
		var it board.Item
		if err := rows.Scan(&it.ID, &it.BoardID, &it.Kind, &it.PickID, &it.AssetID, &it.Text, &it.Position); err != nil {
			return nil, fmt.Errorf("scan board item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *postgresRepository) AddItem(ctx context.Context, it *board.Item) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO board_items (board_id, kind, pick_id, asset_id, text, position)
		VALUES ($1, $2, $3, $4, $5,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM board_items WHERE board_id = $1))
		RETURNING id, position`,
		it.BoardID, it.Kind, it.PickID, it.AssetID, it.Text,
	).Scan(&it.ID, &it.Position)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return board.ErrBoardNotFound
		}
		return fmt.Errorf("add board item: %w", err)
	}
	return nil
}

func (r *postgresRepository) DeleteItem(ctx context.Context, boardID, itemID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM board_items WHERE id = $1 AND board_id = $2`, itemID, boardID)
	if err != nil {
		return fmt.Errorf("delete board item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return board.ErrItemNotFound
	}
	return nil
}

func (r *postgresRepository) SetPositions(ctx context.Context, boardID uuid.UUID, order []uuid.UUID) error {
	ids := make(pq.StringArray, len(order))
	for i, id := range order {
		ids[i] = id.String()
	}

	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		// lock the board so concurrent reorders apply one after the other
		if _, err := tx.Exec(ctx, `SELECT 1 FROM boards WHERE id = $1 FOR UPDATE`, boardID); err != nil {
			return fmt.Errorf("lock board: %w", err)
		}
		_, err := tx.Exec(ctx, `
			UPDATE board_items AS bi
			SET position = v.ord - 1
			FROM unnest($2::uuid[]) WITH ORDINALITY AS v(id, ord)
			WHERE bi.id = v.id AND bi.board_id = $1`,
			boardID, ids)
		if err != nil {
			return fmt.Errorf("set board positions: %w", err)
		}
		_, err = tx.Exec(ctx, `UPDATE boards SET updated_at = NOW() WHERE id = $1`, boardID)
		return err
	})
}
