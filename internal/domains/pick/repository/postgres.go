package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"guidelight-backend/internal/domains/pick"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) pick.Repository {
	return &postgresRepository{pool: pool}
}

const selectPick = `
	SELECT p.id, p.staff_id, p.category_id, c.name, p.product_id, p.asset_id,
		p.name, p.brand, p.notes,
		p.strain_type, p.thc_percent, p.cbd_percent, p.terpenes,
		p.hardware, p.extraction,
		p.dose_mg, p.onset,
		p.deal_title, p.deal_description, p.deal_type, p.deal_value, p.deal_days, p.deal_fine_print,
		p.effect_tags, p.custom_tags, p.rating,
		p.is_active, p.status, p.last_active_at, p.created_at, p.updated_at
	FROM picks p
	JOIN categories c ON c.id = p.category_id`

func scan(row pgx.Row) (*pick.Pick, error) {
	var p pick.Pick
	err := row.Scan(
		&p.ID, &p.StaffID, &p.CategoryID, &p.CategoryName, &p.ProductID, &p.AssetID,
		&p.Name, &p.Brand, &p.Notes,
		&p.StrainType, &p.THCPercent, &p.CBDPercent, &p.Terpenes,
		&p.Hardware, &p.Extraction,
		&p.DoseMg, &p.Onset,
		&p.DealTitle, &p.DealDescription, &p.DealType, &p.DealValue, &p.DealDays, &p.DealFinePrint,
		&p.EffectTags, &p.CustomTags, &p.Rating,
		&p.IsActive, &p.Status, &p.LastActiveAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collect(rows pgx.Rows) ([]pick.Pick, error) {
	defer rows.Close()
	var out []pick.Pick
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pick: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *postgresRepository) Create(ctx context.Context, p *pick.Pick) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO picks (
			staff_id, category_id, product_id, asset_id,
			name, brand, notes,
			strain_type, thc_percent, cbd_percent, terpenes,
			hardware, extraction, dose_mg, onset,
			deal_title, deal_description, deal_type, deal_value, deal_days, deal_fine_print,
			effect_tags, custom_tags, rating,
			is_active, status, last_active_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27
		)
		RETURNING id, created_at, updated_at`,
		p.StaffID, p.CategoryID, p.ProductID, p.AssetID,
		p.Name, p.Brand, p.Notes,
		p.StrainType, p.THCPercent, p.CBDPercent, p.Terpenes,
		p.Hardware, p.Extraction, p.DoseMg, p.Onset,
		p.DealTitle, p.DealDescription, p.DealType, p.DealValue, p.DealDays, p.DealFinePrint,
		p.EffectTags, p.CustomTags, p.Rating,
		p.IsActive, p.Status, p.LastActiveAt,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create pick: %w", err)
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, p *pick.Pick) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE picks SET
			category_id = $2, product_id = $3, asset_id = $4,
			name = $5, brand = $6, notes = $7,
			strain_type = $8, thc_percent = $9, cbd_percent = $10, terpenes = $11,
			hardware = $12, extraction = $13, dose_mg = $14, onset = $15,
			deal_title = $16, deal_description = $17, deal_type = $18, deal_value = $19,
			deal_days = $20, deal_fine_print = $21,
			effect_tags = $22, custom_tags = $23, rating = $24,
			is_active = $25, status = $26, last_active_at = $27,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		p.ID, p.CategoryID, p.ProductID, p.AssetID,
		p.Name, p.Brand, p.Notes,
		p.StrainType, p.THCPercent, p.CBDPercent, p.Terpenes,
		p.Hardware, p.Extraction, p.DoseMg, p.Onset,
		p.DealTitle, p.DealDescription, p.DealType, p.DealValue, p.DealDays, p.DealFinePrint,
		p.EffectTags, p.CustomTags, p.Rating,
		p.IsActive, p.Status, p.LastActiveAt,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return pick.ErrPickNotFound
	}
	if err != nil {
		return fmt.Errorf("update pick: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*pick.Pick, error) {
	p, err := scan(r.pool.QueryRow(ctx, selectPick+` WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, pick.ErrPickNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get pick: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*pick.Pick, error) {
	out := make(map[uuid.UUID]*pick.Pick, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make(pq.StringArray, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	rows, err := r.pool.Query(ctx, selectPick+` WHERE p.id = ANY($1::uuid[])`, keys)
	if err != nil {
		return nil, fmt.Errorf("get picks: %w", err)
	}
	list, err := collect(rows)
	if err != nil {
		return nil, err
	}
	for i := range list {
		out[list[i].ID] = &list[i]
	}
	return out, nil
}

func (r *postgresRepository) List(ctx context.Context, filter pick.ListFilter) ([]pick.Pick, int, error) {
	conditions := []string{"1=1"}
	var args []interface{}
	if filter.StaffID != nil {
		args = append(args, *filter.StaffID)
		conditions = append(conditions, fmt.Sprintf("p.staff_id = $%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conditions = append(conditions, fmt.Sprintf("p.is_active = $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM picks p WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count picks: %w", err)
	}

	query := selectPick + ` WHERE ` + where + ` ORDER BY p.last_active_at DESC NULLS LAST, p.created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list picks: %w", err)
	}
	list, err := collect(rows)
	return list, total, err
}

func (r *postgresRepository) ListVisible(ctx context.Context) ([]pick.Pick, error) {
	rows, err := r.pool.Query(ctx, selectPick+`
		WHERE p.is_active = true AND p.status = 'published' AND c.is_active = true
		ORDER BY c.sort_order ASC, p.last_active_at DESC NULLS LAST`)
	if err != nil {
		return nil, fmt.Errorf("list visible picks: %w", err)
	}
	return collect(rows)
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM picks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete pick: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pick.ErrPickNotFound
	}
	return nil
}
