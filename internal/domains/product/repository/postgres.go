package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"guidelight-backend/internal/domains/product"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) product.Repository {
	return &postgresRepository{pool: pool}
}

const columns = `id, name, brand, category_id, sku, price, is_active, created_at, updated_at`

func scan(row pgx.Row) (*product.Product, error) {
	var p product.Product
	err := row.Scan(&p.ID, &p.Name, &p.Brand, &p.CategoryID, &p.SKU, &p.Price, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepository) buildWhereClause(req product.ListProductsRequest) (string, []interface{}) {
	conditions := []string{"1=1"}
	var args []interface{}

	if q := strings.TrimSpace(req.Query); q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR brand ILIKE $%d OR sku ILIKE $%d)", n, n, n))
	}
	if req.CategoryID != nil {
		args = append(args, *req.CategoryID)
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if req.ActiveOnly {
		conditions = append(conditions, "is_active = true")
	}
	return strings.Join(conditions, " AND "), args
}

func (r *postgresRepository) List(ctx context.Context, req product.ListProductsRequest) ([]product.Product, int, error) {
	where, args := r.buildWhereClause(req)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	args = append(args, req.Limit, (req.Page-1)*req.Limit)
	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY name ASC LIMIT $%d OFFSET $%d`,
		columns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]product.Product, 0, req.Limit)
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	p, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, product.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) Create(ctx context.Context, p *product.Product) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO products (name, brand, category_id, sku, price, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		p.Name, p.Brand, p.CategoryID, p.SKU, p.Price, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return product.ErrDuplicateSKU
	}
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}
