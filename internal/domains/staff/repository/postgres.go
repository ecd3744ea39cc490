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

	"guidelight-backend/internal/domains/staff"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository hides the concrete type behind staff.Repository
func NewPostgresRepository(pool *pgxpool.Pool) staff.Repository {
	return &postgresRepository{pool: pool}
}

const staffColumns = `id, email, password_hash, display_name, role, is_active, last_login_at, created_at, updated_at`

func scanStaff(row pgx.Row) (*staff.Staff, error) {
	var s staff.Staff
	err := row.Scan(
		&s.ID, &s.Email, &s.PasswordHash, &s.DisplayName, &s.Role,
		&s.IsActive, &s.LastLoginAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepository) Create(ctx context.Context, s *staff.Staff) error {
	query := `
		INSERT INTO staff (email, password_hash, display_name, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, s.Email, s.PasswordHash, s.DisplayName, s.Role, s.IsActive).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return staff.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert staff: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*staff.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`
	s, err := scanStaff(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, staff.ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find staff %s: %w", id, err)
	}
	return s, nil
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*staff.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE lower(email) = lower($1)`
	s, err := scanStaff(r.pool.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, staff.ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find staff by email: %w", err)
	}
	return s, nil
}

func (r *postgresRepository) List(ctx context.Context, req staff.ListStaffRequest) ([]staff.Staff, int, error) {
	var (
		clauses []string
		args    []interface{}
	)
	if req.Role != "" {
		args = append(args, req.Role)
		clauses = append(clauses, fmt.Sprintf("role = $%d", len(args)))
	}
	if req.IsActive != nil {
		args = append(args, *req.IsActive)
		clauses = append(clauses, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if s := strings.TrimSpace(req.Search); s != "" {
		args = append(args, "%"+s+"%")
		clauses = append(clauses, fmt.Sprintf("(email ILIKE $%d OR display_name ILIKE $%d)", len(args), len(args)))
	}

	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM staff `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count staff: %w", err)
	}

	limit, offset := req.Limit, (req.Page-1)*req.Limit
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM staff %s ORDER BY display_name ASC LIMIT $%d OFFSET $%d`,
		staffColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var out []staff.Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan staff: %w", err)
		}
		out = append(out, *s)
	}
	return out, total, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, s *staff.Staff) error {
	query := `
		UPDATE staff
		SET display_name = $2, role = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query, s.ID, s.DisplayName, s.Role, s.IsActive).Scan(&s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return staff.ErrStaffNotFound
	}
	if err != nil {
		return fmt.Errorf("update staff: %w", err)
	}
	return nil
}

func (r *postgresRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE staff SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return staff.ErrStaffNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE staff SET last_login_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}
