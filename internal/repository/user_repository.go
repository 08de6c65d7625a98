package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quickdesk/helpdesk-service/internal/domain"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// ToggleActive flips the active flag in a single statement and returns
	// the new state.
	ToggleActive(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, role *domain.Role) ([]domain.User, error)
	CountByRole(ctx context.Context) (domain.RoleCounts, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (email, name, password_hash, role, active)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Role,
		user.Active,
	).Scan(&user.ID, &user.CreatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
        SELECT id, email, name, password_hash, role, active, created_at
        FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, email, name, password_hash, role, active, created_at
        FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&user.Active,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ToggleActive(ctx context.Context, id int64) (bool, error) {
	const query = `UPDATE users SET active = NOT active WHERE id=$1 RETURNING active`

	var active bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&active); err != nil {
		return false, err
	}
	return active, nil
}

func (r *userRepository) List(ctx context.Context, role *domain.Role) ([]domain.User, error) {
	query := `
        SELECT id, email, name, password_hash, role, active, created_at
        FROM users`
	args := []any{}
	if role != nil {
		args = append(args, *role)
		query += ` WHERE role=$1`
	}
	query += ` ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.Name,
			&user.PasswordHash,
			&user.Role,
			&user.Active,
			&user.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}

func (r *userRepository) CountByRole(ctx context.Context) (domain.RoleCounts, error) {
	const query = `
        SELECT
            COUNT(*) FILTER (WHERE role='user'),
            COUNT(*) FILTER (WHERE role='agent'),
            COUNT(*) FILTER (WHERE role='admin'),
            COUNT(*)
        FROM users`

	var counts domain.RoleCounts
	if err := r.pool.QueryRow(ctx, query).Scan(
		&counts.Users,
		&counts.Agents,
		&counts.Admins,
		&counts.Total,
	); err != nil {
		return domain.RoleCounts{}, err
	}
	return counts, nil
}
